package sixel

import (
	"io"
	"log/slog"
)

// QualityMode selects how much effort the quantizer spends refining the
// palette (§6, §4.D).
type QualityMode int

const (
	QualityAuto QualityMode = iota
	QualityHigh
	QualityLow
)

// LargestDim selects the axis-selection policy for median-cut box
// splitting (§4.D).
type LargestDim int

const (
	LargestAuto LargestDim = iota
	LargestNorm
	LargestLum
)

// Representative selects how a median-cut box's output color is derived (§4.D).
type Representative int

const (
	RepAuto Representative = iota
	RepCenterBox
	RepAverageColors
	RepAveragePixels
)

// DiffusionMethod selects an error-diffusion kernel (§4.F).
type DiffusionMethod int

const (
	DiffuseAuto DiffusionMethod = iota
	DiffuseNone
	DiffuseFS
	DiffuseAtkinson
	DiffuseJaJuNi
	DiffuseStucki
	DiffuseBurkes
)

// LookupPolicy selects the nearest-color search strategy (§4.E).
type LookupPolicy int

const (
	LookupAuto LookupPolicy = iota
	LookupNone
	Lookup5Bit
	Lookup6Bit
	LookupCertLUT
)

// Colorspace selects the working color space for the histogram, box
// splitting and k-means refinement (§3 palette model). Palette entries and
// the nearest-color lookup always use gamma sRGB.
type Colorspace int

const (
	ColorspaceGammaSRGB Colorspace = iota
	ColorspaceLinear
	ColorspaceOklab
	ColorspaceSMPTEC
)

// defaultStripeMergeGap is the "fewer than 10 zero columns" constant from
// §4.C, step 2 — an empirical win for real images, exposed for tuning per
// §9's open question.
const defaultStripeMergeGap = 10

// defaultBandSkip mirrors the original "(h/240)*6" palette-frequency pass
// skip from §9's open question. It is only stored as the default of
// Options.BandSkip; this package has no palette-frequency pass that reads it.
func defaultBandSkip(h int) int {
	return (h / 240) * 6
}

// Options collects every driver-level configuration knob from §6's table,
// plus the ambient diagnostics and tuning hooks §9 leaves as open
// questions. Entry points build one from a chain of Option functions via
// resolveOptions; the zero value is never used directly because required fields (Colors,
// weights) need their AUTO defaults resolved first.
type Options struct {
	Colors            int
	LargestDim        LargestDim
	Representative    Representative
	Quality           QualityMode
	Diffusion         DiffusionMethod
	Lookup            LookupPolicy
	Colorspace        Colorspace
	ForcedPalette     Palette
	ForcePalette      bool
	TransparentIndex  int // -1 means unset
	EightBitControls  bool
	WeightR           int
	WeightG           int
	WeightB           int
	ComplexionFactor  int
	KMeansIterations  int
	KMeansEpsilon     float64
	StripeMergeGap    int
	BandSkip          func(height int) int
	Logger            *slog.Logger
}

// Option mutates an in-progress Options value.
type Option func(*Options)

// defaultOptions returns the baseline configuration: 256 colors, AUTO
// policies throughout, no transparent index, 7-bit controls, the
// perceptual luma weights libsixel defaults to.
func defaultOptions() *Options {
	return &Options{
		Colors:           256,
		LargestDim:       LargestAuto,
		Representative:   RepAuto,
		Quality:          QualityAuto,
		Diffusion:        DiffuseAuto,
		Lookup:           LookupAuto,
		Colorspace:       ColorspaceGammaSRGB,
		TransparentIndex: -1,
		WeightR:          299,
		WeightG:          587,
		WeightB:          114,
		ComplexionFactor: 1,
		KMeansIterations: 8,
		KMeansEpsilon:    0.5,
		StripeMergeGap:   defaultStripeMergeGap,
		BandSkip:         defaultBandSkip,
	}
}

// resolveOptions builds a concrete Options from a caller's Option list and
// clamps Colors to 2..256. AUTO policies are left as AUTO here and resolved
// where they are used (e.g. Diffusion AUTO in mapPixels, by the built
// palette's size). Called once at the top of each entry point, never
// mutated afterward.
func resolveOptions(opts ...Option) *Options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.Colors < 2 {
		o.Colors = 2
	}
	if o.Colors > 256 {
		o.Colors = 256
	}
	return o
}

func WithColors(n int) Option {
	return func(o *Options) { o.Colors = n }
}

func WithQuality(m QualityMode) Option {
	return func(o *Options) { o.Quality = m }
}

func WithLargestDim(d LargestDim) Option {
	return func(o *Options) { o.LargestDim = d }
}

func WithRepresentative(r Representative) Option {
	return func(o *Options) { o.Representative = r }
}

func WithDiffusionMethod(d DiffusionMethod) Option {
	return func(o *Options) { o.Diffusion = d }
}

func WithLookupPolicy(p LookupPolicy) Option {
	return func(o *Options) { o.Lookup = p }
}

func WithColorspace(c Colorspace) Option {
	return func(o *Options) { o.Colorspace = c }
}

// WithForcedPalette skips the quantizer and uses pal as-is (§4.D.6, §6
// force-palette).
func WithForcedPalette(pal Palette) Option {
	return func(o *Options) {
		o.ForcedPalette = pal
		o.ForcePalette = true
	}
}

func WithTransparentIndex(idx int) Option {
	return func(o *Options) { o.TransparentIndex = idx }
}

func With8BitControls(v bool) Option {
	return func(o *Options) { o.EightBitControls = v }
}

// WithWeights sets the per-channel squared-distance weights used by the
// quantizer and lookup table (§4.D step 5, §4.E). Defaults to the
// ITU-ish luma weights (299, 587, 114).
func WithWeights(r, g, b int) Option {
	return func(o *Options) { o.WeightR, o.WeightG, o.WeightB = r, g, b }
}

// WithComplexionFactor scales the red-channel weight to bias palette
// distance toward skin-tone preservation (glossary: "complexion factor").
func WithComplexionFactor(factor int) Option {
	return func(o *Options) { o.ComplexionFactor = factor }
}

func WithKMeansIterations(n int) Option {
	return func(o *Options) { o.KMeansIterations = n }
}

func WithKMeansEpsilon(eps float64) Option {
	return func(o *Options) { o.KMeansEpsilon = eps }
}

// WithStripeMergeGap overrides the band encoder's run-merge gap (§4.C
// step 2, §9 open question). Default 10.
func WithStripeMergeGap(gap int) Option {
	return func(o *Options) { o.StripeMergeGap = gap }
}

// WithBandSkip sets Options.BandSkip, the palette-frequency row-skip
// function (§9 open question). Default is (height/240)*6. No stage of this
// package reads the value.
func WithBandSkip(fn func(height int) int) Option {
	return func(o *Options) { o.BandSkip = fn }
}

// WithLogger attaches structured diagnostics at stage boundaries. Nil is
// the default and disables logging entirely: the logger accessor then
// hands every call site a logger that discards its output.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func (o *Options) logger() *slog.Logger {
	if o.Logger == nil {
		return discardLogger
	}
	return o.Logger
}
