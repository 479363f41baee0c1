package sixel

import "io"

// driverState names the pipeline driver's position in the §4.G state
// machine: NEW -> PALETTE_BUILT -> MAPPED -> ENCODED -> NEW.
type driverState int

const (
	stateNew driverState = iota
	statePaletteBuilt
	stateMapped
	stateEncoded
)

func (s driverState) String() string {
	switch s {
	case stateNew:
		return "NEW"
	case statePaletteBuilt:
		return "PALETTE_BUILT"
	case stateMapped:
		return "MAPPED"
	case stateEncoded:
		return "ENCODED"
	default:
		return "unknown"
	}
}

// Driver orchestrates quantize -> (optional dither) -> band-encode (§4.G,
// component I). Its stages must run in order; calling one out of turn is
// a KindRuntime error. A Driver is reusable across images: teardown (run
// automatically after Encode, and on any failure) returns it to NEW.
type Driver struct {
	opts  *Options
	state driverState

	img        *RawImage
	stage      *paletteStageResult
	indices    []int
	resources  *refCounted
}

// NewDriver builds a Driver configured by opts. Each stage call resolves
// against the same Options for the Driver's lifetime.
func NewDriver(opts ...Option) *Driver {
	return &Driver{opts: resolveOptions(opts...), state: stateNew}
}

func (d *Driver) fail(op string, err error) error {
	d.teardown()
	setAdditionalMessage(err.Error())
	d.opts.logger().Error("pipeline stage failed", "op", op, "err", err)
	return err
}

// teardown releases whatever resources the in-progress encode holds and
// returns the driver to NEW (§4.G "any failure returns to NEW after
// resource teardown", §5 "no resource may outlive the allocator").
func (d *Driver) teardown() {
	if d.resources != nil {
		d.resources.unref()
		d.resources = nil
	}
	d.stage = nil
	d.indices = nil
	d.img = nil
	d.state = stateNew
}

// BuildPalette runs NEW -> PALETTE_BUILT: the quantizer produces (or
// adopts) a palette for img. Invariant on success: the palette is
// non-empty and has at most 256 entries (§4.G).
func (d *Driver) BuildPalette(img *RawImage) error {
	const op = "sixel.Driver.BuildPalette"
	if d.state != stateNew {
		return newError(KindRuntime, op, "driver must be in NEW state, got "+d.state.String())
	}

	d.opts.logger().Debug("building palette", "width", img.Width, "height", img.Height, "colors", d.opts.Colors)
	stage, err := buildPaletteStage(img, d.opts)
	if err != nil {
		return d.fail(op, err)
	}
	if err := stage.Palette.validate(op); err != nil {
		return d.fail(op, err)
	}

	d.img = img
	d.stage = stage
	d.resources = newRefCounted(func() {})
	d.state = statePaletteBuilt
	return nil
}

// MapPixels runs PALETTE_BUILT -> MAPPED: every source pixel is assigned
// a palette index, with the configured dither kernel propagating
// quantization error forward. Invariant on success: the index buffer has
// the same dimensions as the source (§4.G).
func (d *Driver) MapPixels() error {
	const op = "sixel.Driver.MapPixels"
	if d.state != statePaletteBuilt {
		return newError(KindRuntime, op, "driver must be in PALETTE_BUILT state, got "+d.state.String())
	}

	if d.stage.Indices != nil {
		d.indices = d.stage.Indices
	} else {
		d.opts.logger().Debug("mapping pixels", "lookup", d.opts.Lookup, "diffusion", d.opts.Diffusion)
		d.indices = mapPixels(d.stage.RGB, d.img.Width, d.img.Height, d.stage.Palette, d.opts)
	}

	if len(d.indices) != d.img.Width*d.img.Height {
		return d.fail(op, newError(KindRuntime, op, "mapped index buffer size mismatch"))
	}
	d.state = stateMapped
	return nil
}

// Encode runs MAPPED -> ENCODED, streaming the band-encoded sixel body to
// w, then tears down and returns to NEW so the Driver can be reused.
func (d *Driver) Encode(w io.Writer) error {
	const op = "sixel.Driver.Encode"
	if d.state != stateMapped {
		return newError(KindRuntime, op, "driver must be in MAPPED state, got "+d.state.String())
	}

	enc := NewEncoder(w)
	if err := enc.encodeIndexed(d.indices, d.img.Width, d.img.Height, d.stage.Palette, d.opts); err != nil {
		return d.fail(op, err)
	}

	d.opts.logger().Debug("encode complete", "colors", d.stage.Palette.Len(), "origcolors", d.stage.OrigColors)
	// §4.G: ENCODED is momentary — the cycle always returns to NEW once
	// the stream is flushed, freeing the palette and index buffer for reuse.
	d.state = stateEncoded
	d.teardown()
	return nil
}

// Palette returns the palette built by the most recent BuildPalette call.
// Valid from PALETTE_BUILT until Encode returns or a stage fails: both tear
// it down, after which Palette returns an empty Palette.
func (d *Driver) Palette() Palette {
	if d.stage == nil {
		return Palette{}
	}
	return d.stage.Palette
}

// Encode is the one-shot pipeline: quantize img, dither-map it, and
// stream the complete sixel body to w (§2 "pipeline driver").
func Encode(w io.Writer, img *RawImage, opts ...Option) error {
	d := NewDriver(opts...)
	if err := d.BuildPalette(img); err != nil {
		return err
	}
	if err := d.MapPixels(); err != nil {
		return err
	}
	return d.Encode(w)
}
