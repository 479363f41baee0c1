package sixel

import (
	"io"
	"strconv"
)

const (
	escDCS7 = "\x1bP"
	escST7  = "\x1b\\"
	escDCS8 = "\x90"
	escST8  = "\x9c"
)

// Encoder is component D plus the top-level framing from §4.C "Output
// framing" and §6 "Wire format": it owns the sink, run emitter and
// palette tracker for one encode and streams a complete DCS-framed sixel
// body band by band. An Encoder is single-use: call EncodeIndexed once per
// output image (§5 "the encoder holds no state across images except the
// sink callback").
type Encoder struct {
	w                io.Writer
	eightBitControls bool
	stripeMergeGap   int
	sink             *byteSink
	run              *runEmitter
}

// NewEncoder wraps w with the default 7-bit control sequences and the
// default stripe-merge gap. Pass With* Option values to EncodeIndexed to
// change either; this constructor exists for callers that quantize
// separately and encode an already-indexed image themselves.
func NewEncoder(w io.Writer) *Encoder {
	e := &Encoder{w: w, stripeMergeGap: defaultStripeMergeGap}
	e.sink = newByteSink(func(p []byte) error {
		_, err := w.Write(p)
		return err
	})
	e.run = newRunEmitter(e.sink)
	return e
}

func (e *Encoder) dcsIntro() string {
	if e.eightBitControls {
		return escDCS8
	}
	return escDCS7
}

func (e *Encoder) dcsTerm() string {
	if e.eightBitControls {
		return escST8
	}
	return escST7
}

// EncodeIndexed streams a full sixel body for an already-quantized
// indexed image: raster attributes, every six-row band in order, and the
// terminating DCS string (§4.C output framing, §6 wire format). The
// raster attribute string defaults to `"1;1;W;H` per §6.
func (e *Encoder) EncodeIndexed(indices []int, w, h int, pal Palette, opts ...Option) error {
	return e.encodeIndexed(indices, w, h, pal, resolveOptions(opts...))
}

func (e *Encoder) encodeIndexed(indices []int, w, h int, pal Palette, opts *Options) error {
	if err := pal.validate("sixel.Encoder.EncodeIndexed"); err != nil {
		return err
	}
	if w <= 0 || h <= 0 {
		return newError(KindBadArgument, "sixel.Encoder.EncodeIndexed", "width and height must be positive")
	}
	if len(indices) != w*h {
		return newError(KindBadInput, "sixel.Encoder.EncodeIndexed", "index buffer length does not match width*height")
	}

	e.eightBitControls = opts.EightBitControls
	gap := opts.StripeMergeGap
	if gap <= 0 {
		gap = defaultStripeMergeGap
	}
	e.stripeMergeGap = gap

	tracker := newPaletteTracker(func(s string) {
		e.sink.emitBytes([]byte(s))
	}, pal.Len())

	e.sink.emitBytes([]byte(e.dcsIntro()))
	e.sink.emitByte('q')
	e.sink.emitBytes([]byte(rasterAttrs(w, h)))
	e.sink.emitByte('\n')

	transparent := opts.TransparentIndex

	for yBase := 0; yBase < h; yBase += bandHeight {
		rows := bandHeight
		if yBase+rows > h {
			rows = h - yBase
		}
		encodeBand(e.run, tracker, pal, indices, w, rows, yBase, transparent, e.stripeMergeGap)
		e.run.lineFeed()
	}
	e.run.flushRun()
	e.sink.emitBytes([]byte(e.dcsTerm()))
	e.sink.flush()

	if e.sink.err != nil {
		return wrapError(KindIO, "sixel.Encoder.EncodeIndexed", "writing encoded output", e.sink.err)
	}
	return nil
}

// rasterAttrs renders the `"1;1;W;H` default raster-attribute string (§6:
// DECGRA introducer `"`, pixel aspect numerator/denominator 1;1, then
// image width and height).
func rasterAttrs(w, h int) string {
	return `"1;1;` + strconv.Itoa(w) + ";" + strconv.Itoa(h)
}
