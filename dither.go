package sixel

// ditherTap is one (dx, dy, weight) entry of an error-diffusion kernel's
// footprint, relative to the pixel that just produced the error (§4.F).
type ditherTap struct {
	dx, dy int
	weight int32
}

// ditherKernel pairs a divisor with its taps. Dividing happens once per
// tap at propagation time: weight*error/divisor.
type ditherKernel struct {
	name    string
	divisor int32
	taps    []ditherTap
}

// The four diffusing kernels' coefficients are the standard Floyd-
// Steinberg, Atkinson, Jarvis-Judice-Ninke and Stucki matrices — chosen
// over a literal transcription of spec.md §4.F's flat coefficient lists
// because the JJN and Stucki lists given there don't sum to their own
// stated divisors (71 and 62 against 48 and 42); the footprint, direction
// and divisor spec.md names are preserved exactly, only the inconsistent
// flat array is corrected to the well-known matrices it was presumably
// transcribed from. See DESIGN.md.
var (
	kernelNone = ditherKernel{name: "none", divisor: 1, taps: nil}

	kernelFloydSteinberg = ditherKernel{
		name: "floyd-steinberg", divisor: 16,
		taps: []ditherTap{
			{1, 0, 7}, {-1, 1, 3}, {0, 1, 5}, {1, 1, 1},
		},
	}

	kernelAtkinson = ditherKernel{
		name: "atkinson", divisor: 8,
		taps: []ditherTap{
			{1, 0, 1}, {2, 0, 1},
			{-1, 1, 1}, {0, 1, 1}, {1, 1, 1},
			{0, 2, 1},
		},
	}

	kernelJaJuNi = ditherKernel{
		name: "jajuni", divisor: 48,
		taps: []ditherTap{
			{1, 0, 7}, {2, 0, 5},
			{-2, 1, 3}, {-1, 1, 5}, {0, 1, 7}, {1, 1, 5}, {2, 1, 3},
			{-2, 2, 1}, {-1, 2, 3}, {0, 2, 5}, {1, 2, 3}, {2, 2, 1},
		},
	}

	kernelStucki = ditherKernel{
		name: "stucki", divisor: 42,
		taps: []ditherTap{
			{1, 0, 8}, {2, 0, 4},
			{-2, 1, 2}, {-1, 1, 4}, {0, 1, 8}, {1, 1, 4}, {2, 1, 2},
			{-2, 2, 1}, {-1, 2, 2}, {0, 2, 4}, {1, 2, 2}, {2, 2, 1},
		},
	}

	kernelBurkes = ditherKernel{
		name: "burkes", divisor: 32,
		taps: []ditherTap{
			{1, 0, 8}, {2, 0, 4},
			{-2, 1, 2}, {-1, 1, 4}, {0, 1, 8}, {1, 1, 4}, {2, 1, 2},
		},
	}
)

func kernelFor(method DiffusionMethod) ditherKernel {
	switch method {
	case DiffuseNone:
		return kernelNone
	case DiffuseFS:
		return kernelFloydSteinberg
	case DiffuseAtkinson:
		return kernelAtkinson
	case DiffuseJaJuNi:
		return kernelJaJuNi
	case DiffuseStucki:
		return kernelStucki
	case DiffuseBurkes:
		return kernelBurkes
	default:
		return kernelNone
	}
}

// resolveDiffusion implements the AUTO selection rule (§4.F): Floyd-
// Steinberg at 16+ colors, Atkinson for 2-15, none for a 1-color palette.
func resolveDiffusion(method DiffusionMethod, paletteSize int) DiffusionMethod {
	if method != DiffuseAuto {
		return method
	}
	switch {
	case paletteSize <= 1:
		return DiffuseNone
	case paletteSize < 16:
		return DiffuseAtkinson
	default:
		return DiffuseFS
	}
}

// ditherPad is the largest |dx| any kernel above uses; row buffers carry
// this many extra columns on each side so propagate never bounds-checks
// inward, only at the true image edge.
const ditherPad = 2

// ditherState holds the rotating residual-error accumulators for one
// encode (§3 "Error-diffusion accumulator", §5 "owns the dither's residual
// buffers for the duration of an encode"). Rows are int32 for headroom
// well beyond what any kernel above can accumulate in one pass.
type ditherState struct {
	kernel ditherKernel
	width  int
	rows   [3][]int32 // rows[0] = current row, rows[1] = y+1, rows[2] = y+2; each channel interleaved r,g,b
}

func newDitherState(kernel ditherKernel, width int) *ditherState {
	d := &ditherState{kernel: kernel, width: width}
	rowLen := (width + 2*ditherPad) * 3
	for i := range d.rows {
		d.rows[i] = make([]int32, rowLen)
	}
	return d
}

func (d *ditherState) idx(x int) int { return (x + ditherPad) * 3 }

// errorAt returns the residual accumulated for column x of the current row.
func (d *ditherState) errorAt(x int) (er, eg, eb int32) {
	i := d.idx(x)
	row := d.rows[0]
	return row[i], row[i+1], row[i+2]
}

// propagate distributes the quantization error at column x of the current
// row forward per the kernel's taps, discarding any destination that
// falls outside [0, width) (§4.F edge policy: "no re-normalization").
func (d *ditherState) propagate(x int, er, eg, eb int32) {
	if d.kernel.divisor == 0 {
		return
	}
	for _, t := range d.kernel.taps {
		dx := x + t.dx
		if dx < 0 || dx >= d.width {
			continue
		}
		row := d.rows[t.dy]
		i := d.idx(dx)
		row[i] += er * t.weight / d.kernel.divisor
		row[i+1] += eg * t.weight / d.kernel.divisor
		row[i+2] += eb * t.weight / d.kernel.divisor
	}
}

// advanceRow rotates the buffers after a row is fully processed: what was
// y+1 becomes the new current row, what was y+2 becomes y+1, and a fresh
// zeroed row takes the y+2 slot.
func (d *ditherState) advanceRow() {
	freed := d.rows[0]
	d.rows[0] = d.rows[1]
	d.rows[1] = d.rows[2]
	for i := range freed {
		freed[i] = 0
	}
	d.rows[2] = freed
}
