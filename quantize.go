package sixel

// buildPaletteFromBoxes converts each median-cut box to its output color
// using the configured representative policy (§4.D step 4).
func buildPaletteFromBoxes(boxes []*colorBox, rep Representative) []Color {
	colors := make([]Color, len(boxes))
	for i, bx := range boxes {
		r, g, b := bx.representative(rep)
		colors[i] = Color{R: r, G: g, B: b}
	}
	return colors
}

// paletteStageResult is what the quantizer hands the pipeline driver
// after NEW -> PALETTE_BUILT (§4.G). When the source was already indexed,
// Indices is populated directly and RGB is nil: there is nothing left for
// the MAPPED stage to do but adopt it.
type paletteStageResult struct {
	Palette    Palette
	RGB        []byte
	Indices    []int
	OrigColors int
}

// buildPaletteStage runs the quantizer (§4.D) or, for an already-indexed
// source or a forced palette, takes the short path §4.D.6 and §7 describe.
func buildPaletteStage(img *RawImage, o *Options) (*paletteStageResult, error) {
	const op = "sixel.Quantize"
	if img == nil {
		return nil, newError(KindBadArgument, op, "image is nil")
	}
	if img.Width <= 0 || img.Height <= 0 {
		return nil, newError(KindBadArgument, op, "width and height must be positive")
	}

	if img.Format.isIndexed() {
		idxBytes, err := normalizePAL8(img)
		if err != nil {
			return nil, err
		}
		if err := img.Palette.validate(op); err != nil {
			return nil, err
		}
		indices := make([]int, len(idxBytes))
		for i, b := range idxBytes {
			indices[i] = int(b)
		}
		return &paletteStageResult{Palette: img.Palette, Indices: indices, OrigColors: img.Palette.Len()}, nil
	}

	rgb, err := normalizeRGB888(img)
	if err != nil {
		return nil, err
	}

	if o.ForcePalette {
		if err := o.ForcedPalette.validate(op); err != nil {
			return nil, err
		}
		pal := o.ForcedPalette
		if o.TransparentIndex >= 0 {
			pal.TransparentIndex = o.TransparentIndex
		}
		return &paletteStageResult{Palette: pal, RGB: rgb, OrigColors: pal.Len()}, nil
	}

	channelBits := histChannelBits(o.Quality)
	buckets, origColors := buildHistogram(rgb, o.Colorspace, channelBits)
	if len(buckets) == 0 {
		return nil, newError(KindRuntime, op, "empty histogram")
	}

	if len(buckets) == 1 {
		// Single-color shortcut: the only locally recovered failure mode
		// §7 names. A 1-entry palette needs no split, no refinement.
		r, g, b := buckets[0].meanColor()
		r, g, b = fromColorspace(o.Colorspace, r, g, b)
		pal := NewPalette([]Color{{R: r, G: g, B: b}})
		if o.TransparentIndex >= 0 {
			pal.TransparentIndex = o.TransparentIndex
		}
		return &paletteStageResult{Palette: pal, RGB: rgb, OrigColors: origColors}, nil
	}

	boxes := medianCut(buckets, o.Colors, o.LargestDim)
	colors := buildPaletteFromBoxes(boxes, o.Representative)

	// AUTO quality refines like HIGH: the default ought to give the best
	// quality a caller didn't have to ask for, and the AUTO histogram
	// depth already matches HIGH's 6 bits rather than LOW's 5 (§4.D.1).
	// Recorded as an Open Question decision in DESIGN.md.
	if o.Quality != QualityLow {
		colors = kmeansRefine(buckets, colors, o.KMeansIterations, o.KMeansEpsilon, o.WeightR, o.WeightG, o.WeightB)
	}

	// Boxes and k-means both operated on toColorspace-converted bytes;
	// convert the final representatives back to gamma sRGB, the space
	// the SIXEL color introducer always transmits (§3, §4.B).
	for i, c := range colors {
		r, g, b := fromColorspace(o.Colorspace, c.R, c.G, c.B)
		colors[i] = Color{R: r, G: g, B: b}
	}

	pal := NewPalette(colors)
	if o.TransparentIndex >= 0 {
		pal.TransparentIndex = o.TransparentIndex
	}
	return &paletteStageResult{Palette: pal, RGB: rgb, OrigColors: origColors}, nil
}

// mapPixels is the PALETTE_BUILT -> MAPPED stage (§4.G): for every pixel,
// add the accumulated dither residual, clamp, look up the nearest palette
// entry, record it, and propagate the new error forward.
func mapPixels(rgb []byte, w, h int, pal Palette, o *Options) []int {
	lut := newLookup(o.Lookup, pal, o.WeightR, o.WeightG, o.WeightB, o.ComplexionFactor)
	method := resolveDiffusion(o.Diffusion, pal.Len())
	kernel := kernelFor(method)
	ds := newDitherState(kernel, w)

	indices := make([]int, w*h)
	for y := 0; y < h; y++ {
		rowOff := y * w
		for x := 0; x < w; x++ {
			i := rowOff + x
			r, g, b := int(rgb[i*3]), int(rgb[i*3+1]), int(rgb[i*3+2])

			er, eg, eb := ds.errorAt(x)
			tr := clampByte(r + int(er))
			tg := clampByte(g + int(eg))
			tb := clampByte(b + int(eb))

			idx := lut.lookup(tr, tg, tb)
			indices[i] = idx

			c := pal.Colors[idx]
			ds.propagate(x, int32(tr)-int32(c.R), int32(tg)-int32(c.G), int32(tb)-int32(c.B))
		}
		ds.advanceRow()
	}
	return indices
}

// QuantizeResult is the output of a stand-alone Quantize call: a palette
// and the index buffer it maps source pixels to (§3 data flow).
type QuantizeResult struct {
	Palette    Palette
	Indices    []int
	OrigColors int
}

// Quantize builds a palette for img and maps every pixel to it, running
// the median-cut quantizer, optional k-means refinement, and the
// configured dither kernel (§4.D, §4.F). It does not encode to the wire
// format; pair it with Encoder.EncodeIndexed or use Encode for the
// one-shot pipeline.
func Quantize(img *RawImage, opts ...Option) (*QuantizeResult, error) {
	o := resolveOptions(opts...)
	stage, err := buildPaletteStage(img, o)
	if err != nil {
		setAdditionalMessage(err.Error())
		return nil, err
	}

	indices := stage.Indices
	if indices == nil {
		indices = mapPixels(stage.RGB, img.Width, img.Height, stage.Palette, o)
	}
	return &QuantizeResult{Palette: stage.Palette, Indices: indices, OrigColors: stage.OrigColors}, nil
}
