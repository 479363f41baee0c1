/*
Package sixel converts raster images to the DEC SIXEL terminal graphics
encoding. It does not decode SIXEL streams.

It implements the three pieces that decide output correctness, image
quality and perceptual fidelity: a band/run/palette encoder that emits
the escape-sequence byte stream, a median-cut + k-means color quantizer
with an accelerated nearest-color lookup table, and a five-kernel
error-diffusion ditherer.

Usage:

	result, err := sixel.Quantize(img, sixel.WithColors(16))
	if err != nil {
	    log.Fatal(err)
	}
	var buf bytes.Buffer
	enc := sixel.NewEncoder(&buf)
	if err := enc.EncodeIndexed(result.Indices, img.Width, img.Height, result.Palette); err != nil {
	    log.Fatal(err)
	}

Or, to run quantize, dither and encode in one pass:

	var buf bytes.Buffer
	err := sixel.Encode(&buf, img, sixel.WithColors(256), sixel.WithDiffusionMethod(sixel.DiffuseStucki))

Image decoding, output writers, terminal-capability probing and CLI
wrappers are not this package's job — bring your own decoded pixels as a
*RawImage.
*/
package sixel
