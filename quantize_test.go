package sixel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solidImage(w, h int, r, g, b byte) *RawImage {
	pix := make([]byte, w*h*3)
	for i := 0; i < w*h; i++ {
		pix[i*3], pix[i*3+1], pix[i*3+2] = r, g, b
	}
	return &RawImage{Width: w, Height: h, Format: RGB888, Pix: pix}
}

func TestQuantizeSolidColorShortcut(t *testing.T) {
	// §8 boundary case + scenario 2: a single-color image always yields a
	// one-entry palette regardless of the requested K.
	img := solidImage(2, 2, 255, 0, 0)
	result, err := Quantize(img, WithColors(2))
	require.NoError(t, err)

	require.Len(t, result.Palette.Colors, 1)
	assert.Equal(t, Color{R: 255, G: 0, B: 0}, result.Palette.Colors[0])
	assert.Equal(t, []int{0, 0, 0, 0}, result.Indices)
}

func TestQuantizeForcedPaletteSkipsQuantizer(t *testing.T) {
	pal := NewPalette([]Color{{R: 0, G: 0, B: 0}, {R: 255, G: 255, B: 255}})
	img := &RawImage{
		Width: 2, Height: 1, Format: RGB888,
		Pix: []byte{0, 0, 0, 255, 255, 255},
	}
	result, err := Quantize(img, WithForcedPalette(pal), WithDiffusionMethod(DiffuseNone))
	require.NoError(t, err)

	assert.Equal(t, pal.Colors, result.Palette.Colors)
	assert.Equal(t, []int{0, 1}, result.Indices)
}

func TestQuantizeIndexedSourcePassesThrough(t *testing.T) {
	pal := NewPalette([]Color{{R: 1, G: 2, B: 3}, {R: 4, G: 5, B: 6}})
	img := &RawImage{
		Width: 2, Height: 1, Format: PAL8,
		Pix: []byte{1, 0}, Palette: pal,
	}
	result, err := Quantize(img)
	require.NoError(t, err)

	assert.Equal(t, pal.Colors, result.Palette.Colors)
	assert.Equal(t, []int{1, 0}, result.Indices)
}

func TestQuantizeRejectsZeroDimensions(t *testing.T) {
	img := &RawImage{Width: 0, Height: 1, Format: RGB888}
	_, err := Quantize(img)
	require.Error(t, err)
}

func TestQuantizeGradientProducesRequestedPaletteSize(t *testing.T) {
	w := 64
	pix := make([]byte, w*3)
	for x := 0; x < w; x++ {
		v := byte(x * 255 / (w - 1))
		pix[x*3], pix[x*3+1], pix[x*3+2] = v, v, v
	}
	img := &RawImage{Width: w, Height: 1, Format: RGB888, Pix: pix}

	result, err := Quantize(img, WithColors(16), WithQuality(QualityHigh))
	require.NoError(t, err)
	assert.Equal(t, 16, result.Palette.Len())
	assert.Greater(t, result.Palette.Len(), 1)
	assert.Len(t, result.Indices, w)
	for _, idx := range result.Indices {
		assert.GreaterOrEqual(t, idx, 0)
		assert.Less(t, idx, result.Palette.Len())
	}
}
