package sixel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadLSBBitsLowestBitFirst(t *testing.T) {
	// byte 0b00000101: bits 0,2 set, LSB-first.
	data := []byte{0b00000101}
	assert.Equal(t, uint32(1), readLSBBits(data, 0, 1))
	assert.Equal(t, uint32(0), readLSBBits(data, 1, 1))
	assert.Equal(t, uint32(1), readLSBBits(data, 2, 1))
}

func TestNormalizeRGB888PassThrough(t *testing.T) {
	img := &RawImage{Width: 2, Height: 1, Format: RGB888, Pix: []byte{1, 2, 3, 4, 5, 6}}
	out, err := normalizeRGB888(img)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6}, out)
}

func TestNormalizeRGB888BGRSwap(t *testing.T) {
	img := &RawImage{Width: 1, Height: 1, Format: BGR888, Pix: []byte{3, 2, 1}}
	out, err := normalizeRGB888(img)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, out)
}

func TestNormalizeRGB888RGBA8888DropsAlpha(t *testing.T) {
	img := &RawImage{Width: 1, Height: 1, Format: RGBA8888, Pix: []byte{10, 20, 30, 255}}
	out, err := normalizeRGB888(img)
	require.NoError(t, err)
	assert.Equal(t, []byte{10, 20, 30}, out)
}

func TestNormalizeRGB888ARGB8888(t *testing.T) {
	img := &RawImage{Width: 1, Height: 1, Format: ARGB8888, Pix: []byte{255, 10, 20, 30}}
	out, err := normalizeRGB888(img)
	require.NoError(t, err)
	assert.Equal(t, []byte{10, 20, 30}, out)
}

func TestNormalizeRGB888Expand5To8IsFullRange(t *testing.T) {
	assert.Equal(t, uint8(0), expand5to8(0))
	assert.Equal(t, uint8(255), expand5to8(0x1F))
}

func TestNormalizeRGB888Expand6To8IsFullRange(t *testing.T) {
	assert.Equal(t, uint8(0), expand6to8(0))
	assert.Equal(t, uint8(255), expand6to8(0x3F))
}

func TestNormalizeRGB888RGB565RoundsTrip(t *testing.T) {
	// 0xFFFF packed little-endian = all bits set = white in every channel.
	img := &RawImage{Width: 1, Height: 1, Format: RGB565, Pix: []byte{0xFF, 0xFF}}
	out, err := normalizeRGB888(img)
	require.NoError(t, err)
	assert.Equal(t, []byte{255, 255, 255}, out)
}

func TestNormalizeRGB888FloatClampsUnitRange(t *testing.T) {
	img := &RawImage{Width: 1, Height: 1, Format: RGBFloat32, PixFloat: []float32{-1, 0.5, 2}}
	out, err := normalizeRGB888(img)
	require.NoError(t, err)
	assert.Equal(t, byte(0), out[0])
	assert.Equal(t, byte(128), out[1])
	assert.Equal(t, byte(255), out[2])
}

func TestNormalizeRGB888RejectsShortBuffer(t *testing.T) {
	img := &RawImage{Width: 4, Height: 4, Format: RGB888, Pix: []byte{1, 2, 3}}
	_, err := normalizeRGB888(img)
	require.Error(t, err)
}

func TestNormalizePAL8Passthrough(t *testing.T) {
	img := &RawImage{Width: 3, Height: 1, Format: PAL8, Pix: []byte{0, 1, 2}}
	out, err := normalizePAL8(img)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 1, 2}, out)
}

func TestNormalizePAL1UnpacksLSBFirst(t *testing.T) {
	// 8 pixels, one packed byte per row (since width=8 fits exactly): 0b10110010
	img := &RawImage{Width: 8, Height: 1, Format: PAL1, Pix: []byte{0b10110010}}
	out, err := normalizePAL8(img)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 1, 0, 0, 1, 1, 0, 1}, out)
}

func TestPixelFormatIsIndexed(t *testing.T) {
	assert.True(t, PAL8.isIndexed())
	assert.False(t, RGB888.isIndexed())
}
