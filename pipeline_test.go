package sixel

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDriverRejectsOutOfOrderStages(t *testing.T) {
	d := NewDriver()
	err := d.MapPixels()
	require.Error(t, err)
	var sErr *Error
	require.ErrorAs(t, err, &sErr)
	assert.Equal(t, KindRuntime, sErr.Kind)
}

func TestDriverHappyPathReturnsToNew(t *testing.T) {
	img := solidImage(4, 4, 10, 20, 30)
	d := NewDriver(WithColors(4))

	require.NoError(t, d.BuildPalette(img))
	require.NoError(t, d.MapPixels())

	var buf bytes.Buffer
	require.NoError(t, d.Encode(&buf))

	assert.Equal(t, stateNew, d.state, "driver returns to NEW after a successful encode")
	assert.Greater(t, buf.Len(), 0)
}

func TestDriverReusableAcrossImages(t *testing.T) {
	d := NewDriver(WithColors(4))
	for i := 0; i < 2; i++ {
		img := solidImage(2, 2, byte(i*10), 0, 0)
		require.NoError(t, d.BuildPalette(img))
		require.NoError(t, d.MapPixels())
		var buf bytes.Buffer
		require.NoError(t, d.Encode(&buf))
	}
}

func TestDriverFailureTearsDownToNew(t *testing.T) {
	d := NewDriver()
	err := d.BuildPalette(&RawImage{Width: 0, Height: 0, Format: RGB888})
	require.Error(t, err)
	assert.Equal(t, stateNew, d.state)
}

func TestEncodeOneShot(t *testing.T) {
	img := solidImage(3, 3, 200, 0, 0)
	var buf bytes.Buffer
	err := Encode(&buf, img, WithColors(2))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "\x1bP")
	assert.Contains(t, buf.String(), "\x1b\\")
}
