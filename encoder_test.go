package sixel

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncoderFraming7Bit(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	pal := NewPalette([]Color{{R: 255}})
	indices := []int{0, 0}

	err := enc.EncodeIndexed(indices, 2, 1, pal)
	require.NoError(t, err)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "\x1bPq\"1;1;2;1\n"))
	assert.True(t, strings.HasSuffix(out, "\x1b\\"))
}

func TestEncoderFraming8Bit(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	pal := NewPalette([]Color{{R: 255}})
	indices := []int{0}

	err := enc.EncodeIndexed(indices, 1, 1, pal, With8BitControls(true))
	require.NoError(t, err)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "\x90"))
	assert.True(t, strings.HasSuffix(out, "\x9c"))
}

func TestEncoderRejectsEmptyPalette(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	err := enc.EncodeIndexed([]int{0}, 1, 1, Palette{})
	require.Error(t, err)
	var sErr *Error
	require.ErrorAs(t, err, &sErr)
	assert.Equal(t, KindBadInput, sErr.Kind)
}

func TestEncoderRejectsMismatchedBufferLength(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	pal := NewPalette([]Color{{R: 1}})
	err := enc.EncodeIndexed([]int{0, 0, 0}, 2, 2, pal)
	require.Error(t, err)
}

func TestEncoderMultiBandEmitsLineFeedBetweenBands(t *testing.T) {
	// 12 rows = two bands; both the first and the trailing last band end
	// in "-" (ground truth per the original encoder and §8's worked
	// examples, both of which show a trailing band terminator).
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	pal := NewPalette([]Color{{R: 9}})
	indices := make([]int, 4*12)

	err := enc.EncodeIndexed(indices, 4, 12, pal)
	require.NoError(t, err)

	body := buf.String()
	assert.Equal(t, 2, strings.Count(body, "-"))
}

func TestRasterAttrsDefaultFormat(t *testing.T) {
	assert.Equal(t, `"1;1;10;20`, rasterAttrs(10, 20))
}
