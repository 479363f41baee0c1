package sixel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRefCountedReleasesAtZero(t *testing.T) {
	released := 0
	rc := newRefCounted(func() { released++ })

	rc.ref()
	rc.unref()
	assert.Equal(t, 0, released, "still one ref outstanding")

	rc.unref()
	assert.Equal(t, 1, released)
}

func TestRefCountedUnrefIdempotentPastZero(t *testing.T) {
	released := 0
	rc := newRefCounted(func() { released++ })

	rc.unref()
	rc.unref()
	assert.Equal(t, 1, released, "release fires once even if unref is called again")
}
