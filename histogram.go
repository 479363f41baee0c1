package sixel

import (
	"math"
	"sort"
)

// histChannelBits returns the coarse per-channel bit depth the histogram
// quantizes to before hashing: 5 for LOW quality, 6 for HIGH/AUTO (§4.D.1).
func histChannelBits(q QualityMode) int {
	if q == QualityLow {
		return 5
	}
	return 6
}

// histBucket is one coarse-quantized color cell: a representative plus a
// sample count and accumulated per-channel sums (§3 "Histogram bucket").
type histBucket struct {
	key            uint32
	count          int64
	sumR, sumG, sumB int64
	// coarse cell center in the working colorspace (cellCenter), the
	// value median-cut boxes take their min/max and split positions from.
	c0, c1, c2 uint8
}

// cellCenter recovers the representative color of a coarse cell from its
// key bits: the cell's geometric center, i.e. upper bits = cell index,
// lower bits filled so the value sits mid-cell (§4.D.2 "bucket
// reconstruction" — reversible iff the representative equals this).
func cellCenter(c uint32, bits int) uint8 {
	cells := float64(uint32(1) << uint(bits))
	v := (float64(c) + 0.5) / cells * 255.0
	return clampByte(int(math.Round(v)))
}

// mixKey folds the packed coarse color with a multiply/xor-shift mix
// (§9 "Coarse-key hash"). Go's builtin map already distributes keys well,
// so this isn't needed for hashing correctness — it is the primary key of
// the bucket sort below, so bucket order follows the mixed hash rather
// than the raw packed key.
func mixKey(k uint32) uint32 {
	k *= 2654435761
	k ^= k >> 15
	return k
}

// buildHistogram quantizes every pixel of an RGB888 buffer to a coarse
// cube keyed by channelBits per channel, returning one bucket per distinct
// coarse color and the number of distinct *original* 24-bit colors
// (origcolors, §4.D report). Buckets are returned sorted by mixKey(key),
// then by key, so that downstream median-cut splitting is deterministic
// (§4.D tie-break rule).
func buildHistogram(rgb []byte, cs Colorspace, channelBits int) (buckets []*histBucket, origColors int) {
	shift := 8 - channelBits
	index := make(map[uint32]*histBucket)
	origSet := make(map[uint32]struct{})

	n := len(rgb) / 3
	for i := 0; i < n; i++ {
		r, g, b := rgb[i*3], rgb[i*3+1], rgb[i*3+2]
		cr, cg, cb := toColorspace(cs, r, g, b)

		origKey := uint32(r)<<16 | uint32(g)<<8 | uint32(b)
		origSet[origKey] = struct{}{}

		c0 := uint32(cr) >> uint(shift)
		c1 := uint32(cg) >> uint(shift)
		c2 := uint32(cb) >> uint(shift)
		key := (c0 << uint(2*channelBits)) | (c1 << uint(channelBits)) | c2

		bk, ok := index[key]
		if !ok {
			bk = &histBucket{
				key: key,
				c0:  cellCenter(c0, channelBits),
				c1:  cellCenter(c1, channelBits),
				c2:  cellCenter(c2, channelBits),
			}
			index[key] = bk
		}
		bk.count++
		bk.sumR += int64(cr)
		bk.sumG += int64(cg)
		bk.sumB += int64(cb)
	}

	buckets = make([]*histBucket, 0, len(index))
	for _, bk := range index {
		buckets = append(buckets, bk)
	}
	sort.Slice(buckets, func(i, j int) bool {
		if mixKey(buckets[i].key) != mixKey(buckets[j].key) {
			return mixKey(buckets[i].key) < mixKey(buckets[j].key)
		}
		return buckets[i].key < buckets[j].key
	})
	return buckets, len(origSet)
}

// meanColor returns a bucket's sample-weighted average color (used by
// buildPaletteStage for the single-color palette).
func (b *histBucket) meanColor() (r, g, bl uint8) {
	if b.count == 0 {
		return b.c0, b.c1, b.c2
	}
	r = clampByte(int(math.Round(float64(b.sumR) / float64(b.count))))
	g = clampByte(int(math.Round(float64(b.sumG) / float64(b.count))))
	bl = clampByte(int(math.Round(float64(b.sumB) / float64(b.count))))
	return
}
