package sixel

import "sort"

// colorBox is a cuboid in color space covering a contiguous slice of
// histBuckets (§3 "Color box (median-cut)"). The working set during
// splitting is an unordered slice of boxes, scanned each round for the
// highest-priority splittable one.
type colorBox struct {
	buckets     []*histBucket
	min, max    [3]uint8
	sampleCount int64
	volume      uint64
}

func newColorBox(buckets []*histBucket) *colorBox {
	b := &colorBox{buckets: buckets}
	b.recompute()
	return b
}

func (b *colorBox) recompute() {
	if len(b.buckets) == 0 {
		b.sampleCount = 0
		b.volume = 0
		return
	}
	min := [3]uint8{255, 255, 255}
	max := [3]uint8{0, 0, 0}
	var count int64
	for _, bk := range b.buckets {
		vals := [3]uint8{bk.c0, bk.c1, bk.c2}
		for ch := 0; ch < 3; ch++ {
			if vals[ch] < min[ch] {
				min[ch] = vals[ch]
			}
			if vals[ch] > max[ch] {
				max[ch] = vals[ch]
			}
		}
		count += bk.count
	}
	b.min, b.max, b.sampleCount = min, max, count
	b.volume = uint64(max[0]-min[0]+1) * uint64(max[1]-min[1]+1) * uint64(max[2]-min[2]+1)
}

// splittable reports whether the box has any color variation at all —
// mirrors the "only consider boxes with non-zero color volume" rule
// median-cut implementations share (cf. soniakeys/quant's cluster()).
func (b *colorBox) splittable() bool {
	return b.max[0] > b.min[0] || b.max[1] > b.min[1] || b.max[2] > b.min[2]
}

// priority is volume * sample count (§4.D.3).
func (b *colorBox) priority() uint64 {
	return b.volume * uint64(b.sampleCount)
}

// chooseAxis selects the splitting axis per the `largest` policy (§4.D.3).
// AUTO resolves to NORM: the luminance-weighted variant is a refinement
// useful for perceptual tuning, not a default behavior libsixel documents
// for AUTO, so plain channel range is the conservative choice here
// (recorded as an Open Question decision in DESIGN.md).
func (b *colorBox) chooseAxis(policy LargestDim) int {
	rng := [3]int{int(b.max[0]) - int(b.min[0]), int(b.max[1]) - int(b.min[1]), int(b.max[2]) - int(b.min[2])}

	switch policy {
	case LargestLum:
		weights := [3]int{299, 587, 114}
		best, bestVal := 0, -1
		for ch := 0; ch < 3; ch++ {
			v := rng[ch] * weights[ch]
			if v > bestVal {
				bestVal, best = v, ch
			}
		}
		return best
	default: // LargestAuto, LargestNorm
		best, bestVal := 0, -1
		for ch := 0; ch < 3; ch++ {
			if rng[ch] > bestVal {
				bestVal, best = rng[ch], ch
			}
		}
		return best
	}
}

// channelValue extracts bucket bk's coarse value on axis.
func channelValue(bk *histBucket, axis int) uint8 {
	switch axis {
	case 0:
		return bk.c0
	case 1:
		return bk.c1
	default:
		return bk.c2
	}
}

// splitAt partitions the box's buckets at the sample-weighted median along
// axis, returning two new boxes. The box's own buckets slice is sorted by
// axis value as a side effect (stable, so ties keep their incoming
// histogram order — §4.D's determinism rule).
func (b *colorBox) splitAt(axis int) (*colorBox, *colorBox) {
	sort.SliceStable(b.buckets, func(i, j int) bool {
		return channelValue(b.buckets[i], axis) < channelValue(b.buckets[j], axis)
	})

	half := b.sampleCount / 2
	var running int64
	cut := len(b.buckets) - 1
	for i, bk := range b.buckets {
		running += bk.count
		if running >= half {
			cut = i
			break
		}
	}
	if cut == len(b.buckets)-1 && cut > 0 {
		// Guarantee both sides are non-empty even when the last bucket
		// alone holds more than half the samples.
		cut = len(b.buckets) - 2
	}
	if cut < 0 {
		cut = 0
	}

	left := newColorBox(b.buckets[:cut+1])
	right := newColorBox(b.buckets[cut+1:])
	return left, right
}

// representative computes the box's output palette color per policy
// (§4.D.4). AUTO resolves to AVERAGE_PIXELS, matching how libsixel and
// soniakeys/quant both default to weighting by how often a color was
// actually seen rather than by box geometry alone.
func (b *colorBox) representative(policy Representative) (uint8, uint8, uint8) {
	switch policy {
	case RepCenterBox:
		r := uint8((int(b.min[0]) + int(b.max[0])) / 2)
		g := uint8((int(b.min[1]) + int(b.max[1])) / 2)
		bl := uint8((int(b.min[2]) + int(b.max[2])) / 2)
		return r, g, bl
	case RepAverageColors:
		var sr, sg, sb int
		for _, bk := range b.buckets {
			sr += int(bk.c0)
			sg += int(bk.c1)
			sb += int(bk.c2)
		}
		n := len(b.buckets)
		if n == 0 {
			return 0, 0, 0
		}
		return uint8(sr / n), uint8(sg / n), uint8(sb / n)
	default: // RepAuto, RepAveragePixels
		var sr, sg, sb, count int64
		for _, bk := range b.buckets {
			sr += bk.sumR
			sg += bk.sumG
			sb += bk.sumB
			count += bk.count
		}
		if count == 0 {
			return 0, 0, 0
		}
		return clampByte(int(sr / count)), clampByte(int(sg / count)), clampByte(int(sb / count))
	}
}

// medianCut repeatedly splits the highest-priority splittable box until
// the target count is reached or no box can be split further (§4.D.3).
// Ties on priority are broken by picking the lexicographically earlier
// box (by its first bucket's key) for determinism across runs.
func medianCut(buckets []*histBucket, target int, axisPolicy LargestDim) []*colorBox {
	if target < 1 {
		target = 1
	}
	boxes := []*colorBox{newColorBox(buckets)}

	for len(boxes) < target {
		idx := -1
		var bestPriority uint64
		for i, bx := range boxes {
			if !bx.splittable() {
				continue
			}
			p := bx.priority()
			if idx == -1 || p > bestPriority ||
				(p == bestPriority && bx.buckets[0].key < boxes[idx].buckets[0].key) {
				idx, bestPriority = i, p
			}
		}
		if idx == -1 {
			break // no box can be split any further
		}

		axis := boxes[idx].chooseAxis(axisPolicy)
		left, right := boxes[idx].splitAt(axis)

		boxes[idx] = left
		boxes = append(boxes, right)
	}
	return boxes
}
