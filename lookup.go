package sixel

import "sort"

// nearestLUT maps an 8-bit RGB pixel to a palette index. §9 calls for
// "a variant with a dispatcher, not runtime virtual calls" for this kind
// of enum-selected behavior; a small closed interface plus a constructor
// switch is the idiomatic Go equivalent — there is exactly one call site
// per policy and no caller ever needs to add a fourth implementation
// without touching this file anyway.
type nearestLUT interface {
	lookup(r, g, b uint8) int
	clear()
}

// lookupWeights bundles the channel weights every policy shares, with the
// complexion factor already folded into the red weight (glossary:
// "complexion factor").
type lookupWeights struct {
	wr, wg, wb int
}

func newLookupWeights(wr, wg, wb, complexion int) lookupWeights {
	if complexion < 1 {
		complexion = 1
	}
	return lookupWeights{wr: wr * complexion, wg: wg, wb: wb}
}

// linearScan finds the nearest palette entry to (r,g,b) by brute force,
// breaking ties in favor of the smaller index (§4.D determinism rule,
// reused by the dense cache on a miss).
func linearScan(pal Palette, r, g, b uint8, w lookupWeights) int {
	if len(pal.Colors) == 0 {
		return 0
	}
	best, bestDist := 0, int64(-1)
	for i, c := range pal.Colors {
		d := weightedDistSq(int(r), int(g), int(b), int(c.R), int(c.G), int(c.B), w.wr, w.wg, w.wb)
		if bestDist == -1 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// noneLUT is LookupNone: a plain linear scan over the whole palette on
// every lookup (§4.E).
type noneLUT struct {
	pal Palette
	w   lookupWeights
}

func newNoneLUT(pal Palette, w lookupWeights) *noneLUT { return &noneLUT{pal: pal, w: w} }

func (l *noneLUT) lookup(r, g, b uint8) int {
	if len(l.pal.Colors) == 0 {
		return 0
	}
	return linearScan(l.pal, r, g, b, l.w)
}

func (l *noneLUT) clear() {}

// denseLUT is the 5BIT/6BIT policy: a coarse-quantized cube cached in a
// dense int32 array, -1 meaning "uncached" (§3 "Lookup table"). A miss
// scans the full palette with the real pixel value, then caches the
// result at the coarse cell so subsequent pixels in the same cell are O(1).
type denseLUT struct {
	pal   Palette
	w     lookupWeights
	bits  int
	shift int
	cache []int32
}

func newDenseLUT(pal Palette, w lookupWeights, bits int) *denseLUT {
	size := 1 << uint(3*bits)
	cache := make([]int32, size)
	for i := range cache {
		cache[i] = -1
	}
	return &denseLUT{pal: pal, w: w, bits: bits, shift: 8 - bits, cache: cache}
}

func (l *denseLUT) key(r, g, b uint8) uint32 {
	cr := uint32(r) >> uint(l.shift)
	cg := uint32(g) >> uint(l.shift)
	cb := uint32(b) >> uint(l.shift)
	return (cr << uint(2*l.bits)) | (cg << uint(l.bits)) | cb
}

func (l *denseLUT) lookup(r, g, b uint8) int {
	if len(l.pal.Colors) == 0 {
		return 0
	}
	k := l.key(r, g, b)
	if v := l.cache[k]; v != -1 {
		return int(v)
	}
	idx := linearScan(l.pal, r, g, b, l.w)
	l.cache[k] = int32(idx)
	return idx
}

func (l *denseLUT) clear() {
	for i := range l.cache {
		l.cache[i] = -1
	}
}

// certKDNode is one node of the CERT (exact-nearest) kd-tree built over
// the palette (§3 "CERT kd-tree over palette").
type certKDNode struct {
	idx         int
	axis        int
	left, right *certKDNode
}

// certLUT is LookupCertLUT: a kd-tree over the palette, axis cycling
// r->g->b and splitting at the median, queried with standard
// backtracking nearest-neighbor search (§4.E).
type certLUT struct {
	pal  Palette
	w    lookupWeights
	root *certKDNode
}

func newCertLUT(pal Palette, w lookupWeights) *certLUT {
	idxs := make([]int, len(pal.Colors))
	for i := range idxs {
		idxs[i] = i
	}
	l := &certLUT{pal: pal, w: w}
	l.root = l.build(idxs, 0)
	return l
}

func (l *certLUT) axisValue(idx, axis int) uint8 {
	c := l.pal.Colors[idx]
	switch axis {
	case 0:
		return c.R
	case 1:
		return c.G
	default:
		return c.B
	}
}

func (l *certLUT) build(idxs []int, depth int) *certKDNode {
	if len(idxs) == 0 {
		return nil
	}
	axis := depth % 3
	sort.Slice(idxs, func(i, j int) bool {
		return l.axisValue(idxs[i], axis) < l.axisValue(idxs[j], axis)
	})
	mid := len(idxs) / 2
	node := &certKDNode{idx: idxs[mid], axis: axis}
	node.left = l.build(idxs[:mid], depth+1)
	node.right = l.build(idxs[mid+1:], depth+1)
	return node
}

func (l *certLUT) axisWeight(axis int) int {
	switch axis {
	case 0:
		return l.w.wr
	case 1:
		return l.w.wg
	default:
		return l.w.wb
	}
}

func (l *certLUT) lookup(r, g, b uint8) int {
	if l.root == nil {
		return 0
	}
	best, bestDist := 0, int64(-1)
	target := [3]uint8{r, g, b}
	l.search(l.root, target, &best, &bestDist)
	return best
}

func (l *certLUT) search(node *certKDNode, target [3]uint8, best *int, bestDist *int64) {
	if node == nil {
		return
	}
	c := l.pal.Colors[node.idx]
	d := weightedDistSq(int(target[0]), int(target[1]), int(target[2]), int(c.R), int(c.G), int(c.B), l.w.wr, l.w.wg, l.w.wb)
	if *bestDist == -1 || d < *bestDist || (d == *bestDist && node.idx < *best) {
		*best, *bestDist = node.idx, d
	}

	axis := node.axis
	nodeVal := l.axisValue(node.idx, axis)
	var near, far *certKDNode
	if target[axis] < nodeVal {
		near, far = node.left, node.right
	} else {
		near, far = node.right, node.left
	}
	l.search(near, target, best, bestDist)

	diff := int64(int(target[axis]) - int(nodeVal))
	planeDist := diff * diff * int64(l.axisWeight(axis))
	if planeDist < *bestDist || *bestDist == -1 {
		l.search(far, target, best, bestDist)
	}
}

func (l *certLUT) clear() {}

// newLookup constructs the LUT implementation for policy, resolving AUTO
// by palette size: small palettes make a full linear scan cheaper than
// building any cache, so AUTO picks NONE at or below 16 colors and falls
// back to the 6-bit dense cache otherwise (an Open Question decision,
// recorded in DESIGN.md — the source names no default for AUTO here).
func newLookup(policy LookupPolicy, pal Palette, wr, wg, wb, complexion int) nearestLUT {
	w := newLookupWeights(wr, wg, wb, complexion)

	if policy == LookupAuto {
		if len(pal.Colors) <= 16 {
			policy = LookupNone
		} else {
			policy = Lookup6Bit
		}
	}

	switch policy {
	case LookupNone:
		return newNoneLUT(pal, w)
	case Lookup5Bit:
		return newDenseLUT(pal, w, 5)
	case Lookup6Bit:
		return newDenseLUT(pal, w, 6)
	case LookupCertLUT:
		return newCertLUT(pal, w)
	default:
		return newNoneLUT(pal, w)
	}
}
