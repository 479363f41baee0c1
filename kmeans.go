package sixel

import "math"

// weightedDistSq is the distance metric §4.D.5 and §4.E share:
// wR*dr^2 + wG*dg^2 + wB*db^2. The lookup tables pass a wR already scaled
// by the complexion factor; k-means passes the unscaled weights.
func weightedDistSq(r0, g0, b0, r1, g1, b1 int, wr, wg, wb int) int64 {
	dr := int64(r0 - r1)
	dg := int64(g0 - g1)
	db := int64(b0 - b1)
	return int64(wr)*dr*dr + int64(wg)*dg*dg + int64(wb)*db*db
}

// kmeansRefine runs up to maxIter Lloyd iterations over the histogram
// buckets, reassigning each to its nearest current palette entry
// (weighted squared distance, ties won by the smaller index per §4.D's
// determinism rule) and recentering on the sample-weighted mean of its
// assigned buckets. It exits early once every centroid moves less than
// epsilon (0..255 scale) in one iteration (§4.D.5).
func kmeansRefine(buckets []*histBucket, palette []Color, maxIter int, epsilon float64, wr, wg, wb int) []Color {
	if len(palette) == 0 || len(buckets) == 0 {
		return palette
	}

	centroids := make([]Color, len(palette))
	copy(centroids, palette)

	for iter := 0; iter < maxIter; iter++ {
		sumR := make([]int64, len(centroids))
		sumG := make([]int64, len(centroids))
		sumB := make([]int64, len(centroids))
		count := make([]int64, len(centroids))

		for _, bk := range buckets {
			best, bestDist := 0, int64(-1)
			for ci, c := range centroids {
				d := weightedDistSq(int(bk.c0), int(bk.c1), int(bk.c2), int(c.R), int(c.G), int(c.B), wr, wg, wb)
				if bestDist == -1 || d < bestDist {
					best, bestDist = ci, d
				}
			}
			sumR[best] += bk.sumR
			sumG[best] += bk.sumG
			sumB[best] += bk.sumB
			count[best] += bk.count
		}

		var maxDelta float64
		for ci := range centroids {
			if count[ci] == 0 {
				continue // starved cluster keeps its previous centroid
			}
			newR := clampByte(int(math.Round(float64(sumR[ci]) / float64(count[ci]))))
			newG := clampByte(int(math.Round(float64(sumG[ci]) / float64(count[ci]))))
			newB := clampByte(int(math.Round(float64(sumB[ci]) / float64(count[ci]))))

			delta := math.Sqrt(float64(weightedDistSq(int(newR), int(newG), int(newB),
				int(centroids[ci].R), int(centroids[ci].G), int(centroids[ci].B), 1, 1, 1)))
			if delta > maxDelta {
				maxDelta = delta
			}
			centroids[ci] = Color{R: newR, G: newG, B: newB}
		}

		if maxDelta < epsilon {
			break
		}
	}

	return centroids
}
