package rtree

import (
	"math/rand"
	"slices"
)

type point struct {
	x, y float64
}

func dist2(p, q point) float64 {
	dx, dy := p.x-q.x, p.y-q.y
	return dx*dx + dy*dy
}

// centroid gives the area weighted centroid of the rects selected by
// members. Rects with no area carry no weight. If none of the members have
// any area then the plain mean of their centers is used instead.
func centroid(rects []Rect, members []int) point {
	var sx, sy, total float64
	for _, m := range members {
		a := rects[m].Area()
		if a <= 0 {
			continue
		}
		cx, cy := rects[m].Center()
		sx += a * cx
		sy += a * cy
		total += a
	}
	if total > 0 {
		return point{sx / total, sy / total}
	}

	var n float64
	for _, m := range members {
		if rects[m].IsEmpty() {
			continue
		}
		cx, cy := rects[m].Center()
		sx += cx
		sy += cy
		n++
	}
	if n == 0 {
		return point{}
	}
	return point{sx / n, sy / n}
}

// closest gives the index of the center nearest to p. Ties go to the lowest
// index.
func closest(centers []point, p point) int {
	best := 0
	bestDist := dist2(centers[0], p)
	for i, c := range centers[1:] {
		if d := dist2(c, p); d < bestDist {
			best, bestDist = i+1, d
		}
	}
	return best
}

// kMeansResult is a partition of rects into clusters of indexes.
type kMeansResult struct {
	clusters   [][]int
	iterations int
	converged  bool
}

// kMeans partitions rects into at most k clusters by their centroids. The
// initial centers are the centroids of k distinct rects chosen with rnd.
// Clusters left empty by an assignment step are dropped, so fewer than k
// clusters may be returned, but never zero for a non-empty input. The loop
// stops once the centers no longer move, or after maxIterations.
func kMeans(rects []Rect, k int, rnd *rand.Rand, maxIterations int) kMeansResult {
	if len(rects) <= k {
		clusters := make([][]int, len(rects))
		for i := range rects {
			clusters[i] = []int{i}
		}
		return kMeansResult{clusters: clusters, converged: true}
	}

	own := make([]point, len(rects))
	for i := range rects {
		own[i] = centroid(rects, []int{i})
	}

	centers := make([]point, k)
	for i, r := range rnd.Perm(len(rects))[:k] {
		centers[i] = own[r]
	}

	var res kMeansResult
	for res.iterations < maxIterations {
		res.iterations++

		clusters := make([][]int, len(centers))
		for i, p := range own {
			c := closest(centers, p)
			clusters[c] = append(clusters[c], i)
		}
		clusters = slices.DeleteFunc(clusters, func(c []int) bool {
			return len(c) == 0
		})
		res.clusters = clusters

		next := make([]point, len(clusters))
		for i, c := range clusters {
			next[i] = centroid(rects, c)
		}
		if slices.Equal(next, centers) {
			res.converged = true
			return res
		}
		centers = next
	}
	return res
}
