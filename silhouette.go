package rtree

// silhouette scores a clustering of rects, higher being better. Distances
// between two rects are the diagonal of their union, so a cluster scores well
// when merging its members gives tighter boxes than merging them with the
// nearest other cluster. The result lies in [-1, 1].
func silhouette(rects []Rect, clusters [][]int) float64 {
	if len(clusters) <= 1 {
		return 1
	}

	centers := make([]point, len(clusters))
	for i, c := range clusters {
		centers[i] = centroid(rects, c)
	}

	var total float64
	for ci, cluster := range clusters {
		var sum float64
		for _, m := range cluster {
			own := centroid(rects, []int{m})
			nearest := -1
			var nearestDist float64
			for cj, center := range centers {
				if cj == ci {
					continue
				}
				if d := dist2(center, own); nearest == -1 || d < nearestDist {
					nearest, nearestDist = cj, d
				}
			}
			neighbour := meanUnionDiagonal(rects, m, cluster, true)
			stranger := meanUnionDiagonal(rects, m, clusters[nearest], false)
			sum += memberScore(stranger, neighbour)
		}
		total += sum / float64(len(cluster))
	}
	return total / float64(len(clusters))
}

// meanUnionDiagonal gives the mean diagonal of rects[m] merged with each of
// the others. If skipSelf is set then m itself is left out, and a member with
// nothing left to compare against is measured by its own diagonal.
func meanUnionDiagonal(rects []Rect, m int, others []int, skipSelf bool) float64 {
	var sum float64
	var n int
	for _, o := range others {
		if skipSelf && o == m {
			continue
		}
		sum += rects[m].Union(rects[o]).Diagonal()
		n++
	}
	if n == 0 {
		if skipSelf {
			return rects[m].Diagonal()
		}
		return 0
	}
	return sum / float64(n)
}

func memberScore(stranger, neighbour float64) float64 {
	d := max(stranger, neighbour)
	if d == 0 {
		return 0
	}
	return (stranger - neighbour) / d
}
