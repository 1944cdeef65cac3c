package rtree

import (
	"math"

	"github.com/cockroachdb/errors"
	log "github.com/sirupsen/logrus"
)

// Insert adds a new item to the Tree.
func (t *Tree[T]) Insert(item T) {
	t.cfg.withDefaults()
	t.ensureRoot()
	t.count++

	rect := item.Bounds()
	t.entries = append(t.entries, Entry[T]{Item: item, rect: rect})

	leaf := t.chooseLeafNode(rect)
	t.nodes[leaf].entries = append(t.nodes[leaf].entries, len(t.entries)-1)
	t.nodes[leaf].bounds = t.calculateBound(leaf)

	if len(t.nodes[leaf].entries) > t.cfg.maxChildren {
		t.overflow(leaf)
	}
}

// chooseLeafNode descends from the root to the leaf that rect should be added
// to, always taking the child needing the least area enlargement. The bounds
// of every internal node passed through are extended to cover rect.
func (t *Tree[T]) chooseLeafNode(rect Rect) int {
	n := t.root
	for {
		if t.nodes[n].isLeaf {
			return n
		}
		t.nodes[n].bounds = t.nodes[n].bounds.Union(rect)

		entries := t.nodes[n].entries
		if len(entries) == 0 {
			panic(errors.AssertionFailedf("internal node %d has no children", n))
		}
		bestEntry := 0
		bestDelta := enlargement(t.nodes[entries[0]].bounds, rect)
		for i, child := range entries[1:] {
			if delta := enlargement(t.nodes[child].bounds, rect); delta < bestDelta {
				bestDelta = delta
				bestEntry = i + 1
			}
		}
		n = entries[bestEntry]
	}
}

// childRect gives the bounds of the i'th child of node n.
func (t *Tree[T]) childRect(n, i int) Rect {
	e := t.nodes[n].entries[i]
	if t.nodes[n].isLeaf {
		return t.entries[e].rect
	}
	return t.nodes[e].bounds
}

// calculateBound calculates the smallest Rect that fits a node's children.
func (t *Tree[T]) calculateBound(n int) Rect {
	var bb Rect
	for i := range t.nodes[n].entries {
		bb = bb.Union(t.childRect(n, i))
	}
	return bb
}

// overflow splits the children of node n into new child nodes, one per
// cluster of the best scoring clustering. Node n becomes an internal node.
func (t *Tree[T]) overflow(n int) {
	t.stats.Overflows++

	rects := make([]Rect, len(t.nodes[n].entries))
	for i := range rects {
		rects[i] = t.childRect(n, i)
	}

	var best [][]int
	bestScore := math.Inf(-1)
	for k := t.cfg.minClusters; k <= t.cfg.maxClusters; k++ {
		res := kMeans(rects, k, t.cfg.rnd, t.cfg.maxIterations)
		t.stats.KMeansRuns++
		if !res.converged {
			t.stats.KMeansFallbacks++
			t.cfg.logger.WithFields(log.Fields{
				"node":       n,
				"k":          k,
				"iterations": res.iterations,
			}).Debug("k-means did not converge")
		}
		if score := silhouette(rects, res.clusters); best == nil || score > bestScore {
			best, bestScore = res.clusters, score
		}
	}

	wasLeaf := t.nodes[n].isLeaf
	oldEntries := t.nodes[n].entries
	newEntries := make([]int, 0, len(best))
	for _, cluster := range best {
		child := node{isLeaf: wasLeaf, parent: n}
		for _, i := range cluster {
			child.entries = append(child.entries, oldEntries[i])
			child.bounds = child.bounds.Union(rects[i])
		}
		t.nodes = append(t.nodes, child)
		idx := len(t.nodes) - 1
		if !wasLeaf {
			for _, e := range child.entries {
				t.nodes[e].parent = idx
			}
		}
		newEntries = append(newEntries, idx)
	}
	t.nodes[n].entries = newEntries
	t.nodes[n].isLeaf = false

	t.cfg.logger.WithFields(log.Fields{
		"node":     n,
		"children": len(oldEntries),
		"clusters": len(best),
		"score":    bestScore,
	}).Debug("node overflowed")

	t.deleaf(t.nodes[n].parent)
}

// deleaf converts node n, and then each of its ancestors in turn, from a leaf
// into an internal node by wrapping each of its entries in a new single entry
// leaf. It stops at the first ancestor that is already internal.
func (t *Tree[T]) deleaf(n int) {
	for n != -1 && t.nodes[n].isLeaf {
		t.stats.Deleafs++
		old := t.nodes[n].entries
		wrapped := make([]int, len(old))
		for i, e := range old {
			t.nodes = append(t.nodes, node{
				isLeaf:  true,
				parent:  n,
				bounds:  t.entries[e].rect,
				entries: []int{e},
			})
			wrapped[i] = len(t.nodes) - 1
		}
		t.nodes[n].entries = wrapped
		t.nodes[n].isLeaf = false
		n = t.nodes[n].parent
	}
}
