package rtree

import (
	"iter"

	"github.com/cockroachdb/errors"
)

// Item is anything that can be stored in a Tree.
type Item interface {
	Bounds() Rect
}

// Predicate decides, from its bounding rectangle, whether a node or entry
// should be visited during a traversal.
type Predicate func(Rect) bool

// Walker is implemented by everything that appears during a traversal: tree
// nodes and the entries wrapping stored items. Walk calls yield for the
// receiver and its descendants (pre-order) as long as the predicate holds,
// and reports false if yield asked to stop.
type Walker interface {
	Bounds() Rect
	Walk(p Predicate, yield func(Walker) bool) bool
}

// node is a node in the tree. Leaf nodes hold indexes into the tree's
// entries, internal nodes hold indexes of other nodes. A node starts as a
// leaf and becomes internal for good once it (or a descendant) overflows.
type node struct {
	isLeaf  bool
	parent  int
	bounds  Rect
	entries []int
}

// Tree is an in-memory R-Tree whose overflowing nodes are split by
// clustering their children. Its zero value is an empty Tree using the
// default options.
//
// A Tree must not be mutated while a query over it is in progress, and is not
// safe for concurrent use.
type Tree[T Item] struct {
	root    int
	nodes   []node
	entries []Entry[T]
	count   int
	cfg     config
	stats   Stats
}

// Stats holds counters describing the work a Tree has done.
type Stats struct {
	Inserts         int
	Nodes           int
	Overflows       int
	Deleafs         int
	KMeansRuns      int
	KMeansFallbacks int
}

// New creates an empty Tree.
func New[T Item](opts ...Option) (*Tree[T], error) {
	t := &Tree[T]{}
	for _, opt := range opts {
		if err := opt(&t.cfg); err != nil {
			return nil, err
		}
	}
	t.cfg.withDefaults()
	t.ensureRoot()
	return t, nil
}

func (t *Tree[T]) ensureRoot() {
	if len(t.nodes) == 0 {
		t.nodes = append(t.nodes, node{isLeaf: true, parent: -1})
		t.root = 0
	}
}

// Len gives the number of items inserted into the tree.
func (t *Tree[T]) Len() int {
	return t.count
}

// Stats returns a snapshot of the tree's counters.
func (t *Tree[T]) Stats() Stats {
	s := t.stats
	s.Inserts = t.count
	s.Nodes = len(t.nodes)
	return s
}

// Extent gives the Rect that most closely bounds the tree. If the tree is
// empty, then false is returned.
func (t *Tree[T]) Extent() (Rect, bool) {
	if len(t.nodes) == 0 || t.nodes[t.root].bounds.IsEmpty() {
		return Rect{}, false
	}
	return t.nodes[t.root].bounds, true
}

// Root gives a view of the root node.
func (t *Tree[T]) Root() Node[T] {
	t.ensureRoot()
	return Node[T]{t: t, idx: t.root}
}

// Walk traverses the tree top-down, visiting only nodes and entries whose
// bounds satisfy p. Subtrees whose bounds fail p are pruned. Nodes are
// yielded before their children.
func (t *Tree[T]) Walk(p Predicate) iter.Seq[Walker] {
	return func(yield func(Walker) bool) {
		if len(t.nodes) == 0 {
			return
		}
		Node[T]{t: t, idx: t.root}.Walk(p, yield)
	}
}

// query yields the items found by a walk with p.
func (t *Tree[T]) query(p Predicate) iter.Seq[T] {
	return func(yield func(T) bool) {
		for w := range t.Walk(p) {
			e, ok := w.(Entry[T])
			if !ok {
				continue
			}
			if !yield(e.Item) {
				return
			}
		}
	}
}

// QueryPoint yields every item whose bounds contain the point (x, y).
func (t *Tree[T]) QueryPoint(x, y float64) iter.Seq[T] {
	return t.query(func(r Rect) bool {
		return r.ContainsPoint(x, y)
	})
}

// QueryRect yields every item whose bounds intersect r with a positive area.
func (t *Tree[T]) QueryRect(r Rect) iter.Seq[T] {
	return t.query(r.Intersects)
}

// Stop is a special sentinel error that can be used to stop a search
// operation without any error.
var Stop = errors.New("stop")

// Search looks for any items in the tree that intersect with the given
// rectangle. The callback is called for each found item. If an error is
// returned from the callback then the search is terminated early. Any error
// returned from the callback is returned by Search, except for the case where
// the special Stop sentinel error is returned (in which case nil will be
// returned from Search).
func (t *Tree[T]) Search(r Rect, callback func(T) error) error {
	for item := range t.QueryRect(r) {
		if err := callback(item); errors.Is(err, Stop) {
			return nil
		} else if err != nil {
			return err
		}
	}
	return nil
}

// MaxDepth gives the number of node levels along the deepest path of the
// tree. A tree with only a root has depth 1.
func (t *Tree[T]) MaxDepth() int {
	maxDepth := 1
	t.eachNode(func(_ int, depth int) {
		maxDepth = max(maxDepth, depth)
	})
	return maxDepth
}

// MeanLeafDepth gives the mean depth of the tree's leaf nodes.
func (t *Tree[T]) MeanLeafDepth() float64 {
	var sum, count int
	t.eachNode(func(n int, depth int) {
		if t.nodes[n].isLeaf {
			sum += depth
			count++
		}
	})
	if count == 0 {
		return 1
	}
	return float64(sum) / float64(count)
}

// eachNode calls fn for every node reachable from the root along with its
// depth, where the root has depth 1.
func (t *Tree[T]) eachNode(fn func(n, depth int)) {
	if len(t.nodes) == 0 {
		return
	}
	type frame struct{ n, depth int }
	stack := []frame{{t.root, 1}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		fn(f.n, f.depth)
		if t.nodes[f.n].isLeaf {
			continue
		}
		for _, child := range t.nodes[f.n].entries {
			stack = append(stack, frame{child, f.depth + 1})
		}
	}
}

// Node is a read-only view of a node in a Tree. It is only valid until the
// next insertion.
type Node[T Item] struct {
	t   *Tree[T]
	idx int
}

// Bounds is the union of the bounds of the node's children.
func (n Node[T]) Bounds() Rect {
	return n.t.nodes[n.idx].bounds
}

// IsLeaf reports whether the node's children are entries rather than nodes.
func (n Node[T]) IsLeaf() bool {
	return n.t.nodes[n.idx].isLeaf
}

// Parent gives the node's parent, or false for the root.
func (n Node[T]) Parent() (Node[T], bool) {
	p := n.t.nodes[n.idx].parent
	if p == -1 {
		return Node[T]{}, false
	}
	return Node[T]{t: n.t, idx: p}, true
}

// Children gives the node's children: Entry values for a leaf, Node values
// otherwise.
func (n Node[T]) Children() []Walker {
	nd := &n.t.nodes[n.idx]
	children := make([]Walker, len(nd.entries))
	for i, e := range nd.entries {
		children[i] = n.child(nd.isLeaf, e)
	}
	return children
}

func (n Node[T]) child(isLeaf bool, e int) Walker {
	if isLeaf {
		return n.t.entries[e]
	}
	return Node[T]{t: n.t, idx: e}
}

// Walk implements Walker.
func (n Node[T]) Walk(p Predicate, yield func(Walker) bool) bool {
	nd := &n.t.nodes[n.idx]
	if !p(nd.bounds) {
		return true
	}
	if !yield(n) {
		return false
	}
	for _, e := range nd.entries {
		if !n.child(nd.isLeaf, e).Walk(p, yield) {
			return false
		}
	}
	return true
}

// Entry wraps an item stored in a Tree.
type Entry[T Item] struct {
	Item T
	rect Rect
}

// Bounds is the item's bounding rectangle as it was when inserted.
func (e Entry[T]) Bounds() Rect {
	return e.rect
}

// Walk implements Walker. Entries never have children.
func (e Entry[T]) Walk(p Predicate, yield func(Walker) bool) bool {
	if !p(e.rect) {
		return true
	}
	return yield(e)
}
