package rtree

import (
	"iter"

	"github.com/paulmach/orb"
)

// Feature is an Item holding an orb geometry and arbitrary properties.
type Feature struct {
	ID         any
	Geometry   orb.Geometry
	Properties map[string]any
}

// Bounds is the bound of the feature's geometry, or the empty Rect if it has
// no geometry.
func (f *Feature) Bounds() Rect {
	if f.Geometry == nil {
		return Rect{}
	}
	return RectFromBound(f.Geometry.Bound())
}

// QueryBound yields every item whose bounds intersect b.
func (t *Tree[T]) QueryBound(b orb.Bound) iter.Seq[T] {
	return t.QueryRect(RectFromBound(b))
}

// QueryOrbPoint yields every item whose bounds contain p.
func (t *Tree[T]) QueryOrbPoint(p orb.Point) iter.Seq[T] {
	return t.QueryPoint(p.X(), p.Y())
}
