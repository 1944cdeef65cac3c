package rtree

import (
	"fmt"
	"math"

	"github.com/cockroachdb/errors"
	"github.com/paulmach/orb"
)

// epsilon is the tolerance added around a rectangle when testing whether it
// contains a point.
const epsilon = 2 * 0x1p-52

// Rect is an axis-aligned rectangle, described by an origin and a
// non-negative size. The zero value is the empty rectangle, which has no
// area, contains no points, and is absorbed by Union.
//
// Corners are stored rather than the size, so Union only ever picks existing
// coordinates and is exact.
type Rect struct {
	minX, minY, maxX, maxY float64
	nonEmpty               bool
}

// NewRect creates a rectangle with its origin at (x, y) and the given width
// and height. A negative width or height moves the origin so that the stored
// size is never negative.
func NewRect(x, y, w, h float64) Rect {
	if w < 0 {
		x, w = x+w, -w
	}
	if h < 0 {
		y, h = y+h, -h
	}
	return Rect{minX: x, minY: y, maxX: x + w, maxY: y + h, nonEmpty: true}
}

// RectFromPoints creates the smallest rectangle containing both corners.
func RectFromPoints(x1, y1, x2, y2 float64) Rect {
	return Rect{
		minX:     math.Min(x1, x2),
		minY:     math.Min(y1, y2),
		maxX:     math.Max(x1, x2),
		maxY:     math.Max(y1, y2),
		nonEmpty: true,
	}
}

// PointRect is a zero sized rectangle at (x, y).
func PointRect(x, y float64) Rect {
	return Rect{minX: x, minY: y, maxX: x, maxY: y, nonEmpty: true}
}

// IsEmpty reports whether r is the empty rectangle.
func (r Rect) IsEmpty() bool { return !r.nonEmpty }

// X and Y give the origin of the rectangle, Width and Height its size.
func (r Rect) X() float64      { return r.minX }
func (r Rect) Y() float64      { return r.minY }
func (r Rect) Width() float64  { return r.maxX - r.minX }
func (r Rect) Height() float64 { return r.maxY - r.minY }

// MinX, MinY, MaxX and MaxY give the extent of the rectangle.
func (r Rect) MinX() float64 { return r.minX }
func (r Rect) MinY() float64 { return r.minY }
func (r Rect) MaxX() float64 { return r.maxX }
func (r Rect) MaxY() float64 { return r.maxY }

// String formats r as its origin and size.
func (r Rect) String() string {
	if r.IsEmpty() {
		return "Rect(empty)"
	}
	return fmt.Sprintf("Rect(%g,%g,%g,%g)", r.X(), r.Y(), r.Width(), r.Height())
}

// Area is zero for the empty rectangle.
func (r Rect) Area() float64 {
	if r.IsEmpty() {
		return 0
	}
	return r.Width() * r.Height()
}

// Diagonal is the length of the rectangle's diagonal, or zero if it is empty.
func (r Rect) Diagonal() float64 {
	if r.IsEmpty() {
		return 0
	}
	return math.Hypot(r.Width(), r.Height())
}

// Center is the midpoint of the rectangle. It is only meaningful for
// non-empty rectangles.
func (r Rect) Center() (float64, float64) {
	return r.minX + 0.5*r.Width(), r.minY + 0.5*r.Height()
}

// Union gives the smallest rectangle containing both r and o.
func (r Rect) Union(o Rect) Rect {
	if o.IsEmpty() {
		return r
	}
	if r.IsEmpty() {
		return o
	}
	minX, minY := math.Min(r.MinX(), o.MinX()), math.Min(r.MinY(), o.MinY())
	maxX, maxY := math.Max(r.MaxX(), o.MaxX()), math.Max(r.MaxY(), o.MaxY())
	if maxX < minX || maxY < minY {
		panic(errors.AssertionFailedf("union of %s and %s has swapped extent", r, o))
	}
	return Rect{minX: minX, minY: minY, maxX: maxX, maxY: maxY, nonEmpty: true}
}

// UnionPoint extends r to cover the point (x, y).
func (r Rect) UnionPoint(x, y float64) Rect {
	return r.Union(PointRect(x, y))
}

// Intersect gives the overlap of r and o. The result is empty if either is
// empty, or if the overlap has no width or no height.
func (r Rect) Intersect(o Rect) Rect {
	if r.IsEmpty() || o.IsEmpty() {
		return Rect{}
	}
	minX, minY := math.Max(r.MinX(), o.MinX()), math.Max(r.MinY(), o.MinY())
	maxX, maxY := math.Min(r.MaxX(), o.MaxX()), math.Min(r.MaxY(), o.MaxY())
	if maxX-minX <= 0 || maxY-minY <= 0 {
		return Rect{}
	}
	return Rect{minX: minX, minY: minY, maxX: maxX, maxY: maxY, nonEmpty: true}
}

// Intersects reports whether r and o overlap with a positive area. Rectangles
// that only share an edge do not intersect.
func (r Rect) Intersects(o Rect) bool {
	return r.Intersect(o).Area() > 0
}

// Contains reports whether o lies entirely within r. Unlike ContainsPoint, no
// tolerance is applied. Every rectangle contains the empty rectangle, and the
// empty rectangle contains nothing else.
func (r Rect) Contains(o Rect) bool {
	if o.IsEmpty() {
		return true
	}
	if r.IsEmpty() {
		return false
	}
	return r.MinX() <= o.MinX() && r.MinY() <= o.MinY() &&
		o.MaxX() <= r.MaxX() && o.MaxY() <= r.MaxY()
}

// ContainsPoint reports whether (x, y) lies within r, with the bounds of r
// widened by a small tolerance so that points on a shared boundary aren't
// lost to rounding.
func (r Rect) ContainsPoint(x, y float64) bool {
	if r.IsEmpty() {
		return false
	}
	return x >= r.MinX()-epsilon && x <= r.MaxX()+epsilon &&
		y >= r.MinY()-epsilon && y <= r.MaxY()+epsilon
}

// Grow expands r by amt/2 on each side. The empty rectangle stays empty.
func (r Rect) Grow(amt float64) Rect {
	if r.IsEmpty() {
		return r
	}
	a := 0.5 * amt
	return RectFromPoints(r.minX-a, r.minY-a, r.maxX+a, r.maxY+a)
}

// enlargement returns how much additional area the existing Rect would have
// to enlarge by to accommodate the additional Rect.
func enlargement(existing, additional Rect) float64 {
	return existing.Union(additional).Area() - existing.Area()
}

// RectFromBound converts an orb.Bound into a Rect. Empty bounds become the
// empty rectangle.
func RectFromBound(b orb.Bound) Rect {
	if b.IsEmpty() {
		return Rect{}
	}
	return RectFromPoints(b.Left(), b.Bottom(), b.Right(), b.Top())
}

// Bound converts r into an orb.Bound. The empty rectangle becomes a bound
// with inverted infinite corners, which orb reports as empty.
func (r Rect) Bound() orb.Bound {
	if r.IsEmpty() {
		return orb.Bound{
			Min: orb.Point{math.Inf(+1), math.Inf(+1)},
			Max: orb.Point{math.Inf(-1), math.Inf(-1)},
		}
	}
	return orb.Bound{
		Min: orb.Point{r.MinX(), r.MinY()},
		Max: orb.Point{r.MaxX(), r.MaxY()},
	}
}
