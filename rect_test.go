package rtree

import (
	"math"
	"math/rand"
	"testing"
)

// rectGen generates random rects with various properties.
type rectGen struct {
	rnd *rand.Rand
}

func (g rectGen) uniform(lo, hi float64) float64 {
	return lo + g.rnd.Float64()*(hi-lo)
}

func (g rectGen) rect(size float64) Rect {
	return NewRect(g.uniform(0, 10), g.uniform(0, 10), g.uniform(size/100, size), g.uniform(size/100, size))
}

func (g rectGen) intersectingWith(r Rect) Rect {
	x := g.uniform(r.MinX(), r.MinX()+0.9*r.Width())
	y := g.uniform(r.MinY(), r.MinY()+0.9*r.Height())
	return NewRect(x, y, g.uniform(0.1, 10), g.uniform(0.1, 10))
}

func (g rectGen) disjointWith(r Rect) Rect {
	w, h := g.uniform(0.1, 10), g.uniform(0.1, 10)
	dist := 2*math.Max(math.Hypot(w, h), r.Diagonal()) + g.uniform(0.1, 1)
	ang := g.uniform(0, 2*math.Pi)
	return NewRect(r.X()+math.Cos(ang)*dist, r.Y()+math.Sin(ang)*dist, w, h)
}

func (g rectGen) pointInside(r Rect) (float64, float64) {
	return g.uniform(r.MinX(), r.MaxX()), g.uniform(r.MinY(), r.MaxY())
}

func (g rectGen) pointOutside(r Rect) (float64, float64) {
	return g.pointInside(g.disjointWith(r))
}

func (g rectGen) pair(a, b Rect) (Rect, Rect) {
	if g.rnd.Intn(2) == 0 {
		return b, a
	}
	return a, b
}

func TestRectConstruction(t *testing.T) {
	r := NewRect(1, 2, 3, 4)
	if r.IsEmpty() {
		t.Fatal("constructed rect is empty")
	}
	if r.X() != 1 || r.Y() != 2 || r.Width() != 3 || r.Height() != 4 {
		t.Errorf("got %v", r)
	}
	if r.MaxX() != 4 || r.MaxY() != 6 {
		t.Errorf("got max corner (%v,%v)", r.MaxX(), r.MaxY())
	}
	if got := r.String(); got != "Rect(1,2,3,4)" {
		t.Errorf("string: got %q", got)
	}
	if got := (Rect{}).String(); got != "Rect(empty)" {
		t.Errorf("empty string: got %q", got)
	}

	// Negative sizes move the origin.
	if got, want := NewRect(4, 6, -3, -4), r; got != want {
		t.Errorf("got %v want %v", got, want)
	}
	if got, want := RectFromPoints(4, 2, 1, 6), r; got != want {
		t.Errorf("got %v want %v", got, want)
	}

	var empty Rect
	if !empty.IsEmpty() || empty.Area() != 0 || empty.Diagonal() != 0 {
		t.Errorf("zero rect should be empty: %v", empty)
	}
	if p := PointRect(3, 3); p.IsEmpty() || p.Area() != 0 || !p.ContainsPoint(3, 3) {
		t.Errorf("bad point rect %v", p)
	}
}

func TestIntersection(t *testing.T) {
	ra := NewRect(0, 0, 10, 10)
	rb := RectFromPoints(5, 5, 15, 15)
	res := ra.Intersect(rb)
	if res.X() != 5 || res.Y() != 5 || res.Width() != 5 || res.Height() != 5 {
		t.Errorf("got %v", res)
	}
	if res.Area() != 25 {
		t.Errorf("area: got %v", res.Area())
	}

	rc := NewRect(0, 0, 10, 10)
	rd := RectFromPoints(11, 11, 21, 21)
	if res := rc.Intersect(rd); !res.IsEmpty() || res.Area() != 0 {
		t.Errorf("disjoint intersection: got %v", res)
	}

	// Sharing an edge isn't intersecting.
	re := NewRect(10, 0, 5, 10)
	if rc.Intersects(re) {
		t.Error("rects sharing an edge should not intersect")
	}

	if !ra.Intersect(Rect{}).IsEmpty() || !(Rect{}).Intersect(ra).IsEmpty() {
		t.Error("intersection with empty should be empty")
	}

	g := rectGen{rand.New(rand.NewSource(0))}
	for i := 0; i < 1000; i++ {
		a := g.rect(10)
		a, b := g.pair(a, g.intersectingWith(a))
		if a.Intersect(b).Area() <= 0 {
			t.Fatalf("%v and %v should intersect", a, b)
		}
		if a.Intersect(b) != b.Intersect(a) {
			t.Fatalf("intersection of %v and %v isn't commutative", a, b)
		}

		c := g.rect(10)
		c, d := g.pair(c, g.disjointWith(c))
		if area := c.Intersect(d).Area(); area != 0 {
			t.Fatalf("%v and %v should be disjoint, got area %v", c, d, area)
		}
	}
}

func TestUnion(t *testing.T) {
	ra := NewRect(0, 0, 10, 10)
	rb := RectFromPoints(-10, -10, 1, 1)
	u := ra.Union(rb)
	if u.X() != -10 || u.Y() != -10 || u.Width() != 20 || u.Height() != 20 {
		t.Errorf("got %v", u)
	}
	if ra.Union(Rect{}) != ra || (Rect{}).Union(ra) != ra {
		t.Error("empty should be absorbed by union")
	}
	if got := ra.UnionPoint(-1, 12); got != RectFromPoints(-1, 0, 10, 12) {
		t.Errorf("union point: got %v", got)
	}
	if got := (Rect{}).UnionPoint(2, 3); got != PointRect(2, 3) {
		t.Errorf("union point with empty: got %v", got)
	}

	g := rectGen{rand.New(rand.NewSource(1))}
	for i := 0; i < 1000; i++ {
		a, b := g.rect(10), g.rect(10)
		u := a.Union(b)
		if a.Intersect(u).Area() <= 0 || u.Intersect(a).Area() <= 0 ||
			b.Intersect(u).Area() <= 0 || u.Intersect(b).Area() <= 0 {
			t.Fatalf("union %v of %v and %v doesn't overlap its parts", u, a, b)
		}
		if u.Area() < math.Max(a.Area(), b.Area())-0.00001 {
			t.Fatalf("union area (iter %d) fail %f >= %f", i, u.Area(), math.Max(a.Area(), b.Area()))
		}
		if !u.Contains(a) || !u.Contains(b) {
			t.Fatalf("union %v doesn't contain %v and %v", u, a, b)
		}

		c := g.rect(10)
		c, d := g.pair(c, g.disjointWith(c))
		u2 := c.Union(d)
		if u2.Area() <= c.Area() || u2.Area() <= d.Area() {
			t.Fatalf("union of disjoint rects should be bigger than either")
		}
		if u2.Area() < c.Area()+d.Area() {
			t.Fatalf("union of disjoint rects should be at least as big as both")
		}
	}
}

func TestContainPoint(t *testing.T) {
	g := rectGen{rand.New(rand.NewSource(2))}
	for i := 0; i < 100; i++ {
		r := g.rect(10)
		if x, y := g.pointInside(r); !r.ContainsPoint(x, y) {
			t.Fatalf("%v should contain (%v,%v)", r, x, y)
		}
		if x, y := g.pointOutside(r); r.ContainsPoint(x, y) {
			t.Fatalf("%v should not contain (%v,%v)", r, x, y)
		}
	}

	r := NewRect(0, 0, 0.1, 0.1)
	if !r.ContainsPoint(0.1, 0) || !r.ContainsPoint(0.1+epsilon/2, -epsilon/2) {
		t.Error("points on or just past the boundary should be contained")
	}
	if r.ContainsPoint(0.2, 0) {
		t.Error("point well past the boundary should not be contained")
	}
	if (Rect{}).ContainsPoint(0, 0) {
		t.Error("empty rect contains nothing")
	}
}

func TestContainRects(t *testing.T) {
	g := rectGen{rand.New(rand.NewSource(3))}
	for i := 0; i < 1000; i++ {
		r := g.rect(10)
		if !r.Contains(r) {
			t.Fatalf("%v should contain itself", r)
		}
		if ix := r.Intersect(g.intersectingWith(r)); !r.Contains(ix) {
			t.Fatalf("%v should contain %v", r, ix)
		}
		if out := g.disjointWith(r); r.Contains(out) {
			t.Fatalf("%v should not contain %v", r, out)
		}
	}

	// No tolerance is applied to containment.
	r := NewRect(0, 0, 1, 1)
	if r.Contains(NewRect(0, 0, 1+1e-12, 1)) {
		t.Error("containment should be exact")
	}
	if !r.Contains(Rect{}) || (Rect{}).Contains(r) {
		t.Error("empty rect containment")
	}
}

func TestDiagonalAndGrow(t *testing.T) {
	r := NewRect(1, 1, 3, 4)
	if d := r.Diagonal(); d != 5 {
		t.Errorf("diagonal: got %v", d)
	}
	if got, want := r.Grow(2), NewRect(0, 0, 5, 6); got != want {
		t.Errorf("grow: got %v want %v", got, want)
	}
	if !(Rect{}).Grow(2).IsEmpty() {
		t.Error("growing empty should stay empty")
	}
	if x, y := r.Center(); x != 2.5 || y != 3 {
		t.Errorf("center: got (%v,%v)", x, y)
	}
}

func TestEnlargement(t *testing.T) {
	for i, tt := range []struct {
		existing, additional Rect
		want                 float64
	}{
		{NewRect(0, 0, 1, 1), NewRect(0.2, 0.2, 0.5, 0.5), 0},
		{NewRect(0, 0, 1, 1), NewRect(1, 0, 1, 1), 1},
		{Rect{}, NewRect(0, 0, 2, 2), 4},
		{NewRect(0, 0, 2, 2), Rect{}, 0},
	} {
		if got := enlargement(tt.existing, tt.additional); got != tt.want {
			t.Errorf("%d: got %v want %v", i, got, tt.want)
		}
	}
}
