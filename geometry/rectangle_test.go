package geometry

import (
	"math"
	"testing"
)

func TestRectangleIntersectsIsStrict(t *testing.T) {
	a := Rectangle{X: 0, Y: 0, Width: 5, Height: 5}
	b := Rectangle{X: 5, Y: 0, Width: 5, Height: 5} // touches a's right edge
	if a.Intersects(b) {
		t.Fatalf("touching rectangles must not be reported as intersecting")
	}
	c := Rectangle{X: 4, Y: 0, Width: 5, Height: 5}
	if !a.Intersects(c) {
		t.Fatalf("overlapping rectangles must intersect")
	}
}

func TestRectangleContainsIsInclusive(t *testing.T) {
	r := Rectangle{X: 0, Y: 0, Width: 10, Height: 10}
	if !r.ContainsPoint(Point{10, 10}) {
		t.Fatalf("ContainsPoint must be inclusive of the boundary")
	}
	if !r.ContainsRectangle(Rectangle{X: 0, Y: 0, Width: 10, Height: 10}) {
		t.Fatalf("ContainsRectangle must be inclusive of an identical rectangle")
	}
}

func TestRectangleAlgebraInvariants(t *testing.T) {
	r := Rectangle{X: 0, Y: 0, Width: 10, Height: 6}
	s := Rectangle{X: 5, Y: 2, Width: 10, Height: 6}

	if got := r.Intersection(s).Area(); got > math.Min(r.Area(), s.Area())+1e-9 {
		t.Errorf("intersection area %v exceeds min(r,s) area", got)
	}
	if got := r.UnionWith(s).Area(); got < math.Max(r.Area(), s.Area())-1e-9 {
		t.Errorf("union area %v is less than max(r,s) area", got)
	}

	expanded := r.Expand(3).Expand(-3)
	if math.Abs(expanded.X-r.X) > Epsilon || math.Abs(expanded.Width-r.Width) > Epsilon {
		t.Errorf("Expand(m).Expand(-m) = %+v, want %+v", expanded, r)
	}
}

func TestRectangleDistanceToDisjoint(t *testing.T) {
	a := Rectangle{X: 0, Y: 0, Width: 5, Height: 3}
	b := Rectangle{X: 6, Y: 0, Width: 5, Height: 3}
	if got := a.DistanceTo(b); math.Abs(got-1) > 1e-9 {
		t.Errorf("DistanceTo = %v, want 1", got)
	}
	if got := a.DistanceTo(a); got != 0 {
		t.Errorf("DistanceTo(self) = %v, want 0", got)
	}
}

func TestRectangleDistanceToPointContained(t *testing.T) {
	r := Rectangle{X: 0, Y: 0, Width: 10, Height: 10}
	if got := r.DistanceToPoint(Point{5, 5}); got != 0 {
		t.Errorf("DistanceToPoint(contained) = %v, want 0", got)
	}
	if got := r.DistanceToPoint(Point{15, 5}); math.Abs(got-5) > 1e-9 {
		t.Errorf("DistanceToPoint(outside) = %v, want 5", got)
	}
}

func TestBoundingBoxFactories(t *testing.T) {
	pts := []Point{{0, 0}, {4, 3}, {-1, 5}}
	bbox := BoundingBoxOfPoints(pts)
	want := Rectangle{X: -1, Y: 0, Width: 5, Height: 5}
	if bbox != want {
		t.Errorf("BoundingBoxOfPoints = %+v, want %+v", bbox, want)
	}
}
