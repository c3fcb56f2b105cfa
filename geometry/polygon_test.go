package geometry

import (
	"math"
	"testing"
)

func mustPolygon(t *testing.T, pts []Point) Polygon {
	t.Helper()
	p, err := NewPolygon(pts)
	if err != nil {
		t.Fatalf("NewPolygon: %v", err)
	}
	return p
}

func TestNewPolygonRejectsTooFewVertices(t *testing.T) {
	if _, err := NewPolygon([]Point{{0, 0}, {1, 1}}); err == nil {
		t.Fatalf("expected InvalidPolygon error for 2 vertices")
	}
}

// E1 — triangle area.
func TestTriangleArea(t *testing.T) {
	p := mustPolygon(t, []Point{{0, 0}, {4, 0}, {2, 3}})
	if got := p.Area(); math.Abs(got-6.0) > 1e-9 {
		t.Errorf("Area() = %v, want 6.0", got)
	}
	if !p.IsConvex() {
		t.Errorf("triangle must be convex")
	}
	if p.IsClockwise() {
		t.Errorf("triangle (0,0)-(4,0)-(2,3) must be counter-clockwise")
	}
	sum := 0.0
	for _, a := range p.AllVertexAngles() {
		sum += a
	}
	if math.Abs(sum-180) > 1e-6 {
		t.Errorf("angle sum = %v, want 180", sum)
	}
}

// E2 — sharp angle.
func TestSharpAngleCusp(t *testing.T) {
	p := mustPolygon(t, []Point{{0, 0}, {10, 0}, {1, 1}, {0, 10}})
	sharp := p.GetSharpAngles(45)
	found := false
	for _, idx := range sharp {
		if idx == 2 {
			found = true
		}
		if idx == 0 {
			t.Errorf("vertex 0 should not be reported as sharp")
		}
	}
	if !found {
		t.Errorf("expected vertex 2 (the (1,1) cusp) in sharp angle set, got %v", sharp)
	}
}

// E3 — narrow gap between two squares.
func TestNarrowGapBetweenSquares(t *testing.T) {
	a := mustPolygon(t, []Point{{0, 0}, {5, 0}, {5, 3}, {0, 3}})
	b := mustPolygon(t, []Point{{6, 0}, {11, 0}, {11, 3}, {6, 3}})

	if got := a.DistanceTo(b); math.Abs(got-1.0) > 1e-9 {
		t.Fatalf("DistanceTo = %v, want 1.0", got)
	}

	regions := a.FindNarrowRegions(b, 2)
	if len(regions) == 0 {
		t.Fatalf("expected non-empty narrow regions")
	}
	for _, r := range regions {
		if math.Abs(r.P1.DistanceTo(r.P2)-r.Distance) > 1e-8 {
			t.Errorf("region %+v: |p1-p2| != reported distance", r)
		}
	}
}

func TestSignedAreaOrientation(t *testing.T) {
	p := mustPolygon(t, []Point{{0, 0}, {4, 0}, {4, 4}, {0, 4}})
	if p.IsClockwise() {
		t.Errorf("square built CCW must not report clockwise")
	}
	reversed := make([]Point, len(p.Vertices))
	for i, v := range p.Vertices {
		reversed[len(p.Vertices)-1-i] = v
	}
	rp := mustPolygon(t, reversed)
	if math.Abs(rp.SignedArea()+p.SignedArea()) > 1e-9 {
		t.Errorf("SignedArea(reverse(P)) != -SignedArea(P): %v vs %v", rp.SignedArea(), p.SignedArea())
	}
	if !rp.IsClockwise() {
		t.Errorf("reversed square must report clockwise")
	}
}

func TestContainsPointImpliesZeroDistance(t *testing.T) {
	p := mustPolygon(t, []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}})
	inside := Point{5, 5}
	if !p.ContainsPoint(inside) {
		t.Fatalf("expected point inside square")
	}
	if d := p.DistanceToPoint(inside); d != 0 {
		t.Errorf("DistanceToPoint(contained) = %v, want 0", d)
	}
}

func TestDistanceSymmetry(t *testing.T) {
	a := mustPolygon(t, []Point{{0, 0}, {3, 0}, {3, 3}, {0, 3}})
	b := mustPolygon(t, []Point{{10, 10}, {13, 10}, {13, 13}, {10, 13}})
	if math.Abs(a.DistanceTo(b)-b.DistanceTo(a)) > 1e-8 {
		t.Errorf("polygon distance not symmetric")
	}
}

func TestIntersectsCatchesFullContainment(t *testing.T) {
	outer := mustPolygon(t, []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}})
	inner := mustPolygon(t, []Point{{3, 3}, {6, 3}, {6, 6}, {3, 6}})
	if !outer.Intersects(inner) {
		t.Errorf("fully-contained polygon with no edge crossings must still intersect")
	}
}

func TestSegmentsParallelNonIntersecting(t *testing.T) {
	a := mustPolygon(t, []Point{{0, 0}, {1, 0}, {1, 1}, {0, 1}})
	// Calls segmentIntersect directly on a collinear-overlapping segment
	// pair: such pairs are a known limitation (spec.md §9) handled at the
	// Intersects level instead.
	hit, pt, _, _ := segmentIntersect(Point{0, 0}, Point{2, 0}, Point{1, 0}, Point{3, 0})
	if hit {
		t.Errorf("collinear-overlapping segments must report non-intersecting, got hit at %v", pt)
	}
	_ = a
}

func TestSharpAngleIdempotentUnderSimilarity(t *testing.T) {
	p := mustPolygon(t, []Point{{0, 0}, {10, 0}, {1, 1}, {0, 10}})
	base := p.GetSharpAngles(45)

	transformed := make([]Point, len(p.Vertices))
	for i, v := range p.Vertices {
		v = v.RotateAbout(Point{5, 5}, math.Pi/6)
		v = v.Add(Point{3, -2})
		v = Point{v.X * 2, v.Y * 2}
		transformed[i] = v
	}
	tp := mustPolygon(t, transformed)
	after := tp.GetSharpAngles(45)

	if len(base) != len(after) {
		t.Fatalf("sharp angle set changed under similarity: %v vs %v", base, after)
	}
	for i := range base {
		if base[i] != after[i] {
			t.Errorf("sharp angle index set changed under similarity: %v vs %v", base, after)
		}
	}
}
