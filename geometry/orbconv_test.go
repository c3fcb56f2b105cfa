package geometry

import (
	"testing"

	"github.com/paulmach/orb"
)

func TestPolygonOrbRingRoundTrip(t *testing.T) {
	square := mustPolygon(t, []Point{{0, 0}, {4, 0}, {4, 4}, {0, 4}})

	ring := square.ToOrbRing()
	if len(ring) != len(square.Vertices)+1 {
		t.Fatalf("ToOrbRing length = %d, want %d (closed ring)", len(ring), len(square.Vertices)+1)
	}
	if ring[0] != ring[len(ring)-1] {
		t.Errorf("ToOrbRing must close the ring: first %v != last %v", ring[0], ring[len(ring)-1])
	}

	back, err := PolygonFromOrbRing(ring)
	if err != nil {
		t.Fatalf("PolygonFromOrbRing: %v", err)
	}
	if len(back.Vertices) != len(square.Vertices) {
		t.Fatalf("round-tripped polygon has %d vertices, want %d", len(back.Vertices), len(square.Vertices))
	}
	for i, v := range back.Vertices {
		if !v.Equal(square.Vertices[i]) {
			t.Errorf("vertex %d = %v, want %v", i, v, square.Vertices[i])
		}
	}
}

func TestPolygonFromOrbRingRejectsTooFewVertices(t *testing.T) {
	ring := orb.Ring{{0, 0}, {1, 1}, {0, 0}}
	if _, err := PolygonFromOrbRing(ring); err == nil {
		t.Fatalf("expected InvalidPolygon error for a degenerate 2-point ring")
	}
}

func TestRectangleOrbBoundRoundTrip(t *testing.T) {
	r := Rectangle{X: 1, Y: 2, Width: 5, Height: 3}
	bound := r.RectangleToOrbBound()

	if bound.Min != (orb.Point{1, 2}) {
		t.Errorf("bound.Min = %v, want {1, 2}", bound.Min)
	}
	if bound.Max != (orb.Point{6, 5}) {
		t.Errorf("bound.Max = %v, want {6, 5}", bound.Max)
	}

	back := RectangleFromOrbBound(bound)
	if !back.Center().Equal(r.Center()) || back.Area() != r.Area() {
		t.Errorf("RectangleFromOrbBound round-trip = %+v, want %+v", back, r)
	}
}
