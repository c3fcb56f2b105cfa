package spatial

import (
	"math/rand"
	"testing"

	"github.com/zlayout/zlayout-go/geometry"
)

// Property 9: Z-order encode/decode round-trips exactly on the
// quantized grid.
func TestZOrderRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 1000; i++ {
		x := uint32(rng.Int63n(1 << 32))
		y := uint32(rng.Int63n(1 << 32))
		code := Encode(x, y)
		gotX, gotY := Decode(code)
		if gotX != x || gotY != y {
			t.Fatalf("round-trip failed: Encode(%d,%d)=%d, Decode -> (%d,%d)", x, y, code, gotX, gotY)
		}
	}
}

// Injectivity on the quantized grid: distinct (x,y) pairs must produce
// distinct codes.
func TestZOrderInjective(t *testing.T) {
	seen := map[uint64]struct{ x, y uint32 }{}
	rng := rand.New(rand.NewSource(5))
	for i := 0; i < 2000; i++ {
		x := uint32(rng.Int63n(1 << 16))
		y := uint32(rng.Int63n(1 << 16))
		code := Encode(x, y)
		if prev, ok := seen[code]; ok && (prev.x != x || prev.y != y) {
			t.Fatalf("collision: (%d,%d) and (%d,%d) both encode to %d", prev.x, prev.y, x, y, code)
		}
		seen[code] = struct{ x, y uint32 }{x, y}
	}
}

func TestEncodePointClampsOutsideWorld(t *testing.T) {
	world := geometry.Rectangle{X: 0, Y: 0, Width: 100, Height: 100}
	inside := EncodePoint(geometry.Point{X: 50, Y: 50}, world)
	belowMin := EncodePoint(geometry.Point{X: -1000, Y: -1000}, world)
	aboveMax := EncodePoint(geometry.Point{X: 1000, Y: 1000}, world)

	if belowMin != Encode(0, 0) {
		t.Errorf("point below world min did not clamp to (0,0)")
	}
	maxGrid := ^uint32(0)
	if aboveMax != Encode(maxGrid, maxGrid) {
		t.Errorf("point above world max did not clamp to grid max")
	}
	_ = inside
}

// Locality: two points close together in world space should usually
// produce Z-order codes that are close in sort order relative to two
// points far apart, despite the known jaggedness at quadrant
// boundaries. This checks the common case, not a worst case bound.
func TestEncodePointPreservesRoughLocality(t *testing.T) {
	world := geometry.Rectangle{X: 0, Y: 0, Width: 1000, Height: 1000}
	a := EncodePoint(geometry.Point{X: 10, Y: 10}, world)
	b := EncodePoint(geometry.Point{X: 12, Y: 11}, world)
	far := EncodePoint(geometry.Point{X: 900, Y: 900}, world)

	diffNear := diffU64(a, b)
	diffFar := diffU64(a, far)
	if diffNear >= diffFar {
		t.Errorf("nearby points did not produce closer Z-order codes than a distant point: near=%d far=%d", diffNear, diffFar)
	}
}

func diffU64(a, b uint64) uint64 {
	if a > b {
		return a - b
	}
	return b - a
}
