// Package geometry implements the polygon-geometry kernel: points,
// axis-aligned rectangles, and polygons, with tolerance-aware arithmetic
// shared by every higher-level component of the core.
package geometry

import (
	"math"

	"github.com/zlayout/zlayout-go/internal/zerr"
)

// Epsilon is the absolute coordinate tolerance used by every equality
// and containment test in this package.
const Epsilon = 1e-10

// SegmentEpsilon is the tolerance applied to segment-intersection
// parameters so that round-off at shared endpoints doesn't produce a
// false negative.
const SegmentEpsilon = 1e-9

// FeasibilityEpsilon is the tolerance below which a placement's
// constraint-violation sum is considered feasible.
const FeasibilityEpsilon = 1e-6

// Point is an immutable 2-D coordinate pair.
type Point struct {
	X, Y float64
}

// Equal reports whether p and q are within Epsilon on each axis.
func (p Point) Equal(q Point) bool {
	return math.Abs(p.X-q.X) < Epsilon && math.Abs(p.Y-q.Y) < Epsilon
}

// Hash rounds p onto the Epsilon grid, so points that round to the same
// grid cell collide. Two points within Epsilon of each other that fall
// on opposite sides of a rounding boundary hash differently.
func (p Point) Hash() uint64 {
	const grid = 1.0 / Epsilon
	rx := math.Round(p.X * grid)
	ry := math.Round(p.Y * grid)
	// Standard 2-word FNV-ish mix of the two rounded grid coordinates.
	h := uint64(14695981039346656037)
	for _, v := range [2]int64{int64(rx), int64(ry)} {
		h ^= uint64(v)
		h *= 1099511628211
	}
	return h
}

func (p Point) Add(q Point) Point   { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point   { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Mul(s float64) Point { return Point{p.X * s, p.Y * s} }

// Div divides p by s, failing with zerr.CodeDivideByZero when |s| < Epsilon.
func (p Point) Div(s float64) (Point, error) {
	if math.Abs(s) < Epsilon {
		return Point{}, zerr.New(zerr.CodeDivideByZero, "divide point by %g", s)
	}
	return Point{p.X / s, p.Y / s}, nil
}

func (p Point) Dot(q Point) float64 { return p.X*q.X + p.Y*q.Y }

// Cross returns the scalar (2-D) cross product p × q.
func (p Point) Cross(q Point) float64 { return p.X*q.Y - p.Y*q.X }

func (p Point) Magnitude() float64 { return math.Hypot(p.X, p.Y) }

// Normalize returns the zero vector when p's magnitude is below Epsilon.
func (p Point) Normalize() Point {
	m := p.Magnitude()
	if m < Epsilon {
		return Point{}
	}
	return Point{p.X / m, p.Y / m}
}

// Rotate rotates p by theta radians about the origin.
func (p Point) Rotate(theta float64) Point {
	return p.RotateAbout(Point{}, theta)
}

// RotateAbout rotates p by theta radians about center.
func (p Point) RotateAbout(center Point, theta float64) Point {
	sin, cos := math.Sin(theta), math.Cos(theta)
	dx, dy := p.X-center.X, p.Y-center.Y
	return Point{
		X: center.X + dx*cos - dy*sin,
		Y: center.Y + dx*sin + dy*cos,
	}
}

// AngleTo returns the angle in radians of the vector from p to q.
func (p Point) AngleTo(q Point) float64 {
	return math.Atan2(q.Y-p.Y, q.X-p.X)
}

func (p Point) DistanceTo(q Point) float64 { return p.Sub(q).Magnitude() }

// DistanceToSegment projects p onto the line through a-b, clamps the
// parameter to [0, 1], and returns the distance to the clamped point.
// This primitive underlies every polygon distance computation.
func (p Point) DistanceToSegment(a, b Point) float64 {
	cp, _ := p.ClosestPointOnSegment(a, b)
	return p.DistanceTo(cp)
}

// ClosestPointOnSegment returns the closest point on segment a-b to p,
// along with the clamped parameter t in [0, 1].
func (p Point) ClosestPointOnSegment(a, b Point) (Point, float64) {
	ab := b.Sub(a)
	lenSq := ab.Dot(ab)
	if lenSq < Epsilon*Epsilon {
		return a, 0
	}
	t := p.Sub(a).Dot(ab) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return a.Add(ab.Mul(t)), t
}
