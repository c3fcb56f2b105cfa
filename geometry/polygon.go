package geometry

import (
	"math"

	"github.com/zlayout/zlayout-go/internal/zerr"
)

// Polygon is an ordered sequence of vertices. Edges run between
// consecutive vertices and between the last and first.
//
// Construction rejects fewer than 3 vertices (spec.md §9, design note
// 5: one source variant throws, the other silently constructs — this
// implementation pins to throwing, so no separate validity predicate
// is exposed).
type Polygon struct {
	Vertices []Point
}

// NewPolygon validates and constructs a Polygon. It is the only
// supported constructor; a < 3 vertex slice is rejected.
func NewPolygon(vertices []Point) (Polygon, error) {
	if len(vertices) < 3 {
		return Polygon{}, zerr.New(zerr.CodeInvalidPolygon, "polygon needs >= 3 vertices, got %d", len(vertices))
	}
	cp := make([]Point, len(vertices))
	copy(cp, vertices)
	return Polygon{Vertices: cp}, nil
}

func (p Polygon) n() int { return len(p.Vertices) }

func (p Polygon) edge(i int) (Point, Point) {
	n := p.n()
	return p.Vertices[i], p.Vertices[(i+1)%n]
}

// SignedArea is the shoelace sum divided by 2. Positive means
// counter-clockwise.
func (p Polygon) SignedArea() float64 {
	sum := 0.0
	n := p.n()
	for i := 0; i < n; i++ {
		a, b := p.edge(i)
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum / 2
}

// Area is the absolute value of SignedArea.
func (p Polygon) Area() float64 { return math.Abs(p.SignedArea()) }

// IsClockwise reports SignedArea() < 0.
func (p Polygon) IsClockwise() bool { return p.SignedArea() < 0 }

// Centroid is the area-weighted centroid for |area| > Epsilon,
// otherwise the arithmetic mean of the vertices.
func (p Polygon) Centroid() Point {
	area := p.SignedArea()
	if math.Abs(area) <= Epsilon {
		var sx, sy float64
		for _, v := range p.Vertices {
			sx += v.X
			sy += v.Y
		}
		n := float64(p.n())
		return Point{sx / n, sy / n}
	}
	var cx, cy float64
	n := p.n()
	for i := 0; i < n; i++ {
		a, b := p.edge(i)
		cross := a.X*b.Y - b.X*a.Y
		cx += (a.X + b.X) * cross
		cy += (a.Y + b.Y) * cross
	}
	factor := 1.0 / (6 * area)
	return Point{cx * factor, cy * factor}
}

// IsConvex reports whether all consecutive edge-cross-products share a
// sign, within tolerance.
func (p Polygon) IsConvex() bool {
	n := p.n()
	if n < 3 {
		return false
	}
	sign := 0
	for i := 0; i < n; i++ {
		a := p.Vertices[i]
		b := p.Vertices[(i+1)%n]
		c := p.Vertices[(i+2)%n]
		cross := b.Sub(a).Cross(c.Sub(b))
		if math.Abs(cross) <= Epsilon {
			continue
		}
		s := 1
		if cross < 0 {
			s = -1
		}
		if sign == 0 {
			sign = s
		} else if sign != s {
			return false
		}
	}
	return true
}

// BoundingBox is the smallest axis-aligned rectangle enclosing p.
func (p Polygon) BoundingBox() Rectangle {
	return BoundingBoxOfPoints(p.Vertices)
}

// ContainsPoint uses ray-cast parity along the +x axis. Boundary
// points yield an undefined parity; use PointOnBoundary to test those
// explicitly.
func (p Polygon) ContainsPoint(pt Point) bool {
	n := p.n()
	inside := false
	for i := 0; i < n; i++ {
		a, b := p.edge(i)
		if (a.Y > pt.Y) != (b.Y > pt.Y) {
			xIntersect := a.X + (pt.Y-a.Y)/(b.Y-a.Y)*(b.X-a.X)
			if pt.X < xIntersect {
				inside = !inside
			}
		}
	}
	return inside
}

// PointOnBoundary reports whether pt lies within tol of any edge.
func (p Polygon) PointOnBoundary(pt Point, tol float64) bool {
	n := p.n()
	for i := 0; i < n; i++ {
		a, b := p.edge(i)
		if pt.DistanceToSegment(a, b) <= tol {
			return true
		}
	}
	return false
}

// AllVertexAngles returns the interior angle in degrees at each
// vertex, in order. Degenerate vertices (an adjacent edge shorter than
// Epsilon) report 0. Reflex vertices report the angle on the interior
// side (>180), not the raw wedge between the two edges.
func (p Polygon) AllVertexAngles() []float64 {
	n := p.n()
	orientation := p.SignedArea()
	angles := make([]float64, n)
	for i := 0; i < n; i++ {
		angles[i] = p.vertexAngle(i, orientation)
	}
	return angles
}

// vertexAngle returns the oriented interior angle at vertex i. The
// wedge between the two adjacent edges (acos of their dot product) is
// always in [0,180] and can't distinguish a convex corner from a
// reflex one that happens to wedge the same way. The cross product of
// the forward edges (prev->cur, cur->next) does distinguish them: a
// turn with the same sign as the polygon's overall orientation is
// convex, the opposite sign is reflex, and a reflex vertex's true
// interior angle is the far side of the wedge, 360-wedge.
func (p Polygon) vertexAngle(i int, orientation float64) float64 {
	n := p.n()
	prev := p.Vertices[(i-1+n)%n]
	cur := p.Vertices[i]
	next := p.Vertices[(i+1)%n]
	vPrev := prev.Sub(cur)
	vNext := next.Sub(cur)
	if vPrev.Magnitude() < Epsilon || vNext.Magnitude() < Epsilon {
		return 0
	}
	cosTheta := vPrev.Dot(vNext) / (vPrev.Magnitude() * vNext.Magnitude())
	cosTheta = math.Max(-1, math.Min(1, cosTheta))
	wedge := math.Acos(cosTheta) * 180 / math.Pi

	cross := cur.Sub(prev).Cross(next.Sub(cur))
	if cross != 0 && (cross < 0) != (orientation < 0) {
		return 360 - wedge
	}
	return wedge
}

// GetSharpAngles returns the indices of vertices whose interior angle
// is below thetaDeg or above 180-thetaDeg, skipping degenerate
// vertices (adjacent edge length < Epsilon). Reflex cusps (interior
// angle near 360, e.g. a narrow spike pointing into the polygon) are
// caught by the upper bound since vertexAngle reports their true
// oriented angle rather than the raw wedge.
func (p Polygon) GetSharpAngles(thetaDeg float64) []int {
	n := p.n()
	orientation := p.SignedArea()
	var result []int
	for i := 0; i < n; i++ {
		prev := p.Vertices[(i-1+n)%n]
		cur := p.Vertices[i]
		next := p.Vertices[(i+1)%n]
		vPrev := prev.Sub(cur)
		vNext := next.Sub(cur)
		if vPrev.Magnitude() < Epsilon || vNext.Magnitude() < Epsilon {
			continue
		}
		angle := p.vertexAngle(i, orientation)
		if angle < thetaDeg || angle > 180-thetaDeg {
			result = append(result, i)
		}
	}
	return result
}

// HasSelfIntersections is an O(n^2) pairwise edge test skipping
// edge-adjacent pairs (those that share a vertex).
func (p Polygon) HasSelfIntersections() bool {
	n := p.n()
	for i := 0; i < n; i++ {
		a1, a2 := p.edge(i)
		for j := i + 1; j < n; j++ {
			if j == i {
				continue
			}
			// Adjacent edges share a vertex; skip them.
			if j == (i+1)%n || i == (j+1)%n {
				continue
			}
			b1, b2 := p.edge(j)
			if hit, _, _, _ := segmentIntersect(a1, a2, b1, b2); hit {
				return true
			}
		}
	}
	return false
}

// IsSimple is the negation of HasSelfIntersections.
func (p Polygon) IsSimple() bool { return !p.HasSelfIntersections() }

// DistanceToPoint is 0 if pt is contained, else the minimum over edges
// of point-to-segment distance.
func (p Polygon) DistanceToPoint(pt Point) float64 {
	if p.ContainsPoint(pt) {
		return 0
	}
	n := p.n()
	min := math.Inf(1)
	for i := 0; i < n; i++ {
		a, b := p.edge(i)
		d := pt.DistanceToSegment(a, b)
		if d < min {
			min = d
		}
	}
	return min
}

// DistanceTo is the minimum over all edge-pairs of segment-to-segment
// distance between p and other; touching polygons report 0.
func (p Polygon) DistanceTo(other Polygon) float64 {
	min := math.Inf(1)
	for i := 0; i < p.n(); i++ {
		a1, a2 := p.edge(i)
		for j := 0; j < other.n(); j++ {
			b1, b2 := other.edge(j)
			d := segmentSegmentDistance(a1, a2, b1, b2)
			if d < min {
				min = d
			}
		}
	}
	return min
}

// NarrowRegion is one entry returned by FindNarrowRegions: p1 and p2
// lie on their respective edges and Distance equals ||p1-p2||.
type NarrowRegion struct {
	P1, P2   Point
	Distance float64
}

// FindNarrowRegions enumerates edge-pairs between p and other whose
// segment distance is below tau. Unlike the original source (spec.md
// §9, known issue 1), the representative points are the true closest
// pair on each segment, not the edge-start points.
func (p Polygon) FindNarrowRegions(other Polygon, tau float64) []NarrowRegion {
	var regions []NarrowRegion
	for i := 0; i < p.n(); i++ {
		a1, a2 := p.edge(i)
		for j := 0; j < other.n(); j++ {
			b1, b2 := other.edge(j)
			p1, p2, d := closestPointsBetweenSegments(a1, a2, b1, b2)
			if d < tau {
				regions = append(regions, NarrowRegion{P1: p1, P2: p2, Distance: d})
			}
		}
	}
	return regions
}

// Intersects reports whether p and other share any intersecting
// edge-pair, or whether any vertex of one lies strictly inside the
// other (catches full containment with no edge crossings).
func (p Polygon) Intersects(other Polygon) bool {
	for i := 0; i < p.n(); i++ {
		a1, a2 := p.edge(i)
		for j := 0; j < other.n(); j++ {
			b1, b2 := other.edge(j)
			if hit, _, _, _ := segmentIntersect(a1, a2, b1, b2); hit {
				return true
			}
		}
	}
	for _, v := range p.Vertices {
		if other.ContainsPoint(v) {
			return true
		}
	}
	for _, v := range other.Vertices {
		if p.ContainsPoint(v) {
			return true
		}
	}
	return false
}

// IntersectionPoints returns every edge-pair intersection point
// between p and other, deduplicated by Epsilon-equality. Order is
// unspecified.
func (p Polygon) IntersectionPoints(other Polygon) []Point {
	var pts []Point
	for i := 0; i < p.n(); i++ {
		a1, a2 := p.edge(i)
		for j := 0; j < other.n(); j++ {
			b1, b2 := other.edge(j)
			if hit, pt, _, _ := segmentIntersect(a1, a2, b1, b2); hit {
				pts = appendDeduped(pts, pt)
			}
		}
	}
	return pts
}

func appendDeduped(pts []Point, pt Point) []Point {
	for _, existing := range pts {
		if existing.Equal(pt) {
			return pts
		}
	}
	return append(pts, pt)
}

// segmentIntersect implements the standard parametric intersection
// test. Parallel segments (|denom| < Epsilon) are treated as
// non-intersecting even when collinear-overlapping — spec.md §9,
// known issue 2. Polygon.Intersects compensates for that via its
// vertex-containment check.
func segmentIntersect(p1, p2, p3, p4 Point) (bool, Point, float64, float64) {
	d1 := p1.Sub(p2)
	d2 := p3.Sub(p4)
	denom := d1.X*d2.Y - d1.Y*d2.X
	if math.Abs(denom) < Epsilon {
		return false, Point{}, 0, 0
	}
	t := ((p1.X-p3.X)*d2.Y - (p1.Y-p3.Y)*d2.X) / denom
	u := ((p1.X-p3.X)*d1.Y - (p1.Y-p3.Y)*d1.X) / denom
	const eps = SegmentEpsilon
	if t < -eps || t > 1+eps || u < -eps || u > 1+eps {
		return false, Point{}, t, u
	}
	ix := p1.X + t*(p2.X-p1.X)
	iy := p1.Y + t*(p2.Y-p1.Y)
	return true, Point{ix, iy}, t, u
}

// segmentSegmentDistance is the minimum distance between segments a1-a2
// and b1-b2; 0 when they touch or cross.
func segmentSegmentDistance(a1, a2, b1, b2 Point) float64 {
	if hit, _, _, _ := segmentIntersect(a1, a2, b1, b2); hit {
		return 0
	}
	d1 := a1.DistanceToSegment(b1, b2)
	d2 := a2.DistanceToSegment(b1, b2)
	d3 := b1.DistanceToSegment(a1, a2)
	d4 := b2.DistanceToSegment(a1, a2)
	return math.Min(math.Min(d1, d2), math.Min(d3, d4))
}

type segmentPointPair struct {
	p1, p2 Point
	d      float64
}

// closestPointsBetweenSegments returns the closest point pair between
// two segments and their distance. p1 always lies on a1-a2, p2 on b1-b2.
func closestPointsBetweenSegments(a1, a2, b1, b2 Point) (Point, Point, float64) {
	if hit, pt, _, _ := segmentIntersect(a1, a2, b1, b2); hit {
		return pt, pt, 0
	}

	candidate := func(p1, p2 Point) segmentPointPair {
		return segmentPointPair{p1, p2, p1.DistanceTo(p2)}
	}

	cpB1, _ := a1.ClosestPointOnSegment(b1, b2)
	cpB2, _ := a2.ClosestPointOnSegment(b1, b2)
	cpA1, _ := b1.ClosestPointOnSegment(a1, a2)
	cpA2, _ := b2.ClosestPointOnSegment(a1, a2)

	best := candidate(a1, cpB1)
	for _, c := range []segmentPointPair{
		candidate(a2, cpB2),
		candidate(cpA1, b1),
		candidate(cpA2, b2),
	} {
		if c.d < best.d {
			best = c
		}
	}
	return best.p1, best.p2, best.d
}
