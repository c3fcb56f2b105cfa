package geometry

import "github.com/paulmach/orb"

// ToOrbRing converts p to an orb.Ring (closed: first point repeated at
// the end), for interop with the wider orb-based geo ecosystem.
func (p Polygon) ToOrbRing() orb.Ring {
	ring := make(orb.Ring, 0, p.n()+1)
	for _, v := range p.Vertices {
		ring = append(ring, orb.Point{v.X, v.Y})
	}
	ring = append(ring, ring[0])
	return ring
}

// PolygonFromOrbRing builds a Polygon from an orb.Ring, dropping a
// trailing point that duplicates the first (orb's closed-ring
// convention; this package's Polygon does not repeat the start vertex).
func PolygonFromOrbRing(ring orb.Ring) (Polygon, error) {
	pts := make([]Point, 0, len(ring))
	for _, op := range ring {
		pts = append(pts, Point{op[0], op[1]})
	}
	if len(pts) > 1 && pts[0].Equal(pts[len(pts)-1]) {
		pts = pts[:len(pts)-1]
	}
	return NewPolygon(pts)
}

// RectangleToOrbBound converts r to an orb.Bound.
func (r Rectangle) RectangleToOrbBound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{r.MinX(), r.MinY()},
		Max: orb.Point{r.MaxX(), r.MaxY()},
	}
}

// RectangleFromOrbBound converts an orb.Bound to a Rectangle.
func RectangleFromOrbBound(b orb.Bound) Rectangle {
	return Rectangle{
		X:      b.Min[0],
		Y:      b.Min[1],
		Width:  b.Max[0] - b.Min[0],
		Height: b.Max[1] - b.Min[1],
	}
}
