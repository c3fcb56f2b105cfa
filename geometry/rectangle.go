package geometry

import "math"

// Rectangle is an axis-aligned rectangle. X, Y is the minimum corner.
// Width and Height are non-negative; a zero width or height is
// degenerate but legal (used to represent a point as a zero-area
// rectangle for range queries).
type Rectangle struct {
	X, Y, Width, Height float64
}

// NewRectangleFromCorners builds a Rectangle from two opposite corners.
func NewRectangleFromCorners(a, b Point) Rectangle {
	minX, maxX := math.Min(a.X, b.X), math.Max(a.X, b.X)
	minY, maxY := math.Min(a.Y, b.Y), math.Max(a.Y, b.Y)
	return Rectangle{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// FromCenter builds a Rectangle of the given size centered on c.
func FromCenter(c Point, width, height float64) Rectangle {
	return Rectangle{X: c.X - width/2, Y: c.Y - height/2, Width: width, Height: height}
}

// BoundingBoxOfPoints returns the smallest rectangle enclosing points.
// Returns the zero Rectangle for an empty slice.
func BoundingBoxOfPoints(points []Point) Rectangle {
	if len(points) == 0 {
		return Rectangle{}
	}
	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points[1:] {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	return Rectangle{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// BoundingBoxOfRectangles returns the smallest rectangle enclosing rects.
func BoundingBoxOfRectangles(rects []Rectangle) Rectangle {
	if len(rects) == 0 {
		return Rectangle{}
	}
	result := rects[0]
	for _, r := range rects[1:] {
		result = result.UnionWith(r)
	}
	return result
}

func (r Rectangle) MinX() float64 { return r.X }
func (r Rectangle) MinY() float64 { return r.Y }
func (r Rectangle) MaxX() float64 { return r.X + r.Width }
func (r Rectangle) MaxY() float64 { return r.Y + r.Height }

func (r Rectangle) Area() float64 { return r.Width * r.Height }

// Corners returns the four corners in order min, (maxX,minY), max, (minX,maxY).
func (r Rectangle) Corners() [4]Point {
	return [4]Point{
		{r.MinX(), r.MinY()},
		{r.MaxX(), r.MinY()},
		{r.MaxX(), r.MaxY()},
		{r.MinX(), r.MaxY()},
	}
}

func (r Rectangle) Center() Point {
	return Point{r.X + r.Width/2, r.Y + r.Height/2}
}

// ContainsPoint is inclusive of the boundary.
func (r Rectangle) ContainsPoint(p Point) bool {
	return p.X >= r.MinX() && p.X <= r.MaxX() && p.Y >= r.MinY() && p.Y <= r.MaxY()
}

// ContainsRectangle is inclusive of the boundary.
func (r Rectangle) ContainsRectangle(o Rectangle) bool {
	return o.MinX() >= r.MinX() && o.MaxX() <= r.MaxX() &&
		o.MinY() >= r.MinY() && o.MaxY() <= r.MaxY()
}

// Intersects is strict: touching edges do not intersect. This is a
// library-wide convention — see spec.md §3.
func (r Rectangle) Intersects(o Rectangle) bool {
	return r.MinX() < o.MaxX() && r.MaxX() > o.MinX() &&
		r.MinY() < o.MaxY() && r.MaxY() > o.MinY()
}

// Intersection returns a degenerate (zero-area) rectangle when r and o
// are disjoint.
func (r Rectangle) Intersection(o Rectangle) Rectangle {
	minX := math.Max(r.MinX(), o.MinX())
	minY := math.Max(r.MinY(), o.MinY())
	maxX := math.Min(r.MaxX(), o.MaxX())
	maxY := math.Min(r.MaxY(), o.MaxY())
	if maxX < minX {
		maxX = minX
	}
	if maxY < minY {
		maxY = minY
	}
	return Rectangle{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

func (r Rectangle) UnionWith(o Rectangle) Rectangle {
	minX := math.Min(r.MinX(), o.MinX())
	minY := math.Min(r.MinY(), o.MinY())
	maxX := math.Max(r.MaxX(), o.MaxX())
	maxY := math.Max(r.MaxY(), o.MaxY())
	return Rectangle{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Expand grows the rectangle by margin on every side (a negative
// margin shrinks it). ExpandSides is the anisotropic variant.
func (r Rectangle) Expand(margin float64) Rectangle {
	return r.ExpandSides(margin, margin, margin, margin)
}

// ExpandSides grows the rectangle by distinct margins per edge.
func (r Rectangle) ExpandSides(left, right, bottom, top float64) Rectangle {
	return Rectangle{
		X:      r.X - left,
		Y:      r.Y - bottom,
		Width:  r.Width + left + right,
		Height: r.Height + bottom + top,
	}
}

func (r Rectangle) Translate(delta Point) Rectangle {
	return Rectangle{X: r.X + delta.X, Y: r.Y + delta.Y, Width: r.Width, Height: r.Height}
}

// Scale scales the rectangle about its center by a uniform factor.
func (r Rectangle) Scale(factor float64) Rectangle {
	return r.ScaleAnisotropic(factor, factor)
}

// ScaleAnisotropic scales the rectangle about its center independently
// on each axis.
func (r Rectangle) ScaleAnisotropic(fx, fy float64) Rectangle {
	c := r.Center()
	w, h := r.Width*fx, r.Height*fy
	return Rectangle{X: c.X - w/2, Y: c.Y - h/2, Width: w, Height: h}
}

// DistanceToPoint is 0 when p is contained, else the Euclidean
// distance to the nearest edge.
func (r Rectangle) DistanceToPoint(p Point) float64 {
	dx := math.Max(math.Max(r.MinX()-p.X, 0), p.X-r.MaxX())
	dy := math.Max(math.Max(r.MinY()-p.Y, 0), p.Y-r.MaxY())
	return math.Hypot(dx, dy)
}

// DistanceTo is 0 when r and o intersect, else the L2 distance between
// the projected gaps on each axis.
func (r Rectangle) DistanceTo(o Rectangle) float64 {
	dx := math.Max(0, math.Max(r.MinX()-o.MaxX(), o.MinX()-r.MaxX()))
	dy := math.Max(0, math.Max(r.MinY()-o.MaxY(), o.MinY()-r.MaxY()))
	return math.Hypot(dx, dy)
}
