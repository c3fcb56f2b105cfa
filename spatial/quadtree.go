package spatial

import "github.com/zlayout/zlayout-go/geometry"

// DefaultCapacity and DefaultMaxDepth match spec.md §4.C's source-faithful
// defaults.
const (
	DefaultCapacity = 10
	DefaultMaxDepth = 8
)

// quadChild indexes a node's four children in NW, NE, SW, SE order.
type quadChild int

const (
	childNW quadChild = iota
	childNE
	childSW
	childSE
	numChildren
)

// QuadTree recursively subdivides a rectangular region into quadrants
// once a node's object count exceeds capacity, up to maxDepth. T is
// any stored object type; bboxFn extracts its bounding box.
type QuadTree[T any] struct {
	root        *quadNode[T]
	bboxFn      func(T) geometry.Rectangle
	capacity    int
	maxDepth    int
	totalInsert int
}

type quadNode[T any] struct {
	bounds   geometry.Rectangle
	depth    int
	objects  []T
	children [numChildren]*quadNode[T]
}

func (n *quadNode[T]) isSubdivided() bool { return n.children[childNW] != nil }

// NewQuadTree builds a QuadTree over bounds. capacity <= 0 uses
// DefaultCapacity; maxDepth <= 0 uses DefaultMaxDepth.
func NewQuadTree[T any](bounds geometry.Rectangle, bboxFn func(T) geometry.Rectangle, capacity, maxDepth int) *QuadTree[T] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &QuadTree[T]{
		root:     &quadNode[T]{bounds: bounds},
		bboxFn:   bboxFn,
		capacity: capacity,
		maxDepth: maxDepth,
	}
}

// Insert attempts to place obj in the tree, following the
// source-faithful insertion rule of spec.md §4.C: an object whose
// bbox straddles a split line is anchored at the ancestor that first
// encountered it. Returns false if obj's bbox does not intersect the
// tree's bounds at all.
func (q *QuadTree[T]) Insert(obj T) bool {
	ok := q.insertInto(q.root, obj)
	if ok {
		q.totalInsert++
	}
	return ok
}

func (q *QuadTree[T]) insertInto(n *quadNode[T], obj T) bool {
	bbox := q.bboxFn(obj)
	if !n.bounds.Intersects(bbox) {
		return false
	}

	if !n.isSubdivided() {
		if len(n.objects) < q.capacity {
			n.objects = append(n.objects, obj)
			return true
		}
		if n.depth < q.maxDepth {
			q.subdivide(n)
		} else {
			n.objects = append(n.objects, obj)
			return true
		}
	}

	// A child only "accepts" an object whose bbox it fully contains —
	// not merely intersects. Using plain intersects here would let an
	// object that merely grazes a quadrant get anchored arbitrarily
	// deep in the tree despite also overlapping sibling quadrants,
	// which breaks range-query pruning (a query confined to a sibling
	// quadrant would never visit the node holding it). Objects whose
	// bbox straddles a split line are rejected by every child and stay
	// at this level, per spec.
	for i := range n.children {
		if n.children[i].bounds.ContainsRectangle(bbox) && q.insertInto(n.children[i], obj) {
			return true
		}
	}

	// No child fully contains it — the object straddles a split line
	// and stays at this level.
	n.objects = append(n.objects, obj)
	return true
}

func (q *QuadTree[T]) subdivide(n *quadNode[T]) {
	hw, hh := n.bounds.Width/2, n.bounds.Height/2
	x, y := n.bounds.X, n.bounds.Y
	rects := [numChildren]geometry.Rectangle{
		childNW: {X: x, Y: y + hh, Width: hw, Height: hh},
		childNE: {X: x + hw, Y: y + hh, Width: hw, Height: hh},
		childSW: {X: x, Y: y, Width: hw, Height: hh},
		childSE: {X: x + hw, Y: y, Width: hw, Height: hh},
	}
	for i, r := range rects {
		n.children[i] = &quadNode[T]{bounds: r, depth: n.depth + 1}
	}
}

// QueryRange collects every inserted object whose bbox intersects r.
// Output order is unspecified.
func (q *QuadTree[T]) QueryRange(r geometry.Rectangle) []T {
	var out []T
	q.queryRange(q.root, r, &out)
	return out
}

func (q *QuadTree[T]) queryRange(n *quadNode[T], r geometry.Rectangle, out *[]T) {
	if !n.bounds.Intersects(r) {
		return
	}
	for _, obj := range n.objects {
		if q.bboxFn(obj).Intersects(r) {
			*out = append(*out, obj)
		}
	}
	if n.isSubdivided() {
		for _, c := range n.children {
			q.queryRange(c, r, out)
		}
	}
}

// QueryPoint is QueryRange with a zero-area rectangle at p.
func (q *QuadTree[T]) QueryPoint(p geometry.Point) []T {
	return q.QueryRange(geometry.Rectangle{X: p.X, Y: p.Y})
}

// QueryNearby range-queries bbox(obj) expanded by d, then filters by
// rectangle.DistanceTo <= d.
func (q *QuadTree[T]) QueryNearby(obj T, d float64) []T {
	bbox := q.bboxFn(obj)
	expanded := bbox.Expand(d)
	candidates := q.QueryRange(expanded)
	out := candidates[:0]
	for _, c := range candidates {
		if q.bboxFn(c).DistanceTo(bbox) <= d {
			out = append(out, c)
		}
	}
	return out
}

// QueryCircle range-queries the enclosing square of the circle, then
// filters by center-to-center distance.
func (q *QuadTree[T]) QueryCircle(center geometry.Point, radius float64) []T {
	square := geometry.Rectangle{X: center.X - radius, Y: center.Y - radius, Width: 2 * radius, Height: 2 * radius}
	candidates := q.QueryRange(square)
	out := candidates[:0]
	for _, c := range candidates {
		bbox := q.bboxFn(c)
		if bbox.Center().DistanceTo(center) <= radius {
			out = append(out, c)
		}
	}
	return out
}

// Pair is an unordered pair of potentially-intersecting objects.
type Pair[T any] struct {
	A, B T
}

// FindPotentialIntersections enumerates every same-node pair plus
// cross-child pairs whose bounding boxes overlap, recursively. Output
// contains every pair whose bounding boxes intersect, at most once.
func (q *QuadTree[T]) FindPotentialIntersections() []Pair[T] {
	var out []Pair[T]
	q.findIntersections(q.root, &out)
	return out
}

func (q *QuadTree[T]) findIntersections(n *quadNode[T], out *[]Pair[T]) {
	for i := 0; i < len(n.objects); i++ {
		for j := i + 1; j < len(n.objects); j++ {
			if q.bboxFn(n.objects[i]).Intersects(q.bboxFn(n.objects[j])) {
				*out = append(*out, Pair[T]{n.objects[i], n.objects[j]})
			}
		}
	}
	if !n.isSubdivided() {
		return
	}
	// Cross-child pairs: this node's own objects against every
	// descendant of every child, plus descendant-vs-descendant across
	// distinct children.
	var descendants [numChildren][]T
	for i, c := range n.children {
		q.collectAll(c, &descendants[i])
	}
	for _, obj := range n.objects {
		for _, d := range descendants {
			for _, other := range d {
				if q.bboxFn(obj).Intersects(q.bboxFn(other)) {
					*out = append(*out, Pair[T]{obj, other})
				}
			}
		}
	}
	for i := 0; i < len(descendants); i++ {
		for j := i + 1; j < len(descendants); j++ {
			for _, a := range descendants[i] {
				for _, b := range descendants[j] {
					if q.bboxFn(a).Intersects(q.bboxFn(b)) {
						*out = append(*out, Pair[T]{a, b})
					}
				}
			}
		}
	}
	for _, c := range n.children {
		q.findIntersections(c, out)
	}
}

func (q *QuadTree[T]) collectAll(n *quadNode[T], out *[]T) {
	*out = append(*out, n.objects...)
	if n.isSubdivided() {
		for _, c := range n.children {
			q.collectAll(c, out)
		}
	}
}

// Remove does a linear search under every node whose rectangle
// intersects bbox(obj), removing the first match found via equal. The
// tree is not rebalanced.
func (q *QuadTree[T]) Remove(obj T, equal func(T, T) bool) bool {
	return q.remove(q.root, obj, equal)
}

func (q *QuadTree[T]) remove(n *quadNode[T], obj T, equal func(T, T) bool) bool {
	bbox := q.bboxFn(obj)
	if !n.bounds.Intersects(bbox) {
		return false
	}
	for i, o := range n.objects {
		if equal(o, obj) {
			n.objects = append(n.objects[:i], n.objects[i+1:]...)
			q.totalInsert--
			return true
		}
	}
	if n.isSubdivided() {
		for _, c := range n.children {
			if q.remove(c, obj, equal) {
				return true
			}
		}
	}
	return false
}

// Update removes old and inserts replacement.
func (q *QuadTree[T]) Update(old, replacement T, equal func(T, T) bool) bool {
	q.Remove(old, equal)
	return q.Insert(replacement)
}

// Stats is the full recursive walk named by spec.md §4.C (design
// note 6: the source's two get_statistics implementations disagreed;
// this pins to the complete recursive walk).
type Stats struct {
	TotalNodes       int
	LeafNodes        int
	MaxDepthReached  int
	TotalObjects     int
	AvgObjectsPerLeaf float64
	TreeEfficiency   float64
}

func (q *QuadTree[T]) Stats() Stats {
	var s Stats
	q.walkStats(q.root, &s)
	if s.LeafNodes > 0 {
		s.AvgObjectsPerLeaf = float64(s.TotalObjects) / float64(s.LeafNodes)
	}
	if s.TotalNodes > 0 {
		s.TreeEfficiency = float64(s.TotalObjects) / float64(s.TotalNodes)
	}
	return s
}

func (q *QuadTree[T]) walkStats(n *quadNode[T], s *Stats) {
	s.TotalNodes++
	s.TotalObjects += len(n.objects)
	if n.depth > s.MaxDepthReached {
		s.MaxDepthReached = n.depth
	}
	if !n.isSubdivided() {
		s.LeafNodes++
		return
	}
	for _, c := range n.children {
		q.walkStats(c, s)
	}
}

// Bounds returns the tree's root rectangle.
func (q *QuadTree[T]) Bounds() geometry.Rectangle { return q.root.bounds }
