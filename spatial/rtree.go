package spatial

import "github.com/zlayout/zlayout-go/geometry"

// MaxEntries and MinEntries pin the tree's fanout. Unlike the bbox
// quadtree, this bound is not configurable — the source fixes it.
const (
	MaxEntries = 16
	MinEntries = 4
)

// RTree is a minimum-bounding-rectangle tree over objects of type T.
// Insertion descends by least-MBR-area increase; a full node splits by
// naive midpoint (first half of entries into one node, second half
// into a sibling) rather than a quality split such as quadratic or
// R*-split. Query performance can degrade under adversarial insertion
// order; this trade-off is inherited rather than fixed.
type RTree[T any] struct {
	root   *rtreeNode[T]
	bboxFn func(T) geometry.Rectangle
}

type rtreeEntry[T any] struct {
	bbox  geometry.Rectangle
	obj   T
	child *rtreeNode[T]
}

type rtreeNode[T any] struct {
	leaf    bool
	mbr     geometry.Rectangle
	entries []rtreeEntry[T]
}

// NewRTree builds an empty R-tree. bboxFn extracts an object's bounding box.
func NewRTree[T any](bboxFn func(T) geometry.Rectangle) *RTree[T] {
	return &RTree[T]{
		root:   &rtreeNode[T]{leaf: true},
		bboxFn: bboxFn,
	}
}

// Insert adds obj to the tree, splitting nodes and growing the root as needed.
func (t *RTree[T]) Insert(obj T) {
	bbox := t.bboxFn(obj)
	leaf := t.chooseLeaf(t.root, bbox)
	leaf.entries = append(leaf.entries, rtreeEntry[T]{bbox: bbox, obj: obj})
	leaf.mbr = recomputeMBR(leaf.entries)

	split := t.adjustTree(leaf)
	if split != nil {
		t.growRoot(split)
	}
}

// chooseLeaf descends from n by least-MBR-area increase, ties broken
// by the smaller current area, until it reaches a leaf.
func (t *RTree[T]) chooseLeaf(n *rtreeNode[T], bbox geometry.Rectangle) *rtreeNode[T] {
	for !n.leaf {
		best := 0
		bestIncrease := areaIncrease(n.entries[0].child.mbr, bbox)
		bestArea := n.entries[0].child.mbr.Area()
		for i := 1; i < len(n.entries); i++ {
			child := n.entries[i].child
			increase := areaIncrease(child.mbr, bbox)
			area := child.mbr.Area()
			if increase < bestIncrease || (increase == bestIncrease && area < bestArea) {
				best = i
				bestIncrease = increase
				bestArea = area
			}
		}
		n = n.entries[best].child
	}
	return n
}

func areaIncrease(mbr, bbox geometry.Rectangle) float64 {
	return mbr.UnionWith(bbox).Area() - mbr.Area()
}

// adjustTree walks from leaf toward the root, recomputing MBRs and
// splitting any node that has grown past MaxEntries. It returns the
// sibling produced by splitting the root, or nil if the root never split.
func (t *RTree[T]) adjustTree(n *rtreeNode[T]) *rtreeNode[T] {
	for {
		var sibling *rtreeNode[T]
		if len(n.entries) > MaxEntries {
			sibling = t.split(n)
		}
		parent := t.findParent(t.root, n)
		if parent == nil {
			// n is the root.
			return sibling
		}
		for i := range parent.entries {
			if parent.entries[i].child == n {
				parent.entries[i].bbox = n.mbr
			}
		}
		if sibling != nil {
			parent.entries = append(parent.entries, rtreeEntry[T]{bbox: sibling.mbr, child: sibling})
		}
		parent.mbr = recomputeMBR(parent.entries)
		n = parent
	}
}

// split performs the naive midpoint split: the first half of n's
// entries stay in n, the second half move to a new sibling node.
func (t *RTree[T]) split(n *rtreeNode[T]) *rtreeNode[T] {
	mid := len(n.entries) / 2
	sibling := &rtreeNode[T]{leaf: n.leaf, entries: append([]rtreeEntry[T]{}, n.entries[mid:]...)}
	n.entries = n.entries[:mid]
	n.mbr = recomputeMBR(n.entries)
	sibling.mbr = recomputeMBR(sibling.entries)
	return sibling
}

// growRoot creates a new root one level higher when the existing root split.
func (t *RTree[T]) growRoot(sibling *rtreeNode[T]) {
	oldRoot := t.root
	newRoot := &rtreeNode[T]{
		leaf: false,
		entries: []rtreeEntry[T]{
			{bbox: oldRoot.mbr, child: oldRoot},
			{bbox: sibling.mbr, child: sibling},
		},
	}
	newRoot.mbr = recomputeMBR(newRoot.entries)
	t.root = newRoot
}

func (t *RTree[T]) findParent(n, target *rtreeNode[T]) *rtreeNode[T] {
	if n.leaf {
		return nil
	}
	for _, e := range n.entries {
		if e.child == target {
			return n
		}
	}
	for _, e := range n.entries {
		if p := t.findParent(e.child, target); p != nil {
			return p
		}
	}
	return nil
}

func recomputeMBR[T any](entries []rtreeEntry[T]) geometry.Rectangle {
	if len(entries) == 0 {
		return geometry.Rectangle{}
	}
	mbr := entries[0].bbox
	for _, e := range entries[1:] {
		mbr = mbr.UnionWith(e.bbox)
	}
	return mbr
}

// QueryRange returns every object whose bbox intersects r, via MBR pruning.
func (t *RTree[T]) QueryRange(r geometry.Rectangle) []T {
	var out []T
	t.queryRange(t.root, r, &out)
	return out
}

func (t *RTree[T]) queryRange(n *rtreeNode[T], r geometry.Rectangle, out *[]T) {
	if len(n.entries) > 0 && !n.mbr.Intersects(r) {
		return
	}
	if n.leaf {
		for _, e := range n.entries {
			if e.bbox.Intersects(r) {
				*out = append(*out, e.obj)
			}
		}
		return
	}
	for _, e := range n.entries {
		t.queryRange(e.child, r, out)
	}
}

// QueryPoint is QueryRange with a zero-area rectangle at p.
func (t *RTree[T]) QueryPoint(p geometry.Point) []T {
	return t.QueryRange(geometry.Rectangle{X: p.X, Y: p.Y})
}

// Remove is not implemented: the source rebuilds the tree via
// bulk-load rather than supporting incremental deletion (spec §4.D).
// Count reports the number of leaf entries currently stored.
func (t *RTree[T]) Count() int {
	return t.countLeaf(t.root)
}

func (t *RTree[T]) countLeaf(n *rtreeNode[T]) int {
	if n.leaf {
		return len(n.entries)
	}
	total := 0
	for _, e := range n.entries {
		total += t.countLeaf(e.child)
	}
	return total
}

// Bounds returns the root's minimum bounding rectangle.
func (t *RTree[T]) Bounds() geometry.Rectangle { return t.root.mbr }
