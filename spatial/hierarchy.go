package spatial

import (
	"context"
	"runtime"
	"sort"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/zlayout/zlayout-go/geometry"
	"github.com/zlayout/zlayout-go/internal/zerr"
	"github.com/zlayout/zlayout-go/internal/zlog"
)

// DefaultMaxObjectsPerBlock and DefaultMaxHierarchyLevels are the
// hierarchy's source-faithful defaults.
const (
	DefaultMaxObjectsPerBlock = 1_000_000
	DefaultMaxHierarchyLevels = 8
)

// IPBlock is a named rectangular region of the design, optionally
// nested under a parent block, with a lazily-created leaf index over
// the objects it directly owns.
type IPBlock[T any] struct {
	Name     string
	Boundary geometry.Rectangle
	Level    int
	Parent   *IPBlock[T]
	Children []*IPBlock[T]
	leaf     *QuadTree[T]
	leafMu   sync.Mutex
	bboxFn   func(T) geometry.Rectangle
}

// Depth returns the block's distance from the root (root.Depth() == 0).
func (b *IPBlock[T]) Depth() int {
	d := 0
	for p := b.Parent; p != nil; p = p.Parent {
		d++
	}
	return d
}

func (b *IPBlock[T]) ensureLeaf() *QuadTree[T] {
	b.leafMu.Lock()
	defer b.leafMu.Unlock()
	if b.leaf == nil {
		b.leaf = NewQuadTree[T](b.Boundary, b.bboxFn, DefaultCapacity, DefaultMaxDepth)
	}
	return b.leaf
}

// HierarchicalSpatialIndex is a tree of named IPBlocks, each backed by
// its own quadtree leaf, with Z-order-assisted bulk loading and
// parallel fan-out queries across blocks.
type HierarchicalSpatialIndex[T any] struct {
	world       geometry.Rectangle
	bboxFn      func(T) geometry.Rectangle
	maxPerBlock int
	maxLevels   int

	mu              sync.RWMutex
	root            *IPBlock[T]
	byName          map[string]*IPBlock[T]
	parallelEnabled bool
}

// NewHierarchicalSpatialIndex builds an index over world with the root
// block named "root" at level 0. maxPerBlock <= 0 uses
// DefaultMaxObjectsPerBlock; maxLevels <= 0 uses
// DefaultMaxHierarchyLevels.
func NewHierarchicalSpatialIndex[T any](world geometry.Rectangle, bboxFn func(T) geometry.Rectangle, maxPerBlock, maxLevels int) *HierarchicalSpatialIndex[T] {
	if maxPerBlock <= 0 {
		maxPerBlock = DefaultMaxObjectsPerBlock
	}
	if maxLevels <= 0 {
		maxLevels = DefaultMaxHierarchyLevels
	}
	root := &IPBlock[T]{Name: "root", Boundary: world, Level: 0, bboxFn: bboxFn}
	return &HierarchicalSpatialIndex[T]{
		world:           world,
		bboxFn:          bboxFn,
		maxPerBlock:     maxPerBlock,
		maxLevels:       maxLevels,
		root:            root,
		byName:          map[string]*IPBlock[T]{"root": root},
		parallelEnabled: true,
	}
}

// SetParallelEnabled toggles whether the Parallel* methods actually
// fan out across goroutines. A caller wiring an index through a
// Library handle with initialize(enable_parallel=false) should call
// this once up front; every Parallel* method then runs its work
// inline on the calling goroutine while keeping the same signature
// and dedup guarantees.
func (h *HierarchicalSpatialIndex[T]) SetParallelEnabled(enabled bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.parallelEnabled = enabled
}

func (h *HierarchicalSpatialIndex[T]) isParallelEnabled() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.parallelEnabled
}

// CreateIPBlock attaches a new block named name under parentName
// (defaulting to "root" when empty). It fails with CodeBlockNotFound
// if the parent does not exist and CodeDuplicateBlockName if name is
// already taken. A boundary that is not fully contained by the
// parent's is accepted but logged as a CodeBoundaryWarning.
func (h *HierarchicalSpatialIndex[T]) CreateIPBlock(name string, boundary geometry.Rectangle, parentName string) (*IPBlock[T], error) {
	if parentName == "" {
		parentName = "root"
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.byName[name]; exists {
		return nil, zerr.New(zerr.CodeDuplicateBlockName, "block %q already exists", name)
	}
	parent, ok := h.byName[parentName]
	if !ok {
		return nil, zerr.New(zerr.CodeBlockNotFound, "parent block %q not found", parentName)
	}
	if !parent.Boundary.ContainsRectangle(boundary) {
		zlog.Warn("⚠️ block boundary escapes parent", "block", name, "parent", parentName)
	}

	block := &IPBlock[T]{Name: name, Boundary: boundary, Level: parent.Level + 1, Parent: parent, bboxFn: h.bboxFn}
	parent.Children = append(parent.Children, block)
	h.byName[name] = block
	return block, nil
}

// FindBlock looks up a block by name.
func (h *HierarchicalSpatialIndex[T]) FindBlock(name string) (*IPBlock[T], error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	b, ok := h.byName[name]
	if !ok {
		return nil, zerr.New(zerr.CodeBlockNotFound, "block %q not found", name)
	}
	return b, nil
}

// BulkInsert sorts objects by the Z-order code of their bbox center in
// the world frame, then inserts each into the smallest block whose
// boundary contains its bbox (falling back to root), lazily creating
// each target block's leaf index.
func (h *HierarchicalSpatialIndex[T]) BulkInsert(objects []T) {
	h.mu.RLock()
	root := h.root
	h.mu.RUnlock()

	ordered := h.sortByZOrder(objects)
	for _, obj := range ordered {
		h.insertOne(root, obj)
	}
}

func (h *HierarchicalSpatialIndex[T]) sortByZOrder(objects []T) []T {
	type keyed struct {
		obj T
		key uint64
	}
	ks := make([]keyed, len(objects))
	for i, o := range objects {
		center := h.bboxFn(o).Center()
		ks[i] = keyed{obj: o, key: EncodePoint(center, h.world)}
	}
	sort.Slice(ks, func(i, j int) bool { return ks[i].key < ks[j].key })
	out := make([]T, len(ks))
	for i, k := range ks {
		out[i] = k.obj
	}
	return out
}

// insertOne finds the smallest block (by area) whose boundary contains
// bbox(obj) among block and its descendants, falling back to block
// itself, and inserts into that block's leaf.
func (h *HierarchicalSpatialIndex[T]) insertOne(block *IPBlock[T], obj T) {
	target := h.smallestContaining(block, h.bboxFn(obj))
	leaf := target.ensureLeaf()
	target.leafMu.Lock()
	leaf.Insert(obj)
	target.leafMu.Unlock()
}

func (h *HierarchicalSpatialIndex[T]) smallestContaining(block *IPBlock[T], bbox geometry.Rectangle) *IPBlock[T] {
	best := block
	for _, child := range block.Children {
		if child.Boundary.ContainsRectangle(bbox) {
			candidate := h.smallestContaining(child, bbox)
			if candidate.Boundary.Area() < best.Boundary.Area() {
				best = candidate
			}
		}
	}
	return best
}

// ParallelBulkInsert partitions objects into P chunks (P = GOMAXPROCS,
// or 1 when the index was built with parallel execution disabled) and
// runs BulkInsert per chunk on the errgroup-backed pool. Because each
// target block's leaf index is guarded by its own mutex, contention is
// limited to objects landing in the same block.
func (h *HierarchicalSpatialIndex[T]) ParallelBulkInsert(ctx context.Context, objects []T) error {
	p := 1
	if h.isParallelEnabled() {
		p = runtime.GOMAXPROCS(0)
		if p < 1 {
			p = 1
		}
	}
	chunks := partition(objects, p)

	g, _ := errgroup.WithContext(ctx)
	for _, chunk := range chunks {
		chunk := chunk
		g.Go(func() error {
			h.BulkInsert(chunk)
			return nil
		})
	}
	return g.Wait()
}

func partition[T any](items []T, p int) [][]T {
	if p < 1 {
		p = 1
	}
	chunkSize := (len(items) + p - 1) / p
	if chunkSize == 0 {
		return nil
	}
	var out [][]T
	for i := 0; i < len(items); i += chunkSize {
		end := i + chunkSize
		if end > len(items) {
			end = len(items)
		}
		out = append(out, items[i:end])
	}
	return out
}

// ParallelQueryRange fans out to every block whose boundary intersects
// r, runs each block's leaf range query on a worker, joins, and
// deduplicates the results: by HandleID when T is a Handle (or
// otherwise implements HandleID), else by bbox equality, which also
// collapses distinct objects that share an identical bbox. When the index was
// built with parallel execution disabled, the per-block queries run
// sequentially on the calling goroutine instead; the result and its
// dedup guarantee are unchanged.
func (h *HierarchicalSpatialIndex[T]) ParallelQueryRange(ctx context.Context, r geometry.Rectangle) ([]T, error) {
	h.mu.RLock()
	var blocks []*IPBlock[T]
	collectIntersecting(h.root, r, &blocks)
	h.mu.RUnlock()

	queryBlock := func(b *IPBlock[T]) []T {
		b.leafMu.Lock()
		leaf := b.leaf
		b.leafMu.Unlock()
		if leaf == nil {
			return nil
		}
		return leaf.QueryRange(r)
	}

	var flat []T
	if h.isParallelEnabled() {
		results := make([][]T, len(blocks))
		g, _ := errgroup.WithContext(ctx)
		for i, b := range blocks {
			i, b := i, b
			g.Go(func() error {
				results[i] = queryBlock(b)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		for _, rs := range results {
			flat = append(flat, rs...)
		}
	} else {
		for _, b := range blocks {
			flat = append(flat, queryBlock(b)...)
		}
	}
	return dedupeResults(flat, h.bboxFn), nil
}

func collectIntersecting[T any](b *IPBlock[T], r geometry.Rectangle, out *[]*IPBlock[T]) {
	if !b.Boundary.Intersects(r) {
		return
	}
	*out = append(*out, b)
	for _, c := range b.Children {
		collectIntersecting(c, r, out)
	}
}

// dedupeResults deduplicates parallel-query output. When T is Handle[T']
// (or otherwise implements identifiable), dedup is by stable UUID —
// the contract spec.md §4.F and §5 call for, since pointer identity
// doesn't survive the value copies objects undergo crossing goroutine
// boundaries during parallel fan-out. Callers whose T doesn't carry a
// Handle fall back to bbox-equality, which is exact as long as
// coincident-bbox objects aren't expected to be distinguished.
func dedupeResults[T any](objs []T, bboxFn func(T) geometry.Rectangle) []T {
	if len(objs) == 0 {
		return objs
	}
	if _, ok := any(objs[0]).(identifiable); ok {
		seen := make(map[uuid.UUID]bool, len(objs))
		out := make([]T, 0, len(objs))
		for _, o := range objs {
			id := any(o).(identifiable).HandleID()
			if seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, o)
		}
		return out
	}

	type key struct{ x, y, w, h float64 }
	seen := make(map[key]bool, len(objs))
	out := make([]T, 0, len(objs))
	for _, o := range objs {
		b := bboxFn(o)
		k := key{b.X, b.Y, b.Width, b.Height}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, o)
	}
	return out
}

// ParallelFindIntersections runs per-block intersection enumeration in
// parallel, or sequentially when the index was built with parallel
// execution disabled. Cross-block pairs are not enumerated — a
// documented limitation acceptable because block boundaries are design
// hierarchies that normally disallow cross-hierarchy geometry.
func (h *HierarchicalSpatialIndex[T]) ParallelFindIntersections(ctx context.Context) ([]Pair[T], error) {
	h.mu.RLock()
	var blocks []*IPBlock[T]
	collectAllBlocks(h.root, &blocks)
	h.mu.RUnlock()

	intersectBlock := func(b *IPBlock[T]) []Pair[T] {
		b.leafMu.Lock()
		leaf := b.leaf
		b.leafMu.Unlock()
		if leaf == nil {
			return nil
		}
		return leaf.FindPotentialIntersections()
	}

	var flat []Pair[T]
	if h.isParallelEnabled() {
		results := make([][]Pair[T], len(blocks))
		g, _ := errgroup.WithContext(ctx)
		for i, b := range blocks {
			i, b := i, b
			g.Go(func() error {
				results[i] = intersectBlock(b)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		for _, rs := range results {
			flat = append(flat, rs...)
		}
	} else {
		for _, b := range blocks {
			flat = append(flat, intersectBlock(b)...)
		}
	}
	return flat, nil
}

func collectAllBlocks[T any](b *IPBlock[T], out *[]*IPBlock[T]) {
	*out = append(*out, b)
	for _, c := range b.Children {
		collectAllBlocks(c, out)
	}
}

// OptimizeHierarchy recursively splits any block whose leaf holds more
// than threshold objects into 4 equal quadrant sub-blocks, stopping at
// maxLevels. Existing objects are not redistributed into the new
// sub-blocks; only subsequent inserts benefit.
func (h *HierarchicalSpatialIndex[T]) OptimizeHierarchy(threshold int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.optimizeBlock(h.root, threshold)
}

func (h *HierarchicalSpatialIndex[T]) optimizeBlock(b *IPBlock[T], threshold int) {
	if b.Level >= h.maxLevels {
		return
	}
	b.leafMu.Lock()
	count := 0
	if b.leaf != nil {
		count = b.leaf.Stats().TotalObjects
	}
	b.leafMu.Unlock()

	if count > threshold && len(b.Children) == 0 {
		hw, hh := b.Boundary.Width/2, b.Boundary.Height/2
		x, y := b.Boundary.X, b.Boundary.Y
		quads := []geometry.Rectangle{
			{X: x, Y: y + hh, Width: hw, Height: hh},
			{X: x + hw, Y: y + hh, Width: hw, Height: hh},
			{X: x, Y: y, Width: hw, Height: hh},
			{X: x + hw, Y: y, Width: hw, Height: hh},
		}
		for i, q := range quads {
			name := b.Name + "/q" + strconv.Itoa(i)
			child := &IPBlock[T]{Name: name, Boundary: q, Level: b.Level + 1, Parent: b, bboxFn: h.bboxFn}
			b.Children = append(b.Children, child)
			h.byName[name] = child
		}
	}
	for _, c := range b.Children {
		h.optimizeBlock(c, threshold)
	}
}

// HierarchyStats summarizes the index's current size.
type HierarchyStats struct {
	TotalObjects       int
	TotalBlocks        int
	MaxDepth           int
	AvgObjectsPerBlock float64
	EstimatedMemoryMB  float64
}

// Stats walks every block and aggregates object counts, block count,
// max depth, and a rough memory estimate (64 bytes/object, a
// source-faithful rule of thumb rather than a measured figure).
func (h *HierarchicalSpatialIndex[T]) Stats() HierarchyStats {
	h.mu.RLock()
	defer h.mu.RUnlock()
	var s HierarchyStats
	h.walkStats(h.root, &s)
	if s.TotalBlocks > 0 {
		s.AvgObjectsPerBlock = float64(s.TotalObjects) / float64(s.TotalBlocks)
	}
	const bytesPerObject = 64.0
	s.EstimatedMemoryMB = float64(s.TotalObjects) * bytesPerObject / (1024 * 1024)
	return s
}

func (h *HierarchicalSpatialIndex[T]) walkStats(b *IPBlock[T], s *HierarchyStats) {
	s.TotalBlocks++
	if d := b.Depth(); d > s.MaxDepth {
		s.MaxDepth = d
	}
	b.leafMu.Lock()
	if b.leaf != nil {
		s.TotalObjects += b.leaf.Stats().TotalObjects
	}
	b.leafMu.Unlock()
	for _, c := range b.Children {
		h.walkStats(c, s)
	}
}
