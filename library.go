// Package zlayout is the library's entry point: the Library handle
// that replaces the source's global initialize/cleanup singleton, plus
// the constructors that thread its parallel-execution flag into the
// spatial index and thread pool it hands out.
package zlayout

import (
	"sync"

	"github.com/zlayout/zlayout-go/concurrency"
	"github.com/zlayout/zlayout-go/geometry"
	"github.com/zlayout/zlayout-go/internal/zlog"
	"github.com/zlayout/zlayout-go/spatial"
)

// version is the library's semantic version, reported by Version().
const version = "0.1.0"

// Library is an explicit, caller-owned handle standing in for the
// source's hidden mutable statics: a singleton "initialized" flag and
// an optional parallel-execution flag. Every method is safe for
// concurrent use.
type Library struct {
	mu          sync.Mutex
	initialized bool
	parallel    bool
}

// NewLibrary returns an uninitialized handle. Callers must call
// Initialize before using it to build spatial indexes or thread pools.
func NewLibrary() *Library {
	return &Library{}
}

// Initialize sets the library's initialized flag and parallel-
// execution preference, returning true on success. It is idempotent:
// calling it again on an already-initialized handle logs a warning
// and leaves the existing parallel setting in place, matching the
// source's re-entry semantics.
func (l *Library) Initialize(enableParallel bool) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.initialized {
		zlog.Warn("⚠️ Library.Initialize called on an already-initialized handle")
		return true
	}
	l.initialized = true
	l.parallel = enableParallel
	zlog.Info("📚 zlayout library initialized", "parallel", enableParallel, "version", version)
	return true
}

// Cleanup clears the initialized flag. A subsequent Initialize call
// is treated as fresh, not a re-entry.
func (l *Library) Cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.initialized = false
	l.parallel = false
	zlog.Debug("📚 zlayout library cleaned up")
}

// Version reports the library's semantic version.
func (l *Library) Version() string {
	return version
}

// ParallelEnabled reports the parallel-execution preference set by
// the Initialize call that initialized the handle; a re-entrant call
// does not change it. An uninitialized handle reports false.
func (l *Library) ParallelEnabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.initialized && l.parallel
}

// NewHierarchicalSpatialIndex builds a hierarchical spatial index and
// wires l's parallel-execution preference into it, so its Parallel*
// methods fan out across goroutines only when l was initialized with
// enableParallel true.
func NewHierarchicalSpatialIndex[T any](l *Library, world geometry.Rectangle, bboxFn func(T) geometry.Rectangle, maxPerBlock, maxLevels int) *spatial.HierarchicalSpatialIndex[T] {
	idx := spatial.NewHierarchicalSpatialIndex[T](world, bboxFn, maxPerBlock, maxLevels)
	idx.SetParallelEnabled(l.ParallelEnabled())
	return idx
}

// NewThreadPool builds a thread pool sized by cfg, collapsed to a
// single worker when l's parallel-execution preference is false.
func NewThreadPool(l *Library, cfg concurrency.PoolConfig) *concurrency.ThreadPool {
	if !l.ParallelEnabled() {
		return concurrency.NewSerialThreadPool(cfg)
	}
	return concurrency.NewThreadPool(cfg)
}
