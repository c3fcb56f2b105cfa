package spatial

import "github.com/google/uuid"

// Handle wraps a stored object with a stable identity. When an index
// stores Handle values, ParallelQueryRange's deduplication is
// identity-based rather than bbox-based; other object types fall back
// to bbox equality. Pointer
// identity does not survive the value copies that happen when objects
// cross goroutine boundaries during parallel bulk-load.
type Handle[T any] struct {
	ID     uuid.UUID
	Object T
}

// NewHandle wraps obj with a freshly generated identity.
func NewHandle[T any](obj T) Handle[T] {
	return Handle[T]{ID: uuid.New(), Object: obj}
}

// HandleID satisfies the identifiable interface so that
// HierarchicalSpatialIndex dedup can recognize a Handle[T] by stable
// UUID rather than falling back to bbox-equality.
func (h Handle[T]) HandleID() uuid.UUID { return h.ID }

// identifiable is implemented by Handle[T]. A caller that wants the
// hierarchy's parallel queries to dedupe by true identity (rather than
// bbox equality, which breaks for coincident shapes) should use
// Handle[T] as the index's object type.
type identifiable interface {
	HandleID() uuid.UUID
}
