package brep

import (
	"fmt"
	"sync/atomic"
)

// storeSeq issues process-wide unique store identities. Identities start at 1
// so the zero Handle never resolves against any store.
var storeSeq atomic.Uint64

// Handle is an opaque reference to one value held in a Store. Handles are
// comparable and hashable; two handles are interchangeable only when they were
// issued by the same store for the same insertion. The zero value refers to
// nothing.
type Handle[T any] struct {
	store uint64
	index uint64
}

// IsZero reports whether h is the zero handle.
func (h Handle[T]) IsZero() bool { return h.store == 0 }

// Index returns the insertion position of the referenced value within its
// store. It is only meaningful together with the issuing store, and is what
// snapshots use to encode cross-references.
func (h Handle[T]) Index() uint64 { return h.index }

func (h Handle[T]) String() string {
	if h.IsZero() {
		return "handle(nil)"
	}
	return fmt.Sprintf("handle(%d/%d)", h.store, h.index)
}

// Store is an append-only arena holding values of a single kind. Insertion
// issues a fresh handle that stays valid for the lifetime of the store;
// nothing is ever removed or overwritten. Stores are not internally
// synchronized; the owning facade serializes access.
type Store[T any] struct {
	id      uint64
	entries []T
}

// NewStore returns an empty store with a fresh identity.
func NewStore[T any]() *Store[T] {
	return &Store[T]{id: storeSeq.Add(1)}
}

// Insert appends value and returns its handle. It always succeeds; equal
// values inserted twice yield two distinct handles.
func (s *Store[T]) Insert(value T) Handle[T] {
	h := Handle[T]{store: s.id, index: uint64(len(s.entries))}
	s.entries = append(s.entries, value)
	return h
}

// Contains reports whether h was issued by this store. The check is by
// identity, never by value.
func (s *Store[T]) Contains(h Handle[T]) bool {
	return h.store == s.id && h.index < uint64(len(s.entries))
}

// Get returns the value h refers to. The second return is false when h did
// not come from this store.
func (s *Store[T]) Get(h Handle[T]) (T, bool) {
	if !s.Contains(h) {
		var zero T
		return zero, false
	}
	return s.entries[h.index], true
}

// Len returns the number of stored values.
func (s *Store[T]) Len() int { return len(s.entries) }

// Handles returns every issued handle in insertion order.
func (s *Store[T]) Handles() []Handle[T] {
	out := make([]Handle[T], len(s.entries))
	for i := range s.entries {
		out[i] = Handle[T]{store: s.id, index: uint64(i)}
	}
	return out
}

// Values returns a copy of all stored values in insertion order.
func (s *Store[T]) Values() []T {
	out := make([]T, len(s.entries))
	copy(out, s.entries)
	return out
}
