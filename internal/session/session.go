// package session holds the process-wide authenticated client handle.
//
// A [Store] starts empty and is replaced by each successful authentication. Reads never
// block and always observe one complete handle: the slot is an [atomic.Pointer] to an
// immutable entry, so a reader sees either the previous entry or the new one.
package session

import (
	"sync/atomic"
	"time"
)

type entry[T any] struct {
	handle      T
	version     uint64
	installedAt time.Time
}

// Store is a versioned single-slot cell.
type Store[T any] struct {
	current atomic.Pointer[entry[T]]
	version atomic.Uint64
}

// New returns an empty [Store].
func New[T any]() *Store[T] {
	return &Store[T]{}
}

// Read returns the installed handle, or false when nothing has been installed yet.
func (s *Store[T]) Read() (T, bool) {
	e := s.current.Load()
	if e == nil {
		var zero T
		return zero, false
	}
	return e.handle, true
}

// Replace installs handle, superseding any previous one.
func (s *Store[T]) Replace(handle T) {
	s.current.Store(&entry[T]{
		handle:      handle,
		version:     s.version.Add(1),
		installedAt: time.Now(),
	})
}

// Version returns the number of replacements that produced the visible handle, 0 when empty.
func (s *Store[T]) Version() uint64 {
	if e := s.current.Load(); e != nil {
		return e.version
	}
	return 0
}

// InstalledAt reports when the visible handle was installed.
func (s *Store[T]) InstalledAt() (time.Time, bool) {
	if e := s.current.Load(); e != nil {
		return e.installedAt, true
	}
	return time.Time{}, false
}
