/*
NAME
  registry.go

DESCRIPTION
  registry.go provides the explicitly-refcounted, mutex-guarded registry of
  per-device Sessions, replacing the original's global per-device context
  map (Design Notes §9).

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package devsession

import "sync"

type entry struct {
	session *Session
	refs    int
}

// Registry hands out refcounted Sessions keyed by device id. The zero value
// is ready to use; Default returns a process-wide Registry for components
// that don't need isolation (e.g. tests construct their own).
type Registry struct {
	mu      sync.Mutex
	entries map[int]*entry
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[int]*entry)}
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide Registry.
func Default() *Registry { return defaultRegistry }

// Acquire returns the Session for deviceID, creating it on first use, and
// increments its reference count. Callers must call Release exactly once
// per Acquire.
func (r *Registry) Acquire(deviceID int) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.entries == nil {
		r.entries = make(map[int]*entry)
	}
	e, ok := r.entries[deviceID]
	if !ok {
		e = &entry{session: &Session{id: deviceID}}
		r.entries[deviceID] = e
	}
	e.refs++
	return e.session
}

// Release decrements deviceID's reference count, removing the Session from
// the registry once it reaches zero.
func (r *Registry) Release(deviceID int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[deviceID]
	if !ok {
		return
	}
	e.refs--
	if e.refs <= 0 {
		delete(r.entries, deviceID)
	}
}

// RefCount returns the current reference count for deviceID, 0 if absent.
// Intended for tests.
func (r *Registry) RefCount(deviceID int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[deviceID]
	if !ok {
		return 0
	}
	return e.refs
}
