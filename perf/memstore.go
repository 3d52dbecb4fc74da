/*
NAME
  memstore.go

DESCRIPTION
  memstore.go implements MemStore, the default in-memory Store: a
  mutex-guarded, capacity-bounded ring of samples per key, aggregated on
  demand by Stats.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package perf

import "sync"

// defaultCapacity bounds how many samples MemStore retains per key before
// the oldest are dropped, so a long-running encoder doesn't grow its perf
// counters without bound.
const defaultCapacity = 10000

// MemStore is a Store backed by an in-process, mutex-guarded map of
// per-key sample rings. The zero value is not usable; construct with
// NewMemStore.
type MemStore struct {
	mu       sync.Mutex
	capacity int
	samples  map[string][]Sample
}

// NewMemStore returns a MemStore retaining up to capacity samples per
// key; capacity <= 0 selects defaultCapacity.
func NewMemStore(capacity int) *MemStore {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &MemStore{capacity: capacity, samples: make(map[string][]Sample)}
}

// Record appends s to key's sample ring, dropping the oldest sample if
// the ring is at capacity.
func (m *MemStore) Record(key string, s Sample) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	buf := m.samples[key]
	if len(buf) >= m.capacity {
		buf = append(buf[:0], buf[1:]...)
	}
	m.samples[key] = append(buf, s)
	return nil
}

// Stats returns the aggregate Stats over key's currently retained
// samples.
func (m *MemStore) Stats(key string) (Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return aggregate(m.samples[key]), nil
}
