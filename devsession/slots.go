/*
NAME
  slots.go

DESCRIPTION
  slots.go provides SlotSet, a bounded-occupancy gate for a device that can
  only run a fixed number of concurrent contexts. The scaler's device
  carrier uses it for the "at most two resize contexts per device" rule
  (spec.md §4.A); the encoder's dispatcher pool caps its worker count with
  its own counter instead. It is the condition-variable-guarded occupancy
  bitmap from spec.md §4.A generalized to an arbitrary slot count: wait for
  a free slot, claim it, release it, wake one waiter.

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

// SlotSet gates concurrent access to n identical device resources (e.g.
// resize contexts, dispatcher threads) using an occupancy bitmap and a
// condition variable, matching spec.md §4.A's description exactly.
type SlotSet struct {
	mu       sync.Mutex
	cond     *sync.Cond
	occupied uint64 // bit i set means slot i is claimed.
	n        int
}

// NewSlotSet returns a SlotSet with n slots, 0 < n <= 64.
func NewSlotSet(n int) *SlotSet {
	if n <= 0 || n > 64 {
		panic("devsession: invalid slot count")
	}
	s := &SlotSet{n: n}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Claim blocks until a slot is free, claims it, and returns the slot index.
// Callers must call Release(idx) when done.
func (s *SlotSet) Claim() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for {
		for i := 0; i < s.n; i++ {
			bit := uint64(1) << uint(i)
			if s.occupied&bit == 0 {
				s.occupied |= bit
				return i
			}
		}
		s.cond.Wait()
	}
}

// TryClaim attempts to claim a free slot without blocking, returning the
// slot index and true on success.
func (s *SlotSet) TryClaim() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 0; i < s.n; i++ {
		bit := uint64(1) << uint(i)
		if s.occupied&bit == 0 {
			s.occupied |= bit
			return i, true
		}
	}
	return 0, false
}

// Release frees slot idx and wakes one waiter.
func (s *SlotSet) Release(idx int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.occupied &^= uint64(1) << uint(idx)
	s.cond.Signal()
}

// InUse returns the number of currently claimed slots.
func (s *SlotSet) InUse() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for i := 0; i < s.n; i++ {
		if s.occupied&(uint64(1)<<uint(i)) != 0 {
			n++
		}
	}
	return n
}
