/*
NAME
  rwmutex.go

DESCRIPTION
  rwmutex.go provides RwMutex, a reader/writer lock that can be configured
  as writer-preferring (a pending writer blocks new readers until all
  writers drain) or reader-preferring (new readers may enter while a writer
  is only pending, not active). The encoder base (package encoder) uses a
  writer-preferring RwMutex to guard its state machine.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package rwmutex provides a writer- or reader-preferring RwMutex along with
// movable unique-lock guards that can outlive the scope they were acquired
// in, so long as their owner transfers ownership explicitly via Move.
package rwmutex

import "sync"

// RwMutex is a reader/writer mutex whose preference between pending readers
// and pending writers is selected at construction.
type RwMutex struct {
	mu   sync.Mutex
	cond *sync.Cond

	preferWriter bool

	pendingReaders int
	pendingWriters int
	activeReaders  int
	writing        bool
}

// New returns an RwMutex. If preferWriter is true, a pending writer blocks
// new readers from entering until all writers (pending and active) have
// drained. If false, new readers may enter while a writer is pending, as
// long as no writer is actively in the critical section.
func New(preferWriter bool) *RwMutex {
	m := &RwMutex{preferWriter: preferWriter}
	m.cond = sync.NewCond(&m.mu)
	return m
}

// ReadLock blocks until a read lock can be acquired.
func (m *RwMutex) ReadLock() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for m.writing || (m.preferWriter && m.pendingWriters > 0) {
		m.pendingReaders++
		m.cond.Wait()
		m.pendingReaders--
	}
	m.activeReaders++
}

// ReadUnlock releases one read lock.
func (m *RwMutex) ReadUnlock() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.activeReaders == 0 {
		panic("rwmutex: ReadUnlock of unlocked RwMutex")
	}
	m.activeReaders--
	if m.activeReaders == 0 {
		m.cond.Broadcast()
	}
}

// WriteLock blocks until a write lock can be acquired.
func (m *RwMutex) WriteLock() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pendingWriters++
	for m.writing || m.activeReaders > 0 {
		m.cond.Wait()
	}
	m.pendingWriters--
	m.writing = true
}

// WriteUnlock releases the write lock and wakes all waiters.
func (m *RwMutex) WriteUnlock() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.writing {
		panic("rwmutex: WriteUnlock of unlocked RwMutex")
	}
	m.writing = false
	m.cond.Broadcast()
}

// TryReadLock attempts to acquire a read lock without blocking, returning
// whether it succeeded.
func (m *RwMutex) TryReadLock() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writing || (m.preferWriter && m.pendingWriters > 0) {
		return false
	}
	m.activeReaders++
	return true
}

// TryWriteLock attempts to acquire a write lock without blocking, returning
// whether it succeeded.
func (m *RwMutex) TryWriteLock() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writing || m.activeReaders > 0 {
		return false
	}
	m.writing = true
	return true
}
