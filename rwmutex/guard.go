/*
NAME
  guard.go

DESCRIPTION
  guard.go provides move-only lock guards over RwMutex. Each guard tracks
  only the number of locks *it* owns (zero or one), and releases exactly
  that many on Unlock — not the mutex's overall state. Move transfers
  ownership from one guard value to another, mirroring the original's
  movable unique_lock guards usable across member lifetimes: a guard may be
  constructed in one method and returned/stored for release by another.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package rwmutex

// UniqueReadLock is a move-only guard holding at most one read lock.
type UniqueReadLock struct {
	m    *RwMutex
	held bool
}

// NewUniqueReadLock acquires a read lock on m and returns a guard owning it.
func NewUniqueReadLock(m *RwMutex) UniqueReadLock {
	m.ReadLock()
	return UniqueReadLock{m: m, held: true}
}

// Move transfers ownership of the lock this guard holds to the returned
// guard, leaving the receiver empty. Using g after Move is safe (Unlock
// becomes a no-op) but it no longer owns anything.
func (g *UniqueReadLock) Move() UniqueReadLock {
	out := UniqueReadLock{m: g.m, held: g.held}
	g.held = false
	return out
}

// Unlock releases the lock this guard owns, if any. Safe to call multiple
// times or on a guard that never held a lock (e.g. after Move).
func (g *UniqueReadLock) Unlock() {
	if g.held {
		g.m.ReadUnlock()
		g.held = false
	}
}

// Owns reports whether this guard currently owns a lock.
func (g *UniqueReadLock) Owns() bool { return g.held }

// UniqueWriteLock is a move-only guard holding at most one write lock.
type UniqueWriteLock struct {
	m    *RwMutex
	held bool
}

// NewUniqueWriteLock acquires a write lock on m and returns a guard owning it.
func NewUniqueWriteLock(m *RwMutex) UniqueWriteLock {
	m.WriteLock()
	return UniqueWriteLock{m: m, held: true}
}

func (g *UniqueWriteLock) Move() UniqueWriteLock {
	out := UniqueWriteLock{m: g.m, held: g.held}
	g.held = false
	return out
}

func (g *UniqueWriteLock) Unlock() {
	if g.held {
		g.m.WriteUnlock()
		g.held = false
	}
}

func (g *UniqueWriteLock) Owns() bool { return g.held }

// rwKind discriminates what a UniqueRwLock currently owns.
type rwKind int

const (
	none rwKind = iota
	readKind
	writeKind
)

// UniqueRwLock is a move-only guard that may hold zero, one read lock, or
// one write lock at a time, and can convert between read and write.
type UniqueRwLock struct {
	m    *RwMutex
	kind rwKind
}

// NewUniqueRwLock returns an empty guard (holding nothing) over m.
func NewUniqueRwLock(m *RwMutex) UniqueRwLock {
	return UniqueRwLock{m: m}
}

// LockRead acquires a read lock. Panics if the guard already owns a lock.
func (g *UniqueRwLock) LockRead() {
	if g.kind != none {
		panic("rwmutex: UniqueRwLock already holds a lock")
	}
	g.m.ReadLock()
	g.kind = readKind
}

// LockWrite acquires a write lock. Panics if the guard already owns a lock.
func (g *UniqueRwLock) LockWrite() {
	if g.kind != none {
		panic("rwmutex: UniqueRwLock already holds a lock")
	}
	g.m.WriteLock()
	g.kind = writeKind
}

// Unlock releases whatever this guard owns, if anything.
func (g *UniqueRwLock) Unlock() {
	switch g.kind {
	case readKind:
		g.m.ReadUnlock()
	case writeKind:
		g.m.WriteUnlock()
	}
	g.kind = none
}

// ConvertToWrite releases an owned read lock and acquires a write lock in
// its place. Panics if the guard does not currently own a read lock.
func (g *UniqueRwLock) ConvertToWrite() {
	if g.kind != readKind {
		panic("rwmutex: ConvertToWrite requires an owned read lock")
	}
	g.m.ReadUnlock()
	g.m.WriteLock()
	g.kind = writeKind
}

// ConvertToRead releases an owned write lock and acquires a read lock in
// its place. Panics if the guard does not currently own a write lock.
func (g *UniqueRwLock) ConvertToRead() {
	if g.kind != writeKind {
		panic("rwmutex: ConvertToRead requires an owned write lock")
	}
	g.m.WriteUnlock()
	g.m.ReadLock()
	g.kind = readKind
}

// Move transfers ownership to the returned guard, leaving the receiver
// empty.
func (g *UniqueRwLock) Move() UniqueRwLock {
	out := UniqueRwLock{m: g.m, kind: g.kind}
	g.kind = none
	return out
}

// HoldsWrite reports whether this guard currently owns a write lock.
func (g *UniqueRwLock) HoldsWrite() bool { return g.kind == writeKind }

// HoldsRead reports whether this guard currently owns a read lock.
func (g *UniqueRwLock) HoldsRead() bool { return g.kind == readKind }
