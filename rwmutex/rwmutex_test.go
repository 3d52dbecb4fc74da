/*
NAME
  rwmutex_test.go

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package rwmutex

import (
	"sync"
	"testing"
	"time"
)

// TestWriterPreferringBlocksNewReaders verifies that once a writer is
// pending, no new reader enters until all writers have drained, per
// spec.md §8's quantified invariant for writer-preferring mode.
func TestWriterPreferringBlocksNewReaders(t *testing.T) {
	m := New(true)

	// Hold an initial read lock so the writer below must wait.
	m.ReadLock()

	writerStarted := make(chan struct{})
	writerDone := make(chan struct{})
	go func() {
		close(writerStarted)
		m.WriteLock()
		defer m.WriteUnlock()
		close(writerDone)
	}()
	<-writerStarted
	time.Sleep(20 * time.Millisecond) // let the writer register as pending.

	newReaderAcquired := make(chan struct{})
	go func() {
		m.ReadLock()
		close(newReaderAcquired)
		m.ReadUnlock()
	}()

	select {
	case <-newReaderAcquired:
		t.Fatal("new reader acquired lock while a writer was pending")
	case <-time.After(30 * time.Millisecond):
	}

	m.ReadUnlock() // release the original reader; writer should now proceed.

	select {
	case <-writerDone:
	case <-time.After(time.Second):
		t.Fatal("writer never acquired lock")
	}

	select {
	case <-newReaderAcquired:
	case <-time.After(time.Second):
		t.Fatal("new reader never acquired lock after writer drained")
	}
}

func TestUniqueRwLockConvert(t *testing.T) {
	m := New(true)
	var g UniqueRwLock = NewUniqueRwLock(m)

	g.LockRead()
	if !g.HoldsRead() {
		t.Fatal("expected guard to hold read lock")
	}

	g.ConvertToWrite()
	if !g.HoldsWrite() {
		t.Fatal("expected guard to hold write lock after conversion")
	}

	g.Unlock()
	if g.HoldsRead() || g.HoldsWrite() {
		t.Fatal("expected guard to hold nothing after Unlock")
	}
}

func TestGuardMoveTransfersOwnership(t *testing.T) {
	m := New(false)
	g1 := NewUniqueReadLock(m)
	g2 := g1.Move()

	if g1.Owns() {
		t.Error("original guard should not own the lock after Move")
	}
	if !g2.Owns() {
		t.Error("moved-to guard should own the lock")
	}

	g1.Unlock() // no-op
	g2.Unlock() // actually releases

	// A write lock should now be immediately obtainable.
	if !m.TryWriteLock() {
		t.Error("expected write lock to be obtainable after guard release")
	}
	m.WriteUnlock()
}

func TestConcurrentReaders(t *testing.T) {
	m := New(false)
	var wg sync.WaitGroup
	var mu sync.Mutex
	concurrent := 0
	maxConcurrent := 0

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.ReadLock()
			mu.Lock()
			concurrent++
			if concurrent > maxConcurrent {
				maxConcurrent = concurrent
			}
			mu.Unlock()
			time.Sleep(10 * time.Millisecond)
			mu.Lock()
			concurrent--
			mu.Unlock()
			m.ReadUnlock()
		}()
	}
	wg.Wait()

	if maxConcurrent < 2 {
		t.Errorf("expected multiple concurrent readers, saw max %d", maxConcurrent)
	}
}
