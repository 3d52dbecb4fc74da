/*
NAME
  devsession_test.go

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package devsession

import (
	"sync"
	"testing"
	"time"
)

func TestRegistryRefcounting(t *testing.T) {
	r := NewRegistry()
	s1 := r.Acquire(0)
	s2 := r.Acquire(0)
	if s1 != s2 {
		t.Fatal("expected same session for same device id")
	}
	if got := r.RefCount(0); got != 2 {
		t.Fatalf("RefCount = %d, want 2", got)
	}
	r.Release(0)
	if got := r.RefCount(0); got != 1 {
		t.Fatalf("RefCount = %d, want 1", got)
	}
	r.Release(0)
	if got := r.RefCount(0); got != 0 {
		t.Fatalf("RefCount = %d, want 0", got)
	}
}

func TestHandlePinUnpin(t *testing.T) {
	s := &Session{id: 0}
	h := s.NewHandle([3][]byte{{1, 2, 3}})
	s.Pin(h)
	s.Pin(h)
	if got := s.RefCount(h); got != 2 {
		t.Fatalf("RefCount = %d, want 2", got)
	}
	s.Unpin(h)
	if got := s.RefCount(h); got != 1 {
		t.Fatalf("RefCount = %d, want 1", got)
	}
	s.Unpin(h)
	if got := s.RefCount(h); got != 0 {
		t.Fatalf("RefCount = %d, want 0", got)
	}
}

func TestSlotSetBoundsConcurrency(t *testing.T) {
	slots := NewSlotSet(2)
	var wg sync.WaitGroup
	var mu sync.Mutex
	maxConcurrent, concurrent := 0, 0

	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			idx := slots.Claim()
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
			slots.Release(idx)
		}()
	}
	wg.Wait()

	if maxConcurrent > 2 {
		t.Errorf("max concurrent = %d, want <= 2", maxConcurrent)
	}
}
