/*
NAME
  timestamp_test.go

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package stream

import "testing"

func TestTSStateFirstFrame(t *testing.T) {
	s := newTSState()
	// init is set to the first frame's own ts, so its effective pts is
	// always normalized to zero, per spec.md §4.G.
	pts := s.rectify(1000)
	if pts != 0 {
		t.Errorf("first frame pts = %d, want 0", pts)
	}
}

func TestTSStateMonotoneAdvance(t *testing.T) {
	s := newTSState()
	s.rectify(1000)
	pts := s.rectify(1500)
	if pts != 500 {
		t.Errorf("pts = %d, want 500", pts)
	}
	if s.diff != 500 {
		t.Errorf("diff = %d, want 500", s.diff)
	}
}

func TestTSStateLoopDetection(t *testing.T) {
	s := newTSState()
	s.rectify(1000)
	s.rectify(1500) // diff = 500
	// Source loops: new ts (200) is less than last (1500).
	pts := s.rectify(200)
	wantBase := int64(1500+500) - 200
	if s.base != wantBase {
		t.Fatalf("base = %d, want %d", s.base, wantBase)
	}
	wantPts := 200 + wantBase - 1000
	if pts != wantPts {
		t.Errorf("pts after loop = %d, want %d", pts, wantPts)
	}
}
