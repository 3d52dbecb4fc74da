/*
NAME
  perf_test.go

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package perf

import (
	"math"
	"testing"
)

func TestAggregateEmpty(t *testing.T) {
	s := aggregate(nil)
	if s.FrameCount != 0 || s.FPS != 0 {
		t.Errorf("aggregate(nil) = %+v, want zero value", s)
	}
}

func TestAggregateLatencyAndThroughput(t *testing.T) {
	// Three 1-frame-per-100us samples: sum=300us, frame_cnt=3.
	samples := []Sample{
		{Start: 0, End: 100},
		{Start: 100, End: 200},
		{Start: 200, End: 300},
	}
	s := aggregate(samples)

	if s.FrameCount != 3 {
		t.Errorf("FrameCount = %d, want 3", s.FrameCount)
	}
	if s.LatencyMin != 100 || s.LatencyMax != 100 {
		t.Errorf("LatencyMin/Max = %d/%d, want 100/100", s.LatencyMin, s.LatencyMax)
	}
	if s.LatencyAvg != 100 {
		t.Errorf("LatencyAvg = %d, want 100", s.LatencyAvg)
	}
	// fps = ceil(3 * 1e7 / 300) / 10 = ceil(100000) / 10 = 10000.0
	wantFPS := 10000.0
	if math.Abs(s.FPS-wantFPS) > 1e-9 {
		t.Errorf("FPS = %v, want %v", s.FPS, wantFPS)
	}
}

func TestAggregateVaryingDurations(t *testing.T) {
	samples := []Sample{
		{Start: 0, End: 50},
		{Start: 50, End: 250},
		{Start: 250, End: 300},
	}
	s := aggregate(samples)
	if s.LatencyMin != 50 {
		t.Errorf("LatencyMin = %d, want 50", s.LatencyMin)
	}
	if s.LatencyMax != 200 {
		t.Errorf("LatencyMax = %d, want 200", s.LatencyMax)
	}
}

func TestMemStoreRecordAndStats(t *testing.T) {
	m := NewMemStore(0)
	for i := 0; i < 5; i++ {
		if err := m.Record("encode", Sample{Start: int64(i * 100), End: int64(i*100 + 100)}); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}
	s, err := m.Stats("encode")
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if s.FrameCount != 5 {
		t.Errorf("FrameCount = %d, want 5", s.FrameCount)
	}
}

func TestMemStoreUnknownKeyReturnsZeroStats(t *testing.T) {
	m := NewMemStore(0)
	s, err := m.Stats("nonexistent")
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if s.FrameCount != 0 {
		t.Errorf("FrameCount = %d, want 0", s.FrameCount)
	}
}

func TestMemStoreDropsOldestPastCapacity(t *testing.T) {
	m := NewMemStore(3)
	for i := 0; i < 5; i++ {
		m.Record("k", Sample{Start: int64(i), End: int64(i + 1)})
	}
	if got := len(m.samples["k"]); got != 3 {
		t.Fatalf("len(samples) = %d, want 3 (capacity)", got)
	}
	// The retained samples should be the three most recent: Start 2,3,4.
	if m.samples["k"][0].Start != 2 {
		t.Errorf("oldest retained sample Start = %d, want 2", m.samples["k"][0].Start)
	}
}
