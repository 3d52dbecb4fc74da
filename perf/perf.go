/*
NAME
  perf.go

DESCRIPTION
  perf.go defines the Store contract and the shared aggregation math for
  per-module performance counters, per spec.md §6: samples are keyed
  (start_time, end_time, thread_id) triples in microseconds, aggregated
  into latency (min/max/avg/frame_count) and throughput (fps).

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package perf implements the performance-counter shape spec.md §6
// describes: the core only ever calls the Store interface, leaving the
// backing store (in-memory, or an optional SQLite-backed one) a pluggable
// concern, exactly as the original's SQLite perf counters are an external
// collaborator rather than core logic.
package perf

import "math"

// Sample is one (start_time, end_time, thread_id) triple, in
// microseconds, per spec.md §6.
type Sample struct {
	Start, End int64
	ThreadID   string
}

// Stats is the aggregated latency/throughput view spec.md §6 defines:
// latency in microseconds, fps rounded up to one decimal place.
type Stats struct {
	LatencyMin int64
	LatencyMax int64
	LatencyAvg int64
	FrameCount int64
	FPS        float64
}

// Store records performance samples keyed by an arbitrary module name
// and returns their aggregate Stats. Implementations must be safe for
// concurrent use: encoder/stream/tracker code calls Record from whatever
// goroutine produced the sample.
type Store interface {
	Record(key string, s Sample) error
	Stats(key string) (Stats, error)
}

// aggregate computes Stats from a slice of samples using spec.md §6's
// exact formulas:
//
//	latency_avg = Σ(end-start) / frame_count
//	fps         = ceil(frame_count * 10^7 / Σ(end-start)) / 10
func aggregate(samples []Sample) Stats {
	var s Stats
	if len(samples) == 0 {
		return s
	}

	var sum int64
	for i, sample := range samples {
		d := sample.End - sample.Start
		sum += d
		if i == 0 || d < s.LatencyMin {
			s.LatencyMin = d
		}
		if d > s.LatencyMax {
			s.LatencyMax = d
		}
	}

	s.FrameCount = int64(len(samples))
	s.LatencyAvg = sum / s.FrameCount
	if sum > 0 {
		s.FPS = ceilFPS(s.FrameCount, sum)
	}
	return s
}

// ceilFPS implements spec.md §6's throughput formula:
// fps = ceil(frame_count * 10^7 / Σ(end-start)) / 10.
func ceilFPS(frameCount, sumDuration int64) float64 {
	return math.Ceil(float64(frameCount)*1e7/float64(sumDuration)) / 10
}
