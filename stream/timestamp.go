/*
NAME
  timestamp.go

DESCRIPTION
  timestamp.go implements per-position timestamp rectification, per
  spec.md §4.G: each source position keeps init/base/last/diff/count so a
  looping or resetting source's timestamps are folded into one monotone
  sequence instead of jumping backwards into Stream's rearrange queue.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package stream

import "github.com/cambricon/mluvideo/frame"

// tsState is one position's timestamp-rectification bookkeeping.
type tsState struct {
	init  int64
	base  int64
	last  int64
	diff  int64
	count int64
}

func newTSState() *tsState {
	return &tsState{last: frame.InvalidTimestamp}
}

// rectify folds ts into the position's monotone sequence and returns the
// effective pts, per spec.md §4.G's exact algorithm.
func (s *tsState) rectify(ts int64) int64 {
	if s.last == frame.InvalidTimestamp {
		if ts == frame.InvalidTimestamp {
			s.init = 0
		} else {
			s.init = ts
		}
		s.base = 0
	} else if ts < s.last {
		s.base += s.last + s.diff - ts
	} else {
		s.diff = ts - s.last
	}
	s.last = ts
	s.count++
	return ts + s.base - s.init
}
