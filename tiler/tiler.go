/*
NAME
  tiler.go

DESCRIPTION
  tiler.go implements Tiler: a 2-D canvas built from a fixed grid or an
  explicit set of rectangles, accepting concurrent grid writes (Blit) and
  exposing double-buffered canvas reads (GetCanvas/ReleaseCanvas), per
  spec.md §4.F.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package tiler

import (
	"sync"

	"github.com/ausocean/utils/logging"

	"github.com/cambricon/mluvideo/frame"
	"github.com/cambricon/mluvideo/scaler"
)

// Tiler composes a canvas out of grid cells, each blitted independently,
// and hands readers a stable, double-buffered snapshot.
type Tiler struct {
	grids []frame.Rect
	color frame.ColorFormat
	s     *scaler.Scaler
	log   logging.Logger

	blitMu     sync.Mutex
	roundRobin int
	blitSlots  chan struct{} // bounded at cols*rows*4, per spec.md §4.F.

	canvasMu sync.Mutex
	canvases [2]frame.Buffer
	writeIdx int
	locked   bool
}

// New returns a Tiler painting the given grid rectangles onto a
// width x height canvas of the given color, using s to resize/convert
// (a default software-only Scaler is used if s is nil).
func New(grids []frame.Rect, width, height int, color frame.ColorFormat, s *scaler.Scaler, log logging.Logger) *Tiler {
	if s == nil {
		s = scaler.New(log)
	}
	t := &Tiler{
		grids:     grids,
		color:     color,
		s:         s,
		log:       log,
		blitSlots: make(chan struct{}, len(grids)*4),
	}
	t.canvases[0] = scaler.AllocHost(width, height, color)
	t.canvases[1] = scaler.AllocHost(width, height, color)
	return t
}

// NewUniform is a convenience constructor building its grid with
// UniformGrid(width, height, cols, rows).
func NewUniform(width, height, cols, rows int, color frame.ColorFormat, s *scaler.Scaler, log logging.Logger) *Tiler {
	return New(UniformGrid(width, height, cols, rows), width, height, color, s, log)
}

// GridCount returns the number of grid positions.
func (t *Tiler) GridCount() int { return len(t.grids) }

// Blit resizes src into arena (first Scaler.Process call), then copies
// arena into the canvas at position's rect (second Scaler.Process call).
// position < 0 selects the next position in round-robin order, continuing
// from wherever the last Blit (of any position) left off. The two-step
// path isolates grid-local resampling from the shared canvas so
// concurrent blits at different positions don't race on it.
//
// Blit fails (returns false) once cols*rows*4 blits are concurrently in
// flight: this is the thread-local buffer ceiling of spec.md §4.F, not a
// correctness limit.
func (t *Tiler) Blit(src frame.Buffer, position int, arena *Arena) bool {
	select {
	case t.blitSlots <- struct{}{}:
	default:
		if t.log != nil {
			t.log.Warning("tiler: blit rejected, concurrency ceiling reached")
		}
		return false
	}
	defer func() { <-t.blitSlots }()

	pos := position
	if pos < 0 {
		t.blitMu.Lock()
		pos = t.roundRobin
		t.roundRobin = (t.roundRobin + 1) % len(t.grids)
		t.blitMu.Unlock()
	}
	if pos < 0 || pos >= len(t.grids) {
		return false
	}
	grid := t.grids[pos]

	staged := arena.ensure(grid.W, grid.H, t.color)
	if !t.s.Process(staged, src) {
		return false
	}

	t.canvasMu.Lock()
	defer t.canvasMu.Unlock()
	dst := t.canvases[t.writeIdx].View(grid)
	return t.s.Process(dst, staged)
}

// GetCanvas returns the current canvas. If out is non-nil, the current
// canvas is instead copied into out, no swap occurs, and the returned
// Buffer is the zero value. If out is nil, the
// current (write) canvas is frozen and returned, tagged locked, and the
// other canvas becomes the new write target after being brought up to
// date with the just-frozen canvas's contents, so grids nobody has
// re-blitted yet aren't lost across the swap.
func (t *Tiler) GetCanvas(out *frame.Buffer) frame.Buffer {
	t.canvasMu.Lock()
	defer t.canvasMu.Unlock()

	current := t.canvases[t.writeIdx]
	if out != nil {
		t.s.Process(*out, current)
		return frame.Buffer{}
	}

	next := 1 - t.writeIdx
	t.s.Process(t.canvases[next], current)
	t.writeIdx = next
	t.locked = true
	return current
}

// ReleaseCanvas clears the locked flag set by GetCanvas(nil).
func (t *Tiler) ReleaseCanvas() {
	t.canvasMu.Lock()
	t.locked = false
	t.canvasMu.Unlock()
}

// Locked reports whether a canvas returned by GetCanvas(nil) has not yet
// been released.
func (t *Tiler) Locked() bool {
	t.canvasMu.Lock()
	defer t.canvasMu.Unlock()
	return t.locked
}
