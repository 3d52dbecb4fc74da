/*
NAME
  arena.go

DESCRIPTION
  arena.go provides Arena, a grow-only staging buffer for Tiler.Blit's
  first resize step. spec.md §4.F describes this as a lazily-grown
  thread-local buffer; Design Notes §9 flags thread-local state as
  something to redesign away, so here it is an explicit argument threaded
  through Blit by the caller instead of hidden goroutine-local state —
  callers that blit concurrently from multiple goroutines simply keep one
  Arena per goroutine.

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
	"github.com/cambricon/mluvideo/frame"
	"github.com/cambricon/mluvideo/scaler"
)

// Arena is a reusable scratch Buffer, grown lazily to the largest grid
// cell it has been asked to stage. The zero value is ready to use.
type Arena struct {
	buf   frame.Buffer
	color frame.ColorFormat
	ready bool
}

// NewArena returns an Arena pre-sized to width x height in color. A zero
// width/height Arena grows on first use instead.
func NewArena(width, height int, color frame.ColorFormat) *Arena {
	a := &Arena{color: color}
	if width > 0 && height > 0 {
		a.buf = scaler.AllocHost(width, height, color)
		a.ready = true
	}
	return a
}

// ensure grows the arena's backing buffer if it is smaller than width x
// height or a different color, returning the (possibly reallocated)
// staging Buffer sized exactly to width x height.
func (a *Arena) ensure(width, height int, color frame.ColorFormat) frame.Buffer {
	if a.ready && a.color == color && a.buf.Width >= width && a.buf.Height >= height {
		return a.buf.View(frame.Rect{W: width, H: height})
	}
	a.color = color
	a.buf = scaler.AllocHost(width, height, color)
	a.ready = true
	return a.buf
}
