/*
NAME
  grid.go

DESCRIPTION
  grid.go computes the rectangles Tiler blits into, either from a uniform
  (cols, rows) grid over a (width, height) canvas or from an explicit list
  of rectangles clamped to the canvas, per spec.md §4.F.

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

import "github.com/cambricon/mluvideo/frame"

// UniformGrid returns the cols*rows rectangles of a uniform grid over a
// width x height canvas, row-major. Each cell is floor(width/cols) by
// floor(height/rows); the remainder pixels are distributed one at a time
// to the earliest columns/rows, per spec.md §4.F's worked example
// (cols=3, rows=2, W=10, H=4 -> widths 4,3,3, heights 2,2).
func UniformGrid(width, height, cols, rows int) []frame.Rect {
	colWidths := distribute(width, cols)
	rowHeights := distribute(height, rows)

	grids := make([]frame.Rect, 0, cols*rows)
	y := 0
	for r := 0; r < rows; r++ {
		x := 0
		for c := 0; c < cols; c++ {
			grids = append(grids, frame.Rect{X: x, Y: y, W: colWidths[c], H: rowHeights[r]})
			x += colWidths[c]
		}
		y += rowHeights[r]
	}
	return grids
}

// distribute splits total into n cells of floor(total/n), handing the
// remainder out one pixel at a time starting from cell 0.
func distribute(total, n int) []int {
	base := total / n
	remainder := total % n
	sizes := make([]int, n)
	for i := range sizes {
		sizes[i] = base
		if i < remainder {
			sizes[i]++
		}
	}
	return sizes
}

// ClampRects clamps each rect in rects to the width x height canvas,
// dropping any rect that would become empty.
func ClampRects(rects []frame.Rect, width, height int) []frame.Rect {
	out := make([]frame.Rect, 0, len(rects))
	for _, r := range rects {
		if r.X >= width || r.Y >= height {
			continue
		}
		cr := r
		if cr.X+cr.W > width {
			cr.W = width - cr.X
		}
		if cr.Y+cr.H > height {
			cr.H = height - cr.Y
		}
		if cr.W <= 0 || cr.H <= 0 {
			continue
		}
		out = append(out, cr)
	}
	return out
}
