/*
NAME
  tiler_test.go

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package tiler

import (
	"bytes"
	"testing"

	"github.com/cambricon/mluvideo/frame"
	"github.com/cambricon/mluvideo/scaler"
)

func TestUniformGridDistributesRemainder(t *testing.T) {
	grids := UniformGrid(10, 4, 3, 2)
	if len(grids) != 6 {
		t.Fatalf("len(grids) = %d, want 6", len(grids))
	}
	wantW := []int{4, 3, 3, 4, 3, 3}
	wantH := []int{2, 2, 2, 2, 2, 2}
	for i, g := range grids {
		if g.W != wantW[i] || g.H != wantH[i] {
			t.Errorf("grid[%d] = %+v, want W=%d H=%d", i, g, wantW[i], wantH[i])
		}
	}
	if grids[0].X != 0 || grids[1].X != 4 || grids[2].X != 7 {
		t.Errorf("row 0 x-offsets wrong: %+v", grids[:3])
	}
	if grids[3].Y != 2 {
		t.Errorf("row 1 y-offset = %d, want 2", grids[3].Y)
	}
}

func solidI420(w, h int, y, u, v byte) frame.Buffer {
	buf := scaler.AllocHost(w, h, frame.YUVI420)
	for i := range buf.Data[0] {
		buf.Data[0][i] = y
	}
	for i := range buf.Data[1] {
		buf.Data[1][i] = u
	}
	for i := range buf.Data[2] {
		buf.Data[2][i] = v
	}
	return buf
}

func TestBlitPlacesSourceAtGrid(t *testing.T) {
	tl := NewUniform(8, 4, 2, 1, frame.YUVI420, nil, nil)
	arena := &Arena{}

	left := solidI420(4, 4, 10, 128, 128)
	right := solidI420(4, 4, 200, 128, 128)

	if ok := tl.Blit(left, 0, arena); !ok {
		t.Fatal("Blit(left, 0) failed")
	}
	if ok := tl.Blit(right, 1, arena); !ok {
		t.Fatal("Blit(right, 1) failed")
	}

	canvas := tl.GetCanvas(nil)
	defer tl.ReleaseCanvas()

	if canvas.Data[0][0] != 10 {
		t.Errorf("left half luma = %d, want 10", canvas.Data[0][0])
	}
	if canvas.Data[0][4] != 200 {
		t.Errorf("right half luma = %d, want 200", canvas.Data[0][4])
	}
}

func TestGetCanvasConsecutiveCallsMatchWithNoBlit(t *testing.T) {
	tl := NewUniform(4, 4, 2, 2, frame.YUVI420, nil, nil)
	arena := &Arena{}
	tl.Blit(solidI420(2, 2, 77, 128, 128), 0, arena)

	first := tl.GetCanvas(nil)
	firstBytes := append([]byte(nil), first.Data[0]...)
	tl.ReleaseCanvas()

	second := tl.GetCanvas(nil)
	tl.ReleaseCanvas()

	if !bytes.Equal(firstBytes, second.Data[0]) {
		t.Error("consecutive GetCanvas with no intervening Blit differ")
	}
}

func TestBlitRoundRobinAdvancesOnNegativePosition(t *testing.T) {
	tl := NewUniform(4, 2, 2, 1, frame.YUVI420, nil, nil)
	arena := &Arena{}
	src := solidI420(2, 2, 55, 128, 128)

	tl.Blit(src, -1, arena)
	tl.Blit(src, -1, arena)

	if tl.roundRobin != 0 {
		t.Errorf("roundRobin after 2 blits over 2 grids = %d, want 0 (wrapped)", tl.roundRobin)
	}
}

func TestBlitRejectsOverCeiling(t *testing.T) {
	tl := NewUniform(2, 2, 1, 1, frame.YUVI420, nil, nil)
	// Saturate the single grid's ceiling (cols*rows*4 = 4) by hand.
	for i := 0; i < cap(tl.blitSlots); i++ {
		tl.blitSlots <- struct{}{}
	}
	ok := tl.Blit(solidI420(2, 2, 1, 128, 128), 0, &Arena{})
	if ok {
		t.Error("Blit succeeded past the concurrency ceiling")
	}
}

func TestBlitRejectsOutOfRangePosition(t *testing.T) {
	tl := NewUniform(4, 4, 2, 2, frame.YUVI420, nil, nil)
	if tl.Blit(solidI420(2, 2, 1, 128, 128), 99, &Arena{}) {
		t.Error("Blit with out-of-range position should fail")
	}
}
