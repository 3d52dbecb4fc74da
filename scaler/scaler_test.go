/*
NAME
  scaler_test.go

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package scaler

import (
	"testing"

	"github.com/cambricon/mluvideo/frame"
)

func solidI420(w, h int, y, u, v byte) frame.Buffer {
	b := AllocHost(w, h, frame.YUVI420)
	for i := range b.Data[0] {
		b.Data[0][i] = y
	}
	for i := range b.Data[1] {
		b.Data[1][i] = u
	}
	for i := range b.Data[2] {
		b.Data[2][i] = v
	}
	return b
}

func TestProcessSameColorSameSizeIsCopy(t *testing.T) {
	s := New(nil, NewSoftwareCarrier(Nearest))
	src := solidI420(4, 4, 100, 50, 200)
	dst := AllocHost(4, 4, frame.YUVI420)

	if !s.Process(dst, src) {
		t.Fatal("Process returned false")
	}
	for i, v := range dst.Data[0] {
		if v != 100 {
			t.Fatalf("Data[0][%d] = %d, want 100", i, v)
		}
	}
}

func TestProcessConvertColorSameSize(t *testing.T) {
	s := New(nil, NewSoftwareCarrier(Nearest))
	src := solidI420(4, 4, 235, 128, 128) // near-white in BT.601 full range.
	dst := AllocHost(4, 4, frame.BGR)

	if !s.Process(dst, src) {
		t.Fatal("Process returned false")
	}
	r, g, b := dst.Data[0][2], dst.Data[0][1], dst.Data[0][0]
	if r < 200 || g < 200 || b < 200 {
		t.Fatalf("expected near-white pixel, got r=%d g=%d b=%d", r, g, b)
	}
}

func TestProcessResizeSameColor(t *testing.T) {
	s := New(nil, NewSoftwareCarrier(Nearest))
	src := solidI420(8, 8, 42, 42, 42)
	dst := AllocHost(4, 4, frame.YUVI420)

	if !s.Process(dst, src) {
		t.Fatal("Process returned false")
	}
	for i, v := range dst.Data[0] {
		if v != 42 {
			t.Fatalf("Data[0][%d] = %d, want 42", i, v)
		}
	}
}

func TestProcessConvertAndResize(t *testing.T) {
	s := New(nil, NewSoftwareCarrier(Nearest))
	src := solidI420(8, 8, 235, 128, 128)
	dst := AllocHost(4, 4, frame.RGB)

	if !s.Process(dst, src) {
		t.Fatal("Process returned false")
	}
	if len(dst.Data[0]) != 4*4*3 {
		t.Fatalf("unexpected dst plane length %d", len(dst.Data[0]))
	}
	for i := 0; i < 3; i++ {
		if dst.Data[0][i] < 200 {
			t.Fatalf("expected near-white channel %d, got %d", i, dst.Data[0][i])
		}
	}
}

func TestProcessConvertAndResizeUpsize(t *testing.T) {
	// Destination larger than source: convert-then-resize branch.
	s := New(nil, NewSoftwareCarrier(Nearest))
	src := solidI420(4, 4, 235, 128, 128)
	dst := AllocHost(8, 8, frame.RGB)

	if !s.Process(dst, src) {
		t.Fatal("Process returned false")
	}
	for i := 0; i < 3; i++ {
		if dst.Data[0][i] < 200 {
			t.Fatalf("expected near-white channel %d, got %d", i, dst.Data[0][i])
		}
	}
}

func TestProcessConvertAndResizeOddDimension(t *testing.T) {
	// Odd destination width forces the convert-then-resize branch even
	// though the destination is smaller (downsizing).
	s := New(nil, NewSoftwareCarrier(Nearest))
	src := solidI420(8, 8, 235, 128, 128)
	dst := AllocHost(5, 4, frame.RGB)

	if !s.Process(dst, src) {
		t.Fatal("Process returned false")
	}
	for i := 0; i < 3; i++ {
		if dst.Data[0][i] < 200 {
			t.Fatalf("expected near-white channel %d, got %d", i, dst.Data[0][i])
		}
	}
}

func TestProcessNoCarrierHandles(t *testing.T) {
	dev := NewDeviceCarrier(nil)
	s := New(nil, dev)
	src := solidI420(4, 4, 1, 1, 1)
	dst := AllocHost(4, 4, frame.YUVI420)

	if s.Process(dst, src) {
		t.Fatal("expected Process to fail: device carrier can't handle host buffers")
	}
}

func TestGetCropBufferRejectsEmptyRect(t *testing.T) {
	src := solidI420(8, 8, 1, 1, 1)
	// X at the buffer's edge with W=0 ("to edge") resolves to zero width.
	if _, err := GetCropBuffer(src, frame.Rect{X: 8, Y: 0, W: 0, H: 4}); err == nil {
		t.Fatal("expected error for a rect that resolves to zero width")
	}
}

func TestGetCropBufferEvenAlignsYUV(t *testing.T) {
	src := solidI420(8, 8, 1, 1, 1)
	cropped, err := GetCropBuffer(src, frame.Rect{X: 1, Y: 1, W: 5, H: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cropped.Width%2 != 0 || cropped.Height%2 != 0 {
		t.Fatalf("expected even-aligned crop, got %dx%d", cropped.Width, cropped.Height)
	}
}
