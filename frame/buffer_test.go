/*
NAME
  buffer_test.go

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package frame

import "testing"

func TestRectEvenAligned(t *testing.T) {
	r := Rect{X: 3, Y: 5, W: 11, H: 7}.EvenAligned()
	want := Rect{X: 2, Y: 4, W: 10, H: 6}
	if r != want {
		t.Errorf("EvenAligned() = %+v, want %+v", r, want)
	}
}

func TestBufferFillStridesI420(t *testing.T) {
	b := NewBuffer(16, 8, YUVI420, HostDevice, [maxPlanes][]byte{}, [maxPlanes]int{})
	if b.Stride[0] != 16 || b.Stride[1] != 8 || b.Stride[2] != 8 {
		t.Errorf("strides = %v, want [16 8 8]", b.Stride)
	}
}

func TestBufferFillStridesBGR(t *testing.T) {
	b := NewBuffer(16, 8, BGR, HostDevice, [maxPlanes][]byte{}, [maxPlanes]int{})
	if b.Stride[0] != 48 {
		t.Errorf("stride = %d, want 48", b.Stride[0])
	}
}

func TestBufferViewBGRCrop(t *testing.T) {
	w, h := 8, 4
	data := make([]byte, w*h*3)
	for i := range data {
		data[i] = byte(i)
	}
	b := NewBuffer(w, h, BGR, HostDevice, [maxPlanes][]byte{data}, [maxPlanes]int{})

	v := b.View(Rect{X: 2, Y: 1, W: 4, H: 2})
	if v.Width != 4 || v.Height != 2 {
		t.Fatalf("view dims = %dx%d, want 4x2", v.Width, v.Height)
	}
	wantOff := 1*b.Stride[0] + 2*3
	if len(v.Data[0]) == 0 || v.Data[0][0] != data[wantOff] {
		t.Errorf("view did not alias source data at expected offset")
	}
}

func TestBufferViewYUVEvenAlignment(t *testing.T) {
	w, h := 16, 16
	y := make([]byte, w*h)
	u := make([]byte, w*h/4)
	v := make([]byte, w*h/4)
	b := NewBuffer(w, h, YUVI420, HostDevice, [maxPlanes][]byte{y, u, v}, [maxPlanes]int{})

	crop := b.View(Rect{X: 3, Y: 3, W: 9, H: 9})
	if crop.Width%2 != 0 || crop.Height%2 != 0 {
		t.Errorf("cropped YUV dims must be even, got %dx%d", crop.Width, crop.Height)
	}
}
