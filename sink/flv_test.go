/*
NAME
  flv_test.go

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package sink

import (
	"testing"

	"github.com/cambricon/mluvideo/frame"
)

func TestFLVWritePacketWritesPreviousTagSize0Once(t *testing.T) {
	dst := newBuf()
	c := newFLVContainer(dst, frame.H264, nil)

	pkt := frame.VideoPacket{Data: []byte{0x00, 0x00, 0x00, 0x01, 0x65, 0xaa}}
	pkt.SetKey(true)

	if _, err := c.WritePacket(pkt); err != nil {
		t.Fatalf("WritePacket() error = %v", err)
	}
	if dst.Len() == 0 {
		t.Fatal("WritePacket() wrote nothing")
	}
	first := append([]byte(nil), dst.Bytes()[:4]...)
	want := []byte{0, 0, 0, 0}
	for i := range want {
		if first[i] != want[i] {
			t.Fatalf("leading PreviousTagSize0 = %v, want %v", first, want)
		}
	}

	lenAfterFirst := dst.Len()
	if _, err := c.WritePacket(pkt); err != nil {
		t.Fatalf("WritePacket() second error = %v", err)
	}
	if dst.Len() <= lenAfterFirst {
		t.Fatal("second WritePacket() did not grow the destination")
	}
	// The second write adds exactly one tag (tag header, video data header,
	// payload, PreviousTagSize) and no second marker.
	if got, want := dst.Len()-lenAfterFirst, flvSizeofTagHeader+flvDataHeaderLength+len(pkt.Data)+flvSizeofPrevSize; got != want {
		t.Errorf("second WritePacket() wrote %d bytes, want %d (one tag, no marker)", got, want)
	}
	// The 4-byte PreviousTagSize0 marker must only be written before the
	// very first tag.
	if !c.wroteFirstTagMarker {
		t.Fatal("wroteFirstTagMarker not set after first packet")
	}
}

func TestFLVWritePacketKeyFrameType(t *testing.T) {
	dst := newBuf()
	c := newFLVContainer(dst, frame.H264, nil)

	pkt := frame.VideoPacket{Data: []byte{0xaa, 0xbb}}
	pkt.SetKey(true)
	if _, err := c.WritePacket(pkt); err != nil {
		t.Fatalf("WritePacket() error = %v", err)
	}

	b := dst.Bytes()
	tagHeaderOffset := 4 // past the PreviousTagSize0 marker
	frameCodecByte := b[tagHeaderOffset+11]
	frameType := frameCodecByte >> 4
	if frameType != flvKeyFrameType {
		t.Errorf("frameType = %d, want %d (key frame)", frameType, flvKeyFrameType)
	}
}

func TestFLVWritePacketInterFrameType(t *testing.T) {
	dst := newBuf()
	c := newFLVContainer(dst, frame.H264, nil)

	pkt := frame.VideoPacket{Data: []byte{0xaa, 0xbb}}
	// Key left unset: inter frame.
	if _, err := c.WritePacket(pkt); err != nil {
		t.Fatalf("WritePacket() error = %v", err)
	}

	b := dst.Bytes()
	frameCodecByte := b[4+11]
	frameType := frameCodecByte >> 4
	if frameType != flvInterFrameType {
		t.Errorf("frameType = %d, want %d (inter frame)", frameType, flvInterFrameType)
	}
}
