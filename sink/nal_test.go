/*
NAME
  nal_test.go

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

// TestHasKeyFrameH264 exercises spec.md §8 end-to-end scenario 4:
// bytes 00 00 00 01 65 ... classify as an H.264 key frame.
func TestHasKeyFrameH264(t *testing.T) {
	data := []byte{0x00, 0x00, 0x00, 0x01, 0x65, 0x88, 0x84}
	if !hasKeyFrame(data, frame.H264) {
		t.Errorf("hasKeyFrame() = false, want true for NAL type 5 (0x65 & 0x1f)")
	}
}

func TestHasKeyFrameH264NonIDR(t *testing.T) {
	data := []byte{0x00, 0x00, 0x01, 0x41, 0x9a}
	if hasKeyFrame(data, frame.H264) {
		t.Errorf("hasKeyFrame() = true, want false for non-IDR NAL type 1")
	}
}

func TestHasKeyFrameH265(t *testing.T) {
	for _, nalType := range []int{16, 19, 21} {
		header := byte(nalType << 1)
		data := []byte{0x00, 0x00, 0x01, header, 0x00}
		if !hasKeyFrame(data, frame.H265) {
			t.Errorf("hasKeyFrame() = false, want true for h265 NAL type %d", nalType)
		}
	}
}

func TestHasParamSetH264(t *testing.T) {
	sps := []byte{0x00, 0x00, 0x00, 0x01, 0x67, 0x42, 0x00}
	pps := []byte{0x00, 0x00, 0x00, 0x01, 0x68, 0xce}
	if !hasParamSet(sps, frame.H264) {
		t.Errorf("hasParamSet(sps) = false, want true")
	}
	if !hasParamSet(pps, frame.H264) {
		t.Errorf("hasParamSet(pps) = false, want true")
	}
}

func TestExtractParamSetsConcatenatesInOrder(t *testing.T) {
	var data []byte
	sps := []byte{0x00, 0x00, 0x00, 0x01, 0x67, 0xaa, 0xbb}
	pps := []byte{0x00, 0x00, 0x00, 0x01, 0x68, 0xcc}
	idr := []byte{0x00, 0x00, 0x00, 0x01, 0x65, 0xdd, 0xee}
	data = append(data, sps...)
	data = append(data, pps...)
	data = append(data, idr...)

	got := extractParamSets(data, frame.H264)
	want := append(append([]byte{}, sps...), pps...)
	if len(got) != len(want) {
		t.Fatalf("extractParamSets() len = %d, want %d (got %v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("extractParamSets()[%d] = %#x, want %#x", i, got[i], want[i])
		}
	}
}

func TestExtractParamSetsNoneFound(t *testing.T) {
	idr := []byte{0x00, 0x00, 0x00, 0x01, 0x65, 0xdd}
	if got := extractParamSets(idr, frame.H264); len(got) != 0 {
		t.Errorf("extractParamSets() = %v, want empty", got)
	}
}
