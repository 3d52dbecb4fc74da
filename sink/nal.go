/*
NAME
  nal.go

DESCRIPTION
  nal.go implements start-code scanning over Annex-B bitstreams to pick
  out H.264/H.265 parameter-set and key-frame NAL units, per spec.md §6.
  The scanner itself is adapted from the teacher's codec/h264.NALType
  and container/flv.isKeyFrame, generalised to run over either codec's
  NAL type numbering.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package sink

import "github.com/cambricon/mluvideo/frame"

// H.264 NAL unit types (Table 7-1), nal_unit_type = byte & 0x1f.
const (
	h264NonIDR int = 1
	h264IDR    int = 5
	h264SEI    int = 6
	h264SPS    int = 7
	h264PPS    int = 8
)

// H.265 NAL unit types, nal_unit_type = (byte & 0x7e) >> 1.
const (
	h265KeyFrameMin int = 16
	h265KeyFrameMax int = 21
	h265VPS         int = 32
	h265SPS         int = 33
	h265PPS         int = 34
)

// frameScanner walks an Annex-B byte stream one byte at a time, the same
// shape as the teacher's codec/h264.frameScanner and
// container/flv.frameScanner.
type frameScanner struct {
	off int
	buf []byte
}

func (s *frameScanner) readByte() (b byte, ok bool) {
	if s.off >= len(s.buf) {
		return 0, false
	}
	b = s.buf[s.off]
	s.off++
	return b, true
}

// nalType extracts nal_unit_type from a NAL unit's first header byte,
// per spec.md §6's two conventions: H.264 masks the low 5 bits, H.265
// masks bits 1..6.
func nalType(header byte, codec frame.CodecType) int {
	if codec == frame.H265 {
		return int((header & 0x7e) >> 1)
	}
	return int(header & 0x1f)
}

// isKeyFrameNAL reports whether a NAL type value is a key-frame type for
// the given codec: H.264 IDR (5), H.265 16..21.
func isKeyFrameNAL(t int, codec frame.CodecType) bool {
	if codec == frame.H265 {
		return t >= h265KeyFrameMin && t <= h265KeyFrameMax
	}
	return t == h264IDR
}

// isParamSetNAL reports whether a NAL type value is a parameter-set type
// for the given codec: H.264 SPS(7)/PPS(8), H.265 VPS(32)/SPS(33)/PPS(34).
func isParamSetNAL(t int, codec frame.CodecType) bool {
	if codec == frame.H265 {
		return t == h265VPS || t == h265SPS || t == h265PPS
	}
	return t == h264SPS || t == h264PPS
}

// nalUnit records one NAL unit found by forEachNAL: codeStart is the
// offset of the start code's first 0x00 byte, headerStart is the offset
// of the NAL header byte immediately following the start code, and t is
// that header byte's nal_unit_type.
type nalUnit struct {
	codeStart, headerStart int
	t                      int
}

// forEachNAL scans data for Annex-B start codes (00 00 01 or 00 00 00 01)
// and invokes fn with each NAL unit found. Scanning stops as soon as fn
// returns false.
func forEachNAL(data []byte, codec frame.CodecType, fn func(nalUnit) bool) {
	sc := frameScanner{buf: data}
	for {
		b, ok := sc.readByte()
		if !ok {
			return
		}
		codeStart := sc.off - 1
		for i := 1; b == 0x00 && i != 4; i++ {
			b, ok = sc.readByte()
			if !ok {
				return
			}
			if b != 0x01 || (i != 2 && i != 3) {
				continue
			}

			headerStart := sc.off
			header, ok := sc.readByte()
			if !ok {
				return
			}
			if !fn(nalUnit{codeStart: codeStart, headerStart: headerStart, t: nalType(header, codec)}) {
				return
			}
		}
	}
}

// hasKeyFrame reports whether data contains a key-frame NAL for codec.
func hasKeyFrame(data []byte, codec frame.CodecType) bool {
	found := false
	forEachNAL(data, codec, func(n nalUnit) bool {
		if isKeyFrameNAL(n.t, codec) {
			found = true
			return false
		}
		return true
	})
	return found
}

// hasParamSet reports whether data contains any parameter-set NAL for
// codec.
func hasParamSet(data []byte, codec frame.CodecType) bool {
	found := false
	forEachNAL(data, codec, func(n nalUnit) bool {
		if isParamSetNAL(n.t, codec) {
			found = true
			return false
		}
		return true
	})
	return found
}

// extractParamSets scans data and returns the concatenation of every
// parameter-set NAL unit found, each including its start code and
// running up to (but not including) the next NAL unit's start code, per
// spec.md §6: these bytes become the container's extradata.
func extractParamSets(data []byte, codec frame.CodecType) []byte {
	var units []nalUnit
	forEachNAL(data, codec, func(n nalUnit) bool {
		units = append(units, n)
		return true
	})

	var out []byte
	for i, n := range units {
		if !isParamSetNAL(n.t, codec) {
			continue
		}
		to := len(data)
		if i+1 < len(units) {
			to = units[i+1].codeStart
		}
		out = append(out, data[n.codeStart:to]...)
	}
	return out
}
