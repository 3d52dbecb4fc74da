/*
NAME
  packet.go

DESCRIPTION
  packet.go implements the output-ring wire encoding Base uses to store
  [IndexedVideoPacket header][payload bytes] entries, and the packet-info
  resolution table backends consult on a codec callback.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package encoder

import (
	"encoding/binary"

	"github.com/cambricon/mluvideo/frame"
)

// headerSize is the encoded size in bytes of a ring-stored packet header:
// index, pts, dts, user_data (int64 x4), flags (uint32), payload length
// (uint32).
const headerSize = 8*4 + 4 + 4

// encodeHeader serializes p's header fields (everything but Data) into a
// fixed-size byte slice, prefixed to the payload in the output ring.
func encodeHeader(p frame.IndexedVideoPacket) []byte {
	buf := make([]byte, headerSize)
	binary.BigEndian.PutUint64(buf[0:8], uint64(p.Index))
	binary.BigEndian.PutUint64(buf[8:16], uint64(p.Pts))
	binary.BigEndian.PutUint64(buf[16:24], uint64(p.Dts))
	binary.BigEndian.PutUint64(buf[24:32], uint64(p.UserData))
	binary.BigEndian.PutUint32(buf[32:36], p.Flags)
	binary.BigEndian.PutUint32(buf[36:40], uint32(len(p.Data)))
	return buf
}

// decodeHeader parses a header previously produced by encodeHeader.
func decodeHeader(buf []byte) frame.IndexedVideoPacket {
	var p frame.IndexedVideoPacket
	p.Index = int64(binary.BigEndian.Uint64(buf[0:8]))
	p.Pts = int64(binary.BigEndian.Uint64(buf[8:16]))
	p.Dts = int64(binary.BigEndian.Uint64(buf[16:24]))
	p.UserData = int64(binary.BigEndian.Uint64(buf[24:32]))
	p.Flags = binary.BigEndian.Uint32(buf[32:36])
	return p
}

func payloadLen(buf []byte) int {
	return int(binary.BigEndian.Uint32(buf[36:40]))
}
