/*
NAME
  raw.go

DESCRIPTION
  raw.go implements rawContainer, the minimal Container backing the
  ".mp4"/".mkv"/".avi" extensions. No box-writer (ISOBMFF/Matroska/RIFF)
  library exists anywhere in the retrieved example corpus (see
  DESIGN.md), so these three extensions share one elementary-stream
  writer: a small identifying header naming the target format, the
  extradata (parameter-set NAL units) extracted from the first key-
  frame-preceded bitstream per spec.md §6, and then one length-prefixed
  record per packet. Each record header holds pts, dts, flags and the
  payload length (see rawHeaderSize), so a real box-writer can later be
  dropped in as another
  Container implementation without touching call sites.

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

import (
	"encoding/binary"
	"io"

	"github.com/ausocean/utils/logging"

	"github.com/cambricon/mluvideo/frame"
)

// rawMagic identifies the raw container format to a reader; it has no
// relation to any standard container's magic bytes.
var rawMagic = [4]byte{'M', 'L', 'U', 'R'}

// rawHeaderSize is the fixed-size packet header: pts, dts (int64 x2),
// flags (uint32), payload length (uint32).
const rawHeaderSize = 8*2 + 4 + 4

// rawContainer is the Container implementation backing ".mp4", ".mkv"
// and ".avi".
type rawContainer struct {
	dst    io.WriteCloser
	codec  frame.CodecType
	format Format
	log    logging.Logger

	wroteHeader bool
	extradata   []byte
	sawKeyFrame bool
}

func newRawContainer(dst io.WriteCloser, codec frame.CodecType, format Format, log logging.Logger) *rawContainer {
	if log == nil {
		log = &nopLogger{}
	}
	return &rawContainer{dst: dst, codec: codec, format: format, log: log}
}

// WritePacket accumulates extradata from the first key-frame-preceded
// bitstream, per spec.md §6, writing the container header exactly once
// (on the first packet that is itself a key frame or that follows one),
// then frames every subsequent packet with rawHeaderSize.
func (c *rawContainer) WritePacket(pkt frame.VideoPacket) (int, error) {
	if !c.wroteHeader {
		if !c.sawKeyFrame {
			if pkt.HasPS() || hasParamSet(pkt.Data, c.codec) {
				c.extradata = append(c.extradata, extractParamSets(pkt.Data, c.codec)...)
			}
			if pkt.Key() || hasKeyFrame(pkt.Data, c.codec) {
				c.sawKeyFrame = true
			} else {
				// Parameter-set-only packets (pkt.HasPS()) never carry
				// stream data themselves; nothing else to write yet.
				if pkt.HasPS() {
					return 0, nil
				}
			}
		}
		if c.sawKeyFrame {
			n, err := c.writeHeader()
			if err != nil {
				return n, err
			}
			c.wroteHeader = true
			written, err := c.writePacketRecord(pkt)
			return n + written, err
		}
		c.log.Warning("sink: raw container dropping packet before first key frame", "format", c.format.String())
		return 0, nil
	}

	return c.writePacketRecord(pkt)
}

func (c *rawContainer) writeHeader() (int, error) {
	buf := make([]byte, 0, 4+1+1+4+len(c.extradata))
	buf = append(buf, rawMagic[:]...)
	buf = append(buf, byte(c.format))
	buf = append(buf, byte(c.codec))
	var extLen [4]byte
	binary.BigEndian.PutUint32(extLen[:], uint32(len(c.extradata)))
	buf = append(buf, extLen[:]...)
	buf = append(buf, c.extradata...)
	return c.dst.Write(buf)
}

func (c *rawContainer) writePacketRecord(pkt frame.VideoPacket) (int, error) {
	header := make([]byte, rawHeaderSize)
	binary.BigEndian.PutUint64(header[0:8], uint64(pkt.Pts))
	binary.BigEndian.PutUint64(header[8:16], uint64(pkt.Dts))
	binary.BigEndian.PutUint32(header[16:20], pkt.Flags)
	binary.BigEndian.PutUint32(header[20:24], uint32(len(pkt.Data)))

	n, err := c.dst.Write(header)
	if err != nil {
		return n, err
	}
	m, err := c.dst.Write(pkt.Data)
	return n + m, err
}

func (c *rawContainer) Close() error { return c.dst.Close() }
