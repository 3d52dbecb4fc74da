/*
NAME
  video.go

DESCRIPTION
  video.go provides VideoFrame and VideoPacket, the encoder-visible frame
  and packet types, along with their packed 32-bit flag words. Flags are
  always read and written through mask+shift accessors, never through Go
  bitfield-style struct tags, per the original's explicit caution that
  bitfield types are non-portable.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package frame

// Video frame flag bit layout (LSB first):
//
//	0         : EOS
//	16..22 (7): buffer index
//	23..26 (4): MLU memory channel (implies MLU memory)
//	27..30 (4): MLU device id (implies MLU memory)
//	31        : MLU memory
const (
	frameFlagEOS uint32 = 1 << 0

	frameFlagBufIdxShift = 16
	frameFlagBufIdxMask  = 0x7f // 7 bits

	frameFlagChanShift = 23
	frameFlagChanMask  = 0xf // 4 bits

	frameFlagDevIDShift = 27
	frameFlagDevIDMask  = 0xf // 4 bits

	frameFlagMLUMemory uint32 = 1 << 31
)

// VideoFrame is an encoder-visible frame: a planar buffer plus timestamps,
// pixel format and packed flags.
type VideoFrame struct {
	Buffer
	Pts, Dts int64
	Pixel    PixelFormat
	Flags    uint32
}

// EOS reports whether the end-of-stream flag is set.
func (f VideoFrame) EOS() bool { return f.Flags&frameFlagEOS != 0 }

// SetEOS sets or clears the end-of-stream flag.
func (f *VideoFrame) SetEOS(v bool) { setBit(&f.Flags, frameFlagEOS, v) }

// MLUMemory reports whether the frame's buffer is MLU device memory.
func (f VideoFrame) MLUMemory() bool { return f.Flags&frameFlagMLUMemory != 0 }

// SetMLUMemory sets or clears the MLU-memory flag.
func (f *VideoFrame) SetMLUMemory(v bool) { setBit(&f.Flags, frameFlagMLUMemory, v) }

// BufferIndex returns the 7-bit buffer index field.
func (f VideoFrame) BufferIndex() int { return int((f.Flags >> frameFlagBufIdxShift) & frameFlagBufIdxMask) }

// SetBufferIndex sets the 7-bit buffer index field, masking the input to 7 bits.
func (f *VideoFrame) SetBufferIndex(idx int) {
	f.Flags &^= frameFlagBufIdxMask << frameFlagBufIdxShift
	f.Flags |= (uint32(idx) & frameFlagBufIdxMask) << frameFlagBufIdxShift
}

// MLUChannel returns the 4-bit MLU memory channel field. Only meaningful
// when MLUMemory is set.
func (f VideoFrame) MLUChannel() int { return int((f.Flags >> frameFlagChanShift) & frameFlagChanMask) }

// SetMLUChannel sets the 4-bit MLU memory channel field and implies
// MLU memory.
func (f *VideoFrame) SetMLUChannel(ch int) {
	f.Flags &^= frameFlagChanMask << frameFlagChanShift
	f.Flags |= (uint32(ch) & frameFlagChanMask) << frameFlagChanShift
	f.SetMLUMemory(true)
}

// MLUDeviceID returns the 4-bit MLU device id field. Only meaningful when
// MLUMemory is set.
func (f VideoFrame) MLUDeviceID() int { return int((f.Flags >> frameFlagDevIDShift) & frameFlagDevIDMask) }

// SetMLUDeviceID sets the 4-bit MLU device id field and implies MLU memory.
func (f *VideoFrame) SetMLUDeviceID(id int) {
	f.Flags &^= frameFlagDevIDMask << frameFlagDevIDShift
	f.Flags |= (uint32(id) & frameFlagDevIDMask) << frameFlagDevIDShift
	f.SetMLUMemory(true)
}

// Video packet flag bit layout (LSB first):
//
//	0        : EOS
//	1        : KEY
//	2        : PS (parameter sets present)
//	16..19(4): raw pixel format (when codec type is RAW)
const (
	packetFlagEOS uint32 = 1 << 0
	packetFlagKEY uint32 = 1 << 1
	packetFlagPS  uint32 = 1 << 2

	packetFlagPixelShift = 16
	packetFlagPixelMask  = 0xf
)

// VideoPacket is encoded output: data, pts/dts, packed flags, and an opaque
// user data value carried through from the originating VideoFrame.
type VideoPacket struct {
	Data     []byte
	Pts, Dts int64
	Flags    uint32
	UserData int64
}

func (p VideoPacket) EOS() bool { return p.Flags&packetFlagEOS != 0 }
func (p *VideoPacket) SetEOS(v bool) { setBit(&p.Flags, packetFlagEOS, v) }

func (p VideoPacket) Key() bool { return p.Flags&packetFlagKEY != 0 }
func (p *VideoPacket) SetKey(v bool) { setBit(&p.Flags, packetFlagKEY, v) }

func (p VideoPacket) HasPS() bool { return p.Flags&packetFlagPS != 0 }
func (p *VideoPacket) SetHasPS(v bool) { setBit(&p.Flags, packetFlagPS, v) }

func (p VideoPacket) RawPixelFormat() PixelFormat {
	return PixelFormat((p.Flags >> packetFlagPixelShift) & packetFlagPixelMask)
}

func (p *VideoPacket) SetRawPixelFormat(pf PixelFormat) {
	p.Flags &^= packetFlagPixelMask << packetFlagPixelShift
	p.Flags |= (uint32(pf) & packetFlagPixelMask) << packetFlagPixelShift
}

// IndexedVideoPacket augments VideoPacket with a monotonic index used to
// re-associate output packets with the input frame submission that produced
// them, since backends may produce packets out of submission order.
type IndexedVideoPacket struct {
	VideoPacket
	Index int64
}

// PacketInfo is a per-submission record kept by encoder backends so that a
// packet callback (keyed by monotonic index) can be resolved back to the
// original frame's timestamps and user data.
type PacketInfo struct {
	OrigPts, OrigDts int64
	SubmitTick       int64
	CompleteTick     int64
	UserData         int64
}

func setBit(flags *uint32, bit uint32, v bool) {
	if v {
		*flags |= bit
	} else {
		*flags &^= bit
	}
}
