/*
NAME
  base.go

DESCRIPTION
  base.go implements Base: the state machine, output-ring owner, and
  packet fragmentation/probing logic shared by every encoder backend,
  per spec.md §4.D. The output-ring logic is a shared helper struct
  composed into Base rather than inherited, per Design Notes §9
  ("inheritance tree for encoders -> tagged variant with a common
  operation vtable; the base's output-ring logic becomes a shared helper
  struct composed, not inherited").

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
	"sync"
	"time"

	"github.com/ausocean/utils/logging"

	"github.com/cambricon/mluvideo/frame"
	"github.com/cambricon/mluvideo/ring"
	"github.com/cambricon/mluvideo/rwmutex"
)

// truncatedPacket caches a VideoPacket that didn't fit in a caller's
// buffer on a prior GetPacket call, per spec.md §4.D's fragmentation
// algorithm: subsequent GetPacket calls drain this cache before
// consulting the ring again.
type truncatedPacket struct {
	pkt    frame.VideoPacket
	info   frame.PacketInfo
	offset int
}

// Base is the codec-agnostic encoder engine: lifecycle state machine,
// output ring, and encoding-info resolution table, composed with a
// Backend that actually produces packets.
type Base struct {
	mu      *rwmutex.RwMutex
	state   State
	backend Backend
	log     logging.Logger

	frameRate int
	timeBase  int64

	ringMu   sync.Mutex
	ringCond *sync.Cond
	outRing  *ring.Buffer

	infoMu      sync.Mutex
	info        map[int64]*frame.PacketInfo
	nextIndex   int64
	packetCount int64

	truncated *truncatedPacket

	psMu     sync.Mutex
	psBuffer []byte

	eosMu   sync.Mutex
	eosSent bool
}

// New returns a Base wrapping backend, with an output ring of the given
// byte capacity. preferWriter selects the RwMutex's lock-preference
// policy (writer-preferring is the default per spec.md §4.C).
func New(backend Backend, ringCapacity, frameRate int, timeBase int64, preferWriter bool, log logging.Logger) *Base {
	b := &Base{
		mu:        rwmutex.New(preferWriter),
		backend:   backend,
		log:       log,
		frameRate: frameRate,
		timeBase:  timeBase,
		outRing:   ring.NewBuffer(ringCapacity),
		info:      make(map[int64]*frame.PacketInfo),
	}
	b.ringCond = sync.NewCond(&b.ringMu)
	return b
}

// State returns the encoder's current lifecycle state.
func (b *Base) State() State {
	g := rwmutex.NewUniqueReadLock(b.mu)
	defer g.Unlock()
	return b.state
}

// Start transitions IDLE -> STARTING -> RUNNING, opening the backend.
// Double-start returns StatusState.
func (b *Base) Start() frame.Status {
	g := rwmutex.NewUniqueWriteLock(b.mu)
	defer g.Unlock()

	if b.state != Idle {
		return frame.StatusState
	}
	b.state = Starting
	if err := b.backend.Open(b); err != nil {
		b.state = Idle
		if b.log != nil {
			b.log.Error("encoder: backend open failed", "error", err.Error())
		}
		return frame.StatusFailed
	}
	b.state = Running
	return frame.StatusSuccess
}

// Stop transitions RUNNING/STARTING -> STOPPING -> IDLE, closing the
// backend. Double-stop returns StatusState.
//
// The write lock is released before backend.Close is called, not held
// across it: Close joins the backend's worker (e.g. SoftwareBackend.Close
// does wg.Wait()), and a worker parked in writeToRing's backpressure wait
// can only notice the state change and unwind via runningLocked(), which
// itself takes a read lock. Holding the write lock across Close would
// make that read lock unobtainable, deadlocking the join. Broadcasting
// ringCond right after releasing the write lock (and before Close) wakes
// any such worker immediately, instead of only after the join it's
// blocking on has already hung.
func (b *Base) Stop() frame.Status {
	g := rwmutex.NewUniqueWriteLock(b.mu)
	if b.state == Idle {
		g.Unlock()
		return frame.StatusState
	}
	b.state = Stopping
	g.Unlock()

	b.ringMu.Lock()
	b.ringCond.Broadcast() // wake anyone blocked on backpressure; they'll observe !Running.
	b.ringMu.Unlock()

	if err := b.backend.Close(true); err != nil && b.log != nil {
		b.log.Error("encoder: backend close failed", "error", err.Error())
	}

	g = rwmutex.NewUniqueWriteLock(b.mu)
	b.state = Idle
	g.Unlock()
	return frame.StatusSuccess
}

func (b *Base) running() bool {
	g := rwmutex.NewUniqueReadLock(b.mu)
	defer g.Unlock()
	return b.state == Running
}

func (b *Base) stopping() bool {
	g := rwmutex.NewUniqueReadLock(b.mu)
	defer g.Unlock()
	return b.state == Stopping
}

// RequestFrameBuffer borrows one input slot from the backend's pool.
func (b *Base) RequestFrameBuffer(fr *frame.VideoFrame, timeoutMs int) (bool, frame.Status) {
	if !b.running() && !b.stopping() {
		return false, frame.StatusState
	}
	ok, err := b.backend.RequestFrameBuffer(fr, timeoutMs)
	if err != nil {
		return false, frame.StatusFailed
	}
	if !ok {
		return false, frame.StatusTimeout
	}
	return true, frame.StatusSuccess
}

// SendFrame submits fr (or a trailing EOS) to the backend. SendFrame
// after an already-sent EOS returns StatusFailed. SendFrame while
// STOPPING is allowed only for a trailing EOS without data.
func (b *Base) SendFrame(fr *frame.VideoFrame, timeoutMs int) frame.Status {
	b.eosMu.Lock()
	alreadyEOS := b.eosSent
	b.eosMu.Unlock()
	if alreadyEOS {
		return frame.StatusFailed
	}

	state := b.State()
	if state == Stopping && !(fr.EOS() && len(fr.Data[0]) == 0) {
		return frame.StatusState
	}
	if state != Running && state != Stopping {
		return frame.StatusState
	}

	b.infoMu.Lock()
	index := b.nextIndex
	b.nextIndex++
	b.info[index] = &frame.PacketInfo{
		OrigPts:      fr.Pts,
		OrigDts:      fr.Dts,
		SubmitTick:   time.Now().UnixMicro(),
		CompleteTick: -1,
		UserData:     0,
	}
	b.infoMu.Unlock()

	if fr.EOS() {
		b.eosMu.Lock()
		b.eosSent = true
		b.eosMu.Unlock()
	}

	if err := b.backend.SendFrame(fr, index, timeoutMs); err != nil {
		return frame.StatusFailed
	}
	return frame.StatusSuccess
}

// push is called by a backend on a codec callback with a completed
// packet and the submission index it corresponds to. It resolves the
// packet's pts/dts from the original submission, generating dts when the
// original was invalid, and appends the wire-encoded packet to the
// output ring under backpressure.
func (b *Base) push(pkt frame.VideoPacket, index int64) bool {
	b.infoMu.Lock()
	pi, ok := b.info[index]
	if !ok {
		b.infoMu.Unlock()
		if b.log != nil {
			b.log.Error("encoder: push with unknown submission index", "index", index)
		}
		return false
	}
	pi.CompleteTick = time.Now().UnixMicro()
	pts := pi.OrigPts
	dts := pi.OrigDts
	b.packetCount++
	count := b.packetCount
	delete(b.info, index)
	b.infoMu.Unlock()

	if dts == frame.InvalidTimestamp && b.frameRate > 0 {
		dts = (count - 2) * b.timeBase / int64(b.frameRate)
	}
	pkt.Pts = pts
	pkt.Dts = dts

	return b.writeToRing(pkt, index)
}

// pushDrained pushes a packet produced by a codec drain call (EOS flush),
// which carries no submission index to resolve pts/dts from: the codec
// is expected to have already set them from its own buffered state.
func (b *Base) pushDrained(pkt frame.VideoPacket) bool {
	return b.writeToRing(pkt, -1)
}

func (b *Base) writeToRing(pkt frame.VideoPacket, index int64) bool {
	if pkt.HasPS() {
		b.psMu.Lock()
		b.psBuffer = append(b.psBuffer[:0:0], pkt.Data...)
		b.psMu.Unlock()
		return true
	}

	indexed := frame.IndexedVideoPacket{VideoPacket: pkt, Index: index}
	header := encodeHeader(indexed)
	required := len(header) + len(indexed.Data)

	b.ringMu.Lock()
	for b.outRing.Capacity()-b.outRing.Size() < required {
		if !b.runningLocked() {
			b.ringMu.Unlock()
			return false
		}
		b.ringCond.Wait()
	}
	b.outRing.Write(header)
	b.outRing.Write(indexed.Data)
	b.ringMu.Unlock()
	return true
}

// runningLocked re-reads State() from within writeToRing's backpressure
// wait loop. writeToRing never holds b.mu itself, so this is a plain
// State() read; it only has its own name so the wait loop reads clearly.
// It must never be called while the caller already holds b.mu as a
// writer (see Stop), or the ReadLock below can never be granted.
func (b *Base) runningLocked() bool { return b.running() }

// PSBuffer returns the cached parameter-set buffer (VPS/SPS/PPS for
// H.264/H.265), for sinks to prepend as container extradata.
func (b *Base) PSBuffer() []byte {
	b.psMu.Lock()
	defer b.psMu.Unlock()
	return append([]byte(nil), b.psBuffer...)
}

// GetPacket implements spec.md §4.D's three modes:
//   - packet == nil: skip one packet, returning the size discarded.
//   - packet.Data == nil: probe the next packet's metadata without consuming it.
//   - otherwise: copy up to len(packet.Data) bytes, caching any remainder.
func (b *Base) GetPacket(packet *frame.VideoPacket, info *frame.PacketInfo) (int, frame.Status) {
	g := rwmutex.NewUniqueReadLock(b.mu)
	defer g.Unlock()

	if b.truncated != nil {
		return b.drainTruncated(packet, info)
	}

	b.ringMu.Lock()
	defer b.ringMu.Unlock()

	header := make([]byte, headerSize)
	if n := b.outRing.Read(header, true); n < headerSize {
		return 0, frame.StatusTimeout // nothing buffered yet.
	}
	indexed := decodeHeader(header)
	plen := payloadLen(header)

	if packet == nil {
		b.outRing.Skip(headerSize + plen)
		b.ringCond.Signal()
		return headerSize + plen, frame.StatusSuccess
	}

	if info != nil {
		*info = frame.PacketInfo{OrigPts: indexed.Pts, OrigDts: indexed.Dts, UserData: indexed.UserData}
	}

	if packet.Data == nil {
		packet.Pts = indexed.Pts
		packet.Dts = indexed.Dts
		packet.Flags = indexed.Flags
		packet.UserData = indexed.UserData
		return plen, frame.StatusSuccess
	}

	payload := make([]byte, plen)
	b.outRing.Skip(headerSize)
	b.outRing.Read(payload, false)
	b.ringCond.Signal()

	packet.Pts, packet.Dts, packet.Flags, packet.UserData = indexed.Pts, indexed.Dts, indexed.Flags, indexed.UserData

	n := copy(packet.Data, payload)
	if n < len(payload) {
		b.truncated = &truncatedPacket{
			pkt:    frame.VideoPacket{Data: payload, Pts: indexed.Pts, Dts: indexed.Dts, Flags: indexed.Flags, UserData: indexed.UserData},
			offset: n,
		}
		if info != nil {
			b.truncated.info = *info
		}
	}
	return n, frame.StatusSuccess
}

func (b *Base) drainTruncated(packet *frame.VideoPacket, info *frame.PacketInfo) (int, frame.Status) {
	t := b.truncated
	remaining := t.pkt.Data[t.offset:]

	if packet == nil {
		n := len(remaining)
		b.truncated = nil
		return n, frame.StatusSuccess
	}
	if info != nil {
		*info = t.info
	}
	if packet.Data == nil {
		packet.Pts, packet.Dts, packet.Flags, packet.UserData = t.pkt.Pts, t.pkt.Dts, t.pkt.Flags, t.pkt.UserData
		return len(remaining), frame.StatusSuccess
	}

	n := copy(packet.Data, remaining)
	packet.Pts, packet.Dts, packet.Flags, packet.UserData = t.pkt.Pts, t.pkt.Dts, t.pkt.Flags, t.pkt.UserData
	if t.offset+n >= len(t.pkt.Data) {
		b.truncated = nil
	} else {
		t.offset += n
	}
	return n, frame.StatusSuccess
}
