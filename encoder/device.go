/*
NAME
  device.go

DESCRIPTION
  device.go implements DeviceBackend, the shared dispatcher logic behind
  both hardware backends (MLU200 "gen1", MLU300 "gen2"), per spec.md
  §4.E. Device callback threads never run user-visible work; they append
  {event, payload, instance, monotonic_index} onto a per-device queue and
  signal a condition variable, drained by a fixed-size pool of dispatcher
  threads (capped at 4 per device) that invoke the owning instance's
  handler in monotonic_index order.

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
	"fmt"
	"sort"
	"sync"
	"time"
	"unsafe"

	"github.com/cambricon/mluvideo/devsession"
	"github.com/cambricon/mluvideo/frame"
)

// Event enumerates the device codec events DeviceBackend observes.
type Event int

const (
	EventNewFrame Event = iota
	EventEOS
	EventSWReset
	EventHWReset
	EventOutOfMemory
	EventAbortError
)

// errorEvent reports whether e is one of the four fatal events that set
// the backend's error flag.
func (e Event) errorEvent() bool {
	switch e {
	case EventSWReset, EventHWReset, EventOutOfMemory, EventAbortError:
		return true
	default:
		return false
	}
}

// dispatcherCap is the fixed-size pool ceiling of dispatcher threads per
// device, per spec.md §4.E.
const dispatcherCap = 4

// eventItem is one entry on a device's callback queue.
type eventItem struct {
	event     Event
	payload   frame.VideoPacket
	instance  *DeviceBackend
	index     int64
	eosSignal bool
}

// deviceQueue is the per-device shared dispatcher: one queue, one set of
// up to dispatcherCap worker goroutines, fanning callbacks out to
// whichever DeviceBackend instance they're addressed to, in
// monotonic-index order per instance.
type deviceQueue struct {
	mu        sync.Mutex
	cond      *sync.Cond
	items     []eventItem
	workers   int
	instances int
	quit      chan struct{}
	quitOnce  sync.Once
}

var (
	deviceQueuesMu sync.Mutex
	deviceQueues   = map[int]*deviceQueue{}
)

func queueForDevice(deviceID int) *deviceQueue {
	deviceQueuesMu.Lock()
	defer deviceQueuesMu.Unlock()
	q, ok := deviceQueues[deviceID]
	if !ok {
		q = &deviceQueue{quit: make(chan struct{})}
		q.cond = sync.NewCond(&q.mu)
		deviceQueues[deviceID] = q
	}
	return q
}

// addInstance registers one more instance on this device and spawns an
// additional dispatcher goroutine if there's room under the cap and
// demand for one, per spec.md §4.E.
func (q *deviceQueue) addInstance() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.instances++
	if q.workers < dispatcherCap && q.workers < q.instances {
		q.workers++
		go q.runWorker()
	}
}

// removeInstance unregisters an instance; idle dispatcher threads that
// now outnumber instances exit on their next wake, per spec.md §4.E.
func (q *deviceQueue) removeInstance() {
	q.mu.Lock()
	q.instances--
	q.cond.Broadcast() // wake idle workers so they can observe the new count.
	q.mu.Unlock()
}

func (q *deviceQueue) runWorker() {
	for {
		q.mu.Lock()
		for len(q.items) == 0 {
			if q.workers > q.instances {
				q.workers--
				q.mu.Unlock()
				return
			}
			select {
			case <-q.quit:
				q.workers--
				q.mu.Unlock()
				return
			default:
			}
			q.cond.Wait()
		}
		// Deliver in monotonic index order per instance: stable-sort the
		// current backlog by index before popping the head.
		sort.SliceStable(q.items, func(i, j int) bool { return q.items[i].index < q.items[j].index })
		item := q.items[0]
		q.items = q.items[1:]
		q.mu.Unlock()

		item.instance.handleEvent(item)
	}
}

func (q *deviceQueue) enqueue(item eventItem) {
	q.mu.Lock()
	q.items = append(q.items, item)
	q.cond.Signal()
	q.mu.Unlock()
}

// DeviceBackend is the MLU200/MLU300 hardware backend. The two generations
// differ in the codec-session stand-in they're constructed with and in the
// gen2 JPEG host copy (see hostCopy); the dispatcher, event handling and
// stop semantics are identical, per
// spec.md §4.E's description of both as "device backends (gen1, gen2)".
type DeviceBackend struct {
	generation string
	session    *devsession.Session
	registry   *devsession.Registry
	queue      *deviceQueue

	codec     Codec
	codecType frame.CodecType
	pixel     frame.PixelFormat

	base *Base

	borrowMu sync.Mutex
	borrowed map[[3]uintptr]*frame.VideoFrame
	free     chan *frame.VideoFrame

	errMu sync.Mutex
	erred bool

	eosMu   sync.Mutex
	eosCond *sync.Cond
	eosDone bool
}

// NewDeviceBackend returns a hardware backend identified by generation
// ("mlu200" or "mlu300"), using registry to resolve the owning device's
// Session and sharing a per-device dispatcher queue with other backends
// on the same device. codecType is used only to single out the gen2
// ("mlu300") JPEG path, which pins its device-resident packet buffer
// across the host memcpy (see (*DeviceBackend).hostCopy).
func NewDeviceBackend(generation string, deviceID int, registry *devsession.Registry, codec Codec, codecType frame.CodecType, pixel frame.PixelFormat, poolSize int) *DeviceBackend {
	b := &DeviceBackend{
		generation: generation,
		registry:   registry,
		queue:      queueForDevice(deviceID),
		codec:      codec,
		codecType:  codecType,
		pixel:      pixel,
		borrowed:   make(map[[3]uintptr]*frame.VideoFrame),
		free:       make(chan *frame.VideoFrame, poolSize),
	}
	b.eosCond = sync.NewCond(&b.eosMu)
	b.session = registry.Acquire(deviceID)
	for i := 0; i < poolSize; i++ {
		b.free <- allocVideoFrame(256, 256, colorFor(pixel))
	}
	return b
}

func (b *DeviceBackend) Open(base *Base) error {
	b.base = base
	b.queue.addInstance()
	return nil
}

// Close implements the stop semantics of spec.md §4.E: absent an error,
// send a trailing EOS (if not already sent) and wait up to 10 seconds for
// the EOS callback before releasing the session; on error, abort without
// waiting.
func (b *DeviceBackend) Close(drain bool) error {
	b.errMu.Lock()
	erred := b.erred
	b.errMu.Unlock()

	if !erred && drain {
		b.base.eosMu.Lock()
		sent := b.base.eosSent
		b.base.eosMu.Unlock()
		if !sent {
			var eos frame.VideoFrame
			eos.SetEOS(true)
			b.base.SendFrame(&eos, 0)
		}
		deadline := time.Now().Add(10 * time.Second)
		b.eosMu.Lock()
		for !b.eosDone && time.Now().Before(deadline) {
			b.eosMu.Unlock()
			time.Sleep(10 * time.Millisecond)
			b.eosMu.Lock()
		}
		b.eosMu.Unlock()
	}

	b.queue.removeInstance()
	b.registry.Release(b.session.ID())
	return nil
}

func (b *DeviceBackend) RequestFrameBuffer(fr *frame.VideoFrame, timeoutMs int) (bool, error) {
	switch {
	case timeoutMs < 0:
		buf := <-b.free
		*fr = *buf
	case timeoutMs == 0:
		select {
		case buf := <-b.free:
			*fr = *buf
		default:
			return false, nil
		}
	default:
		select {
		case buf := <-b.free:
			*fr = *buf
		case <-time.After(time.Duration(timeoutMs) * time.Millisecond):
			return false, nil
		}
	}

	b.borrowMu.Lock()
	b.borrowed[planeKey(fr.Buffer)] = fr
	b.borrowMu.Unlock()
	return true, nil
}

// planeKey identifies a Buffer by the address of each plane's first byte,
// matching spec.md §4.E's "linked list keyed by plane pointer triples":
// the identity travels with a struct copy (*fr = *buf) since the
// underlying slice headers, and therefore their backing arrays, are
// shared.
func planeKey(buf frame.Buffer) [3]uintptr {
	var k [3]uintptr
	for i, p := range buf.Data {
		if len(p) > 0 {
			k[i] = uintptr(unsafe.Pointer(&p[0]))
		}
	}
	return k
}

// hostCopy resolves the gen2 JPEG Open Question from spec.md §9: the
// original left a commented-out AddReference/ReleaseReference pair around
// the host memcpy of a device-resident JPEG packet buffer, unsure whether
// the device runtime could recycle that buffer mid-copy. This pins the
// buffer for the duration of the copy and unpins it immediately after,
// per the spec's own resolution of that question.
func (b *DeviceBackend) hostCopy(devData []byte) []byte {
	h := b.session.NewHandle([3][]byte{devData})
	b.session.Pin(h)
	defer b.session.Unpin(h)

	host := make([]byte, len(devData))
	b.session.Memcpy(host, devData)
	return host
}

func (b *DeviceBackend) SendFrame(fr *frame.VideoFrame, index int64, timeoutMs int) error {
	key := planeKey(fr.Buffer)
	b.borrowMu.Lock()
	_, ok := b.borrowed[key]
	if ok {
		delete(b.borrowed, key)
	}
	b.borrowMu.Unlock()
	if !ok && len(fr.Data[0]) > 0 {
		return fmt.Errorf("encoder: %s backend: frame returned to SendFrame was not borrowed from this instance", b.generation)
	}

	pkts, err := b.codec.Encode(fr)
	if err != nil {
		return err
	}
	for i := range pkts {
		if b.generation == "mlu300" && b.codecType == frame.JPEG {
			pkts[i].Data = b.hostCopy(pkts[i].Data)
		}
	}
	for _, p := range pkts {
		b.queue.enqueue(eventItem{event: EventNewFrame, payload: p, instance: b, index: index})
	}
	if fr.EOS() {
		b.queue.enqueue(eventItem{event: EventEOS, instance: b, index: index, eosSignal: true})
	}
	if len(fr.Data[0]) > 0 {
		b.free <- fr
	}
	return nil
}

// handleEvent runs on a dispatcher goroutine, never on a device callback
// thread, per spec.md §4.E.
func (b *DeviceBackend) handleEvent(item eventItem) {
	if item.event.errorEvent() {
		b.errMu.Lock()
		b.erred = true
		b.errMu.Unlock()
		return
	}
	if item.eosSignal {
		b.eosMu.Lock()
		b.eosDone = true
		b.eosCond.Broadcast()
		b.eosMu.Unlock()
		return
	}
	b.base.push(item.payload, item.index)
}
