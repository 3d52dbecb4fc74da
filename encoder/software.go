/*
NAME
  software.go

DESCRIPTION
  software.go implements the software encoder backend: a worker goroutine
  draining a submitted-frame channel, backed by a free-buffer pool channel,
  per spec.md §4.E. It converts input frames to the codec's native pixel
  format via the scaler package when they don't already match.

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
	"sync"
	"time"

	"github.com/ausocean/utils/logging"

	"github.com/cambricon/mluvideo/frame"
	"github.com/cambricon/mluvideo/scaler"
)

type submission struct {
	fr    *frame.VideoFrame
	index int64
	eos   bool
}

// SoftwareBackend is the CPU codec backend: one worker goroutine, a free
// pool of input buffers, and a submitted-frame queue.
type SoftwareBackend struct {
	codec  Codec
	scaler *scaler.Scaler
	log    logging.Logger

	width, height int
	pixel         frame.PixelFormat

	free      chan *frame.VideoFrame
	submitted chan submission

	base *Base
	done chan struct{}
	wg   sync.WaitGroup
}

// NewSoftwareBackend returns a software Backend with a pool of
// poolSize preallocated input buffers of the given dimensions and pixel
// format.
func NewSoftwareBackend(codec Codec, width, height int, pixel frame.PixelFormat, poolSize int, log logging.Logger) *SoftwareBackend {
	b := &SoftwareBackend{
		codec:     codec,
		scaler:    scaler.New(log),
		log:       log,
		width:     width,
		height:    height,
		pixel:     pixel,
		free:      make(chan *frame.VideoFrame, poolSize),
		submitted: make(chan submission, poolSize),
	}
	for i := 0; i < poolSize; i++ {
		b.free <- allocVideoFrame(width, height, colorFor(pixel))
	}
	return b
}

func colorFor(p frame.PixelFormat) frame.ColorFormat {
	switch p {
	case frame.NV12:
		return frame.YUVNV12
	case frame.NV21:
		return frame.YUVNV21
	default:
		return frame.YUVI420
	}
}

func allocVideoFrame(width, height int, color frame.ColorFormat) *frame.VideoFrame {
	var data [3][]byte
	switch color {
	case frame.YUVI420:
		data[0] = make([]byte, width*height)
		data[1] = make([]byte, ((width+1)/2)*((height+1)/2))
		data[2] = make([]byte, ((width+1)/2)*((height+1)/2))
	default:
		data[0] = make([]byte, width*height)
		data[1] = make([]byte, width*((height+1)/2))
	}
	buf := frame.NewBuffer(width, height, color, frame.HostDevice, data, [3]int{})
	return &frame.VideoFrame{Buffer: buf, Pts: frame.InvalidTimestamp, Dts: frame.InvalidTimestamp}
}

// Open starts the worker goroutine.
func (b *SoftwareBackend) Open(base *Base) error {
	b.base = base
	b.done = make(chan struct{})
	b.wg.Add(1)
	go b.run()
	return nil
}

// Close signals the worker to stop and waits for it to exit. drain is not
// consulted: Close submits no trailing EOS and does not flush the codec
// itself; the codec is drained only when the worker has already taken an
// EOS submission (see run).
func (b *SoftwareBackend) Close(drain bool) error {
	close(b.done)
	b.wg.Wait()
	return nil
}

func (b *SoftwareBackend) RequestFrameBuffer(fr *frame.VideoFrame, timeoutMs int) (bool, error) {
	switch {
	case timeoutMs < 0:
		buf := <-b.free
		*fr = *buf
		return true, nil
	case timeoutMs == 0:
		select {
		case buf := <-b.free:
			*fr = *buf
			return true, nil
		default:
			return false, nil
		}
	default:
		select {
		case buf := <-b.free:
			*fr = *buf
			return true, nil
		case <-time.After(time.Duration(timeoutMs) * time.Millisecond):
			return false, nil
		}
	}
}

func (b *SoftwareBackend) SendFrame(fr *frame.VideoFrame, index int64, timeoutMs int) error {
	sub := submission{fr: fr, index: index, eos: fr.EOS()}
	select {
	case b.submitted <- sub:
		return nil
	default:
		return fmt.Errorf("encoder: software backend submission queue full")
	}
}

func (b *SoftwareBackend) run() {
	defer b.wg.Done()
	for {
		select {
		case sub := <-b.submitted:
			b.handle(sub)
			if sub.eos {
				b.drain()
				return
			}
		case <-b.done:
			return
		}
	}
}

func (b *SoftwareBackend) handle(sub submission) {
	in := sub.fr
	if in.Color != colorFor(b.codec.NativePixelFormat()) && len(in.Data[0]) > 0 {
		converted := allocVideoFrame(b.width, b.height, colorFor(b.codec.NativePixelFormat()))
		if !b.scaler.Process(converted.Buffer, in.Buffer) {
			if b.log != nil {
				b.log.Error("encoder: software backend format conversion failed")
			}
			return
		}
		converted.Pts, converted.Dts, converted.Flags = in.Pts, in.Dts, in.Flags
		in = converted
	}

	pkts, err := b.codec.Encode(in)
	if err != nil {
		if b.log != nil {
			b.log.Error("encoder: codec encode failed", "error", err.Error())
		}
		return
	}
	for _, p := range pkts {
		b.base.push(p, sub.index)
	}
	b.free <- sub.fr
}

// drain repeatedly calls Encode(nil) until the codec stops producing
// packets, per spec.md §4.E's EOS-drain behavior.
func (b *SoftwareBackend) drain() {
	for {
		pkts, err := b.codec.Encode(nil)
		if err != nil || len(pkts) == 0 {
			return
		}
		for _, p := range pkts {
			b.base.pushDrained(p)
		}
	}
}
