/*
NAME
  stream.go

DESCRIPTION
  stream.go implements Stream: the video-stream orchestrator of spec.md
  §4.G, composing a Tiler (when tiling), an encoder.Base, and two
  background loops — rearrange (per-position timestamp-ordered delivery
  into the canvas/Tiler) and resample (fixed-cadence canvas snapshot and
  Encode) — mirroring the teacher's own single-goroutine-per-concern
  shape in revid/revid.go (a packetization goroutine plus an input
  goroutine, coordinated by channels and a stop channel).

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package stream

import (
	"sync"
	"time"

	"github.com/ausocean/utils/logging"

	"github.com/cambricon/mluvideo/devsession"
	"github.com/cambricon/mluvideo/encoder"
	"github.com/cambricon/mluvideo/frame"
	"github.com/cambricon/mluvideo/scaler"
	"github.com/cambricon/mluvideo/tiler"
)

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

// Stream composes a canvas (direct or tiled), an encoder, and the
// rearrange/resample loops that feed one into the other.
type Stream struct {
	cfg      *Config
	enc      *encoder.Base
	til      *tiler.Tiler
	s        *scaler.Scaler
	registry *devsession.Registry
	log      logging.Logger

	mu        sync.Mutex
	cond      *sync.Cond
	queue     ptsHeap
	positions map[int]*tsState

	canvasMu sync.Mutex
	canvas   frame.Buffer

	startTime   time.Time
	directCount int64
	resampleIdx int64

	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// New returns a Stream over cfg, which must have already passed
// Validate, driving enc and (if registry is non-nil) able to bridge
// host/device domain boundaries in its resample step.
func New(cfg *Config, enc *encoder.Base, registry *devsession.Registry, s *scaler.Scaler) *Stream {
	if s == nil {
		s = scaler.New(cfg.Logger)
	}
	st := &Stream{
		cfg:       cfg,
		enc:       enc,
		s:         s,
		registry:  registry,
		log:       cfg.Logger,
		positions: make(map[int]*tsState),
	}
	st.cond = sync.NewCond(&st.mu)
	return st
}

// Open allocates the canvas (and Tiler, if tiling), starts the encoder,
// and starts the rearrange/resample loops if needed.
func (s *Stream) Open() frame.Status {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return frame.StatusState
	}
	s.running = true
	s.mu.Unlock()

	color := colorFor(s.cfg.Pixel)
	if s.cfg.Tiling() {
		s.til = tiler.NewUniform(s.cfg.Width, s.cfg.Height, s.cfg.TileCols, s.cfg.TileRows, color, s.s, s.log)
	} else {
		s.canvasMu.Lock()
		s.canvas = scaler.AllocHost(s.cfg.Width, s.cfg.Height, color)
		s.canvasMu.Unlock()
	}

	if st := s.enc.Start(); st != frame.StatusSuccess {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		return st
	}

	s.startTime = time.Now()
	s.stopCh = make(chan struct{})
	if s.cfg.Resample {
		s.wg.Add(2)
		go s.rearrangeLoop()
		go s.resampleLoop()
	}
	return frame.StatusSuccess
}

// Close stops the background loops (if running) and the encoder.
// waitFinish is not consulted: Close submits no EOS frame of its own and
// does not wait for one before calling encoder.Base.Stop.
func (s *Stream) Close(waitFinish bool) frame.Status {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return frame.StatusState
	}
	s.running = false
	s.mu.Unlock()

	if s.stopCh != nil {
		close(s.stopCh)
		s.cond.Broadcast()
	}
	s.wg.Wait()

	_ = waitFinish // encoder.Base.Stop always closes its backend with drain set; see spec.md §4.E.
	return s.enc.Stop()
}

// Update enqueues one frame from position, after rectifying its
// timestamp. If resampling is off and there is no tiling, the frame is
// instead given a regenerated, evenly-spaced pts and forwarded straight
// to the encoder, per spec.md §4.G.
func (s *Stream) Update(buf frame.Buffer, timestamp int64, position int) frame.Status {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return frame.StatusState
	}

	if !s.cfg.Resample && !s.cfg.Tiling() {
		s.directCount++
		count := s.directCount
		s.mu.Unlock()
		pts := count * s.cfg.TimeBase / int64(s.cfg.FrameRate)
		return s.sendToEncoder(buf, pts)
	}

	ts, ok := s.positions[position]
	if !ok {
		ts = newTSState()
		s.positions[position] = ts
	}
	n := len(s.positions)
	pts := ts.rectify(timestamp)
	s.queue.push(queuedFrame{pts: pts, position: position, buf: buf})
	if len(s.queue) >= 10*n {
		s.cond.Signal()
	}
	s.mu.Unlock()
	return frame.StatusSuccess
}

// Clear blits a black frame into position.
func (s *Stream) Clear(position int) frame.Status {
	color := colorFor(s.cfg.Pixel)
	if s.til != nil {
		black := tiler.BlackFrame(s.cfg.Width, s.cfg.Height, color)
		arena := &tiler.Arena{}
		if !s.til.Blit(black, position, arena) {
			return frame.StatusFailed
		}
		return frame.StatusSuccess
	}
	s.canvasMu.Lock()
	s.canvas = tiler.BlackFrame(s.cfg.Width, s.cfg.Height, color)
	s.canvasMu.Unlock()
	return frame.StatusSuccess
}

// sendToEncoder borrows an encoder input buffer, gets buf's pixels into
// it, and submits it with the given pts.
func (s *Stream) sendToEncoder(buf frame.Buffer, pts int64) frame.Status {
	var fr frame.VideoFrame
	ok, st := s.enc.RequestFrameBuffer(&fr, -1)
	if !ok {
		return st
	}
	if !encodeInto(s.s, s.registry, fr.Buffer, buf) {
		if s.log != nil {
			s.log.Error("stream: encodeInto failed")
		}
		return frame.StatusFailed
	}
	fr.Pts = pts
	fr.Dts = frame.InvalidTimestamp
	return s.enc.SendFrame(&fr, -1)
}

// rearrangeLoop waits for >= 10*N queued frames (N = active positions),
// pops the minimum-pts one, paces it against wall clock, and paints it
// into the canvas or Tiler.
func (s *Stream) rearrangeLoop() {
	defer s.wg.Done()
	arena := &tiler.Arena{}
	for {
		s.mu.Lock()
		for {
			select {
			case <-s.stopCh:
				s.mu.Unlock()
				return
			default:
			}
			n := len(s.positions)
			if n > 0 && len(s.queue) >= 10*n {
				break
			}
			s.cond.Wait()
		}
		next := s.queue.pop()
		s.mu.Unlock()

		s.paceUntil(next.pts)

		if s.til != nil {
			s.til.Blit(next.buf, next.position, arena)
			continue
		}
		s.canvasMu.Lock()
		s.s.Process(s.canvas, next.buf)
		s.canvasMu.Unlock()
	}
}

// paceUntil sleeps until wall clock has caught up with pts, mapped
// through the configured time base (1e6/time_base microseconds per pts
// unit, per spec.md §4.G).
func (s *Stream) paceUntil(pts int64) {
	target := s.startTime.Add(time.Duration(float64(pts) / float64(s.cfg.TimeBase) * float64(time.Second)))
	if d := time.Until(target); d > 0 {
		select {
		case <-time.After(d):
		case <-s.stopCh:
		}
	}
}

// resampleLoop runs at 1/frame_rate cadence, snapshotting the canvas and
// encoding it.
func (s *Stream) resampleLoop() {
	defer s.wg.Done()
	interval := time.Second / time.Duration(s.cfg.FrameRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.resampleIdx++
			pts := s.resampleIdx * s.cfg.TimeBase / int64(s.cfg.FrameRate)

			var snapshot frame.Buffer
			if s.til != nil {
				snapshot = s.til.GetCanvas(nil)
			} else {
				s.canvasMu.Lock()
				snapshot = scaler.AllocHost(s.canvas.Width, s.canvas.Height, s.canvas.Color)
				s.s.Process(snapshot, s.canvas)
				s.canvasMu.Unlock()
			}

			st := s.sendToEncoder(snapshot, pts)
			if s.til != nil {
				s.til.ReleaseCanvas()
			}
			if st != frame.StatusSuccess && s.log != nil {
				s.log.Warning("stream: resample tick failed to encode", "status", st.String())
			}
		}
	}
}
