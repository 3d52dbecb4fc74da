/*
NAME
  stream_test.go

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package stream

import (
	"testing"
	"time"

	"github.com/cambricon/mluvideo/encoder"
	"github.com/cambricon/mluvideo/frame"
	"github.com/cambricon/mluvideo/scaler"
)

type nopCodec struct{}

func (nopCodec) NativePixelFormat() frame.PixelFormat { return frame.I420 }
func (nopCodec) Encode(fr *frame.VideoFrame) ([]frame.VideoPacket, error) {
	if fr == nil {
		return nil, nil
	}
	return []frame.VideoPacket{{Data: []byte{0}, Pts: fr.Pts, Dts: fr.Dts}}, nil
}

func newTestStream(t *testing.T, resample bool) *Stream {
	t.Helper()
	cfg := NewConfig(nil)
	cfg.Width, cfg.Height = 4, 4
	cfg.FrameRate = 30
	cfg.Resample = resample

	backend := encoder.NewSoftwareBackend(nopCodec{}, 4, 4, frame.I420, 4, nil)
	base := encoder.New(backend, 4096, cfg.FrameRate, cfg.TimeBase, true, nil)
	return New(cfg, base, nil, scaler.New(nil))
}

func TestOpenCloseLifecycle(t *testing.T) {
	s := newTestStream(t, false)
	if st := s.Open(); st != frame.StatusSuccess {
		t.Fatalf("Open() = %v", st)
	}
	if st := s.Open(); st != frame.StatusState {
		t.Fatalf("double Open() = %v, want StatusState", st)
	}
	if st := s.Close(true); st != frame.StatusSuccess {
		t.Fatalf("Close() = %v", st)
	}
	if st := s.Close(true); st != frame.StatusState {
		t.Fatalf("double Close() = %v, want StatusState", st)
	}
}

func TestUpdateDirectPathForwardsToEncoder(t *testing.T) {
	s := newTestStream(t, false)
	s.Open()
	defer s.Close(true)

	src := scaler.AllocHost(4, 4, frame.YUVI420)
	if st := s.Update(src, 123, 0); st != frame.StatusSuccess {
		t.Fatalf("Update() = %v", st)
	}

	var pkt frame.VideoPacket
	pkt.Data = make([]byte, 16)
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		n, st := s.enc.GetPacket(&pkt, nil)
		if st == frame.StatusSuccess && n > 0 {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("timed out waiting for packet from direct-path Update")
}

func TestUpdateEnqueuesWhenResampling(t *testing.T) {
	s := newTestStream(t, true)
	s.Open()
	defer s.Close(true)

	src := scaler.AllocHost(4, 4, frame.YUVI420)
	s.Update(src, 0, 0)

	s.mu.Lock()
	n := len(s.queue)
	s.mu.Unlock()
	if n != 1 {
		t.Fatalf("queue length = %d, want 1", n)
	}
}

func TestClearSingleSourceZeroesCanvas(t *testing.T) {
	s := newTestStream(t, false)
	s.Open()
	defer s.Close(true)

	s.canvasMu.Lock()
	for i := range s.canvas.Data[0] {
		s.canvas.Data[0][i] = 250
	}
	s.canvasMu.Unlock()

	if st := s.Clear(0); st != frame.StatusSuccess {
		t.Fatalf("Clear() = %v", st)
	}
	s.canvasMu.Lock()
	defer s.canvasMu.Unlock()
	for i, v := range s.canvas.Data[0] {
		if v != 0 {
			t.Fatalf("canvas.Data[0][%d] = %d, want 0 after Clear", i, v)
		}
	}
}
