/*
NAME
  container_test.go

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package sink

import (
	"bytes"
	"errors"
	"testing"

	"github.com/cambricon/mluvideo/frame"
)

// nopWriteCloser adapts a bytes.Buffer to io.WriteCloser for tests.
type nopWriteCloser struct{ *bytes.Buffer }

func (nopWriteCloser) Close() error { return nil }

func newBuf() nopWriteCloser { return nopWriteCloser{&bytes.Buffer{}} }

func TestNewRejectsUnsupportedExtension(t *testing.T) {
	_, err := New("out.mov", frame.H264, newBuf(), nil)
	if err == nil {
		t.Fatal("New() error = nil, want non-nil for .mov")
	}
	var fe *frame.Error
	if !errors.As(err, &fe) || fe.Status != frame.StatusParams {
		t.Errorf("New() error = %v, want a frame.Error with StatusParams", err)
	}
}

func TestNewRejectsH265InFLV(t *testing.T) {
	_, err := New("out.flv", frame.H265, newBuf(), nil)
	if err == nil {
		t.Fatal("New() error = nil, want non-nil for h265/.flv")
	}
}

func TestNewRejectsH265InAVI(t *testing.T) {
	_, err := New("out.avi", frame.H265, newBuf(), nil)
	if err == nil {
		t.Fatal("New() error = nil, want non-nil for h265/.avi")
	}
}

func TestNewAcceptsH265InMP4AndMKV(t *testing.T) {
	for _, ext := range []string{"out.mp4", "out.mkv"} {
		if _, err := New(ext, frame.H265, newBuf(), nil); err != nil {
			t.Errorf("New(%q) error = %v, want nil", ext, err)
		}
	}
}

func TestNewSelectsFLVForDotFLV(t *testing.T) {
	c, err := New("out.flv", frame.H264, newBuf(), nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, ok := c.(*flvContainer); !ok {
		t.Errorf("New(%q) = %T, want *flvContainer", "out.flv", c)
	}
}

func TestNewSelectsRawForMP4MKVAVI(t *testing.T) {
	for _, ext := range []string{"out.mp4", "out.mkv", "out.avi"} {
		c, err := New(ext, frame.H264, newBuf(), nil)
		if err != nil {
			t.Fatalf("New(%q) error = %v", ext, err)
		}
		if _, ok := c.(*rawContainer); !ok {
			t.Errorf("New(%q) = %T, want *rawContainer", ext, c)
		}
	}
}
