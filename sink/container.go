/*
NAME
  container.go

DESCRIPTION
  container.go implements Container, the sink-side contract spec.md §6
  describes: a per-extension mux target that accepts already-encoded
  frame.VideoPacket values, caches NAL parameter sets as extradata, and
  enforces the H.265/container restriction.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package sink implements the thin mux/output component spec.md §6
// describes: container selection by file extension, NAL parameter-set
// and key-frame detection, and perf-counter-friendly packet accounting.
package sink

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ausocean/utils/logging"

	"github.com/cambricon/mluvideo/frame"
)

// Format identifies a container's on-disk structure.
type Format int

const (
	FormatMP4 Format = iota
	FormatMatroska
	FormatFLV
	FormatAVI
)

func (f Format) String() string {
	switch f {
	case FormatMP4:
		return "mp4"
	case FormatMatroska:
		return "matroska"
	case FormatFLV:
		return "flv"
	case FormatAVI:
		return "avi"
	default:
		return "unknown container format"
	}
}

// formatByExt maps the file extensions spec.md §6 names to their
// internal Format, "mkv" mapping to the matroska format name.
var formatByExt = map[string]Format{
	".mp4": FormatMP4,
	".mkv": FormatMatroska,
	".flv": FormatFLV,
	".avi": FormatAVI,
}

// Container is a mux target: packets are written in submission order and
// the container owns framing, extradata placement and key-frame/codec
// bookkeeping. Close flushes and releases the underlying destination.
type Container interface {
	WritePacket(pkt frame.VideoPacket) (int, error)
	Close() error
}

// New returns a Container for path, chosen by path's file extension, per
// spec.md §6. H.265 is only permitted in mp4/mkv containers; any other
// extension paired with H.265 is a parameter error, as is an
// unrecognised extension.
func New(path string, codec frame.CodecType, dst io.WriteCloser, log logging.Logger) (Container, error) {
	if log == nil {
		log = &nopLogger{}
	}

	ext := strings.ToLower(filepath.Ext(path))
	format, ok := formatByExt[ext]
	if !ok {
		return nil, frame.NewError("sink.New", frame.StatusParams, fmt.Errorf("unsupported container extension %q", ext))
	}

	if codec == frame.H265 && format != FormatMP4 && format != FormatMatroska {
		return nil, frame.NewError("sink.New", frame.StatusParams, fmt.Errorf("h265 not supported in %s containers", format))
	}

	if format == FormatFLV {
		return newFLVContainer(dst, codec, log), nil
	}
	return newRawContainer(dst, codec, format, log), nil
}

// nopLogger is the default Logger for Containers constructed without one,
// matching the shape of Logger no-op helpers used elsewhere in the pack.
type nopLogger struct{}

func (*nopLogger) SetLevel(int8)                {}
func (*nopLogger) Debug(string, ...interface{})   {}
func (*nopLogger) Info(string, ...interface{})    {}
func (*nopLogger) Warning(string, ...interface{}) {}
func (*nopLogger) Error(string, ...interface{})   {}
func (*nopLogger) Fatal(string, ...interface{})   {}
