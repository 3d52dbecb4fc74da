/*
NAME
  frame.go

DESCRIPTION
  frame.go defines the wire-level data model shared by the scaler, encoder,
  tiler, stream and sink packages: color/pixel/codec enumerations, the
  planar Buffer/Rect view types, and the VideoFrame/VideoPacket types with
  their packed flag words.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package frame provides the core data model for the mluvideo toolkit:
// color formats, planar buffer views, video frames and encoded packets.
package frame

// ColorFormat enumerates the pixel layouts the scaler and encoder backends
// understand. Order matters: codec paths branch on "<= YUVNV21", "<= RGB",
// else, so do not reorder these without checking every such comparison.
type ColorFormat int

const (
	YUVI420 ColorFormat = iota
	YUVNV12
	YUVNV21
	BGR
	RGB
	BGRA
	RGBA
	ABGR
	ARGB
)

// IsYUV reports whether c is one of the planar/semi-planar YUV formats.
func (c ColorFormat) IsYUV() bool { return c <= YUVNV21 }

// IsRGBTriple reports whether c is a 3-byte-per-pixel RGB family format
// (i.e. not a 4-byte format such as BGRA/RGBA/ABGR/ARGB).
func (c ColorFormat) IsRGBTriple() bool { return c == BGR || c == RGB }

func (c ColorFormat) String() string {
	switch c {
	case YUVI420:
		return "YUV_I420"
	case YUVNV12:
		return "YUV_NV12"
	case YUVNV21:
		return "YUV_NV21"
	case BGR:
		return "BGR"
	case RGB:
		return "RGB"
	case BGRA:
		return "BGRA"
	case RGBA:
		return "RGBA"
	case ABGR:
		return "ABGR"
	case ARGB:
		return "ARGB"
	default:
		return "unknown color format"
	}
}

// BytesPerPixel returns the number of bytes needed per pixel for formats
// whose strides are naturally computed that way. YUV formats are planar;
// calling this on a YUV format returns 1, the luma plane's bytes-per-pixel.
func (c ColorFormat) BytesPerPixel() int {
	switch c {
	case YUVI420, YUVNV12, YUVNV21:
		return 1
	case BGR, RGB:
		return 3
	case BGRA, RGBA, ABGR, ARGB:
		return 4
	default:
		return 0
	}
}

// PixelFormat is the encoder-visible subset of ColorFormat.
type PixelFormat int

const (
	I420 PixelFormat = iota
	NV12
	NV21
)

func (p PixelFormat) String() string {
	switch p {
	case I420:
		return "I420"
	case NV12:
		return "NV12"
	case NV21:
		return "NV21"
	default:
		return "unknown pixel format"
	}
}

// CodecType enumerates the codecs the encoder engine can target.
type CodecType int

const (
	AUTO CodecType = iota
	H264
	H265
	MPEG4
	JPEG
)

func (c CodecType) String() string {
	switch c {
	case AUTO:
		return "auto"
	case H264:
		return "h264"
	case H265:
		return "h265"
	case MPEG4:
		return "mpeg4"
	case JPEG:
		return "jpeg"
	default:
		return "unknown codec"
	}
}

// InvalidTimestamp is the reserved sentinel for an unset pts/dts, matching
// the original 0x8000000000000000 sentinel (the minimum int64 value).
const InvalidTimestamp int64 = -1 << 63

// Rect describes an integer rectangle. W=0 or H=0 means "to edge" in the
// context the Rect is used (resolved by the caller, e.g. scaler.GetCropBuffer).
type Rect struct {
	X, Y, W, H int
}

// EvenAligned returns r with X, Y, W, H each rounded down to the nearest
// even number, as required whenever the associated ColorFormat is YUV
// (color <= YUVNV21).
func (r Rect) EvenAligned() Rect {
	return Rect{
		X: r.X &^ 1,
		Y: r.Y &^ 1,
		W: r.W &^ 1,
		H: r.H &^ 1,
	}
}

// Empty reports whether r has zero width or height.
func (r Rect) Empty() bool { return r.W == 0 || r.H == 0 }
