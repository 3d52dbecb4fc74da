//go:build withcv
// +build withcv

/*
NAME
  carrier_gocv.go

DESCRIPTION
  carrier_gocv.go implements gocvCarrier, a Carrier backed by OpenCV's
  swscale-equivalent cvtColor/resize routines, for builds that link OpenCV.
  Not built by default; see carrier_gocv_stub.go.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package scaler

import (
	"image"

	"gocv.io/x/gocv"

	"github.com/cambricon/mluvideo/frame"
)

// gocvCarrier dispatches color conversion and resize to OpenCV, which in
// turn uses swscale/libyuv-equivalent SIMD-optimized routines. It only
// handles host-memory BGR/RGB/BGRA/RGBA/ABGR/ARGB/YUVI420 buffers; NV12/NV21 and
// device buffers fall back to another carrier.
type gocvCarrier struct{}

// NewGoCVCarrier returns a Carrier backed by OpenCV, available only in
// builds tagged "withcv".
func NewGoCVCarrier() Carrier { return gocvCarrier{} }

func (gocvCarrier) Name() string { return "gocv" }

func (gocvCarrier) CanHandle(src, dst frame.Buffer) bool {
	if !src.IsHost() || !dst.IsHost() {
		return false
	}
	ok := func(c frame.ColorFormat) bool {
		return c == frame.YUVI420 || orderFor(c).channels != 0
	}
	return ok(src.Color) && ok(dst.Color)
}

// cvColorCode returns the OpenCV conversion code to go from BGR (this
// carrier's canonical source assumption for non-YUV input) to dst, and
// false if dst is BGR itself (no conversion needed) or unsupported.
func cvColorCode(c frame.ColorFormat) (gocv.ColorConversionCode, bool) {
	switch c {
	case frame.RGB:
		return gocv.ColorBGRToRGB, true
	case frame.BGRA:
		return gocv.ColorBGRToBGRA, true
	case frame.RGBA:
		return gocv.ColorBGRToRGBA, true
	default:
		return 0, false
	}
}

func toMat(b frame.Buffer) (gocv.Mat, error) {
	switch b.Color {
	case frame.YUVI420:
		return gocv.NewMatFromBytes(b.Height*3/2, b.Width, gocv.MatTypeCV8UC1, planarBytes(b))
	default:
		return gocv.NewMatFromBytes(b.Height, b.Width, gocv.MatTypeCV8UC(b.Color.BytesPerPixel()), b.Data[0])
	}
}

// planarBytes concatenates an I420 buffer's three planes into one
// contiguous byte slice, the layout gocv's YUV420 Mat constructor expects.
func planarBytes(b frame.Buffer) []byte {
	out := make([]byte, 0, b.Width*b.Height*3/2)
	out = append(out, b.Data[0]...)
	out = append(out, b.Data[1]...)
	out = append(out, b.Data[2]...)
	return out
}

func (g gocvCarrier) Copy(dst, src frame.Buffer) bool {
	return convertColorSamePlane(dst, src) // identity color path: byte-for-byte equal.
}

func (g gocvCarrier) ConvertColor(dst, src frame.Buffer) bool {
	if src.Color == frame.YUVI420 {
		return convertColorSamePlane(dst, src) // YUV source: defer to the software path.
	}
	code, ok := cvColorCode(dst.Color)
	if !ok {
		return convertColorSamePlane(dst, src)
	}
	srcMat, err := toMat(src)
	if err != nil {
		return false
	}
	defer srcMat.Close()

	dstMat := gocv.NewMat()
	defer dstMat.Close()
	gocv.CvtColor(srcMat, &dstMat, code)

	return copyMatInto(dst, dstMat)
}

func copyMatInto(dst frame.Buffer, m gocv.Mat) bool {
	data, err := m.DataPtrUint8()
	if err != nil {
		return false
	}
	n := len(data)
	if len(dst.Data[0]) < n {
		n = len(dst.Data[0])
	}
	copy(dst.Data[0][:n], data[:n])
	return true
}

func (g gocvCarrier) Resize(dst, src frame.Buffer) bool {
	srcMat, err := toMat(src)
	if err != nil {
		return false
	}
	defer srcMat.Close()

	dstMat := gocv.NewMat()
	defer dstMat.Close()
	gocv.Resize(srcMat, &dstMat, image.Pt(dst.Width, dst.Height), 0, 0, gocv.InterpolationLinear)

	return copyMatInto(dst, dstMat)
}

func (g gocvCarrier) ConvertAndResize(dst, src frame.Buffer) bool {
	if src.Color == dst.Color {
		return g.Resize(dst, src)
	}
	intermediate := AllocHost(src.Width, src.Height, dst.Color)
	if !g.ConvertColor(intermediate, src) {
		return false
	}
	return g.Resize(dst, intermediate)
}
