/*
NAME
  colors.go

DESCRIPTION
  colors.go implements pixel-level color-space conversions between the YUV
  family (I420/NV12/NV21) and the RGB family (BGR/RGB/BGRA/RGBA/ABGR/ARGB),
  and among RGB family members, using BT.601 full-range coefficients. This
  is the "planar-YUV-specialist" software carrier's conversion core.

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

import "github.com/cambricon/mluvideo/frame"

func clampByte(v int32) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}

// yuvToRGB converts one YCbCr sample to RGB using BT.601 full-range
// integer coefficients (the same fixed-point formula used by most
// hardware YUV converters).
func yuvToRGB(y, u, v byte) (r, g, b byte) {
	yy := int32(y)
	cb := int32(u) - 128
	cr := int32(v) - 128

	r = clampByte(yy + (91881*cr)>>16)
	g = clampByte(yy - (22554*cb)>>16 - (46802*cr)>>16)
	b = clampByte(yy + (116130*cb)>>16)
	return
}

// rgbToYUV converts one RGB sample to YCbCr using BT.601 full-range
// coefficients.
func rgbToYUV(r, g, b byte) (y, u, v byte) {
	rr, gg, bb := int32(r), int32(g), int32(b)
	y = clampByte((19595*rr + 38470*gg + 7471*bb) >> 16)
	u = clampByte(((-11059*rr - 21709*gg + 32768*bb) >> 16) + 128)
	v = clampByte(((32768*rr - 27439*gg - 5329*bb) >> 16) + 128)
	return
}

// rgbOrder describes the byte order and channel count of an RGB-family
// color format, so generic shuffle code can convert between any pair.
type rgbOrder struct {
	r, g, b, a int // byte index of each channel within one pixel, a=-1 if absent.
	channels    int
}

func orderFor(c frame.ColorFormat) rgbOrder {
	switch c {
	case frame.BGR:
		return rgbOrder{r: 2, g: 1, b: 0, a: -1, channels: 3}
	case frame.RGB:
		return rgbOrder{r: 0, g: 1, b: 2, a: -1, channels: 3}
	case frame.BGRA:
		return rgbOrder{r: 2, g: 1, b: 0, a: 3, channels: 4}
	case frame.RGBA:
		return rgbOrder{r: 0, g: 1, b: 2, a: 3, channels: 4}
	case frame.ABGR:
		return rgbOrder{r: 3, g: 2, b: 1, a: 0, channels: 4}
	case frame.ARGB:
		return rgbOrder{r: 1, g: 2, b: 3, a: 0, channels: 4}
	default:
		return rgbOrder{}
	}
}

// readPixel extracts (r,g,b) from one pixel of an RGB-family plane.
func readPixel(plane []byte, off int, ord rgbOrder) (r, g, b byte) {
	return plane[off+ord.r], plane[off+ord.g], plane[off+ord.b]
}

// writePixel writes (r,g,b) into one pixel of an RGB-family plane, setting
// alpha to opaque if the format carries one.
func writePixel(plane []byte, off int, ord rgbOrder, r, g, b byte) {
	plane[off+ord.r] = r
	plane[off+ord.g] = g
	plane[off+ord.b] = b
	if ord.a >= 0 {
		plane[off+ord.a] = 0xff
	}
}

// convertColorSamePlane converts src into dst in place (same dimensions),
// handling every (YUV family, RGB family) combination this module supports.
// Returns false for an unsupported pairing.
func convertColorSamePlane(dst, src frame.Buffer) bool {
	if src.Width != dst.Width || src.Height != dst.Height {
		return false
	}

	switch {
	case src.Color.IsYUV() && dst.Color.IsYUV():
		return convertYUVToYUV(dst, src)
	case src.Color.IsYUV() && !dst.Color.IsYUV():
		return convertYUVToRGBFamily(dst, src)
	case !src.Color.IsYUV() && dst.Color.IsYUV():
		return convertRGBFamilyToYUV(dst, src)
	default:
		return convertRGBFamilyToRGBFamily(dst, src)
	}
}

func convertRGBFamilyToRGBFamily(dst, src frame.Buffer) bool {
	srcOrd, dstOrd := orderFor(src.Color), orderFor(dst.Color)
	if srcOrd.channels == 0 || dstOrd.channels == 0 {
		return false
	}
	for y := 0; y < src.Height; y++ {
		srcRow := src.Data[0][y*src.Stride[0]:]
		dstRow := dst.Data[0][y*dst.Stride[0]:]
		for x := 0; x < src.Width; x++ {
			r, g, b := readPixel(srcRow, x*srcOrd.channels, srcOrd)
			writePixel(dstRow, x*dstOrd.channels, dstOrd, r, g, b)
		}
	}
	return true
}

func convertYUVToRGBFamily(dst, src frame.Buffer) bool {
	dstOrd := orderFor(dst.Color)
	if dstOrd.channels == 0 {
		return false
	}
	for y := 0; y < src.Height; y++ {
		dstRow := dst.Data[0][y*dst.Stride[0]:]
		for x := 0; x < src.Width; x++ {
			yy, u, v := sampleYUV(src, x, y)
			r, g, b := yuvToRGB(yy, u, v)
			writePixel(dstRow, x*dstOrd.channels, dstOrd, r, g, b)
		}
	}
	return true
}

func convertRGBFamilyToYUV(dst, src frame.Buffer) bool {
	srcOrd := orderFor(src.Color)
	if srcOrd.channels == 0 {
		return false
	}
	for y := 0; y < src.Height; y++ {
		srcRow := src.Data[0][y*src.Stride[0]:]
		for x := 0; x < src.Width; x++ {
			r, g, b := readPixel(srcRow, x*srcOrd.channels, srcOrd)
			yy, u, v := rgbToYUV(r, g, b)
			writeYUV(dst, x, y, yy, u, v)
		}
	}
	return true
}

// sampleYUV reads the Y sample at (x,y) and the chroma samples at the
// correspondingly downsampled (x/2,y/2) position, regardless of whether
// src is I420 (separate U/V planes) or NV12/NV21 (interleaved UV/VU).
func sampleYUV(src frame.Buffer, x, y int) (yy, u, v byte) {
	yy = src.Data[0][y*src.Stride[0]+x]
	cx, cy := x/2, y/2
	switch src.Color {
	case frame.YUVI420:
		u = src.Data[1][cy*src.Stride[1]+cx]
		v = src.Data[2][cy*src.Stride[2]+cx]
	case frame.YUVNV12:
		u = src.Data[1][cy*src.Stride[1]+cx*2]
		v = src.Data[1][cy*src.Stride[1]+cx*2+1]
	case frame.YUVNV21:
		v = src.Data[1][cy*src.Stride[1]+cx*2]
		u = src.Data[1][cy*src.Stride[1]+cx*2+1]
	}
	return
}

// writeYUV writes the Y sample at (x,y) always; the chroma sample is only
// written on even (x,y) so 2x2 blocks share one chroma value, matching
// 4:2:0 subsampling.
func writeYUV(dst frame.Buffer, x, y int, yy, u, v byte) {
	dst.Data[0][y*dst.Stride[0]+x] = yy
	if x%2 != 0 || y%2 != 0 {
		return
	}
	cx, cy := x/2, y/2
	switch dst.Color {
	case frame.YUVI420:
		dst.Data[1][cy*dst.Stride[1]+cx] = u
		dst.Data[2][cy*dst.Stride[2]+cx] = v
	case frame.YUVNV12:
		dst.Data[1][cy*dst.Stride[1]+cx*2] = u
		dst.Data[1][cy*dst.Stride[1]+cx*2+1] = v
	case frame.YUVNV21:
		dst.Data[1][cy*dst.Stride[1]+cx*2] = v
		dst.Data[1][cy*dst.Stride[1]+cx*2+1] = u
	}
}

func convertYUVToYUV(dst, src frame.Buffer) bool {
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			yy, u, v := sampleYUV(src, x, y)
			writeYUV(dst, x, y, yy, u, v)
		}
	}
	return true
}
