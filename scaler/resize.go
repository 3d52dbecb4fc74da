/*
NAME
  resize.go

DESCRIPTION
  resize.go implements nearest-neighbor and bilinear resize for the
  planar-YUV-specialist software carrier, operating directly on the raw
  byte planes of frame.Buffer.

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

// ResizeAlgorithm selects the interpolation used by the software carrier.
type ResizeAlgorithm int

const (
	Nearest ResizeAlgorithm = iota
	Bilinear
)

// resizeSamePlane resizes src into dst, which must already share a color
// format. Returns false for an unsupported color format.
func resizeSamePlane(dst, src frame.Buffer, alg ResizeAlgorithm) bool {
	if src.Color != dst.Color {
		return false
	}
	if src.Color.IsYUV() {
		return resizeYUV(dst, src, alg)
	}
	return resizeRGBFamily(dst, src, alg)
}

func resizeRGBFamily(dst, src frame.Buffer, alg ResizeAlgorithm) bool {
	ord := orderFor(src.Color)
	if ord.channels == 0 {
		return false
	}
	xRatio := float64(src.Width) / float64(dst.Width)
	yRatio := float64(src.Height) / float64(dst.Height)

	for y := 0; y < dst.Height; y++ {
		dstRow := dst.Data[0][y*dst.Stride[0]:]
		for x := 0; x < dst.Width; x++ {
			sx, sy := float64(x)*xRatio, float64(y)*yRatio
			var r, g, b byte
			if alg == Bilinear {
				r, g, b = bilinearRGB(src, sx, sy, ord)
			} else {
				r, g, b = readPixel(src.Data[0][int(sy)*src.Stride[0]:], int(sx)*ord.channels, ord)
			}
			writePixel(dstRow, x*ord.channels, ord, r, g, b)
		}
	}
	return true
}

func bilinearRGB(src frame.Buffer, sx, sy float64, ord rgbOrder) (r, g, b byte) {
	x0, y0 := int(sx), int(sy)
	x1, y1 := x0+1, y0+1
	if x1 >= src.Width {
		x1 = src.Width - 1
	}
	if y1 >= src.Height {
		y1 = src.Height - 1
	}
	fx, fy := sx-float64(x0), sy-float64(y0)

	r00, g00, b00 := readPixel(src.Data[0][y0*src.Stride[0]:], x0*ord.channels, ord)
	r10, g10, b10 := readPixel(src.Data[0][y0*src.Stride[0]:], x1*ord.channels, ord)
	r01, g01, b01 := readPixel(src.Data[0][y1*src.Stride[0]:], x0*ord.channels, ord)
	r11, g11, b11 := readPixel(src.Data[0][y1*src.Stride[0]:], x1*ord.channels, ord)

	r = lerp2D(r00, r10, r01, r11, fx, fy)
	g = lerp2D(g00, g10, g01, g11, fx, fy)
	b = lerp2D(b00, b10, b01, b11, fx, fy)
	return
}

func lerp2D(v00, v10, v01, v11 byte, fx, fy float64) byte {
	top := float64(v00)*(1-fx) + float64(v10)*fx
	bottom := float64(v01)*(1-fx) + float64(v11)*fx
	return clampByte(int32(top*(1-fy) + bottom*fy))
}

// resizeYUV resizes each plane independently, using alg for Y and, for
// 4:2:0 chroma, nearest-neighbor sampling at the same relative position in
// the (half-resolution) chroma planes. Bilinear is only applied to the Y plane
// to avoid smearing subsampled chroma; this matches common hardware scaler
// behavior of treating luma and chroma resize separately.
func resizeYUV(dst, src frame.Buffer, alg ResizeAlgorithm) bool {
	resizePlaneGray(dst.Data[0], dst.Stride[0], dst.Width, dst.Height,
		src.Data[0], src.Stride[0], src.Width, src.Height, alg)

	switch src.Color {
	case frame.YUVI420:
		resizePlaneGray(dst.Data[1], dst.Stride[1], (dst.Width+1)/2, (dst.Height+1)/2,
			src.Data[1], src.Stride[1], (src.Width+1)/2, (src.Height+1)/2, Nearest)
		resizePlaneGray(dst.Data[2], dst.Stride[2], (dst.Width+1)/2, (dst.Height+1)/2,
			src.Data[2], src.Stride[2], (src.Width+1)/2, (src.Height+1)/2, Nearest)
	case frame.YUVNV12, frame.YUVNV21:
		resizePlaneInterleaved(dst.Data[1], dst.Stride[1], (dst.Width+1)/2, (dst.Height+1)/2,
			src.Data[1], src.Stride[1], (src.Width+1)/2, (src.Height+1)/2)
	default:
		return false
	}
	return true
}

func resizePlaneGray(dstPlane []byte, dstStride, dstW, dstH int, srcPlane []byte, srcStride, srcW, srcH int, alg ResizeAlgorithm) {
	if srcW == 0 || srcH == 0 || dstW == 0 || dstH == 0 {
		return
	}
	xRatio := float64(srcW) / float64(dstW)
	yRatio := float64(srcH) / float64(dstH)
	for y := 0; y < dstH; y++ {
		sy := float64(y) * yRatio
		for x := 0; x < dstW; x++ {
			sx := float64(x) * xRatio
			var v byte
			if alg == Bilinear {
				v = bilinearGray(srcPlane, srcStride, srcW, srcH, sx, sy)
			} else {
				v = srcPlane[int(sy)*srcStride+int(sx)]
			}
			dstPlane[y*dstStride+x] = v
		}
	}
}

func bilinearGray(plane []byte, stride, w, h int, sx, sy float64) byte {
	x0, y0 := int(sx), int(sy)
	x1, y1 := x0+1, y0+1
	if x1 >= w {
		x1 = w - 1
	}
	if y1 >= h {
		y1 = h - 1
	}
	fx, fy := sx-float64(x0), sy-float64(y0)
	v00 := plane[y0*stride+x0]
	v10 := plane[y0*stride+x1]
	v01 := plane[y1*stride+x0]
	v11 := plane[y1*stride+x1]
	return lerp2D(v00, v10, v01, v11, fx, fy)
}

func resizePlaneInterleaved(dstPlane []byte, dstStride, dstW, dstH int, srcPlane []byte, srcStride, srcW, srcH int) {
	if srcW == 0 || srcH == 0 || dstW == 0 || dstH == 0 {
		return
	}
	xRatio := float64(srcW) / float64(dstW)
	yRatio := float64(srcH) / float64(dstH)
	for y := 0; y < dstH; y++ {
		sy := int(float64(y) * yRatio)
		for x := 0; x < dstW; x++ {
			sx := int(float64(x) * xRatio)
			dstPlane[y*dstStride+x*2] = srcPlane[sy*srcStride+sx*2]
			dstPlane[y*dstStride+x*2+1] = srcPlane[sy*srcStride+sx*2+1]
		}
	}
}
