/*
NAME
  carrier_sw.go

DESCRIPTION
  carrier_sw.go implements swCarrier, the default, cgo-free software
  carrier built on colors.go and resize.go. It handles every (YUV family,
  RGB family) pairing this module supports and is always available,
  mirroring the role of filter.NewMOGFilter's stdlib-only counterpart in
  filters_circleci.go: a backend that needs no external C library.

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

// swCarrier is the planar-YUV-specialist software carrier: pure Go,
// operates on host memory only, and supports bilinear or nearest resize.
type swCarrier struct {
	alg ResizeAlgorithm
}

// NewSoftwareCarrier returns a Carrier that performs color conversion and
// resizing in pure Go on host-memory buffers.
func NewSoftwareCarrier(alg ResizeAlgorithm) Carrier {
	return &swCarrier{alg: alg}
}

func (c *swCarrier) Name() string { return "software" }

func (c *swCarrier) CanHandle(src, dst frame.Buffer) bool {
	if !src.IsHost() || !dst.IsHost() {
		return false
	}
	return (src.Color.IsYUV() || orderFor(src.Color).channels != 0) &&
		(dst.Color.IsYUV() || orderFor(dst.Color).channels != 0)
}

func (c *swCarrier) Copy(dst, src frame.Buffer) bool {
	if src.Color != dst.Color || src.Width != dst.Width || src.Height != dst.Height {
		return false
	}
	for p := 0; p < src.PlaneCount(); p++ {
		rows := src.Height
		if p > 0 && src.Color.IsYUV() {
			rows = (src.Height + 1) / 2
		}
		for y := 0; y < rows; y++ {
			srcRow := src.Data[p][y*src.Stride[p]:]
			dstRow := dst.Data[p][y*dst.Stride[p]:]
			n := src.Stride[p]
			if dst.Stride[p] < n {
				n = dst.Stride[p]
			}
			copy(dstRow[:n], srcRow[:n])
		}
	}
	return true
}

func (c *swCarrier) ConvertColor(dst, src frame.Buffer) bool {
	return convertColorSamePlane(dst, src)
}

func (c *swCarrier) Resize(dst, src frame.Buffer) bool {
	return resizeSamePlane(dst, src, c.alg)
}

// ConvertAndResize follows spec.md §4.A's ordering rule for a YUV<->RGB
// change that also changes dimensions: convert then resize when the
// destination is larger (upsizing) or either side's width/height is odd,
// else resize then convert, to avoid chroma-subsampling artifacts on
// upsizing. ARGB is the canonical intermediate for the convert-then-resize
// path, since Resize only operates on two buffers already sharing a color
// family.
func (c *swCarrier) ConvertAndResize(dst, src frame.Buffer) bool {
	if src.Color == dst.Color {
		return c.Resize(dst, src)
	}
	if src.Width == dst.Width && src.Height == dst.Height {
		return c.ConvertColor(dst, src)
	}

	larger := dst.Width > src.Width || dst.Height > src.Height
	oddDim := src.Width%2 != 0 || src.Height%2 != 0 || dst.Width%2 != 0 || dst.Height%2 != 0
	if larger || oddDim {
		return c.convertThenResize(dst, src)
	}
	return c.resizeThenConvert(dst, src)
}

// convertThenResize pivots src through an ARGB buffer at src's resolution,
// resizes that ARGB intermediate to dst's resolution, then converts into
// dst's color if it isn't ARGB itself.
func (c *swCarrier) convertThenResize(dst, src frame.Buffer) bool {
	argbAtSrc := AllocHost(src.Width, src.Height, frame.ARGB)
	if !c.ConvertColor(argbAtSrc, src) {
		return false
	}
	if dst.Color == frame.ARGB {
		return c.Resize(dst, argbAtSrc)
	}
	argbAtDst := AllocHost(dst.Width, dst.Height, frame.ARGB)
	if !c.Resize(argbAtDst, argbAtSrc) {
		return false
	}
	return c.ConvertColor(dst, argbAtDst)
}

// resizeThenConvert resizes src in its own color family to dst's
// resolution first, then converts that intermediate into dst's color.
func (c *swCarrier) resizeThenConvert(dst, src frame.Buffer) bool {
	resized := AllocHost(dst.Width, dst.Height, src.Color)
	if !c.Resize(resized, src) {
		return false
	}
	return c.ConvertColor(dst, resized)
}
