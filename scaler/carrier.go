/*
NAME
  carrier.go

DESCRIPTION
  carrier.go defines Carrier, the capability trait every concrete
  color-conversion/resize backend implements, per Design Notes §9:
  "OpenCV / libyuv / swscale as interchangeable carriers -> a capability
  enum with one trait per backend; the Scaler picks a carrier at runtime."

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package scaler provides color-space conversion, resizing and cropping for
// buffers in host or device memory, dispatching to one of several carriers.
package scaler

import "github.com/cambricon/mluvideo/frame"

// Carrier is the capability trait a concrete color/resize backend
// implements. Not every carrier supports every operation; callers use
// CanHandle to check before dispatching.
type Carrier interface {
	// Name identifies the carrier for logging.
	Name() string

	// CanHandle reports whether this carrier can process the given
	// src->dst conversion at all (format/device support), independent of
	// whether it would need Copy, ConvertColor, Resize or ConvertAndResize.
	CanHandle(src, dst frame.Buffer) bool

	// Copy performs a same-size, same-color plane-wise copy.
	Copy(dst, src frame.Buffer) bool

	// ConvertColor performs a same-size color conversion.
	ConvertColor(dst, src frame.Buffer) bool

	// Resize performs a same-color resize.
	Resize(dst, src frame.Buffer) bool

	// ConvertAndResize performs a combined color conversion and resize in
	// one step (the carrier decides its own internal ordering).
	ConvertAndResize(dst, src frame.Buffer) bool
}
