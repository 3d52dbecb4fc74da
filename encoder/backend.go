/*
NAME
  backend.go

DESCRIPTION
  backend.go defines Backend, the tagged-variant operation vtable Design
  Notes §9 describes replacing an inheritance tree with: the three
  concrete backends (software, mlu200, mlu300) all implement this
  interface, composed into a Base rather than subclassing it.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package encoder

import "github.com/cambricon/mluvideo/frame"

// Backend is the codec-session-owning, input-pool-owning counterpart to
// Base. Base owns lifecycle state and the output ring; Backend owns
// whatever produces the bytes that end up in that ring via Base.push.
type Backend interface {
	// Open prepares the backend's codec session and input-buffer pool.
	// base is provided so the backend can call base.push from its own
	// worker/dispatcher goroutines.
	Open(base *Base) error

	// Close tears down the codec session. drain is true when Base is
	// stopping normally. Base submits no trailing EOS of its own before
	// calling Close; a backend that needs one submits it itself.
	Close(drain bool) error

	// RequestFrameBuffer borrows one input slot from the backend's pool,
	// filling fr's planes. timeoutMs < 0 waits forever, 0 polls.
	RequestFrameBuffer(fr *frame.VideoFrame, timeoutMs int) (bool, error)

	// SendFrame returns the borrowed slot (or submits a host-side frame)
	// for encoding, tagging it with the given submission index.
	SendFrame(fr *frame.VideoFrame, index int64, timeoutMs int) error
}
