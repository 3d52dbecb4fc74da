/*
NAME
  codec.go

DESCRIPTION
  codec.go defines Codec, the external collaborator contract for the
  software backend's underlying codec library. spec.md §1 explicitly
  scopes "specific wire-level codec library calls" out of the core: this
  package owns the request/send/poll contract and format-conversion
  decision around a codec, not the codec's bitstream math itself.

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

// Codec is the software backend's external codec library collaborator.
// Encode is called once per input frame; fr == nil means "drain": keep
// calling until no further packets are produced, used on EOS.
type Codec interface {
	// NativePixelFormat is the pixel format the codec encodes directly;
	// frames in any other format must be converted first.
	NativePixelFormat() frame.PixelFormat

	// Encode consumes fr (or drains buffered state if fr is nil) and
	// returns zero or more completed packets.
	Encode(fr *frame.VideoFrame) ([]frame.VideoPacket, error)
}
