/*
NAME
  encode.go

DESCRIPTION
  encode.go implements the resample loop's Encode step: getting canvas
  pixels into the encoder's borrowed input buffer across the four host/
  device combinations spec.md §4.G names (frame on host or device, encoder
  input on host or device). Same-domain pairs go through scaler.Scaler
  exactly as the scaler package already handles; cross-domain pairs
  convert within the source's own domain (if color/size differ) and then
  memcpy the result across the domain boundary via devsession.Session,
  per spec.md §4.G: "Scaler conversions and/or direct memcpy to the
  encoder's input plane."

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package stream

import (
	"github.com/cambricon/mluvideo/devsession"
	"github.com/cambricon/mluvideo/frame"
	"github.com/cambricon/mluvideo/scaler"
)

// encodeInto gets src's pixels into dst, handling all four host/device
// combinations. When dst and src are in the same domain (both host, or
// both the same device), the whole job is one Scaler.Process call exactly
// as within the scaler package itself. Crossing a domain boundary always
// ends in a devsession.Session.Memcpy of the final, already-dst-shaped
// bytes; if a color/size conversion is also needed, it happens first, off
// of a host-tagged view of src's bytes so the standard host carriers can
// do the math (this module represents even "device" buffers as ordinary
// Go byte slices — see the DeviceID doc in frame.Buffer — so this costs
// nothing beyond the tag, and keeps the conversion from depending on a
// device carrier being registered with s).
func encodeInto(s *scaler.Scaler, registry *devsession.Registry, dst, src frame.Buffer) bool {
	sameDomain := dst.IsHost() == src.IsHost() && (dst.IsHost() || dst.DeviceID == src.DeviceID)
	if sameDomain {
		return s.Process(dst, src)
	}

	working := src
	if src.Color != dst.Color || src.Width != dst.Width || src.Height != dst.Height {
		intermediate := scaler.AllocHost(dst.Width, dst.Height, dst.Color)
		hostView := src
		hostView.DeviceID = frame.HostDevice
		if !s.Process(intermediate, hostView) {
			return false
		}
		working = intermediate
	}

	deviceID := dst.DeviceID
	if dst.IsHost() {
		deviceID = src.DeviceID
	}
	sess := registry.Acquire(deviceID)
	defer registry.Release(deviceID)

	for i := 0; i < working.PlaneCount(); i++ {
		if len(working.Data[i]) == 0 || len(dst.Data[i]) == 0 {
			continue
		}
		if _, err := sess.Memcpy(dst.Data[i], working.Data[i]); err != nil {
			return false
		}
	}
	return true
}
