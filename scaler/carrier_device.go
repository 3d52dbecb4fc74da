/*
NAME
  carrier_device.go

DESCRIPTION
  carrier_device.go implements deviceCarrier, the carrier for buffers that
  reside on an accelerator device (frame.Buffer.DeviceID >= 0). It only
  supports NV12/NV21 (the device's native semi-planar formats), resizes
  with bilinear interpolation, and gates concurrent use to at most two
  resize contexts per device via devsession.SlotSet, per spec.md §4.A.

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
	"sync"

	"github.com/cambricon/mluvideo/devsession"
	"github.com/cambricon/mluvideo/frame"
)

// deviceResizeContexts is the per-device concurrency ceiling for resize
// operations, per spec.md §4.A.
const deviceResizeContexts = 2

// deviceCarrier dispatches color conversion and resize for device-resident
// buffers to the owning devsession.Session, claiming one of that device's
// bounded resize contexts for the duration of each call.
type deviceCarrier struct {
	registry *devsession.Registry

	mu    sync.Mutex
	slots map[int]*devsession.SlotSet
}

// NewDeviceCarrier returns a Carrier for buffers resident on an
// accelerator device, using registry to resolve per-device sessions.
func NewDeviceCarrier(registry *devsession.Registry) Carrier {
	return &deviceCarrier{registry: registry, slots: make(map[int]*devsession.SlotSet)}
}

func (c *deviceCarrier) slotsFor(deviceID int) *devsession.SlotSet {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.slots[deviceID]
	if !ok {
		s = devsession.NewSlotSet(deviceResizeContexts)
		c.slots[deviceID] = s
	}
	return s
}

func isDeviceNative(c frame.ColorFormat) bool {
	return c == frame.YUVNV12 || c == frame.YUVNV21
}

func (c *deviceCarrier) Name() string { return "device" }

func (c *deviceCarrier) CanHandle(src, dst frame.Buffer) bool {
	if src.IsHost() || dst.DeviceID != src.DeviceID {
		return false
	}
	return isDeviceNative(src.Color) && isDeviceNative(dst.Color)
}

func (c *deviceCarrier) withSlot(deviceID int, fn func() bool) bool {
	slots := c.slotsFor(deviceID)
	idx := slots.Claim()
	defer slots.Release(idx)

	session := c.registry.Acquire(deviceID)
	defer c.registry.Release(deviceID)
	if err := session.SetDevice(); err != nil {
		return false
	}
	return fn()
}

func (c *deviceCarrier) Copy(dst, src frame.Buffer) bool {
	if src.Color != dst.Color {
		return false
	}
	return c.withSlot(src.DeviceID, func() bool {
		session := c.registry.Acquire(src.DeviceID)
		defer c.registry.Release(src.DeviceID)
		for p := 0; p < src.PlaneCount(); p++ {
			if _, err := session.Memcpy(dst.Data[p], src.Data[p]); err != nil {
				return false
			}
		}
		return session.Sync() == nil
	})
}

// ConvertColor between NV12 and NV21 is a UV-swap; it never touches
// off-device data in any way software couldn't also do, so it's handled
// in-place with the same logic as sampleYUV/writeYUV rather than a real
// device kernel dispatch.
func (c *deviceCarrier) ConvertColor(dst, src frame.Buffer) bool {
	if !isDeviceNative(src.Color) || !isDeviceNative(dst.Color) {
		return false
	}
	return c.withSlot(src.DeviceID, func() bool {
		return convertColorSamePlane(dst, src)
	})
}

// Resize only supports cropping the source before a bilinear resize; the
// device backend has no independent cropping stage, so callers needing a
// destination crop must use frame.Buffer.View on dst themselves.
func (c *deviceCarrier) Resize(dst, src frame.Buffer) bool {
	if src.Color != dst.Color || !isDeviceNative(src.Color) {
		return false
	}
	return c.withSlot(src.DeviceID, func() bool {
		return resizeSamePlane(dst, src, Bilinear)
	})
}

func (c *deviceCarrier) ConvertAndResize(dst, src frame.Buffer) bool {
	if src.Color == dst.Color {
		return c.Resize(dst, src)
	}
	return c.withSlot(src.DeviceID, func() bool {
		intermediate := AllocHost(src.Width, src.Height, dst.Color)
		intermediate.DeviceID = src.DeviceID
		if !convertColorSamePlane(intermediate, src) {
			return false
		}
		return resizeSamePlane(dst, intermediate, Bilinear)
	})
}
