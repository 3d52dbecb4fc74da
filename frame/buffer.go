/*
NAME
  buffer.go

DESCRIPTION
  buffer.go provides Buffer, a planar image descriptor used by the scaler,
  tiler and encoder packages. Buffers do not own memory; they are views.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package frame

// maxPlanes is the maximum number of planes a Buffer may describe (Y, U, V
// or equivalent semi-planar layouts).
const maxPlanes = 3

// HostDevice is the sentinel DeviceID indicating a Buffer resides in host
// (CPU) memory rather than on an accelerator device.
const HostDevice = -1

// Buffer is a planar image descriptor. Strides are byte strides; a zero
// stride on construction is filled in from Width*BytesPerPixel by NewBuffer.
// Buffer does not own the memory referenced by Data; callers are responsible
// for the lifetime of the backing storage.
type Buffer struct {
	Width, Height int
	Color         ColorFormat
	Data          [maxPlanes][]byte
	Stride        [maxPlanes]int

	// DeviceID is the accelerator device this buffer's Data resides on, or
	// HostDevice if the buffer is in host memory.
	DeviceID int
}

// NewBuffer returns a Buffer for the given planes, filling any zero stride
// from width*bytes-per-pixel for single-plane formats, or from the natural
// YUV plane layout for planar/semi-planar color formats.
func NewBuffer(width, height int, color ColorFormat, device int, data [maxPlanes][]byte, stride [maxPlanes]int) Buffer {
	b := Buffer{Width: width, Height: height, Color: color, DeviceID: device, Data: data, Stride: stride}
	b.fillStrides()
	return b
}

// IsHost reports whether the buffer resides in host memory.
func (b Buffer) IsHost() bool { return b.DeviceID < 0 }

// PlaneCount returns the number of planes used by b's color format.
func (b Buffer) PlaneCount() int {
	switch b.Color {
	case YUVI420:
		return 3
	case YUVNV12, YUVNV21:
		return 2
	default:
		return 1
	}
}

func (b *Buffer) fillStrides() {
	switch b.Color {
	case YUVI420:
		if b.Stride[0] == 0 {
			b.Stride[0] = b.Width
			b.Stride[1] = b.Width / 2
			b.Stride[2] = b.Width / 2
		}
	case YUVNV12, YUVNV21:
		if b.Stride[0] == 0 {
			b.Stride[0] = b.Width
			b.Stride[1] = b.Width
		}
	default:
		if b.Stride[0] == 0 {
			b.Stride[0] = b.Width * b.Color.BytesPerPixel()
		}
	}
}

// View returns a Buffer that is a crop of b restricted to rect, sharing b's
// backing arrays (advanced by the crop origin). For YUV color formats, the
// chroma plane offsets are computed at half vertical/horizontal resolution
// and the resulting width/height are forced even, per the scaler's
// GetCropBuffer contract.
func (b Buffer) View(rect Rect) Buffer {
	r := rect
	if b.Color.IsYUV() {
		r = r.EvenAligned()
	}
	if r.W == 0 {
		r.W = b.Width - r.X
	}
	if r.H == 0 {
		r.H = b.Height - r.Y
	}
	if b.Color.IsYUV() {
		r.W &^= 1
		r.H &^= 1
	}

	out := Buffer{Width: r.W, Height: r.H, Color: b.Color, DeviceID: b.DeviceID, Stride: b.Stride}
	bpp := b.Color.BytesPerPixel()

	switch b.Color {
	case YUVI420:
		out.Data[0] = offset(b.Data[0], b.Stride[0], r.Y, r.X, 1)
		out.Data[1] = offset(b.Data[1], b.Stride[1], r.Y/2, r.X/2, 1)
		out.Data[2] = offset(b.Data[2], b.Stride[2], r.Y/2, r.X/2, 1)
	case YUVNV12, YUVNV21:
		out.Data[0] = offset(b.Data[0], b.Stride[0], r.Y, r.X, 1)
		out.Data[1] = offset(b.Data[1], b.Stride[1], r.Y/2, r.X, 1)
	default:
		out.Data[0] = offset(b.Data[0], b.Stride[0], r.Y, r.X, bpp)
	}
	return out
}

// offset advances plane by y*stride + x*unitSize bytes, returning the
// remaining sub-slice. If plane is too short to hold the offset, the empty
// remainder is returned rather than panicking, since callers treat an empty
// plane as "no data" and fail at the scaler level.
func offset(plane []byte, stride, y, x, unitSize int) []byte {
	off := y*stride + x*unitSize
	if off < 0 || off >= len(plane) {
		return nil
	}
	return plane[off:]
}
