/*
NAME
  alloc.go

DESCRIPTION
  alloc.go provides AllocHost, a helper that allocates backing storage for a
  host-memory frame.Buffer of a given size and color format. Carriers use it
  for the scratch buffer between a color conversion and a resize step; the
  tiler and stream packages use it for canvases, arenas and black frames, so
  every host-memory Buffer in this module is sized the same way.

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

// AllocHost returns a host-memory Buffer of the given size and color format
// with freshly allocated, zeroed planes.
func AllocHost(width, height int, color frame.ColorFormat) frame.Buffer {
	var data [3][]byte
	switch color {
	case frame.YUVI420:
		data[0] = make([]byte, width*height)
		data[1] = make([]byte, ((width+1)/2)*((height+1)/2))
		data[2] = make([]byte, ((width+1)/2)*((height+1)/2))
	case frame.YUVNV12, frame.YUVNV21:
		data[0] = make([]byte, width*height)
		data[1] = make([]byte, width*((height+1)/2))
	default:
		data[0] = make([]byte, width*height*color.BytesPerPixel())
	}
	return frame.NewBuffer(width, height, color, frame.HostDevice, data, [3]int{})
}
