/*
NAME
  black.go

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package tiler

import "github.com/cambricon/mluvideo/frame"

// BlackFrame returns a black width x height Buffer in color, suitable for
// blitting into a position via Blit to implement Stream.Clear (spec.md
// §4.G). For YUV formats the luma plane is zero and every chroma sample is
// 128 (neutral); an RGB-family buffer is zero in every channel.
func BlackFrame(width, height int, color frame.ColorFormat) frame.Buffer {
	var data [3][]byte
	switch color {
	case frame.YUVI420:
		data[0] = make([]byte, width*height)
		data[1] = make([]byte, ((width+1)/2)*((height+1)/2))
		data[2] = make([]byte, ((width+1)/2)*((height+1)/2))
		for i := range data[1] {
			data[1][i] = 128
		}
		for i := range data[2] {
			data[2][i] = 128
		}
	case frame.YUVNV12, frame.YUVNV21:
		data[0] = make([]byte, width*height)
		data[1] = make([]byte, width*((height+1)/2))
		for i := range data[1] {
			data[1][i] = 128
		}
	default:
		data[0] = make([]byte, width*height*color.BytesPerPixel())
	}
	return frame.NewBuffer(width, height, color, frame.HostDevice, data, [3]int{})
}
