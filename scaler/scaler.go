/*
NAME
  scaler.go

DESCRIPTION
  scaler.go implements Scaler, which selects among registered Carriers to
  perform a color conversion, resize, or both, and GetCropBuffer, the
  canonical way callers obtain a cropped view of a source buffer before
  handing it to Process.

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
	"fmt"

	"github.com/ausocean/utils/logging"

	"github.com/cambricon/mluvideo/frame"
)

// Scaler dispatches color conversion and resize operations to the first
// registered Carrier that can handle a given src/dst pairing.
type Scaler struct {
	carriers []Carrier
	log      logging.Logger
}

// New returns a Scaler that tries carriers in order, falling back to the
// next one when CanHandle returns false. If carriers is empty, a default
// software carrier is used.
func New(log logging.Logger, carriers ...Carrier) *Scaler {
	if len(carriers) == 0 {
		carriers = []Carrier{NewSoftwareCarrier(Bilinear)}
	}
	return &Scaler{carriers: carriers, log: log}
}

func (s *Scaler) carrierFor(src, dst frame.Buffer) Carrier {
	for _, c := range s.carriers {
		if c.CanHandle(src, dst) {
			return c
		}
	}
	return nil
}

// Process converts and/or resizes src into dst, picking the cheapest
// applicable operation:
//   - identical color and size: a plain Copy.
//   - identical size, different color: ConvertColor.
//   - identical color, different size: Resize.
//   - both differ: ConvertAndResize.
//
// Process returns false if no registered carrier can handle the pairing.
func (s *Scaler) Process(dst, src frame.Buffer) bool {
	c := s.carrierFor(src, dst)
	if c == nil {
		if s.log != nil {
			s.log.Error("scaler: no carrier can handle buffer pairing",
				"srcColor", src.Color.String(), "dstColor", dst.Color.String())
		}
		return false
	}

	sameColor := src.Color == dst.Color
	sameSize := src.Width == dst.Width && src.Height == dst.Height

	var ok bool
	switch {
	case sameColor && sameSize:
		ok = c.Copy(dst, src)
	case sameSize:
		ok = c.ConvertColor(dst, src)
	case sameColor:
		ok = c.Resize(dst, src)
	default:
		ok = c.ConvertAndResize(dst, src)
	}
	if !ok && s.log != nil {
		s.log.Warning("scaler: carrier rejected buffer pairing", "carrier", c.Name())
	}
	return ok
}

// GetCropBuffer returns a Buffer that views the rect region of src, per
// frame.Buffer.View's even-alignment and chroma-offset rules for YUV
// formats. An empty rect (W=0 or H=0 after alignment) is an error.
func GetCropBuffer(src frame.Buffer, rect frame.Rect) (frame.Buffer, error) {
	cropped := src.View(rect)
	if cropped.Width == 0 || cropped.Height == 0 {
		return frame.Buffer{}, fmt.Errorf("scaler: crop rect %+v produced empty buffer", rect)
	}
	return cropped, nil
}
