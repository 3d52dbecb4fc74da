/*
NAME
  config.go

DESCRIPTION
  config.go provides Config, the Stream option set enumerated by spec.md
  §4.G, following the teacher's Config/Variables update-table pattern
  (revid/config/config.go) so Stream can be driven the same way revid's
  own Config is: construct defaults, then Update(map[string]string) from
  whatever external control-plane format a caller has.

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
	"github.com/ausocean/utils/logging"

	"github.com/cambricon/mluvideo/frame"
)

// Config Keys, for use with Config.Update.
const (
	KeyWidth      = "Width"
	KeyHeight     = "Height"
	KeyTileCols   = "TileCols"
	KeyTileRows   = "TileRows"
	KeyFrameRate  = "FrameRate"
	KeyTimeBase   = "TimeBase"
	KeyBitRate    = "BitRate"
	KeyGOPSize    = "GOPSize"
	KeyResample   = "Resample"
	KeyMLUEncoder = "MLUEncoder"
	KeyDeviceID   = "DeviceID"
)

// Config holds Stream's construction-time and updatable options, per
// spec.md §4.G's option list.
type Config struct {
	// Width and Height are the output canvas dimensions; both are forced
	// even on Validate, since the pixel formats Stream accepts are YUV.
	Width, Height int

	// TileCols and TileRows describe the tile grid. 0 or 1 for both means
	// single-source mode (no Tiler).
	TileCols, TileRows int

	// FrameRate is clamped to [1, 60] on Validate.
	FrameRate int

	// TimeBase must be >= 1000; forced up to 1000 on Validate.
	TimeBase int64

	BitRate  uint
	GOPSize  int
	Pixel    frame.PixelFormat
	Codec    frame.CodecType
	DeviceID int

	// MLUEncoder selects the device backend (gen1/gen2) over the software
	// backend when true.
	MLUEncoder bool

	// Resample forces the fixed-cadence resample loop; forced true whenever
	// tiling is active regardless of the caller's setting, per spec.md §4.G.
	Resample bool

	Logger logging.Logger
}

// NewConfig returns a Config with every field at its spec-mandated
// default, ready for the caller to override before calling Validate.
func NewConfig(log logging.Logger) *Config {
	return &Config{
		Width:     1280,
		Height:    720,
		FrameRate: 30,
		TimeBase:  90000,
		GOPSize:   30,
		Pixel:     frame.I420,
		Codec:     frame.H264,
		DeviceID:  0,
		Logger:    log,
	}
}

// Tiling reports whether the configured grid requires a Tiler.
func (c *Config) Tiling() bool { return c.TileCols > 1 || c.TileRows > 1 }

// Validate clamps and defaults fields per spec.md §4.G: width/height are
// forced even, frame rate clamped to [1,60], time base floored at 1000,
// codec_type rejected if MPEG4 (not supported per spec.md §4.G), pixel
// format rejected if not YUV, and resample forced true when tiling.
func (c *Config) Validate() error {
	for _, v := range variables {
		if v.validate != nil {
			v.validate(c)
		}
	}
	if c.Codec == frame.MPEG4 {
		return frame.NewError("stream.Config.Validate", frame.StatusParams, errUnsupportedCodec)
	}
	if c.Pixel != frame.I420 && c.Pixel != frame.NV12 && c.Pixel != frame.NV21 {
		return frame.NewError("stream.Config.Validate", frame.StatusParams, nil)
	}
	if c.Tiling() {
		c.Resample = true
	}
	return nil
}

// Update applies string-valued updates by Config key, per the teacher's
// own Config.Update shape (revid/config/config.go).
func (c *Config) Update(vars map[string]string) {
	for _, v := range variables {
		if val, ok := vars[v.name]; ok && v.update != nil {
			v.update(c, val)
		}
	}
}

// LogInvalidField logs a defaulted field the way revid's Config does.
func (c *Config) LogInvalidField(name string, def interface{}) {
	if c.Logger != nil {
		c.Logger.Info(name+" bad or unset, defaulting", name, def)
	}
}
