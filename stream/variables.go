/*
NAME
  variables.go

DESCRIPTION
  variables.go lists, per Config field, a Key name, an update function
  parsing a string into the field, and a validate function clamping or
  defaulting it, mirroring the teacher's own variables.go
  (revid/config/variables.go) structure and doc comment shape.

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
	"errors"
	"strconv"
)

var errUnsupportedCodec = errors.New("stream: MPEG4 is not a supported codec type")

var variables = []struct {
	name     string
	update   func(*Config, string)
	validate func(*Config)
}{
	{
		name: KeyWidth,
		update: func(c *Config, v string) {
			if n, err := strconv.Atoi(v); err == nil {
				c.Width = n
			}
		},
		validate: func(c *Config) {
			if c.Width <= 0 {
				c.LogInvalidField(KeyWidth, 1280)
				c.Width = 1280
			}
			c.Width &^= 1
		},
	},
	{
		name: KeyHeight,
		update: func(c *Config, v string) {
			if n, err := strconv.Atoi(v); err == nil {
				c.Height = n
			}
		},
		validate: func(c *Config) {
			if c.Height <= 0 {
				c.LogInvalidField(KeyHeight, 720)
				c.Height = 720
			}
			c.Height &^= 1
		},
	},
	{
		name: KeyTileCols,
		update: func(c *Config, v string) {
			if n, err := strconv.Atoi(v); err == nil {
				c.TileCols = n
			}
		},
	},
	{
		name: KeyTileRows,
		update: func(c *Config, v string) {
			if n, err := strconv.Atoi(v); err == nil {
				c.TileRows = n
			}
		},
	},
	{
		name: KeyFrameRate,
		update: func(c *Config, v string) {
			if n, err := strconv.Atoi(v); err == nil {
				c.FrameRate = n
			}
		},
		validate: func(c *Config) {
			switch {
			case c.FrameRate < 1:
				c.LogInvalidField(KeyFrameRate, 1)
				c.FrameRate = 1
			case c.FrameRate > 60:
				c.LogInvalidField(KeyFrameRate, 60)
				c.FrameRate = 60
			}
		},
	},
	{
		name: KeyTimeBase,
		update: func(c *Config, v string) {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				c.TimeBase = n
			}
		},
		validate: func(c *Config) {
			if c.TimeBase < 1000 {
				c.LogInvalidField(KeyTimeBase, 1000)
				c.TimeBase = 1000
			}
		},
	},
	{
		name: KeyBitRate,
		update: func(c *Config, v string) {
			if n, err := strconv.ParseUint(v, 10, 64); err == nil {
				c.BitRate = uint(n)
			}
		},
	},
	{
		name: KeyGOPSize,
		update: func(c *Config, v string) {
			if n, err := strconv.Atoi(v); err == nil {
				c.GOPSize = n
			}
		},
	},
	{
		name: KeyResample,
		update: func(c *Config, v string) {
			if b, err := strconv.ParseBool(v); err == nil {
				c.Resample = b
			}
		},
	},
	{
		name: KeyMLUEncoder,
		update: func(c *Config, v string) {
			if b, err := strconv.ParseBool(v); err == nil {
				c.MLUEncoder = b
			}
		},
	},
	{
		name: KeyDeviceID,
		update: func(c *Config, v string) {
			if n, err := strconv.Atoi(v); err == nil {
				c.DeviceID = n
			}
		},
	},
}
