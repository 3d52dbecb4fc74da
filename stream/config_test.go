/*
NAME
  config_test.go

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package stream

import (
	"testing"

	"github.com/cambricon/mluvideo/frame"
)

func TestValidateClampsFrameRate(t *testing.T) {
	c := NewConfig(nil)
	c.FrameRate = 0
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	if c.FrameRate != 1 {
		t.Errorf("FrameRate = %d, want 1", c.FrameRate)
	}

	c.FrameRate = 1000
	c.Validate()
	if c.FrameRate != 60 {
		t.Errorf("FrameRate = %d, want 60", c.FrameRate)
	}
}

func TestValidateForcesEvenDimensions(t *testing.T) {
	c := NewConfig(nil)
	c.Width, c.Height = 101, 57
	c.Validate()
	if c.Width != 100 || c.Height != 56 {
		t.Errorf("dimensions = %dx%d, want 100x56", c.Width, c.Height)
	}
}

func TestValidateForcesResampleWhenTiling(t *testing.T) {
	c := NewConfig(nil)
	c.TileCols, c.TileRows = 2, 2
	c.Resample = false
	c.Validate()
	if !c.Resample {
		t.Error("Resample should be forced true when tiling")
	}
}

func TestValidateRejectsMPEG4(t *testing.T) {
	c := NewConfig(nil)
	c.Codec = frame.MPEG4
	if err := c.Validate(); err == nil {
		t.Error("Validate() should reject MPEG4")
	}
}

func TestUpdateAppliesStringValues(t *testing.T) {
	c := NewConfig(nil)
	c.Update(map[string]string{
		KeyWidth:     "640",
		KeyHeight:    "480",
		KeyFrameRate: "25",
	})
	if c.Width != 640 || c.Height != 480 || c.FrameRate != 25 {
		t.Errorf("c = %+v, want 640x480@25", c)
	}
}
