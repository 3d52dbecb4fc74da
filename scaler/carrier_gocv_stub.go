//go:build !withcv
// +build !withcv

/*
NAME
  carrier_gocv_stub.go

DESCRIPTION
  carrier_gocv_stub.go replaces carrier_gocv.go when OpenCV isn't linked,
  matching filter/filters_circleci.go's role for filter/mog.go: CI and
  development builds need a Scaler that compiles without gocv's cgo
  dependency. NewGoCVCarrier here returns the same software carrier used
  by NewSoftwareCarrier, so callers that unconditionally ask for the gocv
  carrier still get correct (if slower) results.

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

// NewGoCVCarrier returns a Carrier without any OpenCV dependency in builds
// that don't set the withcv tag.
func NewGoCVCarrier() Carrier { return NewSoftwareCarrier(Bilinear) }
