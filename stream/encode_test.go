/*
NAME
  encode_test.go

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package stream

import (
	"testing"

	"github.com/cambricon/mluvideo/devsession"
	"github.com/cambricon/mluvideo/frame"
	"github.com/cambricon/mluvideo/scaler"
)

// deviceBuffer returns a buffer backed by ordinary Go byte slices (as every
// buffer in this simulated module is) tagged as residing on deviceID, for
// exercising encodeInto's cross-domain path.
func deviceBuffer(width, height int, color frame.ColorFormat, deviceID int) frame.Buffer {
	b := scaler.AllocHost(width, height, color)
	b.DeviceID = deviceID
	return b
}

func TestEncodeIntoSameDomain(t *testing.T) {
	dst := scaler.AllocHost(4, 4, frame.YUVI420)
	src := scaler.AllocHost(4, 4, frame.YUVI420)
	for i := range src.Data[0] {
		src.Data[0][i] = 42
	}
	if !encodeInto(scaler.New(nil), nil, dst, src) {
		t.Fatal("encodeInto (host->host) failed")
	}
	if dst.Data[0][0] != 42 {
		t.Errorf("dst.Data[0][0] = %d, want 42", dst.Data[0][0])
	}
}

func TestEncodeIntoCrossDomainSameShape(t *testing.T) {
	registry := devsession.NewRegistry()
	dst := scaler.AllocHost(4, 4, frame.YUVI420) // host
	src := deviceBuffer(4, 4, frame.YUVI420, 0)   // device 0
	for i := range src.Data[0] {
		src.Data[0][i] = 99
	}
	if !encodeInto(scaler.New(nil), registry, dst, src) {
		t.Fatal("encodeInto (device->host) failed")
	}
	if dst.Data[0][0] != 99 {
		t.Errorf("dst.Data[0][0] = %d, want 99", dst.Data[0][0])
	}
}

func TestEncodeIntoCrossDomainConverts(t *testing.T) {
	registry := devsession.NewRegistry()
	dst := scaler.AllocHost(2, 2, frame.YUVI420) // smaller, host
	src := deviceBuffer(4, 4, frame.YUVI420, 0)   // device 0, larger
	for i := range src.Data[0] {
		src.Data[0][i] = 7
	}
	for i := range src.Data[1] {
		src.Data[1][i] = 128
	}
	for i := range src.Data[2] {
		src.Data[2][i] = 128
	}
	if !encodeInto(scaler.New(nil), registry, dst, src) {
		t.Fatal("encodeInto (device->host, resize) failed")
	}
	if dst.Data[0][0] != 7 {
		t.Errorf("dst.Data[0][0] = %d, want 7", dst.Data[0][0])
	}
}
