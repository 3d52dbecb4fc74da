/*
NAME
  kalman_test.go

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package tracker

import (
	"math"
	"testing"

	"github.com/cambricon/mluvideo/frame"
)

func approxEqual(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func TestInitiateSetsMeanFromMeasurement(t *testing.T) {
	kf := Initiate(frame.Rect{X: 10, Y: 20, W: 40, H: 80})
	want := [4]float64{30, 60, 0.5, 80}
	for i, w := range want {
		if got := kf.mean.AtVec(i); !approxEqual(got, w, 1e-9) {
			t.Errorf("mean[%d] = %v, want %v", i, got, w)
		}
	}
}

func TestPredictThenProjectPreservesMeanWithoutUpdate(t *testing.T) {
	kf := Initiate(frame.Rect{X: 10, Y: 20, W: 40, H: 80})
	kf.Predict()
	projMean, _ := kf.Project()

	want := [4]float64{30, 60, 0.5, 80}
	for i, w := range want {
		if got := projMean.AtVec(i); !approxEqual(got, w, 1e-6) {
			t.Errorf("projected mean[%d] = %v, want %v", i, got, w)
		}
	}
}

func TestGatingDistanceZeroAtProjectedMean(t *testing.T) {
	kf := Initiate(frame.Rect{X: 10, Y: 20, W: 40, H: 80})
	kf.Predict()

	dists, err := kf.GatingDistance([]frame.Rect{{X: 10, Y: 20, W: 40, H: 80}})
	if err != nil {
		t.Fatalf("GatingDistance() error = %v", err)
	}
	if !approxEqual(dists[0], 0, 1e-6) {
		t.Errorf("gating distance at own projected mean = %v, want ~0", dists[0])
	}
}

func TestUpdateMovesMeanTowardMeasurement(t *testing.T) {
	kf := Initiate(frame.Rect{X: 10, Y: 20, W: 40, H: 80})
	kf.Predict()
	if err := kf.Update(frame.Rect{X: 12, Y: 22, W: 40, H: 80}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	// measurement x+w/2 = 32, prior mean x = 30: updated x should land
	// strictly between them.
	x := kf.mean.AtVec(0)
	if x <= 30 || x >= 32 {
		t.Errorf("updated mean[0] = %v, want in (30, 32)", x)
	}
}
