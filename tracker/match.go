/*
NAME
  match.go

DESCRIPTION
  match.go implements the two association cost functions spec.md §4.H
  names: feature cosine distance (gated by Kalman Mahalanobis distance)
  for the cascade match, and IoU distance for the fallback match.
  Grounded on the original module's easytrack/src/match.cpp.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package tracker

import (
	"math"

	"github.com/cambricon/mluvideo/frame"

	"gonum.org/v1/gonum/floats"
)

// gatingThreshold is chi2inv(0.95, df=4), per spec.md §4.H.
const gatingThreshold = 9.4877

// feature pairs a feature vector with its memoized L2 norm; moldUnset (-1)
// means the norm has not yet been computed, matching the "not yet
// computed" sentinel spec.md §4.H describes.
type feature struct {
	vec  []float64
	mold float64
}

const moldUnset = -1

func newFeature(vec []float64) feature {
	return feature{vec: vec, mold: moldUnset}
}

func l2Norm(v []float64) float64 {
	return math.Sqrt(floats.Dot(v, v))
}

// norm returns f's L2 norm, computing and memoizing it on first use.
func (f *feature) norm() float64 {
	if f.mold < 0 {
		f.mold = l2Norm(f.vec)
	}
	return f.mold
}

// cosineDistance returns 1 minus the maximum cosine similarity between det
// and any feature in history, clamped to [0,1] similarity first, per
// spec.md §4.H.
func cosineDistance(history []feature, det *feature) float64 {
	detNorm := det.norm()
	maxSimi := 0.0
	for i := range history {
		trackNorm := history[i].norm()
		var simi float64
		if detNorm == 0 || trackNorm == 0 {
			simi = -1
		} else {
			simi = floats.Dot(history[i].vec, det.vec) / (trackNorm * detNorm)
		}
		if simi > maxSimi {
			maxSimi = simi
		}
	}
	if maxSimi > 1 {
		maxSimi = 1
	}
	return 1 - maxSimi
}

// iou returns the intersection-over-union of two rects, 0 if they don't
// overlap.
func iou(a, b frame.Rect) float64 {
	aX2, aY2 := a.X+a.W, a.Y+a.H
	bX2, bY2 := b.X+b.W, b.Y+b.H

	tlX, tlY := max(a.X, b.X), max(a.Y, b.Y)
	brX, brY := min(aX2, bX2), min(aY2, bY2)

	w, h := float64(brX-tlX), float64(brY-tlY)
	if w <= 0 || h <= 0 {
		return 0
	}
	intersection := w * h

	areaA := float64(a.W) * float64(a.H)
	areaB := float64(b.W) * float64(b.H)
	return intersection / (areaA + areaB - intersection)
}

// iouCostMatrix returns a len(tracks) x len(dets) matrix of 1-IoU costs.
func iouCostMatrix(tracks, dets []frame.Rect) [][]float64 {
	cost := make([][]float64, len(tracks))
	for i, t := range tracks {
		row := make([]float64, len(dets))
		for j, d := range dets {
			row[j] = 1 - iou(t, d)
		}
		cost[i] = row
	}
	return cost
}
