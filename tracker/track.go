/*
NAME
  track.go

DESCRIPTION
  track.go defines TrackObject, the per-track state spec.md §4.H names
  (id, class_id, score, Rect, state machine, age bookkeeping, bounded
  feature history), grounded on the original module's
  easytrack/src/track_fm.cpp FeatureMatchTrackObject.

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

import "github.com/cambricon/mluvideo/frame"

// State is a TrackObject's life-cycle state, per spec.md §4.H.
type State int

const (
	Tentative State = iota
	Confirmed
	Deleted
)

func (s State) String() string {
	switch s {
	case Tentative:
		return "tentative"
	case Confirmed:
		return "confirmed"
	case Deleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Detection is one frame's detector output fed to Tracker.UpdateFrame.
type Detection struct {
	ClassID int
	Score   float64
	Rect    frame.Rect
	// Feature is an embedding vector for re-identification; a nil or
	// all-zero Feature means the detection carries no usable feature (the
	// resulting track falls back to IoU-only matching).
	Feature []float64
}

// TrackObject is one tracked object, either fed back to the caller from
// Tracker.UpdateFrame or held internally between frames.
type TrackObject struct {
	ID      int64 // -1 until the track is CONFIRMED
	ClassID int
	Score   float64
	Rect    frame.Rect
	State   State

	Age                 int
	TimeSinceLastUpdate int
	HasFeature          bool

	kalman   *KalmanFilter
	features []feature
}

// newTrack creates a TENTATIVE track from a detection, with its Kalman
// filter initiated from the detection's bounding box. A non-zero Feature
// is kept as the track's first history entry.
func newTrack(d Detection) *TrackObject {
	t := &TrackObject{
		ID:      -1,
		ClassID: d.ClassID,
		Score:   d.Score,
		Rect:    d.Rect,
		State:   Tentative,
		Age:     1,
		kalman:  Initiate(d.Rect),
	}
	if hasNonZero(d.Feature) {
		t.HasFeature = true
		t.features = append(t.features, newFeature(d.Feature))
	}
	return t
}

func hasNonZero(v []float64) bool {
	for _, f := range v {
		if f != 0 {
			return true
		}
	}
	return false
}

// predict runs one Kalman Predict step and re-projects the track's rect
// from the resulting mean state, per spec.md §4.H step 1.
func (t *TrackObject) predict() {
	t.TimeSinceLastUpdate++
	t.kalman.Predict()
	t.Rect = t.kalman.Rect()
}

// markMatched applies a successful association: Kalman Update, feature
// history append (capped at nnBudget, oldest evicted), reset the miss
// counter, increment age, and confirm a long-enough-lived TENTATIVE track
// with a freshly minted id, per spec.md §4.H step 4.
func (t *TrackObject) markMatched(d Detection, nnBudget, nInit int, nextID func() int64) {
	t.kalman.Update(d.Rect)
	t.Rect = d.Rect
	t.Score = d.Score

	if t.HasFeature && hasNonZero(d.Feature) {
		t.features = append(t.features, newFeature(d.Feature))
		if len(t.features) > nnBudget {
			t.features = t.features[1:]
		}
	}

	t.TimeSinceLastUpdate = 0
	t.Age++
	if t.State == Tentative && t.Age > nInit {
		t.State = Confirmed
		t.ID = nextID()
	}
}

// markMissed transitions an unmatched track per spec.md §4.H step 5:
// TENTATIVE always dies; CONFIRMED dies once its miss streak exceeds
// maxAge.
func (t *TrackObject) markMissed(maxAge int) {
	if t.State == Tentative || t.TimeSinceLastUpdate > maxAge {
		t.State = Deleted
	}
}
