/*
NAME
  tracker.go

DESCRIPTION
  tracker.go implements Tracker, the per-frame DeepSORT-style association
  pipeline spec.md §4.H describes: cascade matching on feature cosine
  distance gated by Kalman Mahalanobis distance, a fallback IoU match on
  the leftovers, and the TrackObject life-cycle transitions. Grounded on
  the original module's easytrack/src/track_fm.cpp FeatureMatchPrivate.

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
	"sync"

	"github.com/cambricon/mluvideo/frame"
)

// defaults mirror the original module's FeatureMatchTrack construction
// values.
const (
	defaultMaxCosineDistance = 0.2
	defaultNNBudget          = 100
	defaultMaxIoUDistance    = 0.7
	defaultMaxAge            = 30
	defaultNInit             = 3
)

// Tracker is a DeepSORT-style multi-object tracker. The zero value is not
// usable; construct with NewTracker. Tracker is safe for concurrent use,
// though spec.md §5 notes it has no internal suspension points of its
// own — UpdateFrame simply holds a mutex for its duration.
type Tracker struct {
	mu sync.Mutex

	maxCosineDistance float64
	nnBudget          int
	maxIoUDistance    float64
	maxAge            int
	nInit             int

	nextID int64
	tracks []*TrackObject
}

// NewTracker returns a Tracker configured with the original module's
// default parameters; call SetParams to override them.
func NewTracker() *Tracker {
	return &Tracker{
		maxCosineDistance: defaultMaxCosineDistance,
		nnBudget:          defaultNNBudget,
		maxIoUDistance:    defaultMaxIoUDistance,
		maxAge:            defaultMaxAge,
		nInit:             defaultNInit,
	}
}

// SetParams configures the matching thresholds and track life-cycle
// bounds, per spec.md §4.H.
func (t *Tracker) SetParams(maxCosineDistance float64, nnBudget int, maxIoUDistance float64, maxAge, nInit int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.maxCosineDistance = maxCosineDistance
	t.nnBudget = nnBudget
	t.maxIoUDistance = maxIoUDistance
	t.maxAge = maxAge
	t.nInit = nInit
}

func (t *Tracker) newID() int64 {
	id := t.nextID
	t.nextID++
	return id
}

type matchPair struct {
	trackIdx int // index into t.tracks
	detIdx   int // index into the detects slice passed to UpdateFrame
}

// UpdateFrame runs one frame of the per-spec.md §4.H algorithm and
// returns a TrackObject per input detection, in the order: cascade
// matches, then IoU matches, then newly spawned tracks for any detection
// that matched nothing.
func (t *Tracker) UpdateFrame(detects []Detection) []TrackObject {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.tracks) == 0 {
		out := make([]TrackObject, 0, len(detects))
		for _, d := range detects {
			tr := newTrack(d)
			t.tracks = append(t.tracks, tr)
			out = append(out, *tr)
		}
		return out
	}

	var confirmedWithFeature, unconfirmedOrFeatureless []int
	for i, tr := range t.tracks {
		tr.predict()
		if tr.State == Confirmed && tr.HasFeature {
			confirmedWithFeature = append(confirmedWithFeature, i)
		} else {
			unconfirmedOrFeatureless = append(unconfirmedOrFeatureless, i)
		}
	}

	featMatches, featUnmatchedTracks, featUnmatchedDets := t.matchCascade(detects, confirmedWithFeature)

	iouTrackIdx := append([]int{}, unconfirmedOrFeatureless...)
	var alreadyMissed []int
	for _, idx := range featUnmatchedTracks {
		if t.tracks[idx].TimeSinceLastUpdate == 1 {
			iouTrackIdx = append(iouTrackIdx, idx)
		} else {
			alreadyMissed = append(alreadyMissed, idx)
		}
	}

	iouMatches, iouUnmatchedTracks, iouUnmatchedDets := t.matchIoU(detects, featUnmatchedDets, iouTrackIdx)

	allMatches := append(featMatches, iouMatches...)

	out := make([]TrackObject, 0, len(detects))
	for _, m := range allMatches {
		tr := t.tracks[m.trackIdx]
		tr.markMatched(detects[m.detIdx], t.nnBudget, t.nInit, t.newID)
		out = append(out, *tr)
	}

	for _, idx := range iouUnmatchedDets {
		tr := newTrack(detects[idx])
		t.tracks = append(t.tracks, tr)
		out = append(out, *tr)
	}

	for _, idx := range alreadyMissed {
		t.tracks[idx].markMissed(t.maxAge)
	}
	for _, idx := range iouUnmatchedTracks {
		t.tracks[idx].markMissed(t.maxAge)
	}

	kept := t.tracks[:0]
	for _, tr := range t.tracks {
		if tr.State != Deleted && tr.TimeSinceLastUpdate <= t.maxAge {
			kept = append(kept, tr)
		}
	}
	t.tracks = kept

	return out
}

// matchCascade implements spec.md §4.H step 2: for each age 0..max_age-1,
// the confirmed tracks last updated exactly age+1 frames ago compete for
// the detections still unmatched at that point, gated by Mahalanobis
// distance and scored by feature cosine distance.
func (t *Tracker) matchCascade(detects []Detection, confirmedIdx []int) (matches []matchPair, unmatchedTracks, unmatchedDets []int) {
	unmatchedDets = make([]int, len(detects))
	for i := range unmatchedDets {
		unmatchedDets[i] = i
	}
	if len(confirmedIdx) == 0 || len(detects) == 0 {
		return nil, nil, unmatchedDets
	}

	ageBuckets := make(map[int][]int)
	for _, idx := range confirmedIdx {
		age := t.tracks[idx].TimeSinceLastUpdate - 1
		ageBuckets[age] = append(ageBuckets[age], idx)
	}

	for age := 0; age < t.maxAge; age++ {
		if len(unmatchedDets) == 0 {
			break
		}
		bucket, ok := ageBuckets[age]
		if !ok {
			continue
		}

		detRects := make([]frame.Rect, len(unmatchedDets))
		for i, di := range unmatchedDets {
			detRects[i] = detects[di].Rect
		}

		cost := make([][]float64, len(bucket))
		for i, trackIdx := range bucket {
			tr := t.tracks[trackIdx]
			gating, err := tr.kalman.GatingDistance(detRects)
			row := make([]float64, len(unmatchedDets))
			for j, di := range unmatchedDets {
				d := newFeature(detects[di].Feature)
				row[j] = cosineDistance(tr.features, &d)
				if err != nil || gating[j] > gatingThreshold || row[j] > t.maxCosineDistance {
					row[j] = t.maxCosineDistance + 1e-5
				}
			}
			cost[i] = row
		}

		assignment, _ := munkres(cost)

		matchedDets := make(map[int]bool)
		for i, trackIdx := range bucket {
			col := assignment[i]
			if col < 0 || cost[i][col] > t.maxCosineDistance {
				unmatchedTracks = append(unmatchedTracks, trackIdx)
			} else {
				matches = append(matches, matchPair{trackIdx: trackIdx, detIdx: unmatchedDets[col]})
				matchedDets[unmatchedDets[col]] = true
			}
		}

		remaining := unmatchedDets[:0]
		for _, di := range unmatchedDets {
			if !matchedDets[di] {
				remaining = append(remaining, di)
			}
		}
		unmatchedDets = remaining
	}

	return matches, unmatchedTracks, unmatchedDets
}

// matchIoU implements spec.md §4.H step 3: a single Hungarian solve over
// 1-IoU cost between the given leftover detections and tracks.
func (t *Tracker) matchIoU(detects []Detection, detIdx, trackIdx []int) (matches []matchPair, unmatchedTracks, unmatchedDets []int) {
	if len(detIdx) == 0 {
		return nil, append([]int(nil), trackIdx...), nil
	}
	if len(trackIdx) == 0 {
		return nil, nil, append([]int(nil), detIdx...)
	}

	trackRects := make([]frame.Rect, len(trackIdx))
	for i, idx := range trackIdx {
		trackRects[i] = t.tracks[idx].Rect
	}
	detRects := make([]frame.Rect, len(detIdx))
	for i, idx := range detIdx {
		detRects[i] = detects[idx].Rect
	}

	cost := iouCostMatrix(trackRects, detRects)
	assignment, _ := munkres(cost)

	matchedDets := make(map[int]bool)
	for i, idx := range trackIdx {
		col := assignment[i]
		if col < 0 || cost[i][col] > t.maxIoUDistance {
			unmatchedTracks = append(unmatchedTracks, idx)
		} else {
			matches = append(matches, matchPair{trackIdx: idx, detIdx: detIdx[col]})
			matchedDets[detIdx[col]] = true
		}
	}
	for _, idx := range detIdx {
		if !matchedDets[idx] {
			unmatchedDets = append(unmatchedDets, idx)
		}
	}
	return matches, unmatchedTracks, unmatchedDets
}
