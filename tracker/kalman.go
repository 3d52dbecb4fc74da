/*
NAME
  kalman.go

DESCRIPTION
  kalman.go implements the per-track constant-velocity Kalman filter used
  by the tracker: an 8-dim state (x, y, aspect, h, vx, vy, v_aspect, vh)
  with a fixed 8x8 state-transition matrix and a fixed 4x8 measurement
  matrix, per spec.md §4.H's Kalman detail.

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
	"github.com/cambricon/mluvideo/frame"

	"gonum.org/v1/gonum/mat"
)

const (
	stdWeightPosition = 1.0 / 20
	stdWeightVelocity = 1.0 / 160
)

// ndim is the measurement dimension (x, y, aspect, h); the state dimension
// is 2*ndim.
const ndim = 4

// KalmanFilter tracks one object's (x, y, aspect, h) bounding-box state and
// its rate of change, per spec.md §4.H. The zero value is not usable;
// construct via Initiate.
type KalmanFilter struct {
	mean *mat.VecDense // 8
	cov  *mat.Dense    // 8x8

	f *mat.Dense // 8x8 state transition
	h *mat.Dense // 4x8 measurement

	// cached/projectedMean/projectedS cache the last Project result so
	// Update (which Projects internally) never recomputes it twice for the
	// same predicted state.
	cached        bool
	projectedS    *mat.Dense
	projectedMean *mat.VecDense
}

// measurement converts a detection bbox (x, y, w, h) to the filter's
// measurement space (x+w/2, y+h/2, w/h, h), per spec.md §4.H.
func measurement(r frame.Rect) [ndim]float64 {
	w, h := float64(r.W), float64(r.H)
	return [ndim]float64{
		float64(r.X) + w/2,
		float64(r.Y) + h/2,
		w / h,
		h,
	}
}

// newTransition builds the fixed 8x8 constant-velocity state-transition
// matrix: identity, plus each position coordinate's velocity added in over
// one time step.
func newTransition() *mat.Dense {
	f := mat.NewDense(2*ndim, 2*ndim, nil)
	for i := 0; i < 2*ndim; i++ {
		f.Set(i, i, 1)
	}
	for i := 0; i < ndim; i++ {
		f.Set(i, ndim+i, 1)
	}
	return f
}

// newMeasurement builds the fixed 4x8 measurement matrix selecting the
// first four (position) state components.
func newMeasurement() *mat.Dense {
	hm := mat.NewDense(ndim, 2*ndim, nil)
	for i := 0; i < ndim; i++ {
		hm.Set(i, i, 1)
	}
	return hm
}

// Initiate creates a new KalmanFilter from a detection's bounding box. The
// initial mean places the measurement in the first four coordinates and
// zeros the velocity components; the initial covariance is diagonal, built
// from the measurement's height per spec.md §4.H.
func Initiate(r frame.Rect) *KalmanFilter {
	m := measurement(r)
	h := m[3]

	mean := mat.NewVecDense(2*ndim, nil)
	for i, v := range m {
		mean.SetVec(i, v)
	}

	sp := 2 * stdWeightPosition * h
	sv := 10 * stdWeightVelocity * h
	diag := []float64{
		sp * sp, sp * sp, 1e-2 * 1e-2, sp * sp,
		sv * sv, sv * sv, 1e-5 * 1e-5, sv * sv,
	}
	cov := mat.NewDense(2*ndim, 2*ndim, nil)
	for i, v := range diag {
		cov.Set(i, i, v)
	}

	return &KalmanFilter{
		mean: mean,
		cov:  cov,
		f:    newTransition(),
		h:    newMeasurement(),
	}
}

// noiseDiag rebuilds the process (Q) or observation (R) diagonal noise
// covariance from the given height, per spec.md §4.H.
func noiseDiag(h float64, process bool) []float64 {
	sp := stdWeightPosition * h
	if process {
		sv := stdWeightVelocity * h
		return []float64{
			sp * sp, sp * sp, 1e-2 * 1e-2, sp * sp,
			sv * sv, sv * sv, 1e-5 * 1e-5, sv * sv,
		}
	}
	return []float64{sp * sp, sp * sp, 1e-1 * 1e-1, sp * sp}
}

// Predict advances the filter one time step: mean <- mean*F^T,
// cov <- F*cov*F^T + Q(h), where Q is rebuilt from the current height
// component (state index 3), per spec.md §4.H.
func (k *KalmanFilter) Predict() {
	h := k.mean.AtVec(3)

	var newMean mat.VecDense
	newMean.MulVec(k.f, k.mean)
	k.mean = &newMean

	var ft mat.Dense
	ft.CloneFrom(k.f.T())

	var fc mat.Dense
	fc.Mul(k.f, k.cov)

	var fcft mat.Dense
	fcft.Mul(&fc, &ft)

	q := mat.NewDense(2*ndim, 2*ndim, nil)
	for i, v := range noiseDiag(h, true) {
		q.Set(i, i, v)
	}
	fcft.Add(&fcft, q)
	k.cov = &fcft

	k.cached = false
}

// Project maps the current state into measurement space, returning the
// projected mean and innovation covariance S = H*cov*H^T + R(h). Repeated
// calls between Predict/Update calls return the same cached result rather
// than recomputing, per spec.md §4.H.
func (k *KalmanFilter) Project() (mean *mat.VecDense, s *mat.Dense) {
	if k.cached {
		return k.projectedMean, k.projectedS
	}

	var pm mat.VecDense
	pm.MulVec(k.h, k.mean)

	var ht mat.Dense
	ht.CloneFrom(k.h.T())

	var hc mat.Dense
	hc.Mul(k.h, k.cov)

	var hcht mat.Dense
	hcht.Mul(&hc, &ht)

	r := mat.NewDense(ndim, ndim, nil)
	for i, v := range noiseDiag(k.mean.AtVec(3), false) {
		r.Set(i, i, v)
	}
	hcht.Add(&hcht, r)

	k.projectedMean = &pm
	k.projectedS = &hcht
	k.cached = true
	return k.projectedMean, k.projectedS
}

// Update incorporates a measurement (in xyah form): K = cov*H^T*S^-1,
// mean += (z - H*mean)*K^T, cov -= K*H*cov, per spec.md §4.H.
func (k *KalmanFilter) Update(r frame.Rect) error {
	z := measurement(r)
	projMean, s := k.Project()

	var sInv mat.Dense
	if err := sInv.Inverse(s); err != nil {
		return frame.NewError("KalmanFilter.Update", frame.StatusParams, err)
	}

	var ht mat.Dense
	ht.CloneFrom(k.h.T())

	var cht mat.Dense
	cht.Mul(k.cov, &ht)

	var kalmanGain mat.Dense
	kalmanGain.Mul(&cht, &sInv)

	innovation := mat.NewVecDense(ndim, nil)
	for i := 0; i < ndim; i++ {
		innovation.SetVec(i, z[i]-projMean.AtVec(i))
	}

	var delta mat.VecDense
	delta.MulVec(&kalmanGain, innovation)

	var newMean mat.VecDense
	newMean.AddVec(k.mean, &delta)
	k.mean = &newMean

	hc := hcOf(k)
	var khc mat.Dense
	khc.Mul(&kalmanGain, &hc)

	var newCov mat.Dense
	newCov.Sub(k.cov, &khc)
	k.cov = &newCov

	k.cached = false
	return nil
}

// hcOf returns H*cov for the filter's current state, used by Update to
// compute K*H*cov without re-deriving H*cov from Project's cache (which
// holds H*cov*H^T + R, not H*cov alone).
func hcOf(k *KalmanFilter) mat.Dense {
	var hc mat.Dense
	hc.Mul(k.h, k.cov)
	return hc
}

// Rect re-projects the filter's current mean into a frame.Rect (x, y, w, h)
// bounding box.
func (k *KalmanFilter) Rect() frame.Rect {
	x, y, a, h := k.mean.AtVec(0), k.mean.AtVec(1), k.mean.AtVec(2), k.mean.AtVec(3)
	w := a * h
	return frame.Rect{
		X: int(x - w/2),
		Y: int(y - h/2),
		W: int(w),
		H: int(h),
	}
}

// GatingDistance returns the squared Mahalanobis distance d*S^-1*d^T
// between the filter's projected measurement and each of the given
// detections (in xyah form), per spec.md §4.H.
func (k *KalmanFilter) GatingDistance(dets []frame.Rect) ([]float64, error) {
	projMean, s := k.Project()

	var sInv mat.Dense
	if err := sInv.Inverse(s); err != nil {
		return nil, frame.NewError("KalmanFilter.GatingDistance", frame.StatusParams, err)
	}

	out := make([]float64, len(dets))
	for i, r := range dets {
		z := measurement(r)
		d := mat.NewVecDense(ndim, nil)
		for j := 0; j < ndim; j++ {
			d.SetVec(j, z[j]-projMean.AtVec(j))
		}

		var sInvD mat.VecDense
		sInvD.MulVec(&sInv, d)

		out[i] = mat.Dot(d, &sInvD)
	}
	return out, nil
}
