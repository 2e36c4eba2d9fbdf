package trajgen

import "math"

// Arc is a constant-curvature segment. K is signed: positive curvature turns
// left (anti-clockwise). The radius is 1/|K|.
//
// For |K| below a small epsilon the arc is evaluated as a straight line, which
// avoids dividing by a near-zero curvature.
type Arc struct {
	From Pose
	Len  float64
	K    float64
}

var _ Primitive = Arc{}
var _ Curved = Arc{}
var _ Reverser = Arc{}

func (a Arc) Kind() Kind      { return ArcKind }
func (a Arc) Start() Pose     { return a.From }
func (a Arc) End() Pose       { return a.PoseAt(a.Len) }
func (a Arc) Length() float64 { return a.Len }

func (a Arc) PoseAt(s float64) Pose {
	if math.Abs(a.K) < curvatureEpsilon {
		return a.From.Advance(s)
	}
	h0 := a.From.H
	h := h0 + a.K*s
	sh0, ch0 := math.Sincos(h0)
	sh, ch := math.Sincos(h)
	return NewPose(
		a.From.X+(sh-sh0)/a.K,
		a.From.Y+(ch0-ch)/a.K,
		h,
	)
}

func (a Arc) CurvatureAt(s float64) float64 { return a.K }

// Center returns the centre of the circle the arc lies on. It is only
// meaningful for non-zero curvature.
func (a Arc) Center() Point {
	return a.From.Point().Translate(a.From.Direction().Turn90().Mul(1 / a.K))
}

// Sweep returns the signed angle subtended by the arc.
func (a Arc) Sweep() float64 { return a.K * a.Len }

func (a Arc) Reverse() Primitive {
	return Arc{From: a.End().Reverse(), Len: a.Len, K: -a.K}
}

func (a Arc) Validate() error {
	if err := validatePose(ArcKind, "start", a.From); err != nil {
		return err
	}
	if err := validateLength(ArcKind, a.Len); err != nil {
		return err
	}
	if !finite(a.K) {
		return invalid(ArcKind, "curvature", "%g is not finite", a.K)
	}
	return nil
}
