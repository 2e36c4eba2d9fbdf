package trajgen

import (
	"math"
)

// DefaultClothoidStep is the integration step used when Clothoid.Step is zero.
const DefaultClothoidStep = 0.01

// Clothoid is a transition curve whose curvature varies linearly with arc
// length, from K0 at the start to K1 at the end. With K1 = 0 it unwinds a
// curve into a straight, which is how vehicles leave a roundabout.
//
// A clothoid has no closed form in elementary functions. Positions are found by
// integrating with a fixed step: each step turns by the curvature at its
// midpoint and advances along the mean heading of the step. Heading is exact
// for linear curvature; position error is second order in Step.
type Clothoid struct {
	From Pose
	K0   float64
	K1   float64
	Len  float64
	// Step is the integration step in metres. It should be small relative to
	// Len; the heading error at the end of the curve is bounded by
	// |K1-K0|·Step²/Len per step. A curve shorter than Step is integrated in
	// a single step.
	Step float64
}

var _ Primitive = Clothoid{}
var _ Curved = Clothoid{}
var _ Reverser = Clothoid{}

// Unwinding returns the clothoid that starts on a curve of curvature k and
// straightens out over length.
func Unwinding(from Pose, k, length float64) Clothoid {
	return Clothoid{From: from, K0: k, Len: length}
}

func (c Clothoid) Kind() Kind      { return ClothoidKind }
func (c Clothoid) Start() Pose     { return c.From }
func (c Clothoid) End() Pose       { return c.PoseAt(c.Len) }
func (c Clothoid) Length() float64 { return c.Len }

func (c Clothoid) CurvatureAt(s float64) float64 {
	return c.K0 + (c.K1-c.K0)*s/c.Len
}

// HeadingChange returns the total rotation over the whole curve.
func (c Clothoid) HeadingChange() float64 {
	return 0.5 * (c.K0 + c.K1) * c.Len
}

func (c Clothoid) step() float64 {
	if c.Step > 0 {
		return c.Step
	}
	return DefaultClothoidStep
}

func (c Clothoid) PoseAt(s float64) Pose {
	step := c.step()
	x, y, h := c.From.X, c.From.Y, c.From.H
	var done float64
	for done < s {
		ds := math.Min(step, s-done)
		dh := c.CurvatureAt(done+ds/2) * ds
		sin, cos := math.Sincos(h + dh/2)
		x += ds * cos
		y += ds * sin
		h += dh
		done += ds
	}
	return NewPose(x, y, h)
}

func (c Clothoid) Reverse() Primitive {
	return Clothoid{From: c.End().Reverse(), K0: -c.K1, K1: -c.K0, Len: c.Len, Step: c.Step}
}

func (c Clothoid) Validate() error {
	if err := validatePose(ClothoidKind, "start", c.From); err != nil {
		return err
	}
	if err := validateLength(ClothoidKind, c.Len); err != nil {
		return err
	}
	if !finite(c.K0, c.K1) {
		return invalid(ClothoidKind, "curvature", "start %g end %g not finite", c.K0, c.K1)
	}
	if !finite(c.Step) || c.Step < 0 {
		return invalid(ClothoidKind, "step", "must be a non-negative number, got %g", c.Step)
	}
	return nil
}
