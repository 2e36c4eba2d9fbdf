package trajgen

import (
	"errors"
	"math"
	"testing"
)

func TestClothoidCurvatureEndpoints(t *testing.T) {
	c := Unwinding(NewPose(-340, 95, 1.2), 1.0/13, 15)
	diff(t, 1.0/13, c.CurvatureAt(0))
	diff(t, 0.0, c.CurvatureAt(c.Length()), approx(1e-15))
	diff(t, 1.0/26, c.CurvatureAt(7.5), approx(1e-15))

	// Midpoint curvature integrates a linear curvature exactly, so the heading
	// change is exact up to rounding.
	diff(t, NormalizeAngle(1.2+15.0/26), c.End().H, approx(1e-9))
	diff(t, 15.0/26, c.HeadingChange(), approx(1e-15))
}

func TestClothoidGeneralCurvature(t *testing.T) {
	c := Clothoid{From: NewPose(0, 0, 0), K0: -0.05, K1: 0.15, Len: 10, Step: 0.005}
	diff(t, 0.5*(0.1)*10, c.HeadingChange(), approx(1e-12))
	diff(t, c.HeadingChange(), c.End().H, approx(1e-9))
}

func TestClothoidStepConvergence(t *testing.T) {
	base := Unwinding(NewPose(0, 0, 0), 1.0/13, 15)
	end := func(step float64) Point {
		c := base
		c.Step = step
		return c.End().Point()
	}
	e1 := end(0.1).Distance(end(0.05))
	e2 := end(0.05).Distance(end(0.025))
	if e1 == 0 || e1 > 1e-3 {
		t.Fatalf("unexpected coarse step error %g", e1)
	}
	// Second order: halving the step should cut the change roughly by four.
	if e2 > e1/2 {
		t.Errorf("halving the step did not converge: %g then %g", e1, e2)
	}

	ref := end(1e-4)
	if d := end(DefaultClothoidStep).Distance(ref); d > 1e-5 {
		t.Errorf("default step is %g m from the reference end point", d)
	}
}

func TestClothoidStraightWhenFlat(t *testing.T) {
	c := Clothoid{From: NewPose(2, 3, math.Pi/3), Len: 4}
	assertPose(t, c.End(), NewPose(2, 3, math.Pi/3).Advance(4), 1e-12)
}

func TestClothoidReverse(t *testing.T) {
	c := Unwinding(NewPose(0, 0, 0), 1.0/13, 15)
	r := c.Reverse().(Clothoid)
	diff(t, 0.0, r.K0)
	diff(t, -1.0/13, r.K1)
	assertPose(t, r.Start(), c.End().Reverse(), 1e-12)
	assertPose(t, r.End(), c.Start().Reverse(), 1e-4)
}

func TestClothoidShorterThanStep(t *testing.T) {
	// OpenDRIVE maps carry spirals of a few millimetres.
	c := Clothoid{From: NewPose(1, 2, 0), K0: 0.1, Len: 0.005}
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
	diff(t, 0.00025, c.End().H, approx(1e-12))
	assertNear(t, c.End().Point(), Pt(1.005, 2), 1e-6)
}

func TestClothoidValidate(t *testing.T) {
	good := Unwinding(NewPose(0, 0, 0), 0.1, 15)
	if err := good.Validate(); err != nil {
		t.Fatal(err)
	}
	for name, c := range map[string]Clothoid{
		"negative step": {From: NewPose(0, 0, 0), K0: 0.1, Len: 1, Step: -1},
		"nan curvature": {From: NewPose(0, 0, 0), K0: math.NaN(), Len: 1},
		"zero length":   {From: NewPose(0, 0, 0), K0: 0.1},
	} {
		if err := c.Validate(); !errors.Is(err, ErrValidation) {
			t.Errorf("%s: got %v, want validation error", name, err)
		}
	}
}
