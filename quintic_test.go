package trajgen

import (
	"errors"
	"math"
	"testing"
)

func TestQuinticPolynomialBoundary(t *testing.T) {
	tests := []struct {
		name                   string
		xs, vs, as, xe, ve, ae float64
		T                      float64
	}{
		{"snap onto exit line", -341.2, -5.9, 0.3, -366, -6.4, 0, 4.8},
		{"entry blend", -372, 5.4, 0, -352.6, 2.1, -0.4, 3.5},
		{"rest to rest", 0, 0, 0, 10, 0, 0, 2},
		{"short", 1, 1, 1, 1.5, 1, 1, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := NewQuinticPolynomial(tt.xs, tt.vs, tt.as, tt.xe, tt.ve, tt.ae, tt.T)
			if err != nil {
				t.Fatal(err)
			}
			// The start conditions fix the low coefficients directly.
			diff(t, tt.xs, q.Eval(0))
			diff(t, tt.vs, q.Deriv(0))
			diff(t, tt.as, q.Deriv2(0))

			tol := approx(1e-9 * max(1, math.Abs(tt.xe)))
			diff(t, tt.xe, q.Eval(tt.T), tol)
			diff(t, tt.ve, q.Deriv(tt.T), tol)
			diff(t, tt.ae, q.Deriv2(tt.T), tol)
		})
	}
}

func TestQuinticSingular(t *testing.T) {
	for _, T := range []float64{0, -1, 1e-5} {
		_, err := NewQuinticPolynomial(0, 1, 0, 1, 1, 0, T)
		var se *SingularSystemError
		if !errors.As(err, &se) {
			t.Fatalf("T=%g: got %v, want SingularSystemError", T, err)
		}
		diff(t, T, se.Duration)
	}

	_, err := NewQuinticBlend(
		Boundary{Pos: Pt(0, 0), Vel: Vec(1, 0)},
		Boundary{Pos: Pt(1, 0), Vel: Vec(1, 0)},
		0,
	)
	if !errors.Is(err, ErrValidation) || !errors.Is(err, ErrSingular) {
		t.Fatalf("got %v, want validation error wrapping a singular system", err)
	}
}

func TestQuinticBlendStraight(t *testing.T) {
	q, err := NewQuinticBlend(
		BoundaryAt(NewPose(0, 0, 0), 5, 0),
		BoundaryAt(NewPose(10, 0, 0), 5, 0),
		2,
	)
	if err != nil {
		t.Fatal(err)
	}
	diff(t, 10.0, q.Length(), approx(1e-9))
	diff(t, 2.0, q.Duration())
	assertPose(t, q.PoseAt(3), NewPose(3, 0, 0), 1e-9)
	diff(t, 0.6, q.TimeAt(3), approx(1e-9))

	st := q.StateAt(1)
	diff(t, 5.0, st.Speed, approx(1e-9))
	diff(t, 0.0, st.Acceleration, approx(1e-9))
	diff(t, 0.0, st.Curvature, approx(1e-9))
}

func TestQuinticBlendTurn(t *testing.T) {
	start := NewPose(-372, 131, -0.8606)
	end := NewPose(-350, 110, 0.6)
	q, err := NewQuinticBlend(BoundaryAt(start, 8.333, 0), BoundaryAt(end, 8.333, 0), 4)
	if err != nil {
		t.Fatal(err)
	}
	if err := q.Validate(); err != nil {
		t.Fatal(err)
	}
	assertPose(t, q.Start(), start, 1e-9)
	assertPose(t, q.End(), end, 1e-6)

	chord := start.Point().Distance(end.Point())
	if q.Length() < chord {
		t.Errorf("length %g shorter than chord %g", q.Length(), chord)
	}
	assertPose(t, q.PoseAt(q.Length()), end, 1e-6)

	for _, tt := range []float64{0.5, 1.7, 3.9} {
		diff(t, tt, q.TimeAt(q.DistanceAt(tt)), approx(1e-6))
	}
	if c := q.AccelCost(5); c <= 0 {
		t.Errorf("turning blend has acceleration cost %g", c)
	}
}
