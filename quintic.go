package trajgen

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

// singularDet is the determinant below which the quintic system is treated as
// singular. The determinant equals 2·T⁹, so this rejects T below about 3e-4 s.
const singularDet = 1e-30

// QuinticPolynomial is x(t) = A[0] + A[1]t + … + A[5]t⁵.
type QuinticPolynomial struct {
	A [6]float64
}

// NewQuinticPolynomial returns the unique quintic matching position, velocity
// and acceleration at t = 0 and t = T.
//
// The lower three coefficients follow from the start conditions; the upper
// three solve a 3×3 linear system built from the end conditions.
func NewQuinticPolynomial(xs, vs, as, xe, ve, ae, T float64) (QuinticPolynomial, error) {
	if !finite(xs, vs, as, xe, ve, ae, T) {
		return QuinticPolynomial{}, invalid(QuinticKind, "boundary", "non-finite boundary condition")
	}
	a0, a1, a2 := xs, vs, as/2

	t2 := T * T
	t3 := t2 * T
	t4 := t3 * T
	t5 := t4 * T
	A := mat.NewDense(3, 3, []float64{
		t3, t4, t5,
		3 * t2, 4 * t3, 5 * t4,
		6 * T, 12 * t2, 20 * t3,
	})
	det := mat.Det(A)
	if T <= 0 || math.Abs(det) < singularDet {
		return QuinticPolynomial{}, &SingularSystemError{Duration: T, Det: det}
	}
	b := mat.NewVecDense(3, []float64{
		xe - a0 - a1*T - a2*t2,
		ve - a1 - 2*a2*T,
		ae - 2*a2,
	})
	var x mat.VecDense
	if err := x.SolveVec(A, b); err != nil {
		var cond mat.Condition
		if errors.As(err, &cond) {
			return QuinticPolynomial{}, &SingularSystemError{Duration: T, Det: det}
		}
		return QuinticPolynomial{}, err
	}
	return QuinticPolynomial{A: [6]float64{a0, a1, a2, x.AtVec(0), x.AtVec(1), x.AtVec(2)}}, nil
}

func (q QuinticPolynomial) Eval(t float64) float64 {
	a := q.A
	return a[0] + t*(a[1]+t*(a[2]+t*(a[3]+t*(a[4]+t*a[5]))))
}

func (q QuinticPolynomial) Deriv(t float64) float64 {
	a := q.A
	return a[1] + t*(2*a[2]+t*(3*a[3]+t*(4*a[4]+t*5*a[5])))
}

func (q QuinticPolynomial) Deriv2(t float64) float64 {
	a := q.A
	return 2*a[2] + t*(6*a[3]+t*(12*a[4]+t*20*a[5]))
}

// Boundary is the kinematic state at one end of a [QuinticBlend].
type Boundary struct {
	Pos Point
	Vel Vec2
	Acc Vec2
}

// BoundaryAt returns the boundary state of a vehicle at p moving at speed along
// its heading with tangential acceleration acc.
func BoundaryAt(p Pose, speed, acc float64) Boundary {
	d := p.Direction()
	return Boundary{Pos: p.Point(), Vel: d.Mul(speed), Acc: d.Mul(acc)}
}

// QuinticBlend is a two-point boundary-value curve: independent quintics in x
// and y over [0, T]. Its natural parameter is time; heading is the direction of
// the velocity.
type QuinticBlend struct {
	X      QuinticPolynomial
	Y      QuinticPolynomial
	T      float64
	length float64
}

var _ Timed = QuinticBlend{}

// quinticPanel bounds the width in seconds of each quadrature panel used for
// arc length.
const quinticPanel = 0.25

// NewQuinticBlend solves the blend from start to end over duration. A degenerate
// duration yields a *ValidationError wrapping a *SingularSystemError.
func NewQuinticBlend(start, end Boundary, duration float64) (QuinticBlend, error) {
	x, err := NewQuinticPolynomial(start.Pos.X, start.Vel.X, start.Acc.X, end.Pos.X, end.Vel.X, end.Acc.X, duration)
	if err != nil {
		return QuinticBlend{}, quinticError(err)
	}
	y, err := NewQuinticPolynomial(start.Pos.Y, start.Vel.Y, start.Acc.Y, end.Pos.Y, end.Vel.Y, end.Acc.Y, duration)
	if err != nil {
		return QuinticBlend{}, quinticError(err)
	}
	q := QuinticBlend{X: x, Y: y, T: duration}
	q.length = q.arclen(duration)
	return q, nil
}

func quinticError(err error) error {
	var se *SingularSystemError
	if errors.As(err, &se) {
		return &ValidationError{Index: -1, Kind: QuinticKind, Field: "duration", Reason: "degenerate blend", Err: se}
	}
	return err
}

func (q QuinticBlend) Kind() Kind            { return QuinticKind }
func (q QuinticBlend) Duration() float64     { return q.T }
func (q QuinticBlend) Length() float64       { return q.length }
func (q QuinticBlend) Start() Pose           { return q.StateAt(0).Pose }
func (q QuinticBlend) End() Pose             { return q.StateAt(q.T).Pose }
func (q QuinticBlend) Point(t float64) Point { return Pt(q.X.Eval(t), q.Y.Eval(t)) }

func (q QuinticBlend) Velocity(t float64) Vec2 {
	return Vec(q.X.Deriv(t), q.Y.Deriv(t))
}

func (q QuinticBlend) Acceleration(t float64) Vec2 {
	return Vec(q.X.Deriv2(t), q.Y.Deriv2(t))
}

func (q QuinticBlend) speed(t float64) float64 {
	return q.Velocity(t).Hypot()
}

func (q QuinticBlend) arclen(t float64) float64 {
	return speedIntegral(q.speed, 0, t, quinticPanel)
}

// StateAt returns the state at time t ∈ [0, T].
func (q QuinticBlend) StateAt(t float64) State {
	v := q.Velocity(t)
	a := q.Acceleration(t)
	speed := v.Hypot()
	h := v.Angle()
	if speed < 1e-12 {
		// At rest the heading is where the vehicle is about to go.
		h = a.Angle()
	}
	st := State{Pose: PoseAt(q.Point(t), h), Speed: speed}
	if speed > 0 {
		st.Acceleration = v.Dot(a) / speed
		st.Curvature = v.Cross(a) / (speed * speed * speed)
	} else {
		st.Acceleration = a.Hypot()
	}
	return st
}

func (q QuinticBlend) DistanceAt(t float64) float64 {
	return q.arclen(t)
}

// TimeAt returns the time at which arc length s has been covered.
func (q QuinticBlend) TimeAt(s float64) float64 {
	return invertArclen(q.arclen, s, q.T, q.length, 1e-9)
}

func (q QuinticBlend) PoseAt(s float64) Pose {
	return q.StateAt(q.TimeAt(s)).Pose
}

// AccelCost returns Σ|a|² over n evenly spaced times in [0, T). Lower values
// mean a gentler blend.
func (q QuinticBlend) AccelCost(n int) float64 {
	var sum float64
	for i := range n {
		sum += q.Acceleration(q.T * float64(i) / float64(n)).Hypot2()
	}
	return sum
}

func (q QuinticBlend) Validate() error {
	for _, a := range [][6]float64{q.X.A, q.Y.A} {
		if !finite(a[:]...) {
			return invalid(QuinticKind, "coefficients", "not finite")
		}
	}
	if !finite(q.T) || q.T <= 0 {
		return invalid(QuinticKind, "duration", "must be positive, got %g", q.T)
	}
	return validateLength(QuinticKind, q.length)
}
