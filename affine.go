package trajgen

import "math"

// Affine is a 2D affine map with coefficients (a, b, c, d, e, f) standing for
//
//	| a c e |
//	| b d f |
//	| 0 0 1 |
//
// Recipes that are easier to state in a local frame (collision point at the
// origin, travel along +x) are built there and moved into the world frame
// with [Place].
type Affine struct {
	A, B, C, D, E, F float64
}

// Identity leaves every point where it is.
var Identity = Affine{A: 1, D: 1}

// FlipY mirrors across the x axis. Applied to a trajectory it turns a
// left-hand manoeuvre into the matching right-hand one.
var FlipY = Affine{A: 1, D: -1}

// Translate moves by v.
func Translate(v Vec2) Affine {
	return Affine{A: 1, D: 1, E: v.X, F: v.Y}
}

// Rotate turns by th radians, anti-clockwise in the y-up world frame.
func Rotate(th float64) Affine {
	sin, cos := math.Sincos(th)
	return Affine{A: cos, B: sin, C: -sin, D: cos}
}

// Place maps the local frame (origin, heading 0) onto p.
func Place(p Pose) Affine {
	return Translate(Vec2(p.Point())).Mul(Rotate(p.H))
}

// Localize maps world coordinates into the frame of p. It is the inverse of
// [Place].
func Localize(p Pose) Affine {
	return Place(p).Invert()
}

// Mul returns the map that applies o first and aff second.
func (aff Affine) Mul(o Affine) Affine {
	return Affine{
		A: aff.A*o.A + aff.C*o.B,
		B: aff.B*o.A + aff.D*o.B,
		C: aff.A*o.C + aff.C*o.D,
		D: aff.B*o.C + aff.D*o.D,
		E: aff.A*o.E + aff.C*o.F + aff.E,
		F: aff.B*o.E + aff.D*o.F + aff.F,
	}
}

// Invert returns the inverse map. A degenerate map yields NaN coefficients.
func (aff Affine) Invert() Affine {
	inv := 1 / (aff.A*aff.D - aff.B*aff.C)
	return Affine{
		A: inv * aff.D,
		B: -inv * aff.B,
		C: -inv * aff.C,
		D: inv * aff.A,
		E: inv * (aff.C*aff.F - aff.D*aff.E),
		F: inv * (aff.B*aff.E - aff.A*aff.F),
	}
}

// TransformVec applies only the linear part of aff to v. Directions and
// velocities transform this way.
func (aff Affine) TransformVec(v Vec2) Vec2 {
	return Vec2{X: aff.A*v.X + aff.C*v.Y, Y: aff.B*v.X + aff.D*v.Y}
}
