package trajgen

import (
	"fmt"
	"math"
)

// Vec2 is a displacement, direction or velocity in the world frame.
type Vec2 struct {
	X float64
	Y float64
}

// Vec returns the vector ⟨x, y⟩.
func Vec(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// VecFromAngle returns the unit vector with heading th. Headings are
// anti-clockwise from +x (east) in the y-up world frame.
func VecFromAngle(th float64) Vec2 {
	y, x := math.Sincos(th)
	return Vec2{X: x, Y: y}
}

func (v Vec2) String() string {
	return fmt.Sprintf("⟨%g, %g⟩", v.X, v.Y)
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{X: v.X + o.X, Y: v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{X: v.X - o.X, Y: v.Y - o.Y} }
func (v Vec2) Mul(f float64) Vec2 {
	return Vec2{X: v.X * f, Y: v.Y * f}
}

func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }

// Cross returns the z component of v × o. It is positive when o lies
// anti-clockwise of v.
func (v Vec2) Cross(o Vec2) float64 { return v.X*o.Y - v.Y*o.X }

// Hypot returns the magnitude of the vector.
func (v Vec2) Hypot() float64 { return math.Hypot(v.X, v.Y) }

// Hypot2 returns the squared magnitude of the vector.
func (v Vec2) Hypot2() float64 { return v.Dot(v) }

// Angle returns atan2(y, x). For a velocity this is the heading.
func (v Vec2) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}

// Normalize returns the unit vector along v. A zero vector gives NaNs.
func (v Vec2) Normalize() Vec2 {
	return v.Mul(1 / v.Hypot())
}

// Turn90 returns the vector rotated a quarter turn anti-clockwise.
func (v Vec2) Turn90() Vec2 {
	return Vec2{X: -v.Y, Y: v.X}
}

// IsFinite reports whether both x and y are finite.
func (v Vec2) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}
