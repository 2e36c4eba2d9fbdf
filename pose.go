package trajgen

import (
	"fmt"
	"math"
)

// Pose is a position plus heading. H is in radians, measured anti-clockwise
// from the positive x axis, and kept in (−π, π].
type Pose struct {
	X float64
	Y float64
	H float64
}

// NewPose returns the pose (x, y, h) with h normalized.
func NewPose(x, y, h float64) Pose {
	return Pose{X: x, Y: y, H: NormalizeAngle(h)}
}

// PoseAt returns a pose at pt with heading h.
func PoseAt(pt Point, h float64) Pose {
	return NewPose(pt.X, pt.Y, h)
}

// NormalizeAngle maps a to the equivalent angle in (−π, π].
func NormalizeAngle(a float64) float64 {
	a = math.Remainder(a, 2*math.Pi)
	if a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// AngleDiff returns the signed shortest rotation from a to b.
func AngleDiff(a, b float64) float64 {
	return NormalizeAngle(b - a)
}

// Deg converts radians to degrees.
func Deg(rad float64) float64 { return rad * (180 / math.Pi) }

// Rad converts degrees to radians.
func Rad(deg float64) float64 { return deg * (math.Pi / 180) }

func (p Pose) Point() Point { return Point{X: p.X, Y: p.Y} }

// Direction returns the unit vector of the heading.
func (p Pose) Direction() Vec2 { return VecFromAngle(p.H) }

// Advance returns the pose reached by moving s along the heading.
func (p Pose) Advance(s float64) Pose {
	d := p.Direction()
	return Pose{X: p.X + s*d.X, Y: p.Y + s*d.Y, H: p.H}
}

// Reverse returns the same position facing the opposite way.
func (p Pose) Reverse() Pose {
	return NewPose(p.X, p.Y, p.H+math.Pi)
}

// Transform maps the pose through aff. The heading follows the transformed
// direction vector, so reflections flip the sense of rotation.
func (p Pose) Transform(aff Affine) Pose {
	return PoseAt(p.Point().Transform(aff), aff.TransformVec(p.Direction()).Angle())
}

func (p Pose) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0) &&
		!math.IsNaN(p.H) && !math.IsInf(p.H, 0)
}

func (p Pose) String() string {
	return fmt.Sprintf("(%g, %g, %g rad)", p.X, p.Y, p.H)
}
