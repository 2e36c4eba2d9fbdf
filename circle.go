package trajgen

import (
	"math"
)

// Circle is a roundabout's driving circle.
type Circle struct {
	Center Point
	Radius float64
}

// PointAt returns the point on the circle at the given polar angle.
func (c Circle) PointAt(angle float64) Point {
	return c.Center.Translate(VecFromAngle(angle).Mul(c.Radius))
}

// PoseAt returns the pose of a vehicle driving anti-clockwise around the
// circle at the given polar angle. The heading is tangent to the circle.
func (c Circle) PoseAt(angle float64) Pose {
	return PoseAt(c.PointAt(angle), angle+math.Pi/2)
}

// AngleOf returns the polar angle of pt as seen from the centre.
func (c Circle) AngleOf(pt Point) float64 {
	return pt.Sub(c.Center).Angle()
}

// Contains reports whether pt lies strictly inside the circle.
func (c Circle) Contains(pt Point) bool {
	return c.Center.DistanceSquared(pt) < c.Radius*c.Radius
}

// Sweep returns the anti-clockwise arc from polar angle start to polar angle
// end. The span is taken modulo a full turn and lies in (0, 2π]; equal angles
// give a full circle.
func (c Circle) Sweep(start, end float64) Arc {
	span := math.Mod(end-start, 2*math.Pi)
	if span <= 0 {
		span += 2 * math.Pi
	}
	return c.SweepBy(start, span)
}

// SweepBy returns the anti-clockwise arc of the given angular span starting at
// polar angle start.
func (c Circle) SweepBy(start, span float64) Arc {
	return Arc{
		From: c.PoseAt(start),
		Len:  span * c.Radius,
		K:    1 / c.Radius,
	}
}

func (c Circle) Validate() error {
	if !finite(c.Center.X, c.Center.Y, c.Radius) {
		return invalid(ArcKind, "circle", "centre %v radius %g not finite", c.Center, c.Radius)
	}
	if c.Radius <= 0 {
		return invalid(ArcKind, "radius", "must be positive, got %g", c.Radius)
	}
	return nil
}
