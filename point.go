package trajgen

import (
	"fmt"
	"math"
)

// Point is a position in the scenario's world frame, in metres.
type Point struct {
	X float64
	Y float64
}

// Pt returns the point (x, y).
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (pt Point) String() string {
	return fmt.Sprintf("(%g, %g)", pt.X, pt.Y)
}

// Translate returns pt moved by o.
func (pt Point) Translate(o Vec2) Point {
	return Point{X: pt.X + o.X, Y: pt.Y + o.Y}
}

func (pt Point) Transform(aff Affine) Point {
	return Point{
		X: aff.A*pt.X + aff.C*pt.Y + aff.E,
		Y: aff.B*pt.X + aff.D*pt.Y + aff.F,
	}
}

// Sub returns the vector from o to pt.
func (pt Point) Sub(o Point) Vec2 {
	return Vec2{X: pt.X - o.X, Y: pt.Y - o.Y}
}

// Lerp moves the fraction t of the way from pt to o.
func (pt Point) Lerp(o Point, t float64) Point {
	return pt.Translate(o.Sub(pt).Mul(t))
}

func (pt Point) Midpoint(o Point) Point {
	return pt.Lerp(o, 0.5)
}

// Distance returns the euclidean distance between two points.
func (pt Point) Distance(o Point) float64 {
	return math.Hypot(pt.X-o.X, pt.Y-o.Y)
}

func (pt Point) DistanceSquared(o Point) float64 {
	return pt.Sub(o).Hypot2()
}
