package trajgen

import "math"

// Line is a straight segment of the given length starting at From and
// following its heading.
type Line struct {
	From Pose
	Len  float64
}

var _ Primitive = Line{}
var _ Curved = Line{}
var _ Reverser = Line{}

// LineBetween returns the line from p0 to p1, heading along p1−p0.
func LineBetween(p0, p1 Point) Line {
	d := p1.Sub(p0)
	return Line{From: PoseAt(p0, d.Angle()), Len: d.Hypot()}
}

func (l Line) Kind() Kind      { return LineKind }
func (l Line) Start() Pose     { return l.From }
func (l Line) End() Pose       { return l.PoseAt(l.Len) }
func (l Line) Length() float64 { return l.Len }

func (l Line) PoseAt(s float64) Pose {
	return l.From.Advance(s)
}

func (l Line) CurvatureAt(s float64) float64 { return 0 }

func (l Line) Reverse() Primitive {
	return Line{From: l.End().Reverse(), Len: l.Len}
}

func (l Line) Validate() error {
	if err := validatePose(LineKind, "start", l.From); err != nil {
		return err
	}
	return validateLength(LineKind, l.Len)
}

// Nearest returns the squared distance from pt to the line and the arc length
// of the closest point.
func (l Line) Nearest(pt Point) (distSq, s float64) {
	d := l.From.Direction()
	s = math.Max(0, math.Min(l.Len, d.Dot(pt.Sub(l.From.Point()))))
	return pt.DistanceSquared(l.PoseAt(s).Point()), s
}

// CrossingPoint computes the point where two lines, if extended to infinity,
// would cross.
func (l Line) CrossingPoint(o Line) (Point, bool) {
	ab := l.From.Direction()
	cd := o.From.Direction()
	pcd := ab.Cross(cd)
	if math.Abs(pcd) < 1e-12 {
		return Point{}, false
	}
	h := ab.Cross(l.From.Point().Sub(o.From.Point())) / pcd
	return o.From.Point().Translate(cd.Mul(h)), true
}
