package scenario

import (
	"errors"
	"fmt"
	"math"

	"github.com/scenariolab/trajgen"
	"github.com/scenariolab/trajgen/internal/monitoring"
)

var defaultCircle = CircleSpec{Center: Position{X: -345.18, Y: 100.73}, Radius: 13}

func circleOrDefault(c *CircleSpec) trajgen.Circle {
	if c == nil {
		return defaultCircle.circle()
	}
	return c.circle()
}

// StraightRoundabout drives straight from Start, turns onto the roundabout
// circle at EntryAngle along a cubic Bézier and circulates anti-clockwise to
// ExitAngle, all at constant speed. Angles are polar angles about the centre,
// in radians.
type StraightRoundabout struct {
	Start          *Placement  `json:"start,omitempty"`
	StraightLength *float64    `json:"straight_length,omitempty"`
	Circle         *CircleSpec `json:"circle,omitempty"`
	EntryAngle     *float64    `json:"entry_angle,omitempty"`
	ExitAngle      *float64    `json:"exit_angle,omitempty"`
	// EntryHandle is the Bézier handle length as a fraction of the distance
	// between the end of the straight and the entry point.
	EntryHandle *float64 `json:"entry_handle,omitempty"`
}

func (r *StraightRoundabout) defaultSpeed() float64 { return 30 / 3.6 }

func (r *StraightRoundabout) GetStart() trajgen.Pose {
	if r.Start == nil {
		return trajgen.NewPose(-372, 131, -0.8606)
	}
	return r.Start.pose()
}

func (r *StraightRoundabout) GetStraightLength() float64 { return orDefault(r.StraightLength, 5) }
func (r *StraightRoundabout) GetEntryAngle() float64     { return orDefault(r.EntryAngle, 3.42) }
func (r *StraightRoundabout) GetExitAngle() float64      { return orDefault(r.ExitAngle, 3*math.Pi/2+0.1) }
func (r *StraightRoundabout) GetEntryHandle() float64    { return orDefault(r.EntryHandle, 0.5) }

func (r *StraightRoundabout) Validate() error {
	if !r.GetStart().IsFinite() {
		return invalidf("start", "not finite")
	}
	if err := circleOrDefault(r.Circle).Validate(); err != nil {
		return err
	}
	for _, f := range []struct {
		name string
		v    *float64
	}{{"straight_length", r.StraightLength}, {"entry_handle", r.EntryHandle}} {
		if err := positive(f.name, f.v); err != nil {
			return err
		}
	}
	if a, b := r.GetEntryAngle(), r.GetExitAngle(); math.IsNaN(a) || math.IsInf(a, 0) || math.IsNaN(b) || math.IsInf(b, 0) {
		return invalidf("entry_angle", "entry %g and exit %g must be finite", a, b)
	}
	return nil
}

func (r *StraightRoundabout) Build(cfg *Config) ([]trajgen.Trajectory, error) {
	circle := circleOrDefault(r.Circle)
	straight := trajgen.Line{From: r.GetStart(), Len: r.GetStraightLength()}
	entry := circle.PoseAt(r.GetEntryAngle())
	prims := []trajgen.Primitive{
		straight,
		trajgen.NewBridge(straight.End(), entry, r.GetEntryHandle()),
		circle.Sweep(r.GetEntryAngle(), r.GetExitAngle()),
	}
	tr, err := cfg.compositor(trajgen.ConstantVelocity{Speed: cfg.GetSpeed()}).Compose(prims)
	if err != nil {
		return nil, err
	}
	return []trajgen.Trajectory{tr}, nil
}

// Entry search grid: polar angles i·0.1 rad for i < 30, blend durations
// i·0.5 s for 5 ≤ i < 12.
const (
	entryAngleStep     = 0.1
	entryAngleCount    = 30
	entryDurationStep  = 0.5
	entryDurationFirst = 5
	entryDurationLast  = 11
	entryCostSamples   = 5
)

// DefaultMaxPathRatio bounds how much longer than the direct distance an entry
// blend may be, measured through its midpoint.
const DefaultMaxPathRatio = 1.6

// Entry is the result of an entry search.
type Entry struct {
	Angle    float64
	Duration float64
	Cost     float64
	Blend    trajgen.QuinticBlend
}

// ErrNoEntry is returned when no candidate of the entry search is acceptable.
var ErrNoEntry = errors.New("no acceptable roundabout entry")

// SearchEntry finds the quintic blend from start onto the circle with the
// lowest acceleration cost. Candidates end on the circle at speed with the
// centripetal acceleration of circulating, and are rejected when their path
// through the midpoint exceeds maxRatio times the direct distance.
func SearchEntry(start trajgen.Pose, speed float64, circle trajgen.Circle, maxRatio float64) (Entry, error) {
	from := trajgen.BoundaryAt(start, speed, 0)
	best := Entry{Cost: math.Inf(1)}
	found := false
	for i := range entryAngleCount {
		ang := float64(i) * entryAngleStep
		p := circle.PoseAt(ang)
		to := trajgen.Boundary{
			Pos: p.Point(),
			Vel: p.Direction().Mul(speed),
			Acc: trajgen.VecFromAngle(ang + math.Pi).Mul(speed * speed / circle.Radius),
		}
		direct := from.Pos.Distance(to.Pos)
		for j := entryDurationFirst; j <= entryDurationLast; j++ {
			T := float64(j) * entryDurationStep
			q, err := trajgen.NewQuinticBlend(from, to, T)
			if err != nil {
				continue
			}
			mid := q.Point(T / 2)
			if from.Pos.Distance(mid)+mid.Distance(to.Pos) >= direct*maxRatio {
				continue
			}
			if cost := q.AccelCost(entryCostSamples); cost < best.Cost {
				best = Entry{Angle: ang, Duration: T, Cost: cost, Blend: q}
				found = true
			}
		}
	}
	if !found {
		return Entry{}, ErrNoEntry
	}
	return best, nil
}

// RoundaboutExit enters the roundabout from Start along the best quintic
// blend, circulates to the exit, unwinds onto a straight with a clothoid,
// snaps onto the exit line with a second quintic and finishes with a short
// straight tail.
//
// The exit point on the circle is the one from which the clothoid would end
// exactly parallel to the exit line, moved on by ExtraRotationDeg.
type RoundaboutExit struct {
	Start            *Placement   `json:"start,omitempty"`
	Circle           *CircleSpec  `json:"circle,omitempty"`
	ExitLine         *[2]Position `json:"exit_line,omitempty"`
	SpiralLength     *float64     `json:"spiral_length,omitempty"`
	ExtraRotationDeg *float64     `json:"extra_rotation_deg,omitempty"`
	SnapDistance     *float64     `json:"snap_distance,omitempty"`
	TailDuration     *float64     `json:"tail_duration,omitempty"`
	MaxPathRatio     *float64     `json:"max_path_ratio,omitempty"`
}

func (r *RoundaboutExit) defaultSpeed() float64 { return 15 / 3.6 }

func (r *RoundaboutExit) GetStart() trajgen.Pose {
	if r.Start == nil {
		return trajgen.NewPose(-332, 118, -2.3562)
	}
	return r.Start.pose()
}

// GetExitLine returns two points on the exit straight, in driving order.
func (r *RoundaboutExit) GetExitLine() (trajgen.Point, trajgen.Point) {
	if r.ExitLine == nil {
		return trajgen.Pt(-366, 86), trajgen.Pt(-397, 58)
	}
	return r.ExitLine[0].point(), r.ExitLine[1].point()
}

func (r *RoundaboutExit) GetSpiralLength() float64     { return orDefault(r.SpiralLength, 15) }
func (r *RoundaboutExit) GetExtraRotationDeg() float64 { return orDefault(r.ExtraRotationDeg, 35) }
func (r *RoundaboutExit) GetSnapDistance() float64     { return orDefault(r.SnapDistance, 40) }
func (r *RoundaboutExit) GetTailDuration() float64     { return orDefault(r.TailDuration, 1.9) }
func (r *RoundaboutExit) GetMaxPathRatio() float64 {
	return orDefault(r.MaxPathRatio, DefaultMaxPathRatio)
}

func (r *RoundaboutExit) Validate() error {
	if !r.GetStart().IsFinite() {
		return invalidf("start", "not finite")
	}
	if err := circleOrDefault(r.Circle).Validate(); err != nil {
		return err
	}
	p1, p2 := r.GetExitLine()
	if !(p1.Distance(p2) > 0) {
		return invalidf("exit_line", "points %v and %v must be distinct", p1, p2)
	}
	for _, f := range []struct {
		name string
		v    *float64
	}{{"spiral_length", r.SpiralLength}, {"snap_distance", r.SnapDistance}, {"max_path_ratio", r.MaxPathRatio}} {
		if err := positive(f.name, f.v); err != nil {
			return err
		}
	}
	if t := r.GetTailDuration(); !(t >= 0) {
		return invalidf("tail_duration", "must be non-negative, got %g", t)
	}
	if e := r.GetExtraRotationDeg(); math.IsNaN(e) || math.IsInf(e, 0) {
		return invalidf("extra_rotation_deg", "not finite")
	}
	return nil
}

// exitAngle returns the polar angle at which to leave the circle, strictly
// after the entry angle.
func (r *RoundaboutExit) exitAngle(circle trajgen.Circle, entry float64) float64 {
	p1, p2 := r.GetExitLine()
	exitH := p2.Sub(p1).Angle()
	turn := 0.5 * r.GetSpiralLength() / circle.Radius
	heading := trajgen.NormalizeAngle(exitH - turn)
	angle := trajgen.NormalizeAngle(heading-math.Pi/2) + trajgen.Rad(r.GetExtraRotationDeg())
	for angle <= entry+0.1 {
		angle += 2 * math.Pi
	}
	return angle
}

func (r *RoundaboutExit) Build(cfg *Config) ([]trajgen.Trajectory, error) {
	v := cfg.GetSpeed()
	circle := circleOrDefault(r.Circle)
	entry, err := SearchEntry(r.GetStart(), v, circle, r.GetMaxPathRatio())
	if err != nil {
		return nil, err
	}
	monitoring.Logf("scenario: roundabout entry at %.1f rad after %.1f s (cost %.3g)", entry.Angle, entry.Duration, entry.Cost)

	exit := r.exitAngle(circle, entry.Angle)
	arc := circle.SweepBy(entry.Angle, exit-entry.Angle)
	spiral := trajgen.Unwinding(arc.End(), arc.K, r.GetSpiralLength())

	p1, p2 := r.GetExitLine()
	u := p2.Sub(p1).Normalize()
	last := spiral.End()
	along := last.Point().Sub(p1).Dot(u) + r.GetSnapDistance()
	target := p1.Translate(u.Mul(along))
	snap, err := trajgen.NewQuinticBlend(
		trajgen.BoundaryAt(last, v, 0),
		trajgen.Boundary{Pos: target, Vel: u.Mul(v)},
		r.GetSnapDistance()/v,
	)
	if err != nil {
		return nil, fmt.Errorf("exit snap: %w", err)
	}

	prims := []trajgen.Primitive{entry.Blend, arc, spiral, snap}
	if t := r.GetTailDuration(); t > 0 {
		prims = append(prims, trajgen.Line{From: trajgen.PoseAt(target, u.Angle()), Len: v * t})
	}
	tr, err := cfg.compositor(trajgen.ConstantVelocity{Speed: v}).Compose(prims)
	if err != nil {
		return nil, err
	}
	return []trajgen.Trajectory{tr}, nil
}
