package trajgen

import (
	"fmt"
	"math"

	"github.com/scenariolab/trajgen/internal/monitoring"
)

// DefaultGapThreshold is the largest discontinuity, in metres, that the
// compositor tolerates between consecutive primitives without bridging.
const DefaultGapThreshold = 0.1

const (
	// timeEpsilon absorbs rounding when comparing grid times to segment
	// boundaries.
	timeEpsilon = 1e-9
	maxSamples  = 10_000_000
)

// Compositor stitches primitives into a single path and samples it on a fixed
// time grid StartTime + k·Step.
//
// Primitives that only know arc length are traversed according to Profile:
// the grid time is turned into a profile distance and then into a local offset
// on the primitive. [Timed] primitives run on their own clock; while one is
// active the profile clock is paused, so the profile resumes where it left off
// once the timed primitive ends.
//
// A Compositor holds no state between calls and may be shared.
type Compositor struct {
	Step      float64 // seconds
	StartTime float64
	Profile   Profile
	// GapThreshold defaults to DefaultGapThreshold when zero.
	GapThreshold float64
	// BridgeHandle defaults to DefaultBridgeHandle when zero.
	BridgeHandle float64
	// IncludeEnd appends the terminal pose when it falls between grid points.
	IncludeEnd bool
}

func (c Compositor) gapThreshold() float64 {
	if c.GapThreshold > 0 {
		return c.GapThreshold
	}
	return DefaultGapThreshold
}

func (c Compositor) bridgeHandle() float64 {
	if c.BridgeHandle > 0 {
		return c.BridgeHandle
	}
	return DefaultBridgeHandle
}

// FillGaps returns prims with a [Bridge] inserted wherever the end of one
// primitive is more than the gap threshold away from the start of the next.
// Applying it to its own output inserts nothing.
func (c Compositor) FillGaps(prims []Primitive) []Primitive {
	out, _ := c.fillGaps(prims)
	return out
}

// fillGaps also reports, for every output primitive, the index of the input
// primitive it came from. Bridges report the primitive they lead into.
func (c Compositor) fillGaps(prims []Primitive) ([]Primitive, []int) {
	out := make([]Primitive, 0, len(prims))
	origin := make([]int, 0, len(prims))
	threshold := c.gapThreshold()
	for i, p := range prims {
		if i > 0 {
			from, to := prims[i-1].End(), p.Start()
			if gap := from.Point().Distance(to.Point()); gap > threshold {
				monitoring.Logf("trajgen: bridging %.3f m gap between primitives %d and %d", gap, i-1, i)
				out = append(out, NewBridge(from, to, c.bridgeHandle()))
				origin = append(origin, i)
			}
		}
		out = append(out, p)
		origin = append(origin, i)
	}
	return out, origin
}

func (c Compositor) validate(prims []Primitive) error {
	if !finite(c.Step) || c.Step <= 0 {
		return &ValidationError{Index: -1, Field: "step", Reason: fmt.Sprintf("must be positive, got %g", c.Step)}
	}
	if !finite(c.StartTime) || c.StartTime < 0 {
		return &ValidationError{Index: -1, Field: "start time", Reason: fmt.Sprintf("must be non-negative, got %g", c.StartTime)}
	}
	if c.Profile == nil {
		return &ValidationError{Index: -1, Field: "profile", Reason: "no kinematic profile"}
	}
	if !finite(c.GapThreshold, c.BridgeHandle) || c.GapThreshold < 0 || c.BridgeHandle < 0 {
		return &ValidationError{Index: -1, Field: "gap filling", Reason: "threshold and handle must be non-negative"}
	}
	for i, p := range prims {
		if p == nil {
			return &ValidationError{Index: i, Reason: "nil primitive"}
		}
		if err := p.Validate(); err != nil {
			return atIndex(err, i, p.Kind())
		}
	}
	return nil
}

func (c Compositor) gridTime(k int) float64 {
	return c.StartTime + float64(k)*c.Step
}

// Compose samples prims into a trajectory. An empty list yields an empty
// trajectory. Validation and profile failures abort the whole composition.
func (c Compositor) Compose(prims []Primitive) (Trajectory, error) {
	if len(prims) == 0 {
		return Trajectory{}, nil
	}
	if err := c.validate(prims); err != nil {
		return Trajectory{}, err
	}
	filled, origin := c.fillGaps(prims)

	var (
		samples  []Sample
		k        int
		shift    float64 // seconds spent in timed primitives
		profDist float64 // distance consumed from the profile
		pathDist float64
		segEnd   = c.StartTime
		endState Sample
	)
	for j, p := range filled {
		switch p := p.(type) {
		case Timed:
			segStart := segEnd
			segEnd = segStart + p.Duration()
			if err := c.checkBudget(segEnd); err != nil {
				return Trajectory{}, err
			}
			for ; c.gridTime(k) < segEnd-timeEpsilon; k++ {
				t := c.gridTime(k)
				local := math.Max(t-segStart, 0)
				samples = append(samples, timedSample(p, t, local, pathDist))
			}
			endState = timedSample(p, segEnd, p.Duration(), pathDist)
			shift += p.Duration()

		default:
			length := p.Length()
			last, err := c.Profile.AtDistance(profDist + length)
			if err != nil {
				return Trajectory{}, fmt.Errorf("primitive %d: %w", origin[j], err)
			}
			segEnd = c.StartTime + shift + last.Time
			if err := c.checkBudget(segEnd); err != nil {
				return Trajectory{}, err
			}
			for ; c.gridTime(k) < segEnd-timeEpsilon; k++ {
				t := c.gridTime(k)
				m, err := c.Profile.AtTime(math.Max(t-c.StartTime-shift, 0))
				if err != nil {
					return Trajectory{}, fmt.Errorf("primitive %d: %w", origin[j], err)
				}
				s := min(max(m.Distance-profDist, 0), length)
				samples = append(samples, Sample{
					Time:         t,
					Pose:         p.PoseAt(s),
					Distance:     pathDist + s,
					Velocity:     m.Velocity,
					Acceleration: m.Acceleration,
					Stage:        m.Stage,
				})
			}
			endState = Sample{
				Time:         segEnd,
				Pose:         p.End(),
				Distance:     pathDist + length,
				Velocity:     last.Velocity,
				Acceleration: last.Acceleration,
				Stage:        last.Stage,
			}
			profDist += length
		}
		pathDist += p.Length()
	}

	if c.IncludeEnd && (len(samples) == 0 || endState.Time-samples[len(samples)-1].Time > timeEpsilon) {
		samples = append(samples, endState)
	}
	return Trajectory{Samples: samples}, nil
}

func (c Compositor) checkBudget(end float64) error {
	if n := (end - c.StartTime) / c.Step; n > maxSamples {
		return &ValidationError{Index: -1, Field: "step", Reason: fmt.Sprintf("%g s at step %g would exceed %d samples", end-c.StartTime, c.Step, maxSamples)}
	}
	return nil
}

func timedSample(p Timed, t, local, pathDist float64) Sample {
	st := p.StateAt(local)
	return Sample{
		Time:         t,
		Pose:         st.Pose,
		Distance:     pathDist + p.DistanceAt(local),
		Velocity:     st.Speed,
		Acceleration: st.Acceleration,
		Stage:        StageBlending,
	}
}
