package xosc

import (
	"math"

	"github.com/scenariolab/trajgen"
)

// Record is one trajectory point as consumed by the JSON test-bench format.
// Heading is in degrees; this is the only place radians are converted.
type Record struct {
	Time         float64 `json:"time"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	XYHeading    float64 `json:"xyheading"`
	Heading      float64 `json:"heading"`
	Velocity     float64 `json:"velocity"`
	Acceleration float64 `json:"acceleration"`
	Stage        string  `json:"stage,omitempty"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func headingDeg(h float64) float64 {
	return round2(trajgen.Deg(h))
}

// Records converts a sampled trajectory.
func Records(tr trajgen.Trajectory) []Record {
	out := make([]Record, len(tr.Samples))
	for i, s := range tr.Samples {
		h := headingDeg(s.Pose.H)
		out[i] = Record{
			Time:         s.Time,
			X:            s.Pose.X,
			Y:            s.Pose.Y,
			XYHeading:    h,
			Heading:      h,
			Velocity:     round2(s.Velocity),
			Acceleration: s.Acceleration,
			Stage:        s.Stage.String(),
		}
	}
	return out
}

// RecordsFromVertices converts vertices read back from a scenario file, where
// only poses are known. Velocity is the finite difference to the previous
// vertex (zero for the first). static forces every velocity to zero, for
// parked vehicles whose recorded poses jitter.
func RecordsFromVertices(vs []Vertex, static bool) []Record {
	out := make([]Record, len(vs))
	for i, v := range vs {
		h := headingDeg(v.Pose.H)
		r := Record{Time: v.Time, X: v.Pose.X, Y: v.Pose.Y, XYHeading: h, Heading: h}
		switch {
		case static:
			r.Stage = trajgen.StageStationary.String()
		case i > 0:
			prev := vs[i-1]
			if dt := v.Time - prev.Time; dt > 0 {
				r.Velocity = round2(v.Pose.Point().Distance(prev.Pose.Point()) / dt)
			}
		}
		out[i] = r
	}
	return out
}
