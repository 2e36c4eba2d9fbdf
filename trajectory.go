package trajgen

import (
	"math"
)

// Sample is one timestamped pose of a trajectory.
type Sample struct {
	Time         float64
	Pose         Pose
	Distance     float64 // arc length covered since the first sample
	Velocity     float64
	Acceleration float64
	Stage        Stage
}

// Trajectory is a named sequence of samples, strictly increasing in time.
type Trajectory struct {
	Name    string
	Samples []Sample
}

func (tr Trajectory) Len() int { return len(tr.Samples) }

// Duration returns the time between the first and last sample.
func (tr Trajectory) Duration() float64 {
	if len(tr.Samples) < 2 {
		return 0
	}
	return tr.Samples[len(tr.Samples)-1].Time - tr.Samples[0].Time
}

// Transform returns a copy with every pose mapped through aff.
func (tr Trajectory) Transform(aff Affine) Trajectory {
	out := Trajectory{Name: tr.Name, Samples: make([]Sample, len(tr.Samples))}
	for i, s := range tr.Samples {
		s.Pose = s.Pose.Transform(aff)
		out.Samples[i] = s
	}
	return out
}

// Stationary returns a trajectory named name that holds p at every timestamp
// of tr. It describes a parked companion vehicle.
func (tr Trajectory) Stationary(p Pose, name string) Trajectory {
	out := Trajectory{Name: name, Samples: make([]Sample, len(tr.Samples))}
	for i, s := range tr.Samples {
		out.Samples[i] = Sample{Time: s.Time, Pose: p, Stage: StageStationary}
	}
	return out
}

// Limit returns the first n samples. n ≤ 0 keeps everything.
func (tr Trajectory) Limit(n int) Trajectory {
	if n <= 0 || n >= len(tr.Samples) {
		return tr
	}
	return Trajectory{Name: tr.Name, Samples: tr.Samples[:n:n]}
}

// MinDistance returns the closest approach of the trajectory to pt and the
// sample at which it occurs. It returns +Inf for an empty trajectory.
func (tr Trajectory) MinDistance(pt Point) (float64, Sample) {
	best := math.Inf(1)
	var at Sample
	for _, s := range tr.Samples {
		if d := s.Pose.Point().Distance(pt); d < best {
			best, at = d, s
		}
	}
	return best, at
}
