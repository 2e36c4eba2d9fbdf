package trajgen

import (
	"math"
	"testing"
)

func sampleTrajectory(t *testing.T) Trajectory {
	t.Helper()
	c := Compositor{Step: 0.5, Profile: ConstantVelocity{Speed: 2}, IncludeEnd: true}
	tr, err := c.Compose([]Primitive{Line{From: NewPose(0, 0, 0), Len: 4}})
	if err != nil {
		t.Fatal(err)
	}
	tr.Name = "VUT"
	return tr
}

func TestTrajectoryBasics(t *testing.T) {
	tr := sampleTrajectory(t)
	diff(t, 5, tr.Len())
	diff(t, 2.0, tr.Duration())
	diff(t, []float64{0, 0.5, 1, 1.5, 2}, sampleTimes(tr), approx(1e-12))
	diff(t, 0.0, Trajectory{}.Duration())
}

func TestTrajectoryStationary(t *testing.T) {
	tr := sampleTrajectory(t)
	parked := NewPose(-371.73, 123.66, Rad(-137))
	st := tr.Stationary(parked, "Target")
	diff(t, "Target", st.Name)
	diff(t, sampleTimes(tr), sampleTimes(st))
	for _, s := range st.Samples {
		diff(t, parked, s.Pose)
		diff(t, 0.0, s.Velocity)
		diff(t, StageStationary, s.Stage)
	}
}

func TestTrajectoryLimit(t *testing.T) {
	tr := sampleTrajectory(t)
	diff(t, 3, tr.Limit(3).Len())
	diff(t, tr.Len(), tr.Limit(0).Len())
	diff(t, tr.Len(), tr.Limit(100).Len())

	// Appending to a limited trajectory must not clobber the original.
	lim := tr.Limit(2)
	lim.Samples = append(lim.Samples, Sample{Time: 99})
	diff(t, 1.0, tr.Samples[2].Time)
}

func TestTrajectoryTransform(t *testing.T) {
	tr := sampleTrajectory(t).Transform(Place(NewPose(10, 5, math.Pi/2)))
	assertPose(t, tr.Samples[0].Pose, NewPose(10, 5, math.Pi/2), 1e-12)
	assertPose(t, tr.Samples[4].Pose, NewPose(10, 9, math.Pi/2), 1e-12)
	diff(t, 2.0, tr.Samples[2].Velocity)
}

func TestTrajectoryMinDistance(t *testing.T) {
	tr := sampleTrajectory(t)
	d, at := tr.MinDistance(Pt(2.2, 3))
	diff(t, math.Hypot(0.2, 3), d, approx(1e-12))
	diff(t, 1.0, at.Time)

	d, _ = Trajectory{}.MinDistance(Pt(0, 0))
	if !math.IsInf(d, 1) {
		t.Errorf("got %g for empty trajectory, want +Inf", d)
	}
}
