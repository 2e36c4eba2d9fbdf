package scenario

import (
	"github.com/scenariolab/trajgen"
	"github.com/scenariolab/trajgen/internal/monitoring"
	"github.com/scenariolab/trajgen/xosc"
)

// AccelRejoin starts a vehicle from rest at Start, accelerates along a
// straight line to the first vertex of a recorded trajectory and follows the
// recording from there at cruise speed.
//
// The recording is read either from a scenario file (Source, looked up by the
// exact Trajectory name) or from a vertex list (Vertices).
type AccelRejoin struct {
	Source     string `json:"source,omitempty"`
	Trajectory string `json:"trajectory,omitempty"`
	Vertices   string `json:"vertices,omitempty"`
	// SeedLimit keeps only the first SeedLimit vertices when positive.
	SeedLimit    int       `json:"seed_limit,omitempty"`
	Start        *Position `json:"start,omitempty"`
	Acceleration *float64  `json:"acceleration,omitempty"`
}

func (r *AccelRejoin) defaultSpeed() float64 { return 15 / 3.6 }

// GetTrajectory returns the seed trajectory name.
func (r *AccelRejoin) GetTrajectory() string {
	if r.Trajectory == "" {
		return "VT1_Trajectory"
	}
	return r.Trajectory
}

// GetStart returns the standstill position.
func (r *AccelRejoin) GetStart() trajgen.Point {
	if r.Start == nil {
		return trajgen.Pt(-327.68, 122.16)
	}
	return r.Start.point()
}

// GetAcceleration returns the acceleration in m/s².
func (r *AccelRejoin) GetAcceleration() float64 {
	return orDefault(r.Acceleration, 1.5)
}

func (r *AccelRejoin) Validate() error {
	if (r.Source == "") == (r.Vertices == "") {
		return invalidf("source", "exactly one of source and vertices must be set")
	}
	if r.SeedLimit < 0 {
		return invalidf("seed_limit", "must be non-negative, got %d", r.SeedLimit)
	}
	if !trajgen.PoseAt(r.GetStart(), 0).IsFinite() {
		return invalidf("start", "not finite")
	}
	return positive("acceleration", r.Acceleration)
}

func (r *AccelRejoin) seed(cfg *Config) ([]xosc.Vertex, error) {
	if r.Vertices != "" {
		return xosc.ReadVerticesFile(cfg.resolve(r.Vertices))
	}
	doc, err := xosc.ReadDocument(cfg.resolve(r.Source))
	if err != nil {
		return nil, err
	}
	return doc.Trajectory(r.GetTrajectory())
}

func (r *AccelRejoin) Build(cfg *Config) ([]trajgen.Trajectory, error) {
	vs, err := r.seed(cfg)
	if err != nil {
		return nil, err
	}
	pl, err := xosc.SeedPolyline(vs, r.SeedLimit)
	if err != nil {
		return nil, err
	}

	var prims []trajgen.Primitive
	start, first := r.GetStart(), pl.Start().Point()
	if d := start.Distance(first); d > 1e-9 {
		prims = append(prims, trajgen.LineBetween(start, first))
	}
	prims = append(prims, pl)

	profile := trajgen.ConstantAcceleration{Cruise: cfg.GetSpeed(), Accel: r.GetAcceleration()}
	if d := start.Distance(first); d < profile.AccelDistance() {
		monitoring.Logf("scenario: approach of %.2f m is shorter than the %.2f m needed to reach cruise speed", d, profile.AccelDistance())
	}
	tr, err := cfg.compositor(profile).Compose(prims)
	if err != nil {
		return nil, err
	}
	return []trajgen.Trajectory{tr}, nil
}
