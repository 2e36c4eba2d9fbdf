package scenario

import (
	"github.com/scenariolab/trajgen"
	"github.com/scenariolab/trajgen/opendrive"
)

// RoadRoute drives along the reference lines of OpenDRIVE roads at constant
// speed. Roads come from an .xodr file or are listed inline; gaps between
// consecutive roads are bridged by the compositor.
type RoadRoute struct {
	XODR  string                `json:"xodr,omitempty"`
	Roads []opendrive.Road      `json:"roads,omitempty"`
	Route []opendrive.RouteStep `json:"route"`
}

func (r *RoadRoute) defaultSpeed() float64 { return 30 / 3.6 }

func (r *RoadRoute) Validate() error {
	if (r.XODR == "") == (len(r.Roads) == 0) {
		return invalidf("xodr", "exactly one of xodr and roads must be set")
	}
	if len(r.Route) == 0 {
		return invalidf("route", "no roads to drive")
	}
	for i, st := range r.Route {
		if st.Road == "" {
			return invalidf("route", "step %d has no road id", i)
		}
	}
	return nil
}

func (r *RoadRoute) network(cfg *Config) (*opendrive.Network, error) {
	if r.XODR != "" {
		return opendrive.Read(cfg.resolve(r.XODR))
	}
	return opendrive.NewNetwork(r.Roads)
}

func (r *RoadRoute) Build(cfg *Config) ([]trajgen.Trajectory, error) {
	n, err := r.network(cfg)
	if err != nil {
		return nil, err
	}
	prims, err := n.Route(r.Route)
	if err != nil {
		return nil, err
	}
	tr, err := cfg.compositor(trajgen.ConstantVelocity{Speed: cfg.GetSpeed()}).Compose(prims)
	if err != nil {
		return nil, err
	}
	return []trajgen.Trajectory{tr}, nil
}
