package scenario

import (
	"time"

	"github.com/scenariolab/trajgen"
	"github.com/scenariolab/trajgen/xosc"
)

func stationary(tr trajgen.Trajectory) bool {
	for _, s := range tr.Samples {
		if s.Stage != trajgen.StageStationary {
			return false
		}
	}
	return true
}

// Scenario describes built trajectories as an OpenSCENARIO document. Moving
// trajectories become trajectory-following entities; stationary ones are
// teleported to their pose.
func (c *Config) Scenario(trs []trajgen.Trajectory, now time.Time) xosc.Scenario {
	sc := xosc.Scenario{Date: now, Description: c.Recipe, Author: "trajgen"}
	if o := c.XOSC; o != nil {
		if o.Description != "" {
			sc.Description = o.Description
		}
		if o.Author != "" {
			sc.Author = o.Author
		}
		sc.RoadNetwork = o.RoadNetwork
	}
	for _, tr := range trs {
		e := xosc.Entity{Name: tr.Name, CatalogEntry: c.CatalogEntry(tr.Name)}
		switch {
		case tr.Len() == 0:
			continue
		case stationary(tr):
			e.Pose = tr.Samples[0].Pose
		default:
			e.Trajectory = tr
			e.InitialSpeed = tr.Samples[0].Velocity
		}
		sc.Entities = append(sc.Entities, e)
	}
	return sc
}
