// Package opendrive reads the plan view of OpenDRIVE road networks and turns
// road reference lines into trajectory primitives. It also cuts a consistent
// subset of roads out of a large map.
//
// Only the geometry needed to drive along a road's reference line is read:
// line, arc and spiral records. Lanes, elevation and objects are ignored.
package opendrive

import (
	"fmt"
	"slices"

	"github.com/scenariolab/trajgen"
)

// GeometryKind is the shape of one plan-view record.
type GeometryKind string

const (
	GeometryLine   GeometryKind = "line"
	GeometryArc    GeometryKind = "arc"
	GeometrySpiral GeometryKind = "spiral"
)

// Geometry is one <geometry> record of a road's plan view. Curvature is used
// by arcs, CurvStart and CurvEnd by spirals.
type Geometry struct {
	Kind      GeometryKind `json:"type"`
	S         float64      `json:"s"`
	X         float64      `json:"x"`
	Y         float64      `json:"y"`
	Hdg       float64      `json:"hdg"`
	Length    float64      `json:"length"`
	Curvature float64      `json:"curvature,omitempty"`
	CurvStart float64      `json:"curv_start,omitempty"`
	CurvEnd   float64      `json:"curv_end,omitempty"`
}

// Primitive returns the primitive that drives along the record in the
// direction of increasing s.
func (g Geometry) Primitive() (trajgen.Primitive, error) {
	from := trajgen.NewPose(g.X, g.Y, g.Hdg)
	var p trajgen.Primitive
	switch g.Kind {
	case GeometryLine, "":
		p = trajgen.Line{From: from, Len: g.Length}
	case GeometryArc:
		p = trajgen.Arc{From: from, Len: g.Length, K: g.Curvature}
	case GeometrySpiral:
		p = trajgen.Clothoid{From: from, K0: g.CurvStart, K1: g.CurvEnd, Len: g.Length}
	default:
		return nil, fmt.Errorf("geometry at s=%g: unsupported type %q", g.S, g.Kind)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("geometry at s=%g: %w", g.S, err)
	}
	return p, nil
}

// Link is a predecessor or successor reference.
type Link struct {
	ElementType  string `json:"element_type"`
	ElementID    string `json:"element_id"`
	ContactPoint string `json:"contact_point,omitempty"`
}

// Road is the reference line of one road. Junction is empty for roads outside
// junctions.
type Road struct {
	ID          string     `json:"id"`
	Junction    string     `json:"junction,omitempty"`
	Length      float64    `json:"length,omitempty"`
	Geometry    []Geometry `json:"geometry"`
	Predecessor *Link      `json:"predecessor,omitempty"`
	Successor   *Link      `json:"successor,omitempty"`
}

// Primitives returns the road's plan view as primitives in driving order.
// Reversed roads are driven from the last record to the first, each record
// backwards with its heading turned by π.
func (r Road) Primitives(reverse bool) ([]trajgen.Primitive, error) {
	if len(r.Geometry) == 0 {
		return nil, fmt.Errorf("road %s: no plan-view geometry", r.ID)
	}
	out := make([]trajgen.Primitive, 0, len(r.Geometry))
	for _, g := range r.Geometry {
		p, err := g.Primitive()
		if err != nil {
			return nil, fmt.Errorf("road %s: %w", r.ID, err)
		}
		out = append(out, p)
	}
	if !reverse {
		return out, nil
	}
	slices.Reverse(out)
	for i, p := range out {
		out[i] = p.(trajgen.Reverser).Reverse()
	}
	return out, nil
}

// Connection joins an incoming road to a connecting road inside a junction.
type Connection struct {
	ID             string
	IncomingRoad   string
	ConnectingRoad string
	ContactPoint   string
}

// Junction is a <junction> record.
type Junction struct {
	ID          string
	Name        string
	Connections []Connection
}

// ConnectingRoads returns the ids of the roads that make up the junction.
func (j Junction) ConnectingRoads() []string {
	var out []string
	for _, c := range j.Connections {
		if c.ConnectingRoad != "" && !slices.Contains(out, c.ConnectingRoad) {
			out = append(out, c.ConnectingRoad)
		}
	}
	return out
}
