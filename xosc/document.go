package xosc

import (
	"fmt"
	"io"
	"os"

	"github.com/beevik/etree"

	"github.com/scenariolab/trajgen"
	"github.com/scenariolab/trajgen/internal/monitoring"
)

// Document is a parsed OpenSCENARIO file used as a read-only source of seed
// geometry.
type Document struct {
	doc *etree.Document
}

// ParseDocument parses an OpenSCENARIO document from r.
func ParseDocument(r io.Reader) (*Document, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("xosc: parse document: %w", err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("xosc: parse document: no root element")
	}
	return &Document{doc: doc}, nil
}

// ReadDocument parses the OpenSCENARIO file at path.
func ReadDocument(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &trajgen.IOError{Op: "read", Path: path, Err: err}
	}
	defer f.Close()
	d, err := ParseDocument(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

func (d *Document) trajectories() []*etree.Element {
	return d.doc.FindElements("//Trajectory")
}

// TrajectoryNames returns the names of all trajectories in document order.
func (d *Document) TrajectoryNames() []string {
	var names []string
	for _, e := range d.trajectories() {
		if name := e.SelectAttrValue("name", ""); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// Trajectory returns the vertices of the trajectory whose name is exactly
// name. A missing trajectory yields an *trajgen.InputNotFoundError listing the
// names that do exist.
func (d *Document) Trajectory(name string) ([]Vertex, error) {
	for _, e := range d.trajectories() {
		if e.SelectAttrValue("name", "") != name {
			continue
		}
		vs, err := parseVertices(e)
		if err != nil {
			return nil, fmt.Errorf("trajectory %q: %w", name, err)
		}
		return vs, nil
	}
	return nil, &trajgen.InputNotFoundError{What: "trajectory", ID: name, Available: d.TrajectoryNames()}
}

// SeedPolyline turns recorded vertices into a primitive that re-traverses
// them. When limit is positive only the first limit vertices are used.
func SeedPolyline(vs []Vertex, limit int) (*trajgen.Polyline, error) {
	if limit > 0 && len(vs) > limit {
		monitoring.Logf("xosc: seed truncated from %d to %d vertices", len(vs), limit)
		vs = vs[:limit]
	}
	poses := make([]trajgen.Pose, len(vs))
	for i, v := range vs {
		poses[i] = v.Pose
	}
	pl := trajgen.NewPolyline(poses)
	if err := pl.Validate(); err != nil {
		return nil, fmt.Errorf("seed polyline: %w", err)
	}
	return pl, nil
}
