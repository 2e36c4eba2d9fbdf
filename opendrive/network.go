package opendrive

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strconv"

	"github.com/beevik/etree"

	"github.com/scenariolab/trajgen"
	"github.com/scenariolab/trajgen/internal/monitoring"
)

// Network is the plan view of an OpenDRIVE file, indexed by id.
type Network struct {
	Roads     map[string]Road
	Junctions map[string]Junction
}

// NewNetwork indexes roads given inline rather than read from a file.
func NewNetwork(roads []Road) (*Network, error) {
	n := &Network{Roads: make(map[string]Road, len(roads)), Junctions: map[string]Junction{}}
	for _, r := range roads {
		if r.ID == "" {
			return nil, fmt.Errorf("opendrive: road without id")
		}
		if _, dup := n.Roads[r.ID]; dup {
			return nil, fmt.Errorf("opendrive: duplicate road %s", r.ID)
		}
		n.Roads[r.ID] = r
	}
	return n, nil
}

// ParseDocument reads an OpenDRIVE document, keeping CDATA sections intact so
// that a geoReference survives a rewrite.
func ParseDocument(r io.Reader) (*etree.Document, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.PreserveCData = true
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("opendrive: parse: %w", err)
	}
	root := doc.Root()
	if root == nil || root.Tag != "OpenDRIVE" {
		return nil, fmt.Errorf("opendrive: parse: root element is not <OpenDRIVE>")
	}
	return doc, nil
}

// ReadDocument parses the OpenDRIVE file at path.
func ReadDocument(path string) (*etree.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &trajgen.IOError{Op: "read", Path: path, Err: err}
	}
	defer f.Close()
	doc, err := ParseDocument(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Parse reads the plan view of an OpenDRIVE document.
func Parse(r io.Reader) (*Network, error) {
	doc, err := ParseDocument(r)
	if err != nil {
		return nil, err
	}
	return FromDocument(doc)
}

// Read parses the OpenDRIVE file at path.
func Read(path string) (*Network, error) {
	doc, err := ReadDocument(path)
	if err != nil {
		return nil, err
	}
	n, err := FromDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return n, nil
}

// FromDocument indexes the roads and junctions of a parsed document.
func FromDocument(doc *etree.Document) (*Network, error) {
	root := doc.Root()
	n := &Network{Roads: map[string]Road{}, Junctions: map[string]Junction{}}
	for _, e := range root.SelectElements("road") {
		r, err := parseRoad(e)
		if err != nil {
			return nil, err
		}
		n.Roads[r.ID] = r
	}
	for _, e := range root.SelectElements("junction") {
		j := parseJunction(e)
		n.Junctions[j.ID] = j
	}
	return n, nil
}

func parseRoad(e *etree.Element) (Road, error) {
	r := Road{ID: e.SelectAttrValue("id", "")}
	if r.ID == "" {
		return Road{}, fmt.Errorf("opendrive: <road> without id")
	}
	if j := e.SelectAttrValue("junction", "-1"); j != "-1" {
		r.Junction = j
	}
	var err error
	if r.Length, err = floatAttr(e, "length"); err != nil {
		return Road{}, fmt.Errorf("road %s: %w", r.ID, err)
	}
	if link := e.SelectElement("link"); link != nil {
		r.Predecessor = parseLink(link.SelectElement("predecessor"))
		r.Successor = parseLink(link.SelectElement("successor"))
	}
	for _, ge := range e.FindElements("./planView/geometry") {
		g, ok, err := parseGeometry(ge)
		if err != nil {
			return Road{}, fmt.Errorf("road %s: %w", r.ID, err)
		}
		if !ok {
			monitoring.Logf("opendrive: road %s: skipping unsupported geometry at s=%s", r.ID, ge.SelectAttrValue("s", "?"))
			continue
		}
		r.Geometry = append(r.Geometry, g)
	}
	return r, nil
}

func parseLink(e *etree.Element) *Link {
	if e == nil {
		return nil
	}
	return &Link{
		ElementType:  e.SelectAttrValue("elementType", ""),
		ElementID:    e.SelectAttrValue("elementId", ""),
		ContactPoint: e.SelectAttrValue("contactPoint", ""),
	}
}

func parseGeometry(e *etree.Element) (Geometry, bool, error) {
	var g Geometry
	for _, f := range []struct {
		key string
		dst *float64
	}{{"s", &g.S}, {"x", &g.X}, {"y", &g.Y}, {"hdg", &g.Hdg}, {"length", &g.Length}} {
		v, err := floatAttr(e, f.key)
		if err != nil {
			return Geometry{}, false, err
		}
		*f.dst = v
	}
	var err error
	switch {
	case e.SelectElement("line") != nil:
		g.Kind = GeometryLine
	case e.SelectElement("arc") != nil:
		g.Kind = GeometryArc
		g.Curvature, err = floatAttr(e.SelectElement("arc"), "curvature")
	case e.SelectElement("spiral") != nil:
		g.Kind = GeometrySpiral
		sp := e.SelectElement("spiral")
		if g.CurvStart, err = floatAttr(sp, "curvStart"); err == nil {
			g.CurvEnd, err = floatAttr(sp, "curvEnd")
		}
	default:
		return Geometry{}, false, nil
	}
	if err != nil {
		return Geometry{}, false, err
	}
	return g, true, nil
}

func parseJunction(e *etree.Element) Junction {
	j := Junction{ID: e.SelectAttrValue("id", ""), Name: e.SelectAttrValue("name", "")}
	for _, c := range e.SelectElements("connection") {
		j.Connections = append(j.Connections, Connection{
			ID:             c.SelectAttrValue("id", ""),
			IncomingRoad:   c.SelectAttrValue("incomingRoad", ""),
			ConnectingRoad: c.SelectAttrValue("connectingRoad", ""),
			ContactPoint:   c.SelectAttrValue("contactPoint", ""),
		})
	}
	return j
}

func floatAttr(e *etree.Element, key string) (float64, error) {
	s := e.SelectAttrValue(key, "")
	if s == "" {
		return 0, fmt.Errorf("<%s> missing %s attribute", e.Tag, key)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("<%s %s=%q>: %w", e.Tag, key, s, err)
	}
	return v, nil
}

// RouteStep is one road of a route.
type RouteStep struct {
	Road    string `json:"road"`
	Reverse bool   `json:"reverse,omitempty"`
}

// Road returns the road with the given id.
func (n *Network) Road(id string) (Road, error) {
	r, ok := n.Roads[id]
	if !ok {
		return Road{}, &trajgen.InputNotFoundError{What: "road", ID: id, Available: slices.Collect(maps.Keys(n.Roads))}
	}
	return r, nil
}

// Route concatenates the primitives of the given roads in order. Consecutive
// roads need not meet exactly; the compositor bridges the gaps.
func (n *Network) Route(steps []RouteStep) ([]trajgen.Primitive, error) {
	var out []trajgen.Primitive
	for _, st := range steps {
		r, err := n.Road(st.Road)
		if err != nil {
			return nil, err
		}
		prims, err := r.Primitives(st.Reverse)
		if err != nil {
			return nil, err
		}
		out = append(out, prims...)
	}
	return out, nil
}
