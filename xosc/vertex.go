// Package xosc reads and writes the OpenSCENARIO side of trajectory synthesis:
// the vertex-list text consumed by FollowTrajectoryAction polylines, seed
// trajectories looked up in existing scenario files, the JSON case records
// used by the test-bench, and complete scenario documents.
package xosc

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/beevik/etree"

	"github.com/scenariolab/trajgen"
	"github.com/scenariolab/trajgen/internal/monitoring"
)

// Vertex is one timestamped pose of a trajectory polyline.
type Vertex struct {
	Time float64
	Pose trajgen.Pose
}

// VerticesOf returns the vertices of tr.
func VerticesOf(tr trajgen.Trajectory) []Vertex {
	out := make([]Vertex, len(tr.Samples))
	for i, s := range tr.Samples {
		out[i] = Vertex{Time: s.Time, Pose: s.Pose}
	}
	return out
}

const vertexFormat = "<Vertex time=\"%.4f\">\n" +
	"    <Position><WorldPosition x=\"%.4f\" y=\"%.4f\" z=\"0\" h=\"%.4f\"/></Position>\n" +
	"</Vertex>\n"

// WriteVertices renders tr as a vertex list: one block per sample, time and
// position to four decimals, heading in radians.
func WriteVertices(w io.Writer, tr trajgen.Trajectory) error {
	return writeVertices(w, VerticesOf(tr))
}

func writeVertices(w io.Writer, vs []Vertex) error {
	bw := bufio.NewWriter(w)
	for _, v := range vs {
		if _, err := fmt.Fprintf(bw, vertexFormat, v.Time, v.Pose.X, v.Pose.Y, v.Pose.H); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteVerticesFile writes the vertex list of tr to path. Nothing is written
// if rendering fails.
func WriteVerticesFile(path string, tr trajgen.Trajectory) error {
	var buf bytes.Buffer
	if err := WriteVertices(&buf, tr); err != nil {
		return err
	}
	return writeFile(path, buf.Bytes())
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &trajgen.IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// ParseVertices reads a vertex list as produced by WriteVertices. Any
// surrounding whitespace and position attributes beyond x, y and h are
// accepted, so lists written by other tools parse as well.
func ParseVertices(r io.Reader) ([]Vertex, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	doc := etree.NewDocument()
	// A vertex list is a sequence of sibling elements, not a document.
	wrapped := make([]byte, 0, len(data)+32)
	wrapped = append(wrapped, "<Polyline>"...)
	wrapped = append(wrapped, data...)
	wrapped = append(wrapped, "</Polyline>"...)
	if err := doc.ReadFromBytes(wrapped); err != nil {
		return nil, fmt.Errorf("xosc: parse vertex list: %w", err)
	}
	return parseVertices(doc.Root())
}

// ReadVerticesFile reads a vertex list from path.
func ReadVerticesFile(path string) ([]Vertex, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &trajgen.IOError{Op: "read", Path: path, Err: err}
	}
	defer f.Close()
	vs, err := ParseVertices(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return vs, nil
}

func parseVertices(parent *etree.Element) ([]Vertex, error) {
	var out []Vertex
	for i, e := range parent.FindElements(".//Vertex") {
		v, ok, err := parseVertex(e)
		if err != nil {
			return nil, fmt.Errorf("xosc: vertex %d: %w", i, err)
		}
		if !ok {
			monitoring.Logf("xosc: vertex %d has no world position, skipped", i)
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func parseVertex(e *etree.Element) (Vertex, bool, error) {
	t, err := floatAttr(e, "time", "")
	if err != nil {
		return Vertex{}, false, err
	}
	wp := e.FindElement("./Position/WorldPosition")
	if wp == nil {
		return Vertex{}, false, nil
	}
	x, err := floatAttr(wp, "x", "")
	if err != nil {
		return Vertex{}, false, err
	}
	y, err := floatAttr(wp, "y", "")
	if err != nil {
		return Vertex{}, false, err
	}
	h, err := floatAttr(wp, "h", "0")
	if err != nil {
		return Vertex{}, false, err
	}
	return Vertex{Time: t, Pose: trajgen.NewPose(x, y, parsedHeading(h))}, true, nil
}

// headingTolerance is half of the last digit written for headings.
const headingTolerance = 5e-5

// parsedHeading normalizes a heading read from text. Rounding can push a
// heading of π just past it; such values are kept at +π instead of wrapping
// to the far end of the range.
func parsedHeading(h float64) float64 {
	h = trajgen.NormalizeAngle(h)
	if h < -math.Pi+headingTolerance {
		return math.Pi
	}
	return h
}

func floatAttr(e *etree.Element, key, dflt string) (float64, error) {
	s := e.SelectAttrValue(key, dflt)
	if s == "" {
		return 0, fmt.Errorf("<%s> missing %s attribute", e.Tag, key)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("<%s %s=%q>: %w", e.Tag, key, s, err)
	}
	return v, nil
}
