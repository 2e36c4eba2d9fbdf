package opendrive

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/beevik/etree"

	"github.com/scenariolab/trajgen"
	"github.com/scenariolab/trajgen/internal/monitoring"
)

// Extract returns a new document holding the seed roads, every road of each
// junction a seed belongs to, those junctions and the original header.
//
// Road links that point outside the subset are removed so that players do not
// look for roads that no longer exist. Junction links are kept. Unknown seeds
// are logged and skipped; a subset without any road is an error.
func Extract(doc *etree.Document, seeds []string) (*etree.Document, error) {
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("opendrive: extract: empty document")
	}
	roads := map[string]*etree.Element{}
	for _, e := range root.SelectElements("road") {
		roads[e.SelectAttrValue("id", "")] = e
	}
	junctions := map[string]*etree.Element{}
	for _, e := range root.SelectElements("junction") {
		junctions[e.SelectAttrValue("id", "")] = e
	}

	keep := map[string]bool{}
	involved := map[string]bool{}
	for _, id := range seeds {
		r, ok := roads[id]
		if !ok {
			monitoring.Logf("opendrive: extract: seed road %s not in map", id)
			continue
		}
		keep[id] = true
		if j := r.SelectAttrValue("junction", "-1"); j != "-1" && j != "" {
			involved[j] = true
		}
	}
	for jid := range involved {
		j, ok := junctions[jid]
		if !ok {
			monitoring.Logf("opendrive: extract: junction %s referenced but not defined", jid)
			continue
		}
		for _, c := range j.SelectElements("connection") {
			if id := c.SelectAttrValue("connectingRoad", ""); id != "" {
				keep[id] = true
			}
		}
	}
	if len(keep) == 0 {
		return nil, &trajgen.InputNotFoundError{What: "seed roads", ID: fmt.Sprint(seeds)}
	}

	out := etree.NewDocument()
	out.WriteSettings = doc.WriteSettings
	out.CreateProcInst("xml", `version="1.0" standalone="yes"`)
	nroot := out.CreateElement("OpenDRIVE")
	for _, a := range root.Attr {
		nroot.CreateAttr(a.FullKey(), a.Value)
	}
	if hdr := root.SelectElement("header"); hdr != nil {
		nroot.AddChild(hdr.Copy())
	}

	var nroads, nlinks int
	for _, e := range root.SelectElements("road") {
		if !keep[e.SelectAttrValue("id", "")] {
			continue
		}
		r := e.Copy()
		if link := r.SelectElement("link"); link != nil {
			for _, tag := range []string{"predecessor", "successor"} {
				item := link.SelectElement(tag)
				if item == nil || item.SelectAttrValue("elementType", "") != "road" {
					continue
				}
				if !keep[item.SelectAttrValue("elementId", "")] {
					link.RemoveChild(item)
					nlinks++
				}
			}
		}
		nroot.AddChild(r)
		nroads++
	}
	var njunctions int
	for _, e := range root.SelectElements("junction") {
		if involved[e.SelectAttrValue("id", "")] {
			nroot.AddChild(e.Copy())
			njunctions++
		}
	}
	out.Indent(2)
	monitoring.Logf("opendrive: extracted %d roads and %d junctions, cut %d boundary links", nroads, njunctions, nlinks)
	return out, nil
}

// WriteDocument writes doc to w.
func WriteDocument(w io.Writer, doc *etree.Document) error {
	_, err := doc.WriteTo(w)
	return err
}

// ExtractFile reads the map at in and writes the subset grown from seeds to
// out. Nothing is written on failure.
func ExtractFile(in, out string, seeds []string) error {
	doc, err := ReadDocument(in)
	if err != nil {
		return err
	}
	sub, err := Extract(doc, seeds)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := WriteDocument(&buf, sub); err != nil {
		return err
	}
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return &trajgen.IOError{Op: "write", Path: out, Err: err}
	}
	return nil
}
