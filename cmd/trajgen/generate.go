package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/scenariolab/trajgen"
	"github.com/scenariolab/trajgen/internal/preview"
	"github.com/scenariolab/trajgen/scenario"
	"github.com/scenariolab/trajgen/xosc"
)

func runGenerate(args []string) error {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	configPath := fs.String("config", envOr("TRAJGEN_CONFIG", ""), "scenario config (.json)")
	outDir := fs.String("out", envOr("TRAJGEN_OUT_DIR", "."), "output directory")
	step := fs.Float64("step", envFloat("TRAJGEN_STEP"), "sampling step in seconds, overrides the config when > 0")
	limit := fs.Int("limit", 0, "keep only the first n samples of every trajectory when > 0")
	opts := outputs{}
	fs.BoolVar(&opts.json, "json", false, "also write <name>.json records")
	fs.BoolVar(&opts.png, "png", false, "also write path and speed plots")
	fs.BoolVar(&opts.html, "html", false, "also write an interactive preview page")
	fs.BoolVar(&opts.xosc, "xosc", false, "also write an OpenSCENARIO document")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *configPath == "" {
		return errors.New("-config is required")
	}
	if *limit < 0 {
		return fmt.Errorf("-limit must be non-negative, got %d", *limit)
	}

	cfg, err := scenario.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	if *step > 0 {
		cfg.Step = step
	}
	trs, err := scenario.Build(cfg)
	if err != nil {
		return err
	}
	for i := range trs {
		trs[i] = trs[i].Limit(*limit)
	}
	if len(trs) > 1 {
		reportMeeting(trs)
	}

	files, err := render(cfg, trs, opts, time.Now())
	if err != nil {
		return err
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return &trajgen.IOError{Op: "mkdir", Path: *outDir, Err: err}
	}
	if err := writeAll(*outDir, files); err != nil {
		return err
	}
	for _, tr := range trs {
		log.Printf("%s: %d vertices, %.2f s", tr.Name, tr.Len(), tr.Duration())
	}
	return nil
}

type outputs struct {
	json, png, html, xosc bool
}

// artifact is an output file rendered in memory.
type artifact struct {
	name string
	data []byte
}

// render produces every requested output before anything touches the disk.
func render(cfg *scenario.Config, trs []trajgen.Trajectory, opts outputs, now time.Time) ([]artifact, error) {
	var files []artifact
	add := func(name string, fn func(w io.Writer) error) error {
		var buf bytes.Buffer
		if err := fn(&buf); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		files = append(files, artifact{name: name, data: buf.Bytes()})
		return nil
	}

	for _, tr := range trs {
		if err := add(tr.Name+".txt", func(w io.Writer) error { return xosc.WriteVertices(w, tr) }); err != nil {
			return nil, err
		}
		if opts.json {
			if err := add(tr.Name+".json", func(w io.Writer) error { return xosc.WriteRecords(w, xosc.Records(tr)) }); err != nil {
				return nil, err
			}
		}
	}

	name := cfg.GetName()
	if opts.png {
		if err := add(name+"_path.png", func(w io.Writer) error { return preview.RenderPathPNG(w, trs) }); err != nil {
			return nil, err
		}
		if err := add(name+"_speed.png", func(w io.Writer) error { return preview.RenderSpeedPNG(w, trs) }); err != nil {
			return nil, err
		}
	}
	if opts.html {
		if err := add(name+".html", func(w io.Writer) error { return preview.WriteHTML(w, name, trs) }); err != nil {
			return nil, err
		}
	}
	if opts.xosc {
		if err := add(name+".xosc", func(w io.Writer) error { return xosc.WriteScenario(w, cfg.Scenario(trs, now)) }); err != nil {
			return nil, err
		}
	}
	return files, nil
}

// writeAll writes files into dir. If any write fails the files written so far
// are removed again.
func writeAll(dir string, files []artifact) error {
	var written []string
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if err := os.WriteFile(path, f.data, 0o644); err != nil {
			for _, p := range written {
				os.Remove(p)
			}
			return &trajgen.IOError{Op: "write", Path: path, Err: err}
		}
		written = append(written, path)
		log.Printf("wrote %s", path)
	}
	return nil
}

// reportMeeting logs how close the first trajectory comes to the start of
// each of the others.
func reportMeeting(trs []trajgen.Trajectory) {
	first := trs[0]
	for _, other := range trs[1:] {
		if other.Len() == 0 {
			continue
		}
		d, at := first.MinDistance(other.Samples[0].Pose.Point())
		log.Printf("%s passes %s at %.2f m (t=%.2f s)", first.Name, other.Name, d, at.Time)
	}
}
