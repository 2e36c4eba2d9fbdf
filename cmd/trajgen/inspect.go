package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/scenariolab/trajgen/internal/units"
	"github.com/scenariolab/trajgen/xosc"
)

type summary struct {
	Count              int
	Start, Duration    float64
	MinSpeed, MaxSpeed float64
	Length             float64
}

func summarize(vs []xosc.Vertex) summary {
	s := summary{Count: len(vs)}
	if len(vs) == 0 {
		return s
	}
	s.Start = vs[0].Time
	s.Duration = vs[len(vs)-1].Time - vs[0].Time
	s.MinSpeed, s.MaxSpeed = math.Inf(1), math.Inf(-1)
	for i, r := range xosc.RecordsFromVertices(vs, false) {
		if i > 0 {
			s.Length += vs[i].Pose.Point().Distance(vs[i-1].Pose.Point())
			s.MinSpeed = min(s.MinSpeed, r.Velocity)
		}
		s.MaxSpeed = max(s.MaxSpeed, r.Velocity)
	}
	if len(vs) == 1 {
		s.MinSpeed = 0
	}
	return s
}

func (s summary) print(w io.Writer, unit string) {
	fmt.Fprintf(w, "vertices: %d\n", s.Count)
	fmt.Fprintf(w, "time:     %.2f s .. %.2f s (%.2f s)\n", s.Start, s.Start+s.Duration, s.Duration)
	fmt.Fprintf(w, "length:   %.2f m\n", s.Length)
	fmt.Fprintf(w, "speed:    %.2f .. %.2f %s\n", units.ConvertSpeed(s.MinSpeed, unit), units.ConvertSpeed(s.MaxSpeed, unit), unit)
}

func runInspect(args []string) error {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	in := fs.String("in", "", "vertex list file")
	unit := fs.String("units", units.KMPH, "speed units ("+units.GetValidUnitsString()+")")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		return errors.New("-in is required")
	}
	if !units.IsValid(*unit) {
		return fmt.Errorf("unknown units %q, want one of %s", *unit, units.GetValidUnitsString())
	}
	vs, err := xosc.ReadVerticesFile(*in)
	if err != nil {
		return err
	}
	summarize(vs).print(os.Stdout, *unit)
	return nil
}
