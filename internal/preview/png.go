package preview

import (
	"fmt"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/scenariolab/trajgen"
)

func newPlot(title, x, y string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = x
	p.Y.Label.Text = y
	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10
	return p
}

func addLines(p *plot.Plot, trs []trajgen.Trajectory, xy func(trajgen.Sample) plotter.XY) error {
	colors := palette(len(trs))
	for i, tr := range trs {
		if tr.Len() == 0 {
			continue
		}
		pts := make(plotter.XYs, tr.Len())
		for j, s := range tr.Samples {
			pts[j] = xy(s)
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.Color = colors[i]
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(tr.Name, line)
	}
	return nil
}

func pathPlot(trs []trajgen.Trajectory) (*plot.Plot, error) {
	if err := checkSamples(trs); err != nil {
		return nil, err
	}
	p := newPlot("Trajectories", "X (m)", "Y (m)")
	if err := addLines(p, trs, func(s trajgen.Sample) plotter.XY {
		return plotter.XY{X: s.Pose.X, Y: s.Pose.Y}
	}); err != nil {
		return nil, err
	}
	equalAxes(p)
	return p, nil
}

func speedPlot(trs []trajgen.Trajectory) (*plot.Plot, error) {
	if err := checkSamples(trs); err != nil {
		return nil, err
	}
	p := newPlot("Speed", "Time (s)", "Speed (m/s)")
	if err := addLines(p, trs, func(s trajgen.Sample) plotter.XY {
		return plotter.XY{X: s.Time, Y: s.Velocity}
	}); err != nil {
		return nil, err
	}
	return p, nil
}

// equalAxes widens the narrower axis range so one metre is as long on both.
func equalAxes(p *plot.Plot) {
	dx, dy := p.X.Max-p.X.Min, p.Y.Max-p.Y.Min
	if dx > dy {
		mid := (p.Y.Min + p.Y.Max) / 2
		p.Y.Min, p.Y.Max = mid-dx/2, mid+dx/2
	} else {
		mid := (p.X.Min + p.X.Max) / 2
		p.X.Min, p.X.Max = mid-dy/2, mid+dy/2
	}
}

func renderPNG(w io.Writer, p *plot.Plot, width, height vg.Length) error {
	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

// RenderPathPNG plots the driven path of every trajectory in the x-y plane.
// Both axes share a scale so that curves keep their shape.
func RenderPathPNG(w io.Writer, trs []trajgen.Trajectory) error {
	p, err := pathPlot(trs)
	if err != nil {
		return err
	}
	return renderPNG(w, p, 8*vg.Inch, 8*vg.Inch)
}

// RenderSpeedPNG plots speed over time.
func RenderSpeedPNG(w io.Writer, trs []trajgen.Trajectory) error {
	p, err := speedPlot(trs)
	if err != nil {
		return err
	}
	return renderPNG(w, p, 14*vg.Inch, 6*vg.Inch)
}

// WritePathPNG saves the path plot to path.
func WritePathPNG(path string, trs []trajgen.Trajectory) error {
	p, err := pathPlot(trs)
	if err != nil {
		return err
	}
	if err := p.Save(8*vg.Inch, 8*vg.Inch, path); err != nil {
		return &trajgen.IOError{Op: "write", Path: path, Err: fmt.Errorf("save path plot: %w", err)}
	}
	return nil
}

// WriteSpeedPNG saves the speed plot to path.
func WriteSpeedPNG(path string, trs []trajgen.Trajectory) error {
	p, err := speedPlot(trs)
	if err != nil {
		return err
	}
	if err := p.Save(14*vg.Inch, 6*vg.Inch, path); err != nil {
		return &trajgen.IOError{Op: "write", Path: path, Err: fmt.Errorf("save speed plot: %w", err)}
	}
	return nil
}
