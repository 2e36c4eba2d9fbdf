package preview

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/scenariolab/trajgen"
)

// WriteHTML renders an interactive page with the paths as a scatter chart
// and the speeds as a line chart, one series per trajectory.
func WriteHTML(w io.Writer, title string, trs []trajgen.Trajectory) error {
	if err := checkSamples(trs); err != nil {
		return err
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: "Paths", Subtitle: fmt.Sprintf("%d trajectories", len(trs))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Scale: opts.Bool(true), Name: "X (m)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Scale: opts.Bool(true), Name: "Y (m)", NameLocation: "middle", NameGap: 30}),
	)

	speed := charts.NewLine()
	speed.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "400px"}),
		charts.WithTitleOpts(opts.Title{Title: "Speed"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "t (s)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "v (m/s)", NameLocation: "middle", NameGap: 30}),
	)

	for _, tr := range trs {
		pts := make([]opts.ScatterData, 0, tr.Len())
		vs := make([]opts.LineData, 0, tr.Len())
		for _, s := range tr.Samples {
			pts = append(pts, opts.ScatterData{Value: []interface{}{s.Pose.X, s.Pose.Y, s.Time}})
			vs = append(vs, opts.LineData{Value: []interface{}{s.Time, s.Velocity}})
		}
		scatter.AddSeries(tr.Name, pts, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 4}))
		speed.AddSeries(tr.Name, vs)
	}

	page := components.NewPage()
	page.PageTitle = title
	page.AddCharts(scatter, speed)
	return page.Render(w)
}

// WriteHTMLFile renders the page to path. Nothing is written on failure.
func WriteHTMLFile(path, title string, trs []trajgen.Trajectory) error {
	var buf bytes.Buffer
	if err := WriteHTML(&buf, title, trs); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return &trajgen.IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}
