// Package preview renders trajectories for a quick visual check: static PNG
// plots of the driven path and the speed over time, and an interactive HTML
// page.
package preview

import (
	"errors"
	"image/color"

	"github.com/scenariolab/trajgen"
)

var errEmpty = errors.New("preview: no samples to plot")

func checkSamples(trs []trajgen.Trajectory) error {
	for _, tr := range trs {
		if tr.Len() > 0 {
			return nil
		}
	}
	return errEmpty
}

// palette returns n distinct colours spread around the hue circle.
func palette(n int) []color.Color {
	if n <= 0 {
		return nil
	}
	colors := make([]color.Color, n)
	for i := range n {
		r, g, b := hslToRGB(float64(i)/float64(n), 0.7, 0.5)
		colors[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return colors
}

func hslToRGB(h, s, l float64) (r, g, b uint8) {
	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	return uint8(hueToRGB(p, q, h+1.0/3.0) * 255), uint8(hueToRGB(p, q, h) * 255), uint8(hueToRGB(p, q, h-1.0/3.0) * 255)
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t += 1
	}
	if t > 1 {
		t -= 1
	}
	switch {
	case t < 1.0/6.0:
		return p + (q-p)*6*t
	case t < 0.5:
		return q
	case t < 2.0/3.0:
		return p + (q-p)*(2.0/3.0-t)*6
	}
	return p
}
