package trajgen

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/scenariolab/trajgen/internal/monitoring"
)

func init() {
	monitoring.SetLogger(nil)
}

func diff(t *testing.T, want, got any, opts ...cmp.Option) {
	t.Helper()
	if d := cmp.Diff(want, got, opts...); d != "" {
		t.Error(d)
	}
}

// approx compares floats, including those nested in poses and samples, to
// within an absolute tolerance.
func approx(tol float64) cmp.Option {
	return cmpopts.EquateApprox(0, tol)
}

func assertNear(t *testing.T, p0 Point, p1 Point, epsilon float64) {
	t.Helper()
	if d := p1.Sub(p0).Hypot(); d > epsilon {
		t.Fatalf("got %s, expected %s", p0, p1)
	}
}

func assertPose(t *testing.T, got, want Pose, epsilon float64) {
	t.Helper()
	assertNear(t, got.Point(), want.Point(), epsilon)
	if d := AngleDiff(got.H, want.H); d > epsilon || d < -epsilon {
		t.Fatalf("got heading %g, expected %g", got.H, want.H)
	}
}
