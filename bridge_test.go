package trajgen

import (
	"math"
	"testing"
)

func TestCubicBezArclen(t *testing.T) {
	// y = x^2
	c := CubicBez{
		Pt(0.0, 0.0),
		Pt(1.0/3.0, 0.0),
		Pt(2.0/3.0, 1.0/3.0),
		Pt(1.0, 1.0),
	}
	trueArclen := 0.5*math.Sqrt(5.0) + 0.25*math.Log(2.0+math.Sqrt(5.0))
	diff(t, trueArclen, c.Arclen(), approx(1e-12))
	diff(t, 0.0, c.ArclenAt(0), approx(0))
}

func TestCubicBezDeriv(t *testing.T) {
	c := CubicBez{
		Pt(0.0, 0.0),
		Pt(1.0/3.0, 0.0),
		Pt(2.0/3.0, 1.0/3.0),
		Pt(1.0, 1.0),
	}
	const n = 10
	const delta = 1e-6
	for i := range n + 1 {
		ts := float64(i) / float64(n)
		dApprox := c.Eval(ts + delta).Sub(c.Eval(ts)).Mul(1.0 / delta)
		if l := c.Deriv(ts).Sub(dApprox).Hypot(); l >= delta*2 {
			t.Errorf("got difference of %g, want at most %g", l, delta*2)
		}
	}
}

func TestCubicBezParamAt(t *testing.T) {
	// y = x^2 / 100
	c := CubicBez{
		Pt(0.0, 0.0),
		Pt(100.0/3.0, 0.0),
		Pt(200.0/3.0, 100.0/3.0),
		Pt(100.0, 100.0),
	}
	trueArclen := 100.0 * (0.5*math.Sqrt(5.0) + 0.25*math.Log(2.0+math.Sqrt(5.0)))
	for _, accuracy := range []float64{1e-3, 1e-6, 1e-9} {
		for j := range 11 {
			arc := float64(j) / 10 * trueArclen
			tt := c.ParamAt(arc, trueArclen, accuracy)
			diff(t, arc, c.ArclenAt(tt), approx(accuracy*10))
		}
	}
	diff(t, 1.0, c.ParamAt(trueArclen+1, trueArclen, 1e-9), approx(0))
}

func TestCubicBezTangents(t *testing.T) {
	c := CubicBez{Pt(0, 0), Pt(0, 0), Pt(1, 1), Pt(2, 0)}
	d0, d1 := c.Tangents()
	diff(t, Vec(1, 1), d0, approx(0))
	diff(t, Vec(1, -1), d1, approx(0))
}

func TestSolveITP(t *testing.T) {
	f := func(x float64) float64 { return x*x*x - x - 2.0 }
	x := SolveITP(f, 1.0, 2.0, 1e-12, 0, 0.2, f(1.0), f(2.0))
	if n := math.Abs(f(x)); n > 6e-12 {
		t.Errorf("%v > 6e-12", n)
	}
}

func TestBridgeStraight(t *testing.T) {
	b := NewBridge(NewPose(0, 0, 0), NewPose(10, 0, 0), DefaultBridgeHandle)
	if err := b.Validate(); err != nil {
		t.Fatal(err)
	}
	diff(t, 10.0, b.Length(), approx(1e-9))
	for _, s := range []float64{0, 2.5, 4, 10} {
		assertPose(t, b.PoseAt(s), NewPose(s, 0, 0), 1e-7)
	}
}

func TestBridgeTangents(t *testing.T) {
	from := NewPose(-340, 100, Rad(-135))
	to := NewPose(-345, 92, Rad(-80))
	b := NewBridge(from, to, DefaultBridgeHandle)

	gap := from.Point().Distance(to.Point())
	diff(t, gap/3, b.Curve.P1.Distance(b.Curve.P0), approx(1e-12))
	assertPose(t, b.PoseAt(0), from, 1e-9)
	assertPose(t, b.PoseAt(b.Length()), to, 1e-9)
	if b.Length() < gap {
		t.Errorf("bridge length %g below gap %g", b.Length(), gap)
	}

	// Arc length is monotone along the bridge.
	prev := b.PoseAt(0).Point()
	var walked float64
	for i := 1; i <= 100; i++ {
		p := b.PoseAt(b.Length() * float64(i) / 100).Point()
		walked += p.Distance(prev)
		prev = p
	}
	diff(t, b.Length(), walked, approx(1e-3))
}
