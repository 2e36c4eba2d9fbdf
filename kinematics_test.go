package trajgen

import (
	"errors"
	"fmt"
	"math"
	"testing"
)

func TestConstantAccelerationMonotonic(t *testing.T) {
	for _, p := range []ConstantAcceleration{
		{Cruise: 15 / 3.6, Accel: 1.5},
		{Cruise: 30 / 3.6, Accel: 3.47},
		{Cruise: 1.4, Accel: 2},
		{Cruise: 20, Accel: 0.3},
	} {
		t.Run(fmt.Sprintf("V=%.3g/a=%.3g", p.Cruise, p.Accel), func(t *testing.T) {
			var prev Motion
			for i := range 2001 {
				d := float64(i) * 0.05
				m, err := p.AtDistance(d)
				if err != nil {
					t.Fatal(err)
				}
				if m.Time < prev.Time || m.Velocity < prev.Velocity {
					t.Fatalf("not monotonic at d=%g: %+v after %+v", d, m, prev)
				}
				if m.Velocity > p.Cruise {
					t.Fatalf("velocity %g exceeds cruise %g", m.Velocity, p.Cruise)
				}
				prev = m
			}

			m, err := p.AtDistance(p.AccelDistance())
			if err != nil {
				t.Fatal(err)
			}
			diff(t, p.Cruise, m.Velocity, approx(1e-9))
			diff(t, p.AccelDuration(), m.Time, approx(1e-9))
		})
	}
}

func TestConstantAccelerationZeroDistance(t *testing.T) {
	for _, p := range []ConstantAcceleration{{Cruise: 4, Accel: 1.5}, {Cruise: 4, Accel: 0}, {}} {
		m, err := p.AtDistance(0)
		if err != nil {
			t.Fatalf("%+v: %v", p, err)
		}
		if m.Time != 0 || m.Velocity != 0 || math.IsNaN(m.Acceleration) {
			t.Errorf("%+v: got %+v at d=0", p, m)
		}
	}
}

func TestConstantAccelerationDomain(t *testing.T) {
	tests := []struct {
		name string
		p    ConstantAcceleration
		d    float64
	}{
		{"zero acceleration", ConstantAcceleration{Cruise: 4, Accel: 0}, 1},
		{"negative acceleration", ConstantAcceleration{Cruise: 4, Accel: -1}, 1},
		{"zero cruise", ConstantAcceleration{Accel: 1}, 1},
		{"negative distance", ConstantAcceleration{Cruise: 4, Accel: 1}, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.p.AtDistance(tt.d)
			var de *DomainError
			if !errors.As(err, &de) || !errors.Is(err, ErrDomain) {
				t.Fatalf("got %v, want DomainError", err)
			}
			diff(t, tt.d, de.Distance)
		})
	}
}

func TestConstantAccelerationAtTimeInverse(t *testing.T) {
	p := ConstantAcceleration{Cruise: 15 / 3.6, Accel: 1.5}
	diff(t, 5.787, p.AccelDistance(), approx(1e-3))
	diff(t, 2.778, p.AccelDuration(), approx(1e-3))
	for _, tt := range []float64{0.3, 1, 2.7, 2.8, 5, 12} {
		m, err := p.AtTime(tt)
		if err != nil {
			t.Fatal(err)
		}
		back, err := p.AtDistance(m.Distance)
		if err != nil {
			t.Fatal(err)
		}
		diff(t, tt, back.Time, approx(1e-9))
		diff(t, m.Velocity, back.Velocity, approx(1e-9))
		diff(t, m.Stage, back.Stage)
	}
}

func TestConstantVelocity(t *testing.T) {
	p := ConstantVelocity{Speed: 30 / 3.6}
	m, err := p.AtDistance(13 * math.Pi)
	if err != nil {
		t.Fatal(err)
	}
	diff(t, 4.90, m.Time, approx(0.005))
	diff(t, StageCruising, m.Stage)

	m, err = p.AtTime(2)
	if err != nil {
		t.Fatal(err)
	}
	diff(t, 2*30/3.6, m.Distance, approx(1e-12))

	if _, err := (ConstantVelocity{}).AtDistance(1); !errors.Is(err, ErrDomain) {
		t.Errorf("got %v, want domain error for zero speed", err)
	}
	m, err = ConstantVelocity{}.AtTime(3)
	if err != nil {
		t.Fatal(err)
	}
	diff(t, StageStationary, m.Stage)
}

func TestStageString(t *testing.T) {
	diff(t, "accelerating", StageAccelerating.String())
	diff(t, "cruising", StageCruising.String())
	diff(t, "blending", StageBlending.String())
	diff(t, "stationary", StageStationary.String())
}
