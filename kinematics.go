package trajgen

import (
	"fmt"
	"math"
)

// Stage labels the phase of motion a sample belongs to.
type Stage uint8

const (
	StageStationary Stage = iota
	StageAccelerating
	StageCruising
	StageBlending
)

func (s Stage) String() string {
	switch s {
	case StageStationary:
		return "stationary"
	case StageAccelerating:
		return "accelerating"
	case StageCruising:
		return "cruising"
	case StageBlending:
		return "blending"
	default:
		return fmt.Sprintf("Stage(%d)", uint8(s))
	}
}

// Motion is the state of a one-dimensional motion along the path coordinate.
type Motion struct {
	Time         float64
	Distance     float64
	Velocity     float64
	Acceleration float64
	Stage        Stage
}

// Profile relates elapsed distance and elapsed time along a path.
type Profile interface {
	// AtDistance returns the motion once d metres have been covered.
	AtDistance(d float64) (Motion, error)
	// AtTime returns the motion t seconds after the start.
	AtTime(t float64) (Motion, error)
}

// ConstantAcceleration starts from rest, accelerates at Accel until it reaches
// Cruise, then holds Cruise.
type ConstantAcceleration struct {
	Cruise float64 // m/s
	Accel  float64 // m/s²
}

var _ Profile = ConstantAcceleration{}

const constantAccelerationName = "constant-acceleration"

// AccelDistance returns V²/(2a), the distance needed to reach cruise speed.
func (p ConstantAcceleration) AccelDistance() float64 {
	return p.Cruise * p.Cruise / (2 * p.Accel)
}

// AccelDuration returns V/a, the time needed to reach cruise speed.
func (p ConstantAcceleration) AccelDuration() float64 {
	return p.Cruise / p.Accel
}

func (p ConstantAcceleration) check(d float64) error {
	switch {
	case !finite(p.Cruise, p.Accel):
		return &DomainError{Profile: constantAccelerationName, Distance: d, Reason: "non-finite parameters"}
	case p.Accel <= 0:
		return &DomainError{Profile: constantAccelerationName, Distance: d, Reason: fmt.Sprintf("acceleration %g is not positive", p.Accel)}
	case p.Cruise <= 0:
		return &DomainError{Profile: constantAccelerationName, Distance: d, Reason: fmt.Sprintf("cruise speed %g is not positive", p.Cruise)}
	}
	return nil
}

func (p ConstantAcceleration) AtDistance(d float64) (Motion, error) {
	if !finite(d) || d < 0 {
		return Motion{}, &DomainError{Profile: constantAccelerationName, Distance: d, Reason: "distance must be non-negative"}
	}
	if d == 0 {
		// No division: t = sqrt(2d/a) is undefined for a = 0.
		return Motion{Acceleration: max(p.Accel, 0), Stage: StageAccelerating}, nil
	}
	if err := p.check(d); err != nil {
		return Motion{}, err
	}
	if d <= p.AccelDistance() {
		t := math.Sqrt(2 * d / p.Accel)
		return Motion{Time: t, Distance: d, Velocity: min(p.Accel*t, p.Cruise), Acceleration: p.Accel, Stage: StageAccelerating}, nil
	}
	t := p.AccelDuration() + (d-p.AccelDistance())/p.Cruise
	return Motion{Time: t, Distance: d, Velocity: p.Cruise, Stage: StageCruising}, nil
}

func (p ConstantAcceleration) AtTime(t float64) (Motion, error) {
	if !finite(t) || t < 0 {
		return Motion{}, &DomainError{Profile: constantAccelerationName, Reason: fmt.Sprintf("time %g must be non-negative", t)}
	}
	if t == 0 {
		return Motion{Acceleration: max(p.Accel, 0), Stage: StageAccelerating}, nil
	}
	if err := p.check(0); err != nil {
		return Motion{}, err
	}
	if t <= p.AccelDuration() {
		return Motion{Time: t, Distance: 0.5 * p.Accel * t * t, Velocity: p.Accel * t, Acceleration: p.Accel, Stage: StageAccelerating}, nil
	}
	d := p.AccelDistance() + p.Cruise*(t-p.AccelDuration())
	return Motion{Time: t, Distance: d, Velocity: p.Cruise, Stage: StageCruising}, nil
}

// ConstantVelocity moves at Speed from the first instant.
type ConstantVelocity struct {
	Speed float64 // m/s
}

var _ Profile = ConstantVelocity{}

const constantVelocityName = "constant-velocity"

func (p ConstantVelocity) stage() Stage {
	if p.Speed == 0 {
		return StageStationary
	}
	return StageCruising
}

func (p ConstantVelocity) AtDistance(d float64) (Motion, error) {
	if !finite(d) || d < 0 {
		return Motion{}, &DomainError{Profile: constantVelocityName, Distance: d, Reason: "distance must be non-negative"}
	}
	if d == 0 {
		return Motion{Velocity: p.Speed, Stage: p.stage()}, nil
	}
	if !finite(p.Speed) || p.Speed <= 0 {
		return Motion{}, &DomainError{Profile: constantVelocityName, Distance: d, Reason: fmt.Sprintf("speed %g is not positive", p.Speed)}
	}
	return Motion{Time: d / p.Speed, Distance: d, Velocity: p.Speed, Stage: StageCruising}, nil
}

func (p ConstantVelocity) AtTime(t float64) (Motion, error) {
	if !finite(t, p.Speed) || t < 0 || p.Speed < 0 {
		return Motion{}, &DomainError{Profile: constantVelocityName, Reason: fmt.Sprintf("time %g, speed %g out of range", t, p.Speed)}
	}
	return Motion{Time: t, Distance: p.Speed * t, Velocity: p.Speed, Stage: p.stage()}, nil
}
