package scenario

import (
	"math"

	"github.com/scenariolab/trajgen"
)

// CircleTTC circulates at constant speed so that the vehicle reaches the
// polar angle CollisionAngleDeg exactly TTC seconds after the start, then
// carries on for ExtraDuration seconds.
type CircleTTC struct {
	Circle            *CircleSpec `json:"circle,omitempty"`
	TTC               *float64    `json:"ttc,omitempty"`
	CollisionAngleDeg *float64    `json:"collision_angle_deg,omitempty"`
	ExtraDuration     *float64    `json:"extra_duration,omitempty"`
	// Collider, when set, names a stationary vehicle placed at the collision
	// point facing against the direction of travel.
	Collider string `json:"collider,omitempty"`
}

func (r *CircleTTC) defaultSpeed() float64 { return 30 / 3.6 }

func (r *CircleTTC) GetCircle() trajgen.Circle {
	if r.Circle == nil {
		return trajgen.Circle{Radius: 20}
	}
	return r.Circle.circle()
}

func (r *CircleTTC) GetTTC() float64               { return orDefault(r.TTC, 3.7) }
func (r *CircleTTC) GetCollisionAngleDeg() float64 { return orDefault(r.CollisionAngleDeg, 270) }
func (r *CircleTTC) GetExtraDuration() float64     { return orDefault(r.ExtraDuration, 3) }

func (r *CircleTTC) Validate() error {
	if err := r.GetCircle().Validate(); err != nil {
		return err
	}
	if err := positive("ttc", r.TTC); err != nil {
		return err
	}
	if d := r.GetExtraDuration(); !(d >= 0) {
		return invalidf("extra_duration", "must be non-negative, got %g", d)
	}
	if a := r.GetCollisionAngleDeg(); math.IsNaN(a) || math.IsInf(a, 0) {
		return invalidf("collision_angle_deg", "not finite")
	}
	return nil
}

// CollisionPose returns the pose of the collider: on the circle at the
// collision angle, facing the centre.
func (r *CircleTTC) CollisionPose() trajgen.Pose {
	ang := trajgen.Rad(r.GetCollisionAngleDeg())
	return trajgen.PoseAt(r.GetCircle().PointAt(ang), ang+math.Pi)
}

func (r *CircleTTC) Build(cfg *Config) ([]trajgen.Trajectory, error) {
	v := cfg.GetSpeed()
	circle := r.GetCircle()
	omega := v / circle.Radius
	start := trajgen.Rad(r.GetCollisionAngleDeg()) - omega*r.GetTTC()
	arc := circle.SweepBy(start, omega*(r.GetTTC()+r.GetExtraDuration()))

	tr, err := cfg.compositor(trajgen.ConstantVelocity{Speed: v}).Compose([]trajgen.Primitive{arc})
	if err != nil {
		return nil, err
	}
	out := []trajgen.Trajectory{tr}
	if r.Collider != "" {
		out = append(out, tr.Stationary(r.CollisionPose(), r.Collider))
	}
	return out, nil
}

// Limits of the vehicle/pedestrian crossing test.
const (
	CrossingMinTTC            = 3.5
	CrossingMaxTTC            = 4.5
	CrossingMaxPedestrianMPS  = 5.0
	CrossingMaxPedestrianDist = 5.25
)

// Crossing builds a vehicle and a pedestrian that meet at the collision
// point. Each accelerates from rest to its cruise speed and then cruises for
// TTC seconds to the collision point; the pedestrian walks on for
// PostCollisionDistance.
//
// The manoeuvre is laid out in a local frame with the collision point at the
// origin, the vehicle travelling along +x and the pedestrian along −y, and is
// then placed at Collision. The vehicle speed is the config speed.
type Crossing struct {
	PedestrianSpeed        *Speed     `json:"pedestrian_speed,omitempty"`
	TTC                    *float64   `json:"ttc,omitempty"`
	VehicleAcceleration    *float64   `json:"vehicle_acceleration,omitempty"`
	PedestrianAcceleration *float64   `json:"pedestrian_acceleration,omitempty"`
	PostCollisionDistance  *float64   `json:"post_collision_distance,omitempty"`
	Collision              *Placement `json:"collision,omitempty"`
	PedestrianName         string     `json:"pedestrian_name,omitempty"`
}

func (r *Crossing) defaultSpeed() float64 { return 13.8 }

func (r *Crossing) GetPedestrianSpeed() float64 {
	if r.PedestrianSpeed == nil {
		return 1.2
	}
	v, err := r.PedestrianSpeed.MPS()
	if err != nil {
		return 1.2
	}
	return v
}

func (r *Crossing) GetTTC() float64                 { return orDefault(r.TTC, 3.5) }
func (r *Crossing) GetVehicleAcceleration() float64 { return orDefault(r.VehicleAcceleration, 3.47) }
func (r *Crossing) GetPedestrianAcceleration() float64 {
	return orDefault(r.PedestrianAcceleration, 2.0)
}
func (r *Crossing) GetPostCollisionDistance() float64 { return orDefault(r.PostCollisionDistance, 2.5) }

func (r *Crossing) GetCollision() trajgen.Pose {
	if r.Collision == nil {
		return trajgen.NewPose(0, 0, 0)
	}
	return r.Collision.pose()
}

func (r *Crossing) GetPedestrianName() string {
	if r.PedestrianName == "" {
		return "Pedestrian"
	}
	return r.PedestrianName
}

func (r *Crossing) Validate() error {
	ttc := r.GetTTC()
	if !(ttc >= CrossingMinTTC && ttc <= CrossingMaxTTC) {
		return invalidf("ttc", "must be between %g and %g seconds, got %g", CrossingMinTTC, CrossingMaxTTC, ttc)
	}
	if r.PedestrianSpeed != nil {
		if _, err := r.PedestrianSpeed.MPS(); err != nil {
			return invalidf("pedestrian_speed", "%v", err)
		}
	}
	v2 := r.GetPedestrianSpeed()
	if !(v2 > 0) {
		return invalidf("pedestrian_speed", "must be positive, got %g", v2)
	}
	if v2 > CrossingMaxPedestrianMPS {
		return invalidf("pedestrian_speed", "must not exceed %g m/s, got %g", CrossingMaxPedestrianMPS, v2)
	}
	if d := v2 * ttc; d > CrossingMaxPedestrianDist {
		return invalidf("pedestrian_speed", "cruise distance %.2f m exceeds %g m", d, CrossingMaxPedestrianDist)
	}
	for _, f := range []struct {
		name string
		v    *float64
	}{{"vehicle_acceleration", r.VehicleAcceleration}, {"pedestrian_acceleration", r.PedestrianAcceleration}} {
		if err := positive(f.name, f.v); err != nil {
			return err
		}
	}
	if d := r.GetPostCollisionDistance(); !(d >= 0) {
		return invalidf("post_collision_distance", "must be non-negative, got %g", d)
	}
	if !r.GetCollision().IsFinite() {
		return invalidf("collision", "not finite")
	}
	return nil
}

// approach returns the line that ends cruise·ttc after reaching cruise speed
// and runs on for post metres, in the local frame, arriving along heading h.
func approach(cruise, accel, ttc, post, h float64) trajgen.Line {
	d := cruise*cruise/(2*accel) + cruise*ttc
	from := trajgen.PoseAt(trajgen.Point{}, h).Advance(-d)
	return trajgen.Line{From: from, Len: d + post}
}

func (r *Crossing) Build(cfg *Config) ([]trajgen.Trajectory, error) {
	v1, v2 := cfg.GetSpeed(), r.GetPedestrianSpeed()
	ttc := r.GetTTC()
	c := cfg.compositor(nil)
	c.IncludeEnd = true

	c.Profile = trajgen.ConstantAcceleration{Cruise: v1, Accel: r.GetVehicleAcceleration()}
	vehicle, err := c.Compose([]trajgen.Primitive{approach(v1, r.GetVehicleAcceleration(), ttc, 0, 0)})
	if err != nil {
		return nil, err
	}
	c.Profile = trajgen.ConstantAcceleration{Cruise: v2, Accel: r.GetPedestrianAcceleration()}
	pedestrian, err := c.Compose([]trajgen.Primitive{approach(v2, r.GetPedestrianAcceleration(), ttc, r.GetPostCollisionDistance(), -math.Pi/2)})
	if err != nil {
		return nil, err
	}

	place := trajgen.Place(r.GetCollision())
	vehicle = vehicle.Transform(place)
	pedestrian = pedestrian.Transform(place)
	pedestrian.Name = r.GetPedestrianName()
	return []trajgen.Trajectory{vehicle, pedestrian}, nil
}
