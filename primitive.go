package trajgen

import (
	"fmt"
	"math"
)

// Kind identifies the variant of a [Primitive].
type Kind uint8

const (
	LineKind Kind = iota + 1
	ArcKind
	ClothoidKind
	QuinticKind
	PolylineKind
	BridgeKind
)

func (k Kind) String() string {
	switch k {
	case LineKind:
		return "line"
	case ArcKind:
		return "arc"
	case ClothoidKind:
		return "clothoid"
	case QuinticKind:
		return "quintic"
	case PolylineKind:
		return "polyline"
	case BridgeKind:
		return "bridge"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Primitive is one piece of a path. It maps an arc-length offset s to a pose.
//
// PoseAt is only defined for 0 ≤ s ≤ Length(). Primitives do not clamp; the
// compositor clamps before calling, which keeps PoseAt a pure function of s.
type Primitive interface {
	Kind() Kind
	Start() Pose
	End() Pose
	// Length returns the arc length spanned by the primitive, in metres.
	Length() float64
	PoseAt(s float64) Pose
	// Validate reports non-finite or out-of-range parameters.
	Validate() error
}

// Timed is implemented by primitives whose natural parameter is time rather
// than arc length. The compositor traverses them on their own clock instead of
// asking the kinematic profile.
type Timed interface {
	Primitive
	Duration() float64
	StateAt(t float64) State
	// DistanceAt returns the arc length covered after t seconds.
	DistanceAt(t float64) float64
}

// State is the full kinematic state of a timed primitive at one instant.
type State struct {
	Pose         Pose
	Speed        float64
	Acceleration float64 // tangential
	Curvature    float64
}

// Curved is implemented by primitives that know their curvature in closed form.
type Curved interface {
	CurvatureAt(s float64) float64
}

// Reverser is implemented by primitives that can be traversed backwards: the
// result starts at End() facing the other way and finishes at Start().
type Reverser interface {
	Reverse() Primitive
}

// curvatureEpsilon is the curvature below which an arc is treated as a line.
const curvatureEpsilon = 1e-9

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func validatePose(kind Kind, field string, p Pose) error {
	if !p.IsFinite() {
		return invalid(kind, field, "pose %v is not finite", p)
	}
	return nil
}

func validateLength(kind Kind, length float64) error {
	if !finite(length) {
		return invalid(kind, "length", "%g is not finite", length)
	}
	if length <= 0 {
		return invalid(kind, "length", "must be positive, got %g", length)
	}
	return nil
}

// TotalLength sums the arc lengths of prims.
func TotalLength(prims []Primitive) float64 {
	var sum float64
	for _, p := range prims {
		sum += p.Length()
	}
	return sum
}
