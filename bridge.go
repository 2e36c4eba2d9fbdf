package trajgen

import (
	"math"
)

// DefaultBridgeHandle is the fraction of the gap used for the Bézier handles
// of a bridge.
const DefaultBridgeHandle = 1.0 / 3.0

const bridgeAccuracy = 1e-9

// Bridge closes a positional gap between two poses with a cubic Bézier. The
// curve leaves From along its heading and arrives at To along its heading.
type Bridge struct {
	From   Pose
	To     Pose
	Handle float64
	Curve  CubicBez
	length float64
}

var _ Primitive = Bridge{}

// NewBridge returns the bridge from one pose to another. The control points lie
// handle·|to-from| along the outgoing and incoming tangents.
func NewBridge(from, to Pose, handle float64) Bridge {
	gap := from.Point().Distance(to.Point())
	d := handle * gap
	c := CubicBez{
		P0: from.Point(),
		P1: from.Point().Translate(from.Direction().Mul(d)),
		P2: to.Point().Translate(to.Direction().Mul(-d)),
		P3: to.Point(),
	}
	return Bridge{
		From:   from,
		To:     to,
		Handle: handle,
		Curve:  c,
		length: c.Arclen(),
	}
}

func (b Bridge) Kind() Kind      { return BridgeKind }
func (b Bridge) Start() Pose     { return b.From }
func (b Bridge) End() Pose       { return b.To }
func (b Bridge) Length() float64 { return b.length }

func (b Bridge) PoseAt(s float64) Pose {
	t := b.Curve.ParamAt(s, b.length, bridgeAccuracy)
	pt := b.Curve.Eval(t)
	d := b.Curve.Deriv(t)
	if d.Hypot2() < 1e-18 {
		d0, d1 := b.Curve.Tangents()
		if t < 0.5 {
			d = d0
		} else {
			d = d1
		}
	}
	return PoseAt(pt, d.Angle())
}

func (b Bridge) Validate() error {
	if err := validatePose(BridgeKind, "from", b.From); err != nil {
		return err
	}
	if err := validatePose(BridgeKind, "to", b.To); err != nil {
		return err
	}
	if !finite(b.Handle) || b.Handle <= 0 {
		return invalid(BridgeKind, "handle", "must be positive, got %g", b.Handle)
	}
	if !b.Curve.IsFinite() || math.IsNaN(b.length) {
		return invalid(BridgeKind, "length", "not a number")
	}
	return validateLength(BridgeKind, b.length)
}
