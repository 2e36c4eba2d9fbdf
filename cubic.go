package trajgen

// CubicBez is a cubic Bézier segment. It is the geometry behind [Bridge].
type CubicBez struct {
	P0, P1, P2, P3 Point
}

// cubicPanel is the parameter width of one quadrature panel.
const cubicPanel = 1.0 / 32

func (c CubicBez) IsFinite() bool {
	return Vec2(c.P0).IsFinite() && Vec2(c.P1).IsFinite() && Vec2(c.P2).IsFinite() && Vec2(c.P3).IsFinite()
}

// Eval returns the point at parameter t ∈ [0, 1].
func (c CubicBez) Eval(t float64) Point {
	mt := 1 - t
	v := Vec2(c.P0).Mul(mt * mt * mt).
		Add(Vec2(c.P1).Mul(3 * mt * mt * t)).
		Add(Vec2(c.P2).Mul(3 * mt * t * t)).
		Add(Vec2(c.P3).Mul(t * t * t))
	return Point(v)
}

// Deriv returns the first derivative with respect to t.
func (c CubicBez) Deriv(t float64) Vec2 {
	mt := 1 - t
	d01 := c.P1.Sub(c.P0)
	d12 := c.P2.Sub(c.P1)
	d23 := c.P3.Sub(c.P2)
	return d01.Mul(3 * mt * mt).Add(d12.Mul(6 * mt * t)).Add(d23.Mul(3 * t * t))
}

func (c CubicBez) speed(t float64) float64 { return c.Deriv(t).Hypot() }

// ArclenAt returns the arc length from the start of the curve to t.
func (c CubicBez) ArclenAt(t float64) float64 {
	return speedIntegral(c.speed, 0, t, cubicPanel)
}

// Arclen returns the arc length of the whole curve.
func (c CubicBez) Arclen() float64 { return c.ArclenAt(1) }

// ParamAt returns the parameter t at which the arc length from the start
// equals s, to within accuracy. total is the length of the whole curve.
func (c CubicBez) ParamAt(s, total, accuracy float64) float64 {
	return invertArclen(c.ArclenAt, s, 1, total, accuracy)
}

// Tangents returns the start and end tangent directions, skipping over
// coincident control points.
func (c CubicBez) Tangents() (Vec2, Vec2) {
	const epsilon = 1e-12
	pick := func(ds ...Vec2) Vec2 {
		for _, d := range ds[:len(ds)-1] {
			if d.Hypot2() > epsilon {
				return d
			}
		}
		return ds[len(ds)-1]
	}
	chord := c.P3.Sub(c.P0)
	return pick(c.P1.Sub(c.P0), c.P2.Sub(c.P0), chord), pick(c.P3.Sub(c.P2), c.P3.Sub(c.P1), chord)
}
