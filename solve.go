package trajgen

import (
	"math"
)

// SolveITP solves an equation using the [ITP method].
//
// Arguments are the same as bisection: a function f, a lower and upper bound
// of the bracket, and the values of f at those bounds (ya ≤ 0 ≤ yb). The
// returned value is within epsilon of the zero crossing when f is monotonic,
// which holds for every arc-length inversion in this package.
//
// The k2 tuning parameter is hardwired to 2. n0 controls the relative impact of
// the bisection and secant components; k1 = 0.2/(b-a) matches the paper.
//
// [ITP method]: https://en.wikipedia.org/wiki/ITP_Method
func SolveITP(
	f func(float64) float64,
	a float64,
	b float64,
	epsilon float64,
	n0 int,
	k1 float64,
	ya float64,
	yb float64,
) float64 {
	n1_2 := int(max(math.Ceil(math.Log2((b-a)/epsilon))-1.0, 0.0))
	nmax := n0 + n1_2
	scaledEpsilon := epsilon * float64(uint64(1)<<nmax)
	for b-a > 2.0*epsilon {
		x1_2 := 0.5 * (a + b)
		r := scaledEpsilon - 0.5*(b-a)
		xf := (yb*a - ya*b) / (yb - ya)
		sigma := x1_2 - xf
		// This has k2 = 2 hardwired for efficiency.
		delta := k1 * ((b - a) * (b - a))
		var xt float64
		if delta <= math.Abs(x1_2-xf) {
			xt = xf + math.Copysign(delta, sigma)
		} else {
			xt = x1_2
		}
		var xitp float64
		if math.Abs(xt-x1_2) <= r {
			xitp = xt
		} else {
			xitp = x1_2 - math.Copysign(r, sigma)
		}
		yitp := f(xitp)
		if yitp > 0.0 {
			b = xitp
			yb = yitp
		} else if yitp < 0.0 {
			a = xitp
			ya = yitp
		} else {
			return xitp
		}
		scaledEpsilon *= 0.5
	}
	return 0.5 * (a + b)
}

// speedIntegral integrates f over [a, b] with 16-point Gauss–Legendre
// quadrature on panels no wider than panel.
func speedIntegral(f func(float64) float64, a, b, panel float64) float64 {
	if b <= a {
		return 0
	}
	n := max(int(math.Ceil((b-a)/panel)), 1)
	h := (b - a) / float64(n)
	var sum float64
	for i := range n {
		lo := a + float64(i)*h
		mid := lo + 0.5*h
		for _, coeff := range gaussLegendreCoeffs16 {
			wi, xi := coeff[0], coeff[1]
			sum += wi * f(mid+0.5*h*xi)
		}
	}
	return 0.5 * h * sum
}

// invertArclen finds the parameter u ∈ [0, uMax] at which arclen(u) equals s.
// arclen must be monotonically non-decreasing with arclen(0) = 0.
func invertArclen(arclen func(u float64) float64, s, uMax, total, accuracy float64) float64 {
	if s <= 0 {
		return 0
	}
	if s >= total {
		return uMax
	}
	epsilon := accuracy * uMax / total
	f := func(u float64) float64 { return arclen(u) - s }
	return SolveITP(f, 0, uMax, epsilon, 1, 0.2/uMax, -s, total-s)
}

// 16-point Gauss–Legendre weights and abscissae, from
// <https://pomax.github.io/bezierinfo/legendre-gauss.html>.
var gaussLegendreCoeffs16 = [...][2]float64{
	{0.1894506104550685, -0.0950125098376374},
	{0.1894506104550685, 0.0950125098376374},
	{0.1826034150449236, -0.2816035507792589},
	{0.1826034150449236, 0.2816035507792589},
	{0.1691565193950025, -0.4580167776572274},
	{0.1691565193950025, 0.4580167776572274},
	{0.1495959888165767, -0.6178762444026438},
	{0.1495959888165767, 0.6178762444026438},
	{0.1246289712555339, -0.7554044083550030},
	{0.1246289712555339, 0.7554044083550030},
	{0.0951585116824928, -0.8656312023878318},
	{0.0951585116824928, 0.8656312023878318},
	{0.0622535239386479, -0.9445750230732326},
	{0.0622535239386479, 0.9445750230732326},
	{0.0271524594117541, -0.9894009349916499},
	{0.0271524594117541, 0.9894009349916499},
}
