package trajgen

import (
	"sort"
)

// Polyline re-traverses a list of recorded poses. Position is linear between
// vertices; heading turns along the shorter way between vertex headings.
type Polyline struct {
	Vertices []Pose
	// cum[i] is the arc length at Vertices[i].
	cum []float64
}

var _ Primitive = (*Polyline)(nil)

// NewPolyline builds a polyline from vertices. Consecutive vertices closer than
// 1e-9 m are merged, keeping the heading of the later one.
func NewPolyline(vertices []Pose) *Polyline {
	pl := &Polyline{}
	for _, v := range vertices {
		if n := len(pl.Vertices); n > 0 && pl.Vertices[n-1].Point().DistanceSquared(v.Point()) < 1e-18 {
			pl.Vertices[n-1] = v
			continue
		}
		var s float64
		if n := len(pl.Vertices); n > 0 {
			s = pl.cum[n-1] + pl.Vertices[n-1].Point().Distance(v.Point())
		}
		pl.Vertices = append(pl.Vertices, v)
		pl.cum = append(pl.cum, s)
	}
	return pl
}

func (pl *Polyline) Kind() Kind  { return PolylineKind }
func (pl *Polyline) Start() Pose { return pl.Vertices[0] }
func (pl *Polyline) End() Pose   { return pl.Vertices[len(pl.Vertices)-1] }

func (pl *Polyline) Length() float64 {
	if len(pl.cum) == 0 {
		return 0
	}
	return pl.cum[len(pl.cum)-1]
}

func (pl *Polyline) PoseAt(s float64) Pose {
	// first vertex whose offset exceeds s
	i := sort.SearchFloat64s(pl.cum, s)
	if i == 0 {
		return pl.Vertices[0]
	}
	if i >= len(pl.cum) {
		return pl.End()
	}
	a, b := pl.Vertices[i-1], pl.Vertices[i]
	t := (s - pl.cum[i-1]) / (pl.cum[i] - pl.cum[i-1])
	pt := a.Point().Lerp(b.Point(), t)
	return PoseAt(pt, a.H+t*AngleDiff(a.H, b.H))
}

func (pl *Polyline) Reverse() Primitive {
	rev := make([]Pose, len(pl.Vertices))
	for i, v := range pl.Vertices {
		rev[len(rev)-1-i] = v.Reverse()
	}
	return NewPolyline(rev)
}

func (pl *Polyline) Validate() error {
	if len(pl.Vertices) < 2 {
		return invalid(PolylineKind, "vertices", "need at least 2 distinct vertices, got %d", len(pl.Vertices))
	}
	for i, v := range pl.Vertices {
		if !v.IsFinite() {
			return invalid(PolylineKind, "vertices", "vertex %d %v is not finite", i, v)
		}
	}
	return validateLength(PolylineKind, pl.Length())
}
