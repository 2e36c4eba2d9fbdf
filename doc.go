// Package trajgen synthesizes time-stamped vehicle and pedestrian trajectories
// for driving-simulation scenario files.
//
// A trajectory is built from path primitives placed end to end:
//   - [Line], a straight segment
//   - [Arc], constant curvature, usually obtained from a [Circle]
//   - [Clothoid], curvature varying linearly with arc length
//   - [QuinticBlend], a degree-5 boundary-value curve parametrized by time
//   - [Polyline], recorded vertices re-traversed
//   - [Bridge], a cubic Bézier that closes gaps
//
// A [Compositor] walks the primitives under a kinematic [Profile]
// ([ConstantAcceleration] or [ConstantVelocity]) and samples the resulting
// motion on a fixed time grid, producing a [Trajectory].
//
// # Coordinates and units
//
// Coordinates are y-up world metres, as used by OpenDRIVE and OpenSCENARIO.
// Headings are radians measured anti-clockwise from the x axis and normalized
// to (−π, π]. Time is in seconds and speed in metres per second. Degrees and
// other speed units appear only at the file-format boundaries.
//
// # Errors
//
// Failures are reported as [*ValidationError], [*DomainError],
// [*SingularSystemError], [*InputNotFoundError] or [*IOError]. Each matches
// one of the sentinels [ErrValidation], [ErrDomain], [ErrSingular],
// [ErrNotFound] and [ErrIO] under [errors.Is].
//
// # Literature
//
//   - [A Primer on Bézier Curves]
//   - [An Enhancement of the Bisection Method Average Performance Preserving Minmax Optimality] by Oliveira and Takahashi
//   - [Optimal trajectory generation for dynamic street scenarios in a Frenét frame] by Werling et al.
//
// [A Primer on Bézier Curves]: https://pomax.github.io/bezierinfo/
// [An Enhancement of the Bisection Method Average Performance Preserving Minmax Optimality]: https://dl.acm.org/doi/10.1145/3423597
// [Optimal trajectory generation for dynamic street scenarios in a Frenét frame]: https://doi.org/10.1109/ROBOT.2010.5509799
package trajgen
