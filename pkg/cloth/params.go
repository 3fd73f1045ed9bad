// Package cloth implements a mass-spring cloth simulation: Verlet point
// masses, iterative distance-constraint relaxation, per-triangle wind
// forcing and a fixed-timestep accumulator that drives it all from an
// irregular frame clock.
package cloth

import (
	"errors"

	"github.com/Faultbox/windflag/pkg/math"
)

// Default simulation constants.
const (
	DefaultGravity              = 9.81
	DefaultDamping              = 0.99
	DefaultRelaxationIterations = 2
	DefaultEpsilon              = 1e-9
)

// ErrGridTooSmall is returned by Build when either grid dimension is below 2.
var ErrGridTooSmall = errors.New("cloth: grid must be at least 2x2 points")

// Params holds the immutable physical parameters of a mesh.
type Params struct {
	Gravity              math.Vec3 // Acceleration applied to every movable point
	Damping              float64   // Fraction of implicit velocity kept per step
	RelaxationIterations int       // Constraint sweeps per step
	Epsilon              float64   // Minimum constraint length used for division
}

// DefaultParams returns the reference simulation parameters.
func DefaultParams() Params {
	return Params{
		Gravity:              math.Vec3{Y: -DefaultGravity},
		Damping:              DefaultDamping,
		RelaxationIterations: DefaultRelaxationIterations,
		Epsilon:              DefaultEpsilon,
	}
}

// withDefaults fills zero-valued fields that would break the solver.
func (p Params) withDefaults() Params {
	if p.Epsilon <= 0 {
		p.Epsilon = DefaultEpsilon
	}
	if p.RelaxationIterations < 0 {
		p.RelaxationIterations = 0
	}
	return p
}
