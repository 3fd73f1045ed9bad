package cloth

import (
	gomath "math"
	"math/rand/v2"
	"time"

	"github.com/Faultbox/windflag/pkg/math"
)

// Default wind constants.
const (
	DefaultFixedStep = 16 * time.Millisecond
	DefaultMaxForce  = 0.005
	DefaultJitter    = 1.0 / 5000
)

// DefaultWindDirection is the direction the wind blows in.
var DefaultWindDirection = math.Vec3{X: -1, Y: 0, Z: 1}

// Stepper is anything that can be advanced by one fixed simulation step.
type Stepper interface {
	Step(dt float64, wind math.Vec3)
}

// WindParams holds the immutable accumulator settings.
type WindParams struct {
	FixedStep       time.Duration // Simulation step size
	Direction       math.Vec3     // Wind direction, scaled by the current force
	MaxForce        float64       // Upper bound of the force magnitude
	Jitter          float64       // Upper bound of the per-frame force change
	MaxStepsPerTick int           // Catch-up cap per Tick, 0 means unlimited
}

// DefaultWindParams returns the reference wind settings.
func DefaultWindParams() WindParams {
	return WindParams{
		FixedStep: DefaultFixedStep,
		Direction: DefaultWindDirection,
		MaxForce:  DefaultMaxForce,
		Jitter:    DefaultJitter,
	}
}

// Accumulator converts irregular frame timestamps into whole fixed-size
// simulation steps and evolves the wind force with a bounded random walk.
type Accumulator struct {
	params WindParams
	rng    *rand.Rand

	running  bool
	last     time.Duration
	leftover time.Duration
	force    float64
}

// NewAccumulator creates an accumulator. A nil rng gets a fixed seed.
func NewAccumulator(params WindParams, rng *rand.Rand) *Accumulator {
	if params.FixedStep <= 0 {
		params.FixedStep = DefaultFixedStep
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(1, 2))
	}
	return &Accumulator{params: params, rng: rng}
}

// Tick consumes a frame timestamp from a monotonic clock and steps every
// target the same whole number of times, returning that number. The first
// call only sets the time origin. The wind used for the steps is the one
// in effect before this call; the force walk is advanced once afterwards,
// regardless of the step count.
func (a *Accumulator) Tick(now time.Duration, targets ...Stepper) int {
	steps := 0
	if a.running {
		elapsed := now - a.last + a.leftover
		if elapsed < 0 {
			elapsed = 0
		}
		steps = int(elapsed / a.params.FixedStep)
		a.leftover = elapsed - time.Duration(steps)*a.params.FixedStep

		if limit := a.params.MaxStepsPerTick; limit > 0 && steps > limit {
			steps = limit
		}

		dt := a.params.FixedStep.Seconds()
		wind := a.Wind()
		for range steps {
			for _, t := range targets {
				t.Step(dt, wind)
			}
		}
	}

	a.walk()
	a.last = now
	a.running = true
	return steps
}

// walk moves the force by a random amount in a random direction. The abs
// reflects negative values back up, so the walk is biased away from zero.
func (a *Accumulator) walk() {
	sign := -1.0
	if a.rng.Float64() > 0.5 {
		sign = 1.0
	}
	next := gomath.Abs(a.force + a.rng.Float64()*a.params.Jitter*sign)
	a.force = gomath.Min(next, a.params.MaxForce)
}

// Wind returns the current wind vector.
func (a *Accumulator) Wind() math.Vec3 {
	return a.params.Direction.Scale(a.force)
}

// Force returns the current wind magnitude.
func (a *Accumulator) Force() float64 {
	return a.force
}

// SetForce overrides the wind magnitude, clamped to [0, MaxForce].
func (a *Accumulator) SetForce(f float64) {
	a.force = gomath.Min(gomath.Max(f, 0), a.params.MaxForce)
}

// Leftover returns the simulated time not yet consumed by a whole step.
func (a *Accumulator) Leftover() time.Duration {
	return a.leftover
}

// Running reports whether a time origin has been established.
func (a *Accumulator) Running() bool {
	return a.running
}

// Params returns the accumulator settings.
func (a *Accumulator) Params() WindParams {
	return a.params
}

// Reset forgets the time origin and leftover so the next Tick starts over.
// The wind force is kept.
func (a *Accumulator) Reset() {
	a.running = false
	a.last = 0
	a.leftover = 0
}
