package cloth

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/Faultbox/windflag/pkg/math"
)

// recorder counts steps and remembers their arguments.
type recorder struct {
	steps int
	dts   []float64
	winds []math.Vec3
}

func (r *recorder) Step(dt float64, wind math.Vec3) {
	r.steps++
	r.dts = append(r.dts, dt)
	r.winds = append(r.winds, wind)
}

func newTestAccumulator(p WindParams) *Accumulator {
	return NewAccumulator(p, rand.New(rand.NewPCG(7, 11)))
}

func TestAccumulatorFirstTickSetsOrigin(t *testing.T) {
	a := newTestAccumulator(DefaultWindParams())
	r := &recorder{}

	if n := a.Tick(1000*time.Millisecond, r); n != 0 {
		t.Errorf("first Tick stepped %d times, want 0", n)
	}
	if r.steps != 0 {
		t.Errorf("target stepped %d times on first Tick", r.steps)
	}
	if !a.Running() {
		t.Error("accumulator should be running after first Tick")
	}
}

func TestAccumulatorStepsAndLeftover(t *testing.T) {
	a := newTestAccumulator(DefaultWindParams())
	r := &recorder{}
	t0 := 500 * time.Millisecond

	a.Tick(t0, r)
	if n := a.Tick(t0+50*time.Millisecond, r); n != 3 {
		t.Fatalf("Tick(t0+50ms) = %d steps, want 3", n)
	}
	if a.Leftover() != 2*time.Millisecond {
		t.Errorf("leftover = %v, want 2ms", a.Leftover())
	}
	if r.steps != 3 {
		t.Errorf("target stepped %d times, want 3", r.steps)
	}
	for i, dt := range r.dts {
		if dt != 0.016 {
			t.Errorf("step %d dt = %v, want 0.016", i, dt)
		}
	}

	// 2ms carried + 14ms makes exactly one more step
	if n := a.Tick(t0+64*time.Millisecond, r); n != 1 {
		t.Errorf("carry-over Tick = %d steps, want 1", n)
	}
	if a.Leftover() != 0 {
		t.Errorf("leftover = %v, want 0", a.Leftover())
	}
}

func TestAccumulatorShortFrames(t *testing.T) {
	a := newTestAccumulator(DefaultWindParams())
	total := 0
	for i := range 10 {
		total += a.Tick(time.Duration(i)*5*time.Millisecond)
	}
	// 45ms elapsed after the origin: two whole steps
	if total != 2 {
		t.Errorf("total steps = %d, want 2", total)
	}
	if a.Leftover() != 13*time.Millisecond {
		t.Errorf("leftover = %v, want 13ms", a.Leftover())
	}
}

func TestAccumulatorStepsAllTargets(t *testing.T) {
	a := newTestAccumulator(DefaultWindParams())
	r1, r2 := &recorder{}, &recorder{}

	a.Tick(0, r1, r2)
	a.Tick(100*time.Millisecond, r1, r2)

	if r1.steps != 6 || r2.steps != 6 {
		t.Errorf("steps = %d and %d, want 6 each", r1.steps, r2.steps)
	}
}

func TestAccumulatorWindUsesForceBeforeWalk(t *testing.T) {
	a := newTestAccumulator(DefaultWindParams())
	r := &recorder{}

	a.Tick(0, r)
	want := a.Wind()
	a.Tick(40*time.Millisecond, r)

	for i, w := range r.winds {
		if w != want {
			t.Errorf("step %d wind = %v, want %v", i, w, want)
		}
	}
}

func TestAccumulatorForceBounded(t *testing.T) {
	p := DefaultWindParams()
	p.Jitter = 0.002 // large relative to MaxForce to hit both bounds
	a := newTestAccumulator(p)

	hitMax := false
	for i := range 5000 {
		a.Tick(time.Duration(i) * time.Millisecond)
		f := a.Force()
		if f < 0 || f > p.MaxForce {
			t.Fatalf("force %v out of [0, %v] at tick %d", f, p.MaxForce, i)
		}
		if f == p.MaxForce {
			hitMax = true
		}
	}
	if !hitMax {
		t.Error("expected the walk to reach the cap at least once")
	}
}

func TestAccumulatorWindDirection(t *testing.T) {
	a := newTestAccumulator(DefaultWindParams())
	a.SetForce(0.004)

	want := DefaultWindDirection.Scale(0.004)
	if a.Wind() != want {
		t.Errorf("Wind() = %v, want %v", a.Wind(), want)
	}

	a.SetForce(1)
	if a.Force() != DefaultMaxForce {
		t.Errorf("SetForce should clamp to max, got %v", a.Force())
	}
	a.SetForce(-1)
	if a.Force() != 0 {
		t.Errorf("SetForce should clamp to 0, got %v", a.Force())
	}
}

func TestAccumulatorMaxStepsPerTick(t *testing.T) {
	p := DefaultWindParams()
	p.MaxStepsPerTick = 5
	a := newTestAccumulator(p)

	a.Tick(0)
	if n := a.Tick(10 * time.Second); n != 5 {
		t.Errorf("stalled Tick = %d steps, want capped 5", n)
	}
	if a.Leftover() >= p.FixedStep {
		t.Errorf("leftover %v should be below one step after a cap", a.Leftover())
	}
}

func TestAccumulatorClockGoingBackwards(t *testing.T) {
	a := newTestAccumulator(DefaultWindParams())
	a.Tick(time.Second)
	if n := a.Tick(500 * time.Millisecond); n != 0 {
		t.Errorf("backwards Tick = %d steps, want 0", n)
	}
	if a.Leftover() != 0 {
		t.Errorf("leftover = %v, want 0", a.Leftover())
	}
}

func TestAccumulatorReset(t *testing.T) {
	a := newTestAccumulator(DefaultWindParams())
	a.Tick(0)
	a.Tick(20 * time.Millisecond)
	a.Reset()

	if a.Running() || a.Leftover() != 0 {
		t.Error("Reset should clear the time origin and leftover")
	}
	if n := a.Tick(time.Hour); n != 0 {
		t.Errorf("first Tick after Reset = %d steps, want 0", n)
	}
}

func TestAccumulatorDrivesMesh(t *testing.T) {
	m, err := Build(6, 4, math.Vec3{}, DefaultParams())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	a := newTestAccumulator(DefaultWindParams())
	before := m.Positions()

	a.Tick(0, m)
	a.Tick(33*time.Millisecond, m)

	moved := false
	for i, p := range m.Positions() {
		if p != before[i] {
			moved = true
			break
		}
	}
	if !moved {
		t.Error("mesh did not move after two fixed steps")
	}
}
