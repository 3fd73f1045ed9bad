package cloth

import (
	"testing"

	"github.com/Faultbox/windflag/pkg/math"
)

func TestPointMassIntegrateAtRest(t *testing.T) {
	p := NewPointMass(math.Vec3{X: 1, Y: 2, Z: 3})
	p.Integrate(DefaultDamping)

	if p.Position != (math.Vec3{X: 1, Y: 2, Z: 3}) {
		t.Errorf("point at rest moved to %v", p.Position)
	}
}

func TestPointMassIntegrateVelocity(t *testing.T) {
	p := NewPointMass(math.Vec3{X: 1})
	p.Previous = math.Vec3{}
	p.AddDisplacement(math.Vec3{Y: 0.5})
	p.Integrate(0.5)

	// velocity (1,0,0)*0.5 plus pending (0,0.5,0)
	want := math.Vec3{X: 1.5, Y: 0.5}
	if p.Position != want {
		t.Errorf("Position = %v, want %v", p.Position, want)
	}
	if p.Previous != (math.Vec3{X: 1}) {
		t.Errorf("Previous = %v, want (1,0,0)", p.Previous)
	}
	if p.Pending() != (math.Vec3{}) {
		t.Errorf("pending displacement not cleared: %v", p.Pending())
	}
}

func TestPointMassApplyGravity(t *testing.T) {
	p := NewPointMass(math.Vec3{})
	p.ApplyGravity(math.Vec3{Y: -10}, 0.1)

	want := math.Vec3{Y: -0.05}
	if d := p.Pending().Distance(want); d > 1e-15 {
		t.Errorf("Pending() = %v, want %v", p.Pending(), want)
	}
}

func TestPointMassImmovable(t *testing.T) {
	p := NewPointMass(math.Vec3{X: 4, Y: 5})
	p.Movable = false
	p.Previous = math.Vec3{}

	p.ApplyGravity(math.Vec3{Y: -9.81}, 0.016)
	p.AddDisplacement(math.Vec3{Z: 3})
	p.Integrate(DefaultDamping)

	if p.Position != (math.Vec3{X: 4, Y: 5}) {
		t.Errorf("immovable point moved to %v", p.Position)
	}
	// Residue must not survive into a later step
	if p.Pending() != (math.Vec3{}) {
		t.Errorf("pending displacement not cleared on immovable point: %v", p.Pending())
	}
}
