package cloth

import "github.com/Faultbox/windflag/pkg/math"

// PointMass is a single unit-mass node of the cloth. Velocity is implicit in
// the difference between Position and Previous.
type PointMass struct {
	Position math.Vec3
	Previous math.Vec3
	Movable  bool

	pending math.Vec3
}

// NewPointMass creates a movable point at rest at pos.
func NewPointMass(pos math.Vec3) PointMass {
	return PointMass{Position: pos, Previous: pos, Movable: true}
}

// AddDisplacement accumulates a displacement to be applied by the next Integrate.
func (p *PointMass) AddDisplacement(d math.Vec3) {
	p.pending = p.pending.Add(d)
}

// Pending returns the displacement accumulated since the last Integrate.
func (p *PointMass) Pending() math.Vec3 {
	return p.pending
}

// ApplyGravity adds the constant-acceleration term 0.5*g*dt^2.
func (p *PointMass) ApplyGravity(gravity math.Vec3, dt float64) {
	if !p.Movable {
		return
	}
	p.AddDisplacement(gravity.Scale(0.5 * dt * dt))
}

// Integrate advances the point by its damped implicit velocity plus the
// pending displacement. The pending displacement is always cleared.
func (p *PointMass) Integrate(damping float64) {
	if p.Movable {
		velocity := p.Position.Sub(p.Previous).Scale(damping)
		next := p.Position.Add(velocity).Add(p.pending)
		p.Previous = p.Position
		p.Position = next
	}
	p.pending = math.Vec3{}
}
