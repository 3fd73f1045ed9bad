package cloth

// Kind records which part of the grid topology produced a constraint.
// It has no effect on how the constraint is solved.
type Kind uint8

const (
	Structural Kind = iota
	Shear
	Bending
	BendingDiagonal
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Structural:
		return "structural"
	case Shear:
		return "shear"
	case Bending:
		return "bending"
	case BendingDiagonal:
		return "bending_diagonal"
	default:
		return "unknown"
	}
}

// Constraint keeps two point masses at RestLength apart. It references the
// points; the mesh owns them.
type Constraint struct {
	P1, P2     *PointMass
	RestLength float64
	Kind       Kind
}

// Relax moves both endpoints toward the rest length. Each movable endpoint
// takes half of the length error, so a pair with one anchor needs several
// passes to converge. Lengths below eps are clamped to eps.
func (c *Constraint) Relax(eps float64) {
	delta := c.P2.Position.Sub(c.P1.Position)
	length := delta.Length()
	if length < eps {
		length = eps
	}
	correction := delta.Scale((1 - c.RestLength/length) * 0.5)
	if c.P1.Movable {
		c.P1.Position = c.P1.Position.Add(correction)
	}
	if c.P2.Movable {
		c.P2.Position = c.P2.Position.Sub(correction)
	}
}

// Strain returns the relative length error |len-rest|/rest.
func (c *Constraint) Strain() float64 {
	length := c.P1.Position.Distance(c.P2.Position)
	d := length - c.RestLength
	if d < 0 {
		d = -d
	}
	return d / c.RestLength
}

// Length returns the current distance between the endpoints.
func (c *Constraint) Length() float64 {
	return c.P1.Position.Distance(c.P2.Position)
}

// restLengths by kind on a unit grid.
var restLengths = [...]float64{
	Structural:      1,
	Shear:           sqrt2,
	Bending:         2,
	BendingDiagonal: 2 * sqrt2,
}

const sqrt2 = 1.4142135623730951

// restLength returns the unit-grid rest length for a constraint kind.
func restLength(k Kind) float64 {
	return restLengths[k]
}
