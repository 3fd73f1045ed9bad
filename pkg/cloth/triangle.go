package cloth

import "github.com/Faultbox/windflag/pkg/math"

// Triangle is a face over three point masses. It only exists to spread wind
// over the cloth; its winding is fixed when the mesh is built.
type Triangle struct {
	A, B, C *PointMass
}

// Normal returns the unit normal of (B-A) x (C-A) at the current positions,
// or the zero vector for a degenerate face.
func (t *Triangle) Normal() math.Vec3 {
	ab := t.B.Position.Sub(t.A.Position)
	ac := t.C.Position.Sub(t.A.Position)
	return ab.Cross(ac).Normalize()
}

// WindForce returns the displacement the wind pushes into each vertex: the
// normal scaled by its projection onto the wind. A face edge-on to the wind
// gets nothing; the sign of the projection decides push or pull.
func (t *Triangle) WindForce(wind math.Vec3) math.Vec3 {
	n := t.Normal()
	return n.Scale(n.Dot(wind))
}

// ApplyWind adds the wind force to all three vertices, without area weighting.
func (t *Triangle) ApplyWind(wind math.Vec3) {
	f := t.WindForce(wind)
	t.A.AddDisplacement(f)
	t.B.AddDisplacement(f)
	t.C.AddDisplacement(f)
}
