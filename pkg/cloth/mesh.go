package cloth

import (
	"fmt"

	"github.com/Faultbox/windflag/pkg/math"
)

// Mesh is a rectangular cloth grid hanging from two anchor points. Topology
// is fixed at Build; only point positions change afterwards. A Mesh must be
// driven by one goroutine at a time.
type Mesh struct {
	width, height int
	params        Params

	points      []PointMass
	constraints []Constraint
	triangles   []Triangle
	indices     [][3]int
}

// Build creates a width x height grid hanging from anchor. Point (x, y) sits
// at anchor + (x, height-y, 0); points 0 and BottomAnchorIndex are pinned.
func Build(width, height int, anchor math.Vec3, params Params) (*Mesh, error) {
	if width < 2 || height < 2 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrGridTooSmall, width, height)
	}

	m := &Mesh{
		width:  width,
		height: height,
		params: params.withDefaults(),
		points: make([]PointMass, width*height),
	}
	m.buildPoints(anchor)
	m.buildTriangles()
	m.buildConstraints()
	return m, nil
}

// BottomAnchorIndex returns the flat index of the lower pole attachment,
// the first point of the last row.
func BottomAnchorIndex(width, height int) int {
	return width * (height - 1)
}

// legacyBottomAnchorOffset is where the bottom anchor is placed relative to
// the mesh anchor. It is a fixed offset rather than the grid formula, and
// the hang shape of the flag depends on it.
var legacyBottomAnchorOffset = math.Vec3{X: 0, Y: 1, Z: 0}

func (m *Mesh) buildPoints(anchor math.Vec3) {
	bottom := BottomAnchorIndex(m.width, m.height)
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			i := y*m.width + x
			pos := anchor.Add(math.Vec3{X: float64(x), Y: float64(m.height - y)})
			if i == bottom {
				pos = anchor.Add(legacyBottomAnchorOffset)
			}
			m.points[i] = NewPointMass(pos)
		}
	}

	m.points[0].Movable = false
	m.points[bottom].Movable = false
}

func (m *Mesh) buildTriangles() {
	n := 2 * (m.width - 1) * (m.height - 1)
	m.triangles = make([]Triangle, 0, n)
	m.indices = make([][3]int, 0, n)

	for y := 0; y < m.height-1; y++ {
		for x := 0; x < m.width-1; x++ {
			p := y*m.width + x
			m.addTriangle(p, p+1, p+m.width)
			m.addTriangle(p+1, p+m.width, p+m.width+1)
		}
	}
}

func (m *Mesh) addTriangle(a, b, c int) {
	m.indices = append(m.indices, [3]int{a, b, c})
	m.triangles = append(m.triangles, Triangle{A: &m.points[a], B: &m.points[b], C: &m.points[c]})
}

// buildConstraints emits, per cell: right and down neighbours, both quad
// diagonals, neighbours two cells right and down, and both diagonals of the
// 2x2 block. Relaxation order follows emission order.
func (m *Mesh) buildConstraints() {
	w, h := m.width, m.height
	m.constraints = make([]Constraint, 0, ConstraintCount(w, h))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := y*w + x
			if x < w-1 {
				m.addConstraint(p, p+1, Structural)
			}
			if y < h-1 {
				m.addConstraint(p, p+w, Structural)
			}
			if y < h-1 && x < w-1 {
				m.addConstraint(p, p+1+w, Shear)
				m.addConstraint(p+w, p+1, Shear)
			}
			if x < w-2 {
				m.addConstraint(p, p+2, Bending)
			}
			if y < h-2 {
				m.addConstraint(p, p+2*w, Bending)
			}
			if y < h-2 && x < w-2 {
				m.addConstraint(p, p+2+2*w, BendingDiagonal)
				m.addConstraint(p+2*w, p+2, BendingDiagonal)
			}
		}
	}
}

func (m *Mesh) addConstraint(a, b int, kind Kind) {
	m.constraints = append(m.constraints, Constraint{
		P1:         &m.points[a],
		P2:         &m.points[b],
		RestLength: restLength(kind),
		Kind:       kind,
	})
}

// ConstraintCount returns how many constraints Build generates for a grid.
func ConstraintCount(width, height int) int {
	structural := (width-1)*height + width*(height-1)
	shear := 2 * (width - 1) * (height - 1)
	bending := max(width-2, 0)*height + width*max(height-2, 0)
	bendingDiagonal := 2 * max(width-2, 0) * max(height-2, 0)
	return structural + shear + bending + bendingDiagonal
}

// Step advances the simulation by dt seconds under the given wind.
// Constraints are relaxed on last step's positions first; gravity and wind
// then become pending displacement for this step's integration.
func (m *Mesh) Step(dt float64, wind math.Vec3) {
	eps := m.params.Epsilon
	for range m.params.RelaxationIterations {
		for i := range m.constraints {
			m.constraints[i].Relax(eps)
		}
	}

	for i := range m.points {
		m.points[i].ApplyGravity(m.params.Gravity, dt)
	}

	for i := range m.triangles {
		m.triangles[i].ApplyWind(wind)
	}

	for i := range m.points {
		m.points[i].Integrate(m.params.Damping)
	}
}

// SetRelaxationIterations changes the number of constraint sweeps per step.
// Negative values are treated as zero.
func (m *Mesh) SetRelaxationIterations(n int) {
	m.params.RelaxationIterations = max(n, 0)
}

// RelaxationIterations returns the constraint sweeps per step.
func (m *Mesh) RelaxationIterations() int {
	return m.params.RelaxationIterations
}

// Params returns the mesh's simulation parameters.
func (m *Mesh) Params() Params {
	return m.params
}

// Width returns the grid width in points.
func (m *Mesh) Width() int { return m.width }

// Height returns the grid height in points.
func (m *Mesh) Height() int { return m.height }

// Len returns the number of points.
func (m *Mesh) Len() int { return len(m.points) }

// Point returns the point at flat index i. It panics if i is out of range.
func (m *Mesh) Point(i int) *PointMass {
	return &m.points[i]
}

// Positions returns a copy of all point positions in row-major order.
func (m *Mesh) Positions() []math.Vec3 {
	return m.PositionsInto(nil)
}

// PositionsInto copies all point positions into dst, growing it if needed,
// and returns the filled slice.
func (m *Mesh) PositionsInto(dst []math.Vec3) []math.Vec3 {
	if cap(dst) < len(m.points) {
		dst = make([]math.Vec3, len(m.points))
	}
	dst = dst[:len(m.points)]
	for i := range m.points {
		dst[i] = m.points[i].Position
	}
	return dst
}

// TriangleIndices returns a copy of the triangle index triples.
func (m *Mesh) TriangleIndices() [][3]int {
	out := make([][3]int, len(m.indices))
	copy(out, m.indices)
	return out
}

// TriangleCount returns the number of faces.
func (m *Mesh) TriangleCount() int { return len(m.triangles) }

// Constraints returns the constraint list. Callers must not modify it.
func (m *Mesh) Constraints() []Constraint {
	return m.constraints
}

// Strains returns the relative length error of every constraint.
func (m *Mesh) Strains(dst []float64) []float64 {
	dst = dst[:0]
	for i := range m.constraints {
		dst = append(dst, m.constraints[i].Strain())
	}
	return dst
}

// Speeds returns the per-step displacement magnitude of every point.
func (m *Mesh) Speeds(dst []float64) []float64 {
	dst = dst[:0]
	for i := range m.points {
		p := &m.points[i]
		dst = append(dst, p.Position.Distance(p.Previous))
	}
	return dst
}
