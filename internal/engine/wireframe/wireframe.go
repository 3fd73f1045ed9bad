// Package wireframe turns triangle meshes into screen-space line segments.
package wireframe

import (
	"github.com/Faultbox/windflag/internal/engine/camera"
	"github.com/Faultbox/windflag/pkg/math"
)

// Segment is a 2D line in pixel coordinates.
type Segment struct {
	A, B math.Vec2
}

// Builder projects meshes into segments. It keeps scratch buffers between
// calls so a frame does not allocate once warmed up.
type Builder struct {
	seen    map[[2]int]struct{}
	screen  []math.Vec2
	visible []bool
	out     []Segment
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{seen: make(map[[2]int]struct{})}
}

// Mesh returns one segment per distinct triangle edge with both end points in
// front of the camera. The slice is reused by the next call.
func (b *Builder) Mesh(vp math.Mat4, positions []math.Vec3, tris [][3]int, width, height int) []Segment {
	b.out = b.out[:0]
	clear(b.seen)

	if cap(b.screen) < len(positions) {
		b.screen = make([]math.Vec2, len(positions))
		b.visible = make([]bool, len(positions))
	}
	b.screen = b.screen[:len(positions)]
	b.visible = b.visible[:len(positions)]
	for i, p := range positions {
		b.screen[i], b.visible[i] = camera.ToScreen(vp, p, width, height)
	}

	for _, t := range tris {
		b.edge(t[0], t[1])
		b.edge(t[1], t[2])
		b.edge(t[2], t[0])
	}
	return b.out
}

func (b *Builder) edge(i, j int) {
	if i > j {
		i, j = j, i
	}
	key := [2]int{i, j}
	if _, ok := b.seen[key]; ok {
		return
	}
	b.seen[key] = struct{}{}
	if i < 0 || j >= len(b.screen) || !b.visible[i] || !b.visible[j] {
		return
	}
	b.out = append(b.out, Segment{A: b.screen[i], B: b.screen[j]})
}

// Line projects a single world-space line.
func Line(vp math.Mat4, from, to math.Vec3, width, height int) (Segment, bool) {
	a, ok := camera.ToScreen(vp, from, width, height)
	if !ok {
		return Segment{}, false
	}
	c, ok := camera.ToScreen(vp, to, width, height)
	if !ok {
		return Segment{}, false
	}
	return Segment{A: a, B: c}, true
}

// RGB splits a 0xRRGGBB color.
func RGB(c uint32) (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}
