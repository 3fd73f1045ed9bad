// Package camera provides the orbit camera used to look at the flags.
package camera

import (
	gomath "math"

	"github.com/charmbracelet/harmonica"

	"github.com/Faultbox/windflag/pkg/math"
)

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	// Center point to orbit around
	Center math.Vec3

	// Spherical coordinates
	Distance  float64 // Distance from center
	Target    float64 // Distance the zoom spring pulls towards
	RotationX float64 // Pitch (vertical angle, radians)
	RotationY float64 // Yaw (horizontal angle, radians)

	// Projection
	FovY       float64 // Vertical field of view (radians)
	Near, Far  float64
	AutoRotate bool
	RotateRate float64 // Yaw change per second while auto-rotating

	// Constraints
	MinDistance float64
	MaxDistance float64
	MinPitch    float64
	MaxPitch    float64

	// Sensitivity
	DragSensitivity float64
	ZoomSensitivity float64

	// Zoom spring
	ZoomFrequency float64
	ZoomDamping   float64
	zoomVelocity  float64
}

// NewOrbitCamera creates a camera 50 units in front of the scene, slightly
// above it, with a 60 degree field of view.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Center:          math.Vec3{Y: 5},
		Distance:        50.0,
		Target:          50.0,
		RotationX:       0.1,
		RotationY:       0.0,
		FovY:            gomath.Pi / 3,
		Near:            0.1,
		Far:             3000,
		RotateRate:      0.5,
		MinDistance:     5.0,
		MaxDistance:     500.0,
		MinPitch:        -1.4,
		MaxPitch:        1.4,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
		ZoomFrequency:   6.0,
		ZoomDamping:     1.0,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	x := c.Distance * gomath.Cos(c.RotationX) * gomath.Sin(c.RotationY)
	y := c.Distance * gomath.Sin(c.RotationX)
	z := c.Distance * gomath.Cos(c.RotationX) * gomath.Cos(c.RotationY)
	return c.Center.Add(math.Vec3{X: x, Y: y, Z: z})
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Center, math.Vec3{Y: 1})
}

// ViewProjection returns projection * view for a viewport aspect ratio.
func (c *OrbitCamera) ViewProjection(aspect float64) math.Mat4 {
	return math.Perspective(c.FovY, aspect, c.Near, c.Far).Mul(c.ViewMatrix())
}

// SetDistance moves the camera to d immediately, without easing.
func (c *OrbitCamera) SetDistance(d float64) {
	c.Target = c.clampDistance(d)
	c.Distance = c.Target
	c.zoomVelocity = 0
}

// Update advances auto-rotation and the zoom spring by dt seconds.
func (c *OrbitCamera) Update(dt float64) {
	if dt <= 0 {
		return
	}
	if c.AutoRotate {
		c.RotationY += c.RotateRate * dt
		c.RotationY = gomath.Mod(c.RotationY, 2*gomath.Pi)
	}
	if c.Distance != c.Target || c.zoomVelocity != 0 {
		spring := harmonica.NewSpring(dt, c.ZoomFrequency, c.ZoomDamping)
		c.Distance, c.zoomVelocity = spring.Update(c.Distance, c.zoomVelocity, c.Target)
		if gomath.Abs(c.Distance-c.Target) < 1e-4 && gomath.Abs(c.zoomVelocity) < 1e-4 {
			c.Distance, c.zoomVelocity = c.Target, 0
		}
	}
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float64) {
	c.RotationY -= deltaX * c.DragSensitivity
	c.RotationX += deltaY * c.DragSensitivity

	// Clamp pitch
	if c.RotationX < c.MinPitch {
		c.RotationX = c.MinPitch
	}
	if c.RotationX > c.MaxPitch {
		c.RotationX = c.MaxPitch
	}
}

// HandleZoom moves the zoom target based on scroll wheel delta. The
// distance follows on Update.
func (c *OrbitCamera) HandleZoom(delta float64) {
	c.Target = c.clampDistance(c.Target - delta*c.Target*c.ZoomSensitivity)
}

func (c *OrbitCamera) clampDistance(d float64) float64 {
	return max(c.MinDistance, min(d, c.MaxDistance))
}

// ToScreen projects a world point into pixel coordinates of a width x height
// viewport with the origin top-left. ok is false for points behind the
// camera or outside the depth range.
func ToScreen(vp math.Mat4, p math.Vec3, width, height int) (pt math.Vec2, ok bool) {
	ndc, ok := vp.Project(p)
	if !ok || ndc.Z < -1 || ndc.Z > 1 {
		return math.Vec2{}, false
	}
	return math.Vec2{
		X: (ndc.X + 1) * 0.5 * float64(width),
		Y: (1 - ndc.Y) * 0.5 * float64(height),
	}, true
}
