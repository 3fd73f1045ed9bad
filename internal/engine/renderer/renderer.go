// Package renderer draws flag wireframes with the SDL2 2D renderer.
package renderer

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/windflag/internal/engine/camera"
	"github.com/Faultbox/windflag/internal/engine/wireframe"
	"github.com/Faultbox/windflag/internal/logger"
	"github.com/Faultbox/windflag/internal/scene"
	"github.com/Faultbox/windflag/pkg/math"
)

// Config holds renderer configuration.
type Config struct {
	Background uint32
}

// Renderer draws a scene through an SDL renderer.
type Renderer struct {
	config  Config
	sdl     *sdl.Renderer
	builder *wireframe.Builder

	positions []math.Vec3
}

// New creates a renderer drawing into r.
func New(r *sdl.Renderer, cfg Config) *Renderer {
	logger.Named("renderer").Debug("renderer ready",
		zap.String("background", fmt.Sprintf("#%06x", cfg.Background)))
	return &Renderer{
		config:  cfg,
		sdl:     r,
		builder: wireframe.NewBuilder(),
	}
}

// Draw clears the target and draws every flag and its pole. The caller
// presents the frame.
func (r *Renderer) Draw(sc *scene.Scene, cam *camera.OrbitCamera, width, height int) error {
	if width <= 0 || height <= 0 {
		return nil
	}

	br, bg, bb := wireframe.RGB(r.config.Background)
	if err := r.sdl.SetDrawColor(br, bg, bb, 255); err != nil {
		return fmt.Errorf("set background: %w", err)
	}
	if err := r.sdl.Clear(); err != nil {
		return fmt.Errorf("clear: %w", err)
	}

	vp := cam.ViewProjection(float64(width) / float64(height))

	for i := range sc.Len() {
		flag, fc := sc.Flag(i)

		pr, pg, pb := wireframe.RGB(fc.PoleColor)
		bottom, top := flag.Pole(fc)
		if seg, ok := wireframe.Line(vp, bottom, top, width, height); ok {
			if err := r.line(seg, pr, pg, pb); err != nil {
				return err
			}
		}

		r.positions = sc.Snapshot(i, r.positions)
		segs := r.builder.Mesh(vp, r.positions, sc.Triangles(i), width, height)

		cr, cg, cb := wireframe.RGB(fc.Color)
		for _, seg := range segs {
			if err := r.line(seg, cr, cg, cb); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Renderer) line(seg wireframe.Segment, red, green, blue uint8) error {
	if err := r.sdl.SetDrawColor(red, green, blue, 255); err != nil {
		return fmt.Errorf("set line color: %w", err)
	}
	if err := r.sdl.DrawLine(int32(seg.A.X), int32(seg.A.Y), int32(seg.B.X), int32(seg.B.Y)); err != nil {
		return fmt.Errorf("draw line: %w", err)
	}
	return nil
}
