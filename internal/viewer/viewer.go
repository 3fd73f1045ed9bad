// Package viewer implements the interactive viewer loop.
package viewer

import (
	"context"
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/windflag/internal/config"
	"github.com/Faultbox/windflag/internal/engine/camera"
	"github.com/Faultbox/windflag/internal/engine/input"
	"github.com/Faultbox/windflag/internal/engine/renderer"
	"github.com/Faultbox/windflag/internal/engine/window"
	"github.com/Faultbox/windflag/internal/logger"
	"github.com/Faultbox/windflag/internal/scene"
)

// Viewer is the interactive viewer instance.
type Viewer struct {
	config   *config.Config
	running  bool
	paused   bool
	scene    *scene.Scene
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	camera   *camera.OrbitCamera
	panel    Panel
	log      *zap.Logger
}

// New creates the window and builds the scene described by cfg.
func New(cfg *config.Config) (*Viewer, error) {
	v := &Viewer{
		config: cfg,
		panel:  Panel{ScaleX: cfg.Cloth.ScaleX, ScaleY: cfg.Cloth.ScaleY},
		log:    logger.Named("viewer"),
	}

	v.log.Info("initializing viewer",
		zap.Int("width", cfg.Viewer.Width),
		zap.Int("height", cfg.Viewer.Height),
		zap.Int("flags", len(cfg.Flags)))

	var err error
	v.scene, err = scene.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build scene: %w", err)
	}

	v.window, err = window.New(window.Config{
		Title:      "windflag",
		Width:      cfg.Viewer.Width,
		Height:     cfg.Viewer.Height,
		Fullscreen: cfg.Viewer.Fullscreen,
		VSync:      cfg.Viewer.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	v.renderer = renderer.New(v.window.Renderer(), renderer.Config{
		Background: cfg.Viewer.Background,
	})
	v.input = input.New()

	v.camera = camera.NewOrbitCamera()
	v.camera.SetDistance(cfg.Viewer.Distance)
	v.camera.AutoRotate = cfg.Viewer.AutoRotate

	v.log.Info("viewer initialized")
	return v, nil
}

// Run drives the scene from the wall clock until the window closes or ctx
// is cancelled.
func (v *Viewer) Run(ctx context.Context) error {
	v.running = true

	start := time.Now()
	lastTime := start
	frameCount := 0
	fpsTimer := start
	var pausedFor time.Duration
	var pausedAt time.Time

	v.log.Info("starting viewer loop")

	for v.running {
		if ctx.Err() != nil {
			break
		}

		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		if v.input.Update() {
			v.running = false
			break
		}

		for _, event := range v.input.Events() {
			switch event.Type {
			case input.EventKeyDown:
				if event.Key == sdl.SCANCODE_P {
					if v.paused {
						pausedFor += time.Since(pausedAt)
					} else {
						pausedAt = time.Now()
					}
					v.paused = !v.paused
					continue
				}
				v.handleKey(event.Key)
			case input.EventMouseMove:
				v.camera.HandleDrag(float64(event.DX), float64(event.DY))
			case input.EventMouseWheel:
				v.camera.HandleZoom(float64(event.DY))
			}
		}

		if !v.paused {
			st := v.scene.Frame(now.Sub(start) - pausedFor)
			if st.Steps > 0 {
				v.log.Debug("frame",
					zap.Int("frame", st.Frame),
					zap.Int("steps", st.Steps),
					zap.Float64("force", st.Force))
			}
		}
		v.camera.Update(dt)

		w, h := v.window.Size()
		if err := v.renderer.Draw(v.scene, v.camera, w, h); err != nil {
			return fmt.Errorf("render error: %w", err)
		}
		v.window.Present()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			v.window.SetTitle(fmt.Sprintf("windflag - %d fps", frameCount))
			v.log.Debug("fps", zap.Int("count", frameCount), zap.Duration("dt", time.Duration(dt*float64(time.Second))))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (v *Viewer) handleKey(key sdl.Scancode) {
	if action, ok := keyActions[key]; ok {
		v.apply(action)
	}
}

// apply runs one panel action against the scene and camera.
func (v *Viewer) apply(action Action) {
	switch action {
	case ActionToggleRotate:
		v.camera.AutoRotate = !v.camera.AutoRotate
		return
	case ActionRebuild:
		if err := v.scene.Rebuild(); err != nil {
			v.log.Warn("rebuild failed", zap.Error(err))
		}
		return
	case ActionMoreIterations, ActionFewerIterations:
		n := v.scene.Config().Cloth.RelaxationIterations
		n = v.panel.Iterations(action, n)
		v.scene.SetRelaxationIterations(n)
		v.log.Info("relaxation iterations", zap.Int("iterations", n))
		return
	case ActionNextFlag:
		v.panel.Select(v.scene.Len())
		_, fc := v.scene.Flag(v.panel.Selected)
		v.log.Info("flag selected", zap.Int("index", v.panel.Selected), zap.String("name", fc.Name))
		return
	}

	if v.applyFlag(action) {
		return
	}

	prev := v.panel
	if !v.panel.Apply(action) {
		return
	}
	if err := v.scene.SetGridScale(v.panel.ScaleX, v.panel.ScaleY); err != nil {
		v.panel = prev
		v.log.Warn("grid rescale rejected", zap.Error(err))
		return
	}
	cfg := v.scene.Config()
	w, h := cfg.Cloth.GridSize()
	v.log.Info("grid rebuilt",
		zap.Float64("scale_x", v.panel.ScaleX),
		zap.Float64("scale_y", v.panel.ScaleY),
		zap.Int("width", w),
		zap.Int("height", h))
}

// applyFlag handles the controls acting on the selected flag. It reports
// whether action was one of them.
func (v *Viewer) applyFlag(action Action) bool {
	i := v.panel.Selected
	_, fc := v.scene.Flag(i)

	var err error
	switch action {
	case ActionMoveLeft, ActionMoveRight, ActionMoveUp, ActionMoveDown, ActionMoveNear, ActionMoveFar:
		pos, _ := v.panel.Move(action, config.Vec3(fc.Position))
		if err = v.scene.SetPosition(i, pos); err == nil {
			v.log.Info("flag moved", zap.String("name", fc.Name), logger.Vec3("position", pos))
		}
	case ActionLongerPole, ActionShorterPole:
		scale, changed := v.panel.PoleScale(action, fc.PoleScale)
		if !changed {
			return true
		}
		err = v.scene.SetPoleScale(i, scale)
	case ActionCycleColor:
		err = v.scene.SetColor(i, NextColor(fc.Color))
	case ActionCyclePoleColor:
		err = v.scene.SetPoleColor(i, NextColor(fc.PoleColor))
	default:
		return false
	}
	if err != nil {
		v.log.Warn("flag change rejected", zap.String("name", fc.Name), zap.Error(err))
	}
	return true
}

// Scene returns the scene the viewer drives.
func (v *Viewer) Scene() *scene.Scene {
	return v.scene
}

// Close releases the window.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")
	if v.window != nil {
		v.window.Close()
	}
}
