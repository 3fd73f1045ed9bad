package viewer

import (
	gomath "math"
	"math/rand/v2"
	"testing"

	"github.com/Faultbox/windflag/internal/config"
	"github.com/Faultbox/windflag/internal/engine/camera"
	"github.com/Faultbox/windflag/internal/logger"
	"github.com/Faultbox/windflag/internal/scene"
	"github.com/Faultbox/windflag/pkg/math"
)

// newTestViewer builds a viewer without a window.
func newTestViewer(t *testing.T, mutate func(*config.Config)) *Viewer {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}
	sc, err := scene.NewWithRand(cfg, rand.New(rand.NewPCG(1, 2)))
	if err != nil {
		t.Fatalf("NewWithRand failed: %v", err)
	}
	return &Viewer{
		config: cfg,
		scene:  sc,
		camera: camera.NewOrbitCamera(),
		panel:  Panel{ScaleX: cfg.Cloth.ScaleX, ScaleY: cfg.Cloth.ScaleY},
		log:    logger.Named("viewer"),
	}
}

func TestApplyMovesSelectedFlag(t *testing.T) {
	v := newTestViewer(t, nil)
	before, _ := v.scene.Flag(0)

	v.apply(ActionMoveRight)
	v.apply(ActionMoveUp)
	v.apply(ActionMoveFar)

	after, fc := v.scene.Flag(0)
	if after == before {
		t.Error("moving the flag did not rebuild it")
	}
	if fc.Position != [3]float64{1, 1, -1} {
		t.Errorf("position = %v, want [1 1 -1]", fc.Position)
	}
	if after.Position != (math.Vec3{X: 1, Y: 1, Z: -1}) {
		t.Errorf("mesh position = %v", after.Position)
	}
}

func TestApplyNextFlagTargetsSecondFlag(t *testing.T) {
	v := newTestViewer(t, func(cfg *config.Config) {
		cfg.Flags = append(cfg.Flags, config.FlagConfig{Name: "second", Position: [3]float64{20, 0, 0}, Color: 0xc1ffc1, PoleScale: 1, PoleLength: 20})
	})

	v.apply(ActionNextFlag)
	v.apply(ActionMoveLeft)

	cfg := v.scene.Config()
	if cfg.Flags[0].Position != [3]float64{} {
		t.Errorf("first flag moved to %v", cfg.Flags[0].Position)
	}
	if cfg.Flags[1].Position != [3]float64{19, 0, 0} {
		t.Errorf("second flag at %v, want [19 0 0]", cfg.Flags[1].Position)
	}

	v.apply(ActionNextFlag)
	if v.panel.Selected != 0 {
		t.Errorf("selection did not wrap: %d", v.panel.Selected)
	}
}

func TestApplyCosmeticKeepsMesh(t *testing.T) {
	v := newTestViewer(t, nil)
	before, _ := v.scene.Flag(0)

	v.apply(ActionCycleColor)
	v.apply(ActionCyclePoleColor)
	v.apply(ActionLongerPole)

	after, fc := v.scene.Flag(0)
	if after != before {
		t.Error("cosmetic change rebuilt the mesh")
	}
	if fc.Color != NextColor(0xc1ffc1) {
		t.Errorf("color = %06x, want %06x", fc.Color, NextColor(0xc1ffc1))
	}
	if fc.PoleColor != NextColor(0x999999) {
		t.Errorf("pole color = %06x, want %06x", fc.PoleColor, NextColor(0x999999))
	}
	if fc.PoleScale < 1.09 || fc.PoleScale > 1.11 {
		t.Errorf("pole scale = %v, want 1.1", fc.PoleScale)
	}
}

func TestApplyRejectedRescaleRestoresPanel(t *testing.T) {
	v := newTestViewer(t, func(cfg *config.Config) {
		cfg.Cloth.BaseWidth = 5
		cfg.Cloth.ScaleX = 0.4
	})
	v.panel.ScaleX = 0.4

	// 5 * 0.3 rounds to a 2 wide grid: accepted
	v.apply(ActionNarrower)
	if got := v.scene.Config().Cloth.ScaleX; gomath.Abs(got-0.3) > 1e-9 {
		t.Fatalf("scene scale = %v, want 0.3", got)
	}

	// 5 * 0.2 is a 1 wide grid: rejected, panel follows the scene
	v.apply(ActionNarrower)
	if got := v.scene.Config().Cloth.ScaleX; gomath.Abs(got-0.3) > 1e-9 {
		t.Errorf("scene scale = %v after rejected rescale, want 0.3", got)
	}
	if gomath.Abs(v.panel.ScaleX-0.3) > 1e-9 {
		t.Errorf("panel scale = %v after rejected rescale, want 0.3", v.panel.ScaleX)
	}
}

