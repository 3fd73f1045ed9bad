// Package config handles simulation configuration loading and management.
package config

import (
	"errors"
	"fmt"
	gomath "math"
	"time"

	"github.com/Faultbox/windflag/pkg/cloth"
	"github.com/Faultbox/windflag/pkg/math"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds all simulation settings.
type Config struct {
	Cloth     ClothConfig     `yaml:"cloth"`
	Wind      WindConfig      `yaml:"wind"`
	Flags     []FlagConfig    `yaml:"flags"`
	Sim       SimConfig       `yaml:"sim"`
	Viewer    ViewerConfig    `yaml:"viewer"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ClothConfig holds grid and physics settings shared by every flag.
type ClothConfig struct {
	BaseWidth            int     `yaml:"base_width"`  // Grid width in points at scale 1
	BaseHeight           int     `yaml:"base_height"` // Grid height in points at scale 1
	ScaleX               float64 `yaml:"scale_x"`
	ScaleY               float64 `yaml:"scale_y"`
	Gravity              float64 `yaml:"gravity"`
	Damping              float64 `yaml:"damping"`
	RelaxationIterations int     `yaml:"relaxation_iterations"`
	Epsilon              float64 `yaml:"epsilon"`
}

// WindConfig holds the fixed-step accumulator and wind walk settings.
type WindConfig struct {
	FixedStep       time.Duration `yaml:"fixed_step"`
	Direction       [3]float64    `yaml:"direction"`
	MaxForce        float64       `yaml:"max_force"`
	Jitter          float64       `yaml:"jitter"`
	MaxStepsPerTick int           `yaml:"max_steps_per_tick"` // 0 = unlimited
	Seed            uint64        `yaml:"seed"`               // 0 = time-based
}

// FlagConfig places one flag and its pole.
type FlagConfig struct {
	Name       string     `yaml:"name"`
	Position   [3]float64 `yaml:"position"`
	Color      uint32     `yaml:"color"`
	PoleColor  uint32     `yaml:"pole_color"`
	PoleScale  float64    `yaml:"pole_scale"`
	PoleLength float64    `yaml:"pole_length"`
}

// SimConfig holds headless driver settings.
type SimConfig struct {
	Frames      int     `yaml:"frames"`       // Frames to simulate, 0 = until interrupted
	FPS         float64 `yaml:"fps"`          // Nominal frame rate of the simulated clock
	FrameJitter float64 `yaml:"frame_jitter"` // Relative frame interval jitter in [0, 1)
	Realtime    bool    `yaml:"realtime"`     // Drive from the wall clock instead
	OBJPath     string  `yaml:"obj_path"`     // Export final mesh of the first flag
}

// ViewerConfig holds display settings.
type ViewerConfig struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	Fullscreen bool    `yaml:"fullscreen"`
	VSync      bool    `yaml:"vsync"`
	AutoRotate bool    `yaml:"auto_rotate"`
	Distance   float64 `yaml:"distance"`
	Background uint32  `yaml:"background"`
}

// TelemetryConfig holds per-frame statistics output settings.
type TelemetryConfig struct {
	OutputDir string `yaml:"output_dir"` // Empty disables CSV output
	Every     int    `yaml:"every"`      // Record every Nth frame
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with the reference simulation values.
func Default() *Config {
	return &Config{
		Cloth: ClothConfig{
			BaseWidth:            15,
			BaseHeight:           10,
			ScaleX:               1,
			ScaleY:               1,
			Gravity:              cloth.DefaultGravity,
			Damping:              cloth.DefaultDamping,
			RelaxationIterations: cloth.DefaultRelaxationIterations,
			Epsilon:              cloth.DefaultEpsilon,
		},
		Wind: WindConfig{
			FixedStep: cloth.DefaultFixedStep,
			Direction: [3]float64{-1, 0, 1},
			MaxForce:  cloth.DefaultMaxForce,
			Jitter:    cloth.DefaultJitter,
		},
		Flags: []FlagConfig{
			{
				Name:       "flag",
				Color:      0xc1ffc1,
				PoleColor:  0x999999,
				PoleScale:  1,
				PoleLength: 20,
			},
		},
		Sim: SimConfig{
			Frames: 600,
			FPS:    60,
		},
		Viewer: ViewerConfig{
			Width:      1280,
			Height:     720,
			VSync:      true,
			AutoRotate: true,
			Distance:   50,
			Background: 0xffffff,
		},
		Telemetry: TelemetryConfig{
			Every: 1,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// GridSize returns the grid dimensions after applying the scale factors.
func (c ClothConfig) GridSize() (width, height int) {
	width = int(gomath.Round(float64(c.BaseWidth) * c.ScaleX))
	height = int(gomath.Round(float64(c.BaseHeight) * c.ScaleY))
	return width, height
}

// Params converts the cloth settings into solver parameters.
func (c ClothConfig) Params() cloth.Params {
	return cloth.Params{
		Gravity:              math.Vec3{Y: -c.Gravity},
		Damping:              c.Damping,
		RelaxationIterations: c.RelaxationIterations,
		Epsilon:              c.Epsilon,
	}
}

// Params converts the wind settings into accumulator parameters.
func (w WindConfig) Params() cloth.WindParams {
	return cloth.WindParams{
		FixedStep:       w.FixedStep,
		Direction:       Vec3(w.Direction),
		MaxForce:        w.MaxForce,
		Jitter:          w.Jitter,
		MaxStepsPerTick: w.MaxStepsPerTick,
	}
}

// Vec3 converts a YAML triple into a vector.
func Vec3(v [3]float64) math.Vec3 {
	return math.Vec3{X: v[0], Y: v[1], Z: v[2]}
}

// Validate checks the settings the simulation cannot run without.
func (c *Config) Validate() error {
	if w, h := c.Cloth.GridSize(); w < 2 || h < 2 {
		return fmt.Errorf("%w: scaled grid %dx%d is below 2x2", ErrInvalid, w, h)
	}
	if c.Cloth.Damping < 0 || c.Cloth.Damping > 1 {
		return fmt.Errorf("%w: damping %v outside [0, 1]", ErrInvalid, c.Cloth.Damping)
	}
	if c.Cloth.RelaxationIterations < 0 {
		return fmt.Errorf("%w: negative relaxation iterations", ErrInvalid)
	}
	if c.Wind.FixedStep <= 0 {
		return fmt.Errorf("%w: fixed step must be positive, got %v", ErrInvalid, c.Wind.FixedStep)
	}
	if c.Wind.MaxForce < 0 || c.Wind.Jitter < 0 {
		return fmt.Errorf("%w: wind force and jitter must be non-negative", ErrInvalid)
	}
	if len(c.Flags) == 0 {
		return fmt.Errorf("%w: at least one flag is required", ErrInvalid)
	}
	if c.Sim.FPS <= 0 {
		return fmt.Errorf("%w: fps must be positive, got %v", ErrInvalid, c.Sim.FPS)
	}
	if c.Sim.FrameJitter < 0 || c.Sim.FrameJitter >= 1 {
		return fmt.Errorf("%w: frame jitter %v outside [0, 1)", ErrInvalid, c.Sim.FrameJitter)
	}
	return nil
}
