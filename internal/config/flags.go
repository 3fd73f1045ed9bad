package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagScaleX     = flag.Float64("scale-x", 0, "Flag width scale factor")
	flagScaleY     = flag.Float64("scale-y", 0, "Flag height scale factor")
	flagIterations = flag.Int("iterations", 0, "Constraint relaxation sweeps per step")
	flagSeed       = flag.Uint64("seed", 0, "Wind RNG seed (0 = time-based)")
	flagFrames     = flag.Int("frames", -1, "Frames to simulate (0 = until interrupted)")
	flagRealtime   = flag.Bool("realtime", false, "Drive the simulation from the wall clock")
	flagOutputDir  = flag.String("output-dir", "", "Directory for telemetry CSV and config snapshot")
	flagOBJ        = flag.String("obj", "", "Export the final mesh of the first flag as OBJ")
	flagWindowed   = flag.Bool("windowed", false, "Run the viewer in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run the viewer in fullscreen mode")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagScaleX > 0 {
		cfg.Cloth.ScaleX = *flagScaleX
	}
	if *flagScaleY > 0 {
		cfg.Cloth.ScaleY = *flagScaleY
	}
	if *flagIterations > 0 {
		cfg.Cloth.RelaxationIterations = *flagIterations
	}
	if *flagSeed != 0 {
		cfg.Wind.Seed = *flagSeed
	}
	if *flagFrames >= 0 {
		cfg.Sim.Frames = *flagFrames
	}
	if *flagRealtime {
		cfg.Sim.Realtime = true
	}
	if *flagOutputDir != "" {
		cfg.Telemetry.OutputDir = *flagOutputDir
	}
	if *flagOBJ != "" {
		cfg.Sim.OBJPath = *flagOBJ
	}
	if *flagWindowed {
		cfg.Viewer.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Viewer.Fullscreen = true
	}
}
