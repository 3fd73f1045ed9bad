// Package main is the entry point for the headless flag simulation.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/windflag/internal/config"
	"github.com/Faultbox/windflag/internal/logger"
	"github.com/Faultbox/windflag/internal/scene"
	"github.com/Faultbox/windflag/internal/sim"
	"github.com/Faultbox/windflag/internal/telemetry"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== windflag simulation ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if err := run(cfg); err != nil {
		logger.Error("simulation failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sc, err := scene.New(cfg)
	if err != nil {
		return fmt.Errorf("building scene: %w", err)
	}

	out, err := telemetry.NewOutput(cfg.Telemetry.OutputDir)
	if err != nil {
		return err
	}
	defer out.Close()

	res, err := sim.New(cfg, sc, out, nil).Run(ctx)
	if err != nil {
		return err
	}

	if cfg.Sim.OBJPath != "" {
		if err := sim.ExportOBJ(sc, 0, cfg.Sim.OBJPath); err != nil {
			return err
		}
		logger.Info("mesh exported", zap.String("path", cfg.Sim.OBJPath))
	}

	w, h := cfg.Cloth.GridSize()
	logger.Info("simulation finished",
		zap.Int("frames", res.Frames),
		zap.Int("steps", res.Steps),
		zap.Duration("sim_time", res.SimTime),
		zap.Duration("wall", res.Wall),
		zap.Float64("final_force", res.FinalForce),
		zap.Int("grid_width", w),
		zap.Int("grid_height", h),
		zap.Int("telemetry_rows", res.Rows),
		zap.String("output_dir", out.Dir()))

	fmt.Println(res.Summary(out.Dir()))
	return nil
}
