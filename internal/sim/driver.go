// Package sim runs a scene without a window: it feeds frame timestamps from
// a simulated or wall clock, records telemetry and exports the final mesh.
package sim

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/windflag/internal/config"
	"github.com/Faultbox/windflag/internal/logger"
	"github.com/Faultbox/windflag/internal/scene"
	"github.com/Faultbox/windflag/internal/telemetry"
	"github.com/Faultbox/windflag/pkg/formats"
)

// Result summarizes a run.
type Result struct {
	Frames     int
	Steps      int
	SimTime    time.Duration
	FinalForce float64
	Rows       int
	Wall       time.Duration
}

// Driver owns the frame clock of a headless run.
type Driver struct {
	cfg     *config.Config
	scene   *scene.Scene
	out     *telemetry.Output
	sampler telemetry.Sampler
	rng     *rand.Rand
	log     *zap.Logger
}

// New creates a driver for sc. out may be nil to disable telemetry. A nil
// rng uses a fixed seed for the frame clock.
func New(cfg *config.Config, sc *scene.Scene, out *telemetry.Output, rng *rand.Rand) *Driver {
	if rng == nil {
		rng = rand.New(rand.NewPCG(cfg.Wind.Seed, 7))
	}
	return &Driver{
		cfg:   cfg,
		scene: sc,
		out:   out,
		rng:   rng,
		log:   logger.Named("sim"),
	}
}

// Interval returns the nominal frame interval.
func (d *Driver) Interval() time.Duration {
	return time.Duration(float64(time.Second) / d.cfg.Sim.FPS)
}

// nextInterval returns the frame interval scaled by a uniform factor in
// [1-jitter, 1+jitter).
func (d *Driver) nextInterval() time.Duration {
	base := d.Interval()
	j := d.cfg.Sim.FrameJitter
	if j == 0 {
		return base
	}
	f := 1 + j*(2*d.rng.Float64()-1)
	return time.Duration(float64(base) * f)
}

// Run processes frames until the configured count is reached or ctx is
// cancelled. Cancellation is not an error.
func (d *Driver) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	var res Result

	if err := d.out.WriteConfig(d.cfg); err != nil {
		return res, fmt.Errorf("writing config snapshot: %w", err)
	}

	var ticker *time.Ticker
	if d.cfg.Sim.Realtime {
		ticker = time.NewTicker(d.Interval())
		defer ticker.Stop()
	}

	d.log.Info("run started",
		zap.Int("frames", d.cfg.Sim.Frames),
		zap.Bool("realtime", d.cfg.Sim.Realtime),
		zap.Duration("interval", d.Interval()),
		zap.Float64("jitter", d.cfg.Sim.FrameJitter))

	var now time.Duration
	every := max(d.cfg.Telemetry.Every, 1)
	for frames := d.cfg.Sim.Frames; frames == 0 || res.Frames < frames; {
		if ticker != nil {
			select {
			case <-ctx.Done():
				return d.finish(res, start), nil
			case <-ticker.C:
			}
			now = time.Since(start)
		} else {
			if ctx.Err() != nil {
				return d.finish(res, start), nil
			}
			now += d.nextInterval()
		}

		st := d.scene.Frame(now)
		res.Frames++
		res.Steps += st.Steps
		res.SimTime = now

		if st.Frame%every == 0 {
			if err := d.out.WriteFrames(d.sampler.SampleScene(st, d.scene)); err != nil {
				return res, err
			}
		}
	}

	return d.finish(res, start), nil
}

func (d *Driver) finish(res Result, start time.Time) Result {
	res.FinalForce = d.scene.Accumulator().Force()
	res.Rows = d.out.Rows()
	res.Wall = time.Since(start)
	return res
}

// ExportOBJ writes the current mesh of flag i to path.
func ExportOBJ(sc *scene.Scene, i int, path string) error {
	f, _ := sc.Flag(i)
	o := &formats.OBJ{
		Name:     f.Name,
		Vertices: sc.Snapshot(i, nil),
		Faces:    sc.Triangles(i),
	}
	if err := formats.SaveOBJ(path, o); err != nil {
		return fmt.Errorf("exporting %s: %w", f.Name, err)
	}
	return nil
}
