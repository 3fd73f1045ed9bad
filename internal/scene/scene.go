// Package scene hosts the flags of a session: it builds their meshes from
// the configuration, rebuilds them when the grid or placement changes, drives
// them from a frame clock and publishes consistent position snapshots.
package scene

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/windflag/internal/config"
	"github.com/Faultbox/windflag/internal/logger"
	"github.com/Faultbox/windflag/pkg/cloth"
	"github.com/Faultbox/windflag/pkg/math"
)

// ErrFlagIndex is returned when a setter names a flag that does not exist.
var ErrFlagIndex = errors.New("flag index out of range")

// Flag is one simulated sheet and its pole.
type Flag struct {
	Name     string
	Position math.Vec3
	Mesh     *cloth.Mesh

	// published is the position snapshot readers see between frames.
	published []math.Vec3
}

// Pole returns the end points of the flag pole.
func (f *Flag) Pole(cfg config.FlagConfig) (bottom, top math.Vec3) {
	half := cfg.PoleLength * cfg.PoleScale / 2
	return f.Position.Sub(math.Vec3{Y: half}), f.Position.Add(math.Vec3{Y: half})
}

// FrameStats describes one Frame call.
type FrameStats struct {
	Frame   int
	Now     time.Duration
	Steps   int
	Force   float64
	Wind    math.Vec3
	Elapsed time.Duration // Wall time spent stepping
}

// Scene owns every flag of a session. Frame and the rebuild methods must be
// called from one goroutine; Snapshot may be called from any goroutine.
type Scene struct {
	mu sync.RWMutex

	cfg   config.Config
	flags []*Flag
	acc   *cloth.Accumulator
	frame int
	log   *zap.Logger
}

// New builds a scene from cfg. A zero wind seed picks a time-based seed.
func New(cfg *config.Config) (*Scene, error) {
	seed := cfg.Wind.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return NewWithRand(cfg, rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// NewWithRand builds a scene whose wind walk draws from rng.
func NewWithRand(cfg *config.Config, rng *rand.Rand) (*Scene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Scene{
		cfg: *cfg,
		acc: cloth.NewAccumulator(cfg.Wind.Params(), rng),
		log: logger.Named("scene"),
	}
	s.cfg.Flags = append([]config.FlagConfig(nil), cfg.Flags...)

	flags, err := s.buildFlags(s.cfg)
	if err != nil {
		return nil, err
	}
	s.flags = flags
	return s, nil
}

// buildFlags creates fresh meshes for every configured flag. Nothing is
// replaced if any build fails.
func (s *Scene) buildFlags(cfg config.Config) ([]*Flag, error) {
	width, height := cfg.Cloth.GridSize()
	params := cfg.Cloth.Params()

	flags := make([]*Flag, 0, len(cfg.Flags))
	for _, fc := range cfg.Flags {
		pos := config.Vec3(fc.Position)
		mesh, err := cloth.Build(width, height, pos, params)
		if err != nil {
			return nil, fmt.Errorf("building flag %q: %w", fc.Name, err)
		}
		flags = append(flags, &Flag{
			Name:      fc.Name,
			Position:  pos,
			Mesh:      mesh,
			published: mesh.Positions(),
		})
		s.log.Debug("flag built",
			zap.String("name", fc.Name),
			zap.Int("width", width),
			zap.Int("height", height),
			zap.Int("constraints", len(mesh.Constraints())),
			logger.Vec3("position", pos),
		)
	}
	return flags, nil
}

// Frame feeds one frame timestamp to the accumulator, steps every flag the
// resulting number of times and publishes the new positions.
func (s *Scene) Frame(now time.Duration) FrameStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	wind := s.acc.Wind()
	force := s.acc.Force()

	targets := make([]cloth.Stepper, len(s.flags))
	for i, f := range s.flags {
		targets[i] = f.Mesh
	}
	steps := s.acc.Tick(now, targets...)

	if steps > 0 {
		for _, f := range s.flags {
			f.published = f.Mesh.PositionsInto(f.published)
		}
	}

	s.frame++
	stats := FrameStats{
		Frame:   s.frame,
		Now:     now,
		Steps:   steps,
		Force:   force,
		Wind:    wind,
		Elapsed: time.Since(start),
	}
	if steps > 8 {
		s.log.Debug("catching up", zap.Int("steps", steps), zap.Duration("now", now))
	}
	return stats
}

// SetGridScale rebuilds every flag with new scale factors.
func (s *Scene) SetGridScale(scaleX, scaleY float64) error {
	return s.rebuild(func(cfg *config.Config) {
		cfg.Cloth.ScaleX = scaleX
		cfg.Cloth.ScaleY = scaleY
	})
}

// SetPosition moves flag i by rebuilding it at pos.
func (s *Scene) SetPosition(i int, pos math.Vec3) error {
	if err := s.checkIndex(i); err != nil {
		return err
	}
	return s.rebuild(func(cfg *config.Config) {
		cfg.Flags[i].Position = [3]float64{pos.X, pos.Y, pos.Z}
	})
}

// SetPoleScale changes the drawn pole length. The cloth is not rebuilt.
func (s *Scene) SetPoleScale(i int, scale float64) error {
	return s.cosmetic(i, func(fc *config.FlagConfig) { fc.PoleScale = scale })
}

// SetColor changes a flag colour. The cloth is not rebuilt.
func (s *Scene) SetColor(i int, color uint32) error {
	return s.cosmetic(i, func(fc *config.FlagConfig) { fc.Color = color })
}

// SetPoleColor changes a pole colour. The cloth is not rebuilt.
func (s *Scene) SetPoleColor(i int, color uint32) error {
	return s.cosmetic(i, func(fc *config.FlagConfig) { fc.PoleColor = color })
}

func (s *Scene) cosmetic(i int, change func(*config.FlagConfig)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.cfg.Flags) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrFlagIndex, i, len(s.cfg.Flags))
	}
	change(&s.cfg.Flags[i])
	return nil
}

func (s *Scene) checkIndex(i int) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.cfg.Flags) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrFlagIndex, i, len(s.cfg.Flags))
	}
	return nil
}

// SetRelaxationIterations changes the sweep count on every current mesh and
// on meshes built later.
func (s *Scene) SetRelaxationIterations(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.Cloth.RelaxationIterations = max(n, 0)
	for _, f := range s.flags {
		f.Mesh.SetRelaxationIterations(n)
	}
}

// Rebuild discards every mesh and builds new ones from the current settings.
func (s *Scene) Rebuild() error {
	return s.rebuild(func(*config.Config) {})
}

// rebuild applies change to a copy of the settings and replaces all meshes.
// Old positions are discarded. On error the scene is left untouched.
func (s *Scene) rebuild(change func(*config.Config)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.cfg
	next.Flags = append([]config.FlagConfig(nil), s.cfg.Flags...)
	change(&next)
	if err := next.Validate(); err != nil {
		return err
	}

	flags, err := s.buildFlags(next)
	if err != nil {
		return err
	}

	s.cfg = next
	s.flags = flags
	w, h := next.Cloth.GridSize()
	s.log.Info("scene rebuilt", zap.Int("flags", len(flags)), zap.Int("width", w), zap.Int("height", h))
	return nil
}

// Len returns the number of flags.
func (s *Scene) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.flags)
}

// Snapshot copies the last published positions of flag i into dst.
func (s *Scene) Snapshot(i int, dst []math.Vec3) []math.Vec3 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	src := s.flags[i].published
	if cap(dst) < len(src) {
		dst = make([]math.Vec3, len(src))
	}
	dst = dst[:len(src)]
	copy(dst, src)
	return dst
}

// Triangles returns the triangle index triples of flag i.
func (s *Scene) Triangles(i int) [][3]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.flags[i].Mesh.TriangleIndices()
}

// Flag returns flag i and its settings. The mesh must only be read from the
// goroutine that calls Frame.
func (s *Scene) Flag(i int) (*Flag, config.FlagConfig) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.flags[i], s.cfg.Flags[i]
}

// Config returns a copy of the current settings.
func (s *Scene) Config() config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cfg := s.cfg
	cfg.Flags = append([]config.FlagConfig(nil), s.cfg.Flags...)
	return cfg
}

// Accumulator returns the scene's fixed-step accumulator.
func (s *Scene) Accumulator() *cloth.Accumulator {
	return s.acc
}

// Frames returns how many frames have been processed.
func (s *Scene) Frames() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frame
}
