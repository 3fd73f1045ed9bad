// Package telemetry samples per-frame cloth statistics and writes them as CSV.
package telemetry

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/Faultbox/windflag/internal/scene"
	"github.com/Faultbox/windflag/pkg/cloth"
)

// FrameRecord is one row of frames.csv: one flag in one frame.
type FrameRecord struct {
	Frame     int     `csv:"frame"`
	SimTimeMs float64 `csv:"sim_time_ms"`
	Flag      string  `csv:"flag"`
	Steps     int     `csv:"steps"`
	WindForce float64 `csv:"wind_force"`

	// Relative constraint length error
	StrainMean float64 `csv:"strain_mean"`
	StrainStd  float64 `csv:"strain_std"`
	StrainMax  float64 `csv:"strain_max"`

	// Per-step point displacement
	SpeedMean float64 `csv:"speed_mean"`
	SpeedMax  float64 `csv:"speed_max"`

	// Lowest point of the sheet
	MinY float64 `csv:"min_y"`

	StepMicros int64 `csv:"step_us"`
}

// Summary holds mean, standard deviation and maximum of a sample.
type Summary struct {
	Mean, Std, Max float64
}

// Summarize computes a Summary. An empty sample yields zeros.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	mean, std := stat.MeanStdDev(values, nil)
	if len(values) == 1 {
		std = 0
	}
	return Summary{Mean: mean, Std: std, Max: floats.Max(values)}
}

// Sampler turns scene state into frame records, reusing its buffers.
type Sampler struct {
	strains []float64
	speeds  []float64
}

// Sample builds a record for the mesh of one flag after a frame.
func (s *Sampler) Sample(st scene.FrameStats, name string, mesh *cloth.Mesh) FrameRecord {
	s.strains = mesh.Strains(s.strains)
	s.speeds = mesh.Speeds(s.speeds)

	strain := Summarize(s.strains)
	speed := Summarize(s.speeds)

	minY := mesh.Point(0).Position.Y
	for i := 1; i < mesh.Len(); i++ {
		if y := mesh.Point(i).Position.Y; y < minY {
			minY = y
		}
	}

	return FrameRecord{
		Frame:      st.Frame,
		SimTimeMs:  float64(st.Now) / 1e6,
		Flag:       name,
		Steps:      st.Steps,
		WindForce:  st.Force,
		StrainMean: strain.Mean,
		StrainStd:  strain.Std,
		StrainMax:  strain.Max,
		SpeedMean:  speed.Mean,
		SpeedMax:   speed.Max,
		MinY:       minY,
		StepMicros: st.Elapsed.Microseconds(),
	}
}

// SampleScene builds one record per flag of s.
func (s *Sampler) SampleScene(st scene.FrameStats, sc *scene.Scene) []FrameRecord {
	records := make([]FrameRecord, 0, sc.Len())
	for i := 0; i < sc.Len(); i++ {
		f, _ := sc.Flag(i)
		records = append(records, s.Sample(st, f.Name, f.Mesh))
	}
	return records
}
