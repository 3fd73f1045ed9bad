package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/Faultbox/windflag/internal/config"
)

// Output writes frames.csv and a config snapshot into a directory.
// A nil *Output discards everything.
type Output struct {
	dir           string
	framesFile    *os.File
	headerWritten bool
	rows          int
}

// NewOutput creates the output directory and frames.csv.
// Returns nil if dir is empty (output disabled).
func NewOutput(dir string) (*Output, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, "frames.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating frames.csv: %w", err)
	}
	return &Output{dir: dir, framesFile: f}, nil
}

// WriteConfig saves the configuration the run used as YAML.
func (o *Output) WriteConfig(cfg *config.Config) error {
	if o == nil {
		return nil
	}
	return cfg.SaveTo(filepath.Join(o.dir, "config.yaml"))
}

// WriteFrames appends records to frames.csv.
func (o *Output) WriteFrames(records []FrameRecord) error {
	if o == nil || len(records) == 0 {
		return nil
	}

	if !o.headerWritten {
		// First write includes headers
		if err := gocsv.Marshal(records, o.framesFile); err != nil {
			return fmt.Errorf("writing frames: %w", err)
		}
		o.headerWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, o.framesFile); err != nil {
			return fmt.Errorf("writing frames: %w", err)
		}
	}
	o.rows += len(records)
	return nil
}

// Rows returns the number of records written.
func (o *Output) Rows() int {
	if o == nil {
		return 0
	}
	return o.rows
}

// Dir returns the output directory.
func (o *Output) Dir() string {
	if o == nil {
		return ""
	}
	return o.dir
}

// Close flushes and closes frames.csv.
func (o *Output) Close() error {
	if o == nil {
		return nil
	}
	if err := o.framesFile.Sync(); err != nil {
		o.framesFile.Close()
		return err
	}
	return o.framesFile.Close()
}

// ReadFrames parses a frames.csv file.
func ReadFrames(path string) ([]FrameRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var records []FrameRecord
	if err := gocsv.UnmarshalFile(f, &records); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return records, nil
}
