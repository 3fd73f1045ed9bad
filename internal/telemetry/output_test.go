package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/windflag/internal/config"
)

func TestNewOutputDisabled(t *testing.T) {
	o, err := NewOutput("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o != nil {
		t.Fatal("expected nil output for empty dir")
	}

	// Nil output is a no-op
	if err := o.WriteFrames([]FrameRecord{{Frame: 1}}); err != nil {
		t.Errorf("WriteFrames on nil output: %v", err)
	}
	if err := o.WriteConfig(config.Default()); err != nil {
		t.Errorf("WriteConfig on nil output: %v", err)
	}
	if err := o.Close(); err != nil {
		t.Errorf("Close on nil output: %v", err)
	}
	if o.Rows() != 0 {
		t.Errorf("Rows on nil output = %d", o.Rows())
	}
}

func TestOutputWritesFrames(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	o, err := NewOutput(dir)
	if err != nil {
		t.Fatalf("NewOutput failed: %v", err)
	}

	if err := o.WriteFrames([]FrameRecord{{Frame: 1, Flag: "a", Steps: 3}}); err != nil {
		t.Fatalf("first WriteFrames failed: %v", err)
	}
	if err := o.WriteFrames([]FrameRecord{{Frame: 2, Flag: "a", Steps: 1}, {Frame: 2, Flag: "b", Steps: 1}}); err != nil {
		t.Fatalf("second WriteFrames failed: %v", err)
	}
	if err := o.WriteConfig(config.Default()); err != nil {
		t.Fatalf("WriteConfig failed: %v", err)
	}
	if err := o.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if o.Rows() != 3 {
		t.Errorf("rows = %d, want 3", o.Rows())
	}

	data, err := os.ReadFile(filepath.Join(dir, "frames.csv"))
	if err != nil {
		t.Fatalf("reading frames.csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("frames.csv has %d lines, want header + 3", len(lines))
	}
	if !strings.HasPrefix(lines[0], "frame,sim_time_ms,flag,steps,wind_force") {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if strings.Count(string(data), "frame,") != 1 {
		t.Error("header written more than once")
	}

	records, err := ReadFrames(filepath.Join(dir, "frames.csv"))
	if err != nil {
		t.Fatalf("ReadFrames failed: %v", err)
	}
	if len(records) != 3 || records[2].Flag != "b" || records[0].Steps != 3 {
		t.Errorf("unexpected records: %+v", records)
	}

	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config snapshot missing: %v", err)
	}
}
