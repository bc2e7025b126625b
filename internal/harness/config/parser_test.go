package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParseDurationString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{
			name:     "milliseconds",
			input:    "1ms",
			expected: time.Millisecond,
		},
		{
			name:     "nanoseconds",
			input:    "100ns",
			expected: 100 * time.Nanosecond,
		},
		{
			name:     "fractional microseconds",
			input:    "1.5us",
			expected: 1500 * time.Nanosecond,
		},
		{
			name:     "integer as nanoseconds",
			input:    "1000000",
			expected: time.Millisecond,
		},
		{
			name:     "negative",
			input:    "-50us",
			expected: -50 * time.Microsecond,
		},
		{
			name:     "empty string",
			input:    "",
			expected: 0,
		},
		{
			name:    "invalid format",
			input:   "abc",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDurationString(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseDurationString() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.expected {
				t.Errorf("ParseDurationString() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestParseConfig_YAML(t *testing.T) {
	yamlConfig := `
name: "scenario1"
description: "idle system"
iterations: 500
nominal: 2ms
clock: monotonic_raw
signal: SIGUSR2
timerSignal: SIGRTMIN+1
pollInterval: 1us
spinTimeout: 5s
outputDir: ./out
experiments: [timer, nanosleep]
priority: 80
thresholds:
  nanosleep:
    - "max < 200us"
`
	cfg, err := ParseConfig([]byte(yamlConfig))
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}

	if cfg.Name != "scenario1" {
		t.Errorf("Name = %q, want scenario1", cfg.Name)
	}
	if cfg.Iterations != 500 {
		t.Errorf("Iterations = %d, want 500", cfg.Iterations)
	}
	if time.Duration(cfg.Nominal) != 2*time.Millisecond {
		t.Errorf("Nominal = %v, want 2ms", cfg.Nominal)
	}
	if time.Duration(cfg.PollInterval) != time.Microsecond {
		t.Errorf("PollInterval = %v, want 1us", cfg.PollInterval)
	}
	if time.Duration(cfg.SpinTimeout) != 5*time.Second {
		t.Errorf("SpinTimeout = %v, want 5s", cfg.SpinTimeout)
	}
	if cfg.Priority != 80 {
		t.Errorf("Priority = %d, want 80", cfg.Priority)
	}
	if got := cfg.Selected(); len(got) != 2 || got[0] != ExperimentNanosleep || got[1] != ExperimentTimer {
		t.Errorf("Selected() = %v, want [nanosleep timer]", got)
	}
	if len(cfg.Thresholds[ExperimentNanosleep]) != 1 {
		t.Errorf("Thresholds = %v, want one nanosleep expression", cfg.Thresholds)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestParseConfig_IntegerNominal(t *testing.T) {
	cfg, err := ParseConfig([]byte("nominal: 1000000\n"))
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if time.Duration(cfg.Nominal) != time.Millisecond {
		t.Errorf("Nominal = %v, want 1ms", cfg.Nominal)
	}
}

func TestParseConfig_JSON(t *testing.T) {
	jsonConfig := `{"name": "json run", "iterations": 10, "nominal": "500us", "experiments": ["signal"]}`
	cfg, err := ParseConfig([]byte(jsonConfig))
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.Name != "json run" || cfg.Iterations != 10 {
		t.Errorf("ParseConfig() = %+v", cfg)
	}
	if time.Duration(cfg.Nominal) != 500*time.Microsecond {
		t.Errorf("Nominal = %v, want 500us", cfg.Nominal)
	}
}

func TestParseConfig_Empty(t *testing.T) {
	cfg, err := ParseConfig([]byte(""))
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	ApplyDefaults(cfg)
	if cfg.Iterations != DefaultIterations {
		t.Errorf("Iterations = %d, want %d", cfg.Iterations, DefaultIterations)
	}
}

func TestParseConfig_SchemaRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "unknown field", doc: "iterationz: 5\n"},
		{name: "zero iterations", doc: "iterations: 0\n"},
		{name: "string iterations", doc: "iterations: many\n"},
		{name: "bad duration", doc: "nominal: soon\n"},
		{name: "unknown experiment", doc: "experiments: [qsort]\n"},
		{name: "duplicate experiment", doc: "experiments: [timer, timer]\n"},
		{name: "priority too high", doc: "priority: 120\n"},
		{name: "thresholds not a list", doc: "thresholds:\n  timer: \"max < 1ms\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseConfig([]byte(tt.doc)); err == nil {
				t.Errorf("ParseConfig(%q) should have failed", tt.doc)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "harness.yaml")
	if err := os.WriteFile(path, []byte("name: from-file\niterations: 42\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Name != "from-file" || cfg.Iterations != 42 {
		t.Errorf("LoadConfig() = %+v", cfg)
	}
}

func TestLoadConfig_NotFound(t *testing.T) {
	_, err := LoadConfig("/nonexistent/harness.yaml")
	if err == nil {
		t.Fatal("LoadConfig() should fail for a missing file")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("LoadConfig() error = %v, should mention 'not found'", err)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &HarnessConfig{Iterations: 7}
	ApplyDefaults(cfg)

	if cfg.Iterations != 7 {
		t.Errorf("Iterations overwritten: %d", cfg.Iterations)
	}
	if time.Duration(cfg.Nominal) != DefaultNominal {
		t.Errorf("Nominal = %v, want %v", cfg.Nominal, DefaultNominal)
	}
	if cfg.Clock != DefaultClock {
		t.Errorf("Clock = %q, want %q", cfg.Clock, DefaultClock)
	}
	if cfg.Signal != DefaultSignal || cfg.TimerSignal != DefaultTimerSignal {
		t.Errorf("signals = %q/%q", cfg.Signal, cfg.TimerSignal)
	}
	if time.Duration(cfg.PollInterval) != DefaultPollInterval {
		t.Errorf("PollInterval = %v, want %v", cfg.PollInterval, DefaultPollInterval)
	}
	if cfg.SpinTimeout != 0 {
		t.Errorf("SpinTimeout = %v, want unbounded", cfg.SpinTimeout)
	}
	if cfg.OutputDir != DefaultOutputDir {
		t.Errorf("OutputDir = %q, want %q", cfg.OutputDir, DefaultOutputDir)
	}
}

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{input: `"1ms"`, expected: time.Millisecond},
		{input: `1000`, expected: time.Microsecond},
		{input: `null`, expected: 0},
		{input: `"bogus"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalJSON([]byte(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("UnmarshalJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && time.Duration(d) != tt.expected {
				t.Errorf("UnmarshalJSON() = %v, want %v", time.Duration(d), tt.expected)
			}
		})
	}
}

func TestDuration_MarshalJSON(t *testing.T) {
	b, err := Duration(100 * time.Nanosecond).MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `"100ns"` {
		t.Errorf("MarshalJSON() = %s, want \"100ns\"", b)
	}
}
