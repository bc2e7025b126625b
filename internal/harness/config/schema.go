// Package config provides configuration parsing and validation for the latency harness.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Experiment names, also used as trace file stems and threshold keys.
const (
	ExperimentNanosleep = "nanosleep"
	ExperimentUsleep    = "usleep"
	ExperimentSignal    = "signal"
	ExperimentTimer     = "timer"
)

// ExperimentOrder is the fixed order experiments run in.
var ExperimentOrder = []string{
	ExperimentNanosleep,
	ExperimentUsleep,
	ExperimentSignal,
	ExperimentTimer,
}

// Defaults.
const (
	DefaultIterations   = 10000
	DefaultNominal      = time.Millisecond
	DefaultClock        = "monotonic"
	DefaultSignal       = "SIGUSR1"
	DefaultTimerSignal  = "SIGRTMIN+1"
	DefaultPollInterval = 100 * time.Nanosecond
	DefaultOutputDir    = "."
	DefaultName         = "rtbench"
)

// HarnessConfig is the root configuration for one harness run.
//
// Example YAML:
//
//	name: "scenario1"
//	iterations: 10000
//	nominal: 1ms
//	clock: monotonic
//	signal: SIGUSR1
//	timerSignal: SIGRTMIN+1
//	outputDir: ./scenario/scenario1
//	thresholds:
//	  nanosleep: ["max < 200us", "avg < 60us"]
type HarnessConfig struct {
	// Name labels the run in summaries and reports
	Name string `json:"name" yaml:"name"`

	// Description of the run (optional)
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Iterations per experiment
	Iterations int `json:"iterations" yaml:"iterations"`

	// Nominal is the requested sleep duration and the timer period
	Nominal Duration `json:"nominal" yaml:"nominal"`

	// Clock is the clock source for every timestamp
	Clock string `json:"clock" yaml:"clock"`

	// Signal is raised against the process by the signal experiment
	Signal string `json:"signal" yaml:"signal"`

	// TimerSignal is delivered on each interval timer expiry
	TimerSignal string `json:"timerSignal" yaml:"timerSignal"`

	// PollInterval is the short sleep used while waiting for a timer expiry
	PollInterval Duration `json:"pollInterval" yaml:"pollInterval"`

	// SpinTimeout bounds every busy-wait. Zero waits forever.
	SpinTimeout Duration `json:"spinTimeout,omitempty" yaml:"spinTimeout,omitempty"`

	// OutputDir receives the traces and summary.json
	OutputDir string `json:"outputDir" yaml:"outputDir"`

	// Experiments restricts the run to a subset. Order is always ExperimentOrder.
	Experiments []string `json:"experiments,omitempty" yaml:"experiments,omitempty"`

	// Priority is the SCHED_FIFO priority. Zero selects the maximum.
	Priority int `json:"priority,omitempty" yaml:"priority,omitempty"`

	// Thresholds maps an experiment name to pass/fail expressions
	// e.g. {"nanosleep": ["max < 200us", "p99 < 100us"]}
	Thresholds map[string][]string `json:"thresholds,omitempty" yaml:"thresholds,omitempty"`
}

// Enabled reports whether the named experiment is part of the run.
func (c *HarnessConfig) Enabled(name string) bool {
	if len(c.Experiments) == 0 {
		return true
	}
	for _, e := range c.Experiments {
		if e == name {
			return true
		}
	}
	return false
}

// Selected returns the enabled experiments in run order.
func (c *HarnessConfig) Selected() []string {
	var names []string
	for _, name := range ExperimentOrder {
		if c.Enabled(name) {
			names = append(names, name)
		}
	}
	return names
}

// Duration is a time.Duration that can be unmarshaled from JSON/YAML strings.
// Bare integers are nanoseconds.
type Duration time.Duration

// ParseDurationString parses "1ms", "100ns", "1.5us" or a bare nanosecond count.
func ParseDurationString(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(n), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	return d, nil
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Duration(d).String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "null" {
		*d = 0
		return nil
	}
	dur, err := ParseDurationString(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: duration must be a scalar", value.Line)
	}
	dur, err := ParseDurationString(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*d = Duration(dur)
	return nil
}

// String returns the duration as a string.
func (d Duration) String() string {
	return time.Duration(d).String()
}
