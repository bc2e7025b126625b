package config

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/wesleyorama2/rtbench/internal/harness/clock"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors struct {
	Errors []*ValidationError
}

func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e.Errors)))
	for i, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Add adds an error to the collection.
func (e *ValidationErrors) Add(field, message string) {
	e.Errors = append(e.Errors, &ValidationError{Field: field, Message: message})
}

// HasErrors returns true if there are any errors.
func (e *ValidationErrors) HasErrors() bool {
	return len(e.Errors) > 0
}

// Validate validates the harness configuration.
//
// Returns nil if valid, or a ValidationErrors containing all validation errors.
// Call ApplyDefaults first; zero values are not filled in here.
func (c *HarnessConfig) Validate() error {
	errs := &ValidationErrors{}

	if c.Iterations <= 0 {
		errs.Add("iterations", "iterations must be greater than 0")
	}
	if c.Nominal <= 0 {
		errs.Add("nominal", "nominal duration must be greater than 0")
	}
	if c.PollInterval < 0 {
		errs.Add("pollInterval", "pollInterval cannot be negative")
	}
	if c.SpinTimeout < 0 {
		errs.Add("spinTimeout", "spinTimeout cannot be negative")
	}
	if c.Priority < 0 || c.Priority > 99 {
		errs.Add("priority", "priority must be between 0 and 99")
	}
	if c.OutputDir == "" {
		errs.Add("outputDir", "outputDir is required")
	}

	if _, err := clock.Parse(c.Clock); err != nil {
		errs.Add("clock", err.Error())
	}

	sig, err := ParseSignal(c.Signal)
	if err != nil {
		errs.Add("signal", err.Error())
	}
	tsig, err := ParseSignal(c.TimerSignal)
	if err != nil {
		errs.Add("timerSignal", err.Error())
	}
	if sig != 0 && sig == tsig && c.Enabled(ExperimentSignal) && c.Enabled(ExperimentTimer) {
		errs.Add("timerSignal", "timerSignal must differ from signal")
	}

	validateExperiments(c.Experiments, errs)
	validateThresholds(c.Thresholds, errs)

	if errs.HasErrors() {
		return errs
	}
	return nil
}

func validateExperiments(names []string, errs *ValidationErrors) {
	seen := make(map[string]bool)
	for i, name := range names {
		field := fmt.Sprintf("experiments[%d]", i)
		if !isExperiment(name) {
			errs.Add(field, fmt.Sprintf("unknown experiment: %s", name))
			continue
		}
		if seen[name] {
			errs.Add(field, fmt.Sprintf("duplicate experiment: %s", name))
		}
		seen[name] = true
	}
}

func validateThresholds(t map[string][]string, errs *ValidationErrors) {
	for name, exprs := range t {
		if !isExperiment(name) {
			errs.Add("thresholds."+name, fmt.Sprintf("unknown experiment: %s", name))
			continue
		}
		for i, expr := range exprs {
			if _, err := ParseThreshold(expr); err != nil {
				errs.Add(fmt.Sprintf("thresholds.%s[%d]", name, i), err.Error())
			}
		}
	}
}

func isExperiment(name string) bool {
	for _, e := range ExperimentOrder {
		if e == name {
			return true
		}
	}
	return false
}

// Threshold is a parsed pass/fail expression such as "p99 < 100us".
type Threshold struct {
	Expression string
	Metric     string
	Op         string
	Value      time.Duration
}

var thresholdRe = regexp.MustCompile(`^(\w+)\s*(<=|>=|==|!=|<|>|=)\s*(.+)$`)

var thresholdMetrics = map[string]bool{
	"avg": true, "min": true, "max": true,
	"p50": true, "p90": true, "p99": true,
	"stddev": true,
}

// ParseThreshold parses and checks a threshold expression.
// Values may be negative ("min > -50us") since jitter is signed.
func ParseThreshold(expr string) (Threshold, error) {
	expr = strings.TrimSpace(expr)
	m := thresholdRe.FindStringSubmatch(expr)
	if len(m) != 4 {
		return Threshold{}, fmt.Errorf("invalid threshold expression format: %s", expr)
	}
	metric := strings.ToLower(m[1])
	if !thresholdMetrics[metric] {
		return Threshold{}, fmt.Errorf("unknown metric '%s' in threshold: %s", m[1], expr)
	}
	value, err := ParseDurationString(strings.TrimSpace(m[3]))
	if err != nil {
		return Threshold{}, fmt.Errorf("invalid threshold value in %s: %v", expr, err)
	}
	return Threshold{Expression: expr, Metric: metric, Op: m[2], Value: value}, nil
}
