// Package harness sequences the latency experiments of one run.
//
// A run is: check preconditions, then execute each selected experiment in
// fixed order, streaming its samples to a trace file and a metrics
// recorder, then evaluate thresholds and write summary.json. Any failure
// stops the run; traces already written stay on disk.
package harness

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wesleyorama2/rtbench/internal/harness/config"
	"github.com/wesleyorama2/rtbench/internal/harness/environment"
	"github.com/wesleyorama2/rtbench/internal/harness/experiment"
	"github.com/wesleyorama2/rtbench/internal/harness/metrics"
	"github.com/wesleyorama2/rtbench/internal/harness/trace"
	"github.com/wesleyorama2/rtbench/internal/logging"
)

// SummaryFile is the run summary written to the output directory.
const SummaryFile = "summary.json"

// Preconditions is the environment check performed before any measurement.
type Preconditions func() environment.Result

// ExperimentFactory creates an experiment by name.
type ExperimentFactory func(name string, cfg experiment.Config) (experiment.Experiment, error)

// Harness runs the experiments selected by a configuration.
//
// Example usage:
//
//	cfg, _ := config.LoadConfig("harness.yaml")
//	h, _ := harness.New(cfg)
//	result, err := h.Run(context.Background())
type Harness struct {
	config  *config.HarnessConfig
	expCfg  experiment.Config
	prepare Preconditions
	factory ExperimentFactory
	onDone  func(*ExperimentResult)

	mu      sync.Mutex
	running bool
}

// Option configures a Harness.
type Option func(*Harness)

// WithPreconditions replaces the real-time environment step.
func WithPreconditions(p Preconditions) Option {
	return func(h *Harness) {
		h.prepare = p
	}
}

// WithExperimentFactory replaces how experiments are created.
func WithExperimentFactory(f ExperimentFactory) Option {
	return func(h *Harness) {
		h.factory = f
	}
}

// OnExperimentDone registers a callback invoked after each experiment
// completes, before the next one starts.
func OnExperimentDone(fn func(*ExperimentResult)) Option {
	return func(h *Harness) {
		h.onDone = fn
	}
}

// ExperimentResult contains the outcome of a single experiment.
type ExperimentResult struct {
	Name       string            `json:"name"`
	Title      string            `json:"title"`
	Column     string            `json:"column"`
	Trace      string            `json:"trace"`
	Duration   time.Duration     `json:"duration"`
	Stats      metrics.Summary   `json:"stats"`
	Thresholds []ThresholdResult `json:"thresholds,omitempty"`
	Passed     bool              `json:"passed"`
}

// RunResult contains the complete run outcome. It is the content of
// summary.json.
type RunResult struct {
	RunID           string                `json:"runId"`
	Name            string                `json:"name"`
	Description     string                `json:"description,omitempty"`
	Host            string                `json:"host"`
	Kernel          string                `json:"kernel"`
	Clock           string                `json:"clock"`
	ClockResolution int64                 `json:"clockResolutionNs"`
	Priority        int                   `json:"priority"`
	StartTime       time.Time             `json:"startTime"`
	EndTime         time.Time             `json:"endTime"`
	Duration        time.Duration         `json:"duration"`
	Config          *config.HarnessConfig `json:"config"`
	Experiments     []*ExperimentResult   `json:"experiments"`
	Passed          bool                  `json:"passed"`
}

// Experiment returns the named experiment result, or nil.
func (r *RunResult) Experiment(name string) *ExperimentResult {
	for _, e := range r.Experiments {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// New creates a harness. Defaults are applied to cfg and it is validated.
func New(cfg *config.HarnessConfig, opts ...Option) (*Harness, error) {
	config.ApplyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	expCfg, err := experiment.FromHarnessConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	h := &Harness{
		config:  cfg,
		expCfg:  expCfg,
		prepare: environment.NewConfigurator(cfg.Priority).Prepare,
		factory: experiment.New,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// Run executes the run on the calling goroutine. The real precondition
// step leaves that goroutine locked to its real-time OS thread.
//
// On an experiment failure the partial result is returned together with
// the error.
func (h *Harness) Run(ctx context.Context) (*RunResult, error) {
	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		return nil, fmt.Errorf("harness is already running")
	}
	h.running = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		h.running = false
		h.mu.Unlock()
	}()

	env := h.prepare()
	if !env.OK() {
		return nil, env.Err()
	}

	if err := os.MkdirAll(h.config.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := h.newRunResult(env)
	logging.WithField("run", result.RunID).Debugf("%d iterations, nominal %s, clock %s",
		h.expCfg.Iterations, h.expCfg.Nominal, result.Clock)

	for _, name := range h.config.Selected() {
		exp, err := h.factory(name, h.expCfg)
		if err != nil {
			return result, fmt.Errorf("failed to create experiment %s: %w", name, err)
		}

		er, err := h.runExperiment(ctx, exp)
		if err != nil {
			return result, fmt.Errorf("experiment %s failed: %w", name, err)
		}
		result.Experiments = append(result.Experiments, er)
		if !er.Passed {
			result.Passed = false
		}
		if h.onDone != nil {
			h.onDone(er)
		}
	}

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)

	if err := WriteSummary(filepath.Join(h.config.OutputDir, SummaryFile), result); err != nil {
		return result, err
	}
	return result, nil
}

func (h *Harness) newRunResult(env environment.Result) *RunResult {
	host, kernel := hostInfo()
	res, err := h.expCfg.Clock.Resolution()
	if err != nil {
		logging.Warnf("clock_getres %s: %v", h.expCfg.Clock, err)
	}
	return &RunResult{
		RunID:           uuid.New().String(),
		Name:            h.config.Name,
		Description:     h.config.Description,
		Host:            host,
		Kernel:          kernel,
		Clock:           h.expCfg.Clock.Name(),
		ClockResolution: res.Nanoseconds(),
		Priority:        env.Priority,
		StartTime:       time.Now(),
		Config:          h.config,
		Passed:          true,
	}
}

func (h *Harness) runExperiment(ctx context.Context, exp experiment.Experiment) (*ExperimentResult, error) {
	path := filepath.Join(h.config.OutputDir, exp.TraceFile())
	w, err := trace.Create(path, exp.Column())
	if err != nil {
		return nil, err
	}

	rec := metrics.NewRecorder(exp.Name())
	sink := func(i int, v int64) error {
		if err := w.Write(i, v); err != nil {
			return err
		}
		return rec.Record(v)
	}

	logging.Debugf("running %s", exp.Name())
	start := time.Now()
	runErr := exp.Run(ctx, sink)
	elapsed := time.Since(start)

	if err := w.Close(); err != nil && runErr == nil {
		runErr = err
	}
	if runErr != nil {
		return nil, runErr
	}
	if w.Rows() != h.expCfg.Iterations {
		return nil, fmt.Errorf("trace has %d rows, want %d", w.Rows(), h.expCfg.Iterations)
	}

	stats := rec.Summary()
	if d, ok := exp.(experiment.Deliverer); ok {
		stats.Deliveries = d.Deliveries()
	}

	er := &ExperimentResult{
		Name:     exp.Name(),
		Title:    exp.Title(),
		Column:   exp.Column(),
		Trace:    path,
		Duration: elapsed,
		Stats:    stats,
		Passed:   true,
	}
	er.Thresholds = evaluateThresholds(h.config.Thresholds[exp.Name()], stats)
	for _, t := range er.Thresholds {
		if !t.Passed {
			er.Passed = false
		}
	}
	logging.Debugf("%s done in %s: %d samples", exp.Name(), elapsed, stats.Count)
	return er, nil
}

// WriteSummary writes the run result as indented JSON.
func WriteSummary(path string, result *RunResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}
