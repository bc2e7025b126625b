// Package experiment implements the timing loops of the latency harness.
//
// Every experiment runs a fixed number of strictly sequential iterations on
// the calling goroutine and hands each signed nanosecond sample to a
// SampleFunc as soon as it is measured. A failed OS call inside the loop
// aborts the experiment with an error; an interrupted sleep is resumed and
// its sample kept.
package experiment

import (
	"context"
	"errors"
	"fmt"
	"syscall"
	"time"

	"github.com/wesleyorama2/rtbench/internal/harness/clock"
	"github.com/wesleyorama2/rtbench/internal/harness/config"
	"github.com/wesleyorama2/rtbench/internal/harness/trace"
)

// ErrUnsupported is returned on platforms without the required primitives.
var ErrUnsupported = errors.New("experiment: unsupported on this platform")

// ErrStrayDelivery is returned when the received flag is already set at
// the start of an iteration, before the signal was raised.
var ErrStrayDelivery = errors.New("experiment: signal received before it was raised")

// SampleFunc receives the signed sample of iteration i.
type SampleFunc func(i int, v int64) error

// Experiment is one timing loop.
type Experiment interface {
	// Name is the configuration name, e.g. "nanosleep".
	Name() string

	// Title heads the console summary block.
	Title() string

	// Column is the trace value column, Jitter_ns or Latency_ns.
	Column() string

	// TraceFile is the trace file name inside the output directory.
	TraceFile() string

	// Run executes every iteration. ctx is checked between iterations only.
	Run(ctx context.Context, record SampleFunc) error
}

// Deliverer is implemented by experiments driven by signal deliveries.
type Deliverer interface {
	Deliveries() int64
}

// Config contains the parameters shared by all experiments.
type Config struct {
	Iterations   int
	Nominal      time.Duration
	Clock        clock.Source
	Signal       syscall.Signal
	TimerSignal  syscall.Signal
	PollInterval time.Duration

	// SpinTimeout bounds every wait for a delivery. Zero waits forever.
	SpinTimeout time.Duration
}

// New creates the named experiment.
func New(name string, cfg Config) (Experiment, error) {
	if cfg.Iterations <= 0 {
		return nil, fmt.Errorf("iterations must be greater than 0")
	}
	switch name {
	case config.ExperimentNanosleep:
		return NewNanosleep(cfg), nil
	case config.ExperimentUsleep:
		return NewUsleep(cfg), nil
	case config.ExperimentSignal:
		return NewSignal(cfg), nil
	case config.ExperimentTimer:
		return NewTimer(cfg), nil
	default:
		return nil, fmt.Errorf("unknown experiment: %s", name)
	}
}

// FromHarnessConfig resolves a validated harness configuration.
func FromHarnessConfig(hc *config.HarnessConfig) (Config, error) {
	src, err := clock.Parse(hc.Clock)
	if err != nil {
		return Config{}, err
	}
	sig, err := config.ParseSignal(hc.Signal)
	if err != nil {
		return Config{}, fmt.Errorf("signal: %w", err)
	}
	tsig, err := config.ParseSignal(hc.TimerSignal)
	if err != nil {
		return Config{}, fmt.Errorf("timerSignal: %w", err)
	}
	return Config{
		Iterations:   hc.Iterations,
		Nominal:      time.Duration(hc.Nominal),
		Clock:        src,
		Signal:       sig,
		TimerSignal:  tsig,
		PollInterval: time.Duration(hc.PollInterval),
		SpinTimeout:  time.Duration(hc.SpinTimeout),
	}, nil
}

// Info describes an experiment's output without creating it.
type Info struct {
	Name      string
	Title     string
	Column    string
	TraceFile string
}

var catalog = map[string]Info{
	config.ExperimentNanosleep: {
		Name:      config.ExperimentNanosleep,
		Title:     "Nanosleep Benchmark",
		Column:    trace.JitterColumn,
		TraceFile: "nanosleep.csv",
	},
	config.ExperimentUsleep: {
		Name:      config.ExperimentUsleep,
		Title:     "Usleep Benchmark",
		Column:    trace.JitterColumn,
		TraceFile: "usleep.csv",
	},
	config.ExperimentSignal: {
		Name:      config.ExperimentSignal,
		Title:     "Signal Latency Benchmark",
		Column:    trace.LatencyColumn,
		TraceFile: "signal_latency.csv",
	},
	config.ExperimentTimer: {
		Name:      config.ExperimentTimer,
		Title:     "Timer Benchmark",
		Column:    trace.JitterColumn,
		TraceFile: "timer.csv",
	},
}

// Lookup returns the description of the named experiment.
func Lookup(name string) (Info, bool) {
	info, ok := catalog[name]
	return info, ok
}

type base struct {
	info Info
	cfg  Config
}

func (b *base) Name() string      { return b.info.Name }
func (b *base) Title() string     { return b.info.Title }
func (b *base) Column() string    { return b.info.Column }
func (b *base) TraceFile() string { return b.info.TraceFile }
