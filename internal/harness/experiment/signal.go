package experiment

import (
	"context"
	"fmt"
	"syscall"

	"github.com/wesleyorama2/rtbench/internal/harness/config"
	"github.com/wesleyorama2/rtbench/internal/harness/notify"
)

// signalExperiment measures the delay between raising a signal against the
// process and the handler observing it. The wait is a busy spin. The
// received flag must be clear when each iteration starts.
type signalExperiment struct {
	base
	raise   func(syscall.Signal) error
	handler *notify.Handler
}

// NewSignal measures self-signal delivery latency.
func NewSignal(cfg Config) Experiment {
	return &signalExperiment{
		base:  base{info: catalog[config.ExperimentSignal], cfg: cfg},
		raise: raiseSelf,
	}
}

func (e *signalExperiment) Run(ctx context.Context, record SampleFunc) error {
	clk := e.cfg.Clock
	h := notify.Register(e.cfg.Signal, clk)
	e.handler = h
	defer h.Stop()

	for i := 0; i < e.cfg.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		if h.Fired() {
			return fmt.Errorf("iteration %d: %w", i, ErrStrayDelivery)
		}

		sent, err := clk.Now()
		if err != nil {
			return fmt.Errorf("clock_gettime: %w", err)
		}
		if err := e.raise(e.cfg.Signal); err != nil {
			return fmt.Errorf("kill: %w", err)
		}
		if err := h.Spin(e.cfg.SpinTimeout); err != nil {
			return fmt.Errorf("iteration %d: %w", i, err)
		}
		got, err := h.Take()
		if err != nil {
			return fmt.Errorf("clock_gettime: %w", err)
		}

		if err := record(i, got-sent); err != nil {
			return err
		}
	}
	return nil
}

// Deliveries is the number of signals the handler observed.
func (e *signalExperiment) Deliveries() int64 {
	if e.handler == nil {
		return 0
	}
	return e.handler.Deliveries()
}
