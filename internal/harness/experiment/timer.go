package experiment

import (
	"context"
	"fmt"

	"github.com/wesleyorama2/rtbench/internal/harness/config"
	"github.com/wesleyorama2/rtbench/internal/harness/notify"
	"github.com/wesleyorama2/rtbench/internal/logging"
)

// timerExperiment measures the jitter between consecutive expiries of a
// periodic POSIX interval timer.
type timerExperiment struct {
	base
	handler *notify.Handler
}

// NewTimer measures interval-timer jitter with the nominal duration as
// the period.
func NewTimer(cfg Config) Experiment {
	return &timerExperiment{
		base: base{info: catalog[config.ExperimentTimer], cfg: cfg},
	}
}

// Run arms the timer, then for each iteration waits for the next expiry
// with short sleeps and records (this expiry - previous expiry) - period.
// The first interval is measured from the moment the timer was armed. The
// timer is deleted before the handler is unregistered.
func (e *timerExperiment) Run(ctx context.Context, record SampleFunc) error {
	clk := e.cfg.Clock
	h := notify.Register(e.cfg.TimerSignal, clk)
	e.handler = h
	defer h.Stop()

	t, err := createTimer(clk, e.cfg.TimerSignal)
	if err != nil {
		return fmt.Errorf("timer_create: %w", err)
	}
	defer func() {
		if err := t.Delete(); err != nil {
			logging.Errorf("timer_delete: %v", err)
		}
	}()

	if err := t.Arm(e.cfg.Nominal); err != nil {
		return fmt.Errorf("timer_settime: %w", err)
	}
	prev, err := clk.Now()
	if err != nil {
		return fmt.Errorf("clock_gettime: %w", err)
	}

	period := e.cfg.Nominal.Nanoseconds()
	pause := func() error {
		return nanosleep(e.cfg.PollInterval)
	}

	for i := 0; i < e.cfg.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := h.Poll(pause, e.cfg.SpinTimeout); err != nil {
			return fmt.Errorf("iteration %d: %w", i, err)
		}
		now, err := h.Take()
		if err != nil {
			return fmt.Errorf("clock_gettime: %w", err)
		}

		if err := record(i, now-prev-period); err != nil {
			return err
		}
		prev = now
	}
	return nil
}

// Deliveries is the number of expiries the handler observed.
func (e *timerExperiment) Deliveries() int64 {
	if e.handler == nil {
		return 0
	}
	return e.handler.Deliveries()
}
