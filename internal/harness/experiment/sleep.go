package experiment

import (
	"context"
	"fmt"
	"time"

	"github.com/wesleyorama2/rtbench/internal/harness/config"
)

// sleepExperiment measures jitter = observed elapsed - nominal around one
// blocking sleep call per iteration. The nominal is the configured duration
// truncated to the primitive's unit.
type sleepExperiment struct {
	base
	primitive string
	unit      time.Duration
	sleep     func(time.Duration) error
}

// NewNanosleep measures nanosleep(2) jitter.
func NewNanosleep(cfg Config) Experiment {
	return &sleepExperiment{
		base:      base{info: catalog[config.ExperimentNanosleep], cfg: cfg},
		primitive: "nanosleep",
		unit:      time.Nanosecond,
		sleep:     nanosleep,
	}
}

// NewUsleep measures jitter of a microsecond-unit sleep. The nominal
// duration is truncated to whole microseconds, as usleep(3) takes it.
func NewUsleep(cfg Config) Experiment {
	return &sleepExperiment{
		base:      base{info: catalog[config.ExperimentUsleep], cfg: cfg},
		primitive: "usleep",
		unit:      time.Microsecond,
		sleep:     usleep,
	}
}

// nominal is the duration actually requested from the primitive.
func (e *sleepExperiment) nominal() time.Duration {
	return e.cfg.Nominal.Truncate(e.unit)
}

func (e *sleepExperiment) Run(ctx context.Context, record SampleFunc) error {
	clk := e.cfg.Clock
	requested := e.nominal()
	nominal := requested.Nanoseconds()

	for i := 0; i < e.cfg.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		start, err := clk.Now()
		if err != nil {
			return fmt.Errorf("clock_gettime: %w", err)
		}
		if err := e.sleep(requested); err != nil {
			return fmt.Errorf("%s: %w", e.primitive, err)
		}
		end, err := clk.Now()
		if err != nil {
			return fmt.Errorf("clock_gettime: %w", err)
		}

		if err := record(i, end-start-nominal); err != nil {
			return err
		}
	}
	return nil
}
