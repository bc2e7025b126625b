package metrics

import (
	"fmt"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// RecorderConfig sizes the magnitude histogram.
type RecorderConfig struct {
	// HistogramMax is the largest recordable magnitude in nanoseconds
	// (default: 10s). Larger samples are clamped.
	HistogramMax int64

	// HistogramSigFigs is the number of significant figures (default: 3)
	HistogramSigFigs int
}

// DefaultRecorderConfig returns the default configuration.
func DefaultRecorderConfig() RecorderConfig {
	return RecorderConfig{
		HistogramMax:     10_000_000_000,
		HistogramSigFigs: 3,
	}
}

// Recorder keeps the exact Aggregate of one experiment alongside an HDR
// histogram of sample magnitudes for percentiles.
//
// Recorder is not safe for concurrent use; samples come from a single
// measurement loop.
type Recorder struct {
	name   string
	agg    Aggregate
	hist   *hdrhistogram.Histogram
	config RecorderConfig
}

// NewRecorder creates a recorder with the default configuration.
func NewRecorder(name string) *Recorder {
	return NewRecorderWithConfig(name, DefaultRecorderConfig())
}

// NewRecorderWithConfig creates a recorder with a custom configuration.
func NewRecorderWithConfig(name string, config RecorderConfig) *Recorder {
	return &Recorder{
		name:   name,
		hist:   hdrhistogram.New(1, config.HistogramMax, config.HistogramSigFigs),
		config: config,
	}
}

// Record folds one signed sample in nanoseconds.
func (r *Recorder) Record(v int64) error {
	r.agg.Add(v)

	m := abs(v)
	if m > r.config.HistogramMax {
		m = r.config.HistogramMax
	}
	if err := r.hist.RecordValue(m); err != nil {
		return fmt.Errorf("recording %d ns: %w", v, err)
	}
	return nil
}

// Summary finalizes the statistics collected so far.
func (r *Recorder) Summary() Summary {
	s := Summary{
		Name:  r.name,
		Count: r.agg.Count,
		Mean:  r.agg.Mean(),
		Max:   r.agg.Max,
		Min:   r.agg.Min,
	}
	if r.agg.Count > 0 {
		s.P50 = r.hist.ValueAtQuantile(50)
		s.P90 = r.hist.ValueAtQuantile(90)
		s.P99 = r.hist.ValueAtQuantile(99)
		s.StdDev = r.hist.StdDev()
	}
	return s
}
