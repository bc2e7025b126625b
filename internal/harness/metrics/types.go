package metrics

import "fmt"

// Summary contains the final statistics of one experiment. Mean, the
// percentiles and StdDev describe sample magnitudes; Max and Min are signed.
type Summary struct {
	Name       string  `json:"name"`
	Count      int64   `json:"count"`
	Mean       float64 `json:"mean"`
	Max        int64   `json:"max"`
	Min        int64   `json:"min"`
	P50        int64   `json:"p50"`
	P90        int64   `json:"p90"`
	P99        int64   `json:"p99"`
	StdDev     float64 `json:"stddev"`
	Deliveries int64   `json:"deliveries,omitempty"`
}

// Metric returns the named statistic in nanoseconds. Names are the
// threshold metrics: avg, min, max, p50, p90, p99, stddev.
func (s Summary) Metric(name string) (float64, error) {
	switch name {
	case "avg":
		return s.Mean, nil
	case "min":
		return float64(s.Min), nil
	case "max":
		return float64(s.Max), nil
	case "p50":
		return float64(s.P50), nil
	case "p90":
		return float64(s.P90), nil
	case "p99":
		return float64(s.P99), nil
	case "stddev":
		return s.StdDev, nil
	default:
		return 0, fmt.Errorf("unknown metric: %s", name)
	}
}
