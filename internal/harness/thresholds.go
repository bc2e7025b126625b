package harness

import (
	"fmt"
	"time"

	"github.com/wesleyorama2/rtbench/internal/harness/config"
	"github.com/wesleyorama2/rtbench/internal/harness/metrics"
)

// ThresholdResult contains the result of a threshold evaluation.
type ThresholdResult struct {
	Metric     string `json:"metric"`
	Expression string `json:"expression"`
	Passed     bool   `json:"passed"`
	Value      string `json:"value"`
	Message    string `json:"message,omitempty"`
}

func evaluateThresholds(exprs []string, stats metrics.Summary) []ThresholdResult {
	var results []ThresholdResult
	for _, expr := range exprs {
		results = append(results, evaluateThreshold(expr, stats))
	}
	return results
}

func evaluateThreshold(expr string, stats metrics.Summary) ThresholdResult {
	result := ThresholdResult{Expression: expr}

	th, err := config.ParseThreshold(expr)
	if err != nil {
		result.Message = fmt.Sprintf("failed to parse expression: %v", err)
		return result
	}
	result.Metric = th.Metric

	actual, err := stats.Metric(th.Metric)
	if err != nil {
		result.Message = err.Error()
		return result
	}

	result.Value = time.Duration(actual).String()
	result.Passed = compareValues(actual, th.Op, float64(th.Value))
	if !result.Passed {
		result.Message = fmt.Sprintf("%s is %s, threshold: %s %s", th.Metric, result.Value, th.Op, th.Value)
	}
	return result
}

func compareValues(actual float64, op string, threshold float64) bool {
	switch op {
	case "<":
		return actual < threshold
	case "<=":
		return actual <= threshold
	case ">":
		return actual > threshold
	case ">=":
		return actual >= threshold
	case "==", "=":
		return actual == threshold
	case "!=":
		return actual != threshold
	default:
		return false
	}
}
