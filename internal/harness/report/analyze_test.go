package report

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/rtbench/internal/harness"
	"github.com/wesleyorama2/rtbench/internal/harness/config"
	"github.com/wesleyorama2/rtbench/internal/harness/trace"
)

func writeTrace(t *testing.T, path, column string, values ...int64) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	w, err := trace.Create(path, column)
	require.NoError(t, err)
	for i, v := range values {
		require.NoError(t, w.Write(i, v))
	}
	require.NoError(t, w.Close())
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestCompute(t *testing.T) {
	st, err := Compute([]int64{5, 1, 4, 2, 3})
	require.NoError(t, err)

	assert.Equal(t, 5, st.Count)
	assert.Equal(t, 1.0, st.Min)
	assert.Equal(t, 5.0, st.Max)
	assert.Equal(t, 3.0, st.Mean)
	assert.Equal(t, 3.0, st.Median)
	assert.InDelta(t, math.Sqrt(2.5), st.StdDev, 1e-9)
	assert.Less(t, st.CILow, st.Mean)
	assert.Greater(t, st.CIHigh, st.Mean)
	assert.InDelta(t, st.Mean-st.CILow, st.CIHigh-st.Mean, 1e-9)
}

func TestCompute_Signed(t *testing.T) {
	st, err := Compute([]int64{-300, 100, 200})
	require.NoError(t, err)
	assert.Equal(t, -300.0, st.Min)
	assert.Equal(t, 200.0, st.Max)
	assert.Equal(t, 0.0, st.Mean)
}

func TestCompute_SingleSample(t *testing.T) {
	st, err := Compute([]int64{42})
	require.NoError(t, err)
	assert.Equal(t, 1, st.Count)
	assert.Equal(t, 42.0, st.Mean)
	assert.Zero(t, st.StdDev)
	assert.Zero(t, st.CILow)
	assert.Zero(t, st.CIHigh)
}

func TestCompute_Empty(t *testing.T) {
	_, err := Compute(nil)
	assert.Error(t, err)
}

func TestAnalyze(t *testing.T) {
	base := t.TempDir()
	// Created out of order; analysis goes by name.
	writeTrace(t, filepath.Join(base, "scenario2", "nanosleep.csv"), trace.JitterColumn, 10, 20, 30)
	writeFile(t, filepath.Join(base, "scenario2", "timer.csv"), "Sample,Jitter_ns\n0,1\n")
	writeTrace(t, filepath.Join(base, "scenario1", "nanosleep.csv"), trace.JitterColumn, 1, 2, 3, 4)
	writeFile(t, filepath.Join(base, "scenario1", harness.SummaryFile), `{"name":"idle","kernel":"Linux 6.1.0"}`)
	writeFile(t, filepath.Join(base, "notes.txt"), "not a scenario")

	r, err := Analyze(base)
	require.NoError(t, err)

	require.Len(t, r.Scenarios, 2)
	assert.Equal(t, "scenario1", r.Scenarios[0].Dir)
	assert.Equal(t, "scenario1 (idle)", r.Scenarios[0].Label)
	assert.Equal(t, "Linux 6.1.0", r.Scenarios[0].Kernel)
	assert.Equal(t, "scenario2", r.Scenarios[1].Label)

	require.Len(t, r.Experiments, 1)
	exp := r.Experiments[0]
	assert.Equal(t, config.ExperimentNanosleep, exp.Name)
	assert.Equal(t, trace.JitterColumn, exp.Column)
	require.Len(t, exp.Series, 2)
	assert.Equal(t, "scenario1", exp.Series[0].Scenario)
	assert.Equal(t, 4, exp.Series[0].Stats.Count)
	assert.Equal(t, 2.5, exp.Series[0].Stats.Mean)
	assert.Equal(t, []int64{10, 20, 30}, exp.Series[1].Values)

	// usleep and signal missing in both scenarios, timer missing in one and
	// malformed in the other.
	assert.Len(t, r.Warnings, 6)
	assert.Contains(t, strings.Join(r.Warnings, "\n"), "could not read")
}

func TestAnalyze_ColumnMismatch(t *testing.T) {
	base := t.TempDir()
	writeTrace(t, filepath.Join(base, "scenario1", "signal_latency.csv"), trace.JitterColumn, 1, 2)

	r, err := Analyze(base)
	require.NoError(t, err)
	assert.Empty(t, r.Experiments)
	assert.Contains(t, strings.Join(r.Warnings, "\n"), "missing 'Latency_ns' column")
}

func TestAnalyze_HeaderOnlyTrace(t *testing.T) {
	base := t.TempDir()
	writeTrace(t, filepath.Join(base, "scenario1", "timer.csv"), trace.JitterColumn)

	r, err := Analyze(base)
	require.NoError(t, err)
	assert.Empty(t, r.Experiments)
	assert.Contains(t, strings.Join(r.Warnings, "\n"), "no samples")
}

func TestAnalyze_NoScenarios(t *testing.T) {
	_, err := Analyze(t.TempDir())
	assert.Error(t, err)

	_, err = Analyze(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestFromRun(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "timer.csv")
	writeTrace(t, path, trace.JitterColumn, -5, 5)

	cfg := config.DefaultConfig()
	cfg.OutputDir = dir
	result := &harness.RunResult{
		Name:   "single",
		Kernel: "Linux 6.1.0",
		Config: cfg,
		Experiments: []*harness.ExperimentResult{
			{Name: config.ExperimentTimer, Title: "Timer Benchmark", Column: trace.JitterColumn, Trace: path},
			{Name: config.ExperimentSignal, Title: "Signal Latency Benchmark", Column: trace.LatencyColumn, Trace: filepath.Join(dir, "gone.csv")},
		},
	}

	r, err := FromRun(result)
	require.NoError(t, err)
	assert.Equal(t, "single", r.Title)
	require.Len(t, r.Scenarios, 1)
	require.Len(t, r.Experiments, 1)
	assert.Equal(t, "single", r.Experiments[0].Series[0].Label)
	assert.Equal(t, 0.0, r.Experiments[0].Series[0].Stats.Mean)
	assert.Len(t, r.Warnings, 1)

	_, err = FromRun(nil)
	assert.Error(t, err)
}

func TestRenderTable(t *testing.T) {
	base := t.TempDir()
	writeTrace(t, filepath.Join(base, "scenario1", "nanosleep.csv"), trace.JitterColumn, 1, 2, 3)
	writeFile(t, filepath.Join(base, "scenario1", harness.SummaryFile), `{"name":"idle"}`)

	r, err := Analyze(base)
	require.NoError(t, err)

	var buf bytes.Buffer
	r.RenderTable(&buf)
	out := buf.String()

	assert.Contains(t, out, "=== Nanosleep Across All Scenarios (Jitter_ns) ===")
	assert.Contains(t, out, "scenario1 (idle)")
	assert.Contains(t, out, "2.00")
	assert.Contains(t, out, "[Warning]")
	assert.Equal(t, "1 scenario(s): Nanosleep", r.Headline())
}

func TestFormatCI(t *testing.T) {
	assert.Equal(t, "n/a", formatCI(Stats{Count: 1}))
	assert.Equal(t, "1.00 - 3.00 (ns)", formatCI(Stats{Count: 3, CILow: 1, CIHigh: 3}))
}
