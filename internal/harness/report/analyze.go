// Package report compares experiment traces across scenario directories.
//
// A base directory holds one subdirectory per scenario (scenario1,
// scenario2, ...), each the output directory of one harness run. Analyze
// reads every experiment trace it finds and computes per-scenario
// statistics; RenderTable and GenerateHTML present them.
package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	math "github.com/aclements/go-moremath/stats"
	stats "github.com/montanaflynn/stats"
	"github.com/tidwall/gjson"

	"github.com/wesleyorama2/rtbench/internal/harness"
	"github.com/wesleyorama2/rtbench/internal/harness/config"
	"github.com/wesleyorama2/rtbench/internal/harness/experiment"
	"github.com/wesleyorama2/rtbench/internal/harness/trace"
	"github.com/wesleyorama2/rtbench/internal/logging"
)

// Confidence is the level of the reported confidence interval.
const Confidence = 0.95

// Stats describes one trace. CILow and CIHigh are zero when fewer than two
// samples exist.
type Stats struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"stddev"`
	CILow  float64 `json:"ciLow"`
	CIHigh float64 `json:"ciHigh"`
}

// Scenario is one run directory.
type Scenario struct {
	Dir    string `json:"dir"`
	Label  string `json:"label"`
	Kernel string `json:"kernel,omitempty"`
}

// Series is one experiment trace of one scenario.
type Series struct {
	Scenario string  `json:"scenario"`
	Label    string  `json:"label"`
	Path     string  `json:"path"`
	Values   []int64 `json:"-"`
	Stats    Stats   `json:"stats"`
}

// Experiment groups the series of one experiment across scenarios.
type Experiment struct {
	Name   string    `json:"name"`
	Title  string    `json:"title"`
	Column string    `json:"column"`
	Series []*Series `json:"series"`
}

// Report is the analysis of a set of scenarios.
type Report struct {
	Title       string        `json:"title"`
	BaseDir     string        `json:"baseDir"`
	Generated   time.Time     `json:"generated"`
	Scenarios   []Scenario    `json:"scenarios"`
	Experiments []*Experiment `json:"experiments"`
	Warnings    []string      `json:"warnings,omitempty"`
}

// Analyze reads every scenario subdirectory of baseDir in name order.
// Missing or malformed traces are skipped with a warning; an experiment
// with no usable trace in any scenario is left out.
func Analyze(baseDir string) (*Report, error) {
	entries, err := os.ReadDir(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario directory: %w", err)
	}

	r := &Report{
		Title:     "Scenario Comparison",
		BaseDir:   baseDir,
		Generated: time.Now(),
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		r.Scenarios = append(r.Scenarios, readScenario(filepath.Join(baseDir, e.Name())))
	}
	if len(r.Scenarios) == 0 {
		return nil, fmt.Errorf("no scenario directories in %s", baseDir)
	}

	for _, name := range config.ExperimentOrder {
		info, _ := experiment.Lookup(name)
		exp := &Experiment{Name: info.Name, Title: info.Title, Column: info.Column}
		for _, sc := range r.Scenarios {
			path := filepath.Join(baseDir, sc.Dir, info.TraceFile)
			s, err := loadSeries(path, info.Column)
			if err != nil {
				r.warn("%s", err)
				continue
			}
			s.Scenario = sc.Dir
			s.Label = sc.Label
			exp.Series = append(exp.Series, s)
		}
		if len(exp.Series) == 0 {
			logging.Infof("no data found for %s in any scenario", name)
			continue
		}
		r.Experiments = append(r.Experiments, exp)
	}
	return r, nil
}

// FromRun builds a single-scenario report from a completed run.
func FromRun(result *harness.RunResult) (*Report, error) {
	if result == nil {
		return nil, fmt.Errorf("result cannot be nil")
	}
	dir := ""
	if result.Config != nil {
		dir = result.Config.OutputDir
	}
	r := &Report{
		Title:     result.Name,
		BaseDir:   dir,
		Generated: time.Now(),
		Scenarios: []Scenario{{Dir: dir, Label: result.Name, Kernel: result.Kernel}},
	}
	for _, er := range result.Experiments {
		s, err := loadSeries(er.Trace, er.Column)
		if err != nil {
			r.warn("%s", err)
			continue
		}
		s.Scenario = dir
		s.Label = result.Name
		r.Experiments = append(r.Experiments, &Experiment{
			Name:   er.Name,
			Title:  er.Title,
			Column: er.Column,
			Series: []*Series{s},
		})
	}
	return r, nil
}

func (r *Report) warn(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logging.Debug(msg)
	r.Warnings = append(r.Warnings, msg)
}

// readScenario labels a scenario from its summary.json, falling back to
// the directory name.
func readScenario(dir string) Scenario {
	sc := Scenario{Dir: filepath.Base(dir), Label: filepath.Base(dir)}
	data, err := os.ReadFile(filepath.Join(dir, harness.SummaryFile))
	if err != nil {
		return sc
	}
	if !gjson.ValidBytes(data) {
		logging.Debugf("ignoring malformed %s in %s", harness.SummaryFile, dir)
		return sc
	}
	fields := gjson.GetManyBytes(data, "name", "kernel")
	if name := fields[0].String(); name != "" && name != config.DefaultName {
		sc.Label = fmt.Sprintf("%s (%s)", sc.Dir, name)
	}
	sc.Kernel = fields[1].String()
	return sc
}

func loadSeries(path, column string) (*Series, error) {
	t, err := trace.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("'%s' not found, skipping", path)
	}
	if err != nil {
		return nil, fmt.Errorf("could not read '%s': %v", path, err)
	}
	if t.Column != column {
		return nil, fmt.Errorf("missing '%s' column in '%s', skipping", column, path)
	}
	if len(t.Samples) == 0 {
		return nil, fmt.Errorf("no samples in '%s', skipping", path)
	}
	values := t.Values()
	st, err := Compute(values)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", path, err)
	}
	return &Series{Path: path, Values: values, Stats: st}, nil
}

// Compute returns the statistics of values. The standard deviation is the
// sample standard deviation.
func Compute(values []int64) (Stats, error) {
	data := stats.LoadRawData(values)
	if data.Len() == 0 {
		return Stats{}, stats.ErrEmptyInput
	}

	st := Stats{Count: data.Len()}
	var err error
	if st.Min, err = stats.Min(data); err != nil {
		return Stats{}, err
	}
	if st.Max, err = stats.Max(data); err != nil {
		return Stats{}, err
	}
	if st.Mean, err = stats.Mean(data); err != nil {
		return Stats{}, err
	}
	if st.Median, err = stats.Median(data); err != nil {
		return Stats{}, err
	}
	if st.Count > 1 {
		if st.StdDev, err = stats.StandardDeviationSample(data); err != nil {
			return Stats{}, err
		}
		_, st.CILow, st.CIHigh = math.MeanCI(data, Confidence)
	}
	return st, nil
}
