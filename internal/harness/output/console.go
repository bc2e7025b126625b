// Package output renders harness results for humans and machines.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/olekukonko/tablewriter"

	"github.com/wesleyorama2/rtbench/internal/harness"
	"github.com/wesleyorama2/rtbench/internal/harness/config"
)

const ruleWidth = 56

// ConsoleConfig contains configuration for Console.
type ConsoleConfig struct {
	Writer      io.Writer
	Quiet       bool
	NoColor     bool
	ForceColors bool
}

// Console prints one summary block per experiment and a final run table.
type Console struct {
	writer io.Writer
	quiet  bool
	scheme *ColorScheme

	mu sync.Mutex
}

// NewConsole creates a console printer.
func NewConsole(cfg ConsoleConfig) *Console {
	if cfg.Writer == nil {
		cfg.Writer = os.Stdout
	}
	useColors := cfg.ForceColors || (!cfg.NoColor && isTerminal(cfg.Writer) && supportsColors())

	scheme := NoColorScheme()
	if useColors {
		scheme = DefaultColorScheme()
	}
	return &Console{
		writer: cfg.Writer,
		quiet:  cfg.Quiet,
		scheme: scheme,
	}
}

// PrintHeader prints the run parameters.
func (c *Console) PrintHeader(cfg *config.HarnessConfig) {
	if c.quiet {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	rule := c.scheme.Rule.Sprint(strings.Repeat("━", ruleWidth))
	c.writeln(rule)
	c.writeln(c.scheme.Title.Sprint(cfg.Name))
	c.writeln(rule)
	c.writeln(fmt.Sprintf("Iterations: %d   Nominal: %s   Clock: %s",
		cfg.Iterations, cfg.Nominal, cfg.Clock))
	c.writeln(fmt.Sprintf("Experiments: %s", strings.Join(cfg.Selected(), ", ")))
	c.writeln("")
}

// PrintExperiment prints the summary block of one finished experiment:
//
//	Nanosleep Benchmark:
//	  Average jitter: 57312.40 ns
//	  Max jitter: 81234 ns
//	  Min jitter: 50122 ns
func (c *Console) PrintExperiment(r *harness.ExperimentResult) {
	if c.quiet {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	q := Quantity(r.Column)
	s := r.Stats
	c.writeln(c.scheme.Title.Sprint(r.Title + ":"))
	c.writeln(c.line("Average "+q, fmt.Sprintf("%.2f ns", s.Mean)))
	c.writeln(c.line("Max "+q, fmt.Sprintf("%d ns", s.Max)))
	c.writeln(c.line("Min "+q, fmt.Sprintf("%d ns", s.Min)))
	c.writeln(c.line("P99 "+q, fmt.Sprintf("%d ns", s.P99)))
	if s.Deliveries > 0 {
		c.writeln(c.line("Deliveries", fmt.Sprintf("%d", s.Deliveries)))
	}
	for _, t := range r.Thresholds {
		icon := c.scheme.SuccessIcon()
		if !t.Passed {
			icon = c.scheme.ErrorIcon()
		}
		c.writeln(fmt.Sprintf("  %s %s (actual: %s)", icon, t.Expression, t.Value))
	}
	c.writeln("")
}

func (c *Console) line(label, value string) string {
	return fmt.Sprintf("  %s %s", c.scheme.Label.Sprint(label+":"), c.scheme.Value.Sprint(value))
}

// PrintSummary prints a table of every experiment and the overall status.
func (c *Console) PrintSummary(r *harness.RunResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	status := c.scheme.Success.Sprint("PASSED")
	if !r.Passed {
		status = c.scheme.Error.Sprint("FAILED")
	}
	if c.quiet {
		c.writeln(status)
		return
	}

	table := tablewriter.NewWriter(c.writer)
	table.SetHeader([]string{"Experiment", "Samples", "Avg (ns)", "Min (ns)", "Max (ns)", "P99 (ns)", "StdDev (ns)", "Result"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)
	for _, e := range r.Experiments {
		result := "pass"
		if !e.Passed {
			result = "fail"
		}
		table.Append([]string{
			e.Name,
			fmt.Sprintf("%d", e.Stats.Count),
			fmt.Sprintf("%.2f", e.Stats.Mean),
			fmt.Sprintf("%d", e.Stats.Min),
			fmt.Sprintf("%d", e.Stats.Max),
			fmt.Sprintf("%d", e.Stats.P99),
			fmt.Sprintf("%.2f", e.Stats.StdDev),
			result,
		})
	}
	table.Render()

	c.writeln(fmt.Sprintf("%s - %s (run %s, %s)", r.Name, status, r.RunID, r.Kernel))
}

// PrintJSON writes the run result as indented JSON.
func (c *Console) PrintJSON(r *harness.RunResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	enc := json.NewEncoder(c.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func (c *Console) writeln(s string) {
	fmt.Fprintln(c.writer, s)
}

// Quantity names what a trace column measures: "Jitter_ns" is "jitter".
func Quantity(column string) string {
	return strings.ToLower(strings.TrimSuffix(column, "_ns"))
}
