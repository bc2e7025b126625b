package cli

import (
	"errors"
	"fmt"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/rtbench/internal/harness"
	"github.com/wesleyorama2/rtbench/internal/harness/config"
	"github.com/wesleyorama2/rtbench/internal/harness/output"
	"github.com/wesleyorama2/rtbench/internal/harness/report"
	"github.com/wesleyorama2/rtbench/internal/logging"
)

// ErrThresholds is returned when a run completes but a threshold failed.
var ErrThresholds = errors.New("one or more thresholds failed")

// harnessOptions are appended to every harness the run command creates.
var harnessOptions []harness.Option

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the latency experiments",
		Long: `Run the selected experiments in fixed order (nanosleep, usleep, signal,
timer). Each experiment writes <output-dir>/<name>.csv and prints a summary
block when it finishes; summary.json is written at the end.

Examples:
  rtbench run --iterations 10000 --nominal 1ms
  rtbench run --config harness.yaml --output-dir ./scenario/scenario1
  rtbench run --only timer --clock monotonic_raw --timer-signal SIGRTMIN+2`,
		Args: cobra.NoArgs,
		RunE: runHarness,
	}

	cmd.Flags().String("name", "", "Run name used in summaries and reports")
	cmd.Flags().Int("iterations", config.DefaultIterations, "Iterations per experiment")
	cmd.Flags().String("nominal", config.DefaultNominal.String(), "Sleep duration and timer period")
	cmd.Flags().String("clock", config.DefaultClock, "Clock source: monotonic, monotonic_raw, realtime, boottime")
	cmd.Flags().String("signal", config.DefaultSignal, "Signal raised by the signal experiment")
	cmd.Flags().String("timer-signal", config.DefaultTimerSignal, "Signal delivered on timer expiry")
	cmd.Flags().String("poll-interval", config.DefaultPollInterval.String(), "Sleep between checks while waiting for a timer expiry")
	cmd.Flags().String("spin-timeout", "0", "Bound on every busy-wait (0 waits forever)")
	cmd.Flags().StringP("output-dir", "o", config.DefaultOutputDir, "Directory for traces and summary.json")
	cmd.Flags().StringSlice("only", nil, "Run only these experiments (comma separated)")
	cmd.Flags().Int("priority", 0, "SCHED_FIFO priority (0 selects the maximum)")
	cmd.Flags().String("html", "", "Also write an HTML report to this path")
	return cmd
}

func runHarness(cmd *cobra.Command, args []string) error {
	cfg, err := loadRunConfig(cmd)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	quiet, _ := cmd.Flags().GetBool("quiet")
	noColor, _ := cmd.Flags().GetBool("no-color")
	htmlPath, _ := cmd.Flags().GetString("html")

	console := output.NewConsole(output.ConsoleConfig{
		Writer:  cmd.OutOrStdout(),
		Quiet:   quiet || jsonOutput,
		NoColor: noColor,
	})

	opts := append([]harness.Option{harness.OnExperimentDone(console.PrintExperiment)}, harnessOptions...)
	h, err := harness.New(cfg, opts...)
	if err != nil {
		return err
	}

	console.PrintHeader(cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := h.Run(ctx)
	if err != nil {
		return err
	}

	if jsonOutput {
		if err := console.PrintJSON(result); err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
	} else {
		console.PrintSummary(result)
	}

	if htmlPath != "" {
		if err := writeRunReport(cmd, result, htmlPath); err != nil {
			return err
		}
	}

	if !result.Passed {
		return ErrThresholds
	}
	return nil
}

// loadRunConfig reads --config, if given, and applies flag overrides.
func loadRunConfig(cmd *cobra.Command) (*config.HarnessConfig, error) {
	cfg := &config.HarnessConfig{}
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}
	config.ApplyDefaults(cfg)
	return cfg, nil
}

// applyFlags copies every flag the user set onto cfg.
func applyFlags(cmd *cobra.Command, cfg *config.HarnessConfig) error {
	flags := cmd.Flags()

	if flags.Changed("name") {
		cfg.Name, _ = flags.GetString("name")
	}
	if flags.Changed("iterations") {
		cfg.Iterations, _ = flags.GetInt("iterations")
	}
	if flags.Changed("priority") {
		cfg.Priority, _ = flags.GetInt("priority")
	}
	if flags.Changed("clock") {
		cfg.Clock, _ = flags.GetString("clock")
	}
	if flags.Changed("signal") {
		cfg.Signal, _ = flags.GetString("signal")
	}
	if flags.Changed("timer-signal") {
		cfg.TimerSignal, _ = flags.GetString("timer-signal")
	}
	if flags.Changed("output-dir") {
		cfg.OutputDir, _ = flags.GetString("output-dir")
	}
	if flags.Changed("only") {
		only, _ := flags.GetStringSlice("only")
		cfg.Experiments = only
	}

	durations := []struct {
		flag string
		dst  *config.Duration
	}{
		{"nominal", &cfg.Nominal},
		{"poll-interval", &cfg.PollInterval},
		{"spin-timeout", &cfg.SpinTimeout},
	}
	for _, d := range durations {
		if !flags.Changed(d.flag) {
			continue
		}
		s, _ := flags.GetString(d.flag)
		v, err := config.ParseDurationString(s)
		if err != nil {
			return fmt.Errorf("--%s: %w", d.flag, err)
		}
		*d.dst = config.Duration(v)
	}
	return nil
}

func writeRunReport(cmd *cobra.Command, result *harness.RunResult, path string) error {
	r, err := report.FromRun(result)
	if err != nil {
		return err
	}
	path = htmlReportPath(path, result.Name)
	if err := report.GenerateHTML(r, path); err != nil {
		return err
	}
	logging.Debugf("HTML report written to %s", path)
	fmt.Fprintf(cmd.ErrOrStderr(), "Report: %s\n", path)
	return nil
}

// htmlReportPath adds the .html extension, or builds a timestamped file
// name when path is a directory marker such as "." or "out/".
func htmlReportPath(path, name string) string {
	if path == "." || strings.HasSuffix(path, "/") {
		safeName := strings.ToLower(strings.NewReplacer(" ", "-", "/", "-").Replace(name))
		timestamp := time.Now().Format("20060102-150405")
		return filepath.Join(path, fmt.Sprintf("rtbench-report-%s-%s.html", safeName, timestamp))
	}
	if !strings.HasSuffix(strings.ToLower(path), ".html") {
		return path + ".html"
	}
	return path
}
