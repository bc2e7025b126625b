package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/rtbench/internal/harness/report"
)

// defaultScenarioDir holds one run directory per scenario.
const defaultScenarioDir = "./scenario"

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report [base-dir]",
		Short: "Compare traces across scenario directories",
		Long: `Read the traces of every scenario subdirectory of base-dir (default
./scenario) in name order and print count, min, max, mean, standard
deviation and 95% confidence interval per experiment and scenario.
Missing or malformed traces are skipped with a warning.

Examples:
  rtbench report
  rtbench report ./scenario --html comparison.html`,
		Args: cobra.MaximumNArgs(1),
		RunE: runReport,
	}
	cmd.Flags().String("html", "", "Write an HTML report with one chart per experiment")
	return cmd
}

func runReport(cmd *cobra.Command, args []string) error {
	baseDir := defaultScenarioDir
	if len(args) == 1 {
		baseDir = args[0]
	}
	jsonOutput, _ := cmd.Flags().GetBool("json")
	htmlPath, _ := cmd.Flags().GetString("html")

	r, err := report.Analyze(baseDir)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
	} else {
		fmt.Fprintln(out, r.Headline())
		r.RenderTable(out)
	}

	if htmlPath != "" {
		path := htmlReportPath(htmlPath, "scenarios")
		if err := report.GenerateHTML(r, path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Report: %s\n", path)
	}
	return nil
}
