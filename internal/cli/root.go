package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/rtbench/internal/logging"
)

var version = "0.1.0"

// RootCmd represents the base command when called without any subcommands
var RootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rtbench",
		Short:   "Measure timing latency of sleeps, signals and interval timers",
		Version: version,
		Long: `rtbench measures how precisely the operating system honours timing
requests. It runs nanosleep, usleep, self-signal and POSIX interval timer
experiments under a real-time scheduling policy, writes one CSV trace per
experiment and prints summary statistics.

Runs need privilege to set SCHED_FIFO and lock memory (root or
CAP_SYS_NICE plus CAP_IPC_LOCK).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetOutput(cmd.ErrOrStderr())
			debug, _ := cmd.Flags().GetBool("debug")
			jsonOutput, _ := cmd.Flags().GetBool("json")
			switch {
			case jsonOutput:
				logging.SetError()
			case debug:
				logging.SetDebug()
			}
		},
		Run: func(cmd *cobra.Command, args []string) {
			// If no subcommand is provided, print help
			cmd.Help()
		},
	}

	cmd.PersistentFlags().StringP("config", "c", "", "Configuration file (YAML or JSON)")
	cmd.PersistentFlags().Bool("json", false, "Print results as JSON")
	cmd.PersistentFlags().BoolP("quiet", "q", false, "Only print the final status")
	cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newReportCmd())
	return cmd
}

// Execute runs the root command. A returned error has already been
// printed to stderr.
func Execute() error {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}
