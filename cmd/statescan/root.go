// Package statescan is the CLI surface: a spf13/cobra root command that
// parses flags and calls internal/scan.Run, grounded on the teacher's
// cmd/root.go (persistent flags, a banner shown on help, Execute as the
// sole entrypoint main.go calls).
package statescan

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/state-scan/state-scan/internal/report"
)

// Version is overridden at build time via -ldflags.
var Version = "0.1.0"

var noBanner bool

var rootCmd = &cobra.Command{
	Use:   "state-scan",
	Short: "Find in-process state that breaks horizontal scaling in compiled JVM artifacts",
	Long: `state-scan reads compiled JVM class-file artifacts (.class, .jar, .war, .ear)
and reports mutable static storage, caches, thread-locals, circuit breakers,
file handles, and long-lived network clients that would break horizontal
scaling if the service were run behind a load balancer with more than one
instance.`,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		if cmd.Name() == "help" || (len(os.Args) == 1 || (len(os.Args) == 2 && (os.Args[1] == "--help" || os.Args[1] == "-h"))) {
			report.PrintBanner(os.Stderr, Version, report.IsTTY(os.Stderr), noBanner)
		}
	},
}

// Execute runs the CLI; its return error is printed and mapped to a
// non-zero exit by main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noBanner, "no-banner", false, "disable the startup banner")
	rootCmd.PersistentFlags().Bool("verbose", false, "show statistics and timing information")
	rootCmd.PersistentFlags().Bool("debug", false, "show detailed debug diagnostics")
	rootCmd.SilenceUsage = true
}
