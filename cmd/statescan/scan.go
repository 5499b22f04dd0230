package statescan

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/state-scan/state-scan/internal/model"
	"github.com/state-scan/state-scan/internal/report"
	"github.com/state-scan/state-scan/internal/scan"
)

const defaultConfigName = "state-scan.yaml"

var scanCmd = &cobra.Command{
	Use:   "scan <path>",
	Short: "Scan a directory of .class files or a .jar/.war/.ear archive",
	Args:  cobra.ExactArgs(1),
	RunE:  runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	target := args[0]

	riskThresholdStr, _ := cmd.Flags().GetString("risk-threshold")
	excludeGlobs, _ := cmd.Flags().GetStringArray("exclude")
	packagePrefix, _ := cmd.Flags().GetString("package-prefix")
	configPath, _ := cmd.Flags().GetString("config")
	failOnStr, _ := cmd.Flags().GetString("fail-on")
	outputFormat, _ := cmd.Flags().GetString("output")
	outputFile, _ := cmd.Flags().GetString("output-file")
	verbose, _ := cmd.Flags().GetBool("verbose")
	debug, _ := cmd.Flags().GetBool("debug")

	verbosity := report.VerbosityDefault
	if debug {
		verbosity = report.VerbosityDebug
	} else if verbose {
		verbosity = report.VerbosityVerbose
	}
	logger := report.NewLogger(verbosity)

	var riskThreshold model.RiskLevel
	if riskThresholdStr != "" {
		lvl, ok := model.ParseRiskLevel(riskThresholdStr)
		if !ok {
			return fmt.Errorf("--risk-threshold: unrecognised level %q", riskThresholdStr)
		}
		riskThreshold = lvl
	}
	var failOn model.RiskLevel
	if failOnStr != "" {
		lvl, ok := model.ParseRiskLevel(failOnStr)
		if !ok {
			return fmt.Errorf("--fail-on: unrecognised level %q", failOnStr)
		}
		failOn = lvl
	}

	if configPath == "" {
		configPath = autoConfigPath(target)
	}

	classpath, err := resolveClasspath(target, packagePrefix)
	if err != nil {
		return err
	}

	outcome := scan.Run(cmd.Context(), scan.Options{
		Classpath:     classpath,
		ConfigPath:    configPath,
		ExcludeGlobs:  excludeGlobs,
		RiskThreshold: riskThreshold,
		FailOn:        failOn,
		Progress:      logger,
	})
	if outcome.Err != nil {
		logger.Error("%v", outcome.Err)
		os.Exit(int(report.ExitAborted))
	}

	out := os.Stdout
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("creating %s: %w", outputFile, err)
		}
		defer f.Close()
		out = f
	}
	if err := writeReport(out, outputFormat, outcome); err != nil {
		return err
	}

	code := report.DetermineExitCodeFromReport(false, outcome.Aggregate.HighestRisk, failOn)
	if code != report.ExitOK {
		os.Exit(int(code))
	}
	return nil
}

func writeReport(w *os.File, format string, outcome scan.Outcome) error {
	switch format {
	case "", "text":
		report.WriteText(w, outcome.Report, outcome.Aggregate.ByClass)
		return nil
	case "json":
		return report.WriteJSON(w, outcome.Report)
	case "html":
		return report.WriteHTML(w, outcome.Report, outcome.Aggregate.ByClass)
	case "sarif":
		return report.WriteSARIF(w, outcome.Report)
	default:
		return fmt.Errorf("--output must be text, json, html, or sarif")
	}
}

func autoConfigPath(target string) string {
	root := target
	if info, err := os.Stat(target); err == nil && !info.IsDir() {
		root = filepath.Dir(target)
	}
	candidate := filepath.Join(root, defaultConfigName)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return ""
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().String("risk-threshold", "", "suppress findings below this severity: critical|high|medium|low|info")
	scanCmd.Flags().StringArray("exclude", nil, "class FQN glob to exclude (repeatable)")
	scanCmd.Flags().String("package-prefix", "", "override auto-detected project package prefix")
	scanCmd.Flags().String("config", "", "user YAML config to merge over the default catalogue")
	scanCmd.Flags().String("fail-on", "", "exit 2 if a finding at or above this severity is reported")
	scanCmd.Flags().StringP("output", "o", "text", "output format: text, json, html, or sarif")
	scanCmd.Flags().StringP("output-file", "f", "", "write output to file instead of stdout")
	scanCmd.Flags().BoolP("verbose", "v", false, "show statistics and timing information")
}
