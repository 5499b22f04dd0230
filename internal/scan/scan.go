// Package scan is the orchestrator (SPEC_FULL.md §2): it wires
// ResolvedClasspath through the Graph Builder, DI Binding Resolver,
// Reachability Engine, Detector Pipeline, and Aggregation & Exclusion
// stage into a single ScanReport, the one entrypoint the CLI (and any
// other caller) drives a scan through.
package scan

import (
	"context"
	"errors"
	"regexp"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/state-scan/state-scan/internal/aggregate"
	"github.com/state-scan/state-scan/internal/binding"
	"github.com/state-scan/state-scan/internal/catalogue"
	"github.com/state-scan/state-scan/internal/detect"
	"github.com/state-scan/state-scan/internal/graph"
	"github.com/state-scan/state-scan/internal/model"
	"github.com/state-scan/state-scan/internal/reachability"
	"github.com/state-scan/state-scan/internal/scanerr"
)

// Options configures one scan.Run call. Every field is sourced from the
// CLI surface the core observes (spec.md §6) — no flag parsing happens
// here, only the resolved values.
type Options struct {
	Classpath model.ResolvedClasspath

	// ConfigPath is --config: a user YAML document merged additively over
	// the embedded default catalogue. Empty means "defaults only".
	ConfigPath string

	// ExcludeGlobs is --exclude (repeatable): class FQN globs, converted
	// to regex and folded into the catalogue's exclude-pattern list.
	ExcludeGlobs []string

	// RiskThreshold is --risk-threshold; zero disables suppression.
	RiskThreshold model.RiskLevel
	// FailOn is --fail-on; zero disables the exit-code gate.
	FailOn model.RiskLevel

	// MaxDepth overrides the Reachability Engine's BFS bound. Zero
	// selects reachability.DefaultMaxDepth.
	MaxDepth int
	// Workers overrides the Graph Builder's decode worker pool size.
	Workers int

	// Progress, when non-nil, receives phase narration. Optional: a nil
	// value means "scan silently" (Run never dereferences it directly).
	Progress ProgressReporter
}

// ProgressReporter receives phase-level narration during a scan. Both
// internal/report's Logger and a no-op test double satisfy it.
type ProgressReporter interface {
	Progress(format string, args ...interface{})
	Warning(format string, args ...interface{})
}

type nopProgress struct{}

func (nopProgress) Progress(string, ...interface{}) {}
func (nopProgress) Warning(string, ...interface{})  {}

// Outcome is scan.Run's result: either a complete report plus the
// aggregation gate's verdict, or a fatal error that aborted the scan
// before a report could be produced (spec.md §7: ProjectDiscoveryError,
// ConfigParseError).
type Outcome struct {
	Report    model.ScanReport
	Aggregate aggregate.Result
	Err       error // non-nil only for a fatal, whole-scan abort
}

// Run executes the full pipeline end to end.
func Run(ctx context.Context, opts Options) Outcome {
	progress := opts.Progress
	if progress == nil {
		progress = nopProgress{}
	}
	start := time.Now()

	cat, err := loadCatalogue(opts, progress)
	if err != nil {
		return Outcome{Err: err}
	}

	progress.Progress("building class graph from %d project dir(s), %d archive(s)",
		len(opts.Classpath.ProjectClassDirs), len(opts.Classpath.DependencyArchives))

	graphResult, err := graph.Build(ctx, graph.Options{
		Classpath: opts.Classpath,
		Workers:   opts.Workers,
		OnArchiveError: func(path string, archErr error) {
			progress.Warning("%v", &scanerr.ArchiveReadError{Path: path, Err: archErr})
		},
	})
	if err != nil {
		return Outcome{Err: &scanerr.ProjectDiscoveryError{Path: firstOrEmpty(opts.Classpath.ProjectClassDirs), Err: err}}
	}
	if graphResult.ClassesScanned == 0 {
		return Outcome{Err: &scanerr.ProjectDiscoveryError{
			Path: firstOrEmpty(opts.Classpath.ProjectClassDirs),
			Err:  errNoClassFiles,
		}}
	}
	for _, d := range graphResult.Diagnostics {
		progress.Warning("%v", &scanerr.ClassDecodeError{Path: d.Path, FQN: d.FQN, Err: errors.New(d.Err)})
	}
	progress.Progress("graph built: %d classes (%d archives)", graphResult.ClassesScanned, graphResult.ArchivesScanned)

	g := graphResult.Graph
	table := binding.Build(g, cat)
	reach := reachability.Compute(g, cat, table, reachability.Options{MaxDepth: opts.MaxDepth})

	findings, err := runDetectors(ctx, g, cat, table, reach)
	if err != nil {
		return Outcome{Err: err}
	}
	findings = append(findings, aggregate.AmbiguousFindings(g, table, reach)...)

	progress.Progress("detectors produced %d raw finding(s)", len(findings))

	result := aggregate.Run(findings, cat, aggregate.Options{
		RiskThreshold: opts.RiskThreshold,
		FailOn:        opts.FailOn,
	})

	report := model.ScanReport{
		ProjectPath:     firstOrEmpty(opts.Classpath.ProjectClassDirs),
		ScanTime:        start,
		ClassesScanned:  graphResult.ClassesScanned,
		ArchivesScanned: graphResult.ArchivesScanned,
		Elapsed:         time.Since(start),
		Findings:        result.Findings,
		Diagnostics:     graphResult.Diagnostics,
	}
	return Outcome{Report: report, Aggregate: result}
}

var errNoClassFiles = errors.New("no class files found under project path")

func firstOrEmpty(paths []string) string {
	if len(paths) == 0 {
		return ""
	}
	return paths[0]
}

// loadCatalogue loads the default catalogue merged with --config (if
// given), then folds --exclude globs into its exclude-pattern list. A
// malformed --config document is a fatal ConfigParseError; a glob that
// somehow fails to compile is a BadExcludePattern, warned and dropped —
// in practice globToRegex always produces a compilable pattern, but the
// check is kept so a future glob syntax change fails safe instead of
// panicking deep inside regexp.
func loadCatalogue(opts Options, progress ProgressReporter) (*catalogue.Catalogue, error) {
	cat, err := catalogue.Load(opts.ConfigPath)
	if err != nil {
		return nil, &scanerr.ConfigParseError{Path: opts.ConfigPath, Err: err}
	}
	for _, bp := range cat.BadPatterns {
		progress.Warning("%v", &scanerr.BadExcludePattern{Pattern: bp.Pattern, Err: bp.Err})
	}
	for _, glob := range opts.ExcludeGlobs {
		pattern := globToRegex(glob)
		re, compileErr := regexp.Compile(pattern)
		if compileErr != nil {
			progress.Warning("%v", &scanerr.BadExcludePattern{Pattern: glob, Err: compileErr})
			continue
		}
		cat.Exclude = append(cat.Exclude, re)
	}
	return cat, nil
}

// runDetectors fans the constant detector slice out over an errgroup
// (spec.md §5: "detector phase concurrent... no shared mutable state
// during the fan-out itself"). Detectors are pure and cannot error
// (spec.md §7), so the errgroup here exists only to bound the
// goroutines to ctx's lifetime, not to propagate detector failures.
func runDetectors(ctx context.Context, g *model.ClassGraph, cat *catalogue.Catalogue, table *binding.BindingTable, reach *reachability.Results) ([]model.Finding, error) {
	results := make([][]model.Finding, len(detect.All))
	gr, gctx := errgroup.WithContext(ctx)
	for i, d := range detect.All {
		i, d := i, d
		gr.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			results[i] = d(g, cat, table, reach)
			return nil
		})
	}
	if err := gr.Wait(); err != nil {
		return nil, err
	}
	var out []model.Finding
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}
