// Package graph assembles the cross-artifact ClassGraph from a
// ResolvedClasspath: it walks project directories and dependency
// archives, decodes every class file found, and builds the subtype index
// (spec.md §4.2). Concurrency is grounded on the teacher's worker-pool
// pattern (graph.Initialize in the example pack), generalized with
// golang.org/x/sync/errgroup so a decode failure is captured rather than
// silently dropped mid-pool.
package graph

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/state-scan/state-scan/internal/archive"
	"github.com/state-scan/state-scan/internal/classfile"
	"github.com/state-scan/state-scan/internal/model"
)

// Options configures a Build call.
type Options struct {
	Classpath model.ResolvedClasspath

	// Workers bounds the decode-phase worker pool. Zero selects a small
	// default (spec.md §4.2: "sized to available cores", approximated
	// here without importing runtime-topology detection since the pack
	// has no precedent for it — a fixed worker count matches the
	// teacher's own Initialize pattern).
	Workers int

	// InjectionAnnotations overrides classfile's default set used for the
	// parameter-metadata memory gate (spec.md §4.1 "memory optimisation").
	InjectionAnnotations map[string]bool

	// OnArchiveError, when non-nil, is called once per archive that
	// could not be opened (spec.md §7 ArchiveReadError: "reported on
	// stderr, archive skipped, scan continues"). The core never writes to
	// stderr directly; callers decide how to surface this.
	OnArchiveError func(archivePath string, err error)
}

// Result is the Graph Builder's output.
type Result struct {
	Graph           *model.ClassGraph
	Diagnostics     []model.DecodeDiagnostic
	ClassesScanned  int
	ArchivesScanned int
	PackagePrefix   string
}

type decodeJob struct {
	data           []byte
	path           string
	isProjectLocal bool
}

// Build runs the full Graph Builder pipeline: enumerate, decode
// (concurrent), insert (first-insert-wins), then the single-threaded
// index barrier (spec.md §4.2 steps 1-4, §5).
func Build(ctx context.Context, opts Options) (*Result, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = 8
	}

	graphResult := &Result{Graph: model.NewClassGraph()}
	var mu sync.Mutex // guards graphResult.Graph inserts and Diagnostics

	jobs := make(chan decodeJob, workers*4)

	g, gctx := errgroup.WithContext(ctx)

	// Producer: enumerate project directories (marked project-local) then
	// dependency archives (marked external). Project enumeration runs
	// first so project-local classes are always inserted before any
	// coincidentally-identical dependency class (spec.md §4.2 step 3).
	g.Go(func() error {
		defer close(jobs)
		if err := enumerateProjectDirs(gctx, opts.Classpath.ProjectClassDirs, jobs); err != nil {
			return err
		}
		archivesScanned := enumerateArchives(gctx, opts.Classpath.DependencyArchives, jobs, opts.OnArchiveError)
		mu.Lock()
		graphResult.ArchivesScanned = archivesScanned
		mu.Unlock()
		return nil
	})

	// Decode workers.
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			decodeOpts := classfile.Options{InjectionAnnotations: opts.InjectionAnnotations}
			for job := range jobs {
				shape, err := classfile.Decode(job.data, decodeOpts)
				if err != nil {
					mu.Lock()
					graphResult.Diagnostics = append(graphResult.Diagnostics, model.DecodeDiagnostic{
						Path: job.path,
						Err:  err.Error(),
					})
					mu.Unlock()
					continue
				}
				shape.IsProjectLocal = job.isProjectLocal
				mu.Lock()
				if graphResult.Graph.Insert(shape) {
					graphResult.ClassesScanned++
				}
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("graph: building class graph: %w", err)
	}

	// Index phase: single-threaded, strictly after decode completes —
	// the visible barrier of spec.md §4.2 step 4 / §5.
	graphResult.Graph.BuildSubtypeIndex()

	if opts.Classpath.DetectedPackagePrefix != "" {
		graphResult.PackagePrefix = opts.Classpath.DetectedPackagePrefix
	} else {
		graphResult.PackagePrefix = DetectPackagePrefix(graphResult.Graph)
	}

	return graphResult, nil
}

func enumerateProjectDirs(ctx context.Context, dirs []string, jobs chan<- decodeJob) error {
	for _, dir := range dirs {
		err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return fmt.Errorf("graph: walking %s: %w", path, err)
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if d.IsDir() || !strings.HasSuffix(path, ".class") {
				return nil
			}
			data, readErr := os.ReadFile(path)
			if readErr != nil {
				return fmt.Errorf("graph: reading %s: %w", path, readErr)
			}
			select {
			case jobs <- decodeJob{data: data, path: path, isProjectLocal: true}:
			case <-ctx.Done():
				return ctx.Err()
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("graph: enumerating project directory %s: %w", dir, err)
		}
	}
	return nil
}

// enumerateArchives walks every dependency archive, sending a decodeJob
// per class entry. An unreadable archive is an ArchiveReadError (spec.md
// §7): it is reported via onError and skipped, the scan continues with
// the remaining archives.
func enumerateArchives(ctx context.Context, archives []string, jobs chan<- decodeJob, onError func(string, error)) int {
	scanned := 0
	for _, path := range archives {
		err := archive.Walk(path, func(entry archive.ClassEntry) error {
			select {
			case jobs <- decodeJob{data: entry.Body, path: path + "!" + entry.Name, isProjectLocal: false}:
			case <-ctx.Done():
				return ctx.Err()
			}
			return nil
		})
		if err != nil {
			if onError != nil {
				onError(path, err)
			}
			continue
		}
		scanned++
	}
	return scanned
}
