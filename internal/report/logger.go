// Package report renders a model.ScanReport for a human (console, with a
// progress bar while the scan is running), a machine (JSON, SARIF) or a
// browser (HTML), and maps the aggregated result to a process exit code. Grounded
// on the teacher's output package: a verbosity-gated Logger backed by
// github.com/schollz/progressbar/v3, an ASCII banner via
// github.com/common-nighthawk/go-figure, and small per-format renderers.
package report

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
)

// VerbosityLevel controls how much a Logger prints. Higher values are a
// superset of lower ones.
type VerbosityLevel int

const (
	VerbosityQuiet VerbosityLevel = iota
	VerbosityDefault
	VerbosityVerbose
	VerbosityDebug
)

// Logger is state-scan's progress/diagnostic sink. All scan-phase
// narration goes here, never to stdout, so stdout stays reserved for the
// JSON/console report itself (spec.md §6's renderers are separate from
// this process-progress channel).
type Logger struct {
	verbosity    VerbosityLevel
	writer       io.Writer
	startTime    time.Time
	isTTY        bool
	showProgress bool
	progressBar  *progressbar.ProgressBar
}

// NewLogger creates a logger at the given verbosity writing to stderr.
func NewLogger(verbosity VerbosityLevel) *Logger {
	return NewLoggerWithWriter(verbosity, os.Stderr)
}

// NewLoggerWithWriter creates a logger writing to w, primarily for tests.
func NewLoggerWithWriter(verbosity VerbosityLevel, w io.Writer) *Logger {
	isTTY := IsTTY(w)
	return &Logger{
		verbosity:    verbosity,
		writer:       w,
		startTime:    time.Now(),
		isTTY:        isTTY,
		showProgress: isTTY,
	}
}

// Progress logs a high-level phase message ("decoding class files...").
// Shown at VerbosityDefault and above.
func (l *Logger) Progress(format string, args ...interface{}) {
	if l.verbosity >= VerbosityDefault {
		fmt.Fprintf(l.writer, format+"\n", args...)
	}
}

// Statistic logs a phase result count ("graph built: 412 classes").
// Shown at VerbosityVerbose and above.
func (l *Logger) Statistic(format string, args ...interface{}) {
	if l.verbosity >= VerbosityVerbose {
		fmt.Fprintf(l.writer, format+"\n", args...)
	}
}

// Debug logs a timestamped diagnostic line. Shown only at VerbosityDebug.
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.verbosity >= VerbosityDebug {
		fmt.Fprintf(l.writer, "[%s] %s\n", formatElapsed(time.Since(l.startTime)), fmt.Sprintf(format, args...))
	}
}

// Warning always prints, regardless of verbosity — used for isolated,
// non-fatal errors (ArchiveReadError, ClassDecodeError, BadExcludePattern).
func (l *Logger) Warning(format string, args ...interface{}) {
	fmt.Fprintf(l.writer, "Warning: %s\n", fmt.Sprintf(format, args...))
}

// Error always prints, regardless of verbosity.
func (l *Logger) Error(format string, args ...interface{}) {
	fmt.Fprintf(l.writer, "Error: %s\n", fmt.Sprintf(format, args...))
}

func formatElapsed(d time.Duration) string {
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	millis := int(d.Milliseconds()) % 1000
	return fmt.Sprintf("%02d:%02d.%03d", minutes, seconds, millis)
}

// StartProgress begins a progress bar for a phase with a known unit
// count (total > 0) or an indeterminate spinner (total < 0). In a
// non-TTY sink it degrades to a single Progress line.
func (l *Logger) StartProgress(description string, total int) {
	if !l.showProgress {
		l.Progress("%s...", description)
		return
	}
	if l.progressBar != nil {
		_ = l.progressBar.Finish()
	}
	opts := []progressbar.Option{
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(l.writer),
		progressbar.OptionSetWidth(40),
		progressbar.OptionThrottle(65 * time.Millisecond),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(l.writer) }),
	}
	if total < 0 {
		opts = append(opts, progressbar.OptionSpinnerType(14))
	} else {
		opts = append(opts, progressbar.OptionShowCount(), progressbar.OptionSetRenderBlankState(true))
	}
	l.progressBar = progressbar.NewOptions(total, opts...)
}

// UpdateProgress advances the active progress bar by delta units.
func (l *Logger) UpdateProgress(delta int) {
	if l.progressBar == nil {
		return
	}
	_ = l.progressBar.Add(delta)
}

// FinishProgress completes and clears the active progress bar.
func (l *Logger) FinishProgress() {
	if l.progressBar == nil {
		return
	}
	_ = l.progressBar.Finish()
	l.progressBar = nil
}

// IsVerbose reports whether verbose or debug output is enabled.
func (l *Logger) IsVerbose() bool { return l.verbosity >= VerbosityVerbose }
