package report

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerProgressRespectsVerbosity(t *testing.T) {
	tests := []struct {
		name      string
		verbosity VerbosityLevel
		expectOut bool
	}{
		{"quiet suppresses progress", VerbosityQuiet, false},
		{"default shows progress", VerbosityDefault, true},
		{"verbose shows progress", VerbosityVerbose, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := NewLoggerWithWriter(tt.verbosity, &buf)
			l.Progress("decoding %d classes", 10)
			got := strings.Contains(buf.String(), "decoding 10 classes")
			if got != tt.expectOut {
				t.Errorf("got output=%v, want %v (buf=%q)", got, tt.expectOut, buf.String())
			}
		})
	}
}

func TestLoggerStatisticOnlyAtVerbose(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithWriter(VerbosityDefault, &buf)
	l.Statistic("graph built: %d classes", 412)
	if buf.Len() != 0 {
		t.Errorf("expected no output at default verbosity, got %q", buf.String())
	}

	buf.Reset()
	l = NewLoggerWithWriter(VerbosityVerbose, &buf)
	l.Statistic("graph built: %d classes", 412)
	if !strings.Contains(buf.String(), "412 classes") {
		t.Errorf("expected statistic output, got %q", buf.String())
	}
}

func TestLoggerWarningAndErrorAlwaysPrint(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithWriter(VerbosityQuiet, &buf)
	l.Warning("archive %s unreadable", "lib.jar")
	l.Error("class %s malformed", "A.class")

	out := buf.String()
	if !strings.Contains(out, "Warning: archive lib.jar unreadable") {
		t.Errorf("missing warning line: %q", out)
	}
	if !strings.Contains(out, "Error: class A.class malformed") {
		t.Errorf("missing error line: %q", out)
	}
}
