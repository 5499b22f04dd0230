package report

import (
	"fmt"
	"io"

	"github.com/state-scan/state-scan/internal/aggregate"
	"github.com/state-scan/state-scan/internal/model"
)

// WriteText renders scan as a human-readable console report, grouped by
// class the way aggregate.Run already ordered them. Grounded on the
// teacher's TextFormatter.Format shape (header, per-finding body,
// trailing summary).
func WriteText(w io.Writer, scan model.ScanReport, byClass []aggregate.ClassSummary) {
	fmt.Fprintln(w, "state-scan report")
	fmt.Fprintf(w, "%s — %d classes, %d archives, %s\n\n",
		scan.ProjectPath, scan.ClassesScanned, scan.ArchivesScanned, scan.Elapsed.Round(1e6))

	if len(scan.Findings) == 0 {
		fmt.Fprintln(w, "No in-process state found.")
		return
	}

	for _, cs := range byClass {
		fmt.Fprintf(w, "%s (%d finding(s))\n", cs.ClassFQN, len(cs.Findings))
		for _, f := range cs.Findings {
			writeFinding(w, f)
		}
		fmt.Fprintln(w)
	}

	writeSummary(w, scan.Findings)
}

func writeFinding(w io.Writer, f model.Finding) {
	label := f.FieldName
	if label == "" {
		label = f.Pattern
	}
	fmt.Fprintf(w, "  [%s] %s — %s\n", f.RiskLevel, label, f.DetectorID)
	if f.FieldType != "" {
		fmt.Fprintf(w, "    type: %s\n", f.FieldType)
	}
	fmt.Fprintf(w, "    %s\n", f.Description)
	if f.Recommendation != "" {
		fmt.Fprintf(w, "    recommendation: %s\n", f.Recommendation)
	}
	if len(f.AffectedEndpoints) > 0 {
		fmt.Fprintf(w, "    affected endpoints: %v\n", f.AffectedEndpoints)
	}
}

func writeSummary(w io.Writer, findings []model.Finding) {
	var critical, high, medium, low, info int
	for _, f := range findings {
		switch f.RiskLevel {
		case model.RiskCritical:
			critical++
		case model.RiskHigh:
			high++
		case model.RiskMedium:
			medium++
		case model.RiskLow:
			low++
		case model.RiskInfo:
			info++
		}
	}
	fmt.Fprintf(w, "Summary: %d critical, %d high, %d medium, %d low, %d info (%d total)\n",
		critical, high, medium, low, info, len(findings))
}
