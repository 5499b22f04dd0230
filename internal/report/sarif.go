package report

import (
	"encoding/json"
	"io"

	sarif "github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/state-scan/state-scan/internal/model"
)

// WriteSARIF renders scan as a SARIF 2.1.0 log, grounded on the teacher's
// SARIFFormatter (one rule per distinct detector_id, one result per
// finding). state-scan has no per-class-file line/column information
// (the bytecode decoder never parses a LineNumberTable — outside
// spec.md's Non-goals), so every result's artifact location is the
// class's source file name (or its FQN when no source file was recorded),
// with no region.
func WriteSARIF(w io.Writer, scan model.ScanReport) error {
	log, err := sarif.New(sarif.Version210)
	if err != nil {
		return err
	}
	run := sarif.NewRunWithInformationURI("state-scan", "https://github.com/state-scan/state-scan")

	seenRules := map[string]bool{}
	for _, f := range scan.Findings {
		if !seenRules[f.DetectorID] {
			seenRules[f.DetectorID] = true
			run.AddRule(f.DetectorID).
				WithName(f.DetectorID).
				WithDescription(f.Pattern).
				WithDefaultConfiguration(sarif.NewReportingConfiguration().WithLevel(sarifLevel(f.RiskLevel)))
		}

		result := run.CreateResultForRule(f.DetectorID).
			WithMessage(sarif.NewTextMessage(f.Description))

		artifact := f.SourceFile
		if artifact == "" {
			artifact = f.ClassFQN
		}
		result.AddLocation(sarif.NewLocation().WithPhysicalLocation(
			sarif.NewPhysicalLocation().WithArtifactLocation(
				sarif.NewArtifactLocation().WithUri(artifact),
			),
		))
	}

	log.AddRun(run)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(log)
}

func sarifLevel(r model.RiskLevel) string {
	switch r {
	case model.RiskCritical, model.RiskHigh:
		return "error"
	case model.RiskMedium:
		return "warning"
	default:
		return "note"
	}
}
