package report

import (
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/state-scan/state-scan/internal/model"
)

// JSONReport is the on-the-wire shape of spec.md §6's ScanReport JSON
// schema: a metadata object, a summary object, and a findings array.
// Fields tagged omitempty vanish when unset, matching "fields with no
// value are omitted".
type JSONReport struct {
	Metadata JSONMetadata  `json:"metadata"`
	Summary  JSONSummary   `json:"summary"`
	Findings []JSONFinding `json:"findings"`
}

// JSONMetadata mirrors spec.md §6's metadata object.
type JSONMetadata struct {
	ProjectPath     string `json:"project_path"`
	ScanDate        string `json:"scan_date"` // ISO-8601
	ClassesScanned  int    `json:"classes_scanned"`
	ArchivesScanned int    `json:"archives_scanned"`
	DurationMS      int64  `json:"duration_ms"`
}

// JSONSummary mirrors spec.md §6's summary object: counts per severity
// plus a total.
type JSONSummary struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
	Info     int `json:"info"`
	Total    int `json:"total"`
}

// JSONFinding mirrors spec.md §6's per-finding object.
type JSONFinding struct {
	ClassFQN         string   `json:"class_fqn"`
	SimpleClassName  string   `json:"simple_class_name"`
	StateType        string   `json:"state_type"`
	RiskLevel        string   `json:"risk_level"`
	Pattern          string   `json:"pattern"`
	FieldName        string   `json:"field_name,omitempty"`
	FieldType        string   `json:"field_type,omitempty"`
	ScopeSource      string   `json:"scope_source,omitempty"`
	ScopeAnnotation  string   `json:"scope_annotation,omitempty"`
	ScopeModule      string   `json:"scope_module,omitempty"`
	Description      string   `json:"description"`
	Recommendation   string   `json:"recommendation"`
	DetectorID       string   `json:"detector_id"`
	SourceFile       string   `json:"source_file,omitempty"`
	AffectedEndpoints []string `json:"affected_endpoints,omitempty"`
}

// ToJSONReport converts a model.ScanReport into the wire schema.
func ToJSONReport(scan model.ScanReport) JSONReport {
	out := JSONReport{
		Metadata: JSONMetadata{
			ProjectPath:     scan.ProjectPath,
			ScanDate:        scan.ScanTime.UTC().Format(time.RFC3339),
			ClassesScanned:  scan.ClassesScanned,
			ArchivesScanned: scan.ArchivesScanned,
			DurationMS:      scan.Elapsed.Milliseconds(),
		},
		Findings: make([]JSONFinding, 0, len(scan.Findings)),
	}
	for _, f := range scan.Findings {
		out.Summary.Total++
		switch f.RiskLevel {
		case model.RiskCritical:
			out.Summary.Critical++
		case model.RiskHigh:
			out.Summary.High++
		case model.RiskMedium:
			out.Summary.Medium++
		case model.RiskLow:
			out.Summary.Low++
		case model.RiskInfo:
			out.Summary.Info++
		}
		out.Findings = append(out.Findings, JSONFinding{
			ClassFQN:          f.ClassFQN,
			SimpleClassName:   simpleName(f.ClassFQN),
			StateType:         string(f.StateType),
			RiskLevel:         f.RiskLevel.String(),
			Pattern:           f.Pattern,
			FieldName:         f.FieldName,
			FieldType:         f.FieldType,
			ScopeSource:       string(f.ScopeSource),
			ScopeAnnotation:   f.ScopeAnnotation,
			ScopeModule:       f.ScopeModule,
			Description:       f.Description,
			Recommendation:    f.Recommendation,
			DetectorID:        f.DetectorID,
			SourceFile:        f.SourceFile,
			AffectedEndpoints: f.AffectedEndpoints,
		})
	}
	return out
}

func simpleName(fqn string) string {
	if i := strings.LastIndexByte(fqn, '.'); i >= 0 {
		return fqn[i+1:]
	}
	return fqn
}

// WriteJSON renders scan as indented JSON to w.
func WriteJSON(w io.Writer, scan model.ScanReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ToJSONReport(scan))
}
