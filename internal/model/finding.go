package model

import (
	"strings"
	"time"
)

// StateType classifies the kind of process-local state a Finding evidences.
type StateType string

const (
	StateInMemory    StateType = "IN_MEMORY"
	StateExternal    StateType = "EXTERNAL"
	StateCache       StateType = "CACHE"
	StateThreadLocal StateType = "THREAD_LOCAL"
	StateSession     StateType = "SESSION"
	StateFile        StateType = "FILE"
	StateResilience  StateType = "RESILIENCE"
	StateClient      StateType = "CLIENT"
	StateSingleton   StateType = "SINGLETON"
)

// RiskLevel is the ordinal severity of a Finding, 1 (most severe) through
// 5 (informational).
type RiskLevel int

const (
	RiskCritical RiskLevel = 1
	RiskHigh     RiskLevel = 2
	RiskMedium   RiskLevel = 3
	RiskLow      RiskLevel = 4
	RiskInfo     RiskLevel = 5
)

// String renders the risk level the way reports and --fail-on/--risk-threshold
// flags spell it.
func (r RiskLevel) String() string {
	switch r {
	case RiskCritical:
		return "critical"
	case RiskHigh:
		return "high"
	case RiskMedium:
		return "medium"
	case RiskLow:
		return "low"
	case RiskInfo:
		return "info"
	default:
		return "unknown"
	}
}

// ParseRiskLevel parses a --risk-threshold/--fail-on level string. Matching
// is case-insensitive; an empty or unrecognised value reports ok=false.
func ParseRiskLevel(s string) (RiskLevel, bool) {
	switch strings.ToLower(s) {
	case "critical":
		return RiskCritical, true
	case "high":
		return RiskHigh, true
	case "medium":
		return RiskMedium, true
	case "low":
		return RiskLow, true
	case "info":
		return RiskInfo, true
	default:
		return 0, false
	}
}

// ScopeSource records where a finding's scope information came from, used
// only for SINGLETON-category findings.
type ScopeSource string

const (
	ScopeNone      ScopeSource = "NONE"
	ScopeAnnotation ScopeSource = "ANNOTATION"
	ScopeDIBinding ScopeSource = "DI_BINDING"
	ScopeInferred  ScopeSource = "INFERRED"
)

// EdgeKind names one of the four reachability edge kinds (spec.md §4.5).
type EdgeKind string

const (
	EdgeField      EdgeKind = "FIELD"
	EdgeInvocation EdgeKind = "INVOCATION"
	EdgeInheritance EdgeKind = "INHERITANCE"
	EdgeDIBinding  EdgeKind = "DI_BINDING"
)

// PathStep is one hop of a reachability path. Inferred is only meaningful
// on a DI_BINDING step: it records whether the binding resolved via
// single-implementation inference rather than an explicit source, which the
// detector pipeline uses to discount confidence (spec.md §4.6 risk table's
// "inferred via single-impl only" row).
type PathStep struct {
	ClassFQN string
	Member   string
	Edge     EdgeKind
	Inferred bool
}

// Finding is a single piece of evidence a detector attributes to a class
// or field.
type Finding struct {
	ClassFQN   string
	FieldName  string // empty if not field-scoped
	FieldType  string // human-readable, e.g. "java.util.HashMap"
	SourceFile string // empty if no debug info

	DetectorID string
	Pattern    string
	StateType  StateType
	RiskLevel  RiskLevel

	ScopeSource     ScopeSource
	ScopeAnnotation string
	ScopeModule     string

	ReachabilityPath  []PathStep
	AffectedEndpoints []string

	Description    string
	Recommendation string
}

// ScanReport is the complete output of one scan.
type ScanReport struct {
	ProjectPath     string
	ScanTime        time.Time
	ClassesScanned  int
	ArchivesScanned int
	Elapsed         time.Duration

	Findings    []Finding
	Diagnostics []DecodeDiagnostic // classes/archives skipped — see SPEC_FULL.md §3
}

// DecodeDiagnostic records one class or archive entry that was dropped
// during ingestion without aborting the scan (spec.md §7: ClassDecodeError
// and ArchiveReadError are both isolated to their unit).
type DecodeDiagnostic struct {
	Path string
	FQN  string // empty if the name could not even be determined
	Err  string
}
