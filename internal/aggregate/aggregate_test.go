package aggregate

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/state-scan/state-scan/internal/catalogue"
	"github.com/state-scan/state-scan/internal/model"
)

func testCatalogue(t *testing.T) *catalogue.Catalogue {
	t.Helper()
	cat, err := catalogue.LoadDefault()
	require.NoError(t, err)
	return cat
}

func testCatalogueWithExclude(t *testing.T, pattern string) *catalogue.Catalogue {
	t.Helper()
	cat := testCatalogue(t)
	cat.Exclude = append(cat.Exclude, regexp.MustCompile(pattern))
	return cat
}

func TestExcludePatternDropsMatchingFieldType(t *testing.T) {
	// Grounds S7: excludePatterns: ['.*\.prometheus\..*'] drops a static
	// final io.prometheus.client.Counter field entirely.
	cat := testCatalogueWithExclude(t, `.*\.prometheus\..*`)

	findings := []model.Finding{
		{ClassFQN: "com.example.Metrics", FieldName: "C", FieldType: "io.prometheus.client.Counter", DetectorID: "static-state", RiskLevel: model.RiskHigh},
	}

	result := Run(findings, cat, Options{})
	assert.Empty(t, result.Findings)
}

func TestExcludeLeavesNonMatchingFindingsAlone(t *testing.T) {
	cat := testCatalogueWithExclude(t, `.*\.prometheus\..*`)

	findings := []model.Finding{
		{ClassFQN: "com.example.Lookup", FieldName: "byId", FieldType: "java.util.HashMap", DetectorID: "static-state", RiskLevel: model.RiskHigh},
	}

	result := Run(findings, cat, Options{})
	assert.Len(t, result.Findings, 1)
}

func TestExcludeAppliesToPathLeafWhenNoFieldType(t *testing.T) {
	cat := testCatalogueWithExclude(t, `^java\.sql\.Connection$`)

	findings := []model.Finding{{
		ClassFQN:         "com.example.UserService",
		DetectorID:       "external-state",
		RiskLevel:        model.RiskCritical,
		ReachabilityPath: []model.PathStep{{ClassFQN: "com.example.UserService"}, {ClassFQN: "java.sql.Connection"}},
	}}

	result := Run(findings, cat, Options{})
	assert.Empty(t, result.Findings)
}

func TestDedupCollapsesRepeatedKey(t *testing.T) {
	cat := testCatalogue(t)
	findings := []model.Finding{
		{ClassFQN: "com.example.A", FieldName: "m", DetectorID: "cache", RiskLevel: model.RiskHigh},
		{ClassFQN: "com.example.A", FieldName: "m", DetectorID: "cache", RiskLevel: model.RiskHigh},
	}
	result := Run(findings, cat, Options{})
	assert.Len(t, result.Findings, 1)
}

func TestDedupKeepsDistinctLeafFQNsSeparate(t *testing.T) {
	cat := testCatalogue(t)
	findings := []model.Finding{
		{ClassFQN: "com.example.Front", DetectorID: "service-client", Pattern: "reaches client", RiskLevel: model.RiskMedium,
			ReachabilityPath: []model.PathStep{{ClassFQN: "com.example.Front"}, {ClassFQN: "okhttp3.OkHttpClient"}}},
		{ClassFQN: "com.example.Front", DetectorID: "service-client", Pattern: "reaches client", RiskLevel: model.RiskMedium,
			ReachabilityPath: []model.PathStep{{ClassFQN: "com.example.Front"}, {ClassFQN: "io.grpc.ManagedChannel"}}},
	}
	result := Run(findings, cat, Options{})
	assert.Len(t, result.Findings, 2)
}

func TestGroupOrdersClassesBySeverityThenCount(t *testing.T) {
	cat := testCatalogue(t)
	findings := []model.Finding{
		{ClassFQN: "com.example.Medium", DetectorID: "metric", Pattern: "p1", RiskLevel: model.RiskMedium},
		{ClassFQN: "com.example.Critical", DetectorID: "static-state", FieldName: "f1", RiskLevel: model.RiskCritical},
		{ClassFQN: "com.example.Critical", DetectorID: "static-state", FieldName: "f2", RiskLevel: model.RiskHigh},
	}
	result := Run(findings, cat, Options{})
	require.Len(t, result.ByClass, 2)
	assert.Equal(t, "com.example.Critical", result.ByClass[0].ClassFQN)
	assert.Equal(t, "com.example.Medium", result.ByClass[1].ClassFQN)
	assert.Len(t, result.ByClass[0].Findings, 2)
}

func TestRiskThresholdSuppressesLessSevereFindings(t *testing.T) {
	cat := testCatalogue(t)
	findings := []model.Finding{
		{ClassFQN: "com.example.A", DetectorID: "metric", Pattern: "p", RiskLevel: model.RiskMedium},
		{ClassFQN: "com.example.B", DetectorID: "static-state", FieldName: "f", RiskLevel: model.RiskHigh},
	}
	result := Run(findings, cat, Options{RiskThreshold: model.RiskHigh})
	assert.Len(t, result.Findings, 1)
	assert.Equal(t, "com.example.B", result.Findings[0].ClassFQN)
}

func TestFailOnGateScenarios(t *testing.T) {
	cat := testCatalogue(t)

	// S8 first half: --fail-on high with only MEDIUM findings -> gate not met.
	mediumOnly := []model.Finding{
		{ClassFQN: "com.example.A", DetectorID: "metric", Pattern: "p", RiskLevel: model.RiskMedium},
	}
	result := Run(mediumOnly, cat, Options{FailOn: model.RiskHigh})
	assert.False(t, result.FailOnMet)

	// S8 second half: one HIGH finding -> gate met.
	withHigh := []model.Finding{
		{ClassFQN: "com.example.A", DetectorID: "metric", Pattern: "p", RiskLevel: model.RiskMedium},
		{ClassFQN: "com.example.B", DetectorID: "static-state", FieldName: "f", RiskLevel: model.RiskHigh},
	}
	result = Run(withHigh, cat, Options{FailOn: model.RiskHigh})
	assert.True(t, result.FailOnMet)
}

func TestFailOnGateDisabledWhenUnset(t *testing.T) {
	cat := testCatalogue(t)
	findings := []model.Finding{{ClassFQN: "com.example.A", DetectorID: "static-state", FieldName: "f", RiskLevel: model.RiskCritical}}
	result := Run(findings, cat, Options{})
	assert.False(t, result.FailOnMet)
}
