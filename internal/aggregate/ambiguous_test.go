package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/state-scan/state-scan/internal/binding"
	"github.com/state-scan/state-scan/internal/model"
	"github.com/state-scan/state-scan/internal/reachability"
)

func TestAmbiguousFindingsFlagsMultiImplInterfaceOnVisitedClass(t *testing.T) {
	g := model.NewClassGraph()
	g.Insert(&model.ClassShape{
		FQN: "com.example.OrderService", IsProjectLocal: true,
		Methods: []*model.MethodShape{{
			Name: "<init>", Descriptor: "(Lcom/example/Repo;)V",
			Parameters: []*model.ParameterShape{{Index: 0, TypeFQN: "com.example.Repo"}},
		}},
	})
	g.Insert(&model.ClassShape{FQN: "com.example.Repo", IsInterface: true})
	g.Insert(&model.ClassShape{FQN: "com.example.RepoA", Superclass: "com.example.Repo"})
	g.Insert(&model.ClassShape{FQN: "com.example.RepoB", Superclass: "com.example.Repo"})
	g.BuildSubtypeIndex()

	cat := testCatalogue(t)
	table := binding.Build(g, cat)
	require.Contains(t, table.Ambiguous, "com.example.Repo")

	reach := reachability.Compute(g, cat, table, reachability.Options{})

	findings := AmbiguousFindings(g, table, reach)
	require.NotEmpty(t, findings)
	assert.Equal(t, "com.example.OrderService", findings[0].ClassFQN)
	assert.Equal(t, model.RiskInfo, findings[0].RiskLevel)
	assert.Equal(t, "ambiguous-binding", findings[0].DetectorID)
}

func TestAmbiguousFindingsEmptyWhenNoAmbiguity(t *testing.T) {
	g := model.NewClassGraph()
	g.Insert(&model.ClassShape{FQN: "com.example.Plain", IsProjectLocal: true})
	g.BuildSubtypeIndex()
	cat := testCatalogue(t)
	table := binding.Build(g, cat)
	reach := reachability.Compute(g, cat, table, reachability.Options{})

	assert.Empty(t, AmbiguousFindings(g, table, reach))
}
