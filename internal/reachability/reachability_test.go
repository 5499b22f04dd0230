package reachability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/state-scan/state-scan/internal/binding"
	"github.com/state-scan/state-scan/internal/catalogue"
	"github.com/state-scan/state-scan/internal/model"
)

func testCatalogue(t *testing.T) *catalogue.Catalogue {
	t.Helper()
	cat, err := catalogue.LoadDefault()
	require.NoError(t, err)
	return cat
}

// TestComputeFieldPathToExternalState grounds scenario S5 from spec.md §8:
// a project class field whose type is a known external-state type is
// reached in one FIELD hop.
func TestComputeFieldPathToExternalState(t *testing.T) {
	g := model.NewClassGraph()
	g.Insert(&model.ClassShape{
		FQN: "com.example.UserService", IsProjectLocal: true,
		Fields: []*model.FieldShape{{Name: "db", Descriptor: "Ljava/sql/Connection;"}},
	})
	g.Insert(&model.ClassShape{FQN: "java.sql.Connection", IsInterface: true})
	g.BuildSubtypeIndex()

	cat := testCatalogue(t)
	table := binding.Build(g, cat)
	results := Compute(g, cat, table, Options{})

	pr, ok := results.Path("com.example.UserService", CategoryExternalState)
	require.True(t, ok)
	require.Len(t, pr.Path, 2)
	assert.Equal(t, "com.example.UserService", pr.Path[0].ClassFQN)
	assert.Equal(t, "java.sql.Connection", pr.Path[1].ClassFQN)
	assert.Equal(t, model.EdgeField, pr.Path[1].Edge)
	assert.Equal(t, "db", pr.Path[1].Member)
}

func TestComputeFieldEdgeRequiresTargetKnownToGraph(t *testing.T) {
	g := model.NewClassGraph()
	g.Insert(&model.ClassShape{
		FQN: "com.example.Orphan", IsProjectLocal: true,
		Fields: []*model.FieldShape{{Name: "unknown", Descriptor: "Lcom/example/NotDecoded;"}},
	})
	g.BuildSubtypeIndex()

	cat := testCatalogue(t)
	table := binding.Build(g, cat)
	results := Compute(g, cat, table, Options{})

	_, ok := results.Path("com.example.Orphan", CategoryExternalState)
	assert.False(t, ok)
}

// TestComputeDIBindingPath grounds scenario S5: a constructor parameter
// whose BindingKey resolves via single-implementation inference reaches a
// database pool holding a java.sql.Connection field.
func TestComputeDIBindingPath(t *testing.T) {
	cat := testCatalogue(t)

	// Verifies the DI_BINDING edge exists by checking a path through an
	// intermediate leaf-category marker reachable only via the resolved
	// concrete type (single-implementation inference resolves
	// DatabasePool -> PooledDatabasePool).
	g2 := model.NewClassGraph()
	g2.Insert(&model.ClassShape{
		FQN: "com.example.UserService", IsProjectLocal: true,
		Methods: []*model.MethodShape{{
			Name: "<init>", Descriptor: "(Lcom/example/DatabasePool;)V",
			Parameters: []*model.ParameterShape{{Index: 0, TypeFQN: "com.example.DatabasePool"}},
		}},
	})
	g2.Insert(&model.ClassShape{FQN: "com.example.DatabasePool", IsAbstract: true})
	g2.Insert(&model.ClassShape{
		FQN: "com.example.PooledDatabasePool", Superclass: "com.example.DatabasePool",
		Fields: []*model.FieldShape{{Name: "conn", Descriptor: "Ljava/sql/Connection;"}},
	})
	g2.Insert(&model.ClassShape{FQN: "java.sql.Connection", IsInterface: true})
	g2.BuildSubtypeIndex()

	table2 := binding.Build(g2, cat)
	results2 := Compute(g2, cat, table2, Options{})
	pr, ok := results2.Path("com.example.UserService", CategoryExternalState)
	require.True(t, ok, "DI_BINDING edge must resolve DatabasePool to PooledDatabasePool and continue traversal")
	var sawDIEdge bool
	for _, step := range pr.Path {
		if step.Edge == model.EdgeDIBinding {
			sawDIEdge = true
			assert.Equal(t, "com.example.PooledDatabasePool", step.ClassFQN)
		}
	}
	assert.True(t, sawDIEdge)
}

func TestComputeRespectsMaxDepth(t *testing.T) {
	g := model.NewClassGraph()
	g.Insert(&model.ClassShape{FQN: "com.example.A", IsProjectLocal: true, Superclass: "com.example.B"})
	g.Insert(&model.ClassShape{FQN: "com.example.B", Superclass: "com.example.C"})
	g.Insert(&model.ClassShape{FQN: "com.example.C", Superclass: "java.sql.Connection"})
	g.Insert(&model.ClassShape{FQN: "java.sql.Connection", IsInterface: true})
	g.BuildSubtypeIndex()

	cat := testCatalogue(t)
	table := binding.Build(g, cat)

	results := Compute(g, cat, table, Options{MaxDepth: 1})
	_, ok := results.Path("com.example.A", CategoryExternalState)
	assert.False(t, ok, "java.sql.Connection is 3 hops away, beyond maxDepth=1")

	results2 := Compute(g, cat, table, Options{MaxDepth: 6})
	_, ok2 := results2.Path("com.example.A", CategoryExternalState)
	assert.True(t, ok2)
}

func TestEndpointAttribution(t *testing.T) {
	g := model.NewClassGraph()
	g.Insert(&model.ClassShape{
		FQN: "com.example.UserController", IsProjectLocal: true,
		Annotations: []string{"org.springframework.web.bind.annotation.RestController"},
		Fields:      []*model.FieldShape{{Name: "db", Descriptor: "Ljava/sql/Connection;"}},
		Methods: []*model.MethodShape{
			{Name: "getUser", Descriptor: "()V", IsPublic: true},
			{Name: "helper", Descriptor: "()V", IsPublic: false},
		},
	})
	g.Insert(&model.ClassShape{FQN: "java.sql.Connection", IsInterface: true})
	g.BuildSubtypeIndex()

	cat := testCatalogue(t)
	table := binding.Build(g, cat)
	results := Compute(g, cat, table, Options{})

	pr, ok := results.Path("com.example.UserController", CategoryExternalState)
	require.True(t, ok)
	assert.Contains(t, pr.AffectedEndpoints, "com.example.UserController#getUser")
	assert.NotContains(t, pr.AffectedEndpoints, "com.example.UserController#helper")
}

func TestComputeSkipsSafeTypes(t *testing.T) {
	g := model.NewClassGraph()
	g.Insert(&model.ClassShape{
		FQN: "com.example.Service", IsProjectLocal: true,
		Fields: []*model.FieldShape{{Name: "log", Descriptor: "Lorg/slf4j/Logger;"}},
	})
	g.Insert(&model.ClassShape{FQN: "org.slf4j.Logger", IsInterface: true})
	g.BuildSubtypeIndex()

	cat := testCatalogue(t)
	table := binding.Build(g, cat)
	results := Compute(g, cat, table, Options{})

	for _, category := range AllCategories {
		_, ok := results.Path("com.example.Service", category)
		assert.False(t, ok, "a declared safe-type must never satisfy a leaf category")
	}
}
