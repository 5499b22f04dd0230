package binding

import (
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

func TestResolveModulesExplicitBindAndTo(t *testing.T) {
	g := model.NewClassGraph()
	g.Insert(&model.ClassShape{FQN: "com.example.DatabaseModule", Superclass: "com.google.inject.AbstractModule", Methods: []*model.MethodShape{
		{
			Name: "configure", Descriptor: "()V",
			ClassConstants: []string{"com.example.DatabasePool", "com.example.PooledDatabasePool"},
		},
	}})
	g.BuildSubtypeIndex()

	bindings := ResolveModules(g, testCatalogue(t))
	require.Len(t, bindings, 1)
	assert.Equal(t, model.BindingKey{TypeFQN: "com.example.DatabasePool"}, bindings[0].Key)
	assert.Equal(t, "com.example.PooledDatabasePool", bindings[0].ConcreteFQN)
	assert.False(t, bindings[0].Singleton)
}

func TestResolveModulesSingletonMarker(t *testing.T) {
	g := model.NewClassGraph()
	g.Insert(&model.ClassShape{FQN: "com.example.CacheModule", Superclass: "com.google.inject.AbstractModule", Methods: []*model.MethodShape{
		{
			Name: "configure", Descriptor: "()V",
			ClassConstants: []string{"com.example.CacheService", "com.example.CacheServiceImpl", "javax.inject.Singleton"},
			Invocations:    []model.MethodRef{{Name: "asEagerSingleton"}},
		},
	}})
	g.BuildSubtypeIndex()

	bindings := ResolveModules(g, testCatalogue(t))
	require.Len(t, bindings, 1)
	assert.True(t, bindings[0].Singleton)
}

func TestResolveModulesInstallChain(t *testing.T) {
	g := model.NewClassGraph()
	g.Insert(&model.ClassShape{
		FQN: "com.example.RootModule", Superclass: "com.google.inject.AbstractModule",
		Methods: []*model.MethodShape{{
			Name: "configure", Descriptor: "()V",
			Invocations: []model.MethodRef{
				{Owner: "com.example.SubModule", Name: "<init>", Descriptor: "()V"},
				{Owner: "com.google.inject.AbstractModule", Name: "install", Descriptor: "(Lcom/google/inject/Module;)V"},
			},
		}},
	})
	g.Insert(&model.ClassShape{
		FQN: "com.example.SubModule", Superclass: "com.google.inject.AbstractModule",
		Methods: []*model.MethodShape{{
			Name: "configure", Descriptor: "()V",
			ClassConstants: []string{"com.example.Clock", "com.example.SystemClock"},
		}},
	})
	g.BuildSubtypeIndex()

	bindings := ResolveModules(g, testCatalogue(t))
	require.Len(t, bindings, 1)
	assert.Equal(t, "com.example.Clock", bindings[0].Key.TypeFQN)
	assert.Equal(t, "com.example.SystemClock", bindings[0].ConcreteFQN)
}

func TestResolveModulesSuperConfigureInheritance(t *testing.T) {
	g := model.NewClassGraph()
	g.Insert(&model.ClassShape{
		FQN: "com.example.BaseModule", Superclass: "com.google.inject.AbstractModule",
		Methods: []*model.MethodShape{{
			Name: "configure", Descriptor: "()V",
			ClassConstants: []string{"com.example.Clock", "com.example.SystemClock"},
		}},
	})
	g.Insert(&model.ClassShape{
		FQN: "com.example.ChildModule", Superclass: "com.example.BaseModule",
		Methods: []*model.MethodShape{{
			Name: "configure", Descriptor: "()V",
			ClassConstants: []string{"com.example.Service", "com.example.ServiceImpl"},
			Invocations:    []model.MethodRef{{Owner: "com.example.BaseModule", Name: "configure", Descriptor: "()V"}},
		}},
	})
	g.BuildSubtypeIndex()

	bindings := ResolveModules(g, testCatalogue(t))
	keys := map[string]string{}
	for _, b := range bindings {
		keys[b.Key.TypeFQN] = b.ConcreteFQN
	}
	assert.Equal(t, "com.example.ServiceImpl", keys["com.example.Service"])
	assert.Equal(t, "com.example.SystemClock", keys["com.example.Clock"])
}

func TestResolveProvidersBindsReturnTypeToDeclaringClass(t *testing.T) {
	g := model.NewClassGraph()
	g.Insert(&model.ClassShape{FQN: "com.example.AppModule", Methods: []*model.MethodShape{
		{
			Name: "provideClock", Descriptor: "()Lcom/example/Clock;",
			Annotations: []string{"com.google.inject.Provides"},
		},
	}})

	bindings := ResolveProviders(g)
	require.Len(t, bindings, 1)
	assert.Equal(t, model.BindingKey{TypeFQN: "com.example.Clock"}, bindings[0].Key)
	assert.Equal(t, "com.example.AppModule", bindings[0].ConcreteFQN)
}

func TestResolveProducesBindsReturnTypeToDeclaringClass(t *testing.T) {
	g := model.NewClassGraph()
	g.Insert(&model.ClassShape{FQN: "com.example.Factory", Methods: []*model.MethodShape{
		{
			Name: "makeWidget", Descriptor: "()Lcom/example/Widget;",
			Annotations: []string{"jakarta.enterprise.inject.Produces"},
		},
	}})

	bindings := ResolveProduces(g)
	require.Len(t, bindings, 1)
	assert.Equal(t, "com.example.Factory", bindings[0].ConcreteFQN)
}

func TestResolveInferenceSingleImplementation(t *testing.T) {
	g := model.NewClassGraph()
	g.Insert(&model.ClassShape{FQN: "com.example.Clock", IsInterface: true})
	g.Insert(&model.ClassShape{FQN: "com.example.SystemClock", Superclass: "com.example.Clock"})
	g.BuildSubtypeIndex()

	bindings, ambiguous := ResolveInference(g, func(model.BindingKey) bool { return false })
	require.Len(t, bindings, 1)
	assert.Equal(t, "com.example.SystemClock", bindings[0].ConcreteFQN)
	assert.Empty(t, ambiguous)
}

func TestResolveInferenceAmbiguousIsRecordedNotGuessed(t *testing.T) {
	g := model.NewClassGraph()
	g.Insert(&model.ClassShape{FQN: "com.example.Repository", IsInterface: true})
	g.Insert(&model.ClassShape{FQN: "com.example.SqlRepository", Superclass: "com.example.Repository"})
	g.Insert(&model.ClassShape{FQN: "com.example.MemoryRepository", Superclass: "com.example.Repository"})
	g.BuildSubtypeIndex()

	bindings, ambiguous := ResolveInference(g, func(model.BindingKey) bool { return false })
	assert.Empty(t, bindings)
	require.Contains(t, ambiguous, "com.example.Repository")
	assert.ElementsMatch(t, []string{"com.example.SqlRepository", "com.example.MemoryRepository"}, ambiguous["com.example.Repository"])
}

func TestResolveInferenceSkipsAlreadyResolvedKeys(t *testing.T) {
	g := model.NewClassGraph()
	g.Insert(&model.ClassShape{FQN: "com.example.Clock", IsInterface: true})
	g.Insert(&model.ClassShape{FQN: "com.example.SystemClock", Superclass: "com.example.Clock"})
	g.BuildSubtypeIndex()

	bindings, _ := ResolveInference(g, func(k model.BindingKey) bool { return k.TypeFQN == "com.example.Clock" })
	assert.Empty(t, bindings, "a key already resolved by a higher-precedence source must not be re-inferred")
}

func TestBuildPrecedenceExplicitBeatsInference(t *testing.T) {
	g := model.NewClassGraph()
	g.Insert(&model.ClassShape{FQN: "com.example.Clock", IsInterface: true})
	g.Insert(&model.ClassShape{FQN: "com.example.SystemClock", Superclass: "com.example.Clock"})
	g.Insert(&model.ClassShape{
		FQN: "com.example.TestModule", Superclass: "com.google.inject.AbstractModule",
		Methods: []*model.MethodShape{{
			Name: "configure", Descriptor: "()V",
			ClassConstants: []string{"com.example.Clock", "com.example.FixedClock"},
		}},
	})
	g.BuildSubtypeIndex()

	table := Build(g, testCatalogue(t))
	b, ok := table.Resolve(model.BindingKey{TypeFQN: "com.example.Clock"})
	require.True(t, ok)
	assert.Equal(t, "com.example.FixedClock", b.ConcreteFQN, "explicit configure binding must win over inference, which alone would pick SystemClock")
}

func TestIsQualifierAnnotationChecksMetaAnnotation(t *testing.T) {
	g := model.NewClassGraph()
	g.Insert(&model.ClassShape{
		FQN:         "com.example.Primary",
		IsInterface: true,
		Annotations: []string{"javax.inject.Qualifier"},
	})
	g.Insert(&model.ClassShape{FQN: "com.example.Plain", Annotations: []string{"com.example.NotAQualifier"}})

	assert.True(t, IsQualifierAnnotation(g, "com.example.Primary"))
	assert.False(t, IsQualifierAnnotation(g, "com.example.Plain"))
	assert.False(t, IsQualifierAnnotation(g, "com.example.Missing"))
}

func TestExpandParametersExtractsQualifier(t *testing.T) {
	g := model.NewClassGraph()
	g.Insert(&model.ClassShape{FQN: "com.example.Primary", Annotations: []string{"javax.inject.Qualifier"}})

	m := &model.MethodShape{Parameters: []*model.ParameterShape{
		{Index: 0, TypeFQN: "com.example.DataSource", Annotations: []string{"com.example.Primary"}},
		{Index: 1, TypeFQN: "com.example.Clock"},
	}}

	keys := ExpandParameters(g, m)
	require.Len(t, keys, 2)
	assert.Equal(t, model.BindingKey{TypeFQN: "com.example.DataSource", Qualifier: "com.example.Primary"}, keys[0])
	assert.Equal(t, model.BindingKey{TypeFQN: "com.example.Clock"}, keys[1])
}
