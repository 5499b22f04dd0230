package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/state-scan/state-scan/internal/binding"
	"github.com/state-scan/state-scan/internal/model"
)

func TestSingletonAnnotatedClassWithMutableFieldIsHigh(t *testing.T) {
	g := model.NewClassGraph()
	g.Insert(&model.ClassShape{
		FQN: "com.example.CounterService", IsProjectLocal: true,
		Annotations: []string{"javax.inject.Singleton"},
		Fields:      []*model.FieldShape{{Name: "counters", Descriptor: "Ljava/util/HashMap;"}},
	})
	g.BuildSubtypeIndex()
	cat := testCatalogue(t)
	table := binding.Build(g, cat)

	findings := Singleton(g, cat, table, nil)
	f, ok := findByField(findings, "com.example.CounterService", "counters")
	require.True(t, ok)
	assert.Equal(t, model.RiskHigh, f.RiskLevel)
	assert.Equal(t, model.ScopeAnnotation, f.ScopeSource)
	assert.Equal(t, "javax.inject.Singleton", f.ScopeAnnotation)
}

func TestSingletonViaEagerBindingIsDetected(t *testing.T) {
	g := model.NewClassGraph()
	g.Insert(&model.ClassShape{
		FQN: "com.example.CacheModule", Superclass: "com.google.inject.AbstractModule",
		Methods: []*model.MethodShape{{
			Name: "configure", Descriptor: "()V",
			ClassConstants: []string{"com.example.CacheService", "com.example.CacheServiceImpl", "javax.inject.Singleton"},
			Invocations:    []model.MethodRef{{Name: "asEagerSingleton"}},
		}},
	})
	g.Insert(&model.ClassShape{
		FQN: "com.example.CacheServiceImpl", IsProjectLocal: true,
		Fields: []*model.FieldShape{{Name: "entries", Descriptor: "Ljava/util/ArrayList;"}},
	})
	g.BuildSubtypeIndex()
	cat := testCatalogue(t)
	table := binding.Build(g, cat)

	findings := Singleton(g, cat, table, nil)
	f, ok := findByField(findings, "com.example.CacheServiceImpl", "entries")
	require.True(t, ok)
	assert.Equal(t, model.ScopeDIBinding, f.ScopeSource)
	assert.Equal(t, "com.example.CacheService", f.ScopeModule)
}

func TestSingletonSkipsLoggerAndImmutableFields(t *testing.T) {
	g := model.NewClassGraph()
	g.Insert(&model.ClassShape{
		FQN: "com.example.Service", IsProjectLocal: true,
		Annotations: []string{"javax.inject.Singleton"},
		Fields: []*model.FieldShape{
			{Name: "log", Descriptor: "Lorg/slf4j/Logger;"},
			{Name: "name", Descriptor: "Ljava/lang/String;"},
			{Name: "max", Descriptor: "I"},
		},
	})
	g.BuildSubtypeIndex()
	cat := testCatalogue(t)
	table := binding.Build(g, cat)

	findings := Singleton(g, cat, table, nil)
	assert.Empty(t, findings)
}

func TestSingletonSkipsNonSingletonClasses(t *testing.T) {
	g := model.NewClassGraph()
	g.Insert(&model.ClassShape{
		FQN: "com.example.Plain", IsProjectLocal: true,
		Fields: []*model.FieldShape{{Name: "state", Descriptor: "Ljava/util/HashMap;"}},
	})
	g.BuildSubtypeIndex()
	cat := testCatalogue(t)
	table := binding.Build(g, cat)

	findings := Singleton(g, cat, table, nil)
	assert.Empty(t, findings)
}
