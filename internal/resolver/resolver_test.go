package resolver_test

import (
	"testing"

	"github.com/opmodel/resengine/internal/builder"
	"github.com/opmodel/resengine/internal/qualifier"
	"github.com/opmodel/resengine/internal/resolver"
	"github.com/opmodel/resengine/internal/restype"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBuilder(t *testing.T) *builder.Builder {
	t.Helper()
	qt := qualifier.NewTypeRegistry()
	_, err := qt.Register(qualifier.NewTerritoryType(true))
	require.NoError(t, err)
	_, err = qt.Register(qualifier.NewLanguageType())
	require.NoError(t, err)

	q := qualifier.NewRegistry(qt)
	_, err = q.Add(qualifier.Qualifier{Name: "home", TypeName: "territory", DefaultPriority: 600, TokenIsOptional: true})
	require.NoError(t, err)
	_, err = q.Add(qualifier.Qualifier{Name: "lang", TypeName: "language", DefaultPriority: 500})
	require.NoError(t, err)

	rt := restype.NewRegistry()
	_, err = rt.Register(restype.NewJSONType("json", ""))
	require.NoError(t, err)

	return builder.New(qt, q, rt)
}

// Scenario 1: candidate matching the context wins.
func TestResolveScenarioOneExactMatch(t *testing.T) {
	b := newBuilder(t)
	require.NoError(t, b.AddResource(builder.ResourceDecl{
		ID:               "welcome",
		ResourceTypeName: "json",
		Candidates: []builder.CandidateDecl{
			{Conditions: []builder.ConditionDecl{{Qualifier: "home", Value: "US"}}, Value: "Hi"},
			{Conditions: []builder.ConditionDecl{{Qualifier: "home", Value: "CA"}}, Value: "Bonjour-eh"},
			{Value: "Hello"},
		},
	}))
	mgr, err := b.Compile()
	require.NoError(t, err)

	res, err := resolver.New(mgr).Resolve("welcome", map[string]any{"home": "US"})
	require.NoError(t, err)
	assert.Equal(t, "Hi", res.Value)
}

// Scenario 2: no conditional match falls through to the unconditional set.
func TestResolveScenarioTwoFallsThroughToUnconditional(t *testing.T) {
	b := newBuilder(t)
	require.NoError(t, b.AddResource(builder.ResourceDecl{
		ID:               "welcome",
		ResourceTypeName: "json",
		Candidates: []builder.CandidateDecl{
			{Conditions: []builder.ConditionDecl{{Qualifier: "home", Value: "US"}}, Value: "Hi"},
			{Conditions: []builder.ConditionDecl{{Qualifier: "home", Value: "CA"}}, Value: "Bonjour-eh"},
			{Value: "Hello"},
		},
	}))
	mgr, err := b.Compile()
	require.NoError(t, err)

	res, err := resolver.New(mgr).Resolve("welcome", map[string]any{"home": "MX"})
	require.NoError(t, err)
	assert.Equal(t, "Hello", res.Value)
	assert.Equal(t, resolver.UnconditionalScore, res.Score)
}

// Scenario 3: partial candidates compose via augment merge, applied from
// lowest to highest scoring contributor onto the first non-partial base.
func TestResolveScenarioThreePartialComposition(t *testing.T) {
	b := newBuilder(t)
	require.NoError(t, b.AddResource(builder.ResourceDecl{
		ID:               "config",
		ResourceTypeName: "json",
		Candidates: []builder.CandidateDecl{
			{
				Conditions:  []builder.ConditionDecl{{Qualifier: "lang", Value: "en-US"}},
				Value:       map[string]any{"a": 1.0},
				IsPartial:   true,
				MergeMethod: restype.MergeAugment,
			},
			{
				Conditions:  []builder.ConditionDecl{{Qualifier: "lang", Value: "en"}},
				Value:       map[string]any{"a": 0.0, "b": 2.0},
				IsPartial:   true,
				MergeMethod: restype.MergeAugment,
			},
			{
				Value:       map[string]any{"c": 3.0},
				IsPartial:   false,
				MergeMethod: restype.MergeAugment,
			},
		},
	}))
	mgr, err := b.Compile()
	require.NoError(t, err)

	res, err := resolver.New(mgr).Resolve("config", map[string]any{"lang": "en-US"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1.0, "b": 2.0, "c": 3.0}, res.Value)
}

func TestResolveNotFound(t *testing.T) {
	b := newBuilder(t)
	mgr, err := b.Compile()
	require.NoError(t, err)

	_, err = resolver.New(mgr).Resolve("missing", nil)
	assert.Error(t, err)
}

func TestResolveNoMatchingCandidate(t *testing.T) {
	b := newBuilder(t)
	require.NoError(t, b.AddResource(builder.ResourceDecl{
		ID:               "welcome",
		ResourceTypeName: "json",
		Candidates: []builder.CandidateDecl{
			{Conditions: []builder.ConditionDecl{{Qualifier: "home", Value: "US"}}, Value: "Hi"},
		},
	}))
	mgr, err := b.Compile()
	require.NoError(t, err)

	_, err = resolver.New(mgr).Resolve("welcome", map[string]any{"home": "MX"})
	assert.Error(t, err)
}

func TestResolveTiesBreakOnDecisionPosition(t *testing.T) {
	b := newBuilder(t)
	require.NoError(t, b.AddResource(builder.ResourceDecl{
		ID:               "welcome",
		ResourceTypeName: "json",
		Candidates: []builder.CandidateDecl{
			{Conditions: []builder.ConditionDecl{{Qualifier: "home", Value: "US"}}, Value: "first"},
			{Conditions: []builder.ConditionDecl{{Qualifier: "home", Value: "US", Priority: 600}}, Value: "second"},
		},
	}))
	mgr, err := b.Compile()
	require.NoError(t, err)

	res, err := resolver.New(mgr).Resolve("welcome", map[string]any{"home": "US"})
	require.NoError(t, err)
	assert.Equal(t, "first", res.Value)
}

func TestResolveIgnoresUnknownContextQualifier(t *testing.T) {
	b := newBuilder(t)
	require.NoError(t, b.AddResource(builder.ResourceDecl{
		ID:               "welcome",
		ResourceTypeName: "json",
		Candidates:       []builder.CandidateDecl{{Value: "Hello"}},
	}))
	mgr, err := b.Compile()
	require.NoError(t, err)

	res, err := resolver.New(mgr).Resolve("welcome", map[string]any{"nope": "anything"})
	require.NoError(t, err)
	assert.Equal(t, "Hello", res.Value)
}

func TestResolveRecordsMetrics(t *testing.T) {
	b := newBuilder(t)
	require.NoError(t, b.AddResource(builder.ResourceDecl{
		ID:               "welcome",
		ResourceTypeName: "json",
		Candidates:       []builder.CandidateDecl{{Value: "Hello"}},
	}))
	mgr, err := b.Compile()
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	m := resolver.NewMetrics(reg)
	res := resolver.New(mgr).WithMetrics(m)

	_, err = res.Resolve("welcome", nil)
	require.NoError(t, err)
	_, err = res.Resolve("missing", nil)
	assert.Error(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)

	var sawTotal bool
	for _, f := range families {
		if f.GetName() == "resengine_resolve_total" {
			sawTotal = true
			assert.Len(t, f.GetMetric(), 2) // "ok" and "error" outcomes
		}
	}
	assert.True(t, sawTotal, "expected resengine_resolve_total to be registered and populated")
}
