package builder_test

import (
	"testing"

	"github.com/opmodel/resengine/internal/builder"
	"github.com/opmodel/resengine/internal/qualifier"
	"github.com/opmodel/resengine/internal/restype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBuilder(t *testing.T) *builder.Builder {
	t.Helper()
	qt := qualifier.NewTypeRegistry()
	_, err := qt.Register(qualifier.NewTerritoryType(true))
	require.NoError(t, err)

	q := qualifier.NewRegistry(qt)
	_, err = q.Add(qualifier.Qualifier{Name: "home", TypeName: "territory", DefaultPriority: 600, TokenIsOptional: true})
	require.NoError(t, err)

	rt := restype.NewRegistry()
	_, err = rt.Register(restype.NewJSONType("json", ""))
	require.NoError(t, err)

	return builder.New(qt, q, rt)
}

func TestAddResourceAndCompile(t *testing.T) {
	b := newTestBuilder(t)

	err := b.AddResource(builder.ResourceDecl{
		ID:               "app.welcome",
		ResourceTypeName: "json",
		Candidates: []builder.CandidateDecl{
			{Conditions: []builder.ConditionDecl{{Qualifier: "home", Value: "US"}}, Value: "Hi"},
			{Value: "Hello"}, // unconditional
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, b.NumResources())
	assert.Equal(t, 2, b.NumCandidates())

	mgr, err := b.Compile()
	require.NoError(t, err)
	require.NotNil(t, mgr)
}

func TestAddResourceMismatchedResourceType(t *testing.T) {
	b := newTestBuilder(t)

	err := b.AddResource(builder.ResourceDecl{
		ID:               "app.welcome",
		ResourceTypeName: "missing",
		Candidates:       []builder.CandidateDecl{{Value: "Hi"}},
	})
	assert.Error(t, err)
}

func TestAddResourceDuplicateQualifierInCandidate(t *testing.T) {
	b := newTestBuilder(t)

	err := b.AddResource(builder.ResourceDecl{
		ID:               "app.welcome",
		ResourceTypeName: "json",
		Candidates: []builder.CandidateDecl{
			{
				Conditions: []builder.ConditionDecl{
					{Qualifier: "home", Value: "US"},
					{Qualifier: "home", Value: "CA"},
				},
				Value: "Hi",
			},
		},
	})
	assert.Error(t, err)
}

func TestValidateContextRejectsUnknownQualifier(t *testing.T) {
	b := newTestBuilder(t)
	err := b.ValidateContext(map[string]any{"nope": "value"})
	assert.Error(t, err)
}

func TestValidateContextAcceptsKnownQualifier(t *testing.T) {
	b := newTestBuilder(t)
	err := b.ValidateContext(map[string]any{"home": "US"})
	assert.NoError(t, err)
}

func TestPathConflictPropagatesFromTree(t *testing.T) {
	b := newTestBuilder(t)
	require.NoError(t, b.AddResource(builder.ResourceDecl{
		ID: "app.messages.welcome", ResourceTypeName: "json",
		Candidates: []builder.CandidateDecl{{Value: "Hi"}},
	}))

	err := b.AddResource(builder.ResourceDecl{
		ID: "app.messages", ResourceTypeName: "json",
		Candidates: []builder.CandidateDecl{{Value: "x"}},
	})
	assert.Error(t, err)
}
