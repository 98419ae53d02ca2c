package bundle_test

import (
	"testing"

	"github.com/opmodel/resengine/internal/builder"
	"github.com/opmodel/resengine/internal/bundle"
	rerrors "github.com/opmodel/resengine/internal/errors"
	"github.com/opmodel/resengine/internal/qualifier"
	"github.com/opmodel/resengine/internal/restree"
	"github.com/opmodel/resengine/internal/restype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compiledTestManager(t *testing.T) (*builder.ResourceManager, *qualifier.TypeRegistry, *restype.Registry) {
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

	b := builder.New(qt, q, rt)
	require.NoError(t, b.AddResource(builder.ResourceDecl{
		ID:               "app.welcome",
		ResourceTypeName: "json",
		Candidates: []builder.CandidateDecl{
			{Conditions: []builder.ConditionDecl{{Qualifier: "home", Value: "US"}}, Value: map[string]any{"text": "Hi"}},
			{Value: map[string]any{"text": "Hello"}},
		},
	}))

	mgr, err := b.Compile()
	require.NoError(t, err)
	return mgr, qt, rt
}

func TestBuildAndLoadRoundTrip(t *testing.T) {
	mgr, qt, rt := compiledTestManager(t)

	bd, err := bundle.Build(mgr, bundle.CRC32Normaliser{}, "1.0.0", "test bundle")
	require.NoError(t, err)
	assert.Len(t, bd.Metadata.Checksum, 8)
	assert.NotEmpty(t, bd.CompiledCollection.Resources)

	loaded, err := bundle.Load(bd, qt, rt, bundle.LoadOptions{})
	require.NoError(t, err)

	id, err := restree.ParseResourceId("app.welcome")
	require.NoError(t, err)
	res, err := loaded.Tree.GetResource(id)
	require.NoError(t, err)
	assert.Len(t, res.Candidates, 2)
}

func TestBuildDeterministicChecksum(t *testing.T) {
	mgr1, _, _ := compiledTestManager(t)
	mgr2, _, _ := compiledTestManager(t)

	b1, err := bundle.Build(mgr1, bundle.CRC32Normaliser{}, "", "")
	require.NoError(t, err)
	b2, err := bundle.Build(mgr2, bundle.CRC32Normaliser{}, "", "")
	require.NoError(t, err)

	assert.Equal(t, b1.Metadata.Checksum, b2.Metadata.Checksum)
}

func TestVerifyDetectsTamperedCollection(t *testing.T) {
	mgr, _, _ := compiledTestManager(t)
	bd, err := bundle.Build(mgr, bundle.MD5Normaliser{}, "", "")
	require.NoError(t, err)

	bd.CompiledCollection.Resources[0].ID = "app.tampered"
	err = bundle.Verify(bd)
	assert.ErrorIs(t, err, rerrors.ErrIntegrityVerificationFailed)
}

func TestLoadSkipsVerificationWhenRequested(t *testing.T) {
	mgr, qt, rt := compiledTestManager(t)
	bd, err := bundle.Build(mgr, bundle.CRC32Normaliser{}, "", "")
	require.NoError(t, err)

	bd.Metadata.Checksum = "deadbeef"
	_, err = bundle.Load(bd, qt, rt, bundle.LoadOptions{SkipChecksumVerification: true})
	assert.NoError(t, err)
}
