package importer_test

import (
	"testing"
	"testing/fstest"

	"github.com/opmodel/resengine/internal/builder"
	"github.com/opmodel/resengine/internal/importer"
	"github.com/opmodel/resengine/internal/qualifier"
	"github.com/opmodel/resengine/internal/restype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBuilderForBridge(t *testing.T, reg *qualifier.Registry) *builder.Builder {
	t.Helper()
	qt := qualifier.NewTypeRegistry()
	_, _ = qt.Register(qualifier.NewTerritoryType(true))
	_, _ = qt.Register(qualifier.NewLanguageType())

	rt := restype.NewRegistry()
	_, err := rt.Register(restype.NewJSONType("json", ""))
	require.NoError(t, err)

	return builder.New(qt, reg, rt)
}

// TestToResourceDeclsMergesCandidatesByID reproduces the spec's end-to-end
// scenario: three files sharing the same basename across different
// directory conditions should collapse into one resource with three
// candidates, not three separate resources.
func TestToResourceDeclsMergesCandidatesByID(t *testing.T) {
	reg := setupRegistry(t)

	fsys := fstest.MapFS{
		"home=CA/resources.json":            {Data: []byte(`{"msg":"bonjour"}`)},
		"home=CA,language=fr/resources.json": {Data: []byte(`{"msg":"bonjour-eh"}`)},
		"resources.home=MX.json":             {Data: []byte(`{"msg":"hola"}`)},
	}

	items, err := importer.New(fsys, reg).Import()
	require.NoError(t, err)

	decls, err := importer.ToResourceDecls(items)
	require.NoError(t, err)
	require.Len(t, decls, 1)

	decl := decls[0]
	assert.Equal(t, "resources", decl.ID)
	assert.Equal(t, "json", decl.ResourceTypeName)
	require.Len(t, decl.Candidates, 3)

	b := newTestBuilderForBridge(t, reg)
	require.NoError(t, b.AddResource(decl))
	assert.Equal(t, 1, b.NumResources())
	assert.Equal(t, 3, b.NumCandidates())
}

func TestToResourceDeclsJoinsLiteralPathPrefix(t *testing.T) {
	reg := setupRegistry(t)
	fsys := fstest.MapFS{
		"app/messages/welcome.json":          {Data: []byte(`{"msg":"hi"}`)},
		"app/messages/home=CA/welcome.json":  {Data: []byte(`{"msg":"bonjour"}`)},
	}

	items, err := importer.New(fsys, reg).Import()
	require.NoError(t, err)

	decls, err := importer.ToResourceDecls(items)
	require.NoError(t, err)
	require.Len(t, decls, 1)
	assert.Equal(t, "app.messages.welcome", decls[0].ID)
	assert.Len(t, decls[0].Candidates, 2)
}

func TestToResourceDeclsRejectsConflictingResourceType(t *testing.T) {
	reg := setupRegistry(t)
	fsys := fstest.MapFS{
		"widget.json": {Data: []byte(`{}`)},
	}
	items, err := importer.New(fsys, reg).Import()
	require.NoError(t, err)

	// Force a synthetic type conflict: same id, two different type names.
	items = append(items, items[0])
	items[1].Item.ResourceTypeName = "blob"

	_, err = importer.ToResourceDecls(items)
	assert.Error(t, err)
}
