package importer_test

import (
	"testing"
	"testing/fstest"

	"github.com/opmodel/resengine/internal/importer"
	"github.com/opmodel/resengine/internal/qualifier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRegistry(t *testing.T) *qualifier.Registry {
	t.Helper()
	types := qualifier.NewTypeRegistry()
	_, err := types.Register(qualifier.NewTerritoryType(true))
	require.NoError(t, err)
	_, err = types.Register(qualifier.NewLanguageType())
	require.NoError(t, err)

	reg := qualifier.NewRegistry(types)
	_, err = reg.Add(qualifier.Qualifier{Name: "home", TypeName: "territory", DefaultPriority: 600, TokenIsOptional: true})
	require.NoError(t, err)
	_, err = reg.Add(qualifier.Qualifier{Name: "language", TypeName: "language", DefaultPriority: 500})
	require.NoError(t, err)
	return reg
}

// TestImporterScenarioSix reproduces the spec's end-to-end import scenario:
// three files under a home/language qualifier set should yield three
// importables with their conditions correctly split between directory-level
// context and file-local conditions.
func TestImporterScenarioSix(t *testing.T) {
	reg := setupRegistry(t)

	fsys := fstest.MapFS{
		"home=CA/resources.json":               {Data: []byte(`{"msg":"bonjour"}`)},
		"home=CA,language=fr/resources.json":    {Data: []byte(`{"msg":"bonjour-eh"}`)},
		"resources.home=MX.json":                {Data: []byte(`{"msg":"hola"}`)},
	}

	imp := importer.New(fsys, reg)
	items, err := imp.Import()
	require.NoError(t, err)
	require.Len(t, items, 3)

	var sawPlainCA, sawCAFr, sawBasenameMX bool
	for _, it := range items {
		assert.Equal(t, "fsItem", it.Type)
		assert.Equal(t, "resources", it.Item.BaseName)
		assert.Equal(t, "json", it.Item.ResourceTypeName)

		switch {
		case len(it.Context) == 1 && it.Context[0].Value == "CA" && len(it.Item.Conditions) == 0:
			sawPlainCA = true
		case len(it.Context) == 2:
			sawCAFr = true
		case len(it.Context) == 0 && len(it.Item.Conditions) == 1 && it.Item.Conditions[0].Value == "MX":
			sawBasenameMX = true
		}
	}

	assert.True(t, sawPlainCA, "expected a plain home=CA directory condition")
	assert.True(t, sawCAFr, "expected a home=CA,language=fr directory condition set")
	assert.True(t, sawBasenameMX, "expected a basename-encoded home=MX condition")
}

func TestImporterParsesYAMLAsJSONResourceType(t *testing.T) {
	reg := setupRegistry(t)
	fsys := fstest.MapFS{
		"resources.yaml": {Data: []byte("msg: howdy\ncount: 2\n")},
	}

	imp := importer.New(fsys, reg)
	items, err := imp.Import()
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.Equal(t, "json", items[0].Item.ResourceTypeName)
	assert.False(t, items[0].Item.Processed)
	decoded, ok := items[0].Item.Item.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "howdy", decoded["msg"])
}

func TestImporterIgnoreFileTypes(t *testing.T) {
	reg := setupRegistry(t)
	fsys := fstest.MapFS{
		"notes.txt": {Data: []byte("ignore me")},
	}

	imp := importer.New(fsys, reg, "txt")
	items, err := imp.Import()
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestImporterUnknownExtensionBecomesBlob(t *testing.T) {
	reg := setupRegistry(t)
	fsys := fstest.MapFS{
		"icon.png": {Data: []byte{0x89, 0x50, 0x4e, 0x47}},
	}

	imp := importer.New(fsys, reg)
	items, err := imp.Import()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "blob", items[0].Item.ResourceTypeName)
	assert.True(t, items[0].Item.Processed)
}

func TestImporterAmbiguousTerseToken(t *testing.T) {
	types := qualifier.NewTypeRegistry()
	_, _ = types.Register(qualifier.NewTerritoryType(true))
	reg := qualifier.NewRegistry(types)
	_, err := reg.Add(qualifier.Qualifier{Name: "home", TypeName: "territory", TokenIsOptional: true})
	require.NoError(t, err)
	_, err = reg.Add(qualifier.Qualifier{Name: "shipsTo", TypeName: "territory", TokenIsOptional: true})
	require.NoError(t, err)

	fsys := fstest.MapFS{"CA/resources.json": {Data: []byte(`{}`)}}
	imp := importer.New(fsys, reg)

	_, err = imp.Import()
	assert.Error(t, err)
}

func TestImporterUnknownQualifier(t *testing.T) {
	reg := setupRegistry(t)
	fsys := fstest.MapFS{"region=EU/resources.json": {Data: []byte(`{}`)}}
	imp := importer.New(fsys, reg)

	_, err := imp.Import()
	assert.Error(t, err)
}

func TestImporterLiteralDirSegmentsBecomePathPrefix(t *testing.T) {
	reg := setupRegistry(t)
	fsys := fstest.MapFS{
		"app/messages/home=CA/welcome.json": {Data: []byte(`{"msg":"hi"}`)},
	}

	imp := importer.New(fsys, reg)
	items, err := imp.Import()
	require.NoError(t, err)
	require.Len(t, items, 1)

	item := items[0].Item
	assert.Equal(t, []string{"app", "messages"}, item.PathPrefix)
	assert.Equal(t, "welcome", item.BaseName)
	require.Len(t, items[0].Context, 1)
	assert.Equal(t, "CA", items[0].Context[0].Value)
}
