package restype_test

import (
	"testing"

	"github.com/opmodel/resengine/internal/restype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONTypeAugmentMerge(t *testing.T) {
	jt := restype.NewJSONType("json", "")

	base := map[string]any{"a": 1.0, "b": 2.0}
	overlay := map[string]any{"a": 0.0, "c": 3.0}

	merged, err := jt.Merge(base, overlay, restype.MergeAugment)
	require.NoError(t, err)

	m := merged.(map[string]any)
	assert.Equal(t, 0.0, m["a"])
	assert.Equal(t, 2.0, m["b"])
	assert.Equal(t, 3.0, m["c"])
}

func TestJSONTypeReplaceMerge(t *testing.T) {
	jt := restype.NewJSONType("json", "")

	base := map[string]any{"a": 1.0}
	overlay := map[string]any{"b": 2.0}

	merged, err := jt.Merge(base, overlay, restype.MergeReplace)
	require.NoError(t, err)
	assert.Equal(t, overlay, merged)
}

func TestJSONTypeAugmentNestedObjects(t *testing.T) {
	jt := restype.NewJSONType("json", "")

	base := map[string]any{"nested": map[string]any{"x": 1.0, "y": 2.0}}
	overlay := map[string]any{"nested": map[string]any{"y": 20.0, "z": 3.0}}

	merged, err := jt.Merge(base, overlay, restype.MergeAugment)
	require.NoError(t, err)

	nested := merged.(map[string]any)["nested"].(map[string]any)
	assert.Equal(t, 1.0, nested["x"])
	assert.Equal(t, 20.0, nested["y"])
	assert.Equal(t, 3.0, nested["z"])
}

func TestJSONTypeAugmentReplacesArraysAtomically(t *testing.T) {
	jt := restype.NewJSONType("json", "")

	base := map[string]any{"list": []any{1.0, 2.0, 3.0}}
	overlay := map[string]any{"list": []any{9.0}}

	merged, err := jt.Merge(base, overlay, restype.MergeAugment)
	require.NoError(t, err)
	assert.Equal(t, []any{9.0}, merged.(map[string]any)["list"])
}

func TestJSONTypeValidateWithConstraint(t *testing.T) {
	jt := restype.NewJSONType("json", "{price: >0}")

	assert.NoError(t, jt.Validate(map[string]any{"price": 5.0}))
	assert.Error(t, jt.Validate(map[string]any{"price": -1.0}))
}

func TestBlobTypeRejectsAugment(t *testing.T) {
	bt := restype.NewBlobType("blob")

	_, err := bt.Merge([]byte("a"), []byte("b"), restype.MergeAugment)
	assert.ErrorIs(t, err, restype.ErrPartialBlobUnsupported)
}

func TestBlobTypeReplace(t *testing.T) {
	bt := restype.NewBlobType("blob")

	merged, err := bt.Merge([]byte("a"), []byte("b"), restype.MergeReplace)
	require.NoError(t, err)
	assert.Equal(t, []byte("b"), merged)
}

func TestRegistryDuplicateName(t *testing.T) {
	reg := restype.NewRegistry()
	_, err := reg.Register(restype.NewJSONType("json", ""))
	require.NoError(t, err)

	_, err = reg.Register(restype.NewJSONType("json", ""))
	assert.Error(t, err)
}

func TestRegistryGetUnknown(t *testing.T) {
	reg := restype.NewRegistry()
	_, _, err := reg.Get("missing")
	assert.Error(t, err)
}
