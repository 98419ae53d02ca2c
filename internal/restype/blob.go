package restype

import (
	"bytes"
	"fmt"
)

// BlobType is the "blob" resource type: opaque bytes with no defined
// partial-composition semantics. Augment merges fail explicitly rather
// than silently behaving like replace.
type BlobType struct {
	TypeName string
}

// NewBlobType constructs a blob resource type.
func NewBlobType(name string) *BlobType { return &BlobType{TypeName: name} }

func (t *BlobType) Name() string { return t.TypeName }
func (t *BlobType) Kind() Kind   { return KindBlob }
func (t *BlobType) Empty() any   { return []byte{} }

func (t *BlobType) Validate(value any) error {
	if _, ok := value.([]byte); !ok {
		return fmt.Errorf("blob resource type expects []byte, got %T", value)
	}
	return nil
}

func (t *BlobType) Merge(base, overlay any, method MergeMethod) (any, error) {
	if method == MergeAugment {
		return nil, ErrPartialBlobUnsupported
	}
	return overlay, nil
}

func (t *BlobType) Describe() map[string]any {
	return map[string]any{"kind": "blob"}
}

func (t *BlobType) Equal(a, b any) bool {
	ab, aok := a.([]byte)
	bb, bok := b.([]byte)
	if !aok || !bok {
		return false
	}
	return bytes.Equal(ab, bb)
}
