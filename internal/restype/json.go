package restype

import (
	"reflect"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// JSONType is the "json" resource type: any JSON value, merged recursively
// under augment (overlay keys win, arrays replaced atomically, primitives
// replaced) or replaced wholesale under replace.
//
// A JSONType may optionally carry a CUE constraint expression used to
// validate candidate payloads before they are interned — the same
// compile-and-check flow the CLI has always used to validate layered
// config values, applied here to in-memory candidates instead of files.
// The merge itself is a plain recursive Go merge rather than cue.Unify:
// unification rejects two differing concrete scalars as a conflict, while
// the spec requires the overlay to win outright, so CUE is reserved for
// the validation surface where its constraint semantics are exactly what's
// wanted.
type JSONType struct {
	TypeName   string
	Constraint string // optional CUE expression; empty means unconstrained

	ctx *cue.Context
}

// NewJSONType constructs a json resource type, optionally constrained by a
// CUE expression (e.g. "{price: >0, currency: string}").
func NewJSONType(name, constraint string) *JSONType {
	return &JSONType{TypeName: name, Constraint: constraint, ctx: cuecontext.New()}
}

func (t *JSONType) Name() string { return t.TypeName }
func (t *JSONType) Kind() Kind   { return KindJSON }
func (t *JSONType) Empty() any   { return map[string]any{} }

// Validate checks value against the optional CUE constraint. A type with
// no constraint accepts anything.
func (t *JSONType) Validate(value any) error {
	if t.Constraint == "" {
		return nil
	}
	schema := t.ctx.CompileString(t.Constraint)
	if err := schema.Err(); err != nil {
		return err
	}
	v := t.ctx.Encode(value)
	unified := schema.Unify(v)
	return unified.Validate(cue.Concrete(false))
}

// Merge implements the spec's augment/replace semantics.
func (t *JSONType) Merge(base, overlay any, method MergeMethod) (any, error) {
	if method == MergeReplace {
		return overlay, nil
	}
	return mergeAugment(base, overlay), nil
}

// mergeAugment recursively merges overlay onto base: objects merge
// key-by-key with overlay winning on conflict; arrays and primitives are
// replaced atomically by overlay.
func mergeAugment(base, overlay any) any {
	baseObj, baseIsObj := base.(map[string]any)
	overlayObj, overlayIsObj := overlay.(map[string]any)

	if !baseIsObj || !overlayIsObj {
		// Arrays and primitives: overlay replaces base wholesale.
		return overlay
	}

	merged := make(map[string]any, len(baseObj)+len(overlayObj))
	for k, v := range baseObj {
		merged[k] = v
	}
	for k, ov := range overlayObj {
		if bv, exists := merged[k]; exists {
			merged[k] = mergeAugment(bv, ov)
		} else {
			merged[k] = ov
		}
	}
	return merged
}

// Equal performs a deep structural comparison of two json values.
func (t *JSONType) Equal(a, b any) bool {
	return reflect.DeepEqual(a, b)
}

func (t *JSONType) Describe() map[string]any {
	return map[string]any{"kind": "json", "constraint": t.Constraint}
}
