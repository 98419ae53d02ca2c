// Package restype implements the ResourceType registry: resource payload
// kinds (JSON object, opaque blob) and the merge operation used to compose
// partial candidates.
package restype

import rerrors "github.com/opmodel/resengine/internal/errors"

// Kind is a resource payload kind.
type Kind string

const (
	KindJSON Kind = "json"
	KindBlob Kind = "blob"
)

// MergeMethod selects how a partial candidate composes onto a base value.
type MergeMethod string

const (
	MergeReplace MergeMethod = "replace"
	MergeAugment MergeMethod = "augment"
)

// ErrPartialBlobUnsupported is returned when an augment merge is attempted
// on the blob resource type. Partial composition of opaque bytes has no
// defined meaning, so the blob type only supports wholesale replacement;
// this is recorded as an explicit open decision rather than a silent
// fallback to replace semantics.
var ErrPartialBlobUnsupported = rerrors.New(rerrors.ErrInvalidValue, "InvalidValue",
	"blob resource type does not support augment merge; only replace is defined")

// ResourceType describes a payload kind and how to compose partial
// candidates of that kind.
type ResourceType interface {
	Name() string
	Kind() Kind

	// Validate reports whether value is an acceptable payload for this
	// resource type (e.g. against an optional schema constraint).
	Validate(value any) error

	// Merge composes overlay onto base according to method, returning the
	// composed value.
	Merge(base, overlay any, method MergeMethod) (any, error)

	// Equal reports whether two values of this type are equivalent.
	// Candidate payloads are stored per resource as given; no interner
	// calls Equal to deduplicate them.
	Equal(a, b any) bool

	// Empty returns the resource-type-defined empty value used as the
	// base when no non-partial candidate contributes to a composition.
	Empty() any

	// Describe returns a JSON-serialisable declaration of this resource
	// type's configuration, used to populate a bundle's
	// config.resourceTypes section.
	Describe() map[string]any
}
