// Package restree implements the ResourceTree: a hierarchical namespace of
// resources keyed by dotted path, stored as an arena of nodes addressed by
// integer handle so that parent/child references never need pointers that
// would complicate serialisation.
package restree

import (
	"fmt"
	"regexp"
	"strings"

	rerrors "github.com/opmodel/resengine/internal/errors"
)

var componentRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)

// ResourceId is a dotted path split into validated components.
type ResourceId struct {
	Components []string
}

// String renders the id back to its dotted form.
func (id ResourceId) String() string {
	return strings.Join(id.Components, ".")
}

// ParseResourceId validates and splits a dotted resource path. This is the
// runtime's validating view: callers holding a raw string must go through
// here before descending into the tree with the internal ResourceId view.
func ParseResourceId(s string) (ResourceId, error) {
	if s == "" {
		return ResourceId{}, rerrors.NewAt(rerrors.ErrInvalidValue, "InvalidValue", s,
			"resource id must not be empty")
	}
	parts := strings.Split(s, ".")
	for _, p := range parts {
		if !componentRe.MatchString(p) {
			return ResourceId{}, rerrors.NewAt(rerrors.ErrInvalidValue, "InvalidValue", s,
				fmt.Sprintf("resource id component %q must match [A-Za-z_][A-Za-z0-9_-]*", p))
		}
	}
	return ResourceId{Components: parts}, nil
}
