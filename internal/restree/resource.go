package restree

import (
	"github.com/opmodel/resengine/internal/handle"
	"github.com/opmodel/resengine/internal/restype"
)

// Candidate is one possible value of a resource, tied ordinally to the
// condition-set at the same position in the resource's decision.
type Candidate struct {
	Value       any
	IsPartial   bool
	MergeMethod restype.MergeMethod
}

// Resource is a named entity with a decision and a parallel list of
// candidates. len(Candidates) must equal the number of condition-sets in
// the referenced decision — enforced by the builder at addResource time.
type Resource struct {
	ID           ResourceId
	ResourceType handle.ResourceTypeHandle
	Decision     handle.DecisionHandle
	Candidates   []Candidate
}
