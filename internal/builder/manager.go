package builder

import (
	"github.com/opmodel/resengine/internal/intern"
	"github.com/opmodel/resengine/internal/qualifier"
	"github.com/opmodel/resengine/internal/restree"
	"github.com/opmodel/resengine/internal/restype"
)

// ResourceManager is the frozen, read-only result of Builder.Compile (or
// of loading a Bundle). Once constructed its fields are never mutated, so
// it is safe for any number of concurrent readers without locks — the
// resolver only ever reads through it.
type ResourceManager struct {
	QualifierTypes *qualifier.TypeRegistry
	Qualifiers     *qualifier.Registry
	ResourceTypes  *restype.Registry
	Conditions     *intern.ConditionInterner
	ConditionSets  *intern.ConditionSetInterner
	Decisions      *intern.DecisionInterner
	Tree           *restree.Tree
}
