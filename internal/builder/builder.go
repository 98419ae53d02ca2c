// Package builder implements the ResourceManagerBuilder: the crossroads
// that validates qualifier types, interns conditions/condition-sets/
// decisions, assembles resources into the tree, and freezes the result
// into a ResourceManager ready for bundling or direct resolution.
//
// Builder is not safe for concurrent use; it is meant for exactly one
// writer assembling a collection before handing the frozen ResourceManager
// to readers.
package builder

import (
	"fmt"

	rerrors "github.com/opmodel/resengine/internal/errors"
	"github.com/opmodel/resengine/internal/handle"
	"github.com/opmodel/resengine/internal/intern"
	"github.com/opmodel/resengine/internal/qualifier"
	"github.com/opmodel/resengine/internal/restree"
	"github.com/opmodel/resengine/internal/restype"
)

// ConditionDecl is one raw condition as authored: a qualifier name or
// token, a raw (not yet canonicalized) value, and an optional priority
// override (0 means "use the qualifier's default priority").
type ConditionDecl struct {
	Qualifier string
	Value     string
	Priority  int16
}

// CandidateDecl is one raw candidate as authored, tied to the condition
// list that selects it.
type CandidateDecl struct {
	Conditions  []ConditionDecl
	Value       any
	IsPartial   bool
	MergeMethod restype.MergeMethod
}

// ResourceDecl is a full resource declaration as produced by an importer
// (after the caller has decided how to merge base context with file-local
// conditions) or authored directly by any other caller of the builder.
type ResourceDecl struct {
	ID               string
	ResourceTypeName string
	Candidates       []CandidateDecl
}

// Builder aggregates qualifier/resource-type registries and the
// interners/tree it owns, validating cross-references as resources are
// added.
type Builder struct {
	qualifierTypes *qualifier.TypeRegistry
	qualifiers     *qualifier.Registry
	resourceTypes  *restype.Registry

	conditions    *intern.ConditionInterner
	conditionSets *intern.ConditionSetInterner
	decisions     *intern.DecisionInterner
	tree          *restree.Tree

	numResources  int
	numCandidates int
}

// New constructs a Builder bound to already-populated qualifier and
// resource-type registries. Registries are typically built once by the
// embedding program and reused across many builds.
func New(qualifierTypes *qualifier.TypeRegistry, qualifiers *qualifier.Registry, resourceTypes *restype.Registry) *Builder {
	conditions := intern.NewConditionInterner()
	return &Builder{
		qualifierTypes: qualifierTypes,
		qualifiers:     qualifiers,
		resourceTypes:  resourceTypes,
		conditions:     conditions,
		conditionSets:  intern.NewConditionSetInterner(conditions),
		decisions:      intern.NewDecisionInterner(),
		tree:           restree.New(),
	}
}

// AddResource validates and interns decl, appending it to the resource
// tree. Failures are wrapped with the resource id being processed.
func (b *Builder) AddResource(decl ResourceDecl) error {
	id, err := restree.ParseResourceId(decl.ID)
	if err != nil {
		return rerrors.Wrap(decl.ID, err)
	}

	rt, rth, err := b.resourceTypes.Get(decl.ResourceTypeName)
	if err != nil {
		return rerrors.Wrap(decl.ID, err)
	}

	setHandles := make([]handle.ConditionSetHandle, 0, len(decl.Candidates))
	candidates := make([]restree.Candidate, 0, len(decl.Candidates))

	for _, cand := range decl.Candidates {
		setHandle, err := b.internConditionSet(cand.Conditions)
		if err != nil {
			return rerrors.Wrap(decl.ID, err)
		}
		setHandles = append(setHandles, setHandle)

		if err := rt.Validate(cand.Value); err != nil {
			return rerrors.Wrap(decl.ID, rerrors.New(rerrors.ErrInvalidValue, "InvalidValue", err.Error()))
		}
		candidates = append(candidates, restree.Candidate{
			Value:       cand.Value,
			IsPartial:   cand.IsPartial,
			MergeMethod: cand.MergeMethod,
		})
	}

	decisionHandle, err := b.decisions.Intern(setHandles)
	if err != nil {
		return rerrors.Wrap(decl.ID, err)
	}

	if len(candidates) != len(setHandles) {
		return rerrors.Wrap(decl.ID, rerrors.New(rerrors.ErrInvalidValue, "InvalidValue",
			"candidates length must equal decision's condition-set count"))
	}

	resource := restree.Resource{
		ID:           id,
		ResourceType: rth,
		Decision:     decisionHandle,
		Candidates:   candidates,
	}
	if err := b.tree.Insert(id, resource); err != nil {
		return rerrors.Wrap(decl.ID, err)
	}

	b.numResources++
	b.numCandidates += len(candidates)
	return nil
}

func (b *Builder) internConditionSet(conds []ConditionDecl) (handle.ConditionSetHandle, error) {
	if len(conds) == 0 {
		return handle.UnconditionalSet, nil
	}

	handles := make([]handle.ConditionHandle, 0, len(conds))
	for _, cd := range conds {
		qh, q, err := b.qualifiers.GetByNameOrToken(cd.Qualifier)
		if err != nil {
			return handle.Invalid, err
		}
		qtype, err := b.qualifiers.Type(q)
		if err != nil {
			return handle.Invalid, err
		}
		if err := qtype.Validate(cd.Value); err != nil {
			return handle.Invalid, rerrors.New(rerrors.ErrInvalidValue, "InvalidValue", err.Error())
		}

		priority := cd.Priority
		if priority == 0 {
			priority = q.DefaultPriority
		}

		h := b.conditions.Intern(intern.Condition{
			Qualifier:     qh,
			QualifierName: q.Name,
			Value:         qtype.Canonicalize(cd.Value),
			Priority:      priority,
		})
		handles = append(handles, h)
	}

	return b.conditionSets.Intern(handles)
}

// NumResources returns the number of resources added so far.
func (b *Builder) NumResources() int { return b.numResources }

// NumCandidates returns the total number of candidates across every
// resource added so far.
func (b *Builder) NumCandidates() int { return b.numCandidates }

// ValidateContext checks that every key in ctx names a known qualifier and
// every value validates against that qualifier's type. Unlike the
// resolver's own (lenient) context handling, this is a strict
// pre-flight check a caller can run before resolving.
func (b *Builder) ValidateContext(ctx map[string]any) error {
	for key, raw := range ctx {
		_, q, err := b.qualifiers.GetByName(key)
		if err != nil {
			return err
		}
		qtype, err := b.qualifiers.Type(q)
		if err != nil {
			return err
		}

		switch v := raw.(type) {
		case string:
			if err := qtype.Validate(v); err != nil {
				return rerrors.NewAt(rerrors.ErrInvalidContext, "InvalidContext", key, err.Error())
			}
		case []string:
			if !qtype.AllowContextList() {
				return rerrors.NewAt(rerrors.ErrInvalidContext, "InvalidContext", key,
					"qualifier type does not accept a list of context values")
			}
			for _, e := range v {
				if err := qtype.Validate(e); err != nil {
					return rerrors.NewAt(rerrors.ErrInvalidContext, "InvalidContext", key, err.Error())
				}
			}
		default:
			return rerrors.NewAt(rerrors.ErrInvalidContext, "InvalidContext", key,
				fmt.Sprintf("unsupported context value type %T", raw))
		}
	}
	return nil
}

// Compile returns a frozen ResourceManager over the builder's registries,
// interners and tree. Its only check is that the condition-set interner
// holds the unconditional set; it does not re-walk the added resources to
// check their handles, qualifiers or ids again. After Compile, the builder's interners and tree
// are handed over by reference; callers must not call AddResource again on
// this builder if they intend to keep using the returned manager, since
// manager is only safe for concurrent readers under the assumption that
// nothing mutates its backing interners further.
func (b *Builder) Compile() (*ResourceManager, error) {
	if b.conditionSets.Len() == 0 {
		return nil, rerrors.New(rerrors.ErrInvalidValue, "InvalidValue", "condition set interner missing the unconditional set")
	}

	return &ResourceManager{
		QualifierTypes: b.qualifierTypes,
		Qualifiers:     b.qualifiers,
		ResourceTypes:  b.resourceTypes,
		Conditions:     b.conditions,
		ConditionSets:  b.conditionSets,
		Decisions:      b.decisions,
		Tree:           b.tree,
	}, nil
}
