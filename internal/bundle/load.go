package bundle

import (
	"encoding/json"
	"fmt"

	"github.com/opmodel/resengine/internal/builder"
	rerrors "github.com/opmodel/resengine/internal/errors"
	"github.com/opmodel/resengine/internal/handle"
	"github.com/opmodel/resengine/internal/intern"
	"github.com/opmodel/resengine/internal/qualifier"
	"github.com/opmodel/resengine/internal/restree"
	"github.com/opmodel/resengine/internal/restype"
)

// LoadOptions controls how Load verifies and reconstructs a Bundle.
type LoadOptions struct {
	// SkipChecksumVerification bypasses the integrity check, for callers
	// inspecting a bundle they don't intend to resolve against (e.g. a
	// diff or inspect command working with a possibly-edited file).
	SkipChecksumVerification bool
}

// Load reconstructs a frozen ResourceManager from b, verifying its checksum
// unless opts.SkipChecksumVerification is set. qualifierTypes and
// resourceTypes must already have every type named in b.Config registered —
// scoring and merge behavior is Go code and cannot be deserialised from the
// bundle itself.
func Load(b *Bundle, qualifierTypes *qualifier.TypeRegistry, resourceTypes *restype.Registry, opts LoadOptions) (*builder.ResourceManager, error) {
	if !opts.SkipChecksumVerification {
		if err := Verify(b); err != nil {
			return nil, err
		}
	}

	qualifiers := qualifier.NewRegistry(qualifierTypes)
	for _, q := range b.Config.Qualifiers {
		if _, err := qualifiers.Add(q); err != nil {
			return nil, fmt.Errorf("reconstructing qualifier %q: %w", q.Name, err)
		}
	}

	conditions := intern.NewConditionInterner()
	for _, cr := range b.CompiledCollection.Conditions {
		q, ok := qualifiers.ByHandle(handle.QualifierHandle(cr.Qualifier))
		if !ok {
			return nil, rerrors.New(rerrors.ErrInvalidValue, "InvalidValue",
				fmt.Sprintf("condition references unknown qualifier index %d", cr.Qualifier))
		}
		conditions.Intern(intern.Condition{
			Qualifier:     handle.QualifierHandle(cr.Qualifier),
			QualifierName: q.Name,
			Operator:      cr.Operator,
			Value:         cr.Value,
			Priority:      cr.Priority,
		})
	}

	conditionSets := intern.NewConditionSetInterner(conditions)
	for i, members := range b.CompiledCollection.ConditionSets {
		if i == 0 {
			continue // handle 0 is pre-seeded as the unconditional set
		}
		handles := make([]handle.ConditionHandle, len(members))
		for j, m := range members {
			handles[j] = handle.ConditionHandle(m)
		}
		if _, err := conditionSets.Intern(handles); err != nil {
			return nil, fmt.Errorf("reconstructing condition set %d: %w", i, err)
		}
	}

	decisions := intern.NewDecisionInterner()
	for i, sets := range b.CompiledCollection.Decisions {
		handles := make([]handle.ConditionSetHandle, len(sets))
		for j, s := range sets {
			handles[j] = handle.ConditionSetHandle(s)
		}
		if _, err := decisions.Intern(handles); err != nil {
			return nil, fmt.Errorf("reconstructing decision %d: %w", i, err)
		}
	}

	tree := restree.New()
	for _, rr := range b.CompiledCollection.Resources {
		id, err := restree.ParseResourceId(rr.ID)
		if err != nil {
			return nil, err
		}
		candidates := make([]restree.Candidate, len(rr.Candidates))
		for i, cr := range rr.Candidates {
			candidates[i] = restree.Candidate{
				Value:       cr.Value,
				IsPartial:   cr.IsPartial,
				MergeMethod: restype.MergeMethod(cr.MergeMethod),
			}
		}
		res := restree.Resource{
			ID:           id,
			ResourceType: handle.ResourceTypeHandle(rr.ResourceType),
			Decision:     handle.DecisionHandle(rr.Decision),
			Candidates:   candidates,
		}
		if err := tree.Insert(id, res); err != nil {
			return nil, rerrors.Wrap(rr.ID, err)
		}
	}

	return &builder.ResourceManager{
		QualifierTypes: qualifierTypes,
		Qualifiers:     qualifiers,
		ResourceTypes:  resourceTypes,
		Conditions:     conditions,
		ConditionSets:  conditionSets,
		Decisions:      decisions,
		Tree:           tree,
	}, nil
}

// Verify recomputes b's checksum from its compiled collection and compares
// it against the recorded one, choosing a normaliser by the checksum's hex
// length.
func Verify(b *Bundle) error {
	normaliser, err := normaliserForChecksum(b.Metadata.Checksum)
	if err != nil {
		return err
	}

	canonical, err := json.Marshal(b.CompiledCollection)
	if err != nil {
		return fmt.Errorf("marshalling compiled collection: %w", err)
	}

	recomputed := normaliser.ComputeHash(canonical)
	if recomputed != b.Metadata.Checksum {
		return rerrors.NewWithContext(rerrors.ErrIntegrityVerificationFailed, "IntegrityVerificationFailed",
			"bundle checksum does not match its compiled collection",
			map[string]string{"expected": b.Metadata.Checksum, "actual": recomputed})
	}
	return nil
}
