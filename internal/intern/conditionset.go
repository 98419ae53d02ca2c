package intern

import (
	"sort"
	"strings"

	rerrors "github.com/opmodel/resengine/internal/errors"
	"github.com/opmodel/resengine/internal/handle"
)

// ConditionSetInterner deduplicates sets of conditions, with at most one
// condition per qualifier. Handle 0 is always reserved for the
// unconditional (empty) set, created at construction time.
type ConditionSetInterner struct {
	conditions *ConditionInterner

	byHandle [][]handle.ConditionHandle
	byKey    map[string]handle.ConditionSetHandle
}

// NewConditionSetInterner constructs a condition-set interner bound to a
// condition interner, with the unconditional set pre-created at handle 0.
func NewConditionSetInterner(conditions *ConditionInterner) *ConditionSetInterner {
	csi := &ConditionSetInterner{
		conditions: conditions,
		byKey:      make(map[string]handle.ConditionSetHandle),
	}
	csi.byHandle = append(csi.byHandle, nil) // handle 0: unconditional
	csi.byKey[""] = handle.UnconditionalSet
	return csi
}

// canonicalKey sorts condition handles by qualifier name and joins their
// condition keys with ",".
func (csi *ConditionSetInterner) canonicalKey(members []handle.ConditionHandle) (string, error) {
	type entry struct {
		qualifierName string
		key           string
	}
	entries := make([]entry, 0, len(members))
	seen := make(map[handle.QualifierHandle]bool, len(members))

	for _, h := range members {
		c, err := csi.conditions.Get(h)
		if err != nil {
			return "", err
		}
		if seen[c.Qualifier] {
			return "", rerrors.NewAt(rerrors.ErrDuplicateQualifier, "DuplicateQualifier", c.QualifierName,
				"condition set may contain at most one condition per qualifier")
		}
		seen[c.Qualifier] = true
		entries = append(entries, entry{qualifierName: c.QualifierName, key: c.key()})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].qualifierName < entries[j].qualifierName })

	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.key
	}
	return strings.Join(keys, ","), nil
}

// Intern returns the handle for the set of conditions named by members,
// reusing an existing handle for an equal canonical key. An empty members
// slice always returns handle.UnconditionalSet.
func (csi *ConditionSetInterner) Intern(members []handle.ConditionHandle) (handle.ConditionSetHandle, error) {
	if len(members) == 0 {
		return handle.UnconditionalSet, nil
	}

	sorted := append([]handle.ConditionHandle(nil), members...)
	key, err := csi.canonicalKey(sorted)
	if err != nil {
		return handle.Invalid, err
	}
	if h, ok := csi.byKey[key]; ok {
		return h, nil
	}

	sort.Slice(sorted, func(i, j int) bool {
		ci, _ := csi.conditions.Get(sorted[i])
		cj, _ := csi.conditions.Get(sorted[j])
		return ci.QualifierName < cj.QualifierName
	})

	h := handle.ConditionSetHandle(len(csi.byHandle))
	csi.byHandle = append(csi.byHandle, sorted)
	csi.byKey[key] = h
	return h, nil
}

// Members returns the sorted condition handles for h.
func (csi *ConditionSetInterner) Members(h handle.ConditionSetHandle) ([]handle.ConditionHandle, error) {
	if int(h) < 0 || int(h) >= len(csi.byHandle) {
		return nil, rerrors.New(rerrors.ErrNotFound, "NotFound", "condition set handle out of range")
	}
	return csi.byHandle[h], nil
}

// IsUnconditional reports whether h is the reserved empty set.
func (csi *ConditionSetInterner) IsUnconditional(h handle.ConditionSetHandle) bool {
	return h == handle.UnconditionalSet
}

// Len returns the number of interned condition sets, including the
// reserved unconditional set.
func (csi *ConditionSetInterner) Len() int { return len(csi.byHandle) }

// All returns every interned set's members in handle order.
func (csi *ConditionSetInterner) All() [][]handle.ConditionHandle { return csi.byHandle }
