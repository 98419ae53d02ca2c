package intern

import (
	"fmt"
	"strings"

	rerrors "github.com/opmodel/resengine/internal/errors"
	"github.com/opmodel/resengine/internal/handle"
)

// DecisionInterner deduplicates ordered lists of condition-sets. Two
// decisions are equal iff their condition-set handle sequences are equal,
// so the canonical key is simply that sequence.
type DecisionInterner struct {
	byHandle [][]handle.ConditionSetHandle
	byKey    map[string]handle.DecisionHandle
}

// NewDecisionInterner constructs an empty decision interner.
func NewDecisionInterner() *DecisionInterner {
	return &DecisionInterner{byKey: make(map[string]handle.DecisionHandle)}
}

func decisionKey(sets []handle.ConditionSetHandle) string {
	parts := make([]string, len(sets))
	for i, s := range sets {
		parts[i] = fmt.Sprintf("%d", s)
	}
	return strings.Join(parts, ",")
}

// Intern returns the handle for the ordered list of condition-sets. A
// decision may contain the unconditional set at most once, and only as its
// last element.
func (di *DecisionInterner) Intern(sets []handle.ConditionSetHandle) (handle.DecisionHandle, error) {
	for i, s := range sets {
		if s == handle.UnconditionalSet && i != len(sets)-1 {
			return handle.Invalid, rerrors.New(rerrors.ErrInvalidValue, "InvalidValue",
				"the unconditional condition-set may only appear as the last element of a decision")
		}
	}

	key := decisionKey(sets)
	if h, ok := di.byKey[key]; ok {
		return h, nil
	}

	h := handle.DecisionHandle(len(di.byHandle))
	di.byHandle = append(di.byHandle, append([]handle.ConditionSetHandle(nil), sets...))
	di.byKey[key] = h
	return h, nil
}

// Get returns the ordered condition-set handles for h.
func (di *DecisionInterner) Get(h handle.DecisionHandle) ([]handle.ConditionSetHandle, error) {
	if int(h) < 0 || int(h) >= len(di.byHandle) {
		return nil, rerrors.New(rerrors.ErrNotFound, "NotFound", "decision handle out of range")
	}
	return di.byHandle[h], nil
}

// Len returns the number of interned decisions.
func (di *DecisionInterner) Len() int { return len(di.byHandle) }

// All returns every interned decision's condition-set sequence in handle order.
func (di *DecisionInterner) All() [][]handle.ConditionSetHandle { return di.byHandle }
