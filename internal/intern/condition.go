// Package intern implements the three interners that deduplicate
// conditions, condition-sets, and decisions into dense stable handles.
package intern

import (
	"fmt"

	rerrors "github.com/opmodel/resengine/internal/errors"
	"github.com/opmodel/resengine/internal/handle"
)

// Condition is a value object asserting a qualifier has some value under
// some operator. "matches" is currently the only supported operator; the
// field exists so the model can grow others without a shape change.
type Condition struct {
	Qualifier     handle.QualifierHandle
	QualifierName string
	Operator      string // always "matches" today
	Value         string // canonical value
	Priority      int16
}

func (c Condition) key() string {
	return fmt.Sprintf("%s=%s@%d", c.QualifierName, c.Value, c.Priority)
}

// ConditionInterner deduplicates conditions by canonical key
// "<qualifier>=<canonical-value>@<priority>".
type ConditionInterner struct {
	byHandle []Condition
	byKey    map[string]handle.ConditionHandle
}

// NewConditionInterner constructs an empty condition interner.
func NewConditionInterner() *ConditionInterner {
	return &ConditionInterner{byKey: make(map[string]handle.ConditionHandle)}
}

// Intern returns the handle for c, reusing an existing handle if an
// equal-by-key condition was already interned.
func (ci *ConditionInterner) Intern(c Condition) handle.ConditionHandle {
	if c.Operator == "" {
		c.Operator = "matches"
	}
	k := c.key()
	if h, ok := ci.byKey[k]; ok {
		return h
	}
	h := handle.ConditionHandle(len(ci.byHandle))
	ci.byHandle = append(ci.byHandle, c)
	ci.byKey[k] = h
	return h
}

// Get returns the condition at h.
func (ci *ConditionInterner) Get(h handle.ConditionHandle) (Condition, error) {
	if int(h) < 0 || int(h) >= len(ci.byHandle) {
		return Condition{}, rerrors.New(rerrors.ErrNotFound, "NotFound", "condition handle out of range")
	}
	return ci.byHandle[h], nil
}

// Len returns the number of interned conditions.
func (ci *ConditionInterner) Len() int { return len(ci.byHandle) }

// All returns every interned condition in handle order. The returned slice
// must not be mutated by callers.
func (ci *ConditionInterner) All() []Condition { return ci.byHandle }
