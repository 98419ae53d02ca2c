// Package handle defines the dense, stable integer handles shared across
// the resolution engine's interners and registries. A handle is meaningful
// only relative to the build that produced it: two builds over identical
// inputs in identical order yield identical handles, which is what makes
// bundle checksums reproducible.
package handle

// QualifierTypeHandle identifies a registered QualifierType.
type QualifierTypeHandle int

// QualifierHandle identifies a registered Qualifier.
type QualifierHandle int

// ResourceTypeHandle identifies a registered ResourceType.
type ResourceTypeHandle int

// ConditionHandle identifies an interned Condition.
type ConditionHandle int

// ConditionSetHandle identifies an interned ConditionSet. Handle 0 is
// always the unconditional (empty) set.
type ConditionSetHandle int

// UnconditionalSet is the reserved handle of the empty condition-set.
const UnconditionalSet ConditionSetHandle = 0

// DecisionHandle identifies an interned Decision.
type DecisionHandle int

// Invalid (-1) is the sentinel for handles that have not yet been
// assigned. Only ConditionSetHandle gives 0 a real meaning (the
// unconditional set); the other handle kinds treat 0 as a normal valid
// handle once assigned — callers distinguish "unassigned" with a separate
// bool/ok return rather than comparing to Invalid.
const Invalid = -1
