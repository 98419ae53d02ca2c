// Package bundle implements the self-describing, checksum-verified bundle
// format: a serialisable snapshot of a compiled ResourceManager plus the
// qualifier/resource-type configuration needed to interpret it, suitable
// for writing to disk as JSON or YAML and reloading in a separate process.
package bundle

import (
	"github.com/google/uuid"
	"github.com/opmodel/resengine/internal/qualifier"
)

// Metadata describes who/when/how a bundle was produced, independent of its
// compiled contents.
type Metadata struct {
	BuildID     uuid.UUID `json:"buildId" yaml:"buildId"`
	DateBuilt   string    `json:"dateBuilt" yaml:"dateBuilt"`
	Checksum    string    `json:"checksum" yaml:"checksum"`
	Version     string    `json:"version,omitempty" yaml:"version,omitempty"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
}

// Config captures the qualifier types, qualifiers, and resource types a
// bundle's compiled collection was built against. A loader must supply type
// and resource-type implementations matching these declarations by name;
// the scoring and merge logic behind a Type or ResourceType is Go code and
// cannot be deserialised generically.
type Config struct {
	QualifierTypes []map[string]any      `json:"qualifierTypes" yaml:"qualifierTypes"`
	Qualifiers     []qualifier.Qualifier `json:"qualifiers" yaml:"qualifiers"`
	ResourceTypes  []map[string]any      `json:"resourceTypes" yaml:"resourceTypes"`
}

// ConditionRecord is one interned condition, referencing its qualifier by
// index into Config.Qualifiers (equivalently, its QualifierHandle).
type ConditionRecord struct {
	Qualifier int    `json:"qualifier" yaml:"qualifier"`
	Operator  string `json:"operator" yaml:"operator"`
	Value     string `json:"value" yaml:"value"`
	Priority  int16  `json:"priority" yaml:"priority"`
}

// CandidateRecord is one candidate value tied ordinally to a position in
// its resource's decision.
type CandidateRecord struct {
	Value       any    `json:"value" yaml:"value"`
	IsPartial   bool   `json:"isPartial,omitempty" yaml:"isPartial,omitempty"`
	MergeMethod string `json:"mergeMethod,omitempty" yaml:"mergeMethod,omitempty"`
}

// ResourceRecord is one resource, referencing its resource type and
// decision by index.
type ResourceRecord struct {
	ID           string            `json:"id" yaml:"id"`
	ResourceType int               `json:"resourceType" yaml:"resourceType"`
	Decision     int               `json:"decision" yaml:"decision"`
	Candidates   []CandidateRecord `json:"candidates" yaml:"candidates"`
}

// CompiledCollection is the serialisable form of a ResourceManager's
// interned state: condition sets and decisions reference conditions and
// condition sets by index, matching the handle values the live interners
// would assign when replayed in the same order.
type CompiledCollection struct {
	Conditions    []ConditionRecord `json:"conditions" yaml:"conditions"`
	ConditionSets [][]int           `json:"conditionSets" yaml:"conditionSets"`
	Decisions     [][]int           `json:"decisions" yaml:"decisions"`
	Resources     []ResourceRecord  `json:"resources" yaml:"resources"`
}

// Bundle is a full self-describing unit: metadata, the configuration needed
// to interpret it, and the compiled collection itself.
type Bundle struct {
	Metadata           Metadata           `json:"metadata" yaml:"metadata"`
	Config             Config             `json:"config" yaml:"config"`
	CompiledCollection CompiledCollection `json:"compiledCollection" yaml:"compiledCollection"`
}
