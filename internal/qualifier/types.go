// Package qualifier implements the closed set of qualifier kinds (language,
// territory, literal enum) and the registries that bind named qualifiers to
// them.
package qualifier

import "strings"

// Type is a qualifier kind: it knows how to validate a raw value, put it in
// canonical form, and score a candidate value against a context value.
//
// Score returns 0.0 for an incompatible pair and 1.0 for an exact match.
// Implementations must be pure and side-effect free; the resolver calls
// Score once per condition per resolve and relies on it being cheap.
type Type interface {
	// Name is the qualifier type's registered name (e.g. "language").
	Name() string

	// Validate reports whether value is well-formed for this type.
	Validate(value string) error

	// Canonicalize returns the canonical form of a value already known to
	// be valid. Callers must call Validate first.
	Canonicalize(value string) string

	// Score compares a candidate's condition value against a single
	// context value, both already canonical, and returns a value in
	// [0.0, 1.0]. Implementations never need to handle comma-separated
	// list context values themselves; use the package-level Score
	// function for that, which applies AllowContextList on top.
	Score(candidateValue, contextValue string) float64

	// AllowContextList reports whether a context value for this type may
	// be a comma-separated list, scored as the max over elements weighted
	// by position (1, 0.9, 0.81, ...).
	AllowContextList() bool

	// Describe returns a JSON-serialisable declaration of this type's
	// configuration, used to populate a bundle's config.qualifierTypes
	// section. The "kind" key is always present.
	Describe() map[string]any
}

// Score is the single entry point for scoring a candidate value against a
// context value. When t.AllowContextList() is true and contextValue
// contains a comma, it is treated as a list: the score is the maximum over
// elements, weighted by position (1, 0.9, 0.81, ...). Otherwise it
// delegates straight to t.Score.
func Score(t Type, candidateValue, contextValue string) float64 {
	if !t.AllowContextList() || !strings.Contains(contextValue, ",") {
		return t.Score(candidateValue, contextValue)
	}

	elems := strings.Split(contextValue, ",")
	best := 0.0
	weight := 1.0
	for _, e := range elems {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		s := t.Score(candidateValue, e) * weight
		if s > best {
			best = s
		}
		weight *= 0.9
	}
	return best
}
