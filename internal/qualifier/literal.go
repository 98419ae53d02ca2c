package qualifier

import (
	"fmt"
	"strings"
)

// LiteralType is a finite enumerated set of values, with an optional
// case-insensitive comparison and optional acceptance of comma-separated
// context lists.
type LiteralType struct {
	TypeName       string
	Values         []string
	CaseFold       bool
	AllowListValue bool

	valueSet map[string]string // canonical lookup key -> canonical value
}

// NewLiteralType constructs a literal qualifier type over a fixed value
// set. caseFold makes comparisons case-insensitive; allowContextList lets
// the resolver treat a comma-separated context value as a list.
func NewLiteralType(name string, values []string, caseFold, allowContextList bool) *LiteralType {
	lt := &LiteralType{
		TypeName:       name,
		Values:         append([]string(nil), values...),
		CaseFold:       caseFold,
		AllowListValue: allowContextList,
		valueSet:       make(map[string]string, len(values)),
	}
	for _, v := range values {
		lt.valueSet[lt.key(v)] = v
	}
	return lt
}

func (t *LiteralType) key(v string) string {
	if t.CaseFold {
		return strings.ToLower(v)
	}
	return v
}

func (t *LiteralType) Name() string { return t.TypeName }

func (t *LiteralType) Validate(value string) error {
	if _, ok := t.valueSet[t.key(value)]; !ok {
		return fmt.Errorf("value %q is not one of the allowed values for literal type %q", value, t.TypeName)
	}
	return nil
}

func (t *LiteralType) Canonicalize(value string) string {
	if canon, ok := t.valueSet[t.key(value)]; ok {
		return canon
	}
	return value
}

// Score is exact-match-or-nothing: 1.0 modulo the case-fold flag, else 0.0.
func (t *LiteralType) Score(candidateValue, contextValue string) float64 {
	if t.key(candidateValue) == t.key(contextValue) {
		return 1.0
	}
	return 0.0
}

func (t *LiteralType) AllowContextList() bool { return t.AllowListValue }

func (t *LiteralType) Describe() map[string]any {
	return map[string]any{
		"kind":             "literal",
		"values":           t.Values,
		"caseFold":         t.CaseFold,
		"allowContextList": t.AllowListValue,
	}
}
