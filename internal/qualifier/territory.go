package qualifier

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// TerritoryType matches ISO 3166 country codes and UN M.49 numeric region
// codes (e.g. "US", "419" for Latin America). Region parsing/membership is
// delegated to golang.org/x/text/language's Region type, which already
// carries the UN M.49 containment table.
type TerritoryType struct {
	// TokenIsOptional is reported in the type's description. Eligibility
	// for the importer's terse (bare-value) path-segment form is decided
	// by Qualifier.TokenIsOptional, not by this field.
	TokenIsOptional bool
}

// NewTerritoryType constructs the territory qualifier type.
func NewTerritoryType(tokenIsOptional bool) *TerritoryType {
	return &TerritoryType{TokenIsOptional: tokenIsOptional}
}

func (t *TerritoryType) Name() string { return "territory" }

func (t *TerritoryType) Validate(value string) error {
	if _, err := language.ParseRegion(value); err != nil {
		return fmt.Errorf("invalid territory code %q: %w", value, err)
	}
	return nil
}

func (t *TerritoryType) Canonicalize(value string) string {
	r, err := language.ParseRegion(value)
	if err != nil {
		return strings.ToUpper(value)
	}
	return r.String()
}

// Score implements the mandatory policy: exact ISO code match is 1.0;
// membership in an enclosing UN M.49 group named by the candidate is 0.5;
// otherwise 0.0.
func (t *TerritoryType) Score(candidateValue, contextValue string) float64 {
	candRegion, err1 := language.ParseRegion(candidateValue)
	ctxRegion, err2 := language.ParseRegion(contextValue)
	if err1 != nil || err2 != nil {
		return 0.0
	}

	if candRegion == ctxRegion {
		return 1.0
	}

	// The candidate names a broader UN M.49 group (e.g. "419" for Latin
	// America) that contains the context's specific country.
	if candRegion.IsGroup() && candRegion.Contains(ctxRegion) {
		return 0.5
	}

	return 0.0
}

func (t *TerritoryType) AllowContextList() bool { return true }

func (t *TerritoryType) Describe() map[string]any {
	return map[string]any{"kind": "territory", "tokenIsOptional": t.TokenIsOptional}
}
