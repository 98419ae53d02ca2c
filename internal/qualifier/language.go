package qualifier

import (
	"fmt"

	"golang.org/x/text/language"
)

// LanguageType matches BCP-47 language tags, scoring exact matches highest
// and falling off monotonically as the tags diverge. Parsing and
// canonicalization are delegated to golang.org/x/text/language rather than
// reimplemented.
type LanguageType struct{}

// NewLanguageType constructs the language qualifier type.
func NewLanguageType() *LanguageType { return &LanguageType{} }

func (t *LanguageType) Name() string { return "language" }

func (t *LanguageType) Validate(value string) error {
	if _, err := language.Parse(value); err != nil {
		return fmt.Errorf("invalid BCP-47 language tag %q: %w", value, err)
	}
	return nil
}

func (t *LanguageType) Canonicalize(value string) string {
	tag, err := language.Parse(value)
	if err != nil {
		return value
	}
	return tag.String()
}

// Score implements the mandatory policy from the spec: exact tag match is
// 1.0; same primary language degrades to 0.8 when only one side names a
// region, 0.6 when the regions differ, and 0.5 when the scripts differ;
// anything unrelated is 0.0.
func (t *LanguageType) Score(candidateValue, contextValue string) float64 {
	candTag, err1 := language.Parse(candidateValue)
	ctxTag, err2 := language.Parse(contextValue)
	if err1 != nil || err2 != nil {
		return 0.0
	}

	if candTag.String() == ctxTag.String() {
		return 1.0
	}

	candBase, candBaseConf := candTag.Base()
	ctxBase, ctxBaseConf := ctxTag.Base()
	if candBaseConf == language.No || ctxBaseConf == language.No || candBase != ctxBase {
		return 0.0
	}

	candRegion, candRegionConf := candTag.Region()
	ctxRegion, ctxRegionConf := ctxTag.Region()
	// Region() infers a likely region when the tag names none, so only an
	// Exact confidence means the region was written in the tag.
	candHasRegion := candRegionConf == language.Exact
	ctxHasRegion := ctxRegionConf == language.Exact
	candScript, _ := candTag.Script()
	ctxScript, _ := ctxTag.Script()

	switch {
	case candScript != ctxScript:
		// Same language, different script: still usable, but the least
		// confident of the partial matches.
		return 0.5
	case candHasRegion && ctxHasRegion && candRegion == ctxRegion:
		// Shouldn't reach here (handled by exact-match above) but keep
		// the branch for clarity/defensiveness against tag normalisation
		// differences.
		return 1.0
	case candHasRegion != ctxHasRegion:
		// One side specifies a region, the other doesn't: same language,
		// same script, partial region specificity.
		return 0.8
	default:
		// Same language and script, different regions.
		return 0.6
	}
}

func (t *LanguageType) AllowContextList() bool { return true }

func (t *LanguageType) Describe() map[string]any {
	return map[string]any{"kind": "language"}
}
