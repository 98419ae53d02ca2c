package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
)

// VerboseOptions controls verbose output.
type VerboseOptions struct {
	// JSON outputs structured JSON instead of human-readable text.
	JSON bool
	// Writer is the output destination.
	Writer io.Writer
}

// VerboseContribution describes one condition-set's contribution to a
// resolve, in the order the resolver scored it.
type VerboseContribution struct {
	ConditionSet string  `json:"conditionSet"`
	Score        float64 `json:"score"`
	IsPartial    bool    `json:"isPartial"`
}

// VerboseResolveResult is the structured trace of a single resolve call,
// suitable for either JSON or human-readable rendering.
type VerboseResolveResult struct {
	ResourceID    string               `json:"resourceId"`
	Context       map[string]string    `json:"context,omitempty"`
	Score         float64              `json:"score"`
	Contributions []VerboseContribution `json:"contributions"`
	Value         any                  `json:"value"`
	Warnings      []string             `json:"warnings,omitempty"`
}

// WriteVerboseResolve writes a resolve trace to opts.Writer, as JSON when
// opts.JSON is set, otherwise as human-readable text.
func WriteVerboseResolve(result *VerboseResolveResult, opts VerboseOptions) error {
	if opts.JSON {
		return writeVerboseResolveJSON(result, opts.Writer)
	}
	return writeVerboseResolveHuman(result, opts.Writer)
}

func writeVerboseResolveJSON(result *VerboseResolveResult, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func writeVerboseResolveHuman(result *VerboseResolveResult, w io.Writer) error {
	var sb strings.Builder
	styles := GetStyles()

	sb.WriteString(fmt.Sprintf("Resolving %s\n", styles.Bold.Render(result.ResourceID)))

	if len(result.Context) > 0 {
		keys := make([]string, 0, len(result.Context))
		for k := range result.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sb.WriteString("Context:\n")
		for _, k := range keys {
			sb.WriteString(fmt.Sprintf("  %s = %s\n", k, result.Context[k]))
		}
	}
	sb.WriteString("\n")

	sb.WriteString("Condition-set scoring:\n")
	for _, c := range result.Contributions {
		status := StatusCreated
		if c.IsPartial {
			status = StatusConfigured
		}
		sb.WriteString(fmt.Sprintf("  %s  score=%.3f\n",
			FormatResourceLine(c.ConditionSet, status), c.Score))
	}
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("Resolved (score %.3f):\n", result.Score))
	encoded, err := json.MarshalIndent(result.Value, "  ", "  ")
	if err == nil {
		sb.WriteString("  ")
		sb.Write(encoded)
		sb.WriteString("\n")
	}

	if len(result.Warnings) > 0 {
		sb.WriteString("\nWarnings:\n")
		for _, warn := range result.Warnings {
			sb.WriteString(fmt.Sprintf("  ⚠ %s\n", warn))
		}
	}

	_, err = w.Write([]byte(sb.String()))
	return err
}
