package output

// Dyff integration utilities for YAML-aware diffing.
// The vet command in internal/cmd compares two bundles' CompiledCollection
// via homeport/dyff and prints dyff's own report; it does not use the
// renderer in this file.

import (
	"strings"
)

// DiffRenderer renders a bundle diff's added/removed/modified resources
// with styles.
type DiffRenderer struct {
	styles *Styles
}

// NewDiffRenderer creates a new DiffRenderer with default styles.
func NewDiffRenderer() *DiffRenderer {
	return &DiffRenderer{
		styles: GetStyles(),
	}
}

// NewDiffRendererWithStyles creates a DiffRenderer with custom styles.
func NewDiffRendererWithStyles(styles *Styles) *DiffRenderer {
	return &DiffRenderer{
		styles: styles,
	}
}

// RenderAdded renders an added resource line.
func (r *DiffRenderer) RenderAdded(name string) string {
	return "  + " + r.styles.Success.Render(name)
}

// RenderRemoved renders a removed resource line.
func (r *DiffRenderer) RenderRemoved(name string) string {
	return "  - " + r.styles.Error.Render(name)
}

// RenderModified renders a modified resource header.
func (r *DiffRenderer) RenderModified(name string) string {
	return "  ~ " + r.styles.Warning.Render(name)
}

// RenderAddedHeader renders the "Added:" section header.
func (r *DiffRenderer) RenderAddedHeader() string {
	return r.styles.Success.Render("Added:")
}

// RenderRemovedHeader renders the "Removed:" section header.
func (r *DiffRenderer) RenderRemovedHeader() string {
	return r.styles.Error.Render("Removed:")
}

// RenderModifiedHeader renders the "Modified:" section header.
func (r *DiffRenderer) RenderModifiedHeader() string {
	return r.styles.Warning.Render("Modified:")
}

// IndentDiff indents a diff string for display under a resource name.
func IndentDiff(diff string, indent string) string {
	if diff == "" {
		return ""
	}

	var sb strings.Builder
	lines := strings.Split(diff, "\n")
	for _, line := range lines {
		if line != "" {
			sb.WriteString(indent)
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
