package output

import "github.com/charmbracelet/lipgloss"

// Styles bundles the lipgloss styles shared by the diff, tree, and verbose
// renderers so callers don't each hand-roll their own palette.
type Styles struct {
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
}

// GetStyles returns the default colored style set.
func GetStyles() *Styles {
	return &Styles{
		Success: lipgloss.NewStyle().Foreground(colorGreen),
		Error:   lipgloss.NewStyle().Foreground(colorRed),
		Warning: lipgloss.NewStyle().Foreground(ColorYellow),
		Bold:    lipgloss.NewStyle().Bold(true),
		Muted:   lipgloss.NewStyle().Faint(true),
	}
}

// NoColorStyles returns an unstyled set, for deterministic test output and
// for non-TTY destinations.
func NoColorStyles() *Styles {
	return &Styles{
		Success: lipgloss.NewStyle(),
		Error:   lipgloss.NewStyle(),
		Warning: lipgloss.NewStyle(),
		Bold:    lipgloss.NewStyle(),
		Muted:   lipgloss.NewStyle(),
	}
}
