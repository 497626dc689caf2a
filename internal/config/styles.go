package config

import (
	"github.com/charmbracelet/lipgloss"
)

type Styles struct {
	Cursor    lipgloss.Style
	Highlight lipgloss.Style
	Current   lipgloss.Style
	Address   lipgloss.Style
	Header    lipgloss.Style
	Mode      lipgloss.Style
	Unsaved   lipgloss.Style
	Error     lipgloss.Style
}

func NewStyles(r *lipgloss.Renderer, theme *Theme) *Styles {
	return &Styles{
		Cursor: r.NewStyle().
			Reverse(true),
		Highlight: r.NewStyle().
			Background(lipgloss.Color(theme.HighlightBackground)).
			Foreground(lipgloss.Color(theme.HighlightForeground)),
		Current: r.NewStyle().
			Background(lipgloss.Color(theme.CurrentBackground)).
			Foreground(lipgloss.Color(theme.CurrentForeground)),
		Address: r.NewStyle().
			Foreground(lipgloss.Color(theme.AddressColor)),
		Header: r.NewStyle().
			Foreground(lipgloss.Color(theme.HeaderColor)),
		Mode: r.NewStyle().
			Foreground(lipgloss.Color(theme.ModeColor)).
			Bold(true),
		Unsaved: r.NewStyle().
			Foreground(lipgloss.Color(theme.UnsavedColor)),
		Error: r.NewStyle().
			Foreground(lipgloss.Color(theme.ErrorColor)),
	}
}
