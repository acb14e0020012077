package output

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used across commands.
type Styles struct {
	Header1  lipgloss.Style
	Header2  lipgloss.Style
	Bold     lipgloss.Style
	Muted    lipgloss.Style
	FilePath lipgloss.Style
	Success  lipgloss.Style
	Error    lipgloss.Style
	Warning  lipgloss.Style
	Info     lipgloss.Style
}

// NewStyles creates styles bound to a lipgloss renderer so that color
// output follows the destination's capabilities.
func NewStyles(r *lipgloss.Renderer) *Styles {
	return &Styles{
		Header1:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Header2:  r.NewStyle().Bold(true).Underline(true),
		Bold:     r.NewStyle().Bold(true),
		Muted:    r.NewStyle().Foreground(lipgloss.Color("8")),
		FilePath: r.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		Success:  r.NewStyle().Foreground(lipgloss.Color("10")),
		Error:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		Warning:  r.NewStyle().Foreground(lipgloss.Color("11")),
		Info:     r.NewStyle().Foreground(lipgloss.Color("12")),
	}
}
