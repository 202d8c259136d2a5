package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles is the set of renderers derived from a Theme.
type Styles struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Muted   lipgloss.Style
	Panel   lipgloss.Style
	Focused lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	KeyHint lipgloss.Style
}

func NewStyles(t Theme) Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Primary),
		Label: lipgloss.NewStyle().
			Foreground(t.Muted),
		Value: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Text),
		Muted: lipgloss.NewStyle().
			Foreground(t.Muted),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),
		Focused: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Accent),
		Success: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Success),
		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Error),
		KeyHint: lipgloss.NewStyle().
			Foreground(t.Muted).
			Italic(true),
	}
}

// DefaultStyles renders with ThemeTerminal.
var DefaultStyles = NewStyles(ThemeTerminal)

// AnimatedSpinner returns frame of animated spinner
func AnimatedSpinner(frame int) string {
	spinners := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	return spinners[frame%len(spinners)]
}

// Separator draws a muted rule with a centered diamond.
func (s Styles) Separator(width int) string {
	if width < 8 {
		width = 8
	}
	mid := width / 2
	left := strings.Repeat("─", mid-3)
	right := strings.Repeat("─", width-mid-3)
	return s.Muted.Render(left + " ◆ " + right)
}

// Field renders "label  value" with the label padded to width.
func (s Styles) Field(label, value string, width int) string {
	pad := width - lipgloss.Width(label)
	if pad < 1 {
		pad = 1
	}
	return s.Label.Render(label) + strings.Repeat(" ", pad) + s.Value.Render(value)
}
