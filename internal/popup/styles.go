package popup

import "github.com/charmbracelet/lipgloss"

var (
	accent      = lipgloss.AdaptiveColor{Light: "#5A4FCF", Dark: "#8B80F9"}
	muted       = lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#6C6C6C"}
	destructive = lipgloss.Color("#E53935")
)

// styles groups the lipgloss styles used by the popup.
type styles struct {
	Title          lipgloss.Style
	Subtitle       lipgloss.Style
	Input          lipgloss.Style
	InputFocused   lipgloss.Style
	Button         lipgloss.Style
	ButtonFocused  lipgloss.Style
	ButtonDisabled lipgloss.Style
	Loading        lipgloss.Style
	Error          lipgloss.Style
	Result         lipgloss.Style
	Help           lipgloss.Style
}

func defaultStyles() styles {
	border := lipgloss.RoundedBorder()
	button := lipgloss.NewStyle().Padding(0, 2).Bold(true)

	return styles{
		Title:          lipgloss.NewStyle().Bold(true).Foreground(accent),
		Subtitle:       lipgloss.NewStyle().Foreground(muted),
		Input:          lipgloss.NewStyle().Border(border).BorderForeground(muted),
		InputFocused:   lipgloss.NewStyle().Border(border).BorderForeground(accent),
		Button:         button.Foreground(lipgloss.Color("#FFFFFF")).Background(muted),
		ButtonFocused:  button.Foreground(lipgloss.Color("#FFFFFF")).Background(accent),
		ButtonDisabled: button.Foreground(muted).Faint(true),
		Loading:        lipgloss.NewStyle().Foreground(accent),
		Error:          lipgloss.NewStyle().Foreground(destructive).Bold(true),
		Result:         lipgloss.NewStyle().Border(border).BorderForeground(accent).Padding(0, 1),
		Help:           lipgloss.NewStyle().Foreground(muted),
	}
}
