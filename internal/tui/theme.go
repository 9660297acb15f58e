package tui

import (
	"time"

	"github.com/charmbracelet/lipgloss"
)

// theme is the shared style set for every view.
type theme struct {
	title    lipgloss.Style
	subtitle lipgloss.Style
	label    lipgloss.Style
	value    lipgloss.Style
	accent   lipgloss.Style
	muted    lipgloss.Style
	errText  lipgloss.Style
	okText   lipgloss.Style
	card     lipgloss.Style
	navOn    lipgloss.Style
	navOff   lipgloss.Style
	userMsg  lipgloss.Style
	botMsg   lipgloss.Style
	dayCell  lipgloss.Style
	dayToday lipgloss.Style
	tabOn    lipgloss.Style
	tabOff   lipgloss.Style
}

func newTheme() theme {
	purple := lipgloss.Color("135")
	teal := lipgloss.Color("43")
	rose := lipgloss.Color("204")
	grey := lipgloss.Color("243")

	return theme{
		title:    lipgloss.NewStyle().Bold(true).Foreground(purple),
		subtitle: lipgloss.NewStyle().Foreground(grey),
		label:    lipgloss.NewStyle().Foreground(grey).Bold(true),
		value:    lipgloss.NewStyle().Bold(true),
		accent:   lipgloss.NewStyle().Foreground(teal),
		muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		errText:  lipgloss.NewStyle().Foreground(rose),
		okText:   lipgloss.NewStyle().Foreground(teal),
		card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1),
		navOn:  lipgloss.NewStyle().Bold(true).Foreground(purple).Underline(true),
		navOff: lipgloss.NewStyle().Foreground(grey),
		userMsg: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(purple).
			Padding(0, 1),
		botMsg: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1),
		dayCell:  lipgloss.NewStyle().Width(9).Height(3).Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("236")),
		dayToday: lipgloss.NewStyle().Width(9).Height(3).Border(lipgloss.NormalBorder()).BorderForeground(purple),
		tabOn:    lipgloss.NewStyle().Bold(true).Foreground(teal).Underline(true),
		tabOff:   lipgloss.NewStyle().Foreground(grey),
	}
}

// dateLayouts are the timestamp shapes the backend emits.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// formatDate renders a backend date string for display, passing it through
// untouched when it matches no known layout.
func formatDate(raw string) string {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("Jan 2, 2006")
		}
	}
	return raw
}

// formatDateTime is formatDate with the clock time kept.
func formatDateTime(raw string) string {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("Mon Jan 2, 3:04 PM")
		}
	}
	return raw
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if max <= 0 || len(runes) <= max {
		return s
	}
	if max == 1 {
		return string(runes[:1])
	}
	return string(runes[:max-1]) + "…"
}
