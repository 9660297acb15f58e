package tui

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"zenflow/internal/api"
)

type progressSessionsMsg struct {
	gen      int
	sessions []api.Session
}

type feedbackSavedMsg struct {
	gen int
	err error
}

// progressModel is the practice journey: the session history table, an
// accuracy-over-time chart, a per-session detail of summary rows, and a
// feedback form for the selected session.
type progressModel struct {
	deps
	th theme

	gen      int
	sessions []api.Session
	cursor   int

	detail       *api.Session
	feedback     textarea.Model
	feedbackOpen bool
	submitting   bool
	status       string
	statusErr    bool
}

func newProgressModel(d deps, th theme) progressModel {
	feedback := textarea.New()
	feedback.Placeholder = "e.g. 'Felt great, but my shoulders were a bit tight...'"
	feedback.SetHeight(3)
	feedback.CharLimit = 2000
	return progressModel{deps: d, th: th, feedback: feedback}
}

func (m *progressModel) mount() tea.Cmd {
	// A feedback post that finished while another view was active never
	// delivered its result here; remounting must not leave the form locked.
	m.submitting = false
	m.gen++
	gen := m.gen
	client := m.client
	log := m.log
	return func() tea.Msg {
		sessions, err := client.Sessions(context.Background())
		if err != nil {
			log.Warn("session history fetch failed", "error", err)
			sessions = nil
		}
		return progressSessionsMsg{gen: gen, sessions: sessions}
	}
}

// chartSeries maps the fetched list, reversed to chronological order, onto
// rounded accuracy values.
func chartSeries(sessions []api.Session) []int {
	series := make([]int, len(sessions))
	for i := range sessions {
		s := sessions[len(sessions)-1-i]
		series[i] = int(math.Round(s.AccuracyScore))
	}
	return series
}

var sparkLevels = []rune("▁▂▃▄▅▆▇█")

// sparkline renders 0-100 values as a block-character strip.
func sparkline(series []int) string {
	var b strings.Builder
	for _, v := range series {
		if v < 0 {
			v = 0
		}
		if v > 100 {
			v = 100
		}
		idx := v * (len(sparkLevels) - 1) / 100
		b.WriteRune(sparkLevels[idx])
	}
	return b.String()
}

func (m progressModel) submitFeedback() (progressModel, tea.Cmd) {
	text := strings.TrimSpace(m.feedback.Value())
	if text == "" || m.detail == nil || m.submitting {
		return m, nil
	}
	m.submitting = true
	m.gen++
	gen := m.gen
	sessionID := m.detail.ID
	client := m.client
	return m, func() tea.Msg {
		err := client.SubmitFeedback(context.Background(), sessionID, text)
		return feedbackSavedMsg{gen: gen, err: err}
	}
}

func (m progressModel) Update(msg tea.Msg) (progressModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.feedbackOpen {
			switch msg.String() {
			case "esc":
				m.feedbackOpen = false
				m.feedback.Blur()
				return m, nil
			case "ctrl+s":
				return m.submitFeedback()
			}
			var cmd tea.Cmd
			m.feedback, cmd = m.feedback.Update(msg)
			return m, cmd
		}
		switch msg.String() {
		case "esc":
			if m.detail != nil {
				m.detail = nil
				m.status = ""
				return m, nil
			}
		case "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down":
			if m.cursor < len(m.sessions)-1 {
				m.cursor++
			}
		case "enter":
			if m.detail == nil && m.cursor < len(m.sessions) {
				s := m.sessions[m.cursor]
				m.detail = &s
			}
		case "ctrl+f":
			if m.detail != nil {
				m.feedbackOpen = true
				return m, m.feedback.Focus()
			}
		}

	case progressSessionsMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.sessions = msg.sessions
		m.cursor = 0
		m.detail = nil

	case feedbackSavedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.submitting = false
		if msg.err != nil {
			m.status = "Failed to submit feedback. Please try again."
			m.statusErr = true
			return m, nil
		}
		m.feedback.Reset()
		m.feedbackOpen = false
		m.status = "Thank you for your feedback!"
		m.statusErr = false
	}
	return m, nil
}

func (m progressModel) View() string {
	if m.detail != nil {
		return m.detailView()
	}

	var b strings.Builder
	b.WriteString(m.th.title.Render("The Journey") + "\n")
	b.WriteString(m.th.subtitle.Render("Visualization of your path to presence.") + "\n\n")

	if len(m.sessions) == 0 {
		b.WriteString(m.th.muted.Render("\"Your practice journey starts with your first breath.\"") + "\n")
		return b.String()
	}

	b.WriteString(m.th.accent.Render("Accuracy Velocity") + "\n")
	b.WriteString(m.th.okText.Render(sparkline(chartSeries(m.sessions))) + "\n\n")

	b.WriteString(m.th.label.Render(fmt.Sprintf("  %-16s %-10s %s", "Cycle", "Duration", "Alignment")) + "\n")
	for i, s := range m.sessions {
		marker := "  "
		if i == m.cursor {
			marker = m.th.accent.Render("> ")
		}
		duration := fmt.Sprintf("%dm %ds", s.TotalTime/60, s.TotalTime%60)
		b.WriteString(fmt.Sprintf("%s%-16s %-10s %s\n",
			marker,
			formatDate(s.Date),
			duration,
			m.th.accent.Render(fmt.Sprintf("%.1f%%", s.AvgSummaryAccuracy()))))
	}
	b.WriteString("\n" + m.th.muted.Render("↑/↓ browse • enter opens the flow report") + "\n")
	return b.String()
}

func (m progressModel) detailView() string {
	s := m.detail
	var b strings.Builder
	b.WriteString(m.th.title.Render("Flow Analysis") + "  " + m.th.subtitle.Render(formatDate(s.Date)) + "\n\n")

	b.WriteString(m.th.label.Render(fmt.Sprintf("  %-28s %-12s %-6s %s", "Asana Pattern", "Flow Time", "Reps", "Alignment")) + "\n")
	for _, row := range s.Summary {
		b.WriteString(fmt.Sprintf("  %-28s %-12s %-6d %s\n",
			truncate(row.Pose, 28),
			fmt.Sprintf("%.0fs", row.TotalTime),
			row.Repetitions,
			m.th.accent.Render(fmt.Sprintf("%.0f%%", row.AvgAccuracy))))
	}
	if len(s.Summary) == 0 {
		b.WriteString(m.th.muted.Render("  No per-pose breakdown for this session.") + "\n")
	}

	if m.feedbackOpen {
		b.WriteString("\n" + m.th.accent.Render("How was your session?") + "\n")
		b.WriteString(m.feedback.View() + "\n")
		if m.submitting {
			b.WriteString(m.th.muted.Render("Submitting...") + "\n")
		} else {
			b.WriteString(m.th.muted.Render("ctrl+s submits • esc cancels") + "\n")
		}
	} else {
		b.WriteString("\n" + m.th.muted.Render("ctrl+f leaves feedback • esc returns") + "\n")
	}

	if m.status != "" {
		style := m.th.okText
		if m.statusErr {
			style = m.th.errText
		}
		b.WriteString(style.Render(m.status) + "\n")
	}
	return b.String()
}
