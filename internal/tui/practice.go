package tui

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"zenflow/internal/api"
	"zenflow/internal/bus"
)

type analysisMsg struct {
	gen     int
	outcome api.AnalysisOutcome
	err     error
}

// practiceModel uploads a practice clip for pose analysis and renders the
// outcome, with a tab row over the per-pose results of a multi-pose clip.
// Upload is disabled until a file path is entered; with no file selected no
// request is ever issued.
type practiceModel struct {
	deps
	th theme

	gen       int
	path      textinput.Model
	uploading bool
	outcome   *api.AnalysisOutcome
	tab       int
	errText   string
	spin      spinner.Model
}

func newPracticeModel(d deps, th theme) practiceModel {
	path := textinput.New()
	path.Placeholder = "Path to practice clip (MP4/MOV)"
	path.CharLimit = 512
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	return practiceModel{deps: d, th: th, path: path, spin: spin}
}

func (m *practiceModel) mount() tea.Cmd {
	// An analysis that finished while another view was active was dropped;
	// remounting must not leave the upload stuck in flight.
	m.uploading = false
	return m.path.Focus()
}

func (m *practiceModel) reset() {
	m.path.SetValue("")
	m.outcome = nil
	m.tab = 0
	m.errText = ""
}

func (m practiceModel) upload() (practiceModel, tea.Cmd) {
	filePath := strings.TrimSpace(m.path.Value())
	if filePath == "" || m.uploading {
		return m, nil
	}
	file, err := os.Open(filePath)
	if err != nil {
		m.errText = "Cannot read " + filePath
		return m, nil
	}
	m.uploading = true
	m.errText = ""
	m.gen++
	gen := m.gen
	client := m.client
	b := m.bus

	cmd := func() tea.Msg {
		defer file.Close()
		outcome, err := client.AnalyzeSession(context.Background(), filepath.Base(filePath), file)
		if err == nil {
			b.Publish(bus.Event{Signal: bus.RefreshSessions})
			b.Publish(bus.Event{Signal: bus.RefreshCalendar})
		}
		return analysisMsg{gen: gen, outcome: outcome, err: err}
	}
	return m, tea.Batch(cmd, m.spin.Tick)
}

func (m practiceModel) Update(msg tea.Msg) (practiceModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			return m.upload()
		case "ctrl+r":
			m.reset()
			return m, nil
		case "left", "right":
			if m.outcome != nil && m.outcome.Multi {
				n := len(m.outcome.Results())
				if n < 2 {
					return m, nil
				}
				if msg.String() == "left" {
					m.tab = (m.tab + n - 1) % n
				} else {
					m.tab = (m.tab + 1) % n
				}
				return m, nil
			}
		}

	case analysisMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.uploading = false
		if msg.err != nil {
			m.errText = errorText(msg.err)
			return m, nil
		}
		outcome := msg.outcome
		m.outcome = &outcome
		m.tab = 0
		return m, nil

	case spinner.TickMsg:
		if m.uploading {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.path, cmd = m.path.Update(msg)
	return m, cmd
}

func (m practiceModel) View() string {
	var b strings.Builder
	b.WriteString(m.th.title.Render("Vision Lab") + "\n")
	b.WriteString(m.th.subtitle.Render("Analyze your presence with AI") + "\n\n")

	if m.outcome == nil {
		b.WriteString(m.path.View() + "\n\n")
		switch {
		case m.uploading:
			b.WriteString(m.spin.View() + " Analyzing presence...\n")
		case strings.TrimSpace(m.path.Value()) == "":
			b.WriteString(m.th.muted.Render("Select a clip to enable analysis.") + "\n")
		default:
			b.WriteString(m.th.muted.Render("enter to commence analysis") + "\n")
		}
		if m.errText != "" {
			b.WriteString("\n" + m.th.errText.Render(m.errText) + "\n")
		}
		return b.String()
	}

	results := m.outcome.Results()
	if len(results) == 0 {
		// The backend skips poses held under its duration threshold; a
		// clip can come back analyzed with nothing scored.
		b.WriteString(m.th.muted.Render("No poses were held long enough to analyze. Try a longer clip.") + "\n")
		b.WriteString("\n" + m.th.muted.Render("ctrl+r new session") + "\n")
		return b.String()
	}
	if m.outcome.Multi && len(results) > 1 {
		tabs := make([]string, len(results))
		for i, res := range results {
			if i == m.tab {
				tabs[i] = m.th.tabOn.Render(res.Pose)
			} else {
				tabs[i] = m.th.tabOff.Render(res.Pose)
			}
		}
		b.WriteString(strings.Join(tabs, "  ") + "\n\n")
	}

	res := results[m.tab]
	b.WriteString(m.th.value.Render(res.Pose) + "  " + m.th.accent.Render(fmt.Sprintf("%d%%", int(math.Round(res.Accuracy)))) + "\n")
	b.WriteString(m.th.subtitle.Render(fmt.Sprintf("Duration %.0fs", res.Duration)))
	if !m.outcome.Multi && res.ConfidenceScore > 0 {
		b.WriteString(m.th.subtitle.Render(fmt.Sprintf("  •  Confidence %d%%", int(math.Round(res.ConfidenceScore*100)))))
	}
	b.WriteString("\n\n")
	if res.Feedback != "" {
		b.WriteString(m.th.card.Render("\""+res.Feedback+"\"") + "\n")
	}
	if res.Details != "" {
		b.WriteString(m.th.muted.Render(res.Details) + "\n")
	}
	b.WriteString("\n" + m.th.muted.Render("←/→ poses • ctrl+r new session") + "\n")
	return b.String()
}
