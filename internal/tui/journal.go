package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"zenflow/internal/api"
)

// moods selectable for an entry. The selected mood is not a structured
// field; it is concatenated into the entry text as a bracketed tag before
// sending, exactly as the backend expects.
var moods = []string{"", "Grateful", "Calm", "Energized", "Restless", "Weary"}

type journalEntriesMsg struct {
	gen     int
	entries []api.JournalEntry
}

type journalSavedMsg struct {
	gen int
	err error
}

// journalModel is the reflection form plus the entry history timeline.
type journalModel struct {
	deps
	th theme

	gen        int
	input      textarea.Model
	mood       int
	entries    []api.JournalEntry
	submitting bool
	status     string
	statusErr  bool
	spin       spinner.Model
}

func newJournalModel(d deps, th theme) journalModel {
	input := textarea.New()
	input.Placeholder = "Capture your inner flow..."
	input.SetHeight(4)
	input.CharLimit = 4000
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	return journalModel{deps: d, th: th, input: input, spin: spin}
}

func (m *journalModel) mount() tea.Cmd {
	// A save that finished while another view was active never delivered
	// its result here; remounting must not leave the form locked.
	m.submitting = false
	m.gen++
	gen := m.gen
	client := m.client
	log := m.log
	fetch := func() tea.Msg {
		entries, err := client.JournalEntries(context.Background())
		if err != nil {
			log.Warn("journal fetch failed", "error", err)
			entries = nil
		}
		return journalEntriesMsg{gen: gen, entries: entries}
	}
	return tea.Batch(fetch, m.input.Focus())
}

// taggedEntry prefixes the selected mood onto the raw text.
func taggedEntry(mood, text string) string {
	if mood == "" {
		return text
	}
	return "[" + mood + "] " + text
}

func (m journalModel) submit() (journalModel, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" || m.submitting {
		return m, nil
	}
	m.submitting = true
	m.status = ""
	gen := m.gen
	entry := taggedEntry(moods[m.mood], text)
	client := m.client
	cmd := func() tea.Msg {
		err := client.AddJournalEntry(context.Background(), entry)
		return journalSavedMsg{gen: gen, err: err}
	}
	return m, tea.Batch(cmd, m.spin.Tick)
}

func (m journalModel) Update(msg tea.Msg) (journalModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+s":
			return m.submit()
		case "ctrl+o":
			m.mood = (m.mood + 1) % len(moods)
			return m, nil
		}

	case journalEntriesMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.entries = msg.entries
		return m, nil

	case journalSavedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.submitting = false
		if msg.err != nil {
			m.status = "The flow is blocked. Seek the connection again."
			m.statusErr = true
			return m, nil
		}
		m.input.Reset()
		m.mood = 0
		m.status = "Reflection anchored in your digital sanctuary."
		m.statusErr = false
		return m, m.mount()

	case spinner.TickMsg:
		if m.submitting {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func sentimentBadge(th theme, e api.JournalEntry) string {
	if e.Sentiment == "" || e.SentimentScore == nil {
		return ""
	}
	label := fmt.Sprintf("%s • %d%% resonance", strings.ToUpper(e.Sentiment), int(*e.SentimentScore*100))
	switch strings.ToUpper(e.Sentiment) {
	case "POSITIVE":
		return th.okText.Render(label)
	case "NEGATIVE":
		return th.errText.Render(label)
	default:
		return th.muted.Render(label)
	}
}

func (m journalModel) View() string {
	var b strings.Builder
	b.WriteString(m.th.title.Render("Daily Reflection") + "\n\n")

	moodLabel := moods[m.mood]
	if moodLabel == "" {
		moodLabel = "none"
	}
	b.WriteString(m.th.label.Render("Mood: ") + m.th.accent.Render(moodLabel) + m.th.muted.Render("  (ctrl+o cycles)") + "\n")
	b.WriteString(m.input.View() + "\n")

	switch {
	case m.submitting:
		b.WriteString(m.spin.View() + " Anchoring...\n")
	case m.status != "" && m.statusErr:
		b.WriteString(m.th.errText.Render(m.status) + "\n")
	case m.status != "":
		b.WriteString(m.th.okText.Render(m.status) + "\n")
	default:
		b.WriteString(m.th.muted.Render("ctrl+s to anchor reflection") + "\n")
	}

	b.WriteString("\n" + m.th.accent.Render("Reflection Path") + "\n")
	if len(m.entries) == 0 {
		b.WriteString(m.th.muted.Render("The path is clear.") + "\n")
		return b.String()
	}
	for _, e := range m.entries {
		b.WriteString("  " + m.th.label.Render(formatDateTime(e.Date)) + "\n")
		b.WriteString("  " + truncate(e.EntryText, 76) + "\n")
		if badge := sentimentBadge(m.th, e); badge != "" {
			b.WriteString("  " + badge + "\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}
