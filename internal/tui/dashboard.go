package tui

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"zenflow/internal/api"
	"zenflow/internal/bus"
)

type dashSessionsMsg struct {
	gen      int
	sessions []api.Session
}

type dashStreakMsg struct {
	gen    int
	streak int
}

// dashboardModel shows the headline stats: streak, average accuracy, recent
// sessions, and the feedback insight stream. Both fetches run in parallel;
// failures collapse to empty data.
type dashboardModel struct {
	deps
	th theme

	gen      int
	loading  bool
	sessions []api.Session
	streak   int
	spin     spinner.Model
}

func newDashboardModel(d deps, th theme) dashboardModel {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	return dashboardModel{deps: d, th: th, spin: spin}
}

func (m *dashboardModel) mount() tea.Cmd {
	m.gen++
	m.loading = true
	gen := m.gen
	client := m.client
	log := m.log

	fetchSessions := func() tea.Msg {
		sessions, err := client.Sessions(context.Background())
		if err != nil {
			log.Warn("dashboard sessions fetch failed", "error", err)
			sessions = nil
		}
		return dashSessionsMsg{gen: gen, sessions: sessions}
	}
	fetchStreak := func() tea.Msg {
		streak, err := client.Streak(context.Background())
		if err != nil {
			log.Warn("dashboard streak fetch failed", "error", err)
			streak = 0
		}
		return dashStreakMsg{gen: gen, streak: streak}
	}
	return tea.Batch(fetchSessions, fetchStreak, m.spin.Tick)
}

func (m dashboardModel) Update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Quick actions: jump straight into a practice upload or a
		// mentor consultation from the landing view.
		switch msg.String() {
		case "u":
			m.bus.Publish(bus.Event{Signal: bus.SwitchView, View: string(ViewPractice)})
		case "c":
			m.bus.Publish(bus.Event{Signal: bus.SwitchView, View: string(ViewCoach)})
		}

	case dashSessionsMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.sessions = msg.sessions
		m.loading = false

	case dashStreakMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.streak = msg.streak

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m dashboardModel) avgAccuracy() int {
	if len(m.sessions) == 0 {
		return 0
	}
	var sum float64
	for _, s := range m.sessions {
		sum += s.AccuracyScore
	}
	return int(math.Round(sum / float64(len(m.sessions))))
}

func (m dashboardModel) View(user api.User) string {
	var b strings.Builder
	b.WriteString(m.th.title.Render("Welcome, "+displayName(user)) + "\n")
	b.WriteString(m.th.subtitle.Render("Your presence is your power.") + "\n\n")

	if m.loading {
		b.WriteString(m.spin.View() + " Initializing sanctuary...\n")
		return b.String()
	}

	stats := []string{
		m.th.card.Render(fmt.Sprintf("%s\n%s", m.th.value.Render(fmt.Sprintf("%d", m.streak)), m.th.label.Render("Day Streak"))),
		m.th.card.Render(fmt.Sprintf("%s\n%s", m.th.value.Render(fmt.Sprintf("%d%%", m.avgAccuracy())), m.th.label.Render("Avg Accuracy"))),
		m.th.card.Render(fmt.Sprintf("%s\n%s", m.th.value.Render(fmt.Sprintf("%d", len(m.sessions))), m.th.label.Render("Total Sessions"))),
	}
	b.WriteString(strings.Join(stats, " ") + "\n\n")

	b.WriteString(m.th.accent.Render("Recent Sessions") + "\n")
	recent := m.sessions
	if len(recent) > 3 {
		recent = recent[:3]
	}
	if len(recent) == 0 {
		b.WriteString(m.th.muted.Render("No presence data yet. Begin your journey.") + "\n")
	}
	for _, s := range recent {
		name := s.PoseName
		if name == "" {
			name = fmt.Sprintf("%d poses", len(s.Summary))
		}
		b.WriteString(fmt.Sprintf("  %s  %s  %s\n",
			m.th.value.Render(name),
			m.th.accent.Render(fmt.Sprintf("%d%%", int(math.Round(s.AccuracyScore)))),
			m.th.muted.Render(formatDate(s.Date))))
	}

	var insights []string
	for _, s := range recent {
		if s.FeedbackText != "" {
			insights = append(insights, s.FeedbackText)
		}
	}
	if len(insights) > 0 {
		b.WriteString("\n" + m.th.accent.Render("Insight Stream") + "\n")
		for _, text := range insights {
			b.WriteString("  " + m.th.muted.Render(truncate(text, 76)) + "\n")
		}
	}

	b.WriteString("\n" + m.th.muted.Render("u begins a practice upload • c consults the mentor") + "\n")
	return b.String()
}

func displayName(user api.User) string {
	if user.Username != "" {
		return user.Username
	}
	return "Seeker"
}
