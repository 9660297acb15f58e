package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"zenflow/internal/api"
)

type calendarDataMsg struct {
	gen  int
	data api.CalendarData
}

type calendarStreakMsg struct {
	gen    int
	streak int
}

// calendarModel renders the month grid of completed sessions and approved
// plans. Month navigation only changes the displayed month; data refetches
// happen on mount and on the refresh-calendar broadcast.
type calendarModel struct {
	deps
	th theme

	gen    int
	data   api.CalendarData
	streak int
	year   int
	month  time.Month
}

func newCalendarModel(d deps, th theme) calendarModel {
	now := time.Now()
	return calendarModel{deps: d, th: th, year: now.Year(), month: now.Month()}
}

func (m *calendarModel) mount() tea.Cmd {
	m.gen++
	gen := m.gen
	client := m.client
	log := m.log

	fetchCalendar := func() tea.Msg {
		data, err := client.Calendar(context.Background())
		if err != nil {
			log.Warn("calendar fetch failed", "error", err)
			data = api.CalendarData{}
		}
		return calendarDataMsg{gen: gen, data: data}
	}
	fetchStreak := func() tea.Msg {
		streak, err := client.Streak(context.Background())
		if err != nil {
			log.Warn("streak fetch failed", "error", err)
			streak = 0
		}
		return calendarStreakMsg{gen: gen, streak: streak}
	}
	return tea.Batch(fetchCalendar, fetchStreak)
}

func (m calendarModel) Update(msg tea.Msg) (calendarModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "left":
			m.year, m.month = prevMonth(m.year, m.month)
		case "right":
			m.year, m.month = nextMonth(m.year, m.month)
		case "t":
			now := time.Now()
			m.year, m.month = now.Year(), now.Month()
		}

	case calendarDataMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.data = msg.data

	case calendarStreakMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.streak = msg.streak
	}
	return m, nil
}

func prevMonth(year int, month time.Month) (int, time.Month) {
	if month == time.January {
		return year - 1, time.December
	}
	return year, month - 1
}

func nextMonth(year int, month time.Month) (int, time.Month) {
	if month == time.December {
		return year + 1, time.January
	}
	return year, month + 1
}

// dayKey is the exact prefix a record's date string must carry to land in
// this day's bucket.
func dayKey(year int, month time.Month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, int(month), day)
}

// sessionsOn buckets sessions by exact date-string prefix match.
func sessionsOn(data api.CalendarData, key string) []api.CalendarSession {
	var out []api.CalendarSession
	for _, s := range data.Sessions {
		if strings.HasPrefix(s.Date, key) {
			out = append(out, s)
		}
	}
	return out
}

// plansOn buckets plans by exact date-string prefix match.
func plansOn(data api.CalendarData, key string) []api.CalendarPlan {
	var out []api.CalendarPlan
	for _, p := range data.Plans {
		if strings.HasPrefix(p.PlannedDate, key) {
			out = append(out, p)
		}
	}
	return out
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func (m calendarModel) View() string {
	var b strings.Builder
	b.WriteString(m.th.title.Render("Practice Flow"))
	b.WriteString("   " + m.th.accent.Render(fmt.Sprintf("%d", m.streak)) + m.th.label.Render(" day streak") + "\n")
	b.WriteString(m.th.subtitle.Render(fmt.Sprintf("%s %d", m.month, m.year)) + m.th.muted.Render("  ←/→ month • t today") + "\n\n")

	weekdays := []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"}
	for _, d := range weekdays {
		b.WriteString(m.th.label.Render(fmt.Sprintf(" %-8s", d)))
	}
	b.WriteString("\n")

	first := time.Date(m.year, m.month, 1, 0, 0, 0, 0, time.UTC)
	offset := int(first.Weekday())
	total := daysInMonth(m.year, m.month)
	now := time.Now()
	isThisMonth := now.Year() == m.year && now.Month() == m.month

	var cells []string
	for i := 0; i < offset; i++ {
		cells = append(cells, m.th.dayCell.Render(""))
	}
	for day := 1; day <= total; day++ {
		key := dayKey(m.year, m.month, day)
		sessions := sessionsOn(m.data, key)
		plans := plansOn(m.data, key)

		var content strings.Builder
		content.WriteString(fmt.Sprintf("%d", day))
		if len(sessions) > 0 {
			content.WriteString(" " + m.th.okText.Render(strings.Repeat("●", min(len(sessions), 3))))
		}
		for i, p := range plans {
			if i >= 1 {
				break
			}
			content.WriteString("\n" + m.th.muted.Render(truncate(p.Title, 7)))
		}

		style := m.th.dayCell
		if isThisMonth && now.Day() == day {
			style = m.th.dayToday
		}
		cells = append(cells, style.Render(content.String()))

		if (len(cells))%7 == 0 || day == total {
			b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...) + "\n")
			cells = nil
		}
	}

	b.WriteString("\n" + m.th.okText.Render("●") + m.th.muted.Render(" completed sessions   ") +
		m.th.muted.Render("titled cells are approved plans") + "\n")
	return b.String()
}
