package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zenflow/internal/api"
	"zenflow/internal/bus"
)

func TestAvgAccuracyRounds(t *testing.T) {
	m := newDashboardModel(newTestDeps(t), newTheme())
	assert.Equal(t, 0, m.avgAccuracy())

	m.sessions = []api.Session{
		{AccuracyScore: 90.0},
		{AccuracyScore: 85.5},
	}
	assert.Equal(t, 88, m.avgAccuracy())
}

func TestDashboardDropsStaleFetches(t *testing.T) {
	m := newDashboardModel(newTestDeps(t), newTheme())
	m.gen = 3
	m.loading = true

	m, _ = m.Update(dashSessionsMsg{gen: 2, sessions: []api.Session{{ID: 1}}})
	assert.True(t, m.loading)
	assert.Empty(t, m.sessions)

	m, _ = m.Update(dashSessionsMsg{gen: 3, sessions: []api.Session{{ID: 1}}})
	assert.False(t, m.loading)
	assert.Len(t, m.sessions, 1)

	m, _ = m.Update(dashStreakMsg{gen: 3, streak: 6})
	assert.Equal(t, 6, m.streak)
}

func TestQuickActionsBroadcastViewSwitch(t *testing.T) {
	d := newTestDeps(t)
	events := d.bus.Subscribe(bus.SwitchView)
	m := newDashboardModel(d, newTheme())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'u'}})
	require.Len(t, events, 1)
	ev := <-events
	assert.Equal(t, bus.SwitchView, ev.Signal)
	assert.Equal(t, string(ViewPractice), ev.View)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	require.Len(t, events, 1)
	assert.Equal(t, string(ViewCoach), (<-events).View)

	// Unbound keys publish nothing.
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	assert.Empty(t, events)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "maya", displayName(api.User{Username: "maya"}))
	assert.Equal(t, "Seeker", displayName(api.User{}))
}
