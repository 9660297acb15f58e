package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zenflow/internal/api"
)

func TestChartSeriesIsChronological(t *testing.T) {
	// The backend lists newest first; the chart runs oldest to newest.
	sessions := []api.Session{
		{Date: "2026-08-30", AccuracyScore: 92.4},
		{Date: "2026-08-28", AccuracyScore: 85.6},
		{Date: "2026-08-25", AccuracyScore: 70.0},
	}

	assert.Equal(t, []int{70, 86, 92}, chartSeries(sessions))
	assert.Empty(t, chartSeries(nil))
}

func TestSparkline(t *testing.T) {
	assert.Equal(t, "▁█", sparkline([]int{0, 100}))
	assert.Equal(t, "▁█", sparkline([]int{-5, 130}), "values are clamped")
	assert.Equal(t, "▄", sparkline([]int{50}))
	assert.Empty(t, sparkline(nil))
}

func TestSubmitFeedbackGuards(t *testing.T) {
	m := newProgressModel(newTestDeps(t), newTheme())

	// No selected session.
	m.feedback.SetValue("great class")
	_, cmd := m.submitFeedback()
	assert.Nil(t, cmd)

	// Selected session but blank text.
	m.detail = &api.Session{ID: 7}
	m.feedback.SetValue("   ")
	_, cmd = m.submitFeedback()
	assert.Nil(t, cmd)

	m.feedback.SetValue("great class")
	m2, cmd := m.submitFeedback()
	require.NotNil(t, cmd)
	assert.True(t, m2.submitting)
}

func TestFeedbackSavedResetsForm(t *testing.T) {
	m := newProgressModel(newTestDeps(t), newTheme())
	m.detail = &api.Session{ID: 7}
	m.feedback.SetValue("great class")
	m.feedbackOpen = true
	m.submitting = true

	m, _ = m.Update(feedbackSavedMsg{gen: 0})
	assert.False(t, m.submitting)
	assert.False(t, m.feedbackOpen)
	assert.Empty(t, m.feedback.Value())
	assert.False(t, m.statusErr)
}

func TestFeedbackFailureKeepsForm(t *testing.T) {
	m := newProgressModel(newTestDeps(t), newTheme())
	m.detail = &api.Session{ID: 7}
	m.feedback.SetValue("great class")
	m.feedbackOpen = true
	m.submitting = true

	m, _ = m.Update(feedbackSavedMsg{gen: 0, err: assert.AnError})
	assert.True(t, m.feedbackOpen)
	assert.Equal(t, "great class", m.feedback.Value())
	assert.True(t, m.statusErr)
}

func TestRemountClearsInFlightFeedback(t *testing.T) {
	m := newProgressModel(newTestDeps(t), newTheme())
	m.submitting = true

	m.mount()
	assert.False(t, m.submitting)

	m.detail = &api.Session{ID: 7}
	m.feedback.SetValue("great class")
	_, cmd := m.submitFeedback()
	assert.NotNil(t, cmd, "feedback works again after the remount")
}

func TestStaleSessionsDropped(t *testing.T) {
	m := newProgressModel(newTestDeps(t), newTheme())
	m.gen = 2

	m, _ = m.Update(progressSessionsMsg{gen: 1, sessions: []api.Session{{ID: 1}}})
	assert.Empty(t, m.sessions)

	m, _ = m.Update(progressSessionsMsg{gen: 2, sessions: []api.Session{{ID: 1}}})
	assert.Len(t, m.sessions, 1)
}
