package tui

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zenflow/internal/api"
)

func decodeOutcome(t *testing.T, raw string) api.AnalysisOutcome {
	t.Helper()
	var outcome api.AnalysisOutcome
	require.NoError(t, json.Unmarshal([]byte(raw), &outcome))
	return outcome
}

func TestUploadWithoutFileIssuesNoRequest(t *testing.T) {
	m := newPracticeModel(newTestDeps(t), newTheme())

	m, cmd := m.upload()
	assert.Nil(t, cmd)
	assert.False(t, m.uploading)
	assert.Empty(t, m.errText)
}

func TestUploadUnreadableFileFailsLocally(t *testing.T) {
	m := newPracticeModel(newTestDeps(t), newTheme())
	m.path.SetValue(filepath.Join(t.TempDir(), "missing.mp4"))

	m, cmd := m.upload()
	assert.Nil(t, cmd, "the request is never issued for an unreadable file")
	assert.False(t, m.uploading)
	assert.Contains(t, m.errText, "Cannot read")
}

func TestUploadReadableFileStartsRequest(t *testing.T) {
	dir := t.TempDir()
	clip := filepath.Join(dir, "flow.mp4")
	require.NoError(t, os.WriteFile(clip, []byte("clipdata"), 0600))

	m := newPracticeModel(newTestDeps(t), newTheme())
	m.path.SetValue(clip)

	m, cmd := m.upload()
	require.NotNil(t, cmd)
	assert.True(t, m.uploading)
	assert.Equal(t, 1, m.gen)
}

func TestAnalysisResultTabs(t *testing.T) {
	m := newPracticeModel(newTestDeps(t), newTheme())
	m.gen = 1
	outcome := decodeOutcome(t, `{"results":[{"pose":"A"},{"pose":"B"},{"pose":"C"}]}`)

	m, _ = m.Update(analysisMsg{gen: 1, outcome: outcome})
	require.NotNil(t, m.outcome)
	assert.Equal(t, 0, m.tab)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 1, m.tab)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 2, m.tab, "left from the first tab wraps around")
}

func TestEmptyAnalysisRendersNotice(t *testing.T) {
	// The backend skips poses held under its duration threshold, so a 2xx
	// response can carry an empty results array.
	m := newPracticeModel(newTestDeps(t), newTheme())
	m.gen = 1

	m, _ = m.Update(analysisMsg{gen: 1, outcome: decodeOutcome(t, `{"results":[]}`)})
	require.NotNil(t, m.outcome)

	out := m.View()
	assert.Contains(t, out, "No poses were held long enough")

	// Tab navigation over zero results must be inert, not a crash.
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 0, m.tab)
	assert.NotEmpty(t, m.View())
}

func TestRemountClearsInFlightUpload(t *testing.T) {
	m := newPracticeModel(newTestDeps(t), newTheme())
	m.uploading = true

	m.mount()
	assert.False(t, m.uploading)

	m.path.SetValue(writeClip(t))
	_, cmd := m.upload()
	assert.NotNil(t, cmd, "upload works again after the remount")
}

func writeClip(t *testing.T) string {
	t.Helper()
	clip := filepath.Join(t.TempDir(), "flow.mp4")
	require.NoError(t, os.WriteFile(clip, []byte("clipdata"), 0600))
	return clip
}

func TestStaleAnalysisDropped(t *testing.T) {
	m := newPracticeModel(newTestDeps(t), newTheme())
	m.gen = 2
	m.uploading = true

	m, _ = m.Update(analysisMsg{gen: 1, outcome: decodeOutcome(t, `{"pose":"A"}`)})
	assert.True(t, m.uploading)
	assert.Nil(t, m.outcome)
}

func TestAnalysisFailureKeepsForm(t *testing.T) {
	m := newPracticeModel(newTestDeps(t), newTheme())
	m.gen = 1
	m.uploading = true

	m, _ = m.Update(analysisMsg{gen: 1, err: &api.Error{Status: 400, Detail: "No pose detected"}})
	assert.False(t, m.uploading)
	assert.Nil(t, m.outcome)
	assert.Equal(t, "No pose detected", m.errText)
}

func TestResetClearsOutcome(t *testing.T) {
	m := newPracticeModel(newTestDeps(t), newTheme())
	m.gen = 1
	m, _ = m.Update(analysisMsg{gen: 1, outcome: decodeOutcome(t, `{"pose":"A"}`)})
	require.NotNil(t, m.outcome)
	m.path.SetValue("clip.mp4")

	m.reset()
	assert.Nil(t, m.outcome)
	assert.Empty(t, m.path.Value())
	assert.Equal(t, 0, m.tab)
}
