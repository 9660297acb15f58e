package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"zenflow/internal/api"
)

type exercisesMsg struct {
	gen       int
	exercises []api.Exercise
}

var libraryCategories = []string{
	api.CategoryAll, api.CategoryBalance, api.CategoryStrength, api.CategoryFlexibility,
}

// libraryModel browses the pose catalog: client-side name search plus exact
// category filter, with a detail overlay for the selected pose. The catalog
// fetch is unauthenticated.
type libraryModel struct {
	deps
	th theme

	gen       int
	exercises []api.Exercise
	search    textinput.Model
	category  int
	cursor    int
	selected  *api.Exercise
}

func newLibraryModel(d deps, th theme) libraryModel {
	search := textinput.New()
	search.Placeholder = "Search poses..."
	search.CharLimit = 80
	return libraryModel{deps: d, th: th, search: search}
}

func (m *libraryModel) mount() tea.Cmd {
	m.gen++
	gen := m.gen
	client := m.client
	log := m.log
	fetch := func() tea.Msg {
		exercises, err := client.Exercises(context.Background())
		if err != nil {
			log.Warn("exercise catalog fetch failed", "error", err)
			exercises = nil
		}
		return exercisesMsg{gen: gen, exercises: exercises}
	}
	return tea.Batch(fetch, m.search.Focus())
}

// filtered applies the case-insensitive name substring filter and the exact
// category filter.
func filterExercises(exercises []api.Exercise, search, category string) []api.Exercise {
	needle := strings.ToLower(search)
	var out []api.Exercise
	for _, ex := range exercises {
		if category != api.CategoryAll && ex.Category != category {
			continue
		}
		if !strings.Contains(strings.ToLower(ex.Name), needle) {
			continue
		}
		out = append(out, ex)
	}
	return out
}

func (m libraryModel) filtered() []api.Exercise {
	return filterExercises(m.exercises, m.search.Value(), libraryCategories[m.category])
}

func (m libraryModel) Update(msg tea.Msg) (libraryModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			if m.selected != nil {
				m.selected = nil
				return m, nil
			}
		case "tab":
			m.category = (m.category + 1) % len(libraryCategories)
			m.cursor = 0
			return m, nil
		case "up":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case "down":
			if m.cursor < len(m.filtered())-1 {
				m.cursor++
			}
			return m, nil
		case "enter":
			visible := m.filtered()
			if m.cursor < len(visible) {
				ex := visible[m.cursor]
				m.selected = &ex
			}
			return m, nil
		}

	case exercisesMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.exercises = msg.exercises
		m.cursor = 0
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.cursor >= len(m.filtered()) {
		m.cursor = 0
	}
	return m, cmd
}

func (m libraryModel) View() string {
	if m.selected != nil {
		var b strings.Builder
		b.WriteString(m.th.title.Render(m.selected.Name) + "\n")
		b.WriteString(m.th.accent.Render(strings.ToUpper(m.selected.Category)+" SANCTUARY") + "\n\n")
		b.WriteString(m.th.card.Render("\""+m.selected.Description+"\"") + "\n")
		if m.selected.Thumbnail != "" {
			b.WriteString(m.th.muted.Render("image: "+m.client.BaseURL()+"/"+m.selected.Thumbnail) + "\n")
		}
		b.WriteString("\n" + m.th.muted.Render("esc returns to the vault") + "\n")
		return b.String()
	}

	var b strings.Builder
	b.WriteString(m.th.title.Render("The Vault") + "\n")
	b.WriteString(m.th.subtitle.Render("A repository of sacred movements.") + "\n\n")
	b.WriteString(m.search.View() + "\n")

	tabs := make([]string, len(libraryCategories))
	for i, cat := range libraryCategories {
		if i == m.category {
			tabs[i] = m.th.tabOn.Render(cat)
		} else {
			tabs[i] = m.th.tabOff.Render(cat)
		}
	}
	b.WriteString(strings.Join(tabs, "  ") + m.th.muted.Render("  (tab cycles)") + "\n\n")

	visible := m.filtered()
	if len(visible) == 0 {
		b.WriteString(m.th.muted.Render("No poses match.") + "\n")
		return b.String()
	}
	for i, ex := range visible {
		marker := "  "
		name := ex.Name
		if i == m.cursor {
			marker = m.th.accent.Render("> ")
			name = m.th.value.Render(name)
		}
		b.WriteString(marker + name + "  " + m.th.muted.Render(ex.Category) + "\n")
	}
	b.WriteString("\n" + m.th.muted.Render("↑/↓ browse • enter opens detail") + "\n")
	return b.String()
}
