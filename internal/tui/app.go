// Package tui renders the ZenFlow client: an auth screen and seven feature
// views behind a navigation bar. Each view fetches its own slice of backend
// state on mount and refetches on broadcast signals.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"zenflow/internal/api"
	"zenflow/internal/bus"
	"zenflow/internal/logging"
	"zenflow/internal/session"
)

// View names the feature views. SwitchView broadcasts carry these values.
type View string

const (
	ViewDashboard View = "dashboard"
	ViewPractice  View = "practice"
	ViewJournal   View = "journal"
	ViewCoach     View = "coach"
	ViewCalendar  View = "calendar"
	ViewLibrary   View = "library"
	ViewProgress  View = "progress"
)

var navOrder = []View{
	ViewDashboard, ViewPractice, ViewJournal, ViewCoach,
	ViewCalendar, ViewLibrary, ViewProgress,
}

var navLabels = map[View]string{
	ViewDashboard: "Flow",
	ViewPractice:  "Vision",
	ViewJournal:   "Reflect",
	ViewCoach:     "Mentor",
	ViewCalendar:  "Rhythm",
	ViewLibrary:   "Vault",
	ViewProgress:  "Journey",
}

// BusMsg delivers a cross-view broadcast into the program. The runner
// forwards bus events as this message type.
type BusMsg bus.Event

// deps are the shared collaborators every view needs.
type deps struct {
	client *api.Client
	store  *session.Store
	bus    *bus.Bus
	log    *logging.Logger
}

// App is the root model: the auth screen until login, then the shell.
type App struct {
	deps
	th theme

	user   api.User
	authed bool
	active View

	auth      authModel
	dashboard dashboardModel
	practice  practiceModel
	journal   journalModel
	coach     coachModel
	calendar  calendarModel
	library   libraryModel
	progress  progressModel

	width  int
	height int
}

// NewApp builds the root model. When the store holds a valid session the
// app starts authenticated; otherwise it starts on the auth screen.
func NewApp(client *api.Client, store *session.Store, b *bus.Bus, log *logging.Logger) App {
	d := deps{client: client, store: store, bus: b, log: log}
	th := newTheme()
	app := App{
		deps:      d,
		th:        th,
		active:    ViewDashboard,
		auth:      newAuthModel(d, th),
		dashboard: newDashboardModel(d, th),
		practice:  newPracticeModel(d, th),
		journal:   newJournalModel(d, th),
		coach:     newCoachModel(d, th),
		calendar:  newCalendarModel(d, th),
		library:   newLibraryModel(d, th),
		progress:  newProgressModel(d, th),
	}
	if user, _, ok := store.Load(); ok {
		app.user = user
		app.authed = true
	}
	return app
}

func (a App) Init() tea.Cmd {
	if a.authed {
		return a.mountActive()
	}
	return a.auth.Init()
}

// mountActive issues the active view's mount fetches.
func (a *App) mountActive() tea.Cmd {
	switch a.active {
	case ViewDashboard:
		return a.dashboard.mount()
	case ViewPractice:
		return a.practice.mount()
	case ViewJournal:
		return a.journal.mount()
	case ViewCoach:
		return a.coach.mount()
	case ViewCalendar:
		return a.calendar.mount()
	case ViewLibrary:
		return a.library.mount()
	case ViewProgress:
		return a.progress.mount()
	}
	return nil
}

func (a *App) switchTo(v View) tea.Cmd {
	if a.active == v {
		return nil
	}
	a.active = v
	return a.mountActive()
}

func (a *App) logout() {
	if err := a.store.Clear(); err != nil {
		a.log.Warn("clearing session failed", "error", err)
	}
	a.authed = false
	a.user = api.User{}
	a.auth = newAuthModel(a.deps, a.th)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "ctrl+l":
			if a.authed {
				a.logout()
				return a, a.auth.Init()
			}
		}
		if a.authed {
			if v, ok := viewForKey(msg.String()); ok {
				return a, a.switchTo(v)
			}
		}

	case loginMsg:
		a.user = msg.user
		a.authed = true
		a.active = ViewDashboard
		return a, a.mountActive()

	case BusMsg:
		return a, a.handleBroadcast(bus.Event(msg))
	}

	if !a.authed {
		var cmd tea.Cmd
		a.auth, cmd = a.auth.Update(msg)
		return a, cmd
	}

	var cmd tea.Cmd
	switch a.active {
	case ViewDashboard:
		a.dashboard, cmd = a.dashboard.Update(msg)
	case ViewPractice:
		a.practice, cmd = a.practice.Update(msg)
	case ViewJournal:
		a.journal, cmd = a.journal.Update(msg)
	case ViewCoach:
		a.coach, cmd = a.coach.Update(msg)
	case ViewCalendar:
		a.calendar, cmd = a.calendar.Update(msg)
	case ViewLibrary:
		a.library, cmd = a.library.Update(msg)
	case ViewProgress:
		a.progress, cmd = a.progress.Update(msg)
	}
	return a, cmd
}

// handleBroadcast reacts to bus signals. Only the mounted (active) view
// refetches; signals for absent views are dropped, matching the transient
// delivery contract.
func (a *App) handleBroadcast(ev bus.Event) tea.Cmd {
	if !a.authed {
		return nil
	}
	switch ev.Signal {
	case bus.SwitchView:
		return a.switchTo(View(ev.View))
	case bus.RefreshCalendar:
		if a.active == ViewCalendar {
			return a.calendar.mount()
		}
	case bus.RefreshChats:
		if a.active == ViewCoach {
			return a.coach.refetchHistory()
		}
	case bus.RefreshSessions:
		switch a.active {
		case ViewDashboard:
			return a.dashboard.mount()
		case ViewProgress:
			return a.progress.mount()
		}
	}
	return nil
}

func viewForKey(key string) (View, bool) {
	switch key {
	case "f1":
		return ViewDashboard, true
	case "f2":
		return ViewPractice, true
	case "f3":
		return ViewJournal, true
	case "f4":
		return ViewCoach, true
	case "f5":
		return ViewCalendar, true
	case "f6":
		return ViewLibrary, true
	case "f7":
		return ViewProgress, true
	}
	return "", false
}

func (a App) View() string {
	if !a.authed {
		return a.auth.View()
	}

	var body string
	switch a.active {
	case ViewDashboard:
		body = a.dashboard.View(a.user)
	case ViewPractice:
		body = a.practice.View()
	case ViewJournal:
		body = a.journal.View()
	case ViewCoach:
		body = a.coach.View()
	case ViewCalendar:
		body = a.calendar.View()
	case ViewLibrary:
		body = a.library.View()
	case ViewProgress:
		body = a.progress.View()
	}

	return a.navBar() + "\n\n" + body + "\n\n" + a.footer()
}

func (a App) navBar() string {
	parts := make([]string, 0, len(navOrder)+1)
	parts = append(parts, a.th.title.Render("ZenFlow"))
	for i, v := range navOrder {
		label := fmt.Sprintf("F%d %s", i+1, navLabels[v])
		if v == a.active {
			parts = append(parts, a.th.navOn.Render(label))
		} else {
			parts = append(parts, a.th.navOff.Render(label))
		}
	}
	parts = append(parts, a.th.muted.Render(a.user.Username))
	return strings.Join(parts, "  ")
}

func (a App) footer() string {
	return a.th.muted.Render("F1-F7 views • ctrl+l logout • ctrl+c quit")
}
