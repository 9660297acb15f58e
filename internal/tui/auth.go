package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"zenflow/internal/api"
)

type authTab int

const (
	tabLogin authTab = iota
	tabRegister
)

// loginMsg tells the root model a session is established and persisted.
type loginMsg struct {
	user api.User
}

type authResultMsg struct {
	tab  authTab
	user api.User
	err  error
}

// authModel is the unauthenticated screen: a login/register tab pair over
// the same email+password form. Toggling tabs keeps the typed values.
type authModel struct {
	deps
	th theme

	tab        authTab
	email      textinput.Model
	password   textinput.Model
	focus      int
	submitting bool
	info       string
	errText    string
	spin       spinner.Model
}

func newAuthModel(d deps, th theme) authModel {
	email := textinput.New()
	email.Placeholder = "Email Address"
	email.CharLimit = 120
	email.Focus()

	password := textinput.New()
	password.Placeholder = "Password"
	password.CharLimit = 120
	password.EchoMode = textinput.EchoPassword

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return authModel{deps: d, th: th, email: email, password: password, spin: spin}
}

func (m authModel) Init() tea.Cmd {
	return textinput.Blink
}

// localPart derives the username the backend expects from an email address.
func localPart(email string) string {
	return strings.SplitN(email, "@", 2)[0]
}

func (m authModel) submit() (authModel, tea.Cmd) {
	email := strings.TrimSpace(m.email.Value())
	password := m.password.Value()
	if email == "" || password == "" {
		m.errText = "Email and password are required."
		return m, nil
	}
	m.submitting = true
	m.errText = ""
	m.info = ""

	tab := m.tab
	client := m.client
	store := m.store
	cmd := func() tea.Msg {
		username := localPart(email)
		if tab == tabRegister {
			err := client.Register(context.Background(), username, email, password)
			return authResultMsg{tab: tab, err: err}
		}
		token, err := client.Token(context.Background(), username, password)
		if err != nil {
			return authResultMsg{tab: tab, err: err}
		}
		user := api.User{Username: username, Email: email}
		if err := store.Save(user, token); err != nil {
			return authResultMsg{tab: tab, err: err}
		}
		return authResultMsg{tab: tab, user: user}
	}
	return m, tea.Batch(cmd, m.spin.Tick)
}

func (m authModel) Update(msg tea.Msg) (authModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "tab":
			if m.tab == tabLogin {
				m.tab = tabRegister
			} else {
				m.tab = tabLogin
			}
			return m, nil
		case "up", "down":
			m.focus = 1 - m.focus
			if m.focus == 0 {
				m.password.Blur()
				return m, m.email.Focus()
			}
			m.email.Blur()
			return m, m.password.Focus()
		case "enter":
			if m.focus == 0 {
				m.focus = 1
				m.email.Blur()
				return m, m.password.Focus()
			}
			if m.submitting {
				return m, nil
			}
			return m.submit()
		}

	case authResultMsg:
		m.submitting = false
		if msg.err != nil {
			m.errText = errorText(msg.err)
			return m, nil
		}
		if msg.tab == tabRegister {
			m.tab = tabLogin
			m.info = "Registration successful. Please login."
			return m, nil
		}
		return m, func() tea.Msg { return loginMsg{user: msg.user} }

	case spinner.TickMsg:
		if m.submitting {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.email, cmd = m.email.Update(msg)
	cmds = append(cmds, cmd)
	m.password, cmd = m.password.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// errorText prefers the backend detail over the raw error chain.
func errorText(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return "The sanctuary is disconnected. Check your connection."
}

func (m authModel) View() string {
	var b strings.Builder
	b.WriteString(m.th.title.Render("ZenFlow"))
	b.WriteString("  " + m.th.subtitle.Render("The Digital Path to Presence"))
	b.WriteString("\n\n")

	login := "Login"
	register := "Register"
	if m.tab == tabLogin {
		b.WriteString(m.th.tabOn.Render(login) + "  " + m.th.tabOff.Render(register))
	} else {
		b.WriteString(m.th.tabOff.Render(login) + "  " + m.th.tabOn.Render(register))
	}
	b.WriteString("\n\n")
	b.WriteString(m.email.View() + "\n")
	b.WriteString(m.password.View() + "\n\n")

	switch {
	case m.submitting:
		b.WriteString(m.spin.View() + " Entering the sanctuary...")
	case m.errText != "":
		b.WriteString(m.th.errText.Render(m.errText))
	case m.info != "":
		b.WriteString(m.th.okText.Render(m.info))
	default:
		action := "enter"
		if m.tab == tabRegister {
			action = "create your path"
		}
		b.WriteString(m.th.muted.Render("enter to " + action + " • tab switches login/register"))
	}
	return b.String()
}
