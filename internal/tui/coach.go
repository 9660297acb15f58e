package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"zenflow/internal/api"
	"zenflow/internal/bus"
	"zenflow/internal/plan"
)

const coachGreeting = "Namaste. I am your ZenFlow AI Mentor. How can I guide your practice today?"

// coachMessage is one rendered chat turn. display holds the content with
// any plan fence stripped; items holds the parsed plan when one was found.
type coachMessage struct {
	role    string
	content string
	display string
	items   []api.PlanItem
}

func newCoachMessage(role, content string) coachMessage {
	msg := coachMessage{role: role, content: content, display: content}
	if role == api.RoleAssistant {
		if items, clean, ok := plan.Extract(content); ok {
			msg.items = items
			msg.display = strings.TrimSpace(clean)
		}
	}
	return msg
}

type coachReplyMsg struct {
	gen   int
	reply string
	err   error
}

type coachHistoryMsg struct {
	gen     int
	records []api.ChatRecord
}

type coachEndedMsg struct {
	err error
}

type planApprovedMsg struct {
	err error
}

// coachModel is the conversational mentor: an in-memory message list keyed
// by a client-generated conversation id, with plan extraction and approval.
type coachModel struct {
	deps
	th theme

	gen      int
	chatID   string
	messages []coachMessage
	input    textinput.Model
	waiting  bool
	status   string
	errText  string
	spin     spinner.Model
}

func newCoachModel(d deps, th theme) coachModel {
	input := textinput.New()
	input.Placeholder = "Seek wisdom or plan your path..."
	input.CharLimit = 2000
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	return coachModel{deps: d, th: th, chatID: uuid.NewString(), input: input, spin: spin}
}

// ChatID exposes the current conversation id.
func (m coachModel) ChatID() string { return m.chatID }

func (m *coachModel) mount() tea.Cmd {
	// A reply that arrived while another view was active was dropped;
	// remounting must not leave the input refusing to send.
	m.waiting = false
	return tea.Batch(m.refetchHistory(), m.input.Focus())
}

// refetchHistory reloads stored consultations. The flattened rows only
// seed the display when no live conversation is in progress.
func (m *coachModel) refetchHistory() tea.Cmd {
	m.gen++
	gen := m.gen
	client := m.client
	log := m.log
	return func() tea.Msg {
		records, err := client.CoachHistory(context.Background())
		if err != nil {
			log.Warn("coach history fetch failed", "error", err)
			records = nil
		}
		return coachHistoryMsg{gen: gen, records: records}
	}
}

// flattenHistory turns stored records into alternating user/assistant turns.
func flattenHistory(records []api.ChatRecord) []coachMessage {
	messages := make([]coachMessage, 0, len(records)*2)
	for _, r := range records {
		messages = append(messages, newCoachMessage(api.RoleUser, r.UserQuery))
		if r.BotResponse != "" {
			messages = append(messages, newCoachMessage(api.RoleAssistant, r.BotResponse))
		}
	}
	return messages
}

func (m coachModel) send() (coachModel, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" || m.waiting {
		return m, nil
	}
	m.messages = append(m.messages, newCoachMessage(api.RoleUser, text))
	m.input.SetValue("")
	m.waiting = true
	m.status = ""
	m.errText = ""
	m.gen++
	gen := m.gen

	outbound := make([]api.ChatMessage, len(m.messages))
	for i, msg := range m.messages {
		outbound[i] = api.ChatMessage{Role: msg.role, Content: msg.content}
	}
	chatID := m.chatID
	client := m.client
	cmd := func() tea.Msg {
		reply, err := client.Chat(context.Background(), chatID, outbound)
		return coachReplyMsg{gen: gen, reply: reply, err: err}
	}
	return m, tea.Batch(cmd, m.spin.Tick)
}

func (m coachModel) endChat() (coachModel, tea.Cmd) {
	if len(m.messages) == 0 {
		return m, nil
	}
	chatID := m.chatID
	client := m.client
	b := m.bus
	log := m.log
	cmd := func() tea.Msg {
		err := client.EndChat(context.Background(), chatID)
		if err != nil {
			log.Warn("end chat failed", "chat_id", chatID, "error", err)
		}
		b.Publish(bus.Event{Signal: bus.RefreshChats})
		return coachEndedMsg{err: err}
	}
	return m, cmd
}

// latestPlan returns the most recent assistant plan, or nil.
func (m coachModel) latestPlan() []api.PlanItem {
	for i := len(m.messages) - 1; i >= 0; i-- {
		if len(m.messages[i].items) > 0 {
			return m.messages[i].items
		}
	}
	return nil
}

func (m coachModel) approvePlan() (coachModel, tea.Cmd) {
	items := m.latestPlan()
	if items == nil {
		return m, nil
	}
	client := m.client
	b := m.bus
	cmd := func() tea.Msg {
		err := client.ApprovePlan(context.Background(), items)
		if err == nil {
			b.Publish(bus.Event{Signal: bus.RefreshCalendar})
		}
		return planApprovedMsg{err: err}
	}
	return m, cmd
}

func (m coachModel) Update(msg tea.Msg) (coachModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			return m.send()
		case "ctrl+e":
			return m.endChat()
		case "ctrl+p":
			return m.approvePlan()
		}

	case coachHistoryMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		if len(m.messages) == 0 {
			if history := flattenHistory(msg.records); len(history) > 0 {
				m.messages = history
			} else {
				m.messages = []coachMessage{newCoachMessage(api.RoleAssistant, coachGreeting)}
			}
		}
		return m, nil

	case coachReplyMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.waiting = false
		if msg.err != nil {
			m.errText = errorText(msg.err)
			return m, nil
		}
		m.messages = append(m.messages, newCoachMessage(api.RoleAssistant, msg.reply))
		return m, nil

	case coachEndedMsg:
		// Local state clears regardless of the backend outcome; the old
		// conversation id is never reused.
		m.messages = nil
		m.chatID = uuid.NewString()
		m.status = "Session ended. A new path awaits."
		return m, nil

	case planApprovedMsg:
		if msg.err != nil {
			m.errText = errorText(msg.err)
			return m, nil
		}
		m.status = "The flow has been synchronized with your path."
		return m, nil

	case spinner.TickMsg:
		if m.waiting {
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

func (m coachModel) View() string {
	var b strings.Builder
	b.WriteString(m.th.title.Render("Flow AI Coach") + "\n\n")

	for _, msg := range m.messages {
		style := m.th.botMsg
		who := "Mentor"
		if msg.role == api.RoleUser {
			style = m.th.userMsg
			who = "You"
		}
		b.WriteString(m.th.label.Render(who) + "\n")
		b.WriteString(style.Render(truncate(msg.display, 400)) + "\n")
		if len(msg.items) > 0 {
			b.WriteString(m.th.accent.Render("Digital Flow Plan") + m.th.muted.Render("  (ctrl+p approves & syncs)") + "\n")
			for _, item := range msg.items {
				b.WriteString("  • " + m.th.value.Render(item.Title) + "  " + m.th.muted.Render(formatDate(item.PlannedDate)) + "\n")
			}
		}
	}

	if m.waiting {
		b.WriteString(m.spin.View() + " The mentor is reflecting...\n")
	}
	switch {
	case m.errText != "":
		b.WriteString(m.th.errText.Render(m.errText) + "\n")
	case m.status != "":
		b.WriteString(m.th.okText.Render(m.status) + "\n")
	}

	b.WriteString("\n" + m.input.View() + "\n")
	b.WriteString(m.th.muted.Render("enter to send • ctrl+e ends the session") + "\n")
	return b.String()
}
