// Package tui renders a chat session in the terminal.
package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/parisxmas/OxiDB/OxiPortal/internal/models"
	"github.com/parisxmas/OxiDB/OxiPortal/internal/service"
)

// ChatModel is a bubbletea model over a ChatSession. It keeps no chat
// state of its own: keystrokes go to the session's input buffer and the
// screen is redrawn from the session's view after every change.
type ChatModel struct {
	session  *service.ChatSession
	notifier *Notifier
	view     service.ChatView
	err      error
	width    int
}

// NewChatModel wraps s. notifier must be the one registered with s through
// service.WithOnChange(notifier.Notify).
func NewChatModel(s *service.ChatSession, notifier *Notifier) ChatModel {
	m := ChatModel{session: s, notifier: notifier, width: 80}
	m.refresh()
	return m
}

func (m ChatModel) Init() tea.Cmd {
	return m.notifier.wait()
}

func (m ChatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case changedMsg:
		m.refresh()
		return m, m.notifier.wait()
	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	return m, nil
}

func (m ChatModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyEnter:
		_, m.err = m.session.SendInput()
	case tea.KeyBackspace:
		in := []rune(m.view.Input)
		if len(in) > 0 {
			m.err = m.session.SetInput(string(in[:len(in)-1]))
		}
	case tea.KeySpace:
		m.err = m.session.SetInput(m.view.Input + " ")
	case tea.KeyRunes:
		m.err = m.session.SetInput(m.view.Input + string(msg.Runes))
	default:
		return m, nil
	}
	m.refresh()
	return m, nil
}

func (m *ChatModel) refresh() {
	v, err := m.session.View()
	if err != nil {
		m.err = err
		return
	}
	m.view = v
}

func (m ChatModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("AICTE Approval Assistant"))
	b.WriteString("\n\n")

	wrap := lipgloss.NewStyle().Width(max(m.width-4, 20))
	for _, msg := range m.view.Messages {
		b.WriteString(renderMessage(msg, wrap))
		b.WriteString("\n")
	}
	if m.view.Pending > 0 {
		b.WriteString(hintStyle.Render("Assistant is typing..."))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(inputStyle.Width(max(m.width-4, 20)).Render("> " + m.view.Input + "█"))
	b.WriteString("\n")
	b.WriteString(hintStyle.Render("enter send • esc quit"))
	return b.String()
}

func renderMessage(msg models.ChatMessage, wrap lipgloss.Style) string {
	label := assistantLabel.Render("Assistant")
	if msg.Role == models.RoleUser {
		label = userLabel.Render("You")
	}
	body := messageStyle.Render(msg.Content)
	if msg.Error {
		body = errorStyle.Render(msg.Content)
	}
	return wrap.Render(label + ": " + body)
}
