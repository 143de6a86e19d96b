package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parisxmas/OxiDB/OxiPortal/internal/service"
)

func newTestModel(t *testing.T) (ChatModel, *service.ChatSession) {
	t.Helper()
	n := NewNotifier()
	cfg := service.DefaultChatConfig()
	cfg.ReplyDelay = 10 * time.Millisecond
	s := service.NewChatSession(service.EchoResponder{}, cfg, service.WithOnChange(n.Notify))
	t.Cleanup(func() {
		s.Close()
		n.Close()
	})
	return NewChatModel(s, n), s
}

func typeText(m ChatModel, text string) ChatModel {
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return next.(ChatModel)
}

func press(m ChatModel, k tea.KeyType) (ChatModel, tea.Cmd) {
	next, cmd := m.Update(tea.KeyMsg{Type: k})
	return next.(ChatModel), cmd
}

func TestChatModelShowsGreeting(t *testing.T) {
	m, _ := newTestModel(t)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 200})
	assert.Contains(t, next.View(), "Assistant: "+service.DefaultGreeting)
}

func TestChatModelWrapsToWidth(t *testing.T) {
	m, _ := newTestModel(t)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 40})
	view := next.View()
	assert.NotContains(t, view, service.DefaultGreeting)
	assert.Contains(t, strings.Join(strings.Fields(view), " "), service.DefaultGreeting)
}

func TestChatModelTypingGoesToSession(t *testing.T) {
	m, s := newTestModel(t)
	m = typeText(m, "Helo")
	m, _ = press(m, tea.KeyBackspace)
	m = typeText(m, "lo")

	in, err := s.Input()
	require.NoError(t, err)
	assert.Equal(t, "Hello", in)
	assert.Contains(t, m.View(), "> Hello")
}

func TestChatModelSendAndReply(t *testing.T) {
	m, s := newTestModel(t)
	m = typeText(m, "Hello")
	m, _ = press(m, tea.KeyEnter)

	assert.Contains(t, m.View(), "You: Hello")
	assert.Empty(t, m.view.Input)

	// Drive the change notification the way the program would.
	require.Eventually(t, func() bool {
		msgs, err := s.Messages()
		return err == nil && len(msgs) == 3
	}, 2*time.Second, 5*time.Millisecond)
	next, cmd := m.Update(changedMsg{})
	m = next.(ChatModel)
	assert.NotNil(t, cmd)
	assert.Contains(t, m.View(), "You said: Hello")
	assert.False(t, strings.Contains(m.View(), "typing"))
}

func TestChatModelQuit(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := press(m, tea.KeyEsc)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestNotifierCollapsesBursts(t *testing.T) {
	n := NewNotifier()
	n.Notify()
	n.Notify()
	n.Notify()
	assert.Equal(t, changedMsg{}, n.wait()())

	n.Close()
	assert.Nil(t, n.wait()())
}
