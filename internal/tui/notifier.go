package tui

import tea "github.com/charmbracelet/bubbletea"

type changedMsg struct{}

// Notifier turns session change callbacks into tea messages. Notify never
// blocks, so it is safe to pass to service.WithOnChange; bursts of changes
// collapse into one redraw.
type Notifier struct {
	ch   chan struct{}
	done chan struct{}
}

func NewNotifier() *Notifier {
	return &Notifier{ch: make(chan struct{}, 1), done: make(chan struct{})}
}

func (n *Notifier) Notify() {
	select {
	case n.ch <- struct{}{}:
	default:
	}
}

// Close releases a pending wait.
func (n *Notifier) Close() { close(n.done) }

func (n *Notifier) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-n.ch:
			return changedMsg{}
		case <-n.done:
			return nil
		}
	}
}
