package messages

import (
	tea "github.com/charmbracelet/bubbletea"

	"jetnotes/internal/dispatch"
)

// DispatchMsg carries a continuation posted by the view-model. The root model
// runs Fn inside Update, so all state changes happen on the UI goroutine.
type DispatchMsg struct {
	Fn func()
}

// WaitForDispatch blocks until the queue has work or is closed
func WaitForDispatch(q *dispatch.Queue) tea.Cmd {
	return func() tea.Msg {
		select {
		case fn := <-q.C():
			return DispatchMsg{Fn: fn}
		case <-q.Done():
			return nil
		}
	}
}
