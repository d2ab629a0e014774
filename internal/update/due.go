package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/sandeepkv93/mytodo/internal/scheduler"
)

func waitForEventCmd(ch <-chan scheduler.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return DueMsg{Event: ev}
	}
}

// reschedule rebuilds the due schedule from the store.
func (m *Model) reschedule() {
	if m.Scheduler == nil {
		return
	}
	events := scheduler.DueEvents(m.Store.Tasks(), m.Store.Now())
	if err := m.Scheduler.Reset(events); err != nil {
		m.log.Warn("reschedule failed", zap.Error(err))
	}
}

func (m Model) applyDueEvent(ev scheduler.Event) Model {
	m.DueLog = append(m.DueLog, ev)
	if len(m.DueLog) > 20 {
		m.DueLog = m.DueLog[len(m.DueLog)-20:]
	}
	switch ev.Kind {
	case scheduler.KindRollover:
		m.Status = StatusBar{Text: fmt.Sprintf("new day: %s", m.Store.Today())}
		m = m.afterStoreChange()
	case scheduler.KindDue:
		m.Status = StatusBar{Text: fmt.Sprintf("due now: %s", ev.Title)}
		m.notify("Task due", ev.Title, "info")
	}
	return m
}
