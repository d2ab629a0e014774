package update

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"go.uber.org/zap"

	"github.com/sandeepkv93/mytodo/internal/model"
	"github.com/sandeepkv93/mytodo/internal/views"
)

func (m *Model) syncBubbleData() {
	today := m.Store.Today()
	tasks := m.Store.FilteredTasks()
	rows := make([]table.Row, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, table.Row{checkMark(t), t.Title, formatDue(*t, today), string(t.Priority), listLabel(*t)})
	}
	m.taskTable.SetRows(rows)
	if len(rows) > 0 {
		m.taskTable.SetCursor(m.TaskCursor)
	}
	if m.Focus == PaneTasks && m.Mode == ModeNormal {
		m.taskTable.Focus()
	} else {
		m.taskTable.Blur()
	}

	if t, ok := m.selectedTask(); ok {
		m.detailView.SetContent(views.RenderMarkdown(t.Description, m.MarkdownStyle, m.detailView.Width))
	} else {
		m.detailView.SetContent("")
	}
}

func (m *Model) resize(width, height int) {
	if height > 12 {
		m.taskTable.SetHeight(height - 10)
		m.detailView.Height = (height - 10) / 2
	}
	if width > 100 {
		m.doneProgress.Width = width / 5
	}
}

func (m Model) renderTaskList() string {
	nav, active := m.Store.Filter()
	title := nav.Label()
	if active != nil {
		title = *active
	}
	tasks := m.Store.FilteredTasks()
	title = fmt.Sprintf("%s (%d)", title, len(tasks))

	input := ""
	switch m.Mode {
	case ModeQuickAdd:
		input = m.quickAddInput.View()
	case ModeSearch:
		input = m.searchInput.View()
	case ModePalette:
		input = views.RenderCommandPalette(true, m.commandInput.View())
	}
	return views.RenderTaskList(views.TaskListData{
		Title:     title,
		Focused:   m.Focus == PaneTasks,
		TableView: m.taskTable.View(),
		Empty:     len(tasks) == 0,
		Input:     input,
	})
}

func (m Model) renderDetail() string {
	t, ok := m.selectedTask()
	if !ok {
		return views.RenderDetail(views.DetailData{})
	}
	today := m.Store.Today()
	return views.RenderDetail(views.DetailData{
		Title:       t.Title,
		Priority:    string(t.Priority),
		Due:         formatDue(*t, today),
		List:        listLabel(*t),
		Completed:   t.Completed,
		Important:   t.Important,
		Overdue:     t.Overdue(today),
		Description: m.detailView.View(),
	})
}

// renderProgress shows how many tasks are finished overall.
func (m Model) renderProgress() string {
	c := m.Store.CountsByCategory()
	if c.All == 0 {
		return ""
	}
	ratio := float64(c.Finished) / float64(c.All)
	return fmt.Sprintf("%s %d/%d done", m.doneProgress.ViewAs(ratio), c.Finished, c.All)
}

func (m Model) renderNotificationsView() string {
	if len(m.Notifications) == 0 {
		return ""
	}
	n := m.Notifications[len(m.Notifications)-1]
	return views.RenderNotification(n.Level, n.Body)
}

func (m *Model) notify(title, body, level string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	n := Notification{
		Title: title,
		Body:  body,
		Level: level,
		At:    time.Now(),
	}
	m.Notifications = append(m.Notifications, n)
	if len(m.Notifications) > 40 {
		m.Notifications = m.Notifications[len(m.Notifications)-40:]
	}
	if m.DesktopEnabled && m.notifier != nil {
		if err := m.notifier.Send(n); err != nil {
			m.log.Debug("desktop notification failed", zap.Error(err))
		}
	}
}

func checkMark(t *model.Task) string {
	switch {
	case t.Completed:
		return "[x]"
	case t.Important:
		return "[!]"
	default:
		return "[ ]"
	}
}

func listLabel(t model.Task) string {
	if t.ListName == nil {
		return model.UnlistedLabel
	}
	return *t.ListName
}

// formatDue renders the due date relative to today when close.
func formatDue(t model.Task, today model.Date) string {
	if t.DueDate == nil {
		return ""
	}
	var day string
	switch *t.DueDate {
	case today:
		day = "Today"
	case today.AddDays(1):
		day = "Tomorrow"
	case today.AddDays(-1):
		day = "Yesterday"
	default:
		day = t.DueDate.String()
	}
	if t.DueTime != nil {
		return day + " " + t.DueTime.String()
	}
	return day
}
