package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/sandeepkv93/mytodo/internal/model"
	"github.com/sandeepkv93/mytodo/internal/views"
)

const (
	ButtonOK     = "OK"
	ButtonCancel = "Cancel"
	ButtonDelete = "Delete"
)

// Dialog is the one modal used for every confirmation and message.
type Dialog struct {
	Title   string
	Header  string
	Content string
	Buttons []string
}

type dialogState struct {
	id      string
	dialog  Dialog
	cursor  int
	onClose func(m Model, button string) Model
}

// showDialog opens d. onClose receives the chosen button, or "" when the
// dialog is dismissed with esc.
func (m Model) showDialog(id string, d Dialog, onClose func(Model, string) Model) Model {
	if len(d.Buttons) == 0 {
		d.Buttons = []string{ButtonOK}
	}
	m.dialog = &dialogState{id: id, dialog: d, onClose: onClose}
	m.Mode = ModeDialog
	return m
}

func (m Model) handleDialogKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	ds := m.dialog
	if ds == nil {
		m.Mode = ModeNormal
		return m, nil
	}
	switch msg.String() {
	case "left", "h", "shift+tab":
		if ds.cursor > 0 {
			ds.cursor--
		}
	case "right", "l", "tab":
		if ds.cursor < len(ds.dialog.Buttons)-1 {
			ds.cursor++
		}
	case "enter":
		return m.closeDialog(ds.dialog.Buttons[ds.cursor])
	case "esc":
		return m.closeDialog("")
	}
	return m, nil
}

func (m Model) closeDialog(button string) (Model, tea.Cmd) {
	ds := m.dialog
	m.dialog = nil
	m.Mode = ModeNormal
	if ds.onClose != nil {
		m = ds.onClose(m, button)
	}
	id := ds.id
	return m, func() tea.Msg { return DialogResultMsg{ID: id, Button: button} }
}

func (m Model) renderDialog() string {
	if m.dialog == nil {
		return ""
	}
	d := m.dialog.dialog
	return views.RenderDialog(views.DialogData{
		Title:   d.Title,
		Header:  d.Header,
		Content: d.Content,
		Buttons: d.Buttons,
		Cursor:  m.dialog.cursor,
	})
}

func (m Model) confirmDeleteTask(t *model.Task) Model {
	return m.showDialog("delete-task", Dialog{
		Title:   "Delete task",
		Header:  fmt.Sprintf("Delete %q?", t.Title),
		Content: "This cannot be undone.",
		Buttons: []string{ButtonDelete, ButtonCancel},
	}, func(m Model, button string) Model {
		if button != ButtonDelete {
			return m
		}
		if m.Store.DeleteTask(t) {
			m.Status = StatusBar{Text: fmt.Sprintf("deleted: %s", t.Title)}
		}
		return m.afterStoreChange()
	})
}

func (m Model) confirmDeleteList(l *model.List) Model {
	n := m.Store.CountForList(l.Name)
	return m.showDialog("delete-list", Dialog{
		Title:   "Delete list",
		Header:  fmt.Sprintf("Delete list %q?", l.Name),
		Content: fmt.Sprintf("%d task(s) will move to %s.", n, model.UnlistedLabel),
		Buttons: []string{ButtonDelete, ButtonCancel},
	}, func(m Model, button string) Model {
		if button != ButtonDelete {
			return m
		}
		if m.Store.DeleteList(l) {
			m.Status = StatusBar{Text: fmt.Sprintf("deleted list: %s", l.Name)}
		}
		m.syncSidebarCursor()
		return m.afterStoreChange()
	})
}

func (m Model) confirmClearCompleted() Model {
	n := m.Store.CountsByCategory().Finished
	if n == 0 {
		m.Status = StatusBar{Text: "no finished tasks"}
		return m
	}
	return m.showDialog("clear-completed", Dialog{
		Title:   "Clear finished",
		Header:  fmt.Sprintf("Delete %d finished task(s)?", n),
		Buttons: []string{ButtonDelete, ButtonCancel},
	}, func(m Model, button string) Model {
		if button != ButtonDelete {
			return m
		}
		removed := m.Store.DeleteCompleted()
		m.Status = StatusBar{Text: fmt.Sprintf("cleared %d finished task(s)", removed)}
		return m.afterStoreChange()
	})
}

// showError reports err in a one-button dialog.
func (m Model) showError(title string, err error) Model {
	m.LastError = err
	m.log.Warn(title, zap.Error(err))
	return m.showDialog("error", Dialog{
		Title:   title,
		Header:  err.Error(),
		Buttons: []string{ButtonOK},
	}, nil)
}
