package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/mytodo/internal/commands"
	"github.com/sandeepkv93/mytodo/internal/model"
	"github.com/sandeepkv93/mytodo/internal/store"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m = m.closePalette()
		m.Status = StatusBar{Text: "command palette closed"}
	case "enter":
		m = m.executePaletteCommand(m.commandInput.Value())
	default:
		var cmd tea.Cmd
		m.commandInput, cmd = m.commandInput.Update(msg)
		_ = cmd
	}
	return m
}

func (m Model) closePalette() Model {
	if m.Mode == ModePalette {
		m.Mode = ModeNormal
	}
	m.commandInput.SetValue("")
	m.commandInput.Blur()
	return m
}

func (m Model) executePaletteCommand(raw string) Model {
	m = m.closePalette()
	cmd, err := commands.Parse(strings.TrimSpace(raw))
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m
	}

	// Confirmations open a dialog from inside a handler, so handlers write
	// to m directly.
	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			t, err := m.Store.AddTask(model.QuickDraft(a.Title))
			if t == nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("added: %s", t.Title)}, err
		},
		Search: func(s commands.SearchArgs) (commands.Result, error) {
			m.Store.SetSearchText(s.Text)
			m.searchInput.SetValue(s.Text)
			m.TaskCursor = 0
			if strings.TrimSpace(s.Text) == "" {
				return commands.Result{Message: "search cleared"}, nil
			}
			return commands.Result{Message: fmt.Sprintf("search: %s", s.Text)}, nil
		},
		Show: func(s commands.ShowArgs) (commands.Result, error) {
			f, err := store.ParseNavFilter(s.Subject)
			if err != nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: err.Error()}
			}
			m.Store.SetNavFilter(f)
			m.TaskCursor = 0
			m.syncSidebarCursor()
			return commands.Result{Message: fmt.Sprintf("showing %s", f.Label())}, nil
		},
		List: func(l commands.ListArgs) (commands.Result, error) {
			var icon *string
			if l.Icon != "" {
				icon = model.StringPtr(l.Icon)
			}
			created, err := m.Store.AddList(l.Name, icon)
			if created == nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("list added: %s", created.Name)}, err
		},
		Unlist: func(u commands.UnlistArgs) (commands.Result, error) {
			l := m.Store.FindList(u.Name)
			if l == nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("no list named %q", u.Name)}
			}
			m = m.confirmDeleteList(l)
			return commands.Result{Message: fmt.Sprintf("confirm deleting list %s", l.Name)}, nil
		},
		Clear: func() (commands.Result, error) {
			m = m.confirmClearCompleted()
			if m.Mode != ModeDialog {
				return commands.Result{Message: m.Status.Text}, nil
			}
			return commands.Result{Message: "confirm clearing finished tasks"}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.notify("Command failed", err.Error(), "error")
		return m.afterStoreChange()
	}
	m.Status = StatusBar{Text: res.Message}
	return m.afterStoreChange()
}
