package update

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/sandeepkv93/mytodo/internal/model"
	"github.com/sandeepkv93/mytodo/internal/scheduler"
	"github.com/sandeepkv93/mytodo/internal/store"
	"github.com/sandeepkv93/mytodo/internal/views"
)

func (m Model) Init() tea.Cmd {
	if m.Scheduler != nil {
		return waitForEventCmd(m.Scheduler.C())
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	next.syncBubbleData()
	return next, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if typed.String() == "ctrl+c" {
			m.Quitting = true
			return m, tea.Quit
		}
		switch m.Mode {
		case ModeDialog:
			return m.handleDialogKey(typed)
		case ModeForm:
			return m.handleFormKey(typed)
		case ModeListForm:
			return m.handleListFormKey(typed)
		case ModePalette:
			return m.handlePaletteKey(typed), nil
		case ModeQuickAdd:
			return m.handleQuickAddKey(typed)
		case ModeSearch:
			return m.handleSearchKey(typed)
		}
		return m.handleNormalKey(typed)
	case tea.WindowSizeMsg:
		m.resize(typed.Width, typed.Height)
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			m.notify("Error", typed.Err.Error(), "error")
		}
		return m, nil
	case DueMsg:
		m = m.applyDueEvent(typed.Event)
		if m.Scheduler != nil {
			return m, waitForEventCmd(m.Scheduler.C())
		}
		return m, nil
	case DialogResultMsg:
		m.log.Debug("dialog closed", zap.String("id", typed.ID), zap.String("button", typed.Button))
		return m, nil
	}

	return m, nil
}

func (m Model) handleNormalKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	keyStr := msg.String()
	switch keyStr {
	case m.Keys.Quit:
		m.Quitting = true
		return m, tea.Quit
	case m.Keys.Help:
		m.HelpVisible = !m.HelpVisible
		return m, nil
	case m.Keys.SwitchPane:
		if m.Focus == PaneTasks {
			m.Focus = PaneSidebar
		} else {
			m.Focus = PaneTasks
		}
		return m, nil
	case m.Keys.Palette:
		m.Mode = ModePalette
		m.commandInput.SetValue("")
		m.commandInput.Focus()
		m.Status = StatusBar{Text: "command palette active"}
		return m, nil
	case m.Keys.QuickAdd:
		m.Mode = ModeQuickAdd
		m.quickAddInput.SetValue("")
		m.quickAddInput.Focus()
		return m, nil
	case m.Keys.Search:
		m.Mode = ModeSearch
		m.searchInput.SetValue(m.Store.SearchText())
		m.searchInput.CursorEnd()
		m.searchInput.Focus()
		return m, nil
	case m.Keys.NewTask:
		return m.openTaskForm(nil), nil
	case m.Keys.NewList:
		return m.openListForm(), nil
	case m.Keys.ClearCompleted:
		return m.confirmClearCompleted(), nil
	case "esc":
		if m.Store.SearchText() != "" {
			m.Store.SetSearchText("")
			m.TaskCursor = 0
			m.Status = StatusBar{Text: "search cleared"}
		}
		return m, nil
	}
	if len(keyStr) == 1 && keyStr >= "1" && keyStr <= "6" {
		f := store.Categories[int(keyStr[0]-'1')]
		m.Store.SetNavFilter(f)
		m.TaskCursor = 0
		m.syncSidebarCursor()
		return m, nil
	}

	if m.Focus == PaneSidebar {
		return m.handleSidebarKey(msg), nil
	}
	return m.handleTaskKey(msg), nil
}

func (m Model) handleTaskKey(msg tea.KeyMsg) Model {
	n := len(m.Store.FilteredTasks())
	switch msg.String() {
	case "up", "k":
		if m.TaskCursor > 0 {
			m.TaskCursor--
		}
	case "down", "j":
		if m.TaskCursor < n-1 {
			m.TaskCursor++
		}
	case "home", "g":
		m.TaskCursor = 0
	case "end", "G":
		if n > 0 {
			m.TaskCursor = n - 1
		}
	case "left", "h":
		m.Focus = PaneSidebar
	case m.Keys.Toggle, "x":
		if t, ok := m.selectedTask(); ok {
			m.Store.ToggleCompleted(t)
			state := "pending"
			if t.Completed {
				state = "finished"
			}
			m.Status = StatusBar{Text: fmt.Sprintf("%s: %s", state, t.Title)}
			m = m.afterStoreChange()
		}
	case m.Keys.Edit, "enter":
		if t, ok := m.selectedTask(); ok {
			return m.openTaskForm(t)
		}
	case m.Keys.Delete:
		if t, ok := m.selectedTask(); ok {
			return m.confirmDeleteTask(t)
		}
	}
	return m
}

func (m Model) handleQuickAddKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Mode = ModeNormal
		m.quickAddInput.Blur()
		m.quickAddInput.SetValue("")
		return m, nil
	case "enter":
		title := strings.TrimSpace(m.quickAddInput.Value())
		m.quickAddInput.SetValue("")
		if title == "" {
			m.Mode = ModeNormal
			m.quickAddInput.Blur()
			return m, nil
		}
		return m.quickAdd(title), nil
	}
	var cmd tea.Cmd
	m.quickAddInput, cmd = m.quickAddInput.Update(msg)
	return m, cmd
}

// quickAdd adds title with the quick-add defaults and keeps the input open
// for the next entry.
func (m Model) quickAdd(title string) Model {
	t, err := m.Store.AddTask(model.QuickDraft(title))
	if t == nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m
	}
	m.Status = StatusBar{Text: fmt.Sprintf("added: %s", t.Title)}
	m = m.afterStoreChange()
	if err != nil {
		return m.showError("Save failed", err)
	}
	return m
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Mode = ModeNormal
		m.searchInput.Blur()
		m.Store.SetSearchText("")
		m.searchInput.SetValue("")
		m.TaskCursor = 0
		return m, nil
	case "enter":
		m.Mode = ModeNormal
		m.searchInput.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if m.searchInput.Value() != m.Store.SearchText() {
		m.Store.SetSearchText(m.searchInput.Value())
		m.TaskCursor = 0
	}
	return m, cmd
}

// afterStoreChange refreshes everything derived from the store and surfaces
// a failed save.
func (m Model) afterStoreChange() Model {
	if n := len(m.Store.FilteredTasks()); m.TaskCursor >= n {
		m.TaskCursor = n - 1
	}
	if m.TaskCursor < 0 {
		m.TaskCursor = 0
	}
	if items := m.sidebarItems(); m.SidebarCursor >= len(items) {
		m.SidebarCursor = len(items) - 1
	}
	m.reschedule()
	if err := m.sink.err; err != nil {
		m.sink.err = nil
		m.LastError = err
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.log.Error("store change not saved", zap.Error(err))
	}
	return m
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	overlay := ""
	switch m.Mode {
	case ModeDialog:
		overlay = m.renderDialog()
	case ModeForm:
		overlay = m.renderForm()
	case ModeListForm:
		overlay = m.renderListForm()
	default:
		if m.HelpVisible {
			overlay = m.renderHelpView()
		}
	}

	notificationView := strings.TrimSpace(strings.Join([]string{
		m.renderLastDue(),
		m.renderNotificationsView(),
	}, "\n"))

	return views.RenderApp(views.AppData{
		Header:         m.renderHeader(),
		Progress:       m.renderProgress(),
		Sidebar:        m.renderSidebar(),
		Main:           m.renderTaskList(),
		Detail:         m.renderDetail(),
		Overlay:        overlay,
		StatusLine:     status,
		StatusError:    m.Status.IsError,
		Notification:   notificationView,
		SidebarFocused: m.Focus == PaneSidebar,
		Footer: fmt.Sprintf("keys: %s add | %s new | %s list | %s search | %s cmd | space done | %s delete | %s help | %s quit",
			m.Keys.QuickAdd, m.Keys.NewTask, m.Keys.NewList, m.Keys.Search, m.Keys.Palette, m.Keys.Delete, m.Keys.Help, m.Keys.Quit),
	})
}

func (m Model) renderHeader() string {
	nav, active := m.Store.Filter()
	label := nav.Label()
	if nav == store.FilterList && active != nil {
		label = *active
	}
	header := fmt.Sprintf("mytodo | %s | %s", label, m.Store.Today().In(time.Local).Format("Mon 2 Jan 2006"))
	if q := strings.TrimSpace(m.Store.SearchText()); q != "" {
		header += fmt.Sprintf(" | search: %q", q)
	}
	return header
}

func (m Model) renderLastDue() string {
	if len(m.DueLog) == 0 {
		return ""
	}
	last := m.DueLog[len(m.DueLog)-1]
	if last.Kind != scheduler.KindDue {
		return ""
	}
	return fmt.Sprintf("last-due: %s @ %s", last.Title, last.At.Format("15:04"))
}
