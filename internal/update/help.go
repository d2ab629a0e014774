package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"

	"github.com/sandeepkv93/mytodo/internal/views"
)

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (m Model) renderHelpView() string {
	bindings := m.helpBindings()
	var plain []string
	for _, kb := range m.paneBindings() {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	return views.RenderHelpPanel(views.HelpPanelData{
		Bindings: plain,
		HelpView: m.helpModel.View(helpKeyMap{
			short: bindings,
			full:  [][]key.Binding{bindings},
		}),
	})
}

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: m.Keys.QuickAdd, Action: "quick add"},
		{Key: m.Keys.NewTask, Action: "new task"},
		{Key: m.Keys.NewList, Action: "new list"},
		{Key: m.Keys.Search, Action: "search"},
		{Key: m.Keys.Palette, Action: "command palette"},
		{Key: m.Keys.ClearCompleted, Action: "clear finished"},
		{Key: "1-6", Action: "jump to category"},
		{Key: m.Keys.SwitchPane, Action: "switch pane"},
		{Key: m.Keys.Help, Action: "toggle help"},
		{Key: m.Keys.Quit, Action: "quit"},
	}
}

func (m Model) paneBindings() []KeyBinding {
	if m.Focus == PaneSidebar {
		return []KeyBinding{
			{Key: "j/k", Action: "move"},
			{Key: "enter", Action: "show category or list"},
			{Key: m.Keys.Delete, Action: "delete list"},
		}
	}
	return []KeyBinding{
		{Key: "j/k", Action: "move"},
		{Key: "space", Action: "toggle finished"},
		{Key: m.Keys.Edit + "/enter", Action: "edit"},
		{Key: m.Keys.Delete, Action: "delete task"},
		{Key: "esc", Action: "clear search"},
	}
}

func (m Model) helpBindings() []key.Binding {
	out := make([]key.Binding, 0, len(m.globalBindings())+len(m.paneBindings()))
	for _, kb := range m.globalBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	for _, kb := range m.paneBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}
