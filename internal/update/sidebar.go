package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/mytodo/internal/model"
	"github.com/sandeepkv93/mytodo/internal/store"
	"github.com/sandeepkv93/mytodo/internal/views"
)

// sidebarItem is either a fixed category or a user list.
type sidebarItem struct {
	filter store.NavFilter
	list   *model.List
}

func (m Model) sidebarItems() []sidebarItem {
	lists := m.Store.Lists()
	out := make([]sidebarItem, 0, len(store.Categories)+len(lists))
	for _, f := range store.Categories {
		out = append(out, sidebarItem{filter: f})
	}
	for _, l := range lists {
		out = append(out, sidebarItem{filter: store.FilterList, list: l})
	}
	return out
}

func (m Model) sidebarIndexOf(f store.NavFilter) int {
	for i, item := range m.sidebarItems() {
		if item.list == nil && item.filter == f {
			return i
		}
	}
	return 0
}

func (m Model) handleSidebarKey(msg tea.KeyMsg) Model {
	items := m.sidebarItems()
	switch msg.String() {
	case "up", "k":
		if m.SidebarCursor > 0 {
			m.SidebarCursor--
		}
	case "down", "j":
		if m.SidebarCursor < len(items)-1 {
			m.SidebarCursor++
		}
	case "enter", "l", "right":
		m = m.selectSidebarItem()
		m.Focus = PaneTasks
	case m.Keys.Delete:
		if m.SidebarCursor < len(items) && items[m.SidebarCursor].list != nil {
			m = m.confirmDeleteList(items[m.SidebarCursor].list)
		}
	}
	return m
}

func (m Model) selectSidebarItem() Model {
	items := m.sidebarItems()
	if m.SidebarCursor < 0 || m.SidebarCursor >= len(items) {
		return m
	}
	item := items[m.SidebarCursor]
	if item.list != nil {
		m.Store.SetListFilter(item.list.Name)
	} else {
		m.Store.SetNavFilter(item.filter)
	}
	m.TaskCursor = 0
	return m
}

// syncSidebarCursor moves the cursor onto the active filter after it was
// changed from somewhere other than the sidebar.
func (m *Model) syncSidebarCursor() {
	nav, active := m.Store.Filter()
	for i, item := range m.sidebarItems() {
		if nav == store.FilterList && item.list != nil && active != nil && item.list.Name == *active {
			m.SidebarCursor = i
			return
		}
		if nav != store.FilterList && item.list == nil && item.filter == nav {
			m.SidebarCursor = i
			return
		}
	}
}

func (m Model) renderSidebar() string {
	counts := m.Store.CountsByCategory()
	nav, active := m.Store.Filter()
	entries := make([]views.SidebarEntry, 0)
	for i, item := range m.sidebarItems() {
		if i == len(store.Categories) {
			entries = append(entries, views.SidebarEntry{Label: "Lists", Heading: true})
		}
		entry := views.SidebarEntry{Cursor: i == m.SidebarCursor}
		if item.list != nil {
			entry.Label = item.list.Name
			entry.Icon = listIcon(*item.list)
			entry.Count = m.Store.CountForList(item.list.Name)
			entry.Selected = nav == store.FilterList && active != nil && *active == item.list.Name
		} else {
			entry.Label = item.filter.Label()
			entry.Count = counts.For(item.filter)
			entry.Selected = nav == item.filter
		}
		entries = append(entries, entry)
	}
	if len(m.Store.Lists()) == 0 {
		entries = append(entries, views.SidebarEntry{Label: fmt.Sprintf("Lists (press %s to add)", m.Keys.NewList), Heading: true})
	}
	return views.RenderSidebar(views.SidebarData{Focused: m.Focus == PaneSidebar, Entries: entries})
}

// listIcon marks lists that carry a custom icon; terminals cannot show the
// image itself.
func listIcon(l model.List) string {
	if l.IconPath != nil {
		return "◆"
	}
	return "•"
}
