package update

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/mytodo/internal/model"
	"github.com/sandeepkv93/mytodo/internal/store"
	"github.com/sandeepkv93/mytodo/internal/views"
)

type formField int

const (
	fieldTitle formField = iota
	fieldDescription
	fieldDate
	fieldTime
	fieldPriority
	fieldList
	fieldCount
)

var priorities = []model.Priority{model.PriorityLow, model.PriorityNormal, model.PriorityHigh}

// taskForm edits every field of a task. editing is nil for a new task.
type taskForm struct {
	editing     *model.Task
	field       formField
	title       textinput.Model
	description textarea.Model
	date        textinput.Model
	clock       textinput.Model
	priority    int
	lists       []string
	list        int
	err         string
}

func newTaskForm(editing *model.Task, lists []*model.List) *taskForm {
	f := &taskForm{editing: editing, priority: 1}
	f.title = newFormInput("title", 256)
	f.date = newFormInput(model.DateLayout, 10)
	f.clock = newFormInput(model.ClockLayout, 5)
	f.description = textarea.New()
	f.description.SetWidth(36)
	f.description.SetHeight(4)
	f.description.ShowLineNumbers = false
	f.description.Placeholder = "Description (markdown)"

	f.lists = []string{""}
	for _, l := range lists {
		f.lists = append(f.lists, l.Name)
	}

	if editing != nil {
		d := model.DraftFrom(*editing)
		f.title.SetValue(d.Title)
		f.title.CursorEnd()
		f.description.SetValue(d.Description)
		if d.DueDate != nil {
			f.date.SetValue(d.DueDate.String())
			f.date.CursorEnd()
		}
		if d.DueTime != nil {
			f.clock.SetValue(d.DueTime.String())
			f.clock.CursorEnd()
		}
		for i, p := range priorities {
			if p == d.Priority {
				f.priority = i
			}
		}
		if d.ListName != nil {
			idx := indexOfName(f.lists, *d.ListName)
			if idx < 0 {
				f.lists = append(f.lists, *d.ListName)
				idx = len(f.lists) - 1
			}
			f.list = idx
		}
	}
	f.focus()
	return f
}

func newFormInput(placeholder string, limit int) textinput.Model {
	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = placeholder
	in.CharLimit = limit
	in.Width = 34
	return in
}

func indexOfName(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}

func (f *taskForm) focus() {
	f.title.Blur()
	f.description.Blur()
	f.date.Blur()
	f.clock.Blur()
	switch f.field {
	case fieldTitle:
		f.title.Focus()
	case fieldDescription:
		f.description.Focus()
	case fieldDate:
		f.date.Focus()
	case fieldTime:
		f.clock.Focus()
	}
}

// draft reads the form. Blank date and time are left unset.
func (f *taskForm) draft() (model.Draft, error) {
	d := model.Draft{
		Title:       f.title.Value(),
		Description: strings.TrimRight(f.description.Value(), "\n"),
		Priority:    priorities[f.priority],
	}
	if raw := strings.TrimSpace(f.date.Value()); raw != "" {
		date, err := model.ParseDate(raw)
		if err != nil {
			return model.Draft{}, err
		}
		d.DueDate = &date
	}
	if raw := strings.TrimSpace(f.clock.Value()); raw != "" {
		c, err := model.ParseClock(raw)
		if err != nil {
			return model.Draft{}, err
		}
		d.DueTime = &c
	}
	if d.DueTime != nil && d.DueDate == nil {
		return model.Draft{}, errors.New("a time needs a due date")
	}
	if name := f.lists[f.list]; name != "" {
		d.ListName = model.StringPtr(name)
	}
	return d, nil
}

func (m Model) openTaskForm(editing *model.Task) Model {
	m.form = newTaskForm(editing, m.Store.Lists())
	m.Mode = ModeForm
	return m
}

func (m Model) handleFormKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	f := m.form
	if f == nil {
		m.Mode = ModeNormal
		return m, nil
	}
	switch msg.String() {
	case "esc":
		m.form = nil
		m.Mode = ModeNormal
		m.Status = StatusBar{Text: "edit cancelled"}
		return m, nil
	case "ctrl+s":
		return m.submitTaskForm(), nil
	case "tab", "down":
		if f.field != fieldDescription || msg.String() == "tab" {
			f.field = (f.field + 1) % fieldCount
			f.focus()
			return m, nil
		}
	case "shift+tab", "up":
		if f.field != fieldDescription || msg.String() == "shift+tab" {
			f.field = (f.field + fieldCount - 1) % fieldCount
			f.focus()
			return m, nil
		}
	case "enter":
		if f.field != fieldDescription {
			return m.submitTaskForm(), nil
		}
	case "left", "right":
		step := 1
		if msg.String() == "left" {
			step = -1
		}
		switch f.field {
		case fieldPriority:
			f.priority = (f.priority + step + len(priorities)) % len(priorities)
			return m, nil
		case fieldList:
			f.list = (f.list + step + len(f.lists)) % len(f.lists)
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch f.field {
	case fieldTitle:
		f.title, cmd = f.title.Update(msg)
	case fieldDescription:
		f.description, cmd = f.description.Update(msg)
	case fieldDate:
		f.date, cmd = f.date.Update(msg)
	case fieldTime:
		f.clock, cmd = f.clock.Update(msg)
	}
	return m, cmd
}

func (m Model) submitTaskForm() Model {
	f := m.form
	d, err := f.draft()
	if err != nil {
		f.err = err.Error()
		return m
	}
	if f.editing == nil {
		t, err := m.Store.AddTask(d)
		if t == nil {
			f.err = err.Error()
			return m
		}
		m.Status = StatusBar{Text: fmt.Sprintf("added: %s", t.Title)}
		m.form = nil
		m.Mode = ModeNormal
		m = m.afterStoreChange()
		if err != nil {
			return m.showError("Save failed", err)
		}
		return m
	}

	err = m.Store.UpdateTask(f.editing, d)
	var verr *store.ValidationError
	if errors.As(err, &verr) {
		f.err = err.Error()
		return m
	}
	m.Status = StatusBar{Text: fmt.Sprintf("updated: %s", f.editing.Title)}
	m.form = nil
	m.Mode = ModeNormal
	m = m.afterStoreChange()
	if err != nil {
		return m.showError("Save failed", err)
	}
	return m
}

func (m Model) renderForm() string {
	f := m.form
	if f == nil {
		return ""
	}
	title := "New task"
	if f.editing != nil {
		title = "Edit task"
	}
	listLabel := f.lists[f.list]
	if listLabel == "" {
		listLabel = model.UnlistedLabel
	}
	fields := []views.FormField{
		{Label: "Title", View: f.title.View(), Active: f.field == fieldTitle},
		{Label: "Description", View: f.description.View(), Active: f.field == fieldDescription},
		{Label: "Due date", View: f.date.View(), Active: f.field == fieldDate, Hint: model.DateLayout},
		{Label: "Time", View: f.clock.View(), Active: f.field == fieldTime, Hint: model.ClockLayout},
		{Label: "Priority", View: "< " + string(priorities[f.priority]) + " >", Active: f.field == fieldPriority},
		{Label: "List", View: "< " + listLabel + " >", Active: f.field == fieldList},
	}
	return views.RenderForm(views.FormData{
		Title:  title,
		Fields: fields,
		Error:  f.err,
		Keys:   "tab next | ←/→ choose | enter/ctrl+s save | esc cancel",
	})
}

// listForm creates a list from a name and an optional icon path.
type listForm struct {
	field int
	name  textinput.Model
	icon  textinput.Model
	err   string
}

func (m Model) openListForm() Model {
	f := &listForm{name: newFormInput("name", 64), icon: newFormInput("path to icon (optional)", 256)}
	f.name.Focus()
	m.listForm = f
	m.Mode = ModeListForm
	return m
}

func (m Model) handleListFormKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	f := m.listForm
	if f == nil {
		m.Mode = ModeNormal
		return m, nil
	}
	switch msg.String() {
	case "esc":
		m.listForm = nil
		m.Mode = ModeNormal
		return m, nil
	case "tab", "shift+tab", "up", "down":
		f.field = 1 - f.field
		if f.field == 0 {
			f.icon.Blur()
			f.name.Focus()
		} else {
			f.name.Blur()
			f.icon.Focus()
		}
		return m, nil
	case "enter":
		var icon *string
		if raw := strings.TrimSpace(f.icon.Value()); raw != "" {
			icon = &raw
		}
		l, err := m.Store.AddList(f.name.Value(), icon)
		if l == nil {
			f.err = err.Error()
			return m, nil
		}
		m.listForm = nil
		m.Mode = ModeNormal
		m.Status = StatusBar{Text: fmt.Sprintf("list added: %s", l.Name)}
		m = m.afterStoreChange()
		if err != nil {
			return m.showError("Save failed", err), nil
		}
		return m, nil
	}
	var cmd tea.Cmd
	if f.field == 0 {
		f.name, cmd = f.name.Update(msg)
	} else {
		f.icon, cmd = f.icon.Update(msg)
	}
	return m, cmd
}

func (m Model) renderListForm() string {
	f := m.listForm
	if f == nil {
		return ""
	}
	return views.RenderForm(views.FormData{
		Title: "New list",
		Fields: []views.FormField{
			{Label: "Name", View: f.name.View(), Active: f.field == 0},
			{Label: "Icon", View: f.icon.View(), Active: f.field == 1},
		},
		Error: f.err,
		Keys:  "tab next | enter save | esc cancel",
	})
}
