package model

import "strings"

// Draft is user input for creating or editing a task. A quick draft carries
// only a title; the store fills in the quick-add defaults.
type Draft struct {
	Title       string
	Description string
	DueDate     *Date
	DueTime     *Clock
	Priority    Priority
	ListName    *string
	Quick       bool
}

func QuickDraft(title string) Draft {
	return Draft{Title: title, Quick: true}
}

// DraftFrom prefills a draft with the fields of t, for edit forms.
func DraftFrom(t Task) Draft {
	c := t.Clone()
	return Draft{
		Title:       c.Title,
		Description: c.Description,
		DueDate:     c.DueDate,
		DueTime:     c.DueTime,
		Priority:    c.Priority,
		ListName:    c.ListName,
	}
}

// Normalize trims text fields, defaults the priority and folds a blank list
// name to nil.
func (d Draft) Normalize() Draft {
	d.Title = strings.TrimSpace(d.Title)
	if d.Priority == "" {
		d.Priority = PriorityNormal
	}
	if d.ListName != nil && strings.TrimSpace(*d.ListName) == "" {
		d.ListName = nil
	}
	return d
}

// ApplyTo overwrites every editable field of t. Important is derived from
// the priority here and nowhere else.
func (d Draft) ApplyTo(t *Task) {
	c := Task{DueDate: d.DueDate, DueTime: d.DueTime, ListName: d.ListName}.Clone()
	t.Title = d.Title
	t.Description = d.Description
	t.DueDate = c.DueDate
	t.DueTime = c.DueTime
	t.Priority = d.Priority
	t.Important = d.Priority == PriorityHigh
	t.ListName = c.ListName
}
