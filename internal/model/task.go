package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrBlankTitle      = errors.New("model: task title is required")
	ErrInvalidPriority = errors.New("model: invalid task priority")
)

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityNormal Priority = "Normal"
	PriorityHigh   Priority = "High"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh:
		return true
	default:
		return false
	}
}

// ParsePriority is case-insensitive.
func ParsePriority(s string) (Priority, error) {
	for _, p := range []Priority{PriorityLow, PriorityNormal, PriorityHigh} {
		if strings.EqualFold(strings.TrimSpace(s), string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPriority, s)
}

// UnmarshalJSON falls back to Normal for labels it does not recognise so a
// hand-edited or localised data file still loads.
func (p *Priority) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		*p = PriorityNormal
		return nil
	}
	parsed, err := ParsePriority(s)
	if err != nil {
		parsed = PriorityNormal
	}
	*p = parsed
	return nil
}

// Task is one to-do item. Field names in JSON match the tasks.json format.
type Task struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	DueDate     *Date    `json:"dueDate"`
	DueTime     *Clock   `json:"time"`
	Priority    Priority `json:"priority"`
	Completed   bool     `json:"completed"`
	Important   bool     `json:"important"`
	ListName    *string  `json:"listName"`
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return ErrBlankTitle
	}
	if !t.Priority.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, t.Priority)
	}
	if t.DueTime != nil && !t.DueTime.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidClock, t.DueTime)
	}
	return nil
}

// List returns the list name or "" when the task is unlisted.
func (t Task) List() string {
	if t.ListName == nil {
		return ""
	}
	return *t.ListName
}

func (t Task) InList(name string) bool {
	return t.ListName != nil && *t.ListName == name
}

// Overdue reports whether the task is pending with a due date before today.
func (t Task) Overdue(today Date) bool {
	return t.DueDate != nil && t.DueDate.Before(today) && !t.Completed
}

func (t Task) DueOn(day Date) bool {
	return t.DueDate != nil && *t.DueDate == day
}

// Clone returns a deep copy so callers cannot alias the pointer fields.
func (t Task) Clone() Task {
	out := t
	if t.DueDate != nil {
		d := *t.DueDate
		out.DueDate = &d
	}
	if t.DueTime != nil {
		c := *t.DueTime
		out.DueTime = &c
	}
	if t.ListName != nil {
		n := *t.ListName
		out.ListName = &n
	}
	return out
}

func StringPtr(s string) *string {
	return &s
}
