package store

import (
	"fmt"
	"strings"

	"github.com/sandeepkv93/mytodo/internal/model"
)

type NavFilter string

const (
	FilterAll       NavFilter = "ALL"
	FilterToday     NavFilter = "TODAY"
	FilterImportant NavFilter = "IMPORTANT"
	FilterPending   NavFilter = "PENDING"
	FilterFinished  NavFilter = "FINISHED"
	FilterOverdue   NavFilter = "OVERDUE"
	FilterList      NavFilter = "LIST"
)

// Categories are the fixed nav filters in sidebar order.
var Categories = []NavFilter{FilterToday, FilterImportant, FilterAll, FilterPending, FilterOverdue, FilterFinished}

func (f NavFilter) IsValid() bool {
	switch f {
	case FilterAll, FilterToday, FilterImportant, FilterPending, FilterFinished, FilterOverdue, FilterList:
		return true
	default:
		return false
	}
}

// Label is the display name of a category.
func (f NavFilter) Label() string {
	switch f {
	case FilterAll:
		return "All"
	case FilterToday:
		return "Today"
	case FilterImportant:
		return "Important"
	case FilterPending:
		return "Pending"
	case FilterFinished:
		return "Finished"
	case FilterOverdue:
		return "Overdue"
	case FilterList:
		return "List"
	default:
		return string(f)
	}
}

// ParseNavFilter accepts the filter name or its label in any case.
// "completed" is accepted for FINISHED.
func ParseNavFilter(s string) (NavFilter, error) {
	raw := strings.ToUpper(strings.TrimSpace(s))
	if raw == "COMPLETED" || raw == "DONE" {
		return FilterFinished, nil
	}
	f := NavFilter(raw)
	if !f.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownFilter, s)
	}
	return f, nil
}

// Counts are the category badge numbers.
type Counts struct {
	Today     int
	Important int
	All       int
	Pending   int
	Overdue   int
	Finished  int
}

// For returns the count shown next to category f.
func (c Counts) For(f NavFilter) int {
	switch f {
	case FilterToday:
		return c.Today
	case FilterImportant:
		return c.Important
	case FilterPending:
		return c.Pending
	case FilterOverdue:
		return c.Overdue
	case FilterFinished:
		return c.Finished
	default:
		return c.All
	}
}

type view struct {
	nav        NavFilter
	activeList *string
	search     string
	today      model.Date
}

func (v view) matchNav(t *model.Task) bool {
	switch v.nav {
	case FilterToday:
		return t.DueOn(v.today)
	case FilterImportant:
		return t.Important
	case FilterFinished:
		return t.Completed
	case FilterPending:
		return !t.Completed
	case FilterOverdue:
		return t.Overdue(v.today)
	case FilterList:
		if v.activeList == nil {
			return true
		}
		return t.InList(*v.activeList)
	default:
		return true
	}
}

func (v view) matchSearch(t *model.Task) bool {
	needle := strings.ToLower(strings.TrimSpace(v.search))
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.Title), needle) ||
		strings.Contains(strings.ToLower(t.Description), needle)
}

func (v view) match(t *model.Task) bool {
	return v.matchNav(t) && v.matchSearch(t)
}

func countTasks(tasks []*model.Task, today model.Date) Counts {
	var c Counts
	for _, t := range tasks {
		c.All++
		if t.DueOn(today) {
			c.Today++
		}
		if t.Important {
			c.Important++
		}
		if t.Completed {
			c.Finished++
		} else {
			c.Pending++
		}
		if t.Overdue(today) {
			c.Overdue++
		}
	}
	return c
}
