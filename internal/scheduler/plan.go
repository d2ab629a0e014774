package scheduler

import (
	"sort"
	"time"

	"github.com/sandeepkv93/mytodo/internal/model"
)

// DueEvents builds the schedule for tasks as seen at now: one due event per
// pending task whose due moment is still ahead, plus the next local
// midnight rollover. A task with a date but no time is due at end of day.
func DueEvents(tasks []*model.Task, now time.Time) []Event {
	loc := now.Location()
	out := make([]Event, 0, len(tasks)+1)
	for _, t := range tasks {
		if t == nil || t.Completed || t.DueDate == nil {
			continue
		}
		at := DueAt(*t, loc)
		if !at.After(now) {
			continue
		}
		out = append(out, Event{Kind: KindDue, Title: t.Title, At: at})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].At.Before(out[j].At) })
	out = append(out, Event{Kind: KindRollover, At: NextMidnight(now)})
	return out
}

// DueAt is the moment t falls due in loc. It is the zero time when t has no
// due date.
func DueAt(t model.Task, loc *time.Location) time.Time {
	if t.DueDate == nil {
		return time.Time{}
	}
	clock := model.EndOfDay
	if t.DueTime != nil {
		clock = *t.DueTime
	}
	return clock.On(*t.DueDate, loc)
}

func NextMidnight(now time.Time) time.Time {
	return model.DateOf(now).AddDays(1).In(now.Location())
}
