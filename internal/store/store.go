// Package store owns the in-memory tasks and lists, derives the filtered
// view the shell renders, and persists every mutation through a Gateway.
//
// A Store is not safe for concurrent use; all calls are expected to come from
// the shell's event loop.
package store

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sandeepkv93/mytodo/internal/model"
)

// Gateway is the persistence the store needs.
type Gateway interface {
	LoadTasks() []model.Task
	SaveTasks(tasks []model.Task) error
	LoadLists() []model.List
	SaveLists(lists []model.List) error
}

type EventKind string

const (
	EventTasks  EventKind = "tasks"
	EventLists  EventKind = "lists"
	EventFilter EventKind = "filter"
)

// Event tells subscribers what changed. Err is set when the change could
// not be persisted.
type Event struct {
	Kind EventKind
	Err  error
}

type Option func(*Store)

func WithNow(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

func WithGateway(gw Gateway) Option {
	return func(s *Store) {
		s.gw = gw
	}
}

type Store struct {
	tasks      []*model.Task
	lists      []*model.List
	nav        NavFilter
	activeList *string
	search     string
	now        func() time.Time
	gw         Gateway
	log        *zap.Logger
	subs       []func(Event)
}

func New(opts ...Option) *Store {
	s := &Store{
		tasks: make([]*model.Task, 0),
		lists: make([]*model.List, 0),
		nav:   FilterAll,
		now:   time.Now,
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load builds a store from gw, reading lists first and then tasks. Records
// that fail validation are dropped.
func Load(gw Gateway, opts ...Option) *Store {
	s := New(append([]Option{WithGateway(gw)}, opts...)...)
	for _, l := range gw.LoadLists() {
		if err := l.Validate(); err != nil || s.FindList(l.Name) != nil {
			s.log.Warn("dropping list", zap.String("name", l.Name))
			continue
		}
		item := l
		s.lists = append(s.lists, &item)
	}
	for _, t := range gw.LoadTasks() {
		if err := t.Validate(); err != nil {
			s.log.Warn("dropping task", zap.String("title", t.Title), zap.Error(err))
			continue
		}
		item := t.Clone()
		s.tasks = append(s.tasks, &item)
	}
	s.log.Info("store loaded", zap.Int("tasks", len(s.tasks)), zap.Int("lists", len(s.lists)))
	return s
}

// Subscribe registers fn to be called after every change.
func (s *Store) Subscribe(fn func(Event)) {
	if fn != nil {
		s.subs = append(s.subs, fn)
	}
}

func (s *Store) publish(ev Event) {
	for _, fn := range s.subs {
		fn(ev)
	}
}

// Today is the current local date.
func (s *Store) Today() model.Date {
	return model.DateOf(s.now())
}

// Now is the store's clock.
func (s *Store) Now() time.Time {
	return s.now()
}

// AddTask creates a task from d and appends it. A quick draft gets today's
// date, the end-of-day time and Normal priority, and joins the active list
// when a list filter is selected.
func (s *Store) AddTask(d model.Draft) (*model.Task, error) {
	d = d.Normalize()
	if err := validateDraft(d); err != nil {
		return nil, err
	}

	t := &model.Task{}
	if d.Quick {
		today := s.Today()
		at := model.EndOfDay
		t.Title = d.Title
		t.DueDate = &today
		t.DueTime = &at
		t.Priority = model.PriorityNormal
		if d.ListName != nil {
			t.ListName = model.StringPtr(*d.ListName)
		} else if s.nav == FilterList && s.activeList != nil {
			t.ListName = model.StringPtr(*s.activeList)
		}
	} else {
		d.ApplyTo(t)
	}

	s.tasks = append(s.tasks, t)
	s.log.Debug("task added", zap.String("title", t.Title))
	return t, s.tasksChanged("add task")
}

// UpdateTask overwrites the fields of existing in place. Unknown tasks are
// ignored.
func (s *Store) UpdateTask(existing *model.Task, d model.Draft) error {
	if s.indexOf(existing) < 0 {
		return nil
	}
	d = d.Normalize()
	if err := validateDraft(d); err != nil {
		return err
	}
	d.ApplyTo(existing)
	s.log.Debug("task updated", zap.String("title", existing.Title))
	return s.tasksChanged("update task")
}

// DeleteTask removes t and reports whether it was in the store.
func (s *Store) DeleteTask(t *model.Task) bool {
	i := s.indexOf(t)
	if i < 0 {
		return false
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	s.log.Debug("task deleted", zap.String("title", t.Title))
	// A failed save reaches subscribers as Event.Err.
	_ = s.tasksChanged("delete task")
	return true
}

// ToggleCompleted flips the completed flag of t and reports whether t was
// in the store.
func (s *Store) ToggleCompleted(t *model.Task) bool {
	if s.indexOf(t) < 0 {
		return false
	}
	t.Completed = !t.Completed
	// Save failures are published, see DeleteTask.
	_ = s.tasksChanged("toggle task")
	return true
}

// DeleteCompleted removes every completed task and returns how many went.
func (s *Store) DeleteCompleted() int {
	kept := s.tasks[:0]
	removed := 0
	for _, t := range s.tasks {
		if t.Completed {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	for i := len(kept); i < len(s.tasks); i++ {
		s.tasks[i] = nil
	}
	s.tasks = kept
	if removed > 0 {
		s.log.Debug("completed tasks deleted", zap.Int("count", removed))
		// Save failures are published, see DeleteTask.
		_ = s.tasksChanged("delete completed")
	}
	return removed
}

// AddList creates a list. Names are unique without regard to case.
func (s *Store) AddList(name string, iconPath *string) (*model.List, error) {
	l := &model.List{Name: strings.TrimSpace(name)}
	if iconPath != nil && strings.TrimSpace(*iconPath) != "" {
		l.IconPath = model.StringPtr(strings.TrimSpace(*iconPath))
	}
	if err := l.Validate(); err != nil {
		field := "list name"
		if errors.Is(err, model.ErrInvalidListIcon) {
			field = "list icon"
		}
		return nil, &ValidationError{Field: field, Err: err}
	}
	if s.FindList(l.Name) != nil {
		return nil, &ValidationError{Field: "list name", Err: fmt.Errorf("%w: %q", ErrDuplicateName, l.Name)}
	}
	s.lists = append(s.lists, l)
	s.log.Debug("list added", zap.String("name", l.Name))
	return l, s.listsChanged("add list")
}

// DeleteList removes l and moves its tasks to Unlisted. When l was the
// active filter the view falls back to ALL.
func (s *Store) DeleteList(l *model.List) bool {
	idx := -1
	for i, item := range s.lists {
		if item == l {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	name := l.Name
	s.lists = append(s.lists[:idx], s.lists[idx+1:]...)

	touched := 0
	for _, t := range s.tasks {
		if t.InList(name) {
			t.ListName = nil
			touched++
		}
	}
	s.log.Debug("list deleted", zap.String("name", name), zap.Int("unlisted", touched))

	listErr := s.saveLists()
	taskErr := s.saveTasks()
	err := listErr
	if err == nil {
		err = taskErr
	}
	if err != nil {
		err = &PersistenceError{Op: "delete list", Err: err}
	}
	s.publish(Event{Kind: EventLists, Err: err})
	s.publish(Event{Kind: EventTasks, Err: err})

	if s.nav == FilterList && s.activeList != nil && *s.activeList == name {
		s.SetNavFilter(FilterAll)
	}
	return true
}

// FindList looks a list up by name without regard to case.
func (s *Store) FindList(name string) *model.List {
	for _, l := range s.lists {
		if model.SameListName(l.Name, name) {
			return l
		}
	}
	return nil
}

// SetNavFilter selects a fixed category and clears any list filter.
// Unknown filters are ignored.
func (s *Store) SetNavFilter(f NavFilter) {
	if !f.IsValid() {
		s.log.Warn("ignoring unknown filter", zap.String("filter", string(f)))
		return
	}
	s.nav = f
	s.activeList = nil
	s.publish(Event{Kind: EventFilter})
}

// SetListFilter shows only tasks whose list is exactly name.
func (s *Store) SetListFilter(name string) {
	s.nav = FilterList
	s.activeList = model.StringPtr(name)
	s.publish(Event{Kind: EventFilter})
}

func (s *Store) SetSearchText(text string) {
	s.search = text
	s.publish(Event{Kind: EventFilter})
}

// Filter returns the active nav filter and, for LIST, the list name.
func (s *Store) Filter() (NavFilter, *string) {
	if s.activeList == nil {
		return s.nav, nil
	}
	return s.nav, model.StringPtr(*s.activeList)
}

func (s *Store) SearchText() string { return s.search }

// FilteredTasks is the current view, in insertion order.
func (s *Store) FilteredTasks() []*model.Task {
	v := view{nav: s.nav, activeList: s.activeList, search: s.search, today: s.Today()}
	out := make([]*model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if v.match(t) {
			out = append(out, t)
		}
	}
	return out
}

// CountsByCategory counts every task regardless of filter and search.
func (s *Store) CountsByCategory() Counts {
	return countTasks(s.tasks, s.Today())
}

// CountForList counts the tasks that belong to list name.
func (s *Store) CountForList(name string) int {
	n := 0
	for _, t := range s.tasks {
		if t.InList(name) {
			n++
		}
	}
	return n
}

func (s *Store) Tasks() []*model.Task {
	out := make([]*model.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

func (s *Store) Lists() []*model.List {
	out := make([]*model.List, len(s.lists))
	copy(out, s.lists)
	return out
}

// Contains reports whether t is one of the store's tasks.
func (s *Store) Contains(t *model.Task) bool {
	return s.indexOf(t) >= 0
}

// Save writes both collections.
func (s *Store) Save() error {
	if err := s.saveLists(); err != nil {
		return &PersistenceError{Op: "save lists", Err: err}
	}
	if err := s.saveTasks(); err != nil {
		return &PersistenceError{Op: "save tasks", Err: err}
	}
	return nil
}

func (s *Store) indexOf(t *model.Task) int {
	if t == nil {
		return -1
	}
	for i, item := range s.tasks {
		if item == t {
			return i
		}
	}
	return -1
}

func (s *Store) tasksChanged(op string) error {
	var err error
	if saveErr := s.saveTasks(); saveErr != nil {
		err = &PersistenceError{Op: op, Err: saveErr}
	}
	s.publish(Event{Kind: EventTasks, Err: err})
	return err
}

func (s *Store) listsChanged(op string) error {
	var err error
	if saveErr := s.saveLists(); saveErr != nil {
		err = &PersistenceError{Op: op, Err: saveErr}
	}
	s.publish(Event{Kind: EventLists, Err: err})
	return err
}

func (s *Store) saveTasks() error {
	if s.gw == nil {
		return nil
	}
	snapshot := make([]model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		snapshot = append(snapshot, t.Clone())
	}
	if err := s.gw.SaveTasks(snapshot); err != nil {
		s.log.Error("persist tasks failed", zap.Error(err))
		return err
	}
	return nil
}

func (s *Store) saveLists() error {
	if s.gw == nil {
		return nil
	}
	snapshot := make([]model.List, 0, len(s.lists))
	for _, l := range s.lists {
		snapshot = append(snapshot, *l)
	}
	if err := s.gw.SaveLists(snapshot); err != nil {
		s.log.Error("persist lists failed", zap.Error(err))
		return err
	}
	return nil
}

func validateDraft(d model.Draft) error {
	if d.Title == "" {
		return &ValidationError{Field: "title", Err: model.ErrBlankTitle}
	}
	if !d.Priority.IsValid() {
		return &ValidationError{Field: "priority", Err: fmt.Errorf("%w: %q", model.ErrInvalidPriority, d.Priority)}
	}
	if d.DueTime != nil && !d.DueTime.IsValid() {
		return &ValidationError{Field: "time", Err: fmt.Errorf("%w: %s", model.ErrInvalidClock, d.DueTime)}
	}
	return nil
}
