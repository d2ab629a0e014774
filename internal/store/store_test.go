package store

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandeepkv93/mytodo/internal/model"
)

type memGateway struct {
	tasks     []model.Task
	lists     []model.List
	taskSaves int
	listSaves int
	failWith  error
}

func (g *memGateway) LoadTasks() []model.Task { return g.tasks }
func (g *memGateway) LoadLists() []model.List { return g.lists }

func (g *memGateway) SaveTasks(tasks []model.Task) error {
	g.taskSaves++
	if g.failWith != nil {
		return g.failWith
	}
	g.tasks = tasks
	return nil
}

func (g *memGateway) SaveLists(lists []model.List) error {
	g.listSaves++
	if g.failWith != nil {
		return g.failWith
	}
	g.lists = lists
	return nil
}

var fixedNow = time.Date(2026, time.October, 16, 9, 30, 0, 0, time.Local)

func newTestStore(t *testing.T, gw *memGateway) *Store {
	t.Helper()
	if gw == nil {
		gw = &memGateway{}
	}
	return Load(gw, WithNow(func() time.Time { return fixedNow }))
}

func datePtr(d model.Date) *model.Date { return &d }

func mustAdd(t *testing.T, s *Store, d model.Draft) *model.Task {
	t.Helper()
	task, err := s.AddTask(d)
	require.NoError(t, err)
	return task
}

func titles(tasks []*model.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Title)
	}
	return out
}

func TestQuickAddDefaults(t *testing.T) {
	gw := &memGateway{}
	s := newTestStore(t, gw)

	task := mustAdd(t, s, model.QuickDraft("  Pay rent "))

	assert.Equal(t, "Pay rent", task.Title)
	require.NotNil(t, task.DueDate)
	assert.Equal(t, model.Date{Year: 2026, Month: time.October, Day: 16}, *task.DueDate)
	require.NotNil(t, task.DueTime)
	assert.Equal(t, model.EndOfDay, *task.DueTime)
	assert.Equal(t, model.PriorityNormal, task.Priority)
	assert.False(t, task.Completed)
	assert.False(t, task.Important)
	assert.Nil(t, task.ListName)

	counts := s.CountsByCategory()
	assert.Equal(t, 1, counts.All)
	assert.Equal(t, 1, counts.Pending)
	assert.Equal(t, 1, counts.Today)
	assert.Equal(t, 0, counts.Overdue)

	require.Len(t, gw.tasks, 1)
	assert.Equal(t, "Pay rent", gw.tasks[0].Title)
}

func TestQuickAddJoinsActiveList(t *testing.T) {
	s := newTestStore(t, nil)
	_, err := s.AddList("Groceries", nil)
	require.NoError(t, err)

	s.SetListFilter("Groceries")
	task := mustAdd(t, s, model.QuickDraft("Eggs"))
	require.NotNil(t, task.ListName)
	assert.Equal(t, "Groceries", *task.ListName)

	s.SetNavFilter(FilterAll)
	other := mustAdd(t, s, model.QuickDraft("Call mom"))
	assert.Nil(t, other.ListName)
}

func TestFullDraftDoesNotJoinActiveList(t *testing.T) {
	s := newTestStore(t, nil)
	s.SetListFilter("Work")

	task := mustAdd(t, s, model.Draft{Title: "Report", Priority: model.PriorityHigh})
	assert.Nil(t, task.ListName)
	assert.True(t, task.Important)
	assert.Nil(t, task.DueDate)
}

func TestAddTaskRejectsBlankTitle(t *testing.T) {
	gw := &memGateway{}
	s := newTestStore(t, gw)

	_, err := s.AddTask(model.QuickDraft("   "))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ErrorIs(t, err, model.ErrBlankTitle)
	assert.Empty(t, s.Tasks())
	assert.Zero(t, gw.taskSaves)
}

func TestAllPreservesInsertionOrder(t *testing.T) {
	s := newTestStore(t, nil)
	for _, title := range []string{"c", "a", "b"} {
		mustAdd(t, s, model.QuickDraft(title))
	}
	assert.Equal(t, []string{"c", "a", "b"}, titles(s.FilteredTasks()))
}

func TestOverdueExcludesCompleted(t *testing.T) {
	s := newTestStore(t, nil)
	yesterday := s.Today().AddDays(-1)

	mustAdd(t, s, model.Draft{Title: "late", DueDate: datePtr(yesterday)})
	done := mustAdd(t, s, model.Draft{Title: "late but done", DueDate: datePtr(yesterday)})
	require.True(t, s.ToggleCompleted(done))

	assert.Equal(t, 1, s.CountsByCategory().Overdue)

	s.SetNavFilter(FilterOverdue)
	assert.Equal(t, []string{"late"}, titles(s.FilteredTasks()))
}

func TestNavFilters(t *testing.T) {
	s := newTestStore(t, nil)
	today := s.Today()
	tomorrow := today.AddDays(1)

	mustAdd(t, s, model.Draft{Title: "today", DueDate: datePtr(today)})
	mustAdd(t, s, model.Draft{Title: "urgent", DueDate: datePtr(tomorrow), Priority: model.PriorityHigh})
	finished := mustAdd(t, s, model.Draft{Title: "finished"})
	s.ToggleCompleted(finished)

	cases := []struct {
		filter NavFilter
		want   []string
	}{
		{FilterAll, []string{"today", "urgent", "finished"}},
		{FilterToday, []string{"today"}},
		{FilterImportant, []string{"urgent"}},
		{FilterPending, []string{"today", "urgent"}},
		{FilterFinished, []string{"finished"}},
		{FilterOverdue, []string{}},
	}
	for _, tc := range cases {
		t.Run(string(tc.filter), func(t *testing.T) {
			s.SetNavFilter(tc.filter)
			assert.Equal(t, tc.want, titles(s.FilteredTasks()))
		})
	}
}

func TestSearchMatchesTitleOrDescription(t *testing.T) {
	s := newTestStore(t, nil)
	mustAdd(t, s, model.Draft{Title: "Buy Milk", Description: "2L lowfat"})

	for _, q := range []string{"MILK", "lowfat", "  milk  "} {
		s.SetSearchText(q)
		assert.Len(t, s.FilteredTasks(), 1, "query %q", q)
	}

	s.SetSearchText("soda")
	assert.Empty(t, s.FilteredTasks())
}

func TestSearchCombinesWithFilter(t *testing.T) {
	s := newTestStore(t, nil)
	mustAdd(t, s, model.Draft{Title: "milk"})
	done := mustAdd(t, s, model.Draft{Title: "more milk"})
	s.ToggleCompleted(done)

	s.SetNavFilter(FilterFinished)
	s.SetSearchText("milk")
	assert.Equal(t, []string{"more milk"}, titles(s.FilteredTasks()))

	counts := s.CountsByCategory()
	assert.Equal(t, 2, counts.All, "counts ignore search and filter")
}

func TestListFilterIsCaseSensitive(t *testing.T) {
	s := newTestStore(t, nil)
	mustAdd(t, s, model.Draft{Title: "a", ListName: model.StringPtr("Work")})
	mustAdd(t, s, model.Draft{Title: "b", ListName: model.StringPtr("work")})

	s.SetListFilter("Work")
	assert.Equal(t, []string{"a"}, titles(s.FilteredTasks()))
	assert.Equal(t, 1, s.CountForList("Work"))
}

func TestSetNavFilterClearsListAndIgnoresUnknown(t *testing.T) {
	s := newTestStore(t, nil)
	s.SetListFilter("Work")

	s.SetNavFilter(NavFilter("BOGUS"))
	f, list := s.Filter()
	assert.Equal(t, FilterList, f)
	require.NotNil(t, list)

	s.SetNavFilter(FilterPending)
	f, list = s.Filter()
	assert.Equal(t, FilterPending, f)
	assert.Nil(t, list)
}

func TestAddListRejectsCaseOnlyDuplicate(t *testing.T) {
	gw := &memGateway{}
	s := newTestStore(t, gw)

	_, err := s.AddList("Work", nil)
	require.NoError(t, err)

	_, err = s.AddList("work", nil)
	assert.ErrorIs(t, err, ErrDuplicateName)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Len(t, s.Lists(), 1)
	assert.Equal(t, 1, gw.listSaves)

	_, err = s.AddList("  ", nil)
	assert.ErrorIs(t, err, model.ErrBlankListName)
}

func TestAddListRejectsLineFormatSeparators(t *testing.T) {
	gw := &memGateway{}
	s := newTestStore(t, gw)

	for _, name := range []string{"Work|Home", "Work\nHome", "Home\r"} {
		_, err := s.AddList(name, nil)
		assert.ErrorIs(t, err, model.ErrInvalidListName, name)
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	}
	_, err := s.AddList("Pics", model.StringPtr("a.png\nb.png"))
	assert.ErrorIs(t, err, model.ErrInvalidListIcon)

	assert.Empty(t, s.Lists())
	assert.Zero(t, gw.listSaves)
}

func TestListSurvivesReloadWithTasks(t *testing.T) {
	gw := &memGateway{}
	s := newTestStore(t, gw)
	l, err := s.AddList("Work/Home", model.StringPtr("/icons/w.png"))
	require.NoError(t, err)
	s.SetListFilter(l.Name)
	mustAdd(t, s, model.QuickDraft("report"))

	reloaded := newTestStore(t, gw)
	require.Len(t, reloaded.Lists(), 1)
	assert.Equal(t, "Work/Home", reloaded.Lists()[0].Name)
	assert.Equal(t, 1, reloaded.CountForList("Work/Home"))
}

func TestAddListKeepsIcon(t *testing.T) {
	s := newTestStore(t, nil)
	l, err := s.AddList(" Home ", model.StringPtr("/icons/home.png"))
	require.NoError(t, err)
	assert.Equal(t, "Home", l.Name)
	require.NotNil(t, l.IconPath)
	assert.Equal(t, "/icons/home.png", *l.IconPath)
	assert.Same(t, l, s.FindList("HOME"))
}

func TestDeleteListUnlistsTasksAndResetsFilter(t *testing.T) {
	gw := &memGateway{}
	s := newTestStore(t, gw)

	work, err := s.AddList("Work", nil)
	require.NoError(t, err)
	s.SetListFilter("Work")
	a := mustAdd(t, s, model.QuickDraft("standup"))
	b := mustAdd(t, s, model.Draft{Title: "other", ListName: model.StringPtr("Home")})

	require.True(t, s.DeleteList(work))

	assert.Nil(t, a.ListName)
	require.NotNil(t, b.ListName)
	assert.Equal(t, "Home", *b.ListName)
	assert.Empty(t, s.Lists())

	f, list := s.Filter()
	assert.Equal(t, FilterAll, f)
	assert.Nil(t, list)

	require.Len(t, gw.tasks, 2)
	assert.Nil(t, gw.tasks[0].ListName)
	assert.Empty(t, gw.lists)

	assert.False(t, s.DeleteList(work))
}

func TestDeleteListKeepsUnrelatedFilter(t *testing.T) {
	s := newTestStore(t, nil)
	work, _ := s.AddList("Work", nil)
	_, _ = s.AddList("Home", nil)
	s.SetListFilter("Home")

	s.DeleteList(work)
	f, list := s.Filter()
	assert.Equal(t, FilterList, f)
	require.NotNil(t, list)
	assert.Equal(t, "Home", *list)
}

func TestUpdateTaskRederivesImportant(t *testing.T) {
	s := newTestStore(t, nil)
	task := mustAdd(t, s, model.QuickDraft("report"))

	d := model.DraftFrom(*task)
	d.Priority = model.PriorityHigh
	d.Description = "quarterly"
	require.NoError(t, s.UpdateTask(task, d))

	assert.True(t, task.Important)
	assert.Equal(t, "quarterly", task.Description)
	assert.Same(t, task, s.Tasks()[0])
}

func TestImportantNotRederivedOutsideDraft(t *testing.T) {
	s := newTestStore(t, nil)
	task := mustAdd(t, s, model.Draft{Title: "x", Priority: model.PriorityHigh})
	require.True(t, task.Important)

	task.Priority = model.PriorityLow
	assert.True(t, task.Important)
	assert.Equal(t, 1, s.CountsByCategory().Important)
}

func TestUpdateUnknownTaskIsNoop(t *testing.T) {
	gw := &memGateway{}
	s := newTestStore(t, gw)
	stray := &model.Task{Title: "stray", Priority: model.PriorityNormal}

	require.NoError(t, s.UpdateTask(stray, model.Draft{Title: "changed"}))
	assert.Equal(t, "stray", stray.Title)
	assert.Zero(t, gw.taskSaves)
	assert.False(t, s.DeleteTask(stray))
	assert.False(t, s.ToggleCompleted(stray))
}

func TestDeleteTaskAndCompleted(t *testing.T) {
	s := newTestStore(t, nil)
	a := mustAdd(t, s, model.QuickDraft("a"))
	b := mustAdd(t, s, model.QuickDraft("b"))
	c := mustAdd(t, s, model.QuickDraft("c"))
	s.ToggleCompleted(a)
	s.ToggleCompleted(c)

	assert.Equal(t, 2, s.DeleteCompleted())
	assert.Equal(t, []string{"b"}, titles(s.Tasks()))
	assert.Zero(t, s.DeleteCompleted())

	assert.True(t, s.DeleteTask(b))
	assert.Empty(t, s.Tasks())
}

func TestToggleTwiceRestores(t *testing.T) {
	s := newTestStore(t, nil)
	task := mustAdd(t, s, model.QuickDraft("a"))
	s.ToggleCompleted(task)
	s.ToggleCompleted(task)
	assert.False(t, task.Completed)
}

func TestPersistenceErrorKeepsMemoryState(t *testing.T) {
	boom := errors.New("disk full")
	gw := &memGateway{failWith: boom}
	s := newTestStore(t, gw)

	var events []Event
	s.Subscribe(func(ev Event) { events = append(events, ev) })

	task, err := s.AddTask(model.QuickDraft("survives"))
	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.ErrorIs(t, err, boom)
	require.NotNil(t, task)
	assert.Len(t, s.Tasks(), 1)

	require.Len(t, events, 1)
	assert.Equal(t, EventTasks, events[0].Kind)
	assert.ErrorIs(t, events[0].Err, boom)

	require.True(t, s.ToggleCompleted(task))
	assert.Equal(t, 1, s.DeleteCompleted())
	require.Len(t, events, 3)
	assert.ErrorIs(t, events[1].Err, boom, "toggle save failure is published")
	assert.ErrorIs(t, events[2].Err, boom, "bulk delete save failure is published")
	assert.Empty(t, s.Tasks())
}

func TestSubscribersSeeFilterChanges(t *testing.T) {
	s := newTestStore(t, nil)
	var kinds []EventKind
	s.Subscribe(func(ev Event) { kinds = append(kinds, ev.Kind) })

	s.SetSearchText("x")
	s.SetNavFilter(FilterToday)
	_, _ = s.AddList("Home", nil)

	assert.Equal(t, []EventKind{EventFilter, EventFilter, EventLists}, kinds)
}

func TestLoadDropsInvalidRecords(t *testing.T) {
	gw := &memGateway{
		tasks: []model.Task{
			{Title: "ok", Priority: model.PriorityNormal},
			{Title: "  ", Priority: model.PriorityNormal},
		},
		lists: []model.List{{Name: "Work"}, {Name: "WORK"}, {Name: ""}},
	}
	s := newTestStore(t, gw)
	assert.Equal(t, []string{"ok"}, titles(s.Tasks()))
	require.Len(t, s.Lists(), 1)
	assert.Equal(t, "Work", s.Lists()[0].Name)
}

func TestParseNavFilter(t *testing.T) {
	f, err := ParseNavFilter(" today ")
	require.NoError(t, err)
	assert.Equal(t, FilterToday, f)

	f, err = ParseNavFilter("completed")
	require.NoError(t, err)
	assert.Equal(t, FilterFinished, f)

	_, err = ParseNavFilter("someday")
	assert.ErrorIs(t, err, ErrUnknownFilter)
}
