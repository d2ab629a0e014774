package update

import (
	"fmt"
	"os/exec"
	"runtime"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"go.uber.org/zap"

	"github.com/sandeepkv93/mytodo/internal/model"
	"github.com/sandeepkv93/mytodo/internal/scheduler"
	"github.com/sandeepkv93/mytodo/internal/store"
)

// Mode is what currently receives key presses.
type Mode string

const (
	ModeNormal   Mode = "normal"
	ModeQuickAdd Mode = "quick-add"
	ModeSearch   Mode = "search"
	ModePalette  Mode = "palette"
	ModeForm     Mode = "form"
	ModeListForm Mode = "list-form"
	ModeDialog   Mode = "dialog"
)

// Pane is the focused column in normal mode.
type Pane string

const (
	PaneSidebar Pane = "sidebar"
	PaneTasks   Pane = "tasks"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	QuickAdd       string
	NewTask        string
	NewList        string
	Search         string
	Palette        string
	Toggle         string
	Edit           string
	Delete         string
	ClearCompleted string
	SwitchPane     string
	Help           string
	Quit           string
}

func DefaultKeyMap() GlobalKeyMap {
	return GlobalKeyMap{
		QuickAdd:       "a",
		NewTask:        "n",
		NewList:        "L",
		Search:         "s",
		Palette:        "/",
		Toggle:         " ",
		Edit:           "e",
		Delete:         "d",
		ClearCompleted: "C",
		SwitchPane:     "tab",
		Help:           "?",
		Quit:           "q",
	}
}

// Options carry runtime settings into the shell.
type Options struct {
	DesktopNotifications bool
	MarkdownStyle        string
	Notifier             DesktopNotifier
	Scheduler            *scheduler.Engine
	Logger               *zap.Logger
}

type Model struct {
	Store          *store.Store
	Mode           Mode
	Focus          Pane
	SidebarCursor  int
	TaskCursor     int
	Scheduler      *scheduler.Engine
	DueLog         []scheduler.Event
	HelpVisible    bool
	Notifications  []Notification
	DesktopEnabled bool
	MarkdownStyle  string
	Status         StatusBar
	Keys           GlobalKeyMap
	Quitting       bool
	LastError      error

	form     *taskForm
	listForm *listForm
	dialog   *dialogState
	sink     *storeSink
	notifier DesktopNotifier
	log      *zap.Logger

	quickAddInput textinput.Model
	searchInput   textinput.Model
	commandInput  textinput.Model
	taskTable     table.Model
	doneProgress  progress.Model
	helpModel     help.Model
	detailView    viewport.Model
}

type Notification struct {
	Title string
	Body  string
	Level string
	At    time.Time
}

type DesktopNotifier interface {
	Send(Notification) error
}

type NoopDesktopNotifier struct{}

func (NoopDesktopNotifier) Send(Notification) error { return nil }

type ExecDesktopNotifier struct{}

func (ExecDesktopNotifier) Send(n Notification) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("notify-send", n.Title, n.Body).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(n.Body), escapeAppleScript(n.Title))
		return exec.Command("osascript", "-e", script).Run()
	default:
		return nil
	}
}

// storeSink collects store events between key presses. The model is copied
// on every update, so the subscription writes through this pointer.
type storeSink struct {
	err error
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

// DueMsg carries a scheduler event into the update loop.
type DueMsg struct {
	Event scheduler.Event
}

// DialogResultMsg reports the button chosen in a dialog. Button is empty
// when the dialog was dismissed.
type DialogResultMsg struct {
	ID     string
	Button string
}

func NewModel(st *store.Store, opts Options) Model {
	if st == nil {
		st = store.New()
	}
	m := Model{
		Store:          st,
		Mode:           ModeNormal,
		Focus:          PaneTasks,
		Scheduler:      opts.Scheduler,
		DesktopEnabled: opts.DesktopNotifications,
		MarkdownStyle:  opts.MarkdownStyle,
		Keys:           DefaultKeyMap(),
		sink:           &storeSink{},
		notifier:       NoopDesktopNotifier{},
		log:            opts.Logger,
	}
	if m.log == nil {
		m.log = zap.NewNop()
	}
	if opts.Notifier != nil {
		m.notifier = opts.Notifier
	}
	sink := m.sink
	st.Subscribe(func(ev store.Event) {
		if ev.Err != nil {
			sink.err = ev.Err
		}
	})
	m.initBubbleComponents()
	m.SidebarCursor = m.sidebarIndexOf(store.FilterAll)
	m.syncBubbleData()
	m.reschedule()
	return m
}

func (m *Model) initBubbleComponents() {
	m.quickAddInput = textinput.New()
	m.quickAddInput.Prompt = "add> "
	m.quickAddInput.Placeholder = "task title"
	m.quickAddInput.CharLimit = 256
	m.quickAddInput.Width = 48

	m.searchInput = textinput.New()
	m.searchInput.Prompt = "search> "
	m.searchInput.CharLimit = 128
	m.searchInput.Width = 44

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	cols := []table.Column{
		{Title: " ", Width: 3},
		{Title: "Title", Width: 26},
		{Title: "Due", Width: 16},
		{Title: "Pri", Width: 6},
		{Title: "List", Width: 10},
	}
	m.taskTable = table.New(table.WithColumns(cols), table.WithRows([]table.Row{}), table.WithFocused(true), table.WithHeight(14))

	m.doneProgress = progress.New(progress.WithDefaultGradient(), progress.WithWidth(24))
	m.helpModel = help.New()
	m.detailView = viewport.New(38, 8)
}

// selectedTask is the task under the cursor in the filtered view.
func (m Model) selectedTask() (*model.Task, bool) {
	tasks := m.Store.FilteredTasks()
	if len(tasks) == 0 || m.TaskCursor < 0 || m.TaskCursor >= len(tasks) {
		return nil, false
	}
	return tasks[m.TaskCursor], true
}
