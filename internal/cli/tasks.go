package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/mytodo/internal/model"
	"github.com/sandeepkv93/mytodo/internal/store"
)

var ErrNoSuchTask = errors.New("no such task")

type sessionFunc func() *Session

// draftFlags are shared by add and edit.
type draftFlags struct {
	desc     string
	due      string
	at       string
	priority string
	list     string
}

func (f *draftFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.desc, "desc", "", "description (markdown)")
	fs.StringVar(&f.due, "due", "", "due date as YYYY-MM-DD, today or tomorrow; empty clears it")
	fs.StringVar(&f.at, "time", "", "due time as HH:MM, needs a due date")
	fs.StringVarP(&f.priority, "priority", "p", "", "Low, Normal or High")
	fs.StringVarP(&f.list, "list", "l", "", "list name; empty means Unlisted")
}

// detailed reports whether any field beyond the title was given.
func detailed(cmd *cobra.Command) bool {
	for _, name := range []string{"desc", "due", "time", "priority"} {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

// apply overwrites the fields of d named on the command line.
func (f *draftFlags) apply(cmd *cobra.Command, s *Session, d model.Draft) (model.Draft, error) {
	fs := cmd.Flags()
	if fs.Changed("desc") {
		d.Description = f.desc
	}
	if fs.Changed("due") {
		day, err := parseDay(f.due, s.Store.Today())
		if err != nil {
			return d, err
		}
		d.DueDate = day
		if day == nil {
			d.DueTime = nil
		}
	}
	if fs.Changed("time") {
		if strings.TrimSpace(f.at) == "" {
			d.DueTime = nil
		} else {
			c, err := model.ParseClock(f.at)
			if err != nil {
				return d, err
			}
			d.DueTime = &c
		}
	}
	if d.DueTime != nil && d.DueDate == nil {
		return d, errors.New("a due time needs a due date")
	}
	if fs.Changed("priority") {
		p, err := model.ParsePriority(f.priority)
		if err != nil {
			return d, err
		}
		d.Priority = p
	}
	if fs.Changed("list") {
		name, err := resolveList(s.Store, f.list)
		if err != nil {
			return d, err
		}
		d.ListName = name
	}
	return d, nil
}

func parseDay(raw string, today model.Date) (*model.Date, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return nil, nil
	case "today":
		return &today, nil
	case "tomorrow":
		d := today.AddDays(1)
		return &d, nil
	}
	d, err := model.ParseDate(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// resolveList maps a user-typed name to the stored list name.
func resolveList(st *store.Store, raw string) (*string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	l := st.FindList(raw)
	if l == nil {
		return nil, fmt.Errorf("no list named %q", strings.TrimSpace(raw))
	}
	return model.StringPtr(l.Name), nil
}

// taskAt resolves a 1-based index as printed by ls.
func taskAt(st *store.Store, arg string) (*model.Task, int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return nil, 0, fmt.Errorf("task number %q: %w", arg, err)
	}
	tasks := st.Tasks()
	if n < 1 || n > len(tasks) {
		return nil, 0, fmt.Errorf("%w: %d", ErrNoSuchTask, n)
	}
	return tasks[n-1], n, nil
}

func newAddCmd(current sessionFunc) *cobra.Command {
	var flags draftFlags
	cmd := &cobra.Command{
		Use:   "add <title...>",
		Short: "Add a task",
		Long: `Add a task. With only a title the task is due today at 23:59 with
Normal priority, like the quick-add bar in the interface.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := current()
			title := strings.Join(args, " ")
			d := model.QuickDraft(title)
			if detailed(cmd) {
				d = model.Draft{Title: title, Priority: model.PriorityNormal}
			}
			d, err := flags.apply(cmd, s, d)
			if err != nil {
				return err
			}
			t, err := s.Store.AddTask(d)
			if t == nil {
				return err
			}
			if err := firstErr(err, s.saved()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %d: %s\n", len(s.Store.Tasks()), t.Title)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newEditCmd(current sessionFunc) *cobra.Command {
	var flags draftFlags
	var title string
	cmd := &cobra.Command{
		Use:   "edit <n>",
		Short: "Change fields of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := current()
			t, n, err := taskAt(s.Store, args[0])
			if err != nil {
				return err
			}
			d := model.DraftFrom(*t)
			if cmd.Flags().Changed("title") {
				d.Title = title
			}
			d, err = flags.apply(cmd, s, d)
			if err != nil {
				return err
			}
			if err := firstErr(s.Store.UpdateTask(t, d), s.saved()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated %d: %s\n", n, t.Title)
			return nil
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "new title")
	flags.register(cmd)
	return cmd
}

func newDoneCmd(current sessionFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "done <n>",
		Short: "Toggle whether a task is finished",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := current()
			t, n, err := taskAt(s.Store, args[0])
			if err != nil {
				return err
			}
			s.Store.ToggleCompleted(t)
			if err := s.saved(); err != nil {
				return err
			}
			state := "pending"
			if t.Completed {
				state = "finished"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d: %s\n", state, n, t.Title)
			return nil
		},
	}
}

func newRmCmd(current sessionFunc) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <n>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := current()
			t, n, err := taskAt(s.Store, args[0])
			if err != nil {
				return err
			}
			s.Store.DeleteTask(t)
			if err := s.saved(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d: %s\n", n, t.Title)
			return nil
		},
	}
}

func newClearCompletedCmd(current sessionFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-completed",
		Short: "Delete every finished task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := current()
			n := s.Store.DeleteCompleted()
			if err := s.saved(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d finished task(s)\n", n)
			return nil
		},
	}
}

type lsRow struct {
	N int `json:"n"`
	model.Task
}

func newLsCmd(current sessionFunc) *cobra.Command {
	var filter, list, search string
	var asJSON bool
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List tasks",
		Long: `List tasks with their numbers. Filters are all, today, important,
pending, finished and overdue. --list selects one list by exact name.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := current()
			st := s.Store
			if list != "" {
				st.SetListFilter(list)
			} else {
				f, err := store.ParseNavFilter(filter)
				if err != nil || f == store.FilterList {
					return fmt.Errorf("unknown filter %q", filter)
				}
				st.SetNavFilter(f)
			}
			st.SetSearchText(search)

			numbers := make(map[*model.Task]int, len(st.Tasks()))
			for i, t := range st.Tasks() {
				numbers[t] = i + 1
			}
			rows := make([]lsRow, 0)
			for _, t := range st.FilteredTasks() {
				rows = append(rows, lsRow{N: numbers[t], Task: *t})
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}
			return writeTaskTable(cmd.OutOrStdout(), rows, st.Today())
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "all", "category filter")
	cmd.Flags().StringVarP(&list, "list", "l", "", "show only this list")
	cmd.Flags().StringVarP(&search, "search", "s", "", "case-insensitive text search")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func writeTaskTable(w io.Writer, rows []lsRow, today model.Date) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "no tasks")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\t\tTITLE\tDUE\tPRIORITY\tLIST")
	for _, r := range rows {
		mark := "[ ]"
		switch {
		case r.Completed:
			mark = "[x]"
		case r.Overdue(today):
			mark = "[-]"
		case r.Important:
			mark = "[!]"
		}
		list := r.List()
		if list == "" {
			list = model.UnlistedLabel
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", r.N, mark, r.Title, due(r.Task), r.Priority, list)
	}
	return tw.Flush()
}

func due(t model.Task) string {
	if t.DueDate == nil {
		return "-"
	}
	if t.DueTime == nil {
		return t.DueDate.String()
	}
	return t.DueDate.String() + " " + t.DueTime.String()
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
