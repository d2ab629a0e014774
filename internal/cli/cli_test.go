package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	yaml "gopkg.in/yaml.v3"

	"github.com/sandeepkv93/mytodo/internal/store"
)

var testNow = time.Date(2026, time.October, 16, 9, 30, 0, 0, time.Local)

type harness struct {
	t       *testing.T
	dir     string
	backend string
	tuiRuns int
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return &harness{t: t, dir: t.TempDir(), backend: "file"}
}

func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	root := NewRootCmd(Options{
		StoreOptions: []store.Option{store.WithNow(func() time.Time { return testNow })},
		RunTUI: func(cmd *cobra.Command, s *Session) error {
			h.tuiRuns++
			return nil
		},
	})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--data-dir", h.dir, "--backend", h.backend, "--log-level", "error"}, args...))
	err := root.Execute()
	return out.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run(args...)
	require.NoError(h.t, err, out)
	return out
}

func (h *harness) lsJSON(args ...string) []lsRow {
	h.t.Helper()
	out := h.mustRun(append([]string{"ls", "--json"}, args...)...)
	var rows []lsRow
	require.NoError(h.t, json.Unmarshal([]byte(out), &rows))
	return rows
}

func TestRootRunsShell(t *testing.T) {
	h := newHarness(t)
	h.mustRun()
	assert.Equal(t, 1, h.tuiRuns)
	_, err := os.Stat(filepath.Join(h.dir, "mytodo.log"))
	assert.NoError(t, err, "shell logs to a file in the data dir")
}

func TestAddQuickTaskPersists(t *testing.T) {
	h := newHarness(t)
	out := h.mustRun("add", "Buy", "milk")
	assert.Contains(t, out, "added 1: Buy milk")

	rows := h.lsJSON()
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].N)
	assert.Equal(t, "Buy milk", rows[0].Title)
	require.NotNil(t, rows[0].DueDate)
	assert.Equal(t, "2026-10-16", rows[0].DueDate.String())
	require.NotNil(t, rows[0].DueTime)
	assert.Equal(t, "23:59", rows[0].DueTime.String())
	assert.Equal(t, "Normal", string(rows[0].Priority))

	_, err := os.Stat(filepath.Join(h.dir, "tasks.json"))
	assert.NoError(t, err)
}

func TestAddDetailedTask(t *testing.T) {
	h := newHarness(t)
	h.mustRun("lists", "add", "Work")
	h.mustRun("add", "Ship", "release", "--priority", "high", "--due", "tomorrow", "--time", "10:00", "--list", "work", "--desc", "**now**")

	rows := h.lsJSON()
	require.Len(t, rows, 1)
	r := rows[0]
	assert.True(t, r.Important)
	assert.Equal(t, "2026-10-17", r.DueDate.String())
	assert.Equal(t, "10:00", r.DueTime.String())
	require.NotNil(t, r.ListName)
	assert.Equal(t, "Work", *r.ListName)
	assert.Equal(t, "**now**", r.Description)
}

func TestAddWithoutDueDateHasNoDate(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "Someday", "--priority", "low")
	rows := h.lsJSON()
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].DueDate)
	assert.Nil(t, rows[0].DueTime)
}

func TestAddRejectsBadInput(t *testing.T) {
	h := newHarness(t)
	cases := map[string][]string{
		"blank title":   {"add", "  "},
		"unknown list":  {"add", "x", "--list", "nope"},
		"bad priority":  {"add", "x", "--priority", "urgent"},
		"time no date":  {"add", "x", "--time", "10:00"},
		"bad date":      {"add", "x", "--due", "16/10/2026"},
		"missing title": {"add"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := h.run(args...)
			assert.Error(t, err)
		})
	}
	assert.Empty(t, h.lsJSON())
}

func TestDoneEditRm(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "first")
	h.mustRun("add", "second")

	out := h.mustRun("done", "2")
	assert.Contains(t, out, "finished 2: second")
	rows := h.lsJSON("--filter", "finished")
	require.Len(t, rows, 1)
	assert.Equal(t, "second", rows[0].Title)

	h.mustRun("edit", "1", "--title", "renamed", "--priority", "High")
	rows = h.lsJSON("--filter", "important")
	require.Len(t, rows, 1)
	assert.Equal(t, "renamed", rows[0].Title)

	h.mustRun("rm", "1")
	rows = h.lsJSON()
	require.Len(t, rows, 1)
	assert.Equal(t, "second", rows[0].Title)

	_, err := h.run("rm", "5")
	assert.ErrorIs(t, err, ErrNoSuchTask)
	_, err = h.run("done", "abc")
	assert.Error(t, err)
}

func TestEditClearsDueDate(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "dated")
	h.mustRun("edit", "1", "--due", "")
	rows := h.lsJSON()
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].DueDate)
	assert.Nil(t, rows[0].DueTime)
}

func TestClearCompleted(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "a")
	h.mustRun("add", "b")
	h.mustRun("add", "c")
	h.mustRun("done", "1")
	h.mustRun("done", "3")

	out := h.mustRun("clear-completed")
	assert.Contains(t, out, "deleted 2 finished task(s)")
	rows := h.lsJSON()
	require.Len(t, rows, 1)
	assert.Equal(t, "b", rows[0].Title)
}

func TestLsFiltersAndSearch(t *testing.T) {
	h := newHarness(t)
	h.mustRun("lists", "add", "Home")
	h.mustRun("add", "Buy milk", "--list", "Home")
	h.mustRun("add", "Old", "--due", "2026-10-01")
	h.mustRun("add", "Later", "--due", "2026-12-01")

	assert.Len(t, h.lsJSON("--filter", "today"), 1)
	assert.Len(t, h.lsJSON("--filter", "overdue"), 1)
	assert.Len(t, h.lsJSON("--filter", "pending"), 3)
	assert.Len(t, h.lsJSON("--list", "Home"), 1)
	assert.Empty(t, h.lsJSON("--list", "home"), "list filter is exact")

	rows := h.lsJSON("--search", "MILK")
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].N)

	_, err := h.run("ls", "--filter", "someday")
	assert.Error(t, err)
}

func TestLsTable(t *testing.T) {
	h := newHarness(t)
	out := h.mustRun("ls")
	assert.Equal(t, "no tasks\n", out)

	h.mustRun("add", "Pay rent", "--priority", "high", "--due", "2026-10-01")
	out = h.mustRun("ls")
	assert.Contains(t, out, "TITLE")
	assert.Contains(t, out, "Pay rent")
	assert.Contains(t, out, "[-]")
	assert.Contains(t, out, "Unlisted")
}

func TestListsLifecycle(t *testing.T) {
	h := newHarness(t)
	h.mustRun("lists", "add", "Work")
	_, err := h.run("lists", "add", "work")
	assert.Error(t, err, "names are unique without regard to case")

	h.mustRun("add", "report", "--list", "Work")
	out := h.mustRun("lists")
	assert.Contains(t, out, "Work")
	assert.Contains(t, out, "1")

	out = h.mustRun("lists", "rm", "WORK")
	assert.Contains(t, out, "deleted list Work, 1 task(s) now Unlisted")
	rows := h.lsJSON()
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].ListName)

	_, err = h.run("lists", "rm", "Work")
	assert.Error(t, err)
	assert.Equal(t, "no lists\n", h.mustRun("lists"))
}

func TestListIconMustExist(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("lists", "add", "Pics", "--icon", filepath.Join(h.dir, "missing.png"))
	assert.Error(t, err)

	icon := filepath.Join(h.dir, "icon.png")
	require.NoError(t, os.WriteFile(icon, []byte("png"), 0o644))
	h.mustRun("lists", "add", "Pics", "--icon", icon)
	assert.Contains(t, h.mustRun("lists"), icon)
}

func TestCounts(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "a")
	h.mustRun("add", "b", "--priority", "high")
	h.mustRun("done", "1")

	out := h.mustRun("counts")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, len(store.Categories))
	got := map[string]string{}
	for _, line := range lines {
		fields := strings.Fields(line)
		got[fields[0]] = fields[1]
	}
	assert.Equal(t, "2", got["All"])
	assert.Equal(t, "1", got["Today"])
	assert.Equal(t, "1", got["Important"])
	assert.Equal(t, "1", got["Pending"])
	assert.Equal(t, "1", got["Finished"])
	assert.Equal(t, "0", got["Overdue"])
}

func TestExportFormats(t *testing.T) {
	h := newHarness(t)
	h.mustRun("lists", "add", "Home")
	h.mustRun("add", "Buy milk", "--list", "Home")

	out := h.mustRun("export", "--format", "yaml")
	var doc map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Len(t, doc["tasks"], 1)
	assert.Len(t, doc["lists"], 1)

	out = h.mustRun("export", "--format", "toml")
	assert.Contains(t, out, `title = "Buy milk"`)

	path := filepath.Join(h.dir, "backup.json")
	out = h.mustRun("export", "-o", path)
	assert.Contains(t, out, "exported 1 task(s)")
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"listName": "Home"`)

	_, err = h.run("export", "--format", "csv")
	assert.Error(t, err)
}

func TestConfigPrintAndInit(t *testing.T) {
	h := newHarness(t)
	out := h.mustRun("config")
	assert.Contains(t, out, "backend: file")
	assert.Contains(t, out, "data_dir: "+h.dir)

	h.mustRun("config", "init")
	raw, err := os.ReadFile(filepath.Join(h.dir, "config.yml"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "scheduler_buffer: 64")
}

func TestSQLiteBackend(t *testing.T) {
	h := newHarness(t)
	h.backend = "sqlite"
	h.mustRun("lists", "add", "Work")
	h.mustRun("add", "report", "--list", "Work")
	h.mustRun("done", "1")

	rows := h.lsJSON("--filter", "finished")
	require.Len(t, rows, 1)
	assert.Equal(t, "report", rows[0].Title)
}

func TestInvalidBackend(t *testing.T) {
	h := newHarness(t)
	h.backend = "postgres"
	_, err := h.run("ls")
	assert.Error(t, err)
}
