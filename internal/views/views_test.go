package views

import (
	"strings"
	"testing"
)

func TestRenderAppOverlayReplacesDetail(t *testing.T) {
	out := RenderApp(AppData{
		Header:  "mytodo | All",
		Sidebar: "side",
		Main:    "tasks",
		Detail:  "detail pane",
		Overlay: "confirm?",
		Footer:  "keys",
	})
	if !strings.Contains(out, "confirm?") {
		t.Fatalf("overlay missing:\n%s", out)
	}
	if strings.Contains(out, "detail pane") {
		t.Fatalf("detail should be hidden behind the overlay:\n%s", out)
	}
	if !strings.Contains(out, "mytodo | All") || !strings.Contains(out, "keys") {
		t.Fatalf("header or footer missing:\n%s", out)
	}
}

func TestRenderSidebarMarksCursorOnlyWhenFocused(t *testing.T) {
	data := SidebarData{Entries: []SidebarEntry{
		{Label: "Today", Count: 2, Cursor: true},
		{Label: "Lists", Heading: true},
		{Label: "Groceries", Count: 1, Icon: "*"},
	}}
	out := RenderSidebar(data)
	if strings.Contains(out, ">") {
		t.Fatalf("unfocused sidebar shows a cursor:\n%s", out)
	}
	data.Focused = true
	out = RenderSidebar(data)
	if !strings.Contains(out, "> Today") {
		t.Fatalf("focused sidebar lacks cursor:\n%s", out)
	}
	if !strings.Contains(out, "* Groceries") {
		t.Fatalf("list icon missing:\n%s", out)
	}
}

func TestRenderDetail(t *testing.T) {
	if got := RenderDetail(DetailData{}); !strings.Contains(got, "no selection") {
		t.Fatalf("empty detail = %q", got)
	}
	out := RenderDetail(DetailData{Title: "Pay rent", Priority: "High", Due: "2026-10-01", List: "Unlisted", Overdue: true, Important: true})
	for _, want := range []string{"Pay rent", "priority: High", "(overdue)", "list:     Unlisted", "important"} {
		if !strings.Contains(out, want) {
			t.Fatalf("detail missing %q:\n%s", want, out)
		}
	}
}

func TestRenderDialogButtons(t *testing.T) {
	out := RenderDialog(DialogData{Title: "Delete task", Content: "Pay rent", Buttons: []string{"Delete", "Cancel"}, Cursor: 1})
	if !strings.Contains(out, "[Cancel]") || strings.Contains(out, "[Delete]") {
		t.Fatalf("cursor button not bracketed:\n%s", out)
	}
}

func TestRenderMarkdown(t *testing.T) {
	if RenderMarkdown("  ", "notty", 40) != "" {
		t.Fatal("blank markdown should render empty")
	}
	out := RenderMarkdown("# Shopping\n\n- milk", "notty", 40)
	if !strings.Contains(out, "Shopping") || !strings.Contains(out, "milk") {
		t.Fatalf("markdown = %q", out)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("Groceries and more", 9); len([]rune(got)) > 9 {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("short", 9); got != "short" {
		t.Fatalf("truncate = %q", got)
	}
}
