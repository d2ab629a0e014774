package views

import (
	"fmt"
	"strings"
)

type SidebarEntry struct {
	Label    string
	Count    int
	Icon     string
	Selected bool
	Cursor   bool
	Heading  bool
}

type SidebarData struct {
	Focused bool
	Entries []SidebarEntry
}

type TaskListData struct {
	Title     string
	Focused   bool
	TableView string
	Empty     bool
	Input     string
}

type DetailData struct {
	Title       string
	Priority    string
	Due         string
	List        string
	Completed   bool
	Important   bool
	Overdue     bool
	Description string
}

type FormField struct {
	Label  string
	View   string
	Active bool
	Hint   string
}

type FormData struct {
	Title  string
	Fields []FormField
	Error  string
	Keys   string
}

type DialogData struct {
	Title   string
	Header  string
	Content string
	Buttons []string
	Cursor  int
}

type HelpPanelData struct {
	Bindings []string
	HelpView string
}

func RenderSidebar(data SidebarData) string {
	var b strings.Builder
	for _, e := range data.Entries {
		if e.Heading {
			b.WriteString("\n" + mutedStyle.Render(e.Label) + "\n")
			continue
		}
		cursor := " "
		if e.Cursor && data.Focused {
			cursor = ">"
		}
		label := e.Label
		if e.Icon != "" {
			label = e.Icon + " " + label
		}
		line := fmt.Sprintf("%s %-16s %3d", cursor, truncate(label, 16), e.Count)
		if e.Selected {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func RenderTaskList(data TaskListData) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(data.Title) + "\n")
	if data.Input != "" {
		b.WriteString(data.Input + "\n")
	}
	if data.Empty {
		b.WriteString(mutedStyle.Render("(no tasks)"))
		return b.String()
	}
	b.WriteString(data.TableView)
	return strings.TrimRight(b.String(), "\n")
}

func RenderDetail(data DetailData) string {
	if data.Title == "" {
		return mutedStyle.Render("(no selection)")
	}
	var b strings.Builder
	b.WriteString(selectedStyle.Render(data.Title) + "\n\n")
	state := "pending"
	if data.Completed {
		state = "finished"
	}
	b.WriteString(fmt.Sprintf("state:    %s\n", state))
	b.WriteString(fmt.Sprintf("priority: %s\n", data.Priority))
	due := data.Due
	if due == "" {
		due = "-"
	}
	if data.Overdue {
		due = overdueStyle.Render(due + " (overdue)")
	}
	b.WriteString(fmt.Sprintf("due:      %s\n", due))
	b.WriteString(fmt.Sprintf("list:     %s\n", data.List))
	if data.Important {
		b.WriteString("important\n")
	}
	if strings.TrimSpace(data.Description) != "" {
		b.WriteString("\n" + data.Description)
	}
	return strings.TrimRight(b.String(), "\n")
}

func RenderForm(data FormData) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(data.Title) + "\n")
	for _, f := range data.Fields {
		marker := " "
		if f.Active {
			marker = ">"
		}
		b.WriteString(fmt.Sprintf("\n%s %s", marker, f.Label))
		if f.Hint != "" {
			b.WriteString(" " + mutedStyle.Render(f.Hint))
		}
		b.WriteString("\n" + f.View + "\n")
	}
	if data.Error != "" {
		b.WriteString("\n" + errorStyle.Render(data.Error) + "\n")
	}
	if data.Keys != "" {
		b.WriteString("\n" + footerStyle.Render(data.Keys))
	}
	return strings.TrimRight(b.String(), "\n")
}

func RenderDialog(data DialogData) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(data.Title) + "\n")
	if data.Header != "" {
		b.WriteString("\n" + data.Header + "\n")
	}
	if data.Content != "" {
		b.WriteString("\n" + data.Content + "\n")
	}
	buttons := make([]string, 0, len(data.Buttons))
	for i, label := range data.Buttons {
		if i == data.Cursor {
			buttons = append(buttons, selectedStyle.Render("["+label+"]"))
		} else {
			buttons = append(buttons, " "+label+" ")
		}
	}
	b.WriteString("\n" + strings.Join(buttons, "  "))
	return b.String()
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\n%s\n\n%s", strings.Join(data.Bindings, "\n"), data.HelpView)
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: %s", input)
}

func RenderNotification(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("notification: [%s] %s", strings.ToUpper(level), body)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
