package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

type AppData struct {
	Header       string
	Progress     string
	Sidebar      string
	Main         string
	Detail       string
	Overlay      string
	StatusLine   string
	StatusError  bool
	Notification string
	Footer       string

	// SidebarFocused highlights the sidebar border instead of the task list.
	SidebarFocused bool
}

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	activePanel   = panelStyle.BorderForeground(lipgloss.Color("12"))
	overlayStyle  = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("11")).Padding(0, 1)
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	overdueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

const (
	sidebarWidth = 26
	mainWidth    = 64
	detailWidth  = 40
)

// RenderApp lays out the sidebar, task list and detail pane. An overlay
// (form, dialog, help) replaces the detail pane while it is open.
func RenderApp(data AppData) string {
	sideStyle, mainStyle := panelStyle, activePanel
	if data.SidebarFocused {
		sideStyle, mainStyle = activePanel, panelStyle
	}
	side := sideStyle.Width(sidebarWidth).Render(data.Sidebar)
	main := mainStyle.Width(mainWidth).Render(data.Main)
	right := panelStyle.Width(detailWidth).Render(data.Detail)
	if data.Overlay != "" {
		right = overlayStyle.Width(detailWidth).Render(data.Overlay)
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, side, main, right)

	header := headerStyle.Render(data.Header)
	if data.Progress != "" {
		header = header + "  " + data.Progress
	}
	lines := []string{header, row}
	if data.StatusLine != "" {
		if data.StatusError {
			lines = append(lines, errorStyle.Render(data.StatusLine))
		} else {
			lines = append(lines, statusStyle.Render(data.StatusLine))
		}
	}
	if data.Notification != "" {
		lines = append(lines, mutedStyle.Render(data.Notification))
	}
	if data.Footer != "" {
		lines = append(lines, footerStyle.Render(data.Footer))
	}
	return strings.Join(lines, "\n")
}

// RenderMarkdown renders md with the named glamour style, falling back to
// the raw text when rendering fails.
func RenderMarkdown(md, style string, width int) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	if style == "" {
		style = "dark"
	}
	opts := []glamour.TermRendererOption{glamour.WithStandardStyle(style)}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
