package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sandeepkv93/mytodo/internal/scheduler"
	"github.com/sandeepkv93/mytodo/internal/update"
)

// runTUI starts the due-time scheduler and runs the Bubble Tea shell until
// the user quits.
func runTUI(cmd *cobra.Command, s *Session) error {
	engine := scheduler.NewEngine(s.Config.SchedulerBuffer)
	engine.Start()
	defer func() {
		engine.Stop()
		if n := engine.Dropped(); n > 0 {
			s.Log.Warn("scheduler dropped events", zap.Uint64("count", n))
		}
	}()

	var notifier update.DesktopNotifier = update.NoopDesktopNotifier{}
	if s.Config.DesktopNotifications {
		notifier = update.ExecDesktopNotifier{}
	}
	m := update.NewModel(s.Store, update.Options{
		DesktopNotifications: s.Config.DesktopNotifications,
		MarkdownStyle:        s.Config.MarkdownStyle,
		Notifier:             notifier,
		Scheduler:            engine,
		Logger:               s.Log,
	})

	program := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithContext(cmd.Context()),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	s.Log.Info("shell started", zap.Int("tasks", len(s.Store.Tasks())), zap.Int("lists", len(s.Store.Lists())))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("mytodo: %w", err)
	}
	s.Log.Info("shell stopped")
	return nil
}
