// Package cli implements the mytodo command line using the cobra framework.
// Running mytodo without a subcommand opens the terminal UI.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sandeepkv93/mytodo/internal/config"
	"github.com/sandeepkv93/mytodo/internal/logging"
	"github.com/sandeepkv93/mytodo/internal/storage"
	"github.com/sandeepkv93/mytodo/internal/store"
)

// Session is what every command works against once the configuration is
// resolved and the store is loaded.
type Session struct {
	Config config.Config
	Log    *zap.Logger
	Store  *store.Store
	gw     storage.Gateway
	err    error
}

// saved returns the first persistence failure reported by the store since
// the last call.
func (s *Session) saved() error {
	err := s.err
	s.err = nil
	return err
}

func (s *Session) close() {
	if s == nil {
		return
	}
	if s.gw != nil {
		if err := s.gw.Close(); err != nil {
			s.Log.Warn("close storage", zap.Error(err))
		}
	}
	logging.Sync(s.Log)
}

type Options struct {
	// RunTUI runs the interactive shell. Defaults to the Bubble Tea program.
	RunTUI func(cmd *cobra.Command, s *Session) error
	// StoreOptions are passed to store.Load, mainly for tests.
	StoreOptions []store.Option
}

// NewRootCmd builds the command tree. Each call returns an independent tree.
func NewRootCmd(opts Options) *cobra.Command {
	if opts.RunTUI == nil {
		opts.RunTUI = runTUI
	}
	var session *Session

	root := &cobra.Command{
		Use:   "mytodo",
		Short: "A to-do list for the terminal",
		Long: `mytodo keeps tasks and lists in a hidden directory in your home folder.

Run it without arguments for the interactive interface, or use the
subcommands to script it.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts, cmd == cmd.Root())
			if err != nil {
				return err
			}
			session = s
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.RunTUI(cmd, session)
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	config.BindFlags(root.PersistentFlags())

	current := func() *Session { return session }
	root.AddCommand(
		newAddCmd(current),
		newLsCmd(current),
		newDoneCmd(current),
		newEditCmd(current),
		newRmCmd(current),
		newClearCompletedCmd(current),
		newListsCmd(current),
		newCountsCmd(current),
		newExportCmd(current),
		newConfigCmd(current),
	)
	closeAfterRun(root, func() {
		session.close()
		session = nil
	})
	return root
}

// closeAfterRun releases the session once a command finishes, including
// when it fails. Cobra skips post-run hooks on error.
func closeAfterRun(c *cobra.Command, release func()) {
	if run := c.RunE; run != nil {
		c.RunE = func(cmd *cobra.Command, args []string) error {
			defer release()
			return run(cmd, args)
		}
	}
	for _, sub := range c.Commands() {
		closeAfterRun(sub, release)
	}
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd(Options{}).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openSession resolves configuration, builds the logger and loads the
// store. The TUI logs to a file because it owns the terminal.
func openSession(cmd *cobra.Command, opts Options, tui bool) (*Session, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, err
	}
	if err := storage.EnsureDataDir(cfg.DataDir); err != nil {
		return nil, err
	}

	logOpts := logging.Options{Level: cfg.LogLevel, Development: cfg.LogDevelopment}
	if tui {
		logOpts.File = cfg.LogPath()
	}
	log, err := logging.New(logOpts)
	if err != nil {
		return nil, err
	}

	gw, err := storage.Open(cfg.Backend, cfg.DataDir, log)
	if err != nil {
		logging.Sync(log)
		return nil, err
	}
	storeOpts := append([]store.Option{store.WithLogger(log)}, opts.StoreOptions...)
	st := store.Load(gw, storeOpts...)
	s := &Session{Config: cfg, Log: log, Store: st, gw: gw}
	st.Subscribe(func(ev store.Event) {
		if ev.Err != nil && s.err == nil {
			s.err = ev.Err
		}
	})
	log.Debug("session opened", zap.String("dir", cfg.DataDir), zap.String("backend", cfg.Backend))
	return s, nil
}
