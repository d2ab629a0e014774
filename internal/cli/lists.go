package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/mytodo/internal/model"
	"github.com/sandeepkv93/mytodo/internal/storage"
	"github.com/sandeepkv93/mytodo/internal/store"
)

func newListsCmd(current sessionFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lists",
		Short: "Show lists with their task counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := current()
			lists := s.Store.Lists()
			if len(lists) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no lists")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tTASKS\tICON")
			for _, l := range lists {
				icon := l.Icon()
				if icon == "" {
					icon = "-"
				}
				fmt.Fprintf(tw, "%s\t%d\t%s\n", l.Name, s.Store.CountForList(l.Name), icon)
			}
			return tw.Flush()
		},
	}
	cmd.AddCommand(newListAddCmd(current), newListRmCmd(current))
	return cmd
}

func newListAddCmd(current sessionFunc) *cobra.Command {
	var icon string
	cmd := &cobra.Command{
		Use:   "add <name...>",
		Short: "Create a list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := current()
			var iconPath *string
			if icon != "" {
				if _, err := os.Stat(icon); err != nil {
					return fmt.Errorf("icon: %w", err)
				}
				iconPath = model.StringPtr(icon)
			}
			l, err := s.Store.AddList(strings.Join(args, " "), iconPath)
			if l == nil {
				return err
			}
			if err := firstErr(err, s.saved()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created list %s\n", l.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&icon, "icon", "", "path to an icon image")
	return cmd
}

func newListRmCmd(current sessionFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <name...>",
		Short: "Delete a list; its tasks become Unlisted",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := current()
			name := strings.Join(args, " ")
			l := s.Store.FindList(name)
			if l == nil {
				return fmt.Errorf("no list named %q", name)
			}
			moved := s.Store.CountForList(l.Name)
			s.Store.DeleteList(l)
			if err := s.saved(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted list %s, %d task(s) now %s\n", l.Name, moved, model.UnlistedLabel)
			return nil
		},
	}
}

func newCountsCmd(current sessionFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "counts",
		Short: "Show the number of tasks in each category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := current().Store.CountsByCategory()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, f := range store.Categories {
				fmt.Fprintf(tw, "%s\t%d\n", f.Label(), c.For(f))
			}
			return tw.Flush()
		},
	}
}

func newExportCmd(current sessionFunc) *cobra.Command {
	var format, output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all tasks and lists as JSON, YAML or TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := current()
			tasks := make([]model.Task, 0, len(s.Store.Tasks()))
			for _, t := range s.Store.Tasks() {
				tasks = append(tasks, t.Clone())
			}
			lists := make([]model.List, 0, len(s.Store.Lists()))
			for _, l := range s.Store.Lists() {
				lists = append(lists, *l)
			}

			if output == "" || output == "-" {
				return storage.Export(cmd.OutOrStdout(), format, tasks, lists)
			}
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := storage.Export(f, format, tasks, lists); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d task(s) to %s\n", len(tasks), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", storage.FormatJSON, "json, yaml or toml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write; stdout when empty")
	return cmd
}

func newConfigCmd(current sessionFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the resolved configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return current().Config.WriteYAML(cmd.OutOrStdout())
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the resolved configuration to config.yml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := current().Config
			if err := cfg.Save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", cfg.Path())
			return nil
		},
	})
	return cmd
}
