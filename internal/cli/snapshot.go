package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/avlviz/pkg/errors"
	"github.com/matzehuels/avlviz/pkg/graph"
	"github.com/matzehuels/avlviz/pkg/render/text"
	"github.com/matzehuels/avlviz/pkg/store"
)

// shortIDLen is how much of a snapshot ID listings show.
const shortIDLen = 8

// snapshotCommand creates the snapshot management command.
func (c *CLI) snapshotCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "snapshot",
		Aliases: []string{"snap"},
		Short:   "Manage saved key sequences",
		Long: `Manage snapshots: named key sequences that rebuild a tree exactly.

Snapshots are shared with 'avlviz serve'. A snapshot can be referred to by
its ID, its name, or a unique ID prefix.`,
	}

	cmd.AddCommand(c.snapshotSaveCommand())
	cmd.AddCommand(c.snapshotListCommand())
	cmd.AddCommand(c.snapshotShowCommand())
	cmd.AddCommand(c.snapshotRemoveCommand())

	return cmd
}

// openStore opens the configured snapshot store.
func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("open snapshot store: %w", err)
	}
	loggerFromContext(ctx).Debug("snapshot store", "backend", cfg.Store.Kind())
	return st, nil
}

// snapshotSaveCommand creates the "snapshot save" subcommand.
func (c *CLI) snapshotSaveCommand() *cobra.Command {
	var (
		input  string
		extend bool
	)

	cmd := &cobra.Command{
		Use:   "save NAME [keys...]",
		Short: "Save a key sequence under a name",
		Example: `  avlviz snapshot save demo 30 20 10
  avlviz snapshot save demo 40 50 --append
  avlviz random | avlviz snapshot save batch -i -`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := args[0]
			if err := errors.ValidateName(name); err != nil {
				return err
			}
			ks, err := readKeys(cmd, args[1:], input)
			if err != nil {
				return err
			}

			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			snap, err := store.Find(ctx, st, name)
			switch {
			case err == nil && snap.Name == name:
				if !extend {
					return errors.New(errors.ErrCodeInvalidInput, "snapshot %q already exists (use --append to extend it)", name)
				}
				snap.Append(ks...)
			case err == nil || errors.Is(err, errors.ErrCodeSnapshotNotFound) || errors.Is(err, errors.ErrCodeInvalidInput):
				snap = store.NewSnapshot(name, ks)
			default:
				return err
			}

			if err := st.Save(ctx, snap); err != nil {
				return err
			}
			t := snap.Tree()
			printSuccess("Saved snapshot %s", StyleHighlight.Render(name))
			printDetail("%s · %d keys · %d nodes · height %d", shortID(snap.ID), len(snap.Keys), t.Len(), t.Height())
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "read keys from file (- for stdin)")
	cmd.Flags().BoolVar(&extend, "append", false, "add keys to an existing snapshot")

	return cmd
}

// snapshotListCommand creates the "snapshot list" subcommand.
func (c *CLI) snapshotListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List snapshots, most recent first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			snaps, err := st.List(ctx)
			if err != nil {
				return err
			}
			if len(snaps) == 0 {
				printInfo("No snapshots")
				return nil
			}

			now := time.Now()
			rows := make([][]string, len(snaps))
			for i, s := range snaps {
				name := s.Name
				if name == "" {
					name = "—"
				}
				rows[i] = []string{shortID(s.ID), name, fmt.Sprint(len(s.Keys)), formatRelativeTime(now, s.UpdatedAt)}
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"ID", "Name", "Keys", "Updated"}, rows))
			return nil
		},
	}
}

// snapshotShowCommand creates the "snapshot show" subcommand.
func (c *CLI) snapshotShowCommand() *cobra.Command {
	var (
		asJSON bool
		lf     layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "show REF",
		Short: "Show a snapshot and draw its tree",
		Args:  cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return c.completeSnapshotRefs(cmd, args, toComplete)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts := defaultOptions(cfg)
			lf.apply(cmd, &opts)
			lcfg, err := opts.LayoutConfig()
			if err != nil {
				return err
			}

			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			snap, err := store.Find(ctx, st, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				data, err := json.MarshalIndent(snap, "", "  ")
				if err != nil {
					return errors.Wrap(errors.ErrCodeInternal, err, "encode snapshot")
				}
				fmt.Fprintln(out, string(data))
				return nil
			}

			t := snap.Tree()
			s := t.Stats()
			printKeyValue("ID", snap.ID)
			if snap.Name != "" {
				printKeyValue("Name", snap.Name)
			}
			printKeyValue("Keys", formatKeys(snap.Keys))
			printKeyValue("Tree", fmt.Sprintf("%d nodes · height %d · %d rotations · %d duplicates",
				t.Len(), t.Height(), s.Rotations(), s.Duplicates))
			printKeyValue("Updated", snap.UpdatedAt.Local().Format(time.DateTime))
			printNewline()
			fmt.Fprint(out, text.Render(graph.FromTree(t, opts.Origin(), lcfg), text.WithBalance()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the snapshot as JSON")
	lf.register(cmd)

	return cmd
}

// snapshotRemoveCommand creates the "snapshot rm" subcommand.
func (c *CLI) snapshotRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "rm REF...",
		Aliases:           []string{"remove", "delete"},
		Short:             "Remove snapshots",
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: c.completeSnapshotRefs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			for _, ref := range args {
				snap, err := store.Find(ctx, st, ref)
				if err != nil {
					return err
				}
				if err := st.Delete(ctx, snap.ID); err != nil {
					return err
				}
				printSuccess("Removed snapshot %s", shortID(snap.ID))
			}
			return nil
		},
	}
}

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

// formatRelativeTime renders t relative to now for listings.
func formatRelativeTime(now, t time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Local().Format("Jan 2, 2006")
	}
}
