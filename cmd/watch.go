/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/perspecto/internal/app"
	"github.com/josephgoksu/perspecto/internal/kv"
	"github.com/josephgoksu/perspecto/internal/store"
	"github.com/josephgoksu/perspecto/internal/ui"
	"github.com/josephgoksu/perspecto/internal/util"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow changes made by other Perspecto processes",
	Long: `Print a line whenever projects, history or the session change on disk, for
example while an MCP client works in the same data directory. Only the file
storage backend supports watching. Stop with Ctrl+C.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withWorkspace(cmd.Context(), func(w *workspace) error {
			watcher, ok := w.kvs.(kv.Watcher)
			if !ok {
				return kv.ErrWatchUnsupported
			}
			keys, err := watcher.Watch(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), ui.StyleSubtle.Render("Watching for changes. Press Ctrl+C to stop."))
			for key := range keys {
				if err := describeChange(cmd.Context(), cmd.OutOrStdout(), w.deps, key); err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), ui.RenderError(err))
				}
			}
			if errors.Is(cmd.Context().Err(), context.Canceled) {
				return nil
			}
			return cmd.Context().Err()
		})
	},
}

// describeChange reloads the document behind key and prints one summary line.
func describeChange(ctx context.Context, out io.Writer, deps *app.Context, key string) error {
	stamp := ui.StyleSubtle.Render(time.Now().Format("15:04:05"))
	switch key {
	case store.ProjectsKey:
		projects, err := deps.Projects.GetAll(ctx)
		if err != nil {
			return err
		}
		items := 0
		for _, p := range projects {
			items += len(p.Items)
		}
		fmt.Fprintf(out, "%s projects: %d projects, %d artifacts\n", stamp, len(projects), items)
	case store.HistoryKey:
		entries, err := deps.History.All(ctx)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Fprintf(out, "%s history: cleared\n", stamp)
			return nil
		}
		latest := entries[0]
		fmt.Fprintf(out, "%s history: %s %s\n", stamp, util.ShortID(latest.ID, 0), latest.InputContext.Context)
	case store.SessionKey:
		s, err := deps.Session.Load(ctx)
		if err != nil {
			return err
		}
		if s == nil {
			fmt.Fprintf(out, "%s session: reset\n", stamp)
			return nil
		}
		fmt.Fprintf(out, "%s session: %s\n", stamp, s.View)
	default:
		fmt.Fprintf(out, "%s %s changed\n", stamp, key)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
