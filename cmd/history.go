/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/perspecto/internal/ui"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show, recall or clear the activity history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		return withWorkspace(cmd.Context(), func(w *workspace) error {
			items := w.ctrl.State().History
			if limit > 0 && len(items) > limit {
				items = items[:limit]
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), items)
			}
			fmt.Fprint(cmd.OutOrStdout(), ui.RenderHistory(items))
			return nil
		})
	},
}

var historyRecallCmd = &cobra.Command{
	Use:   "recall <id>",
	Short: "Show a history entry as the current result",
	Long: `Recall a history entry. The result opens detached from any project; save it
to keep a copy.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withWorkspace(cmd.Context(), func(w *workspace) error {
			if err := w.ctrl.RecallHistory(cmd.Context(), args[0]); err != nil {
				return err
			}
			return printState(cmd.OutOrStdout(), w.ctrl.State())
		})
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all history entries (projects are kept)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !confirmOrAbort(cmd.OutOrStdout(), "Clear the whole history? [y/N] ", yes) {
			return nil
		}
		return withWorkspace(cmd.Context(), func(w *workspace) error {
			if err := w.ctrl.ClearHistory(cmd.Context()); err != nil {
				return err
			}
			if !isJSON() {
				fmt.Fprintln(cmd.OutOrStdout(), ui.RenderNotice("History cleared"))
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyRecallCmd)
	historyCmd.AddCommand(historyClearCmd)

	historyCmd.Flags().IntP("limit", "n", 20, "number of entries to show (0 for all)")
	historyClearCmd.Flags().BoolP("yes", "y", false, "skip confirmation")
}
