/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/perspecto/internal/app"
	"github.com/josephgoksu/perspecto/internal/export"
	"github.com/josephgoksu/perspecto/internal/ui"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the current artifact as Markdown, JSON or YAML",
	Example: `  perspecto export
  perspecto export --format json --output persona.json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		formatFlag, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")
		format, err := export.ParseFormat(formatFlag)
		if err != nil {
			return err
		}

		return withWorkspace(cmd.Context(), func(w *workspace) error {
			st := w.ctrl.State()
			if st.Result == nil {
				return app.ErrNoInput
			}
			doc := export.FromOpen(*st.Result, st.InputContext, st.ActiveProject, st.ActiveItem)

			var out io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create %s: %w", output, err)
				}
				defer func() { _ = f.Close() }()
				out = f
			}
			if err := export.Write(out, doc, format); err != nil {
				return err
			}
			if output != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), ui.RenderNotice("Exported "+doc.Name+" to "+output))
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringP("format", "f", "markdown", "json, yaml or markdown")
	exportCmd.Flags().StringP("output", "o", "", "write to a file instead of stdout")
}
