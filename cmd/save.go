/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/perspecto/internal/app"
	"github.com/josephgoksu/perspecto/internal/telemetry"
	"github.com/josephgoksu/perspecto/internal/ui"
)

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save the current artifact",
	Long: `Save the current result.

An open saved artifact is updated in place. With a project open, the result is
added to it. A standalone result needs a target project: pass --project or
--new-project, or pick one interactively.`,
	Example: `  perspecto save
  perspecto save --project 3f2a9c1d
  perspecto save --new-project "Budgeting"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		projectRef, _ := cmd.Flags().GetString("project")
		newProject, _ := cmd.Flags().GetString("new-project")
		image, _ := cmd.Flags().GetString("image")
		if projectRef != "" && newProject != "" {
			return errors.New("use either --project or --new-project, not both")
		}

		return withWorkspace(cmd.Context(), func(w *workspace) error {
			ctx := cmd.Context()
			if w.ctrl.State().PendingSave == nil {
				outcome, err := w.ctrl.Save(ctx)
				if err != nil {
					return err
				}
				if outcome != app.SavePending {
					telemetry.Default().Track(telemetry.EventArtifactSaved, telemetry.Properties{"outcome": string(outcome)})
					return printState(cmd.OutOrStdout(), w.ctrl.State())
				}
			}

			if projectRef == "" && newProject == "" && ui.IsInteractive() && !isJSON() {
				choice, err := ui.Select("Save to project", projectOptions(w.ctrl.State(), true))
				if err != nil {
					return err
				}
				if choice == newProjectOption {
					if newProject, err = ui.PromptLine("Project name", ""); err != nil {
						return err
					}
				} else {
					projectRef = choice
				}
			}

			switch {
			case projectRef != "":
				p, err := w.deps.Projects.Resolve(ctx, projectRef)
				if err != nil {
					return err
				}
				if _, err := w.ctrl.SaveToExistingProject(ctx, p.ID); err != nil {
					return err
				}
			case newProject != "":
				if _, err := w.ctrl.CreateProject(ctx, newProject, image); err != nil {
					return err
				}
				telemetry.Default().Track(telemetry.EventProjectCreated, nil)
			default:
				return printState(cmd.OutOrStdout(), w.ctrl.State())
			}
			telemetry.Default().Track(telemetry.EventArtifactSaved, telemetry.Properties{"outcome": "standalone"})
			return printState(cmd.OutOrStdout(), w.ctrl.State())
		})
	},
}

func init() {
	rootCmd.AddCommand(saveCmd)
	saveCmd.Flags().StringP("project", "p", "", "save a standalone result into this project (id or prefix)")
	saveCmd.Flags().String("new-project", "", "create a project with this name and save into it")
	saveCmd.Flags().String("image", "", "preview image URL for --new-project")
}
