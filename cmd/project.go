/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/perspecto/internal/app"
	"github.com/josephgoksu/perspecto/internal/telemetry"
	"github.com/josephgoksu/perspecto/internal/ui"
	"github.com/josephgoksu/perspecto/internal/util"
	"github.com/josephgoksu/perspecto/models"
)

// newProjectOption is the Select choice that creates a project instead of picking one.
const newProjectOption = "+new"

func projectOptions(s app.State, withNew bool) []ui.Option {
	var options []ui.Option
	if withNew {
		options = append(options, ui.Option{ID: newProjectOption, Label: "+ New project"})
	}
	for _, p := range s.Projects {
		options = append(options, ui.Option{
			ID:          p.ID,
			Label:       p.Name,
			Description: fmt.Sprintf("%s · %d items", util.ShortID(p.ID, 0), len(p.Items)),
		})
	}
	return options
}

// resolveProjectArg resolves an id prefix, or asks interactively when none is given.
func resolveProjectArg(ctx context.Context, w *workspace, args []string) (*models.Project, error) {
	if len(args) == 1 {
		return w.deps.Projects.Resolve(ctx, args[0])
	}
	if !ui.IsInteractive() || isJSON() {
		return nil, errors.New("a project id is required")
	}
	id, err := ui.Select("Select a project", projectOptions(w.ctrl.State(), false))
	if err != nil {
		return nil, err
	}
	return w.deps.Projects.Resolve(ctx, id)
}

var projectCmd = &cobra.Command{
	Use:     "project",
	Aliases: []string{"projects", "p"},
	Short:   "Manage projects",
	Long:    `Projects group the personas and JTBD sets you save.`,
}

var projectListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List projects",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withWorkspace(cmd.Context(), func(w *workspace) error {
			projects := w.ctrl.State().Projects
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), projects)
			}
			fmt.Fprint(cmd.OutOrStdout(), ui.RenderProjects(projects))
			return nil
		})
	},
}

var projectCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a project and open it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		image, _ := cmd.Flags().GetString("image")
		return withWorkspace(cmd.Context(), func(w *workspace) error {
			if _, err := w.ctrl.CreateProject(cmd.Context(), args[0], image); err != nil {
				return err
			}
			telemetry.Default().Track(telemetry.EventProjectCreated, nil)
			return printState(cmd.OutOrStdout(), w.ctrl.State())
		})
	},
}

var projectOpenCmd = &cobra.Command{
	Use:   "open [id]",
	Short: "Open a project",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withWorkspace(cmd.Context(), func(w *workspace) error {
			p, err := resolveProjectArg(cmd.Context(), w, args)
			if err != nil {
				return err
			}
			if err := w.ctrl.SelectProject(cmd.Context(), p.ID); err != nil {
				return err
			}
			return printState(cmd.OutOrStdout(), w.ctrl.State())
		})
	},
}

var projectRenameCmd = &cobra.Command{
	Use:   "rename <id> <name>",
	Short: "Rename a project",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withWorkspace(cmd.Context(), func(w *workspace) error {
			p, err := w.deps.Projects.Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			image := p.PreviewImage
			if cmd.Flags().Changed("image") {
				image, _ = cmd.Flags().GetString("image")
			}
			updated, err := w.ctrl.RenameProject(cmd.Context(), p.ID, args[1], image)
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), updated)
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.RenderNotice(fmt.Sprintf("Renamed %s to %s", util.ShortID(updated.ID, 0), updated.Name)))
			return nil
		})
	},
}

var projectDeleteCmd = &cobra.Command{
	Use:     "delete [id]",
	Aliases: []string{"rm"},
	Short:   "Delete a project and all its artifacts",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		return withWorkspace(cmd.Context(), func(w *workspace) error {
			p, err := resolveProjectArg(cmd.Context(), w, args)
			if err != nil {
				return err
			}
			prompt := fmt.Sprintf("Delete %q and its %d artifacts? [y/N] ", p.Name, len(p.Items))
			if !confirmOrAbort(cmd.OutOrStdout(), prompt, yes) {
				return nil
			}
			if err := w.ctrl.DeleteProject(cmd.Context(), p.ID); err != nil {
				return err
			}
			return printState(cmd.OutOrStdout(), w.ctrl.State())
		})
	},
}

func init() {
	rootCmd.AddCommand(projectCmd)
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectCreateCmd)
	projectCmd.AddCommand(projectOpenCmd)
	projectCmd.AddCommand(projectRenameCmd)
	projectCmd.AddCommand(projectDeleteCmd)

	projectCreateCmd.Flags().String("image", "", "preview image URL")
	projectRenameCmd.Flags().String("image", "", "replace the preview image URL")
	projectDeleteCmd.Flags().BoolP("yes", "y", false, "skip confirmation")
}
