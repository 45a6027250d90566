/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/perspecto/internal/app"
	"github.com/josephgoksu/perspecto/internal/ui"
	"github.com/josephgoksu/perspecto/internal/util"
	"github.com/josephgoksu/perspecto/models"
)

// resolveItemArg finds an item of the open project by prefix, or asks interactively.
func resolveItemArg(w *workspace, args []string) (*models.Item, error) {
	p := w.ctrl.State().ActiveProject
	if p == nil {
		return nil, fmt.Errorf("%w: run 'perspecto project open' first", app.ErrNoActiveProject)
	}
	if len(args) == 1 {
		return app.ResolveItem(*p, args[0])
	}
	if !ui.IsInteractive() || isJSON() {
		return nil, errors.New("an item id is required")
	}
	var options []ui.Option
	for _, it := range p.Items {
		options = append(options, ui.Option{
			ID:          it.ID,
			Label:       it.Name,
			Description: fmt.Sprintf("%s · %s", util.ShortID(it.ID, 0), it.Type),
		})
	}
	id, err := ui.Select("Select an artifact", options)
	if err != nil {
		return nil, err
	}
	return app.ResolveItem(*p, id)
}

var itemCmd = &cobra.Command{
	Use:     "item",
	Aliases: []string{"items"},
	Short:   "Work with the artifacts of the open project",
}

var itemNewCmd = &cobra.Command{
	Use:   "new <persona|jtbd|both>",
	Short: "Start a new artifact of a fixed type in the open project",
	Long: `Start a new artifact in the open project. The type is locked for the
following 'perspecto generate'.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := models.ParseGeneratorType(args[0])
		if err != nil {
			return err
		}
		return withWorkspace(cmd.Context(), func(w *workspace) error {
			if err := w.ctrl.NewProjectItem(cmd.Context(), kind); err != nil {
				return err
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), w.ctrl.State())
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Describe the project with: perspecto generate \"...\" (type %s)\n", kind)
			return nil
		})
	},
}

var itemOpenCmd = &cobra.Command{
	Use:   "open [id]",
	Short: "Open an artifact of the open project",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withWorkspace(cmd.Context(), func(w *workspace) error {
			item, err := resolveItemArg(w, args)
			if err != nil {
				return err
			}
			if err := w.ctrl.EditProjectItem(cmd.Context(), item.ID); err != nil {
				return err
			}
			return printState(cmd.OutOrStdout(), w.ctrl.State())
		})
	},
}

var itemDeleteCmd = &cobra.Command{
	Use:     "delete [id]",
	Aliases: []string{"rm"},
	Short:   "Delete an artifact (the open one when no id is given)",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		return withWorkspace(cmd.Context(), func(w *workspace) error {
			st := w.ctrl.State()
			if len(args) == 0 && st.ActiveItem != nil {
				if !confirmOrAbort(cmd.OutOrStdout(), fmt.Sprintf("Delete %q? [y/N] ", st.ActiveItem.Name), yes) {
					return nil
				}
				if err := w.ctrl.DeleteProjectItem(cmd.Context()); err != nil {
					return err
				}
				return printState(cmd.OutOrStdout(), w.ctrl.State())
			}

			item, err := resolveItemArg(w, args)
			if err != nil {
				return err
			}
			if !confirmOrAbort(cmd.OutOrStdout(), fmt.Sprintf("Delete %q? [y/N] ", item.Name), yes) {
				return nil
			}
			if err := w.ctrl.DeleteItemFromProject(cmd.Context(), item.ID); err != nil {
				return err
			}
			return printState(cmd.OutOrStdout(), w.ctrl.State())
		})
	},
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current artifact",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withWorkspace(cmd.Context(), func(w *workspace) error {
			st := w.ctrl.State()
			if st.Result == nil {
				return app.ErrNoInput
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), st.Result)
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.RenderResult(st.Result))
			printHints(cmd.OutOrStdout(), st)
			return nil
		})
	},
}

// parseIndex turns a 1-based position from the command line into an index.
func parseIndex(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid position %q: use the number shown next to the entry", s)
	}
	return n - 1, nil
}

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit the current persona or JTBD statements",
	Long: `Edit the current result in memory. Run 'perspecto save' to persist the changes.

Persona lists are goals, needs, pains and tasks. JTBD parts are situation,
motivation and outcome. Positions are the numbers shown by 'perspecto show'.`,
	Example: `  perspecto edit name "Jamie"
  perspecto edit add goals "Reduce churn"
  perspecto edit set pains 2 "Slow exports"
  perspecto edit job set 1 outcome "so I can ship on Friday"`,
}

// editRun opens the workspace, applies fn and prints the edited result.
func editRun(fn func(cmd *cobra.Command, w *workspace, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return withWorkspace(cmd.Context(), func(w *workspace) error {
			if err := fn(cmd, w, args); err != nil {
				return err
			}
			st := w.ctrl.State()
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), st.Result)
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.RenderResult(st.Result))
			return nil
		})
	}
}

func listField(s string) models.PersonaListField {
	return models.PersonaListField(strings.ToLower(s))
}

var editNameCmd = &cobra.Command{
	Use:  "name <value>",
	Args: cobra.ExactArgs(1),
	RunE: editRun(func(cmd *cobra.Command, w *workspace, args []string) error {
		return w.ctrl.SetPersonaName(cmd.Context(), args[0])
	}),
	Short: "Rename the persona",
}

var editRoleCmd = &cobra.Command{
	Use:   "role <value>",
	Short: "Change the persona's role",
	Args:  cobra.ExactArgs(1),
	RunE: editRun(func(cmd *cobra.Command, w *workspace, args []string) error {
		return w.ctrl.SetPersonaRole(cmd.Context(), args[0])
	}),
}

var editAddCmd = &cobra.Command{
	Use:   "add <list> [value]",
	Short: "Append an entry to a persona list",
	Args:  cobra.RangeArgs(1, 2),
	RunE: editRun(func(cmd *cobra.Command, w *workspace, args []string) error {
		value := ""
		if len(args) == 2 {
			value = args[1]
		}
		return w.ctrl.AppendPersonaEntry(cmd.Context(), listField(args[0]), value)
	}),
}

var editRemoveCmd = &cobra.Command{
	Use:   "remove <list> <position>",
	Short: "Remove an entry from a persona list",
	Args:  cobra.ExactArgs(2),
	RunE: editRun(func(cmd *cobra.Command, w *workspace, args []string) error {
		i, err := parseIndex(args[1])
		if err != nil {
			return err
		}
		return w.ctrl.RemovePersonaEntry(cmd.Context(), listField(args[0]), i)
	}),
}

var editSetCmd = &cobra.Command{
	Use:   "set <list> <position> <value>",
	Short: "Replace an entry of a persona list",
	Args:  cobra.ExactArgs(3),
	RunE: editRun(func(cmd *cobra.Command, w *workspace, args []string) error {
		i, err := parseIndex(args[1])
		if err != nil {
			return err
		}
		return w.ctrl.EditPersonaEntry(cmd.Context(), listField(args[0]), i, args[2])
	}),
}

var editJobCmd = &cobra.Command{
	Use:   "job",
	Short: "Edit JTBD statements",
}

var editJobAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Append a template statement",
	Args:  cobra.NoArgs,
	RunE: editRun(func(cmd *cobra.Command, w *workspace, _ []string) error {
		return w.ctrl.AddJTBD(cmd.Context())
	}),
}

var editJobRemoveCmd = &cobra.Command{
	Use:   "remove <position>",
	Short: "Remove a statement",
	Args:  cobra.ExactArgs(1),
	RunE: editRun(func(cmd *cobra.Command, w *workspace, args []string) error {
		i, err := parseIndex(args[0])
		if err != nil {
			return err
		}
		return w.ctrl.RemoveJTBD(cmd.Context(), i)
	}),
}

var editJobSetCmd = &cobra.Command{
	Use:   "set <position> <situation|motivation|outcome> <value>",
	Short: "Replace one part of a statement",
	Args:  cobra.ExactArgs(3),
	RunE: editRun(func(cmd *cobra.Command, w *workspace, args []string) error {
		i, err := parseIndex(args[0])
		if err != nil {
			return err
		}
		return w.ctrl.EditJTBD(cmd.Context(), i, models.JTBDPart(strings.ToLower(args[1])), args[2])
	}),
}

func init() {
	rootCmd.AddCommand(itemCmd)
	itemCmd.AddCommand(itemNewCmd)
	itemCmd.AddCommand(itemOpenCmd)
	itemCmd.AddCommand(itemDeleteCmd)
	itemDeleteCmd.Flags().BoolP("yes", "y", false, "skip confirmation")

	rootCmd.AddCommand(showCmd)

	rootCmd.AddCommand(editCmd)
	editCmd.AddCommand(editNameCmd, editRoleCmd, editAddCmd, editRemoveCmd, editSetCmd, editJobCmd)
	editJobCmd.AddCommand(editJobAddCmd, editJobRemoveCmd, editJobSetCmd)
}
