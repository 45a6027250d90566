/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/perspecto/internal/logger"
	"github.com/josephgoksu/perspecto/internal/ui"
	"github.com/josephgoksu/perspecto/models"
)

var generateCmd = &cobra.Command{
	Use:   "generate [project description]",
	Short: "Generate a persona, JTBD statements, or both",
	Long: `Generate artifacts from a short project description.

With --type both (the default) the persona is generated first; review or edit it,
then run 'perspecto jtbd' to generate jobs grounded in it.

Inside an open project the artifact type is fixed by 'perspecto item new'.
Without an argument the description is read from an editor prompt.`,
	Example: `  perspecto generate "A budgeting app for freelancers"
  perspecto generate --type jtbd "Online pharmacy for rural areas"
  perspecto generate --again`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		again, _ := cmd.Flags().GetBool("again")
		typeFlag, _ := cmd.Flags().GetString("type")

		return withWorkspace(cmd.Context(), func(w *workspace) error {
			if again {
				if err := withSpinner("Regenerating...", func() error { return w.ctrl.Regenerate(cmd.Context()) }); err != nil {
					return err
				}
				return printState(cmd.OutOrStdout(), w.ctrl.State())
			}

			st := w.ctrl.State()
			kind := st.InitialInputType
			if cmd.Flags().Changed("type") {
				parsed, err := models.ParseGeneratorType(typeFlag)
				if err != nil {
					return err
				}
				if st.InputTypeLocked && parsed != kind {
					return fmt.Errorf("this project item is a %s; start a new item for a different type", kind)
				}
				kind = parsed
			}

			text := ""
			if len(args) == 1 {
				text = args[0]
			} else if ui.IsInteractive() && !isJSON() {
				var err error
				if text, err = ui.PromptContext("Describe your project"); err != nil {
					return err
				}
			}
			if strings.TrimSpace(text) == "" {
				return errors.New("a project description is required")
			}
			logger.SetLastInput(text)

			label := fmt.Sprintf("Generating %s...", kind)
			if kind == models.TypeBoth {
				label = "Generating persona..."
			}
			err := withSpinner(label, func() error {
				return w.ctrl.Generate(cmd.Context(), models.InputContext{Context: text, Type: kind})
			})
			if err != nil {
				return err
			}
			return printState(cmd.OutOrStdout(), w.ctrl.State())
		})
	},
}

var jtbdCmd = &cobra.Command{
	Use:   "jtbd [persona name]",
	Short: "Generate JTBD statements grounded in a persona",
	Long: `Continue a persona into Jobs to be Done.

Uses the current persona, including any edits made with 'perspecto edit'.
Pass a name to ground on another persona of the open project.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := ""
		if len(args) == 1 {
			name = args[0]
		}
		return withWorkspace(cmd.Context(), func(w *workspace) error {
			persona, ok := w.ctrl.State().FindPersona(name)
			if !ok {
				if name == "" {
					return errors.New("the current result has no persona; generate one first")
				}
				return fmt.Errorf("no persona named %q in the current result or project", name)
			}
			err := withSpinner("Generating jobs for "+persona.Name+"...", func() error {
				return w.ctrl.ContinueToJTBD(cmd.Context(), persona)
			})
			if err != nil {
				return err
			}
			return printState(cmd.OutOrStdout(), w.ctrl.State())
		})
	},
}

var personaCmd = &cobra.Command{
	Use:   "persona",
	Short: "Give a saved JTBD set a persona",
	Long: `A JTBD set saved without a persona can be linked to one of the project's
personas or get a newly generated persona.`,
}

var personaListCmd = &cobra.Command{
	Use:   "list",
	Short: "List personas of the open project",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withWorkspace(cmd.Context(), func(w *workspace) error {
			personas := w.ctrl.State().AvailablePersonas()
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), personas)
			}
			if len(personas) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.StyleSubtle.Render("No personas in the open project."))
				return nil
			}
			for _, p := range personas {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", p.Name, ui.StyleSubtle.Render(p.Role))
			}
			return nil
		})
	},
}

var personaLinkCmd = &cobra.Command{
	Use:   "link [persona name]",
	Short: "Link the open JTBD set to an existing persona",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withWorkspace(cmd.Context(), func(w *workspace) error {
			st := w.ctrl.State()
			name := ""
			if len(args) == 1 {
				name = args[0]
			} else if ui.IsInteractive() && !isJSON() {
				var options []ui.Option
				for _, p := range st.AvailablePersonas() {
					options = append(options, ui.Option{ID: p.Name, Label: p.Name, Description: p.Role})
				}
				var err error
				if name, err = ui.Select("Link to persona", options); err != nil {
					return err
				}
			}
			if name == "" {
				return errors.New("a persona name is required")
			}
			persona, ok := st.FindPersona(name)
			if !ok {
				return fmt.Errorf("no persona named %q in the open project", name)
			}
			if err := w.ctrl.LinkPersona(cmd.Context(), persona); err != nil {
				return err
			}
			return printState(cmd.OutOrStdout(), w.ctrl.State())
		})
	},
}

var personaGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a persona for the open JTBD set",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withWorkspace(cmd.Context(), func(w *workspace) error {
			err := withSpinner("Generating persona...", func() error {
				return w.ctrl.GeneratePersonaForOrphan(cmd.Context())
			})
			if err != nil {
				return err
			}
			return printState(cmd.OutOrStdout(), w.ctrl.State())
		})
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(jtbdCmd)
	rootCmd.AddCommand(personaCmd)
	personaCmd.AddCommand(personaListCmd)
	personaCmd.AddCommand(personaLinkCmd)
	personaCmd.AddCommand(personaGenerateCmd)

	generateCmd.Flags().StringP("type", "t", string(models.TypeBoth), "artifact type: persona, jtbd or both")
	generateCmd.Flags().Bool("again", false, "regenerate the current request")
}
