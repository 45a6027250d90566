/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/perspecto/internal/ui"
	"github.com/josephgoksu/perspecto/models"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show where the session is",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withWorkspace(cmd.Context(), func(w *workspace) error {
			st := w.ctrl.State()
			if isJSON() {
				return printState(cmd.OutOrStdout(), st)
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.RenderStatus(st))
			printHints(cmd.OutOrStdout(), st)
			return nil
		})
	},
}

var homeCmd = &cobra.Command{
	Use:   "home",
	Short: "Go to the home screen",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withWorkspace(cmd.Context(), func(w *workspace) error {
			var err error
			if w.ctrl.State().View == models.ViewLanding {
				err = w.ctrl.LandingStart(cmd.Context())
			} else {
				err = w.ctrl.Navigate(cmd.Context(), models.ViewHome)
			}
			if err != nil {
				return err
			}
			return printStatus(cmd, w)
		})
	},
}

var newCmd = &cobra.Command{
	Use:   "new [persona|jtbd|both]",
	Short: "Start a new standalone artifact",
	Long: `Start a new standalone artifact from the home screen. The type preselects
the one used by the next 'perspecto generate'.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withWorkspace(cmd.Context(), func(w *workspace) error {
			if len(args) == 0 {
				if err := w.ctrl.Start(cmd.Context()); err != nil {
					return err
				}
				return printStatus(cmd, w)
			}
			kind, err := models.ParseGeneratorType(args[0])
			if err != nil {
				return err
			}
			if err := w.ctrl.SelectArtifactTypeFromHome(cmd.Context(), kind); err != nil {
				return err
			}
			return printStatus(cmd, w)
		})
	},
}

var backCmd = &cobra.Command{
	Use:   "back",
	Short: "Leave the input or output view",
	Long: `Go back one step. From the output of a saved artifact this returns to its
project; from an unsaved result it returns to the input.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withWorkspace(cmd.Context(), func(w *workspace) error {
			var err error
			switch w.ctrl.State().View {
			case models.ViewInput:
				err = w.ctrl.InputBack(cmd.Context())
			case models.ViewOutput:
				err = w.ctrl.OutputBack(cmd.Context())
			default:
				err = w.ctrl.Navigate(cmd.Context(), models.ViewHome)
			}
			if err != nil {
				return err
			}
			return printStatus(cmd, w)
		})
	},
}

var gotoCmd = &cobra.Command{
	Use:       "goto <view>",
	Short:     "Switch to a top-level view",
	ValidArgs: []string{string(models.ViewHome), string(models.ViewProjects), string(models.ViewInput), string(models.ViewOutput), string(models.ViewSettings)},
	Args:      cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := models.ParseView(args[0])
		if err != nil {
			return err
		}
		return withWorkspace(cmd.Context(), func(w *workspace) error {
			if err := w.ctrl.Navigate(cmd.Context(), v); err != nil {
				return err
			}
			return printStatus(cmd, w)
		})
	},
}

func printStatus(cmd *cobra.Command, w *workspace) error {
	st := w.ctrl.State()
	if isJSON() {
		return printState(cmd.OutOrStdout(), st)
	}
	fmt.Fprintln(cmd.OutOrStdout(), ui.RenderStatus(st))
	return nil
}

func init() {
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(homeCmd)
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(backCmd)
	rootCmd.AddCommand(gotoCmd)
}
