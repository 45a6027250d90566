/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/perspecto/internal/app"
	"github.com/josephgoksu/perspecto/internal/auth"
	"github.com/josephgoksu/perspecto/internal/ui"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Sign in, sign up or sign out",
	Long: `Manage the account that owns this workspace.

With auth.provider set to none (the default) a local account is always signed in.
With auth.provider set to firebase, sign in with e-mail and password.`,
}

// readCredentials takes the e-mail from the flag and the password from stdin or a prompt.
func readCredentials(cmd *cobra.Command, in io.Reader) (string, string, error) {
	email, _ := cmd.Flags().GetString("email")
	fromStdin, _ := cmd.Flags().GetBool("password-stdin")
	interactive := ui.IsInteractive() && !isJSON()

	if email == "" {
		if !interactive {
			return "", "", errors.New("--email is required")
		}
		var err error
		if email, err = ui.PromptLine("E-mail", "you@example.com"); err != nil {
			return "", "", err
		}
	}

	var password string
	switch {
	case fromStdin:
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && line == "" {
			return "", "", fmt.Errorf("read password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	case interactive:
		var err error
		if password, err = ui.PromptSecret("Password", ""); err != nil {
			return "", "", err
		}
	default:
		return "", "", errors.New("use --password-stdin when not running in a terminal")
	}
	return strings.TrimSpace(email), password, nil
}

func runAuth(cmd *cobra.Command, fn func(ctx context.Context, w *workspace, email, password string) (*auth.User, error)) error {
	email, password, err := readCredentials(cmd, cmd.InOrStdin())
	if err != nil {
		return err
	}
	return withWorkspace(cmd.Context(), func(w *workspace) error {
		user, err := fn(cmd.Context(), w, email, password)
		if err != nil {
			return err
		}
		if isJSON() {
			return printJSON(cmd.OutOrStdout(), map[string]string{"uid": user.UID, "email": user.Email})
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.RenderNotice(w.ctrl.State().Notice))
		return nil
	})
}

var authSignInCmd = &cobra.Command{
	Use:     "signin",
	Aliases: []string{"login"},
	Short:   "Sign in with e-mail and password",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAuth(cmd, func(ctx context.Context, w *workspace, email, password string) (*auth.User, error) {
			return w.ctrl.SignIn(ctx, email, password)
		})
	},
}

var authSignUpCmd = &cobra.Command{
	Use:     "signup",
	Aliases: []string{"register"},
	Short:   "Create an account and sign in",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAuth(cmd, func(ctx context.Context, w *workspace, email, password string) (*auth.User, error) {
			return w.ctrl.SignUp(ctx, email, password)
		})
	},
}

var authSignOutCmd = &cobra.Command{
	Use:     "signout",
	Aliases: []string{"logout"},
	Short:   "Sign out",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withWorkspace(cmd.Context(), func(w *workspace) error {
			if err := w.ctrl.SignOut(cmd.Context()); err != nil {
				return err
			}
			if !isJSON() {
				fmt.Fprintln(cmd.OutOrStdout(), ui.RenderNotice(w.ctrl.State().Notice))
			}
			return nil
		})
	},
}

var authWhoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withWorkspace(cmd.Context(), func(w *workspace) error {
			user := w.ctrl.State().User
			if user == nil {
				return app.ErrNotAuthenticated
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), map[string]string{"uid": user.UID, "email": user.Email})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", user.Email, ui.StyleSubtle.Render("("+user.UID+")"))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authSignInCmd, authSignUpCmd, authSignOutCmd, authWhoamiCmd)

	for _, c := range []*cobra.Command{authSignInCmd, authSignUpCmd} {
		c.Flags().String("email", "", "account e-mail")
		c.Flags().Bool("password-stdin", false, "read the password from stdin")
	}
}
