/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/josephgoksu/perspecto/internal/app"
	"github.com/josephgoksu/perspecto/internal/auth"
	"github.com/josephgoksu/perspecto/internal/config"
	"github.com/josephgoksu/perspecto/internal/generator"
	"github.com/josephgoksu/perspecto/internal/kv"
	"github.com/josephgoksu/perspecto/internal/llm"
	"github.com/josephgoksu/perspecto/internal/telemetry"
	"github.com/josephgoksu/perspecto/internal/ui"
	"github.com/josephgoksu/perspecto/models"
)

func isJSON() bool {
	return viper.GetBool("json")
}

func isVerbose() bool {
	return viper.GetBool("verbose")
}

func printJSON(w io.Writer, v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(output))
	return err
}

// confirmInput is where confirmations are read from.
var confirmInput io.Reader = os.Stdin

func confirmOrAbort(w io.Writer, prompt string, yes bool) bool {
	if yes || isJSON() {
		return true
	}
	fmt.Fprint(w, prompt)
	reader := bufio.NewReader(confirmInput)
	response, _ := reader.ReadString('\n')
	response = strings.TrimSpace(strings.ToLower(response))
	if response != "y" && response != "yes" {
		fmt.Fprintln(w, "Cancelled.")
		return false
	}
	return true
}

// userError replaces provider failures with their user-facing text.
func userError(err error) error {
	for _, target := range []error{auth.ErrEmailInUse, auth.ErrInvalidCredentials, auth.ErrWeakPassword, auth.ErrAuthFailed} {
		if errors.Is(err, target) {
			return errors.New(auth.Message(err))
		}
	}
	if errors.Is(err, app.ErrNotAuthenticated) {
		return fmt.Errorf("%w: run 'perspecto auth signin' first", err)
	}
	return err
}

// workspace is one opened data directory with its controller.
type workspace struct {
	kvs  kv.Store
	deps *app.Context
	ctrl *app.Controller
}

func (w *workspace) Close() error {
	return w.kvs.Close()
}

// openWorkspace connects the configured backend, generator and authenticator and
// restores the last session.
func openWorkspace(ctx context.Context) (*workspace, error) {
	kvs, err := kv.Open(ctx, kv.Options{
		Backend:   appConfig.Storage.Backend,
		Dir:       config.DataDir(),
		RedisAddr: appConfig.Storage.Redis.Addr,
		RedisDB:   appConfig.Storage.Redis.DB,
		Prefix:    appConfig.Storage.Redis.Prefix,
	})
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	llmCfg, err := config.LoadLLMConfig()
	if err != nil {
		_ = kvs.Close()
		return nil, err
	}
	gen, err := generator.New(ctx, llmCfg)
	if err != nil {
		_ = kvs.Close()
		return nil, err
	}
	authn, err := newAuthenticator(ctx, kvs)
	if err != nil {
		_ = kvs.Close()
		return nil, err
	}

	deps := app.NewContext(kvs, trackedGenerator{next: gen, provider: llmCfg.Provider}, authn)
	ctrl, err := app.New(ctx, deps)
	if err != nil {
		_ = kvs.Close()
		return nil, fmt.Errorf("restore session: %w", err)
	}
	return &workspace{kvs: kvs, deps: deps, ctrl: ctrl}, nil
}

func newAuthenticator(ctx context.Context, kvs kv.Store) (auth.Authenticator, error) {
	if appConfig.Auth.Provider != "firebase" {
		return auth.NoAuth{}, nil
	}
	fb := appConfig.Auth.Firebase
	return auth.NewFirebase(ctx, auth.FirebaseConfig{
		APIKey:          fb.APIKey,
		ProjectID:       fb.ProjectID,
		CredentialsFile: fb.CredentialsFile,
	}, kvs)
}

// trackedGenerator reports every generation to telemetry.
type trackedGenerator struct {
	next     generator.Generator
	provider llm.Provider
}

func (g trackedGenerator) Generate(ctx context.Context, text string, kind models.GeneratorType, grounding *models.PersonaData) (models.GeneratedResult, error) {
	start := time.Now()
	res, err := g.next.Generate(ctx, text, kind, grounding)
	telemetry.TrackGeneration(string(kind), string(g.provider), time.Since(start), err)
	return res, err
}

// withWorkspace opens the workspace for the duration of fn.
func withWorkspace(ctx context.Context, fn func(w *workspace) error) error {
	w, err := openWorkspace(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()
	return fn(w)
}

// printState shows the notice of the last action and the current artifact.
func printState(out io.Writer, s app.State) error {
	if isJSON() {
		if s.User != nil {
			u := *s.User
			u.IDToken, u.RefreshToken = "", ""
			s.User = &u
		}
		return printJSON(out, s)
	}
	if s.Notice != "" {
		fmt.Fprintln(out, ui.RenderNotice(s.Notice))
	}
	if s.Result != nil && (s.View == models.ViewOutput || (s.View == models.ViewProjectDetail && s.ActiveItem != nil)) {
		fmt.Fprintln(out, ui.RenderResult(s.Result))
	} else if s.View == models.ViewProjectDetail && s.ActiveProject != nil {
		fmt.Fprintln(out, ui.RenderProjectDetail(*s.ActiveProject))
	}
	printHints(out, s)
	return nil
}

func printHints(out io.Writer, s app.State) {
	switch {
	case s.PendingSave != nil:
		fmt.Fprintln(out, ui.StyleSubtle.Render("Choose a project: perspecto save --project <id> or --new-project <name>"))
	case s.IsIntermediate():
		fmt.Fprintln(out, ui.StyleSubtle.Render("Next: perspecto jtbd to generate jobs for this persona"))
	case s.Result != nil && s.Result.IsOrphanJTBD() && s.IsSaved():
		fmt.Fprintln(out, ui.StyleSubtle.Render("Next: perspecto persona link <name> or perspecto persona generate"))
	}
}

// withSpinner shows a spinner on interactive terminals while fn runs.
func withSpinner(label string, fn func() error) error {
	if isJSON() || !ui.IsInteractive() {
		return fn()
	}
	s := ui.NewSpinner(os.Stderr, label)
	s.Start()
	err := fn()
	s.Stop()
	return err
}
