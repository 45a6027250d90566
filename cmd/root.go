/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/josephgoksu/perspecto/internal/config"
	"github.com/josephgoksu/perspecto/internal/logger"
	"github.com/josephgoksu/perspecto/internal/telemetry"
	"github.com/josephgoksu/perspecto/internal/ui"
)

var (
	// cfgFile is the path to the configuration file.
	cfgFile string
	// verbose enables debug logging and full error details.
	verbose bool
	// version is the application version.
	version = "0.1.0"

	// appConfig is loaded once per process by initConfig.
	appConfig config.Config
	// initErr defers configuration failures to the command that needs them.
	initErr error
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "perspecto",
	Short: "Perspecto - user personas and Jobs to be Done from a project description",
	Long: `Perspecto turns a short project description into a user persona and
Jobs to be Done statements, and keeps them organized in local projects.

Typical flow:
  perspecto generate "A budgeting app for freelancers"
  perspecto jtbd
  perspecto save --new-project "Budgeting"

Your workspace (projects, history and the current session) is stored locally,
so every command continues where the previous one left off.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if initErr != nil {
			return initErr
		}
		logger.SetCommand(cmd.CommandPath())
		startTelemetry(cmd)
		return nil
	},
}

// GetVersion returns the application version.
func GetVersion() string {
	return version
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	defer logger.HandlePanic()
	logger.SetVersion(version)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	cmd, err := rootCmd.ExecuteContextC(ctx)
	if cmd != nil && cmd != rootCmd {
		telemetry.TrackCommand(cmd.CommandPath(), time.Since(start), err)
	}
	if closeErr := telemetry.Default().Close(); closeErr != nil {
		slog.Debug("telemetry flush failed", "error", closeErr)
	}
	if err != nil {
		PrintError(err)
		stop()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./.perspecto/.perspecto.yaml or $HOME/.perspecto.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().Bool("json", false, "output machine-readable JSON")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	rootCmd.Version = version
}

// initConfig reads the config file and environment and installs the logger.
func initConfig() {
	initErr = nil
	if err := config.Init(cfgFile); err != nil {
		initErr = err
		return
	}
	cfg, err := config.Load()
	if err != nil {
		initErr = err
		return
	}
	appConfig = cfg

	level := cfg.Log.Level
	if isVerbose() {
		level = "debug"
	}
	if err := logger.Setup(logger.Options{Level: level, Format: cfg.Log.Format, W: os.Stderr}); err != nil {
		initErr = err
		return
	}
	logger.SetBasePath(config.DataDir())
}

// startTelemetry asks for consent on first interactive use and installs the client.
// It never fails a command.
func startTelemetry(cmd *cobra.Command) {
	if appConfig.Telemetry.APIKey == "" || !appConfig.Telemetry.Enabled {
		return
	}
	consent, err := telemetry.Load()
	if err != nil {
		slog.Debug("telemetry config unreadable", "error", err)
		return
	}
	// The MCP server owns stdin and stdout.
	if consent.NeedsConsent() && cmd.Name() != mcpCmd.Name() && !isJSON() {
		if _, err := telemetry.PromptForConsent(consent, os.Stdin, os.Stderr, ui.IsInteractive()); err != nil {
			slog.Debug("could not save telemetry consent", "error", err)
		}
	}
	client, err := telemetry.NewPostHogClient(telemetry.Options{
		APIKey:   appConfig.Telemetry.APIKey,
		Endpoint: appConfig.Telemetry.Endpoint,
		Version:  version,
		Config:   consent,
	})
	if err != nil {
		slog.Debug("telemetry disabled", "error", err)
		return
	}
	telemetry.SetDefault(client)
	telemetry.Default().Track(telemetry.EventSessionStart, telemetry.Properties{"command": cmd.CommandPath()})
}

// PrintError prints err without exiting. Verbose mode adds the wrapped chain.
func PrintError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, ui.RenderError(userError(err)))
	if isVerbose() {
		fmt.Fprintf(os.Stderr, "  %+v\n", err)
	}
}
