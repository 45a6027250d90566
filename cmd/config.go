/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/josephgoksu/perspecto/internal/config"
	"github.com/josephgoksu/perspecto/internal/telemetry"
	"github.com/josephgoksu/perspecto/internal/ui"
)

// configCmd is the parent config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and change Perspecto settings",
	Long: `View and change settings stored in the YAML config file.

Every key can also be set with a PERSPECTO_ environment variable, e.g.
PERSPECTO_LLM_PROVIDER=openai or PERSPECTO_STORAGE_BACKEND=sqlite.`,
}

func maskSecret(key, value string) string {
	if !config.IsSecretKey(key) || value == "" {
		return value
	}
	if len(value) <= 8 {
		return "********"
	}
	return value[:4] + "…" + value[len(value)-4:]
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		values := make(map[string]string, len(config.SettableKeys))
		t := &ui.Table{Headers: []string{"KEY", "VALUE"}}
		for _, key := range config.SettableKeys {
			v := maskSecret(key, viper.GetString(key))
			if key == "data.dir" {
				v = config.DataDir()
			}
			values[key] = v
			t.Rows = append(t.Rows, []string{key, v})
		}

		if isJSON() {
			return printJSON(cmd.OutOrStdout(), values)
		}
		if used := viper.ConfigFileUsed(); used != "" {
			fmt.Fprintln(cmd.OutOrStdout(), ui.StyleSubtle.Render("Config file: "+used))
		}
		fmt.Fprintln(cmd.OutOrStdout(), t.Render())
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> [value]",
	Short: "Write a setting to the config file",
	Long: `Write one setting to the config file in use (or ~/.perspecto.yaml).

API keys are prompted for without echo when the value is omitted.

Keys:
  ` + strings.Join(config.SettableKeys, "\n  "),
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		var value string
		switch {
		case len(args) == 2:
			value = args[1]
		case config.IsSecretKey(key) && ui.IsInteractive():
			var err error
			if value, err = ui.PromptSecret("Value for "+key, ""); err != nil {
				return err
			}
		default:
			return errors.New("a value is required")
		}

		path, err := config.ConfigFilePath()
		if err != nil {
			return err
		}
		if err := config.SetValue(path, key, value); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.RenderNotice(fmt.Sprintf("%s = %s (%s)", key, maskSecret(key, value), path)))
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file and data directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.ConfigFilePath()
		if err != nil {
			return err
		}
		if isJSON() {
			return printJSON(cmd.OutOrStdout(), map[string]string{"config": path, "data": config.DataDir()})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "config: %s\ndata:   %s\n", path, config.DataDir())
		return nil
	},
}

var telemetryCmd = &cobra.Command{
	Use:   "telemetry",
	Short: "Manage telemetry settings",
	Long: `View and manage Perspecto's anonymous telemetry settings.

Telemetry is off unless telemetry.enabled and telemetry.apiKey are configured and
you opted in. Project names, descriptions and generated artifacts are never sent.`,
}

var telemetryStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current telemetry status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		consent, err := telemetry.Load()
		if err != nil {
			return fmt.Errorf("failed to read telemetry status: %w", err)
		}
		out := cmd.OutOrStdout()
		switch {
		case consent.NeedsConsent():
			fmt.Fprintln(out, "Telemetry: not configured yet")
		case consent.IsEnabled():
			fmt.Fprintln(out, "Telemetry: enabled")
			fmt.Fprintf(out, "   Anonymous ID: %s\n", consent.AnonymousID)
			fmt.Fprintln(out, "   To disable: perspecto config telemetry disable")
		default:
			fmt.Fprintln(out, "Telemetry: disabled")
			fmt.Fprintln(out, "   To enable: perspecto config telemetry enable")
		}
		return nil
	},
}

var telemetryEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Enable anonymous telemetry",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		consent, err := telemetry.Load()
		if err != nil {
			return err
		}
		consent.Enable()
		if err := consent.Save(); err != nil {
			return fmt.Errorf("failed to enable telemetry: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.RenderNotice("Telemetry enabled. Thank you for helping improve Perspecto!"))
		return nil
	},
}

var telemetryDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Disable anonymous telemetry",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		consent, err := telemetry.Load()
		if err != nil {
			return err
		}
		if consent.IsEnabled() {
			telemetry.Default().Track(telemetry.EventTelemetryOptedOut, nil)
		}
		consent.Disable()
		if err := consent.Save(); err != nil {
			return fmt.Errorf("failed to disable telemetry: %w", err)
		}
		// Flush the opt-out event; nothing else is sent from this process.
		_ = telemetry.Default().Close()
		telemetry.SetDefault(nil)
		fmt.Fprintln(cmd.OutOrStdout(), ui.RenderNotice("Telemetry disabled."))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configSetCmd, configPathCmd, telemetryCmd)
	telemetryCmd.AddCommand(telemetryStatusCmd, telemetryEnableCmd, telemetryDisableCmd)
}
