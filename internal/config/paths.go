package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// GetGlobalConfigDir returns the global configuration directory (~/.perspecto).
// It's a variable to allow overriding in tests.
var GetGlobalConfigDir = func() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".perspecto"), nil
}

// DataDir returns where projects, history and the session live.
// Resolution order (first match wins):
// 1. Explicit config via "data.dir" (Viper/env/flag)
// 2. Local directory .perspecto/data (if exists)
// 3. XDG_DATA_HOME/perspecto (if XDG_DATA_HOME is set)
// 4. Global fallback: ~/.perspecto/data
func DataDir() string {
	if path := viper.GetString("data.dir"); path != "" {
		return path
	}

	local := filepath.Join(".perspecto", "data")
	if info, err := os.Stat(local); err == nil && info.IsDir() {
		return local
	}

	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, "perspecto")
	}

	dir, err := GetGlobalConfigDir()
	if err != nil {
		return "./data"
	}
	return filepath.Join(dir, "data")
}

// ConfigFilePath returns the file `config set` writes to: the file in use, else
// ~/.perspecto.yaml.
func ConfigFilePath() (string, error) {
	if used := viper.ConfigFileUsed(); used != "" {
		return used, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configName+".yaml"), nil
}
