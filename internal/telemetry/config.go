// Package telemetry sends anonymous usage events to PostHog.
//
// Nothing is sent until the user opts in. Events never carry project names,
// project context text or generated artifacts.
package telemetry

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/josephgoksu/perspecto/internal/config"
)

// ConfigFileName is the name of the consent file inside the global config dir.
const ConfigFileName = "telemetry.json"

// Config is the user's consent answer plus the anonymous id events are sent under.
// It lives next to the global config, never in the data directory, so switching
// storage backends keeps the answer.
type Config struct {
	Enabled      bool   `json:"enabled"`
	ConsentAsked bool   `json:"consent_asked"`
	AnonymousID  string `json:"anonymous_id"`
	// AnsweredAt is epoch milliseconds of the last Enable or Disable.
	AnsweredAt int64 `json:"answered_at,omitempty"`
}

var (
	mu          sync.RWMutex
	consentFS   afero.Fs = afero.NewOsFs()
	dirOverride string
)

// SetConfigDir overrides where the consent file is kept. Empty restores the
// global config directory.
func SetConfigDir(dir string) {
	mu.Lock()
	defer mu.Unlock()
	dirOverride = dir
}

// GetConfigPath returns the full path to the consent file.
func GetConfigPath() (string, error) {
	mu.RLock()
	dir := dirOverride
	mu.RUnlock()
	if dir == "" {
		var err error
		if dir, err = config.GetGlobalConfigDir(); err != nil {
			return "", fmt.Errorf("locate config dir: %w", err)
		}
	}
	return filepath.Join(dir, ConfigFileName), nil
}

// Load reads the consent file. A missing file yields an unanswered, disabled
// config with a fresh anonymous id.
func Load() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	data, err := afero.ReadFile(consentFS, path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		cfg.AnonymousID = uuid.NewString()
		return cfg, nil
	case err != nil:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.AnonymousID == "" {
		cfg.AnonymousID = uuid.NewString()
	}
	return cfg, nil
}

// Save writes the consent file with owner-only permissions. The file is
// replaced by rename so a crash never leaves half a document behind.
func (c *Config) Save() error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}
	if err := consentFS.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal consent: %w", err)
	}
	tmp := path + ".tmp"
	if err := afero.WriteFile(consentFS, tmp, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := consentFS.Rename(tmp, path); err != nil {
		_ = consentFS.Remove(tmp)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// Enable records a yes.
func (c *Config) Enable() { c.answer(true) }

// Disable records a no.
func (c *Config) Disable() { c.answer(false) }

func (c *Config) answer(enabled bool) {
	c.Enabled = enabled
	c.ConsentAsked = true
	c.AnsweredAt = time.Now().UnixMilli()
}

// NeedsConsent reports whether the user was never asked.
func (c *Config) NeedsConsent() bool {
	return !c.ConsentAsked
}

// IsEnabled reports whether events may be sent.
func (c *Config) IsEnabled() bool {
	return c.Enabled
}
