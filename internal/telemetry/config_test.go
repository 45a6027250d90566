package telemetry

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func useTempConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	SetConfigDir(dir)
	t.Cleanup(func() { SetConfigDir("") })
	return dir
}

func TestLoad_NewConfig(t *testing.T) {
	useTempConfigDir(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Enabled || cfg.ConsentAsked {
		t.Errorf("new config should be disabled and unasked: %+v", cfg)
	}
	if len(cfg.AnonymousID) != 36 {
		t.Errorf("AnonymousID should be a UUID, got %q", cfg.AnonymousID)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := useTempConfigDir(t)

	original := &Config{Enabled: true, ConsentAsked: true, AnonymousID: "roundtrip-uuid"}
	if err := original.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(filepath.Join(dir, ConfigFileName))
	if err != nil {
		t.Fatalf("config file missing: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("permissions = %v, want 0600", info.Mode().Perm())
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if *loaded != *original {
		t.Errorf("Load() = %+v, want %+v", loaded, original)
	}
}

func TestLoad_GeneratesMissingID(t *testing.T) {
	dir := useTempConfigDir(t)
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(`{"enabled":true,"consent_asked":true}`), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.AnonymousID == "" {
		t.Error("expected a generated AnonymousID")
	}
}

func TestLoad_Corrupt(t *testing.T) {
	dir := useTempConfigDir(t)
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("{nope"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestConfig_EnableDisable(t *testing.T) {
	cfg := &Config{}
	if !cfg.NeedsConsent() {
		t.Error("fresh config needs consent")
	}
	cfg.Enable()
	if !cfg.IsEnabled() || cfg.NeedsConsent() {
		t.Errorf("after Enable: %+v", cfg)
	}
	if cfg.AnsweredAt == 0 {
		t.Error("Enable should record when the answer was given")
	}
	cfg.Disable()
	if cfg.IsEnabled() || cfg.NeedsConsent() {
		t.Errorf("after Disable: %+v", cfg)
	}
}

func TestPromptForConsent(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		interactive bool
		want        bool
	}{
		{"yes", "y\n", true, true},
		{"full yes", "YES\n", true, true},
		{"empty defaults to no", "\n", true, false},
		{"no", "n\n", true, false},
		{"eof", "", true, false},
		{"non interactive", "y\n", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			useTempConfigDir(t)
			cfg := &Config{AnonymousID: "anon"}
			var out bytes.Buffer

			got, err := PromptForConsent(cfg, strings.NewReader(tt.input), &out, tt.interactive)
			if err != nil {
				t.Fatalf("PromptForConsent() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("PromptForConsent() = %v, want %v", got, tt.want)
			}
			if cfg.NeedsConsent() {
				t.Error("answer was not recorded")
			}
			if tt.interactive && !strings.Contains(out.String(), "Project names") {
				t.Error("prompt should list what is never collected")
			}

			saved, err := Load()
			if err != nil {
				t.Fatal(err)
			}
			if saved.Enabled != tt.want || !saved.ConsentAsked {
				t.Errorf("saved config = %+v", saved)
			}
		})
	}
}
