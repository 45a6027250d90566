// Package config loads Perspecto settings from flags, the environment, .env and the
// YAML config file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	configName = ".perspecto"
	envPrefix  = "PERSPECTO"
)

// Config is the validated application configuration.
type Config struct {
	Data      DataConfig      `mapstructure:"data"`
	Storage   StorageConfig   `mapstructure:"storage"`
	LLM       LLMSettings     `mapstructure:"llm"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Log       LogConfig       `mapstructure:"log"`
}

// DataConfig locates the data directory. Empty means DataDir decides.
type DataConfig struct {
	Dir string `mapstructure:"dir"`
}

// StorageConfig selects the document backend.
type StorageConfig struct {
	Backend string      `mapstructure:"backend" validate:"oneof=file sqlite redis"`
	Redis   RedisConfig `mapstructure:"redis"`
}

// RedisConfig is used by storage.backend=redis.
type RedisConfig struct {
	Addr   string `mapstructure:"addr" validate:"required_if=Enabled true"`
	DB     int    `mapstructure:"db" validate:"gte=0,lte=15"`
	Prefix string `mapstructure:"prefix"`

	Enabled bool `mapstructure:"-"`
}

// LLMSettings are the generator settings as written in the config file.
// API keys are resolved separately by LoadLLMConfig.
type LLMSettings struct {
	Provider    string  `mapstructure:"provider" validate:"oneof=gemini openai ollama anthropic mock"`
	Model       string  `mapstructure:"model"`
	BaseURL     string  `mapstructure:"baseURL" validate:"omitempty,url"`
	Temperature float32 `mapstructure:"temperature" validate:"gte=0,lte=2"`
}

// AuthConfig selects the account provider.
type AuthConfig struct {
	Provider string         `mapstructure:"provider" validate:"oneof=firebase none"`
	Firebase FirebaseConfig `mapstructure:"firebase"`
}

// FirebaseConfig points at a Firebase project.
type FirebaseConfig struct {
	APIKey          string `mapstructure:"apiKey"`
	ProjectID       string `mapstructure:"projectId"`
	CredentialsFile string `mapstructure:"credentialsFile"`
}

// TelemetryConfig controls anonymous usage events. Off unless enabled with a key.
type TelemetryConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	APIKey   string `mapstructure:"apiKey"`
	Endpoint string `mapstructure:"endpoint" validate:"omitempty,url"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

var validate = validator.New()

// SetDefaults registers the default for every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("data.dir", "")
	v.SetDefault("storage.backend", "file")
	v.SetDefault("storage.redis.addr", "localhost:6379")
	v.SetDefault("storage.redis.db", 0)
	v.SetDefault("storage.redis.prefix", "perspecto:")
	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.baseURL", "")
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("auth.provider", "none")
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.endpoint", "https://us.i.posthog.com")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Init wires the global viper instance: .env first, then PERSPECTO_* environment
// variables, then the config file. cfgFile overrides the search path.
func Init(cfgFile string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Debug("could not load .env", "error", err)
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	SetDefaults(viper.GetViper())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(configName)
		viper.SetConfigType("yaml")
		viper.AddConfigPath(configName) // ./.perspecto/.perspecto.yaml
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) && cfgFile == "" {
			return nil
		}
		return fmt.Errorf("read config %s: %w", viper.ConfigFileUsed(), err)
	}
	slog.Debug("using config file", "path", viper.ConfigFileUsed())
	return nil
}

// Load unmarshals and validates the global viper configuration.
func Load() (Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom unmarshals and validates v.
func LoadFrom(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Storage.Redis.Enabled = cfg.Storage.Backend == "redis"
	if err := validate.Struct(cfg); err != nil {
		return cfg, formatValidation(err)
	}
	if cfg.Auth.Provider == "firebase" && cfg.Auth.Firebase.APIKey == "" {
		return cfg, errors.New("config: auth.firebase.apiKey is required when auth.provider is firebase")
	}
	return cfg, nil
}

func formatValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", strings.TrimPrefix(e.Namespace(), "Config."), e.Tag(), e.Value()))
	}
	return fmt.Errorf("config: %s", strings.Join(msgs, "; "))
}
