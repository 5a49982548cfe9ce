package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix for environment overrides, e.g. MAFQUDAT_API_BASE_URL.
const EnvPrefix = "MAFQUDAT_"

// Config holds the application configuration.
type Config struct {
	API      APIConfig      `yaml:"api"`
	Storage  StorageConfig  `yaml:"storage"`
	Language LanguageConfig `yaml:"language"`
	TUI      TUIConfig      `yaml:"tui"`
	Log      LogConfig      `yaml:"log"`
	Update   UpdateConfig   `yaml:"update"`
}

// APIConfig holds the classifieds backend settings.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"` // e.g., "10s"
}

// StorageConfig selects the preference store backend.
type StorageConfig struct {
	Backend string `yaml:"backend"` // "file" or "sqlite"
}

// LanguageConfig holds the fallback language used when neither a stored
// selection nor the device locale yields a supported code.
type LanguageConfig struct {
	Default string `yaml:"default"`
}

// TUIConfig holds TUI settings.
type TUIConfig struct {
	Theme string `yaml:"theme"` // "auto", "light" or "dark"
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// UpdateConfig holds self-update settings.
type UpdateConfig struct {
	Repo string `yaml:"repo"`
}

// Defaults returns a Config with sensible defaults.
func Defaults() Config {
	return Config{
		API: APIConfig{
			BaseURL: "http://localhost:3001",
			Timeout: "10s",
		},
		Storage: StorageConfig{
			Backend: "file",
		},
		Language: LanguageConfig{
			Default: "ar",
		},
		TUI: TUIConfig{
			Theme: "auto",
		},
		Log: LogConfig{
			Level: "info",
		},
		Update: UpdateConfig{
			Repo: "mafqudat/mafqudat",
		},
	}
}

// APITimeout parses the configured request timeout, falling back to 10s.
func (c Config) APITimeout() time.Duration {
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

// Load reads the config from disk and applies MAFQUDAT_* environment
// overrides. If the file doesn't exist, returns defaults plus overrides.
func Load() (Config, error) {
	cfg := Defaults()
	k := koanf.New(".")

	data, err := os.ReadFile(ConfigFile())
	if err != nil && !os.IsNotExist(err) {
		return cfg, err
	}
	if err == nil {
		if err := k.Load(rawbytes.Provider(data), yaml.Parser()); err != nil {
			return Defaults(), fmt.Errorf("parsing %s: %w", ConfigFile(), err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return cfg, fmt.Errorf("loading environment: %w", err)
	}

	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "yaml"}); err != nil {
		return Defaults(), fmt.Errorf("decoding config: %w", err)
	}

	return cfg, nil
}

// envKey maps MAFQUDAT_API_BASE_URL to api.base_url: the first segment
// after the prefix is the section, the rest is the field name.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	parts := strings.SplitN(s, "_", 2)
	if len(parts) == 1 {
		return parts[0]
	}
	return parts[0] + "." + parts[1]
}

// Save writes the config to disk.
func Save(cfg Config) error {
	if err := os.MkdirAll(Dir(), 0o755); err != nil {
		return err
	}

	data, err := yamlv3.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(ConfigFile(), data, 0o644)
}

// IsFirstRun returns true if the config file does not exist.
func IsFirstRun() bool {
	_, err := os.Stat(ConfigFile())
	return os.IsNotExist(err)
}
