package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Config holds the global minibash configuration.
type Config struct {
	Prompt  string        `yaml:"prompt" validate:"required"`
	Color   bool          `yaml:"color"`
	Journal JournalConfig `yaml:"journal"`
	History HistoryConfig `yaml:"history"`
}

// JournalConfig controls the statement journal.
type JournalConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path" validate:"required_if=Enabled true"`
}

// HistoryConfig controls the line editor history.
type HistoryConfig struct {
	Path  string `yaml:"path"`
	Limit int    `yaml:"limit" validate:"gte=0,lte=100000"`
}

// DefaultPrompt precedes the working directory in the REPL prompt.
const DefaultPrompt = "minibash$"

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	share := filepath.Join(home, ".local", "share", "minibash")
	return &Config{
		Prompt: DefaultPrompt,
		Color:  true,
		Journal: JournalConfig{
			Enabled: true,
			Path:    filepath.Join(share, "journal.jsonl"),
		},
		History: HistoryConfig{
			Path:  filepath.Join(share, "history"),
			Limit: 500,
		},
	}
}

// Load reads the config from the standard location
// (~/.config/minibash/config.yaml). If the file doesn't exist, returns the
// default config.
func Load(fs afero.Fs) (*Config, error) {
	return LoadFrom(fs, ConfigPath())
}

// LoadFrom reads the config from the given path.
func LoadFrom(fs afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.Journal.Path = expandHome(cfg.Journal.Path)
	cfg.History.Path = expandHome(cfg.History.Path)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for semantic errors.
func (c *Config) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
	})
	return validate.Struct(c)
}

// ConfigPath returns the standard config file path.
func ConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "minibash", "config.yaml")
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, path[1:])
}
