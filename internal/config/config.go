// Package config handles loading and saving user configuration for Flashi.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all user configuration.
type Config struct {
	Data   DataConfig   `yaml:"data"`
	Speech SpeechConfig `yaml:"speech"`
}

// DataConfig points at the lesson data. When URL is set it wins over Dir and
// lesson files are fetched over HTTP.
type DataConfig struct {
	Dir string `yaml:"dir"`
	URL string `yaml:"url,omitempty"`
}

// SpeechConfig selects the text-to-speech engine and per-language voice
// preferences. Voices maps a language prefix ("en", "zh") to voice names
// tried in priority order.
type SpeechConfig struct {
	Engine      string              `yaml:"engine"` // "espeak" or "openai"
	Voices      map[string][]string `yaml:"voices,omitempty"`
	OpenAIModel string              `yaml:"openai_model,omitempty"`
	OpenAIVoice string              `yaml:"openai_voice,omitempty"`
	Speed       float64             `yaml:"speed,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Data:   DataConfig{Dir: "data"},
		Speech: SpeechConfig{Engine: "espeak"},
	}
}

// Load reads the config file at path. A missing file yields defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to a YAML file.
func Save(path string, cfg *Config) error {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// GetConfigDir returns the default configuration directory.
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "flashi"), nil
}

// EnsureConfigDir creates the config directory if it doesn't exist.
func EnsureConfigDir() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// StoragePath returns the settings/progress database path under dir.
func StoragePath(dir string) string {
	return filepath.Join(dir, "flashi.db")
}
