// Package cmd contains all CLI commands for Flashi.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/chaichat/flashi/internal/config"
	"github.com/chaichat/flashi/internal/data"
	"github.com/chaichat/flashi/internal/speech"
	"github.com/chaichat/flashi/internal/storage"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "flashi",
	Short: "Flashcard vocabulary trainer for Thai speakers",
	Long: `Flashi is a flashcard trainer for learning English and Chinese
vocabulary with Thai translations.

Lessons live in a data directory (or behind an HTTP base URL) as small
JSON files indexed by a manifest. Cards are spoken aloud through
espeak-ng or the OpenAI speech API.

Running 'flashi' without arguments launches the study TUI.`,
	RunE: runStudy,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config directory (default is $HOME/.config/flashi)")
	rootCmd.PersistentFlags().Bool("verbose", false, "verbose output")
	rootCmd.PersistentFlags().String("data", "", "lesson data directory")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("data", rootCmd.PersistentFlags().Lookup("data"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.Set("config_dir", cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error finding home directory:", err)
			os.Exit(1)
		}
		viper.Set("config_dir", filepath.Join(home, ".config", "flashi"))
	}

	viper.SetEnvPrefix("FLASHI")
	viper.AutomaticEnv()
}

// getConfigDir returns the configuration directory path.
func getConfigDir() string {
	return viper.GetString("config_dir")
}

// newLogger builds the process-wide logger writing to stderr.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// loadUserConfig reads the YAML config from the config directory.
func loadUserConfig() (*config.Config, error) {
	cfg, err := config.Load(filepath.Join(getConfigDir(), "config.yaml"))
	if err != nil {
		return nil, err
	}
	if dir := viper.GetString("data"); dir != "" {
		cfg.Data.Dir = dir
	}
	return cfg, nil
}

// newLoader builds the lesson loader for the configured data source.
func newLoader(cfg *config.Config, log *slog.Logger) *data.Loader {
	var src data.Source
	if cfg.Data.URL != "" {
		src = data.HTTPSource{BaseURL: cfg.Data.URL}
	} else {
		src = data.DirSource{Root: cfg.Data.Dir}
	}
	return data.NewLoader(src, log)
}

// newSpeaker builds the configured speech engine and its speaker.
func newSpeaker(cfg *config.Config, log *slog.Logger) (*speech.Speaker, error) {
	var (
		engine speech.Engine
		err    error
	)
	switch cfg.Speech.Engine {
	case "openai":
		ocfg := speech.DefaultOpenAIConfig(viper.GetString("openai_api_key"))
		if cfg.Speech.OpenAIModel != "" {
			ocfg.Model = cfg.Speech.OpenAIModel
		}
		if cfg.Speech.OpenAIVoice != "" {
			ocfg.Voice = cfg.Speech.OpenAIVoice
		}
		if cfg.Speech.Speed > 0 {
			ocfg.Speed = cfg.Speech.Speed
		}
		engine, err = speech.NewOpenAI(ocfg)
	default:
		engine, err = speech.NewESpeak(speech.DefaultESpeakConfig())
	}
	if err != nil {
		return nil, fmt.Errorf("initializing speech engine: %w", err)
	}

	prefs := speech.DefaultPreferences()
	for lang, voices := range cfg.Speech.Voices {
		prefs[lang] = voices
	}
	return speech.NewSpeaker(engine, prefs, log), nil
}

// openProgress opens the settings/progress database.
func openProgress() (*storage.Store, error) {
	dir, err := config.EnsureConfigDir()
	if err != nil {
		return nil, err
	}
	return storage.Open(config.StoragePath(dir))
}
