package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vocalapp/vocal/cmd/vocal/internal/config"
)

var (
	// Global flags
	verbose    bool
	tuningPath string

	// Global configuration (loaded at init time)
	globalConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "vocal",
	Short: "Speaker diarization and voice identity toolkit",
	Long: `vocal - speech preprocessing, speaker diarization, and voice identity.

Commands:
  diarize   Diarize one or more recorded chunks ("who spoke when")
  enroll    Create a voice enrollment profile from a recording
  identify  Match diarized speakers against the enrolled voice
  profile   Manage stored enrollment profiles
  monitor   Stream live audio levels over websocket
  config    Manage pipeline tuning

Configuration is stored in the OS config directory:
  macOS:   ~/Library/Application Support/vocal/
  Linux:   ~/.config/vocal/
  Windows: %AppData%/vocal/

Examples:
  # Diarize a session recorded as ordered chunks
  vocal diarize chunk-000.wav chunk-001.wav

  # Attach recognizer transcripts and label the enrolled voice
  vocal diarize --transcripts words-000.json,words-001.json --identify chunk-*.wav

  # Enroll from a clean solo recording
  vocal enroll my-voice.wav`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig, initLogging)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&tuningPath, "tuning", "", "tuning file overriding the config directory's tuning.yaml")
}

// configLoadErr stores the error from config.Load() for deferred reporting.
var configLoadErr error

func initConfig() {
	cfg, err := config.Load()
	if err != nil {
		// Defer the error so commands that never touch config, like
		// 'vocal version', still work.
		configLoadErr = err
		return
	}
	if tuningPath != "" {
		if err := cfg.LoadTuningFile(tuningPath); err != nil {
			configLoadErr = err
			return
		}
	}
	globalConfig = cfg
}

func initLogging() {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// GetConfig returns the global configuration.
func GetConfig() (*config.Config, error) {
	if globalConfig == nil {
		if configLoadErr != nil {
			return nil, fmt.Errorf("config not available: %w", configLoadErr)
		}
		cfg, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("config not available: %w", err)
		}
		globalConfig = cfg
	}
	return globalConfig, nil
}

// IsVerbose returns whether verbose mode is enabled.
func IsVerbose() bool {
	return verbose
}
