package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"moodtray/internal/config"
	"moodtray/internal/logging"
	"moodtray/internal/platform"
)

const appName = "MoodTray"

var (
	version    = "dev"
	configPath string
	dataDir    string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "moodtray",
	Short: "MoodTray - periodic mood check-ins from the system tray",
	Long: `MoodTray lives in the system tray and asks how you feel at the top of
every hour (or minute). Answers are stored as one JSON file per day.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default to the tray app when no subcommand is provided
		return runApp(cmd, args)
	},
}

func init() {
	defaultConfig := platform.DefaultPaths().ConfigFile(config.FileName)
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfig, "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Directory for mood entries (overrides storage.data_dir)")

	rootCmd.AddCommand(
		newRunCmd(),
		newSummaryCmd(),
		newAutostartCmd(),
		newVersionCmd(),
	)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// environment is the loaded configuration shared by every command.
type environment struct {
	config *config.Config
	paths  platform.Paths
	logger zerolog.Logger
	closer io.Closer
}

// loadEnvironment reads the config file. Only the tray app writes the log file.
func loadEnvironment(withLogFile bool) (*environment, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	storageDir := cfg.Storage.DataDir
	if dataDir != "" {
		storageDir = dataDir
	}
	paths := platform.DefaultPaths().WithDataDir(storageDir)

	logConfig := cfg.Log
	if withLogFile && logConfig.File {
		if err := paths.Ensure(); err != nil {
			return nil, err
		}
	} else {
		logConfig.File = false
	}
	logger, closer := logging.New(logging.Options{Config: logConfig, FilePath: paths.LogFile()})

	return &environment{config: cfg, paths: paths, logger: logger, closer: closer}, nil
}

func (env *environment) Close() {
	if err := env.closer.Close(); err != nil {
		fmt.Fprintln(os.Stderr, "close log file:", err)
	}
}
