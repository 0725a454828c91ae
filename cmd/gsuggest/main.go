package main

import (
	"fmt"
	"os"

	"github.com/atinylittleshell/gsuggest/internal/config"
	"github.com/atinylittleshell/gsuggest/internal/core"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

var BUILD_VERSION = "dev"

// cli carries what the commands need from the outside world, so tests can
// substitute each piece.
type cli struct {
	prompter       core.UserPrompter
	isTerminal     func() bool
	newLogger      func(cfg config.Config, debug bool) (*zap.Logger, error)
	configFile     func() string
	selectionsFile func() string

	cfg    config.Config
	logger *zap.Logger
}

func newCLI() *cli {
	return &cli{
		prompter: core.DefaultUserPrompter{},
		isTerminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stderr.Fd()))
		},
		newLogger:      initializeLogger,
		configFile:     core.ConfigFile,
		selectionsFile: core.SelectionsFile,
	}
}

func main() {
	if err := newCLI().rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func (c *cli) rootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "gsuggest",
		Short:         "Terminal typeahead backed by a JSON suggestion endpoint",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: c.initialize,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync() // Flush any buffered log entries
			}
		},
		Run: func(cmd *cobra.Command, args []string) {
			if version, _ := cmd.Flags().GetBool("version"); version {
				fmt.Fprintln(cmd.OutOrStdout(), BUILD_VERSION)
				return
			}
			_ = cmd.Help()
		},
	}

	rootCmd.PersistentFlags().String("config", "", "config file (default ~/.config/gsuggest/config.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "log at debug level")
	rootCmd.Flags().BoolP("version", "v", false, "Show version information")

	rootCmd.AddCommand(
		c.promptCmd(),
		c.serveCmd(),
		c.historyCmd(),
		c.schemaCmd(),
	)

	return rootCmd
}

// initialize loads the configuration and builds the logger before any
// command runs.
func (c *cli) initialize(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")
	required := path != ""
	if !required {
		path = c.configFile()
	}

	cfg, err := config.Load(path, required)
	if err != nil {
		return err
	}
	c.cfg = cfg

	debug, _ := cmd.Flags().GetBool("debug")
	logger, err := c.newLogger(cfg, debug)
	if err != nil {
		return err
	}
	c.logger = logger

	logger.Info("-------- new gsuggest session --------", zap.Any("args", os.Args))
	return nil
}

func initializeLogger(cfg config.Config, debug bool) (*zap.Logger, error) {
	logLevel := cfg.GetLogLevel()
	if BUILD_VERSION == "dev" || debug {
		logLevel = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	loggerConfig := zap.NewProductionConfig()
	loggerConfig.Level = logLevel
	loggerConfig.OutputPaths = []string{
		core.LogFile(),
	}
	logger, err := loggerConfig.Build()
	if err != nil {
		return nil, err
	}

	return logger, nil
}
