// Package cmd implements the gitbridge command line.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/MyCarrier-DevOps/go-gitbridge/internal/config"
	"github.com/MyCarrier-DevOps/go-gitbridge/internal/logging"
	"github.com/MyCarrier-DevOps/go-gitbridge/internal/output"
)

// Global flags shared across commands.
var (
	flagConfig    string
	flagOutput    string
	flagVerbosity string
	flagLogFormat string
)

// State resolved before any subcommand runs.
var (
	appConfig    *config.Config
	appLogger    = zap.NewNop()
	outputFormat = output.FormatJSON
)

// errOperationFailed is returned after a failed operation has already
// printed its reply.
var errOperationFailed = errors.New("operation failed")

// rootCmd is the top-level command for gitbridge.
var rootCmd = &cobra.Command{
	Use:   "gitbridge",
	Short: "Repository operations with a closed set of outcomes",
	Long: `gitbridge initializes, clones, commits, pushes, fast-forwards and checks out
git repositories. Every command prints one reply: a success message or a
single outcome symbol.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) {
		_ = appLogger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file (default: ./gitbridge.yaml when present)")
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "json", "reply format: json, yaml or text")
	rootCmd.PersistentFlags().StringVarP(&flagVerbosity, "verbosity", "v", "", "log level: debug, info, warn or error (default: from config)")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "log format: console or structured (default: from config)")
}

// setup loads the configuration and builds the logger and reply format.
func setup(_ *cobra.Command, _ []string) error {
	// 1. Load configuration.
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	// 2. Apply flag overrides.
	if flagVerbosity != "" {
		cfg.Log.Level = flagVerbosity
	}
	if flagLogFormat != "" {
		cfg.Log.Format = flagLogFormat
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// 3. Reply format.
	format, err := output.ParseFormat(flagOutput)
	if err != nil {
		return err
	}

	// 4. Logger.
	logger, err := logging.New(logging.Level(cfg.Log.Level), logging.Format(cfg.Log.Format))
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}

	appConfig = cfg
	appLogger = logger
	outputFormat = format
	return nil
}

// Execute runs the root command. Failed operations exit with status 1 after
// printing their reply.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errOperationFailed) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
