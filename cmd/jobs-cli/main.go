package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"job-ledger-go/internal/config"
	"job-ledger-go/internal/logger"
)

func main() {
	a := &app{}
	if err := execute(newRootCmd(a), a); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app is the state shared by all subcommands of one invocation
type app struct {
	configPath string
	verbose    bool

	cfg       *config.Config
	logger    *slog.Logger
	logCloser io.Closer
}

// execute runs root and releases the log file whether or not the command failed
func execute(root *cobra.Command, a *app) error {
	defer a.close()
	return root.Execute()
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "jobs-cli",
		Short:         "Maintain the found-jobs ledger",
		Long:          `Deduplicates, filters, ingests and mirrors the JSON job ledger (found_jobs.json).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "config.json", "Configuration file (JSON or YAML)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Verbose output")

	root.AddCommand(
		newDedupeCmd(a),
		newEliteCmd(a),
		newShowCmd(a),
		newInsertCmd(a),
		newSimilarCmd(a),
		newSyncCmd(a),
		newConfigCmd(a),
	)

	return root
}

// setup loads .env, configuration and the logger
func (a *app) setup() error {
	envErr := godotenv.Load()

	cfg, err := config.LoadConfig(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	logCfg := logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	}
	if a.verbose {
		logCfg.Level = "debug"
	}

	log, closer, err := logger.New(logCfg)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	if envErr != nil {
		log.Debug("No .env file loaded", slog.Any("error", envErr))
	}

	a.cfg = cfg
	a.logger = log
	a.logCloser = closer
	return nil
}

func (a *app) close() {
	if a.logCloser != nil {
		a.logCloser.Close()
	}
}

func outputJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(data)
}
