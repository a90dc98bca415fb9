package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"expenses/internal/backend"
	"expenses/internal/cli"
	"expenses/internal/config"
	"expenses/internal/log"
	"expenses/internal/services"
)

var timeNow = time.Now

// app carries what every subcommand needs once the root command has loaded
// configuration.
type app struct {
	out    io.Writer
	cfg    *config.Config
	logger *log.Logger

	backendFlag string
	dataFlag    string
	envFile     string
	plain       bool

	result *backend.BackendResult
}

func newApp(out io.Writer) *app {
	return &app{out: out}
}

func newRootCommand(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "expenses",
		Short: "Track expenses from the terminal or the browser",
		Long: "Record expenses from explicit fields or plain text parsed by a language model,\n" +
			"query and export them, or serve the web page over the same data.",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.close()
		},
	}
	rootCmd.SetOut(a.out)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.backendFlag, "backend", "", "storage backend: json, memory, sqlite or postgres (overrides DATA_BACKEND)")
	flags.StringVar(&a.dataFlag, "data", "", "JSON data file (overrides EXPENSES_DATA_PATH)")
	flags.StringVar(&a.envFile, "env-file", "", "load environment variables from this file instead of .env")
	flags.BoolVar(&a.plain, "plain", false, "print markdown output without terminal styling")

	rootCmd.AddCommand(
		newAddCommand(a),
		newParseCommand(a),
		newListCommand(a),
		newGetCommand(a),
		newUpdateCommand(a),
		newDeleteCommand(a),
		newAnalyzeCommand(a),
		newSummaryCommand(a),
		newExportCommand(a),
		newImportCommand(a),
		newServeCommand(a),
	)
	return rootCmd
}

func (a *app) init() error {
	if a.envFile != "" {
		cli.LoadEnvFile(a.envFile)
	} else {
		cli.LoadEnvFile()
	}

	cfg, err := cli.LoadConfig()
	if err != nil {
		return err
	}
	if a.backendFlag != "" {
		cfg.DataBackend = a.backendFlag
	}
	if a.dataFlag != "" {
		cfg.DataPath = a.dataFlag
	}
	a.cfg = cfg
	a.logger = cli.SetupLogger(cfg.LogLevel, cfg.LogFormat, os.Stderr).WithComponent(log.ComponentCLI)
	return nil
}

// tracker opens the configured backend once per process. fallback applies
// when no backend was configured. With requireParser a missing API key is
// an error rather than a tracker without parsing.
func (a *app) tracker(ctx context.Context, fallback backend.BackendType, requireParser bool) (*services.Tracker, error) {
	if a.result != nil {
		return a.result.Tracker, nil
	}
	bc, err := backend.FromAppConfig(a.cfg, fallback)
	if err != nil {
		return nil, err
	}
	bc.RequireParser = requireParser

	result, err := backend.NewFactory(a.logger.WithComponent(log.ComponentBackend).Logger).CreateBackend(ctx, bc)
	if err != nil {
		return nil, fmt.Errorf("open %s backend: %w", bc.Type, err)
	}
	a.result = result
	return result.Tracker, nil
}

func (a *app) close() error {
	if a.result == nil || a.result.Cleanup == nil {
		return nil
	}
	err := a.result.Cleanup()
	a.result = nil
	return err
}
