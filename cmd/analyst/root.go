package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dataanalyst/internal/app"
	"dataanalyst/internal/config"
	"dataanalyst/internal/logger"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "analyst",
	Short: "Data analyst agent: answer question bundles with Gemini",
	Long: `analyst answers data-analysis question bundles (questions, optional CSV/XLSX
data and an optional image) by prompting Gemini and returning its JSON answer.
Run it as an HTTP service with "serve" or answer a local bundle with "ask".`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (overrides ANALYST_LOG_LEVEL)")
	rootCmd.AddCommand(serveCmd, askCmd)
}

// bootstrap loads configuration, applies flag overrides and wires the app.
func bootstrap() (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if rootCmd.PersistentFlags().Changed("log-level") {
		cfg.Log.Level = logLevel
	}

	zlog, err := logger.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return app.New(cfg, zlog), nil
}

func syncLogger(log *zap.Logger) {
	_ = log.Sync()
}
