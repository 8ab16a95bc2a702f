// Package cmd implements the perplexity-ask CLI.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ppl-ai/perplexity-ask-go/config"
	"github.com/ppl-ai/perplexity-ask-go/logging"
	"github.com/ppl-ai/perplexity-ask-go/perplexity"
	"github.com/ppl-ai/perplexity-ask-go/server"
)

var (
	configPath  string
	logFilePath string
)

var rootCmd = &cobra.Command{
	Use:   "perplexity-ask",
	Short: "MCP server exposing Perplexity search and reasoning tools",
	Long: `perplexity-ask is a Model Context Protocol server that exposes the
perplexity_ask and perplexity_reason tools over stdio. Each tool call
forwards a conversation to the Perplexity chat completion API and
returns the answer, with citations appended as numbered footnotes.

Requires the PERPLEXITY_API_KEY environment variable.`,
	SilenceUsage: true,
	RunE:         runServe,
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to an optional YAML config file")
	rootCmd.Flags().StringVar(&logFilePath, "log-file", "", "Log file path (default: mcp-server.log)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if logFilePath != "" {
		cfg.LogPath = logFilePath
	}

	logger := logging.NewFileLogger(cfg.LogPath)
	logger.Info("Starting Perplexity Ask MCP Server")
	logger.Info("Using Perplexity model: %s", cfg.Model)
	logger.Info("Using Perplexity reasoning model: %s", cfg.ReasoningModel)

	client := perplexity.NewClient(cfg.APIKey, perplexity.WithLogger(logger))
	srv := server.New(cfg, client, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Fatal error running server: %v", err)
		return fmt.Errorf("running server: %w", err)
	}
	return nil
}
