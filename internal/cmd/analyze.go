package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/crimson-sun/triage/internal/config"
	"github.com/crimson-sun/triage/internal/ingest"
	"github.com/crimson-sun/triage/internal/logging"
	"github.com/crimson-sun/triage/internal/output"
	"github.com/crimson-sun/triage/internal/output/stdout"
	"github.com/crimson-sun/triage/internal/output/webhook"

	_ "github.com/crimson-sun/triage/internal/provider/mistral"
)

var (
	analyzeContext string
	analyzePretty  bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Analyze a log batch from a file or stdin",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeContext, "context", "", "optional context hint (e.g. \"ssh auth\")")
	analyzeCmd.Flags().BoolVar(&analyzePretty, "pretty", false, "pretty-print the verdict")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	logging.Init(true, logging.ParseLevel(cfg.Server.LogLevel))

	raw, err := readBatch(args)
	if err != nil {
		return err
	}

	lines := ingest.CleanLines(raw)
	kept, truncated := ingest.Truncate(lines, cfg.Engine.MaxLines)
	if truncated {
		fmt.Fprintf(os.Stderr, "triage: batch truncated to trailing %d lines\n", cfg.Engine.MaxLines)
	}

	chain := buildChain(cfg)
	result := chain.Analyze(context.Background(), kept, analyzeContext)

	out := buildOutput(cfg)
	defer out.Close()
	return out.Write(context.Background(), result)
}

func readBatch(args []string) (string, error) {
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("read batch: %w", err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

func buildOutput(cfg config.Config) output.Output {
	if cfg.Output.Format == "webhook" && cfg.Output.WebhookURL != "" {
		return webhook.New(cfg.Output.WebhookURL)
	}
	return stdout.New(analyzePretty || cfg.Output.Pretty)
}
