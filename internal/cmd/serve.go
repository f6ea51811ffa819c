package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/crimson-sun/triage/internal/config"
	"github.com/crimson-sun/triage/internal/engine"
	"github.com/crimson-sun/triage/internal/logging"
	"github.com/crimson-sun/triage/internal/output"
	"github.com/crimson-sun/triage/internal/output/webhook"
	"github.com/crimson-sun/triage/internal/provider"
	"github.com/crimson-sun/triage/internal/server"
	"github.com/crimson-sun/triage/internal/store"

	// Register provider implementations.
	_ "github.com/crimson-sun/triage/internal/provider/mistral"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the triage HTTP service",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides TRIAGE_ADDR)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	logging.Init(false, logging.ParseLevel(cfg.Server.LogLevel))

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	chain := buildChain(cfg)

	var alert output.Output
	if cfg.Output.WebhookURL != "" {
		alert = webhook.New(cfg.Output.WebhookURL)
	}

	srv := server.New(chain, store.New(store.DefaultCapacity), cfg.Engine.MaxLines, alert)

	httpSrv := &http.Server{
		Addr:    addr,
		Handler: srv.Handler(),
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(ctx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("triage: listening", "addr", addr, "mode", chain.Mode())
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// buildChain wires the configured alternate provider (if any) in front of
// the deterministic engine.
func buildChain(cfg config.Config) *provider.Chain {
	eng := engine.Default()

	ctor, err := provider.Get(cfg.Provider.Name)
	if err != nil {
		slog.Warn("unknown provider, using pattern engine only", "provider", cfg.Provider.Name)
		return provider.NewChain(nil, eng)
	}

	p := ctor(provider.Config{
		Provider: cfg.Provider.Name,
		APIKey:   cfg.Provider.APIKey,
		Endpoint: cfg.Provider.Endpoint,
		Model:    cfg.Provider.Model,
		Timeout:  cfg.Provider.Timeout,
	})
	return provider.NewChain(p, eng)
}
