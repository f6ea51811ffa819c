package provider

import (
	"context"
	"log/slog"
	"time"

	"github.com/crimson-sun/triage/internal/engine"
	"github.com/crimson-sun/triage/internal/model"
)

// Provider is an alternate analysis source consulted before the
// deterministic engine. Implementations may fail; the chain guarantees a
// verdict regardless.
type Provider interface {
	// Name identifies the provider (e.g. "mistral").
	Name() string

	// Available reports whether the provider is configured well enough to
	// attempt a call at all.
	Available() bool

	// Analyze produces a triage verdict for the batch, or an error to make
	// the chain fall back.
	Analyze(ctx context.Context, lines []string, hint string) (model.AnalysisResult, error)
}

// Config holds provider connection settings.
type Config struct {
	Provider string
	APIKey   string
	Endpoint string
	Model    string
	Timeout  time.Duration
}

// Chain runs the configured provider with the deterministic engine as its
// guaranteed fallback. A nil or unavailable provider means the engine
// answers directly.
type Chain struct {
	primary Provider
	engine  *engine.Engine
}

// NewChain builds a Chain. primary may be nil.
func NewChain(primary Provider, eng *engine.Engine) *Chain {
	return &Chain{primary: primary, engine: eng}
}

// Analyze returns the primary provider's verdict when it succeeds, and the
// engine's verdict otherwise. It never fails.
func (c *Chain) Analyze(ctx context.Context, lines []string, hint string) model.AnalysisResult {
	if c.primary != nil && c.primary.Available() {
		result, err := c.primary.Analyze(ctx, lines, hint)
		if err == nil {
			return result
		}
		slog.Warn("analysis provider failed, using pattern engine",
			"provider", c.primary.Name(), "error", err)
	}
	return c.engine.Analyze(lines, hint)
}

// Mode describes which path answers analysis requests, for status reporting.
func (c *Chain) Mode() string {
	if c.primary != nil && c.primary.Available() {
		return "AI-powered"
	}
	return "Pattern-based"
}
