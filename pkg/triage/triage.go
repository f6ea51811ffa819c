package triage

import (
	"github.com/crimson-sun/triage/internal/engine"
	"github.com/crimson-sun/triage/internal/ingest"
	"github.com/crimson-sun/triage/internal/model"
)

// Result is the structured triage verdict for one log batch.
type Result = model.AnalysisResult

// Domain is the detected log source category.
type Domain = model.Domain

// Detectable domains.
const (
	DomainSecurity    = model.DomainSecurity
	DomainWeb         = model.DomainWeb
	DomainApplication = model.DomainApplication
	DomainSystem      = model.DomainSystem
	DomainGeneral     = model.DomainGeneral
)

// Engine is the deterministic pattern-based triage engine. Construction is
// cheap and an Engine is safe for concurrent use, so create once and reuse
// across batches.
type Engine struct {
	eng *engine.Engine
}

// New creates an Engine over the built-in rule library.
func New() *Engine {
	return &Engine{eng: engine.Default()}
}

// Analyze produces a verdict for a batch of already-split log lines. hint
// is an optional free-text description of the log source ("ssh auth",
// "nginx access") consulted before content-based detection; pass "" to
// rely on content alone. Analyze never fails: malformed or empty input
// degrades to a healthy-looking verdict over a sentinel line.
func (e *Engine) Analyze(lines []string, hint string) Result {
	return e.eng.Analyze(ingest.CleanLines(lines), hint)
}

// AnalyzeText is Analyze for raw multiline text, split and cleaned first.
func (e *Engine) AnalyzeText(text, hint string) Result {
	return e.eng.Analyze(ingest.CleanLines(text), hint)
}
