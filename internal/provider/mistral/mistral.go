package mistral

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/crimson-sun/triage/internal/model"
	"github.com/crimson-sun/triage/internal/provider"
	"github.com/crimson-sun/triage/internal/provider/httpclient"
)

const (
	defaultEndpoint = "https://api.mistral.ai"
	defaultModel    = "mistral-tiny"

	// promptLineLimit bounds how many batch lines are sent upstream.
	promptLineLimit = 50
)

func init() {
	provider.Register("mistral", func(cfg provider.Config) provider.Provider {
		return New(cfg)
	})
}

// Provider analyzes log batches through the Mistral chat-completion API.
// Without an API key it reports unavailable and the chain skips straight to
// the pattern engine.
type Provider struct {
	client *httpclient.Client
	model  string
	apiKey string
}

// New creates a Mistral provider from the given configuration.
func New(cfg provider.Config) *Provider {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	mdl := cfg.Model
	if mdl == "" {
		mdl = defaultModel
	}
	opts := []httpclient.Option{}
	if cfg.Timeout > 0 {
		opts = append(opts, httpclient.WithTimeout(cfg.Timeout))
	}
	return &Provider{
		client: httpclient.New(endpoint, cfg.APIKey, opts...),
		model:  mdl,
		apiKey: cfg.APIKey,
	}
}

func (p *Provider) Name() string { return "mistral" }

func (p *Provider) Available() bool { return p.apiKey != "" }

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// aiVerdict is the JSON shape the prompt asks the model for.
type aiVerdict struct {
	LogType         string   `json:"log_type"`
	Status          string   `json:"status"`
	Severity        string   `json:"severity"`
	Confidence      float64  `json:"confidence"`
	Summary         string   `json:"summary"`
	IssuesDetected  []string `json:"issues_detected"`
	Recommendations []string `json:"recommendations"`
	TechnicalFixes  []string `json:"technical_fixes"`
}

// Analyze sends the batch to the chat-completion endpoint and maps the reply
// onto a triage verdict. A reply that is not valid JSON is salvaged by
// scanning the text for status and recommendation markers.
func (p *Provider) Analyze(ctx context.Context, lines []string, hint string) (model.AnalysisResult, error) {
	sample := lines
	if len(sample) > promptLineLimit {
		sample = sample[:promptLineLimit]
	}

	req := chatRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "user", Content: buildPrompt(sample, hint)},
		},
		Temperature: 0.1,
		MaxTokens:   2048,
	}

	var resp chatResponse
	if err := p.client.PostJSON(ctx, "/v1/chat/completions", req, &resp); err != nil {
		return model.AnalysisResult{}, fmt.Errorf("mistral: %w", err)
	}
	if len(resp.Choices) == 0 {
		return model.AnalysisResult{}, fmt.Errorf("mistral: empty completion")
	}

	content := resp.Choices[0].Message.Content

	var v aiVerdict
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &v); err == nil && v.Status != "" {
		return p.fromVerdict(v, lines, hint), nil
	}
	return parseTextReply(content, lines, hint), nil
}

func buildPrompt(lines []string, hint string) string {
	if hint == "" {
		hint = "Log analysis"
	}
	var b strings.Builder
	b.WriteString("Analyze these logs and provide detailed insights.\n\n")
	fmt.Fprintf(&b, "Context: %s\n\nLogs:\n%s\n\n", hint, strings.Join(lines, "\n"))
	b.WriteString(`Provide a comprehensive analysis in JSON format with:
1. log_type: "security", "web", "application", "system", or "general"
2. status: "HEALTHY", "WARNING", "ERROR", or "CRITICAL"
3. severity: "LOW", "MEDIUM", or "HIGH"
4. confidence: value between 0 and 1
5. summary: brief description of findings
6. issues_detected: array of specific issues found
7. recommendations: array of specific actions to take
8. technical_fixes: array of commands or configuration changes

Focus on identifying the log type and providing relevant analysis for:
- Security logs: authentication failures, brute force attacks, unauthorized access
- Web logs: HTTP errors, performance issues, traffic patterns
- Application logs: deployment failures, API errors, database issues
- System logs: service failures, resource problems, kernel issues
`)
	return b.String()
}

// fromVerdict maps the model's structured reply onto the output contract.
func (p *Provider) fromVerdict(v aiVerdict, lines []string, hint string) model.AnalysisResult {
	conf := v.Confidence
	if conf > 1 {
		conf /= 100 // some models answer with a percentage
	}
	logType := model.Domain(v.LogType)
	if logType == "" {
		logType = model.DomainGeneral
	}
	if hint == "" {
		hint = "Log analysis"
	}
	return model.AnalysisResult{
		Status:     v.Status,
		Severity:   v.Severity,
		Confidence: conf,
		LogType:    logType,
		Summary: model.Summary{
			TotalLogs:      len(lines),
			LogType:        logType,
			ErrorCount:     countContaining(lines, "ERROR", "FAILED", "EXCEPTION"),
			WarningCount:   countContaining(lines, "WARNING"),
			CriticalIssues: countContaining(lines, "CRITICAL", "FATAL"),
		},
		Issues: model.Issues{
			Critical: firstContaining(lines, 3, "CRITICAL", "FATAL"),
			Errors:   firstN(v.IssuesDetected, 3),
			Warnings: firstContaining(lines, 3, "WARNING"),
		},
		RootCause:       v.Summary,
		Recommendations: v.Recommendations,
		Fixes:           v.TechnicalFixes,
		TypeSpecific:    model.GeneralAnalysis{GeneralHealth: "ISSUES"},
		AnalysisMethod:  "mistral-ai",
		Timestamp:       time.Now().Format(time.RFC3339),
		Context:         hint,
	}
}

// parseTextReply extracts a best-effort verdict from a free-text reply.
func parseTextReply(reply string, lines []string, hint string) model.AnalysisResult {
	upper := strings.ToUpper(reply)

	status := model.StatusWarning
	switch {
	case strings.Contains(upper, "CRITICAL"):
		status = model.StatusCritical
	case strings.Contains(upper, "ERROR"):
		status = model.StatusError
	case strings.Contains(upper, "HEALTHY"):
		status = model.StatusHealthy
	}

	sev := model.SeverityMedium
	switch {
	case strings.Contains(reply, "HIGH"):
		sev = model.SeverityHigh
	case strings.Contains(reply, "LOW"):
		sev = model.SeverityLow
	}

	var recommendations []string
	for _, line := range strings.Split(reply, "\n") {
		lower := strings.ToLower(line)
		for _, kw := range []string{"recommend", "should", "consider", "fix", "check"} {
			if strings.Contains(lower, kw) {
				recommendations = append(recommendations, strings.TrimSpace(line))
				break
			}
		}
	}
	recommendations = firstN(recommendations, 5)
	if len(recommendations) == 0 {
		recommendations = []string{"Check logs for errors and warnings"}
	}

	if hint == "" {
		hint = "Log analysis"
	}

	return model.AnalysisResult{
		Status:     status,
		Severity:   sev,
		Confidence: 0.7,
		LogType:    model.DomainGeneral,
		Summary: model.Summary{
			TotalLogs:      len(lines),
			LogType:        model.DomainGeneral,
			ErrorCount:     countContaining(lines, "ERROR", "FAILED", "EXCEPTION"),
			WarningCount:   countContaining(lines, "WARNING"),
			CriticalIssues: countContaining(lines, "CRITICAL", "FATAL"),
		},
		Issues: model.Issues{
			Critical: firstContaining(lines, 3, "CRITICAL", "FATAL"),
			Errors:   firstContaining(lines, 3, "ERROR", "FAILED"),
			Warnings: firstContaining(lines, 3, "WARNING"),
		},
		RootCause:       "Analysis based on AI text parsing",
		Recommendations: recommendations,
		Fixes:           []string{"Review error messages and apply appropriate fixes"},
		TypeSpecific:    model.GeneralAnalysis{GeneralHealth: "ISSUES"},
		AnalysisMethod:  "mistral-ai-text-parsing",
		Timestamp:       time.Now().Format(time.RFC3339),
		Context:         hint,
	}
}

func countContaining(lines []string, tokens ...string) int {
	n := 0
	for _, line := range lines {
		upper := strings.ToUpper(line)
		for _, tok := range tokens {
			if strings.Contains(upper, tok) {
				n++
				break
			}
		}
	}
	return n
}

func firstContaining(lines []string, limit int, tokens ...string) []string {
	out := []string{}
	for _, line := range lines {
		if len(out) >= limit {
			break
		}
		upper := strings.ToUpper(line)
		for _, tok := range tokens {
			if strings.Contains(upper, tok) {
				out = append(out, line)
				break
			}
		}
	}
	return out
}

func firstN(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
