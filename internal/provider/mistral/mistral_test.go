package mistral

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/crimson-sun/triage/internal/model"
	"github.com/crimson-sun/triage/internal/provider"
)

func chatReply(t *testing.T, content string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model == "" || len(req.Messages) == 0 {
			t.Errorf("incomplete request: %+v", req)
		}

		resp := chatResponse{}
		resp.Choices = append(resp.Choices, struct {
			Message chatMessage `json:"message"`
		}{Message: chatMessage{Role: "assistant", Content: content}})
		json.NewEncoder(w).Encode(resp)
	}
}

func TestAvailableRequiresAPIKey(t *testing.T) {
	if New(provider.Config{}).Available() {
		t.Fatal("provider without an API key must report unavailable")
	}
	if !New(provider.Config{APIKey: "key"}).Available() {
		t.Fatal("provider with an API key must report available")
	}
}

func TestAnalyzeStructuredReply(t *testing.T) {
	verdict := `{
		"log_type": "security",
		"status": "CRITICAL",
		"severity": "HIGH",
		"confidence": 0.95,
		"summary": "Repeated SSH authentication failures from one host",
		"issues_detected": ["brute force pattern on sshd"],
		"recommendations": ["Block the source address"],
		"technical_fixes": ["iptables -A INPUT -s 203.0.113.5 -j DROP"]
	}`
	srv := httptest.NewServer(chatReply(t, verdict))
	defer srv.Close()

	p := New(provider.Config{APIKey: "key", Endpoint: srv.URL, Timeout: 5 * time.Second})
	lines := []string{
		"sshd[1]: authentication FAILED for root",
		"app started",
	}
	got, err := p.Analyze(context.Background(), lines, "ssh audit")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if got.AnalysisMethod != "mistral-ai" {
		t.Fatalf("AnalysisMethod = %q", got.AnalysisMethod)
	}
	if got.Status != model.StatusCritical || got.Severity != model.SeverityHigh {
		t.Fatalf("verdict = %s/%s", got.Status, got.Severity)
	}
	if got.Confidence != 0.95 {
		t.Fatalf("Confidence = %v", got.Confidence)
	}
	if got.LogType != model.DomainSecurity {
		t.Fatalf("LogType = %q", got.LogType)
	}
	if got.Summary.TotalLogs != 2 || got.Summary.ErrorCount != 1 {
		t.Fatalf("Summary = %+v", got.Summary)
	}
	if got.RootCause != "Repeated SSH authentication failures from one host" {
		t.Fatalf("RootCause = %q", got.RootCause)
	}
	if len(got.Recommendations) != 1 || got.Recommendations[0] != "Block the source address" {
		t.Fatalf("Recommendations = %q", got.Recommendations)
	}
	if got.Context != "ssh audit" {
		t.Fatalf("Context = %q", got.Context)
	}
}

func TestAnalyzePercentageConfidence(t *testing.T) {
	srv := httptest.NewServer(chatReply(t, `{"status":"HEALTHY","severity":"LOW","confidence":90}`))
	defer srv.Close()

	p := New(provider.Config{APIKey: "key", Endpoint: srv.URL})
	got, err := p.Analyze(context.Background(), []string{"ok"}, "")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if got.Confidence != 0.9 {
		t.Fatalf("Confidence = %v, want 0.9", got.Confidence)
	}
	if got.LogType != model.DomainGeneral {
		t.Fatalf("LogType = %q, want general fallback", got.LogType)
	}
}

func TestAnalyzeTextReplySalvage(t *testing.T) {
	reply := `The logs show a CRITICAL condition with HIGH impact.
You should check the sshd configuration.
I recommend blocking the offending host.
The service restarted normally afterwards.`
	srv := httptest.NewServer(chatReply(t, reply))
	defer srv.Close()

	p := New(provider.Config{APIKey: "key", Endpoint: srv.URL})
	lines := []string{
		"sshd[1]: FATAL: unable to bind",
		"WARNING: clock drift detected",
	}
	got, err := p.Analyze(context.Background(), lines, "")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if got.AnalysisMethod != "mistral-ai-text-parsing" {
		t.Fatalf("AnalysisMethod = %q", got.AnalysisMethod)
	}
	if got.Status != model.StatusCritical || got.Severity != model.SeverityHigh {
		t.Fatalf("verdict = %s/%s", got.Status, got.Severity)
	}
	if got.Confidence != 0.7 {
		t.Fatalf("Confidence = %v, want 0.7", got.Confidence)
	}
	if len(got.Recommendations) != 2 {
		t.Fatalf("Recommendations = %q, want the two advice lines", got.Recommendations)
	}
	if got.Summary.CriticalIssues != 1 || got.Summary.WarningCount != 1 {
		t.Fatalf("Summary = %+v", got.Summary)
	}
	if got.Context != "Log analysis" {
		t.Fatalf("Context = %q", got.Context)
	}
}

func TestAnalyzeEmptyCompletion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	p := New(provider.Config{APIKey: "key", Endpoint: srv.URL})
	if _, err := p.Analyze(context.Background(), []string{"x"}, ""); err == nil {
		t.Fatal("expected an error for an empty completion")
	}
}

func TestRegisteredWithProviderRegistry(t *testing.T) {
	ctor, err := provider.Get("mistral")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	p := ctor(provider.Config{APIKey: "key"})
	if p.Name() != "mistral" {
		t.Fatalf("Name = %q", p.Name())
	}
}
