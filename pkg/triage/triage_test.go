package triage

import (
	"sync"
	"testing"
)

func TestAnalyzeLines(t *testing.T) {
	eng := New()
	result := eng.Analyze([]string{
		"Jan 15 10:30:45 server sshd[1234]: authentication failure; rhost=203.0.113.5",
		"Jan 15 10:30:47 server sshd[1234]: authentication failure; rhost=203.0.113.5",
		"Jan 15 10:30:49 server sshd[1234]: authentication failure; rhost=203.0.113.5",
	}, "")

	if result.LogType != DomainSecurity {
		t.Fatalf("LogType = %q, want %q", result.LogType, DomainSecurity)
	}
	if result.Status != "ERROR" {
		t.Fatalf("Status = %q, want ERROR", result.Status)
	}
	if result.Summary.TotalLogs != 3 {
		t.Fatalf("TotalLogs = %d, want 3", result.Summary.TotalLogs)
	}
}

func TestAnalyzeTextSplitsLines(t *testing.T) {
	eng := New()
	result := eng.AnalyzeText("app started\napp ready\n\napp serving", "")

	if result.Summary.TotalLogs != 3 {
		t.Fatalf("TotalLogs = %d, want 3", result.Summary.TotalLogs)
	}
	if result.Status != "HEALTHY" {
		t.Fatalf("Status = %q, want HEALTHY", result.Status)
	}
}

func TestAnalyzeNeverFails(t *testing.T) {
	eng := New()
	for _, in := range [][]string{nil, {}, {"   "}, {"\x00\x01"}} {
		result := eng.Analyze(in, "")
		if result.Status == "" || result.Timestamp == "" {
			t.Fatalf("Analyze(%q) returned incomplete verdict: %+v", in, result)
		}
	}
}

func TestEngineIsConcurrencySafe(t *testing.T) {
	eng := New()
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				eng.AnalyzeText("2024-01-15 [ERROR] request failed", "api")
			}
		}()
	}
	wg.Wait()
}
