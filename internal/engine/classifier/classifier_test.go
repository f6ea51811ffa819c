package classifier

import (
	"fmt"
	"testing"

	"github.com/crimson-sun/triage/internal/engine/patterns"
	"github.com/crimson-sun/triage/internal/model"
)

func TestGeneralSeverityPrecedence(t *testing.T) {
	lib := patterns.Default()

	// The line carries both an error and a warning token; only the error
	// counter may move.
	c := Classify([]string{"ERROR while processing, WARN state dirty"}, model.DomainGeneral, lib)

	if c.ErrorCount != 1 {
		t.Fatalf("ErrorCount = %d, want 1", c.ErrorCount)
	}
	if c.WarningCount != 0 {
		t.Fatalf("WarningCount = %d, want 0", c.WarningCount)
	}
}

func TestCriticalTokenRouting(t *testing.T) {
	lib := patterns.Default()

	c := Classify([]string{
		"CRITICAL: out of memory",
		"FATAL: db gone",
		"ERROR: just an error",
	}, model.DomainGeneral, lib)

	if c.ErrorCount != 3 {
		t.Fatalf("ErrorCount = %d, want 3", c.ErrorCount)
	}
	if c.CriticalCount != 2 {
		t.Fatalf("CriticalCount = %d, want 2", c.CriticalCount)
	}
	if len(c.Critical) != 2 {
		t.Fatalf("len(Critical) = %d, want 2", len(c.Critical))
	}
	if len(c.Errors) != 1 {
		t.Fatalf("len(Errors) = %d, want 1", len(c.Errors))
	}
}

func TestCaptureCapKeepsCountsExact(t *testing.T) {
	lib := patterns.Default()

	lines := make([]string, 10)
	for i := range lines {
		lines[i] = fmt.Sprintf("CRITICAL failure %d", i)
	}
	c := Classify(lines, model.DomainGeneral, lib)

	if c.CriticalCount != 10 {
		t.Fatalf("CriticalCount = %d, want 10", c.CriticalCount)
	}
	if len(c.Critical) != 3 {
		t.Fatalf("len(Critical) = %d, want 3 (retention cap)", len(c.Critical))
	}
	// The cap keeps the first lines, not a sample.
	if c.Critical[0] != lines[0] || c.Critical[2] != lines[2] {
		t.Fatalf("Critical bucket = %v, want first 3 lines", c.Critical)
	}
}

func TestSecurityExtraction(t *testing.T) {
	lib := patterns.Default()

	lines := []string{
		"sshd[101]: authentication failure; rhost=203.0.113.5 user=root",
		"sshd[102]: authentication failure; rhost=203.0.113.5",
		"sshd[103]: authentication failure; rhost=203.0.113.6",
		"sshd[104]: authentication failure; rhost=203.0.113.6",
		"sshd[105]: authentication failure; rhost=203.0.113.5",
		"sshd[106]: authentication failure; rhost=203.0.113.6",
	}
	c := Classify(lines, model.DomainSecurity, lib)

	sec := c.Security
	if sec == nil {
		t.Fatal("Security counters not allocated")
	}
	if sec.AuthFailures != 6 {
		t.Fatalf("AuthFailures = %d, want 6", sec.AuthFailures)
	}
	if sec.SecurityEvents != 6 {
		t.Fatalf("SecurityEvents = %d, want 6", sec.SecurityEvents)
	}
	if len(sec.SuspiciousIPs) != 2 {
		t.Fatalf("SuspiciousIPs = %v, want 2 distinct entries", sec.SuspiciousIPs)
	}
	if sec.SuspiciousIPs[0] != "203.0.113.5" || sec.SuspiciousIPs[1] != "203.0.113.6" {
		t.Fatalf("SuspiciousIPs = %v, want insertion order preserved", sec.SuspiciousIPs)
	}
	if sec.RootAttempts != 1 {
		t.Fatalf("RootAttempts = %d, want 1", sec.RootAttempts)
	}
	if len(sec.SecurityIssues) != 5 {
		t.Fatalf("len(SecurityIssues) = %d, want 5 (retention cap)", len(sec.SecurityIssues))
	}
}

func TestSecurityUnknownUser(t *testing.T) {
	lib := patterns.Default()

	c := Classify([]string{
		"sshd[200]: check pass; user unknown",
		"sshd[201]: check pass; user unknown",
	}, model.DomainSecurity, lib)

	if c.Security.UnknownUsers != 2 {
		t.Fatalf("UnknownUsers = %d, want 2", c.Security.UnknownUsers)
	}
	if len(c.Security.SuspiciousActivities) != 2 {
		t.Fatalf("len(SuspiciousActivities) = %d, want 2", len(c.Security.SuspiciousActivities))
	}
}

func TestWebCounters(t *testing.T) {
	lib := patterns.Default()

	c := Classify([]string{
		`10.0.0.1 - - "GET /missing HTTP/1.1" 404 0`,
		`10.0.0.2 - - "GET /api HTTP/1.1" 502 18`,
		`10.0.0.3 - - "GET /api HTTP/1.1" 503 18`,
		`10.0.0.4 - - "GET /ok HTTP/1.1" 200 512`,
	}, model.DomainWeb, lib)

	web := c.Web
	if web.Client4xx != 1 {
		t.Fatalf("Client4xx = %d, want 1", web.Client4xx)
	}
	if web.Server5xx != 2 {
		t.Fatalf("Server5xx = %d, want 2", web.Server5xx)
	}
	if web.HTTPErrors != 3 {
		t.Fatalf("HTTPErrors = %d, want 3", web.HTTPErrors)
	}
}

func TestDomainFirstMatchWins(t *testing.T) {
	lib := patterns.Default()

	// "deploy" and "database" both appear; only the deployment rule (first
	// in the application rule order) may fire.
	c := Classify([]string{"deploy step writing database schema"}, model.DomainApplication, lib)

	if c.Application.DeploymentIssues != 1 {
		t.Fatalf("DeploymentIssues = %d, want 1", c.Application.DeploymentIssues)
	}
	if c.Application.DatabaseIssues != 0 {
		t.Fatalf("DatabaseIssues = %d, want 0 (first match wins)", c.Application.DatabaseIssues)
	}
}

func TestSystemCounters(t *testing.T) {
	lib := patterns.Default()

	c := Classify([]string{
		"systemd[1]: nginx.service entered failed state",
		"host: disk full on /var",
	}, model.DomainSystem, lib)

	if c.System.ServiceFailures != 1 {
		t.Fatalf("ServiceFailures = %d, want 1", c.System.ServiceFailures)
	}
	if c.System.ResourceIssues != 1 {
		t.Fatalf("ResourceIssues = %d, want 1", c.System.ResourceIssues)
	}
}

func TestNoDomainCountersForGeneral(t *testing.T) {
	lib := patterns.Default()

	c := Classify([]string{"some text"}, model.DomainGeneral, lib)
	if c.Security != nil || c.Web != nil || c.Application != nil || c.System != nil {
		t.Fatal("general batches must not allocate domain counters")
	}
	if c.TotalLogs != 1 {
		t.Fatalf("TotalLogs = %d, want 1", c.TotalLogs)
	}
}
