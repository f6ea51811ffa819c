package engine

import (
	"fmt"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/crimson-sun/triage/internal/engine/advisor"
	"github.com/crimson-sun/triage/internal/engine/classifier"
	"github.com/crimson-sun/triage/internal/engine/detector"
	"github.com/crimson-sun/triage/internal/engine/patterns"
	"github.com/crimson-sun/triage/internal/engine/severity"
	"github.com/crimson-sun/triage/internal/model"
)

// confidence reported for the deterministic path.
const confidence = 0.9

// suspiciousIPLimit bounds the suspicious-IP issue bucket in the output.
const suspiciousIPLimit = 10

// Engine is the deterministic pattern-based triage engine. It is a pure
// function of (batch, hint) over the shared read-only rule library, so a
// single Engine is safe for concurrent use and never fails on well-formed
// input.
type Engine struct {
	lib *patterns.Library
}

// New creates an Engine over the given rule library.
func New(lib *patterns.Library) *Engine {
	return &Engine{lib: lib}
}

// Default creates an Engine over the built-in rule library.
func Default() *Engine {
	return New(patterns.Default())
}

var titleCaser = cases.Title(language.English)

// Analyze runs the full pipeline over one batch: detect the domain, make a
// single classification pass, then resolve severity, derive
// recommendations, and synthesize the root cause from the same counters.
func (e *Engine) Analyze(lines []string, hint string) model.AnalysisResult {
	domain := detector.Detect(lines, hint, e.lib)
	c := classifier.Classify(lines, domain, e.lib)

	verdict := severity.Resolve(c)
	recommendations, fixes := advisor.Recommend(c)
	rootCause := advisor.RootCause(c)

	ctx := hint
	if ctx == "" {
		ctx = fmt.Sprintf("%s log analysis", titleCaser.String(string(domain)))
	}

	return model.AnalysisResult{
		Status:          verdict.Status,
		Severity:        verdict.Severity,
		Confidence:      confidence,
		LogType:         domain,
		Summary:         buildSummary(c),
		Issues:          buildIssues(c),
		RootCause:       rootCause,
		Recommendations: recommendations,
		Fixes:           fixes,
		TypeSpecific:    buildTypeSpecific(c),
		AnalysisMethod:  fmt.Sprintf("enhanced_%s_pattern_matching", domain),
		Timestamp:       time.Now().Format(time.RFC3339),
		Context:         ctx,
	}
}

func buildSummary(c *classifier.Counters) model.Summary {
	s := model.Summary{
		TotalLogs:      c.TotalLogs,
		LogType:        c.Domain,
		ErrorCount:     c.ErrorCount,
		WarningCount:   c.WarningCount,
		InfoCount:      c.InfoCount,
		CriticalIssues: c.CriticalCount,
	}
	switch c.Domain {
	case model.DomainSecurity:
		s.SecuritySummary = &model.SecuritySummary{
			SecurityEvents: c.Security.SecurityEvents,
			AuthFailures:   c.Security.AuthFailures,
			SuspiciousIPs:  len(c.Security.SuspiciousIPs),
		}
	case model.DomainWeb:
		s.WebSummary = &model.WebSummary{
			HTTPErrors: c.Web.HTTPErrors,
			Client4xx:  c.Web.Client4xx,
			Server5xx:  c.Web.Server5xx,
		}
	case model.DomainApplication:
		s.ApplicationSummary = &model.ApplicationSummary{
			DeploymentIssues: c.Application.DeploymentIssues,
			DatabaseIssues:   c.Application.DatabaseIssues,
			APIErrors:        c.Application.APIErrors,
		}
	case model.DomainSystem:
		s.SystemSummary = &model.SystemSummary{
			ServiceFailures: c.System.ServiceFailures,
			ResourceIssues:  c.System.ResourceIssues,
			NetworkIssues:   c.System.NetworkIssues,
		}
	}
	return s
}

func buildIssues(c *classifier.Counters) model.Issues {
	issues := model.Issues{
		Critical: emptyNotNil(c.Critical),
		Errors:   emptyNotNil(c.Errors),
		Warnings: emptyNotNil(c.Warnings),
	}
	if c.Domain == model.DomainSecurity {
		ips := c.Security.SuspiciousIPs
		if len(ips) > suspiciousIPLimit {
			ips = ips[:suspiciousIPLimit]
		}
		issues.SecurityIssues = &model.SecurityIssues{
			Security:      emptyNotNil(c.Security.SecurityIssues),
			SuspiciousIPs: emptyNotNil(ips),
		}
	}
	return issues
}

func buildTypeSpecific(c *classifier.Counters) any {
	switch c.Domain {
	case model.DomainSecurity:
		a := model.SecurityAnalysis{
			ThreatLevel:      model.SeverityLow,
			AttackVectors:    []string{},
			AffectedServices: []string{},
		}
		switch {
		case c.Security.AuthFailures >= 10:
			a.ThreatLevel = model.SeverityHigh
		case c.Security.AuthFailures > 0:
			a.ThreatLevel = model.SeverityMedium
		}
		if c.Security.AuthFailures >= 5 {
			a.AttackVectors = append(a.AttackVectors, "Brute Force")
		}
		if c.Security.AuthFailures > 0 {
			a.AffectedServices = append(a.AffectedServices, "SSH/SSHD")
		}
		return a

	case model.DomainWeb:
		a := model.WebAnalysis{
			Availability: "UP",
			Performance:  "NORMAL",
			ErrorRate:    fmt.Sprintf("%.1f%%", errorRate(c.Web.HTTPErrors, c.TotalLogs)),
		}
		switch {
		case c.Web.Server5xx >= 10:
			a.Availability = "DOWN"
		case c.Web.Server5xx > 0:
			a.Availability = "DEGRADED"
		}
		if c.Web.SlowRequests > 0 {
			a.Performance = "SLOW"
		}
		return a

	case model.DomainApplication:
		a := model.ApplicationAnalysis{
			DeploymentStatus: "SUCCESS",
			DatabaseHealth:   "HEALTHY",
			APIStatus:        "NORMAL",
		}
		if c.Application.DeploymentIssues > 0 {
			a.DeploymentStatus = "FAILED"
		}
		if c.Application.DatabaseIssues > 0 {
			a.DatabaseHealth = "ISSUES"
		}
		if c.Application.APIErrors > 0 {
			a.APIStatus = "ERRORS"
		}
		return a

	case model.DomainSystem:
		a := model.SystemAnalysis{
			ServiceHealth:  "HEALTHY",
			ResourceStatus: "NORMAL",
			NetworkStatus:  "STABLE",
		}
		if c.System.ServiceFailures > 0 {
			a.ServiceHealth = "DEGRADED"
		}
		if c.System.ResourceIssues > 0 {
			a.ResourceStatus = "CRITICAL"
		}
		if c.System.NetworkIssues > 0 {
			a.NetworkStatus = "ISSUES"
		}
		return a

	default:
		a := model.GeneralAnalysis{GeneralHealth: "HEALTHY"}
		if c.ErrorCount > 0 {
			a.GeneralHealth = "ISSUES"
		}
		return a
	}
}

// errorRate is http_errors over total lines, as a percentage.
func errorRate(httpErrors, total int) float64 {
	if total < 1 {
		total = 1
	}
	return float64(httpErrors) / float64(total) * 100
}

// emptyNotNil keeps issue buckets as [] rather than null on the wire.
func emptyNotNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
