package classifier

import (
	"strings"

	"github.com/crimson-sun/triage/internal/engine/patterns"
	"github.com/crimson-sun/triage/internal/model"
)

// Per-bucket retention caps. Counts keep accumulating past the cap; only
// the captured lines are bounded.
const (
	generalBucketCap = 3
	domainBucketCap  = 5
)

// Counters is the accumulator set for one batch. It is created and mutated
// exclusively by Classify and read-only for every downstream stage. Exactly
// one of the domain-specific counter records is non-nil, matching the
// detected domain.
type Counters struct {
	Domain    model.Domain
	TotalLogs int

	ErrorCount    int
	WarningCount  int
	InfoCount     int
	CriticalCount int

	Critical []string // error lines carrying a critical token, capped
	Errors   []string // remaining error lines, capped
	Warnings []string // capped
	Infos    []string // capped

	Security    *SecurityCounters
	Web         *WebCounters
	Application *ApplicationCounters
	System      *SystemCounters
}

// SecurityCounters accumulate security-domain signals.
type SecurityCounters struct {
	SecurityEvents int
	AuthFailures   int
	UnknownUsers   int
	RootAttempts   int

	SuspiciousIPs []string // insertion-ordered set of source identifiers
	ipSeen        map[string]bool

	SecurityIssues       []string // auth-failure lines, capped
	SuspiciousActivities []string // unknown-user lines, capped
}

// WebCounters accumulate web-domain signals.
type WebCounters struct {
	HTTPErrors   int
	Client4xx    int
	Server5xx    int
	SlowRequests int
}

// ApplicationCounters accumulate application-domain signals.
type ApplicationCounters struct {
	DeploymentIssues  int
	DatabaseIssues    int
	APIErrors         int
	PerformanceIssues int
}

// SystemCounters accumulate system-domain signals.
type SystemCounters struct {
	ServiceFailures int
	ResourceIssues  int
	NetworkIssues   int
}

// Classify makes a single pass over every line of the batch and returns the
// filled counter set. Each line lands in at most one general severity bucket
// (error beats warning beats info) and may additionally hit one rule of the
// detected domain (first matching rule wins within the domain).
func Classify(lines []string, domain model.Domain, lib *patterns.Library) *Counters {
	c := &Counters{Domain: domain, TotalLogs: len(lines)}
	switch domain {
	case model.DomainSecurity:
		c.Security = &SecurityCounters{ipSeen: map[string]bool{}}
	case model.DomainWeb:
		c.Web = &WebCounters{}
	case model.DomainApplication:
		c.Application = &ApplicationCounters{}
	case model.DomainSystem:
		c.System = &SystemCounters{}
	}

	for _, line := range lines {
		c.classifyGeneral(line, lib)
		c.classifyDomain(line, lib)
	}
	return c
}

func (c *Counters) classifyGeneral(line string, lib *patterns.Library) {
	switch {
	case patterns.MatchAny(lib.Errors, line):
		c.ErrorCount++
		if containsToken(line, lib.CriticalTokens) {
			c.CriticalCount++
			c.Critical = capture(c.Critical, line, generalBucketCap)
		} else {
			c.Errors = capture(c.Errors, line, generalBucketCap)
		}
	case patterns.MatchAny(lib.Warnings, line):
		c.WarningCount++
		c.Warnings = capture(c.Warnings, line, generalBucketCap)
	case patterns.MatchAny(lib.Infos, line):
		c.InfoCount++
		c.Infos = capture(c.Infos, line, generalBucketCap)
	}
}

func (c *Counters) classifyDomain(line string, lib *patterns.Library) {
	switch c.Domain {
	case model.DomainSecurity:
		sec := c.Security
		switch {
		case lib.Security.AuthFailure.MatchString(line):
			sec.AuthFailures++
			sec.SecurityEvents++
			sec.SecurityIssues = capture(sec.SecurityIssues, line, domainBucketCap)
			if m := lib.Security.RHost.FindStringSubmatch(line); m != nil {
				if !sec.ipSeen[m[1]] {
					sec.ipSeen[m[1]] = true
					sec.SuspiciousIPs = append(sec.SuspiciousIPs, m[1])
				}
			}
			if lib.Security.RootAccess.MatchString(line) {
				sec.RootAttempts++
			}
		case lib.Security.UnknownUser.MatchString(line):
			sec.UnknownUsers++
			sec.SecurityEvents++
			sec.SuspiciousActivities = capture(sec.SuspiciousActivities, line, domainBucketCap)
		}

	case model.DomainWeb:
		web := c.Web
		switch {
		case lib.Web.Client4xx.MatchString(line):
			web.Client4xx++
			web.HTTPErrors++
		case lib.Web.Server5xx.MatchString(line):
			web.Server5xx++
			web.HTTPErrors++
		case lib.Web.SlowRequest.MatchString(line):
			web.SlowRequests++
		}

	case model.DomainApplication:
		app := c.Application
		switch {
		case lib.Application.DeploymentError.MatchString(line):
			app.DeploymentIssues++
		case lib.Application.DatabaseError.MatchString(line):
			app.DatabaseIssues++
		case lib.Application.APIError.MatchString(line):
			app.APIErrors++
		case lib.Application.PerformanceIssue.MatchString(line):
			app.PerformanceIssues++
		}

	case model.DomainSystem:
		sys := c.System
		switch {
		case lib.System.ServiceFailure.MatchString(line):
			sys.ServiceFailures++
		case lib.System.ResourceIssue.MatchString(line):
			sys.ResourceIssues++
		case lib.System.NetworkIssue.MatchString(line):
			sys.NetworkIssues++
		}
	}
}

// capture appends line to the bucket unless the retention cap is reached.
func capture(bucket []string, line string, limit int) []string {
	if len(bucket) >= limit {
		return bucket
	}
	return append(bucket, line)
}

func containsToken(line string, tokens []string) bool {
	upper := strings.ToUpper(line)
	for _, tok := range tokens {
		if strings.Contains(upper, tok) {
			return true
		}
	}
	return false
}
