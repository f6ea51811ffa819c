package detector

import (
	"strings"

	"github.com/crimson-sun/triage/internal/engine/patterns"
	"github.com/crimson-sun/triage/internal/model"
)

// sampleLimit is how many lines of the batch content scoring examines.
// Classification later covers the whole batch; only detection samples.
const sampleLimit = 20

// Detect decides which domain a log batch belongs to. A non-empty hint is
// consulted first and always wins when any hint keyword group matches.
// Otherwise the first sampleLimit lines are scored per domain and the
// highest score wins; ties fall to the earlier domain in evaluation order
// (security, web, application, system). All scores zero means general.
func Detect(lines []string, hint string, lib *patterns.Library) model.Domain {
	if hint != "" {
		if d, ok := fromHint(hint, lib); ok {
			return d
		}
	}

	sample := lines
	if len(sample) > sampleLimit {
		sample = sample[:sampleLimit]
	}

	scores := map[model.Domain]int{}
	for _, line := range sample {
		lower := strings.ToLower(line)

		if containsAny(lower, lib.Detect.SecurityContent) {
			scores[model.DomainSecurity]++
		}
		// Access-log tokens are fixed-case; match against the raw line.
		if containsAny(line, lib.Detect.WebContent) || lib.Detect.IPv4.MatchString(line) {
			scores[model.DomainWeb]++
		}
		if containsAny(lower, lib.Detect.AppContent) {
			scores[model.DomainApplication]++
		}
		if containsAny(lower, lib.Detect.SystemContent) {
			scores[model.DomainSystem]++
		}
	}

	// First domain with the maximum score wins; the order encodes the
	// tie-break precedence.
	order := []model.Domain{
		model.DomainSecurity,
		model.DomainWeb,
		model.DomainApplication,
		model.DomainSystem,
	}
	max := 0
	for _, d := range order {
		if scores[d] > max {
			max = scores[d]
		}
	}
	if max == 0 {
		return model.DomainGeneral
	}
	for _, d := range order {
		if scores[d] == max {
			return d
		}
	}
	return model.DomainGeneral
}

// fromHint maps a caller-supplied context hint to a domain. Groups are
// checked in priority order; the first group with any keyword present wins.
func fromHint(hint string, lib *patterns.Library) (model.Domain, bool) {
	lower := strings.ToLower(hint)
	groups := []struct {
		domain   model.Domain
		keywords []string
	}{
		{model.DomainSecurity, lib.Detect.SecurityHint},
		{model.DomainWeb, lib.Detect.WebHint},
		{model.DomainApplication, lib.Detect.AppHint},
		{model.DomainSystem, lib.Detect.SystemHint},
	}
	for _, g := range groups {
		if containsAny(lower, g.keywords) {
			return g.domain, true
		}
	}
	return model.DomainGeneral, false
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
