package severity

import (
	"github.com/crimson-sun/triage/internal/engine/classifier"
	"github.com/crimson-sun/triage/internal/model"
)

// Verdict pairs a coarse status with a severity tier.
type Verdict struct {
	Status   string
	Severity string
}

type rule struct {
	when    func(*classifier.Counters) bool
	verdict Verdict
}

// table is the severity decision table, evaluated top to bottom with
// first-match-wins semantics. Domain thresholds sit above the generic
// counter fallbacks so they take precedence for their domain.
var table = []rule{
	{func(c *classifier.Counters) bool { return c.CriticalCount > 0 },
		Verdict{model.StatusCritical, model.SeverityHigh}},

	{func(c *classifier.Counters) bool { return c.Security != nil && c.Security.AuthFailures >= 10 },
		Verdict{model.StatusCritical, model.SeverityHigh}},
	{func(c *classifier.Counters) bool {
		return c.Security != nil && (c.Security.AuthFailures >= 3 || c.Security.UnknownUsers >= 3)
	},
		Verdict{model.StatusError, model.SeverityMedium}},

	{func(c *classifier.Counters) bool { return c.Web != nil && c.Web.Server5xx >= 10 },
		Verdict{model.StatusCritical, model.SeverityHigh}},
	{func(c *classifier.Counters) bool {
		return c.Web != nil && (c.Web.Server5xx > 0 || c.Web.Client4xx >= 20)
	},
		Verdict{model.StatusError, model.SeverityMedium}},

	{func(c *classifier.Counters) bool { return c.Application != nil && c.Application.DeploymentIssues > 0 },
		Verdict{model.StatusError, model.SeverityMedium}},
	{func(c *classifier.Counters) bool { return c.Application != nil && c.Application.DatabaseIssues > 0 },
		Verdict{model.StatusError, model.SeverityMedium}},

	{func(c *classifier.Counters) bool { return c.System != nil && c.System.ServiceFailures > 0 },
		Verdict{model.StatusError, model.SeverityMedium}},
	{func(c *classifier.Counters) bool { return c.System != nil && c.System.ResourceIssues > 0 },
		Verdict{model.StatusWarning, model.SeverityMedium}},

	{func(c *classifier.Counters) bool { return c.ErrorCount > 0 },
		Verdict{model.StatusError, model.SeverityMedium}},
	{func(c *classifier.Counters) bool { return c.WarningCount > 0 },
		Verdict{model.StatusWarning, model.SeverityLow}},
}

// Resolve maps a filled counter set to its status and severity. Pure: the
// same counters always yield the same verdict.
func Resolve(c *classifier.Counters) Verdict {
	for _, r := range table {
		if r.when(c) {
			return r.verdict
		}
	}
	return Verdict{model.StatusHealthy, model.SeverityLow}
}
