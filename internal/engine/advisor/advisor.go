package advisor

import (
	"fmt"
	"strings"

	"github.com/crimson-sun/triage/internal/engine/classifier"
	"github.com/crimson-sun/triage/internal/model"
)

// ipNameLimit bounds how many suspicious source identifiers a blocking
// recommendation names.
const ipNameLimit = 3

// Recommend derives operator-facing recommendations and concrete fixes from
// the counter set. Rules for the detected domain fire independently of each
// other; a generic errors-need-attention rule fires for any domain. When
// nothing fired at all, a single positive recommendation is returned.
func Recommend(c *classifier.Counters) (recommendations, fixes []string) {
	switch c.Domain {
	case model.DomainSecurity:
		if c.Security.AuthFailures >= 5 {
			recommendations = append(recommendations,
				"High number of authentication failures detected",
				"Possible brute force attack in progress",
			)
			fixes = append(fixes,
				"Configure fail2ban: sudo apt-get install fail2ban",
				"Disable password authentication, use SSH keys",
				"Change default SSH port from 22",
			)
		}
		if len(c.Security.SuspiciousIPs) > 0 {
			ips := c.Security.SuspiciousIPs
			if len(ips) > ipNameLimit {
				ips = ips[:ipNameLimit]
			}
			recommendations = append(recommendations,
				fmt.Sprintf("Block suspicious IPs: %s", strings.Join(ips, ", ")))
			fixes = append(fixes, "Block IPs with iptables or firewall rules")
		}

	case model.DomainWeb:
		if c.Web.Server5xx > 0 {
			recommendations = append(recommendations,
				"Server errors detected - check application health",
				"Monitor application performance and resources",
			)
			fixes = append(fixes,
				"Check application logs for detailed errors",
				"Restart application services if needed",
				"Verify database connectivity",
			)
		}
		if c.Web.SlowRequests > 0 {
			recommendations = append(recommendations,
				"Slow requests detected - optimize performance")
			fixes = append(fixes,
				"Analyze slow query logs",
				"Add caching layers",
				"Optimize database queries",
			)
		}

	case model.DomainApplication:
		if c.Application.DeploymentIssues > 0 {
			recommendations = append(recommendations,
				"Deployment issues detected",
				"Check container and service configurations",
			)
			fixes = append(fixes,
				"Verify image availability and versions",
				"Check resource allocations",
				"Review deployment scripts",
			)
		}
		if c.Application.DatabaseIssues > 0 {
			recommendations = append(recommendations, "Database connectivity issues")
			fixes = append(fixes,
				"Check database service status",
				"Verify connection strings",
				"Monitor database performance",
			)
		}

	case model.DomainSystem:
		if c.System.ServiceFailures > 0 {
			recommendations = append(recommendations, "System service failures detected")
			fixes = append(fixes,
				"Check service status: systemctl status <service>",
				"Review service logs: journalctl -u <service>",
				"Restart failed services if needed",
			)
		}
		if c.System.ResourceIssues > 0 {
			recommendations = append(recommendations, "System resource issues detected")
			fixes = append(fixes,
				"Check disk space: df -h",
				"Monitor memory usage: free -h",
				"Check CPU usage: top or htop",
			)
		}
	}

	if c.ErrorCount > 0 {
		recommendations = append(recommendations, "System errors require attention")
		fixes = append(fixes,
			"Review error logs for patterns",
			"Check system health and resources",
		)
	}

	if len(recommendations) == 0 {
		recommendations = append(recommendations, "No critical issues detected")
		fixes = append(fixes, "Continue monitoring system health")
	}

	return recommendations, fixes
}

// RootCause composes a short causal narrative: one clause per non-zero
// domain counter, then the general error count, joined by semicolons.
func RootCause(c *classifier.Counters) string {
	var causes []string

	switch c.Domain {
	case model.DomainSecurity:
		if c.Security.AuthFailures > 0 {
			causes = append(causes, fmt.Sprintf("%d authentication failures", c.Security.AuthFailures))
		}
		if len(c.Security.SuspiciousIPs) > 0 {
			causes = append(causes, fmt.Sprintf("Suspicious activity from %d IPs", len(c.Security.SuspiciousIPs)))
		}
	case model.DomainWeb:
		if c.Web.Server5xx > 0 {
			causes = append(causes, fmt.Sprintf("%d server errors", c.Web.Server5xx))
		}
		if c.Web.Client4xx > 0 {
			causes = append(causes, fmt.Sprintf("%d client errors", c.Web.Client4xx))
		}
	case model.DomainApplication:
		if c.Application.DeploymentIssues > 0 {
			causes = append(causes, fmt.Sprintf("%d deployment issues", c.Application.DeploymentIssues))
		}
		if c.Application.DatabaseIssues > 0 {
			causes = append(causes, fmt.Sprintf("%d database problems", c.Application.DatabaseIssues))
		}
	case model.DomainSystem:
		if c.System.ServiceFailures > 0 {
			causes = append(causes, fmt.Sprintf("%d service failures", c.System.ServiceFailures))
		}
		if c.System.ResourceIssues > 0 {
			causes = append(causes, fmt.Sprintf("%d resource problems", c.System.ResourceIssues))
		}
	}

	if c.ErrorCount > 0 {
		causes = append(causes, fmt.Sprintf("%d general errors", c.ErrorCount))
	}

	if len(causes) == 0 {
		return fmt.Sprintf("Normal %s activity patterns", c.Domain)
	}
	return strings.Join(causes, "; ")
}
