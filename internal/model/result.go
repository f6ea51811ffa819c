package model

// Service status values.
const (
	StatusHealthy  = "HEALTHY"
	StatusWarning  = "WARNING"
	StatusError    = "ERROR"
	StatusCritical = "CRITICAL"
)

// Severity tiers.
const (
	SeverityLow    = "LOW"
	SeverityMedium = "MEDIUM"
	SeverityHigh   = "HIGH"
)

// AnalysisResult is the final triage verdict for one log batch.
// It is built once by the engine (or an alternate provider) and never
// mutated afterward.
type AnalysisResult struct {
	Status          string   `json:"status"`
	Severity        string   `json:"severity"`
	Confidence      float64  `json:"confidence"`
	LogType         Domain   `json:"log_type"`
	Summary         Summary  `json:"summary"`
	Issues          Issues   `json:"issues"`
	RootCause       string   `json:"root_cause"`
	Recommendations []string `json:"recommendations"`
	Fixes           []string `json:"fixes"`
	TypeSpecific    any      `json:"type_specific_analysis"`
	AnalysisMethod  string   `json:"analysis_method"`
	Timestamp       string   `json:"timestamp"`
	Context         string   `json:"context"`
}

// Summary carries the per-batch counts. Exactly one of the embedded
// domain sub-summaries is set for a non-general batch; encoding/json
// flattens the embedded pointer into the summary object and skips it
// entirely when nil.
type Summary struct {
	TotalLogs      int    `json:"total_logs"`
	LogType        Domain `json:"log_type"`
	ErrorCount     int    `json:"error_count"`
	WarningCount   int    `json:"warning_count"`
	InfoCount      int    `json:"info_count"`
	CriticalIssues int    `json:"critical_issues"`

	*SecuritySummary
	*WebSummary
	*ApplicationSummary
	*SystemSummary
}

// SecuritySummary holds the security-domain counts surfaced in the summary.
type SecuritySummary struct {
	SecurityEvents int `json:"security_events"`
	AuthFailures   int `json:"auth_failures"`
	SuspiciousIPs  int `json:"suspicious_ips"`
}

// WebSummary holds the web-domain counts surfaced in the summary.
type WebSummary struct {
	HTTPErrors int `json:"http_errors"`
	Client4xx  int `json:"4xx_errors"`
	Server5xx  int `json:"5xx_errors"`
}

// ApplicationSummary holds the application-domain counts surfaced in the summary.
type ApplicationSummary struct {
	DeploymentIssues int `json:"deployment_issues"`
	DatabaseIssues   int `json:"database_issues"`
	APIErrors        int `json:"api_errors"`
}

// SystemSummary holds the system-domain counts surfaced in the summary.
type SystemSummary struct {
	ServiceFailures int `json:"service_failures"`
	ResourceIssues  int `json:"resource_issues"`
	NetworkIssues   int `json:"network_issues"`
}

// Issues holds the capped buckets of captured offending lines.
type Issues struct {
	Critical []string `json:"critical"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`

	*SecurityIssues
}

// SecurityIssues holds the extra buckets emitted for security batches.
type SecurityIssues struct {
	Security      []string `json:"security"`
	SuspiciousIPs []string `json:"suspicious_ips"`
}

// SecurityAnalysis is the qualitative security assessment.
type SecurityAnalysis struct {
	ThreatLevel      string   `json:"threat_level"`
	AttackVectors    []string `json:"attack_vectors"`
	AffectedServices []string `json:"affected_services"`
}

// WebAnalysis is the qualitative web assessment.
type WebAnalysis struct {
	Availability string `json:"availability"`
	Performance  string `json:"performance"`
	ErrorRate    string `json:"error_rate"`
}

// ApplicationAnalysis is the qualitative application assessment.
type ApplicationAnalysis struct {
	DeploymentStatus string `json:"deployment_status"`
	DatabaseHealth   string `json:"database_health"`
	APIStatus        string `json:"api_status"`
}

// SystemAnalysis is the qualitative system assessment.
type SystemAnalysis struct {
	ServiceHealth  string `json:"service_health"`
	ResourceStatus string `json:"resource_status"`
	NetworkStatus  string `json:"network_status"`
}

// GeneralAnalysis is the qualitative assessment for unclassified batches.
type GeneralAnalysis struct {
	GeneralHealth string `json:"general_health"`
}
