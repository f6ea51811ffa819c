package patterns

import "regexp"

// Library is the full set of matching rules the engine works from: the
// domain-agnostic severity indicators, one named rule set per domain, and
// the keyword lists the detector scores with. It is built once at process
// start and never mutated, so it is safe to share across batches.
type Library struct {
	// General severity indicators, checked in error > warning > info order.
	Errors   []*regexp.Regexp
	Warnings []*regexp.Regexp
	Infos    []*regexp.Regexp

	// Tokens that promote an error line into the critical bucket. Compared
	// against the upper-cased line.
	CriticalTokens []string

	Security    SecurityRules
	Web         WebRules
	Application ApplicationRules
	System      SystemRules

	Detect DetectRules
}

// SecurityRules are the named security-domain rules. RHost and RootAccess
// are sub-patterns applied to lines that already matched AuthFailure.
type SecurityRules struct {
	AuthFailure     *regexp.Regexp
	BruteForce      *regexp.Regexp
	UnknownUser     *regexp.Regexp
	FailedLogin     *regexp.Regexp
	SessionActivity *regexp.Regexp
	RHost           *regexp.Regexp // captures the remote host identifier
	RootAccess      *regexp.Regexp
}

// WebRules are the named web-domain rules. These match case-sensitively:
// access-log tokens like "HTTP/1.1" and status codes are fixed-case.
type WebRules struct {
	HTTPError   *regexp.Regexp
	Client4xx   *regexp.Regexp
	Server5xx   *regexp.Regexp
	SlowRequest *regexp.Regexp
	HighTraffic *regexp.Regexp
}

// ApplicationRules are the named application-domain rules.
type ApplicationRules struct {
	DeploymentError  *regexp.Regexp
	DatabaseError    *regexp.Regexp
	APIError         *regexp.Regexp
	PerformanceIssue *regexp.Regexp
}

// SystemRules are the named system-domain rules.
type SystemRules struct {
	ServiceFailure *regexp.Regexp
	ResourceIssue  *regexp.Regexp
	NetworkIssue   *regexp.Regexp
	KernelIssue    *regexp.Regexp
}

// DetectRules hold the keyword lists used for domain detection: the hint
// groups (matched against the caller-supplied context, lower-cased) and the
// per-domain content indicators (matched against the first lines of the
// batch). Web content indicators match the raw line; the rest match the
// lower-cased line.
type DetectRules struct {
	SecurityHint []string
	WebHint      []string
	AppHint      []string
	SystemHint   []string

	SecurityContent []string
	WebContent      []string
	AppContent      []string
	SystemContent   []string

	IPv4 *regexp.Regexp // dotted-quad, counts as a web indicator
}

var std = &Library{
	Errors: compileAll(
		`error|fatal|critical|alert|fail`,
		`timeout`,
		`exception`,
		`out of memory|outofmemoryerror`,
		`connection refused|connection reset`,
		`port.*already in use`,
		`bind.*address already in use`,
		`exited abnormally|crashed|panic`,
		`stack trace|stacktrace`,
		`null pointer|segmentation fault`,
	),
	Warnings: compileAll(
		`warning|warn`,
		`deprecated`,
		`high memory usage|memory leak`,
		`slow response|performance`,
		`retry|retrying|attempting`,
		`disk space|storage full`,
	),
	Infos: compileAll(
		`info|information`,
		`started|starting|initialized`,
		`completed|finished|success`,
		`connected|connection established`,
	),

	CriticalTokens: []string{"CRITICAL", "FATAL", "ALERT"},

	Security: SecurityRules{
		AuthFailure:     regexp.MustCompile(`(?i)sshd.*authentication failure`),
		BruteForce:      regexp.MustCompile(`(?i)authentication failure.*rhost=`),
		UnknownUser:     regexp.MustCompile(`(?i)check pass; user unknown`),
		FailedLogin:     regexp.MustCompile(`(?i)Failed password|Invalid user`),
		SessionActivity: regexp.MustCompile(`(?i)session (opened|closed) for user`),
		RHost:           regexp.MustCompile(`rhost=([\d.\-\w]+)`),
		RootAccess:      regexp.MustCompile(`user=root`),
	},
	Web: WebRules{
		HTTPError:   regexp.MustCompile(`HTTP/\d\.\d"\s+[45]\d\d`),
		Client4xx:   regexp.MustCompile(`HTTP/\d\.\d"\s+4\d\d`),
		Server5xx:   regexp.MustCompile(`HTTP/\d\.\d"\s+5\d\d`),
		SlowRequest: regexp.MustCompile(`request_time|response_time.*[1-9]\d{3,}`),
		HighTraffic: regexp.MustCompile(`(?i)flood|ddos|rate.limit`),
	},
	Application: ApplicationRules{
		DeploymentError:  regexp.MustCompile(`(?i)deploy|container.*failed|image.*pull.*error`),
		DatabaseError:    regexp.MustCompile(`(?i)database|sql|connection.*pool|deadlock`),
		APIError:         regexp.MustCompile(`(?i)api.*error|endpoint.*failed|service.*unavailable`),
		PerformanceIssue: regexp.MustCompile(`(?i)slow.*query|timeout|memory.*leak`),
	},
	System: SystemRules{
		ServiceFailure: regexp.MustCompile(`(?i)systemd|service.*failed|daemon.*error`),
		ResourceIssue:  regexp.MustCompile(`(?i)out.*of.*memory|disk.*full|cpu.*usage`),
		NetworkIssue:   regexp.MustCompile(`(?i)network.*unreachable|dns.*error|connection.*refused`),
		KernelIssue:    regexp.MustCompile(`(?i)kernel.*panic|segfault|oops`),
	},

	Detect: DetectRules{
		SecurityHint: []string{"security", "auth", "ssh", "login"},
		WebHint:      []string{"web", "http", "nginx", "apache"},
		AppHint:      []string{"app", "application", "deploy"},
		SystemHint:   []string{"system", "kernel", "service"},

		SecurityContent: []string{"sshd", "authentication", "login", "password", "security"},
		WebContent:      []string{"GET", "POST", "HTTP", "200", "404", "500"},
		AppContent:      []string{"deploy", "container", "docker", "kubernetes", "application"},
		SystemContent:   []string{"kernel", "systemd", "service", "daemon", "process"},

		IPv4: regexp.MustCompile(`\d+\.\d+\.\d+\.\d+`),
	},
}

// Default returns the built-in rule library.
func Default() *Library { return std }

// compileAll compiles a group of case-insensitive severity indicators.
func compileAll(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(`(?i)` + e)
	}
	return out
}

// MatchAny reports whether any pattern in the group matches the line.
func MatchAny(group []*regexp.Regexp, line string) bool {
	for _, re := range group {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}
