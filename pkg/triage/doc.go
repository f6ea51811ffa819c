// Package triage classifies raw log text into structured verdicts.
//
// The engine detects which kind of system produced a log batch (security,
// web, application, system, or general), counts severity and domain
// signals in a single pass, and derives a health status, severity tier,
// root cause, and remediation steps from fixed threshold tables. The whole
// pipeline is deterministic: the same batch and hint always produce the
// same verdict.
//
//	eng := triage.New()
//	res := eng.AnalyzeText(logText, "ssh auth")
//	fmt.Println(res.Status, res.RootCause)
package triage
