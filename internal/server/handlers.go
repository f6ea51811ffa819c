package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/crimson-sun/triage/internal/ingest"
	"github.com/crimson-sun/triage/internal/model"
	"github.com/crimson-sun/triage/internal/store"
)

// analyzeRequest is the analysis request body. Logs may be a string, an
// array of strings, or an array of anything coercible to strings.
type analyzeRequest struct {
	Logs    json.RawMessage `json:"logs"`
	Context string          `json:"context"`
	Service string          `json:"service"`
}

func (r *analyzeRequest) hint() string {
	if r.Service != "" {
		return r.Service
	}
	return r.Context
}

// decodeLogs turns the raw logs field into cleaned lines plus the count of
// entries submitted. ok is false when the field is missing or empty.
func (r *analyzeRequest) decodeLogs() (lines []string, submitted int, ok bool) {
	if len(r.Logs) == 0 || string(r.Logs) == "null" {
		return nil, 0, false
	}
	var v any
	if err := json.Unmarshal(r.Logs, &v); err != nil {
		// Not valid JSON inside a valid envelope cannot happen, but treat
		// it as raw text rather than failing.
		v = string(r.Logs)
	}
	switch in := v.(type) {
	case []any:
		submitted = len(in)
	case string:
		submitted = len(strings.Split(in, "\n"))
	default:
		submitted = 1
	}
	lines = ingest.CleanLines(v)
	if len(lines) == 1 && lines[0] == ingest.Sentinel {
		return nil, submitted, false
	}
	return lines, submitted, true
}

func (s *Server) handleAnalyzeLogs(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body"})
		return
	}

	lines, submitted, ok := req.decodeLogs()
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "No logs provided for analysis"})
		return
	}

	kept, truncated := ingest.Truncate(lines, s.maxLines)
	result := s.analyze(c.Request.Context(), kept, req.hint())

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"analysis":        result,
		"processed_logs":  len(kept),
		"total_submitted": submitted,
		"valid_logs":      len(lines),
		"truncated":       truncated,
		"message":         "Analysis completed successfully",
	})
}

func (s *Server) handleLogsAnalyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body"})
		return
	}

	lines, _, ok := req.decodeLogs()
	if !ok {
		lines = []string{ingest.Sentinel}
	}
	kept, _ := ingest.Truncate(lines, s.maxLines)
	result := s.analyze(c.Request.Context(), kept, req.hint())

	service := req.hint()
	if service == "" {
		service = "unknown"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "completed",
		"service": service,
		"analysis": gin.H{
			"total_entries":     result.Summary.TotalLogs,
			"errors_found":      result.Summary.ErrorCount,
			"warnings_found":    result.Summary.WarningCount,
			"critical_issues":   result.Summary.CriticalIssues,
			"severity_level":    strings.ToLower(result.Severity),
			"patterns_detected": result.Issues.Errors,
			"recommendations":   result.Recommendations,
			"confidence_score":  result.Confidence,
			"ai_insights":       result.AnalysisMethod,
		},
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleCleanLogs(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body"})
		return
	}

	var v any
	if len(req.Logs) > 0 {
		if err := json.Unmarshal(req.Logs, &v); err != nil {
			v = string(req.Logs)
		}
	}
	lines := ingest.CleanLines(v)

	c.JSON(http.StatusOK, gin.H{
		"cleaned_logs": lines,
		"count":        len(lines),
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   Version,
	})
}

func (s *Server) handleSystemStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"api_status":    "running",
		"analysis_mode": s.chain.Mode(),
		"version":       Version,
		"endpoints": gin.H{
			"analyze_logs":  "/analyze-logs",
			"clean_logs":    "/clean-logs",
			"system_status": "/system/status",
		},
	})
}

func (s *Server) handleLogsRecent(c *gin.Context) {
	limit := intQuery(c, "limit", 50)
	level := c.Query("level")

	records := s.store.Recent(limit, level)
	filters := gin.H{}
	if level != "" {
		filters["level"] = level
	}

	c.JSON(http.StatusOK, gin.H{
		"logs":        records,
		"total_count": s.store.Len(),
		"showing":     len(records),
		"filters":     filters,
	})
}

func (s *Server) handleLogsSearch(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "query parameter required"})
		return
	}
	limit := intQuery(c, "limit", 20)

	results := s.store.Search(query, limit)
	c.JSON(http.StatusOK, gin.H{
		"query":         query,
		"results":       results,
		"total_matches": len(results),
		"showing":       len(results),
	})
}

// analyze runs the provider chain and records the verdict. The chain never
// fails; a panic from a malformed provider response degrades to a canned
// fallback verdict rather than a 500.
func (s *Server) analyze(ctx context.Context, lines []string, hint string) (result model.AnalysisResult) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("analysis panicked, serving fallback verdict", "panic", r)
			result = errorFallback(len(lines))
		}
	}()

	result = s.chain.Analyze(ctx, lines, hint)

	s.store.Add(store.Record{
		Time:    time.Now(),
		Level:   strings.ToLower(result.Status),
		Domain:  result.LogType,
		Message: result.RootCause,
	})
	if s.alert != nil {
		go func(r model.AnalysisResult) {
			if err := s.alert.Write(context.Background(), r); err != nil {
				slog.Warn("alert output failed", "error", err)
			}
		}(result)
	}
	return result
}

// errorFallback is the verdict of last resort, mirroring the engine's
// output contract so downstream consumers still get every field.
func errorFallback(total int) model.AnalysisResult {
	return model.AnalysisResult{
		Status:     model.StatusError,
		Severity:   model.SeverityMedium,
		Confidence: 0.5,
		LogType:    model.DomainGeneral,
		Summary: model.Summary{
			TotalLogs:      total,
			LogType:        model.DomainGeneral,
			ErrorCount:     1,
			CriticalIssues: 1,
		},
		Issues: model.Issues{
			Critical: []string{"Analysis failed unexpectedly"},
			Errors:   []string{"Unable to process logs due to formatting issues"},
			Warnings: []string{},
		},
		RootCause: "Log processing error - possible data format issues",
		Recommendations: []string{
			"Try cleaning your logs via /clean-logs",
			"Check for special characters in your log input",
		},
		Fixes: []string{
			"Remove special characters from logs",
			"Ensure logs are in plain text format",
		},
		TypeSpecific:   model.GeneralAnalysis{GeneralHealth: "ISSUES"},
		AnalysisMethod: "error_fallback",
		Timestamp:      time.Now().Format(time.RFC3339),
		Context:        "Error recovery mode",
	}
}

func intQuery(c *gin.Context, key string, fallback int) int {
	v := c.Query(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
