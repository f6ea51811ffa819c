package server

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/crimson-sun/triage/internal/model"
)

func dialWS(t *testing.T, s *Server) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/analyze"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial websocket: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestWebSocketAnalyzeJSONFrame(t *testing.T) {
	conn := dialWS(t, newTestServer(t))

	err := conn.WriteJSON(map[string]any{
		"logs":    []string{"2024-01-15 [ERROR] disk write failed"},
		"context": "storage",
	})
	if err != nil {
		t.Fatalf("write frame: %v", err)
	}

	var result model.AnalysisResult
	if err := conn.ReadJSON(&result); err != nil {
		t.Fatalf("read verdict: %v", err)
	}
	if result.Status != model.StatusError {
		t.Fatalf("Status = %q, want ERROR", result.Status)
	}
	if result.Summary.TotalLogs != 1 {
		t.Fatalf("TotalLogs = %d, want 1", result.Summary.TotalLogs)
	}
	if result.Context != "storage" {
		t.Fatalf("Context = %q", result.Context)
	}
}

func TestWebSocketAnalyzeRawTextFrame(t *testing.T) {
	conn := dialWS(t, newTestServer(t))

	raw := "first log line\nsecond log line"
	if err := conn.WriteMessage(websocket.TextMessage, []byte(raw)); err != nil {
		t.Fatalf("write frame: %v", err)
	}

	var result model.AnalysisResult
	if err := conn.ReadJSON(&result); err != nil {
		t.Fatalf("read verdict: %v", err)
	}
	if result.Summary.TotalLogs != 2 {
		t.Fatalf("TotalLogs = %d, want 2", result.Summary.TotalLogs)
	}
	if result.Status != model.StatusHealthy {
		t.Fatalf("Status = %q, want HEALTHY", result.Status)
	}
}

func TestWebSocketServesMultipleBatches(t *testing.T) {
	conn := dialWS(t, newTestServer(t))

	for i := 0; i < 3; i++ {
		if err := conn.WriteMessage(websocket.TextMessage, []byte("heartbeat ok")); err != nil {
			t.Fatalf("write frame %d: %v", i, err)
		}
		var result model.AnalysisResult
		if err := conn.ReadJSON(&result); err != nil {
			t.Fatalf("read verdict %d: %v", i, err)
		}
		if result.Status != model.StatusHealthy {
			t.Fatalf("batch %d: Status = %q", i, result.Status)
		}
	}
}
