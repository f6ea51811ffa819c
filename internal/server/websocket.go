package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/crimson-sun/triage/internal/ingest"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// wsRequest is one analysis request over the socket. A plain text frame is
// also accepted and treated as a raw multiline batch.
type wsRequest struct {
	Logs    json.RawMessage `json:"logs"`
	Context string          `json:"context"`
}

// handleWebSocket upgrades to WebSocket and answers each incoming batch
// with a verdict, until the client goes away.
func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("websocket read failed", "error", err)
			}
			return
		}

		var req wsRequest
		var v any
		hint := ""
		if err := json.Unmarshal(payload, &req); err == nil && len(req.Logs) > 0 {
			if err := json.Unmarshal(req.Logs, &v); err != nil {
				v = string(req.Logs)
			}
			hint = req.Context
		} else {
			v = string(payload)
		}

		lines := ingest.CleanLines(v)
		kept, _ := ingest.Truncate(lines, s.maxLines)
		result := s.analyze(c.Request.Context(), kept, hint)

		if err := conn.WriteJSON(result); err != nil {
			slog.Warn("websocket write failed", "error", err)
			return
		}
	}
}
