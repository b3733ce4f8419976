package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/udisondev/tilepath/internal/geo"
	"github.com/udisondev/tilepath/internal/router"
)

const (
	writeWait   = 5 * time.Second
	requestWait = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(_ *http.Request) bool { return true },
}

// Stream message types.
const (
	msgProgress = "progress"
	msgResult   = "result"
	msgError    = "error"
)

type streamMessage struct {
	Type     string        `json:"type"`
	Path     []geo.Point   `json:"path,omitempty"`
	Expanded int           `json:"expanded,omitempty"`
	Result   *pathResponse `json:"result,omitempty"`
	Error    string        `json:"error,omitempty"`
}

// handleStream reads one request, then pushes the best known path every
// interval until the search ends with a result message.
func (s *Server) handleStream(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	send := func(msg streamMessage) error {
		if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			return err
		}
		return conn.WriteJSON(msg)
	}

	var req router.Request
	if err := conn.SetReadDeadline(time.Now().Add(requestWait)); err != nil {
		return
	}
	if err := conn.ReadJSON(&req); err != nil {
		_ = send(streamMessage{Type: msgError, Error: "invalid request: " + err.Error()})
		return
	}

	search, err := s.router.Start(c.Request.Context(), req)
	if err != nil {
		_ = send(streamMessage{Type: msgError, Error: err.Error()})
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-search.Done():
			res := newPathResponse(search.Result())
			if err := send(streamMessage{Type: msgResult, Result: &res}); err != nil {
				return
			}
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		case <-ticker.C:
			msg := streamMessage{Type: msgProgress, Path: search.Path(), Expanded: search.Stats().Expanded}
			if err := send(msg); err != nil {
				// The search keeps its worker until it finishes.
				slog.Debug("stream client gone", "error", err)
				return
			}
		}
	}
}
