package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/jonathan/lifeofword/internal/reader"
)

const wsWriteTimeout = 10 * time.Second

// The reading API is public and CORS-open, so any origin may connect.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// WSMessage is one frame of the websocket reading stream.
type WSMessage struct {
	Type    string                `json:"type"` // "plan", "segment", "complete", "error"
	Plan    any                   `json:"plan,omitempty"`
	Segment *reader.ProgressEvent `json:"segment,omitempty"`
	Total   int                   `json:"total,omitempty"`
	Error   string                `json:"error,omitempty"`
}

// handleReadWS streams a reading over a websocket. Segments are fetched
// concurrently and sent as they complete; each carries its plan index.
func (s *Server) handleReadWS(w http.ResponseWriter, r *http.Request) {
	req, err := parseReadingRequest(r, false)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	p, assembler, err := s.buildPlan(r.Context(), req.Reference)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied.
		s.logger.Warn("websocket upgrade failed", "error", err, "request_id", RequestID(r.Context()))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	// A closed or failing client cancels the remaining fetches.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	if err := writeWS(conn, WSMessage{Type: "plan", Plan: p}); err != nil {
		return
	}

	var writeErr error
	_, err = assembler.ReadAll(ctx, p, reader.ReadOptions{
		Concurrency: s.concurrency,
		OnProgress: func(event reader.ProgressEvent) {
			if writeErr != nil {
				return
			}
			if writeErr = writeWS(conn, WSMessage{Type: "segment", Segment: &event}); writeErr != nil {
				cancel()
			}
		},
	})
	switch {
	case writeErr != nil:
		s.logger.Warn("error writing websocket message", "error", writeErr)
		return
	case err != nil:
		if !errors.Is(err, context.Canceled) {
			_ = writeWS(conn, WSMessage{Type: "error", Error: err.Error()})
		}
		return
	}

	_ = writeWS(conn, WSMessage{Type: "complete", Total: len(p.Segments)})
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(wsWriteTimeout))
}

func writeWS(conn *websocket.Conn, msg WSMessage) error {
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return conn.WriteJSON(msg)
}
