package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jonathan/lifeofword/internal/reader"
	"github.com/jonathan/lifeofword/internal/types"
)

// SSEWriter writes the reading stream as Server-Sent Events:
// one "plan", a "segment" per assembled segment, then "complete" or "error".
type SSEWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewSSEWriter prepares w for streaming. It fails if w cannot flush.
func NewSSEWriter(w http.ResponseWriter) (*SSEWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	return &SSEWriter{w: w, flusher: flusher}, nil
}

// WriteEvent sends one named event with a JSON payload.
func (s *SSEWriter) WriteEvent(event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// WritePlan sends the plan the stream will follow.
func (s *SSEWriter) WritePlan(p *types.ReadingPlan) error {
	return s.WriteEvent("plan", p)
}

// WriteSegment sends one assembled segment.
func (s *SSEWriter) WriteSegment(event reader.ProgressEvent) error {
	return s.WriteEvent("segment", event)
}

// WriteError sends a terminal error event.
func (s *SSEWriter) WriteError(message string) {
	_ = s.WriteEvent("error", map[string]string{"error": message})
}

// WriteComplete sends the terminal success event.
func (s *SSEWriter) WriteComplete(reference string, segments int) {
	_ = s.WriteEvent("complete", map[string]any{
		"reference": reference,
		"segments":  segments,
	})
}
