package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var errStreamingUnsupported = errors.New("response writer does not support streaming")

// sseWriter emits newline-delimited data frames and flushes after each one.
type sseWriter struct {
	w http.ResponseWriter
	f http.Flusher
}

func newSSEWriter(w http.ResponseWriter) (*sseWriter, error) {
	f, ok := w.(http.Flusher)
	if !ok {
		return nil, errStreamingUnsupported
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable Nginx buffering

	return &sseWriter{w: w, f: f}, nil
}

// Event writes one value as a data frame and flushes.
func (s *sseWriter) Event(v interface{}) {
	payload, err := json.Marshal(v)
	if err != nil {
		return
	}
	fmt.Fprintf(s.w, "data: %s\n\n", payload)
	s.f.Flush()
}

func (s *sseWriter) Delta(text string) {
	s.Event(map[string]string{"delta": text})
}

func (s *sseWriter) Error(message string) {
	s.Event(map[string]interface{}{"error": message})
}

func (s *sseWriter) Done(sessionID string) {
	s.Event(map[string]interface{}{"done": true, "session_id": sessionID})
}
