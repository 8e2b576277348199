package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Stream event names
const (
	eventProgress = "progress"
	eventResult   = "result"
	eventError    = "error"
	eventComplete = "complete"
)

// eventStream writes an evaluation as Server-Sent Events. Every event
// carries an increasing id so clients can tell where a stream broke off.
type eventStream struct {
	w       http.ResponseWriter
	flusher http.Flusher
	seq     int
}

func newEventStream(w http.ResponseWriter) (*eventStream, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, errors.New("response writer does not support streaming")
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	return &eventStream{w: w, flusher: flusher}, nil
}

// send writes one event with a JSON payload and flushes it
func (s *eventStream) send(event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", event, err)
	}
	s.seq++
	if _, err := fmt.Fprintf(s.w, "id: %d\nevent: %s\ndata: %s\n\n", s.seq, event, data); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// fail ends the stream with an error event
func (s *eventStream) fail(err error) error {
	return s.send(eventError, map[string]string{"error": err.Error()})
}

// complete ends a successful stream
func (s *eventStream) complete(documentID string, score int) error {
	return s.send(eventComplete, completeEvent{DocumentID: documentID, Score: score})
}

type completeEvent struct {
	DocumentID string `json:"document_id"`
	Score      int    `json:"score"`
}
