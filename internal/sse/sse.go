// Package sse writes and reads the chat stream as server-sent events.
package sse

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/xiaot623/gogo/guruchat/internal/domain"
)

// ErrStreamingUnsupported is returned when the response writer cannot flush.
var ErrStreamingUnsupported = errors.New("streaming not supported")

// maxLineSize bounds a single data line when reading a stream.
const maxLineSize = 1 << 20

// SetHeaders sets the response headers of an event stream.
func SetHeaders(h http.Header) {
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
}

// Encoder writes one `data: <json>` frame per event and flushes it.
type Encoder struct {
	w       io.Writer
	flusher http.Flusher
}

// NewEncoder returns an Encoder over w. w must implement http.Flusher.
func NewEncoder(w http.ResponseWriter) (*Encoder, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, ErrStreamingUnsupported
	}
	return &Encoder{w: w, flusher: flusher}, nil
}

// Encode writes event as a single-line JSON frame and flushes it.
func (e *Encoder) Encode(event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if _, err := fmt.Fprintf(e.w, "data: %s\n\n", data); err != nil {
		return err
	}
	e.flusher.Flush()
	return nil
}

// Event is one parsed server-sent event.
type Event struct {
	Event string
	Data  string
}

// Read parses an SSE stream and calls handler for each event.
func Read(reader io.Reader, handler func(Event) error) error {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	var event Event

	for scanner.Scan() {
		line := scanner.Text()

		// Empty line marks end of event
		if line == "" {
			if event.Event != "" || event.Data != "" {
				if err := handler(event); err != nil {
					return err
				}
				event = Event{}
			}
			continue
		}

		if strings.HasPrefix(line, "event:") {
			event.Event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		} else if strings.HasPrefix(line, "data:") {
			data := strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " ")
			if event.Data != "" {
				event.Data += "\n" + data
			} else {
				event.Data = data
			}
		}
		// Ignore comments (lines starting with :) and other fields
	}

	if event.Event != "" || event.Data != "" {
		if err := handler(event); err != nil {
			return err
		}
	}

	return scanner.Err()
}

// Decode parses the data of a chat stream frame.
func Decode(data string) (domain.StreamEvent, error) {
	var event domain.StreamEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return event, fmt.Errorf("failed to parse stream event: %w", err)
	}
	return event, nil
}
