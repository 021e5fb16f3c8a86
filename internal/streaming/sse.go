package streaming

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Event is a single SSE payload. Type is one of start, token, end, error.
type Event struct {
	Type      string `json:"type"`
	MessageID string `json:"messageId,omitempty"`
	Content   string `json:"content,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Responder chunks canned text into SSE events. It is a placeholder for a
// real inference pipeline: the reply is an echo, not generated.
type Responder struct {
	chunkWords int
	delay      time.Duration
}

// NewResponder builds a responder with the given words-per-chunk and delay
// between chunks.
func NewResponder(chunkWords int, delay time.Duration) *Responder {
	if chunkWords <= 0 {
		chunkWords = 3
	}
	return &Responder{chunkWords: chunkWords, delay: delay}
}

// Reply produces the canned assistant response for a user message.
func (r *Responder) Reply(userMessage string) string {
	return fmt.Sprintf(
		"You said: %s. This is a placeholder response; the assistant is not connected to a language model yet.",
		userMessage,
	)
}

// Stream writes the content as a start event, word chunks and an end event.
// Each event is flushed before the configured delay so clients see tokens
// arrive incrementally.
func (r *Responder) Stream(w *bufio.Writer, messageID, content string) error {
	if err := writeEvent(w, Event{Type: "start", MessageID: messageID}); err != nil {
		return err
	}

	words := strings.Fields(content)
	for i := 0; i < len(words); i += r.chunkWords {
		end := i + r.chunkWords
		if end > len(words) {
			end = len(words)
		}
		chunk := strings.Join(words[i:end], " ")
		if end < len(words) {
			chunk += " "
		}
		if err := writeEvent(w, Event{Type: "token", Content: chunk}); err != nil {
			return err
		}
		if r.delay > 0 && end < len(words) {
			time.Sleep(r.delay)
		}
	}

	return writeEvent(w, Event{Type: "end", MessageID: messageID})
}

// StreamError writes a terminal error event.
func (r *Responder) StreamError(w *bufio.Writer, message string) error {
	return writeEvent(w, Event{Type: "error", Error: message})
}

func writeEvent(w *bufio.Writer, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
		return err
	}
	return w.Flush()
}
