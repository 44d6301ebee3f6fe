package sse

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/edugame/quizroom/internal/api/response"
	"github.com/edugame/quizroom/internal/model"
	"github.com/edugame/quizroom/internal/services/room"
	"github.com/edugame/quizroom/internal/services/watcher"
)

// Time between keepalive pings
const pingPeriod = 30 * time.Second

// Event names on the session stream. Snapshots are only sent when the
// session changed; "ended" and "error" are terminal.
const (
	EventConnected = "connected"
	EventSnapshot  = "snapshot"
	EventEnded     = "ended"
	EventError     = "error"
)

// Stream serves a watcher event channel as a server-sent event stream.
// It blocks until the watch loop terminates or the client disconnects.
func Stream(w http.ResponseWriter, r *http.Request, events <-chan watcher.Event) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	write := func(event string, data []byte) bool {
		if _, err := w.Write(formatEvent(event, data)); err != nil {
			return false
		}
		flusher.Flush()
		return true
	}

	if !write(EventConnected, []byte(`{"status":"connected"}`)) {
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case ev, open := <-events:
			if !open {
				return
			}
			if ev.Err != nil {
				payload, _ := json.Marshal(map[string]string{"message": room.Message(ev.Err)})
				write(EventError, payload)
				return
			}

			payload, err := json.Marshal(response.SnapshotFromWatcher(ev.Snapshot))
			if err != nil {
				return
			}

			name := EventSnapshot
			if ev.Snapshot.Status == model.StatusEnded {
				name = EventEnded
			}
			if !write(name, payload) {
				return
			}
			if name == EventEnded {
				return
			}

		case <-ticker.C:
			if _, err := w.Write([]byte(": keepalive\n\n")); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

// formatEvent formats an SSE message. Data never contains newlines here
// (compact JSON), so a single data line suffices.
func formatEvent(event string, data []byte) []byte {
	msg := make([]byte, 0, len(event)+len(data)+16)
	msg = append(msg, "event: "...)
	msg = append(msg, event...)
	msg = append(msg, "\ndata: "...)
	msg = append(msg, data...)
	msg = append(msg, "\n\n"...)
	return msg
}
