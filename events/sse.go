package events

import (
	"fmt"
	"net/http"
)

// SSEEvent is one Server-Sent Events frame. Browser views open the stream
// endpoint and re-pull their data whenever a frame arrives.
type SSEEvent struct {
	Name string // the "event:" field; the bus topic
	Data string // the "data:" field
}

// Format renders the frame in text/event-stream wire format.
func (e SSEEvent) Format() string {
	if e.Name == "" {
		return fmt.Sprintf("data: %s\n\n", e.Data)
	}
	return fmt.Sprintf("event: %s\ndata: %s\n\n", e.Name, e.Data)
}

// StreamHandler returns an HTTP handler that subscribes to the bus and
// streams every event to the client until it disconnects. The
// subscription is torn down when the request context ends, so abandoned
// streams do not accumulate.
func StreamHandler(bus *Bus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")

		id, ch := bus.Subscribe()
		defer bus.Unsubscribe(id)

		// Tell the client the stream is live before the first event.
		fmt.Fprint(w, SSEEvent{Name: "connected", Data: id}.Format())
		flusher.Flush()

		for {
			select {
			case <-r.Context().Done():
				return
			case event, open := <-ch:
				if !open {
					return
				}
				frame := SSEEvent{Name: event.Topic, Data: event.At.UTC().Format("2006-01-02T15:04:05Z07:00")}
				fmt.Fprint(w, frame.Format())
				flusher.Flush()
			}
		}
	}
}
