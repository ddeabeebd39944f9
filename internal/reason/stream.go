package reason

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// streamDeltas is the canned payload of the SSE demonstration endpoint.
// The endpoint exists to exercise gateway streaming end to end; it is not
// wired to the reasoning pipeline and ignores its id parameter beyond
// requiring it.
var streamDeltas = []string{"Thinking ", "through ", "your ", "request..."}

// streamInterval paces the demo frames.
const streamInterval = 50 * time.Millisecond

func handleStream(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("id") == "" {
		http.Error(w, "missing id", http.StatusBadRequest)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	for _, delta := range streamDeltas {
		frame, _ := json.Marshal(map[string]string{"delta": delta})
		fmt.Fprintf(w, "data: %s\n\n", frame)
		flusher.Flush()

		select {
		case <-r.Context().Done():
			return
		case <-time.After(streamInterval):
		}
	}

	fmt.Fprint(w, "data: [DONE]\n\n")
	flusher.Flush()
}
