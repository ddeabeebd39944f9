package reason

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cisohq/reasond/internal/auth"
	"github.com/cisohq/reasond/internal/llm"
)

// RegisterRoutes mounts the reasoning endpoints on the given router.
func RegisterRoutes(r chi.Router, engine *Engine, verifier *auth.Verifier) {
	r.Post("/reason", handleReason(engine, verifier))
	r.Get("/reason/stream", handleStream)

	// Liveness probes kept for the platform's gateway health checks.
	r.Get("/api/messages", handleProbe)
	r.Get("/api/calls", handleProbe)
}

func handleReason(engine *Engine, verifier *auth.Verifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "failed to read body", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		// The signature check runs over the raw bytes, before any parsing.
		if err := verifier.Verify(body, r.Header.Get(auth.SignatureHeader)); err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		var req Request
		if err := json.Unmarshal(body, &req); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}

		resp, err := engine.Respond(r.Context(), req)
		if err != nil {
			var upstream *llm.UpstreamError
			if errors.As(err, &upstream) {
				http.Error(w, "completion service unavailable", http.StatusBadGateway)
				return
			}
			http.Error(w, "processing error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func handleProbe(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
