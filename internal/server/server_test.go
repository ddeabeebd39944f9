package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cisohq/reasond/internal/auth"
	"github.com/cisohq/reasond/internal/reason"
	"github.com/cisohq/reasond/internal/retrieval"
)

func newTestServer(cfg Config) *Server {
	engine := reason.NewEngine(retrieval.NewRetriever(nil, nil), nil, 0)
	return New(cfg, engine, auth.NewVerifier("secret"))
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(Config{Port: 0})

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]bool
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !body["ok"] {
		t.Errorf("expected ok=true, got %s", w.Body.String())
	}
}

func TestCORSHeaders(t *testing.T) {
	srv := newTestServer(Config{Port: 0, AllowAll: true})

	req := httptest.NewRequest("OPTIONS", "/healthz", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS Allow-Origin header")
	}
}

func TestReasonRouteMounted(t *testing.T) {
	srv := newTestServer(Config{Port: 0})

	req := httptest.NewRequest("POST", "/reason", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	// Unsigned request: the route exists and the signature gate answers.
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 from unsigned request, got %d", w.Code)
	}
}
