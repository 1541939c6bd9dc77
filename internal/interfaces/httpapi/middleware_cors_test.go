package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("allowed origin is echoed", func(t *testing.T) {
		handler := CORS([]string{"https://dashboard.example"}, next)

		req := httptest.NewRequest(http.MethodGet, "/v1/competitions", nil)
		req.Header.Set("Origin", "https://dashboard.example")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://dashboard.example" {
			t.Fatalf("allow origin = %q", got)
		}
	})

	t.Run("unknown origin gets no headers", func(t *testing.T) {
		handler := CORS([]string{"https://dashboard.example"}, next)

		req := httptest.NewRequest(http.MethodGet, "/v1/competitions", nil)
		req.Header.Set("Origin", "https://evil.example")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Fatalf("unexpected allow origin: %q", got)
		}
	})

	t.Run("wildcard allows everyone", func(t *testing.T) {
		handler := CORS([]string{"*"}, next)

		req := httptest.NewRequest(http.MethodGet, "/v1/groups", nil)
		req.Header.Set("Origin", "https://anywhere.example")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Fatalf("allow origin = %q", got)
		}
	})

	t.Run("preflight short-circuits", func(t *testing.T) {
		handler := CORS([]string{"*"}, next)

		req := httptest.NewRequest(http.MethodOptions, "/v1/groups", nil)
		req.Header.Set("Origin", "https://anywhere.example")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("preflight status = %d", rec.Code)
		}
	})
}
