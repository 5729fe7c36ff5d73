package httpkit

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func corsHandler(opt CORSOptions) http.Handler {
	return CORS(opt)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}))
}

func TestCORSEchoesOrigin(t *testing.T) {
	h := corsHandler(CORSOptions{AllowedOrigins: []string{"*"}})

	req := httptest.NewRequest("POST", "/render/start", nil)
	req.Header.Set("Origin", "http://club.example")
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://club.example" {
		t.Errorf("expected origin to be echoed, got %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); got != "GET, POST, OPTIONS" {
		t.Errorf("unexpected allowed methods: %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Headers"); got != "Content-Type" {
		t.Errorf("unexpected allowed headers: %q", got)
	}
}

func TestCORSWildcardWithoutOrigin(t *testing.T) {
	h := corsHandler(CORSOptions{AllowedOrigins: []string{"*"}})

	req := httptest.NewRequest("GET", "/render/status", nil)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("expected wildcard origin, got %q", got)
	}
}

func TestCORSPreflight(t *testing.T) {
	h := corsHandler(CORSOptions{AllowedOrigins: []string{"*"}})

	req := httptest.NewRequest("OPTIONS", "/render/start", nil)
	req.Header.Set("Origin", "http://club.example")
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("preflight should return 200, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("preflight body should be empty, got %q", rec.Body.String())
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://club.example" {
		t.Errorf("expected origin echoed on preflight, got %q", got)
	}
}

func TestCORSExplicitOriginList(t *testing.T) {
	h := corsHandler(CORSOptions{AllowedOrigins: []string{"http://allowed.example"}})

	req := httptest.NewRequest("POST", "/render/start", nil)
	req.Header.Set("Origin", "http://other.example")
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("disallowed origin should get no CORS headers, got %q", got)
	}
}
