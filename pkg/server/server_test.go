package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/kylerisse/pnpgraph/pkg/config"
	"github.com/kylerisse/pnpgraph/pkg/template/builtin"
	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// newTestServer returns a Server with the built-in templates, a generous
// rate limit and an rrdtool binary that does not exist.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := config.Default()
	cfg.RRDDir = "/var/lib/pnp4nagios/perfdata"
	cfg.GraphDir = t.TempDir()
	cfg.RRDTool = filepath.Join(t.TempDir(), "no-rrdtool")
	cfg.RateLimit = config.RateLimit{RPS: 200, Burst: 500}

	s, err := New(cfg, builtin.NewRegistry(), quietLogger())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return s
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("GET", target, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestNew_InvalidRenderer(t *testing.T) {
	cfg := config.Default()
	cfg.RRDTool = ""
	if _, err := New(cfg, builtin.NewRegistry(), quietLogger()); err == nil {
		t.Error("expected error for empty rrdtool binary")
	}
}

func TestStop_NotStarted(t *testing.T) {
	s := newTestServer(t)
	s.Stop()
}

func TestRequireGET(t *testing.T) {
	h := newTestServer(t).handler()

	for _, method := range []string{"POST", "PUT", "DELETE"} {
		req := httptest.NewRequest(method, "/api/templates", nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s: expected 405, got %d", method, w.Code)
		}
		if allow := w.Header().Get("Allow"); allow != "GET, HEAD" {
			t.Errorf("%s: unexpected Allow header %q", method, allow)
		}
	}
}

func TestMiddleware_Headers(t *testing.T) {
	w := get(t, newTestServer(t).handler(), "/api/templates")

	headers := map[string]string{
		"Cache-Control":          "no-cache, no-store, must-revalidate",
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
	}
	for name, want := range headers {
		if got := w.Header().Get(name); got != want {
			t.Errorf("%s = %q, want %q", name, got, want)
		}
	}
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t)
	s.cfg.RateLimit = config.RateLimit{RPS: 0.001, Burst: 1}
	h := s.handler()

	if w := get(t, h, "/api/templates"); w.Code != http.StatusOK {
		t.Fatalf("first request: expected 200, got %d", w.Code)
	}
	w := get(t, h, "/api/templates")
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("second request: expected 429, got %d", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}
}

func TestUnknownRoute(t *testing.T) {
	if w := get(t, newTestServer(t).handler(), "/api/hosts"); w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}
