package server

import (
	"net/http"

	"golang.org/x/time/rate"
)

// handler registers all HTTP routes behind the shared middleware stack.
func (s *Server) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/templates", func(w http.ResponseWriter, r *http.Request) {
		s.handleTemplates(w, r)
	})

	mux.HandleFunc("/api/graphs", func(w http.ResponseWriter, r *http.Request) {
		s.handleGraphs(w, r)
	})

	mux.HandleFunc("/api/render", func(w http.ResponseWriter, r *http.Request) {
		s.handleRender(w, r)
	})

	mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		s.handlePrometheus(w, r)
	})

	rl := newRateLimitMiddleware(rate.NewLimiter(rate.Limit(s.cfg.RateLimit.RPS), s.cfg.RateLimit.Burst))

	return requireGET(rl(noCacheMiddleware(securityHeadersMiddleware(mux))))
}
