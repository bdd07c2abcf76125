package server

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/kylerisse/pnpgraph/pkg/graph"
)

// groupKey identifies a chart kind within a template. Both fields come
// from fixed sets so the number of counters stays bounded.
type groupKey struct {
	template string
	kind     string
}

// requestStats counts template builds and rrdtool failures.
type requestStats struct {
	mu            sync.Mutex
	builds        map[string]uint64
	groups        map[groupKey]uint64
	renderFailure uint64
}

func newRequestStats() *requestStats {
	return &requestStats{
		builds: make(map[string]uint64),
		groups: make(map[groupKey]uint64),
	}
}

func (rs *requestStats) record(templateName string, groups []graph.Group) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	rs.builds[templateName]++
	for _, g := range groups {
		kind := g.Kind
		if kind == "" {
			kind = "unknown"
		}
		rs.groups[groupKey{template: templateName, kind: kind}]++
	}
}

func (rs *requestStats) renderFailed() {
	rs.mu.Lock()
	rs.renderFailure++
	rs.mu.Unlock()
}

// handlePrometheus writes Prometheus-formatted counters of the templates
// built and the charts they produced.
func (s *Server) handlePrometheus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")

	s.stats.mu.Lock()
	defer s.stats.mu.Unlock()

	w.Write([]byte("# HELP pnpgraph_builds_total Template builds by template name.\n"))
	w.Write([]byte("# TYPE pnpgraph_builds_total counter\n"))

	templates := make([]string, 0, len(s.stats.builds))
	for name := range s.stats.builds {
		templates = append(templates, name)
	}
	sort.Strings(templates)
	for _, name := range templates {
		w.Write(fmt.Appendf([]byte{},
			"pnpgraph_builds_total{template=\"%s\"} %d\n",
			sanitizePrometheusLabel(name),
			s.stats.builds[name],
		))
	}

	w.Write([]byte("# HELP pnpgraph_graphs_total Graphs built by template and graph kind.\n"))
	w.Write([]byte("# TYPE pnpgraph_graphs_total counter\n"))

	keys := make([]groupKey, 0, len(s.stats.groups))
	for k := range s.stats.groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].template != keys[j].template {
			return keys[i].template < keys[j].template
		}
		return keys[i].kind < keys[j].kind
	})
	for _, k := range keys {
		w.Write(fmt.Appendf([]byte{},
			"pnpgraph_graphs_total{template=\"%s\", kind=\"%s\"} %d\n",
			sanitizePrometheusLabel(k.template),
			sanitizePrometheusLabel(k.kind),
			s.stats.groups[k],
		))
	}

	w.Write([]byte("# HELP pnpgraph_render_failures_total Failed rrdtool graph runs.\n"))
	w.Write([]byte("# TYPE pnpgraph_render_failures_total counter\n"))
	w.Write(fmt.Appendf([]byte{}, "pnpgraph_render_failures_total %d\n", s.stats.renderFailure))
}

// sanitizePrometheusLabel escapes backslash, double-quote, and newline
// characters in a Prometheus label value as the text exposition format
// requires.
func sanitizePrometheusLabel(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return s
}
