package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/kylerisse/pnpgraph/pkg/graph"
	"github.com/kylerisse/pnpgraph/pkg/perfdata"
	"github.com/kylerisse/pnpgraph/pkg/rrd"
	"github.com/kylerisse/pnpgraph/pkg/template"
)

// TemplateAPIResponse describes one registered check command.
type TemplateAPIResponse struct {
	Command  string `json:"command"`
	Template string `json:"template"`
}

// GraphAPIResponse is one chart and the rrdtool arguments that draw it.
type GraphAPIResponse struct {
	graph.Group
	Args []string `json:"rrdtool_args"`
}

// GraphsAPIResponse is the reply of /api/graphs.
type GraphsAPIResponse struct {
	Host     string             `json:"host"`
	Service  string             `json:"service"`
	Template string             `json:"template"`
	Period   string             `json:"period"`
	Graphs   []GraphAPIResponse `json:"graphs"`
}

// graphQuery is a parsed /api/graphs or /api/render query.
type graphQuery struct {
	host     string
	service  string
	template template.Template
	request  template.Request
	window   rrd.Window
}

// handleTemplates lists the registered check commands and their templates.
func (s *Server) handleTemplates(w http.ResponseWriter, _ *http.Request) {
	names := s.registry.Names()
	resp := make([]TemplateAPIResponse, 0, len(names))
	for _, name := range names {
		resp = append(resp, TemplateAPIResponse{
			Command:  name,
			Template: s.registry.Resolve(name).Name(),
		})
	}
	writeJSON(w, resp)
}

// handleGraphs returns the charts for one check result.
func (s *Server) handleGraphs(w http.ResponseWriter, r *http.Request) {
	q, err := s.parseGraphQuery(r)
	if err != nil {
		s.logger.Debugf("API Handler: bad graphs request %q: %v", r.URL.RawQuery, err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	groups := s.build(q)

	resp := GraphsAPIResponse{
		Host:     q.host,
		Service:  q.service,
		Template: q.template.Name(),
		Period:   q.window.TimeLength,
		Graphs:   make([]GraphAPIResponse, 0, len(groups)),
	}
	for _, g := range groups {
		resp.Graphs = append(resp.Graphs, GraphAPIResponse{
			Group: g,
			Args:  s.renderer.Args(g, q.window),
		})
	}
	writeJSON(w, resp)
}

// handleRender draws one chart of a check result and returns it as PNG.
// The chart is selected by its 0-based position in the template output.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	q, err := s.parseGraphQuery(r)
	if err != nil {
		s.logger.Debugf("API Handler: bad render request %q: %v", r.URL.RawQuery, err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	index, err := strconv.Atoi(r.URL.Query().Get("group"))
	if err != nil || index < 0 {
		http.Error(w, "group must be a non-negative integer", http.StatusBadRequest)
		return
	}

	groups := s.build(q)
	if index >= len(groups) {
		http.Error(w, fmt.Sprintf("group %d not found, %d graph(s) available", index, len(groups)), http.StatusNotFound)
		return
	}

	path := filepath.Join(
		s.cfg.GraphDir, "imgs",
		perfdata.SanitizeName(q.host),
		fmt.Sprintf("%s_%d_%s.png", perfdata.SanitizeName(q.service), index, q.window.TimeLength),
	)

	png, err := s.draw(r, groups[index], q.window, path)
	if err != nil {
		s.stats.renderFailed()
		s.logger.Errorf("API Handler: failed to draw %s: %v", path, err)
		http.Error(w, "Failed to draw graph", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

// draw runs rrdtool and reads the result back. Draws are serialized so
// that concurrent requests for the same chart do not overwrite each
// other's output.
func (s *Server) draw(r *http.Request, g graph.Group, window rrd.Window, path string) ([]byte, error) {
	s.drawMu.Lock()
	defer s.drawMu.Unlock()

	if err := s.renderer.Draw(r.Context(), g, window, path); err != nil {
		return nil, err
	}
	png, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read graph %s: %w", path, err)
	}
	return png, nil
}

// build runs the template and records what it produced.
func (s *Server) build(q graphQuery) []graph.Group {
	groups := q.template.Build(q.request)
	s.stats.record(q.template.Name(), groups)
	s.logger.Debugf("Template %s built %d graph(s) for %s / %s.", q.template.Name(), len(groups), q.host, q.service)
	return groups
}

func (s *Server) parseGraphQuery(r *http.Request) (graphQuery, error) {
	values := r.URL.Query()

	host := values.Get("host")
	service := values.Get("service")
	if host == "" || service == "" {
		return graphQuery{}, fmt.Errorf("host and service are required")
	}

	period := values.Get("period")
	if period == "" {
		period = rrd.DefaultTimeLength
	}
	if _, ok := rrd.Windows[period]; !ok {
		return graphQuery{}, fmt.Errorf("unsupported period %q", period)
	}

	data, err := perfdata.Parse(values.Get("perfdata"))
	if err != nil {
		return graphQuery{}, err
	}

	command := values.Get("command")
	return graphQuery{
		host:     host,
		service:  service,
		template: s.registry.Resolve(command),
		request: template.Request{
			Host:    s.resolver.DisplayName(r.Context(), host),
			Service: service,
			Command: command,
			Series:  perfdata.Attach(s.cfg.RRDDir, host, service, data),
		},
		window: rrd.Window{TimeLength: period},
	}, nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
