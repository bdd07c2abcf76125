// Package template defines graph templates and the registry that selects
// one for a check command.
//
// A Template maps the performance data series of one check result to a
// set of chart descriptions. Different check commands (sensors, cpu,
// memory, network counters) register their own Template; commands without
// one fall back to the Default template, which draws every series on its
// own chart.
package template

import (
	"github.com/kylerisse/pnpgraph/pkg/graph"
	"github.com/kylerisse/pnpgraph/pkg/perfdata"
)

// Template is the interface that all graph templates must implement.
type Template interface {
	// Name returns the registered name of this template (e.g. "sensors").
	Name() string

	// Build returns the charts for one check result. Build must not fail:
	// series a template does not recognise are either skipped or drawn
	// with fallback settings.
	Build(req Request) []graph.Group
}

// Request carries the input of one Build call.
type Request struct {
	// Host and Service are used verbatim in chart titles.
	Host    string
	Service string

	// Command is the check command that produced the data
	// (e.g. "check_sensors!-H!10.0.0.1").
	Command string

	// Series are the performance data series in plugin output order.
	Series []perfdata.Series
}

// Func adapts a function to the Template interface.
type Func struct {
	TemplateName string
	BuildFunc    func(req Request) []graph.Group
}

// Name returns the template name.
func (f Func) Name() string { return f.TemplateName }

// Build calls BuildFunc.
func (f Func) Build(req Request) []graph.Group { return f.BuildFunc(req) }

// Slot returns the series at 1-based position n.
func (r Request) Slot(n int) (perfdata.Series, bool) {
	if n < 1 || n > len(r.Series) {
		return perfdata.Series{}, false
	}
	return r.Series[n-1], true
}
