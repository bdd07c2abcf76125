// Package cpu implements the graph template for CPU time breakdowns as
// reported by check_cpu: user, nice, system, iowait, irq, softirq and idle
// percentages, stacked to 100%.
package cpu

import (
	"fmt"

	"github.com/kylerisse/pnpgraph/pkg/graph"
	"github.com/kylerisse/pnpgraph/pkg/template"
)

// Template is the cpu template for the registry.
var Template template.Template = template.Func{
	TemplateName: "cpu",
	BuildFunc:    Build,
}

// header aligns the statistic columns printed under each area.
const header = "\t\tLAST\t\t\tAVERAGE\t\t\tMAX\n"

// area is one stacked band of the chart. slot is the 1-based position of
// the series in the plugin output; the plugin reports softirq before
// iowait and irq, but it is stacked after them.
type area struct {
	name   string
	slot   int
	color  string
	legend string
}

var areas = []area{
	{"used", 1, "E80C3E", "user"},
	{"nice", 2, "E8630C", "nice"},
	{"sys", 3, "008000", "sys"},
	{"iowait", 5, "0CE84D", "iowait"},
	{"irq", 6, "3E00FF", "irq"},
	{"softirq", 4, "1CC8E8", "softirq"},
	{"idle", 7, "EEEEEE", "idle"},
}

// Build returns a single stacked percentage chart. Bands whose series is
// missing from the request are left out.
func Build(req template.Request) []graph.Group {
	g := graph.Group{
		ID:            1,
		Name:          "CPU Usage",
		Kind:          "cpu",
		Title:         fmt.Sprintf("CPU Usage for %s / %s", req.Host, req.Service),
		VerticalLabel: "CPU [%]",
		Lower:         graph.Float(0),
		Upper:         graph.Float(100),
		Rigid:         true,
		Header:        []string{header},
	}

	for _, a := range areas {
		s, ok := req.Slot(a.slot)
		if !ok {
			continue
		}
		g.Series = append(g.Series, graph.Series{
			Var:    a.name,
			Source: s,
			Label:  a.legend,
			Color:  a.color,
			Style:  graph.StyleAreaStacked,
			Prints: []graph.Print{
				{CF: graph.CFLast, Format: "%6.2lf %%\t\t"},
				{CF: graph.CFAverage, Format: "%6.2lf \t\t"},
				{CF: graph.CFMax, Format: "%6.2lf \n"},
			},
		})
	}

	if len(g.Series) == 0 {
		return nil
	}
	return []graph.Group{g}
}
