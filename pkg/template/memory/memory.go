// Package memory implements the graph template for check_memory: memory
// utilisation in percent, the used/buffer/cached/ARC breakdown in MB and
// swap usage.
package memory

import (
	"fmt"

	"github.com/kylerisse/pnpgraph/pkg/graph"
	"github.com/kylerisse/pnpgraph/pkg/template"
)

// Template is the memory template for the registry.
var Template template.Template = template.Func{
	TemplateName: "memory",
	BuildFunc:    Build,
}

const header = "\t\tLAST\t\t\tAVERAGE\t\t\tMAX\n"

type band struct {
	name   string
	slot   int
	color  string
	legend string
}

type chart struct {
	name   string
	kind   string
	title  string // format taking host and service
	vlabel string
	upper  *float64
	unit   string
	bands  []band
}

var charts = []chart{
	{
		name:   "Memory Utilisation",
		kind:   "utilisation",
		title:  "Memory Usage for %s / %s",
		vlabel: "Memory %",
		upper:  graph.Float(100),
		unit:   "%%",
		bands:  []band{{"utilisation", 1, "E80C3E", "utilisation"}},
	},
	{
		name:   "Memory Usage",
		kind:   "usage",
		title:  "Memory Usage for %s / %s",
		vlabel: "Memory",
		unit:   "MB",
		bands: []band{
			{"used", 2, "E80C3E", "used"},
			{"buffer", 3, "fcaf3e", "buffer"},
			{"cached", 4, "729fcf", "cached"},
			{"arc-cache", 5, "204a87", "arccache"},
		},
	},
	{
		name:   "Swap Usage",
		kind:   "swap",
		title:  "Swap Usage for %s / %s",
		vlabel: "Swap",
		unit:   "MB",
		bands:  []band{{"swap", 6, "1CC8E8", "swap"}},
	},
}

// Build returns up to three charts. A chart whose series are all missing
// from the request is left out, and IDs stay fixed per chart.
func Build(req template.Request) []graph.Group {
	var groups []graph.Group

	for i, c := range charts {
		g := graph.Group{
			ID:            i + 1,
			Name:          c.name,
			Kind:          c.kind,
			Title:         fmt.Sprintf(c.title, req.Host, req.Service),
			VerticalLabel: c.vlabel,
			Lower:         graph.Float(0),
			Upper:         c.upper,
			Rigid:         true,
			Header:        []string{header},
		}

		for _, b := range c.bands {
			s, ok := req.Slot(b.slot)
			if !ok {
				continue
			}
			g.Series = append(g.Series, graph.Series{
				Var:    b.name,
				Source: s,
				Label:  b.legend,
				Color:  b.color,
				Style:  graph.StyleAreaStacked,
				Prints: []graph.Print{
					{CF: graph.CFLast, Format: "%6.2lf " + c.unit + "\t\t"},
					{CF: graph.CFAverage, Format: "%6.2lf " + c.unit + "\t\t"},
					{CF: graph.CFMax, Format: "%6.2lf " + c.unit + "\n"},
				},
			})
		}

		if len(g.Series) > 0 {
			groups = append(groups, g)
		}
	}

	return groups
}
