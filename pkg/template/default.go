package template

import (
	"fmt"

	"github.com/kylerisse/pnpgraph/pkg/graph"
)

// Default draws each series on its own chart. It is used for commands
// without a registered template.
var Default Template = Func{
	TemplateName: "default",
	BuildFunc:    buildDefault,
}

func buildDefault(req Request) []graph.Group {
	groups := make([]graph.Group, 0, len(req.Series))

	var colors graph.Cursor
	for i, s := range req.Series {
		g := graph.Group{
			ID:            i + 1,
			Name:          s.Label,
			Kind:          "series",
			Title:         fmt.Sprintf("%s / %s", req.Host, req.Service),
			VerticalLabel: s.Unit,
			Series: []graph.Series{{
				Var:    fmt.Sprintf("var%d", i+1),
				Source: s,
				Label:  graph.Cut(s.Label, 18),
				Color:  colors.Next(),
				Style:  graph.StyleLine,
				Stats:  graph.SummaryStats,
				Format: fmt.Sprintf("%%3.4lf %s", s.Unit),
			}},
		}
		if isPercent(s.Unit) {
			g.VerticalLabel = "%"
			g.Lower = graph.Float(0)
			g.Upper = graph.Float(100)
		}
		groups = append(groups, g)
	}

	return groups
}

func isPercent(unit string) bool {
	return unit == "%" || unit == "%%"
}
