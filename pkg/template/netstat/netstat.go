// Package netstat implements the graph template for stat_net, which
// reports a pair of byte counters per network device: <dev>_in and
// <dev>_out. Each pair becomes one chart with reference lines at common
// link speeds.
package netstat

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kylerisse/pnpgraph/pkg/graph"
	"github.com/kylerisse/pnpgraph/pkg/perfdata"
	"github.com/kylerisse/pnpgraph/pkg/template"
)

// Template is the netstat template for the registry.
var Template template.Template = template.Func{
	TemplateName: "netstat",
	BuildFunc:    Build,
}

// perDevice is the number of series reported for each device.
const perDevice = 2

// bytesPerMbit converts a link speed in Mbit/s to bytes per second.
const bytesPerMbit = 131072

var inName = regexp.MustCompile(`^(.*)_in$`)

type direction struct {
	style graph.Style
	color string
}

var directions = map[string]direction{
	"in":  {graph.StyleArea, graph.NormalizeColor("#0c0")},
	"out": {graph.StyleLine, graph.NormalizeColor("#029")},
}

var speeds = []graph.Rule{
	{Value: 10 * bytesPerMbit, Color: graph.NormalizeColor("#333"), Legend: "10MBit/s"},
	{Value: 100 * bytesPerMbit, Color: graph.NormalizeColor("#773"), Legend: "100MBit/s"},
	{Value: 1024 * bytesPerMbit, Color: graph.NormalizeColor("#484"), Legend: "1GBit/s"},
	{Value: 10240 * bytesPerMbit, Color: graph.NormalizeColor("#844"), Legend: "10GBit/s"},
}

// Build returns one chart per device. The device name is taken from the
// first series of each pair; link speed rules are only added to complete
// pairs.
func Build(req template.Request) []graph.Group {
	var groups []graph.Group
	var dev string
	var fallback graph.Cursor

	for k, s := range req.Series {
		name := s.Name
		if name == "" {
			name = perfdata.SanitizeName(s.Label)
		}

		if k%perDevice == 0 {
			dev = name
			if m := inName.FindStringSubmatch(name); m != nil {
				dev = m[1]
			}
			groups = append(groups, graph.Group{
				ID:            k/perDevice + 1,
				Name:          dev,
				Kind:          "traffic",
				Title:         fmt.Sprintf("%s / %s - %s", req.Host, req.Service, dev),
				VerticalLabel: "Bytes",
				Lower:         graph.Float(0),
			})
		}
		g := &groups[len(groups)-1]

		sub, ok := strings.CutPrefix(name, dev+"_")
		if !ok {
			sub = name
		}

		d, known := directions[sub]
		if !known {
			d = direction{style: graph.StyleLine, color: fallback.Next()}
		}

		g.Series = append(g.Series, graph.Series{
			Var:    fmt.Sprintf("v%d", k),
			Source: s,
			Label:  fmt.Sprintf("%-20s", dev+" "+sub),
			Color:  d.color,
			Style:  d.style,
			Prints: []graph.Print{
				{CF: graph.CFMax, Format: "MAX: %4.3lg%sB"},
				{CF: graph.CFMin, Format: "MIN: %4.3lg%sB"},
				{CF: graph.CFAverage, Format: "AVG: %4.3lg%sB"},
				{CF: graph.CFLast, Format: "LAST: %4.3lg%sB"},
			},
			Break: true,
		})

		if k%perDevice == perDevice-1 {
			g.Rules = append(g.Rules, speeds...)
			g.Footer = append(g.Footer, "\n")
		}
	}

	return groups
}
