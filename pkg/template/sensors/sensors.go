// Package sensors implements the hardware sensor graph template.
//
// Sensor plugins (check_openmanage, check_sensors, check_ipmi_sensor) report
// a variable mix of temperatures, power draw, voltages, fan speeds and
// anything else the hardware exposes, with labels that differ per vendor.
// Classify buckets those series into one chart per kind by matching label
// text and units, and gives every unrecognised series a chart of its own.
package sensors

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kylerisse/pnpgraph/pkg/graph"
	"github.com/kylerisse/pnpgraph/pkg/perfdata"
	"github.com/kylerisse/pnpgraph/pkg/template"
)

// DefaultTitle prefixes every chart title when Context.Title is empty.
const DefaultTitle = "Sensors"

// Chart IDs. Other charts are numbered from OtherID upwards, one per series.
const (
	TemperatureID = 1
	PowerID       = 2
	VoltageID     = 3
	FanID         = 4
	OtherID       = 5
)

// Context is the ambient information of one classification.
type Context struct {
	Host    string
	Service string

	// Title prefixes chart titles. Defaults to DefaultTitle.
	Title string
}

// Template is the sensors template for the registry.
var Template template.Template = template.Func{
	TemplateName: "sensors",
	BuildFunc: func(req template.Request) []graph.Group {
		return Classify(Context{Host: req.Host, Service: req.Service}, req.Series)
	},
}

var (
	tempSuffix     = regexp.MustCompile(`^(.*)Temp$`)
	tinSuffix      = regexp.MustCompile(`^(.*)TIN$`)
	powerSuffix    = regexp.MustCompile(`^(.+)Power$`)
	voltPrefixed   = regexp.MustCompile(`^V(\d+)_(.+)`)
	voltProbeShort = regexp.MustCompile(`^V(\d+)$`)
)

// classification is the mutable state of a single Classify call.
type classification struct {
	ctx     Context
	groups  []*graph.Group
	shared  map[Category]*graph.Group
	cursors map[Category]*graph.Cursor
	otherID int
}

// Classify buckets series into charts. Temperature, power, voltage and fan
// series each share one chart; every other series gets its own chart.
// Charts are returned in order of their first series, and series keep
// their input order within a chart. Colors are assigned per category in
// palette order.
func Classify(ctx Context, series []perfdata.Series) []graph.Group {
	if ctx.Title == "" {
		ctx.Title = DefaultTitle
	}

	c := &classification{
		ctx:     ctx,
		shared:  make(map[Category]*graph.Group),
		cursors: make(map[Category]*graph.Cursor),
		otherID: OtherID,
	}

	for i, s := range series {
		c.add(i, s)
	}

	groups := make([]graph.Group, len(c.groups))
	for i, g := range c.groups {
		groups[i] = *g
	}
	return groups
}

func (c *classification) cursor(cat Category) *graph.Cursor {
	cur, ok := c.cursors[cat]
	if !ok {
		cur = &graph.Cursor{}
		c.cursors[cat] = cur
	}
	return cur
}

func (c *classification) add(key int, s perfdata.Series) {
	cat := Categorize(s)

	var g *graph.Group
	if cat == Other {
		g = c.otherGroup(s)
	} else {
		g = c.sharedGroup(cat)
	}

	rs := graph.Series{
		Var:    fmt.Sprintf("var%d", key),
		Source: s,
		Color:  c.cursor(cat).Next(),
		Style:  graph.StyleLine,
		Stats:  graph.SummaryStats,
	}

	switch cat {
	case Temperature:
		symbol, longName := UnitInfo(s.Unit)
		g.VerticalLabel = longName
		rs.Label = TemperatureLabel(s.Label)
		rs.Format = fmt.Sprintf("%%4.1lf %s", symbol)
	case Power:
		rs.Label = PowerLabel(s.Label)
		rs.Format = "%8.2lf A"
	case Voltage:
		rs.Label = VoltageLabel(s.Label)
		rs.Format = "%8.2lf V"
	case Fan:
		rs.Label = graph.Cut(s.Label, 18)
		rs.Format = "%6.0lf RPM"
	default:
		rs.Label = graph.Cut(s.Label, 18)
		rs.Format = fmt.Sprintf("%%3.4lf %s", s.Unit)
	}

	g.Series = append(g.Series, rs)
}

func (c *classification) sharedGroup(cat Category) *graph.Group {
	if g, ok := c.shared[cat]; ok {
		return g
	}

	g := &graph.Group{Kind: cat.String(), SlopeMode: true}
	switch cat {
	case Temperature:
		g.ID = TemperatureID
		g.Name = "Temperatures"
		g.Title = c.ctx.Title + ": Chassis Temperatures"
	case Power:
		g.ID = PowerID
		g.Name = "Power Consumption"
		g.Title = c.ctx.Title + ": " + g.Name
		g.VerticalLabel = "Watts"
	case Voltage:
		g.ID = VoltageID
		g.Name = "Voltage Probes"
		g.Title = c.ctx.Title + ": " + g.Name
		g.VerticalLabel = "Volts"
	case Fan:
		g.ID = FanID
		g.Name = "Fan Speeds"
		g.Title = c.ctx.Title + ": " + g.Name
		g.VerticalLabel = "RPMs"
		g.UnitsExponent = graph.Int(0)
	}

	c.shared[cat] = g
	c.groups = append(c.groups, g)
	return g
}

func (c *classification) otherGroup(s perfdata.Series) *graph.Group {
	g := &graph.Group{
		ID:            c.otherID,
		Name:          s.Label,
		Kind:          Other.String(),
		Title:         c.ctx.Title + ": " + s.Label,
		VerticalLabel: s.Unit,
	}
	if s.Unit == "%" || s.Unit == "%%" {
		g.VerticalLabel = "%"
		g.Lower = graph.Float(0)
		g.Upper = graph.Float(101)
	}

	c.otherID++
	c.groups = append(c.groups, g)
	return g
}

// TemperatureLabel shortens a temperature sensor label for the legend.
func TemperatureLabel(label string) string {
	label = tempSuffix.ReplaceAllString(label, "${1}")
	label = tinSuffix.ReplaceAllString(label, "${1}")
	label = strings.ReplaceAll(label, "_", " ")
	return graph.Cut(label, 20)
}

// PowerLabel shortens a power sensor label for the legend.
func PowerLabel(label string) string {
	label = powerSuffix.ReplaceAllString(label, "${1}")
	return graph.Cut(label, 18)
}

// VoltageLabel shortens a voltage probe label for the legend.
// "V12_CPU_Core" becomes "CPU Core" and a bare "V12" becomes "Probe 12".
func VoltageLabel(label string) string {
	label = voltPrefixed.ReplaceAllString(label, "${2}")
	label = strings.ReplaceAll(label, "_", " ")
	label = voltProbeShort.ReplaceAllString(label, "Probe ${1}")
	return graph.Cut(label, 18)
}
