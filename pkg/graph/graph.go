// Package graph defines the structured description of a rendered chart.
//
// A Group is one chart's worth of configuration: title, axis settings and
// its member series. Templates build Groups; renderers serialize them into
// the syntax of a concrete graphing engine. Nothing in this package knows
// about that syntax, so text fields hold plain text (tabs and newlines are
// real characters) and colors are bare 6-digit hex strings.
package graph

import (
	"github.com/kylerisse/pnpgraph/pkg/perfdata"
)

// Style is how a series is drawn.
type Style string

const (
	// StyleLine draws a one pixel line.
	StyleLine Style = "line"
	// StyleArea draws a filled area from the axis.
	StyleArea Style = "area"
	// StyleAreaStacked draws a filled area on top of the previous series.
	StyleAreaStacked Style = "area-stacked"
)

// Consolidation functions usable in a summary statistic.
const (
	CFLast    = "LAST"
	CFMax     = "MAX"
	CFMin     = "MIN"
	CFAverage = "AVERAGE"
)

// SummaryStats is the statistic order used by summary-style series.
var SummaryStats = []string{CFLast, CFMax, CFAverage}

// Print is one summary statistic printed below the chart.
type Print struct {
	CF     string `json:"cf"`
	Format string `json:"format"`
}

// Series is the visual representation of one metric series within a Group.
type Series struct {
	// Var is the variable name the series is bound to in the chart.
	Var string `json:"var"`

	// Source is the metric series being drawn.
	Source perfdata.Series `json:"source"`

	// Label is the legend text.
	Label string `json:"label"`

	// Color is a 6-digit RGB hex string without a leading '#'.
	Color string `json:"color"`

	Style Style `json:"style"`

	// Stats and Format describe a summary: every consolidation function in
	// Stats is printed with the same Format, suffixed with the statistic
	// name. Ignored when Prints is set.
	Stats  []string `json:"stats,omitempty"`
	Format string   `json:"format,omitempty"`

	// Prints lists explicit statistics with individual formats.
	Prints []Print `json:"prints,omitempty"`

	// Break ends the legend line after this series' statistics.
	Break bool `json:"break,omitempty"`
}

// Rule is a horizontal reference line.
type Rule struct {
	Value  float64 `json:"value"`
	Color  string  `json:"color"`
	Legend string  `json:"legend"`
}

// Group is one chart.
type Group struct {
	// ID orders and identifies the chart within a template's output.
	ID int `json:"id"`

	// Name is a short name for the chart, used in chart selection lists.
	Name string `json:"name"`

	// Kind is the chart's type within its template, drawn from a fixed
	// set per template and never from request data.
	Kind string `json:"kind"`

	Title         string `json:"title"`
	VerticalLabel string `json:"vertical_label"`

	// Lower and Upper bound the vertical axis when set.
	Lower *float64 `json:"lower,omitempty"`
	Upper *float64 `json:"upper,omitempty"`

	// Rigid prevents the axis from expanding past its bounds.
	Rigid bool `json:"rigid,omitempty"`

	// SlopeMode smooths the drawn lines.
	SlopeMode bool `json:"slope_mode,omitempty"`

	// UnitsExponent fixes the SI prefix of axis labels (0 disables it).
	UnitsExponent *int `json:"units_exponent,omitempty"`

	// Header comments are printed before the legend.
	Header []string `json:"header,omitempty"`

	Series []Series `json:"series"`

	// Rules and Footer are drawn after all series.
	Rules  []Rule   `json:"rules,omitempty"`
	Footer []string `json:"footer,omitempty"`
}

// Float returns a pointer to v, for the optional fields of a Group.
func Float(v float64) *float64 {
	return &v
}

// Int returns a pointer to v.
func Int(v int) *int {
	return &v
}
