// Package perfdata turns the performance data emitted by a monitoring
// plugin into the series descriptors consumed by graph templates.
//
// A Series pairs a plugin label and unit with the location of its stored
// timeseries: an RRD file and a 1-based data source slot within it. The
// storage itself is owned by the graphing engine; this package only
// computes the reference.
package perfdata

import (
	"math"
	"path/filepath"
	"regexp"
	"strconv"
)

// Series describes one named, unit-tagged timeseries backing a metric.
type Series struct {
	// Name is the sanitized label, safe for file and variable names.
	Name string `json:"name"`

	// Label is the label exactly as the plugin emitted it.
	Label string `json:"label"`

	// Unit is the unit of measurement (e.g. "C", "RPM", "%%").
	// A percent unit is stored as "%%", matching how the graphing
	// engine expects it in format strings.
	Unit string `json:"unit"`

	// RRDFile is the path to the RRD file holding this series.
	RRDFile string `json:"rrd_file"`

	// DS is the 1-based data source slot within RRDFile.
	DS int `json:"ds"`

	// Value and thresholds from the most recent check result.
	// They are informational only; templates do not depend on them.
	// Value is nil when the plugin reported an unknown value.
	Value *float64 `json:"value,omitempty"`
	Warn  *float64 `json:"warn,omitempty"`
	Crit  *float64 `json:"crit,omitempty"`
	Min   *float64 `json:"min,omitempty"`
	Max   *float64 `json:"max,omitempty"`
}

// DSName returns the data source name as stored in the RRD file.
// Slots are named by their position ("1", "2", ...).
func (s Series) DSName() string {
	return strconv.Itoa(s.DS)
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9-]`)

// SanitizeName replaces every character outside [A-Za-z0-9-] with an
// underscore.
func SanitizeName(label string) string {
	return unsafeChars.ReplaceAllString(label, "_")
}

// Attach builds the series for one check result. All data sources of a
// service live in a single RRD file at {rrdDir}/{host}/{service}.rrd,
// with one slot per datum in input order.
func Attach(rrdDir string, host string, service string, data []Datum) []Series {
	rrdFile := filepath.Join(rrdDir, SanitizeName(host), SanitizeName(service)+".rrd")

	series := make([]Series, 0, len(data))
	for i, d := range data {
		unit := d.Unit
		if unit == "%" {
			unit = "%%"
		}
		var value *float64
		if !math.IsNaN(d.Value) {
			v := d.Value
			value = &v
		}
		series = append(series, Series{
			Name:    SanitizeName(d.Label),
			Label:   d.Label,
			Unit:    unit,
			RRDFile: rrdFile,
			DS:      i + 1,
			Value:   value,
			Warn:    d.Warn,
			Crit:    d.Crit,
			Min:     d.Min,
			Max:     d.Max,
		})
	}
	return series
}
