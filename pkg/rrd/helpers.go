package rrd

import (
	"strconv"
	"strings"
)

// Windows lists the supported time windows and the consolidation function
// read from the RRD for each. Short windows show peaks, long windows
// averages.
var Windows = map[string]string{
	"15m": "MAX",
	"1h":  "MAX",
	"4h":  "MAX",
	"8h":  "MAX",
	"1d":  "AVERAGE",
	"4d":  "AVERAGE",
	"1w":  "AVERAGE",
	"31d": "AVERAGE",
	"93d": "AVERAGE",
	"1y":  "AVERAGE",
	"2y":  "AVERAGE",
	"5y":  "AVERAGE",
}

// ExpandTimeLength spells out a time window for captions.
func ExpandTimeLength(timeLength string) string {
	switch timeLength {
	case "15m":
		return "fifteen minutes"
	case "1h":
		return "one hour"
	case "4h":
		return "four hours"
	case "8h":
		return "eight hours"
	case "1d":
		return "one day"
	case "4d":
		return "four days"
	case "1w":
		return "one week"
	case "31d":
		return "one month"
	case "93d":
		return "three months"
	case "1y":
		return "one year"
	case "2y":
		return "two years"
	case "5y":
		return "five years"
	}
	return timeLength
}

// rrdEscape escapes a string for use in rrdtool graph labels and comments.
// rrdtool uses colons as field delimiters, so literal colons must be escaped
// as \: in label text. Backslashes must also be escaped. Tabs and newlines
// become rrdtool's \t and \n markers.
func rrdEscape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `:`, `\:`)
	s = strings.ReplaceAll(s, "\t", `\t`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return s
}

// formatFloat renders a number without a trailing fraction when it has none.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// statName turns a consolidation function into its legend suffix
// ("AVERAGE" becomes "Average").
func statName(cf string) string {
	if cf == "" {
		return ""
	}
	lower := strings.ToLower(cf)
	return strings.ToUpper(lower[:1]) + lower[1:]
}
