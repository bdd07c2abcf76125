package sensors

import (
	"regexp"

	"github.com/kylerisse/pnpgraph/pkg/perfdata"
)

// Category is the kind of chart a sensor series belongs to.
type Category int

const (
	Temperature Category = iota + 1
	Power
	Voltage
	Fan
	Other
)

// String returns the lower-case category name.
func (c Category) String() string {
	switch c {
	case Temperature:
		return "temperature"
	case Power:
		return "power"
	case Voltage:
		return "voltage"
	case Fan:
		return "fan"
	case Other:
		return "other"
	default:
		return "unknown"
	}
}

// rule assigns a category to series it matches.
type rule struct {
	category Category
	labels   []*regexp.Regexp
	units    []string
}

func (r rule) match(s perfdata.Series) bool {
	for _, u := range r.units {
		if s.Unit == u {
			return true
		}
	}
	for _, re := range r.labels {
		if re.MatchString(s.Label) {
			return true
		}
	}
	return false
}

// rules are evaluated top to bottom; the first match wins.
var rules = []rule{
	{
		category: Temperature,
		labels: []*regexp.Regexp{
			regexp.MustCompile(`(?i)^temp`),
			regexp.MustCompile(`TIN$`),
			regexp.MustCompile(`Temp$`),
			regexp.MustCompile(`Physicalid\d`),
			regexp.MustCompile(`Core\d`),
		},
		units: []string{"C"},
	},
	{
		category: Power,
		labels: []*regexp.Regexp{
			regexp.MustCompile(`^W`),
			regexp.MustCompile(`Power$`),
		},
	},
	{
		category: Voltage,
		labels: []*regexp.Regexp{
			regexp.MustCompile(`^V`),
			regexp.MustCompile(`^in\d$`),
			regexp.MustCompile(`^AVCC$`),
			regexp.MustCompile(`V$`),
			regexp.MustCompile(`^3VSB$`),
		},
		units: []string{"V"},
	},
	{
		category: Fan,
		labels: []*regexp.Regexp{
			regexp.MustCompile(`(?i)^fan`),
		},
		units: []string{"RPM"},
	},
}

// Categorize returns the category of a single series. Series matching no
// rule are Other.
func Categorize(s perfdata.Series) Category {
	for _, r := range rules {
		if r.match(s) {
			return r.category
		}
	}
	return Other
}
