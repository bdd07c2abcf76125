package perfdata

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// ErrMalformed is returned when an item of performance data cannot be parsed.
var ErrMalformed = errors.New("malformed performance data")

// Datum is one parsed item of plugin performance data:
//
//	'label'=value[UOM];[warn];[crit];[min];[max]
type Datum struct {
	Label string
	Value float64 // NaN when the plugin reported "U"
	Unit  string
	Warn  *float64
	Crit  *float64
	Min   *float64
	Max   *float64
}

// Parse splits a performance data string into its items.
// Labels may be single-quoted to include spaces; a doubled quote inside a
// quoted label is a literal quote. An empty input yields no items.
func Parse(s string) ([]Datum, error) {
	var data []Datum

	rest := strings.TrimSpace(s)
	for rest != "" {
		label, after, err := splitLabel(rest)
		if err != nil {
			return nil, err
		}

		end := strings.IndexFunc(after, unicode.IsSpace)
		if end < 0 {
			end = len(after)
		}
		fields := after[:end]
		rest = strings.TrimLeftFunc(after[end:], unicode.IsSpace)

		d, err := parseFields(label, fields)
		if err != nil {
			return nil, err
		}
		data = append(data, d)
	}

	return data, nil
}

// splitLabel consumes the label and the '=' that follows it.
func splitLabel(s string) (string, string, error) {
	if !strings.HasPrefix(s, "'") {
		eq := strings.IndexByte(s, '=')
		if eq <= 0 {
			return "", "", fmt.Errorf("%w: missing label in %q", ErrMalformed, s)
		}
		label := s[:eq]
		if strings.IndexFunc(label, unicode.IsSpace) >= 0 {
			return "", "", fmt.Errorf("%w: unquoted label with whitespace %q", ErrMalformed, label)
		}
		return label, s[eq+1:], nil
	}

	var b strings.Builder
	for i := 1; i < len(s); i++ {
		if s[i] != '\'' {
			b.WriteByte(s[i])
			continue
		}
		if i+1 < len(s) && s[i+1] == '\'' {
			b.WriteByte('\'')
			i++
			continue
		}
		if i+1 >= len(s) || s[i+1] != '=' {
			return "", "", fmt.Errorf("%w: expected '=' after quoted label %q", ErrMalformed, b.String())
		}
		if b.Len() == 0 {
			return "", "", fmt.Errorf("%w: empty label", ErrMalformed)
		}
		return b.String(), s[i+2:], nil
	}
	return "", "", fmt.Errorf("%w: unterminated quoted label in %q", ErrMalformed, s)
}

func parseFields(label string, fields string) (Datum, error) {
	parts := strings.Split(fields, ";")

	value, unit, err := splitValue(parts[0])
	if err != nil {
		return Datum{}, fmt.Errorf("%w: label %q: %v", ErrMalformed, label, err)
	}

	d := Datum{Label: label, Value: value, Unit: unit}
	optional := []**float64{&d.Warn, &d.Crit, &d.Min, &d.Max}
	for i, p := range parts[1:] {
		if i >= len(optional) {
			break
		}
		*optional[i] = parseThreshold(p)
	}
	return d, nil
}

// splitValue separates the numeric value from its unit of measurement.
func splitValue(s string) (float64, string, error) {
	if s == "" {
		return 0, "", errors.New("empty value")
	}
	if s == "U" {
		return math.NaN(), "", nil
	}

	end := strings.IndexFunc(s, func(r rune) bool {
		return !(unicode.IsDigit(r) || r == '.' || r == '-' || r == '+' || r == ',')
	})
	if end < 0 {
		end = len(s)
	}
	end += exponentLen(s[end:])
	num := strings.ReplaceAll(s[:end], ",", ".")

	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, "", fmt.Errorf("invalid value %q", s)
	}
	return v, s[end:], nil
}

// exponentLen returns the length of an exponent ("e3", "E-2") at the start
// of s, or 0 when s does not start with one. A bare "e" is part of the unit.
func exponentLen(s string) int {
	if len(s) < 2 || (s[0] != 'e' && s[0] != 'E') {
		return 0
	}
	i := 1
	if s[i] == '-' || s[i] == '+' {
		i++
	}
	start := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == start {
		return 0
	}
	return i
}

// parseThreshold returns the numeric value of a threshold or limit field.
// Range syntax ("10:20", "@~:5") is reduced to its upper bound when it has
// one, otherwise the field is treated as absent.
func parseThreshold(s string) *float64 {
	s = strings.TrimPrefix(strings.TrimSpace(s), "@")
	if s == "" {
		return nil
	}
	if i := strings.LastIndexByte(s, ':'); i >= 0 {
		s = s[i+1:]
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return nil
	}
	return &v
}
