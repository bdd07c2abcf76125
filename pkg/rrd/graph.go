// Package rrd serializes chart descriptions into rrdtool graph commands
// and runs rrdtool to draw them.
package rrd

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"unicode/utf8"

	"github.com/kylerisse/pnpgraph/pkg/graph"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultWidth and DefaultHeight size the drawing area in pixels.
	DefaultWidth  = 800
	DefaultHeight = 200

	// DefaultTimeLength is the window drawn when none is given.
	DefaultTimeLength = "4h"
)

// Window is the time span of a drawn graph.
type Window struct {
	// TimeLength is a key of Windows (e.g. "4h", "1d").
	TimeLength string
}

// consolidation returns the consolidation function read from the RRD
// file for this window.
func (w Window) consolidation() string {
	if cf, ok := Windows[w.timeLength()]; ok {
		return cf
	}
	return "AVERAGE"
}

func (w Window) timeLength() string {
	if w.TimeLength == "" {
		return DefaultTimeLength
	}
	return w.TimeLength
}

// Renderer turns graph.Groups into rrdtool graph invocations.
type Renderer struct {
	binary string
	width  int
	height int
	logger *logrus.Logger
}

// Option is a functional option for configuring a Renderer.
type Option func(*Renderer) error

// WithSize sets the size of the drawing area.
func WithSize(width int, height int) Option {
	return func(r *Renderer) error {
		if width <= 0 || height <= 0 {
			return fmt.Errorf("size must be positive, got %dx%d", width, height)
		}
		r.width = width
		r.height = height
		return nil
	}
}

// WithBinary sets the rrdtool executable.
func WithBinary(path string) Option {
	return func(r *Renderer) error {
		if path == "" {
			return fmt.Errorf("rrdtool binary must not be empty")
		}
		r.binary = path
		return nil
	}
}

// NewRenderer creates a Renderer drawing DefaultWidth x DefaultHeight
// graphs with the rrdtool found on PATH.
func NewRenderer(logger *logrus.Logger, opts ...Option) (*Renderer, error) {
	r := &Renderer{
		binary: "rrdtool",
		width:  DefaultWidth,
		height: DefaultHeight,
		logger: logger,
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, fmt.Errorf("rrd: %w", err)
		}
	}
	return r, nil
}

// Args returns the arguments that follow "rrdtool graph <file>" to draw g.
//
// Options come first, then one DEF per series variable, the header
// comments, each series' drawing element with its statistics, horizontal
// rules and footer comments.
func (r *Renderer) Args(g graph.Group, w Window) []string {
	args := []string{
		"--title", g.Title,
		"--start", fmt.Sprintf("now-%s", w.timeLength()),
		"--end", "now",
		"--width", strconv.Itoa(r.width),
		"--height", strconv.Itoa(r.height),
	}
	if g.VerticalLabel != "" {
		args = append(args, "--vertical-label", g.VerticalLabel)
	}
	if g.Lower != nil {
		args = append(args, "--lower-limit", formatFloat(*g.Lower))
	}
	if g.Upper != nil {
		args = append(args, "--upper-limit", formatFloat(*g.Upper))
	}
	if g.Rigid {
		args = append(args, "--rigid")
	}
	if g.SlopeMode {
		args = append(args, "--slope-mode")
	}
	if g.UnitsExponent != nil {
		args = append(args, "--units-exponent", strconv.Itoa(*g.UnitsExponent))
	}

	cf := w.consolidation()
	defined := make(map[string]bool, len(g.Series))
	for _, s := range g.Series {
		if defined[s.Var] {
			continue
		}
		defined[s.Var] = true
		args = append(args, fmt.Sprintf("DEF:%s=%s:%s:%s", s.Var, rrdEscape(s.Source.RRDFile), s.Source.DSName(), cf))
	}

	for _, h := range g.Header {
		args = append(args, "COMMENT:"+rrdEscape(h))
	}

	width := legendWidth(g.Series)
	for i, s := range g.Series {
		args = append(args, drawElement(s, width, i == 0))
		args = append(args, gprints(s)...)
		if s.Break {
			args = append(args, `COMMENT:\n`)
		}
	}

	for _, rule := range g.Rules {
		args = append(args, fmt.Sprintf("HRULE:%s#%s:%s", formatFloat(rule.Value), rule.Color, rrdEscape(rule.Legend)))
	}

	for _, f := range g.Footer {
		args = append(args, "COMMENT:"+rrdEscape(f))
	}

	return args
}

// legendWidth returns the length of the longest legend so that the
// statistics printed after each legend line up.
func legendWidth(series []graph.Series) int {
	width := 0
	for _, s := range series {
		if n := utf8.RuneCountInString(s.Label); n > width {
			width = n
		}
	}
	return width
}

// drawElement renders the LINE or AREA element of a series. The first
// element of a chart has nothing to stack on and is drawn as a plain area.
func drawElement(s graph.Series, width int, first bool) string {
	legend := rrdEscape(fmt.Sprintf("%-*s", width, s.Label))

	switch s.Style {
	case graph.StyleArea:
		return fmt.Sprintf("AREA:%s#%s:%s", s.Var, s.Color, legend)
	case graph.StyleAreaStacked:
		if first {
			return fmt.Sprintf("AREA:%s#%s:%s", s.Var, s.Color, legend)
		}
		return fmt.Sprintf("AREA:%s#%s:%s:STACK", s.Var, s.Color, legend)
	default:
		return fmt.Sprintf("LINE1:%s#%s:%s", s.Var, s.Color, legend)
	}
}

// gprints returns the GPRINT elements of a series. Summary statistics are
// suffixed with their name and the last one ends the legend line.
func gprints(s graph.Series) []string {
	if len(s.Prints) > 0 {
		out := make([]string, 0, len(s.Prints))
		for _, p := range s.Prints {
			out = append(out, fmt.Sprintf("GPRINT:%s:%s:%s", s.Var, p.CF, rrdEscape(p.Format)))
		}
		return out
	}

	out := make([]string, 0, len(s.Stats))
	for i, cf := range s.Stats {
		text := rrdEscape(s.Format + " " + statName(cf))
		if i == len(s.Stats)-1 {
			text += `\l`
		}
		out = append(out, fmt.Sprintf("GPRINT:%s:%s:%s", s.Var, cf, text))
	}
	return out
}

// Draw runs rrdtool to draw g into the PNG file at path, creating the
// parent directory if needed.
func (r *Renderer) Draw(ctx context.Context, g graph.Group, w Window, path string) error {
	if len(g.Series) == 0 {
		return fmt.Errorf("graph %q has no series to draw", g.Title)
	}

	dirPath := filepath.Dir(path)
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dirPath, err)
	}

	args := append([]string{"graph", path}, r.Args(g, w)...)
	args = append(args,
		`COMMENT:\n`,
		fmt.Sprintf(`COMMENT:%s over the last %s\r`, w.consolidation(), ExpandTimeLength(w.timeLength())),
	)

	r.logger.Debugf("Drawing graph %q (%d series) to %s.", g.Title, len(g.Series), path)

	cmd := exec.CommandContext(ctx, r.binary, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("rrdtool graph failed for %s: %w\nOutput: %s", path, err, string(output))
	}

	r.logger.Debugf("Graph drawn successfully: %s", path)
	return nil
}
