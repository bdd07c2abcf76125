package rrd

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kylerisse/pnpgraph/pkg/graph"
	"github.com/kylerisse/pnpgraph/pkg/perfdata"
	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestRenderer(t *testing.T, opts ...Option) *Renderer {
	t.Helper()
	r, err := NewRenderer(quietLogger(), opts...)
	if err != nil {
		t.Fatalf("NewRenderer failed: %v", err)
	}
	return r
}

func indexOf(args []string, want string) int {
	for i, a := range args {
		if a == want {
			return i
		}
	}
	return -1
}

func hasPrefix(args []string, prefix string) []string {
	var out []string
	for _, a := range args {
		if strings.HasPrefix(a, prefix) {
			out = append(out, a)
		}
	}
	return out
}

func sensorGroup() graph.Group {
	return graph.Group{
		ID:            1,
		Name:          "Temperatures",
		Title:         "esx01: Chassis Temperatures",
		VerticalLabel: "Celsius",
		SlopeMode:     true,
		Series: []graph.Series{
			{
				Var:    "var0",
				Source: perfdata.Series{RRDFile: "/var/lib/pnp4nagios/esx01/OMSA.rrd", DS: 1},
				Label:  "CPU0",
				Color:  "0022ff",
				Style:  graph.StyleLine,
				Stats:  graph.SummaryStats,
				Format: "%4.1lf °C",
			},
			{
				Var:    "var1",
				Source: perfdata.Series{RRDFile: "/var/lib/pnp4nagios/esx01/OMSA.rrd", DS: 2},
				Label:  "Ambient",
				Color:  "22ff22",
				Style:  graph.StyleLine,
				Stats:  graph.SummaryStats,
				Format: "%4.1lf °C",
			},
		},
	}
}

func TestNewRenderer_Options(t *testing.T) {
	r := newTestRenderer(t, WithSize(640, 120), WithBinary("/usr/local/bin/rrdtool"))
	if r.width != 640 || r.height != 120 {
		t.Errorf("expected 640x120, got %dx%d", r.width, r.height)
	}
	if r.binary != "/usr/local/bin/rrdtool" {
		t.Errorf("unexpected binary %q", r.binary)
	}

	if _, err := NewRenderer(quietLogger(), WithSize(0, 100)); err == nil {
		t.Error("expected error for zero width")
	}
	if _, err := NewRenderer(quietLogger(), WithBinary("")); err == nil {
		t.Error("expected error for empty binary")
	}
}

func TestArgs_Options(t *testing.T) {
	r := newTestRenderer(t)
	g := sensorGroup()
	g.Lower = graph.Float(0)
	g.Upper = graph.Float(101)
	g.Rigid = true
	g.UnitsExponent = graph.Int(0)

	args := r.Args(g, Window{TimeLength: "1d"})

	checks := map[string]string{
		"--title":          "esx01: Chassis Temperatures",
		"--vertical-label": "Celsius",
		"--start":          "now-1d",
		"--end":            "now",
		"--width":          "800",
		"--height":         "200",
		"--lower-limit":    "0",
		"--upper-limit":    "101",
		"--units-exponent": "0",
	}
	for flag, want := range checks {
		i := indexOf(args, flag)
		if i < 0 || i+1 >= len(args) {
			t.Errorf("missing %s in %v", flag, args)
			continue
		}
		if args[i+1] != want {
			t.Errorf("%s = %q, want %q", flag, args[i+1], want)
		}
	}
	for _, flag := range []string{"--rigid", "--slope-mode"} {
		if indexOf(args, flag) < 0 {
			t.Errorf("missing %s", flag)
		}
	}
}

func TestArgs_OmitsUnsetOptions(t *testing.T) {
	r := newTestRenderer(t)
	g := sensorGroup()
	g.SlopeMode = false
	g.VerticalLabel = ""

	args := r.Args(g, Window{})
	for _, flag := range []string{"--vertical-label", "--lower-limit", "--upper-limit", "--rigid", "--slope-mode", "--units-exponent"} {
		if indexOf(args, flag) >= 0 {
			t.Errorf("unexpected %s in %v", flag, args)
		}
	}
	if i := indexOf(args, "--start"); i < 0 || args[i+1] != "now-"+DefaultTimeLength {
		t.Errorf("expected default window, got %v", args)
	}
}

func TestArgs_Defs(t *testing.T) {
	r := newTestRenderer(t)

	defs := hasPrefix(r.Args(sensorGroup(), Window{TimeLength: "1h"}), "DEF:")
	want := []string{
		"DEF:var0=/var/lib/pnp4nagios/esx01/OMSA.rrd:1:MAX",
		"DEF:var1=/var/lib/pnp4nagios/esx01/OMSA.rrd:2:MAX",
	}
	if len(defs) != len(want) {
		t.Fatalf("expected %d DEFs, got %v", len(want), defs)
	}
	for i := range want {
		if defs[i] != want[i] {
			t.Errorf("DEF %d = %q, want %q", i, defs[i], want[i])
		}
	}

	defs = hasPrefix(r.Args(sensorGroup(), Window{TimeLength: "1y"}), "DEF:")
	if !strings.HasSuffix(defs[0], ":AVERAGE") {
		t.Errorf("expected AVERAGE for long windows, got %q", defs[0])
	}
}

func TestArgs_DefEscapesPath(t *testing.T) {
	r := newTestRenderer(t)
	g := sensorGroup()
	g.Series = g.Series[:1]
	g.Series[0].Source.RRDFile = `C:\rrd\host.rrd`

	defs := hasPrefix(r.Args(g, Window{TimeLength: "1d"}), "DEF:")
	if defs[0] != `DEF:var0=C\:\\rrd\\host.rrd:1:AVERAGE` {
		t.Errorf("unexpected escaped DEF %q", defs[0])
	}
}

func TestArgs_SharedVarDefinedOnce(t *testing.T) {
	r := newTestRenderer(t)
	g := sensorGroup()
	g.Series[1].Var = "var0"

	if defs := hasPrefix(r.Args(g, Window{}), "DEF:"); len(defs) != 1 {
		t.Errorf("expected one DEF for a shared var, got %v", defs)
	}
}

func TestArgs_LinesPadLegends(t *testing.T) {
	r := newTestRenderer(t)

	lines := hasPrefix(r.Args(sensorGroup(), Window{}), "LINE1:")
	want := []string{
		"LINE1:var0#0022ff:CPU0   ",
		"LINE1:var1#22ff22:Ambient",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %v", len(want), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestArgs_SummaryGprints(t *testing.T) {
	r := newTestRenderer(t)
	g := sensorGroup()
	g.Series = g.Series[:1]

	got := hasPrefix(r.Args(g, Window{}), "GPRINT:")
	want := []string{
		"GPRINT:var0:LAST:%4.1lf °C Last",
		"GPRINT:var0:MAX:%4.1lf °C Max",
		`GPRINT:var0:AVERAGE:%4.1lf °C Average\l`,
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d GPRINTs, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("GPRINT %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestArgs_ExplicitPrints(t *testing.T) {
	r := newTestRenderer(t)
	g := graph.Group{
		Title:  "CPU Usage for web01 / CPU",
		Header: []string{"\t\tLAST\t\t\tAVERAGE\t\t\tMAX\n"},
		Series: []graph.Series{
			{
				Var:    "used",
				Source: perfdata.Series{RRDFile: "/r/web01/CPU.rrd", DS: 1},
				Label:  "user",
				Color:  "E80C3E",
				Style:  graph.StyleAreaStacked,
				Prints: []graph.Print{
					{CF: graph.CFLast, Format: "%6.2lf %%\t\t"},
					{CF: graph.CFMax, Format: "%6.2lf \n"},
				},
			},
			{
				Var:    "nice",
				Source: perfdata.Series{RRDFile: "/r/web01/CPU.rrd", DS: 2},
				Label:  "nice",
				Color:  "E8630C",
				Style:  graph.StyleAreaStacked,
			},
		},
	}

	args := r.Args(g, Window{})

	if i := indexOf(args, `COMMENT:\t\tLAST\t\t\tAVERAGE\t\t\tMAX\n`); i < 0 {
		t.Errorf("missing escaped header comment in %v", args)
	}

	areas := hasPrefix(args, "AREA:")
	if len(areas) != 2 {
		t.Fatalf("expected 2 areas, got %v", areas)
	}
	if areas[0] != "AREA:used#E80C3E:user" {
		t.Errorf("first area should not stack, got %q", areas[0])
	}
	if areas[1] != "AREA:nice#E8630C:nice:STACK" {
		t.Errorf("second area should stack, got %q", areas[1])
	}

	prints := hasPrefix(args, "GPRINT:")
	want := []string{
		`GPRINT:used:LAST:%6.2lf %%\t\t`,
		`GPRINT:used:MAX:%6.2lf \n`,
	}
	if len(prints) != len(want) {
		t.Fatalf("expected %d GPRINTs, got %v", len(want), prints)
	}
	for i := range want {
		if prints[i] != want[i] {
			t.Errorf("GPRINT %d = %q, want %q", i, prints[i], want[i])
		}
	}
}

func TestArgs_RulesBreaksAndFooter(t *testing.T) {
	r := newTestRenderer(t)
	g := graph.Group{
		Title: "fw01 / Traffic - eth0",
		Series: []graph.Series{
			{
				Var:    "v0",
				Source: perfdata.Series{RRDFile: "/r/fw01/Traffic.rrd", DS: 1},
				Label:  "in",
				Color:  "00cc00",
				Style:  graph.StyleArea,
				Prints: []graph.Print{{CF: graph.CFMax, Format: "Max: %4.3lg%sB"}},
				Break:  true,
			},
		},
		Rules:  []graph.Rule{{Value: 1310720, Color: "333333", Legend: "10 Mbit/s"}},
		Footer: []string{"\n"},
	}

	args := r.Args(g, Window{})
	tail := args[len(args)-5:]
	want := []string{
		"AREA:v0#00cc00:in",
		`GPRINT:v0:MAX:Max\: %4.3lg%sB`,
		`COMMENT:\n`,
		"HRULE:1310720#333333:10 Mbit/s",
		`COMMENT:\n`,
	}
	for i := range want {
		if tail[i] != want[i] {
			t.Errorf("arg %d = %q, want %q", i, tail[i], want[i])
		}
	}
}

func TestDraw_EmptyGroup(t *testing.T) {
	r := newTestRenderer(t)
	err := r.Draw(context.Background(), graph.Group{Title: "empty"}, Window{}, filepath.Join(t.TempDir(), "x.png"))
	if err == nil {
		t.Error("expected error drawing a group without series")
	}
}

func TestDraw_MissingBinary(t *testing.T) {
	r := newTestRenderer(t, WithBinary(filepath.Join(t.TempDir(), "no-rrdtool")))
	path := filepath.Join(t.TempDir(), "imgs", "esx01", "sensors.png")

	err := r.Draw(context.Background(), sensorGroup(), Window{}, path)
	if err == nil {
		t.Fatal("expected error for missing rrdtool binary")
	}
	if !strings.Contains(err.Error(), "rrdtool graph failed") {
		t.Errorf("unexpected error %v", err)
	}
}
