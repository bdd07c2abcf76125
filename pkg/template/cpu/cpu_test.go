package cpu

import (
	"fmt"
	"testing"

	"github.com/kylerisse/pnpgraph/pkg/graph"
	"github.com/kylerisse/pnpgraph/pkg/perfdata"
	"github.com/kylerisse/pnpgraph/pkg/template"
)

func slots(n int) []perfdata.Series {
	series := make([]perfdata.Series, n)
	for i := range series {
		series[i] = perfdata.Series{Label: fmt.Sprintf("s%d", i+1), Unit: "%%", RRDFile: "/rrd/h/cpu.rrd", DS: i + 1}
	}
	return series
}

func TestBuild_FullSet(t *testing.T) {
	groups := Build(template.Request{Host: "web01", Service: "CPU", Series: slots(7)})
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	g := groups[0]

	if g.Title != "CPU Usage for web01 / CPU" {
		t.Errorf("unexpected title %q", g.Title)
	}
	if g.Lower == nil || *g.Lower != 0 || g.Upper == nil || *g.Upper != 100 || !g.Rigid {
		t.Errorf("expected rigid bounds [0, 100], got %v %v %v", g.Lower, g.Upper, g.Rigid)
	}
	if len(g.Header) != 1 {
		t.Errorf("expected column header comment, got %v", g.Header)
	}

	wantOrder := []struct {
		v  string
		ds int
	}{
		{"used", 1}, {"nice", 2}, {"sys", 3}, {"iowait", 5}, {"irq", 6}, {"softirq", 4}, {"idle", 7},
	}
	if len(g.Series) != len(wantOrder) {
		t.Fatalf("expected %d series, got %d", len(wantOrder), len(g.Series))
	}
	for i, w := range wantOrder {
		s := g.Series[i]
		if s.Var != w.v || s.Source.DS != w.ds {
			t.Errorf("series %d: expected %s from slot %d, got %s from slot %d", i, w.v, w.ds, s.Var, s.Source.DS)
		}
		if s.Style != graph.StyleAreaStacked {
			t.Errorf("series %d: expected stacked area, got %q", i, s.Style)
		}
		if len(s.Prints) != 3 {
			t.Errorf("series %d: expected 3 prints, got %d", i, len(s.Prints))
		}
	}
}

func TestBuild_MissingSlots(t *testing.T) {
	groups := Build(template.Request{Series: slots(3)})
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	if len(groups[0].Series) != 3 {
		t.Errorf("expected 3 series for 3 slots, got %d", len(groups[0].Series))
	}
}

func TestBuild_NoSeries(t *testing.T) {
	if groups := Build(template.Request{}); groups != nil {
		t.Errorf("expected no groups, got %v", groups)
	}
}
