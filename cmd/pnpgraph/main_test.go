package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/kylerisse/pnpgraph/pkg/graph"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestClassify_JSON(t *testing.T) {
	out, err := execute(t, "classify",
		"--host", "esx01",
		"--service", "OMSA",
		"--command", "check_sensors",
		"--perfdata", "CPU0Temp=45C FAN1=3600RPM V12=12.1V",
		"--rrd-dir", "/srv/rrd",
	)
	if err != nil {
		t.Fatalf("classify failed: %v\n%s", err, out)
	}

	var groups []graph.Group
	if err := json.Unmarshal([]byte(out), &groups); err != nil {
		t.Fatalf("failed to decode output: %v\n%s", err, out)
	}
	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}
	if groups[0].Series[0].Source.RRDFile != "/srv/rrd/esx01/OMSA.rrd" {
		t.Errorf("unexpected rrd file %q", groups[0].Series[0].Source.RRDFile)
	}
}

func TestClassify_Args(t *testing.T) {
	out, err := execute(t, "classify",
		"--host", "web01",
		"--service", "CPU",
		"--command", "check_cpu!80!90",
		"--perfdata", "user=10% nice=0% sys=5% softirq=0% iowait=1% irq=0% idle=84%",
		"--format", "args",
	)
	if err != nil {
		t.Fatalf("classify failed: %v\n%s", err, out)
	}
	if !strings.HasPrefix(out, "# 1 CPU Usage\nrrdtool graph ") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if !strings.Contains(out, `"AREA:used#E80C3E:user`) {
		t.Errorf("expected the user area in output:\n%s", out)
	}
}

func TestClassify_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing host", []string{"classify", "--service", "x"}},
		{"bad perfdata", []string{"classify", "--host", "h", "--service", "s", "--perfdata", "=1"}},
		{"bad format", []string{"classify", "--host", "h", "--service", "s", "--format", "xml"}},
		{"bad period", []string{"classify", "--host", "h", "--service", "s", "--period", "2h"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestRender_GroupOutOfRange(t *testing.T) {
	_, err := execute(t, "render", "--host", "h", "--service", "s", "--perfdata", "a=1", "--group", "3")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected group not found error, got %v", err)
	}
}

func TestTemplates(t *testing.T) {
	out, err := execute(t, "templates")
	if err != nil {
		t.Fatalf("templates failed: %v", err)
	}
	if !strings.Contains(out, "check_sensors\tsensors\n") || !strings.Contains(out, "stat_net\tnetstat\n") {
		t.Errorf("unexpected output:\n%s", out)
	}
}
