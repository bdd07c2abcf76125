// Package main provides the pnpgraph CLI: it turns the performance data of
// one check result into chart descriptions, rrdtool arguments or PNGs.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/kylerisse/pnpgraph/pkg/config"
	"github.com/kylerisse/pnpgraph/pkg/graph"
	"github.com/kylerisse/pnpgraph/pkg/perfdata"
	"github.com/kylerisse/pnpgraph/pkg/rrd"
	"github.com/kylerisse/pnpgraph/pkg/template"
	"github.com/kylerisse/pnpgraph/pkg/template/builtin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	host         string
	service      string
	command      string
	perfdataText string
	rrdDir       string
	period       string
	format       string
	pretty       bool
	groupIndex   int
	outputPath   string
	verbose      bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pnpgraph",
		Short: "Build rrdtool graphs from Nagios performance data",
		Long: `pnpgraph selects a graph template for a check command and maps the
performance data of one check result to chart descriptions.`,
		SilenceUsage: true,
	}

	classifyCmd := &cobra.Command{
		Use:   "classify",
		Short: "Print the charts for one check result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runClassify(cmd.OutOrStdout())
		},
	}
	addResultFlags(classifyCmd)
	classifyCmd.Flags().StringVar(&format, "format", "json", "Output format: json, args")
	classifyCmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "Draw one chart of a check result with rrdtool",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRender(cmd.Context())
		},
	}
	addResultFlags(renderCmd)
	renderCmd.Flags().IntVar(&groupIndex, "group", 0, "0-based position of the chart to draw")
	renderCmd.Flags().StringVarP(&outputPath, "output", "o", "graph.png", "Output PNG path")
	renderCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log rrdtool invocations")

	templatesCmd := &cobra.Command{
		Use:   "templates",
		Short: "List the check commands with a built-in template",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			reg := builtin.NewRegistry()
			for _, name := range reg.Names() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", name, reg.Resolve(name).Name())
			}
		},
	}

	rootCmd.AddCommand(classifyCmd, renderCmd, templatesCmd)
	return rootCmd
}

func addResultFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&host, "host", "", "Host name as used in the RRD path (required)")
	cmd.Flags().StringVar(&service, "service", "", "Service description (required)")
	cmd.Flags().StringVar(&command, "command", "", "Check command line, e.g. check_sensors!-H!10.0.0.1")
	cmd.Flags().StringVar(&perfdataText, "perfdata", "", "Plugin performance data")
	cmd.Flags().StringVar(&rrdDir, "rrd-dir", config.DefaultRRDDir, "Directory holding <host>/<service>.rrd")
	cmd.Flags().StringVar(&period, "period", rrd.DefaultTimeLength, "Time window, e.g. 4h, 1d, 1w")
	cmd.MarkFlagRequired("host")
	cmd.MarkFlagRequired("service")
}

// build parses the performance data and runs the template for command.
func build() (template.Template, []graph.Group, error) {
	if _, ok := rrd.Windows[period]; !ok {
		return nil, nil, fmt.Errorf("unsupported period %q", period)
	}

	data, err := perfdata.Parse(perfdataText)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid performance data: %w", err)
	}

	tmpl := builtin.NewRegistry().Resolve(command)
	groups := tmpl.Build(template.Request{
		Host:    host,
		Service: service,
		Command: command,
		Series:  perfdata.Attach(rrdDir, host, service, data),
	})
	return tmpl, groups, nil
}

func runClassify(out io.Writer) error {
	_, groups, err := build()
	if err != nil {
		return err
	}

	switch format {
	case "json":
		return writeJSON(out, groups)
	case "args":
		renderer, err := rrd.NewRenderer(logrus.StandardLogger())
		if err != nil {
			return err
		}
		for _, g := range groups {
			args := renderer.Args(g, rrd.Window{TimeLength: period})
			fmt.Fprintf(out, "# %d %s\n", g.ID, g.Name)
			fmt.Fprintf(out, "rrdtool graph %s \\\n  %s\n", strconv.Quote(fmt.Sprintf("%d.png", g.ID)), quoteArgs(args))
		}
		return nil
	default:
		return fmt.Errorf("invalid format: %s (must be json or args)", format)
	}
}

func runRender(ctx context.Context) error {
	_, groups, err := build()
	if err != nil {
		return err
	}
	if groupIndex < 0 || groupIndex >= len(groups) {
		return fmt.Errorf("group %d not found, %d graph(s) available", groupIndex, len(groups))
	}

	logger := logrus.New()
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	renderer, err := rrd.NewRenderer(logger)
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return renderer.Draw(ctx, groups[groupIndex], rrd.Window{TimeLength: period}, outputPath)
}

func writeJSON(out io.Writer, v any) error {
	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

func quoteArgs(args []string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		quoted[i] = strconv.Quote(a)
	}
	return strings.Join(quoted, " \\\n  ")
}
