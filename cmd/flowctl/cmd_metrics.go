package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/emergentmethods/flowctl/internal/printer"
	"github.com/emergentmethods/flowctl/usecase/system"
)

// metricTimeLayouts are the accepted --start-time/--end-time spellings, read
// in local time.
var metricTimeLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func parseMetricTime(flag, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range metricTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid value for --%s: %q does not match %s",
		flag, s, strings.Join(metricTimeLayouts, ", "))
}

func newCmdMetrics() *cobra.Command {
	var (
		startTime string
		endTime   string
		limit     int
		format    string
	)
	cmd := &cobra.Command{
		Use:   "metrics [NAME]",
		Short: "Get information about the metrics of the server",
		Long: `Get information about the metrics of the server.

NAME is one of ` + strings.Join(system.MetricNames(), ", ") + ` and defaults to cpu.
A negative --limit returns every data point.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			name := "cpu"
			if len(args) == 1 {
				name = args[0]
			}
			f, err := printer.ParseFormat(format)
			if err != nil {
				return err
			}
			if f == printer.FormatTable {
				return fmt.Errorf("unsupported format for metrics: %s", format)
			}
			start, err := parseMetricTime("start-time", startTime)
			if err != nil {
				return err
			}
			end, err := parseMetricTime("end-time", endTime)
			if err != nil {
				return err
			}

			uc, err := buildSystemUseCase(cmd)
			if err != nil {
				return err
			}
			defer uc.Remote.Close()

			ctx, cleanup := withCmdRunLogger(cmd.Context(), "metrics", name)
			defer func() { cleanup(err) }()

			out, err := uc.Metrics(ctx, &system.MetricsInput{Name: name, Start: start, End: end, Limit: limit})
			if err != nil {
				return err
			}
			return printer.New(cmd.OutOrStdout()).Value(out.Points, f)
		},
	}
	cmd.Flags().StringVarP(&startTime, "start-time", "s", "", "Start of the time window, e.g. 2024-05-01 or 2024-05-01T08:00:00")
	cmd.Flags().StringVarP(&endTime, "end-time", "e", "", "End of the time window")
	cmd.Flags().IntVarP(&limit, "limit", "l", 30, "Maximum number of data points")
	cmd.Flags().StringVarP(&format, "format", "f", string(printer.FormatRaw), "Output format (raw|json|yaml)")
	return cmd
}
