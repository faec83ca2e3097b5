package main

import (
	"math"
	"strconv"

	"github.com/spf13/cobra"
	"k8s.io/apimachinery/pkg/api/resource"

	"github.com/emergentmethods/flowctl/domain/value"
	"github.com/emergentmethods/flowctl/internal/printer"
	"github.com/emergentmethods/flowctl/usecase/system"
)

func newCmdStatus() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:           "status",
		Short:         "Get the status of the Flowdapt server",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			uc, err := buildSystemUseCase(cmd)
			if err != nil {
				return err
			}
			defer uc.Remote.Close()

			ctx, cleanup := withCmdRunLogger(cmd.Context(), "status", "system")
			defer func() { cleanup(err) }()

			out, err := uc.Status(ctx, &system.StatusInput{})
			if err != nil {
				return err
			}
			p := printer.New(cmd.OutOrStdout())
			if format != "" {
				f, err := printer.ParseFormat(format)
				if err != nil {
					return err
				}
				return p.Value(value.NewMap().Set("info", out.Info).Set("status", out.Status), f)
			}
			return p.Tree(statusTree(out))
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "Print the raw status as json, yaml or raw instead of a tree")
	return cmd
}

func statusTree(out *system.StatusOutput) *printer.Node {
	s := out.Status
	text := func(keys ...string) string { return value.PathString(s, keys...) }
	add := func(n *printer.Node, label, v string) { n.Add(printer.Bold(label) + ": " + v) }

	root := &printer.Node{Label: printer.Bold("Flowdapt")}
	add(root, "Version", value.PathString(out.Info, "version"))
	add(root, "API Version", value.PathString(out.Info, "api_version"))
	add(root, "Name", text("name"))

	metrics := root.Add(printer.Bold("System Metrics"))
	add(metrics, "Time", text("system", "time"))
	add(metrics, "CPU", text("system", "cpu_pct")+"%")
	add(metrics, "Memory", sizeString(text("system", "memory")))
	add(metrics, "Disk", text("system", "disk_pct")+"%")
	add(metrics, "Network IO Sent", sizeString(text("system", "network_io_sent")))
	add(metrics, "Network IO Received", sizeString(text("system", "network_io_recv")))

	osNode := root.Add(printer.Bold("Operating System"))
	add(osNode, "Name", text("os", "name"))
	add(osNode, "Release", text("os", "release"))
	add(osNode, "Machine", text("os", "machine"))

	services := root.Add(printer.Bold("Services"))
	if m, ok := pathOrNull(s, "services").(*value.Map); ok {
		m.Range(func(name string, svc value.Value) bool {
			services.Add(name + "  " + printer.ServiceStatus(value.PathString(svc, "status")))
			return true
		})
	}
	return root
}

func pathOrNull(v value.Value, keys ...string) value.Value {
	if found, ok := value.Path(v, keys...); ok {
		return found
	}
	return value.Null{}
}

// sizeString renders a byte count rounded to a whole binary unit, e.g. 12Mi.
// Text that is not a number is returned as is.
func sizeString(s string) string {
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || n < 0 {
		return s
	}
	unit := 1.0
	for unit < 1<<60 && n >= unit*1024 {
		unit *= 1024
	}
	q := resource.NewQuantity(int64(math.Round(n/unit))*int64(unit), resource.BinarySI)
	return q.String()
}
