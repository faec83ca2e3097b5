package local

import (
	"context"
	"errors"
	"net/http"
	"runtime"
	"strconv"

	"github.com/emergentmethods/flowctl/domain"
	"github.com/emergentmethods/flowctl/domain/model"
	"github.com/emergentmethods/flowctl/domain/value"
)

// SandboxPlugin names the plugin document every sandbox serves. A stored
// plugin of the same name replaces it.
const SandboxPlugin = "flowdapt-sandbox"

func (b *Backend) sandboxPlugin() *value.Map {
	return value.NewMap().
		Set("name", value.String(SandboxPlugin)).
		Set("module", value.String("flowctl.sandbox")).
		Set("metadata", value.NewMap().
			Set("version", value.String(b.opts.ServerVersion)).
			Set("summary", value.String("In-process server backing memory: and sqlite: URLs")))
}

func (b *Backend) GetPlugin(ctx context.Context, identifier, version string) (value.Value, error) {
	if err := checkVersion(model.KindPlugin, version); err != nil {
		return nil, err
	}
	v, err := b.get(ctx, model.KindPlugin, identifier)
	if errors.Is(err, model.ErrRemoteNotFound) && identifier == SandboxPlugin {
		return b.sandboxPlugin(), nil
	}
	return v, err
}

func (b *Backend) ListPlugins(ctx context.Context, version string) (*value.List, error) {
	if err := checkVersion(model.KindPlugin, version); err != nil {
		return nil, err
	}
	stored, err := b.list(ctx, model.KindPlugin)
	if err != nil {
		return nil, err
	}
	for _, p := range stored.Items() {
		if model.ResourceName(model.KindPlugin, p) == SandboxPlugin {
			return stored, nil
		}
	}
	return value.NewList(append([]value.Value{b.sandboxPlugin()}, stored.Items()...)...), nil
}

// Status reports the sandbox itself. Figures come from the Go runtime.
func (b *Backend) Status(ctx context.Context, _ string) (value.Value, error) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	storeStatus := "OK"
	if _, err := b.store.List(ctx, model.KindWorkflow); err != nil {
		storeStatus = err.Error()
	}
	return value.NewMap().
		Set("name", value.String(b.opts.Name)).
		Set("system", value.NewMap().
			Set("time", value.String(b.now())).
			Set("cpu_pct", value.Number("0")).
			Set("memory", value.Number(strconv.FormatUint(ms.Sys, 10))).
			Set("disk_pct", value.Number("0")).
			Set("network_io_sent", value.Number("0")).
			Set("network_io_recv", value.Number("0"))).
		Set("os", value.NewMap().
			Set("name", value.String(runtime.GOOS)).
			Set("release", value.String(runtime.Version())).
			Set("machine", value.String(runtime.GOARCH))).
		Set("services", value.NewMap().
			Set("store", value.NewMap().Set("status", value.String(storeStatus)))), nil
}

func (b *Backend) Ping(context.Context) (value.Value, error) {
	latest, _ := model.LatestVersion(model.KindWorkflow)
	return value.NewMap().
		Set("version", value.String(b.opts.ServerVersion)).
		Set("api_version", value.String(latest)), nil
}

var latencyBounds = []int{0, 5, 10, 25, 50, 75, 100, 250, 500, 750, 1000, 2500, 5000, 7500, 10000}

// Metrics reports one data point per metric, sampled at the time of the call
// from the Go runtime. The sandbox serves no API requests, so the latency
// histogram is empty.
func (b *Backend) Metrics(_ context.Context, q domain.MetricsQuery, version string) (*value.Map, error) {
	if version != "" && version != "v1alpha1" {
		return nil, remoteError(http.StatusBadRequest, "unsupported metrics version: %s", version)
	}
	now := b.opts.Now()
	in := (q.Start.IsZero() || !now.Before(q.Start)) && (q.End.IsZero() || !now.After(q.End))
	ts := value.Number(strconv.FormatInt(now.UnixNano(), 10))
	point := func(v string, attrs *value.Map) *value.Map {
		return value.NewMap().
			Set("time_unix_nano", ts).
			Set("value", value.Number(v)).
			Set("attributes", attrs)
	}
	typed := func(t string) *value.Map { return value.NewMap().Set("type", value.String(t)) }

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	bounds, counts := value.NewList(), value.NewList()
	for _, bound := range latencyBounds {
		bounds.Append(value.Number(strconv.Itoa(bound)))
		counts.Append(value.Number("0"))
	}
	counts.Append(value.Number("0"))

	series := map[string][]value.Value{
		domain.MetricCPUTime: {point("0", typed("user")), point("0", typed("system"))},
		domain.MetricMemory: {
			point(strconv.FormatUint(ms.Sys, 10), typed("rss")),
			point(strconv.FormatUint(ms.HeapAlloc, 10), typed("vms")),
		},
		domain.MetricAPILatency: {value.NewMap().
			Set("time_unix_nano", ts).
			Set("explicit_bounds", bounds).
			Set("bucket_counts", counts).
			Set("attributes", value.NewMap())},
	}

	out := value.NewMap()
	for _, name := range []string{domain.MetricCPUTime, domain.MetricMemory, domain.MetricAPILatency} {
		if q.Name != "" && q.Name != name {
			continue
		}
		points := value.NewList()
		if in {
			for i, p := range series[name] {
				if q.MaxLength > 0 && i >= q.MaxLength {
					break
				}
				points.Append(p)
			}
		}
		out.Set(name, points)
	}
	return out, nil
}

var (
	_ domain.PluginClient = (*Backend)(nil)
	_ domain.SystemClient = (*Backend)(nil)
)
