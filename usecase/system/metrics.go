package system

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/emergentmethods/flowctl/domain"
	"github.com/emergentmethods/flowctl/domain/value"
)

// MetricsVersion is the schema version of the metrics endpoint.
const MetricsVersion = "v1alpha1"

// MetricTimeLayout formats data point times.
const MetricTimeLayout = "2006-01-02 15:04:05"

// ErrUnknownMetric is returned for a metric name outside MetricNames.
var ErrUnknownMetric = errors.New("unknown metric name")

var metricNames = map[string]string{
	"cpu":         domain.MetricCPUTime,
	"memory":      domain.MetricMemory,
	"api_latency": domain.MetricAPILatency,
}

// MetricNames lists the short metric names accepted by Metrics.
func MetricNames() []string {
	names := make([]string, 0, len(metricNames))
	for n := range metricNames {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// MetricsInput selects a metric and its time window.
type MetricsInput struct {
	// Name is a short name: cpu, memory or api_latency.
	Name  string    `json:"name"`
	Start time.Time `json:"start_time,omitempty"`
	End   time.Time `json:"end_time,omitempty"`
	// Limit caps the number of data points; zero or negative means no cap.
	Limit int `json:"limit,omitempty"`
}

// MetricsOutput holds the processed data points.
type MetricsOutput struct {
	Name   string `json:"name"`
	Metric string `json:"metric"`
	// Points is a list of [time, value] pairs for cpu and memory, and
	// {values, buckets} for api_latency.
	Points value.Value `json:"points"`
}

// Metrics queries one metric and reduces its data points: user CPU time,
// resident memory, or the bucket midpoints of the latest latency histogram
// repeated by their counts.
func (u *UseCase) Metrics(ctx context.Context, in *MetricsInput) (*MetricsOutput, error) {
	metric, ok := metricNames[strings.ToLower(in.Name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMetric, in.Name)
	}
	limit := in.Limit
	if limit < 0 {
		limit = 0
	}
	res, err := u.Remote.System.Metrics(ctx, domain.MetricsQuery{
		Name:      metric,
		Start:     in.Start,
		End:       in.End,
		MaxLength: limit,
	}, MetricsVersion)
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}

	var points []value.Value
	if v, ok := res.Get(metric); ok {
		if l, ok := v.(*value.List); ok {
			points = l.Items()
		}
	}

	out := &MetricsOutput{Name: in.Name, Metric: metric}
	switch metric {
	case domain.MetricCPUTime:
		out.Points = timeSeries(points, "user")
	case domain.MetricMemory:
		out.Points = timeSeries(points, "rss")
	default:
		out.Points, err = latencyHistogram(points)
	}
	return out, err
}

// timeSeries keeps the points whose type attribute is typ as [time, value].
func timeSeries(points []value.Value, typ string) *value.List {
	out := value.NewList()
	for _, p := range points {
		if value.PathString(p, "attributes", "type") != typ {
			continue
		}
		v, ok := value.Path(p, "value")
		if !ok {
			v = value.Null{}
		}
		out.Append(value.NewList(value.String(pointTime(p)), v))
	}
	return out
}

func pointTime(p value.Value) string {
	text := value.PathString(p, "time_unix_nano")
	ns, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(text, 64)
		if ferr != nil {
			return text
		}
		ns = int64(f)
	}
	return time.Unix(ns/int64(time.Second), 0).Format(MetricTimeLayout)
}

// latencyHistogram expands the latest histogram point into one value per
// request, each the midpoint of its bucket; the overflow bucket counts at the
// last bound.
func latencyHistogram(points []value.Value) (*value.Map, error) {
	values := value.NewList()
	out := value.NewMap().Set("values", values).Set("buckets", value.Number("0"))
	if len(points) == 0 {
		return out, nil
	}
	last := points[len(points)-1]
	bounds, err := numbers(last, "explicit_bounds")
	if err != nil {
		return nil, err
	}
	counts, err := numbers(last, "bucket_counts")
	if err != nil {
		return nil, err
	}
	if len(bounds) == 0 {
		return out, nil
	}
	for i, c := range counts {
		mid := bounds[len(bounds)-1]
		if i < len(bounds)-1 {
			mid = (bounds[i] + bounds[i+1]) / 2
		}
		text := value.Number(strconv.FormatFloat(mid, 'f', -1, 64))
		for n := 0; n < int(c); n++ {
			values.Append(text)
		}
	}
	out.Set("buckets", value.Number(strconv.Itoa(len(bounds))))
	return out, nil
}

func numbers(p value.Value, key string) ([]float64, error) {
	v, _ := value.Path(p, key)
	l, ok := v.(*value.List)
	if !ok {
		return nil, fmt.Errorf("metrics: %s is %s, not a list", key, value.TypeOf(v))
	}
	out := make([]float64, 0, l.Len())
	for _, item := range l.Items() {
		text, _ := value.Text(item)
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("metrics: %s holds %q, not a number", key, text)
		}
		out = append(out, f)
	}
	return out, nil
}
