package domain

import (
	"context"
	"io"
	"time"

	"github.com/emergentmethods/flowctl/domain/value"
)

// Resource documents travel as value trees. Get/Create/Update/Delete return the
// affected resource; List returns a sequence of resources.

// WorkflowClient manages workflows and their runs.
type WorkflowClient interface {
	GetWorkflow(ctx context.Context, identifier, version string) (value.Value, error)
	ListWorkflows(ctx context.Context, version string) (*value.List, error)
	CreateWorkflow(ctx context.Context, definition *value.Map, version string) (value.Value, error)
	UpdateWorkflow(ctx context.Context, identifier string, definition *value.Map, version string) (value.Value, error)
	DeleteWorkflow(ctx context.Context, identifier, version string) (value.Value, error)

	GetWorkflowRun(ctx context.Context, identifier, version string) (value.Value, error)
	// ListWorkflowRuns lists the most recent runs, optionally restricted to one
	// workflow.
	ListWorkflowRuns(ctx context.Context, workflow string, limit int, version string) (*value.List, error)
	DeleteWorkflowRun(ctx context.Context, identifier, version string) (value.Value, error)
	RunWorkflow(ctx context.Context, identifier string, req RunRequest, version string) (value.Value, error)
}

// RunRequest carries the parameters of a workflow execution.
type RunRequest struct {
	Input     *value.Map
	Wait      bool
	Namespace string
}

// TriggerClient manages trigger rules.
type TriggerClient interface {
	GetTrigger(ctx context.Context, identifier, version string) (value.Value, error)
	ListTriggers(ctx context.Context, version string) (*value.List, error)
	CreateTrigger(ctx context.Context, definition *value.Map, version string) (value.Value, error)
	UpdateTrigger(ctx context.Context, identifier string, definition *value.Map, version string) (value.Value, error)
	DeleteTrigger(ctx context.Context, identifier, version string) (value.Value, error)
}

// ConfigClient manages configs.
type ConfigClient interface {
	GetConfig(ctx context.Context, identifier, version string) (value.Value, error)
	ListConfigs(ctx context.Context, version string) (*value.List, error)
	CreateConfig(ctx context.Context, definition *value.Map, version string) (value.Value, error)
	UpdateConfig(ctx context.Context, identifier string, definition *value.Map, version string) (value.Value, error)
	DeleteConfig(ctx context.Context, identifier, version string) (value.Value, error)
}

// PluginClient reads installed plugins.
type PluginClient interface {
	GetPlugin(ctx context.Context, identifier, version string) (value.Value, error)
	ListPlugins(ctx context.Context, version string) (*value.List, error)
}

// SystemClient reads server health.
type SystemClient interface {
	Status(ctx context.Context, version string) (value.Value, error)
	Ping(ctx context.Context) (value.Value, error)
	// Metrics maps each metric name to its data points.
	Metrics(ctx context.Context, q MetricsQuery, version string) (*value.Map, error)
}

// Full names of the metrics a Flowdapt server records.
const (
	MetricCPUTime    = "process.runtime.cpython.cpu_time"
	MetricMemory     = "process.runtime.cpython.memory"
	MetricAPILatency = "api_request_latency"
)

// MetricsQuery selects the data points of one metric.
type MetricsQuery struct {
	// Name is the full metric name, e.g. api_request_latency.
	Name string
	// Start and End bound the time window; zero values leave it open.
	Start time.Time
	End   time.Time
	// MaxLength caps the number of points; 0 means no cap.
	MaxLength int
}

// Remote groups the clients of one server.
type Remote struct {
	Workflows WorkflowClient
	Triggers  TriggerClient
	Configs   ConfigClient
	Plugins   PluginClient
	System    SystemClient

	// Closer releases backend resources; may be nil.
	Closer io.Closer
}

// Close releases backend resources.
func (r *Remote) Close() error {
	if r == nil || r.Closer == nil {
		return nil
	}
	return r.Closer.Close()
}
