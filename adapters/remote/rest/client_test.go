package rest

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emergentmethods/flowctl/domain"
	"github.com/emergentmethods/flowctl/domain/model"
	"github.com/emergentmethods/flowctl/domain/value"
)

type recorded struct {
	method  string
	path    string
	query   string
	version string
	body    string
}

func newTestClient(t *testing.T, status int, reply string) (*Client, *[]recorded) {
	t.Helper()
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		calls = append(calls, recorded{
			method:  r.Method,
			path:    r.URL.EscapedPath(),
			query:   r.URL.RawQuery,
			version: r.Header.Get(VersionHeader),
			body:    string(b),
		})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)
	c, err := New(srv.URL+"/", Options{HTTPClient: srv.Client()})
	require.NoError(t, err)
	return c, &calls
}

func TestNewRejectsBadURL(t *testing.T) {
	for _, u := range []string{"ftp://host", "localhost:8080", "http://"} {
		_, err := New(u, Options{})
		assert.Error(t, err, u)
	}
}

func TestGetWorkflow(t *testing.T) {
	c, calls := newTestClient(t, http.StatusOK, `{"metadata":{"name":"wf","uid":"1"},"spec":{}}`)

	got, err := c.GetWorkflow(context.Background(), "my wf", "v1alpha1")
	require.NoError(t, err)
	assert.Equal(t, "wf", value.PathString(got, "metadata", "name"))

	require.Len(t, *calls, 1)
	call := (*calls)[0]
	assert.Equal(t, http.MethodGet, call.method)
	assert.Equal(t, "/api/workflow/my%20wf", call.path)
	assert.Equal(t, "v1alpha1", call.version)
	assert.Empty(t, call.body)
}

func TestCreateSendsDefinition(t *testing.T) {
	c, calls := newTestClient(t, http.StatusCreated, `{"metadata":{"name":"t"}}`)
	def, err := value.DecodeJSON([]byte(`{"kind":"trigger_rule","metadata":{"name":"t"},"spec":{"type":"schedule"}}`))
	require.NoError(t, err)

	_, err = c.Remote().Triggers.CreateTrigger(context.Background(), def.(*value.Map), "v1alpha1")
	require.NoError(t, err)

	call := (*calls)[0]
	assert.Equal(t, http.MethodPost, call.method)
	assert.Equal(t, "/api/trigger", call.path)
	assert.Equal(t, `{"kind":"trigger_rule","metadata":{"name":"t"},"spec":{"type":"schedule"}}`, call.body)
}

func TestListWorkflowRunsQuery(t *testing.T) {
	c, calls := newTestClient(t, http.StatusOK, `[{"name":"r1"},{"name":"r2"}]`)

	got, err := c.ListWorkflowRuns(context.Background(), "wf", 5, "v1alpha1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Len())
	assert.Equal(t, "limit=5&workflow=wf", (*calls)[0].query)
}

func TestMetricsQuery(t *testing.T) {
	c, calls := newTestClient(t, http.StatusOK, `{"api_request_latency":[{"time_unix_nano":1}]}`)

	start := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	got, err := c.Metrics(context.Background(), domain.MetricsQuery{
		Name: "api_request_latency", Start: start, End: start.Add(time.Hour), MaxLength: 30,
	}, "v1alpha1")
	require.NoError(t, err)
	points, ok := got.Get("api_request_latency")
	require.True(t, ok)
	assert.Equal(t, 1, points.(*value.List).Len())

	call := (*calls)[0]
	assert.Equal(t, "/api/metrics", call.path)
	assert.Equal(t, "v1alpha1", call.version)
	assert.Equal(t, "end_time=2024-05-01T09%3A00%3A00Z&max_length=30&name=api_request_latency&start_time=2024-05-01T08%3A00%3A00Z", call.query)

	c, calls = newTestClient(t, http.StatusOK, `[]`)
	_, err = c.Metrics(context.Background(), domain.MetricsQuery{Name: "x"}, "v1alpha1")
	assert.ErrorContains(t, err, "expected a JSON object")
	assert.Equal(t, "name=x", (*calls)[0].query)
}

func TestListRejectsObject(t *testing.T) {
	c, _ := newTestClient(t, http.StatusOK, `{"not":"a list"}`)
	_, err := c.Remote().Configs.ListConfigs(context.Background(), "v1alpha1")
	assert.Error(t, err)
}

func TestRunWorkflow(t *testing.T) {
	c, calls := newTestClient(t, http.StatusOK, `{"name":"wf-1","state":"finished","result":1}`)
	input := value.NewMap().Set("x", value.Number("1"))

	got, err := c.RunWorkflow(context.Background(), "wf", domain.RunRequest{Input: input, Wait: true, Namespace: "ns"}, "v1alpha1")
	require.NoError(t, err)
	assert.Equal(t, "finished", value.PathString(got, "state"))

	call := (*calls)[0]
	assert.Equal(t, "/api/workflow/wf/run", call.path)
	assert.Equal(t, "namespace=ns&wait=true", call.query)
	assert.Equal(t, `{"x":1}`, call.body)
}

func TestErrorDetail(t *testing.T) {
	c, _ := newTestClient(t, http.StatusNotFound, `{"detail":"Workflow wf not found"}`)

	_, err := c.GetWorkflow(context.Background(), "wf", "v1alpha1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrRemoteNotFound))
	var re *model.RemoteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "Workflow wf not found", re.Message)
}

func TestErrorPlainBody(t *testing.T) {
	c, _ := newTestClient(t, http.StatusInternalServerError, "boom")

	_, err := c.Status(context.Background(), "v1alpha1")
	var re *model.RemoteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, http.StatusInternalServerError, re.StatusCode)
	assert.Equal(t, "boom", re.Message)
	assert.False(t, errors.Is(err, model.ErrRemoteNotFound))
}

func TestEmptyBodyIsNull(t *testing.T) {
	c, calls := newTestClient(t, http.StatusOK, "")

	got, err := c.Ping(context.Background())
	require.NoError(t, err)
	assert.True(t, value.IsNull(got))
	assert.Empty(t, (*calls)[0].version)
}
