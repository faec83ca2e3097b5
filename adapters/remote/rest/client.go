// Package rest is the HTTP client of the Flowdapt REST API.
package rest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/emergentmethods/flowctl/domain"
	"github.com/emergentmethods/flowctl/domain/model"
	"github.com/emergentmethods/flowctl/domain/value"
	"github.com/emergentmethods/flowctl/internal/logging"
)

// VersionHeader carries the schema version of a request.
const VersionHeader = "X-Flowdapt-Version"

// Options tune a Client.
type Options struct {
	HTTPClient *http.Client
	UserAgent  string
	// Timeout applies when HTTPClient is nil.
	Timeout time.Duration
}

// Client talks to one Flowdapt server.
type Client struct {
	base      *url.URL
	http      *http.Client
	userAgent string
}

// New returns a client for baseURL (http or https).
func New(baseURL string, opts Options) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported server url scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("server url %q has no host", baseURL)
	}
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout == 0 {
			timeout = 60 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = "flowctl"
	}
	return &Client{base: u, http: hc, userAgent: ua}, nil
}

// Remote exposes the client through the domain clients.
func (c *Client) Remote() *domain.Remote {
	return &domain.Remote{
		Workflows: c,
		Triggers:  &triggers{c},
		Configs:   &configs{c},
		Plugins:   c,
		System:    c,
	}
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// do sends one request and decodes the JSON answer. Responses with status
// >= 400 become *model.RemoteError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body value.Value, version string) (value.Value, error) {
	var rd io.Reader
	if body != nil {
		b, err := value.MarshalJSON(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), rd)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if version != "" {
		req.Header.Set(VersionHeader, version)
	}

	logger := logging.FromContext(ctx)
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	logger.Debug(ctx, "http", "method", method, "path", path, "status", resp.StatusCode, "elapsed", time.Since(start).String())

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: read body: %w", method, path, err)
	}
	if resp.StatusCode >= 400 {
		return nil, &model.RemoteError{StatusCode: resp.StatusCode, Message: errorDetail(raw)}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return value.Null{}, nil
	}
	v, err := value.DecodeJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return v, nil
}

// errorDetail extracts the "detail" member of an error body, falling back to
// the raw text.
func errorDetail(raw []byte) string {
	text := strings.TrimSpace(string(raw))
	v, err := value.DecodeJSON(raw)
	if err != nil {
		return text
	}
	d, ok := value.Path(v, "detail")
	if !ok {
		return text
	}
	if s, ok := value.Text(d); ok {
		return s
	}
	b, err := value.MarshalJSON(d)
	if err != nil {
		return text
	}
	return string(b)
}

func asList(v value.Value, err error) (*value.List, error) {
	if err != nil {
		return nil, err
	}
	switch x := v.(type) {
	case *value.List:
		return x, nil
	case value.Null:
		return value.NewList(), nil
	}
	return nil, fmt.Errorf("expected a JSON array, got %s", value.TypeOf(v))
}

func itemPath(collection, identifier string) string {
	return collection + "/" + url.PathEscape(identifier)
}

const (
	pathWorkflow = "/api/workflow"
	pathRun      = "/api/workflow/run"
	pathTrigger  = "/api/trigger"
	pathConfig   = "/api/config"
	pathPlugin   = "/api/plugin"
	pathStatus   = "/api/system/status"
	pathPing     = "/api/ping"
	pathMetrics  = "/api/metrics"
)

func (c *Client) GetWorkflow(ctx context.Context, identifier, version string) (value.Value, error) {
	return c.do(ctx, http.MethodGet, itemPath(pathWorkflow, identifier), nil, nil, version)
}

func (c *Client) ListWorkflows(ctx context.Context, version string) (*value.List, error) {
	return asList(c.do(ctx, http.MethodGet, pathWorkflow, nil, nil, version))
}

func (c *Client) CreateWorkflow(ctx context.Context, definition *value.Map, version string) (value.Value, error) {
	return c.do(ctx, http.MethodPost, pathWorkflow, nil, definition, version)
}

func (c *Client) UpdateWorkflow(ctx context.Context, identifier string, definition *value.Map, version string) (value.Value, error) {
	return c.do(ctx, http.MethodPut, itemPath(pathWorkflow, identifier), nil, definition, version)
}

func (c *Client) DeleteWorkflow(ctx context.Context, identifier, version string) (value.Value, error) {
	return c.do(ctx, http.MethodDelete, itemPath(pathWorkflow, identifier), nil, nil, version)
}

func (c *Client) GetWorkflowRun(ctx context.Context, identifier, version string) (value.Value, error) {
	return c.do(ctx, http.MethodGet, itemPath(pathRun, identifier), nil, nil, version)
}

func (c *Client) ListWorkflowRuns(ctx context.Context, workflow string, limit int, version string) (*value.List, error) {
	q := url.Values{}
	if workflow != "" {
		q.Set("workflow", workflow)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return asList(c.do(ctx, http.MethodGet, pathRun, q, nil, version))
}

func (c *Client) DeleteWorkflowRun(ctx context.Context, identifier, version string) (value.Value, error) {
	return c.do(ctx, http.MethodDelete, itemPath(pathRun, identifier), nil, nil, version)
}

func (c *Client) RunWorkflow(ctx context.Context, identifier string, req domain.RunRequest, version string) (value.Value, error) {
	q := url.Values{}
	q.Set("wait", strconv.FormatBool(req.Wait))
	if req.Namespace != "" {
		q.Set("namespace", req.Namespace)
	}
	input := req.Input
	if input == nil {
		input = value.NewMap()
	}
	return c.do(ctx, http.MethodPost, itemPath(pathWorkflow, identifier)+"/run", q, input, version)
}

func (c *Client) GetPlugin(ctx context.Context, identifier, version string) (value.Value, error) {
	return c.do(ctx, http.MethodGet, itemPath(pathPlugin, identifier), nil, nil, version)
}

func (c *Client) ListPlugins(ctx context.Context, version string) (*value.List, error) {
	return asList(c.do(ctx, http.MethodGet, pathPlugin, nil, nil, version))
}

func (c *Client) Status(ctx context.Context, version string) (value.Value, error) {
	return c.do(ctx, http.MethodGet, pathStatus, nil, nil, version)
}

func (c *Client) Ping(ctx context.Context) (value.Value, error) {
	return c.do(ctx, http.MethodGet, pathPing, nil, nil, "")
}

func (c *Client) Metrics(ctx context.Context, mq domain.MetricsQuery, version string) (*value.Map, error) {
	q := url.Values{}
	if mq.Name != "" {
		q.Set("name", mq.Name)
	}
	if !mq.Start.IsZero() {
		q.Set("start_time", mq.Start.Format(time.RFC3339))
	}
	if !mq.End.IsZero() {
		q.Set("end_time", mq.End.Format(time.RFC3339))
	}
	if mq.MaxLength > 0 {
		q.Set("max_length", strconv.Itoa(mq.MaxLength))
	}
	v, err := c.do(ctx, http.MethodGet, pathMetrics, q, nil, version)
	if err != nil {
		return nil, err
	}
	switch x := v.(type) {
	case *value.Map:
		return x, nil
	case value.Null:
		return value.NewMap(), nil
	}
	return nil, fmt.Errorf("expected a JSON object, got %s", value.TypeOf(v))
}

type triggers struct{ c *Client }

func (t *triggers) GetTrigger(ctx context.Context, identifier, version string) (value.Value, error) {
	return t.c.do(ctx, http.MethodGet, itemPath(pathTrigger, identifier), nil, nil, version)
}

func (t *triggers) ListTriggers(ctx context.Context, version string) (*value.List, error) {
	return asList(t.c.do(ctx, http.MethodGet, pathTrigger, nil, nil, version))
}

func (t *triggers) CreateTrigger(ctx context.Context, definition *value.Map, version string) (value.Value, error) {
	return t.c.do(ctx, http.MethodPost, pathTrigger, nil, definition, version)
}

func (t *triggers) UpdateTrigger(ctx context.Context, identifier string, definition *value.Map, version string) (value.Value, error) {
	return t.c.do(ctx, http.MethodPut, itemPath(pathTrigger, identifier), nil, definition, version)
}

func (t *triggers) DeleteTrigger(ctx context.Context, identifier, version string) (value.Value, error) {
	return t.c.do(ctx, http.MethodDelete, itemPath(pathTrigger, identifier), nil, nil, version)
}

type configs struct{ c *Client }

func (s *configs) GetConfig(ctx context.Context, identifier, version string) (value.Value, error) {
	return s.c.do(ctx, http.MethodGet, itemPath(pathConfig, identifier), nil, nil, version)
}

func (s *configs) ListConfigs(ctx context.Context, version string) (*value.List, error) {
	return asList(s.c.do(ctx, http.MethodGet, pathConfig, nil, nil, version))
}

func (s *configs) CreateConfig(ctx context.Context, definition *value.Map, version string) (value.Value, error) {
	return s.c.do(ctx, http.MethodPost, pathConfig, nil, definition, version)
}

func (s *configs) UpdateConfig(ctx context.Context, identifier string, definition *value.Map, version string) (value.Value, error) {
	return s.c.do(ctx, http.MethodPut, itemPath(pathConfig, identifier), nil, definition, version)
}

func (s *configs) DeleteConfig(ctx context.Context, identifier, version string) (value.Value, error) {
	return s.c.do(ctx, http.MethodDelete, itemPath(pathConfig, identifier), nil, nil, version)
}

var (
	_ domain.WorkflowClient = (*Client)(nil)
	_ domain.TriggerClient  = (*triggers)(nil)
	_ domain.ConfigClient   = (*configs)(nil)
	_ domain.PluginClient   = (*Client)(nil)
	_ domain.SystemClient   = (*Client)(nil)
)
