package local

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/emergentmethods/flowctl/domain"
	"github.com/emergentmethods/flowctl/domain/model"
	"github.com/emergentmethods/flowctl/domain/value"
	"github.com/emergentmethods/flowctl/internal/naming"
)

func (b *Backend) GetWorkflow(ctx context.Context, identifier, version string) (value.Value, error) {
	if err := checkVersion(model.KindWorkflow, version); err != nil {
		return nil, err
	}
	return b.get(ctx, model.KindWorkflow, identifier)
}

func (b *Backend) ListWorkflows(ctx context.Context, version string) (*value.List, error) {
	if err := checkVersion(model.KindWorkflow, version); err != nil {
		return nil, err
	}
	return b.list(ctx, model.KindWorkflow)
}

func (b *Backend) CreateWorkflow(ctx context.Context, definition *value.Map, version string) (value.Value, error) {
	if err := checkVersion(model.KindWorkflow, version); err != nil {
		return nil, err
	}
	return b.create(ctx, model.KindWorkflow, definition)
}

func (b *Backend) UpdateWorkflow(ctx context.Context, identifier string, definition *value.Map, version string) (value.Value, error) {
	if err := checkVersion(model.KindWorkflow, version); err != nil {
		return nil, err
	}
	return b.update(ctx, model.KindWorkflow, identifier, definition)
}

func (b *Backend) DeleteWorkflow(ctx context.Context, identifier, version string) (value.Value, error) {
	if err := checkVersion(model.KindWorkflow, version); err != nil {
		return nil, err
	}
	return b.delete(ctx, model.KindWorkflow, identifier)
}

func (b *Backend) GetWorkflowRun(ctx context.Context, identifier, version string) (value.Value, error) {
	if err := checkVersion(model.KindWorkflowRun, version); err != nil {
		return nil, err
	}
	return b.get(ctx, model.KindWorkflowRun, identifier)
}

// ListWorkflowRuns returns the newest runs first.
func (b *Backend) ListWorkflowRuns(ctx context.Context, workflow string, limit int, version string) (*value.List, error) {
	if err := checkVersion(model.KindWorkflowRun, version); err != nil {
		return nil, err
	}
	if workflow != "" {
		wf, err := b.find(ctx, model.KindWorkflow, workflow)
		if err != nil {
			return nil, err
		}
		workflow = wf.Name
	}
	docs, err := b.store.List(ctx, model.KindWorkflowRun)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(docs)-1; i < j; i, j = i+1, j-1 {
		docs[i], docs[j] = docs[j], docs[i]
	}
	sort.SliceStable(docs, func(i, j int) bool { return docs[i].CreatedAt.After(docs[j].CreatedAt) })
	out := value.NewList()
	for _, d := range docs {
		if workflow != "" && value.PathString(d.Body, "workflow") != workflow {
			continue
		}
		if limit > 0 && out.Len() >= limit {
			break
		}
		out.Append(d.Body)
	}
	return out, nil
}

func (b *Backend) DeleteWorkflowRun(ctx context.Context, identifier, version string) (value.Value, error) {
	if err := checkVersion(model.KindWorkflowRun, version); err != nil {
		return nil, err
	}
	return b.delete(ctx, model.KindWorkflowRun, identifier)
}

// RunWorkflow records a run of the workflow. The sandbox executes nothing: a
// waited run finishes at once with its input as result, otherwise it stays
// pending.
func (b *Backend) RunWorkflow(ctx context.Context, identifier string, req domain.RunRequest, version string) (value.Value, error) {
	if err := checkVersion(model.KindWorkflowRun, version); err != nil {
		return nil, err
	}
	wf, err := b.find(ctx, model.KindWorkflow, identifier)
	if err != nil {
		return nil, err
	}
	name, err := naming.RunName(wf.Name, b.opts.Now())
	if err != nil {
		return nil, err
	}
	id := uuid.NewString()
	started := b.now()
	input := req.Input.Clone()
	if input == nil {
		input = value.NewMap()
	}
	namespace := req.Namespace
	if namespace == "" {
		namespace = "default"
	}

	run := value.NewMap().
		Set("uid", value.String(id)).
		Set("name", value.String(name)).
		Set("workflow", value.String(wf.Name)).
		Set("namespace", value.String(namespace)).
		Set("source", value.String("flowctl")).
		Set("started_at", value.String(started))
	if req.Wait {
		run.Set("finished_at", value.String(b.now())).
			Set("state", value.String("finished")).
			Set("result", input)
	} else {
		run.Set("finished_at", value.Null{}).
			Set("state", value.String("pending")).
			Set("result", value.Null{})
	}

	now := b.opts.Now()
	if err := b.store.Create(ctx, &model.Document{
		ID: id, Kind: model.KindWorkflowRun, Name: name, Body: run, CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		return nil, err
	}
	return run, nil
}

var _ domain.WorkflowClient = (*Backend)(nil)
