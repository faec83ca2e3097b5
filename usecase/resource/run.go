package resource

import (
	"context"

	"github.com/emergentmethods/flowctl/domain"
	"github.com/emergentmethods/flowctl/domain/model"
	"github.com/emergentmethods/flowctl/domain/value"
)

// Run states reported by the remote.
const (
	RunStateFinished = "finished"
	RunStateFailed   = "failed"
)

// RunInput selects a workflow and its input.
type RunInput struct {
	Identifier string     `json:"identifier"`
	Input      *value.Map `json:"input,omitempty"`
	Wait       bool       `json:"wait"`
	Namespace  string     `json:"namespace,omitempty"`
}

// RunOutput describes the workflow run.
type RunOutput struct {
	// Found is false when the workflow does not exist.
	Found    bool        `json:"found"`
	Workflow string      `json:"workflow"`
	Run      value.Value `json:"run"`
}

// Name returns the run name.
func (o *RunOutput) Name() string { return model.ResourceName(model.KindWorkflowRun, o.Run) }

// State returns the run state, e.g. "finished".
func (o *RunOutput) State() string { return value.PathString(o.Run, "state") }

// Result returns the run result, Null when absent.
func (o *RunOutput) Result() value.Value {
	if v, ok := value.Path(o.Run, "result"); ok {
		return v
	}
	return value.Null{}
}

// Finished reports whether the run ended successfully.
func (o *RunOutput) Finished() bool { return o.State() == RunStateFinished }

// Run executes a workflow by name or uid. Input strings are coerced to
// booleans and numbers where they spell one.
func (u *UseCase) Run(ctx context.Context, in *RunInput) (*RunOutput, error) {
	wf, err := u.Dispatch(ctx, &Request{Kind: model.KindWorkflow, Operation: model.OperationGet, Identifier: in.Identifier})
	if err != nil {
		return nil, err
	}
	if value.IsNull(wf) {
		return &RunOutput{Workflow: in.Identifier}, nil
	}
	uid := model.ResourceUID(model.KindWorkflow, wf)
	if uid == "" {
		uid = in.Identifier
	}
	version, err := model.LatestVersion(model.KindWorkflowRun)
	if err != nil {
		return nil, err
	}
	input, _ := value.Coerce(in.Input).(*value.Map)
	if input == nil {
		input = value.NewMap()
	}
	run, err := u.Remote.Workflows.RunWorkflow(ctx, uid, domain.RunRequest{
		Input:     input,
		Wait:      in.Wait,
		Namespace: in.Namespace,
	}, version)
	if err != nil {
		return nil, err
	}
	return &RunOutput{Found: true, Workflow: model.ResourceName(model.KindWorkflow, wf), Run: run}, nil
}
