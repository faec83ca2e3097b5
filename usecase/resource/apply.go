package resource

import (
	"context"
	"errors"
	"fmt"

	utilerrors "k8s.io/apimachinery/pkg/util/errors"

	"github.com/emergentmethods/flowctl/domain/model"
	"github.com/emergentmethods/flowctl/domain/value"
)

// Action names what happened to one definition.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
	ActionFailed  Action = "failed"
)

// ErrDefinitionName is returned for definitions without a resource name.
var ErrDefinitionName = errors.New("resource name not found")

// DefinitionResult reports the outcome for one definition.
type DefinitionResult struct {
	Source string     `json:"source"`
	Kind   model.Kind `json:"kind"`
	Name   string     `json:"name"`
	Action Action     `json:"action"`
	Err    error      `json:"-"`
}

// DefinitionsInput lists definitions to apply or delete.
type DefinitionsInput struct {
	Definitions []*model.Definition
}

// DefinitionsOutput holds one result per definition, in input order.
type DefinitionsOutput struct {
	Results []DefinitionResult
}

// Err aggregates the failures of all definitions, nil when all succeeded.
func (o *DefinitionsOutput) Err() error {
	var errs []error
	for _, r := range o.Results {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Source, r.Err))
		}
	}
	return utilerrors.NewAggregate(errs)
}

// Apply creates each definition that does not exist yet and updates the ones
// that do. A failing definition does not stop the others.
func (u *UseCase) Apply(ctx context.Context, in *DefinitionsInput) (*DefinitionsOutput, error) {
	out := &DefinitionsOutput{}
	for _, d := range in.Definitions {
		r := DefinitionResult{Source: d.Source, Kind: d.Kind, Name: d.Name()}
		r.Action, r.Err = u.applyOne(ctx, d, r.Name)
		out.Results = append(out.Results, r)
		if err := ctx.Err(); err != nil {
			return out, err
		}
	}
	return out, nil
}

func (u *UseCase) applyOne(ctx context.Context, d *model.Definition, name string) (Action, error) {
	if name == "" {
		return ActionFailed, ErrDefinitionName
	}
	existing, err := u.Dispatch(ctx, &Request{Kind: d.Kind, Operation: model.OperationGet, Identifier: name})
	if err != nil {
		return ActionFailed, err
	}
	if !value.IsNull(existing) {
		if _, err := u.Dispatch(ctx, &Request{
			Kind:       d.Kind,
			Operation:  model.OperationUpdate,
			Identifier: name,
			Payload:    d.Body,
			Version:    d.Version,
		}); err != nil {
			return ActionFailed, err
		}
		return ActionUpdated, nil
	}
	if _, err := u.Dispatch(ctx, &Request{
		Kind:      d.Kind,
		Operation: model.OperationCreate,
		Payload:   d.Body,
		Version:   d.Version,
	}); err != nil {
		return ActionFailed, err
	}
	return ActionCreated, nil
}

// DeleteDefinitions deletes the resource named by each definition.
func (u *UseCase) DeleteDefinitions(ctx context.Context, in *DefinitionsInput) (*DefinitionsOutput, error) {
	out := &DefinitionsOutput{}
	for _, d := range in.Definitions {
		r := DefinitionResult{Source: d.Source, Kind: d.Kind, Name: d.Name(), Action: ActionDeleted}
		if r.Name == "" {
			r.Action, r.Err = ActionFailed, ErrDefinitionName
		} else if _, err := u.Dispatch(ctx, &Request{Kind: d.Kind, Operation: model.OperationDelete, Identifier: r.Name}); err != nil {
			r.Action, r.Err = ActionFailed, err
		}
		out.Results = append(out.Results, r)
		if err := ctx.Err(); err != nil {
			return out, err
		}
	}
	return out, nil
}
