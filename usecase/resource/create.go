package resource

import (
	"context"

	"github.com/emergentmethods/flowctl/domain/model"
	"github.com/emergentmethods/flowctl/domain/value"
)

// CreateInput carries a new resource definition.
type CreateInput struct {
	Kind       string     `json:"kind"`
	Definition *value.Map `json:"definition"`
	Args       []string   `json:"args,omitempty"`
	Kwargs     *value.Map `json:"kwargs,omitempty"`
	Version    string     `json:"version,omitempty"`
}

// CreateOutput wraps the created resource.
type CreateOutput struct {
	Kind     model.Kind  `json:"kind"`
	Resource value.Value `json:"resource"`
}

// Create creates a resource.
func (u *UseCase) Create(ctx context.Context, in *CreateInput) (*CreateOutput, error) {
	kind, _, err := model.Normalize(in.Kind)
	if err != nil {
		return nil, err
	}
	res, err := u.Dispatch(ctx, &Request{
		Kind:      kind,
		Operation: model.OperationCreate,
		Payload:   in.Definition,
		Args:      in.Args,
		Kwargs:    in.Kwargs,
		Version:   in.Version,
	})
	if err != nil {
		return nil, err
	}
	return &CreateOutput{Kind: kind, Resource: res}, nil
}
