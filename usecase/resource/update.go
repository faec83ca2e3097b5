package resource

import (
	"context"

	"github.com/emergentmethods/flowctl/domain/model"
	"github.com/emergentmethods/flowctl/domain/value"
)

// UpdateInput replaces the definition of an existing resource.
type UpdateInput struct {
	Kind       string     `json:"kind"`
	Identifier string     `json:"identifier"`
	Definition *value.Map `json:"definition"`
	Args       []string   `json:"args,omitempty"`
	Kwargs     *value.Map `json:"kwargs,omitempty"`
	Version    string     `json:"version,omitempty"`
}

// UpdateOutput wraps the updated resource.
type UpdateOutput struct {
	Kind     model.Kind  `json:"kind"`
	Resource value.Value `json:"resource"`
}

// Update updates a resource.
func (u *UseCase) Update(ctx context.Context, in *UpdateInput) (*UpdateOutput, error) {
	kind, _, err := model.Normalize(in.Kind)
	if err != nil {
		return nil, err
	}
	res, err := u.Dispatch(ctx, &Request{
		Kind:       kind,
		Operation:  model.OperationUpdate,
		Identifier: in.Identifier,
		Payload:    in.Definition,
		Args:       in.Args,
		Kwargs:     in.Kwargs,
		Version:    in.Version,
	})
	if err != nil {
		return nil, err
	}
	return &UpdateOutput{Kind: kind, Resource: res}, nil
}
