package resource

import (
	"context"

	"github.com/emergentmethods/flowctl/domain/model"
	"github.com/emergentmethods/flowctl/domain/value"
)

// GetInput identifies one resource.
type GetInput struct {
	// Kind accepts any singular or plural alias.
	Kind       string     `json:"kind"`
	Identifier string     `json:"identifier"`
	Args       []string   `json:"args,omitempty"`
	Kwargs     *value.Map `json:"kwargs,omitempty"`
	Version    string     `json:"version,omitempty"`
}

// GetOutput wraps the fetched resource.
type GetOutput struct {
	Kind model.Kind `json:"kind"`
	// Resource is nil when the remote has no such resource.
	Resource value.Value `json:"resource"`
}

// Found reports whether the resource exists.
func (o *GetOutput) Found() bool { return !value.IsNull(o.Resource) }

// Get fetches one resource.
func (u *UseCase) Get(ctx context.Context, in *GetInput) (*GetOutput, error) {
	kind, _, err := model.Normalize(in.Kind)
	if err != nil {
		return nil, err
	}
	res, err := u.Dispatch(ctx, &Request{
		Kind:       kind,
		Operation:  model.OperationGet,
		Identifier: in.Identifier,
		Args:       in.Args,
		Kwargs:     in.Kwargs,
		Version:    in.Version,
	})
	if err != nil {
		return nil, err
	}
	return &GetOutput{Kind: kind, Resource: res}, nil
}
