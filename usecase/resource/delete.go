package resource

import (
	"context"

	"github.com/emergentmethods/flowctl/domain/model"
	"github.com/emergentmethods/flowctl/domain/value"
)

// DeleteInput identifies the resource to delete.
type DeleteInput struct {
	Kind       string     `json:"kind"`
	Identifier string     `json:"identifier"`
	Args       []string   `json:"args,omitempty"`
	Kwargs     *value.Map `json:"kwargs,omitempty"`
	Version    string     `json:"version,omitempty"`
}

// DeleteOutput wraps the deleted resource as returned by the remote; nil when
// it did not exist.
type DeleteOutput struct {
	Kind     model.Kind  `json:"kind"`
	Resource value.Value `json:"resource"`
}

// Name returns the name of the deleted resource, falling back to identifier.
func (o *DeleteOutput) Name(identifier string) string {
	if n := model.ResourceName(o.Kind, o.Resource); n != "" {
		return n
	}
	return identifier
}

// Delete deletes a resource. Deleting an absent resource is not an error.
func (u *UseCase) Delete(ctx context.Context, in *DeleteInput) (*DeleteOutput, error) {
	kind, _, err := model.Normalize(in.Kind)
	if err != nil {
		return nil, err
	}
	res, err := u.Dispatch(ctx, &Request{
		Kind:       kind,
		Operation:  model.OperationDelete,
		Identifier: in.Identifier,
		Args:       in.Args,
		Kwargs:     in.Kwargs,
		Version:    in.Version,
	})
	if err != nil {
		return nil, err
	}
	return &DeleteOutput{Kind: kind, Resource: res}, nil
}
