package resource

import (
	"context"

	"github.com/emergentmethods/flowctl/domain/model"
	"github.com/emergentmethods/flowctl/domain/value"
)

// ListInput selects resources of one kind. Identifier narrows the listing
// where the kind supports it (runs of one workflow).
type ListInput struct {
	Kind       string     `json:"kind"`
	Identifier string     `json:"identifier,omitempty"`
	Args       []string   `json:"args,omitempty"`
	Kwargs     *value.Map `json:"kwargs,omitempty"`
	Version    string     `json:"version,omitempty"`
}

// ListOutput holds the listed resources.
type ListOutput struct {
	Kind      model.Kind  `json:"kind"`
	Resources *value.List `json:"resources"`
}

// List lists resources of one kind.
func (u *UseCase) List(ctx context.Context, in *ListInput) (*ListOutput, error) {
	kind, _, err := model.Normalize(in.Kind)
	if err != nil {
		return nil, err
	}
	res, err := u.Dispatch(ctx, &Request{
		Kind:       kind,
		Operation:  model.OperationList,
		Identifier: in.Identifier,
		Args:       in.Args,
		Kwargs:     in.Kwargs,
		Version:    in.Version,
	})
	if err != nil {
		return nil, err
	}
	l, ok := res.(*value.List)
	if !ok || l == nil {
		l = value.NewList()
	}
	return &ListOutput{Kind: kind, Resources: l}, nil
}
