package resource

import (
	"context"
	"fmt"

	"github.com/emergentmethods/flowctl/domain/model"
	"github.com/emergentmethods/flowctl/domain/value"
)

// PatchInput describes a partial update. Patch values given as strings are
// coerced to booleans and numbers where they spell one.
type PatchInput struct {
	Kind       string     `json:"kind"`
	Identifier string     `json:"identifier"`
	Patch      *value.Map `json:"patch"`
	Version    string     `json:"version,omitempty"`
}

// PatchOutput wraps the updated resource.
type PatchOutput struct {
	Kind model.Kind `json:"kind"`
	// Name is the resource name, or the identifier when the remote omits it.
	Name     string      `json:"name"`
	Resource value.Value `json:"resource"`
	// Found is false when the resource does not exist; nothing is updated then.
	Found bool `json:"found"`
}

// Patch fetches a resource, deep merges the patch into it and sends the
// result as an update.
func (u *UseCase) Patch(ctx context.Context, in *PatchInput) (*PatchOutput, error) {
	kind, _, err := model.Normalize(in.Kind)
	if err != nil {
		return nil, err
	}
	current, err := u.Dispatch(ctx, &Request{
		Kind:       kind,
		Operation:  model.OperationGet,
		Identifier: in.Identifier,
		Version:    in.Version,
	})
	if err != nil {
		return nil, err
	}
	if value.IsNull(current) {
		return &PatchOutput{Kind: kind, Name: in.Identifier}, nil
	}
	base, ok := current.(*value.Map)
	if !ok {
		return nil, fmt.Errorf("%s %q: remote returned a %s, not a mapping", kind, in.Identifier, value.TypeOf(current))
	}
	patch, _ := value.Coerce(in.Patch).(*value.Map)
	merged := value.Merge(base, patch)

	res, err := u.Dispatch(ctx, &Request{
		Kind:       kind,
		Operation:  model.OperationUpdate,
		Identifier: in.Identifier,
		Payload:    merged,
		Version:    in.Version,
	})
	if err != nil {
		return nil, err
	}
	name := model.ResourceName(kind, res)
	if name == "" {
		name = in.Identifier
	}
	return &PatchOutput{Kind: kind, Name: name, Resource: res, Found: true}, nil
}
