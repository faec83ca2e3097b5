package resource

import (
	"context"
	"errors"
	"fmt"

	"github.com/emergentmethods/flowctl/domain/model"
	"github.com/emergentmethods/flowctl/domain/value"
)

// Request is a generic operation on one kind.
type Request struct {
	Kind       model.Kind
	Operation  model.Operation
	Identifier string
	// Payload is the resource definition for create and update.
	Payload *value.Map
	// Args and Kwargs are extra arguments, usually parsed from the command line.
	Args    []string
	Kwargs  *value.Map
	Version string
}

// Dispatch resolves the binding for the request, resolves the schema version,
// binds the arguments and calls the remote. Nothing is sent when binding fails.
// A not found answer to get or delete yields a nil result and no error.
func (u *UseCase) Dispatch(ctx context.Context, req *Request) (value.Value, error) {
	binding, err := u.table().Lookup(req.Kind, req.Operation)
	if err != nil {
		return nil, err
	}
	kwargs := req.Kwargs.Clone()
	if kwargs == nil {
		kwargs = value.NewMap()
	}
	explicit, err := explicitVersion(req, kwargs)
	if err != nil {
		return nil, err
	}
	version, err := model.ResolveVersion(req.Kind, explicit)
	if err != nil {
		return nil, err
	}

	var args []value.Value
	switch req.Operation {
	case model.OperationGet, model.OperationDelete, model.OperationList:
		if req.Identifier != "" {
			args = append(args, value.String(req.Identifier))
		}
	case model.OperationCreate:
		if req.Payload != nil {
			args = append(args, req.Payload)
		}
	case model.OperationUpdate:
		if req.Identifier != "" {
			args = append(args, value.String(req.Identifier))
		}
		if req.Payload != nil {
			args = append(args, req.Payload)
		}
	}
	for _, a := range req.Args {
		args = append(args, value.String(a))
	}
	kwargs.Set("version", value.String(version))

	bound, err := binding.Signature.Bind(args, kwargs)
	if err != nil {
		var be *model.BindingError
		if errors.As(err, &be) {
			be.Kind, be.Operation = req.Kind, req.Operation
		}
		return nil, err
	}

	res, err := binding.Call(ctx, u.Remote, bound)
	if err != nil {
		if errors.Is(err, model.ErrRemoteNotFound) &&
			(req.Operation == model.OperationGet || req.Operation == model.OperationDelete) {
			return nil, nil
		}
		return nil, err
	}
	return res, nil
}

// explicitVersion returns the version asked for by the request, taking a
// version keyword out of kwargs. The keyword must be a single scalar and must
// agree with req.Version when both are given.
func explicitVersion(req *Request, kwargs *value.Map) (string, error) {
	v, ok := kwargs.Get("version")
	if !ok {
		return req.Version, nil
	}
	kwargs.Delete("version")
	fail := func(reason string) error {
		return &model.BindingError{Kind: req.Kind, Operation: req.Operation, Reason: reason}
	}
	text, ok := value.Text(v)
	if !ok {
		return "", fail(fmt.Sprintf("version must be a single value, got %s", value.TypeOf(v)))
	}
	if req.Version != "" && req.Version != text {
		return "", fail(fmt.Sprintf("conflicting versions %q and %q", req.Version, text))
	}
	return text, nil
}
