package system

import (
	"context"
	"fmt"

	"github.com/emergentmethods/flowctl/domain/value"
)

// StatusVersion is the schema version of the status endpoint.
const StatusVersion = "v1alpha1"

// StatusInput is reserved for future options.
type StatusInput struct{}

// StatusOutput combines the status report and the ping answer.
type StatusOutput struct {
	// Status holds name, system, os and services.
	Status value.Value `json:"status"`
	// Info holds version and api_version.
	Info value.Value `json:"info"`
}

// Status queries the server status and ping endpoints.
func (u *UseCase) Status(ctx context.Context, _ *StatusInput) (*StatusOutput, error) {
	status, err := u.Remote.System.Status(ctx, StatusVersion)
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}
	info, err := u.Remote.System.Ping(ctx)
	if err != nil {
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &StatusOutput{Status: status, Info: info}, nil
}
