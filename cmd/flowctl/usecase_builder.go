package main

import (
	"github.com/spf13/cobra"

	"github.com/emergentmethods/flowctl/usecase/resource"
	"github.com/emergentmethods/flowctl/usecase/system"
)

// buildResourceUseCase creates the resource use case for the current server.
// The caller closes uc.Remote.
func buildResourceUseCase(cmd *cobra.Command) (*resource.UseCase, error) {
	remote, err := buildRemote(cmd)
	if err != nil {
		return nil, err
	}
	return &resource.UseCase{Remote: remote}, nil
}

// buildSystemUseCase creates the system use case for the current server.
func buildSystemUseCase(cmd *cobra.Command) (*system.UseCase, error) {
	remote, err := buildRemote(cmd)
	if err != nil {
		return nil, err
	}
	return &system.UseCase{Remote: remote}, nil
}
