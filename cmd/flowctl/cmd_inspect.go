package main

import (
	"github.com/spf13/cobra"

	"github.com/emergentmethods/flowctl/domain/model"
	"github.com/emergentmethods/flowctl/internal/printer"
	"github.com/emergentmethods/flowctl/usecase/resource"
)

// newCmdInspect prints one resource in full as YAML.
func newCmdInspect() *cobra.Command {
	return &cobra.Command{
		Use:           "inspect KIND IDENTIFIER",
		Short:         "Describe a resource of a specific kind",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			kind, _, err := model.Normalize(args[0])
			if err != nil {
				return err
			}
			uc, err := buildResourceUseCase(cmd)
			if err != nil {
				return err
			}
			defer uc.Remote.Close()

			ctx, cleanup := withCmdRunLogger(cmd.Context(), "inspect", resourceID(kind, args[1]))
			defer func() { cleanup(err) }()

			out, err := uc.Get(ctx, &resource.GetInput{Kind: kind.String(), Identifier: args[1]})
			if err != nil {
				return err
			}
			if !out.Found() {
				return ExitCodeError{Code: 1}
			}
			return printer.New(cmd.OutOrStdout()).YAML(out.Resource)
		},
	}
}
