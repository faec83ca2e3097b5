package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/emergentmethods/flowctl/internal/cliargs"
	"github.com/emergentmethods/flowctl/internal/printer"
	"github.com/emergentmethods/flowctl/usecase/resource"
)

var (
	errDeleteTarget = errors.New("either a resource kind and identifier or path must be provided")
	errDeleteBoth   = errors.New("either a resource kind and identifier or path must be provided, not both")
)

func newCmdDelete() *cobra.Command {
	var paths []string
	cmd := &cobra.Command{
		Use:   "delete [KIND IDENTIFIER] [-p PATH...] [--key value ...]",
		Short: "Delete one or more resources of a specific kind",
		Long: `Delete one or more resources of a specific kind.

Either name a resource by kind and identifier, or give definition files and
directories with -p to delete the resources they declare.`,
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			parsed, err := cliargs.Parse(passthroughArgs(cmd))
			if err != nil {
				return err
			}
			named := len(parsed.Positional) >= 2
			switch {
			case !named && len(paths) == 0:
				return errDeleteTarget
			case named && len(paths) > 0:
				return errDeleteBoth
			}

			if len(paths) > 0 {
				return deleteDefinitions(cmd, paths)
			}

			ra, err := parseResourceArgs(cmd)
			if err != nil {
				return err
			}
			uc, err := buildResourceUseCase(cmd)
			if err != nil {
				return err
			}
			defer uc.Remote.Close()

			ctx, cleanup := withCmdRunLogger(cmd.Context(), "delete", resourceID(ra.Kind, ra.Identifier))
			defer func() { cleanup(err) }()

			out, err := uc.Delete(ctx, &resource.DeleteInput{
				Kind:       ra.Kind.String(),
				Identifier: ra.Identifier,
				Args:       ra.Extra,
				Kwargs:     ra.Kwargs,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s deleted\n", printer.Ref(out.Kind.String(), out.Name(ra.Identifier)))
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&paths, "path", "p", nil, "File or directory containing resource definitions to delete (repeatable)")
	return cmd
}

func deleteDefinitions(cmd *cobra.Command, paths []string) (err error) {
	defs, failed, err := loadDefinitions(cmd.ErrOrStderr(), paths)
	if err != nil {
		return err
	}
	if len(defs) > 0 {
		uc, err := buildResourceUseCase(cmd)
		if err != nil {
			return err
		}
		defer uc.Remote.Close()

		ctx, cleanup := withCmdRunLogger(cmd.Context(), "delete", strings.Join(paths, ","))
		out, err := uc.DeleteDefinitions(ctx, &resource.DefinitionsInput{Definitions: defs})
		cleanup(err)
		if err != nil {
			return err
		}
		if reportDefinitions(cmd.OutOrStdout(), cmd.ErrOrStderr(), out) {
			failed = true
		}
	}
	if failed {
		return ExitCodeError{Code: 1}
	}
	return nil
}
