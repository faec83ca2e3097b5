package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/emergentmethods/flowctl/internal/printer"
	"github.com/emergentmethods/flowctl/usecase/resource"
)

func newCmdPatch() *cobra.Command {
	var schemaVersion string
	cmd := &cobra.Command{
		Use:   "patch KIND IDENTIFIER [-s VERSION] --key value ...",
		Short: "Patch a resource given a kind, identifier and set of options",
		Long: `Patch a resource given a kind, identifier and set of options.

Each --key value pair sets a nested key path such as --spec.stages[0].target x
or --metadata.annotations.team data. Values spelling a boolean or a number are
stored as such. The patch is deep merged into the current resource.`,
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			ra, err := parseResourceArgs(cmd)
			if err != nil {
				return err
			}
			if len(ra.Extra) > 0 {
				return fmt.Errorf("unexpected arguments: %s", strings.Join(ra.Extra, " "))
			}

			uc, err := buildResourceUseCase(cmd)
			if err != nil {
				return err
			}
			defer uc.Remote.Close()

			ctx, cleanup := withCmdRunLogger(cmd.Context(), "patch", resourceID(ra.Kind, ra.Identifier))
			defer func() { cleanup(err) }()

			out, err := uc.Patch(ctx, &resource.PatchInput{
				Kind:       ra.Kind.String(),
				Identifier: ra.Identifier,
				Patch:      ra.Kwargs,
				Version:    schemaVersion,
			})
			if err != nil {
				return err
			}
			if !out.Found {
				return ExitCodeError{Code: 1}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s updated\n", printer.Ref(out.Kind.String(), out.Name))
			return nil
		},
	}
	cmd.Flags().StringVarP(&schemaVersion, "schema-version", "s", "", "Schema version of the resource")
	return cmd
}
