package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/emergentmethods/flowctl/domain/model"
	"github.com/emergentmethods/flowctl/internal/definition"
	"github.com/emergentmethods/flowctl/internal/printer"
	"github.com/emergentmethods/flowctl/usecase/resource"
)

func newCmdApply() *cobra.Command {
	var paths []string
	cmd := &cobra.Command{
		Use:   "apply -p PATH...",
		Short: "Apply one or more resource definition files",
		Long: `Apply one or more resource definition files.

Each path is a file or a directory searched recursively for .yaml, .yml and
.json files. Resources that exist are updated, the others created.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
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

				ctx, cleanup := withCmdRunLogger(cmd.Context(), "apply", strings.Join(paths, ","))
				out, err := uc.Apply(ctx, &resource.DefinitionsInput{Definitions: defs})
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
		},
	}
	cmd.Flags().StringArrayVarP(&paths, "path", "p", nil, "File or directory containing resource definitions (repeatable)")
	_ = cmd.MarkFlagRequired("path")
	return cmd
}

// loadDefinitions expands paths and parses the definition files found. Paths
// that do not exist, files that are not definitions and files that fail to
// parse are reported on w and set failed.
func loadDefinitions(w io.Writer, paths []string) (defs []*model.Definition, failed bool, err error) {
	files, notFound, err := definition.Expand(paths)
	if err != nil {
		return nil, false, err
	}
	for _, p := range notFound {
		fmt.Fprintln(w, printer.Error("File not found: "+p))
		failed = true
	}
	candidates, others := definition.Filter(files)
	for _, p := range others {
		fmt.Fprintln(w, printer.Error("File not resource definition: "+p))
		failed = true
	}
	for _, p := range candidates {
		d, err := definition.ReadFile(p)
		if err != nil {
			fmt.Fprintln(w, printer.Error(err.Error()))
			failed = true
			continue
		}
		defs = append(defs, d)
	}
	return defs, failed, nil
}

// reportDefinitions prints one line per definition result and reports whether
// any failed.
func reportDefinitions(stdout, stderr io.Writer, out *resource.DefinitionsOutput) (failed bool) {
	for _, r := range out.Results {
		switch {
		case errors.Is(r.Err, resource.ErrDefinitionName):
			fmt.Fprintln(stderr, printer.Error("Resource name not found: "+r.Source))
			failed = true
		case r.Err != nil:
			fmt.Fprintln(stderr, printer.Error(fmt.Sprintf("%s %s", printer.Ref(r.Kind.String(), r.Name), r.Err)))
			failed = true
		default:
			fmt.Fprintf(stdout, "%s %s\n", printer.Ref(r.Kind.String(), r.Name), r.Action)
		}
	}
	return failed
}
