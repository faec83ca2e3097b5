package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emergentmethods/flowctl/domain/model"
	"github.com/emergentmethods/flowctl/domain/value"
	"github.com/emergentmethods/flowctl/internal/cliargs"
	"github.com/emergentmethods/flowctl/internal/printer"
	"github.com/emergentmethods/flowctl/internal/query"
	"github.com/emergentmethods/flowctl/usecase/resource"
)

// resourceArgs are the positional and keyword arguments of a resource command.
type resourceArgs struct {
	Kind       model.Kind
	Plural     bool
	Identifier string
	Extra      []string
	Kwargs     *value.Map
}

// parseResourceArgs reads KIND [IDENTIFIER] [EXTRA...] [--key value ...].
func parseResourceArgs(cmd *cobra.Command) (*resourceArgs, error) {
	parsed, err := cliargs.Parse(passthroughArgs(cmd))
	if err != nil {
		return nil, err
	}
	pos := parsed.Positional
	if len(pos) == 0 {
		return nil, fmt.Errorf("missing resource kind")
	}
	kind, plural, err := model.Normalize(pos[0])
	if err != nil {
		return nil, err
	}
	ra := &resourceArgs{Kind: kind, Plural: plural, Kwargs: parsed.Keywords}
	if len(pos) > 1 {
		ra.Identifier = pos[1]
	}
	if len(pos) > 2 {
		ra.Extra = pos[2:]
	}
	return ra, nil
}

func resourceID(kind model.Kind, identifier string) string {
	if identifier == "" {
		return kind.String()
	}
	return kind.String() + "/" + identifier
}

func newCmdGet() *cobra.Command {
	var format, sel string
	cmd := &cobra.Command{
		Use:   "get KIND [IDENTIFIER] [--key value ...]",
		Short: "Get one or more resources of a specific kind",
		Long: `Get one or more resources of a specific kind.

A plural kind (workflows, runs, triggers, configs, plugins) lists resources,
a singular kind gets one. Additional --key value arguments are passed to the
operation, for example "get runs my-workflow --limit 5". The command exits
with status 1 when nothing is found.`,
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			ra, err := parseResourceArgs(cmd)
			if err != nil {
				return err
			}
			f, err := printer.ParseFormat(format)
			if err != nil {
				return err
			}
			var q *query.Query
			if sel != "" {
				if q, err = query.Compile(sel); err != nil {
					return err
				}
			}

			uc, err := buildResourceUseCase(cmd)
			if err != nil {
				return err
			}
			defer uc.Remote.Close()

			ctx, cleanup := withCmdRunLogger(cmd.Context(), "get", resourceID(ra.Kind, ra.Identifier))
			defer func() { cleanup(err) }()

			var res value.Value
			if ra.Plural {
				out, err := uc.List(ctx, &resource.ListInput{
					Kind:       ra.Kind.String(),
					Identifier: ra.Identifier,
					Args:       ra.Extra,
					Kwargs:     ra.Kwargs,
				})
				if err != nil {
					return err
				}
				res = out.Resources
			} else {
				out, err := uc.Get(ctx, &resource.GetInput{
					Kind:       ra.Kind.String(),
					Identifier: ra.Identifier,
					Args:       ra.Extra,
					Kwargs:     ra.Kwargs,
				})
				if err != nil {
					return err
				}
				res = out.Resource
			}
			if query.Empty(res) {
				return ExitCodeError{Code: 1}
			}

			if q != nil {
				if f == printer.FormatTable {
					f = printer.FormatJSON
				}
				if res, err = q.Search(res); err != nil {
					return err
				}
				if query.Empty(res) {
					return ExitCodeError{Code: 1}
				}
			}
			return printer.New(cmd.OutOrStdout()).Resources(ra.Kind, res, f)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(printer.FormatTable), "Output format (table|json|yaml|raw)")
	cmd.Flags().StringVar(&sel, "select", "", "JMESPath query applied to the result; table output becomes json")
	return cmd
}
