package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/emergentmethods/flowctl/domain/model"
	"github.com/emergentmethods/flowctl/internal/cliargs"
	"github.com/emergentmethods/flowctl/internal/printer"
	"github.com/emergentmethods/flowctl/usecase/resource"
)

func newCmdRun() *cobra.Command {
	var (
		format     string
		resultOnly bool
		wait       bool
		noWait     bool
		namespace  string
	)
	cmd := &cobra.Command{
		Use:   "run IDENTIFIER [--key value ...]",
		Short: "Execute a workflow by identifier with an optional input",
		Long: `Execute a workflow by identifier with an optional input.

Each --key value pair becomes a key of the workflow input; values spelling a
boolean or a number are sent as such. The command exits with status 1 unless
the run finished.`,
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			parsed, err := cliargs.Parse(passthroughArgs(cmd))
			if err != nil {
				return err
			}
			if len(parsed.Positional) == 0 {
				return fmt.Errorf("missing workflow identifier")
			}
			if len(parsed.Positional) > 1 {
				return fmt.Errorf("unexpected arguments: %s", strings.Join(parsed.Positional[1:], " "))
			}
			identifier := parsed.Positional[0]

			var f printer.Format
			if format != "" {
				if f, err = printer.ParseFormat(format); err != nil {
					return err
				}
			}

			uc, err := buildResourceUseCase(cmd)
			if err != nil {
				return err
			}
			defer uc.Remote.Close()

			ctx, cleanup := withCmdRunLogger(cmd.Context(), "run", resourceID(model.KindWorkflow, identifier))
			defer func() { cleanup(err) }()

			out, err := uc.Run(ctx, &resource.RunInput{
				Identifier: identifier,
				Input:      parsed.Keywords,
				Wait:       wait && !noWait,
				Namespace:  namespace,
			})
			if err != nil {
				return err
			}

			stdout := cmd.OutOrStdout()
			if !out.Found {
				fmt.Fprintf(stdout, "%s not found\n", printer.Ref(model.KindWorkflow.String(), identifier))
				return ExitCodeError{Code: 1}
			}
			p := printer.New(stdout)
			if resultOnly {
				if f == "" {
					return p.Raw(out.Result())
				}
				return p.Value(out.Result(), f)
			}
			if f != "" && f != printer.FormatTable {
				if err := p.Value(out.Run, f); err != nil {
					return err
				}
			} else {
				result, err := printer.Inline(out.Result())
				if err != nil {
					return err
				}
				fmt.Fprintf(stdout, "%s %s: %s\n",
					printer.Ref(model.KindWorkflowRun.String(), out.Name()),
					"["+printer.RunState(out.State())+"]",
					result)
			}
			if !out.Finished() {
				return ExitCodeError{Code: 1}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format of the run or its result (json|yaml|raw)")
	cmd.Flags().BoolVar(&resultOnly, "result-only", false, "Only output the result of the run")
	cmd.Flags().BoolVar(&wait, "wait", true, "Wait for the run to complete")
	cmd.Flags().BoolVar(&noWait, "no-wait", false, "Return as soon as the run is started")
	cmd.Flags().StringVarP(&namespace, "namespace", "n", "", "Namespace to run the workflow in")
	return cmd
}
