package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newCmdVersion returns a command that prints the application version.
func newCmdVersion() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !verbose {
				fmt.Fprintf(cmd.OutOrStdout(), "flowctl version: %s\n", version)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "flowctl version: %s\ncommit: %s\ndate: %s\n", version, commit, date)
			return nil
		},
	}
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Also print the commit and build date")
	return cmd
}
