package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emergentmethods/flowctl/config/flowctlcfg"
	"github.com/emergentmethods/flowctl/domain/value"
	"github.com/emergentmethods/flowctl/internal/printer"
)

// newCmdConfig returns the parent command for flowctl configuration.
func newCmdConfig() *cobra.Command {
	c := &cobra.Command{
		Use:   "config",
		Short: "Commands for managing flowctl configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Show help if no subcommand provided
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	c.AddCommand(newCmdConfigShow())
	c.AddCommand(newCmdConfigGet())
	c.AddCommand(newCmdConfigSet())
	c.AddCommand(newCmdConfigCurrent())
	c.AddCommand(newCmdConfigUse())
	c.AddCommand(newCmdConfigAdd())
	c.AddCommand(newCmdConfigRemove())
	return c
}

// editConfig loads the configuration, applies edit and writes the file.
func editConfig(cmd *cobra.Command, edit func(*flowctlcfg.Configuration) error) error {
	cfg, err := configFromContext(cmd.Context())
	if err != nil {
		return err
	}
	if cfg.ConfigFile == "" {
		return flowctlcfg.ErrConfigFileDisabled
	}
	if err := edit(cfg); err != nil {
		return err
	}
	return cfg.Save()
}

func newCmdConfigShow() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the resolved configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := printer.ParseFormat(format)
			if err != nil {
				return err
			}
			if f == printer.FormatTable {
				return fmt.Errorf("unsupported format for config show: %s", format)
			}
			cfg, err := configFromContext(cmd.Context())
			if err != nil {
				return err
			}
			tree, err := cfg.Tree()
			if err != nil {
				return err
			}
			resolved := value.NewMap().
				Set("app_dir", value.String(cfg.AppDir)).
				Set("config_file", value.String(cfg.ConfigFile)).
				Set("dev_mode", value.Bool(cfg.DevMode))
			return printer.New(cmd.OutOrStdout()).Value(value.Merge(resolved, tree), f)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(printer.FormatYAML), "Output format (yaml|json|raw)")
	return cmd
}

func newCmdConfigGet() *cobra.Command {
	return &cobra.Command{
		Use:   "get KEY",
		Short: "Get the value of a configuration key, e.g. servers[0].url",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFromContext(cmd.Context())
			if err != nil {
				return err
			}
			v, err := cfg.GetByKey(args[0])
			if err != nil {
				return err
			}
			return printer.New(cmd.OutOrStdout()).Raw(v)
		},
	}
}

func newCmdConfigSet() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration key in the configuration file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editConfig(cmd, func(cfg *flowctlcfg.Configuration) error {
				return cfg.SetByKey(args[0], args[1])
			})
		},
	}
}

func newCmdConfigCurrent() *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Print the current server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := configFromContext(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cfg.CurrentServer)
			return nil
		},
	}
}

func newCmdConfigUse() *cobra.Command {
	return &cobra.Command{
		Use:   "use SERVER",
		Short: "Set the current server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editConfig(cmd, func(cfg *flowctlcfg.Configuration) error {
				return cfg.UseServer(args[0])
			})
		},
	}
}

func newCmdConfigAdd() *cobra.Command {
	return &cobra.Command{
		Use:   "add SERVER URL",
		Short: "Add a server to the configuration",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editConfig(cmd, func(cfg *flowctlcfg.Configuration) error {
				return cfg.AddServer(args[0], args[1])
			})
		},
	}
}

func newCmdConfigRemove() *cobra.Command {
	return &cobra.Command{
		Use:   "remove SERVER",
		Short: "Remove a server from the configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editConfig(cmd, func(cfg *flowctlcfg.Configuration) error {
				return cfg.RemoveServer(args[0])
			})
		},
	}
}
