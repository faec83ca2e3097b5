package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/emergentmethods/flowctl/config/flowctlcfg"
	"github.com/emergentmethods/flowctl/internal/logging"
	"github.com/emergentmethods/flowctl/internal/printer"
)

func newRootCmd() *cobra.Command {
	var logFile *logging.LogFile

	cmd := &cobra.Command{
		Use:     "flowctl",
		Short:   "The CLI tool for managing Flowdapt",
		Long:    "The CLI tool for managing Flowdapt.",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Show help by default when no subcommand is provided.
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetVersionTemplate("flowctl version: {{.Version}}\n")

	devDefault, _ := strconv.ParseBool(os.Getenv(flowctlcfg.EnvDevMode))
	configDefault := os.Getenv(flowctlcfg.EnvConfigFile)
	if configDefault == "" {
		configDefault = flowctlcfg.DefaultConfigFileName
	}

	pf := cmd.PersistentFlags()
	pf.String("app-dir", os.Getenv(flowctlcfg.EnvAppDir), "Application directory, defaults to ~/.flowdapt (env FLOWCTL__APP_DIR)")
	pf.StringP("config", "c", configDefault, "Configuration file relative to the app directory, - to disable (env FLOWCTL__CONFIG_FILE)")
	pf.StringArray("env", nil, "Load a .env file into the configuration (repeatable)")
	pf.Bool("dev", devDefault, "Run in development mode (env FLOWCTL__DEV_MODE)")
	pf.String("server", os.Getenv(flowctlcfg.EnvServer), "Server name or URL to connect to (env FLOWCTL__SERVER)")
	pf.String("log-format", "human", "Log format (human|text|json)")
	pf.String("log-level", "WARN", "Log level (DEBUG|INFO|WARN|ERROR)")
	pf.String("log-output", "-", "Log output (-|none|auto|path)")

	cmd.PersistentPreRunE = func(c *cobra.Command, args []string) error {
		ctx := c.Context()
		if c.DisableFlagParsing {
			rest, err := parseKnownFlags(c, args)
			if err != nil {
				return err
			}
			if help, _ := c.Flags().GetBool("help"); help {
				return pflag.ErrHelp
			}
			ctx = withPassthroughArgs(ctx, rest)
		}

		cfg, err := buildConfig(c)
		if err != nil {
			return err
		}
		l, lf, err := buildLogger(c, cfg)
		if err != nil {
			return err
		}
		logFile = lf

		ctx = logging.WithLogger(ctx, l)
		ctx = withConfig(ctx, cfg)
		c.SetContext(ctx)
		return nil
	}
	cmd.PersistentPostRunE = func(c *cobra.Command, _ []string) error {
		return logFile.Close()
	}

	cmd.AddCommand(newCmdVersion())
	cmd.AddCommand(newCmdConfig())
	cmd.AddCommand(newCmdGet())
	cmd.AddCommand(newCmdInspect())
	cmd.AddCommand(newCmdApply())
	cmd.AddCommand(newCmdPatch())
	cmd.AddCommand(newCmdDelete())
	cmd.AddCommand(newCmdRun())
	cmd.AddCommand(newCmdStatus())
	cmd.AddCommand(newCmdMetrics())
	return cmd
}

// run executes the command line and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetContext(ctx)

	executed, err := root.ExecuteC()
	if err == nil {
		return 0
	}
	var exitCodeErr ExitCodeError
	if errors.As(err, &exitCodeErr) {
		return exitCodeErr.Code
	}

	if executed == nil {
		executed = root
	}
	if ectx := executed.Context(); ectx != nil {
		ctx = ectx
	}
	if isDevMode(executed) {
		logging.FromContext(ctx).Error(ctx, "command failed", "err", err)
		fmt.Fprintln(stderr, printer.Error(describeError(err)))
	} else {
		fmt.Fprintln(stderr, printer.Error(err.Error()))
	}
	return 1
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}
