package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/emergentmethods/flowctl/config/flowctlcfg"
	"github.com/emergentmethods/flowctl/internal/logging"
)

const defaultLogRetentionDays = 7

type configKey struct{}

func withConfig(ctx context.Context, cfg *flowctlcfg.Configuration) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// configFromContext returns the configuration loaded by PersistentPreRunE.
func configFromContext(ctx context.Context) (*flowctlcfg.Configuration, error) {
	if ctx != nil {
		if cfg, ok := ctx.Value(configKey{}).(*flowctlcfg.Configuration); ok {
			return cfg, nil
		}
	}
	return nil, fmt.Errorf("configuration not loaded")
}

// buildConfig resolves the configuration from the global flags and selects
// the --server given on the command line.
func buildConfig(cmd *cobra.Command) (*flowctlcfg.Configuration, error) {
	flags := cmd.Flags()
	appDir, _ := flags.GetString("app-dir")
	configFile, _ := flags.GetString("config")
	dotenv, _ := flags.GetStringArray("env")
	dev, _ := flags.GetBool("dev")
	server, _ := flags.GetString("server")

	cfg, err := flowctlcfg.Build(flowctlcfg.BuildOptions{
		AppDir:      appDir,
		ConfigFile:  configFile,
		DotenvFiles: dotenv,
		DevMode:     dev,
	})
	if err != nil {
		return nil, err
	}
	if err := cfg.SelectServer(server); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildLogger creates the logger from the logging section of cfg. The
// --log-* flags win when given explicitly.
func buildLogger(cmd *cobra.Command, cfg *flowctlcfg.Configuration) (logging.Logger, *logging.LogFile, error) {
	lc := cfg.Logging
	for name, dst := range map[string]*string{
		"log-format": &lc.Format,
		"log-level":  &lc.Level,
		"log-output": &lc.Output,
	} {
		if f := cmd.Flags().Lookup(name); f != nil && (f.Changed || *dst == "") {
			*dst = f.Value.String()
		}
	}
	if lc.Dir == "" {
		lc.Dir = filepath.Join(cfg.AppDir, "logs")
	}
	if lc.RetentionDays == 0 {
		lc.RetentionDays = defaultLogRetentionDays
	}

	level, err := logging.ParseLevel(lc.Level)
	if err != nil {
		return nil, nil, err
	}
	lf, err := logging.NewLogFile(&lc)
	if err != nil {
		return nil, nil, err
	}
	if strings.EqualFold(lc.Output, "auto") {
		_ = logging.CleanupOldLogFiles(lc.Dir, lc.RetentionDays)
	}
	l, err := logging.NewWithWriter(lc.Format, level, lf.Writer())
	if err != nil {
		_ = lf.Close()
		return nil, nil, err
	}
	return l.With("runId", uuid.NewString()), lf, nil
}

// isDevMode reports whether errors should be shown in full. It falls back to
// the flag and the environment when the configuration could not be loaded.
func isDevMode(cmd *cobra.Command) bool {
	if cfg, err := configFromContext(cmd.Context()); err == nil {
		return cfg.DevMode
	}
	if f := findFlag(cmd, "dev"); f != nil && f.Changed {
		dev, _ := strconv.ParseBool(f.Value.String())
		return dev
	}
	dev, _ := strconv.ParseBool(os.Getenv(flowctlcfg.EnvDevMode))
	return dev
}

// describeError renders the wrap chain of err, one error per line with its
// Go type.
func describeError(err error) string {
	var b strings.Builder
	for i := 0; err != nil; i++ {
		if i > 0 {
			b.WriteString("\n  caused by ")
		}
		fmt.Fprintf(&b, "%T: %s", err, err)
		next := errors.Unwrap(err)
		if next == nil {
			if joined, ok := err.(interface{ Unwrap() []error }); ok {
				for _, e := range joined.Unwrap() {
					fmt.Fprintf(&b, "\n  - %T: %s", e, e)
				}
			}
		}
		err = next
	}
	return b.String()
}
