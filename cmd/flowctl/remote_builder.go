package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/emergentmethods/flowctl/adapters/remote/inmem"
	"github.com/emergentmethods/flowctl/adapters/remote/local"
	"github.com/emergentmethods/flowctl/adapters/remote/rdb"
	"github.com/emergentmethods/flowctl/adapters/remote/rest"
	"github.com/emergentmethods/flowctl/config/flowctlcfg"
	"github.com/emergentmethods/flowctl/domain"
)

// buildRemote connects to the current server of the loaded configuration.
func buildRemote(cmd *cobra.Command) (*domain.Remote, error) {
	cfg, err := configFromContext(cmd.Context())
	if err != nil {
		return nil, err
	}
	server, err := cfg.Current()
	if err != nil {
		return nil, err
	}
	return openRemote(server)
}

// openRemote selects the backend by URL scheme:
//   - http(s)://host[:port]  Flowdapt REST API
//   - memory:<name>          in-process sandbox shared by name
//   - sqlite:<dsn>           in-process sandbox persisted with sqlite
func openRemote(server *flowctlcfg.Server) (*domain.Remote, error) {
	u := server.URL
	lower := strings.ToLower(u)
	opts := local.Options{Name: server.Name, ServerVersion: version}

	switch {
	case strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://"):
		c, err := rest.New(u, rest.Options{UserAgent: "flowctl/" + version})
		if err != nil {
			return nil, err
		}
		return c.Remote(), nil

	case strings.HasPrefix(lower, "memory:"):
		store := inmem.Named(u[len("memory:"):])
		return local.New(store, opts).Remote(), nil

	case strings.HasPrefix(lower, "sqlite:") || strings.HasPrefix(lower, "sqlite3:"):
		store, err := rdb.Open(u)
		if err != nil {
			return nil, fmt.Errorf("failed to open sandbox %s: %w", u, err)
		}
		return local.New(store, opts).Remote(), nil

	default:
		return nil, fmt.Errorf("unsupported server url: %s", u)
	}
}
