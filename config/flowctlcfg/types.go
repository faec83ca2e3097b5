// Package flowctlcfg loads and edits the flowctl configuration file.
package flowctlcfg

import (
	"errors"

	"github.com/emergentmethods/flowctl/internal/logging"
)

// Environment variable names. Other FLOWCTL__ variables overlay configuration
// keys, with "__" separating key path segments.
const (
	EnvPrefix     = "FLOWCTL__"
	EnvAppDir     = "FLOWCTL__APP_DIR"
	EnvConfigFile = "FLOWCTL__CONFIG_FILE"
	EnvDevMode    = "FLOWCTL__DEV_MODE"
	EnvServer     = "FLOWCTL__SERVER"
)

const (
	AppName               = "flowdapt"
	DefaultConfigFileName = "flowctl.yaml"
	// NoConfigFile disables reading and writing the configuration file.
	NoConfigFile = "-"
	// CLIServerName names the server added for a --server URL.
	CLIServerName = "cli"
)

var (
	ErrConfigFileDisabled = errors.New("cannot set configuration value when config file is deactivated")
	ErrServerNotFound     = errors.New("server does not exist")
	ErrServerExists       = errors.New("server already exists")
	ErrKeyNotFound        = errors.New("configuration key not found")
)

// Server is a named Flowdapt server endpoint. URL is http(s)://host[:port]
// for a real server, memory:<name> or sqlite:<path> for a local sandbox.
type Server struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// Configuration is the resolved flowctl configuration.
type Configuration struct {
	// AppDir is the application directory holding the configuration file.
	AppDir string `yaml:"-"`
	// ConfigFile is the full path of the configuration file, empty when disabled.
	ConfigFile string `yaml:"-"`
	DevMode    bool   `yaml:"-"`

	Servers       []Server          `yaml:"servers"`
	CurrentServer string            `yaml:"current_server"`
	Logging       logging.LogConfig `yaml:"logging,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Configuration {
	return &Configuration{
		Servers:       []Server{{Name: "default", URL: "http://localhost:8080"}},
		CurrentServer: "default",
	}
}
