package flowctlcfg

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/emergentmethods/flowctl/domain/value"
	"github.com/emergentmethods/flowctl/internal/cliargs"
)

// BuildOptions are the inputs of Build, usually taken from global flags.
type BuildOptions struct {
	// AppDir defaults to ~/.flowdapt, created when missing.
	// An explicit AppDir must exist.
	AppDir string
	// ConfigFile is relative to AppDir unless absolute. Empty means
	// flowctl.yaml; "-" disables the file.
	ConfigFile string
	// DotenvFiles are read for FLOWCTL__ overlays; process variables win.
	DotenvFiles []string
	DevMode     bool
	// Environ defaults to os.Environ().
	Environ []string
}

// DefaultAppDir returns ~/.flowdapt.
func DefaultAppDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, "."+AppName), nil
}

// Build resolves the configuration from defaults, the configuration file,
// dotenv files and the environment, in increasing precedence. A missing
// configuration file is written with the defaults first.
func Build(opts BuildOptions) (*Configuration, error) {
	appDir, err := resolveAppDir(opts.AppDir)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	cfg.AppDir = appDir
	cfg.DevMode = opts.DevMode

	name := opts.ConfigFile
	if name == "" {
		name = DefaultConfigFileName
	}
	if name != NoConfigFile {
		cfg.ConfigFile = name
		if !filepath.IsAbs(name) {
			cfg.ConfigFile = filepath.Join(appDir, name)
		}
		if err := cfg.load(); err != nil {
			return nil, err
		}
	}

	environ := opts.Environ
	if environ == nil {
		environ = os.Environ()
	}
	overlay, err := envOverlay(opts.DotenvFiles, environ)
	if err != nil {
		return nil, err
	}
	if len(overlay) > 0 {
		if err := cfg.applyOverlay(overlay); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func resolveAppDir(dir string) (string, error) {
	if dir == "" {
		def, err := DefaultAppDir()
		if err != nil {
			return "", err
		}
		if err := os.MkdirAll(def, 0o755); err != nil {
			return "", fmt.Errorf("creating app directory %q: %w", def, err)
		}
		dir = def
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving app directory: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("the app directory %q does not exist: %w", abs, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("the app directory %q is not a directory", abs)
	}
	return abs, nil
}

// load reads ConfigFile over the defaults, writing it first when missing.
// Sections present in the file replace the defaults.
func (c *Configuration) load() error {
	data, err := os.ReadFile(c.ConfigFile)
	if errors.Is(err, fs.ErrNotExist) {
		return c.Save()
	}
	if err != nil {
		return fmt.Errorf("reading config file %q: %w", c.ConfigFile, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %q: %w", c.ConfigFile, err)
	}
	return nil
}

// Save writes the configuration file with 2-space indentation.
func (c *Configuration) Save() error {
	if c.ConfigFile == "" {
		return ErrConfigFileDisabled
	}
	data, err := c.YAML()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(c.ConfigFile), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(c.ConfigFile, data, 0o644); err != nil {
		return fmt.Errorf("writing config file %q: %w", c.ConfigFile, err)
	}
	return nil
}

// YAML encodes the serializable part of the configuration.
func (c *Configuration) YAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("closing yaml encoder: %w", err)
	}
	return buf.Bytes(), nil
}

// envOverlay collects FLOWCTL__ variables, other than the ones bound to
// global flags, as key path -> raw value. Names that do not form a key path
// are ignored.
func envOverlay(dotenvFiles, environ []string) (map[string]string, error) {
	vars := map[string]string{}
	if len(dotenvFiles) > 0 {
		m, err := godotenv.Read(dotenvFiles...)
		if err != nil {
			return nil, fmt.Errorf("reading dotenv files: %w", err)
		}
		for k, v := range m {
			vars[k] = v
		}
	}
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if ok {
			vars[k] = v
		}
	}

	out := map[string]string{}
	for k, v := range vars {
		upper := strings.ToUpper(k)
		if !strings.HasPrefix(upper, EnvPrefix) {
			continue
		}
		switch upper {
		case EnvAppDir, EnvConfigFile, EnvDevMode, EnvServer:
			continue
		}
		key, ok := envKeyPath(k[len(EnvPrefix):])
		if !ok {
			continue
		}
		if _, err := cliargs.ParseKey(key); err != nil {
			continue
		}
		out[key] = v
	}
	return out, nil
}

// envKeyPath turns SERVERS__0__URL into servers[0].url.
func envKeyPath(s string) (string, bool) {
	var b strings.Builder
	for _, part := range strings.Split(s, "__") {
		if part == "" {
			return "", false
		}
		if _, err := strconv.Atoi(part); err == nil {
			b.WriteString("[" + part + "]")
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(strings.ToLower(part))
	}
	return b.String(), b.Len() > 0
}

func (c *Configuration) applyOverlay(overlay map[string]string) error {
	base, err := c.Tree()
	if err != nil {
		return err
	}
	patch := value.NewMap()
	keys := make([]string, 0, len(overlay))
	for k := range overlay {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := cliargs.SetKey(patch, k, typed(base, k, overlay[k])); err != nil {
			return fmt.Errorf("environment overlay %s: %w", k, err)
		}
	}
	return c.fromTree(value.Merge(base, patch))
}
