package flowctlcfg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emergentmethods/flowctl/domain/value"
)

func build(t *testing.T, opts BuildOptions) *Configuration {
	t.Helper()
	if opts.Environ == nil {
		opts.Environ = []string{}
	}
	cfg, err := Build(opts)
	require.NoError(t, err)
	return cfg
}

func TestBuildWritesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg := build(t, BuildOptions{AppDir: dir})

	assert.Equal(t, filepath.Join(dir, DefaultConfigFileName), cfg.ConfigFile)
	assert.Equal(t, "default", cfg.CurrentServer)
	require.Len(t, cfg.Servers, 1)
	assert.Equal(t, "http://localhost:8080", cfg.Servers[0].URL)

	data, err := os.ReadFile(cfg.ConfigFile)
	require.NoError(t, err)
	assert.Equal(t, "servers:\n  - name: default\n    url: http://localhost:8080\ncurrent_server: default\n", string(data))
}

func TestBuildReadsFile(t *testing.T) {
	dir := t.TempDir()
	content := "servers:\n  - name: prod\n    url: https://flowdapt.example.com\ncurrent_server: prod\nlogging:\n  level: DEBUG\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "custom.yaml"), []byte(content), 0o644))

	cfg := build(t, BuildOptions{AppDir: dir, ConfigFile: "custom.yaml"})
	require.Len(t, cfg.Servers, 1)
	assert.Equal(t, "prod", cfg.Servers[0].Name)
	assert.Equal(t, "prod", cfg.CurrentServer)
	assert.Equal(t, "DEBUG", cfg.Logging.Level)
}

func TestBuildWithoutFile(t *testing.T) {
	dir := t.TempDir()
	cfg := build(t, BuildOptions{AppDir: dir, ConfigFile: NoConfigFile})
	assert.Empty(t, cfg.ConfigFile)
	assert.ErrorIs(t, cfg.Save(), ErrConfigFileDisabled)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestBuildMissingAppDir(t *testing.T) {
	_, err := Build(BuildOptions{AppDir: filepath.Join(t.TempDir(), "nope"), Environ: []string{}})
	assert.Error(t, err)
}

func TestEnvironmentOverlay(t *testing.T) {
	dir := t.TempDir()
	dotenv := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(dotenv, []byte("FLOWCTL__LOGGING__LEVEL=INFO\nFLOWCTL__LOGGING__FORMAT=json\n"), 0o644))

	cfg := build(t, BuildOptions{
		AppDir:      dir,
		DotenvFiles: []string{dotenv},
		Environ: []string{
			"FLOWCTL__SERVERS__0__URL=http://flowdapt:9000",
			"FLOWCTL__LOGGING__FORMAT=text",
			"FLOWCTL__LOGGING__RETENTION_DAYS=3",
			"FLOWCTL__SERVER=ignored",
			"FLOWCTL__BAD-NAME=x",
			"HOME=/root",
		},
	})
	assert.Equal(t, "http://flowdapt:9000", cfg.Servers[0].URL)
	assert.Equal(t, "default", cfg.Servers[0].Name)
	assert.Equal(t, "INFO", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, 3, cfg.Logging.RetentionDays)
	assert.Equal(t, "default", cfg.CurrentServer)
}

func TestEnvKeyPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"CURRENT_SERVER", "current_server", true},
		{"SERVERS__1__NAME", "servers[1].name", true},
		{"LOGGING__LEVEL", "logging.level", true},
		{"A____B", "", false},
	}
	for _, tt := range tests {
		got, ok := envKeyPath(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestGetSetByKey(t *testing.T) {
	cfg := build(t, BuildOptions{AppDir: t.TempDir()})

	v, err := cfg.GetByKey("servers[0].name")
	require.NoError(t, err)
	assert.Equal(t, value.String("default"), v)

	_, err = cfg.GetByKey("servers[3].name")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, cfg.SetByKey("current_server", "123"))
	assert.Equal(t, "123", cfg.CurrentServer)
	require.NoError(t, cfg.SetByKey("logging.retention_days", "14"))
	assert.Equal(t, 14, cfg.Logging.RetentionDays)
	require.NoError(t, cfg.SetByKey("servers[1].name", "local"))
	require.NoError(t, cfg.SetByKey("servers[1].url", "memory:dev"))
	require.Len(t, cfg.Servers, 2)
	assert.Equal(t, Server{Name: "local", URL: "memory:dev"}, cfg.Servers[1])

	require.NoError(t, cfg.Save())
	again := build(t, BuildOptions{AppDir: cfg.AppDir})
	assert.Equal(t, cfg.Servers, again.Servers)
	assert.Equal(t, 14, again.Logging.RetentionDays)
}

func TestServerManagement(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.AddServer("staging", "https://staging.example.com"))
	assert.ErrorIs(t, cfg.AddServer("staging", "https://other.example.com"), ErrServerExists)
	assert.Error(t, cfg.AddServer("bad", "not a url"))

	require.NoError(t, cfg.UseServer("staging"))
	cur, err := cfg.Current()
	require.NoError(t, err)
	assert.Equal(t, "https://staging.example.com", cur.URL)
	assert.ErrorIs(t, cfg.UseServer("nope"), ErrServerNotFound)

	require.NoError(t, cfg.AddServer("dev", "memory:dev"))
	require.NoError(t, cfg.RemoveServer("staging"))
	assert.Equal(t, "dev", cfg.CurrentServer)
	assert.ErrorIs(t, cfg.RemoveServer("staging"), ErrServerNotFound)
}

func TestSelectServer(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.SelectServer(""))
	assert.Equal(t, "default", cfg.CurrentServer)

	require.NoError(t, cfg.SelectServer("http://10.0.0.1:8080"))
	assert.Equal(t, CLIServerName, cfg.CurrentServer)
	require.NoError(t, cfg.SelectServer("http://10.0.0.2:8080"))
	cur, err := cfg.Current()
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.2:8080", cur.URL)
	assert.Len(t, cfg.Servers, 2)

	require.NoError(t, cfg.SelectServer("default"))
	assert.ErrorIs(t, cfg.SelectServer("missing"), ErrServerNotFound)
}

func TestIsServerURL(t *testing.T) {
	for s, want := range map[string]bool{
		"http://localhost:8080": true,
		"https://x.example.com": true,
		"memory:":               true,
		"memory:dev":            true,
		"sqlite:/tmp/f.db":      true,
		"default":               false,
		"http://":               false,
		"ftp://x":               false,
	} {
		assert.Equal(t, want, IsServerURL(s), s)
	}
}
