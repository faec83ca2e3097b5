package definition

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emergentmethods/flowctl/domain/model"
	"github.com/emergentmethods/flowctl/domain/value"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestParseYAML(t *testing.T) {
	d, err := Parse([]byte(`kind: workflow
version: v1alpha1
metadata:
  name: build
spec:
  stages:
    - name: a
      target: pkg.fn
`), "build.yaml")
	require.NoError(t, err)
	assert.Equal(t, model.KindWorkflow, d.Kind)
	assert.Equal(t, "v1alpha1", d.Version)
	assert.Equal(t, "build", d.Name())
	assert.Equal(t, []string{"kind", "metadata", "spec"}, d.Body.Keys())
}

func TestParseJSONAndAlias(t *testing.T) {
	d, err := Parse([]byte(`{"kind":"Trigger","metadata":{"name":"nightly"},"spec":{"type":"schedule"}}`), "t.json")
	require.NoError(t, err)
	assert.Equal(t, model.KindTriggerRule, d.Kind)
	assert.Empty(t, d.Version)
	assert.Equal(t, "trigger_rule", value.PathString(d.Body, "kind"))
	assert.Equal(t, "schedule", value.PathString(d.Body, "spec", "type"))
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing kind", "metadata: {name: x}\n"},
		{"plugin is not a definition kind", "kind: plugin\nname: x\n"},
		{"plural kind", "kind: workflows\n"},
		{"unknown kind", "kind: pipeline\n"},
		{"unsupported version", "kind: config\nversion: v2\n"},
		{"not a mapping", "- kind: workflow\n"},
		{"invalid yaml", "kind: [workflow\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc), "x.yaml")
			assert.Error(t, err)
		})
	}

	_, err := Parse([]byte("kind: config\nversion: v2\n"), "x.yaml")
	assert.ErrorIs(t, err, model.ErrUnsupportedVersion)
}

func TestExpandAndFilter(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "defs", "b.yaml"), "kind: workflow\n")
	writeFile(t, filepath.Join(dir, "defs", "a.yml"), "kind: workflow\n")
	writeFile(t, filepath.Join(dir, "defs", "nested", "c.json"), "{}")
	writeFile(t, filepath.Join(dir, "defs", "README.md"), "docs")
	writeFile(t, filepath.Join(dir, "single.yaml"), "kind: config\n")

	files, notFound, err := Expand([]string{
		filepath.Join(dir, "defs"),
		filepath.Join(dir, "single.yaml"),
		filepath.Join(dir, "missing.yaml"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "missing.yaml")}, notFound)
	assert.Equal(t, []string{
		filepath.Join(dir, "defs", "README.md"),
		filepath.Join(dir, "defs", "a.yml"),
		filepath.Join(dir, "defs", "b.yaml"),
		filepath.Join(dir, "defs", "nested", "c.json"),
		filepath.Join(dir, "single.yaml"),
	}, files)

	defs, others := Filter(files)
	assert.Len(t, defs, 4)
	assert.Equal(t, []string{filepath.Join(dir, "defs", "README.md")}, others)
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "c.yaml")
	writeFile(t, path, "kind: config\nmetadata:\n  name: c1\nspec:\n  selector:\n    type: workflow\n")

	d, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "c1", d.Name())
	assert.Equal(t, path, d.Source)

	_, err = ReadFile(filepath.Join(dir, "notes.txt"))
	assert.ErrorIs(t, err, ErrNotDefinition)
}
