// Package definition loads resource definition files for apply and delete.
//
// A definition file is a single YAML or JSON document with a top-level kind,
// an optional top-level version and the resource body:
//
//	kind: workflow
//	version: v1alpha1
//	metadata:
//	  name: build
//	spec:
//	  stages: []
package definition

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"sigs.k8s.io/yaml"

	"github.com/emergentmethods/flowctl/domain/model"
	"github.com/emergentmethods/flowctl/domain/value"
)

// Extensions are the file suffixes recognised as definition files.
var Extensions = []string{".yaml", ".yml", ".json"}

// ErrNotDefinition marks a file whose suffix is not a definition suffix.
var ErrNotDefinition = errors.New("file not resource definition")

// header is the typed part of a definition document.
type header struct {
	Kind    string `json:"kind"`
	Version string `json:"version,omitempty"`
}

// IsDefinitionFile reports whether path has a definition suffix.
func IsDefinitionFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Expand resolves paths to files. Directories are walked recursively and
// contribute their regular files in lexical order. Paths that do not exist are
// returned in notFound.
func Expand(paths []string) (files, notFound []string, err error) {
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, nil, err
		}
		info, err := os.Stat(abs)
		if errors.Is(err, fs.ErrNotExist) {
			notFound = append(notFound, abs)
			continue
		}
		if err != nil {
			return nil, nil, err
		}
		if !info.IsDir() {
			files = append(files, abs)
			continue
		}
		var found []string
		err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.Type().IsRegular() {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, nil, fmt.Errorf("walking %s: %w", abs, err)
		}
		sort.Strings(found)
		files = append(files, found...)
	}
	return files, notFound, nil
}

// Filter splits files into definition files and the rest.
func Filter(files []string) (definitions, others []string) {
	for _, f := range files {
		if IsDefinitionFile(f) {
			definitions = append(definitions, f)
		} else {
			others = append(others, f)
		}
	}
	return definitions, others
}

// Parse decodes one definition document. The body keeps the kind key and
// every other top-level key except version. The kind must be a definition
// kind and the version, when given, one of its supported versions.
func Parse(data []byte, source string) (*model.Definition, error) {
	var h header
	if err := yaml.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	if h.Kind == "" {
		return nil, fmt.Errorf("%s: missing resource kind", source)
	}
	kind, plural, err := model.Normalize(h.Kind)
	if err != nil || plural || !kind.IsDefinitionKind() {
		return nil, fmt.Errorf("%s: unknown resource kind: %s", source, h.Kind)
	}
	if h.Version != "" {
		if _, err := model.ResolveVersion(kind, h.Version); err != nil {
			return nil, fmt.Errorf("%s: %w", source, err)
		}
	}

	doc, err := value.DecodeYAML(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	body, ok := doc.(*value.Map)
	if !ok {
		return nil, fmt.Errorf("%s: definition must be a mapping, got %s", source, value.TypeOf(doc))
	}
	body.Delete("version")
	body.Set("kind", value.String(kind.String()))
	return &model.Definition{Kind: kind, Version: h.Version, Body: body, Source: source}, nil
}

// ReadFile reads and parses the definition at path.
func ReadFile(path string) (*model.Definition, error) {
	if !IsDefinitionFile(path) {
		return nil, fmt.Errorf("%s: %w", path, ErrNotDefinition)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data, path)
}
