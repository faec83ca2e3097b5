package model

import "github.com/emergentmethods/flowctl/domain/value"

// Definition is a resource declared in a definition file.
type Definition struct {
	Kind Kind
	// Version is the schema version named in the file; empty means latest.
	Version string
	// Body is the resource as declared, without the top-level version key.
	Body *value.Map
	// Source is the file the definition was read from.
	Source string
}

// Name returns the resource name declared in the body.
func (d *Definition) Name() string { return ResourceName(d.Kind, d.Body) }
