package model

import (
	"errors"
	"time"

	"github.com/emergentmethods/flowctl/domain/value"
)

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrDocumentExists   = errors.New("document already exists")
)

// Document is a resource persisted by the sandbox backend.
type Document struct {
	ID        string
	Kind      Kind
	Name      string
	Body      *value.Map
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone returns a deep copy of d.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	cp := *d
	cp.Body = d.Body.Clone()
	return &cp
}
