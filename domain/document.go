package domain

import (
	"context"

	"github.com/emergentmethods/flowctl/domain/model"
)

// DocumentStore persists sandbox resources. Names are unique per kind.
type DocumentStore interface {
	// Create fails with model.ErrDocumentExists when the name is taken.
	Create(ctx context.Context, d *model.Document) error
	Get(ctx context.Context, kind model.Kind, id string) (*model.Document, error)
	GetByName(ctx context.Context, kind model.Kind, name string) (*model.Document, error)
	// List returns the documents of kind in creation order.
	List(ctx context.Context, kind model.Kind) ([]*model.Document, error)
	Update(ctx context.Context, d *model.Document) error
	Delete(ctx context.Context, kind model.Kind, id string) error
	Close() error
}
