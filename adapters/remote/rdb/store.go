package rdb

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/emergentmethods/flowctl/domain"
	"github.com/emergentmethods/flowctl/domain/model"
	"github.com/emergentmethods/flowctl/domain/value"
)

// Store is a DocumentStore backed by a relational database.
type Store struct{ db *gorm.DB }

func NewStore(db *gorm.DB) *Store { return &Store{db: db} }

// Open opens dbURL and migrates the schema.
func Open(dbURL string) (*Store, error) {
	db, err := OpenFromURL(dbURL)
	if err != nil {
		return nil, err
	}
	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("migrate %s: %w", dbURL, err)
	}
	return NewStore(db), nil
}

func docToRecord(d *model.Document) (*DocumentRecord, error) {
	body, err := value.MarshalJSON(d.Body)
	if err != nil {
		return nil, err
	}
	return &DocumentRecord{ID: d.ID, Kind: d.Kind.String(), Name: d.Name, Body: string(body), CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt}, nil
}

func docToModel(r *DocumentRecord) (*model.Document, error) {
	kind, err := model.ParseKind(r.Kind)
	if err != nil {
		return nil, err
	}
	body := value.NewMap()
	if r.Body != "" {
		if err := body.UnmarshalJSON([]byte(r.Body)); err != nil {
			return nil, fmt.Errorf("resource %s: %w", r.ID, err)
		}
	}
	return &model.Document{ID: r.ID, Kind: kind, Name: r.Name, Body: body, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt}, nil
}

func (s *Store) Create(ctx context.Context, d *model.Document) error {
	if _, err := s.GetByName(ctx, d.Kind, d.Name); err == nil {
		return model.ErrDocumentExists
	} else if !errors.Is(err, model.ErrDocumentNotFound) {
		return err
	}
	rec, err := docToRecord(d)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Create(rec).Error
}

func (s *Store) first(ctx context.Context, query string, args ...any) (*model.Document, error) {
	var rec DocumentRecord
	if err := s.db.WithContext(ctx).Where(query, args...).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrDocumentNotFound
		}
		return nil, err
	}
	return docToModel(&rec)
}

func (s *Store) Get(ctx context.Context, kind model.Kind, id string) (*model.Document, error) {
	return s.first(ctx, "kind = ? AND id = ?", kind.String(), id)
}

func (s *Store) GetByName(ctx context.Context, kind model.Kind, name string) (*model.Document, error) {
	return s.first(ctx, "kind = ? AND name = ?", kind.String(), name)
}

func (s *Store) List(ctx context.Context, kind model.Kind) ([]*model.Document, error) {
	var recs []DocumentRecord
	if err := s.db.WithContext(ctx).Where("kind = ?", kind.String()).Order("created_at ASC").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]*model.Document, 0, len(recs))
	for i := range recs {
		d, err := docToModel(&recs[i])
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func (s *Store) Update(ctx context.Context, d *model.Document) error {
	if other, err := s.GetByName(ctx, d.Kind, d.Name); err == nil && other.ID != d.ID {
		return model.ErrDocumentExists
	}
	rec, err := docToRecord(d)
	if err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Model(&DocumentRecord{}).
		Where("kind = ? AND id = ?", rec.Kind, rec.ID).
		Updates(map[string]any{"name": rec.Name, "body": rec.Body, "updated_at": rec.UpdatedAt})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return model.ErrDocumentNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, kind model.Kind, id string) error {
	res := s.db.WithContext(ctx).Delete(&DocumentRecord{}, "kind = ? AND id = ?", kind.String(), id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return model.ErrDocumentNotFound
	}
	return nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

var _ domain.DocumentStore = (*Store)(nil)
