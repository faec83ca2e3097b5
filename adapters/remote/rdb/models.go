package rdb

import "time"

// DocumentRecord is the RDB persistence model for model.Document.
// Table name: resources
type DocumentRecord struct {
	ID        string    `gorm:"primaryKey;type:text;not null"`
	Kind      string    `gorm:"type:text;not null;uniqueIndex:idx_resources_kind_name"`
	Name      string    `gorm:"type:text;not null;uniqueIndex:idx_resources_kind_name"`
	Body      string    `gorm:"type:text"` // JSON encoded resource
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (DocumentRecord) TableName() string { return "resources" }
