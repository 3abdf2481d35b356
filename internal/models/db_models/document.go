package db_models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Document rows back the usage ledger's count/sum checks. SizeBytes is the
// stored content size, not the size a client declared on upload.
type Document struct {
	BaseModel
	OwnerID        uuid.UUID  `gorm:"index"`
	OrganizationID *uuid.UUID `gorm:"index"`

	Title     string
	Content   string         `gorm:"type:text"`
	SizeBytes int64          `gorm:"not null;default:0"`
	Summary   *string        `gorm:"type:text"`
	Tags      pq.StringArray `gorm:"type:text[]"`
}
