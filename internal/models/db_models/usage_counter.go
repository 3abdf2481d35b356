package db_models

import "github.com/google/uuid"

// UsageCounter holds the one persisted usage number: AI calls consumed per
// subject per billing period. Document and storage usage are computed live
// from document rows instead. A new PeriodKey means a fresh row; old rows
// are never deleted, just ignored.
type UsageCounter struct {
	ID            uint        `gorm:"primaryKey;autoIncrement"`
	SubjectID     uuid.UUID   `gorm:"uniqueIndex:idx_usage_period"`
	SubjectKind   SubjectKind `gorm:"size:16;uniqueIndex:idx_usage_period"`
	PeriodKey     string      `gorm:"size:7;uniqueIndex:idx_usage_period"` // "2026-08"
	CallsConsumed int64       `gorm:"not null;default:0"`
	CreatedAt     int64       `gorm:"autoCreateTime"`
	UpdatedAt     int64       `gorm:"autoUpdateTime"`
}
