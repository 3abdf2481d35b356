package db_models

import "gorm.io/datatypes"

type WebhookEventStatus string

const (
	EventStatusProcessing WebhookEventStatus = "processing"
	EventStatusProcessed  WebhookEventStatus = "processed"
	EventStatusFailed     WebhookEventStatus = "failed"
	EventStatusIgnored    WebhookEventStatus = "ignored"
)

// WebhookEvent is the audit and idempotency record for processor events.
// The primary key is the processor's own event id, so a redelivery collides
// with the existing row instead of creating a duplicate.
type WebhookEvent struct {
	ID       string `gorm:"primaryKey;size:255"` // processor event id
	Type     string `gorm:"size:64;index"`
	Livemode bool

	Status       WebhookEventStatus `gorm:"size:16;index"`
	ReceivedAt   int64              `gorm:"not null"`
	ClaimedAt    int64              `gorm:"not null;default:0"` // last time a worker took the row
	ProcessedAt  *int64
	ErrorMessage *string

	Payload datatypes.JSON `gorm:"type:jsonb"`
}
