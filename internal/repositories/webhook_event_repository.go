package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"paperbase/internal/models/db_models"
)

type IWebhookEventRepository interface {
	// InsertIfAbsent creates the audit row keyed by the processor's event id.
	// Returns false when the id already exists (duplicate delivery or resend).
	InsertIfAbsent(ctx context.Context, event *db_models.WebhookEvent) (bool, error)
	FindByID(ctx context.Context, id string) (*db_models.WebhookEvent, error)
	// ClaimForProcessing flips the row back to processing, acting as the
	// mutual-exclusion gate for reprocessing: it fails when another worker
	// holds a claim younger than ClaimStaleAfter.
	ClaimForProcessing(ctx context.Context, id string) (bool, error)
	MarkProcessed(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, message string) error
	MarkIgnored(ctx context.Context, id string) error
	List(ctx context.Context, status, eventType string, limit, offset int) ([]db_models.WebhookEvent, error)
}

type WebhookEventRepository struct {
	db *gorm.DB
}

func NewWebhookEventRepository(db *gorm.DB) IWebhookEventRepository {
	return &WebhookEventRepository{db: db}
}

func (r *WebhookEventRepository) InsertIfAbsent(ctx context.Context, event *db_models.WebhookEvent) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoNothing: true,
		}).
		Create(event)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *WebhookEventRepository) FindByID(ctx context.Context, id string) (*db_models.WebhookEvent, error) {
	var event db_models.WebhookEvent
	err := r.db.WithContext(ctx).First(&event, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &event, nil
}

// ClaimStaleAfter bounds how long a processing claim is honored. A worker
// that crashed after claiming leaves the row at processing; once the claim
// is older than this, a redelivery may take it over.
const ClaimStaleAfter = 5 * time.Minute

func (r *WebhookEventRepository) ClaimForProcessing(ctx context.Context, id string) (bool, error) {
	now := time.Now()
	res := r.db.WithContext(ctx).
		Model(&db_models.WebhookEvent{}).
		Where("id = ? AND (status <> ? OR claimed_at < ?)",
			id, db_models.EventStatusProcessing, now.Add(-ClaimStaleAfter).Unix()).
		Updates(map[string]interface{}{
			"status":     db_models.EventStatusProcessing,
			"claimed_at": now.Unix(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *WebhookEventRepository) MarkProcessed(ctx context.Context, id string) error {
	now := time.Now().Unix()
	return r.db.WithContext(ctx).
		Model(&db_models.WebhookEvent{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        db_models.EventStatusProcessed,
			"processed_at":  now,
			"error_message": nil,
		}).Error
}

func (r *WebhookEventRepository) MarkFailed(ctx context.Context, id string, message string) error {
	return r.db.WithContext(ctx).
		Model(&db_models.WebhookEvent{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        db_models.EventStatusFailed,
			"error_message": message,
		}).Error
}

func (r *WebhookEventRepository) MarkIgnored(ctx context.Context, id string) error {
	now := time.Now().Unix()
	return r.db.WithContext(ctx).
		Model(&db_models.WebhookEvent{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       db_models.EventStatusIgnored,
			"processed_at": now,
		}).Error
}

func (r *WebhookEventRepository) List(ctx context.Context, status, eventType string, limit, offset int) ([]db_models.WebhookEvent, error) {
	query := r.db.WithContext(ctx).Model(&db_models.WebhookEvent{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if eventType != "" {
		query = query.Where("type = ?", eventType)
	}

	var events []db_models.WebhookEvent
	err := query.Order("received_at DESC").Limit(limit).Offset(offset).Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}
