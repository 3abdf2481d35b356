package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"paperbase/internal/models/db_models"
	"paperbase/internal/plans"
)

type ISubscriptionRepository interface {
	FindBySubject(ctx context.Context, subjectID uuid.UUID, kind db_models.SubjectKind) (*db_models.Subscription, error)
	FindByExternalCustomerID(ctx context.Context, customerID string) (*db_models.Subscription, error)
	EnsureForSubject(ctx context.Context, subjectID uuid.UUID, kind db_models.SubjectKind) (*db_models.Subscription, error)
	SetExternalCustomerIDIfAbsent(ctx context.Context, rowID uuid.UUID, customerID string) (bool, error)
	UpdateProcessorFields(ctx context.Context, rowID uuid.UUID, fields map[string]interface{}) error
}

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) ISubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) FindBySubject(ctx context.Context, subjectID uuid.UUID, kind db_models.SubjectKind) (*db_models.Subscription, error) {
	var sub db_models.Subscription
	err := r.db.WithContext(ctx).
		First(&sub, "subject_id = ? AND subject_kind = ?", subjectID, kind).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

func (r *SubscriptionRepository) FindByExternalCustomerID(ctx context.Context, customerID string) (*db_models.Subscription, error) {
	var sub db_models.Subscription
	err := r.db.WithContext(ctx).
		First(&sub, "external_customer_id = ?", customerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

// EnsureForSubject lazily creates the subject's free-plan row. The composite
// unique index on (subject_id, subject_kind) makes the insert race-safe; on
// conflict the winning row is re-read.
func (r *SubscriptionRepository) EnsureForSubject(ctx context.Context, subjectID uuid.UUID, kind db_models.SubjectKind) (*db_models.Subscription, error) {
	sub := db_models.Subscription{
		SubjectID:   subjectID,
		SubjectKind: kind,
		Plan:        plans.Free,
		Status:      db_models.SubStatusActive,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "subject_id"}, {Name: "subject_kind"}},
			DoNothing: true,
		}).
		Create(&sub).Error
	if err != nil {
		return nil, err
	}
	return r.FindBySubject(ctx, subjectID, kind)
}

// SetExternalCustomerIDIfAbsent is the synchronizer's conditional write: it
// only lands when no customer id is persisted yet. Returns false when a
// concurrent writer won.
func (r *SubscriptionRepository) SetExternalCustomerIDIfAbsent(ctx context.Context, rowID uuid.UUID, customerID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&db_models.Subscription{}).
		Where("id = ? AND (external_customer_id IS NULL OR external_customer_id = '')", rowID).
		Update("external_customer_id", customerID)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *SubscriptionRepository) UpdateProcessorFields(ctx context.Context, rowID uuid.UUID, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&db_models.Subscription{}).
		Where("id = ?", rowID).
		Updates(fields).Error
}
