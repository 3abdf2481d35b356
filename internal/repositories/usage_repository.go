package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"paperbase/internal/models/db_models"
)

type IUsageRepository interface {
	// ConsumeAICalls atomically debits n calls against the per-period counter
	// if and only if the result stays within limit. Returns the consumed
	// total after the attempt and whether the debit was applied. Denial
	// leaves the counter untouched.
	ConsumeAICalls(ctx context.Context, subjectID uuid.UUID, kind db_models.SubjectKind, periodKey string, n, limit int64, unlimited bool) (int64, bool, error)
	CallsConsumed(ctx context.Context, subjectID uuid.UUID, kind db_models.SubjectKind, periodKey string) (int64, error)
}

type UsageRepository struct {
	db *gorm.DB
}

func NewUsageRepository(db *gorm.DB) IUsageRepository {
	return &UsageRepository{db: db}
}

func (r *UsageRepository) CallsConsumed(ctx context.Context, subjectID uuid.UUID, kind db_models.SubjectKind, periodKey string) (int64, error) {
	var counter db_models.UsageCounter
	err := r.db.WithContext(ctx).
		First(&counter, "subject_id = ? AND subject_kind = ? AND period_key = ?", subjectID, kind, periodKey).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return counter.CallsConsumed, nil
}

func (r *UsageRepository) ConsumeAICalls(ctx context.Context, subjectID uuid.UUID, kind db_models.SubjectKind, periodKey string, n, limit int64, unlimited bool) (int64, bool, error) {
	if unlimited {
		return r.consumeUncapped(ctx, subjectID, kind, periodKey, n)
	}

	if n > limit {
		consumed, err := r.CallsConsumed(ctx, subjectID, kind, periodKey)
		return consumed, false, err
	}

	// Conditional update: the cap check and the increment are one statement,
	// so two concurrent consumers can't both pass against a stale count.
	applied, err := r.tryConditionalDebit(ctx, subjectID, kind, periodKey, n, limit)
	if err != nil {
		return 0, false, err
	}
	if !applied {
		// Either no counter row exists yet for this period, or the debit
		// would exceed the cap. Try to create the first row of the period.
		created, err := r.tryInsertFirstDebit(ctx, subjectID, kind, periodKey, n)
		if err != nil {
			return 0, false, err
		}
		if !created {
			// Lost the insert race; the row exists now, retry the debit once.
			applied, err = r.tryConditionalDebit(ctx, subjectID, kind, periodKey, n, limit)
			if err != nil {
				return 0, false, err
			}
		} else {
			applied = true
		}
	}

	consumed, err := r.CallsConsumed(ctx, subjectID, kind, periodKey)
	if err != nil {
		return 0, applied, err
	}
	return consumed, applied, nil
}

func (r *UsageRepository) tryConditionalDebit(ctx context.Context, subjectID uuid.UUID, kind db_models.SubjectKind, periodKey string, n, limit int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&db_models.UsageCounter{}).
		Where("subject_id = ? AND subject_kind = ? AND period_key = ? AND calls_consumed + ? <= ?",
			subjectID, kind, periodKey, n, limit).
		UpdateColumn("calls_consumed", gorm.Expr("calls_consumed + ?", n))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *UsageRepository) tryInsertFirstDebit(ctx context.Context, subjectID uuid.UUID, kind db_models.SubjectKind, periodKey string, n int64) (bool, error) {
	counter := db_models.UsageCounter{
		SubjectID:     subjectID,
		SubjectKind:   kind,
		PeriodKey:     periodKey,
		CallsConsumed: n,
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "subject_id"}, {Name: "subject_kind"}, {Name: "period_key"}},
			DoNothing: true,
		}).
		Create(&counter)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// consumeUncapped records usage for unbounded plans; the debit always lands.
func (r *UsageRepository) consumeUncapped(ctx context.Context, subjectID uuid.UUID, kind db_models.SubjectKind, periodKey string, n int64) (int64, bool, error) {
	counter := db_models.UsageCounter{
		SubjectID:     subjectID,
		SubjectKind:   kind,
		PeriodKey:     periodKey,
		CallsConsumed: n,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "subject_id"}, {Name: "subject_kind"}, {Name: "period_key"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"calls_consumed": gorm.Expr("usage_counters.calls_consumed + ?", n),
			}),
		}).
		Create(&counter).Error
	if err != nil {
		return 0, false, err
	}
	consumed, err := r.CallsConsumed(ctx, subjectID, kind, periodKey)
	return consumed, true, err
}
