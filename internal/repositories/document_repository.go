package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"paperbase/internal/models/db_models"
)

type IDocumentRepository interface {
	Insert(ctx context.Context, doc *db_models.Document) error
	CountForSubject(ctx context.Context, subjectID uuid.UUID, kind db_models.SubjectKind) (int64, error)
	SumSizeBytes(ctx context.Context, subjectID uuid.UUID, kind db_models.SubjectKind) (int64, error)
	SaveEnrichment(ctx context.Context, docID uuid.UUID, summary string, tags []string) error
	UpsertEmbedding(ctx context.Context, embedding *db_models.DocumentEmbedding) error
}

type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) IDocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Insert(ctx context.Context, doc *db_models.Document) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

func (r *DocumentRepository) subjectScope(subjectID uuid.UUID, kind db_models.SubjectKind) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if kind == db_models.SubjectOrganization {
			return db.Where("organization_id = ?", subjectID)
		}
		return db.Where("owner_id = ? AND organization_id IS NULL", subjectID)
	}
}

func (r *DocumentRepository) CountForSubject(ctx context.Context, subjectID uuid.UUID, kind db_models.SubjectKind) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db_models.Document{}).
		Scopes(r.subjectScope(subjectID, kind)).
		Count(&count).Error
	return count, err
}

// SumSizeBytes aggregates the stored content size, not what clients declared
// on upload.
func (r *DocumentRepository) SumSizeBytes(ctx context.Context, subjectID uuid.UUID, kind db_models.SubjectKind) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&db_models.Document{}).
		Scopes(r.subjectScope(subjectID, kind)).
		Select("COALESCE(SUM(size_bytes), 0)").
		Scan(&total).Error
	return total, err
}

func (r *DocumentRepository) SaveEnrichment(ctx context.Context, docID uuid.UUID, summary string, tags []string) error {
	return r.db.WithContext(ctx).
		Model(&db_models.Document{}).
		Where("id = ?", docID).
		Updates(map[string]interface{}{
			"summary": summary,
			"tags":    pq.StringArray(tags),
		}).Error
}

func (r *DocumentRepository) UpsertEmbedding(ctx context.Context, embedding *db_models.DocumentEmbedding) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "document_id"}},
			UpdateAll: true,
		}).
		Create(embedding).Error
}
