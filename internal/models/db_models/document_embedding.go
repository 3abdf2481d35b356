package db_models

import (
	"time"

	"github.com/pgvector/pgvector-go"
)

type DocumentEmbedding struct {
	DocumentID string          `gorm:"primaryKey;column:document_id"`
	Embedding  pgvector.Vector `gorm:"type:vector(1536)"`
	CreatedAt  time.Time       `gorm:"autoCreateTime"`
}
