package services

import (
	"context"
	"errors"
	"log"

	"paperbase/internal/models/db_models"
	"paperbase/internal/repositories"
	"paperbase/pkg/utils"
)

// A full enrichment pass is summary + tags + embedding; the whole unit is
// budgeted up front so generation is never started on a denied budget.
const callsPerEnrichment = 3

type EnrichmentServiceInterface interface {
	// EnrichDocument consumes AI-call budget and runs the generation pass.
	// Returns false without error when the subject is out of budget, or when
	// generation fails after the budget was consumed: consumed-but-failed is
	// accepted, best-effort behavior, not refunded.
	EnrichDocument(ctx context.Context, scope *BillingScope, doc *db_models.Document) (bool, error)
}

type EnrichmentService struct {
	quotaService QuotaServiceInterface
	documentRepo repositories.IDocumentRepository
	client       utils.GenerationClientInterface
}

func NewEnrichmentService(
	quotaService QuotaServiceInterface,
	documentRepo repositories.IDocumentRepository,
	client utils.GenerationClientInterface,
) EnrichmentServiceInterface {
	return &EnrichmentService{
		quotaService: quotaService,
		documentRepo: documentRepo,
		client:       client,
	}
}

func (s *EnrichmentService) EnrichDocument(ctx context.Context, scope *BillingScope, doc *db_models.Document) (bool, error) {
	if err := s.quotaService.ConsumeAICalls(ctx, scope, callsPerEnrichment); err != nil {
		var quotaErr *utils.QuotaExceededError
		if errors.As(err, &quotaErr) {
			log.Printf("enrichment: AI budget exhausted for subject %s (%d/%d)",
				scope.SubjectID, quotaErr.Current, quotaErr.Limit)
			return false, nil
		}
		return false, err
	}

	enrichment, err := s.client.EnrichDocument(ctx, doc.Title, doc.Content)
	if err != nil {
		log.Printf("enrichment: generation failed after budget consumption for document %s: %v", doc.ID, err)
		return false, nil
	}

	if err := s.documentRepo.SaveEnrichment(ctx, doc.ID, enrichment.Summary, enrichment.Tags); err != nil {
		return false, utils.ErrDatabaseError
	}
	doc.Summary = &enrichment.Summary
	doc.Tags = enrichment.Tags

	embedding, err := s.client.GetEmbedding(ctx, doc.Title+"\n"+doc.Content)
	if err != nil {
		log.Printf("enrichment: embedding failed for document %s: %v", doc.ID, err)
		return true, nil
	}
	if err := s.documentRepo.UpsertEmbedding(ctx, &db_models.DocumentEmbedding{
		DocumentID: doc.ID.String(),
		Embedding:  embedding,
	}); err != nil {
		return true, utils.ErrDatabaseError
	}

	return true, nil
}
