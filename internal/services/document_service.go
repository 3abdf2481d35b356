package services

import (
	"context"

	"github.com/google/uuid"

	"paperbase/internal/models/db_models"
	"paperbase/internal/models/request_models"
	"paperbase/internal/models/response_models"
	"paperbase/internal/repositories"
	"paperbase/pkg/utils"
)

type DocumentServiceInterface interface {
	CreateDocument(ctx context.Context, actorID uuid.UUID, req request_models.CreateDocumentRequest) (*response_models.DocumentResponse, error)
}

type DocumentService struct {
	scopeService      BillingScopeServiceInterface
	quotaService      QuotaServiceInterface
	enrichmentService EnrichmentServiceInterface
	documentRepo      repositories.IDocumentRepository
}

func NewDocumentService(
	scopeService BillingScopeServiceInterface,
	quotaService QuotaServiceInterface,
	enrichmentService EnrichmentServiceInterface,
	documentRepo repositories.IDocumentRepository,
) DocumentServiceInterface {
	return &DocumentService{
		scopeService:      scopeService,
		quotaService:      quotaService,
		enrichmentService: enrichmentService,
		documentRepo:      documentRepo,
	}
}

func (s *DocumentService) CreateDocument(ctx context.Context, actorID uuid.UUID, req request_models.CreateDocumentRequest) (*response_models.DocumentResponse, error) {
	kind := db_models.SubjectKind(req.Scope)
	if kind == "" {
		kind = db_models.SubjectPersonal
	}

	// Usage resolution, not billing resolution: plain org members create
	// documents against the organization's quota.
	scope, err := s.scopeService.ResolveForUsage(ctx, actorID, kind)
	if err != nil {
		return nil, err
	}

	sizeBytes := int64(len(req.Content))
	additionalMB := (sizeBytes + bytesPerMB - 1) / bytesPerMB

	if err := s.quotaService.CheckDocumentCreation(ctx, scope); err != nil {
		return nil, err
	}
	if err := s.quotaService.CheckStorage(ctx, scope, additionalMB); err != nil {
		return nil, err
	}

	doc := &db_models.Document{
		OwnerID:   actorID,
		Title:     req.Title,
		Content:   req.Content,
		SizeBytes: sizeBytes,
	}
	if scope.Kind == db_models.SubjectOrganization {
		doc.OrganizationID = scope.OrganizationID
	}
	if err := s.documentRepo.Insert(ctx, doc); err != nil {
		return nil, utils.ErrDatabaseError
	}

	// Enrichment is best-effort: a denied AI budget or a failed generation
	// never rolls back the created document.
	enriched, err := s.enrichmentService.EnrichDocument(ctx, scope, doc)
	if err != nil {
		return nil, err
	}

	resp := &response_models.DocumentResponse{
		ID:        doc.ID.String(),
		Title:     doc.Title,
		SizeBytes: doc.SizeBytes,
		Tags:      doc.Tags,
		Enriched:  enriched,
	}
	if doc.Summary != nil {
		resp.Summary = *doc.Summary
	}
	return resp, nil
}
