package services

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"paperbase/internal/models/db_models"
	"paperbase/internal/models/request_models"
	"paperbase/internal/plans"
	"paperbase/internal/repositories"
	"paperbase/pkg/utils"
)

type mockGenerationClient struct {
	mock.Mock
}

func (m *mockGenerationClient) EnrichDocument(ctx context.Context, title, content string) (*utils.DocumentEnrichment, error) {
	args := m.Called(ctx, title, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*utils.DocumentEnrichment), args.Error(1)
}

func (m *mockGenerationClient) GetEmbedding(ctx context.Context, text string) (pgvector.Vector, error) {
	args := m.Called(ctx, text)
	return args.Get(0).(pgvector.Vector), args.Error(1)
}

func (m *mockGenerationClient) Close() error {
	return nil
}

func newDocumentService(db *gorm.DB, client utils.GenerationClientInterface) DocumentServiceInterface {
	docRepo := repositories.NewDocumentRepository(db)
	quota := newQuotaService(db)
	return NewDocumentService(
		newScopeService(db),
		quota,
		NewEnrichmentService(quota, docRepo, client),
		docRepo)
}

func TestCreateDocumentEnrichesWithinBudget(t *testing.T) {
	db := newTestDB(t)
	client := new(mockGenerationClient)
	svc := newDocumentService(db, client)
	actorID := uuid.New()

	client.On("EnrichDocument", mock.Anything, "Q3 report", mock.Anything).
		Return(&utils.DocumentEnrichment{
			Summary: "Quarterly revenue summary.",
			Tags:    []string{"finance", "q3"},
		}, nil).Once()
	// Embedding storage is a degradation point, not a failure point.
	client.On("GetEmbedding", mock.Anything, mock.Anything).
		Return(pgvector.Vector{}, assert.AnError).Once()

	doc, err := svc.CreateDocument(context.Background(), actorID, request_models.CreateDocumentRequest{
		Title:   "Q3 report",
		Content: "revenue went up",
	})
	require.NoError(t, err)
	assert.True(t, doc.Enriched)
	assert.Equal(t, "Quarterly revenue summary.", doc.Summary)
	assert.Equal(t, []string{"finance", "q3"}, doc.Tags)

	var stored db_models.Document
	require.NoError(t, db.First(&stored, "id = ?", doc.ID).Error)
	require.NotNil(t, stored.Summary)
	assert.Equal(t, int64(len("revenue went up")), stored.SizeBytes)

	client.AssertExpectations(t)
}

func TestCreateDocumentSurvivesExhaustedAIBudget(t *testing.T) {
	db := newTestDB(t)
	client := new(mockGenerationClient)
	svc := newDocumentService(db, client)
	actorID := uuid.New()

	// Burn the free plan's entire monthly AI budget.
	scope, err := newScopeService(db).Resolve(context.Background(), actorID, db_models.SubjectPersonal)
	require.NoError(t, err)
	require.NoError(t, newQuotaService(db).ConsumeAICalls(context.Background(), scope, 50))

	doc, err := svc.CreateDocument(context.Background(), actorID, request_models.CreateDocumentRequest{
		Title:   "notes",
		Content: "plain text",
	})
	require.NoError(t, err)
	assert.False(t, doc.Enriched)
	assert.Empty(t, doc.Summary)

	client.AssertNotCalled(t, "EnrichDocument", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateDocumentDeniedOverDocumentLimit(t *testing.T) {
	db := newTestDB(t)
	client := new(mockGenerationClient)
	svc := newDocumentService(db, client)
	actorID := uuid.New()

	for i := 0; i < 50; i++ {
		require.NoError(t, db.Create(&db_models.Document{
			OwnerID: actorID, Title: "doc", Content: "x", SizeBytes: 1,
		}).Error)
	}

	_, err := svc.CreateDocument(context.Background(), actorID, request_models.CreateDocumentRequest{
		Title:   "one too many",
		Content: "x",
	})
	var quotaErr *utils.QuotaExceededError
	require.ErrorAs(t, err, &quotaErr)
	assert.Equal(t, "documents", quotaErr.Resource)
}

func TestCreateDocumentDeniedOverStorageLimit(t *testing.T) {
	db := newTestDB(t)
	client := new(mockGenerationClient)
	svc := newDocumentService(db, client)
	actorID := uuid.New()

	require.NoError(t, db.Create(&db_models.Document{
		OwnerID: actorID, Title: "blob", Content: "x",
		SizeBytes: 100 * 1024 * 1024,
	}).Error)

	_, err := svc.CreateDocument(context.Background(), actorID, request_models.CreateDocumentRequest{
		Title:   "more",
		Content: strings.Repeat("x", 1024),
	})
	var quotaErr *utils.QuotaExceededError
	require.ErrorAs(t, err, &quotaErr)
	assert.Equal(t, "storage", quotaErr.Resource)
}

func TestCreateDocumentOrgScopeChargesOrganization(t *testing.T) {
	db := newTestDB(t)
	client := new(mockGenerationClient)
	svc := newDocumentService(db, client)

	org := db_models.Organization{Name: "acme"}
	require.NoError(t, db.Create(&org).Error)
	actorID := seedMember(t, db, org.ID, db_models.RoleMember)

	// The org starts on team; a plain member can still create into it.
	_, err := newScopeService(db).ResolveForUsage(context.Background(), actorID, db_models.SubjectOrganization)
	require.NoError(t, err)
	require.NoError(t, db.Model(&db_models.Subscription{}).
		Where("subject_id = ? AND subject_kind = ?", org.ID, db_models.SubjectOrganization).
		Update("plan", plans.Team).Error)

	client.On("EnrichDocument", mock.Anything, mock.Anything, mock.Anything).
		Return(&utils.DocumentEnrichment{Summary: "s", Tags: []string{"t"}}, nil).Once()
	client.On("GetEmbedding", mock.Anything, mock.Anything).
		Return(pgvector.Vector{}, assert.AnError).Once()

	doc, err := svc.CreateDocument(context.Background(), actorID, request_models.CreateDocumentRequest{
		Scope:   "organization",
		Title:   "shared",
		Content: "content",
	})
	require.NoError(t, err)
	assert.True(t, doc.Enriched)

	var stored db_models.Document
	require.NoError(t, db.First(&stored, "id = ?", doc.ID).Error)
	require.NotNil(t, stored.OrganizationID)
	assert.Equal(t, org.ID, *stored.OrganizationID)

	// The debit landed on the organization's counter, not the member's.
	var counter db_models.UsageCounter
	require.NoError(t, db.First(&counter, "subject_id = ?", org.ID).Error)
	assert.Equal(t, int64(3), counter.CallsConsumed)
}
