package services

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"paperbase/internal/models/db_models"
	"paperbase/internal/plans"
	"paperbase/internal/repositories"
	"paperbase/pkg/utils"
)

// newTestDB opens an in-memory database limited to one connection so that
// concurrent test goroutines exercise the conditional-update statements the
// same way concurrent requests would against a real server.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&db_models.Account{},
		&db_models.Organization{},
		&db_models.OrganizationMember{},
		&db_models.Subscription{},
		&db_models.UsageCounter{},
		&db_models.WebhookEvent{},
		&db_models.Document{},
	))
	return db
}

func scopeForPlan(plan plans.ID) *BillingScope {
	return &BillingScope{
		Kind:      db_models.SubjectPersonal,
		SubjectID: uuid.New(),
		Plan:      plan,
		Status:    db_models.SubStatusActive,
	}
}

func newQuotaService(db *gorm.DB) QuotaServiceInterface {
	return NewQuotaService(
		repositories.NewDocumentRepository(db),
		repositories.NewUsageRepository(db))
}

func TestConsumeAICallsDebitsUpToLimit(t *testing.T) {
	db := newTestDB(t)
	svc := newQuotaService(db)
	scope := scopeForPlan(plans.Free) // 50 calls per month
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		require.NoError(t, svc.ConsumeAICalls(ctx, scope, 1))
	}

	err := svc.ConsumeAICalls(ctx, scope, 1)
	var quotaErr *utils.QuotaExceededError
	require.ErrorAs(t, err, &quotaErr)
	assert.Equal(t, "ai_calls", quotaErr.Resource)
	assert.Equal(t, int64(50), quotaErr.Current)
	assert.Equal(t, int64(50), quotaErr.Limit)
}

func TestConsumeAICallsDenialLeavesCounterUntouched(t *testing.T) {
	db := newTestDB(t)
	svc := newQuotaService(db)
	scope := scopeForPlan(plans.Pro) // 5000 calls per month
	ctx := context.Background()

	require.NoError(t, svc.ConsumeAICalls(ctx, scope, 4999))

	// A 2-call debit at 4999/5000 must be denied without consuming anything.
	err := svc.ConsumeAICalls(ctx, scope, 2)
	var quotaErr *utils.QuotaExceededError
	require.ErrorAs(t, err, &quotaErr)
	assert.Equal(t, int64(4999), quotaErr.Current)

	// A 1-call debit still fits.
	require.NoError(t, svc.ConsumeAICalls(ctx, scope, 1))

	err = svc.ConsumeAICalls(ctx, scope, 1)
	require.ErrorAs(t, err, &quotaErr)
	assert.Equal(t, int64(5000), quotaErr.Current)
}

func TestConsumeAICallsConcurrentNeverOvershoots(t *testing.T) {
	db := newTestDB(t)
	svc := newQuotaService(db)
	scope := scopeForPlan(plans.Free) // 50 calls per month
	ctx := context.Background()

	const workers = 100
	var allowed, denied atomic.Int64
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			err := svc.ConsumeAICalls(ctx, scope, 1)
			switch {
			case err == nil:
				allowed.Add(1)
			default:
				var quotaErr *utils.QuotaExceededError
				if assert.ErrorAs(t, err, &quotaErr) {
					denied.Add(1)
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(50), allowed.Load())
	assert.Equal(t, int64(50), denied.Load())

	usage, err := svc.CurrentUsage(ctx, scope)
	require.NoError(t, err)
	assert.Equal(t, int64(50), usage.AICallsConsumed)
}

func TestConsumeAICallsUnlimitedPlanAlwaysAllows(t *testing.T) {
	db := newTestDB(t)
	svc := newQuotaService(db)
	scope := scopeForPlan(plans.Enterprise)
	ctx := context.Background()

	require.NoError(t, svc.ConsumeAICalls(ctx, scope, 1_000_000))
	require.NoError(t, svc.ConsumeAICalls(ctx, scope, 1_000_000))

	usage, err := svc.CurrentUsage(ctx, scope)
	require.NoError(t, err)
	assert.Equal(t, int64(2_000_000), usage.AICallsConsumed)
	assert.True(t, usage.AICallLimit.Unlimited)

	// Unbounded storage and documents never deny either.
	require.NoError(t, db.Create(&db_models.Document{
		OwnerID: scope.SubjectID, Title: "huge", Content: "x",
		SizeBytes: 10 * 1024 * 1024 * 1024,
	}).Error)
	require.NoError(t, svc.CheckStorage(ctx, scope, 1024))
	require.NoError(t, svc.CheckDocumentCreation(ctx, scope))
}

func TestConsumeAICallsLargerThanLimitDenied(t *testing.T) {
	db := newTestDB(t)
	svc := newQuotaService(db)
	scope := scopeForPlan(plans.Free)
	ctx := context.Background()

	err := svc.ConsumeAICalls(ctx, scope, 51)
	var quotaErr *utils.QuotaExceededError
	require.ErrorAs(t, err, &quotaErr)
	assert.Equal(t, int64(0), quotaErr.Current)
}

func TestCheckDocumentCreation(t *testing.T) {
	db := newTestDB(t)
	svc := newQuotaService(db)
	scope := scopeForPlan(plans.Free) // 50 documents
	ctx := context.Background()

	ownerID := scope.SubjectID
	for i := 0; i < 50; i++ {
		require.NoError(t, db.Create(&db_models.Document{
			OwnerID: ownerID, Title: "doc", Content: "x", SizeBytes: 1,
		}).Error)
	}

	err := svc.CheckDocumentCreation(ctx, scope)
	var quotaErr *utils.QuotaExceededError
	require.ErrorAs(t, err, &quotaErr)
	assert.Equal(t, "documents", quotaErr.Resource)
	assert.Equal(t, int64(50), quotaErr.Current)
}

func TestCheckStorageRoundsUpToMB(t *testing.T) {
	db := newTestDB(t)
	svc := newQuotaService(db)
	scope := scopeForPlan(plans.Free) // 100 MB
	ctx := context.Background()

	// 99 MB plus one byte occupies 100 MB after rounding.
	require.NoError(t, db.Create(&db_models.Document{
		OwnerID: scope.SubjectID, Title: "big", Content: "x",
		SizeBytes: 99*1024*1024 + 1,
	}).Error)

	require.NoError(t, svc.CheckStorage(ctx, scope, 0))

	err := svc.CheckStorage(ctx, scope, 1)
	var quotaErr *utils.QuotaExceededError
	require.ErrorAs(t, err, &quotaErr)
	assert.Equal(t, "storage", quotaErr.Resource)
	assert.Equal(t, int64(100), quotaErr.Current)
}

func TestCurrentUsageScopesToSubject(t *testing.T) {
	db := newTestDB(t)
	svc := newQuotaService(db)
	ctx := context.Background()

	orgID := uuid.New()
	memberID := uuid.New()
	orgScope := &BillingScope{
		Kind:           db_models.SubjectOrganization,
		SubjectID:      orgID,
		OrganizationID: &orgID,
		Plan:           plans.Team,
	}

	// One document inside the organization and one personal document owned
	// by the same member; only the former counts against the org.
	require.NoError(t, db.Create(&db_models.Document{
		OwnerID: memberID, OrganizationID: &orgID, Title: "shared", Content: "x", SizeBytes: 10,
	}).Error)
	require.NoError(t, db.Create(&db_models.Document{
		OwnerID: memberID, Title: "private", Content: "x", SizeBytes: 10,
	}).Error)

	usage, err := svc.CurrentUsage(ctx, orgScope)
	require.NoError(t, err)
	assert.Equal(t, int64(1), usage.Documents)

	personalScope := &BillingScope{
		Kind:      db_models.SubjectPersonal,
		SubjectID: memberID,
		Plan:      plans.Free,
	}
	usage, err = svc.CurrentUsage(ctx, personalScope)
	require.NoError(t, err)
	assert.Equal(t, int64(1), usage.Documents)
}
