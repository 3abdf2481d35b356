package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"paperbase/internal/models/request_models"
	"paperbase/internal/repositories"
	"paperbase/pkg/utils"
)

func newAccountService(db *gorm.DB) AccountServiceInterface {
	return NewAccountService(
		repositories.NewAccountRepository(db),
		repositories.NewSubscriptionRepository(db))
}

func TestCreateAccountAndLogin(t *testing.T) {
	db := newTestDB(t)
	svc := newAccountService(db)
	ctx := context.Background()

	require.NoError(t, svc.CreateAccount(ctx, request_models.SignUpRequest{
		DisplayName: "Alice",
		Email:       "alice@example.com",
		Password:    "secret123",
	}))

	login, err := svc.Login(ctx, request_models.LoginRequest{
		Email:    "alice@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, "free", login.Plan)
}

func TestCreateAccountDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := newAccountService(db)
	ctx := context.Background()

	req := request_models.SignUpRequest{
		DisplayName: "Bob",
		Email:       "bob@example.com",
		Password:    "secret123",
	}
	require.NoError(t, svc.CreateAccount(ctx, req))

	err := svc.CreateAccount(ctx, req)
	assert.ErrorIs(t, err, utils.ErrEmailAlreadyUsed)
}

func TestLoginWrongPassword(t *testing.T) {
	db := newTestDB(t)
	svc := newAccountService(db)
	ctx := context.Background()

	require.NoError(t, svc.CreateAccount(ctx, request_models.SignUpRequest{
		DisplayName: "Carol",
		Email:       "carol@example.com",
		Password:    "secret123",
	}))

	_, err := svc.Login(ctx, request_models.LoginRequest{
		Email:    "carol@example.com",
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, utils.ErrInvalidCredentials)
}

func TestLoginUnknownAccount(t *testing.T) {
	db := newTestDB(t)
	svc := newAccountService(db)

	_, err := svc.Login(context.Background(), request_models.LoginRequest{
		Email:    "nobody@example.com",
		Password: "secret123",
	})
	assert.ErrorIs(t, err, utils.ErrAccountNotFound)
}
