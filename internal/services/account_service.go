package services

import (
	"context"

	"paperbase/internal/models/db_models"
	"paperbase/internal/models/request_models"
	"paperbase/internal/models/response_models"
	"paperbase/internal/repositories"
	"paperbase/pkg/utils"
)

type AccountServiceInterface interface {
	Login(ctx context.Context, request request_models.LoginRequest) (*response_models.AccountLoginResponse, error)
	CreateAccount(ctx context.Context, request request_models.SignUpRequest) error
}

type AccountService struct {
	accountRepo      repositories.AccountRepository
	subscriptionRepo repositories.ISubscriptionRepository
}

func NewAccountService(
	accountRepo repositories.AccountRepository,
	subscriptionRepo repositories.ISubscriptionRepository,
) AccountServiceInterface {
	return &AccountService{
		accountRepo:      accountRepo,
		subscriptionRepo: subscriptionRepo,
	}
}

func (a *AccountService) Login(ctx context.Context, request request_models.LoginRequest) (*response_models.AccountLoginResponse, error) {
	account, err := a.accountRepo.FindByEmail(ctx, request.Email)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if account == nil {
		return nil, utils.ErrAccountNotFound
	}

	if err := utils.ComparePasswords(account.PasswordHash, request.Password); err != nil {
		return nil, utils.ErrInvalidCredentials
	}

	token, err := utils.CreateToken(account.ID, "user")
	if err != nil {
		return nil, utils.ErrInvalidCredentials
	}

	sub, err := a.subscriptionRepo.EnsureForSubject(ctx, account.ID, db_models.SubjectPersonal)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	return &response_models.AccountLoginResponse{
		Token: token,
		Plan:  string(sub.Plan),
	}, nil
}

func (a *AccountService) CreateAccount(ctx context.Context, request request_models.SignUpRequest) error {
	existing, err := a.accountRepo.FindByEmail(ctx, request.Email)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if existing != nil {
		return utils.ErrEmailAlreadyUsed
	}

	hash, err := utils.HashPassword(request.Password)
	if err != nil {
		return utils.ErrDatabaseError
	}

	account := &db_models.Account{
		Name:         request.DisplayName,
		Email:        request.Email,
		PasswordHash: hash,
	}
	if err := a.accountRepo.Insert(ctx, account); err != nil {
		return utils.ErrDatabaseError
	}
	return nil
}
