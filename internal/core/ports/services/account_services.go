package services

import (
	"context"

	"github.com/medantrix/hms_accounting_app/internal/core/domain"
	"github.com/medantrix/hms_accounting_app/internal/dto"
)

// AccountSvcFacade defines the chart-of-accounts operations offered to
// handlers and to the journal entry engine.
type AccountSvcFacade interface {
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error)
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	GetAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)
	ListAccounts(ctx context.Context, params dto.ListAccountsParams) (*dto.ListAccountsResponse, error)
	ListChildAccounts(ctx context.Context, parentAccountID string) ([]domain.Account, error)
	UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, updaterUserID string) (*domain.Account, error)
	DeactivateAccount(ctx context.Context, accountID string, deactivatorUserID string) error

	// AssertAccountsPostable verifies that every referenced account exists
	// and is active, returning the accounts keyed by ID. Inactive accounts
	// block new postings but never invalidate history.
	AssertAccountsPostable(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)
}

// DepartmentSvcFacade defines department operations.
type DepartmentSvcFacade interface {
	CreateDepartment(ctx context.Context, req dto.CreateDepartmentRequest, creatorUserID string) (*domain.Department, error)
	GetDepartmentByID(ctx context.Context, departmentID string) (*domain.Department, error)
	ListDepartments(ctx context.Context) ([]domain.Department, error)
}
