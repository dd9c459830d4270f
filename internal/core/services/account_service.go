package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/medantrix/hms_accounting_app/internal/apperrors"
	"github.com/medantrix/hms_accounting_app/internal/core/domain"
	portsrepo "github.com/medantrix/hms_accounting_app/internal/core/ports/repositories"
	portssvc "github.com/medantrix/hms_accounting_app/internal/core/ports/services"
	"github.com/medantrix/hms_accounting_app/internal/dto"
	"github.com/medantrix/hms_accounting_app/internal/utils/pagination"
	"github.com/google/uuid"
)

var (
	ErrAccountNotFound  = errors.New("account not found")
	ErrInactiveAccount  = errors.New("account is inactive")
	ErrAccountOwnParent = errors.New("account cannot be its own parent")
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo    portsrepo.AccountRepositoryFacade
	departmentRepo portsrepo.DepartmentRepository
}

// AccountServiceOption is a functional option for configuring the account service
type AccountServiceOption func(*accountService)

// WithDepartmentRepository adds the department repository dependency used to
// validate department references on accounts.
func WithDepartmentRepository(repo portsrepo.DepartmentRepository) AccountServiceOption {
	return func(s *accountService) {
		s.departmentRepo = repo
	}
}

// NewAccountService creates a new account service with the provided options
func NewAccountService(repo portsrepo.AccountRepositoryFacade, options ...AccountServiceOption) portssvc.AccountSvcFacade {
	svc := &accountService{
		accountRepo: repo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	// Account codes are unique across the chart
	existing, err := s.accountRepo.FindAccountByCode(ctx, req.AccountCode)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to check account code uniqueness",
			slog.String("account_code", req.AccountCode))
		return nil, err
	}
	if existing != nil {
		err := fmt.Errorf("account code %s already exists: %w", req.AccountCode, apperrors.ErrDuplicate)
		s.LogWarn(ctx, "Duplicate account code",
			slog.String("account_code", req.AccountCode))
		return nil, err
	}

	if req.ParentAccountID != nil {
		parent, err := s.accountRepo.FindAccountByID(ctx, *req.ParentAccountID)
		if err != nil {
			s.LogError(ctx, err, "Failed to find parent account",
				slog.String("parent_account_id", *req.ParentAccountID))
			return nil, fmt.Errorf("invalid parent account: %w", err)
		}
		// A child carries its parent's fundamental type
		if parent.AccountType != domain.AccountType(req.AccountType) {
			err := fmt.Errorf("parent account type %s does not match %s: %w",
				parent.AccountType, req.AccountType, apperrors.ErrValidation)
			s.LogWarn(ctx, "Parent account type mismatch",
				slog.String("parent_account_id", *req.ParentAccountID))
			return nil, err
		}
	}

	if req.DepartmentID != nil && s.departmentRepo != nil {
		if _, err := s.departmentRepo.FindDepartmentByID(ctx, *req.DepartmentID); err != nil {
			s.LogError(ctx, err, "Failed to find department",
				slog.String("department_id", *req.DepartmentID))
			return nil, fmt.Errorf("invalid department: %w", err)
		}
	}

	now := time.Now()
	account := domain.Account{
		AccountID:       uuid.NewString(),
		AccountCode:     req.AccountCode,
		Name:            req.Name,
		AccountType:     domain.AccountType(req.AccountType),
		ParentAccountID: req.ParentAccountID,
		DepartmentID:    req.DepartmentID,
		Description:     req.Description,
		OpeningBalance:  req.OpeningBalance,
		Balance:         req.OpeningBalance,
		IsActive:        true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account",
			slog.String("account_id", account.AccountID))
		return nil, err
	}

	s.LogInfo(ctx, "Account created successfully",
		slog.String("account_id", account.AccountID),
		slog.String("account_code", account.AccountCode))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by ID",
				slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) GetAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		s.LogError(ctx, err, "Failed to find accounts by IDs",
			slog.Int("count", len(accountIDs)))
		return nil, err
	}
	return accounts, nil
}

func (s *accountService) ListAccounts(ctx context.Context, params dto.ListAccountsParams) (*dto.ListAccountsResponse, error) {
	page, limit := pagination.Normalize(params.Page, params.Limit)
	offset := pagination.Offset(page, limit)

	accounts, total, err := s.accountRepo.ListAccounts(ctx, limit, offset, params.ActiveOnly)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts",
			slog.Int("limit", limit),
			slog.Int("offset", offset))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	return &dto.ListAccountsResponse{
		Data:       dto.ToAccountResponses(accounts),
		Pagination: pagination.New(total, page, limit),
	}, nil
}

func (s *accountService) ListChildAccounts(ctx context.Context, parentAccountID string) ([]domain.Account, error) {
	children, err := s.accountRepo.ListChildAccounts(ctx, parentAccountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list child accounts",
			slog.String("parent_account_id", parentAccountID))
		return nil, err
	}
	if children == nil {
		return []domain.Account{}, nil
	}
	return children, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, updaterUserID string) (*domain.Account, error) {
	account, err := s.GetAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Name != nil {
		account.Name = *req.Name
		updated = true
	}
	if req.Description != nil {
		account.Description = *req.Description
		updated = true
	}
	if req.ParentAccountID != nil {
		if *req.ParentAccountID == accountID {
			return nil, fmt.Errorf("%w: %s", ErrAccountOwnParent, accountID)
		}
		parent, err := s.accountRepo.FindAccountByID(ctx, *req.ParentAccountID)
		if err != nil {
			return nil, fmt.Errorf("invalid parent account: %w", err)
		}
		if parent.AccountType != account.AccountType {
			return nil, fmt.Errorf("parent account type %s does not match %s: %w",
				parent.AccountType, account.AccountType, apperrors.ErrValidation)
		}
		account.ParentAccountID = req.ParentAccountID
		updated = true
	}
	if req.DepartmentID != nil {
		if s.departmentRepo != nil {
			if _, err := s.departmentRepo.FindDepartmentByID(ctx, *req.DepartmentID); err != nil {
				return nil, fmt.Errorf("invalid department: %w", err)
			}
		}
		account.DepartmentID = req.DepartmentID
		updated = true
	}
	if !updated {
		s.LogDebug(ctx, "No fields provided for account update",
			slog.String("account_id", accountID))
		return account, nil
	}

	now := time.Now()
	account.LastUpdatedAt = now
	account.LastUpdatedBy = updaterUserID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account",
			slog.String("account_id", accountID))
		return nil, err
	}

	s.LogInfo(ctx, "Account updated successfully",
		slog.String("account_id", accountID))
	return account, nil
}

func (s *accountService) DeactivateAccount(ctx context.Context, accountID string, deactivatorUserID string) error {
	if _, err := s.GetAccountByID(ctx, accountID); err != nil {
		return err
	}

	now := time.Now()
	if err := s.accountRepo.DeactivateAccount(ctx, accountID, deactivatorUserID, now); err != nil {
		s.LogError(ctx, err, "Failed to deactivate account",
			slog.String("account_id", accountID))
		return err
	}

	s.LogInfo(ctx, "Account deactivated successfully",
		slog.String("account_id", accountID))
	return nil
}

// AssertAccountsPostable verifies that every referenced account exists and
// is active. Deactivation blocks new postings while leaving posted history
// untouched.
func (s *accountService) AssertAccountsPostable(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		s.LogError(ctx, err, "Failed to find accounts for posting check",
			slog.Int("count", len(accountIDs)))
		return nil, err
	}

	for _, accountID := range accountIDs {
		account, found := accounts[accountID]
		if !found {
			return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, accountID)
		}
		if !account.IsActive {
			return nil, fmt.Errorf("%w: %s (%s)", ErrInactiveAccount,
				account.AccountCode, account.Name)
		}
	}

	return accounts, nil
}
