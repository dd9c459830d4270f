package services_test

import (
	"context"
	"time"

	"github.com/medantrix/hms_accounting_app/internal/core/domain"
	portsrepo "github.com/medantrix/hms_accounting_app/internal/core/ports/repositories"
	portssvc "github.com/medantrix/hms_accounting_app/internal/core/ports/services"
	"github.com/medantrix/hms_accounting_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock JournalRepository ---

type MockJournalRepository struct {
	mock.Mock
}

var _ portsrepo.JournalRepositoryFacade = (*MockJournalRepository)(nil)

func (m *MockJournalRepository) FindEntryByID(ctx context.Context, journalEntryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, journalEntryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) FindItemsByEntryID(ctx context.Context, journalEntryID string) ([]domain.JournalEntryItem, error) {
	args := m.Called(ctx, journalEntryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntryItem), args.Error(1)
}

func (m *MockJournalRepository) ListEntries(ctx context.Context, filter portsrepo.JournalEntryFilter, limit int, offset int) ([]domain.JournalEntry, int, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.JournalEntry), args.Int(1), args.Error(2)
}

func (m *MockJournalRepository) SaveDraftEntry(ctx context.Context, entry domain.JournalEntry, items []domain.JournalEntryItem) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entry, items)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) UpdateDraftEntry(ctx context.Context, entry domain.JournalEntry, items []domain.JournalEntryItem) error {
	args := m.Called(ctx, entry, items)
	return args.Error(0)
}

func (m *MockJournalRepository) PostEntry(ctx context.Context, journalEntryID string, expectedVersion time.Time, balanceChanges map[string]decimal.Decimal, approvedBy string, approvedAt time.Time) error {
	args := m.Called(ctx, journalEntryID, expectedVersion, balanceChanges, approvedBy, approvedAt)
	return args.Error(0)
}

func (m *MockJournalRepository) ReverseEntry(ctx context.Context, originalEntryID string, expectedVersion time.Time, reversal domain.JournalEntry, items []domain.JournalEntryItem, balanceChanges map[string]decimal.Decimal, reversedBy string, reversedAt time.Time) (*domain.JournalEntry, error) {
	args := m.Called(ctx, originalEntryID, expectedVersion, reversal, items, balanceChanges, reversedBy, reversedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

// --- Mock AccountService (as used by the journal engine) ---

type MockAccountService struct {
	mock.Mock
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

func (m *MockAccountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, params dto.ListAccountsParams) (*dto.ListAccountsResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListAccountsResponse), args.Error(1)
}

func (m *MockAccountService) ListChildAccounts(ctx context.Context, parentAccountID string) ([]domain.Account, error) {
	args := m.Called(ctx, parentAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, updaterUserID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID, req, updaterUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) DeactivateAccount(ctx context.Context, accountID string, deactivatorUserID string) error {
	args := m.Called(ctx, accountID, deactivatorUserID)
	return args.Error(0)
}

func (m *MockAccountService) AssertAccountsPostable(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

// --- Mock FinancialYearService ---

type MockFinancialYearService struct {
	mock.Mock
}

var _ portssvc.FinancialYearSvcFacade = (*MockFinancialYearService)(nil)

func (m *MockFinancialYearService) CreateFinancialYear(ctx context.Context, req dto.CreateFinancialYearRequest, creatorUserID string) (*domain.FinancialYear, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinancialYear), args.Error(1)
}

func (m *MockFinancialYearService) GetFinancialYearByID(ctx context.Context, financialYearID string) (*domain.FinancialYear, error) {
	args := m.Called(ctx, financialYearID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinancialYear), args.Error(1)
}

func (m *MockFinancialYearService) ListFinancialYears(ctx context.Context) ([]domain.FinancialYear, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FinancialYear), args.Error(1)
}

func (m *MockFinancialYearService) CloseFinancialYear(ctx context.Context, financialYearID string, closerUserID string) (*domain.FinancialYear, error) {
	args := m.Called(ctx, financialYearID, closerUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinancialYear), args.Error(1)
}

func (m *MockFinancialYearService) AssertPostable(ctx context.Context, financialYearID string, entryDate time.Time) error {
	args := m.Called(ctx, financialYearID, entryDate)
	return args.Error(0)
}

// --- Mock AccountRepository ---

type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, accountCode string) (*domain.Account, error) {
	args := m.Called(ctx, accountCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, limit int, offset int, activeOnly bool) ([]domain.Account, int, error) {
	args := m.Called(ctx, limit, offset, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Account), args.Int(1), args.Error(2)
}

func (m *MockAccountRepository) ListChildAccounts(ctx context.Context, parentAccountID string) ([]domain.Account, error) {
	args := m.Called(ctx, parentAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	args := m.Called(ctx, accountID, userID, now)
	return args.Error(0)
}

// --- Mock DepartmentRepository ---

type MockDepartmentRepository struct {
	mock.Mock
}

var _ portsrepo.DepartmentRepository = (*MockDepartmentRepository)(nil)

func (m *MockDepartmentRepository) SaveDepartment(ctx context.Context, department domain.Department) error {
	args := m.Called(ctx, department)
	return args.Error(0)
}

func (m *MockDepartmentRepository) FindDepartmentByID(ctx context.Context, departmentID string) (*domain.Department, error) {
	args := m.Called(ctx, departmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Department), args.Error(1)
}

func (m *MockDepartmentRepository) ListDepartments(ctx context.Context) ([]domain.Department, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Department), args.Error(1)
}

// --- Mock FinancialYearRepository ---

type MockFinancialYearRepository struct {
	mock.Mock
}

var _ portsrepo.FinancialYearRepository = (*MockFinancialYearRepository)(nil)

func (m *MockFinancialYearRepository) SaveFinancialYear(ctx context.Context, year domain.FinancialYear) error {
	args := m.Called(ctx, year)
	return args.Error(0)
}

func (m *MockFinancialYearRepository) FindFinancialYearByID(ctx context.Context, financialYearID string) (*domain.FinancialYear, error) {
	args := m.Called(ctx, financialYearID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinancialYear), args.Error(1)
}

func (m *MockFinancialYearRepository) ListFinancialYears(ctx context.Context) ([]domain.FinancialYear, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FinancialYear), args.Error(1)
}

func (m *MockFinancialYearRepository) CloseFinancialYear(ctx context.Context, financialYearID string, userID string, now time.Time) error {
	args := m.Called(ctx, financialYearID, userID, now)
	return args.Error(0)
}

// --- Mock PriceListRepository ---

type MockPriceListRepository struct {
	mock.Mock
}

var _ portsrepo.PriceListRepositoryFacade = (*MockPriceListRepository)(nil)

func (m *MockPriceListRepository) SaveServicePrice(ctx context.Context, price domain.ServicePrice) error {
	args := m.Called(ctx, price)
	return args.Error(0)
}

func (m *MockPriceListRepository) FindServicePriceByID(ctx context.Context, servicePriceID string) (*domain.ServicePrice, error) {
	args := m.Called(ctx, servicePriceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ServicePrice), args.Error(1)
}

func (m *MockPriceListRepository) FindActiveServiceByCode(ctx context.Context, serviceCode string) (*domain.ServicePrice, error) {
	args := m.Called(ctx, serviceCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ServicePrice), args.Error(1)
}

func (m *MockPriceListRepository) FindServicePricesByIDs(ctx context.Context, servicePriceIDs []string) (map[string]domain.ServicePrice, error) {
	args := m.Called(ctx, servicePriceIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.ServicePrice), args.Error(1)
}

func (m *MockPriceListRepository) ListServicePrices(ctx context.Context, limit int, offset int, activeOnly bool) ([]domain.ServicePrice, int, error) {
	args := m.Called(ctx, limit, offset, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.ServicePrice), args.Int(1), args.Error(2)
}

func (m *MockPriceListRepository) UpdateServicePrice(ctx context.Context, price domain.ServicePrice) error {
	args := m.Called(ctx, price)
	return args.Error(0)
}

func (m *MockPriceListRepository) DeactivateServicePrice(ctx context.Context, servicePriceID string, userID string, now time.Time) error {
	args := m.Called(ctx, servicePriceID, userID, now)
	return args.Error(0)
}

func (m *MockPriceListRepository) SavePackagePrice(ctx context.Context, price domain.PackagePrice, items []domain.PackageItem) error {
	args := m.Called(ctx, price, items)
	return args.Error(0)
}

func (m *MockPriceListRepository) FindPackagePriceByID(ctx context.Context, packagePriceID string) (*domain.PackagePrice, error) {
	args := m.Called(ctx, packagePriceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PackagePrice), args.Error(1)
}

func (m *MockPriceListRepository) FindActivePackageByCode(ctx context.Context, packageCode string) (*domain.PackagePrice, error) {
	args := m.Called(ctx, packageCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PackagePrice), args.Error(1)
}

func (m *MockPriceListRepository) ListPackagePrices(ctx context.Context, limit int, offset int, activeOnly bool) ([]domain.PackagePrice, int, error) {
	args := m.Called(ctx, limit, offset, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.PackagePrice), args.Int(1), args.Error(2)
}

func (m *MockPriceListRepository) UpdatePackagePrice(ctx context.Context, price domain.PackagePrice, items []domain.PackageItem) error {
	args := m.Called(ctx, price, items)
	return args.Error(0)
}

func (m *MockPriceListRepository) DeactivatePackagePrice(ctx context.Context, packagePriceID string, userID string, now time.Time) error {
	args := m.Called(ctx, packagePriceID, userID, now)
	return args.Error(0)
}

func (m *MockPriceListRepository) FindHsnSacCode(ctx context.Context, code string) (*domain.HsnSacCode, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.HsnSacCode), args.Error(1)
}
