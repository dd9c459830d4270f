package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/medantrix/hms_accounting_app/internal/apperrors"
	"github.com/medantrix/hms_accounting_app/internal/core/domain"
	portssvc "github.com/medantrix/hms_accounting_app/internal/core/ports/services"
	"github.com/medantrix/hms_accounting_app/internal/core/services"
	"github.com/medantrix/hms_accounting_app/internal/dto"
	"github.com/medantrix/hms_accounting_app/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite Setup ---

type JournalServiceTestSuite struct {
	suite.Suite
	mockJournalRepo *MockJournalRepository
	mockAccountSvc  *MockAccountService
	mockYearSvc     *MockFinancialYearService
	service         portssvc.JournalSvcFacade
	assetAccount    domain.Account
	revenueAccount  domain.Account
	financialYearID string
	userID          string
	entryDate       time.Time
	entryVersion    time.Time
}

func (suite *JournalServiceTestSuite) SetupTest() {
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockAccountSvc = new(MockAccountService)
	suite.mockYearSvc = new(MockFinancialYearService)
	suite.service = services.NewJournalService(suite.mockJournalRepo, suite.mockAccountSvc, suite.mockYearSvc)

	suite.financialYearID = uuid.NewString()
	suite.userID = uuid.NewString()
	suite.entryDate = time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)
	suite.entryVersion = time.Date(2025, 7, 15, 9, 30, 0, 0, time.UTC)

	suite.assetAccount = domain.Account{
		AccountID:   uuid.NewString(),
		AccountCode: "1110",
		Name:        "Cash",
		AccountType: domain.Asset,
		IsActive:    true,
	}
	suite.revenueAccount = domain.Account{
		AccountID:   uuid.NewString(),
		AccountCode: "4100",
		Name:        "OPD Revenue",
		AccountType: domain.Revenue,
		IsActive:    true,
	}
}

func (suite *JournalServiceTestSuite) accountsMap() map[string]domain.Account {
	return map[string]domain.Account{
		suite.assetAccount.AccountID:   suite.assetAccount,
		suite.revenueAccount.AccountID: suite.revenueAccount,
	}
}

func (suite *JournalServiceTestSuite) balancedCreateRequest() dto.CreateJournalEntryRequest {
	return dto.CreateJournalEntryRequest{
		EntryDate:       suite.entryDate,
		FinancialYearID: suite.financialYearID,
		Description:     "OPD cash collection",
		Items: []dto.JournalEntryItemRequest{
			{AccountID: suite.assetAccount.AccountID, DebitAmount: decimal.NewFromInt(100)},
			{AccountID: suite.revenueAccount.AccountID, CreditAmount: decimal.NewFromInt(100)},
		},
	}
}

// --- Create ---

func (suite *JournalServiceTestSuite) TestCreateEntry_Success() {
	ctx := context.Background()
	req := suite.balancedCreateRequest()

	suite.mockYearSvc.On("AssertPostable", ctx, suite.financialYearID, suite.entryDate).Return(nil).Once()
	suite.mockAccountSvc.On("AssertAccountsPostable", ctx, []string{suite.assetAccount.AccountID, suite.revenueAccount.AccountID}).
		Return(suite.accountsMap(), nil).Once()
	suite.mockJournalRepo.On("SaveDraftEntry", ctx, mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("[]domain.JournalEntryItem")).
		Return(&domain.JournalEntry{
			JournalEntryID:  uuid.NewString(),
			EntryNumber:     "JE-202507-0001",
			EntryDate:       suite.entryDate,
			FinancialYearID: suite.financialYearID,
			Description:     req.Description,
			TotalDebit:      decimal.NewFromInt(100),
			TotalCredit:     decimal.NewFromInt(100),
			Status:          domain.Draft,
		}, nil).Once()

	entry, err := suite.service.CreateEntry(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(entry)
	suite.Equal(domain.Draft, entry.Status)
	suite.Regexp(`^JE-\d{6}-\d{4}$`, entry.EntryNumber)
	suite.True(entry.TotalDebit.Equal(decimal.NewFromInt(100)))
	suite.True(entry.TotalCredit.Equal(decimal.NewFromInt(100)))
	suite.Len(entry.Items, 2)

	suite.mockYearSvc.AssertExpectations(suite.T())
	suite.mockAccountSvc.AssertExpectations(suite.T())
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestCreateEntry_DebitCreditMismatch() {
	ctx := context.Background()
	req := suite.balancedCreateRequest()
	req.Items[1].CreditAmount = decimal.NewFromInt(90)

	entry, err := suite.service.CreateEntry(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(entry)

	// Nothing was persisted and no gate was consulted
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveDraftEntry", mock.Anything, mock.Anything, mock.Anything)
	suite.mockYearSvc.AssertNotCalled(suite.T(), "AssertPostable", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_AllDebitComposition() {
	ctx := context.Background()
	req := suite.balancedCreateRequest()
	req.Items = []dto.JournalEntryItemRequest{
		{AccountID: suite.assetAccount.AccountID, DebitAmount: decimal.NewFromInt(50)},
		{AccountID: suite.revenueAccount.AccountID, DebitAmount: decimal.NewFromInt(50)},
	}

	entry, err := suite.service.CreateEntry(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(entry)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveDraftEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_ToleranceBoundary() {
	ctx := context.Background()
	req := suite.balancedCreateRequest()
	// 100 vs 100.005 is inside the 0.01 tolerance
	req.Items[1].CreditAmount = decimal.NewFromFloat(100.005)

	suite.mockYearSvc.On("AssertPostable", ctx, suite.financialYearID, suite.entryDate).Return(nil).Once()
	suite.mockAccountSvc.On("AssertAccountsPostable", ctx, mock.Anything).Return(suite.accountsMap(), nil).Once()
	suite.mockJournalRepo.On("SaveDraftEntry", ctx, mock.Anything, mock.Anything).
		Return(&domain.JournalEntry{EntryNumber: "JE-202507-0002", Status: domain.Draft}, nil).Once()

	_, err := suite.service.CreateEntry(ctx, req, suite.userID)
	suite.NoError(err)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_ClosedYearBlocks() {
	ctx := context.Background()
	req := suite.balancedCreateRequest()

	suite.mockYearSvc.On("AssertPostable", ctx, suite.financialYearID, suite.entryDate).
		Return(services.ErrFinancialYearClosed).Once()

	entry, err := suite.service.CreateEntry(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrFinancialYearClosed)
	suite.Nil(entry)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveDraftEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_InactiveAccountBlocks() {
	ctx := context.Background()
	req := suite.balancedCreateRequest()

	suite.mockYearSvc.On("AssertPostable", ctx, suite.financialYearID, suite.entryDate).Return(nil).Once()
	suite.mockAccountSvc.On("AssertAccountsPostable", ctx, mock.Anything).
		Return(nil, services.ErrInactiveAccount).Once()

	entry, err := suite.service.CreateEntry(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInactiveAccount)
	suite.Nil(entry)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveDraftEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_RetriesNumberCollision() {
	ctx := context.Background()
	req := suite.balancedCreateRequest()

	suite.mockYearSvc.On("AssertPostable", ctx, suite.financialYearID, suite.entryDate).Return(nil).Once()
	suite.mockAccountSvc.On("AssertAccountsPostable", ctx, mock.Anything).Return(suite.accountsMap(), nil).Once()
	suite.mockJournalRepo.On("SaveDraftEntry", ctx, mock.Anything, mock.Anything).
		Return(nil, apperrors.ErrConflict).Twice()
	suite.mockJournalRepo.On("SaveDraftEntry", ctx, mock.Anything, mock.Anything).
		Return(&domain.JournalEntry{EntryNumber: "JE-202507-0003", Status: domain.Draft}, nil).Once()

	entry, err := suite.service.CreateEntry(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal("JE-202507-0003", entry.EntryNumber)
	suite.mockJournalRepo.AssertNumberOfCalls(suite.T(), "SaveDraftEntry", 3)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_RetryGivesUpAfterThreeAttempts() {
	ctx := context.Background()
	req := suite.balancedCreateRequest()

	suite.mockYearSvc.On("AssertPostable", ctx, suite.financialYearID, suite.entryDate).Return(nil).Once()
	suite.mockAccountSvc.On("AssertAccountsPostable", ctx, mock.Anything).Return(suite.accountsMap(), nil).Once()
	suite.mockJournalRepo.On("SaveDraftEntry", ctx, mock.Anything, mock.Anything).
		Return(nil, apperrors.ErrConflict).Times(3)

	entry, err := suite.service.CreateEntry(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Nil(entry)
	suite.mockJournalRepo.AssertNumberOfCalls(suite.T(), "SaveDraftEntry", 3)
}

// --- Update ---

func (suite *JournalServiceTestSuite) TestUpdateEntry_PostedRejected() {
	ctx := context.Background()
	entryID := uuid.NewString()
	newDescription := "corrected"

	suite.mockJournalRepo.On("FindEntryByID", ctx, entryID).Return(&domain.JournalEntry{
		JournalEntryID: entryID,
		EntryNumber:    "JE-202507-0007",
		Status:         domain.Posted,
	}, nil).Once()

	entry, err := suite.service.UpdateEntry(ctx, entryID, dto.UpdateJournalEntryRequest{Description: &newDescription}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrEntryNotEditable)
	suite.Nil(entry)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "UpdateDraftEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestUpdateEntry_ReplacesItemsWholesale() {
	ctx := context.Background()
	entryID := uuid.NewString()

	existing := &domain.JournalEntry{
		JournalEntryID:  entryID,
		EntryNumber:     "JE-202507-0004",
		EntryDate:       suite.entryDate,
		FinancialYearID: suite.financialYearID,
		Description:     "draft",
		Status:          domain.Draft,
		Items: []domain.JournalEntryItem{
			{ItemID: uuid.NewString(), JournalEntryID: entryID, AccountID: suite.assetAccount.AccountID, DebitAmount: decimal.NewFromInt(10)},
			{ItemID: uuid.NewString(), JournalEntryID: entryID, AccountID: suite.revenueAccount.AccountID, CreditAmount: decimal.NewFromInt(10)},
		},
	}

	suite.mockJournalRepo.On("FindEntryByID", ctx, entryID).Return(existing, nil).Once()
	suite.mockYearSvc.On("AssertPostable", ctx, suite.financialYearID, suite.entryDate).Return(nil).Once()
	suite.mockAccountSvc.On("AssertAccountsPostable", ctx, mock.Anything).Return(suite.accountsMap(), nil).Once()
	suite.mockJournalRepo.On("UpdateDraftEntry", ctx, mock.AnythingOfType("domain.JournalEntry"), mock.MatchedBy(func(items []domain.JournalEntryItem) bool {
		return len(items) == 2 && items[0].DebitAmount.Equal(decimal.NewFromInt(250))
	})).Return(nil).Once()

	req := dto.UpdateJournalEntryRequest{
		Items: []dto.JournalEntryItemRequest{
			{AccountID: suite.assetAccount.AccountID, DebitAmount: decimal.NewFromInt(250)},
			{AccountID: suite.revenueAccount.AccountID, CreditAmount: decimal.NewFromInt(250)},
		},
	}
	entry, err := suite.service.UpdateEntry(ctx, entryID, req, suite.userID)

	suite.Require().NoError(err)
	suite.True(entry.TotalDebit.Equal(decimal.NewFromInt(250)))
	suite.True(entry.TotalCredit.Equal(decimal.NewFromInt(250)))
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

// --- Post ---

func (suite *JournalServiceTestSuite) postableEntry(entryID string) *domain.JournalEntry {
	return &domain.JournalEntry{
		JournalEntryID:  entryID,
		EntryNumber:     "JE-202507-0005",
		EntryDate:       suite.entryDate,
		FinancialYearID: suite.financialYearID,
		TotalDebit:      decimal.NewFromInt(100),
		TotalCredit:     decimal.NewFromInt(100),
		Status:          domain.Draft,
		Items: []domain.JournalEntryItem{
			{ItemID: uuid.NewString(), JournalEntryID: entryID, AccountID: suite.assetAccount.AccountID, DebitAmount: decimal.NewFromInt(100)},
			{ItemID: uuid.NewString(), JournalEntryID: entryID, AccountID: suite.revenueAccount.AccountID, CreditAmount: decimal.NewFromInt(100)},
		},
		AuditFields: domain.AuditFields{
			LastUpdatedAt: suite.entryVersion,
		},
	}
}

func (suite *JournalServiceTestSuite) TestPostEntry_AppliesSignedDeltas() {
	ctx := context.Background()
	entryID := uuid.NewString()

	suite.mockJournalRepo.On("FindEntryByID", ctx, entryID).Return(suite.postableEntry(entryID), nil).Once()
	suite.mockYearSvc.On("AssertPostable", ctx, suite.financialYearID, suite.entryDate).Return(nil).Once()
	suite.mockAccountSvc.On("AssertAccountsPostable", ctx, mock.Anything).Return(suite.accountsMap(), nil).Once()

	// Debit to ASSET raises it by 100; credit to REVENUE raises it by 100.
	// The write carries the version of the entry the deltas were read from.
	suite.mockJournalRepo.On("PostEntry", ctx, entryID, suite.entryVersion, mock.MatchedBy(func(changes map[string]decimal.Decimal) bool {
		return changes[suite.assetAccount.AccountID].Equal(decimal.NewFromInt(100)) &&
			changes[suite.revenueAccount.AccountID].Equal(decimal.NewFromInt(100))
	}), suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	entry, err := suite.service.PostEntry(ctx, entryID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.Posted, entry.Status)
	suite.Require().NotNil(entry.ApprovedBy)
	suite.Equal(suite.userID, *entry.ApprovedBy)
	suite.NotNil(entry.ApprovedAt)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestPostEntry_AlreadyPostedRejected() {
	ctx := context.Background()
	entryID := uuid.NewString()

	posted := suite.postableEntry(entryID)
	posted.Status = domain.Posted

	suite.mockJournalRepo.On("FindEntryByID", ctx, entryID).Return(posted, nil).Once()

	entry, err := suite.service.PostEntry(ctx, entryID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInvalidStateTransition)
	suite.Nil(entry)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "PostEntry",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestPostEntry_LostRaceSurfacesStateError() {
	ctx := context.Background()
	entryID := uuid.NewString()

	// The guarded write loses to a concurrent post; the retry re-reads the
	// entry, finds it POSTED and stops with a state error.
	posted := suite.postableEntry(entryID)
	posted.Status = domain.Posted

	suite.mockJournalRepo.On("FindEntryByID", ctx, entryID).Return(suite.postableEntry(entryID), nil).Once()
	suite.mockJournalRepo.On("FindEntryByID", ctx, entryID).Return(posted, nil).Once()
	suite.mockYearSvc.On("AssertPostable", ctx, suite.financialYearID, suite.entryDate).Return(nil).Once()
	suite.mockAccountSvc.On("AssertAccountsPostable", ctx, mock.Anything).Return(suite.accountsMap(), nil).Once()
	suite.mockJournalRepo.On("PostEntry", ctx, entryID, suite.entryVersion, mock.Anything, suite.userID, mock.AnythingOfType("time.Time")).
		Return(apperrors.ErrConflict).Once()

	entry, err := suite.service.PostEntry(ctx, entryID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInvalidStateTransition)
	suite.Nil(entry)
	suite.mockJournalRepo.AssertNumberOfCalls(suite.T(), "PostEntry", 1)
}

func (suite *JournalServiceTestSuite) TestPostEntry_RetryRecomputesDeltasAfterDraftEdit() {
	ctx := context.Background()
	entryID := uuid.NewString()

	// A draft edit lands between the read and the guarded write: the items
	// are replaced and last_updated_at moves forward. The stale write is
	// rejected; the retry must compute its deltas from the edited items and
	// carry the new version.
	edited := suite.postableEntry(entryID)
	edited.TotalDebit = decimal.NewFromInt(250)
	edited.TotalCredit = decimal.NewFromInt(250)
	edited.Items = []domain.JournalEntryItem{
		{ItemID: uuid.NewString(), JournalEntryID: entryID, AccountID: suite.assetAccount.AccountID, DebitAmount: decimal.NewFromInt(250)},
		{ItemID: uuid.NewString(), JournalEntryID: entryID, AccountID: suite.revenueAccount.AccountID, CreditAmount: decimal.NewFromInt(250)},
	}
	editedVersion := suite.entryVersion.Add(time.Minute)
	edited.LastUpdatedAt = editedVersion

	suite.mockJournalRepo.On("FindEntryByID", ctx, entryID).Return(suite.postableEntry(entryID), nil).Once()
	suite.mockJournalRepo.On("FindEntryByID", ctx, entryID).Return(edited, nil).Once()
	suite.mockYearSvc.On("AssertPostable", ctx, suite.financialYearID, suite.entryDate).Return(nil).Twice()
	suite.mockAccountSvc.On("AssertAccountsPostable", ctx, mock.Anything).Return(suite.accountsMap(), nil).Twice()

	suite.mockJournalRepo.On("PostEntry", ctx, entryID, suite.entryVersion, mock.Anything, suite.userID, mock.AnythingOfType("time.Time")).
		Return(apperrors.ErrConflict).Once()
	suite.mockJournalRepo.On("PostEntry", ctx, entryID, editedVersion, mock.MatchedBy(func(changes map[string]decimal.Decimal) bool {
		return changes[suite.assetAccount.AccountID].Equal(decimal.NewFromInt(250)) &&
			changes[suite.revenueAccount.AccountID].Equal(decimal.NewFromInt(250))
	}), suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	entry, err := suite.service.PostEntry(ctx, entryID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.Posted, entry.Status)
	suite.True(entry.TotalDebit.Equal(decimal.NewFromInt(250)))
	suite.mockJournalRepo.AssertNumberOfCalls(suite.T(), "PostEntry", 2)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestPostEntry_ClosedYearBlocks() {
	ctx := context.Background()
	entryID := uuid.NewString()

	suite.mockJournalRepo.On("FindEntryByID", ctx, entryID).Return(suite.postableEntry(entryID), nil).Once()
	suite.mockYearSvc.On("AssertPostable", ctx, suite.financialYearID, suite.entryDate).
		Return(services.ErrFinancialYearClosed).Once()

	entry, err := suite.service.PostEntry(ctx, entryID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrFinancialYearClosed)
	suite.Nil(entry)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "PostEntry",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- Reverse ---

func (suite *JournalServiceTestSuite) postedEntry(entryID string) *domain.JournalEntry {
	entry := suite.postableEntry(entryID)
	entry.Status = domain.Posted
	return entry
}

func (suite *JournalServiceTestSuite) activeYear() *domain.FinancialYear {
	return &domain.FinancialYear{
		FinancialYearID: suite.financialYearID,
		Name:            "FY 2025-26",
		StartDate:       time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		EndDate:         time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		Status:          domain.FinancialYearActive,
	}
}

func (suite *JournalServiceTestSuite) TestReverseEntry_MirrorsItemsAndRestoresBalances() {
	ctx := context.Background()
	entryID := uuid.NewString()
	original := suite.postedEntry(entryID)

	suite.mockJournalRepo.On("FindEntryByID", ctx, entryID).Return(original, nil).Once()
	suite.mockYearSvc.On("GetFinancialYearByID", ctx, suite.financialYearID).Return(suite.activeYear(), nil).Once()
	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, mock.Anything).Return(suite.accountsMap(), nil).Once()

	savedReversal := &domain.JournalEntry{
		JournalEntryID: uuid.NewString(),
		EntryNumber:    "JE-202507-0006",
		Status:         domain.Posted,
	}
	suite.mockJournalRepo.On("ReverseEntry", ctx, entryID, suite.entryVersion,
		mock.MatchedBy(func(reversal domain.JournalEntry) bool {
			return reversal.Status == domain.Posted &&
				reversal.TotalDebit.Equal(original.TotalCredit) &&
				reversal.TotalCredit.Equal(original.TotalDebit) &&
				reversal.ReferenceType != nil && *reversal.ReferenceType == domain.ReferenceTypeReversal &&
				reversal.Reference != nil && *reversal.Reference == original.EntryNumber
		}),
		mock.MatchedBy(func(items []domain.JournalEntryItem) bool {
			// Debit and credit are swapped per line
			return len(items) == 2 &&
				items[0].CreditAmount.Equal(decimal.NewFromInt(100)) && items[0].DebitAmount.IsZero() &&
				items[1].DebitAmount.Equal(decimal.NewFromInt(100)) && items[1].CreditAmount.IsZero()
		}),
		mock.MatchedBy(func(changes map[string]decimal.Decimal) bool {
			// Inverse deltas: the reversal cancels the original posting exactly
			return changes[suite.assetAccount.AccountID].Equal(decimal.NewFromInt(-100)) &&
				changes[suite.revenueAccount.AccountID].Equal(decimal.NewFromInt(-100))
		}),
		suite.userID, mock.AnythingOfType("time.Time")).Return(savedReversal, nil).Once()

	reversedOriginal, reversal, err := suite.service.ReverseEntry(ctx, entryID, "data entry error", suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.Reversed, reversedOriginal.Status)
	suite.Require().NotNil(reversedOriginal.ReversalEntryID)
	suite.Equal(savedReversal.JournalEntryID, *reversedOriginal.ReversalEntryID)
	suite.Equal(domain.Posted, reversal.Status)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestReverseEntry_ReasonRequired() {
	ctx := context.Background()

	_, _, err := suite.service.ReverseEntry(ctx, uuid.NewString(), "   ", suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrReasonRequired)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "FindEntryByID", mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestReverseEntry_DraftRejected() {
	ctx := context.Background()
	entryID := uuid.NewString()

	suite.mockJournalRepo.On("FindEntryByID", ctx, entryID).Return(suite.postableEntry(entryID), nil).Once()

	_, _, err := suite.service.ReverseEntry(ctx, entryID, "typo", suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInvalidReversalTarget)
}

func (suite *JournalServiceTestSuite) TestReverseEntry_AlreadyReversedRejected() {
	ctx := context.Background()
	entryID := uuid.NewString()

	reversed := suite.postableEntry(entryID)
	reversed.Status = domain.Reversed

	suite.mockJournalRepo.On("FindEntryByID", ctx, entryID).Return(reversed, nil).Once()

	_, _, err := suite.service.ReverseEntry(ctx, entryID, "typo", suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInvalidReversalTarget)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "ReverseEntry",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestReverseEntry_ClosedYearBlocks() {
	ctx := context.Background()
	entryID := uuid.NewString()

	closedYear := suite.activeYear()
	closedYear.Status = domain.FinancialYearClosed

	suite.mockJournalRepo.On("FindEntryByID", ctx, entryID).Return(suite.postedEntry(entryID), nil).Once()
	suite.mockYearSvc.On("GetFinancialYearByID", ctx, suite.financialYearID).Return(closedYear, nil).Once()

	_, _, err := suite.service.ReverseEntry(ctx, entryID, "late correction", suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrFinancialYearClosed)
}

func (suite *JournalServiceTestSuite) TestReverseEntry_LostRaceSurfacesReversalTargetError() {
	ctx := context.Background()
	entryID := uuid.NewString()

	// The guarded write loses to a concurrent reversal; the retry re-reads
	// the entry, finds it REVERSED and stops with a reversal-target error.
	alreadyReversed := suite.postedEntry(entryID)
	alreadyReversed.Status = domain.Reversed

	suite.mockJournalRepo.On("FindEntryByID", ctx, entryID).Return(suite.postedEntry(entryID), nil).Once()
	suite.mockJournalRepo.On("FindEntryByID", ctx, entryID).Return(alreadyReversed, nil).Once()
	suite.mockYearSvc.On("GetFinancialYearByID", ctx, suite.financialYearID).Return(suite.activeYear(), nil).Once()
	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, mock.Anything).Return(suite.accountsMap(), nil).Once()
	suite.mockJournalRepo.On("ReverseEntry", ctx, entryID, suite.entryVersion, mock.Anything, mock.Anything, mock.Anything, suite.userID, mock.AnythingOfType("time.Time")).
		Return(nil, apperrors.ErrConflict).Once()

	_, _, err := suite.service.ReverseEntry(ctx, entryID, "data entry error", suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInvalidReversalTarget)
	suite.mockJournalRepo.AssertNumberOfCalls(suite.T(), "ReverseEntry", 1)
}

// --- Reversal round-trip property ---

func (suite *JournalServiceTestSuite) TestReversalRoundTrip_DeltasCancelPerAccount() {
	// Posting deltas and reversal deltas sum to zero per account for a mix
	// of account types and uneven item splits.
	items := []domain.JournalEntryItem{
		{AccountID: "asset", DebitAmount: decimal.NewFromFloat(70.25)},
		{AccountID: "expense", DebitAmount: decimal.NewFromFloat(29.75)},
		{AccountID: "revenue", CreditAmount: decimal.NewFromInt(100)},
	}
	mirrored := make([]domain.JournalEntryItem, len(items))
	for i, item := range items {
		mirrored[i] = item
		mirrored[i].DebitAmount = item.CreditAmount
		mirrored[i].CreditAmount = item.DebitAmount
	}
	types := map[string]domain.AccountType{
		"asset":   domain.Asset,
		"expense": domain.Expense,
		"revenue": domain.Revenue,
	}

	postDeltas, err := accounting.NetBalanceChanges(items, types)
	suite.Require().NoError(err)
	reverseDeltas, err := accounting.NetBalanceChanges(mirrored, types)
	suite.Require().NoError(err)

	for accountID, delta := range postDeltas {
		suite.True(delta.Add(reverseDeltas[accountID]).IsZero(),
			"deltas for %s do not cancel", accountID)
	}
}

// --- List ---

func (suite *JournalServiceTestSuite) TestListEntries_UnknownStatusRejected() {
	ctx := context.Background()
	status := "PENDING"

	resp, err := suite.service.ListEntries(ctx, dto.ListJournalEntriesParams{Status: &status})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(resp)
}

func (suite *JournalServiceTestSuite) TestListEntries_PaginationEnvelope() {
	ctx := context.Background()

	entries := []domain.JournalEntry{
		{JournalEntryID: uuid.NewString(), EntryNumber: "JE-202507-0001", Status: domain.Posted},
		{JournalEntryID: uuid.NewString(), EntryNumber: "JE-202507-0002", Status: domain.Draft},
	}
	suite.mockJournalRepo.On("ListEntries", ctx, mock.AnythingOfType("repositories.JournalEntryFilter"), 20, 0).
		Return(entries, 42, nil).Once()

	resp, err := suite.service.ListEntries(ctx, dto.ListJournalEntriesParams{})

	suite.Require().NoError(err)
	suite.Len(resp.Data, 2)
	suite.Equal(42, resp.Pagination.Total)
	suite.Equal(1, resp.Pagination.Page)
	suite.Equal(20, resp.Pagination.Limit)
	suite.Equal(3, resp.Pagination.Pages)
}

func TestJournalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}
