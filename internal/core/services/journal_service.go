package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/medantrix/hms_accounting_app/internal/apperrors"
	"github.com/medantrix/hms_accounting_app/internal/core/domain"
	portsrepo "github.com/medantrix/hms_accounting_app/internal/core/ports/repositories"
	portssvc "github.com/medantrix/hms_accounting_app/internal/core/ports/services"
	"github.com/medantrix/hms_accounting_app/internal/dto"
	"github.com/medantrix/hms_accounting_app/internal/utils/accounting"
	"github.com/medantrix/hms_accounting_app/internal/utils/pagination"
)

var (
	ErrInvalidStateTransition = errors.New("operation not valid for the entry's current status")
	ErrEntryNotEditable       = errors.New("only draft entries may be edited")
	ErrInvalidReversalTarget  = errors.New("only posted entries may be reversed")
	ErrReasonRequired         = errors.New("a reversal reason is required")
	ErrRecurrenceIncomplete   = errors.New("recurring entries require an interval")
)

// maxWriteAttempts bounds the automatic retry of a journal write that lost
// a race (duplicate entry number or concurrent state change).
const maxWriteAttempts = 3

// journalService provides the journal entry engine: creation, draft editing,
// posting, reversal and read access.
type journalService struct {
	BaseService
	journalRepo portsrepo.JournalRepositoryFacade
	accountSvc  portssvc.AccountSvcFacade
	yearSvc     portssvc.FinancialYearSvcFacade
}

// NewJournalService creates a new journal service.
func NewJournalService(journalRepo portsrepo.JournalRepositoryFacade, accountSvc portssvc.AccountSvcFacade, yearSvc portssvc.FinancialYearSvcFacade) portssvc.JournalSvcFacade {
	return &journalService{
		journalRepo: journalRepo,
		accountSvc:  accountSvc,
		yearSvc:     yearSvc,
	}
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// buildItems converts request lines into domain items owned by the entry.
func (s *journalService) buildItems(entryID string, reqItems []dto.JournalEntryItemRequest, actorUserID string, now time.Time) []domain.JournalEntryItem {
	items := make([]domain.JournalEntryItem, len(reqItems))
	for i, itemReq := range reqItems {
		items[i] = domain.JournalEntryItem{
			ItemID:         uuid.NewString(),
			JournalEntryID: entryID,
			AccountID:      itemReq.AccountID,
			Description:    itemReq.Description,
			DebitAmount:    itemReq.DebitAmount,
			CreditAmount:   itemReq.CreditAmount,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actorUserID,
				LastUpdatedAt: now,
				LastUpdatedBy: actorUserID,
			},
		}
	}
	return items
}

// validateEntry runs the posting-path validations in their fixed order:
// structural composition, debit/credit balance, financial year gate, then
// account existence and activity. Everything is checked before any write.
func (s *journalService) validateEntry(ctx context.Context, financialYearID string, entryDate time.Time, items []domain.JournalEntryItem) error {
	if err := accounting.ValidateComposition(items); err != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}
	if err := accounting.ValidateBalanced(items); err != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}
	if err := s.yearSvc.AssertPostable(ctx, financialYearID, entryDate); err != nil {
		return err
	}
	accountIDs := make([]string, 0, len(items))
	for _, item := range items {
		accountIDs = append(accountIDs, item.AccountID)
	}
	if _, err := s.accountSvc.AssertAccountsPostable(ctx, accountIDs); err != nil {
		return err
	}
	return nil
}

func (s *journalService) CreateEntry(ctx context.Context, req dto.CreateJournalEntryRequest, actorUserID string) (*domain.JournalEntry, error) {
	if req.IsRecurring && req.RecurringInterval == nil {
		return nil, ErrRecurrenceIncomplete
	}

	now := time.Now()
	entryID := uuid.NewString()
	items := s.buildItems(entryID, req.Items, actorUserID, now)

	if err := s.validateEntry(ctx, req.FinancialYearID, req.EntryDate, items); err != nil {
		s.LogWarn(ctx, "Journal entry validation failed",
			slog.String("financial_year_id", req.FinancialYearID),
			slog.String("error", err.Error()))
		return nil, err
	}

	totalDebit, totalCredit := accounting.SumItems(items)

	entry := domain.JournalEntry{
		JournalEntryID:    entryID,
		EntryDate:         req.EntryDate,
		FinancialYearID:   req.FinancialYearID,
		Reference:         req.Reference,
		ReferenceType:     req.ReferenceType,
		Description:       req.Description,
		TotalDebit:        totalDebit,
		TotalCredit:       totalCredit,
		Status:            domain.Draft,
		IsRecurring:       req.IsRecurring,
		RecurringInterval: req.RecurringInterval,
		NextRecurringDate: req.NextRecurringDate,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorUserID,
		},
	}

	// A lost race on the entry number surfaces as ErrConflict; the whole
	// save is retried a bounded number of times before giving up.
	var saved *domain.JournalEntry
	var err error
	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		saved, err = s.journalRepo.SaveDraftEntry(ctx, entry, items)
		if err == nil || !errors.Is(err, apperrors.ErrConflict) {
			break
		}
		s.LogWarn(ctx, "Entry number collision, retrying save",
			slog.String("journal_entry_id", entryID),
			slog.Int("attempt", attempt))
	}
	if err != nil {
		s.LogError(ctx, err, "Failed to save draft journal entry",
			slog.String("journal_entry_id", entryID))
		return nil, err
	}

	saved.Items = items

	s.LogInfo(ctx, "Journal entry created",
		slog.String("journal_entry_id", saved.JournalEntryID),
		slog.String("entry_number", saved.EntryNumber))
	return saved, nil
}

func (s *journalService) UpdateEntry(ctx context.Context, journalEntryID string, req dto.UpdateJournalEntryRequest, actorUserID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, journalEntryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find journal entry for update",
				slog.String("journal_entry_id", journalEntryID))
		}
		return nil, err
	}

	if entry.Status != domain.Draft {
		return nil, fmt.Errorf("%w: entry %s is %s", ErrEntryNotEditable, entry.EntryNumber, entry.Status)
	}

	now := time.Now()
	if req.EntryDate != nil {
		entry.EntryDate = *req.EntryDate
	}
	if req.Description != nil {
		entry.Description = *req.Description
	}
	if req.Reference != nil {
		entry.Reference = req.Reference
	}
	if req.IsRecurring != nil {
		entry.IsRecurring = *req.IsRecurring
	}
	if req.RecurringInterval != nil {
		entry.RecurringInterval = req.RecurringInterval
	}
	if req.NextRecurringDate != nil {
		entry.NextRecurringDate = req.NextRecurringDate
	}
	if entry.IsRecurring && entry.RecurringInterval == nil {
		return nil, ErrRecurrenceIncomplete
	}

	// A non-nil item slice replaces the entry's items wholesale.
	items := entry.Items
	if req.Items != nil {
		items = s.buildItems(entry.JournalEntryID, req.Items, actorUserID, now)
	}

	if err := s.validateEntry(ctx, entry.FinancialYearID, entry.EntryDate, items); err != nil {
		s.LogWarn(ctx, "Journal entry update validation failed",
			slog.String("journal_entry_id", journalEntryID),
			slog.String("error", err.Error()))
		return nil, err
	}

	entry.TotalDebit, entry.TotalCredit = accounting.SumItems(items)
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = actorUserID

	var replacement []domain.JournalEntryItem
	if req.Items != nil {
		replacement = items
	}
	if err := s.journalRepo.UpdateDraftEntry(ctx, *entry, replacement); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			// The entry left DRAFT between our read and the guarded write.
			return nil, fmt.Errorf("%w: entry %s was posted concurrently", ErrEntryNotEditable, entry.EntryNumber)
		}
		s.LogError(ctx, err, "Failed to update draft journal entry",
			slog.String("journal_entry_id", journalEntryID))
		return nil, err
	}

	entry.Items = items

	s.LogInfo(ctx, "Journal entry updated",
		slog.String("journal_entry_id", entry.JournalEntryID),
		slog.String("entry_number", entry.EntryNumber))
	return entry, nil
}

func (s *journalService) PostEntry(ctx context.Context, journalEntryID string, actorUserID string) (*domain.JournalEntry, error) {
	// The entry is re-read on every attempt: the balance deltas are computed
	// from the items as read, and the repository's version guard rejects the
	// write if a concurrent draft edit replaced them in between. A retry then
	// posts the current items instead of the stale set.
	var entry *domain.JournalEntry
	var err error
	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		entry, err = s.postEntryOnce(ctx, journalEntryID, actorUserID)
		if err == nil || !errors.Is(err, apperrors.ErrConflict) {
			break
		}
		s.LogWarn(ctx, "Entry changed while posting, retrying",
			slog.String("journal_entry_id", journalEntryID),
			slog.Int("attempt", attempt))
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, fmt.Errorf("%w: entry %s changed concurrently", ErrInvalidStateTransition, journalEntryID)
		}
		return nil, err
	}
	return entry, nil
}

func (s *journalService) postEntryOnce(ctx context.Context, journalEntryID string, actorUserID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, journalEntryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find journal entry for posting",
				slog.String("journal_entry_id", journalEntryID))
		}
		return nil, err
	}

	if entry.Status != domain.Draft {
		return nil, fmt.Errorf("%w: entry %s is %s", ErrInvalidStateTransition, entry.EntryNumber, entry.Status)
	}

	// The gate and account checks are re-run at post time; a draft may have
	// outlived its financial year or one of its accounts.
	if err := s.yearSvc.AssertPostable(ctx, entry.FinancialYearID, entry.EntryDate); err != nil {
		return nil, err
	}

	accountIDs := make([]string, 0, len(entry.Items))
	for _, item := range entry.Items {
		accountIDs = append(accountIDs, item.AccountID)
	}
	accounts, err := s.accountSvc.AssertAccountsPostable(ctx, accountIDs)
	if err != nil {
		return nil, err
	}

	accountTypes := make(map[string]domain.AccountType, len(accounts))
	for id, account := range accounts {
		accountTypes[id] = account.AccountType
	}
	balanceChanges, err := accounting.NetBalanceChanges(entry.Items, accountTypes)
	if err != nil {
		s.LogError(ctx, err, "Failed to compute balance changes",
			slog.String("journal_entry_id", journalEntryID))
		return nil, err
	}

	now := time.Now()
	if err := s.journalRepo.PostEntry(ctx, journalEntryID, entry.LastUpdatedAt, balanceChanges, actorUserID, now); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			// Lost a race on status or version; the caller retries from a
			// fresh read.
			return nil, err
		}
		s.LogError(ctx, err, "Failed to post journal entry",
			slog.String("journal_entry_id", journalEntryID))
		return nil, err
	}

	entry.Status = domain.Posted
	entry.ApprovedBy = &actorUserID
	entry.ApprovedAt = &now
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = actorUserID

	s.LogInfo(ctx, "Journal entry posted",
		slog.String("journal_entry_id", entry.JournalEntryID),
		slog.String("entry_number", entry.EntryNumber),
		slog.String("posted_by", actorUserID))
	return entry, nil
}

func (s *journalService) ReverseEntry(ctx context.Context, journalEntryID string, reason string, actorUserID string) (*domain.JournalEntry, *domain.JournalEntry, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, nil, ErrReasonRequired
	}

	// Re-read and retry on conflict, as in PostEntry: the mirrored items
	// must come from the original as it stood when the guarded write runs.
	var original, savedReversal *domain.JournalEntry
	var err error
	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		original, savedReversal, err = s.reverseEntryOnce(ctx, journalEntryID, reason, actorUserID)
		if err == nil || !errors.Is(err, apperrors.ErrConflict) {
			break
		}
		s.LogWarn(ctx, "Entry changed while reversing, retrying",
			slog.String("journal_entry_id", journalEntryID),
			slog.Int("attempt", attempt))
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, nil, fmt.Errorf("%w: entry %s changed concurrently", ErrInvalidReversalTarget, journalEntryID)
		}
		return nil, nil, err
	}
	return original, savedReversal, nil
}

func (s *journalService) reverseEntryOnce(ctx context.Context, journalEntryID string, reason string, actorUserID string) (*domain.JournalEntry, *domain.JournalEntry, error) {
	original, err := s.journalRepo.FindEntryByID(ctx, journalEntryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find journal entry for reversal",
				slog.String("journal_entry_id", journalEntryID))
		}
		return nil, nil, err
	}

	if original.Status != domain.Posted {
		return nil, nil, fmt.Errorf("%w: entry %s is %s", ErrInvalidReversalTarget, original.EntryNumber, original.Status)
	}

	// Reversal requires the year to still be ACTIVE, but unlike posting it
	// does not re-check the date window or account activity: history may be
	// corrected even after an account was deactivated.
	year, err := s.yearSvc.GetFinancialYearByID(ctx, original.FinancialYearID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: %s", ErrFinancialYearNotFound, original.FinancialYearID)
		}
		return nil, nil, err
	}
	if year.Status != domain.FinancialYearActive {
		return nil, nil, fmt.Errorf("%w: %s", ErrFinancialYearClosed, year.Name)
	}

	now := time.Now()
	reversalID := uuid.NewString()
	referenceType := domain.ReferenceTypeReversal

	// Mirror each original line with debit and credit swapped. The same
	// sign-convention function then computes the inverse balance deltas.
	reversalItems := make([]domain.JournalEntryItem, len(original.Items))
	accountIDs := make([]string, 0, len(original.Items))
	for i, item := range original.Items {
		reversalItems[i] = domain.JournalEntryItem{
			ItemID:         uuid.NewString(),
			JournalEntryID: reversalID,
			AccountID:      item.AccountID,
			Description:    item.Description,
			DebitAmount:    item.CreditAmount,
			CreditAmount:   item.DebitAmount,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actorUserID,
				LastUpdatedAt: now,
				LastUpdatedBy: actorUserID,
			},
		}
		accountIDs = append(accountIDs, item.AccountID)
	}

	accounts, err := s.accountSvc.GetAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, nil, err
	}
	accountTypes := make(map[string]domain.AccountType, len(accounts))
	for id, account := range accounts {
		accountTypes[id] = account.AccountType
	}
	balanceChanges, err := accounting.NetBalanceChanges(reversalItems, accountTypes)
	if err != nil {
		s.LogError(ctx, err, "Failed to compute reversal balance changes",
			slog.String("journal_entry_id", journalEntryID))
		return nil, nil, err
	}

	// Reversals are born POSTED; they are self-evidently balanced and
	// pre-approved by the reversing actor.
	reversal := domain.JournalEntry{
		JournalEntryID:  reversalID,
		EntryDate:       original.EntryDate,
		FinancialYearID: original.FinancialYearID,
		Reference:       &original.EntryNumber,
		ReferenceType:   &referenceType,
		Description:     fmt.Sprintf("Reversal of %s: %s", original.EntryNumber, reason),
		TotalDebit:      original.TotalCredit,
		TotalCredit:     original.TotalDebit,
		Status:          domain.Posted,
		ApprovedBy:      &actorUserID,
		ApprovedAt:      &now,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorUserID,
		},
	}

	savedReversal, err := s.journalRepo.ReverseEntry(ctx, journalEntryID, original.LastUpdatedAt, reversal, reversalItems, balanceChanges, actorUserID, now)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			// Lost a race on status or version; the caller retries from a
			// fresh read.
			return nil, nil, err
		}
		s.LogError(ctx, err, "Failed to reverse journal entry",
			slog.String("journal_entry_id", journalEntryID))
		return nil, nil, err
	}

	savedReversal.Items = reversalItems

	original.Status = domain.Reversed
	original.ReversedBy = &actorUserID
	original.ReversedAt = &now
	original.ReversalEntryID = &savedReversal.JournalEntryID
	original.LastUpdatedAt = now
	original.LastUpdatedBy = actorUserID

	s.LogInfo(ctx, "Journal entry reversed",
		slog.String("journal_entry_id", original.JournalEntryID),
		slog.String("entry_number", original.EntryNumber),
		slog.String("reversal_entry_number", savedReversal.EntryNumber),
		slog.String("reversed_by", actorUserID))
	return original, savedReversal, nil
}

func (s *journalService) GetEntryByID(ctx context.Context, journalEntryID string) (*dto.JournalEntryResponse, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, journalEntryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find journal entry",
				slog.String("journal_entry_id", journalEntryID))
		}
		return nil, err
	}

	resp := dto.ToJournalEntryResponse(entry)

	// Enrich items with account detail and the header with the year name.
	accountIDs := make([]string, 0, len(entry.Items))
	for _, item := range entry.Items {
		accountIDs = append(accountIDs, item.AccountID)
	}
	if len(accountIDs) > 0 {
		accounts, err := s.accountSvc.GetAccountsByIDs(ctx, accountIDs)
		if err != nil {
			s.LogWarn(ctx, "Failed to enrich entry items with account detail",
				slog.String("journal_entry_id", journalEntryID),
				slog.String("error", err.Error()))
		} else {
			for i := range resp.Items {
				if account, ok := accounts[resp.Items[i].AccountID]; ok {
					resp.Items[i].AccountCode = account.AccountCode
					resp.Items[i].AccountName = account.Name
				}
			}
		}
	}
	if year, err := s.yearSvc.GetFinancialYearByID(ctx, entry.FinancialYearID); err == nil {
		resp.FinancialYear = &year.Name
	}

	return &resp, nil
}

func (s *journalService) ListEntries(ctx context.Context, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error) {
	page, limit := pagination.Normalize(params.Page, params.Limit)
	offset := pagination.Offset(page, limit)

	filter := portsrepo.JournalEntryFilter{
		FinancialYearID: params.FinancialYearID,
		Reference:       params.Reference,
		ReferenceType:   params.ReferenceType,
		DateFrom:        params.DateFrom,
		DateTo:          params.DateTo,
		AccountID:       params.AccountID,
	}
	if params.Status != nil {
		status := domain.JournalEntryStatus(strings.ToUpper(*params.Status))
		switch status {
		case domain.Draft, domain.Posted, domain.Reversed:
			filter.Status = &status
		default:
			return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, *params.Status)
		}
	}

	entries, total, err := s.journalRepo.ListEntries(ctx, filter, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list journal entries")
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}

	data := make([]dto.JournalEntryResponse, len(entries))
	for i := range entries {
		data[i] = dto.ToJournalEntryResponse(&entries[i])
	}

	return &dto.ListJournalEntriesResponse{
		Data:       data,
		Pagination: pagination.New(total, page, limit),
	}, nil
}
