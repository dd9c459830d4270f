package repositories

import (
	"context"
	"time"

	"github.com/medantrix/hms_accounting_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalEntryFilter narrows a journal entry listing. Nil fields are
// ignored; absence is distinguishable from an empty value.
type JournalEntryFilter struct {
	FinancialYearID *string
	Status          *domain.JournalEntryStatus
	Reference       *string
	ReferenceType   *string
	DateFrom        *time.Time
	DateTo          *time.Time
	// AccountID matches entries with at least one item on the account.
	AccountID *string
}

// JournalEntryReader defines read operations for journal entry data
type JournalEntryReader interface {
	// FindEntryByID retrieves a journal entry with its items.
	FindEntryByID(ctx context.Context, journalEntryID string) (*domain.JournalEntry, error)

	// FindItemsByEntryID retrieves the items of a journal entry.
	FindItemsByEntryID(ctx context.Context, journalEntryID string) ([]domain.JournalEntryItem, error)

	// ListEntries retrieves a filtered page of entries (without items) plus
	// the total row count for the filter.
	ListEntries(ctx context.Context, filter JournalEntryFilter, limit int, offset int) ([]domain.JournalEntry, int, error)
}

// JournalEntryWriter defines write operations for journal entry data.
// Every method is a single atomic store transaction.
type JournalEntryWriter interface {
	// SaveDraftEntry persists a DRAFT entry and its items atomically,
	// minting the entry number from the per-month sequence inside the same
	// transaction. The returned entry carries the minted number. No account
	// balance is touched.
	SaveDraftEntry(ctx context.Context, entry domain.JournalEntry, items []domain.JournalEntryItem) (*domain.JournalEntry, error)

	// UpdateDraftEntry patches a DRAFT entry's header and, when items is
	// non-nil, replaces its items wholesale. The update is guarded on
	// status = DRAFT; a lost race surfaces as apperrors.ErrConflict.
	UpdateDraftEntry(ctx context.Context, entry domain.JournalEntry, items []domain.JournalEntryItem) error

	// PostEntry transitions a DRAFT entry to POSTED and applies the given
	// balance deltas as atomic increments, all in one transaction. The
	// status update is guarded on status = DRAFT and on the entry's
	// last_updated_at matching expectedVersion, so the deltas computed from
	// a read of the entry can never be applied over items changed by a
	// concurrent draft edit. Zero affected rows surfaces as
	// apperrors.ErrConflict; the caller re-reads and retries.
	PostEntry(ctx context.Context, journalEntryID string, expectedVersion time.Time, balanceChanges map[string]decimal.Decimal, approvedBy string, approvedAt time.Time) error

	// ReverseEntry atomically marks the original entry REVERSED (guarded on
	// status = POSTED and on last_updated_at matching expectedVersion),
	// persists the already-POSTED reversal entry with its mirrored items,
	// links the two, and applies the reversal's balance deltas. The returned
	// entry carries the reversal's minted number.
	ReverseEntry(ctx context.Context, originalEntryID string, expectedVersion time.Time, reversal domain.JournalEntry, items []domain.JournalEntryItem, balanceChanges map[string]decimal.Decimal, reversedBy string, reversedAt time.Time) (*domain.JournalEntry, error)
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalEntryReader
	JournalEntryWriter
}
