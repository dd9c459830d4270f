package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntryStatus indicates the state of a journal entry.
// Transitions are strictly DRAFT -> POSTED -> REVERSED; REVERSED is terminal.
type JournalEntryStatus string

const (
	Draft    JournalEntryStatus = "DRAFT"
	Posted   JournalEntryStatus = "POSTED"
	Reversed JournalEntryStatus = "REVERSED"
)

// RecurringInterval is scheduling metadata carried on recurring entries.
// Nothing in this service auto-executes the next occurrence.
type RecurringInterval string

const (
	RecurDaily     RecurringInterval = "DAILY"
	RecurWeekly    RecurringInterval = "WEEKLY"
	RecurMonthly   RecurringInterval = "MONTHLY"
	RecurQuarterly RecurringInterval = "QUARTERLY"
	RecurYearly    RecurringInterval = "YEARLY"
)

// ReferenceTypeReversal marks an entry created as the reversal of another.
const ReferenceTypeReversal = "REVERSAL"

// JournalEntry is a balanced double-entry financial event.
// TotalDebit and TotalCredit are derived from the items and are equal
// (within tolerance) for any entry that reaches POSTED. DRAFT entries never
// affect account balances.
type JournalEntry struct {
	JournalEntryID  string             `json:"journalEntryID"` // Primary key (UUID)
	EntryNumber     string             `json:"entryNumber"`    // JE-YYYYMM-NNNN, unique, monotone per month
	EntryDate       time.Time          `json:"entryDate"`
	FinancialYearID string             `json:"financialYearID"`
	Reference       *string            `json:"reference"`     // e.g. the reversed entry's number
	ReferenceType   *string            `json:"referenceType"` // e.g. "REVERSAL"
	Description     string             `json:"description"`
	TotalDebit      decimal.Decimal    `json:"totalDebit"`
	TotalCredit     decimal.Decimal    `json:"totalCredit"`
	Status          JournalEntryStatus `json:"status"`

	IsRecurring       bool               `json:"isRecurring"`
	RecurringInterval *RecurringInterval `json:"recurringInterval"`
	NextRecurringDate *time.Time         `json:"nextRecurringDate"`

	ApprovedBy      *string    `json:"approvedBy"`
	ApprovedAt      *time.Time `json:"approvedAt"`
	ReversedBy      *string    `json:"reversedBy"`
	ReversedAt      *time.Time `json:"reversedAt"`
	ReversalEntryID *string    `json:"reversalEntryID"` // Entry created as this one's reversal

	AuditFields
	Items []JournalEntryItem `json:"items,omitempty"`
}

// JournalEntryItem is a single debit-or-credit line of a journal entry.
// Items are owned exclusively by their entry and are replaced as a unit
// while the entry is DRAFT.
type JournalEntryItem struct {
	ItemID         string          `json:"itemID"`
	JournalEntryID string          `json:"journalEntryID"`
	AccountID      string          `json:"accountID"`
	Description    *string         `json:"description"`
	DebitAmount    decimal.Decimal `json:"debitAmount"`  // >= 0
	CreditAmount   decimal.Decimal `json:"creditAmount"` // >= 0
	AuditFields
}
