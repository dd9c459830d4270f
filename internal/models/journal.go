package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is the journal_entries table row.
type JournalEntry struct {
	JournalEntryID  string          `db:"journal_entry_id"`
	EntryNumber     string          `db:"entry_number"`
	EntryDate       time.Time       `db:"entry_date"`
	FinancialYearID string          `db:"financial_year_id"`
	Reference       *string         `db:"reference"`
	ReferenceType   *string         `db:"reference_type"`
	Description     string          `db:"description"`
	TotalDebit      decimal.Decimal `db:"total_debit"`
	TotalCredit     decimal.Decimal `db:"total_credit"`
	Status          string          `db:"status"`

	IsRecurring       bool       `db:"is_recurring"`
	RecurringInterval *string    `db:"recurring_interval"`
	NextRecurringDate *time.Time `db:"next_recurring_date"`

	ApprovedBy      *string    `db:"approved_by"`
	ApprovedAt      *time.Time `db:"approved_at"`
	ReversedBy      *string    `db:"reversed_by"`
	ReversedAt      *time.Time `db:"reversed_at"`
	ReversalEntryID *string    `db:"reversal_entry_id"`

	AuditFields
}

// JournalEntryItem is the journal_entry_items table row.
type JournalEntryItem struct {
	ItemID         string          `db:"item_id"`
	JournalEntryID string          `db:"journal_entry_id"`
	AccountID      string          `db:"account_id"`
	Description    *string         `db:"description"`
	DebitAmount    decimal.Decimal `db:"debit_amount"`
	CreditAmount   decimal.Decimal `db:"credit_amount"`
	AuditFields
}
