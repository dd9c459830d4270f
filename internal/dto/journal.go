package dto

import (
	"time"

	"github.com/medantrix/hms_accounting_app/internal/core/domain"
	"github.com/medantrix/hms_accounting_app/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

// JournalEntryItemRequest is one debit-or-credit line of a create/update
// request. Amounts default to zero when omitted.
type JournalEntryItemRequest struct {
	AccountID    string          `json:"accountID" binding:"required"`
	Description  *string         `json:"description"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
}

// CreateJournalEntryRequest creates a DRAFT journal entry.
type CreateJournalEntryRequest struct {
	EntryDate       time.Time `json:"entryDate" binding:"required" time_format:"2006-01-02"`
	FinancialYearID string    `json:"financialYearID" binding:"required"`
	Description     string    `json:"description" binding:"required"`
	Reference       *string   `json:"reference"`
	ReferenceType   *string   `json:"referenceType"`

	IsRecurring       bool                      `json:"isRecurring"`
	RecurringInterval *domain.RecurringInterval `json:"recurringInterval"`
	NextRecurringDate *time.Time                `json:"nextRecurringDate"`

	Items []JournalEntryItemRequest `json:"items" binding:"required,min=2,dive"`
}

// UpdateJournalEntryRequest patches a DRAFT entry. Nil fields are left
// unchanged; a non-nil Items slice replaces the items wholesale.
type UpdateJournalEntryRequest struct {
	EntryDate         *time.Time                `json:"entryDate"`
	Description       *string                   `json:"description"`
	Reference         *string                   `json:"reference"`
	IsRecurring       *bool                     `json:"isRecurring"`
	RecurringInterval *domain.RecurringInterval `json:"recurringInterval"`
	NextRecurringDate *time.Time                `json:"nextRecurringDate"`
	Items             []JournalEntryItemRequest `json:"items"`
}

// ReverseJournalEntryRequest reverses a POSTED entry.
type ReverseJournalEntryRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ListJournalEntriesParams are the query filters for listing entries.
type ListJournalEntriesParams struct {
	FinancialYearID *string    `form:"financialYearID"`
	Status          *string    `form:"status"`
	Reference       *string    `form:"reference"`
	ReferenceType   *string    `form:"referenceType"`
	DateFrom        *time.Time `form:"dateFrom" time_format:"2006-01-02"`
	DateTo          *time.Time `form:"dateTo" time_format:"2006-01-02"`
	AccountID       *string    `form:"accountID"`
	Page            int        `form:"page"`
	Limit           int        `form:"limit"`
}

// JournalEntryItemResponse is an entry line enriched with account detail.
type JournalEntryItemResponse struct {
	ItemID       string          `json:"itemID"`
	AccountID    string          `json:"accountID"`
	AccountCode  string          `json:"accountCode,omitempty"`
	AccountName  string          `json:"accountName,omitempty"`
	Description  *string         `json:"description"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
}

// JournalEntryResponse is the API representation of a journal entry.
type JournalEntryResponse struct {
	JournalEntryID  string          `json:"journalEntryID"`
	EntryNumber     string          `json:"entryNumber"`
	EntryDate       time.Time       `json:"entryDate"`
	FinancialYearID string          `json:"financialYearID"`
	FinancialYear   *string         `json:"financialYear,omitempty"` // Year name, on detail fetches
	Reference       *string         `json:"reference"`
	ReferenceType   *string         `json:"referenceType"`
	Description     string          `json:"description"`
	TotalDebit      decimal.Decimal `json:"totalDebit"`
	TotalCredit     decimal.Decimal `json:"totalCredit"`
	Status          string          `json:"status"`

	IsRecurring       bool       `json:"isRecurring"`
	RecurringInterval *string    `json:"recurringInterval,omitempty"`
	NextRecurringDate *time.Time `json:"nextRecurringDate,omitempty"`

	ApprovedBy      *string    `json:"approvedBy,omitempty"`
	ApprovedAt      *time.Time `json:"approvedAt,omitempty"`
	ReversedBy      *string    `json:"reversedBy,omitempty"`
	ReversedAt      *time.Time `json:"reversedAt,omitempty"`
	ReversalEntryID *string    `json:"reversalEntryID,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	CreatedBy string    `json:"createdBy"`

	Items []JournalEntryItemResponse `json:"items,omitempty"`
}

// ReverseJournalEntryResponse returns both sides of a reversal.
type ReverseJournalEntryResponse struct {
	OriginalEntry JournalEntryResponse `json:"originalEntry"`
	ReversalEntry JournalEntryResponse `json:"reversalEntry"`
}

// ListJournalEntriesResponse is a page of entries.
type ListJournalEntriesResponse struct {
	Data       []JournalEntryResponse `json:"data"`
	Pagination pagination.Pagination  `json:"pagination"`
}

// ToJournalEntryItemResponse converts a domain item to its DTO.
func ToJournalEntryItemResponse(item *domain.JournalEntryItem) JournalEntryItemResponse {
	return JournalEntryItemResponse{
		ItemID:       item.ItemID,
		AccountID:    item.AccountID,
		Description:  item.Description,
		DebitAmount:  item.DebitAmount,
		CreditAmount: item.CreditAmount,
	}
}

// ToJournalEntryResponse converts a domain entry (and its items, if loaded)
// to its DTO.
func ToJournalEntryResponse(entry *domain.JournalEntry) JournalEntryResponse {
	resp := JournalEntryResponse{
		JournalEntryID:    entry.JournalEntryID,
		EntryNumber:       entry.EntryNumber,
		EntryDate:         entry.EntryDate,
		FinancialYearID:   entry.FinancialYearID,
		Reference:         entry.Reference,
		ReferenceType:     entry.ReferenceType,
		Description:       entry.Description,
		TotalDebit:        entry.TotalDebit,
		TotalCredit:       entry.TotalCredit,
		Status:            string(entry.Status),
		IsRecurring:       entry.IsRecurring,
		NextRecurringDate: entry.NextRecurringDate,
		ApprovedBy:        entry.ApprovedBy,
		ApprovedAt:        entry.ApprovedAt,
		ReversedBy:        entry.ReversedBy,
		ReversedAt:        entry.ReversedAt,
		ReversalEntryID:   entry.ReversalEntryID,
		CreatedAt:         entry.CreatedAt,
		CreatedBy:         entry.CreatedBy,
	}
	if entry.RecurringInterval != nil {
		interval := string(*entry.RecurringInterval)
		resp.RecurringInterval = &interval
	}
	if len(entry.Items) > 0 {
		resp.Items = make([]JournalEntryItemResponse, len(entry.Items))
		for i := range entry.Items {
			resp.Items[i] = ToJournalEntryItemResponse(&entry.Items[i])
		}
	}
	return resp
}
