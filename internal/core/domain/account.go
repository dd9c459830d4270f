package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
// The type is fixed at creation and determines the balance sign convention.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// Account is a node in the hospital's chart of accounts.
// Balance is mutated only by the journal entry engine during posting and
// reversal; accounts referenced by posted entries are never hard-deleted.
type Account struct {
	AccountID       string          `json:"accountID"`       // Primary key (UUID)
	AccountCode     string          `json:"accountCode"`     // Hierarchical numeric code, e.g. "1110"
	Name            string          `json:"name"`
	AccountType     AccountType     `json:"accountType"`
	ParentAccountID *string         `json:"parentAccountID"` // Nullable, self-referencing
	DepartmentID    *string         `json:"departmentID"`    // Nullable FK -> departments
	Description     string          `json:"description"`
	OpeningBalance  decimal.Decimal `json:"openingBalance"`
	Balance         decimal.Decimal `json:"balance"` // Running balance: opening + signed postings
	IsActive        bool            `json:"isActive"`
	AuditFields
}

// Department groups accounts and priced services by hospital unit.
type Department struct {
	DepartmentID string `json:"departmentID"`
	Name         string `json:"name"`
	IsActive     bool   `json:"isActive"`
	AuditFields
}
