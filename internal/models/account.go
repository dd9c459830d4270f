package models

import (
	"github.com/shopspring/decimal"
)

// Account is the accounts table row.
type Account struct {
	AccountID       string          `db:"account_id"`
	AccountCode     string          `db:"account_code"`
	Name            string          `db:"name"`
	AccountType     string          `db:"account_type"`
	ParentAccountID *string         `db:"parent_account_id"`
	DepartmentID    *string         `db:"department_id"`
	Description     string          `db:"description"`
	OpeningBalance  decimal.Decimal `db:"opening_balance"`
	Balance         decimal.Decimal `db:"balance"`
	IsActive        bool            `db:"is_active"`
	AuditFields
}

// Department is the departments table row.
type Department struct {
	DepartmentID string `db:"department_id"`
	Name         string `db:"name"`
	IsActive     bool   `db:"is_active"`
	AuditFields
}
