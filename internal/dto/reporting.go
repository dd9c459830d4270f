package dto

import (
	"github.com/medantrix/hms_accounting_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TrialBalanceResponse is the trial balance for one financial year.
type TrialBalanceResponse struct {
	FinancialYearID string                   `json:"financialYearID"`
	Rows            []domain.TrialBalanceRow `json:"rows"`
	TotalDebit      decimal.Decimal          `json:"totalDebit"`
	TotalCredit     decimal.Decimal          `json:"totalCredit"`
}
