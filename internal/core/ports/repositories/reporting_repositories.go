package repositories

import (
	"context"

	"github.com/medantrix/hms_accounting_app/internal/core/domain"
)

// ReportingRepository defines read-only aggregate queries for reports.
type ReportingRepository interface {
	// TrialBalance aggregates debit/credit totals per account over the
	// POSTED entries of a financial year.
	TrialBalance(ctx context.Context, financialYearID string) ([]domain.TrialBalanceRow, error)
}
