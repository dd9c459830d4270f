package repositories

import (
	"context"
	"time"

	"github.com/medantrix/hms_accounting_app/internal/core/domain"
)

// FinancialYearRepository defines persistence operations for financial years.
type FinancialYearRepository interface {
	// SaveFinancialYear persists a new financial year.
	SaveFinancialYear(ctx context.Context, year domain.FinancialYear) error

	// FindFinancialYearByID retrieves a financial year by its identifier.
	FindFinancialYearByID(ctx context.Context, financialYearID string) (*domain.FinancialYear, error)

	// ListFinancialYears retrieves all financial years, newest first.
	ListFinancialYears(ctx context.Context) ([]domain.FinancialYear, error)

	// CloseFinancialYear transitions a year from ACTIVE to CLOSED. The
	// update is guarded on the current status; a year already closed by a
	// concurrent caller surfaces as apperrors.ErrConflict.
	CloseFinancialYear(ctx context.Context, financialYearID string, userID string, now time.Time) error
}
