package services

import (
	"context"
	"time"

	"github.com/medantrix/hms_accounting_app/internal/core/domain"
	"github.com/medantrix/hms_accounting_app/internal/dto"
)

// FinancialYearSvcFacade defines financial year lifecycle operations and
// the posting gate consulted by the journal entry engine.
type FinancialYearSvcFacade interface {
	CreateFinancialYear(ctx context.Context, req dto.CreateFinancialYearRequest, creatorUserID string) (*domain.FinancialYear, error)
	GetFinancialYearByID(ctx context.Context, financialYearID string) (*domain.FinancialYear, error)
	ListFinancialYears(ctx context.Context) ([]domain.FinancialYear, error)
	CloseFinancialYear(ctx context.Context, financialYearID string, closerUserID string) (*domain.FinancialYear, error)

	// AssertPostable checks that the financial year exists, is ACTIVE, and
	// that entryDate falls within its date window. Pure read-then-decide;
	// every journal mutation calls this before touching any other state.
	AssertPostable(ctx context.Context, financialYearID string, entryDate time.Time) error
}
