package services

import (
	"context"

	"github.com/medantrix/hms_accounting_app/internal/dto"
)

// ReportingSvcFacade defines read-only report generation.
type ReportingSvcFacade interface {
	TrialBalance(ctx context.Context, financialYearID string) (*dto.TrialBalanceResponse, error)
}
