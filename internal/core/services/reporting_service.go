package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/medantrix/hms_accounting_app/internal/apperrors"
	portsrepo "github.com/medantrix/hms_accounting_app/internal/core/ports/repositories"
	portssvc "github.com/medantrix/hms_accounting_app/internal/core/ports/services"
	"github.com/medantrix/hms_accounting_app/internal/dto"
)

// reportingService implements the ReportingSvcFacade interface
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
	yearSvc       portssvc.FinancialYearSvcFacade
}

// NewReportingService creates a new reporting service
func NewReportingService(repo portsrepo.ReportingRepository, yearSvc portssvc.FinancialYearSvcFacade) portssvc.ReportingSvcFacade {
	return &reportingService{
		reportingRepo: repo,
		yearSvc:       yearSvc,
	}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

func (s *reportingService) TrialBalance(ctx context.Context, financialYearID string) (*dto.TrialBalanceResponse, error) {
	if _, err := s.yearSvc.GetFinancialYearByID(ctx, financialYearID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrFinancialYearNotFound, financialYearID)
		}
		return nil, err
	}

	rows, err := s.reportingRepo.TrialBalance(ctx, financialYearID)
	if err != nil {
		s.LogError(ctx, err, "Failed to compute trial balance",
			slog.String("financial_year_id", financialYearID))
		return nil, fmt.Errorf("failed to compute trial balance: %w", err)
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, row := range rows {
		totalDebit = totalDebit.Add(row.TotalDebit)
		totalCredit = totalCredit.Add(row.TotalCredit)
	}

	return &dto.TrialBalanceResponse{
		FinancialYearID: financialYearID,
		Rows:            rows,
		TotalDebit:      totalDebit,
		TotalCredit:     totalCredit,
	}, nil
}
