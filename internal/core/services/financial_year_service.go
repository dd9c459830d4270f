package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/medantrix/hms_accounting_app/internal/apperrors"
	"github.com/medantrix/hms_accounting_app/internal/core/domain"
	portsrepo "github.com/medantrix/hms_accounting_app/internal/core/ports/repositories"
	portssvc "github.com/medantrix/hms_accounting_app/internal/core/ports/services"
	"github.com/medantrix/hms_accounting_app/internal/dto"
	"github.com/google/uuid"
)

var (
	ErrFinancialYearNotFound    = errors.New("financial year not found")
	ErrFinancialYearClosed      = errors.New("financial year is not active")
	ErrDateOutsideFinancialYear = errors.New("entry date falls outside the financial year")
)

// financialYearService implements the FinancialYearSvcFacade interface
type financialYearService struct {
	BaseService
	yearRepo portsrepo.FinancialYearRepository
}

// NewFinancialYearService creates a new financial year service
func NewFinancialYearService(repo portsrepo.FinancialYearRepository) portssvc.FinancialYearSvcFacade {
	return &financialYearService{
		yearRepo: repo,
	}
}

var _ portssvc.FinancialYearSvcFacade = (*financialYearService)(nil)

func (s *financialYearService) CreateFinancialYear(ctx context.Context, req dto.CreateFinancialYearRequest, creatorUserID string) (*domain.FinancialYear, error) {
	if !req.EndDate.After(req.StartDate) {
		err := fmt.Errorf("end date must be after start date: %w", apperrors.ErrValidation)
		s.LogError(ctx, err, "Invalid financial year window",
			slog.Time("start_date", req.StartDate),
			slog.Time("end_date", req.EndDate))
		return nil, err
	}

	// Overlapping windows are permitted; only the [StartDate, EndDate]
	// containment check gates postings.
	now := time.Now()
	year := domain.FinancialYear{
		FinancialYearID: uuid.NewString(),
		Name:            req.Name,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		Status:          domain.FinancialYearActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.yearRepo.SaveFinancialYear(ctx, year); err != nil {
		s.LogError(ctx, err, "Failed to save financial year",
			slog.String("financial_year_id", year.FinancialYearID))
		return nil, err
	}

	s.LogInfo(ctx, "Financial year created successfully",
		slog.String("financial_year_id", year.FinancialYearID),
		slog.String("name", year.Name))
	return &year, nil
}

func (s *financialYearService) GetFinancialYearByID(ctx context.Context, financialYearID string) (*domain.FinancialYear, error) {
	year, err := s.yearRepo.FindFinancialYearByID(ctx, financialYearID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find financial year by ID",
				slog.String("financial_year_id", financialYearID))
		}
		return nil, err
	}
	return year, nil
}

func (s *financialYearService) ListFinancialYears(ctx context.Context) ([]domain.FinancialYear, error) {
	years, err := s.yearRepo.ListFinancialYears(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list financial years")
		return nil, fmt.Errorf("failed to list financial years: %w", err)
	}
	if years == nil {
		return []domain.FinancialYear{}, nil
	}
	return years, nil
}

func (s *financialYearService) CloseFinancialYear(ctx context.Context, financialYearID string, closerUserID string) (*domain.FinancialYear, error) {
	year, err := s.GetFinancialYearByID(ctx, financialYearID)
	if err != nil {
		return nil, err
	}

	if year.Status == domain.FinancialYearClosed {
		err := fmt.Errorf("financial year %s is already closed: %w", financialYearID, apperrors.ErrConflict)
		s.LogWarn(ctx, "Attempted to close a closed financial year",
			slog.String("financial_year_id", financialYearID))
		return nil, err
	}

	now := time.Now()
	// The repository guards the transition on the current status, so two
	// concurrent closes cannot both succeed.
	if err := s.yearRepo.CloseFinancialYear(ctx, financialYearID, closerUserID, now); err != nil {
		s.LogError(ctx, err, "Failed to close financial year",
			slog.String("financial_year_id", financialYearID))
		return nil, err
	}

	year.Status = domain.FinancialYearClosed
	year.LastUpdatedAt = now
	year.LastUpdatedBy = closerUserID

	s.LogInfo(ctx, "Financial year closed successfully",
		slog.String("financial_year_id", financialYearID),
		slog.String("closed_by", closerUserID))
	return year, nil
}

// AssertPostable checks that the financial year authorizes a posting on the
// given entry date. The year must exist, be ACTIVE, and contain entryDate
// within its [StartDate, EndDate] window.
func (s *financialYearService) AssertPostable(ctx context.Context, financialYearID string, entryDate time.Time) error {
	year, err := s.GetFinancialYearByID(ctx, financialYearID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrFinancialYearNotFound, financialYearID)
		}
		return err
	}

	if year.Status != domain.FinancialYearActive {
		return fmt.Errorf("%w: %s", ErrFinancialYearClosed, year.Name)
	}

	entryDay := entryDate.Truncate(24 * time.Hour)
	if entryDay.Before(year.StartDate) || entryDay.After(year.EndDate) {
		return fmt.Errorf("%w: %s is outside %s", ErrDateOutsideFinancialYear,
			entryDate.Format("2006-01-02"), year.Name)
	}

	return nil
}
