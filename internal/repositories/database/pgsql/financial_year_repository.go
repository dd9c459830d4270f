package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/medantrix/hms_accounting_app/internal/apperrors"
	"github.com/medantrix/hms_accounting_app/internal/core/domain"
	portsrepo "github.com/medantrix/hms_accounting_app/internal/core/ports/repositories"
	"github.com/medantrix/hms_accounting_app/internal/models"
)

type PgxFinancialYearRepository struct {
	BaseRepository
}

// newPgxFinancialYearRepository creates a new repository for financial year data.
func newPgxFinancialYearRepository(pool *pgxpool.Pool) portsrepo.FinancialYearRepository {
	return &PgxFinancialYearRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.FinancialYearRepository = (*PgxFinancialYearRepository)(nil)

const financialYearColumns = `financial_year_id, name, start_date, end_date, status, created_at, created_by, last_updated_at, last_updated_by`

func toDomainFinancialYear(m models.FinancialYear) domain.FinancialYear {
	return domain.FinancialYear{
		FinancialYearID: m.FinancialYearID,
		Name:            m.Name,
		StartDate:       m.StartDate,
		EndDate:         m.EndDate,
		Status:          domain.FinancialYearStatus(m.Status),
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

func scanFinancialYear(row pgx.Row) (models.FinancialYear, error) {
	var m models.FinancialYear
	err := row.Scan(
		&m.FinancialYearID,
		&m.Name,
		&m.StartDate,
		&m.EndDate,
		&m.Status,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveFinancialYear inserts a new financial year.
func (r *PgxFinancialYearRepository) SaveFinancialYear(ctx context.Context, year domain.FinancialYear) error {
	query := `
		INSERT INTO financial_years (` + financialYearColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		year.FinancialYearID,
		year.Name,
		year.StartDate,
		year.EndDate,
		string(year.Status),
		year.CreatedAt,
		year.CreatedBy,
		year.LastUpdatedAt,
		year.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: financial year %s already exists", apperrors.ErrDuplicate, year.Name)
		}
		return fmt.Errorf("failed to save financial year %s: %w", year.FinancialYearID, err)
	}
	return nil
}

// FindFinancialYearByID retrieves a financial year by its identifier.
func (r *PgxFinancialYearRepository) FindFinancialYearByID(ctx context.Context, financialYearID string) (*domain.FinancialYear, error) {
	query := `SELECT ` + financialYearColumns + ` FROM financial_years WHERE financial_year_id = $1;`

	m, err := scanFinancialYear(r.Pool.QueryRow(ctx, query, financialYearID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find financial year %s: %w", financialYearID, err)
	}

	year := toDomainFinancialYear(m)
	return &year, nil
}

// ListFinancialYears retrieves all financial years, newest first.
func (r *PgxFinancialYearRepository) ListFinancialYears(ctx context.Context) ([]domain.FinancialYear, error) {
	query := `SELECT ` + financialYearColumns + ` FROM financial_years ORDER BY start_date DESC;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query financial years: %w", err)
	}
	defer rows.Close()

	years := []domain.FinancialYear{}
	for rows.Next() {
		m, err := scanFinancialYear(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan financial year row: %w", err)
		}
		years = append(years, toDomainFinancialYear(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating financial year rows: %w", err)
	}
	return years, nil
}

// CloseFinancialYear transitions a year from ACTIVE to CLOSED. The update is
// guarded on the current status so only one of two concurrent closes wins.
func (r *PgxFinancialYearRepository) CloseFinancialYear(ctx context.Context, financialYearID string, userID string, now time.Time) error {
	query := `
		UPDATE financial_years
		SET status = 'CLOSED', last_updated_at = $2, last_updated_by = $3
		WHERE financial_year_id = $1 AND status = 'ACTIVE';
	`
	cmdTag, err := r.Pool.Exec(ctx, query, financialYearID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to close financial year %s: %w", financialYearID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		if _, findErr := r.FindFinancialYearByID(ctx, financialYearID); findErr != nil {
			return findErr
		}
		return fmt.Errorf("%w: financial year %s is already closed", apperrors.ErrConflict, financialYearID)
	}
	return nil
}
