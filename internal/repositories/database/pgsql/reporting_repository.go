package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/medantrix/hms_accounting_app/internal/core/domain"
	portsrepo "github.com/medantrix/hms_accounting_app/internal/core/ports/repositories"
)

type PgxReportingRepository struct {
	BaseRepository
}

// newPgxReportingRepository creates a new repository for reporting queries.
func newPgxReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepository {
	return &PgxReportingRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.ReportingRepository = (*PgxReportingRepository)(nil)

// TrialBalance aggregates debit/credit totals per account over the POSTED
// entries of a financial year. Accounts with no postings in the year are
// not listed.
func (r *PgxReportingRepository) TrialBalance(ctx context.Context, financialYearID string) ([]domain.TrialBalanceRow, error) {
	query := `
		SELECT a.account_id, a.account_code, a.name, a.account_type,
		       COALESCE(SUM(i.debit_amount), 0) AS total_debit,
		       COALESCE(SUM(i.credit_amount), 0) AS total_credit,
		       a.balance
		FROM journal_entry_items i
		JOIN journal_entries e ON e.journal_entry_id = i.journal_entry_id
		JOIN accounts a ON a.account_id = i.account_id
		WHERE e.financial_year_id = $1 AND e.status = 'POSTED'
		GROUP BY a.account_id, a.account_code, a.name, a.account_type, a.balance
		ORDER BY a.account_code;
	`
	rows, err := r.Pool.Query(ctx, query, financialYearID)
	if err != nil {
		return nil, fmt.Errorf("failed to query trial balance for year %s: %w", financialYearID, err)
	}
	defer rows.Close()

	result := []domain.TrialBalanceRow{}
	for rows.Next() {
		var row domain.TrialBalanceRow
		var accountType string
		err := rows.Scan(
			&row.AccountID,
			&row.AccountCode,
			&row.AccountName,
			&accountType,
			&row.TotalDebit,
			&row.TotalCredit,
			&row.ClosingBalance,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trial balance row: %w", err)
		}
		row.AccountType = domain.AccountType(accountType)
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trial balance rows: %w", err)
	}
	return result, nil
}
