package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/medantrix/hms_accounting_app/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:       newPgxAccountRepository(dbPool),
		DepartmentRepo:    newPgxDepartmentRepository(dbPool),
		FinancialYearRepo: newPgxFinancialYearRepository(dbPool),
		JournalRepo:       newPgxJournalRepository(dbPool),
		PriceListRepo:     newPgxPriceListRepository(dbPool),
		ReportingRepo:     newPgxReportingRepository(dbPool),
		UserRepo:          newPgxUserRepository(dbPool),
	}
}
