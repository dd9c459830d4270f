package services

import (
	portsrepo "github.com/medantrix/hms_accounting_app/internal/core/ports/repositories"
	portssvc "github.com/medantrix/hms_accounting_app/internal/core/ports/services"
	"github.com/medantrix/hms_accounting_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// The financial year and account services come first since the journal
	// engine depends on both gates.
	container.FinancialYear = NewFinancialYearService(repos.FinancialYearRepo)
	container.Account = NewAccountService(
		repos.AccountRepo,
		WithDepartmentRepository(repos.DepartmentRepo),
	)
	container.Department = NewDepartmentService(repos.DepartmentRepo)

	container.Journal = NewJournalService(repos.JournalRepo, container.Account, container.FinancialYear)
	container.PriceList = NewPriceListService(repos.PriceListRepo, repos.DepartmentRepo)
	container.Reporting = NewReportingService(repos.ReportingRepo, container.FinancialYear)

	container.User = NewUserService(repos.UserRepo)
	container.Auth = NewAuthService(cfg, repos.UserRepo)

	return container
}

// Compile-time checks that each implementation satisfies its facade.
var (
	_ portssvc.AccountSvcFacade       = (*accountService)(nil)
	_ portssvc.DepartmentSvcFacade    = (*departmentService)(nil)
	_ portssvc.FinancialYearSvcFacade = (*financialYearService)(nil)
	_ portssvc.JournalSvcFacade       = (*journalService)(nil)
	_ portssvc.PriceListSvcFacade     = (*priceListService)(nil)
	_ portssvc.ReportingSvcFacade     = (*reportingService)(nil)
	_ portssvc.UserSvcFacade          = (*userService)(nil)
	_ portssvc.AuthSvcFacade          = (*authService)(nil)
)
