package repositories

// RepositoryProvider bundles all repository implementations for injection
// into the service container.
type RepositoryProvider struct {
	AccountRepo       AccountRepositoryFacade
	DepartmentRepo    DepartmentRepository
	FinancialYearRepo FinancialYearRepository
	JournalRepo       JournalRepositoryFacade
	PriceListRepo     PriceListRepositoryFacade
	ReportingRepo     ReportingRepository
	UserRepo          UserRepository
}
