package repositories

import (
	"context"
	"time"

	"github.com/medantrix/hms_accounting_app/internal/core/domain"
)

// ServicePriceRepository defines persistence operations for the service
// price catalog.
type ServicePriceRepository interface {
	SaveServicePrice(ctx context.Context, price domain.ServicePrice) error
	FindServicePriceByID(ctx context.Context, servicePriceID string) (*domain.ServicePrice, error)
	// FindActiveServiceByCode retrieves an active catalog entry by its
	// service code, used for uniqueness checks.
	FindActiveServiceByCode(ctx context.Context, serviceCode string) (*domain.ServicePrice, error)
	FindServicePricesByIDs(ctx context.Context, servicePriceIDs []string) (map[string]domain.ServicePrice, error)
	ListServicePrices(ctx context.Context, limit int, offset int, activeOnly bool) ([]domain.ServicePrice, int, error)
	UpdateServicePrice(ctx context.Context, price domain.ServicePrice) error
	DeactivateServicePrice(ctx context.Context, servicePriceID string, userID string, now time.Time) error
}

// PackagePriceRepository defines persistence operations for the package
// price catalog. A package and its items are saved and replaced atomically.
type PackagePriceRepository interface {
	SavePackagePrice(ctx context.Context, price domain.PackagePrice, items []domain.PackageItem) error
	FindPackagePriceByID(ctx context.Context, packagePriceID string) (*domain.PackagePrice, error)
	FindActivePackageByCode(ctx context.Context, packageCode string) (*domain.PackagePrice, error)
	ListPackagePrices(ctx context.Context, limit int, offset int, activeOnly bool) ([]domain.PackagePrice, int, error)
	// UpdatePackagePrice patches the package header and, when items is
	// non-nil, replaces its items wholesale.
	UpdatePackagePrice(ctx context.Context, price domain.PackagePrice, items []domain.PackageItem) error
	DeactivatePackagePrice(ctx context.Context, packagePriceID string, userID string, now time.Time) error
}

// HsnSacCodeRepository defines read operations for HSN/SAC tax codes.
type HsnSacCodeRepository interface {
	FindHsnSacCode(ctx context.Context, code string) (*domain.HsnSacCode, error)
}

// PriceListRepositoryFacade combines the price list repository interfaces.
type PriceListRepositoryFacade interface {
	ServicePriceRepository
	PackagePriceRepository
	HsnSacCodeRepository
}
