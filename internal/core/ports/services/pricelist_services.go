package services

import (
	"context"

	"github.com/medantrix/hms_accounting_app/internal/core/domain"
	"github.com/medantrix/hms_accounting_app/internal/dto"
	"github.com/medantrix/hms_accounting_app/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// PriceListSvcFacade defines the service/package price catalog operations
// and the GST quoting used by invoicing.
type PriceListSvcFacade interface {
	CreateServicePrice(ctx context.Context, req dto.CreateServicePriceRequest, creatorUserID string) (*domain.ServicePrice, error)
	GetServicePriceByID(ctx context.Context, servicePriceID string) (*domain.ServicePrice, error)
	ListServicePrices(ctx context.Context, params dto.ListPriceListParams) (*dto.ListServicePricesResponse, error)
	UpdateServicePrice(ctx context.Context, servicePriceID string, req dto.UpdateServicePriceRequest, updaterUserID string) (*domain.ServicePrice, error)
	DeactivateServicePrice(ctx context.Context, servicePriceID string, deactivatorUserID string) error

	CreatePackagePrice(ctx context.Context, req dto.CreatePackagePriceRequest, creatorUserID string) (*domain.PackagePrice, error)
	GetPackagePriceByID(ctx context.Context, packagePriceID string) (*domain.PackagePrice, error)
	ListPackagePrices(ctx context.Context, params dto.ListPriceListParams) (*dto.ListPackagePricesResponse, error)
	UpdatePackagePrice(ctx context.Context, packagePriceID string, req dto.UpdatePackagePriceRequest, updaterUserID string) (*domain.PackagePrice, error)
	DeactivatePackagePrice(ctx context.Context, packagePriceID string, deactivatorUserID string) error

	// QuoteServicePrice computes the discounted taxable amount and GST
	// breakdown for a quantity of one priced service.
	QuoteServicePrice(ctx context.Context, servicePriceID string, quantity int, discountPercent decimal.Decimal) (*accounting.GSTQuote, error)
}
