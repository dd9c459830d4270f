package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medantrix/hms_accounting_app/internal/apperrors"
	"github.com/medantrix/hms_accounting_app/internal/core/domain"
	portsrepo "github.com/medantrix/hms_accounting_app/internal/core/ports/repositories"
	portssvc "github.com/medantrix/hms_accounting_app/internal/core/ports/services"
	"github.com/medantrix/hms_accounting_app/internal/dto"
	"github.com/medantrix/hms_accounting_app/internal/utils/accounting"
	"github.com/medantrix/hms_accounting_app/internal/utils/pagination"
)

var (
	ErrDepartmentNotFound = errors.New("department not found")
	ErrHsnSacCodeNotFound = errors.New("HSN/SAC code not found")
	ErrDuplicateCode      = errors.New("code already exists in the active catalog")
)

// priceListService implements the PriceListSvcFacade interface
type priceListService struct {
	BaseService
	priceRepo      portsrepo.PriceListRepositoryFacade
	departmentRepo portsrepo.DepartmentRepository
}

// NewPriceListService creates a new price list service
func NewPriceListService(priceRepo portsrepo.PriceListRepositoryFacade, departmentRepo portsrepo.DepartmentRepository) portssvc.PriceListSvcFacade {
	return &priceListService{
		priceRepo:      priceRepo,
		departmentRepo: departmentRepo,
	}
}

var _ portssvc.PriceListSvcFacade = (*priceListService)(nil)

// validateServiceRefs checks the department and HSN/SAC references of a
// priced service.
func (s *priceListService) validateServiceRefs(ctx context.Context, departmentID *string, hsnSacCode *string) error {
	if departmentID != nil && s.departmentRepo != nil {
		if _, err := s.departmentRepo.FindDepartmentByID(ctx, *departmentID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("%w: %s", ErrDepartmentNotFound, *departmentID)
			}
			return err
		}
	}
	if hsnSacCode != nil {
		if _, err := s.priceRepo.FindHsnSacCode(ctx, *hsnSacCode); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("%w: %s", ErrHsnSacCodeNotFound, *hsnSacCode)
			}
			return err
		}
	}
	return nil
}

func validateEffectiveWindow(from time.Time, to *time.Time) error {
	if to != nil && !to.After(from) {
		return fmt.Errorf("%w: effectiveTo must be after effectiveFrom", apperrors.ErrValidation)
	}
	return nil
}

func (s *priceListService) CreateServicePrice(ctx context.Context, req dto.CreateServicePriceRequest, creatorUserID string) (*domain.ServicePrice, error) {
	rate := domain.GSTRate(req.GSTRate)
	if !rate.Valid() {
		return nil, fmt.Errorf("%w: unknown GST rate %q", apperrors.ErrValidation, req.GSTRate)
	}
	if req.BasePrice.IsNegative() {
		return nil, fmt.Errorf("%w: base price must not be negative", apperrors.ErrValidation)
	}
	if err := validateEffectiveWindow(req.EffectiveFrom, req.EffectiveTo); err != nil {
		return nil, err
	}

	// Service codes are unique across the active catalog
	existing, err := s.priceRepo.FindActiveServiceByCode(ctx, req.ServiceCode)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to check service code uniqueness",
			slog.String("service_code", req.ServiceCode))
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: service code %s", ErrDuplicateCode, req.ServiceCode)
	}

	if err := s.validateServiceRefs(ctx, req.DepartmentID, req.HsnSacCode); err != nil {
		return nil, err
	}

	now := time.Now()
	price := domain.ServicePrice{
		ServicePriceID: uuid.NewString(),
		ServiceCode:    req.ServiceCode,
		Name:           req.Name,
		DepartmentID:   req.DepartmentID,
		HsnSacCode:     req.HsnSacCode,
		BasePrice:      req.BasePrice,
		GSTRate:        rate,
		EffectiveFrom:  req.EffectiveFrom,
		EffectiveTo:    req.EffectiveTo,
		IsActive:       true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.priceRepo.SaveServicePrice(ctx, price); err != nil {
		s.LogError(ctx, err, "Failed to save service price",
			slog.String("service_price_id", price.ServicePriceID))
		return nil, err
	}

	s.LogInfo(ctx, "Service price created",
		slog.String("service_price_id", price.ServicePriceID),
		slog.String("service_code", price.ServiceCode))
	return &price, nil
}

func (s *priceListService) GetServicePriceByID(ctx context.Context, servicePriceID string) (*domain.ServicePrice, error) {
	price, err := s.priceRepo.FindServicePriceByID(ctx, servicePriceID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find service price",
				slog.String("service_price_id", servicePriceID))
		}
		return nil, err
	}
	return price, nil
}

func (s *priceListService) ListServicePrices(ctx context.Context, params dto.ListPriceListParams) (*dto.ListServicePricesResponse, error) {
	page, limit := pagination.Normalize(params.Page, params.Limit)
	offset := pagination.Offset(page, limit)

	prices, total, err := s.priceRepo.ListServicePrices(ctx, limit, offset, params.ActiveOnly)
	if err != nil {
		s.LogError(ctx, err, "Failed to list service prices")
		return nil, fmt.Errorf("failed to list service prices: %w", err)
	}

	data := make([]dto.ServicePriceResponse, len(prices))
	for i := range prices {
		data[i] = dto.ToServicePriceResponse(&prices[i])
	}

	return &dto.ListServicePricesResponse{
		Data:       data,
		Pagination: pagination.New(total, page, limit),
	}, nil
}

func (s *priceListService) UpdateServicePrice(ctx context.Context, servicePriceID string, req dto.UpdateServicePriceRequest, updaterUserID string) (*domain.ServicePrice, error) {
	price, err := s.GetServicePriceByID(ctx, servicePriceID)
	if err != nil {
		return nil, err
	}

	if req.ServiceCode != nil && *req.ServiceCode != price.ServiceCode {
		// Uniqueness excluding self
		existing, err := s.priceRepo.FindActiveServiceByCode(ctx, *req.ServiceCode)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		if existing != nil && existing.ServicePriceID != servicePriceID {
			return nil, fmt.Errorf("%w: service code %s", ErrDuplicateCode, *req.ServiceCode)
		}
		price.ServiceCode = *req.ServiceCode
	}
	if req.Name != nil {
		price.Name = *req.Name
	}
	if req.DepartmentID != nil || req.HsnSacCode != nil {
		if err := s.validateServiceRefs(ctx, req.DepartmentID, req.HsnSacCode); err != nil {
			return nil, err
		}
		if req.DepartmentID != nil {
			price.DepartmentID = req.DepartmentID
		}
		if req.HsnSacCode != nil {
			price.HsnSacCode = req.HsnSacCode
		}
	}
	if req.BasePrice != nil {
		if req.BasePrice.IsNegative() {
			return nil, fmt.Errorf("%w: base price must not be negative", apperrors.ErrValidation)
		}
		price.BasePrice = *req.BasePrice
	}
	if req.GSTRate != nil {
		rate := domain.GSTRate(*req.GSTRate)
		if !rate.Valid() {
			return nil, fmt.Errorf("%w: unknown GST rate %q", apperrors.ErrValidation, *req.GSTRate)
		}
		price.GSTRate = rate
	}
	if req.EffectiveFrom != nil {
		price.EffectiveFrom = *req.EffectiveFrom
	}
	if req.EffectiveTo != nil {
		price.EffectiveTo = req.EffectiveTo
	}
	if err := validateEffectiveWindow(price.EffectiveFrom, price.EffectiveTo); err != nil {
		return nil, err
	}

	now := time.Now()
	price.LastUpdatedAt = now
	price.LastUpdatedBy = updaterUserID

	if err := s.priceRepo.UpdateServicePrice(ctx, *price); err != nil {
		s.LogError(ctx, err, "Failed to update service price",
			slog.String("service_price_id", servicePriceID))
		return nil, err
	}

	s.LogInfo(ctx, "Service price updated",
		slog.String("service_price_id", servicePriceID))
	return price, nil
}

func (s *priceListService) DeactivateServicePrice(ctx context.Context, servicePriceID string, deactivatorUserID string) error {
	if _, err := s.GetServicePriceByID(ctx, servicePriceID); err != nil {
		return err
	}

	now := time.Now()
	if err := s.priceRepo.DeactivateServicePrice(ctx, servicePriceID, deactivatorUserID, now); err != nil {
		s.LogError(ctx, err, "Failed to deactivate service price",
			slog.String("service_price_id", servicePriceID))
		return err
	}

	s.LogInfo(ctx, "Service price deactivated",
		slog.String("service_price_id", servicePriceID))
	return nil
}

// buildPackageItems validates and converts package item requests. Every
// referenced service price must exist and still be active; quantities and
// discounts are checked.
func (s *priceListService) buildPackageItems(ctx context.Context, packagePriceID string, reqItems []dto.PackageItemRequest) ([]domain.PackageItem, error) {
	serviceIDs := make([]string, 0, len(reqItems))
	for _, itemReq := range reqItems {
		serviceIDs = append(serviceIDs, itemReq.ServicePriceID)
	}
	services, err := s.priceRepo.FindServicePricesByIDs(ctx, serviceIDs)
	if err != nil {
		return nil, err
	}

	items := make([]domain.PackageItem, len(reqItems))
	for i, itemReq := range reqItems {
		service, found := services[itemReq.ServicePriceID]
		if !found {
			return nil, fmt.Errorf("%w: service price %s", apperrors.ErrNotFound, itemReq.ServicePriceID)
		}
		if !service.IsActive {
			return nil, fmt.Errorf("%w: service price %s is inactive", apperrors.ErrValidation, service.ServiceCode)
		}
		if itemReq.Quantity < 1 {
			return nil, fmt.Errorf("%w: quantity must be at least 1", apperrors.ErrValidation)
		}
		if itemReq.DiscountPercent.IsNegative() || itemReq.DiscountPercent.GreaterThan(decimal.NewFromInt(100)) {
			return nil, fmt.Errorf("%w: discount percent must be between 0 and 100", apperrors.ErrValidation)
		}
		items[i] = domain.PackageItem{
			PackageItemID:   uuid.NewString(),
			PackagePriceID:  packagePriceID,
			ServicePriceID:  itemReq.ServicePriceID,
			Quantity:        itemReq.Quantity,
			DiscountPercent: itemReq.DiscountPercent,
		}
	}
	return items, nil
}

func (s *priceListService) CreatePackagePrice(ctx context.Context, req dto.CreatePackagePriceRequest, creatorUserID string) (*domain.PackagePrice, error) {
	rate := domain.GSTRate(req.GSTRate)
	if !rate.Valid() {
		return nil, fmt.Errorf("%w: unknown GST rate %q", apperrors.ErrValidation, req.GSTRate)
	}
	if req.BasePrice.IsNegative() {
		return nil, fmt.Errorf("%w: base price must not be negative", apperrors.ErrValidation)
	}
	if err := validateEffectiveWindow(req.EffectiveFrom, req.EffectiveTo); err != nil {
		return nil, err
	}

	existing, err := s.priceRepo.FindActivePackageByCode(ctx, req.PackageCode)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to check package code uniqueness",
			slog.String("package_code", req.PackageCode))
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: package code %s", ErrDuplicateCode, req.PackageCode)
	}

	now := time.Now()
	packagePriceID := uuid.NewString()

	items, err := s.buildPackageItems(ctx, packagePriceID, req.Items)
	if err != nil {
		return nil, err
	}

	// BasePrice is stored as listed; it is deliberately not reconciled with
	// the sum of the discounted component lines.
	price := domain.PackagePrice{
		PackagePriceID: packagePriceID,
		PackageCode:    req.PackageCode,
		Name:           req.Name,
		BasePrice:      req.BasePrice,
		GSTRate:        rate,
		EffectiveFrom:  req.EffectiveFrom,
		EffectiveTo:    req.EffectiveTo,
		IsActive:       true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.priceRepo.SavePackagePrice(ctx, price, items); err != nil {
		s.LogError(ctx, err, "Failed to save package price",
			slog.String("package_price_id", packagePriceID))
		return nil, err
	}

	price.Items = items

	s.LogInfo(ctx, "Package price created",
		slog.String("package_price_id", packagePriceID),
		slog.String("package_code", price.PackageCode))
	return &price, nil
}

func (s *priceListService) GetPackagePriceByID(ctx context.Context, packagePriceID string) (*domain.PackagePrice, error) {
	price, err := s.priceRepo.FindPackagePriceByID(ctx, packagePriceID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find package price",
				slog.String("package_price_id", packagePriceID))
		}
		return nil, err
	}
	return price, nil
}

func (s *priceListService) ListPackagePrices(ctx context.Context, params dto.ListPriceListParams) (*dto.ListPackagePricesResponse, error) {
	page, limit := pagination.Normalize(params.Page, params.Limit)
	offset := pagination.Offset(page, limit)

	prices, total, err := s.priceRepo.ListPackagePrices(ctx, limit, offset, params.ActiveOnly)
	if err != nil {
		s.LogError(ctx, err, "Failed to list package prices")
		return nil, fmt.Errorf("failed to list package prices: %w", err)
	}

	data := make([]dto.PackagePriceResponse, len(prices))
	for i := range prices {
		data[i] = dto.ToPackagePriceResponse(&prices[i])
	}

	return &dto.ListPackagePricesResponse{
		Data:       data,
		Pagination: pagination.New(total, page, limit),
	}, nil
}

func (s *priceListService) UpdatePackagePrice(ctx context.Context, packagePriceID string, req dto.UpdatePackagePriceRequest, updaterUserID string) (*domain.PackagePrice, error) {
	price, err := s.GetPackagePriceByID(ctx, packagePriceID)
	if err != nil {
		return nil, err
	}

	if req.PackageCode != nil && *req.PackageCode != price.PackageCode {
		existing, err := s.priceRepo.FindActivePackageByCode(ctx, *req.PackageCode)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		if existing != nil && existing.PackagePriceID != packagePriceID {
			return nil, fmt.Errorf("%w: package code %s", ErrDuplicateCode, *req.PackageCode)
		}
		price.PackageCode = *req.PackageCode
	}
	if req.Name != nil {
		price.Name = *req.Name
	}
	if req.BasePrice != nil {
		if req.BasePrice.IsNegative() {
			return nil, fmt.Errorf("%w: base price must not be negative", apperrors.ErrValidation)
		}
		price.BasePrice = *req.BasePrice
	}
	if req.GSTRate != nil {
		rate := domain.GSTRate(*req.GSTRate)
		if !rate.Valid() {
			return nil, fmt.Errorf("%w: unknown GST rate %q", apperrors.ErrValidation, *req.GSTRate)
		}
		price.GSTRate = rate
	}
	if req.EffectiveFrom != nil {
		price.EffectiveFrom = *req.EffectiveFrom
	}
	if req.EffectiveTo != nil {
		price.EffectiveTo = req.EffectiveTo
	}
	if err := validateEffectiveWindow(price.EffectiveFrom, price.EffectiveTo); err != nil {
		return nil, err
	}

	// A non-nil item slice replaces the package composition wholesale.
	var items []domain.PackageItem
	if req.Items != nil {
		items, err = s.buildPackageItems(ctx, packagePriceID, req.Items)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now()
	price.LastUpdatedAt = now
	price.LastUpdatedBy = updaterUserID

	if err := s.priceRepo.UpdatePackagePrice(ctx, *price, items); err != nil {
		s.LogError(ctx, err, "Failed to update package price",
			slog.String("package_price_id", packagePriceID))
		return nil, err
	}

	if req.Items != nil {
		price.Items = items
	}

	s.LogInfo(ctx, "Package price updated",
		slog.String("package_price_id", packagePriceID))
	return price, nil
}

func (s *priceListService) DeactivatePackagePrice(ctx context.Context, packagePriceID string, deactivatorUserID string) error {
	if _, err := s.GetPackagePriceByID(ctx, packagePriceID); err != nil {
		return err
	}

	now := time.Now()
	if err := s.priceRepo.DeactivatePackagePrice(ctx, packagePriceID, deactivatorUserID, now); err != nil {
		s.LogError(ctx, err, "Failed to deactivate package price",
			slog.String("package_price_id", packagePriceID))
		return err
	}

	s.LogInfo(ctx, "Package price deactivated",
		slog.String("package_price_id", packagePriceID))
	return nil
}

func (s *priceListService) QuoteServicePrice(ctx context.Context, servicePriceID string, quantity int, discountPercent decimal.Decimal) (*accounting.GSTQuote, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", apperrors.ErrValidation)
	}
	if discountPercent.IsNegative() || discountPercent.GreaterThan(decimal.NewFromInt(100)) {
		return nil, fmt.Errorf("%w: discount percent must be between 0 and 100", apperrors.ErrValidation)
	}

	price, err := s.GetServicePriceByID(ctx, servicePriceID)
	if err != nil {
		return nil, err
	}
	if !price.IsActive {
		return nil, fmt.Errorf("%w: service price %s is inactive", apperrors.ErrValidation, price.ServiceCode)
	}

	taxable := accounting.LineAmount(price.BasePrice, quantity, discountPercent)
	quote := accounting.QuoteGST(taxable, price.GSTRate)
	return &quote, nil
}
