package dto

import (
	"time"

	"github.com/medantrix/hms_accounting_app/internal/core/domain"
	"github.com/medantrix/hms_accounting_app/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

// PriceListType discriminates the tagged price list variant at the API
// boundary. Dispatch happens once in the handler, not in business logic.
type PriceListType string

const (
	PriceListTypeService PriceListType = "SERVICE"
	PriceListTypePackage PriceListType = "PACKAGE"
)

// CreatePriceListRequest is the tagged-variant create payload: Type selects
// which of the two payloads must be present.
type CreatePriceListRequest struct {
	Type    PriceListType              `json:"type" binding:"required,oneof=SERVICE PACKAGE"`
	Service *CreateServicePriceRequest `json:"service"`
	Package *CreatePackagePriceRequest `json:"package"`
}

// CreateServicePriceRequest creates a priced service catalog entry.
type CreateServicePriceRequest struct {
	ServiceCode   string          `json:"serviceCode" binding:"required"`
	Name          string          `json:"name" binding:"required"`
	DepartmentID  *string         `json:"departmentID"`
	HsnSacCode    *string         `json:"hsnSacCode"`
	BasePrice     decimal.Decimal `json:"basePrice" binding:"required"`
	GSTRate       string          `json:"gstRate" binding:"required,oneof=EXEMPT ZERO FIVE TWELVE EIGHTEEN TWENTYEIGHT"`
	EffectiveFrom time.Time       `json:"effectiveFrom" binding:"required" time_format:"2006-01-02"`
	EffectiveTo   *time.Time      `json:"effectiveTo"`
}

// UpdateServicePriceRequest patches a priced service. Nil leaves a field
// unchanged.
type UpdateServicePriceRequest struct {
	ServiceCode   *string          `json:"serviceCode"`
	Name          *string          `json:"name"`
	DepartmentID  *string          `json:"departmentID"`
	HsnSacCode    *string          `json:"hsnSacCode"`
	BasePrice     *decimal.Decimal `json:"basePrice"`
	GSTRate       *string          `json:"gstRate"`
	EffectiveFrom *time.Time       `json:"effectiveFrom"`
	EffectiveTo   *time.Time       `json:"effectiveTo"`
}

// PackageItemRequest composes one service into a package.
type PackageItemRequest struct {
	ServicePriceID  string          `json:"servicePriceID" binding:"required"`
	Quantity        int             `json:"quantity" binding:"required,min=1"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
}

// CreatePackagePriceRequest creates a priced package. BasePrice is stored
// as given; it is not derived from the component items.
type CreatePackagePriceRequest struct {
	PackageCode   string               `json:"packageCode" binding:"required"`
	Name          string               `json:"name" binding:"required"`
	BasePrice     decimal.Decimal      `json:"basePrice" binding:"required"`
	GSTRate       string               `json:"gstRate" binding:"required,oneof=EXEMPT ZERO FIVE TWELVE EIGHTEEN TWENTYEIGHT"`
	EffectiveFrom time.Time            `json:"effectiveFrom" binding:"required" time_format:"2006-01-02"`
	EffectiveTo   *time.Time           `json:"effectiveTo"`
	Items         []PackageItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdatePackagePriceRequest patches a priced package. A non-nil Items
// slice replaces the package composition wholesale.
type UpdatePackagePriceRequest struct {
	PackageCode   *string              `json:"packageCode"`
	Name          *string              `json:"name"`
	BasePrice     *decimal.Decimal     `json:"basePrice"`
	GSTRate       *string              `json:"gstRate"`
	EffectiveFrom *time.Time           `json:"effectiveFrom"`
	EffectiveTo   *time.Time           `json:"effectiveTo"`
	Items         []PackageItemRequest `json:"items"`
}

// ListPriceListParams are the query parameters for listing catalog entries.
type ListPriceListParams struct {
	Page       int  `form:"page"`
	Limit      int  `form:"limit"`
	ActiveOnly bool `form:"activeOnly"`
}

// ServicePriceResponse is the API representation of a priced service.
type ServicePriceResponse struct {
	ServicePriceID string          `json:"servicePriceID"`
	ServiceCode    string          `json:"serviceCode"`
	Name           string          `json:"name"`
	DepartmentID   *string         `json:"departmentID"`
	HsnSacCode     *string         `json:"hsnSacCode"`
	BasePrice      decimal.Decimal `json:"basePrice"`
	GSTRate        string          `json:"gstRate"`
	EffectiveFrom  time.Time       `json:"effectiveFrom"`
	EffectiveTo    *time.Time      `json:"effectiveTo"`
	IsActive       bool            `json:"isActive"`
}

// PackageItemResponse is one component line of a package.
type PackageItemResponse struct {
	PackageItemID   string          `json:"packageItemID"`
	ServicePriceID  string          `json:"servicePriceID"`
	Quantity        int             `json:"quantity"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
}

// PackagePriceResponse is the API representation of a priced package.
type PackagePriceResponse struct {
	PackagePriceID string                `json:"packagePriceID"`
	PackageCode    string                `json:"packageCode"`
	Name           string                `json:"name"`
	BasePrice      decimal.Decimal       `json:"basePrice"`
	GSTRate        string                `json:"gstRate"`
	EffectiveFrom  time.Time             `json:"effectiveFrom"`
	EffectiveTo    *time.Time            `json:"effectiveTo"`
	IsActive       bool                  `json:"isActive"`
	Items          []PackageItemResponse `json:"items,omitempty"`
}

// ListServicePricesResponse is a page of priced services.
type ListServicePricesResponse struct {
	Data       []ServicePriceResponse `json:"data"`
	Pagination pagination.Pagination  `json:"pagination"`
}

// ListPackagePricesResponse is a page of priced packages.
type ListPackagePricesResponse struct {
	Data       []PackagePriceResponse `json:"data"`
	Pagination pagination.Pagination  `json:"pagination"`
}

// ToServicePriceResponse converts a domain service price to its DTO.
func ToServicePriceResponse(price *domain.ServicePrice) ServicePriceResponse {
	return ServicePriceResponse{
		ServicePriceID: price.ServicePriceID,
		ServiceCode:    price.ServiceCode,
		Name:           price.Name,
		DepartmentID:   price.DepartmentID,
		HsnSacCode:     price.HsnSacCode,
		BasePrice:      price.BasePrice,
		GSTRate:        string(price.GSTRate),
		EffectiveFrom:  price.EffectiveFrom,
		EffectiveTo:    price.EffectiveTo,
		IsActive:       price.IsActive,
	}
}

// ToPackagePriceResponse converts a domain package price to its DTO.
func ToPackagePriceResponse(price *domain.PackagePrice) PackagePriceResponse {
	resp := PackagePriceResponse{
		PackagePriceID: price.PackagePriceID,
		PackageCode:    price.PackageCode,
		Name:           price.Name,
		BasePrice:      price.BasePrice,
		GSTRate:        string(price.GSTRate),
		EffectiveFrom:  price.EffectiveFrom,
		EffectiveTo:    price.EffectiveTo,
		IsActive:       price.IsActive,
	}
	if len(price.Items) > 0 {
		resp.Items = make([]PackageItemResponse, len(price.Items))
		for i, item := range price.Items {
			resp.Items[i] = PackageItemResponse{
				PackageItemID:   item.PackageItemID,
				ServicePriceID:  item.ServicePriceID,
				Quantity:        item.Quantity,
				DiscountPercent: item.DiscountPercent,
			}
		}
	}
	return resp
}
