package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ServicePrice is the service_price_list table row.
type ServicePrice struct {
	ServicePriceID string          `db:"service_price_id"`
	ServiceCode    string          `db:"service_code"`
	Name           string          `db:"name"`
	DepartmentID   *string         `db:"department_id"`
	HsnSacCode     *string         `db:"hsn_sac_code"`
	BasePrice      decimal.Decimal `db:"base_price"`
	GSTRate        string          `db:"gst_rate"`
	EffectiveFrom  time.Time       `db:"effective_from"`
	EffectiveTo    *time.Time      `db:"effective_to"`
	IsActive       bool            `db:"is_active"`
	AuditFields
}

// PackagePrice is the package_price_list table row.
type PackagePrice struct {
	PackagePriceID string          `db:"package_price_id"`
	PackageCode    string          `db:"package_code"`
	Name           string          `db:"name"`
	BasePrice      decimal.Decimal `db:"base_price"`
	GSTRate        string          `db:"gst_rate"`
	EffectiveFrom  time.Time       `db:"effective_from"`
	EffectiveTo    *time.Time      `db:"effective_to"`
	IsActive       bool            `db:"is_active"`
	AuditFields
}

// PackageItem is the package_items table row.
type PackageItem struct {
	PackageItemID   string          `db:"package_item_id"`
	PackagePriceID  string          `db:"package_price_id"`
	ServicePriceID  string          `db:"service_price_id"`
	Quantity        int             `db:"quantity"`
	DiscountPercent decimal.Decimal `db:"discount_percent"`
}

// HsnSacCode is the hsn_sac_codes table row.
type HsnSacCode struct {
	Code        string `db:"code"`
	Description string `db:"description"`
	IsActive    bool   `db:"is_active"`
}
