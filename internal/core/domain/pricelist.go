package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// GSTRate is the GST classification of a priced service or package.
type GSTRate string

const (
	GSTExempt      GSTRate = "EXEMPT"
	GSTZero        GSTRate = "ZERO"
	GSTFive        GSTRate = "FIVE"
	GSTTwelve      GSTRate = "TWELVE"
	GSTEighteen    GSTRate = "EIGHTEEN"
	GSTTwentyEight GSTRate = "TWENTYEIGHT"
)

// Percent returns the GST percentage for the rate classification.
func (r GSTRate) Percent() decimal.Decimal {
	switch r {
	case GSTFive:
		return decimal.NewFromInt(5)
	case GSTTwelve:
		return decimal.NewFromInt(12)
	case GSTEighteen:
		return decimal.NewFromInt(18)
	case GSTTwentyEight:
		return decimal.NewFromInt(28)
	default: // EXEMPT and ZERO both carry no tax
		return decimal.Zero
	}
}

// Valid reports whether the rate is one of the known classifications.
func (r GSTRate) Valid() bool {
	switch r {
	case GSTExempt, GSTZero, GSTFive, GSTTwelve, GSTEighteen, GSTTwentyEight:
		return true
	}
	return false
}

// ServicePrice is a priced catalog entry for a single hospital service.
type ServicePrice struct {
	ServicePriceID string          `json:"servicePriceID"`
	ServiceCode    string          `json:"serviceCode"` // Unique across the active catalog
	Name           string          `json:"name"`
	DepartmentID   *string         `json:"departmentID"`
	HsnSacCode     *string         `json:"hsnSacCode"` // Nullable FK -> hsn_sac_codes
	BasePrice      decimal.Decimal `json:"basePrice"`
	GSTRate        GSTRate         `json:"gstRate"`
	EffectiveFrom  time.Time       `json:"effectiveFrom"`
	EffectiveTo    *time.Time      `json:"effectiveTo"`
	IsActive       bool            `json:"isActive"`
	AuditFields
}

// PackageItem composes one priced service into a package with a quantity
// and a line discount.
type PackageItem struct {
	PackageItemID   string          `json:"packageItemID"`
	PackagePriceID  string          `json:"packagePriceID"`
	ServicePriceID  string          `json:"servicePriceID"`
	Quantity        int             `json:"quantity"`
	DiscountPercent decimal.Decimal `json:"discountPercent"` // 0..100
}

// PackagePrice is a priced bundle of services. BasePrice is stored
// independently of the sum of the discounted components; the two are
// deliberately not reconciled (manual pricing override).
type PackagePrice struct {
	PackagePriceID string          `json:"packagePriceID"`
	PackageCode    string          `json:"packageCode"` // Unique across the active catalog
	Name           string          `json:"name"`
	BasePrice      decimal.Decimal `json:"basePrice"`
	GSTRate        GSTRate         `json:"gstRate"`
	EffectiveFrom  time.Time       `json:"effectiveFrom"`
	EffectiveTo    *time.Time      `json:"effectiveTo"`
	IsActive       bool            `json:"isActive"`
	AuditFields
	Items []PackageItem `json:"items,omitempty"`
}

// HsnSacCode is a tax classification code referenced by priced services.
type HsnSacCode struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	IsActive    bool   `json:"isActive"`
}
