package accounting

import (
	"github.com/medantrix/hms_accounting_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// GSTQuote is the computed billable breakdown for a priced line.
type GSTQuote struct {
	TaxableAmount decimal.Decimal `json:"taxableAmount"`
	CGSTAmount    decimal.Decimal `json:"cgstAmount"`
	SGSTAmount    decimal.Decimal `json:"sgstAmount"`
	GSTAmount     decimal.Decimal `json:"gstAmount"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
}

// LineAmount computes the discounted taxable amount for a priced line:
// basePrice x quantity x (1 - discountPercent/100).
func LineAmount(basePrice decimal.Decimal, quantity int, discountPercent decimal.Decimal) decimal.Decimal {
	gross := basePrice.Mul(decimal.NewFromInt(int64(quantity)))
	discount := gross.Mul(discountPercent).Div(hundred)
	return gross.Sub(discount)
}

// QuoteGST computes the GST breakdown for a taxable amount under the given
// rate classification. Intra-state split: GST is halved into CGST and SGST.
// Amounts are rounded to two decimal places.
func QuoteGST(taxableAmount decimal.Decimal, rate domain.GSTRate) GSTQuote {
	taxable := taxableAmount.Round(2)
	gst := taxable.Mul(rate.Percent()).Div(hundred).Round(2)
	half := gst.Div(decimal.NewFromInt(2)).Round(2)
	return GSTQuote{
		TaxableAmount: taxable,
		CGSTAmount:    half,
		SGSTAmount:    gst.Sub(half), // Keeps halves summing exactly to the GST amount
		GSTAmount:     gst,
		TotalAmount:   taxable.Add(gst),
	}
}
