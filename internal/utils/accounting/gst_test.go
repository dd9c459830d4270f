package accounting

import (
	"testing"

	"github.com/medantrix/hms_accounting_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLineAmount(t *testing.T) {
	// 2 x 500 with 10% discount = 900
	amount := LineAmount(decimal.NewFromInt(500), 2, decimal.NewFromInt(10))
	assert.True(t, amount.Equal(decimal.NewFromInt(900)), "got %s", amount)
}

func TestLineAmount_NoDiscount(t *testing.T) {
	amount := LineAmount(decimal.NewFromFloat(250.50), 3, decimal.Zero)
	assert.True(t, amount.Equal(decimal.NewFromFloat(751.50)), "got %s", amount)
}

func TestQuoteGST(t *testing.T) {
	tests := []struct {
		rate      domain.GSTRate
		taxable   float64
		wantGST   float64
		wantTotal float64
	}{
		{domain.GSTExempt, 1000, 0, 1000},
		{domain.GSTZero, 1000, 0, 1000},
		{domain.GSTFive, 1000, 50, 1050},
		{domain.GSTTwelve, 1000, 120, 1120},
		{domain.GSTEighteen, 1000, 180, 1180},
		{domain.GSTTwentyEight, 1000, 280, 1280},
	}
	for _, tt := range tests {
		t.Run(string(tt.rate), func(t *testing.T) {
			quote := QuoteGST(decimal.NewFromFloat(tt.taxable), tt.rate)
			assert.True(t, quote.GSTAmount.Equal(decimal.NewFromFloat(tt.wantGST)), "gst got %s", quote.GSTAmount)
			assert.True(t, quote.TotalAmount.Equal(decimal.NewFromFloat(tt.wantTotal)), "total got %s", quote.TotalAmount)
		})
	}
}

func TestQuoteGST_HalvesSumExactly(t *testing.T) {
	// 18% of 333.33 = 59.9994 -> 60.00; halves must still sum to the GST amount.
	quote := QuoteGST(decimal.NewFromFloat(333.33), domain.GSTEighteen)
	assert.True(t, quote.CGSTAmount.Add(quote.SGSTAmount).Equal(quote.GSTAmount))
	assert.True(t, quote.TotalAmount.Equal(quote.TaxableAmount.Add(quote.GSTAmount)))
}
