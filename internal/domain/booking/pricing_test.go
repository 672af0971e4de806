package booking

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hadfi53/rakb-sub000/internal/domain/daterange"
)

func pricingRange(t *testing.T, nights int) daterange.DateRange {
	t.Helper()
	start := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	r, err := daterange.New(start, start.AddDate(0, 0, nights))
	require.NoError(t, err)
	return r
}

func TestStandardPricing(t *testing.T) {
	strategy := NewStandardPricingStrategy()

	tests := []struct {
		name        string
		nights      int
		pricePerDay string
		want        string
	}{
		{"single night", 1, "50", "50"},
		{"three nights", 3, "45.50", "136.5"},
		{"six nights no discount", 6, "100", "600"},
		{"seven nights weekly discount", 7, "100", "630"},
		{"ten nights weekly discount", 10, "80", "720"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total, err := strategy.Calculate(PricingParams{
				Range:       pricingRange(t, tt.nights),
				PricePerDay: decimal.RequireFromString(tt.pricePerDay),
			})
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(total),
				"want %s, got %s", tt.want, total)
		})
	}
}

func TestStandardPricing_RejectsNonPositiveRate(t *testing.T) {
	strategy := NewStandardPricingStrategy()

	_, err := strategy.Calculate(PricingParams{
		Range:       pricingRange(t, 3),
		PricePerDay: decimal.Zero,
	})
	assert.Error(t, err)
}
