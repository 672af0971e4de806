package booking

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/hadfi53/rakb-sub000/internal/domain/daterange"
)

// PricingStrategy defines the interface for calculating booking totals.
type PricingStrategy interface {
	// Calculate returns the total amount for the given parameters.
	Calculate(params PricingParams) (decimal.Decimal, error)
}

// PricingParams holds the inputs for price calculation.
type PricingParams struct {
	Range       daterange.DateRange
	PricePerDay decimal.Decimal
}

// StandardPricingStrategy implements the default nightly-rate pricing with a
// small long-stay discount. Commission and tax splitting are handled by the
// payment collaborator, not here.
type StandardPricingStrategy struct{}

// NewStandardPricingStrategy creates a new StandardPricingStrategy.
func NewStandardPricingStrategy() *StandardPricingStrategy {
	return &StandardPricingStrategy{}
}

// weeklyDiscount is applied to stays of seven nights or longer.
var weeklyDiscount = decimal.NewFromFloat(0.10)

// Calculate computes nights x price per day, minus the weekly discount for
// stays of 7+ nights.
func (s *StandardPricingStrategy) Calculate(params PricingParams) (decimal.Decimal, error) {
	nights := params.Range.Nights()
	if nights <= 0 {
		return decimal.Zero, fmt.Errorf("date range covers no nights")
	}
	if params.PricePerDay.IsNegative() || params.PricePerDay.IsZero() {
		return decimal.Zero, fmt.Errorf("price per day must be positive")
	}

	total := params.PricePerDay.Mul(decimal.NewFromInt(int64(nights)))
	if nights >= 7 {
		total = total.Sub(total.Mul(weeklyDiscount))
	}
	return total.Round(2), nil
}
