/*
rate.go - Numeric rules for royalty rates

PURPOSE:
  A rate is the payout owed per stream unit. Rates are decimal values with a
  fixed fractional scale of six digits (smallest expressible step: 0.000001)
  and must be non-negative. The engine enforces this contract itself,
  regardless of how the transport layer captured the input.

SEE ALSO:
  - decision.go: Validates rates on Create, ChangeRate and Update
*/
package royalty

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// RateScale is the maximum number of fractional digits in a rate.
const RateScale = 6

// ValidateRate checks the rate contract: non-negative, at most six
// fractional digits. Returns ErrInvalidRate on violation.
func ValidateRate(rate decimal.Decimal) error {
	if rate.IsNegative() {
		return fmt.Errorf("%w: %s is negative", ErrInvalidRate, rate)
	}
	if !rate.Equal(rate.Truncate(RateScale)) {
		return fmt.Errorf("%w: %s exceeds %d fractional digits", ErrInvalidRate, rate, RateScale)
	}
	return nil
}

// MustParseRate parses a decimal string, panicking on malformed input.
// For tests and fixtures only.
func MustParseRate(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(fmt.Sprintf("malformed rate %q: %v", s, err))
	}
	return d
}
