/*
status.go - Derived paid status and average-monthly royalties

PURPOSE:
  Computes the artist's derived view: whether they are PAID or UNPAID, and
  their average monthly royalty earnings since the platform's inception.
  Both are pure functions of (artist snapshot, now) — status is never
  stored, so it can never go stale in the database.

THE 14-DAY RULE:
  An artist is UNPAID only when BOTH hold:
    (a) more than 14 days have passed since the last payout
        (never-paid artists are infinitely stale), and
    (b) streams have accrued beyond what the last payout covered.
  A fully-paid-up artist stays PAID forever, no matter how much time passes.

AVERAGE MONTHLY:
  rate x paidStreams spread over the whole calendar months between the
  inception epoch and the last payout. The denominator is clamped to one
  month so a payout stamped in the inception month itself cannot divide by
  zero. Never-paid artists get a zero sentinel.

SEE ALSO:
  - types.go: InceptionDate, PaidStatus
  - decision.go: Operations that move an artist between statuses
*/
package royalty

import (
	"time"

	"github.com/shopspring/decimal"
)

// UnpaidAfter is how long after a payout an artist with newly accrued
// streams becomes UNPAID.
const UnpaidAfter = 14 * 24 * time.Hour

// View is the derived, read-only portion of an artist's state.
type View struct {
	Status         PaidStatus
	AverageMonthly decimal.Decimal // rounded to 2 places, half away from zero
}

// DeriveStatus computes the artist's derived view at the given instant.
// Pure: no I/O, no ambient clock.
func DeriveStatus(a Artist, now time.Time) View {
	return View{
		Status:         paidStatus(a, now),
		AverageMonthly: averageMonthly(a),
	}
}

func paidStatus(a Artist, now time.Time) PaidStatus {
	if a.Streams <= a.PaidStreams {
		return StatusPaid
	}
	if a.LastPaidAt == nil || now.Sub(*a.LastPaidAt) > UnpaidAfter {
		return StatusUnpaid
	}
	return StatusPaid
}

func averageMonthly(a Artist) decimal.Decimal {
	if a.LastPaidAt == nil {
		// Never paid: months-since-inception is undefined. Zero sentinel.
		return decimal.Zero
	}

	months := monthsBetween(InceptionDate, *a.LastPaidAt)
	if months < 1 {
		months = 1
	}

	total := a.Rate.Mul(decimal.NewFromInt(a.PaidStreams))
	return total.Div(decimal.NewFromInt(int64(months))).Round(2)
}

// monthsBetween returns the number of whole calendar months from one
// instant to another. A month counts only once its day-of-month has been
// reached (Jan 15 -> Feb 14 is zero months, Jan 15 -> Feb 15 is one).
func monthsBetween(from, to time.Time) int {
	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	if to.Day() < from.Day() {
		months--
	}
	return months
}
