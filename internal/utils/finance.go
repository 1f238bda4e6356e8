package utils

import (
	"math"
	"time"

	"shg-backend/internal/domain"
)

// MonthlyRate converts the stored interest rate field into the per-month
// fraction used by the amortization formula. The rate field is treated as
// annual here even though the product captures a monthly-equivalent value;
// this mirrors the observed behavior and must not be "corrected" without a
// product decision, since EMI amounts are user-visible.
func MonthlyRate(ratePercent float64) float64 {
	return ratePercent / 12 / 100
}

// ComputeEMI returns the fixed monthly installment for a loan, rounded up to
// the next whole currency unit.
func ComputeEMI(principal int64, ratePercent float64, tenureMonths int32) int64 {
	if principal <= 0 || tenureMonths <= 0 {
		return 0
	}
	r := MonthlyRate(ratePercent)
	if r == 0 {
		return int64(math.Ceil(float64(principal) / float64(tenureMonths)))
	}
	pow := math.Pow(1+r, float64(tenureMonths))
	emi := float64(principal) * r * pow / (pow - 1)
	return int64(math.Ceil(emi))
}

// BuildSchedule generates the ordered due-date entries for a new loan.
// Installment i falls due (i+1) calendar months after the start date.
func BuildSchedule(startDate time.Time, tenureMonths int32) []domain.Installment {
	schedule := make([]domain.Installment, 0, tenureMonths)
	for i := int32(0); i < tenureMonths; i++ {
		schedule = append(schedule, domain.Installment{
			Seq:   i,
			DueOn: startDate.AddDate(0, int(i)+1, 0),
			Paid:  false,
		})
	}
	return schedule
}

// TrustMultiplier maps a trust score to the savings multiplier used for loan
// eligibility. Below 40 no loan is available.
func TrustMultiplier(trustScore float64) float64 {
	switch {
	case trustScore < 40:
		return 0
	case trustScore < 55:
		return 1.5
	case trustScore < 70:
		return 2.0
	case trustScore < 80:
		return 2.5
	case trustScore < 90:
		return 3.0
	default:
		return 3.5
	}
}

// DefaultLoanCap is the group-wide safety ceiling applied when a group has
// no explicit cap configured.
const DefaultLoanCap int64 = 90000

// EligibleAmount returns the maximum approvable loan amount for a member
// given cumulative savings and trust score, clamped to the group cap.
func EligibleAmount(savings int64, trustScore float64, cap int64) int64 {
	if cap <= 0 {
		cap = DefaultLoanCap
	}
	limit := int64(math.Round(float64(savings) * TrustMultiplier(trustScore)))
	if limit < 0 {
		return 0
	}
	if limit > cap {
		return cap
	}
	return limit
}
