package utils

import (
	"math"

	"shg-backend/internal/domain"
)

// TrustInputs carries everything the trust score fold needs. All values are
// read from current ledger state; the score is always recomputed from
// scratch, never incrementally patched.
type TrustInputs struct {
	AttendancePresent int32
	TotalMeetings     int32

	PaidRounds  int32
	TotalRounds int32

	// MemberLoans are this member's loans with their full schedules.
	MemberLoans []domain.Loan
	// GroupMaxLoan is the largest principal across all loans in the group,
	// including other members'.
	GroupMaxLoan int64
}

// round1 matches the one-decimal rounding the score display uses.
func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// ComputeTrust derives the three weighted sub-scores and the 0-100 composite.
// Zero denominators yield 0, never NaN.
func ComputeTrust(in TrustInputs) domain.TrustBreakdown {
	var b domain.TrustBreakdown

	// Attendance: 0-20.
	if in.TotalMeetings > 0 {
		b.Attendance = round1(float64(in.AttendancePresent) / float64(in.TotalMeetings) * 20)
	}

	// Monthly round timeliness: 0-40.
	if in.TotalRounds > 0 {
		b.MonthlyRound = round1(float64(in.PaidRounds) / float64(in.TotalRounds) * 40)
	}

	// Loan repayment: 0-40, discipline + responsibility.
	var (
		totalLoans      int32
		completedLoans  int32
		totalEMIs       int32
		onTimeEMIs      int32
		totalLoanAmount int64
	)
	for i := range in.MemberLoans {
		loan := &in.MemberLoans[i]
		totalLoans++
		totalLoanAmount += loan.PrincipalAmount
		if loan.RemainingAmount == 0 {
			completedLoans++
		}
		for j := range loan.Schedule {
			e := &loan.Schedule[j]
			totalEMIs++
			if e.Paid && e.PaidAt != nil && !e.PaidAt.After(e.DueOn) {
				onTimeEMIs++
			}
		}
	}

	var emiScore, completionScore float64
	if totalEMIs > 0 {
		emiScore = float64(onTimeEMIs) / float64(totalEMIs) * 15
	}
	if totalLoans > 0 {
		completionScore = float64(completedLoans) / float64(totalLoans) * 10
	}
	discipline := emiScore + completionScore

	var responsibility float64
	if in.GroupMaxLoan > 0 && totalLoanAmount > 0 {
		responsibility = math.Log10(float64(totalLoanAmount)+1) /
			math.Log10(float64(in.GroupMaxLoan)+1) * 15
	}

	b.LoanDiscipline = round1(discipline)
	b.LoanResponsibility = round1(responsibility)
	b.Loan = round1(math.Min(40, math.Max(0, discipline+responsibility)))

	b.Total = round1(b.Attendance + b.MonthlyRound + b.Loan)
	return b
}
