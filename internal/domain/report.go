package domain

// TrustBreakdown is the display decomposition of a member's trust score,
// computed on read. Total is the persisted composite.
type TrustBreakdown struct {
	Attendance         float64 `json:"attendance_score"`     // 0-20
	MonthlyRound       float64 `json:"monthly_round_score"`  // 0-40
	LoanDiscipline     float64 `json:"loan_discipline_score"`
	LoanResponsibility float64 `json:"loan_responsibility_score"`
	Loan               float64 `json:"loan_score"` // 0-40
	Total              float64 `json:"total"`      // 0-100
}

// FinancialSummary aggregates the loan book for the admin reports screen.
type FinancialSummary struct {
	TotalLoans       int32 `json:"total_loans"`
	ActiveLoans      int32 `json:"active_loans"`
	CompletedLoans   int32 `json:"completed_loans"`
	TotalPrincipal   int64 `json:"total_principal"`
	TotalPaid        int64 `json:"total_paid"`
	TotalOutstanding int64 `json:"total_outstanding"`
	TotalEMIs        int32 `json:"total_emis"`
	PaidEMIs         int32 `json:"paid_emis"`
	OverdueEMIs      int32 `json:"overdue_emis"`
	RepaymentRate    int32 `json:"repayment_rate"` // percent, 0-100
}

// MonthlyBucket folds savings and loan activity into per-month totals.
type MonthlyBucket struct {
	Month      string `json:"month"` // yyyy-mm
	Savings    int64  `json:"savings"`
	Disbursed  int64  `json:"disbursed"`
	Repaid     int64  `json:"repaid"`
}

// MemberTrustRow is one line of the admin trust report.
type MemberTrustRow struct {
	MemberID   int64   `json:"member_id"`
	Name       string  `json:"name"`
	TrustScore float64 `json:"trust_score"`
	PaidRounds int32   `json:"paid_rounds"`
	Attendance string  `json:"attendance"` // "present/total"
}

// TrustSnapshot is one point of the trust score history feed.
type TrustSnapshot struct {
	ID        int64          `json:"id"`
	MemberID  int64          `json:"member_id"`
	Score     float64        `json:"score"`
	Breakdown TrustBreakdown `json:"breakdown"`
	TakenOn   string         `json:"taken_on"`
}
