package domain

import "time"

type LoanStatus string

const (
	LoanStatusPending   LoanStatus = "PENDING"
	LoanStatusApproved  LoanStatus = "APPROVED"
	LoanStatusRejected  LoanStatus = "REJECTED"
	LoanStatusCompleted LoanStatus = "COMPLETED"
)

// Installment is one scheduled EMI slot with its paid/unpaid state.
type Installment struct {
	LoanID int64      `json:"loan_id"`
	Seq    int32      `json:"seq"` // 0-based position in the schedule
	DueOn  time.Time  `json:"due_on"`
	Paid   bool       `json:"paid"`
	PaidAt *time.Time `json:"paid_at,omitempty"`
	TxHash string     `json:"tx_hash,omitempty"`
}

type Loan struct {
	ID       int64 `json:"id"`
	GroupID  int64 `json:"group_id"`
	MemberID int64 `json:"member_id"`

	PrincipalAmount int64   `json:"principal_amount"`
	InterestRate    float64 `json:"interest_rate"` // monthly-equivalent percent, stored as entered
	TenureMonths    int32   `json:"tenure_months"`
	Purpose         string  `json:"purpose"`

	EMIAmount       int64 `json:"emi_amount"`
	TotalPayable    int64 `json:"total_payable"`
	PaidAmount      int64 `json:"paid_amount"`
	RemainingAmount int64 `json:"remaining_amount"`

	Status   LoanStatus    `json:"status"`
	Schedule []Installment `json:"schedule"`

	// Revision increments on every schedule write; optimistic-concurrency
	// guard for the EMI progression read-modify-write.
	Revision int64 `json:"revision"`

	AppliedOn string  `json:"applied_on"`
	DecidedOn *string `json:"decided_on,omitempty"`
}

// NextUnpaid returns the index of the first unpaid installment, or -1 when
// the schedule is fully paid.
func (l *Loan) NextUnpaid() int {
	for i := range l.Schedule {
		if !l.Schedule[i].Paid {
			return i
		}
	}
	return -1
}

// AllPaid reports whether every installment is settled.
func (l *Loan) AllPaid() bool {
	return len(l.Schedule) > 0 && l.NextUnpaid() == -1
}
