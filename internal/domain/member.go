package domain

type MemberRole string

const (
	MemberRoleAdmin  MemberRole = "ADMIN"
	MemberRoleMember MemberRole = "MEMBER"
)

type MemberStatus string

const (
	MemberStatusActive    MemberStatus = "ACTIVE"
	MemberStatusUnderLoan MemberStatus = "UNDER_LOAN"
)

// Seed trust scores assigned when a member joins a group.
const (
	SeedTrustScoreAdmin  = 100.0
	SeedTrustScoreMember = 50.0
)

type Member struct {
	ID      int64  `json:"id"`
	GroupID int64  `json:"group_id"`
	UID     string `json:"uid"` // external identity-provider id
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`

	Role   MemberRole   `json:"role"`
	Status MemberStatus `json:"status"`

	// TrustScore is derived state, recomputed from ledger inputs on every
	// triggering event and persisted for display and loan gating.
	TrustScore float64 `json:"trust_score"`

	AttendancePresent int32 `json:"attendance_present"`
	AttendanceTotal   int32 `json:"attendance_total"`

	ActiveLoanID *int64 `json:"active_loan_id,omitempty"`
	CreatedOn    string `json:"created_on"`
}

type Group struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	LoanCap   int64  `json:"loan_cap"` // group-wide safety ceiling for eligibility
	CreatedOn string `json:"created_on"`
}
