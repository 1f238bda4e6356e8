package service

import (
	"context"

	"shg-backend/internal/chain"
	"shg-backend/internal/domain"
)

type MemberService interface {
	CreateMember(ctx context.Context, member *domain.Member) (*domain.Member, error)
	GetMember(ctx context.Context, memberID int64) (*domain.Member, error)
	GetMemberByUID(ctx context.Context, uid string) (*domain.Member, error)
	ListMembers(ctx context.Context, groupID int64) ([]domain.Member, error)
	// GetProfile returns the member with the trust breakdown computed on
	// read and the savings-based loan eligibility.
	GetProfile(ctx context.Context, memberID int64) (*domain.Member, *domain.TrustBreakdown, int64, error)
	GetEligibility(ctx context.Context, memberID int64) (int64, error)
}

type RoundService interface {
	CreateRound(ctx context.Context, round *domain.MonthlyRound) (*domain.MonthlyRound, error)
	ListRounds(ctx context.Context, groupID, memberID int64) ([]RoundWithState, error)
	// PayContribution records the member's payment for a round after the
	// chain ledger has confirmed the transfer.
	PayContribution(ctx context.Context, memberID, roundID int64) (*domain.Contribution, error)
}

// RoundWithState is a round annotated with the requesting member's paid state.
type RoundWithState struct {
	domain.MonthlyRound
	Paid bool `json:"paid"`
}

type MeetingService interface {
	// FinalizeMeeting logs attendance and recomputes every member's trust
	// score with the new counters.
	FinalizeMeeting(ctx context.Context, meeting *domain.Meeting) error
	ListMeetings(ctx context.Context, groupID int64) ([]domain.Meeting, error)
}

type LoanService interface {
	Apply(ctx context.Context, loan *domain.Loan) (*domain.Loan, error)
	Approve(ctx context.Context, loanID int64) (*domain.Loan, error)
	Reject(ctx context.Context, loanID int64) (*domain.Loan, error)
	PayEMI(ctx context.Context, memberID, loanID int64) (*domain.Loan, error)
	GetLoan(ctx context.Context, loanID int64) (*domain.Loan, error)
	ListMemberLoans(ctx context.Context, memberID int64) ([]domain.Loan, error)
	ListGroupLoans(ctx context.Context, groupID int64) ([]domain.Loan, error)
	ListPending(ctx context.Context, groupID int64) ([]domain.Loan, error)
}

type TrustService interface {
	// Recompute derives the full trust breakdown for a member from current
	// ledger state and persists the composite. Idempotent.
	Recompute(ctx context.Context, groupID, memberID int64) (*domain.TrustBreakdown, error)
	// Snapshot recomputes and appends the result to the member's trust
	// history.
	Snapshot(ctx context.Context, groupID, memberID int64) error
	History(ctx context.Context, memberID int64) ([]domain.TrustSnapshot, error)
}

type ReportService interface {
	FinancialSummary(ctx context.Context, groupID int64) (*domain.FinancialSummary, error)
	MonthlyBuckets(ctx context.Context, groupID int64) ([]domain.MonthlyBucket, error)
	MemberTrustTable(ctx context.Context, groupID int64) ([]domain.MemberTrustRow, error)
}

type LedgerService interface {
	ListRepayments(ctx context.Context) ([]chain.Repayment, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, memberID int64, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, memberID, notificationID int64) error
}

type OTPService interface {
	RequestCode(ctx context.Context, phone string) error
	VerifyCode(ctx context.Context, phone, code string) error
	// IsVerified reports whether the phone passed verification within the
	// configured window; payment actions are gated on it.
	IsVerified(ctx context.Context, phone string) (bool, error)
}

type EmailService interface {
	SendLoanDecision(ctx context.Context, email, name string, approved bool, amount int64) error
	SendEmiReceipt(ctx context.Context, email, name string, amount int64, txHash string) error
	SendEmiReminder(ctx context.Context, email, name string, amount int64, dueOn string) error
	SendOverdueNotice(ctx context.Context, email, name string, amount int64, dueOn string) error
}

// SMSSender relays OTP codes to the delivery gateway.
type SMSSender interface {
	Send(ctx context.Context, phone, message string) error
}
