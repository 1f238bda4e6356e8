package repository

import (
	"context"
	"time"

	"shg-backend/internal/domain"
)

type GroupRepository interface {
	Create(ctx context.Context, group *domain.Group) error
	GetByID(ctx context.Context, id int64) (*domain.Group, error)
}

type MemberRepository interface {
	Create(ctx context.Context, member *domain.Member) error
	GetByID(ctx context.Context, id int64) (*domain.Member, error)
	GetByUID(ctx context.Context, uid string) (*domain.Member, error)
	ListByGroup(ctx context.Context, groupID int64) ([]domain.Member, error)
	UpdateTrustScore(ctx context.Context, memberID int64, score float64) error
	SetActiveLoan(ctx context.Context, memberID int64, loanID *int64, status domain.MemberStatus) error
}

type RoundRepository interface {
	Create(ctx context.Context, round *domain.MonthlyRound) error
	GetByID(ctx context.Context, id int64) (*domain.MonthlyRound, error)
	ListByGroup(ctx context.Context, groupID int64) ([]domain.MonthlyRound, error)

	// CreateContribution inserts the single contribution record for a
	// (round, member) pair; a duplicate returns domain.ErrAlreadySettled.
	CreateContribution(ctx context.Context, c *domain.Contribution) error
	ListContributions(ctx context.Context, roundID int64) ([]domain.Contribution, error)
	ListContributionsByGroup(ctx context.Context, groupID int64) ([]domain.Contribution, error)
	HasContribution(ctx context.Context, roundID, memberID int64) (bool, error)
	CountPaidByMember(ctx context.Context, groupID, memberID int64) (int32, error)
	TotalContributedByMember(ctx context.Context, groupID, memberID int64) (int64, error)
}

type MeetingRepository interface {
	// Finalize writes the meeting row and bumps every group member's
	// attendance counters in one transaction.
	Finalize(ctx context.Context, meeting *domain.Meeting) error
	CountByGroup(ctx context.Context, groupID int64) (int32, error)
	ListByGroup(ctx context.Context, groupID int64) ([]domain.Meeting, error)
}

// InstallmentPayment carries the committed state of one EMI payment.
type InstallmentPayment struct {
	LoanID          int64
	Seq             int32
	PaidAt          time.Time
	TxHash          string
	PaidAmount      int64
	RemainingAmount int64
	Status          domain.LoanStatus
	// Revision is the revision the caller read; the write is rejected with
	// domain.ErrConflict when the stored revision no longer matches.
	Revision int64
}

type LoanRepository interface {
	// Create inserts the loan and its full schedule in one transaction.
	Create(ctx context.Context, loan *domain.Loan) error
	GetByID(ctx context.Context, id int64) (*domain.Loan, error)
	ListByGroup(ctx context.Context, groupID int64) ([]domain.Loan, error)
	ListByMember(ctx context.Context, memberID int64) ([]domain.Loan, error)
	ListByStatus(ctx context.Context, groupID int64, status domain.LoanStatus) ([]domain.Loan, error)
	UpdateStatus(ctx context.Context, loanID int64, status domain.LoanStatus) error
	MarkInstallmentPaid(ctx context.Context, p InstallmentPayment) error

	// ListDueInstallments returns unpaid installments of approved loans due
	// in [from, to), joined with the owing member id.
	ListDueInstallments(ctx context.Context, from, to time.Time) ([]DueInstallment, error)
}

// DueInstallment is one unpaid schedule entry with loan/member context for
// reminder jobs.
type DueInstallment struct {
	LoanID    int64
	GroupID   int64
	MemberID  int64
	Seq       int32
	DueOn     time.Time
	EMIAmount int64
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, memberID int64, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, memberID int64) error
}

type SnapshotRepository interface {
	Create(ctx context.Context, snap *domain.TrustSnapshot) error
	ListByMember(ctx context.Context, memberID int64) ([]domain.TrustSnapshot, error)
}
