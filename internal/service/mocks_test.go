package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"

	"shg-backend/internal/chain"
	"shg-backend/internal/domain"
	"shg-backend/internal/repository"
)

// MockMemberRepo
type MockMemberRepo struct {
	mock.Mock
}

func (m *MockMemberRepo) Create(ctx context.Context, member *domain.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}
func (m *MockMemberRepo) GetByID(ctx context.Context, id int64) (*domain.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}
func (m *MockMemberRepo) GetByUID(ctx context.Context, uid string) (*domain.Member, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}
func (m *MockMemberRepo) ListByGroup(ctx context.Context, groupID int64) ([]domain.Member, error) {
	args := m.Called(ctx, groupID)
	return args.Get(0).([]domain.Member), args.Error(1)
}
func (m *MockMemberRepo) UpdateTrustScore(ctx context.Context, memberID int64, score float64) error {
	args := m.Called(ctx, memberID, score)
	return args.Error(0)
}
func (m *MockMemberRepo) SetActiveLoan(ctx context.Context, memberID int64, loanID *int64, status domain.MemberStatus) error {
	args := m.Called(ctx, memberID, loanID, status)
	return args.Error(0)
}

// MockGroupRepo
type MockGroupRepo struct {
	mock.Mock
}

func (m *MockGroupRepo) Create(ctx context.Context, group *domain.Group) error {
	args := m.Called(ctx, group)
	return args.Error(0)
}
func (m *MockGroupRepo) GetByID(ctx context.Context, id int64) (*domain.Group, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Group), args.Error(1)
}

// MockRoundRepo
type MockRoundRepo struct {
	mock.Mock
}

func (m *MockRoundRepo) Create(ctx context.Context, round *domain.MonthlyRound) error {
	args := m.Called(ctx, round)
	return args.Error(0)
}
func (m *MockRoundRepo) GetByID(ctx context.Context, id int64) (*domain.MonthlyRound, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MonthlyRound), args.Error(1)
}
func (m *MockRoundRepo) ListByGroup(ctx context.Context, groupID int64) ([]domain.MonthlyRound, error) {
	args := m.Called(ctx, groupID)
	return args.Get(0).([]domain.MonthlyRound), args.Error(1)
}
func (m *MockRoundRepo) CreateContribution(ctx context.Context, c *domain.Contribution) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *MockRoundRepo) ListContributions(ctx context.Context, roundID int64) ([]domain.Contribution, error) {
	args := m.Called(ctx, roundID)
	return args.Get(0).([]domain.Contribution), args.Error(1)
}
func (m *MockRoundRepo) ListContributionsByGroup(ctx context.Context, groupID int64) ([]domain.Contribution, error) {
	args := m.Called(ctx, groupID)
	return args.Get(0).([]domain.Contribution), args.Error(1)
}
func (m *MockRoundRepo) HasContribution(ctx context.Context, roundID, memberID int64) (bool, error) {
	args := m.Called(ctx, roundID, memberID)
	return args.Bool(0), args.Error(1)
}
func (m *MockRoundRepo) CountPaidByMember(ctx context.Context, groupID, memberID int64) (int32, error) {
	args := m.Called(ctx, groupID, memberID)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockRoundRepo) TotalContributedByMember(ctx context.Context, groupID, memberID int64) (int64, error) {
	args := m.Called(ctx, groupID, memberID)
	return args.Get(0).(int64), args.Error(1)
}

// MockMeetingRepo
type MockMeetingRepo struct {
	mock.Mock
}

func (m *MockMeetingRepo) Finalize(ctx context.Context, meeting *domain.Meeting) error {
	args := m.Called(ctx, meeting)
	return args.Error(0)
}
func (m *MockMeetingRepo) CountByGroup(ctx context.Context, groupID int64) (int32, error) {
	args := m.Called(ctx, groupID)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockMeetingRepo) ListByGroup(ctx context.Context, groupID int64) ([]domain.Meeting, error) {
	args := m.Called(ctx, groupID)
	return args.Get(0).([]domain.Meeting), args.Error(1)
}

// MockLoanRepo
type MockLoanRepo struct {
	mock.Mock
}

func (m *MockLoanRepo) Create(ctx context.Context, loan *domain.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}
func (m *MockLoanRepo) GetByID(ctx context.Context, id int64) (*domain.Loan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}
func (m *MockLoanRepo) ListByGroup(ctx context.Context, groupID int64) ([]domain.Loan, error) {
	args := m.Called(ctx, groupID)
	return args.Get(0).([]domain.Loan), args.Error(1)
}
func (m *MockLoanRepo) ListByMember(ctx context.Context, memberID int64) ([]domain.Loan, error) {
	args := m.Called(ctx, memberID)
	return args.Get(0).([]domain.Loan), args.Error(1)
}
func (m *MockLoanRepo) ListByStatus(ctx context.Context, groupID int64, status domain.LoanStatus) ([]domain.Loan, error) {
	args := m.Called(ctx, groupID, status)
	return args.Get(0).([]domain.Loan), args.Error(1)
}
func (m *MockLoanRepo) UpdateStatus(ctx context.Context, loanID int64, status domain.LoanStatus) error {
	args := m.Called(ctx, loanID, status)
	return args.Error(0)
}
func (m *MockLoanRepo) MarkInstallmentPaid(ctx context.Context, p repository.InstallmentPayment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockLoanRepo) ListDueInstallments(ctx context.Context, from, to time.Time) ([]repository.DueInstallment, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]repository.DueInstallment), args.Error(1)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, memberID int64, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, memberID, limit, offset)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, memberID int64) error {
	args := m.Called(ctx, id, memberID)
	return args.Error(0)
}

// MockSnapshotRepo
type MockSnapshotRepo struct {
	mock.Mock
}

func (m *MockSnapshotRepo) Create(ctx context.Context, snap *domain.TrustSnapshot) error {
	args := m.Called(ctx, snap)
	return args.Error(0)
}
func (m *MockSnapshotRepo) ListByMember(ctx context.Context, memberID int64) ([]domain.TrustSnapshot, error) {
	args := m.Called(ctx, memberID)
	return args.Get(0).([]domain.TrustSnapshot), args.Error(1)
}

// MockLedger
type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) SubmitPayment(ctx context.Context, req chain.PaymentRequest) (*chain.Confirmation, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*chain.Confirmation), args.Error(1)
}
func (m *MockLedger) ListRepayments(ctx context.Context) ([]chain.Repayment, error) {
	args := m.Called(ctx)
	return args.Get(0).([]chain.Repayment), args.Error(1)
}

// MockEmail
type MockEmail struct {
	mock.Mock
}

func (m *MockEmail) SendLoanDecision(ctx context.Context, email, name string, approved bool, amount int64) error {
	args := m.Called(ctx, email, name, approved, amount)
	return args.Error(0)
}
func (m *MockEmail) SendEmiReceipt(ctx context.Context, email, name string, amount int64, txHash string) error {
	args := m.Called(ctx, email, name, amount, txHash)
	return args.Error(0)
}
func (m *MockEmail) SendEmiReminder(ctx context.Context, email, name string, amount int64, dueOn string) error {
	args := m.Called(ctx, email, name, amount, dueOn)
	return args.Error(0)
}
func (m *MockEmail) SendOverdueNotice(ctx context.Context, email, name string, amount int64, dueOn string) error {
	args := m.Called(ctx, email, name, amount, dueOn)
	return args.Error(0)
}

// MockTrust
type MockTrust struct {
	mock.Mock
}

func (m *MockTrust) Recompute(ctx context.Context, groupID, memberID int64) (*domain.TrustBreakdown, error) {
	args := m.Called(ctx, groupID, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrustBreakdown), args.Error(1)
}
func (m *MockTrust) Snapshot(ctx context.Context, groupID, memberID int64) error {
	args := m.Called(ctx, groupID, memberID)
	return args.Error(0)
}
func (m *MockTrust) History(ctx context.Context, memberID int64) ([]domain.TrustSnapshot, error) {
	args := m.Called(ctx, memberID)
	return args.Get(0).([]domain.TrustSnapshot), args.Error(1)
}

// MockPayLocks
type MockPayLocks struct {
	mock.Mock
}

func (m *MockPayLocks) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd {
	args := m.Called(ctx, key, value, expiration)
	return redis.NewBoolResult(args.Bool(0), args.Error(1))
}
func (m *MockPayLocks) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	m.Called(ctx, keys)
	return redis.NewIntResult(1, nil)
}
