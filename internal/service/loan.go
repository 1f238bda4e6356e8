package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"shg-backend/internal/chain"
	"shg-backend/internal/domain"
	"shg-backend/internal/logger"
	"shg-backend/internal/repository"
	"shg-backend/internal/utils"
)

// PayLocks is the subset of redis commands used to serialize payment
// attempts per loan.
type PayLocks interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type loanService struct {
	loanRepo   repository.LoanRepository
	memberRepo repository.MemberRepository
	groupRepo  repository.GroupRepository
	roundRepo  repository.RoundRepository
	noteRepo   repository.NotificationRepository
	trustSvc   TrustService
	emailSvc   EmailService
	ledger     chain.Ledger
	locks      PayLocks
	lockTTL    time.Duration
	baseCap    int64
}

func NewLoanService(
	loanRepo repository.LoanRepository,
	memberRepo repository.MemberRepository,
	groupRepo repository.GroupRepository,
	roundRepo repository.RoundRepository,
	noteRepo repository.NotificationRepository,
	trustSvc TrustService,
	emailSvc EmailService,
	ledger chain.Ledger,
	locks PayLocks,
	lockTTL time.Duration,
	baseCap int64,
) LoanService {
	if lockTTL <= 0 {
		lockTTL = 60 * time.Second
	}
	if baseCap <= 0 {
		baseCap = utils.DefaultLoanCap
	}
	return &loanService{
		loanRepo:   loanRepo,
		memberRepo: memberRepo,
		groupRepo:  groupRepo,
		roundRepo:  roundRepo,
		noteRepo:   noteRepo,
		trustSvc:   trustSvc,
		emailSvc:   emailSvc,
		ledger:     ledger,
		locks:      locks,
		lockTTL:    lockTTL,
		baseCap:    baseCap,
	}
}

// Apply validates a loan application, enforces the eligibility ceiling
// server-side and creates the loan with its full schedule in PENDING state.
func (s *loanService) Apply(ctx context.Context, loan *domain.Loan) (*domain.Loan, error) {
	if loan.PrincipalAmount <= 0 {
		return nil, fmt.Errorf("%w: principal amount must be positive", domain.ErrValidation)
	}
	if loan.TenureMonths <= 0 {
		return nil, fmt.Errorf("%w: tenure must be positive", domain.ErrValidation)
	}
	if loan.InterestRate < 0 {
		return nil, fmt.Errorf("%w: interest rate must not be negative", domain.ErrValidation)
	}
	if strings.TrimSpace(loan.Purpose) == "" {
		return nil, fmt.Errorf("%w: purpose is required", domain.ErrValidation)
	}

	member, err := s.memberRepo.GetByID(ctx, loan.MemberID)
	if err != nil {
		return nil, err
	}
	if member.GroupID != loan.GroupID {
		return nil, fmt.Errorf("%w: member %d", domain.ErrNotFound, loan.MemberID)
	}

	group, err := s.groupRepo.GetByID(ctx, loan.GroupID)
	if err != nil {
		return nil, err
	}
	savings, err := s.roundRepo.TotalContributedByMember(ctx, loan.GroupID, loan.MemberID)
	if err != nil {
		return nil, fmt.Errorf("total savings: %w", err)
	}

	// Eligibility is a hard server-side cap, not advisory.
	cap := group.LoanCap
	if cap <= 0 {
		cap = s.baseCap
	}
	eligible := utils.EligibleAmount(savings, member.TrustScore, cap)
	if loan.PrincipalAmount > eligible {
		return nil, fmt.Errorf("%w: requested %d exceeds eligible amount %d",
			domain.ErrValidation, loan.PrincipalAmount, eligible)
	}

	loan.EMIAmount = utils.ComputeEMI(loan.PrincipalAmount, loan.InterestRate, loan.TenureMonths)
	loan.TotalPayable = loan.EMIAmount * int64(loan.TenureMonths)
	loan.PaidAmount = 0
	loan.RemainingAmount = loan.TotalPayable
	loan.Status = domain.LoanStatusPending
	loan.Schedule = utils.BuildSchedule(time.Now().UTC(), loan.TenureMonths)

	if err := s.loanRepo.Create(ctx, loan); err != nil {
		return nil, err
	}

	logger.Info("Loan application created", "loan_id", loan.ID, "member_id", loan.MemberID,
		"principal", loan.PrincipalAmount, "emi", loan.EMIAmount)
	return loan, nil
}

func (s *loanService) Approve(ctx context.Context, loanID int64) (*domain.Loan, error) {
	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if loan.Status != domain.LoanStatusPending {
		return nil, fmt.Errorf("%w: loan is not pending", domain.ErrValidation)
	}

	if err := s.loanRepo.UpdateStatus(ctx, loanID, domain.LoanStatusApproved); err != nil {
		return nil, err
	}
	if err := s.memberRepo.SetActiveLoan(ctx, loan.MemberID, &loan.ID, domain.MemberStatusUnderLoan); err != nil {
		return nil, err
	}

	s.notifyDecision(ctx, loan, true)
	return s.loanRepo.GetByID(ctx, loanID)
}

func (s *loanService) Reject(ctx context.Context, loanID int64) (*domain.Loan, error) {
	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if loan.Status != domain.LoanStatusPending {
		return nil, fmt.Errorf("%w: loan is not pending", domain.ErrValidation)
	}

	if err := s.loanRepo.UpdateStatus(ctx, loanID, domain.LoanStatusRejected); err != nil {
		return nil, err
	}

	s.notifyDecision(ctx, loan, false)
	return s.loanRepo.GetByID(ctx, loanID)
}

// PayEMI advances the loan's due-date schedule by one confirmed payment.
// Ordering is confirm-then-commit: nothing is written locally until the
// chain ledger has returned a confirmation handle. Payment attempts against
// the same loan are serialized by a redis lock; the revision guard in the
// repository catches writers that slipped past it.
func (s *loanService) PayEMI(ctx context.Context, memberID, loanID int64) (*domain.Loan, error) {
	lockKey := fmt.Sprintf("emi:pay:%d", loanID)
	token := uuid.NewString()
	acquired, err := s.locks.SetNX(ctx, lockKey, token, s.lockTTL).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire pay lock: %w", err)
	}
	if !acquired {
		return nil, fmt.Errorf("%w: a payment is already in progress for loan %d", domain.ErrConflict, loanID)
	}
	defer s.locks.Del(context.WithoutCancel(ctx), lockKey)

	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if loan.MemberID != memberID {
		return nil, fmt.Errorf("%w: loan %d", domain.ErrNotFound, loanID)
	}
	if loan.Status == domain.LoanStatusCompleted || loan.NextUnpaid() == -1 {
		return nil, fmt.Errorf("%w: loan %d is fully paid", domain.ErrAlreadySettled, loanID)
	}
	if loan.Status != domain.LoanStatusApproved {
		return nil, fmt.Errorf("%w: loan is not active", domain.ErrValidation)
	}

	confirmation, err := s.ledger.SubmitPayment(ctx, chain.PaymentRequest{
		Kind:      chain.PaymentKindEMI,
		PayerUID:  member.UID,
		Reference: fmt.Sprintf("loan:%d", loanID),
		Amount:    loan.EMIAmount,
	})
	if err != nil {
		// Confirmation failed or the signer walked away: no local mutation.
		return nil, err
	}

	err = s.commitPayment(ctx, loan, confirmation)
	if errors.Is(err, domain.ErrConflict) {
		// The schedule moved under us; retry once against fresh state so the
		// confirmed payment is not lost.
		logger.Warn("EMI commit conflicted, retrying against fresh state", "loan_id", loanID)
		loan, err = s.loanRepo.GetByID(ctx, loanID)
		if err != nil {
			return nil, err
		}
		err = s.commitPayment(ctx, loan, confirmation)
	}
	if err != nil {
		return nil, err
	}

	// Cascading effects: trust recompute is required, receipt delivery is
	// best effort.
	if _, err := s.trustSvc.Recompute(ctx, loan.GroupID, memberID); err != nil {
		logger.Error("Trust recompute after EMI payment failed", "member_id", memberID, "error", err)
	}
	s.sendReceipt(ctx, member, loan, confirmation.TxHash)

	return s.loanRepo.GetByID(ctx, loanID)
}

// commitPayment applies one confirmed payment to the next unpaid installment.
func (s *loanService) commitPayment(ctx context.Context, loan *domain.Loan, confirmation *chain.Confirmation) error {
	idx := loan.NextUnpaid()
	if idx == -1 {
		return fmt.Errorf("%w: loan %d is fully paid", domain.ErrAlreadySettled, loan.ID)
	}

	paidAmount := loan.PaidAmount + loan.EMIAmount
	remaining := loan.RemainingAmount - loan.EMIAmount
	if remaining < 0 {
		remaining = 0
	}

	status := domain.LoanStatusApproved
	unpaid := 0
	for i := range loan.Schedule {
		if !loan.Schedule[i].Paid {
			unpaid++
		}
	}
	if unpaid == 1 {
		status = domain.LoanStatusCompleted
	}

	return s.loanRepo.MarkInstallmentPaid(ctx, repository.InstallmentPayment{
		LoanID:          loan.ID,
		Seq:             loan.Schedule[idx].Seq,
		PaidAt:          confirmation.ConfirmedAt,
		TxHash:          confirmation.TxHash,
		PaidAmount:      paidAmount,
		RemainingAmount: remaining,
		Status:          status,
		Revision:        loan.Revision,
	})
}

func (s *loanService) GetLoan(ctx context.Context, loanID int64) (*domain.Loan, error) {
	return s.loanRepo.GetByID(ctx, loanID)
}

func (s *loanService) ListMemberLoans(ctx context.Context, memberID int64) ([]domain.Loan, error) {
	return s.loanRepo.ListByMember(ctx, memberID)
}

func (s *loanService) ListGroupLoans(ctx context.Context, groupID int64) ([]domain.Loan, error) {
	return s.loanRepo.ListByGroup(ctx, groupID)
}

func (s *loanService) ListPending(ctx context.Context, groupID int64) ([]domain.Loan, error) {
	return s.loanRepo.ListByStatus(ctx, groupID, domain.LoanStatusPending)
}

func (s *loanService) notifyDecision(ctx context.Context, loan *domain.Loan, approved bool) {
	member, err := s.memberRepo.GetByID(ctx, loan.MemberID)
	if err != nil {
		logger.Error("Failed to load member for loan decision notification", "member_id", loan.MemberID, "error", err)
		return
	}

	title := "Loan Rejected"
	message := fmt.Sprintf("Your loan application for %d was rejected.", loan.PrincipalAmount)
	if approved {
		title = "Loan Approved"
		message = fmt.Sprintf("Your loan of %d was approved. EMI: %d per month.", loan.PrincipalAmount, loan.EMIAmount)
	}
	note := &domain.Notification{
		MemberID: member.ID,
		GroupID:  loan.GroupID,
		Title:    title,
		Message:  message,
		Attributes: map[string]string{
			"type":    "LOAN_DECISION",
			"loan_id": fmt.Sprintf("%d", loan.ID),
		},
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		logger.Error("Failed to create loan decision notification", "loan_id", loan.ID, "error", err)
	}
	if err := s.emailSvc.SendLoanDecision(ctx, member.Email, member.Name, approved, loan.PrincipalAmount); err != nil {
		logger.Error("Failed to send loan decision email", "loan_id", loan.ID, "error", err)
	}
}

func (s *loanService) sendReceipt(ctx context.Context, member *domain.Member, loan *domain.Loan, txHash string) {
	note := &domain.Notification{
		MemberID: member.ID,
		GroupID:  loan.GroupID,
		Title:    "EMI Payment Received",
		Message:  fmt.Sprintf("Your EMI payment of %d was recorded on the ledger.", loan.EMIAmount),
		Attributes: map[string]string{
			"type":    "EMI_RECEIPT",
			"loan_id": fmt.Sprintf("%d", loan.ID),
			"tx_hash": txHash,
		},
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		logger.Error("Failed to create EMI receipt notification", "loan_id", loan.ID, "error", err)
	}
	if err := s.emailSvc.SendEmiReceipt(ctx, member.Email, member.Name, loan.EMIAmount, txHash); err != nil {
		logger.Error("Failed to send EMI receipt email", "loan_id", loan.ID, "error", err)
	}
}
