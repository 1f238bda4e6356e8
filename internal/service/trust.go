package service

import (
	"context"
	"fmt"

	"shg-backend/internal/domain"
	"shg-backend/internal/logger"
	"shg-backend/internal/repository"
	"shg-backend/internal/utils"
)

type trustService struct {
	memberRepo   repository.MemberRepository
	roundRepo    repository.RoundRepository
	meetingRepo  repository.MeetingRepository
	loanRepo     repository.LoanRepository
	snapshotRepo repository.SnapshotRepository
}

func NewTrustService(
	memberRepo repository.MemberRepository,
	roundRepo repository.RoundRepository,
	meetingRepo repository.MeetingRepository,
	loanRepo repository.LoanRepository,
	snapshotRepo repository.SnapshotRepository,
) TrustService {
	return &trustService{
		memberRepo:   memberRepo,
		roundRepo:    roundRepo,
		meetingRepo:  meetingRepo,
		loanRepo:     loanRepo,
		snapshotRepo: snapshotRepo,
	}
}

// compute gathers current ledger state and derives the breakdown. The score
// is always rebuilt from scratch; nothing is incrementally patched.
func (s *trustService) compute(ctx context.Context, groupID, memberID int64) (*domain.TrustBreakdown, error) {
	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}

	totalMeetings, err := s.meetingRepo.CountByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("count meetings: %w", err)
	}

	rounds, err := s.roundRepo.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("list rounds: %w", err)
	}
	paidRounds, err := s.roundRepo.CountPaidByMember(ctx, groupID, memberID)
	if err != nil {
		return nil, fmt.Errorf("count paid rounds: %w", err)
	}

	groupLoans, err := s.loanRepo.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("list group loans: %w", err)
	}

	var groupMax int64
	var memberLoans []domain.Loan
	for _, loan := range groupLoans {
		if loan.PrincipalAmount > groupMax {
			groupMax = loan.PrincipalAmount
		}
		if loan.MemberID == memberID {
			memberLoans = append(memberLoans, loan)
		}
	}

	breakdown := utils.ComputeTrust(utils.TrustInputs{
		AttendancePresent: member.AttendancePresent,
		TotalMeetings:     totalMeetings,
		PaidRounds:        paidRounds,
		TotalRounds:       int32(len(rounds)),
		MemberLoans:       memberLoans,
		GroupMaxLoan:      groupMax,
	})
	return &breakdown, nil
}

func (s *trustService) Recompute(ctx context.Context, groupID, memberID int64) (*domain.TrustBreakdown, error) {
	breakdown, err := s.compute(ctx, groupID, memberID)
	if err != nil {
		return nil, err
	}

	if err := s.memberRepo.UpdateTrustScore(ctx, memberID, breakdown.Total); err != nil {
		return nil, fmt.Errorf("persist trust score: %w", err)
	}

	logger.Debug("Trust score recomputed", "member_id", memberID,
		"attendance", breakdown.Attendance, "monthly_round", breakdown.MonthlyRound,
		"loan", breakdown.Loan, "total", breakdown.Total)
	return breakdown, nil
}

func (s *trustService) Snapshot(ctx context.Context, groupID, memberID int64) error {
	breakdown, err := s.Recompute(ctx, groupID, memberID)
	if err != nil {
		return err
	}
	return s.snapshotRepo.Create(ctx, &domain.TrustSnapshot{
		MemberID:  memberID,
		Score:     breakdown.Total,
		Breakdown: *breakdown,
	})
}

func (s *trustService) History(ctx context.Context, memberID int64) ([]domain.TrustSnapshot, error) {
	return s.snapshotRepo.ListByMember(ctx, memberID)
}
