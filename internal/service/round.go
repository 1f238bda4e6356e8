package service

import (
	"context"
	"fmt"
	"strings"

	"shg-backend/internal/chain"
	"shg-backend/internal/domain"
	"shg-backend/internal/logger"
	"shg-backend/internal/repository"
)

type roundService struct {
	roundRepo  repository.RoundRepository
	memberRepo repository.MemberRepository
	groupRepo  repository.GroupRepository
	trustSvc   TrustService
	ledger     chain.Ledger
}

func NewRoundService(
	roundRepo repository.RoundRepository,
	memberRepo repository.MemberRepository,
	groupRepo repository.GroupRepository,
	trustSvc TrustService,
	ledger chain.Ledger,
) RoundService {
	return &roundService{
		roundRepo:  roundRepo,
		memberRepo: memberRepo,
		groupRepo:  groupRepo,
		trustSvc:   trustSvc,
		ledger:     ledger,
	}
}

func (s *roundService) CreateRound(ctx context.Context, round *domain.MonthlyRound) (*domain.MonthlyRound, error) {
	if strings.TrimSpace(round.RoundName) == "" {
		return nil, fmt.Errorf("%w: round name is required", domain.ErrValidation)
	}
	if round.Amount <= 0 {
		return nil, fmt.Errorf("%w: round amount must be positive", domain.ErrValidation)
	}
	if _, err := s.groupRepo.GetByID(ctx, round.GroupID); err != nil {
		return nil, err
	}

	if err := s.roundRepo.Create(ctx, round); err != nil {
		return nil, err
	}
	logger.Info("Monthly round created", "round_id", round.ID, "group_id", round.GroupID, "amount", round.Amount)
	return round, nil
}

func (s *roundService) ListRounds(ctx context.Context, groupID, memberID int64) ([]RoundWithState, error) {
	rounds, err := s.roundRepo.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	out := make([]RoundWithState, 0, len(rounds))
	for _, round := range rounds {
		paid, err := s.roundRepo.HasContribution(ctx, round.ID, memberID)
		if err != nil {
			return nil, err
		}
		out = append(out, RoundWithState{MonthlyRound: round, Paid: paid})
	}
	return out, nil
}

// PayContribution settles one member's contribution for a round. The amount
// is fixed by the round; the ledger confirms before anything is written, and
// the unique (round, member) constraint keeps a late duplicate out.
func (s *roundService) PayContribution(ctx context.Context, memberID, roundID int64) (*domain.Contribution, error) {
	round, err := s.roundRepo.GetByID(ctx, roundID)
	if err != nil {
		return nil, err
	}
	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if member.GroupID != round.GroupID {
		return nil, fmt.Errorf("%w: round %d", domain.ErrNotFound, roundID)
	}

	paid, err := s.roundRepo.HasContribution(ctx, roundID, memberID)
	if err != nil {
		return nil, err
	}
	if paid {
		return nil, fmt.Errorf("%w: contribution for round %d already recorded", domain.ErrAlreadySettled, roundID)
	}

	confirmation, err := s.ledger.SubmitPayment(ctx, chain.PaymentRequest{
		Kind:      chain.PaymentKindContribution,
		PayerUID:  member.UID,
		Reference: fmt.Sprintf("round:%d", roundID),
		Amount:    round.Amount,
	})
	if err != nil {
		return nil, err
	}

	contribution := &domain.Contribution{
		RoundID:    roundID,
		MemberID:   memberID,
		AmountPaid: round.Amount,
		TxHash:     confirmation.TxHash,
		PaidAt:     confirmation.ConfirmedAt,
	}
	if err := s.roundRepo.CreateContribution(ctx, contribution); err != nil {
		return nil, err
	}

	if _, err := s.trustSvc.Recompute(ctx, round.GroupID, memberID); err != nil {
		logger.Error("Trust recompute after contribution failed", "member_id", memberID, "error", err)
	}

	logger.Info("Contribution recorded", "round_id", roundID, "member_id", memberID, "tx_hash", confirmation.TxHash)
	return contribution, nil
}
