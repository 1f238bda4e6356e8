package service

import (
	"context"
	"fmt"
	"strings"

	"shg-backend/internal/domain"
	"shg-backend/internal/logger"
	"shg-backend/internal/repository"
	"shg-backend/internal/utils"
)

type memberService struct {
	memberRepo repository.MemberRepository
	groupRepo  repository.GroupRepository
	roundRepo  repository.RoundRepository
	trustSvc   TrustService
	baseCap    int64
}

func NewMemberService(
	memberRepo repository.MemberRepository,
	groupRepo repository.GroupRepository,
	roundRepo repository.RoundRepository,
	trustSvc TrustService,
	baseCap int64,
) MemberService {
	if baseCap <= 0 {
		baseCap = utils.DefaultLoanCap
	}
	return &memberService{
		memberRepo: memberRepo,
		groupRepo:  groupRepo,
		roundRepo:  roundRepo,
		trustSvc:   trustSvc,
		baseCap:    baseCap,
	}
}

func (s *memberService) CreateMember(ctx context.Context, member *domain.Member) (*domain.Member, error) {
	if strings.TrimSpace(member.Name) == "" || strings.TrimSpace(member.UID) == "" {
		return nil, fmt.Errorf("%w: name and uid are required", domain.ErrValidation)
	}
	if _, err := s.groupRepo.GetByID(ctx, member.GroupID); err != nil {
		return nil, err
	}

	if member.Role == "" {
		member.Role = domain.MemberRoleMember
	}
	member.Status = domain.MemberStatusActive

	// Seed scores: admins join at 100, regular members at 50.
	switch member.Role {
	case domain.MemberRoleAdmin:
		member.TrustScore = domain.SeedTrustScoreAdmin
	default:
		member.TrustScore = domain.SeedTrustScoreMember
	}

	if err := s.memberRepo.Create(ctx, member); err != nil {
		return nil, err
	}
	logger.Info("Member created", "member_id", member.ID, "group_id", member.GroupID, "role", member.Role)
	return member, nil
}

func (s *memberService) GetMember(ctx context.Context, memberID int64) (*domain.Member, error) {
	return s.memberRepo.GetByID(ctx, memberID)
}

func (s *memberService) GetMemberByUID(ctx context.Context, uid string) (*domain.Member, error) {
	return s.memberRepo.GetByUID(ctx, uid)
}

func (s *memberService) ListMembers(ctx context.Context, groupID int64) ([]domain.Member, error) {
	return s.memberRepo.ListByGroup(ctx, groupID)
}

// GetProfile refreshes the trust breakdown from current ledger state and
// pairs it with the member's loan eligibility.
func (s *memberService) GetProfile(ctx context.Context, memberID int64) (*domain.Member, *domain.TrustBreakdown, int64, error) {
	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		return nil, nil, 0, err
	}

	breakdown, err := s.trustSvc.Recompute(ctx, member.GroupID, memberID)
	if err != nil {
		return nil, nil, 0, err
	}
	member.TrustScore = breakdown.Total

	eligible, err := s.eligibleAmount(ctx, member, breakdown.Total)
	if err != nil {
		return nil, nil, 0, err
	}
	return member, breakdown, eligible, nil
}

func (s *memberService) GetEligibility(ctx context.Context, memberID int64) (int64, error) {
	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		return 0, err
	}
	return s.eligibleAmount(ctx, member, member.TrustScore)
}

func (s *memberService) eligibleAmount(ctx context.Context, member *domain.Member, trustScore float64) (int64, error) {
	savings, err := s.roundRepo.TotalContributedByMember(ctx, member.GroupID, member.ID)
	if err != nil {
		return 0, fmt.Errorf("total savings: %w", err)
	}
	group, err := s.groupRepo.GetByID(ctx, member.GroupID)
	if err != nil {
		return 0, err
	}
	cap := group.LoanCap
	if cap <= 0 {
		cap = s.baseCap
	}
	return utils.EligibleAmount(savings, trustScore, cap), nil
}
