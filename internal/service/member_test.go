package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"shg-backend/internal/domain"
)

type memberFixture struct {
	memberRepo *MockMemberRepo
	groupRepo  *MockGroupRepo
	roundRepo  *MockRoundRepo
	trust      *MockTrust
	svc        MemberService
}

func newMemberFixture() *memberFixture {
	f := &memberFixture{
		memberRepo: new(MockMemberRepo),
		groupRepo:  new(MockGroupRepo),
		roundRepo:  new(MockRoundRepo),
		trust:      new(MockTrust),
	}
	f.svc = NewMemberService(f.memberRepo, f.groupRepo, f.roundRepo, f.trust, 90000)
	return f
}

func TestMemberService_CreateMember(t *testing.T) {
	ctx := context.Background()
	group := &domain.Group{ID: 1, Name: "Asha SHG"}

	t.Run("Member starts at the seed score", func(t *testing.T) {
		f := newMemberFixture()
		f.groupRepo.On("GetByID", ctx, int64(1)).Return(group, nil)
		f.memberRepo.On("Create", ctx, mock.AnythingOfType("*domain.Member")).Return(nil)

		member, err := f.svc.CreateMember(ctx, &domain.Member{GroupID: 1, UID: "uid-2", Name: "Meera"})
		assert.NoError(t, err)
		assert.Equal(t, domain.MemberRoleMember, member.Role)
		assert.Equal(t, domain.MemberStatusActive, member.Status)
		assert.Equal(t, domain.SeedTrustScoreMember, member.TrustScore)
	})

	t.Run("Admin starts at full trust", func(t *testing.T) {
		f := newMemberFixture()
		f.groupRepo.On("GetByID", ctx, int64(1)).Return(group, nil)
		f.memberRepo.On("Create", ctx, mock.AnythingOfType("*domain.Member")).Return(nil)

		member, err := f.svc.CreateMember(ctx, &domain.Member{
			GroupID: 1, UID: "uid-1", Name: "Asha", Role: domain.MemberRoleAdmin,
		})
		assert.NoError(t, err)
		assert.Equal(t, domain.SeedTrustScoreAdmin, member.TrustScore)
	})

	t.Run("Missing identity fields", func(t *testing.T) {
		f := newMemberFixture()
		_, err := f.svc.CreateMember(ctx, &domain.Member{GroupID: 1, Name: "  "})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("Unknown group", func(t *testing.T) {
		f := newMemberFixture()
		f.groupRepo.On("GetByID", ctx, int64(9)).Return(nil, domain.ErrNotFound)

		_, err := f.svc.CreateMember(ctx, &domain.Member{GroupID: 9, UID: "uid-2", Name: "Meera"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestMemberService_GetProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("Refreshes trust and derives eligibility", func(t *testing.T) {
		f := newMemberFixture()
		member := &domain.Member{ID: 2, GroupID: 1, TrustScore: 50}
		breakdown := &domain.TrustBreakdown{Attendance: 12, MonthlyRound: 18, Loan: 42.5, Total: 72.5}

		f.memberRepo.On("GetByID", ctx, int64(2)).Return(member, nil)
		f.trust.On("Recompute", ctx, int64(1), int64(2)).Return(breakdown, nil)
		f.roundRepo.On("TotalContributedByMember", ctx, int64(1), int64(2)).Return(int64(5000), nil)
		f.groupRepo.On("GetByID", ctx, int64(1)).Return(&domain.Group{ID: 1, LoanCap: 90000}, nil)

		got, gotBreakdown, eligible, err := f.svc.GetProfile(ctx, 2)
		assert.NoError(t, err)
		assert.Equal(t, 72.5, got.TrustScore)
		assert.Equal(t, breakdown, gotBreakdown)
		// Score in the 70-80 band gives a 2.5 multiplier on 5000 saved.
		assert.Equal(t, int64(12500), eligible)
	})

	t.Run("Eligibility uses the stored score without recompute", func(t *testing.T) {
		f := newMemberFixture()
		member := &domain.Member{ID: 2, GroupID: 1, TrustScore: 35}
		f.memberRepo.On("GetByID", ctx, int64(2)).Return(member, nil)
		f.roundRepo.On("TotalContributedByMember", ctx, int64(1), int64(2)).Return(int64(50000), nil)
		f.groupRepo.On("GetByID", ctx, int64(1)).Return(&domain.Group{ID: 1, LoanCap: 90000}, nil)

		eligible, err := f.svc.GetEligibility(ctx, 2)
		assert.NoError(t, err)
		assert.Equal(t, int64(0), eligible)
		f.trust.AssertNotCalled(t, "Recompute", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Configured base cap applies when the group has none", func(t *testing.T) {
		f := newMemberFixture()
		f.svc = NewMemberService(f.memberRepo, f.groupRepo, f.roundRepo, f.trust, 20000)
		member := &domain.Member{ID: 2, GroupID: 1, TrustScore: 95}
		f.memberRepo.On("GetByID", ctx, int64(2)).Return(member, nil)
		f.roundRepo.On("TotalContributedByMember", ctx, int64(1), int64(2)).Return(int64(100000), nil)
		f.groupRepo.On("GetByID", ctx, int64(1)).Return(&domain.Group{ID: 1}, nil)

		eligible, err := f.svc.GetEligibility(ctx, 2)
		assert.NoError(t, err)
		assert.Equal(t, int64(20000), eligible)
	})
}
