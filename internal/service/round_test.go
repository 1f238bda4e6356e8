package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"shg-backend/internal/chain"
	"shg-backend/internal/domain"
)

type roundFixture struct {
	roundRepo  *MockRoundRepo
	memberRepo *MockMemberRepo
	groupRepo  *MockGroupRepo
	trust      *MockTrust
	ledger     *MockLedger
	svc        RoundService
}

func newRoundFixture() *roundFixture {
	f := &roundFixture{
		roundRepo:  new(MockRoundRepo),
		memberRepo: new(MockMemberRepo),
		groupRepo:  new(MockGroupRepo),
		trust:      new(MockTrust),
		ledger:     new(MockLedger),
	}
	f.svc = NewRoundService(f.roundRepo, f.memberRepo, f.groupRepo, f.trust, f.ledger)
	return f
}

func TestRoundService_CreateRound(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newRoundFixture()
		f.groupRepo.On("GetByID", ctx, int64(1)).Return(&domain.Group{ID: 1}, nil)
		f.roundRepo.On("Create", ctx, mock.AnythingOfType("*domain.MonthlyRound")).Return(nil)

		round, err := f.svc.CreateRound(ctx, &domain.MonthlyRound{
			GroupID:   1,
			RoundName: "March 2026",
			Amount:    500,
		})
		assert.NoError(t, err)
		assert.Equal(t, "March 2026", round.RoundName)
	})

	t.Run("Non-positive amount", func(t *testing.T) {
		f := newRoundFixture()
		_, err := f.svc.CreateRound(ctx, &domain.MonthlyRound{GroupID: 1, RoundName: "March", Amount: 0})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestRoundService_PayContribution(t *testing.T) {
	ctx := context.Background()
	round := &domain.MonthlyRound{ID: 4, GroupID: 1, RoundName: "March 2026", Amount: 500}
	member := &domain.Member{ID: 2, GroupID: 1, UID: "uid-2"}
	confirmation := &chain.Confirmation{TxHash: "0xdef", ConfirmedAt: time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)}

	t.Run("Confirms on chain before writing", func(t *testing.T) {
		f := newRoundFixture()
		f.roundRepo.On("GetByID", ctx, int64(4)).Return(round, nil)
		f.memberRepo.On("GetByID", ctx, int64(2)).Return(member, nil)
		f.roundRepo.On("HasContribution", ctx, int64(4), int64(2)).Return(false, nil)
		f.ledger.On("SubmitPayment", ctx, chain.PaymentRequest{
			Kind:      chain.PaymentKindContribution,
			PayerUID:  "uid-2",
			Reference: "round:4",
			Amount:    500,
		}).Return(confirmation, nil)
		f.roundRepo.On("CreateContribution", ctx, mock.MatchedBy(func(c *domain.Contribution) bool {
			return c.RoundID == 4 && c.MemberID == 2 && c.AmountPaid == 500 && c.TxHash == "0xdef"
		})).Return(nil)
		f.trust.On("Recompute", ctx, int64(1), int64(2)).Return(&domain.TrustBreakdown{}, nil)

		contribution, err := f.svc.PayContribution(ctx, 2, 4)
		assert.NoError(t, err)
		assert.Equal(t, "0xdef", contribution.TxHash)
		f.roundRepo.AssertExpectations(t)
	})

	t.Run("Duplicate contribution is rejected before the ledger", func(t *testing.T) {
		f := newRoundFixture()
		f.roundRepo.On("GetByID", ctx, int64(4)).Return(round, nil)
		f.memberRepo.On("GetByID", ctx, int64(2)).Return(member, nil)
		f.roundRepo.On("HasContribution", ctx, int64(4), int64(2)).Return(true, nil)

		_, err := f.svc.PayContribution(ctx, 2, 4)
		assert.ErrorIs(t, err, domain.ErrAlreadySettled)
		f.ledger.AssertNotCalled(t, "SubmitPayment", mock.Anything, mock.Anything)
	})

	t.Run("Ledger failure leaves no record", func(t *testing.T) {
		f := newRoundFixture()
		f.roundRepo.On("GetByID", ctx, int64(4)).Return(round, nil)
		f.memberRepo.On("GetByID", ctx, int64(2)).Return(member, nil)
		f.roundRepo.On("HasContribution", ctx, int64(4), int64(2)).Return(false, nil)
		f.ledger.On("SubmitPayment", ctx, mock.AnythingOfType("chain.PaymentRequest")).
			Return(nil, fmt.Errorf("%w: signer rejected", domain.ErrLedgerConfirmation))

		_, err := f.svc.PayContribution(ctx, 2, 4)
		assert.ErrorIs(t, err, domain.ErrLedgerConfirmation)
		f.roundRepo.AssertNotCalled(t, "CreateContribution", mock.Anything, mock.Anything)
		f.trust.AssertNotCalled(t, "Recompute", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Member outside the round's group", func(t *testing.T) {
		f := newRoundFixture()
		outsider := &domain.Member{ID: 3, GroupID: 2, UID: "uid-3"}
		f.roundRepo.On("GetByID", ctx, int64(4)).Return(round, nil)
		f.memberRepo.On("GetByID", ctx, int64(3)).Return(outsider, nil)

		_, err := f.svc.PayContribution(ctx, 3, 4)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestRoundService_ListRounds(t *testing.T) {
	ctx := context.Background()

	t.Run("Annotates paid state per round", func(t *testing.T) {
		f := newRoundFixture()
		rounds := []domain.MonthlyRound{{ID: 1, GroupID: 1}, {ID: 2, GroupID: 1}}
		f.roundRepo.On("ListByGroup", ctx, int64(1)).Return(rounds, nil)
		f.roundRepo.On("HasContribution", ctx, int64(1), int64(2)).Return(true, nil)
		f.roundRepo.On("HasContribution", ctx, int64(2), int64(2)).Return(false, nil)

		out, err := f.svc.ListRounds(ctx, 1, 2)
		assert.NoError(t, err)
		assert.Len(t, out, 2)
		assert.True(t, out[0].Paid)
		assert.False(t, out[1].Paid)
	})
}
