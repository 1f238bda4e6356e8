package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"shg-backend/internal/domain"
)

func TestMeetingService_FinalizeMeeting(t *testing.T) {
	ctx := context.Background()
	members := []domain.Member{
		{ID: 1, GroupID: 1}, {ID: 2, GroupID: 1}, {ID: 3, GroupID: 1},
	}
	heldOn := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	t.Run("Finalizes and recomputes every member", func(t *testing.T) {
		meetingRepo := new(MockMeetingRepo)
		memberRepo := new(MockMemberRepo)
		trust := new(MockTrust)
		svc := NewMeetingService(meetingRepo, memberRepo, trust)

		memberRepo.On("ListByGroup", ctx, int64(1)).Return(members, nil)
		meetingRepo.On("Finalize", ctx, mock.AnythingOfType("*domain.Meeting")).Return(nil)
		for _, m := range members {
			trust.On("Recompute", ctx, int64(1), m.ID).Return(&domain.TrustBreakdown{}, nil)
		}

		err := svc.FinalizeMeeting(ctx, &domain.Meeting{
			GroupID:          1,
			HeldOn:           heldOn,
			PresentMemberIDs: []int64{1, 3},
		})
		assert.NoError(t, err)
		trust.AssertNumberOfCalls(t, "Recompute", 3)
	})

	t.Run("Rejects attendee outside the group", func(t *testing.T) {
		meetingRepo := new(MockMeetingRepo)
		memberRepo := new(MockMemberRepo)
		trust := new(MockTrust)
		svc := NewMeetingService(meetingRepo, memberRepo, trust)

		memberRepo.On("ListByGroup", ctx, int64(1)).Return(members, nil)

		err := svc.FinalizeMeeting(ctx, &domain.Meeting{
			GroupID:          1,
			HeldOn:           heldOn,
			PresentMemberIDs: []int64{1, 99},
		})
		assert.ErrorIs(t, err, domain.ErrValidation)
		meetingRepo.AssertNotCalled(t, "Finalize", mock.Anything, mock.Anything)
	})

	t.Run("Empty group", func(t *testing.T) {
		meetingRepo := new(MockMeetingRepo)
		memberRepo := new(MockMemberRepo)
		trust := new(MockTrust)
		svc := NewMeetingService(meetingRepo, memberRepo, trust)

		memberRepo.On("ListByGroup", ctx, int64(1)).Return([]domain.Member{}, nil)

		err := svc.FinalizeMeeting(ctx, &domain.Meeting{GroupID: 1, HeldOn: heldOn})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
