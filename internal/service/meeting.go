package service

import (
	"context"
	"fmt"

	"shg-backend/internal/domain"
	"shg-backend/internal/logger"
	"shg-backend/internal/repository"
)

type meetingService struct {
	meetingRepo repository.MeetingRepository
	memberRepo  repository.MemberRepository
	trustSvc    TrustService
}

func NewMeetingService(
	meetingRepo repository.MeetingRepository,
	memberRepo repository.MemberRepository,
	trustSvc TrustService,
) MeetingService {
	return &meetingService{
		meetingRepo: meetingRepo,
		memberRepo:  memberRepo,
		trustSvc:    trustSvc,
	}
}

func (s *meetingService) FinalizeMeeting(ctx context.Context, meeting *domain.Meeting) error {
	members, err := s.memberRepo.ListByGroup(ctx, meeting.GroupID)
	if err != nil {
		return err
	}
	if len(members) == 0 {
		return fmt.Errorf("%w: group %d has no members", domain.ErrNotFound, meeting.GroupID)
	}

	known := make(map[int64]bool, len(members))
	for _, m := range members {
		known[m.ID] = true
	}
	for _, id := range meeting.PresentMemberIDs {
		if !known[id] {
			return fmt.Errorf("%w: member %d is not in group %d", domain.ErrValidation, id, meeting.GroupID)
		}
	}

	if err := s.meetingRepo.Finalize(ctx, meeting); err != nil {
		return err
	}
	logger.Info("Meeting finalized", "meeting_id", meeting.ID, "group_id", meeting.GroupID,
		"present", len(meeting.PresentMemberIDs), "total", len(members))

	// Attendance counters moved for every member, so every score moves.
	for _, m := range members {
		if _, err := s.trustSvc.Recompute(ctx, meeting.GroupID, m.ID); err != nil {
			logger.Error("Trust recompute after meeting failed", "member_id", m.ID, "error", err)
		}
	}
	return nil
}

func (s *meetingService) ListMeetings(ctx context.Context, groupID int64) ([]domain.Meeting, error) {
	return s.meetingRepo.ListByGroup(ctx, groupID)
}
