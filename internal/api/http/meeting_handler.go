package http

import (
	"fmt"
	"net/http"
	"time"

	"shg-backend/internal/domain"
	"shg-backend/internal/service"
)

type MeetingHandler struct {
	meetings service.MeetingService
}

func NewMeetingHandler(meetings service.MeetingService) *MeetingHandler {
	return &MeetingHandler{meetings: meetings}
}

type finalizeMeetingRequest struct {
	GroupID          int64   `json:"group_id"`
	HeldOn           string  `json:"held_on"` // yyyy-mm-dd, defaults to today
	Notes            string  `json:"notes"`
	PresentMemberIDs []int64 `json:"present_member_ids"`
}

func (h *MeetingHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	var req finalizeMeetingRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	heldOn := time.Now().UTC()
	if req.HeldOn != "" {
		parsed, err := time.Parse("2006-01-02", req.HeldOn)
		if err != nil {
			writeError(w, fmt.Errorf("%w: held_on must be yyyy-mm-dd", domain.ErrValidation))
			return
		}
		heldOn = parsed
	}

	meeting := &domain.Meeting{
		GroupID:          req.GroupID,
		HeldOn:           heldOn,
		Notes:            req.Notes,
		PresentMemberIDs: req.PresentMemberIDs,
	}
	if err := h.meetings.FinalizeMeeting(r.Context(), meeting); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, meeting)
}

func (h *MeetingHandler) List(w http.ResponseWriter, r *http.Request) {
	groupID, err := pathID(r, "groupID")
	if err != nil {
		writeError(w, err)
		return
	}

	meetings, err := h.meetings.ListMeetings(r.Context(), groupID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, meetings)
}
