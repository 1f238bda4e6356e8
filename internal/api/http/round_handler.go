package http

import (
	"net/http"

	"shg-backend/internal/domain"
	"shg-backend/internal/service"
)

type RoundHandler struct {
	rounds  service.RoundService
	members service.MemberService
	otp     service.OTPService
}

func NewRoundHandler(rounds service.RoundService, members service.MemberService, otp service.OTPService) *RoundHandler {
	return &RoundHandler{rounds: rounds, members: members, otp: otp}
}

type createRoundRequest struct {
	GroupID   int64  `json:"group_id"`
	RoundName string `json:"round_name"`
	Amount    int64  `json:"amount"`
}

func (h *RoundHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRoundRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	round, err := h.rounds.CreateRound(r.Context(), &domain.MonthlyRound{
		GroupID:   req.GroupID,
		RoundName: req.RoundName,
		Amount:    req.Amount,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, round)
}

func (h *RoundHandler) List(w http.ResponseWriter, r *http.Request) {
	groupID, err := pathID(r, "groupID")
	if err != nil {
		writeError(w, err)
		return
	}
	caller, err := h.callerMember(r)
	if err != nil {
		writeError(w, err)
		return
	}

	rounds, err := h.rounds.ListRounds(r.Context(), groupID, caller.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rounds)
}

// Pay settles the caller's contribution for a round. The caller must have
// completed phone verification first.
func (h *RoundHandler) Pay(w http.ResponseWriter, r *http.Request) {
	roundID, err := pathID(r, "roundID")
	if err != nil {
		writeError(w, err)
		return
	}
	caller, err := h.callerMember(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := requireVerifiedPhone(r, h.otp, caller); err != nil {
		writeError(w, err)
		return
	}

	contribution, err := h.rounds.PayContribution(r.Context(), caller.ID, roundID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, contribution)
}

func (h *RoundHandler) callerMember(r *http.Request) (*domain.Member, error) {
	return h.members.GetMemberByUID(r.Context(), claimsFrom(r).UID)
}
