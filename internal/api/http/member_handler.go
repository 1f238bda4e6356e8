package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"shg-backend/internal/domain"
	"shg-backend/internal/service"
)

type MemberHandler struct {
	members service.MemberService
}

func NewMemberHandler(members service.MemberService) *MemberHandler {
	return &MemberHandler{members: members}
}

type createMemberRequest struct {
	GroupID int64  `json:"group_id"`
	UID     string `json:"uid"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Role    string `json:"role"`
}

func (h *MemberHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createMemberRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	member, err := h.members.CreateMember(r.Context(), &domain.Member{
		GroupID: req.GroupID,
		UID:     req.UID,
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Role:    domain.MemberRole(req.Role),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, member)
}

func (h *MemberHandler) List(w http.ResponseWriter, r *http.Request) {
	groupID, err := pathID(r, "groupID")
	if err != nil {
		writeError(w, err)
		return
	}

	members, err := h.members.ListMembers(r.Context(), groupID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, members)
}

type profileResponse struct {
	Member         *domain.Member         `json:"member"`
	TrustBreakdown *domain.TrustBreakdown `json:"trust_breakdown"`
	EligibleAmount int64                  `json:"eligible_amount"`
}

func (h *MemberHandler) Profile(w http.ResponseWriter, r *http.Request) {
	memberID, err := pathID(r, "memberID")
	if err != nil {
		writeError(w, err)
		return
	}

	member, breakdown, eligible, err := h.members.GetProfile(r.Context(), memberID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{
		Member:         member,
		TrustBreakdown: breakdown,
		EligibleAmount: eligible,
	})
}

func (h *MemberHandler) Eligibility(w http.ResponseWriter, r *http.Request) {
	memberID, err := pathID(r, "memberID")
	if err != nil {
		writeError(w, err)
		return
	}

	eligible, err := h.members.GetEligibility(r.Context(), memberID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"eligible_amount": eligible})
}

// Me resolves the caller's member record from the token uid.
func (h *MemberHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	member, err := h.members.GetMemberByUID(r.Context(), claims.UID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, member)
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrValidation
	}
	return id, nil
}
