package http

import (
	"net/http"

	"shg-backend/internal/domain"
	"shg-backend/internal/service"
)

type LoanHandler struct {
	loans   service.LoanService
	members service.MemberService
	otp     service.OTPService
}

func NewLoanHandler(loans service.LoanService, members service.MemberService, otp service.OTPService) *LoanHandler {
	return &LoanHandler{loans: loans, members: members, otp: otp}
}

type applyLoanRequest struct {
	PrincipalAmount int64   `json:"principal_amount"`
	InterestRate    float64 `json:"interest_rate"`
	TenureMonths    int32   `json:"tenure_months"`
	Purpose         string  `json:"purpose"`
}

func (h *LoanHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var req applyLoanRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	caller, err := h.callerMember(r)
	if err != nil {
		writeError(w, err)
		return
	}

	loan, err := h.loans.Apply(r.Context(), &domain.Loan{
		GroupID:         caller.GroupID,
		MemberID:        caller.ID,
		PrincipalAmount: req.PrincipalAmount,
		InterestRate:    req.InterestRate,
		TenureMonths:    req.TenureMonths,
		Purpose:         req.Purpose,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, loan)
}

func (h *LoanHandler) Approve(w http.ResponseWriter, r *http.Request) {
	loanID, err := pathID(r, "loanID")
	if err != nil {
		writeError(w, err)
		return
	}

	loan, err := h.loans.Approve(r.Context(), loanID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loan)
}

func (h *LoanHandler) Reject(w http.ResponseWriter, r *http.Request) {
	loanID, err := pathID(r, "loanID")
	if err != nil {
		writeError(w, err)
		return
	}

	loan, err := h.loans.Reject(r.Context(), loanID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loan)
}

// PayEMI settles the caller's next due installment. Phone verification is
// required like every other payment action.
func (h *LoanHandler) PayEMI(w http.ResponseWriter, r *http.Request) {
	loanID, err := pathID(r, "loanID")
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

	loan, err := h.loans.PayEMI(r.Context(), caller.ID, loanID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loan)
}

func (h *LoanHandler) Get(w http.ResponseWriter, r *http.Request) {
	loanID, err := pathID(r, "loanID")
	if err != nil {
		writeError(w, err)
		return
	}

	loan, err := h.loans.GetLoan(r.Context(), loanID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loan)
}

// List returns the group's whole loan book to admins and only the caller's
// own loans to members.
func (h *LoanHandler) List(w http.ResponseWriter, r *http.Request) {
	if claimsFrom(r).Role == string(domain.MemberRoleAdmin) {
		h.ListGroup(w, r)
		return
	}
	h.ListMine(w, r)
}

func (h *LoanHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	caller, err := h.callerMember(r)
	if err != nil {
		writeError(w, err)
		return
	}

	loans, err := h.loans.ListMemberLoans(r.Context(), caller.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loans)
}

func (h *LoanHandler) ListGroup(w http.ResponseWriter, r *http.Request) {
	groupID, err := pathID(r, "groupID")
	if err != nil {
		writeError(w, err)
		return
	}

	loans, err := h.loans.ListGroupLoans(r.Context(), groupID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loans)
}

func (h *LoanHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	groupID, err := pathID(r, "groupID")
	if err != nil {
		writeError(w, err)
		return
	}

	loans, err := h.loans.ListPending(r.Context(), groupID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loans)
}

func (h *LoanHandler) callerMember(r *http.Request) (*domain.Member, error) {
	return h.members.GetMemberByUID(r.Context(), claimsFrom(r).UID)
}
