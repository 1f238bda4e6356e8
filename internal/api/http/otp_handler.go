package http

import (
	"fmt"
	"net/http"

	"shg-backend/internal/domain"
	"shg-backend/internal/service"
)

type OTPHandler struct {
	otp service.OTPService
}

func NewOTPHandler(otp service.OTPService) *OTPHandler {
	return &OTPHandler{otp: otp}
}

type requestCodeRequest struct {
	Phone string `json:"phone"`
}

func (h *OTPHandler) RequestCode(w http.ResponseWriter, r *http.Request) {
	var req requestCodeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.otp.RequestCode(r.Context(), req.Phone); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}

type verifyCodeRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

func (h *OTPHandler) VerifyCode(w http.ResponseWriter, r *http.Request) {
	var req verifyCodeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.otp.VerifyCode(r.Context(), req.Phone, req.Code); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "verified"})
}

// requireVerifiedPhone gates payment endpoints on a recent OTP verification
// of the caller's phone.
func requireVerifiedPhone(r *http.Request, otp service.OTPService, member *domain.Member) error {
	verified, err := otp.IsVerified(r.Context(), member.Phone)
	if err != nil {
		return err
	}
	if !verified {
		return fmt.Errorf("%w: phone verification required before payment", domain.ErrValidation)
	}
	return nil
}
