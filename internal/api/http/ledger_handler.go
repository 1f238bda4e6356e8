package http

import (
	"net/http"

	"shg-backend/internal/service"
)

type LedgerHandler struct {
	ledger service.LedgerService
}

func NewLedgerHandler(ledger service.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledger: ledger}
}

// Repayments proxies the chain ledger's repayment feed for the admin
// reconciliation screen.
func (h *LedgerHandler) Repayments(w http.ResponseWriter, r *http.Request) {
	repayments, err := h.ledger.ListRepayments(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, repayments)
}
