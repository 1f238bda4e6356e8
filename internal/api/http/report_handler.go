package http

import (
	"net/http"

	"shg-backend/internal/service"
)

type ReportHandler struct {
	reports service.ReportService
	trust   service.TrustService
}

func NewReportHandler(reports service.ReportService, trust service.TrustService) *ReportHandler {
	return &ReportHandler{reports: reports, trust: trust}
}

func (h *ReportHandler) FinancialSummary(w http.ResponseWriter, r *http.Request) {
	groupID, err := pathID(r, "groupID")
	if err != nil {
		writeError(w, err)
		return
	}

	summary, err := h.reports.FinancialSummary(r.Context(), groupID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *ReportHandler) MonthlyBuckets(w http.ResponseWriter, r *http.Request) {
	groupID, err := pathID(r, "groupID")
	if err != nil {
		writeError(w, err)
		return
	}

	buckets, err := h.reports.MonthlyBuckets(r.Context(), groupID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, buckets)
}

func (h *ReportHandler) MemberTrustTable(w http.ResponseWriter, r *http.Request) {
	groupID, err := pathID(r, "groupID")
	if err != nil {
		writeError(w, err)
		return
	}

	rows, err := h.reports.MemberTrustTable(r.Context(), groupID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *ReportHandler) TrustHistory(w http.ResponseWriter, r *http.Request) {
	memberID, err := pathID(r, "memberID")
	if err != nil {
		writeError(w, err)
		return
	}

	history, err := h.trust.History(r.Context(), memberID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}
