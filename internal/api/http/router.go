package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"shg-backend/internal/security"
	"shg-backend/internal/service"
)

// RouterDeps carries everything the API surface needs.
type RouterDeps struct {
	Tokens        security.TokenManager
	Members       service.MemberService
	Rounds        service.RoundService
	Meetings      service.MeetingService
	Loans         service.LoanService
	Reports       service.ReportService
	Trust         service.TrustService
	Ledger        service.LedgerService
	Notifications service.NotificationService
	OTP           service.OTPService
}

// NewRouter wires the full /api/v1 surface. OTP endpoints are the only
// unauthenticated ones; everything else requires a portal token, and admin
// endpoints additionally require the ADMIN role.
func NewRouter(deps RouterDeps) *mux.Router {
	memberHandler := NewMemberHandler(deps.Members)
	roundHandler := NewRoundHandler(deps.Rounds, deps.Members, deps.OTP)
	meetingHandler := NewMeetingHandler(deps.Meetings)
	loanHandler := NewLoanHandler(deps.Loans, deps.Members, deps.OTP)
	reportHandler := NewReportHandler(deps.Reports, deps.Trust)
	ledgerHandler := NewLedgerHandler(deps.Ledger)
	notificationHandler := NewNotificationHandler(deps.Notifications, deps.Members)
	otpHandler := NewOTPHandler(deps.OTP)

	router := mux.NewRouter()
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/otp/request", otpHandler.RequestCode).Methods(http.MethodPost)
	api.HandleFunc("/otp/verify", otpHandler.VerifyCode).Methods(http.MethodPost)

	authed := api.NewRoute().Subrouter()
	authed.Use(AuthMiddleware(deps.Tokens))

	authed.HandleFunc("/me", memberHandler.Me).Methods(http.MethodGet)

	authed.HandleFunc("/groups/{groupID}/members", requireAdmin(memberHandler.Create)).Methods(http.MethodPost)
	authed.HandleFunc("/groups/{groupID}/members", memberHandler.List).Methods(http.MethodGet)
	authed.HandleFunc("/groups/{groupID}/members/{memberID}", memberHandler.Profile).Methods(http.MethodGet)
	authed.HandleFunc("/groups/{groupID}/members/{memberID}/eligibility", memberHandler.Eligibility).Methods(http.MethodGet)
	authed.HandleFunc("/groups/{groupID}/members/{memberID}/trust-history", reportHandler.TrustHistory).Methods(http.MethodGet)

	authed.HandleFunc("/groups/{groupID}/rounds", requireAdmin(roundHandler.Create)).Methods(http.MethodPost)
	authed.HandleFunc("/groups/{groupID}/rounds", roundHandler.List).Methods(http.MethodGet)
	authed.HandleFunc("/groups/{groupID}/rounds/{roundID}/pay", roundHandler.Pay).Methods(http.MethodPost)

	authed.HandleFunc("/groups/{groupID}/meetings", requireAdmin(meetingHandler.Finalize)).Methods(http.MethodPost)
	authed.HandleFunc("/groups/{groupID}/meetings", meetingHandler.List).Methods(http.MethodGet)

	authed.HandleFunc("/groups/{groupID}/loans", loanHandler.Apply).Methods(http.MethodPost)
	authed.HandleFunc("/groups/{groupID}/loans", loanHandler.List).Methods(http.MethodGet)
	authed.HandleFunc("/groups/{groupID}/loans/pending", requireAdmin(loanHandler.ListPending)).Methods(http.MethodGet)
	authed.HandleFunc("/groups/{groupID}/loans/{loanID}", loanHandler.Get).Methods(http.MethodGet)
	authed.HandleFunc("/groups/{groupID}/loans/{loanID}/approve", requireAdmin(loanHandler.Approve)).Methods(http.MethodPost)
	authed.HandleFunc("/groups/{groupID}/loans/{loanID}/reject", requireAdmin(loanHandler.Reject)).Methods(http.MethodPost)
	authed.HandleFunc("/groups/{groupID}/loans/{loanID}/pay-emi", loanHandler.PayEMI).Methods(http.MethodPost)

	authed.HandleFunc("/groups/{groupID}/ledger", requireAdmin(ledgerHandler.Repayments)).Methods(http.MethodGet)
	authed.HandleFunc("/groups/{groupID}/reports/financial", requireAdmin(reportHandler.FinancialSummary)).Methods(http.MethodGet)
	authed.HandleFunc("/groups/{groupID}/reports/monthly", requireAdmin(reportHandler.MonthlyBuckets)).Methods(http.MethodGet)
	authed.HandleFunc("/groups/{groupID}/reports/trust", requireAdmin(reportHandler.MemberTrustTable)).Methods(http.MethodGet)

	authed.HandleFunc("/notifications", notificationHandler.List).Methods(http.MethodGet)
	authed.HandleFunc("/notifications/{notificationID}/read", notificationHandler.MarkAsRead).Methods(http.MethodPost)

	return router
}
