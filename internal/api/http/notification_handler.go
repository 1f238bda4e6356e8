package http

import (
	"net/http"
	"strconv"

	"shg-backend/internal/domain"
	"shg-backend/internal/service"
)

type NotificationHandler struct {
	notifications service.NotificationService
	members       service.MemberService
}

func NewNotificationHandler(notifications service.NotificationService, members service.MemberService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, members: members}
}

type notificationListResponse struct {
	Notifications []domain.Notification `json:"notifications"`
	Total         int32                 `json:"total"`
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, err := h.members.GetMemberByUID(r.Context(), claimsFrom(r).UID)
	if err != nil {
		writeError(w, err)
		return
	}

	page := queryInt32(r, "page", 1)
	pageSize := queryInt32(r, "page_size", 20)
	notes, total, err := h.notifications.GetNotifications(r.Context(), caller.ID, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, notificationListResponse{Notifications: notes, Total: total})
}

func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	noteID, err := pathID(r, "notificationID")
	if err != nil {
		writeError(w, err)
		return
	}
	caller, err := h.members.GetMemberByUID(r.Context(), claimsFrom(r).UID)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.notifications.MarkAsRead(r.Context(), caller.ID, noteID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "read"})
}

func queryInt32(r *http.Request, name string, fallback int32) int32 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || v < 1 {
		return fallback
	}
	return int32(v)
}
