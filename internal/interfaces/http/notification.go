package http

import (
	"net/http"
	"strconv"

	"household/internal/domain/notification"
)

type NotificationHandler struct {
	notificationService *notification.Service
}

func NewNotificationHandler(notificationService *notification.Service) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

type NotificationListResponse struct {
	Notifications []*notification.Notification `json:"notifications"`
	Count         int                          `json:"count"`
}

// HandleListUnread handles GET /api/notifications/unread
func (h *NotificationHandler) HandleListUnread(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	list, err := h.notificationService.ListUnread(r.Context(), userID)
	if err != nil {
		writeError(w, "list notifications", err, "user_id", userID)
		return
	}
	if list == nil {
		list = []*notification.Notification{}
	}

	writeJSON(w, http.StatusOK, NotificationListResponse{Notifications: list, Count: len(list)})
}

// HandleMarkRead handles PATCH /api/notifications/{id}/read
func (h *NotificationHandler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "Notification not found", http.StatusNotFound)
		return
	}

	if err := h.notificationService.MarkRead(r.Context(), id, userID); err != nil {
		writeError(w, "mark notification read", err, "notification_id", id)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
