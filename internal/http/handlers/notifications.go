package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"server/internal/domain"
)

type notificationDTO struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

func toNotificationDTO(n *domain.Notification) notificationDTO {
	return notificationDTO{
		ID:        n.ID,
		Content:   n.Content,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}

// NotificationsList returns the caller's notifications, newest first.
func (a *App) NotificationsList(w http.ResponseWriter, r *http.Request) {
	id, ok := a.identity(r)
	if !ok {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	notifications, err := a.Notifications.ListByUser(r.Context(), id.UserID)
	if err != nil {
		a.domainError(w, err, "failed to load notifications")
		return
	}
	items := make([]notificationDTO, 0, len(notifications))
	for i := range notifications {
		items = append(items, toNotificationDTO(&notifications[i]))
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

// NotificationsMarkRead marks one of the caller's notifications as read.
func (a *App) NotificationsMarkRead(w http.ResponseWriter, r *http.Request) {
	id, ok := a.identity(r)
	if !ok {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	notifID := chi.URLParam(r, "id")
	existing, err := a.Notifications.GetByID(r.Context(), notifID)
	if err != nil {
		a.domainError(w, err, "failed to load notification")
		return
	}
	if existing.UserID != id.UserID {
		a.error(w, http.StatusForbidden, "forbidden", "not your notification")
		return
	}
	updated, err := a.Notifications.MarkRead(r.Context(), notifID)
	if err != nil {
		a.domainError(w, err, "failed to update notification")
		return
	}
	a.json(w, http.StatusOK, toNotificationDTO(updated))
}

// NotificationsDelete removes one of the caller's notifications.
func (a *App) NotificationsDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := a.identity(r)
	if !ok {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	notifID := chi.URLParam(r, "id")
	existing, err := a.Notifications.GetByID(r.Context(), notifID)
	if err != nil {
		a.domainError(w, err, "failed to load notification")
		return
	}
	if existing.UserID != id.UserID {
		a.error(w, http.StatusForbidden, "forbidden", "not your notification")
		return
	}
	if err := a.Notifications.Delete(r.Context(), notifID); err != nil {
		a.domainError(w, err, "failed to delete notification")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
