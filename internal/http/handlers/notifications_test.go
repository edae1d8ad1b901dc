package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"server/internal/domain"
	"server/internal/middleware"
)

func TestNotificationsMarkReadOwnerOnly(t *testing.T) {
	app, store := newTestApp()
	_, jane := registerMember(t, app, "jane@example.com", "254712345678")
	_, peter := registerMember(t, app, "peter@example.com", "254798765432")

	created, err := app.Notifications.Create(context.Background(), &domain.Notification{
		UserID:  jane.UserID,
		Content: "Your appointment request has been approved.",
	})
	if err != nil {
		t.Fatalf("seed notification: %v", err)
	}

	req := httptest.NewRequest(http.MethodPut, "/api/notifications/"+created.ID+"/read", nil)
	req = withURLParam(req, "id", created.ID)
	req = req.WithContext(middleware.ContextWithIdentity(req.Context(), peter))
	rec := httptest.NewRecorder()
	app.NotificationsMarkRead(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("foreign mark-read returned %d, want 403", rec.Code)
	}
	if store.notifications[0].Read {
		t.Fatal("notification marked read despite 403")
	}

	req = httptest.NewRequest(http.MethodPut, "/api/notifications/"+created.ID+"/read", nil)
	req = withURLParam(req, "id", created.ID)
	req = req.WithContext(middleware.ContextWithIdentity(req.Context(), jane))
	rec = httptest.NewRecorder()
	app.NotificationsMarkRead(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("owner mark-read returned %d: %s", rec.Code, rec.Body.String())
	}
	if !store.notifications[0].Read {
		t.Fatal("notification not marked read")
	}
}

func TestNotificationsListScopedToCaller(t *testing.T) {
	app, _ := newTestApp()
	_, jane := registerMember(t, app, "jane@example.com", "254712345678")
	_, peter := registerMember(t, app, "peter@example.com", "254798765432")

	if _, err := app.Notifications.Create(context.Background(), &domain.Notification{
		UserID:  jane.UserID,
		Content: "Thank you for your donation of KES 500.",
	}); err != nil {
		t.Fatalf("seed notification: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/notifications", nil)
	req = req.WithContext(middleware.ContextWithIdentity(req.Context(), peter))
	rec := httptest.NewRecorder()
	app.NotificationsList(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("NotificationsList returned %d", rec.Code)
	}
	if body := rec.Body.String(); body != "{\"items\":[]}\n" {
		t.Fatalf("another member's notifications leaked: %s", body)
	}
}

func TestNotificationsDeleteOwnerOnly(t *testing.T) {
	app, store := newTestApp()
	_, jane := registerMember(t, app, "jane@example.com", "254712345678")

	created, err := app.Notifications.Create(context.Background(), &domain.Notification{
		UserID:  jane.UserID,
		Content: "Welcome to the fellowship.",
	})
	if err != nil {
		t.Fatalf("seed notification: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/notifications/"+created.ID, nil)
	req = withURLParam(req, "id", created.ID)
	req = req.WithContext(middleware.ContextWithIdentity(req.Context(), jane))
	rec := httptest.NewRecorder()
	app.NotificationsDelete(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("owner delete returned %d", rec.Code)
	}
	if len(store.notifications) != 0 {
		t.Fatal("notification survived delete")
	}
}
