package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"server/internal/domain"
)

type appointmentRequest struct {
	AppointmentWith string    `json:"appointmentWith"`
	Reason          string    `json:"reason"`
	Date            time.Time `json:"date"`
}

type appointmentStatusRequest struct {
	Status string `json:"status"`
}

type appointmentDTO struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	AppointmentWith string    `json:"appointmentWith"`
	Reason          string    `json:"reason"`
	Date            time.Time `json:"date"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
}

func toAppointmentDTO(ap *domain.Appointment) appointmentDTO {
	return appointmentDTO{
		ID:              ap.ID,
		UserID:          ap.UserID,
		AppointmentWith: string(ap.AppointmentWith),
		Reason:          ap.Reason,
		Date:            ap.Date,
		Status:          string(ap.Status),
		CreatedAt:       ap.CreatedAt,
	}
}

func (a *App) AppointmentsCreate(w http.ResponseWriter, r *http.Request) {
	id, ok := a.identity(r)
	if !ok {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var req appointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	with := domain.Role(req.AppointmentWith)
	if with != domain.RoleReverend && with != domain.RoleEvangelist {
		a.error(w, http.StatusBadRequest, "bad_request", "appointmentWith must be reverend or evangelist")
		return
	}
	if strings.TrimSpace(req.Reason) == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "reason is required")
		return
	}
	if req.Date.Before(time.Now()) {
		a.error(w, http.StatusBadRequest, "bad_request", "date must be in the future")
		return
	}
	appt, err := a.Appointments.Create(r.Context(), &domain.Appointment{
		UserID:          id.UserID,
		AppointmentWith: with,
		Reason:          strings.TrimSpace(req.Reason),
		Date:            req.Date,
		Status:          domain.AppointmentPending,
	})
	if err != nil {
		a.domainError(w, err, "failed to create appointment")
		return
	}
	a.json(w, http.StatusCreated, toAppointmentDTO(appt))
}

// AppointmentsList returns the caller's own bookings.
func (a *App) AppointmentsList(w http.ResponseWriter, r *http.Request) {
	id, ok := a.identity(r)
	if !ok {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	appts, err := a.Appointments.ListByUser(r.Context(), id.UserID)
	if err != nil {
		a.domainError(w, err, "failed to load appointments")
		return
	}
	items := make([]appointmentDTO, 0, len(appts))
	for i := range appts {
		items = append(items, toAppointmentDTO(&appts[i]))
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

// AppointmentsUpdateStatus records the clergy decision. Routing restricts this
// to admin, reverend and evangelist callers; a notification tells the member
// the outcome.
func (a *App) AppointmentsUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req appointmentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	status := domain.AppointmentStatus(req.Status)
	if !domain.ValidAppointmentStatus(status) || status == domain.AppointmentPending {
		a.error(w, http.StatusBadRequest, "bad_request", "status must be approved or rejected")
		return
	}
	appt, err := a.Appointments.UpdateStatus(r.Context(), chi.URLParam(r, "id"), status)
	if err != nil {
		a.domainError(w, err, "failed to update appointment")
		return
	}
	if _, err := a.Notifications.Create(r.Context(), &domain.Notification{
		UserID:  appt.UserID,
		Content: "Your appointment request has been " + string(status) + ".",
	}); err != nil {
		a.Logger.Error().Err(err).Str("user_id", appt.UserID).Msg("appointment notification failed")
	}
	a.json(w, http.StatusOK, toAppointmentDTO(appt))
}

func (a *App) AppointmentsDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := a.identity(r)
	if !ok {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	apptID := chi.URLParam(r, "id")
	appt, err := a.Appointments.GetByID(r.Context(), apptID)
	if err != nil {
		a.domainError(w, err, "failed to load appointment")
		return
	}
	if appt.UserID != id.UserID && !canModerate(id) {
		a.error(w, http.StatusForbidden, "forbidden", "not your appointment")
		return
	}
	if err := a.Appointments.Delete(r.Context(), apptID); err != nil {
		a.domainError(w, err, "failed to delete appointment")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
