package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"server/internal/domain"
	"server/internal/providers/youtube"
)

type livestreamRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
}

type livestreamDTO struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StreamURL   string    `json:"streamUrl"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	CreatedBy   string    `json:"createdBy"`
	CreatorName string    `json:"creatorName"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toLivestreamDTO(s *domain.Livestream) livestreamDTO {
	return livestreamDTO{
		ID:          s.ID,
		Title:       s.Title,
		Description: s.Description,
		StreamURL:   s.StreamURL,
		StartTime:   s.StartTime,
		EndTime:     s.EndTime,
		CreatedBy:   s.CreatedBy,
		CreatorName: s.CreatorName,
		CreatedAt:   s.CreatedAt,
	}
}

func (a *App) LivestreamsList(w http.ResponseWriter, r *http.Request) {
	streams, err := a.Livestreams.List(r.Context())
	if err != nil {
		a.domainError(w, err, "failed to load livestreams")
		return
	}
	items := make([]livestreamDTO, 0, len(streams))
	for i := range streams {
		items = append(items, toLivestreamDTO(&streams[i]))
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

func (a *App) LivestreamsGet(w http.ResponseWriter, r *http.Request) {
	stream, err := a.Livestreams.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err, "failed to load livestream")
		return
	}
	a.json(w, http.StatusOK, toLivestreamDTO(stream))
}

// LivestreamsCreate schedules a service broadcast. Provisioning on the video
// platform is awaited so the stored record always carries a real watch URL; a
// platform failure surfaces as 502 and nothing is stored.
func (a *App) LivestreamsCreate(w http.ResponseWriter, r *http.Request) {
	id, ok := a.identity(r)
	if !ok {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var req livestreamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "title is required")
		return
	}
	if req.StartTime.IsZero() || req.EndTime.IsZero() || !req.EndTime.After(req.StartTime) {
		a.error(w, http.StatusBadRequest, "bad_request", "endTime must be after startTime")
		return
	}
	if !a.Broadcast.HasCredentials() {
		a.error(w, http.StatusBadGateway, "gateway_unavailable", "video platform is not configured")
		return
	}

	ctx, cancel := contextWithTimeout(r, a.Cfg.GatewayTimeout)
	defer cancel()
	broadcast, err := a.Broadcast.CreateLiveBroadcast(ctx, req.Title, req.Description, req.StartTime, req.EndTime)
	if err != nil {
		a.Logger.Error().Err(err).Msg("broadcast provisioning failed")
		if errors.Is(err, youtube.ErrUnavailable) || errors.Is(err, youtube.ErrMissingAPIKey) {
			a.error(w, http.StatusBadGateway, "gateway_unavailable", "failed to provision broadcast")
			return
		}
		a.error(w, http.StatusInternalServerError, "internal", "failed to provision broadcast")
		return
	}

	stream, err := a.Livestreams.Create(r.Context(), &domain.Livestream{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		StreamURL:   broadcast.WatchURL,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		BroadcastID: broadcast.BroadcastID,
		CreatedBy:   id.UserID,
	})
	if err != nil {
		a.domainError(w, err, "failed to store livestream")
		return
	}
	a.json(w, http.StatusCreated, toLivestreamDTO(stream))
}

func (a *App) LivestreamsUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := a.identity(r)
	if !ok {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	streamID := chi.URLParam(r, "id")
	existing, err := a.Livestreams.GetByID(r.Context(), streamID)
	if err != nil {
		a.domainError(w, err, "failed to load livestream")
		return
	}
	if existing.CreatedBy != id.UserID && !canModerate(id) {
		a.error(w, http.StatusForbidden, "forbidden", "not your livestream")
		return
	}
	var req livestreamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if v := strings.TrimSpace(req.Title); v != "" {
		existing.Title = v
	}
	if req.Description != "" {
		existing.Description = req.Description
	}
	if !req.StartTime.IsZero() {
		existing.StartTime = req.StartTime
	}
	if !req.EndTime.IsZero() {
		existing.EndTime = req.EndTime
	}
	if !existing.EndTime.After(existing.StartTime) {
		a.error(w, http.StatusBadRequest, "bad_request", "endTime must be after startTime")
		return
	}
	updated, err := a.Livestreams.Update(r.Context(), existing)
	if err != nil {
		a.domainError(w, err, "failed to update livestream")
		return
	}
	a.json(w, http.StatusOK, toLivestreamDTO(updated))
}

// LivestreamsDelete removes the record and ends the platform broadcast. Ending
// the broadcast is best effort: the record is gone either way and a platform
// failure only logs.
func (a *App) LivestreamsDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := a.identity(r)
	if !ok {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	streamID := chi.URLParam(r, "id")
	existing, err := a.Livestreams.GetByID(r.Context(), streamID)
	if err != nil {
		a.domainError(w, err, "failed to load livestream")
		return
	}
	if existing.CreatedBy != id.UserID && !canModerate(id) {
		a.error(w, http.StatusForbidden, "forbidden", "not your livestream")
		return
	}
	if err := a.Livestreams.Delete(r.Context(), streamID); err != nil {
		a.domainError(w, err, "failed to delete livestream")
		return
	}
	if existing.BroadcastID != "" && a.Broadcast.HasCredentials() {
		ctx, cancel := contextWithTimeout(r, a.Cfg.GatewayTimeout)
		defer cancel()
		if err := a.Broadcast.EndLiveBroadcast(ctx, existing.BroadcastID); err != nil {
			a.Logger.Error().Err(err).
				Str("broadcast_id", existing.BroadcastID).
				Msg("end broadcast failed")
		}
	}
	w.WriteHeader(http.StatusNoContent)
}
