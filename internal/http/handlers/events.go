package handlers

import (
	"errors"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"server/internal/domain"
	"server/internal/providers/imagehost"
)

type eventDTO struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location"`
	ImageURL    string    `json:"imageUrl"`
	CreatedBy   string    `json:"createdBy"`
	CreatorName string    `json:"creatorName"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toEventDTO(e *domain.Event) eventDTO {
	return eventDTO{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Date:        e.Date,
		Location:    e.Location,
		ImageURL:    e.ImageURL,
		CreatedBy:   e.CreatedBy,
		CreatorName: e.CreatorName,
		CreatedAt:   e.CreatedAt,
	}
}

func (a *App) EventsList(w http.ResponseWriter, r *http.Request) {
	events, err := a.Events.List(r.Context())
	if err != nil {
		a.domainError(w, err, "failed to load events")
		return
	}
	items := make([]eventDTO, 0, len(events))
	for i := range events {
		items = append(items, toEventDTO(&events[i]))
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

func (a *App) EventsGet(w http.ResponseWriter, r *http.Request) {
	event, err := a.Events.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err, "failed to load event")
		return
	}
	a.json(w, http.StatusOK, toEventDTO(event))
}

// EventsCreate accepts a multipart form with the event fields and an optional
// image part. The upload is awaited before the event is stored so a failed
// upload surfaces to the client instead of leaving an event without its image.
func (a *App) EventsCreate(w http.ResponseWriter, r *http.Request) {
	id, ok := a.identity(r)
	if !ok {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	if err := r.ParseMultipartForm(imagehost.MaxUploadSize); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid multipart form")
		return
	}
	title := strings.TrimSpace(r.FormValue("title"))
	description := strings.TrimSpace(r.FormValue("description"))
	location := strings.TrimSpace(r.FormValue("location"))
	if title == "" || description == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "title and description are required")
		return
	}
	date, err := time.Parse(time.RFC3339, r.FormValue("date"))
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "date must be RFC 3339")
		return
	}

	imageURL, err := a.storeEventImage(r)
	if err != nil {
		if errors.Is(err, imagehost.ErrTooLarge) {
			a.error(w, http.StatusBadRequest, "bad_request", "image exceeds the 5MB limit")
			return
		}
		a.Logger.Error().Err(err).Msg("event image upload failed")
		a.error(w, http.StatusBadGateway, "gateway_unavailable", "image upload failed")
		return
	}

	event, err := a.Events.Create(r.Context(), &domain.Event{
		Title:       title,
		Description: description,
		Date:        date,
		Location:    location,
		ImageURL:    imageURL,
		CreatedBy:   id.UserID,
	})
	if err != nil {
		a.domainError(w, err, "failed to create event")
		return
	}
	a.json(w, http.StatusCreated, toEventDTO(event))
}

func (a *App) EventsUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := a.identity(r)
	if !ok {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	eventID := chi.URLParam(r, "id")
	existing, err := a.Events.GetByID(r.Context(), eventID)
	if err != nil {
		a.domainError(w, err, "failed to load event")
		return
	}
	if existing.CreatedBy != id.UserID && !canModerate(id) {
		a.error(w, http.StatusForbidden, "forbidden", "not your event")
		return
	}
	if err := r.ParseMultipartForm(imagehost.MaxUploadSize); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid multipart form")
		return
	}
	if v := strings.TrimSpace(r.FormValue("title")); v != "" {
		existing.Title = v
	}
	if v := strings.TrimSpace(r.FormValue("description")); v != "" {
		existing.Description = v
	}
	if v := strings.TrimSpace(r.FormValue("location")); v != "" {
		existing.Location = v
	}
	if v := r.FormValue("date"); v != "" {
		date, err := time.Parse(time.RFC3339, v)
		if err != nil {
			a.error(w, http.StatusBadRequest, "bad_request", "date must be RFC 3339")
			return
		}
		existing.Date = date
	}
	imageURL, err := a.storeEventImage(r)
	if err != nil {
		if errors.Is(err, imagehost.ErrTooLarge) {
			a.error(w, http.StatusBadRequest, "bad_request", "image exceeds the 5MB limit")
			return
		}
		a.Logger.Error().Err(err).Msg("event image upload failed")
		a.error(w, http.StatusBadGateway, "gateway_unavailable", "image upload failed")
		return
	}
	if imageURL != "" {
		existing.ImageURL = imageURL
	}
	updated, err := a.Events.Update(r.Context(), existing)
	if err != nil {
		a.domainError(w, err, "failed to update event")
		return
	}
	a.json(w, http.StatusOK, toEventDTO(updated))
}

func (a *App) EventsDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := a.identity(r)
	if !ok {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	eventID := chi.URLParam(r, "id")
	existing, err := a.Events.GetByID(r.Context(), eventID)
	if err != nil {
		a.domainError(w, err, "failed to load event")
		return
	}
	if existing.CreatedBy != id.UserID && !canModerate(id) {
		a.error(w, http.StatusForbidden, "forbidden", "not your event")
		return
	}
	if err := a.Events.Delete(r.Context(), eventID); err != nil {
		a.domainError(w, err, "failed to delete event")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// storeEventImage reads the optional image part and stores it on the image
// host, or on local disk when the host is not configured. Returns "" when the
// form carries no image.
func (a *App) storeEventImage(r *http.Request) (string, error) {
	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil
		}
		return "", err
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, imagehost.MaxUploadSize+1))
	if err != nil {
		return "", err
	}
	if len(data) > imagehost.MaxUploadSize {
		return "", imagehost.ErrTooLarge
	}

	if a.Images != nil && a.Images.HasCredentials() {
		result, err := a.Images.Upload(r.Context(), header.Filename, data)
		if err != nil {
			return "", err
		}
		return result.SecureURL, nil
	}

	ext := strings.ToLower(path.Ext(header.Filename))
	key, err := a.Files.Write(r.Context(), a.Cfg.ImageUploadFolder+"/"+uuid.NewString()+ext, data)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(a.Cfg.StorageBaseURL, "/") + "/" + key, nil
}
