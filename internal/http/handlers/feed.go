package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"server/internal/domain"
)

type feedPostRequest struct {
	Content     string   `json:"content"`
	Attachments []string `json:"attachments"`
}

type feedPostDTO struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	AuthorName  string    `json:"authorName"`
	Content     string    `json:"content"`
	Attachments []string  `json:"attachments"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toFeedPostDTO(p *domain.FeedPost) feedPostDTO {
	attachments := p.Attachments
	if attachments == nil {
		attachments = []string{}
	}
	return feedPostDTO{
		ID:          p.ID,
		UserID:      p.UserID,
		AuthorName:  p.AuthorName,
		Content:     p.Content,
		Attachments: attachments,
		CreatedAt:   p.CreatedAt,
	}
}

func (a *App) FeedList(w http.ResponseWriter, r *http.Request) {
	posts, err := a.Feed.List(r.Context())
	if err != nil {
		a.domainError(w, err, "failed to load feed")
		return
	}
	items := make([]feedPostDTO, 0, len(posts))
	for i := range posts {
		items = append(items, toFeedPostDTO(&posts[i]))
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

func (a *App) FeedCreate(w http.ResponseWriter, r *http.Request) {
	id, ok := a.identity(r)
	if !ok {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var req feedPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "content is required")
		return
	}
	post, err := a.Feed.Create(r.Context(), &domain.FeedPost{
		UserID:      id.UserID,
		Content:     strings.TrimSpace(req.Content),
		Attachments: req.Attachments,
	})
	if err != nil {
		a.domainError(w, err, "failed to create post")
		return
	}
	a.json(w, http.StatusCreated, toFeedPostDTO(post))
}

func (a *App) FeedUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := a.identity(r)
	if !ok {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	postID := chi.URLParam(r, "id")
	existing, err := a.Feed.GetByID(r.Context(), postID)
	if err != nil {
		a.domainError(w, err, "failed to load post")
		return
	}
	if existing.UserID != id.UserID && !canModerate(id) {
		a.error(w, http.StatusForbidden, "forbidden", "not your post")
		return
	}
	var req feedPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "content is required")
		return
	}
	existing.Content = strings.TrimSpace(req.Content)
	if req.Attachments != nil {
		existing.Attachments = req.Attachments
	}
	updated, err := a.Feed.Update(r.Context(), existing)
	if err != nil {
		a.domainError(w, err, "failed to update post")
		return
	}
	a.json(w, http.StatusOK, toFeedPostDTO(updated))
}

func (a *App) FeedDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := a.identity(r)
	if !ok {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	postID := chi.URLParam(r, "id")
	existing, err := a.Feed.GetByID(r.Context(), postID)
	if err != nil {
		a.domainError(w, err, "failed to load post")
		return
	}
	if existing.UserID != id.UserID && !canModerate(id) {
		a.error(w, http.StatusForbidden, "forbidden", "not your post")
		return
	}
	if err := a.Feed.Delete(r.Context(), postID); err != nil {
		a.domainError(w, err, "failed to delete post")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
