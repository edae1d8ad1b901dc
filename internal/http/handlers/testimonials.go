package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"server/internal/domain"
)

type testimonialRequest struct {
	Content string `json:"content"`
}

type reactionRequest struct {
	Type string `json:"type"`
}

type commentRequest struct {
	Content string `json:"content"`
}

type reactionDTO struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}

type commentDTO struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type testimonialDTO struct {
	ID         string        `json:"id"`
	UserID     string        `json:"userId"`
	AuthorName string        `json:"authorName"`
	Content    string        `json:"content"`
	Reactions  []reactionDTO `json:"reactions"`
	Comments   []commentDTO  `json:"comments"`
	CreatedAt  time.Time     `json:"createdAt"`
}

func toReactionDTOs(reactions []domain.TestimonialReaction) []reactionDTO {
	out := make([]reactionDTO, 0, len(reactions))
	for _, re := range reactions {
		out = append(out, reactionDTO{
			ID:        re.ID,
			UserID:    re.UserID,
			Type:      string(re.Type),
			CreatedAt: re.CreatedAt,
		})
	}
	return out
}

func toCommentDTOs(comments []domain.TestimonialComment) []commentDTO {
	out := make([]commentDTO, 0, len(comments))
	for _, c := range comments {
		out = append(out, commentDTO{
			ID:        c.ID,
			UserID:    c.UserID,
			Content:   c.Content,
			CreatedAt: c.CreatedAt,
		})
	}
	return out
}

func toTestimonialDTO(t *domain.Testimonial) testimonialDTO {
	return testimonialDTO{
		ID:         t.ID,
		UserID:     t.UserID,
		AuthorName: t.AuthorName,
		Content:    t.Content,
		Reactions:  toReactionDTOs(t.Reactions),
		Comments:   toCommentDTOs(t.Comments),
		CreatedAt:  t.CreatedAt,
	}
}

func (a *App) TestimonialsList(w http.ResponseWriter, r *http.Request) {
	testimonials, err := a.Testimonials.List(r.Context())
	if err != nil {
		a.domainError(w, err, "failed to load testimonials")
		return
	}
	items := make([]testimonialDTO, 0, len(testimonials))
	for i := range testimonials {
		items = append(items, toTestimonialDTO(&testimonials[i]))
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

func (a *App) TestimonialsGet(w http.ResponseWriter, r *http.Request) {
	testimonial, err := a.Testimonials.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err, "failed to load testimonial")
		return
	}
	a.json(w, http.StatusOK, toTestimonialDTO(testimonial))
}

func (a *App) TestimonialsCreate(w http.ResponseWriter, r *http.Request) {
	id, ok := a.identity(r)
	if !ok {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var req testimonialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "content is required")
		return
	}
	testimonial, err := a.Testimonials.Create(r.Context(), &domain.Testimonial{
		UserID:  id.UserID,
		Content: strings.TrimSpace(req.Content),
	})
	if err != nil {
		a.domainError(w, err, "failed to create testimonial")
		return
	}
	a.json(w, http.StatusCreated, toTestimonialDTO(testimonial))
}

// TestimonialsReact adds the caller's reaction and returns the updated
// reaction list.
func (a *App) TestimonialsReact(w http.ResponseWriter, r *http.Request) {
	id, ok := a.identity(r)
	if !ok {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var req reactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	reactionType := domain.ReactionType(req.Type)
	if !domain.ValidReaction(reactionType) {
		a.error(w, http.StatusBadRequest, "bad_request", "unknown reaction type")
		return
	}
	reactions, err := a.Testimonials.AddReaction(r.Context(), &domain.TestimonialReaction{
		TestimonialID: chi.URLParam(r, "id"),
		UserID:        id.UserID,
		Type:          reactionType,
	})
	if err != nil {
		a.domainError(w, err, "failed to add reaction")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"reactions": toReactionDTOs(reactions)})
}

// TestimonialsComment adds the caller's comment and returns the updated
// comment list.
func (a *App) TestimonialsComment(w http.ResponseWriter, r *http.Request) {
	id, ok := a.identity(r)
	if !ok {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "content is required")
		return
	}
	comments, err := a.Testimonials.AddComment(r.Context(), &domain.TestimonialComment{
		TestimonialID: chi.URLParam(r, "id"),
		UserID:        id.UserID,
		Content:       strings.TrimSpace(req.Content),
	})
	if err != nil {
		a.domainError(w, err, "failed to add comment")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"comments": toCommentDTOs(comments)})
}
