package repo

import (
	"context"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/sqlinline"
)

// TestimonialRepositoryPG implements domain.TestimonialRepository using PostgreSQL.
type TestimonialRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewTestimonialRepository creates a new testimonial repo.
func NewTestimonialRepository(sql infra.SQLExecutor) *TestimonialRepositoryPG {
	return &TestimonialRepositoryPG{sql: sql}
}

func (r *TestimonialRepositoryPG) Create(ctx context.Context, t *domain.Testimonial) (*domain.Testimonial, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QInsertTestimonial, t.UserID, t.Content)
	var created domain.Testimonial
	if err := row.Scan(&created.ID, &created.UserID, &created.Content, &created.CreatedAt); err != nil {
		return nil, err
	}
	created.AuthorName = t.AuthorName
	return &created, nil
}

func (r *TestimonialRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Testimonial, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSelectTestimonialByID, id)
	var t domain.Testimonial
	if err := row.Scan(&t.ID, &t.UserID, &t.AuthorName, &t.Content, &t.CreatedAt); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// List returns all testimonials, newest first, including reactions and comments.
func (r *TestimonialRepositoryPG) List(ctx context.Context) ([]domain.Testimonial, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListTestimonials)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Testimonial
	for rows.Next() {
		var t domain.Testimonial
		if err := rows.Scan(&t.ID, &t.UserID, &t.AuthorName, &t.Content, &t.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range items {
		reactions, err := r.listReactions(ctx, items[i].ID)
		if err != nil {
			return nil, err
		}
		comments, err := r.listComments(ctx, items[i].ID)
		if err != nil {
			return nil, err
		}
		items[i].Reactions = reactions
		items[i].Comments = comments
	}
	return items, nil
}

// AddReaction stores the reaction and returns the testimonial's full reaction
// list. A foreign key violation on the testimonial ID means the testimonial
// does not exist and maps to ErrNotFound.
func (r *TestimonialRepositoryPG) AddReaction(ctx context.Context, reaction *domain.TestimonialReaction) ([]domain.TestimonialReaction, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QInsertTestimonialReaction,
		reaction.TestimonialID, reaction.UserID, string(reaction.Type))
	var id string
	if err := row.Scan(&id); err != nil {
		if infra.IsForeignKeyViolation(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return r.listReactions(ctx, reaction.TestimonialID)
}

// AddComment stores the comment and returns the testimonial's full comment
// list, mapping a foreign key violation to ErrNotFound like AddReaction.
func (r *TestimonialRepositoryPG) AddComment(ctx context.Context, comment *domain.TestimonialComment) ([]domain.TestimonialComment, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QInsertTestimonialComment,
		comment.TestimonialID, comment.UserID, comment.Content)
	var id string
	if err := row.Scan(&id); err != nil {
		if infra.IsForeignKeyViolation(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return r.listComments(ctx, comment.TestimonialID)
}

func (r *TestimonialRepositoryPG) listReactions(ctx context.Context, testimonialID string) ([]domain.TestimonialReaction, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListTestimonialReactions, testimonialID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.TestimonialReaction
	for rows.Next() {
		var reaction domain.TestimonialReaction
		var typ string
		if err := rows.Scan(&reaction.ID, &reaction.TestimonialID, &reaction.UserID, &typ, &reaction.CreatedAt); err != nil {
			return nil, err
		}
		reaction.Type = domain.ReactionType(typ)
		items = append(items, reaction)
	}
	return items, rows.Err()
}

func (r *TestimonialRepositoryPG) listComments(ctx context.Context, testimonialID string) ([]domain.TestimonialComment, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListTestimonialComments, testimonialID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.TestimonialComment
	for rows.Next() {
		var comment domain.TestimonialComment
		if err := rows.Scan(&comment.ID, &comment.TestimonialID, &comment.UserID, &comment.Content, &comment.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, comment)
	}
	return items, rows.Err()
}

var _ domain.TestimonialRepository = (*TestimonialRepositoryPG)(nil)
