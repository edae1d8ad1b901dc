package repo

import (
	"context"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/sqlinline"
)

// FeedRepositoryPG implements domain.FeedRepository using PostgreSQL.
type FeedRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewFeedRepository creates a new feed repo.
func NewFeedRepository(sql infra.SQLExecutor) *FeedRepositoryPG {
	return &FeedRepositoryPG{sql: sql}
}

func (r *FeedRepositoryPG) Create(ctx context.Context, post *domain.FeedPost) (*domain.FeedPost, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QInsertFeedPost, post.UserID, post.Content, post.Attachments)
	var p domain.FeedPost
	if err := row.Scan(&p.ID, &p.UserID, &p.Content, &p.Attachments, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.AuthorName = post.AuthorName
	return &p, nil
}

func (r *FeedRepositoryPG) GetByID(ctx context.Context, id string) (*domain.FeedPost, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSelectFeedPostByID, id)
	var p domain.FeedPost
	if err := row.Scan(&p.ID, &p.UserID, &p.AuthorName, &p.Content, &p.Attachments, &p.CreatedAt); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// List returns all posts, newest first, with author names joined in.
func (r *FeedRepositoryPG) List(ctx context.Context) ([]domain.FeedPost, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListFeedPosts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.FeedPost
	for rows.Next() {
		var p domain.FeedPost
		if err := rows.Scan(&p.ID, &p.UserID, &p.AuthorName, &p.Content, &p.Attachments, &p.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *FeedRepositoryPG) Update(ctx context.Context, post *domain.FeedPost) (*domain.FeedPost, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QUpdateFeedPost, post.ID, post.Content, post.Attachments)
	var p domain.FeedPost
	if err := row.Scan(&p.ID, &p.UserID, &p.Content, &p.Attachments, &p.CreatedAt); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *FeedRepositoryPG) Delete(ctx context.Context, id string) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QDeleteFeedPost, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ domain.FeedRepository = (*FeedRepositoryPG)(nil)
