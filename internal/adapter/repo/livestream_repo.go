package repo

import (
	"context"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/sqlinline"
)

// LivestreamRepositoryPG implements domain.LivestreamRepository using PostgreSQL.
type LivestreamRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewLivestreamRepository creates a new livestream repo.
func NewLivestreamRepository(sql infra.SQLExecutor) *LivestreamRepositoryPG {
	return &LivestreamRepositoryPG{sql: sql}
}

func (r *LivestreamRepositoryPG) Create(ctx context.Context, stream *domain.Livestream) (*domain.Livestream, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QInsertLivestream,
		stream.Title, stream.Description, stream.StreamURL, stream.StartTime, stream.EndTime,
		stream.BroadcastID, stream.CreatedBy)
	var s domain.Livestream
	if err := row.Scan(&s.ID, &s.Title, &s.Description, &s.StreamURL, &s.StartTime, &s.EndTime,
		&s.BroadcastID, &s.CreatedBy, &s.CreatedAt); err != nil {
		return nil, err
	}
	s.CreatorName = stream.CreatorName
	return &s, nil
}

func (r *LivestreamRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Livestream, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSelectLivestreamByID, id)
	var s domain.Livestream
	if err := row.Scan(&s.ID, &s.Title, &s.Description, &s.StreamURL, &s.StartTime, &s.EndTime,
		&s.BroadcastID, &s.CreatedBy, &s.CreatorName, &s.CreatedAt); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// List returns livestreams, most recent start time first.
func (r *LivestreamRepositoryPG) List(ctx context.Context) ([]domain.Livestream, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListLivestreams)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Livestream
	for rows.Next() {
		var s domain.Livestream
		if err := rows.Scan(&s.ID, &s.Title, &s.Description, &s.StreamURL, &s.StartTime, &s.EndTime,
			&s.BroadcastID, &s.CreatedBy, &s.CreatorName, &s.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *LivestreamRepositoryPG) Update(ctx context.Context, stream *domain.Livestream) (*domain.Livestream, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QUpdateLivestream,
		stream.ID, stream.Title, stream.Description, stream.StartTime, stream.EndTime)
	var s domain.Livestream
	if err := row.Scan(&s.ID, &s.Title, &s.Description, &s.StreamURL, &s.StartTime, &s.EndTime,
		&s.BroadcastID, &s.CreatedBy, &s.CreatedAt); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *LivestreamRepositoryPG) Delete(ctx context.Context, id string) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QDeleteLivestream, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ domain.LivestreamRepository = (*LivestreamRepositoryPG)(nil)
