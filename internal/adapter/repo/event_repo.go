package repo

import (
	"context"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/sqlinline"
)

// EventRepositoryPG implements domain.EventRepository using PostgreSQL.
type EventRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewEventRepository creates a new event repo.
func NewEventRepository(sql infra.SQLExecutor) *EventRepositoryPG {
	return &EventRepositoryPG{sql: sql}
}

func (r *EventRepositoryPG) Create(ctx context.Context, event *domain.Event) (*domain.Event, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QInsertEvent,
		event.Title, event.Description, event.Date, event.Location, event.ImageURL, event.CreatedBy)
	var e domain.Event
	if err := row.Scan(&e.ID, &e.Title, &e.Description, &e.Date, &e.Location, &e.ImageURL, &e.CreatedBy, &e.CreatedAt); err != nil {
		return nil, err
	}
	e.CreatorName = event.CreatorName
	return &e, nil
}

func (r *EventRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSelectEventByID, id)
	var e domain.Event
	if err := row.Scan(&e.ID, &e.Title, &e.Description, &e.Date, &e.Location, &e.ImageURL, &e.CreatedBy, &e.CreatorName, &e.CreatedAt); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// List returns events in chronological order.
func (r *EventRepositoryPG) List(ctx context.Context) ([]domain.Event, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListEvents)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Event
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.Date, &e.Location, &e.ImageURL, &e.CreatedBy, &e.CreatorName, &e.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *EventRepositoryPG) Update(ctx context.Context, event *domain.Event) (*domain.Event, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QUpdateEvent,
		event.ID, event.Title, event.Description, event.Date, event.Location, event.ImageURL)
	var e domain.Event
	if err := row.Scan(&e.ID, &e.Title, &e.Description, &e.Date, &e.Location, &e.ImageURL, &e.CreatedBy, &e.CreatedAt); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *EventRepositoryPG) Delete(ctx context.Context, id string) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QDeleteEvent, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ domain.EventRepository = (*EventRepositoryPG)(nil)
