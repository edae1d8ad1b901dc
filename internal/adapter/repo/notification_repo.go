package repo

import (
	"context"

	"github.com/jackc/pgx/v5"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/sqlinline"
)

// NotificationRepositoryPG implements domain.NotificationRepository using PostgreSQL.
type NotificationRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewNotificationRepository creates a new notification repo.
func NewNotificationRepository(sql infra.SQLExecutor) *NotificationRepositoryPG {
	return &NotificationRepositoryPG{sql: sql}
}

func (r *NotificationRepositoryPG) Create(ctx context.Context, n *domain.Notification) (*domain.Notification, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QInsertNotification, n.UserID, n.Content)
	return scanNotification(row)
}

func (r *NotificationRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	return scanNotification(r.sql.QueryRow(ctx, sqlinline.QSelectNotificationByID, id))
}

// ListByUser returns the user's notifications, newest first.
func (r *NotificationRepositoryPG) ListByUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListNotificationsByUser, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Content, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *NotificationRepositoryPG) MarkRead(ctx context.Context, id string) (*domain.Notification, error) {
	return scanNotification(r.sql.QueryRow(ctx, sqlinline.QMarkNotificationRead, id))
}

func (r *NotificationRepositoryPG) Delete(ctx context.Context, id string) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QDeleteNotification, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanNotification(row pgx.Row) (*domain.Notification, error) {
	var n domain.Notification
	if err := row.Scan(&n.ID, &n.UserID, &n.Content, &n.Read, &n.CreatedAt); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &n, nil
}

var _ domain.NotificationRepository = (*NotificationRepositoryPG)(nil)
