package repo

import (
	"context"

	"github.com/jackc/pgx/v5"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/sqlinline"
)

// AppointmentRepositoryPG implements domain.AppointmentRepository using PostgreSQL.
type AppointmentRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewAppointmentRepository creates a new appointment repo.
func NewAppointmentRepository(sql infra.SQLExecutor) *AppointmentRepositoryPG {
	return &AppointmentRepositoryPG{sql: sql}
}

func (r *AppointmentRepositoryPG) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QInsertAppointment,
		appt.UserID, string(appt.AppointmentWith), appt.Reason, appt.Date)
	return scanAppointment(row)
}

func (r *AppointmentRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Appointment, error) {
	return scanAppointment(r.sql.QueryRow(ctx, sqlinline.QSelectAppointmentByID, id))
}

// ListByUser returns the user's appointments ordered by date.
func (r *AppointmentRepositoryPG) ListByUser(ctx context.Context, userID string) ([]domain.Appointment, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListAppointmentsByUser, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Appointment
	for rows.Next() {
		a, err := scanAppointmentValues(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *AppointmentRepositoryPG) UpdateStatus(ctx context.Context, id string, status domain.AppointmentStatus) (*domain.Appointment, error) {
	return scanAppointment(r.sql.QueryRow(ctx, sqlinline.QUpdateAppointmentStatus, id, string(status)))
}

func (r *AppointmentRepositoryPG) Delete(ctx context.Context, id string) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QDeleteAppointment, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanAppointment(row pgx.Row) (*domain.Appointment, error) {
	a, err := scanAppointmentValues(row)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func scanAppointmentValues(row pgx.Row) (*domain.Appointment, error) {
	var a domain.Appointment
	var with, status string
	if err := row.Scan(&a.ID, &a.UserID, &with, &a.Reason, &a.Date, &status, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.AppointmentWith = domain.Role(with)
	a.Status = domain.AppointmentStatus(status)
	return &a, nil
}

var _ domain.AppointmentRepository = (*AppointmentRepositoryPG)(nil)
