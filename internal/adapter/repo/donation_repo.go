package repo

import (
	"context"

	"github.com/jackc/pgx/v5"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/sqlinline"
)

// DonationRepositoryPG implements domain.DonationRepository using PostgreSQL.
// The unique indexes on checkout_request_id and receipt_number are load-bearing:
// they are the only guard against double-crediting a replayed callback.
type DonationRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewDonationRepository creates a new donation repo.
func NewDonationRepository(sql infra.SQLExecutor) *DonationRepositoryPG {
	return &DonationRepositoryPG{sql: sql}
}

// CreatePending records an accepted push request awaiting its callback.
func (r *DonationRepositoryPG) CreatePending(ctx context.Context, donation *domain.Donation) (*domain.Donation, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QInsertPendingDonation,
		donation.UserID, donation.AmountInt, donation.PhoneNumber, donation.CheckoutRequestID)
	created, err := scanDonation(row)
	if err != nil {
		if infra.IsUniqueViolation(err) {
			return nil, domain.ErrConflict
		}
		return nil, err
	}
	return created, nil
}

// Complete settles the pending donation matched by checkout request ID. The
// status = 'pending' guard makes a second completion attempt a no-op.
func (r *DonationRepositoryPG) Complete(ctx context.Context, checkoutRequestID, receiptNumber string, amount int64) (*domain.Donation, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QCompleteDonation, checkoutRequestID, receiptNumber, amount)
	return scanDonation(row)
}

// Fail marks the pending donation matched by checkout request ID failed.
func (r *DonationRepositoryPG) Fail(ctx context.Context, checkoutRequestID string) (*domain.Donation, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QFailDonation, checkoutRequestID)
	return scanDonation(row)
}

// InsertCompleted stores a settled donation with no pending counterpart.
// Replays of the same receipt insert nothing and report inserted = false.
func (r *DonationRepositoryPG) InsertCompleted(ctx context.Context, donation *domain.Donation) (bool, error) {
	receipt := ""
	if donation.ReceiptNumber != nil {
		receipt = *donation.ReceiptNumber
	}
	row := r.sql.QueryRow(ctx, sqlinline.QInsertCompletedDonation,
		donation.UserID, donation.AmountInt, donation.PhoneNumber, donation.CheckoutRequestID, receipt)
	var id string
	if err := row.Scan(&id); err != nil {
		if infra.IsNoRows(err) {
			return false, nil
		}
		return false, err
	}
	donation.ID = id
	return true, nil
}

// ListByUser returns the user's donations, newest first.
func (r *DonationRepositoryPG) ListByUser(ctx context.Context, userID string) ([]domain.Donation, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListDonationsByUser, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Donation
	for rows.Next() {
		d, err := scanDonationValues(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func scanDonation(row pgx.Row) (*domain.Donation, error) {
	d, err := scanDonationValues(row)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

func scanDonationValues(row pgx.Row) (*domain.Donation, error) {
	var d domain.Donation
	var status string
	if err := row.Scan(&d.ID, &d.UserID, &d.AmountInt, &d.PhoneNumber,
		&d.CheckoutRequestID, &d.ReceiptNumber, &status, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	d.Status = domain.DonationStatus(status)
	return &d, nil
}

var _ domain.DonationRepository = (*DonationRepositoryPG)(nil)
