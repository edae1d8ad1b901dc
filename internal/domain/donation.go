package domain

import "time"

// DonationStatus tracks a push-payment attempt through its lifecycle.
type DonationStatus string

const (
	DonationPending   DonationStatus = "pending"
	DonationCompleted DonationStatus = "completed"
	DonationFailed    DonationStatus = "failed"
)

// Donation is a single giving record. CheckoutRequestID is the correlation key
// between the outbound push request and the asynchronous provider callback;
// ReceiptNumber is the provider receipt assigned on settlement and is unique
// system-wide.
type Donation struct {
	ID                string
	UserID            string
	AmountInt         int64
	PhoneNumber       string
	CheckoutRequestID string
	ReceiptNumber     *string
	Status            DonationStatus
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
