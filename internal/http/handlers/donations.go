package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"server/internal/domain"
	"server/internal/providers/daraja"
)

type initiateDonationRequest struct {
	Amount      int64  `json:"amount"`
	PhoneNumber string `json:"phoneNumber"`
}

type initiateDonationResponse struct {
	CheckoutRequestID string `json:"checkoutRequestId"`
	CustomerMessage   string `json:"customerMessage"`
}

type donationDTO struct {
	ID                string    `json:"id"`
	Amount            int64     `json:"amount"`
	PhoneNumber       string    `json:"phoneNumber"`
	CheckoutRequestID string    `json:"checkoutRequestId"`
	ReceiptNumber     *string   `json:"receiptNumber"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"createdAt"`
}

func toDonationDTO(d *domain.Donation) donationDTO {
	return donationDTO{
		ID:                d.ID,
		Amount:            d.AmountInt,
		PhoneNumber:       d.PhoneNumber,
		CheckoutRequestID: d.CheckoutRequestID,
		ReceiptNumber:     d.ReceiptNumber,
		Status:            string(d.Status),
		CreatedAt:         d.CreatedAt,
	}
}

// DonationsInitiate pushes a payment prompt to the giver's handset and records
// the attempt as pending before returning, so the asynchronous callback always
// has a row to reconcile against.
func (a *App) DonationsInitiate(w http.ResponseWriter, r *http.Request) {
	id, ok := a.identity(r)
	if !ok {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var req initiateDonationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Amount <= 0 {
		a.error(w, http.StatusBadRequest, "bad_request", "amount must be positive")
		return
	}
	phone, err := normalizePhone(req.PhoneNumber)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	if !a.Payments.HasCredentials() {
		a.error(w, http.StatusBadGateway, "gateway_unavailable", "payment gateway is not configured")
		return
	}

	ctx, cancel := contextWithTimeout(r, a.Cfg.GatewayTimeout)
	defer cancel()
	push, err := a.Payments.InitiateSTKPush(ctx, daraja.PushRequest{
		AmountKES:        req.Amount,
		PhoneNumber:      phone,
		AccountReference: "Kihingo Church",
		Description:      "Church donation",
	})
	if err != nil {
		a.Logger.Error().Err(err).Str("user_id", id.UserID).Msg("stk push failed")
		a.domainError(w, gatewayError(err), "failed to initiate donation")
		return
	}

	if _, err := a.Donations.CreatePending(r.Context(), &domain.Donation{
		UserID:            id.UserID,
		AmountInt:         req.Amount,
		PhoneNumber:       phone,
		CheckoutRequestID: push.CheckoutRequestID,
	}); err != nil {
		a.Logger.Error().Err(err).
			Str("checkout_request_id", push.CheckoutRequestID).
			Msg("persist pending donation failed")
		a.domainError(w, err, "failed to record donation")
		return
	}

	a.json(w, http.StatusOK, initiateDonationResponse{
		CheckoutRequestID: push.CheckoutRequestID,
		CustomerMessage:   push.CustomerMessage,
	})
}

// DonationsCallback reconciles the provider's asynchronous settlement report.
// The provider retries on non-200 replies, so every branch acknowledges with
// its expected body; persistence failures are logged and absorbed.
func (a *App) DonationsCallback(w http.ResponseWriter, r *http.Request) {
	defer a.ackCallback(w)

	var envelope daraja.CallbackEnvelope
	if err := json.NewDecoder(r.Body).Decode(&envelope); err != nil {
		a.Logger.Warn().Err(err).Msg("unreadable payment callback")
		return
	}
	cb := envelope.Body.StkCallback
	if cb.CheckoutRequestID == "" {
		a.Logger.Warn().Msg("payment callback without checkout request id")
		return
	}

	if !cb.Succeeded() {
		if _, err := a.Donations.Fail(r.Context(), cb.CheckoutRequestID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			a.Logger.Error().Err(err).
				Str("checkout_request_id", cb.CheckoutRequestID).
				Msg("mark donation failed errored")
		}
		return
	}

	details, err := cb.PaymentDetails()
	if err != nil {
		a.Logger.Error().Err(err).
			Str("checkout_request_id", cb.CheckoutRequestID).
			Msg("payment callback missing metadata")
		return
	}

	donation, err := a.Donations.Complete(r.Context(), cb.CheckoutRequestID, details.ReceiptNumber, details.AmountKES)
	if errors.Is(err, domain.ErrNotFound) {
		donation, err = a.recoverUnmatchedPayment(r, cb.CheckoutRequestID, details)
	}
	if err != nil {
		a.Logger.Error().Err(err).
			Str("checkout_request_id", cb.CheckoutRequestID).
			Msg("reconcile donation failed")
		return
	}
	if donation != nil {
		a.notifyDonationSettled(r, donation)
	}
}

// recoverUnmatchedPayment records a settled payment that has no pending row,
// attributing it to the member owning the paying phone number. The unique
// receipt constraint keeps callback replays from duplicating the record.
func (a *App) recoverUnmatchedPayment(r *http.Request, checkoutRequestID string, details *daraja.PaymentDetails) (*domain.Donation, error) {
	user, err := a.Users.GetByPhoneNumber(r.Context(), details.PhoneNumber)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.Logger.Warn().
				Str("checkout_request_id", checkoutRequestID).
				Msg("settled payment from unknown phone number")
			return nil, nil
		}
		return nil, err
	}
	receipt := details.ReceiptNumber
	donation := &domain.Donation{
		UserID:            user.ID,
		AmountInt:         details.AmountKES,
		PhoneNumber:       details.PhoneNumber,
		CheckoutRequestID: checkoutRequestID,
		ReceiptNumber:     &receipt,
		Status:            domain.DonationCompleted,
	}
	inserted, err := a.Donations.InsertCompleted(r.Context(), donation)
	if err != nil {
		return nil, err
	}
	if !inserted {
		// Replay of an already recorded receipt.
		return nil, nil
	}
	return donation, nil
}

func (a *App) notifyDonationSettled(r *http.Request, donation *domain.Donation) {
	content := fmt.Sprintf("Thank you for your donation of KES %d.", donation.AmountInt)
	if _, err := a.Notifications.Create(r.Context(), &domain.Notification{
		UserID:  donation.UserID,
		Content: content,
	}); err != nil {
		a.Logger.Error().Err(err).Str("user_id", donation.UserID).Msg("donation notification failed")
	}
}

func (a *App) ackCallback(w http.ResponseWriter) {
	a.json(w, http.StatusOK, map[string]any{"ResultCode": 0, "ResultDesc": "Accepted"})
}

// DonationsList returns the caller's own giving history.
func (a *App) DonationsList(w http.ResponseWriter, r *http.Request) {
	id, ok := a.identity(r)
	if !ok {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	donations, err := a.Donations.ListByUser(r.Context(), id.UserID)
	if err != nil {
		a.domainError(w, err, "failed to load donations")
		return
	}
	items := make([]donationDTO, 0, len(donations))
	for i := range donations {
		items = append(items, toDonationDTO(&donations[i]))
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

// gatewayError folds provider client errors into the domain taxonomy.
func gatewayError(err error) error {
	switch {
	case errors.Is(err, daraja.ErrRejected):
		return domain.ErrGatewayRejected
	case errors.Is(err, daraja.ErrUnavailable), errors.Is(err, daraja.ErrMissingCredentials):
		return domain.ErrGatewayUnavailable
	}
	return err
}

// normalizePhone coerces local formats to the 254XXXXXXXXX form the provider
// expects.
func normalizePhone(raw string) (string, error) {
	phone := strings.TrimSpace(raw)
	phone = strings.TrimPrefix(phone, "+")
	if strings.HasPrefix(phone, "0") {
		phone = "254" + phone[1:]
	}
	if len(phone) != 12 || !strings.HasPrefix(phone, "254") {
		return "", errors.New("phoneNumber must be a valid 2547XXXXXXXX number")
	}
	for _, c := range phone {
		if c < '0' || c > '9' {
			return "", errors.New("phoneNumber must contain digits only")
		}
	}
	return phone, nil
}
