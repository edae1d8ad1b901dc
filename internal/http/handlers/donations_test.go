package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"server/internal/domain"
	"server/internal/middleware"
	"server/internal/providers/daraja"
)

func successCallbackBody(checkoutRequestID, receipt, phone string, amount int64) string {
	return fmt.Sprintf(`{
		"Body": {
			"stkCallback": {
				"MerchantRequestID": "29115-34620561-1",
				"CheckoutRequestID": %q,
				"ResultCode": 0,
				"ResultDesc": "The service request is processed successfully.",
				"CallbackMetadata": {
					"Item": [
						{"Name": "Amount", "Value": %d},
						{"Name": "MpesaReceiptNumber", "Value": %q},
						{"Name": "TransactionDate", "Value": 20240309143005},
						{"Name": "PhoneNumber", "Value": %s}
					]
				}
			}
		}
	}`, checkoutRequestID, amount, receipt, phone)
}

func failureCallbackBody(checkoutRequestID string) string {
	return fmt.Sprintf(`{
		"Body": {
			"stkCallback": {
				"MerchantRequestID": "29115-34620561-1",
				"CheckoutRequestID": %q,
				"ResultCode": 1032,
				"ResultDesc": "Request cancelled by user."
			}
		}
	}`, checkoutRequestID)
}

func postCallback(t *testing.T, app *App, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/donations/callback", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	app.DonationsCallback(rec, req)
	return rec
}

func assertCallbackAck(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != http.StatusOK {
		t.Fatalf("callback returned %d, provider expects 200", rec.Code)
	}
	var ack struct {
		ResultCode int    `json:"ResultCode"`
		ResultDesc string `json:"ResultDesc"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &ack); err != nil {
		t.Fatalf("decode ack: %v", err)
	}
	if ack.ResultCode != 0 || ack.ResultDesc != "Accepted" {
		t.Fatalf("ack = %+v, want ResultCode 0 / Accepted", ack)
	}
}

func TestDonationsInitiatePersistsPendingRecord(t *testing.T) {
	app, store := newTestApp()
	_, id := registerMember(t, app, "jane@example.com", "254712345678")

	rec := postJSON(t, app.DonationsInitiate, "/api/donations/initiate", map[string]any{
		"amount":      500,
		"phoneNumber": "0712345678",
	}, &id)
	if rec.Code != http.StatusOK {
		t.Fatalf("DonationsInitiate returned %d: %s", rec.Code, rec.Body.String())
	}

	if len(store.donations) != 1 {
		t.Fatalf("expected 1 persisted donation, got %d", len(store.donations))
	}
	d := store.donations[0]
	if d.Status != domain.DonationPending {
		t.Fatalf("donation status = %q, want pending", d.Status)
	}
	if d.CheckoutRequestID != "ws_CO_0001" {
		t.Fatalf("checkout request id = %q", d.CheckoutRequestID)
	}
	if d.PhoneNumber != "254712345678" {
		t.Fatalf("local phone format was not normalized, got %q", d.PhoneNumber)
	}
	if d.UserID != id.UserID {
		t.Fatalf("donation attributed to %q, want %q", d.UserID, id.UserID)
	}
}

func TestDonationsInitiateGatewayRejected(t *testing.T) {
	app, store := newTestApp()
	_, id := registerMember(t, app, "jane@example.com", "254712345678")
	app.Payments.(*fakePaymentGateway).pushErr = daraja.ErrRejected

	rec := postJSON(t, app.DonationsInitiate, "/api/donations/initiate", map[string]any{
		"amount":      500,
		"phoneNumber": "254712345678",
	}, &id)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("rejected push returned %d, want 502", rec.Code)
	}
	if len(store.donations) != 0 {
		t.Fatalf("no donation should persist when the push fails, got %d", len(store.donations))
	}
}

func TestDonationsInitiateValidatesAmount(t *testing.T) {
	app, _ := newTestApp()
	_, id := registerMember(t, app, "jane@example.com", "254712345678")

	rec := postJSON(t, app.DonationsInitiate, "/api/donations/initiate", map[string]any{
		"amount":      0,
		"phoneNumber": "254712345678",
	}, &id)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("zero amount returned %d, want 400", rec.Code)
	}
}

func TestDonationsCallbackCompletesPendingAndNotifies(t *testing.T) {
	app, store := newTestApp()
	_, id := registerMember(t, app, "jane@example.com", "254712345678")
	postJSON(t, app.DonationsInitiate, "/api/donations/initiate", map[string]any{
		"amount":      500,
		"phoneNumber": "254712345678",
	}, &id)

	rec := postCallback(t, app, successCallbackBody("ws_CO_0001", "RKS7YQWXN1", "254712345678", 500))
	assertCallbackAck(t, rec)

	d := store.donations[0]
	if d.Status != domain.DonationCompleted {
		t.Fatalf("donation status = %q, want completed", d.Status)
	}
	if d.ReceiptNumber == nil || *d.ReceiptNumber != "RKS7YQWXN1" {
		t.Fatalf("receipt number = %v, want RKS7YQWXN1", d.ReceiptNumber)
	}
	if len(store.notifications) != 1 || store.notifications[0].UserID != id.UserID {
		t.Fatalf("expected a settlement notification for the giver, got %+v", store.notifications)
	}
}

func TestDonationsCallbackReplayIsIdempotent(t *testing.T) {
	app, store := newTestApp()
	_, id := registerMember(t, app, "jane@example.com", "254712345678")
	postJSON(t, app.DonationsInitiate, "/api/donations/initiate", map[string]any{
		"amount":      500,
		"phoneNumber": "254712345678",
	}, &id)

	body := successCallbackBody("ws_CO_0001", "RKS7YQWXN1", "254712345678", 500)
	assertCallbackAck(t, postCallback(t, app, body))
	assertCallbackAck(t, postCallback(t, app, body))

	if len(store.donations) != 1 {
		t.Fatalf("replayed callback duplicated the donation: %d records", len(store.donations))
	}
	if len(store.notifications) != 1 {
		t.Fatalf("replayed callback duplicated the notification: %d", len(store.notifications))
	}
}

func TestDonationsCallbackFailureMarksFailed(t *testing.T) {
	app, store := newTestApp()
	_, id := registerMember(t, app, "jane@example.com", "254712345678")
	postJSON(t, app.DonationsInitiate, "/api/donations/initiate", map[string]any{
		"amount":      500,
		"phoneNumber": "254712345678",
	}, &id)

	assertCallbackAck(t, postCallback(t, app, failureCallbackBody("ws_CO_0001")))

	if store.donations[0].Status != domain.DonationFailed {
		t.Fatalf("donation status = %q, want failed", store.donations[0].Status)
	}
	if len(store.notifications) != 0 {
		t.Fatalf("failed payment must not notify, got %d", len(store.notifications))
	}
}

func TestDonationsCallbackUnmatchedPaymentRecoveredByPhone(t *testing.T) {
	app, store := newTestApp()
	_, id := registerMember(t, app, "jane@example.com", "254712345678")

	// No pending row exists for this checkout request.
	rec := postCallback(t, app, successCallbackBody("ws_CO_9999", "RKS7YQWXN2", "254712345678", 250))
	assertCallbackAck(t, rec)

	if len(store.donations) != 1 {
		t.Fatalf("expected recovered donation, got %d", len(store.donations))
	}
	d := store.donations[0]
	if d.UserID != id.UserID {
		t.Fatalf("recovered donation attributed to %q, want %q", d.UserID, id.UserID)
	}
	if d.Status != domain.DonationCompleted || d.AmountInt != 250 {
		t.Fatalf("recovered donation = %+v", d)
	}
}

func TestDonationsCallbackUnknownPhoneAcksWithoutPersisting(t *testing.T) {
	app, store := newTestApp()

	rec := postCallback(t, app, successCallbackBody("ws_CO_9999", "RKS7YQWXN3", "254700000000", 100))
	assertCallbackAck(t, rec)

	if len(store.donations) != 0 {
		t.Fatalf("unknown phone should not persist a donation, got %d", len(store.donations))
	}
}

func TestDonationsCallbackUnreadablePayloadStillAcks(t *testing.T) {
	app, _ := newTestApp()
	assertCallbackAck(t, postCallback(t, app, "not-json"))
}

func TestDonationsListScopedToCaller(t *testing.T) {
	app, _ := newTestApp()
	_, jane := registerMember(t, app, "jane@example.com", "254712345678")
	_, peter := registerMember(t, app, "peter@example.com", "254798765432")

	postJSON(t, app.DonationsInitiate, "/api/donations/initiate", map[string]any{
		"amount":      500,
		"phoneNumber": "254712345678",
	}, &jane)

	req := httptest.NewRequest(http.MethodGet, "/api/donations", nil)
	req = req.WithContext(middleware.ContextWithIdentity(req.Context(), peter))
	rec := httptest.NewRecorder()
	app.DonationsList(rec, req)

	var resp struct {
		Items []json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(resp.Items) != 0 {
		t.Fatalf("another member's donations leaked: %d items", len(resp.Items))
	}
}

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"254712345678", "254712345678", false},
		{"0712345678", "254712345678", false},
		{"+254712345678", "254712345678", false},
		{"712345678", "", true},
		{"25471234567a", "", true},
		{"", "", true},
	}
	for _, tc := range cases {
		got, err := normalizePhone(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("normalizePhone(%q) expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("normalizePhone(%q) error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("normalizePhone(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
