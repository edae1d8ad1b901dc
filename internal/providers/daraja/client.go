package daraja

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"server/internal/infra"
)

// ErrMissingCredentials indicates the client was configured without a
// consumer key/secret or shortcode/passkey pair.
var ErrMissingCredentials = errors.New("daraja: credentials are required")

// ErrUnavailable indicates a network failure or non-2xx reply from the provider.
var ErrUnavailable = errors.New("daraja: gateway unavailable")

// ErrRejected indicates the provider acknowledged the request but refused it.
var ErrRejected = errors.New("daraja: push request rejected")

const timestampLayout = "20060102150405"

// Options configures the Daraja push-payment client.
type Options struct {
	ConsumerKey    string
	ConsumerSecret string
	Passkey        string
	Shortcode      string
	BaseURL        string
	CallbackURL    string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client performs the provider's OAuth-then-push call sequence. The access
// token is fetched fresh per push; pushes are infrequent enough that caching
// is not worth the staleness handling.
type Client struct {
	consumerKey    string
	consumerSecret string
	passkey        string
	shortcode      string
	baseURL        string
	callbackURL    string
	httpClient     *http.Client
	logger         *infra.Logger
	now            func() time.Time
}

// PushRequest captures the inputs for one customer push payment.
type PushRequest struct {
	AmountKES        int64
	PhoneNumber      string
	AccountReference string
	Description      string
}

// PushResponse is the provider's acknowledgement of an accepted push request.
// It signals the request was queued to the customer's handset, not that the
// payment settled; settlement arrives on the callback URL.
type PushResponse struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   string `json:"expires_in"`
}

type pushPayload struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	TransactionType   string `json:"TransactionType"`
	Amount            int64  `json:"Amount"`
	PartyA            string `json:"PartyA"`
	PartyB            string `json:"PartyB"`
	PhoneNumber       string `json:"PhoneNumber"`
	CallBackURL       string `json:"CallBackURL"`
	AccountReference  string `json:"AccountReference"`
	TransactionDesc   string `json:"TransactionDesc"`
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://sandbox.safaricom.co.ke"
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Client{
		consumerKey:    strings.TrimSpace(opts.ConsumerKey),
		consumerSecret: strings.TrimSpace(opts.ConsumerSecret),
		passkey:        strings.TrimSpace(opts.Passkey),
		shortcode:      strings.TrimSpace(opts.Shortcode),
		baseURL:        baseURL,
		callbackURL:    strings.TrimSpace(opts.CallbackURL),
		httpClient:     httpClient,
		logger:         logger,
		now:            time.Now,
	}
}

// HasCredentials reports whether the client can perform remote calls.
func (c *Client) HasCredentials() bool {
	return c.consumerKey != "" && c.consumerSecret != "" && c.passkey != "" && c.shortcode != ""
}

// AccessToken fetches a short-lived bearer token from the provider's OAuth endpoint.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	if !c.HasCredentials() {
		return "", ErrMissingCredentials
	}
	endpoint := c.baseURL + "/oauth/v1/generate?grant_type=client_credentials"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("daraja: build token request: %w", err)
	}
	basic := base64.StdEncoding.EncodeToString([]byte(c.consumerKey + ":" + c.consumerSecret))
	req.Header.Set("Authorization", "Basic "+basic)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("daraja: token request: %v: %w", err, ErrUnavailable)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("daraja: read token response: %v: %w", err, ErrUnavailable)
	}
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("daraja: token status %d: %s: %w",
			resp.StatusCode, strings.TrimSpace(string(raw)), ErrUnavailable)
	}
	var decoded tokenResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("daraja: decode token response: %v: %w", err, ErrUnavailable)
	}
	if decoded.AccessToken == "" {
		return "", fmt.Errorf("daraja: empty access token: %w", ErrUnavailable)
	}
	return decoded.AccessToken, nil
}

// InitiateSTKPush submits a push-payment request for the given amount and
// phone number. The returned acknowledgement carries the CheckoutRequestID
// used to correlate the asynchronous result callback.
func (c *Client) InitiateSTKPush(ctx context.Context, push PushRequest) (*PushResponse, error) {
	if !c.HasCredentials() {
		return nil, ErrMissingCredentials
	}
	if push.AmountKES <= 0 {
		return nil, errors.New("daraja: amount must be positive")
	}
	if strings.TrimSpace(push.PhoneNumber) == "" {
		return nil, errors.New("daraja: phone number is required")
	}

	token, err := c.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	timestamp := c.now().Format(timestampLayout)
	password := base64.StdEncoding.EncodeToString([]byte(c.shortcode + c.passkey + timestamp))
	payload := pushPayload{
		BusinessShortCode: c.shortcode,
		Password:          password,
		Timestamp:         timestamp,
		TransactionType:   "CustomerPayBillOnline",
		Amount:            push.AmountKES,
		PartyA:            push.PhoneNumber,
		PartyB:            c.shortcode,
		PhoneNumber:       push.PhoneNumber,
		CallBackURL:       c.callbackURL,
		AccountReference:  push.AccountReference,
		TransactionDesc:   push.Description,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("daraja: encode push request: %w", err)
	}

	endpoint := c.baseURL + "/mpesa/stkpush/v1/processrequest"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("daraja: build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("daraja: push request: %v: %w", err, ErrUnavailable)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("daraja: read push response: %v: %w", err, ErrUnavailable)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("daraja: push status %d: %s: %w",
			resp.StatusCode, strings.TrimSpace(string(raw)), ErrUnavailable)
	}

	var decoded PushResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("daraja: decode push response: %v: %w", err, ErrUnavailable)
	}
	if decoded.ResponseCode != "0" {
		return nil, fmt.Errorf("daraja: %s (code %s): %w",
			decoded.ResponseDescription, decoded.ResponseCode, ErrRejected)
	}
	c.logger.Debug().
		Str("checkout_request_id", decoded.CheckoutRequestID).
		Int64("amount", push.AmountKES).
		Msg("push request accepted")
	return &decoded, nil
}
