package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"server/internal/infra"
)

// ErrMissingAPIKey indicates the client was configured without credentials.
var ErrMissingAPIKey = errors.New("youtube: api key is required")

// ErrUnavailable indicates a network failure or error reply from the platform.
var ErrUnavailable = errors.New("youtube: platform unavailable")

// Options configures the YouTube live-broadcast client.
type Options struct {
	APIKey         string
	BaseURL        string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client provisions and ends live broadcasts through the YouTube Data API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *infra.Logger
}

// Broadcast is the provisioning result for one scheduled livestream.
type Broadcast struct {
	BroadcastID string
	StreamID    string
	WatchURL    string
}

type broadcastSnippet struct {
	Title              string `json:"title"`
	Description        string `json:"description,omitempty"`
	ScheduledStartTime string `json:"scheduledStartTime,omitempty"`
	ScheduledEndTime   string `json:"scheduledEndTime,omitempty"`
}

type insertBroadcastRequest struct {
	Snippet broadcastSnippet `json:"snippet"`
	Status  struct {
		PrivacyStatus string `json:"privacyStatus"`
	} `json:"status"`
}

type insertStreamRequest struct {
	Snippet struct {
		Title string `json:"title"`
	} `json:"snippet"`
	CDN struct {
		Format        string `json:"format"`
		IngestionType string `json:"ingestionType"`
	} `json:"cdn"`
}

type apiResource struct {
	ID    string `json:"id"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
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
		baseURL = "https://www.googleapis.com/youtube/v3"
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
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

// HasCredentials reports whether the client can perform remote calls.
func (c *Client) HasCredentials() bool {
	return c.apiKey != ""
}

// CreateLiveBroadcast provisions a broadcast and its bound ingestion stream,
// returning the handle needed to end the broadcast later. The result is fully
// awaited; a provisioning failure surfaces as an error instead of racing the
// response.
func (c *Client) CreateLiveBroadcast(ctx context.Context, title, description string, start, end time.Time) (*Broadcast, error) {
	if !c.HasCredentials() {
		return nil, ErrMissingAPIKey
	}
	if strings.TrimSpace(title) == "" {
		return nil, errors.New("youtube: title is required")
	}

	broadcastReq := insertBroadcastRequest{
		Snippet: broadcastSnippet{
			Title:              title,
			Description:        description,
			ScheduledStartTime: start.UTC().Format(time.RFC3339),
			ScheduledEndTime:   end.UTC().Format(time.RFC3339),
		},
	}
	broadcastReq.Status.PrivacyStatus = "public"

	var broadcast apiResource
	if err := c.post(ctx, "/liveBroadcasts", url.Values{"part": {"snippet,status"}}, broadcastReq, &broadcast); err != nil {
		return nil, err
	}

	var streamReq insertStreamRequest
	streamReq.Snippet.Title = title + " Stream"
	streamReq.CDN.Format = "1080p"
	streamReq.CDN.IngestionType = "rtmp"

	var stream apiResource
	if err := c.post(ctx, "/liveStreams", url.Values{"part": {"snippet,cdn"}}, streamReq, &stream); err != nil {
		return nil, err
	}

	bindQuery := url.Values{
		"part":     {"id,snippet"},
		"id":       {broadcast.ID},
		"streamId": {stream.ID},
	}
	if err := c.post(ctx, "/liveBroadcasts/bind", bindQuery, nil, &apiResource{}); err != nil {
		return nil, err
	}

	c.logger.Debug().Str("broadcast_id", broadcast.ID).Msg("live broadcast provisioned")
	return &Broadcast{
		BroadcastID: broadcast.ID,
		StreamID:    stream.ID,
		WatchURL:    "https://www.youtube.com/watch?v=" + broadcast.ID,
	}, nil
}

// EndLiveBroadcast transitions the broadcast to the complete state.
func (c *Client) EndLiveBroadcast(ctx context.Context, broadcastID string) error {
	if !c.HasCredentials() {
		return ErrMissingAPIKey
	}
	if strings.TrimSpace(broadcastID) == "" {
		return errors.New("youtube: broadcast id is required")
	}
	query := url.Values{
		"part":              {"status"},
		"id":                {broadcastID},
		"broadcastStatus":   {"complete"},
		"notifySubscribers": {"false"},
	}
	return c.post(ctx, "/liveBroadcasts/transition", query, nil, &apiResource{})
}

func (c *Client) post(ctx context.Context, path string, query url.Values, payload any, out *apiResource) error {
	query.Set("key", c.apiKey)
	endpoint := c.baseURL + path + "?" + query.Encode()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("youtube: encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return fmt.Errorf("youtube: build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("youtube: http request: %v: %w", err, ErrUnavailable)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("youtube: read response: %v: %w", err, ErrUnavailable)
	}
	if resp.StatusCode >= 300 {
		var detail apiResource
		if jsonErr := json.Unmarshal(raw, &detail); jsonErr == nil && detail.Error != nil {
			return fmt.Errorf("youtube: %s (code %d): %w", detail.Error.Message, detail.Error.Code, ErrUnavailable)
		}
		return fmt.Errorf("youtube: status %d: %s: %w",
			resp.StatusCode, strings.TrimSpace(string(raw)), ErrUnavailable)
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("youtube: decode response: %v: %w", err, ErrUnavailable)
		}
	}
	return nil
}
