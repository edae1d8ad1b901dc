package imagehost

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"server/internal/infra"
)

// ErrMissingCredentials indicates the client was configured without a cloud
// name or API key/secret.
var ErrMissingCredentials = errors.New("imagehost: credentials are required")

// ErrUnavailable indicates a network failure or error reply from the host.
var ErrUnavailable = errors.New("imagehost: upload service unavailable")

// ErrTooLarge indicates the image exceeds the upload size cap.
var ErrTooLarge = errors.New("imagehost: image exceeds size limit")

// MaxUploadSize caps event images at 5MB.
const MaxUploadSize = 5 << 20

// Options configures the image host client.
type Options struct {
	CloudName      string
	APIKey         string
	APISecret      string
	BaseURL        string
	Folder         string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client uploads images to a Cloudinary-style hosting API using signed
// multipart requests.
type Client struct {
	cloudName  string
	apiKey     string
	apiSecret  string
	baseURL    string
	folder     string
	httpClient *http.Client
	logger     *infra.Logger
	now        func() time.Time
}

// UploadResult is the hosted location of an uploaded image.
type UploadResult struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
}

type errorResponse struct {
	Error struct {
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
		baseURL = "https://api.cloudinary.com/v1_1"
	}
	folder := strings.TrimSpace(opts.Folder)
	if folder == "" {
		folder = "event-images"
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
		cloudName:  strings.TrimSpace(opts.CloudName),
		apiKey:     strings.TrimSpace(opts.APIKey),
		apiSecret:  strings.TrimSpace(opts.APISecret),
		baseURL:    baseURL,
		folder:     folder,
		httpClient: httpClient,
		logger:     logger,
		now:        time.Now,
	}
}

// HasCredentials reports whether the client can perform remote calls.
func (c *Client) HasCredentials() bool {
	return c.cloudName != "" && c.apiKey != "" && c.apiSecret != ""
}

// Upload pushes the image bytes to the host and returns the hosted URL. The
// call is fully awaited so a failed upload surfaces as an error to the caller
// instead of racing the HTTP response.
func (c *Client) Upload(ctx context.Context, filename string, data []byte) (*UploadResult, error) {
	if !c.HasCredentials() {
		return nil, ErrMissingCredentials
	}
	if len(data) == 0 {
		return nil, errors.New("imagehost: image data is required")
	}
	if len(data) > MaxUploadSize {
		return nil, ErrTooLarge
	}

	timestamp := strconv.FormatInt(c.now().Unix(), 10)
	signature := c.sign("folder=" + c.folder + "&timestamp=" + timestamp)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("imagehost: build form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("imagehost: write form: %w", err)
	}
	fields := map[string]string{
		"api_key":   c.apiKey,
		"timestamp": timestamp,
		"signature": signature,
		"folder":    c.folder,
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("imagehost: write field %s: %w", name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("imagehost: close form: %w", err)
	}

	endpoint := c.baseURL + "/" + c.cloudName + "/image/upload"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return nil, fmt.Errorf("imagehost: build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("imagehost: http request: %v: %w", err, ErrUnavailable)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("imagehost: read response: %v: %w", err, ErrUnavailable)
	}
	if resp.StatusCode >= 300 {
		var detail errorResponse
		if jsonErr := json.Unmarshal(raw, &detail); jsonErr == nil && detail.Error.Message != "" {
			return nil, fmt.Errorf("imagehost: %s: %w", detail.Error.Message, ErrUnavailable)
		}
		return nil, fmt.Errorf("imagehost: status %d: %s: %w",
			resp.StatusCode, strings.TrimSpace(string(raw)), ErrUnavailable)
	}

	var result UploadResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("imagehost: decode response: %v: %w", err, ErrUnavailable)
	}
	if result.SecureURL == "" {
		return nil, fmt.Errorf("imagehost: empty secure url: %w", ErrUnavailable)
	}
	c.logger.Debug().Str("public_id", result.PublicID).Msg("image uploaded")
	return &result, nil
}

func (c *Client) sign(payload string) string {
	sum := sha1.Sum([]byte(payload + c.apiSecret))
	return hex.EncodeToString(sum[:])
}
