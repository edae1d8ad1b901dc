package imagehost

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"
)

type captureTransport struct {
	status      int
	body        string
	lastURL     string
	lastRequest *http.Request
	lastForm    map[string]string
	lastFile    []byte
}

func (t *captureTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.lastURL = req.URL.String()
	t.lastRequest = req
	if err := req.ParseMultipartForm(1 << 20); err == nil {
		t.lastForm = map[string]string{}
		for name, values := range req.MultipartForm.Value {
			if len(values) > 0 {
				t.lastForm[name] = values[0]
			}
		}
		if files := req.MultipartForm.File["file"]; len(files) > 0 {
			f, err := files[0].Open()
			if err == nil {
				t.lastFile, _ = io.ReadAll(f)
				f.Close()
			}
		}
	}
	return &http.Response{
		StatusCode: t.status,
		Body:       io.NopCloser(bytes.NewBufferString(t.body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}, nil
}

func newTestClient(transport *captureTransport) *Client {
	client := NewClient(Options{
		CloudName: "demo",
		APIKey:    "key123",
		APISecret: "secret456",
	})
	client.httpClient = &http.Client{Transport: transport}
	client.now = func() time.Time { return time.Unix(1709993405, 0) }
	return client
}

func TestUploadSignsRequest(t *testing.T) {
	transport := &captureTransport{
		status: http.StatusOK,
		body:   `{"secure_url":"https://res.example.com/demo/event-images/abc.jpg","public_id":"event-images/abc"}`,
	}
	client := newTestClient(transport)

	result, err := client.Upload(context.Background(), "poster.jpg", []byte("image-bytes"))
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if result.SecureURL != "https://res.example.com/demo/event-images/abc.jpg" {
		t.Fatalf("unexpected secure url %q", result.SecureURL)
	}
	if transport.lastURL != "https://api.cloudinary.com/v1_1/demo/image/upload" {
		t.Fatalf("unexpected endpoint %q", transport.lastURL)
	}
	if got := transport.lastForm["api_key"]; got != "key123" {
		t.Fatalf("api_key = %q", got)
	}
	if got := transport.lastForm["folder"]; got != "event-images" {
		t.Fatalf("folder = %q", got)
	}
	if got := transport.lastForm["timestamp"]; got != "1709993405" {
		t.Fatalf("timestamp = %q", got)
	}
	sum := sha1.Sum([]byte("folder=event-images&timestamp=1709993405" + "secret456"))
	if got := transport.lastForm["signature"]; got != hex.EncodeToString(sum[:]) {
		t.Fatalf("signature = %q", got)
	}
	if string(transport.lastFile) != "image-bytes" {
		t.Fatalf("file payload = %q", transport.lastFile)
	}
}

func TestUploadRequiresCredentials(t *testing.T) {
	client := NewClient(Options{})
	if _, err := client.Upload(context.Background(), "poster.jpg", []byte("x")); !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("expected ErrMissingCredentials, got %v", err)
	}
}

func TestUploadRejectsOversizedImage(t *testing.T) {
	client := newTestClient(&captureTransport{status: http.StatusOK, body: "{}"})
	_, err := client.Upload(context.Background(), "huge.jpg", make([]byte, MaxUploadSize+1))
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
}

func TestUploadSurfacesAPIError(t *testing.T) {
	transport := &captureTransport{
		status: http.StatusBadRequest,
		body:   `{"error":{"message":"Invalid signature"}}`,
	}
	client := newTestClient(transport)

	_, err := client.Upload(context.Background(), "poster.jpg", []byte("image-bytes"))
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if !strings.Contains(err.Error(), "Invalid signature") {
		t.Fatalf("error should carry API message, got %v", err)
	}
}
