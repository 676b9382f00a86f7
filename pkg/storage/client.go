// Package storage is the HTTP client for the private object storage backend
// holding card artwork. The backend is an external collaborator: this client
// resolves a short-lived credentialed URL for an object and streams it, it
// never exposes a permanent public link.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	// ErrNotFound means the backend has no object under the requested key
	ErrNotFound = errors.New("storage: object not found")

	// ErrUpstream covers any other backend failure
	ErrUpstream = errors.New("storage: upstream failure")
)

// Object is one streamed read of a stored object. Callers own Body and must
// close it.
type Object struct {
	Body        io.ReadCloser
	ContentType string
}

// Client represents an object storage API client
type Client struct {
	BaseURL     string
	ServiceKey  string
	Bucket      string
	MockStorage bool
	client      *http.Client
}

// NewClient creates a new storage client
func NewClient(baseURL, serviceKey, bucket string, mockStorage bool) *Client {
	return &Client{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		ServiceKey:  serviceKey,
		Bucket:      bucket,
		MockStorage: mockStorage,
		client:      &http.Client{Timeout: 10 * time.Second},
	}
}

type signResponse struct {
	SignedURL string `json:"signedURL"`
}

// Fetch resolves a temporary credentialed URL for objectKey and opens a
// streamed read of it. Cancelling ctx aborts the upstream read.
func (c *Client) Fetch(ctx context.Context, objectKey string) (*Object, error) {
	if c.MockStorage {
		return c.mockFetch(objectKey)
	}

	signedURL, err := c.signObjectURL(ctx, objectKey)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, signedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return &Object{Body: resp.Body, ContentType: resp.Header.Get("Content-Type")}, nil
	case http.StatusNotFound:
		resp.Body.Close()
		return nil, ErrNotFound
	default:
		resp.Body.Close()
		return nil, fmt.Errorf("%w: unexpected status %d", ErrUpstream, resp.StatusCode)
	}
}

// signObjectURL asks the backend for a short-lived URL for objectKey
func (c *Client) signObjectURL(ctx context.Context, objectKey string) (string, error) {
	endpoint := fmt.Sprintf("%s/object/sign/%s/%s", c.BaseURL, url.PathEscape(c.Bucket), escapeKey(objectKey))
	body := strings.NewReader(`{"expiresIn":60}`)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.ServiceKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return "", ErrNotFound
	default:
		return "", fmt.Errorf("%w: sign returned status %d", ErrUpstream, resp.StatusCode)
	}

	var sr signResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return "", fmt.Errorf("%w: decoding sign response: %v", ErrUpstream, err)
	}
	if sr.SignedURL == "" {
		return "", fmt.Errorf("%w: empty signed URL", ErrUpstream)
	}
	if strings.HasPrefix(sr.SignedURL, "/") {
		return c.BaseURL + sr.SignedURL, nil
	}
	return sr.SignedURL, nil
}

// escapeKey escapes each path segment of an object key, keeping the slashes
func escapeKey(objectKey string) string {
	parts := strings.Split(objectKey, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}

// mockFetch serves a deterministic placeholder object for local development
// without a storage backend
func (c *Client) mockFetch(objectKey string) (*Object, error) {
	if objectKey == "" || strings.Contains(objectKey, "missing") {
		return nil, ErrNotFound
	}
	payload := "mock object data for " + objectKey
	return &Object{
		Body:        io.NopCloser(strings.NewReader(payload)),
		ContentType: "image/png",
	}, nil
}
