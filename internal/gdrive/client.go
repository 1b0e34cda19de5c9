// Package gdrive locates and downloads Fuelio backup archives from a Google
// Drive folder.
package gdrive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// defaultBaseURL is the Google Drive v3 API endpoint.
const defaultBaseURL = "https://www.googleapis.com/drive/v3"

// Client is a minimal Google Drive v3 API client, limited to the read
// operations needed to locate and download backup archives.
type Client struct {
	// baseURL is the base URL for API requests.
	baseURL string

	// httpClient is the authenticated HTTP client for making requests.
	httpClient *http.Client
}

// Option configures optional Client settings.
type Option func(*options) error

// options holds optional configuration for creating a Client.
type options struct {
	// baseURL is the base URL for API requests.
	baseURL string

	// httpClient is a custom HTTP client; when set, the configured auth
	// mode is bypassed.
	httpClient *http.Client
}

// WithBaseURL sets a custom base URL for the API.
func WithBaseURL(baseURL string) Option {
	return func(o *options) error {
		baseURL = strings.TrimSpace(baseURL)
		if baseURL == "" {
			return fmt.Errorf("base URL cannot be empty")
		}
		o.baseURL = baseURL
		return nil
	}
}

// WithHTTPClient sets a custom HTTP client, bypassing authentication.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *options) error {
		if httpClient == nil {
			return fmt.Errorf("HTTP client cannot be nil")
		}
		o.httpClient = httpClient
		return nil
	}
}

// NewClient authenticates with the configured mode and returns a Drive
// client. The caller does not need to know which auth mode is active.
func NewClient(ctx context.Context, mode AuthMode, creds Credentials, opts ...Option) (*Client, error) {
	o := &options{baseURL: defaultBaseURL}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, fmt.Errorf("applying option: %w", err)
		}
	}

	httpClient := o.httpClient
	if httpClient == nil {
		ts, err := tokenSource(ctx, mode, creds)
		if err != nil {
			return nil, fmt.Errorf("authenticating with google drive: %w", err)
		}
		httpClient = oauth2.NewClient(ctx, ts)
		httpClient.Timeout = 5 * time.Minute
	}

	return &Client{
		baseURL:    o.baseURL,
		httpClient: httpClient,
	}, nil
}

// File describes a Drive file entry.
type File struct {
	// CreatedTime is when the file was created in Drive.
	CreatedTime time.Time `json:"createdTime"`

	// ID is the Drive file identifier.
	ID string `json:"id"`

	// Name is the file name.
	Name string `json:"name"`
}

// fileListResponse is the Drive files.list response envelope.
type fileListResponse struct {
	// Files contains the matching file entries.
	Files []File `json:"files"`
}

// FindNewest returns the most recently created non-trashed file with the
// given name inside a folder, or an error when none exists.
func (c *Client) FindNewest(ctx context.Context, folderID, name string) (*File, error) {
	params := url.Values{}
	params.Set("q", fmt.Sprintf("'%s' in parents and name = '%s' and trashed = false", folderID, name))
	params.Set("orderBy", "createdTime desc")
	params.Set("pageSize", "1")
	params.Set("fields", "files(id, name, createdTime)")

	reqURL := fmt.Sprintf("%s/files?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var result fileListResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if len(result.Files) == 0 {
		return nil, fmt.Errorf("no file named %q found in folder %s", name, folderID)
	}

	return &result.Files[0], nil
}

// Download returns the raw content of a Drive file.
func (c *Client) Download(ctx context.Context, fileID string) ([]byte, error) {
	reqURL := fmt.Sprintf("%s/files/%s?alt=media", c.baseURL, url.PathEscape(fileID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading file content: %w", err)
	}

	return data, nil
}
