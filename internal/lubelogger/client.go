package lubelogger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Client is a LubeLogger API client using basic authentication.
type Client struct {
	// baseURL is the base URL of the LubeLogger instance.
	baseURL string

	// httpClient is the HTTP client for making requests.
	httpClient *http.Client

	// password is the basic auth password.
	password string

	// username is the basic auth username.
	username string
}

// NewClient creates a new LubeLogger API client for the given instance.
func NewClient(baseURL, username, password string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("base URL is required")
	}
	if username == "" {
		return nil, errors.New("username is required")
	}
	if password == "" {
		return nil, errors.New("password is required")
	}

	o := defaultOptions()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, fmt.Errorf("applying option: %w", err)
		}
	}

	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: o.timeout}
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		password:   password,
		username:   username,
	}, nil
}

// AddFillUp creates a fuel record for a vehicle and returns the API response
// message. Rejections (non-2xx status or an unsuccessful envelope) are
// returned as an *APIError.
func (c *Client) AddFillUp(ctx context.Context, vehicleID int, fill *FillUp) (string, error) {
	params := url.Values{}
	params.Set("vehicleId", strconv.Itoa(vehicleID))

	form := url.Values{}
	for k, v := range fill.values() {
		form.Set(k, v)
	}

	reqURL := fmt.Sprintf("%s/api/vehicle/gasrecords/add?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &APIError{Message: strings.TrimSpace(string(body)), StatusCode: resp.StatusCode}
	}

	var result apiResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if !result.Success {
		return "", &APIError{Message: result.Message, StatusCode: resp.StatusCode}
	}

	return result.Message, nil
}

// FillUps returns all fuel records currently stored for a vehicle.
func (c *Client) FillUps(ctx context.Context, vehicleID int) ([]FillUp, error) {
	params := url.Values{}
	params.Set("vehicleId", strconv.Itoa(vehicleID))

	reqURL := fmt.Sprintf("%s/api/vehicle/gasrecords?%s", c.baseURL, params.Encode())

	var records []gasRecord
	if err := c.get(ctx, reqURL, &records); err != nil {
		return nil, fmt.Errorf("listing fuel records: %w", err)
	}

	fills := make([]FillUp, len(records))
	for i, g := range records {
		fills[i] = g.toFillUp()
	}

	return fills, nil
}

// Vehicle returns the registered vehicle with the given ID. The API only
// exposes a full vehicle listing, so the result is filtered client-side.
func (c *Client) Vehicle(ctx context.Context, vehicleID int) (*Vehicle, error) {
	reqURL := fmt.Sprintf("%s/api/vehicles", c.baseURL)

	var vehicles []Vehicle
	if err := c.get(ctx, reqURL, &vehicles); err != nil {
		return nil, fmt.Errorf("listing vehicles: %w", err)
	}

	for i := range vehicles {
		if vehicles[i].ID == vehicleID {
			return &vehicles[i], nil
		}
	}

	return nil, fmt.Errorf("no vehicle found with ID %d", vehicleID)
}

// get executes an authenticated GET request and decodes the JSON response.
func (c *Client) get(ctx context.Context, reqURL string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{Message: strings.TrimSpace(string(body)), StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}
