// Package mailjet is a small client for the contact endpoints of the Mailjet
// REST v3 API.
package mailjet

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	DefaultBaseURL = "https://api.mailjet.com"
	DefaultTimeout = 10 * time.Second

	// ActionAddNoForce adds a contact to a list without resubscribing it if
	// it previously unsubscribed.
	ActionAddNoForce = "addnoforce"
)

// APIError is the error body Mailjet returns on a failed call.
type APIError struct {
	StatusCode   int    `json:"StatusCode"`
	ErrorInfo    string `json:"ErrorInfo"`
	ErrorMessage string `json:"ErrorMessage"`
}

func (e *APIError) Error() string {
	if e.ErrorMessage == "" {
		return fmt.Sprintf("mailjet: status %d", e.StatusCode)
	}
	return fmt.Sprintf("mailjet: status %d: %s", e.StatusCode, e.ErrorMessage)
}

// IsAlreadyExists reports whether err is Mailjet refusing to create a
// contact whose email is already known.
func IsAlreadyExists(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return strings.Contains(strings.ToLower(apiErr.ErrorMessage), "already exists")
}

// Contact is a Mailjet contact.
type Contact struct {
	ID    int64  `json:"ID"`
	Email string `json:"Email"`
	Name  string `json:"Name"`
}

// ListMembership is one entry of a contact's list subscriptions.
type ListMembership struct {
	ListID   int64 `json:"ListID"`
	IsActive bool  `json:"IsActive"`
	IsUnsub  bool  `json:"IsUnsub"`
}

type envelope[T any] struct {
	Count int `json:"Count"`
	Data  []T `json:"Data"`
	Total int `json:"Total"`
}

// Client calls the Mailjet API with basic auth.
type Client struct {
	baseURL    string
	apiKey     string
	apiSecret  string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another API host.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// New creates a client. Requests are traced through otelhttp and may only
// reach public addresses.
func New(apiKey, apiSecret string, opts ...Option) *Client {
	c := &Client{
		baseURL:   DefaultBaseURL,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		httpClient: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: otelhttp.NewTransport(PublicTransport),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateContact creates a contact and returns its ID.
func (c *Client) CreateContact(ctx context.Context, email, name string) (int64, error) {
	body := map[string]any{
		"Email":                   email,
		"Name":                    name,
		"IsExcludedFromCampaigns": false,
	}
	var out envelope[Contact]
	if err := c.do(ctx, http.MethodPost, "/v3/REST/contact", body, &out); err != nil {
		return 0, err
	}
	if len(out.Data) == 0 {
		return 0, fmt.Errorf("mailjet: create contact returned no data")
	}
	return out.Data[0].ID, nil
}

// GetContact looks a contact up by email or ID. A missing contact returns
// (nil, nil).
func (c *Client) GetContact(ctx context.Context, emailOrID string) (*Contact, error) {
	var out envelope[Contact]
	err := c.do(ctx, http.MethodGet, "/v3/REST/contact/"+url.PathEscape(emailOrID), nil, &out)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	if len(out.Data) == 0 {
		return nil, nil
	}
	return &out.Data[0], nil
}

// ContactLists returns the lists a contact belongs to.
func (c *Client) ContactLists(ctx context.Context, contactID int64) ([]ListMembership, error) {
	var out envelope[ListMembership]
	path := "/v3/REST/contact/" + strconv.FormatInt(contactID, 10) + "/getcontactslists"
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	if out.Data == nil {
		return []ListMembership{}, nil
	}
	return out.Data, nil
}

// ManageListContact applies action to email on the given list.
func (c *Client) ManageListContact(ctx context.Context, listID, email, name, action string) error {
	body := map[string]any{
		"Email":      email,
		"Name":       name,
		"Action":     action,
		"Properties": map[string]any{},
	}
	path := "/v3/REST/contactslist/" + url.PathEscape(listID) + "/managecontact"
	return c.do(ctx, http.MethodPost, path, body, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("mailjet: encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("mailjet: build request: %w", err)
	}
	req.SetBasicAuth(c.apiKey, c.apiSecret)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("mailjet: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("mailjet: read response: %w", err)
	}

	if resp.StatusCode >= 300 {
		apiErr := &APIError{}
		if len(data) > 0 {
			_ = json.Unmarshal(data, apiErr)
		}
		apiErr.StatusCode = resp.StatusCode
		if apiErr.ErrorMessage == "" {
			apiErr.ErrorMessage = strings.TrimSpace(string(data))
		}
		return apiErr
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("mailjet: decode response: %w", err)
	}
	return nil
}
