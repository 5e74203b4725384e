// Package rest adapts the hosted records API (PostgREST dialect) to the
// store contract.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hrmslite/hrms/internal/core/domain"
	"github.com/hrmslite/hrms/internal/core/ports"
)

const (
	defaultRecordsPath = "/api/database/records"
	defaultTimeout     = 10 * time.Second
	// maxResponseBytes bounds how much of a response body is read.
	maxResponseBytes = 8 << 20
)

// Config captures the settings for talking to the hosted store.
type Config struct {
	BaseURL     string
	AnonKey     string
	RecordsPath string
	Timeout     time.Duration
	// HTTPClient overrides the client built from Timeout.
	HTTPClient *http.Client
}

// Client is a ports.Store backed by the hosted records API.
type Client struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
	log        zerolog.Logger
}

var _ ports.Store = (*Client)(nil)

// New validates cfg and returns a client. No request is made.
func New(cfg Config, log zerolog.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("rest: base URL is required")
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("rest: invalid base URL %q: %w", cfg.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("rest: base URL %q must be http or https", cfg.BaseURL)
	}
	if cfg.AnonKey == "" {
		return nil, fmt.Errorf("rest: anon key is required")
	}

	path := cfg.RecordsPath
	if path == "" {
		path = defaultRecordsPath
	}
	path = "/" + strings.Trim(path, "/")

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/") + path,
		anonKey:    cfg.AnonKey,
		httpClient: httpClient,
		log:        log.With().Str("component", "rest_store").Logger(),
	}, nil
}

func (c *Client) Employees() ports.EmployeeRepository    { return &EmployeeRepository{c: c} }
func (c *Client) Attendance() ports.AttendanceRepository { return &AttendanceRepository{c: c} }

// Ping issues a one-row read of the employees collection.
func (c *Client) Ping(ctx context.Context) error {
	q := url.Values{}
	q.Set("select", "id")
	q.Set("limit", "1")
	if _, err := c.doRequest(ctx, http.MethodGet, ports.CollectionEmployees, q, nil); err != nil {
		return fmt.Errorf("rest ping: %w", err)
	}
	return nil
}

// Close releases idle connections.
func (c *Client) Close(context.Context) error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// encodeQuery renders q in the PostgREST filter dialect:
// field=eq.value for each filter and order=field.asc|desc.
func encodeQuery(q ports.Query) url.Values {
	v := url.Values{}
	for _, f := range q.Filters {
		v.Add(f.Field, "eq."+f.Value)
	}
	if q.Order != nil {
		dir := "asc"
		if q.Order.Descending {
			dir = "desc"
		}
		v.Set("order", q.Order.Field+"."+dir)
	}
	return v
}

func (c *Client) list(ctx context.Context, collection string, q ports.Query, out any) error {
	body, err := c.doRequest(ctx, http.MethodGet, collection, encodeQuery(q), nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &domain.StoreError{Kind: domain.ErrStoreFailure, Err: fmt.Errorf("decode %s list: %w", collection, err)}
	}
	return nil
}

// insert posts a one-element array and decodes the stored row into out.
func (c *Client) insert(ctx context.Context, collection string, in any, out any) error {
	body, err := c.doRequest(ctx, http.MethodPost, collection, nil, []any{in})
	if err != nil {
		return err
	}
	var rows []json.RawMessage
	if err := json.Unmarshal(body, &rows); err != nil {
		return &domain.StoreError{Kind: domain.ErrStoreFailure, Err: fmt.Errorf("decode %s insert: %w", collection, err)}
	}
	if len(rows) == 0 {
		return &domain.StoreError{Kind: domain.ErrStoreFailure, Err: fmt.Errorf("%s insert returned no rows", collection)}
	}
	if err := json.Unmarshal(rows[0], out); err != nil {
		return &domain.StoreError{Kind: domain.ErrStoreFailure, Err: fmt.Errorf("decode %s row: %w", collection, err)}
	}
	return nil
}

func (c *Client) doRequest(ctx context.Context, method, collection string, query url.Values, requestBody any) ([]byte, error) {
	requestURL := c.baseURL + "/" + url.PathEscape(collection)
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return nil, fmt.Errorf("rest: encode request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("rest: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.anonKey)
	req.Header.Set("apikey", c.anonKey)
	if requestBody != nil {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Prefer", "return=representation")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("method", method).Str("collection", collection).Msg("store request failed")
		return nil, &domain.StoreError{Kind: domain.ErrStoreFailure, Err: fmt.Errorf("%s %s: %w", method, collection, err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &domain.StoreError{Kind: domain.ErrStoreFailure, Status: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	c.log.Debug().
		Str("method", method).
		Str("collection", collection).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("store request")

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, nil
	}
	return nil, decodeError(resp.StatusCode, body)
}
