// Package supabase implements the store interfaces against a hosted PostgREST (Supabase) backend.
package supabase

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

	"yople/internal/adapters/storage"
)

// DefaultTimeout bounds every round-trip to the hosted store.
const DefaultTimeout = 25 * time.Second

// uniqueViolation is the Postgres SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

// PageSize is the number of rows requested per page by unbounded lists.
// It must not exceed the project's max-rows setting (1000 on Supabase).
const PageSize = 1000

// Client talks to the PostgREST endpoint of one Supabase project.
type Client struct {
	baseURL  string
	apiKey   string
	http     *http.Client
	pageSize int
}

// NewClient builds a client for baseURL authenticated with a service key.
// PRE: baseURL is the project URL without the /rest/v1 suffix
// POST: every request carries the apikey and bearer headers
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   apiKey,
		http:     &http.Client{Timeout: timeout},
		pageSize: PageSize,
	}
}

// APIError is a non-2xx PostgREST response.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("supabase: status %d", e.Status)
	}
	return e.Message
}

// isDuplicateKey reports a unique violation, which PostgREST returns as 409 with code 23505.
func (e *APIError) isDuplicateKey() bool {
	return e.Status == http.StatusConflict && e.Code == uniqueViolation
}

// request is one PostgREST call.
type request struct {
	method string
	table  string
	query  url.Values
	prefer string
	body   any
}

// do sends req and decodes a JSON array response into out when out is non-nil.
// POST: a unique violation is returned wrapped around storage.ErrDuplicate
func (c *Client) do(ctx context.Context, req request, out any) (http.Header, error) {
	u := c.baseURL + "/rest/v1/" + req.table
	if len(req.query) > 0 {
		u += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		j, err := json.Marshal(req.body)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(j)
	}

	hreq, err := http.NewRequestWithContext(ctx, req.method, u, body)
	if err != nil {
		return nil, err
	}
	hreq.Header.Set("apikey", c.apiKey)
	hreq.Header.Set("Authorization", "Bearer "+c.apiKey)
	hreq.Header.Set("Content-Type", "application/json")
	hreq.Header.Set("Accept", "application/json")
	if req.prefer != "" {
		hreq.Header.Set("Prefer", req.prefer)
	}

	resp, err := c.http.Do(hreq)
	if err != nil {
		return nil, fmt.Errorf("supabase %s %s: %w", req.method, req.table, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("supabase %s %s: read body: %w", req.method, req.table, err)
	}
	if resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		_ = json.Unmarshal(data, apiErr)
		if apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(data))
		}
		if apiErr.isDuplicateKey() {
			return nil, fmt.Errorf("supabase %s %s: %w: %s", req.method, req.table, storage.ErrDuplicate, apiErr.Message)
		}
		return nil, fmt.Errorf("supabase %s %s: %w", req.method, req.table, apiErr)
	}
	if out != nil && len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return nil, fmt.Errorf("supabase %s %s: decode: %w", req.method, req.table, err)
		}
	}
	return resp.Header, nil
}

// selectRows runs a GET and decodes the rows into out.
func (c *Client) selectRows(ctx context.Context, table string, query url.Values, out any) error {
	_, err := c.do(ctx, request{method: http.MethodGet, table: table, query: query}, out)
	return err
}

// selectAll pages through a GET with limit/offset until a short page comes back.
// PRE: query orders by a unique key so pages neither overlap nor skip rows
// POST: returns every matching row; query is not modified
func selectAll[T any](ctx context.Context, c *Client, table string, query url.Values) ([]T, error) {
	q := url.Values{}
	for k, v := range query {
		q[k] = v
	}
	size := c.pageSize
	if size <= 0 {
		size = PageSize
	}
	q.Set("limit", strconv.Itoa(size))

	var all []T
	for offset := 0; ; offset += size {
		q.Set("offset", strconv.Itoa(offset))
		var page []T
		if err := c.selectRows(ctx, table, q, &page); err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < size {
			return all, nil
		}
	}
}

// insert posts one row without asking for it back.
func (c *Client) insert(ctx context.Context, table string, row any) error {
	_, err := c.do(ctx, request{method: http.MethodPost, table: table, prefer: "return=minimal", body: row}, nil)
	return err
}

// mutate runs a PATCH or DELETE filtered by id and reports storage.ErrNotFound when nothing matched.
func (c *Client) mutate(ctx context.Context, method, table, id string, body any) error {
	var rows []json.RawMessage
	_, err := c.do(ctx, request{
		method: method,
		table:  table,
		query:  url.Values{"id": {"eq." + id}},
		prefer: "return=representation",
		body:   body,
	}, &rows)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("%s %s: %w", table, id, storage.ErrNotFound)
	}
	return nil
}

// count asks PostgREST for an exact row count via the Content-Range header.
func (c *Client) count(ctx context.Context, table string, query url.Values) (int, error) {
	q := url.Values{}
	for k, v := range query {
		q[k] = v
	}
	q.Set("select", "id")
	q.Set("limit", "1")
	var rows []json.RawMessage
	header, err := c.do(ctx, request{method: http.MethodGet, table: table, query: q, prefer: "count=exact"}, &rows)
	if err != nil {
		return 0, err
	}
	return parseContentRangeTotal(header.Get("Content-Range"), len(rows))
}

// parseContentRangeTotal reads the total from "0-24/42" or "*/0".
func parseContentRangeTotal(v string, fallback int) (int, error) {
	i := strings.LastIndex(v, "/")
	if i < 0 || v[i+1:] == "*" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v[i+1:])
	if err != nil {
		return 0, errors.New("supabase: malformed Content-Range " + strconv.Quote(v))
	}
	return n, nil
}

// Ping checks that the REST endpoint answers with the configured key.
func (c *Client) Ping(ctx context.Context) error {
	var rows []json.RawMessage
	return c.selectRows(ctx, "users", url.Values{"select": {"id"}, "limit": {"1"}}, &rows)
}

func parseTime(s string) time.Time {
	t, err := storage.ParseTime(s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
