// Package directory is the REST client for the FirmsFinder backend.
package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrFetchFailed covers transport faults, non-2xx statuses and malformed
	// bodies alike.
	ErrFetchFailed = errors.New("failed to load data")
	// ErrNotFound is returned by detail lookups for an absent entity.
	ErrNotFound = errors.New("not found")
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *APIError) Is(target error) bool {
	return target == ErrFetchFailed
}

// TokenSource supplies the bearer token for outbound requests.
type TokenSource interface {
	Token() (string, error)
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTokenSource attaches "Authorization: Bearer" when a token is stored.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// Client talks to the backend API rooted at baseURL.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	logger     *slog.Logger
}

func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type servicesPage struct {
	Services []Service `json:"services"`
}

// ListServices runs the backend search over services.
func (c *Client) ListServices(ctx context.Context, limit int, search string) ([]Service, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("search", search)

	var page servicesPage
	if err := c.getJSON(ctx, "/api/services/paginated?"+q.Encode(), &page); err != nil {
		return nil, fmt.Errorf("listing services: %w", err)
	}
	return page.Services, nil
}

func (c *Client) GetService(ctx context.Context, id string) (Service, error) {
	var s Service
	if err := c.getOne(ctx, "/api/services/", id, &s); err != nil {
		return Service{}, fmt.Errorf("getting service %s: %w", id, err)
	}
	return s, nil
}

func (c *Client) ListBlogs(ctx context.Context) ([]Blog, error) {
	var blogs []Blog
	if err := c.getJSON(ctx, "/api/blogs", &blogs); err != nil {
		return nil, fmt.Errorf("listing blogs: %w", err)
	}
	return blogs, nil
}

func (c *Client) GetBlog(ctx context.Context, id string) (Blog, error) {
	var b Blog
	if err := c.getOne(ctx, "/api/blogs/", id, &b); err != nil {
		return Blog{}, fmt.Errorf("getting blog %s: %w", id, err)
	}
	return b, nil
}

// ListInterviews returns interviews mapped for list views, with plain-text
// descriptions.
func (c *Client) ListInterviews(ctx context.Context) ([]Interview, error) {
	var records []interviewRecord
	if err := c.getJSON(ctx, "/api/interviews", &records); err != nil {
		return nil, fmt.Errorf("listing interviews: %w", err)
	}
	out := make([]Interview, len(records))
	for i, r := range records {
		out[i] = c.listingInterview(r)
	}
	return out, nil
}

// GetInterview returns one interview with its HTML description.
func (c *Client) GetInterview(ctx context.Context, id string) (Interview, error) {
	var r interviewRecord
	if err := c.getOne(ctx, "/api/interviews/", id, &r); err != nil {
		return Interview{}, fmt.Errorf("getting interview %s: %w", id, err)
	}
	return c.detailInterview(r), nil
}

func (c *Client) ListFAQs(ctx context.Context) ([]FAQ, error) {
	var faqs []FAQ
	if err := c.getJSON(ctx, "/api/faqs", &faqs); err != nil {
		return nil, fmt.Errorf("listing faqs: %w", err)
	}
	return faqs, nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var res LoginResult
	if err := c.postJSON(ctx, "/api/users/login", loginRequest{Email: email, Password: password}, &res); err != nil {
		return LoginResult{}, fmt.Errorf("logging in: %w", err)
	}
	if res.Token == "" || res.User.ID == "" {
		return LoginResult{}, fmt.Errorf("logging in: %w: response missing user or token", ErrFetchFailed)
	}
	return res, nil
}

func (c *Client) Register(ctx context.Context, r Registration) error {
	if err := c.postJSON(ctx, "/api/users/register", r, nil); err != nil {
		return fmt.Errorf("registering: %w", err)
	}
	return nil
}

func (c *Client) SubmitReview(ctx context.Context, r Review) error {
	if err := c.postJSON(ctx, "/api/reviews", r, nil); err != nil {
		return fmt.Errorf("submitting review: %w", err)
	}
	return nil
}

func (c *Client) getOne(ctx context.Context, prefix, id string, v any) error {
	err := c.getJSON(ctx, prefix+url.PathEscape(id), v)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return err
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	return c.do(ctx, http.MethodGet, path, nil, v)
}

func (c *Client) postJSON(ctx context.Context, path string, body, v any) error {
	return c.do(ctx, http.MethodPost, path, body, v)
}

// do sends one request and decodes a 2xx body into v (skipped when v is nil).
func (c *Client) do(ctx context.Context, method, path string, body, v any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshalling request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("%w: creating request: %w", ErrFetchFailed, err)
	}
	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if tok, err := c.tokens.Token(); err == nil && tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "method", method, "path", path, "request_id", reqID, "error", err)
		return fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	defer resp.Body.Close()
	c.logger.Debug("request",
		"method", method, "path", path, "status", resp.StatusCode,
		"request_id", reqID, "duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return readAPIError(resp)
	}
	if v == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: decoding response: %w", ErrFetchFailed, err)
	}
	return nil
}

// readAPIError builds an APIError from a message or error field, when the
// body carries one.
func readAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return apiErr
	}
	var body struct {
		Message string `json:"message"`
		Error   any    `json:"error"`
	}
	if json.Unmarshal(data, &body) != nil {
		return apiErr
	}
	switch e := body.Error.(type) {
	case string:
		apiErr.Message = e
	case map[string]any:
		if m, ok := e["message"].(string); ok {
			apiErr.Message = m
		}
	}
	if body.Message != "" {
		apiErr.Message = body.Message
	}
	return apiErr
}
