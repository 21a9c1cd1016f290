// Package fetch provides the JSON-over-HTTP client used to talk to the job marketplace API.
// This package centralizes request building, authentication headers and error typing.
package fetch

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

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 15 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "JobHunterClient/1.0"

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// Result holds the raw response of a request.
type Result struct {
	URL         string
	Body        []byte
	ContentType string
	StatusCode  int
	RequestID   string
}

// Error represents an error during a request. StatusCode is 0 when no response was received.
type Error struct {
	URL        string
	Message    string
	StatusCode int
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// IsNotFound reports whether err is an HTTP 404 from the server.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// StatusCode returns the HTTP status carried by err, or 0 if err is not a *Error with a response.
func StatusCode(err error) int {
	var fetchErr *Error
	if errors.As(err, &fetchErr) {
		return fetchErr.StatusCode
	}
	return 0
}

// ErrAuthRequired is returned when an authenticated request is made without a bearer source.
var ErrAuthRequired = errors.New("authentication required")

// BearerSource supplies the access token for authenticated requests.
type BearerSource interface {
	BearerToken(ctx context.Context) (string, error)
}

// Options configures the client behavior.
type Options struct {
	Timeout    time.Duration
	UserAgent  string
	Headers    map[string]string
	HTTPClient *http.Client // overrides Timeout when set
}

// DefaultOptions returns sensible defaults for requests.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// Client issues requests against one API base URL.
type Client struct {
	base    *url.URL
	http    *http.Client
	options *Options
	bearer  BearerSource
	logger  logrus.FieldLogger
}

// NewClient creates a client for the API rooted at baseURL.
func NewClient(baseURL string, opts *Options) (*Client, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, &Error{
			URL:     baseURL,
			Message: "invalid base URL",
			Cause:   err,
		}
	}
	// Relative endpoint paths resolve under the base path only when it ends in a slash.
	if !strings.HasSuffix(parsed.Path, "/") {
		parsed.Path += "/"
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	discard := logrus.New()
	discard.SetOutput(io.Discard)

	return &Client{
		base:    parsed,
		http:    httpClient,
		options: opts,
		logger:  discard,
	}, nil
}

// WithBearer returns a copy of the client that authenticates with src.
func (c *Client) WithBearer(src BearerSource) *Client {
	cp := *c
	cp.bearer = src
	return &cp
}

// WithLogger returns a copy of the client that logs requests to logger.
func (c *Client) WithLogger(logger logrus.FieldLogger) *Client {
	cp := *c
	if logger != nil {
		cp.logger = logger
	}
	return &cp
}

// BaseURL returns the normalized API base URL.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// Resolve builds the absolute URL for an endpoint path and query parameters.
func (c *Client) Resolve(path string, params url.Values) string {
	ref := &url.URL{Path: strings.TrimPrefix(path, "/")}
	if len(params) > 0 {
		ref.RawQuery = params.Encode()
	}
	return c.base.ResolveReference(ref).String()
}

// Get performs a GET request. When authenticated is true the bearer token is attached.
// Non-2xx responses return the Result together with a *Error carrying the status code.
func (c *Client) Get(ctx context.Context, path string, params url.Values, authenticated bool) (*Result, error) {
	urlStr := c.Resolve(path, params)
	requestID := uuid.NewString()
	log := c.logger.WithFields(logrus.Fields{"request_id": requestID, "url": urlStr})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, &Error{
			URL:     urlStr,
			Message: "failed to create request",
			Cause:   err,
		}
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.options.UserAgent)
	req.Header.Set(RequestIDHeader, requestID)
	for key, value := range c.options.Headers {
		req.Header.Set(key, value)
	}

	if authenticated {
		if c.bearer == nil {
			return nil, &Error{URL: urlStr, Message: "no credentials", Cause: ErrAuthRequired}
		}
		token, err := c.bearer.BearerToken(ctx)
		if err != nil {
			return nil, &Error{URL: urlStr, Message: "failed to obtain bearer token", Cause: err}
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.WithError(err).Debug("request failed")
		return nil, &Error{
			URL:     urlStr,
			Message: "HTTP request failed",
			Cause:   err,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{
			URL:        urlStr,
			Message:    "failed to read response body",
			StatusCode: resp.StatusCode,
			Cause:      err,
		}
	}

	log.WithFields(logrus.Fields{
		"status":   resp.StatusCode,
		"duration": time.Since(start).Round(time.Millisecond),
	}).Debug("request completed")

	result := &Result{
		URL:         urlStr,
		Body:        bodyBytes,
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
		RequestID:   requestID,
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := fmt.Sprintf("HTTP status %d", resp.StatusCode)
		if detail := serverMessage(bodyBytes); detail != "" {
			message += ": " + detail
		}
		return result, &Error{
			URL:        urlStr,
			Message:    message,
			StatusCode: resp.StatusCode,
		}
	}

	return result, nil
}

// DecodeJSON unmarshals the result body into out.
func DecodeJSON(result *Result, out any) error {
	if result == nil {
		return errors.New("no response to decode")
	}
	if err := json.Unmarshal(result.Body, out); err != nil {
		return &Error{
			URL:        result.URL,
			Message:    "failed to decode JSON response",
			StatusCode: result.StatusCode,
			Cause:      err,
		}
	}
	return nil
}

// serverMessage extracts the human-readable message from a backend error body
// ({"error": "..."} or {"detail": "..."}).
func serverMessage(body []byte) string {
	var payload struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Error != "" {
		return payload.Error
	}
	return payload.Detail
}
