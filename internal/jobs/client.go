// Package jobs implements the calls the client makes against the job marketplace REST API:
// paginated job lists for both roles, the batch compare endpoint, filter options,
// recruiter statistics and the current-user profile.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/jonathan/jobhunter/internal/fetch"
	"github.com/jonathan/jobhunter/internal/schemas"
	"github.com/jonathan/jobhunter/internal/types"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Endpoint paths relative to the API base URL.
const (
	PathJobs          = "jobs/"
	PathRecruiterJobs = "recruiter/jobs/"
	PathCompare       = "jobs/compare/"
	PathCategories    = "categories/"
	PathLocations     = "locations/"
	PathStats         = "recruiter/jobs/stats/"
	PathCurrentUser   = "users/current-user/"
)

// Compare accepts between MinCompare and MaxCompare distinct ids.
const (
	MinCompare = 2
	MaxCompare = 5
)

// TransportError is a retryable failure talking to the backend: network, timeout, non-2xx
// status or a malformed response. It never implies the end of a list.
type TransportError struct {
	Op    string
	Page  int
	Cause error
}

func (e *TransportError) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("%s page %d: %v", e.Op, e.Page, e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// IsTransportError reports whether err is (or wraps) a *TransportError.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// Client talks to the job API through a fetch.Client.
type Client struct {
	http     *fetch.Client
	validate bool
	logger   logrus.FieldLogger
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithSchemaValidation toggles JSON Schema validation of list and compare responses (on by default).
func WithSchemaValidation(enabled bool) Option {
	return func(c *Client) {
		c.validate = enabled
	}
}

// NewClient creates a jobs client.
func NewClient(httpClient *fetch.Client, opts ...Option) *Client {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	c := &Client{
		http:     httpClient,
		validate: true,
		logger:   discard,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PageParams builds the query parameters of one list page request. Recruiter scope sends only the
// page number and the search text; category, locations, minimum salary and ordering are applicant filters.
func PageParams(role types.Role, query types.ListQuery, page int) url.Values {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	if text := strings.TrimSpace(query.Text); text != "" {
		params.Set("q", text)
	}
	if role == types.RoleRecruiter {
		return params
	}

	if query.CategoryID != nil {
		params.Set("category_id", strconv.FormatInt(*query.CategoryID, 10))
	}
	for _, id := range sortedUnique(query.LocationIDs) {
		params.Add("location_id", strconv.FormatInt(id, 10))
	}
	if query.MinSalary != nil {
		params.Set("salary_min", strconv.FormatInt(*query.MinSalary, 10))
	}
	if ordering := query.Ordering.ParamValue(); ordering != "" {
		params.Set("ordering", ordering)
	}
	return params
}

// FetchPage requests one page of the job list for role. A 404 on the page is the end of the
// data and yields an empty page with HasNext false; any other failure is a *TransportError.
func (c *Client) FetchPage(ctx context.Context, role types.Role, query types.ListQuery, page int) (*types.ListPage, error) {
	if page < 1 {
		return nil, fmt.Errorf("invalid page %d: pages are 1-based", page)
	}
	if role == "" {
		role = types.RoleApplicant
	}

	path := PathJobs
	if role == types.RoleRecruiter {
		path = PathRecruiterJobs
	}

	log := c.logger.WithFields(logrus.Fields{"role": role, "page": page, "query": query.String()})

	result, err := c.http.Get(ctx, path, PageParams(role, query, page), role == types.RoleRecruiter)
	if err != nil {
		if fetch.IsNotFound(err) {
			log.Debug("page not found, treating as end of data")
			return &types.ListPage{Page: page, Items: []types.JobSummary{}, HasNext: false}, nil
		}
		return nil, &TransportError{Op: "fetch jobs", Page: page, Cause: err}
	}

	if c.validate {
		if err := schemas.ValidateDocument(schemas.JobPage, result.Body); err != nil {
			return nil, &TransportError{Op: "fetch jobs", Page: page, Cause: err}
		}
	}

	var envelope types.PageEnvelope
	if err := fetch.DecodeJSON(result, &envelope); err != nil {
		return nil, &TransportError{Op: "fetch jobs", Page: page, Cause: err}
	}

	items := envelope.Results
	if items == nil {
		items = []types.JobSummary{}
	}
	log.WithFields(logrus.Fields{
		"request_id": result.RequestID,
		"items":      len(items),
		"has_next":   envelope.HasNext(),
	}).Debug("page fetched")

	return &types.ListPage{Page: page, Items: items, HasNext: envelope.HasNext()}, nil
}

// Compare fetches the full records of the given jobs in one request. The server
// deduplicates ids and returns records in its own order.
func (c *Client) Compare(ctx context.Context, ids []int64) ([]types.JobDetail, error) {
	unique := uniqueInOrder(ids)
	if len(unique) < MinCompare || len(unique) > MaxCompare {
		return nil, fmt.Errorf("compare needs between %d and %d distinct ids, got %d", MinCompare, MaxCompare, len(unique))
	}

	parts := make([]string, len(unique))
	for i, id := range unique {
		parts[i] = strconv.FormatInt(id, 10)
	}
	params := url.Values{"ids": {strings.Join(parts, ",")}}

	result, err := c.http.Get(ctx, PathCompare, params, false)
	if err != nil {
		return nil, &TransportError{Op: "compare jobs", Cause: err}
	}
	if c.validate {
		if err := schemas.ValidateDocument(schemas.JobList, result.Body); err != nil {
			return nil, &TransportError{Op: "compare jobs", Cause: err}
		}
	}

	var details []types.JobDetail
	if err := fetch.DecodeJSON(result, &details); err != nil {
		return nil, &TransportError{Op: "compare jobs", Cause: err}
	}
	return details, nil
}

// Categories lists the job categories.
func (c *Client) Categories(ctx context.Context) ([]types.Category, error) {
	var categories []types.Category
	if err := c.getJSON(ctx, "list categories", PathCategories, nil, false, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// Locations lists the cities jobs can be located in.
func (c *Client) Locations(ctx context.Context) ([]types.Location, error) {
	var locations []types.Location
	if err := c.getJSON(ctx, "list locations", PathLocations, nil, false, &locations); err != nil {
		return nil, err
	}
	return locations, nil
}

// FilterOptions fetches categories and locations concurrently.
func (c *Client) FilterOptions(ctx context.Context) (*types.FilterOptions, error) {
	var opts types.FilterOptions
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		categories, err := c.Categories(gctx)
		opts.Categories = categories
		return err
	})
	g.Go(func() error {
		locations, err := c.Locations(gctx)
		opts.Locations = locations
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &opts, nil
}

// RecruiterStats fetches the authenticated recruiter's application and view statistics.
// A zero year lets the server pick the current year.
func (c *Client) RecruiterStats(ctx context.Context, period types.StatsPeriod, year int) (*types.StatsReport, error) {
	params := url.Values{}
	if period != "" {
		params.Set("period", string(period))
	}
	if year > 0 {
		params.Set("year", strconv.Itoa(year))
	}

	result, err := c.http.Get(ctx, PathStats, params, true)
	if err != nil {
		return nil, &TransportError{Op: "recruiter stats", Cause: err}
	}
	if c.validate {
		if err := schemas.ValidateDocument(schemas.Stats, result.Body); err != nil {
			return nil, &TransportError{Op: "recruiter stats", Cause: err}
		}
	}

	var report types.StatsReport
	if err := fetch.DecodeJSON(result, &report); err != nil {
		return nil, &TransportError{Op: "recruiter stats", Cause: err}
	}
	return &report, nil
}

// CurrentUser loads the profile of the authenticated user.
func (c *Client) CurrentUser(ctx context.Context) (*types.User, error) {
	var user types.User
	if err := c.getJSON(ctx, "current user", PathCurrentUser, nil, true, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) getJSON(ctx context.Context, op, path string, params url.Values, authenticated bool, out any) error {
	result, err := c.http.Get(ctx, path, params, authenticated)
	if err != nil {
		return &TransportError{Op: op, Cause: err}
	}
	if err := fetch.DecodeJSON(result, out); err != nil {
		return &TransportError{Op: op, Cause: err}
	}
	return nil
}
