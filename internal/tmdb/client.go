// Package tmdb is a small client for The Movie Database v3 API.
package tmdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/justestif/go-vibecast/internal/catalog"
)

const (
	// DefaultBaseURL is the TMDB v3 API root.
	DefaultBaseURL = "https://api.themoviedb.org/3"
	userAgent      = "vibecast/1.0"
)

// Sentinel errors.
var (
	// ErrMissingToken is returned when no read access token is configured.
	ErrMissingToken = errors.New("missing TMDB read access token")

	// ErrUnauthorized is returned when TMDB rejects the access token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRateLimited is returned when TMDB answers 429.
	ErrRateLimited = errors.New("rate limit exceeded")
)

// StatusError is returned for non-2xx responses not covered by a sentinel.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("tmdb: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("tmdb: status %d", e.Status)
}

// Page is one normalized page of movie results.
type Page struct {
	Number       int
	TotalPages   int
	TotalResults int
	Movies       []catalog.Movie
}

// DiscoverQuery selects movies from /discover/movie.
type DiscoverQuery struct {
	Genres   []int // all of; empty means no genre filter
	Page     int
	MinVotes int
}

// Client is a TMDB API client authenticated with a v4 read access token.
type Client struct {
	token      string
	httpClient *http.Client
	baseURL    string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API root.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a TMDB client. Returns ErrMissingToken if token is empty.
func NewClient(token string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	c := &Client{
		token: token,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: DefaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Discover fetches one page of movies sorted by popularity.
func (c *Client) Discover(ctx context.Context, q DiscoverQuery) (*Page, error) {
	params := url.Values{
		"sort_by": {"popularity.desc"},
		"page":    {strconv.Itoa(max(q.Page, 1))},
	}
	if q.MinVotes > 0 {
		params.Set("vote_count.gte", strconv.Itoa(q.MinVotes))
	}
	if len(q.Genres) > 0 {
		ids := make([]string, len(q.Genres))
		for i, g := range q.Genres {
			ids[i] = strconv.Itoa(g)
		}
		params.Set("with_genres", strings.Join(ids, ","))
	}

	page, err := c.getPage(ctx, "/discover/movie", params)
	if err != nil {
		return nil, fmt.Errorf("discovering movies: %w", err)
	}
	return page, nil
}

// Popular fetches one page of the popular movies list.
func (c *Client) Popular(ctx context.Context, page int) (*Page, error) {
	params := url.Values{"page": {strconv.Itoa(max(page, 1))}}

	p, err := c.getPage(ctx, "/movie/popular", params)
	if err != nil {
		return nil, fmt.Errorf("fetching popular movies: %w", err)
	}
	return p, nil
}

func (c *Client) getPage(ctx context.Context, path string, params url.Values) (*Page, error) {
	body, err := c.doRequest(ctx, path, params)
	if err != nil {
		return nil, err
	}

	var resp pageResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}
	return convertPage(resp), nil
}

// doRequest performs a single authenticated GET and returns the body of a
// 2xx response.
func (c *Client) doRequest(ctx context.Context, path string, params url.Values) ([]byte, error) {
	reqURL := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, nil
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	}

	var apiErr apiError
	_ = json.Unmarshal(body, &apiErr)
	return nil, &StatusError{Status: resp.StatusCode, Message: apiErr.StatusMessage}
}
