// Package spotify wraps the Spotify Web API calls used for music
// recommendations and converts responses into catalog records.
package spotify

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/zmb3/spotify/v2"
)

const (
	// DefaultBaseURL is the Spotify Web API root. It must end with a slash.
	DefaultBaseURL = "https://api.spotify.com/v1/"

	// DefaultMarket is the market used for search and playlist lookups.
	DefaultMarket = "US"

	// GlobalTop50 is Spotify's editorial Global Top 50 playlist.
	GlobalTop50 = "37i9dQZEVXbMDoHDwVN2tF"
)

// ErrUnauthorized is returned when Spotify rejects the bearer token.
var ErrUnauthorized = errors.New("spotify: unauthorized")

// Client wraps the Spotify API client with convenience methods.
type Client struct {
	api    *spotify.Client
	market string
}

// Option configures a Client.
type Option func(*config)

type config struct {
	baseURL string
	market  string
}

// WithBaseURL points the client at a different API root.
func WithBaseURL(u string) Option {
	return func(c *config) {
		c.baseURL = u
	}
}

// WithMarket sets the market code sent with requests.
func WithMarket(m string) Option {
	return func(c *config) {
		c.market = m
	}
}

// New creates a Spotify client. httpClient must authorize its requests,
// for example with auth.TokenCache.Client.
func New(httpClient *http.Client, opts ...Option) *Client {
	cfg := config{baseURL: DefaultBaseURL, market: DefaultMarket}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Client{
		api:    spotify.New(httpClient, spotify.WithBaseURL(cfg.baseURL)),
		market: cfg.market,
	}
}

// wrapErr annotates err, mapping a 401 from the API to ErrUnauthorized.
func wrapErr(action string, err error) error {
	var apiErr spotify.Error
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
		return fmt.Errorf("%s: %w: %s", action, ErrUnauthorized, apiErr.Message)
	}
	return fmt.Errorf("%s: %w", action, err)
}
