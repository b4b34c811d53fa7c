// Package auth obtains and caches the app-level bearer token used to call
// the music provider.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// DefaultBuffer is how long before expiry a cached token is treated as stale.
const DefaultBuffer = 5 * time.Minute

// DefaultTokenURL is the Spotify accounts token endpoint.
const DefaultTokenURL = "https://accounts.spotify.com/api/token"

var (
	// ErrMissingCredentials is returned when the client id or secret is empty.
	ErrMissingCredentials = errors.New("missing client id or client secret")

	// ErrTokenExchange is returned when the token endpoint rejects the
	// exchange or answers without an access token.
	ErrTokenExchange = errors.New("token exchange failed")
)

// Config holds the client-credentials settings.
type Config struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
	Buffer       time.Duration
}

// TokenCache hands out a client-credentials token, exchanging a new one
// when the cached token is within Buffer of its expiry.
//
// The mutex only guards the cached fields. Concurrent callers that all see
// a stale token will each exchange, and the last one to finish wins.
type TokenCache struct {
	creds      clientcredentials.Config
	buffer     time.Duration
	store      TokenStore
	httpClient *http.Client
	now        func() time.Time
	log        *zap.Logger

	mu     sync.Mutex
	token  *oauth2.Token
	loaded bool
}

// Option configures a TokenCache.
type Option func(*TokenCache)

// WithStore persists tokens in s and loads from it on first use.
func WithStore(s TokenStore) Option {
	return func(c *TokenCache) {
		c.store = s
	}
}

// WithHTTPClient sets the client used for the token exchange.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *TokenCache) {
		c.httpClient = hc
	}
}

// WithClock overrides time.Now for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(c *TokenCache) {
		c.now = now
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *TokenCache) {
		c.log = l
	}
}

// NewTokenCache creates a TokenCache. Returns ErrMissingCredentials if the
// client id or secret is empty.
func NewTokenCache(cfg Config, opts ...Option) (*TokenCache, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, ErrMissingCredentials
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = DefaultTokenURL
	}
	if cfg.Buffer <= 0 {
		cfg.Buffer = DefaultBuffer
	}

	c := &TokenCache{
		creds: clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
			AuthStyle:    oauth2.AuthStyleInHeader,
		},
		buffer: cfg.Buffer,
		now:    time.Now,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Token returns a token valid for at least the buffer duration, exchanging
// a new one if needed. When the provider rejects the exchange the cached
// token is cleared from memory and from the store. An exchange cut short by
// ctx leaves the cache alone.
func (c *TokenCache) Token(ctx context.Context) (*oauth2.Token, error) {
	if tok := c.cached(); tok != nil {
		return tok, nil
	}

	tok, err := c.exchange(ctx)
	if err != nil {
		if !canceled(ctx, err) {
			c.Invalidate()
		}
		return nil, err
	}

	c.mu.Lock()
	c.token = tok
	c.mu.Unlock()

	if c.store != nil {
		if err := c.store.Save(tok); err != nil {
			c.log.Warn("saving provider token", zap.Error(err))
		}
	}
	return tok, nil
}

// Invalidate drops the cached token so the next call exchanges again.
func (c *TokenCache) Invalidate() {
	c.mu.Lock()
	c.token = nil
	c.loaded = true
	c.mu.Unlock()

	if c.store != nil {
		if err := c.store.Delete(); err != nil {
			c.log.Warn("clearing stored provider token", zap.Error(err))
		}
	}
}

// TokenSource adapts the cache to oauth2.TokenSource using ctx for exchanges.
func (c *TokenCache) TokenSource(ctx context.Context) oauth2.TokenSource {
	return &cacheSource{ctx: ctx, cache: c}
}

// Client returns an HTTP client that authorizes requests with the cached token.
func (c *TokenCache) Client(ctx context.Context) *http.Client {
	base := http.DefaultTransport
	if c.httpClient != nil && c.httpClient.Transport != nil {
		base = c.httpClient.Transport
	}
	return &http.Client{
		Transport: &oauth2.Transport{
			Source: c.TokenSource(ctx),
			Base:   base,
		},
	}
}

// cached returns the in-memory token if still fresh, loading from the
// store on first use.
func (c *TokenCache) cached() *oauth2.Token {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.loaded {
		c.loaded = true
		if c.store != nil {
			tok, err := c.store.Load()
			if err != nil {
				c.log.Warn("loading stored provider token", zap.Error(err))
			}
			c.token = tok
		}
	}

	if c.fresh(c.token) {
		return c.token
	}
	return nil
}

func (c *TokenCache) fresh(tok *oauth2.Token) bool {
	if tok == nil || tok.AccessToken == "" {
		return false
	}
	if tok.Expiry.IsZero() {
		return true
	}
	return c.now().Before(tok.Expiry.Add(-c.buffer))
}

func (c *TokenCache) exchange(ctx context.Context) (*oauth2.Token, error) {
	if c.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	}

	start := c.now()
	tok, err := c.creds.Token(ctx)
	if err != nil {
		c.log.Warn("provider token exchange failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrTokenExchange, err)
	}
	if tok.AccessToken == "" {
		return nil, fmt.Errorf("%w: response has no access token", ErrTokenExchange)
	}

	// Re-anchor the expiry on our clock so injected clocks stay consistent.
	if !tok.Expiry.IsZero() {
		if ttl := time.Until(tok.Expiry); ttl > 0 {
			tok.Expiry = start.Add(ttl)
		}
	}

	c.log.Debug("exchanged provider token", zap.Time("expiry", tok.Expiry))
	return tok, nil
}

func canceled(ctx context.Context, err error) bool {
	return ctx.Err() != nil ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

type cacheSource struct {
	ctx   context.Context
	cache *TokenCache
}

func (s *cacheSource) Token() (*oauth2.Token, error) {
	return s.cache.Token(s.ctx)
}
