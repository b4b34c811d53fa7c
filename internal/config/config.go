// Package config loads VibeCast settings from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds every setting the service reads at startup.
type Config struct {
	Addr        string `envconfig:"ADDR" default:"127.0.0.1:8080"`
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	SpotifyClientID         string        `envconfig:"SPOTIFY_CLIENT_ID" required:"true"`
	SpotifyClientSecret     string        `envconfig:"SPOTIFY_CLIENT_SECRET" required:"true"`
	SpotifyTokenURL         string        `envconfig:"SPOTIFY_TOKEN_URL" default:"https://accounts.spotify.com/api/token"`
	SpotifyAPIURL           string        `envconfig:"SPOTIFY_API_URL" default:"https://api.spotify.com/v1/"`
	SpotifyMarket           string        `envconfig:"SPOTIFY_MARKET" default:"US"`
	SpotifyTokenBuffer      time.Duration `envconfig:"SPOTIFY_TOKEN_BUFFER" default:"5m"`
	SpotifyTokenCache       string        `envconfig:"SPOTIFY_TOKEN_CACHE"`
	SpotifyFallbackPlaylist string        `envconfig:"SPOTIFY_FALLBACK_PLAYLIST" default:"37i9dQZEVXbMDoHDwVN2tF"`

	TMDBReadAccessToken string `envconfig:"TMDB_READ_ACCESS_TOKEN" required:"true"`
	TMDBAPIURL          string `envconfig:"TMDB_API_URL" default:"https://api.themoviedb.org/3"`

	SupabaseJWTSecret string `envconfig:"SUPABASE_JWT_SECRET" required:"true"`
	JWTAudience       string `envconfig:"JWT_AUDIENCE" default:"authenticated"`

	RateLimitPerMinute int           `envconfig:"RATE_LIMIT_PER_MINUTE" default:"60"`
	SessionTTL         time.Duration `envconfig:"SESSION_TTL" default:"24h"`

	Development bool   `envconfig:"DEVELOPMENT" default:"false"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	cfg := new(Config)
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	// envconfig accepts a required variable that is set but empty.
	required := []struct{ name, value string }{
		{"DATABASE_URL", c.DatabaseURL},
		{"SPOTIFY_CLIENT_ID", c.SpotifyClientID},
		{"SPOTIFY_CLIENT_SECRET", c.SpotifyClientSecret},
		{"TMDB_READ_ACCESS_TOKEN", c.TMDBReadAccessToken},
		{"SUPABASE_JWT_SECRET", c.SupabaseJWTSecret},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return fmt.Errorf("required key %s has an empty value", r.name)
		}
	}
	if c.SpotifyTokenBuffer < 0 {
		return fmt.Errorf("SPOTIFY_TOKEN_BUFFER must not be negative")
	}
	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must not be negative")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	return nil
}
