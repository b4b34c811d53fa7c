// Command vibecast runs the VibeCast API server.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/justestif/go-vibecast/internal/auth"
	"github.com/justestif/go-vibecast/internal/config"
	"github.com/justestif/go-vibecast/internal/db"
	"github.com/justestif/go-vibecast/internal/journal"
	"github.com/justestif/go-vibecast/internal/recommend"
	"github.com/justestif/go-vibecast/internal/spotify"
	"github.com/justestif/go-vibecast/internal/tmdb"
	"github.com/justestif/go-vibecast/internal/web"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := cfg.NewLogger()
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer database.Close()

	if err := database.Migrate(ctx); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	// Spotify app token, optionally persisted across restarts
	var store auth.TokenStore = auth.NewMemoryStore()
	if cfg.SpotifyTokenCache != "" {
		fs := auth.NewFileStore(cfg.SpotifyTokenCache)
		log.Info("persisting provider token", zap.String("path", fs.Path()))
		store = fs
	}
	tokens, err := auth.NewTokenCache(auth.Config{
		ClientID:     cfg.SpotifyClientID,
		ClientSecret: cfg.SpotifyClientSecret,
		TokenURL:     cfg.SpotifyTokenURL,
		Buffer:       cfg.SpotifyTokenBuffer,
	}, auth.WithStore(store), auth.WithLogger(log.Named("auth")))
	if err != nil {
		return fmt.Errorf("creating token cache: %w", err)
	}

	music := spotify.New(tokens.Client(ctx),
		spotify.WithBaseURL(cfg.SpotifyAPIURL),
		spotify.WithMarket(cfg.SpotifyMarket),
	)

	movies, err := tmdb.NewClient(cfg.TMDBReadAccessToken, tmdb.WithBaseURL(cfg.TMDBAPIURL))
	if err != nil {
		return fmt.Errorf("creating TMDB client: %w", err)
	}

	recs := recommend.NewService(movies, music, tokens,
		recommend.WithLogger(log.Named("recommend")),
		recommend.WithFallbackPlaylist(cfg.SpotifyFallbackPlaylist),
	)

	sessions := recommend.NewSessions(cfg.SessionTTL)
	go sessions.Run(ctx, time.Hour)

	server, err := web.NewServer(web.ServerConfig{
		Addr:               cfg.Addr,
		JWTSecret:          cfg.SupabaseJWTSecret,
		JWTAudience:        cfg.JWTAudience,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Journal:            journal.New(database.MoodEntries(), log.Named("journal")),
		Recommender:        recs,
		Sessions:           sessions,
		Health:             database.Ping,
		Logger:             log.Named("http"),
	})
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	log.Info("vibecast ready",
		zap.String("addr", cfg.Addr),
		zap.Duration("session_ttl", cfg.SessionTTL),
		zap.Bool("token_cache_file", cfg.SpotifyTokenCache != ""),
	)
	return server.Run(ctx)
}
