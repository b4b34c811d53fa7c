// Package recommend fetches mood-matched movie and music recommendations,
// rotating through provider results across repeated requests.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"

	"github.com/justestif/go-vibecast/internal/catalog"
	"github.com/justestif/go-vibecast/internal/genre"
	"github.com/justestif/go-vibecast/internal/mood"
	"github.com/justestif/go-vibecast/internal/rotation"
	"github.com/justestif/go-vibecast/internal/spotify"
	"github.com/justestif/go-vibecast/internal/tmdb"
)

var (
	// ErrNoRecommendations is returned when both sections came back empty.
	ErrNoRecommendations = errors.New("no recommendations available")

	// ErrSuperseded is returned when a newer fetch started on the same
	// session before this one finished. Its result is discarded.
	ErrSuperseded = errors.New("recommendation request superseded")

	errNoPlaylists = errors.New("no playlists found")
	errNoTracks    = errors.New("playlist has no playable tracks")
)

// MovieProvider abstracts the TMDB client for testing.
type MovieProvider interface {
	Discover(ctx context.Context, q tmdb.DiscoverQuery) (*tmdb.Page, error)
	Popular(ctx context.Context, page int) (*tmdb.Page, error)
}

// MusicProvider abstracts the Spotify client for testing.
type MusicProvider interface {
	SearchPlaylists(ctx context.Context, query string, limit int) ([]catalog.Playlist, error)
	PlaylistTracks(ctx context.Context, playlistID string, limit int) ([]catalog.Track, error)
}

// TokenProvider hands out the music provider's app token.
type TokenProvider interface {
	Token(ctx context.Context) (*oauth2.Token, error)
	Invalidate()
}

// Service produces recommendations for a session.
type Service struct {
	movies           MovieProvider
	music            MusicProvider
	tokens           TokenProvider
	log              *zap.Logger
	now              func() time.Time
	fallbackPlaylist string
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		s.log = l
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithFallbackPlaylist sets the playlist used when the mood search fails.
func WithFallbackPlaylist(id string) Option {
	return func(s *Service) {
		if id != "" {
			s.fallbackPlaylist = id
		}
	}
}

// NewService creates a recommendation service.
func NewService(movies MovieProvider, music MusicProvider, tokens TokenProvider, opts ...Option) *Service {
	s := &Service{
		movies:           movies,
		music:            music,
		tokens:           tokens,
		log:              zap.NewNop(),
		now:              time.Now,
		fallbackPlaylist: spotify.GlobalTop50,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch returns recommendations for m. The session's cursors move only
// when the result is delivered: a canceled or superseded fetch leaves them
// where they were, so the next fetch serves the same page.
//
// A token failure aborts the fetch. Provider failures fall back once to a
// generic list; a section whose fallback also fails is returned empty with
// a generic description. If both sections are empty the error wraps
// ErrNoRecommendations. Starting another Fetch on the same session cancels
// this one, which then returns ErrSuperseded.
func (s *Service) Fetch(ctx context.Context, sess *Session, m mood.Mood) (*Result, error) {
	ctx, gen := sess.begin(ctx, s.now())

	if _, err := s.tokens.Token(ctx); err != nil {
		if !sess.finish(gen, nil, nil) {
			return nil, ErrSuperseded
		}
		return nil, fmt.Errorf("getting music provider token: %w", err)
	}

	seeds := genre.ForMood(m)
	key := m.String()

	var (
		movies MovieSection
		music  MusicSection
		g      errgroup.Group
	)
	g.Go(func() error {
		movies = s.fetchMovies(ctx, key, sess.moviePages, seeds)
		return nil
	})
	g.Go(func() error {
		music = s.fetchMusic(ctx, key, sess.playlists, seeds)
		return nil
	})
	_ = g.Wait()

	// Canceled fetches deliver nothing, so cursors stay where they were.
	if err := ctx.Err(); err != nil {
		if !sess.finish(gen, nil, nil) {
			return nil, ErrSuperseded
		}
		return nil, fmt.Errorf("fetching recommendations: %w", err)
	}

	affirmation := sess.affirmations.Peek(key)
	commit := func() {
		advanceOrReset(sess.moviePages, key, movies.cursor)
		advanceOrReset(sess.playlists, key, music.cursor)
		sess.affirmations.Advance(key, affirmation)
	}

	result := &Result{
		Mood:        m,
		Description: seeds.MovieDescription,
		Movies:      movies,
		Music:       music,
		Affirmation: mood.Affirmation(m, s.now(), affirmation-1),
		FetchedAt:   s.now(),
	}
	if movies.Fallback || len(movies.Items) == 0 {
		result.Description = music.Description
	}

	if result.Empty() {
		if !sess.finish(gen, nil, commit) {
			return nil, ErrSuperseded
		}
		return nil, errors.Join(ErrNoRecommendations, movies.Err, music.Err)
	}

	if !sess.finish(gen, result, commit) {
		return nil, ErrSuperseded
	}

	s.log.Info("fetched recommendations",
		zap.String("session", sess.Key()),
		zap.String("mood", key),
		zap.Int("page", movies.Page),
		zap.Int("movies", len(movies.Items)),
		zap.Int("tracks", len(music.Items)),
	)
	return result, nil
}

func (s *Service) fetchMovies(ctx context.Context, key string, idx *rotation.Index, seeds genre.Seeds) MovieSection {
	page, served, err := rotation.Do(idx, key, func(cursor int) (*tmdb.Page, error) {
		p, err := s.movies.Discover(ctx, tmdb.DiscoverQuery{
			Genres:   seeds.MovieGenres,
			Page:     cursor,
			MinVotes: seeds.MovieMinVotes,
		})
		if err != nil {
			return nil, err
		}
		if cursor > p.TotalPages {
			return nil, fmt.Errorf("page %d of %d: %w", cursor, p.TotalPages, rotation.ErrOutOfRange)
		}
		if p.Number == 0 {
			p.Number = cursor
		}
		return p, nil
	})
	if err == nil && len(page.Movies) > 0 {
		return MovieSection{
			Items:       catalog.Truncate(page.Movies, catalog.MaxItems),
			Description: seeds.MovieDescription,
			Page:        page.Number,
			cursor:      served,
		}
	}
	if err == nil {
		err = errors.New("discover returned no movies")
	}

	if ctx.Err() != nil {
		return MovieSection{Items: []catalog.Movie{}, Description: genre.UnavailableDescription, Err: ctx.Err()}
	}
	s.log.Warn("movie discovery failed, using popular list", zap.String("mood", key), zap.Error(err))

	fb, fbErr := s.movies.Popular(ctx, 1)
	if fbErr != nil || len(fb.Movies) == 0 {
		if fbErr != nil {
			s.log.Warn("popular movies fallback failed", zap.String("mood", key), zap.Error(fbErr))
		}
		return MovieSection{Items: []catalog.Movie{}, Description: genre.UnavailableDescription, Err: err}
	}
	return MovieSection{
		Items:       catalog.Truncate(fb.Movies, catalog.MaxItems),
		Description: genre.FallbackMovieDescription,
		Page:        1,
		Fallback:    true,
		Err:         err,
	}
}

type playlistPick struct {
	playlist catalog.Playlist
	tracks   []catalog.Track
}

func (s *Service) fetchMusic(ctx context.Context, key string, idx *rotation.Index, seeds genre.Seeds) MusicSection {
	pick, served, err := rotation.Do(idx, key, func(cursor int) (playlistPick, error) {
		playlists, err := s.music.SearchPlaylists(ctx, seeds.SearchQuery(), PlaylistSearchLimit)
		if err != nil {
			return playlistPick{}, err
		}
		if len(playlists) == 0 {
			return playlistPick{}, errNoPlaylists
		}
		if cursor > len(playlists) {
			return playlistPick{}, fmt.Errorf("playlist %d of %d: %w", cursor, len(playlists), rotation.ErrOutOfRange)
		}

		p := playlists[cursor-1]
		tracks, err := s.music.PlaylistTracks(ctx, p.ID, catalog.MaxItems)
		if err != nil {
			return playlistPick{}, err
		}
		if len(tracks) == 0 {
			return playlistPick{}, fmt.Errorf("playlist %s: %w", p.ID, errNoTracks)
		}
		return playlistPick{playlist: p, tracks: tracks}, nil
	})
	if err == nil {
		return MusicSection{
			Items:       catalog.Truncate(pick.tracks, catalog.MaxItems),
			Description: seeds.MusicDescription,
			Playlist:    &pick.playlist,
			cursor:      served,
		}
	}

	if ctx.Err() != nil {
		return MusicSection{Items: []catalog.Track{}, Description: genre.UnavailableDescription, Err: ctx.Err()}
	}
	if errors.Is(err, spotify.ErrUnauthorized) {
		s.tokens.Invalidate()
	}
	s.log.Warn("playlist search failed, using fallback playlist", zap.String("mood", key), zap.Error(err))

	tracks, fbErr := s.music.PlaylistTracks(ctx, s.fallbackPlaylist, catalog.MaxItems)
	if fbErr != nil || len(tracks) == 0 {
		if fbErr != nil {
			s.log.Warn("fallback playlist failed", zap.String("mood", key), zap.Error(fbErr))
		}
		return MusicSection{Items: []catalog.Track{}, Description: genre.UnavailableDescription, Err: err}
	}
	return MusicSection{
		Items:       catalog.Truncate(tracks, catalog.MaxItems),
		Description: genre.FallbackMusicDescription,
		Playlist:    &catalog.Playlist{ID: s.fallbackPlaylist, Name: "Global Top 50"},
		Fallback:    true,
		Err:         err,
	}
}

// advanceOrReset moves past a served cursor, or back to the start when the
// section failed.
func advanceOrReset(idx *rotation.Index, key string, served int) {
	if served < rotation.Base {
		idx.Reset(key)
		return
	}
	idx.Advance(key, served)
}
