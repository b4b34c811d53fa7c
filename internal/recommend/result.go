package recommend

import (
	"time"

	"github.com/justestif/go-vibecast/internal/catalog"
	"github.com/justestif/go-vibecast/internal/mood"
)

// MovieSection is the movie half of a recommendation.
type MovieSection struct {
	Items       []catalog.Movie `json:"items"`
	Description string          `json:"description"`
	Page        int             `json:"page,omitempty"`
	Fallback    bool            `json:"fallback"`

	// Err is the provider failure that emptied or replaced this section.
	Err error `json:"-"`

	// cursor is the page the section was served from; 0 after a failure.
	cursor int
}

// MusicSection is the music half of a recommendation.
type MusicSection struct {
	Items       []catalog.Track   `json:"items"`
	Description string            `json:"description"`
	Playlist    *catalog.Playlist `json:"playlist,omitempty"`
	Fallback    bool              `json:"fallback"`

	Err error `json:"-"`

	// cursor is the playlist position served; 0 after a failure.
	cursor int
}

// Result is one set of recommendations for a mood.
type Result struct {
	Mood        mood.Mood    `json:"mood"`
	Description string       `json:"description"`
	Movies      MovieSection `json:"movies"`
	Music       MusicSection `json:"music"`
	Affirmation string       `json:"affirmation"`
	FetchedAt   time.Time    `json:"fetched_at"`
}

// Empty reports whether neither section has any items.
func (r *Result) Empty() bool {
	return len(r.Movies.Items) == 0 && len(r.Music.Items) == 0
}
