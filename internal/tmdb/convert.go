package tmdb

import (
	"strings"
	"time"

	"github.com/justestif/go-vibecast/internal/catalog"
)

// ImageBaseURL is prefixed to poster paths.
const ImageBaseURL = "https://image.tmdb.org/t/p/w500"

// convertPage normalizes a page, dropping results without an id.
func convertPage(resp pageResponse) *Page {
	movies := make([]catalog.Movie, 0, len(resp.Results))
	for _, r := range resp.Results {
		if m, ok := convertMovie(r); ok {
			movies = append(movies, m)
		}
	}
	return &Page{
		Number:       resp.Page,
		TotalPages:   resp.TotalPages,
		TotalResults: resp.TotalResults,
		Movies:       movies,
	}
}

// convertMovie maps a raw result to catalog.Movie.
// Returns false if the result has no id.
func convertMovie(r movieResult) (catalog.Movie, bool) {
	if r.ID <= 0 {
		return catalog.Movie{}, false
	}

	title := strings.TrimSpace(r.Title)
	if title == "" {
		title = strings.TrimSpace(r.OriginalTitle)
	}
	if title == "" {
		title = catalog.UnknownTitle
	}

	poster := catalog.DefaultPoster
	if r.PosterPath != nil && *r.PosterPath != "" {
		poster = ImageBaseURL + *r.PosterPath
	}

	// Parse release date, leave the year at zero on failure
	var year int
	if d, err := time.Parse(time.DateOnly, r.ReleaseDate); err == nil {
		year = d.Year()
	}

	genres := r.GenreIDs
	if genres == nil {
		genres = []int{}
	}

	return catalog.Movie{
		ID:          r.ID,
		Title:       title,
		Overview:    r.Overview,
		PosterURL:   poster,
		ReleaseDate: r.ReleaseDate,
		ReleaseYear: year,
		Rating:      r.VoteAverage,
		GenreIDs:    genres,
	}, true
}
