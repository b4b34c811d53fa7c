// Package catalog holds the provider-neutral records returned to clients.
// Provider packages convert their wire formats into these types; nothing
// downstream sees a raw provider shape.
package catalog

// Placeholders used when a provider omits a field.
const (
	DefaultAlbumArt = "https://example.com/default-album-art.jpg"
	DefaultPoster   = "https://example.com/default-poster.jpg"
	UnknownAlbum    = "Unknown Album"
	UnknownTitle    = "Unknown Title"
	UnknownArtist   = "Unknown Artist"
)

// MaxItems caps the number of records in one recommendation section.
const MaxItems = 10

// Movie is a normalized movie recommendation.
type Movie struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	PosterURL   string  `json:"poster_url"`
	ReleaseDate string  `json:"release_date,omitempty"`
	ReleaseYear int     `json:"release_year,omitempty"`
	Rating      float64 `json:"rating"`
	GenreIDs    []int   `json:"genre_ids"`
}

// Track is a normalized music recommendation.
type Track struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Artists     string `json:"artists"` // comma-separated
	Album       string `json:"album"`
	ArtworkURL  string `json:"artwork_url"`
	ExternalURL string `json:"external_url,omitempty"`
	PreviewURL  string `json:"preview_url,omitempty"`
}

// Playlist identifies the playlist a set of tracks came from.
type Playlist struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Owner string `json:"owner,omitempty"`
}

// Truncate returns at most n leading elements of items.
func Truncate[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
