package spotify

import (
	"strings"

	"github.com/zmb3/spotify/v2"

	"github.com/justestif/go-vibecast/internal/catalog"
)

// convertTrack converts a Spotify FullTrack to catalog.Track.
// Returns false if the track has no id.
func convertTrack(t *spotify.FullTrack) (catalog.Track, bool) {
	if t == nil || t.ID == "" {
		return catalog.Track{}, false
	}

	// Join artist names
	artists := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		if a.Name != "" {
			artists = append(artists, a.Name)
		}
	}
	artist := strings.Join(artists, ", ")
	if artist == "" {
		artist = catalog.UnknownArtist
	}

	title := t.Name
	if title == "" {
		title = catalog.UnknownTitle
	}

	album := t.Album.Name
	if album == "" {
		album = catalog.UnknownAlbum
	}

	artwork := catalog.DefaultAlbumArt
	for _, img := range t.Album.Images {
		if img.URL != "" {
			artwork = img.URL
			break
		}
	}

	return catalog.Track{
		ID:          t.ID.String(),
		Title:       title,
		Artists:     artist,
		Album:       album,
		ArtworkURL:  artwork,
		ExternalURL: t.ExternalURLs["spotify"],
		PreviewURL:  t.PreviewURL,
	}, true
}
