package spotify

import (
	"context"

	"github.com/zmb3/spotify/v2"

	"github.com/justestif/go-vibecast/internal/catalog"
)

// SearchPlaylists returns up to limit playlists matching query.
// Entries without an id are dropped.
func (c *Client) SearchPlaylists(ctx context.Context, query string, limit int) ([]catalog.Playlist, error) {
	result, err := c.api.Search(ctx, query, spotify.SearchTypePlaylist,
		spotify.Market(c.market),
		spotify.Limit(limit),
	)
	if err != nil {
		return nil, wrapErr("searching playlists", err)
	}

	playlists := []catalog.Playlist{}
	if result == nil || result.Playlists == nil {
		return playlists, nil
	}

	for _, p := range result.Playlists.Playlists {
		if p.ID == "" {
			continue
		}
		playlists = append(playlists, catalog.Playlist{
			ID:    p.ID.String(),
			Name:  p.Name,
			Owner: p.Owner.DisplayName,
		})
	}
	return playlists, nil
}

// PlaylistTracks returns up to limit tracks from a playlist.
// Episodes, removed tracks and tracks without an id are skipped.
func (c *Client) PlaylistTracks(ctx context.Context, playlistID string, limit int) ([]catalog.Track, error) {
	page, err := c.api.GetPlaylistItems(ctx, spotify.ID(playlistID),
		spotify.Market(c.market),
		spotify.Limit(limit),
	)
	if err != nil {
		return nil, wrapErr("fetching playlist tracks", err)
	}

	tracks := make([]catalog.Track, 0, len(page.Items))
	for _, item := range page.Items {
		if item.Track.Track == nil {
			continue
		}
		if t, ok := convertTrack(item.Track.Track); ok {
			tracks = append(tracks, t)
		}
	}
	return tracks, nil
}
