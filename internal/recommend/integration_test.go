package recommend

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/justestif/go-vibecast/internal/auth"
	"github.com/justestif/go-vibecast/internal/mood"
	"github.com/justestif/go-vibecast/internal/spotify"
	"github.com/justestif/go-vibecast/internal/tmdb"
)

// fakeProviders serves the token endpoint, the Spotify API and the TMDB API
// from one test server.
type fakeProviders struct {
	server    *httptest.Server
	exchanges atomic.Int32
}

func newFakeProviders(t *testing.T) *fakeProviders {
	t.Helper()
	f := &fakeProviders{}
	mux := http.NewServeMux()

	mux.HandleFunc("POST /token", func(w http.ResponseWriter, r *http.Request) {
		n := f.exchanges.Add(1)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"access_token":"app-%d","token_type":"Bearer","expires_in":3600}`, n)
	})

	mux.HandleFunc("GET /spotify/search", func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer app-") {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"playlists":{"items":[{"id":"pl1","name":"Happy"},{"id":"pl2","name":"Happier"}]}}`)
	})

	mux.HandleFunc("GET /spotify/playlists/{id}/{rest...}", func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"items":[
			{"track":{"type":"track","id":"%[1]s-a","name":"A","artists":[{"name":"X"}],"album":{"name":"Alb","images":[]}}},
			{"track":{"type":"track","id":"","name":"no id"}}
		]}`, id)
	})

	mux.HandleFunc("GET /tmdb/discover/movie", func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		var results []string
		for i := range 15 {
			results = append(results, fmt.Sprintf(`{"id":%d,"title":"Movie %d","poster_path":"/p.jpg"}`, page*100+i+1, i))
		}
		fmt.Fprintf(w, `{"page":%d,"total_pages":3,"results":[%s]}`, page, strings.Join(results, ","))
	})

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func TestFetch_EndToEnd(t *testing.T) {
	f := newFakeProviders(t)
	ctx := context.Background()

	tokens, err := auth.NewTokenCache(auth.Config{
		ClientID:     "id",
		ClientSecret: "secret",
		TokenURL:     f.server.URL + "/token",
	}, auth.WithHTTPClient(f.server.Client()))
	if err != nil {
		t.Fatalf("NewTokenCache() error = %v", err)
	}
	movies, err := tmdb.NewClient("tmdb-token",
		tmdb.WithBaseURL(f.server.URL+"/tmdb"),
		tmdb.WithHTTPClient(f.server.Client()),
	)
	if err != nil {
		t.Fatalf("tmdb.NewClient() error = %v", err)
	}
	music := spotify.New(tokens.Client(ctx), spotify.WithBaseURL(f.server.URL+"/spotify/"))

	svc := NewService(movies, music, tokens)
	sess := NewSession("user-1")

	first, err := svc.Fetch(ctx, sess, mood.Happy)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if first.Movies.Page != 1 || len(first.Movies.Items) != 10 {
		t.Errorf("movies = page %d, %d items; want page 1, 10 items", first.Movies.Page, len(first.Movies.Items))
	}
	if first.Description != "Feel-good movies to match your mood" {
		t.Errorf("description = %q", first.Description)
	}
	if len(first.Music.Items) != 1 || first.Music.Items[0].ID != "pl1-a" {
		t.Errorf("tracks = %+v", first.Music.Items)
	}

	second, err := svc.Fetch(ctx, sess, mood.Happy)
	if err != nil {
		t.Fatalf("second Fetch() error = %v", err)
	}
	if second.Movies.Page != 2 {
		t.Errorf("second page = %d, want 2", second.Movies.Page)
	}
	if second.Movies.Items[0].ID == first.Movies.Items[0].ID {
		t.Error("second fetch repeated the first page")
	}
	if second.Music.Items[0].ID != "pl2-a" {
		t.Errorf("second playlist tracks = %+v", second.Music.Items)
	}
	if got := f.exchanges.Load(); got != 1 {
		t.Errorf("token exchanges = %d, want 1", got)
	}
}
