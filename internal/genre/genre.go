// Package genre maps moods to the seeds used to query movie and music providers.
package genre

import "github.com/justestif/go-vibecast/internal/mood"

// TMDB movie genre identifiers.
const (
	Action      = 28
	Adventure   = 12
	Animation   = 16
	Comedy      = 35
	Documentary = 99
	Drama       = 18
	Family      = 10751
	Fantasy     = 14
	Horror      = 27
	Music       = 10402
	Mystery     = 9648
	Romance     = 10749
	SciFi       = 878
	Thriller    = 53
)

// Vote floors for movie discovery. Unmapped moods fall back to plain
// popularity, so the floor is raised to keep obscure titles out.
const (
	DefaultMinVotes  = 100
	FallbackMinVotes = 200
)

// Descriptions shared by every fallback path.
const (
	FallbackMovieDescription = "Popular movies you might enjoy"
	FallbackMusicDescription = "Popular tracks you might enjoy"
	UnavailableDescription   = "Unable to load recommendations at this time"
)

// Seeds are the provider query inputs for one mood.
type Seeds struct {
	MovieGenres      []int
	MovieMinVotes    int
	MovieDescription string
	MusicGenres      []string
	MusicDescription string
}

// SearchQuery returns the playlist search phrase for these seeds.
func (s Seeds) SearchQuery() string {
	g := "pop"
	if len(s.MusicGenres) > 0 {
		g = s.MusicGenres[0]
	}
	return g + " mood music playlist"
}

var table = map[mood.Mood]Seeds{
	mood.Happy: {
		MovieGenres:      []int{Comedy, Animation, Music},
		MovieDescription: "Feel-good movies to match your mood",
		MusicGenres:      []string{"pop", "dance", "happy"},
		MusicDescription: "Upbeat pop and dance tracks to boost your mood",
	},
	mood.Sad: {
		MovieGenres:      []int{Drama, Romance, Family},
		MovieDescription: "Heartwarming and emotional stories",
		MusicGenres:      []string{"sad", "acoustic", "rainy-day"},
		MusicDescription: "Mellow and emotional tracks for reflection",
	},
	mood.Energetic: {
		MovieGenres:      []int{Action, Adventure, SciFi},
		MovieDescription: "High-energy and thrilling films",
		MusicGenres:      []string{"work-out", "edm", "power-pop"},
		MusicDescription: "High-energy tracks to keep you moving",
	},
	mood.Relaxed: {
		MovieGenres:      []int{Animation, Fantasy, Family},
		MovieDescription: "Calming and easy-going content",
		MusicGenres:      []string{"chill", "ambient", "sleep"},
		MusicDescription: "Calming melodies to help you unwind",
	},
	mood.Focused: {
		MovieGenres:      []int{Documentary, Mystery, SciFi},
		MovieDescription: "Engaging and thought-provoking films",
		MusicGenres:      []string{"study", "classical", "minimal-techno"},
		MusicDescription: "Concentration-enhancing instrumental tracks",
	},
	mood.Romantic: {
		MovieGenres:      []int{Romance, Comedy, Drama},
		MovieDescription: "Love stories and romantic tales",
		MusicGenres:      []string{"romance", "r-n-b", "soul"},
		MusicDescription: "Love songs and romantic melodies",
	},
	mood.Angry: {
		MovieGenres:      []int{Action, Horror, Thriller},
		MovieDescription: "Intense and cathartic movies",
		MusicGenres:      []string{"metal", "rock", "alt-rock"},
		MusicDescription: "Intense tracks to match your energy",
	},
}

var fallback = Seeds{
	MovieMinVotes:    FallbackMinVotes,
	MovieDescription: FallbackMovieDescription,
	MusicGenres:      []string{"pop", "rock", "electronic"},
	MusicDescription: FallbackMusicDescription,
}

// ForMood returns the seeds for m. Unknown moods get the generic
// popularity seeds instead of an error.
func ForMood(m mood.Mood) Seeds {
	s, ok := table[m]
	if !ok {
		s = fallback
	}
	if s.MovieMinVotes == 0 {
		s.MovieMinVotes = DefaultMinVotes
	}
	s.MovieGenres = append([]int(nil), s.MovieGenres...)
	s.MusicGenres = append([]string(nil), s.MusicGenres...)
	return s
}

// Known reports whether m has a dedicated mapping.
func Known(m mood.Mood) bool {
	_, ok := table[m]
	return ok
}
