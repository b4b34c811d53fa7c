// Package mood defines the closed set of moods a user can record.
package mood

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidMood is returned when a value is not one of the supported moods.
var ErrInvalidMood = errors.New("invalid mood")

// Mood is one of the supported mood labels.
type Mood string

// Supported moods.
const (
	Happy     Mood = "happy"
	Sad       Mood = "sad"
	Energetic Mood = "energetic"
	Relaxed   Mood = "relaxed"
	Focused   Mood = "focused"
	Romantic  Mood = "romantic"
	Angry     Mood = "angry"
)

// all is ordered the way the mood picker shows them.
var all = []Mood{Happy, Sad, Energetic, Relaxed, Focused, Romantic, Angry}

var emojis = map[Mood]string{
	Happy:     "😊",
	Sad:       "😢",
	Energetic: "⚡️",
	Relaxed:   "😌",
	Focused:   "🎯",
	Romantic:  "❤️",
	Angry:     "😠",
}

var descriptions = map[Mood]string{
	Happy:     "Feeling joyful and content",
	Sad:       "Feeling down or melancholic",
	Energetic: "Full of energy and excitement",
	Relaxed:   "Calm and at peace",
	Focused:   "Concentrated and determined",
	Romantic:  "In a loving or sentimental mood",
	Angry:     "Feeling frustrated or upset",
}

// All returns every supported mood in display order.
func All() []Mood {
	out := make([]Mood, len(all))
	copy(out, all)
	return out
}

// Parse normalizes s and returns the matching mood.
// Returns ErrInvalidMood for anything outside the supported set.
func Parse(s string) (Mood, error) {
	m := Mood(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidMood, s)
	}
	return m, nil
}

// Valid reports whether m is a supported mood.
func (m Mood) Valid() bool {
	_, ok := descriptions[m]
	return ok
}

// String returns the mood label.
func (m Mood) String() string {
	return string(m)
}

// Emoji returns the emoji shown next to the mood, or "" for unknown moods.
func (m Mood) Emoji() string {
	return emojis[m]
}

// Description returns a short human readable description of the mood.
func (m Mood) Description() string {
	return descriptions[m]
}

// Info is the presentation data for a mood.
type Info struct {
	Mood        Mood   `json:"mood"`
	Emoji       string `json:"emoji"`
	Description string `json:"description"`
}

// Catalog returns presentation data for every supported mood.
func Catalog() []Info {
	infos := make([]Info, 0, len(all))
	for _, m := range all {
		infos = append(infos, Info{Mood: m, Emoji: m.Emoji(), Description: m.Description()})
	}
	return infos
}
