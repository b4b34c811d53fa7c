// Package journal records moods and journal notes and answers history
// queries for a user.
package journal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/justestif/go-vibecast/internal/db"
	"github.com/justestif/go-vibecast/internal/mood"
)

// MaxNoteLength is the longest journal note accepted, in characters.
const MaxNoteLength = 2000

var (
	// ErrNoteTooLong is returned when a journal note exceeds MaxNoteLength.
	ErrNoteTooLong = errors.New("journal entry too long")

	// ErrNotFound is returned when an entry does not exist for the user.
	ErrNotFound = db.ErrNotFound
)

// Store abstracts mood entry persistence for testing.
type Store interface {
	Create(ctx context.Context, e *db.MoodEntry) error
	Get(ctx context.Context, userID, id uuid.UUID) (*db.MoodEntry, error)
	List(ctx context.Context, userID uuid.UUID, f db.EntryFilter) ([]db.MoodEntry, error)
	Latest(ctx context.Context, userID uuid.UUID) (*db.MoodEntry, error)
	Update(ctx context.Context, e *db.MoodEntry) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	CountByMood(ctx context.Context, userID uuid.UUID) (map[string]int, error)
}

// Entry is a recorded mood as returned to clients.
type Entry struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	Mood         mood.Mood `json:"mood"`
	Emoji        string    `json:"emoji"`
	JournalEntry *string   `json:"journal_entry"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Filter narrows History.
type Filter struct {
	Mood  mood.Mood // empty means every mood
	Limit int
}

// Patch changes an entry. Nil fields are left as they are; an empty
// JournalEntry clears the note.
type Patch struct {
	Mood         *mood.Mood
	JournalEntry *string
}

// MoodCount is the number of entries recorded for one mood.
type MoodCount struct {
	Mood  mood.Mood `json:"mood"`
	Emoji string    `json:"emoji"`
	Count int       `json:"count"`
}

// Stats summarizes a user's history.
type Stats struct {
	Total  int         `json:"total"`
	ByMood []MoodCount `json:"by_mood"`
}

// Service handles mood recording and history.
type Service struct {
	store Store
	log   *zap.Logger
}

// New creates a journal service.
func New(store Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, log: log}
}

// Record saves a new mood entry for the user.
func (s *Service) Record(ctx context.Context, userID uuid.UUID, m mood.Mood, note string) (*Entry, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %q", mood.ErrInvalidMood, m)
	}
	n, err := normalizeNote(note)
	if err != nil {
		return nil, err
	}

	e := &db.MoodEntry{UserID: userID, Mood: m.String(), JournalEntry: n}
	if err := s.store.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("recording mood: %w", err)
	}

	s.log.Info("recorded mood", zap.String("user", userID.String()), zap.String("mood", e.Mood))
	return toEntry(*e), nil
}

// History returns the user's entries, newest first.
func (s *Service) History(ctx context.Context, userID uuid.UUID, f Filter) ([]Entry, error) {
	if f.Mood != "" && !f.Mood.Valid() {
		return nil, fmt.Errorf("%w: %q", mood.ErrInvalidMood, f.Mood)
	}

	rows, err := s.store.List(ctx, userID, db.EntryFilter{Mood: f.Mood.String(), Limit: f.Limit})
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}

	entries := make([]Entry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, *toEntry(r))
	}
	return entries, nil
}

// Latest returns the user's most recent entry, or nil if there is none.
func (s *Service) Latest(ctx context.Context, userID uuid.UUID) (*Entry, error) {
	e, err := s.store.Latest(ctx, userID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading latest entry: %w", err)
	}
	return toEntry(*e), nil
}

// Update applies p to one of the user's entries.
func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, p Patch) (*Entry, error) {
	e, err := s.store.Get(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("loading entry: %w", err)
	}

	if p.Mood != nil {
		if !p.Mood.Valid() {
			return nil, fmt.Errorf("%w: %q", mood.ErrInvalidMood, *p.Mood)
		}
		e.Mood = p.Mood.String()
	}
	if p.JournalEntry != nil {
		n, err := normalizeNote(*p.JournalEntry)
		if err != nil {
			return nil, err
		}
		e.JournalEntry = n
	}

	if err := s.store.Update(ctx, e); err != nil {
		return nil, fmt.Errorf("updating entry: %w", err)
	}
	return toEntry(*e), nil
}

// Delete removes one of the user's entries.
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.store.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("deleting entry: %w", err)
	}
	return nil
}

// Stats counts the user's entries per mood. Every mood is listed, in
// display order, including those with no entries.
func (s *Service) Stats(ctx context.Context, userID uuid.UUID) (*Stats, error) {
	counts, err := s.store.CountByMood(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("counting entries: %w", err)
	}

	moods := mood.All()
	stats := &Stats{ByMood: make([]MoodCount, 0, len(moods))}
	for _, m := range moods {
		n := counts[m.String()]
		stats.Total += n
		stats.ByMood = append(stats.ByMood, MoodCount{Mood: m, Emoji: m.Emoji(), Count: n})
	}
	return stats, nil
}

// normalizeNote trims note and returns nil for an empty note.
func normalizeNote(note string) (*string, error) {
	note = strings.TrimSpace(note)
	if note == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(note) > MaxNoteLength {
		return nil, fmt.Errorf("%w: max %d characters", ErrNoteTooLong, MaxNoteLength)
	}
	return &note, nil
}

func toEntry(e db.MoodEntry) *Entry {
	m := mood.Mood(e.Mood)
	return &Entry{
		ID:           e.ID,
		UserID:       e.UserID,
		Mood:         m,
		Emoji:        m.Emoji(),
		JournalEntry: e.JournalEntry,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}
