package db

import (
	"time"

	"github.com/google/uuid"
)

// MoodEntry is one recorded mood with an optional journal note.
type MoodEntry struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Mood         string
	JournalEntry *string // nullable
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// EntryFilter narrows a mood entry listing.
type EntryFilter struct {
	Mood  string // empty means every mood
	Limit int    // <= 0 means DefaultListLimit
}
