package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultListLimit caps listings that do not set a limit.
const DefaultListLimit = 100

const entryColumns = `id, user_id, mood, journal_entry, created_at, updated_at`

// MoodEntryRepository handles mood entry database operations.
// Every query is scoped to the owning user.
type MoodEntryRepository struct {
	pool *pgxpool.Pool
}

// Create inserts a new entry, assigning an ID if unset.
func (r *MoodEntryRepository) Create(ctx context.Context, e *MoodEntry) error {
	query := `
		INSERT INTO mood_entries (id, user_id, mood, journal_entry, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	err := r.pool.QueryRow(ctx, query, e.ID, e.UserID, e.Mood, e.JournalEntry).
		Scan(&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting mood entry: %w", err)
	}
	return nil
}

// Get retrieves one of the user's entries by ID.
func (r *MoodEntryRepository) Get(ctx context.Context, userID, id uuid.UUID) (*MoodEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM mood_entries WHERE id = $1 AND user_id = $2`

	e, err := scanEntry(r.pool.QueryRow(ctx, query, id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying mood entry: %w", err)
	}
	return e, nil
}

// List returns the user's entries, newest first.
func (r *MoodEntryRepository) List(ctx context.Context, userID uuid.UUID, f EntryFilter) ([]MoodEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM mood_entries
		WHERE user_id = $1 AND ($2::text = '' OR mood = $2)
		ORDER BY created_at DESC
		LIMIT $3
	`
	limit := f.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := r.pool.Query(ctx, query, userID, f.Mood, limit)
	if err != nil {
		return nil, fmt.Errorf("querying mood entries: %w", err)
	}
	defer rows.Close()

	entries := []MoodEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning mood entry: %w", err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating mood entries: %w", err)
	}
	return entries, nil
}

// Latest returns the user's most recent entry.
// Returns ErrNotFound if the user has none.
func (r *MoodEntryRepository) Latest(ctx context.Context, userID uuid.UUID) (*MoodEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM mood_entries
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	e, err := scanEntry(r.pool.QueryRow(ctx, query, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying latest mood entry: %w", err)
	}
	return e, nil
}

// Update saves the entry's mood and journal note, refreshing UpdatedAt.
// Returns ErrNotFound if the entry does not belong to e.UserID.
func (r *MoodEntryRepository) Update(ctx context.Context, e *MoodEntry) error {
	query := `
		UPDATE mood_entries
		SET mood = $3, journal_entry = $4, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query, e.ID, e.UserID, e.Mood, e.JournalEntry).
		Scan(&e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("updating mood entry: %w", err)
	}
	return nil
}

// Delete removes one of the user's entries.
// Returns ErrNotFound if nothing was deleted.
func (r *MoodEntryRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM mood_entries WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting mood entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByMood returns the number of entries per mood for the user.
// Moods with no entries are absent from the map.
func (r *MoodEntryRepository) CountByMood(ctx context.Context, userID uuid.UUID) (map[string]int, error) {
	query := `
		SELECT mood, COUNT(*)
		FROM mood_entries
		WHERE user_id = $1
		GROUP BY mood
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("counting mood entries: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var mood string
		var n int
		if err := rows.Scan(&mood, &n); err != nil {
			return nil, fmt.Errorf("scanning mood count: %w", err)
		}
		counts[mood] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating mood counts: %w", err)
	}
	return counts, nil
}

func scanEntry(row pgx.Row) (*MoodEntry, error) {
	var e MoodEntry
	if err := row.Scan(
		&e.ID,
		&e.UserID,
		&e.Mood,
		&e.JournalEntry,
		&e.CreatedAt,
		&e.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &e, nil
}
