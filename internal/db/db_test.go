package db

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/justestif/go-vibecast/internal/mood"
)

// openTestDB connects to VIBECAST_TEST_DATABASE_URL or skips the test.
func openTestDB(t *testing.T) *DB {
	t.Helper()
	url := os.Getenv("VIBECAST_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("VIBECAST_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	database, err := New(ctx, url)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(database.Close)

	if err := database.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	// Second run must be a no-op.
	if err := database.Migrate(ctx); err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}
	return database
}

func TestMoodEntryRepository(t *testing.T) {
	database := openTestDB(t)
	repo := database.MoodEntries()
	ctx := context.Background()

	user := uuid.New()
	other := uuid.New()
	t.Cleanup(func() {
		_, _ = database.Pool().Exec(ctx, `DELETE FROM mood_entries WHERE user_id = ANY($1)`, []uuid.UUID{user, other})
	})

	if _, err := repo.Latest(ctx, user); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Latest() on empty history error = %v, want ErrNotFound", err)
	}

	note := "sunny walk"
	first := &MoodEntry{UserID: user, Mood: "happy", JournalEntry: &note}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if first.ID == uuid.Nil || first.CreatedAt.IsZero() {
		t.Fatalf("Create() did not populate id/timestamps: %+v", first)
	}

	second := &MoodEntry{UserID: user, Mood: "sad"}
	if err := repo.Create(ctx, second); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := repo.Create(ctx, &MoodEntry{UserID: other, Mood: "angry"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	latest, err := repo.Latest(ctx, user)
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if latest.ID != second.ID {
		t.Errorf("Latest() = %v, want %v", latest.ID, second.ID)
	}

	all, err := repo.List(ctx, user, EntryFilter{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 2 || all[0].ID != second.ID {
		t.Errorf("List() = %+v, want newest first", all)
	}

	happy, err := repo.List(ctx, user, EntryFilter{Mood: "happy"})
	if err != nil {
		t.Fatalf("List(happy) error = %v", err)
	}
	if len(happy) != 1 || happy[0].JournalEntry == nil || *happy[0].JournalEntry != note {
		t.Errorf("List(happy) = %+v", happy)
	}

	if _, err := repo.Get(ctx, other, first.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() by another user error = %v, want ErrNotFound", err)
	}

	first.Mood = "relaxed"
	first.JournalEntry = nil
	if err := repo.Update(ctx, first); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	got, err := repo.Get(ctx, user, first.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Mood != "relaxed" || got.JournalEntry != nil || got.UpdatedAt.Before(got.CreatedAt) {
		t.Errorf("Get() after Update = %+v", got)
	}

	counts, err := repo.CountByMood(ctx, user)
	if err != nil {
		t.Fatalf("CountByMood() error = %v", err)
	}
	if counts["relaxed"] != 1 || counts["sad"] != 1 || counts["angry"] != 0 {
		t.Errorf("CountByMood() = %v", counts)
	}

	if err := repo.Delete(ctx, other, second.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() by another user error = %v, want ErrNotFound", err)
	}
	if err := repo.Delete(ctx, user, second.ID); err != nil {
		t.Errorf("Delete() error = %v", err)
	}
	if err := repo.Delete(ctx, user, second.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func TestSchemaMoodCheckListsEveryMood(t *testing.T) {
	var quoted []string
	for _, m := range mood.All() {
		quoted = append(quoted, fmt.Sprintf("'%s'", m))
	}
	want := "CHECK (mood IN (" + strings.Join(quoted, ", ") + "))"

	if got := strings.Count(schema, want); got != 2 {
		t.Errorf("schema has %d copies of %q, want 2 (table and upgrade)", got, want)
	}
}

func TestMoodEntryRepository_RejectsUnknownMood(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	user := uuid.New()
	t.Cleanup(func() {
		_, _ = database.Pool().Exec(ctx, `DELETE FROM mood_entries WHERE user_id = $1`, user)
	})

	if err := database.MoodEntries().Create(ctx, &MoodEntry{UserID: user, Mood: "bored"}); err == nil {
		t.Fatal("Create() accepted a mood outside the catalog")
	}
}
