package web

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/justestif/go-vibecast/internal/journal"
	"github.com/justestif/go-vibecast/internal/mood"
	"github.com/justestif/go-vibecast/internal/recommend"
)

// Journal is the mood history API used by the handlers.
type Journal interface {
	Record(ctx context.Context, userID uuid.UUID, m mood.Mood, note string) (*journal.Entry, error)
	History(ctx context.Context, userID uuid.UUID, f journal.Filter) ([]journal.Entry, error)
	Latest(ctx context.Context, userID uuid.UUID) (*journal.Entry, error)
	Update(ctx context.Context, userID, id uuid.UUID, p journal.Patch) (*journal.Entry, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	Stats(ctx context.Context, userID uuid.UUID) (*journal.Stats, error)
}

// Recommender fetches recommendations for a session.
type Recommender interface {
	Fetch(ctx context.Context, sess *recommend.Session, m mood.Mood) (*recommend.Result, error)
}

// SessionRegistry holds one recommendation session per user.
type SessionRegistry interface {
	Get(key string) *recommend.Session
	Lookup(key string) (*recommend.Session, bool)
	Delete(key string)
}

// Handlers contains HTTP handlers for the API.
type Handlers struct {
	journal  Journal
	recs     Recommender
	sessions SessionRegistry
	health   func(ctx context.Context) error
	log      *zap.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(j Journal, recs Recommender, sessions SessionRegistry, health func(ctx context.Context) error, log *zap.Logger) *Handlers {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handlers{journal: j, recs: recs, sessions: sessions, health: health, log: log}
}

// Health reports whether the service is up (GET /healthz).
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		if err := h.health(r.Context()); err != nil {
			h.log.Warn("health check failed", zap.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Moods handles the mood catalog (GET /api/moods).
func (h *Handlers) Moods(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"moods": mood.Catalog()})
}

type createEntryRequest struct {
	Mood         string `json:"mood" validate:"required"`
	JournalEntry string `json:"journal_entry"`
}

// CreateEntry records a mood (POST /api/entries).
func (h *Handlers) CreateEntry(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	var req createEntryRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	m, err := mood.Parse(req.Mood)
	if err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidMood)
		return
	}

	entry, err := h.journal.Record(r.Context(), user.ID, m, req.JournalEntry)
	if err != nil {
		h.journalError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// ListEntries returns the user's history (GET /api/entries).
// Optional query parameters: mood, limit.
func (h *Handlers) ListEntries(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	var f journal.Filter
	if raw := r.URL.Query().Get("mood"); raw != "" {
		m, err := mood.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, msgInvalidMood)
			return
		}
		f.Mood = m
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, msgInvalidLimit)
			return
		}
		f.Limit = n
	}

	entries, err := h.journal.History(r.Context(), user.ID, f)
	if err != nil {
		h.journalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

// LatestEntry returns the most recent entry or null (GET /api/entries/latest).
func (h *Handlers) LatestEntry(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	entry, err := h.journal.Latest(r.Context(), user.ID)
	if err != nil {
		h.journalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entry": entry})
}

// EntryStats returns per-mood counts (GET /api/entries/stats).
func (h *Handlers) EntryStats(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	stats, err := h.journal.Stats(r.Context(), user.ID)
	if err != nil {
		h.journalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

type updateEntryRequest struct {
	Mood         *string `json:"mood,omitempty"`
	JournalEntry *string `json:"journal_entry,omitempty"`
}

// UpdateEntry changes an entry's mood or note (PATCH /api/entries/{id}).
func (h *Handlers) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidID)
		return
	}

	var req updateEntryRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if req.Mood == nil && req.JournalEntry == nil {
		writeError(w, http.StatusBadRequest, msgEmptyPatch)
		return
	}

	patch := journal.Patch{JournalEntry: req.JournalEntry}
	if req.Mood != nil {
		m, err := mood.Parse(*req.Mood)
		if err != nil {
			writeError(w, http.StatusBadRequest, msgInvalidMood)
			return
		}
		patch.Mood = &m
	}

	entry, err := h.journal.Update(r.Context(), user.ID, id, patch)
	if err != nil {
		h.journalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// DeleteEntry removes an entry (DELETE /api/entries/{id}).
func (h *Handlers) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidID)
		return
	}

	if err := h.journal.Delete(r.Context(), user.ID, id); err != nil {
		h.journalError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Recommendations fetches the next set of recommendations
// (GET /api/recommendations?mood=). Without a mood parameter the user's
// latest recorded mood is used.
func (h *Handlers) Recommendations(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	var m mood.Mood
	if raw := strings.TrimSpace(r.URL.Query().Get("mood")); raw != "" {
		parsed, err := mood.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, msgInvalidMood)
			return
		}
		m = parsed
	} else {
		latest, err := h.journal.Latest(r.Context(), user.ID)
		if err != nil {
			h.journalError(w, err)
			return
		}
		if latest == nil {
			writeError(w, http.StatusBadRequest, msgNeedMood)
			return
		}
		m = latest.Mood
	}

	sess := h.sessions.Get(user.ID.String())
	result, err := h.recs.Fetch(r.Context(), sess, m)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, result)
	case errors.Is(err, recommend.ErrSuperseded):
		writeError(w, http.StatusConflict, msgSuperseded)
	case errors.Is(err, context.Canceled):
		// Client went away; nothing useful to send.
	default:
		h.log.Error("fetching recommendations",
			zap.String("user", user.ID.String()),
			zap.String("mood", m.String()),
			zap.Error(err),
		)
		writeError(w, http.StatusBadGateway, msgFetch)
	}
}

// CurrentRecommendations returns the last delivered result
// (GET /api/recommendations/current).
func (h *Handlers) CurrentRecommendations(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	sess, ok := h.sessions.Lookup(user.ID.String())
	if !ok || sess.Current() == nil {
		writeError(w, http.StatusNotFound, msgNotFound)
		return
	}
	writeJSON(w, http.StatusOK, sess.Current())
}

// ClearRecommendations drops the user's session and rotation state
// (DELETE /api/recommendations).
func (h *Handlers) ClearRecommendations(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	h.sessions.Delete(user.ID.String())
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) journalError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, journal.ErrNotFound):
		writeError(w, http.StatusNotFound, msgNotFound)
	case errors.Is(err, journal.ErrNoteTooLong):
		writeError(w, http.StatusBadRequest, msgNoteTooLong)
	case errors.Is(err, mood.ErrInvalidMood):
		writeError(w, http.StatusBadRequest, msgInvalidMood)
	default:
		h.log.Error("journal request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, msgInternal)
	}
}
