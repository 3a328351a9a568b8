// Package transcript persists rendered sessions to the local SQLite store
// and reads them back for replay.
package transcript

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/quillhq/quill/internal/db"
	"github.com/quillhq/quill/internal/event"
)

// Session is a recorded rendering session.
type Session struct {
	ID            string
	Title         string
	FormatVersion string
	Width         int
	Color         bool
	EventCount    int64
	CreatedAt     int64
	UpdatedAt     int64
}

// Entry is one recorded event together with the block that was written for
// it. Block is stored with ANSI sequences stripped so replay at a different
// width or color setting re-renders from Event instead.
type Entry struct {
	Seq       int64
	Kind      event.Kind
	Event     event.Event
	Block     string
	CreatedAt int64
}

// Suppression is a fragment the dedup filter dropped during a session.
type Suppression struct {
	Fragment  string
	Reason    string
	CreatedAt int64
}

// Store provides access to recorded sessions.
type Store struct {
	db      *sql.DB
	queries *db.Queries
}

// Open connects to the store at path, running migrations as needed.
func Open(ctx context.Context, path string) (*Store, error) {
	database, queries, err := db.ConnectWithQueries(ctx, path)
	if err != nil {
		return nil, err
	}
	return &Store{db: database, queries: queries}, nil
}

// Close closes the prepared queries and the database connection.
func (s *Store) Close() error {
	if err := s.queries.Close(); err != nil {
		return err
	}
	return s.db.Close()
}

// StartParams describes the session about to be recorded.
type StartParams struct {
	Title string
	Width int
	Color bool
}

// StartSession creates a session row and returns a recorder bound to it.
func (s *Store) StartSession(ctx context.Context, params StartParams) (*Recorder, error) {
	title := params.Title
	if title == "" {
		title = "Untitled Session"
	}
	now := time.Now().Unix()
	id := uuid.New().String()
	err := s.queries.CreateSession(ctx, db.CreateSessionParams{
		ID:            id,
		Title:         title,
		FormatVersion: FormatVersion,
		Width:         int64(params.Width),
		Color:         boolToInt(params.Color),
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return nil, err
	}
	return newRecorder(s.queries, id), nil
}

// Resume reopens an existing session for appending. The format gate
// applies, so an old build cannot append to a session written by a newer
// one.
func (s *Store) Resume(ctx context.Context, idOrPrefix string) (*Recorder, error) {
	sess, err := s.Get(ctx, idOrPrefix)
	if err != nil {
		return nil, err
	}
	if err := CheckFormatVersion(sess.FormatVersion); err != nil {
		return nil, err
	}
	return newRecorder(s.queries, sess.ID), nil
}

// Get retrieves a session by ID or unique ID prefix.
func (s *Store) Get(ctx context.Context, idOrPrefix string) (Session, error) {
	// Try exact match first
	dbSession, err := s.queries.GetSession(ctx, idOrPrefix)
	if err == nil {
		return sessionFromDB(dbSession), nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Session{}, err
	}

	matches, err := s.queries.GetSessionByPrefix(ctx, idOrPrefix)
	if err != nil {
		return Session{}, err
	}
	if len(matches) == 0 {
		return Session{}, sql.ErrNoRows
	}
	if len(matches) > 1 {
		return Session{}, errors.New("ambiguous session ID prefix: multiple matches")
	}
	return sessionFromDB(matches[0]), nil
}

// List returns sessions ordered by most recent first.
func (s *Store) List(ctx context.Context, limit int64) ([]Session, error) {
	if limit <= 0 {
		limit = 50
	}
	dbSessions, err := s.queries.ListSessions(ctx, limit)
	if err != nil {
		return nil, err
	}
	sessions := make([]Session, len(dbSessions))
	for i, d := range dbSessions {
		sessions[i] = sessionFromDB(d)
	}
	return sessions, nil
}

// Count returns the total number of recorded sessions.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.queries.CountSessions(ctx)
}

// Rename updates a session's title.
func (s *Store) Rename(ctx context.Context, id, title string) error {
	return s.queries.UpdateSessionTitle(ctx, db.UpdateSessionTitleParams{
		Title:     title,
		UpdatedAt: time.Now().Unix(),
		ID:        id,
	})
}

// Delete removes a session and, through the schema, its events and
// suppressions.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.queries.DeleteSession(ctx, id)
}

// Events returns a session's entries in sequence order. Payloads that no
// longer decode keep their stored block so replay degrades instead of
// failing.
func (s *Store) Events(ctx context.Context, sessionID string) ([]Entry, error) {
	dbEvents, err := s.queries.ListEvents(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, len(dbEvents))
	for i, d := range dbEvents {
		entry := Entry{
			Seq:       d.Seq,
			Kind:      event.Kind(d.Kind),
			Block:     d.Block,
			CreatedAt: d.CreatedAt,
		}
		if ev, err := event.Unmarshal([]byte(d.Payload)); err == nil {
			entry.Event = ev
		}
		entries[i] = entry
	}
	return entries, nil
}

// Suppressions returns fragments the dedup filter dropped for a session.
func (s *Store) Suppressions(ctx context.Context, sessionID string) ([]Suppression, error) {
	dbSups, err := s.queries.ListSuppressions(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	sups := make([]Suppression, len(dbSups))
	for i, d := range dbSups {
		sups[i] = Suppression{
			Fragment:  d.Fragment,
			Reason:    d.Reason,
			CreatedAt: d.CreatedAt,
		}
	}
	return sups, nil
}

func sessionFromDB(d db.Session) Session {
	return Session{
		ID:            d.ID,
		Title:         d.Title,
		FormatVersion: d.FormatVersion,
		Width:         int(d.Width),
		Color:         d.Color != 0,
		EventCount:    d.EventCount,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
