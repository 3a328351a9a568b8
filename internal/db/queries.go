package db

import (
	"context"
	"database/sql"
	"fmt"
)

// Session is a stored transcript session.
type Session struct {
	ID            string
	Title         string
	FormatVersion string
	Width         int64
	Color         int64
	EventCount    int64
	CreatedAt     int64
	UpdatedAt     int64
}

// Event is a stored transcript event alongside its rendered block.
type Event struct {
	ID        int64
	SessionID string
	Seq       int64
	Kind      string
	Payload   string
	Block     string
	CreatedAt int64
}

// Suppression records a fragment the dedup filter dropped.
type Suppression struct {
	ID        int64
	SessionID string
	Fragment  string
	Reason    string
	CreatedAt int64
}

const createSession = `
INSERT INTO sessions (id, title, format_version, width, color, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

type CreateSessionParams struct {
	ID            string
	Title         string
	FormatVersion string
	Width         int64
	Color         int64
	CreatedAt     int64
	UpdatedAt     int64
}

const touchSession = `
UPDATE sessions SET updated_at = ? WHERE id = ?
`

type TouchSessionParams struct {
	UpdatedAt int64
	ID        string
}

const updateSessionTitle = `
UPDATE sessions SET title = ?, updated_at = ? WHERE id = ?
`

type UpdateSessionTitleParams struct {
	Title     string
	UpdatedAt int64
	ID        string
}

const getSession = `
SELECT id, title, format_version, width, color,
       (SELECT COUNT(*) FROM events e WHERE e.session_id = sessions.id) AS event_count,
       created_at, updated_at
FROM sessions WHERE id = ?
`

const getSessionByPrefix = `
SELECT id, title, format_version, width, color,
       (SELECT COUNT(*) FROM events e WHERE e.session_id = sessions.id) AS event_count,
       created_at, updated_at
FROM sessions WHERE id LIKE ? || '%' ORDER BY updated_at DESC
`

const listSessions = `
SELECT id, title, format_version, width, color,
       (SELECT COUNT(*) FROM events e WHERE e.session_id = sessions.id) AS event_count,
       created_at, updated_at
FROM sessions ORDER BY updated_at DESC LIMIT ?
`

const countSessions = `
SELECT COUNT(*) FROM sessions
`

const deleteSession = `
DELETE FROM sessions WHERE id = ?
`

const insertEvent = `
INSERT INTO events (session_id, seq, kind, payload, block, created_at)
VALUES (?, ?, ?, ?, ?, ?)
`

type InsertEventParams struct {
	SessionID string
	Seq       int64
	Kind      string
	Payload   string
	Block     string
	CreatedAt int64
}

const listEvents = `
SELECT id, session_id, seq, kind, payload, block, created_at
FROM events WHERE session_id = ? ORDER BY seq ASC
`

const countEvents = `
SELECT COUNT(*) FROM events WHERE session_id = ?
`

const insertSuppression = `
INSERT INTO suppressions (session_id, fragment, reason, created_at)
VALUES (?, ?, ?, ?)
`

type InsertSuppressionParams struct {
	SessionID string
	Fragment  string
	Reason    string
	CreatedAt int64
}

const listSuppressions = `
SELECT id, session_id, fragment, reason, created_at
FROM suppressions WHERE session_id = ? ORDER BY id ASC
`

// Queries holds prepared statements for the transcript store.
type Queries struct {
	db *sql.DB

	createSessionStmt      *sql.Stmt
	touchSessionStmt       *sql.Stmt
	updateSessionTitleStmt *sql.Stmt
	getSessionStmt         *sql.Stmt
	getSessionByPrefixStmt *sql.Stmt
	listSessionsStmt       *sql.Stmt
	countSessionsStmt      *sql.Stmt
	deleteSessionStmt      *sql.Stmt
	insertEventStmt        *sql.Stmt
	listEventsStmt         *sql.Stmt
	countEventsStmt        *sql.Stmt
	insertSuppressionStmt  *sql.Stmt
	listSuppressionsStmt   *sql.Stmt
}

// Prepare compiles every statement up front so later calls cannot fail on
// malformed SQL.
func Prepare(ctx context.Context, database *sql.DB) (*Queries, error) {
	q := &Queries{db: database}
	stmts := []struct {
		dst  **sql.Stmt
		name string
		sql  string
	}{
		{&q.createSessionStmt, "CreateSession", createSession},
		{&q.touchSessionStmt, "TouchSession", touchSession},
		{&q.updateSessionTitleStmt, "UpdateSessionTitle", updateSessionTitle},
		{&q.getSessionStmt, "GetSession", getSession},
		{&q.getSessionByPrefixStmt, "GetSessionByPrefix", getSessionByPrefix},
		{&q.listSessionsStmt, "ListSessions", listSessions},
		{&q.countSessionsStmt, "CountSessions", countSessions},
		{&q.deleteSessionStmt, "DeleteSession", deleteSession},
		{&q.insertEventStmt, "InsertEvent", insertEvent},
		{&q.listEventsStmt, "ListEvents", listEvents},
		{&q.countEventsStmt, "CountEvents", countEvents},
		{&q.insertSuppressionStmt, "InsertSuppression", insertSuppression},
		{&q.listSuppressionsStmt, "ListSuppressions", listSuppressions},
	}
	for _, s := range stmts {
		stmt, err := database.PrepareContext(ctx, s.sql)
		if err != nil {
			q.Close()
			return nil, fmt.Errorf("prepare %s: %w", s.name, err)
		}
		*s.dst = stmt
	}
	return q, nil
}

// Close releases every prepared statement.
func (q *Queries) Close() error {
	var firstErr error
	for _, stmt := range []*sql.Stmt{
		q.createSessionStmt,
		q.touchSessionStmt,
		q.updateSessionTitleStmt,
		q.getSessionStmt,
		q.getSessionByPrefixStmt,
		q.listSessionsStmt,
		q.countSessionsStmt,
		q.deleteSessionStmt,
		q.insertEventStmt,
		q.listEventsStmt,
		q.countEventsStmt,
		q.insertSuppressionStmt,
		q.listSuppressionsStmt,
	} {
		if stmt == nil {
			continue
		}
		if err := stmt.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (q *Queries) CreateSession(ctx context.Context, arg CreateSessionParams) error {
	_, err := q.createSessionStmt.ExecContext(ctx,
		arg.ID,
		arg.Title,
		arg.FormatVersion,
		arg.Width,
		arg.Color,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

func (q *Queries) TouchSession(ctx context.Context, arg TouchSessionParams) error {
	_, err := q.touchSessionStmt.ExecContext(ctx, arg.UpdatedAt, arg.ID)
	return err
}

func (q *Queries) UpdateSessionTitle(ctx context.Context, arg UpdateSessionTitleParams) error {
	_, err := q.updateSessionTitleStmt.ExecContext(ctx, arg.Title, arg.UpdatedAt, arg.ID)
	return err
}

func (q *Queries) GetSession(ctx context.Context, id string) (Session, error) {
	var s Session
	err := q.getSessionStmt.QueryRowContext(ctx, id).Scan(
		&s.ID,
		&s.Title,
		&s.FormatVersion,
		&s.Width,
		&s.Color,
		&s.EventCount,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	return s, err
}

func (q *Queries) GetSessionByPrefix(ctx context.Context, prefix string) ([]Session, error) {
	rows, err := q.getSessionByPrefixStmt.QueryContext(ctx, prefix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var sessions []Session
	for rows.Next() {
		var s Session
		if err := rows.Scan(
			&s.ID,
			&s.Title,
			&s.FormatVersion,
			&s.Width,
			&s.Color,
			&s.EventCount,
			&s.CreatedAt,
			&s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func (q *Queries) ListSessions(ctx context.Context, limit int64) ([]Session, error) {
	rows, err := q.listSessionsStmt.QueryContext(ctx, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var sessions []Session
	for rows.Next() {
		var s Session
		if err := rows.Scan(
			&s.ID,
			&s.Title,
			&s.FormatVersion,
			&s.Width,
			&s.Color,
			&s.EventCount,
			&s.CreatedAt,
			&s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func (q *Queries) CountSessions(ctx context.Context) (int64, error) {
	var n int64
	err := q.countSessionsStmt.QueryRowContext(ctx).Scan(&n)
	return n, err
}

func (q *Queries) DeleteSession(ctx context.Context, id string) error {
	_, err := q.deleteSessionStmt.ExecContext(ctx, id)
	return err
}

func (q *Queries) InsertEvent(ctx context.Context, arg InsertEventParams) error {
	_, err := q.insertEventStmt.ExecContext(ctx,
		arg.SessionID,
		arg.Seq,
		arg.Kind,
		arg.Payload,
		arg.Block,
		arg.CreatedAt,
	)
	return err
}

func (q *Queries) ListEvents(ctx context.Context, sessionID string) ([]Event, error) {
	rows, err := q.listEventsStmt.QueryContext(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(
			&e.ID,
			&e.SessionID,
			&e.Seq,
			&e.Kind,
			&e.Payload,
			&e.Block,
			&e.CreatedAt,
		); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (q *Queries) CountEvents(ctx context.Context, sessionID string) (int64, error) {
	var n int64
	err := q.countEventsStmt.QueryRowContext(ctx, sessionID).Scan(&n)
	return n, err
}

func (q *Queries) InsertSuppression(ctx context.Context, arg InsertSuppressionParams) error {
	_, err := q.insertSuppressionStmt.ExecContext(ctx,
		arg.SessionID,
		arg.Fragment,
		arg.Reason,
		arg.CreatedAt,
	)
	return err
}

func (q *Queries) ListSuppressions(ctx context.Context, sessionID string) ([]Suppression, error) {
	rows, err := q.listSuppressionsStmt.QueryContext(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var sups []Suppression
	for rows.Next() {
		var s Suppression
		if err := rows.Scan(
			&s.ID,
			&s.SessionID,
			&s.Fragment,
			&s.Reason,
			&s.CreatedAt,
		); err != nil {
			return nil, err
		}
		sups = append(sups, s)
	}
	return sups, rows.Err()
}
