// Package archive persists fetched plurks and responses into a local SQLite
// database so timelines survive across runs of the CLI.
package archive

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/blackmichael/go-plurk"
)

const schema = `
CREATE TABLE IF NOT EXISTS plurks (
	id             INTEGER PRIMARY KEY,
	owner_id       INTEGER NOT NULL,
	qualifier      TEXT NOT NULL DEFAULT '',
	content_raw    TEXT NOT NULL DEFAULT '',
	lang           TEXT NOT NULL DEFAULT '',
	posted         INTEGER NOT NULL DEFAULT 0,
	response_count INTEGER NOT NULL DEFAULT 0,
	archived_at    INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS plurks_posted_idx ON plurks (posted DESC, id DESC);

CREATE TABLE IF NOT EXISTS responses (
	id          INTEGER PRIMARY KEY,
	plurk_id    INTEGER NOT NULL,
	user_id     INTEGER NOT NULL,
	qualifier   TEXT NOT NULL DEFAULT '',
	content_raw TEXT NOT NULL DEFAULT '',
	posted      INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS responses_plurk_idx ON responses (plurk_id);
`

// Store is a SQLite-backed archive of plurks and their responses.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the archive database at path and ensures
// the schema exists. The caller should call Close when done.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// SavePlurks upserts the given plurks.
func (s *Store) SavePlurks(ctx context.Context, plurks []plurk.Plurk) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Unix()
	for _, p := range plurks {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO plurks (id, owner_id, qualifier, content_raw, lang, posted, response_count, archived_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				content_raw = excluded.content_raw,
				response_count = excluded.response_count`,
			p.ID, p.OwnerID, p.Qualifier, p.ContentRaw, p.Lang,
			p.Posted.Unix(), p.ResponseCount, now,
		)
		if err != nil {
			return fmt.Errorf("save plurk %d: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// SaveResponses upserts the responses of a single plurk.
func (s *Store) SaveResponses(ctx context.Context, plurkID int64, responses []plurk.Response) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, r := range responses {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO responses (id, plurk_id, user_id, qualifier, content_raw, posted)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				content_raw = excluded.content_raw`,
			r.ID, plurkID, r.UserID, r.Qualifier, r.ContentRaw, r.Posted.Unix(),
		)
		if err != nil {
			return fmt.Errorf("save response %d: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RecentPlurks retrieves archived plurks newest first, paginated by cursor.
// The cursor format is "posted::id" (unix seconds::plurk id); pass an empty
// cursor for the first page. The next cursor is empty when no more results
// remain. The limit must be positive.
func (s *Store) RecentPlurks(ctx context.Context, limit int, cursor string) ([]plurk.Plurk, string, error) {
	if limit <= 0 {
		return nil, "", fmt.Errorf("invalid limit %d", limit)
	}

	var (
		rows *sql.Rows
		err  error
	)

	if cursor != "" {
		cursorPosted, cursorID, parseErr := parseCursor(cursor)
		if parseErr != nil {
			return nil, "", fmt.Errorf("invalid cursor '%s': %w", cursor, parseErr)
		}

		rows, err = s.db.QueryContext(ctx, `
			SELECT id, owner_id, qualifier, content_raw, lang, posted, response_count
			FROM plurks
			WHERE (posted, id) < (?, ?)
			ORDER BY posted DESC, id DESC
			LIMIT ?`,
			cursorPosted, cursorID, limit,
		)
	} else {
		rows, err = s.db.QueryContext(ctx, `
			SELECT id, owner_id, qualifier, content_raw, lang, posted, response_count
			FROM plurks
			ORDER BY posted DESC, id DESC
			LIMIT ?`,
			limit,
		)
	}
	if err != nil {
		return nil, "", fmt.Errorf("query plurks: %w", err)
	}
	defer rows.Close()

	var plurks []plurk.Plurk
	for rows.Next() {
		var (
			p      plurk.Plurk
			posted int64
		)
		err := rows.Scan(
			&p.ID,
			&p.OwnerID,
			&p.Qualifier,
			&p.ContentRaw,
			&p.Lang,
			&posted,
			&p.ResponseCount,
		)
		if err != nil {
			return nil, "", fmt.Errorf("scan plurk: %w", err)
		}
		p.Posted = plurk.Time{Time: time.Unix(posted, 0).UTC()}
		plurks = append(plurks, p)
	}

	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("iterate plurks: %w", err)
	}

	var nextCursor string
	if len(plurks) == limit {
		last := plurks[len(plurks)-1]
		nextCursor = fmt.Sprintf("%d::%d", last.Posted.Unix(), last.ID)
	}

	return plurks, nextCursor, nil
}

// Responses retrieves the archived responses of a plurk, oldest first.
func (s *Store) Responses(ctx context.Context, plurkID int64) ([]plurk.Response, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, qualifier, content_raw, posted
		FROM responses
		WHERE plurk_id = ?
		ORDER BY posted ASC, id ASC`,
		plurkID,
	)
	if err != nil {
		return nil, fmt.Errorf("query responses: %w", err)
	}
	defer rows.Close()

	var responses []plurk.Response
	for rows.Next() {
		var (
			r      plurk.Response
			posted int64
		)
		if err := rows.Scan(&r.ID, &r.UserID, &r.Qualifier, &r.ContentRaw, &posted); err != nil {
			return nil, fmt.Errorf("scan response: %w", err)
		}
		r.Posted = plurk.Time{Time: time.Unix(posted, 0).UTC()}
		responses = append(responses, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate responses: %w", err)
	}
	return responses, nil
}

// Prune removes plurks archived earlier than maxAge ago and any excess rows
// beyond maxRows, keeping the most recent plurks. Orphaned responses are
// removed with their plurks. Returns the number of plurk rows deleted.
func (s *Store) Prune(ctx context.Context, maxAge time.Duration, maxRows int) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`DELETE FROM plurks WHERE archived_at < ?`,
		time.Now().UTC().Add(-maxAge).Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("delete expired plurks: %w", err)
	}
	ttlDeleted, _ := res.RowsAffected()

	res, err = tx.ExecContext(ctx, `
		DELETE FROM plurks WHERE id IN (
			SELECT id FROM plurks
			ORDER BY posted DESC, id DESC
			LIMIT -1 OFFSET ?
		)`, maxRows,
	)
	if err != nil {
		return 0, fmt.Errorf("delete excess plurks: %w", err)
	}
	capDeleted, _ := res.RowsAffected()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM responses WHERE plurk_id NOT IN (SELECT id FROM plurks)`,
	); err != nil {
		return 0, fmt.Errorf("delete orphaned responses: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}

	return ttlDeleted + capDeleted, nil
}

func parseCursor(cursor string) (int64, int64, error) {
	parts := strings.SplitN(cursor, "::", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("cursor must be in format 'posted::id'")
	}
	posted, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid timestamp in cursor: %w", err)
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid id in cursor: %w", err)
	}
	return posted, id, nil
}
