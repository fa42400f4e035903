// Package entries stores the text of diary entries, one row per user and
// calendar date.
package entries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/photodiary/internal/common"
	"github.com/dmitrijs2005/photodiary/internal/dbx"
	"github.com/dmitrijs2005/photodiary/internal/server/models"
)

const (
	selectContentSQL = `SELECT content FROM diary_entries WHERE user_id = ? AND entry_date = ?`

	selectEntrySQL = `SELECT user_id, entry_date, content, created_at, updated_at
		FROM diary_entries WHERE user_id = ? AND entry_date = ?`

	upsertEntrySQL = `INSERT INTO diary_entries (user_id, entry_date, content, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id, entry_date)
		DO UPDATE SET content = excluded.content, updated_at = excluded.updated_at`
)

// SQLRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type SQLRepository struct {
	db dbx.DBTX
	q  queries
	// now is replaced in tests.
	now func() time.Time
}

type queries struct {
	content, get, upsert string
}

func newQueries(style int) queries {
	return queries{
		content: dbx.Rebind(style, selectContentSQL),
		get:     dbx.Rebind(style, selectEntrySQL),
		upsert:  dbx.Rebind(style, upsertEntrySQL),
	}
}

// NewPostgresRepository constructs a repository bound to the given DBTX
// using Postgres placeholders.
func NewPostgresRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db, q: newQueries(dbx.Dollar), now: utcNow}
}

// NewSQLiteRepository constructs a repository bound to the given DBTX
// using SQLite placeholders.
func NewSQLiteRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db, q: newQueries(dbx.Question), now: utcNow}
}

func utcNow() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// Content returns the stored text for (userID, date), or "" when nothing
// was saved for that date.
func (r *SQLRepository) Content(ctx context.Context, userID, date string) (string, error) {
	var content string
	err := r.db.QueryRowContext(ctx, r.q.content, userID, date).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("select entry content: %w", err)
	}
	return content, nil
}

// Get returns the full entry row or common.ErrorNotFound.
func (r *SQLRepository) Get(ctx context.Context, userID, date string) (*models.Entry, error) {
	var e models.Entry
	err := r.db.QueryRowContext(ctx, r.q.get, userID, date).
		Scan(&e.UserID, &e.Date, &e.Content, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select entry: %w", err)
	}
	return &e, nil
}

// Upsert inserts the entry or replaces the content of the existing one in a
// single statement. created_at keeps the first insert's time; updated_at is
// set on every call. The stored row is read back and returned.
func (r *SQLRepository) Upsert(ctx context.Context, userID, date, content string) (*models.Entry, error) {
	now := r.now()
	res, err := r.db.ExecContext(ctx, r.q.upsert, userID, date, content, now, now)
	if err != nil {
		return nil, fmt.Errorf("upsert entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected error: %w", err)
	}
	if n != 1 {
		return nil, fmt.Errorf("unexpected rows affected: %d", n)
	}
	return r.Get(ctx, userID, date)
}
