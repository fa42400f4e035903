// Package placements stores the collage of a diary day: one row per image
// with its transform and stacking order.
package placements

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/photodiary/internal/common"
	"github.com/dmitrijs2005/photodiary/internal/dbx"
	"github.com/dmitrijs2005/photodiary/internal/server/models"
	"github.com/google/uuid"
)

const placementColumns = `id, user_id, entry_date, filename, caption,
	position_x, position_y, rotation, scale, tilt_x, tilt_y, z_index, created_at`

const (
	listSQL = `SELECT ` + placementColumns + ` FROM image_placements
		WHERE user_id = ? AND entry_date = ?
		ORDER BY z_index, seq`

	getByFilenameSQL = `SELECT ` + placementColumns + ` FROM image_placements
		WHERE user_id = ? AND filename = ?`

	insertSQL = `INSERT INTO image_placements
		(id, user_id, entry_date, filename, caption, position_x, position_y, rotation, scale, tilt_x, tilt_y, z_index, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	updateSQL = `UPDATE image_placements SET
		position_x = COALESCE(?, position_x),
		position_y = COALESCE(?, position_y),
		rotation = COALESCE(?, rotation),
		scale = COALESCE(?, scale),
		tilt_x = COALESCE(?, tilt_x),
		tilt_y = COALESCE(?, tilt_y),
		z_index = COALESCE(?, z_index),
		caption = COALESCE(?, caption)
		WHERE user_id = ? AND filename = ?`

	deleteSQL = `DELETE FROM image_placements WHERE user_id = ? AND filename = ?`
)

type queries struct {
	list, getByFilename, insert, update, delete string
}

func newQueries(style int) queries {
	return queries{
		list:          dbx.Rebind(style, listSQL),
		getByFilename: dbx.Rebind(style, getByFilenameSQL),
		insert:        dbx.Rebind(style, insertSQL),
		update:        dbx.Rebind(style, updateSQL),
		delete:        dbx.Rebind(style, deleteSQL),
	}
}

// SQLRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type SQLRepository struct {
	db    dbx.DBTX
	q     queries
	now   func() time.Time
	newID func() string
}

// NewPostgresRepository constructs a repository bound to the given DBTX
// using Postgres placeholders.
func NewPostgresRepository(db dbx.DBTX) *SQLRepository {
	return newRepository(db, dbx.Dollar)
}

// NewSQLiteRepository constructs a repository bound to the given DBTX
// using SQLite placeholders.
func NewSQLiteRepository(db dbx.DBTX) *SQLRepository {
	return newRepository(db, dbx.Question)
}

func newRepository(db dbx.DBTX, style int) *SQLRepository {
	return &SQLRepository{
		db:    db,
		q:     newQueries(style),
		now:   func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
		newID: func() string { return uuid.NewString() },
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPlacement(s scanner) (*models.Placement, error) {
	var p models.Placement
	if err := s.Scan(
		&p.ID, &p.UserID, &p.Date, &p.Filename, &p.Caption,
		&p.PositionX, &p.PositionY, &p.Rotation, &p.Scale, &p.TiltX, &p.TiltY, &p.ZIndex, &p.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns the collage of (userID, date) bottom to top: ascending
// z_index, equal z_index in insertion order. The result is never nil.
func (r *SQLRepository) List(ctx context.Context, userID, date string) ([]*models.Placement, error) {
	rows, err := r.db.QueryContext(ctx, r.q.list, userID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to select placements: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Placement, 0)
	for rows.Next() {
		p, err := scanPlacement(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Create inserts a placement with the default transform. A filename the
// user already has yields common.ErrDuplicateFilename.
func (r *SQLRepository) Create(ctx context.Context, userID, date, filename, caption string) (*models.Placement, error) {
	p := &models.Placement{
		ID:        r.newID(),
		UserID:    userID,
		Date:      date,
		Filename:  filename,
		Caption:   caption,
		Scale:     models.DefaultScale,
		ZIndex:    models.DefaultZIndex,
		CreatedAt: r.now(),
	}

	_, err := r.db.ExecContext(ctx, r.q.insert,
		p.ID, p.UserID, p.Date, p.Filename, p.Caption,
		p.PositionX, p.PositionY, p.Rotation, p.Scale, p.TiltX, p.TiltY, p.ZIndex, p.CreatedAt)
	if dbx.IsUniqueViolation(err) {
		return nil, common.ErrDuplicateFilename
	}
	if err != nil {
		return nil, fmt.Errorf("insert placement: %w", err)
	}
	return p, nil
}

// GetByFilename returns the user's placement for filename or common.ErrorNotFound.
func (r *SQLRepository) GetByFilename(ctx context.Context, userID, filename string) (*models.Placement, error) {
	p, err := scanPlacement(r.db.QueryRowContext(ctx, r.q.getByFilename, userID, filename))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select placement: %w", err)
	}
	return p, nil
}

// Update applies the non-nil fields of patch in one statement.
func (r *SQLRepository) Update(ctx context.Context, userID, filename string, patch models.PlacementPatch) error {
	res, err := r.db.ExecContext(ctx, r.q.update,
		orNull(patch.PositionX), orNull(patch.PositionY), orNull(patch.Rotation), orNull(patch.Scale),
		orNull(patch.TiltX), orNull(patch.TiltY), orNull(patch.ZIndex), orNull(patch.Caption),
		userID, filename)
	if err != nil {
		return fmt.Errorf("update placement: %w", err)
	}
	return oneRow(res)
}

// Delete removes the placement row. The blob is left alone.
func (r *SQLRepository) Delete(ctx context.Context, userID, filename string) error {
	res, err := r.db.ExecContext(ctx, r.q.delete, userID, filename)
	if err != nil {
		return fmt.Errorf("delete placement: %w", err)
	}
	return oneRow(res)
}

// orNull turns a nil pointer into SQL NULL and dereferences the rest, so
// drivers never see pointer arguments.
func orNull[T any](v *T) any {
	if v == nil {
		return nil
	}
	return *v
}

func oneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}
