package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/kinohall/booking-engine/internal/model"
)

// HallRepo manages persistence for halls.
type HallRepo struct {
	db *sql.DB
}

// NewHallRepo returns a new HallRepo bound to the provided database.
func NewHallRepo(db *sql.DB) *HallRepo { return &HallRepo{db: db} }

// Create inserts a new hall.  The caller supplies a validated
// model.Hall; timestamps default in the database.
func (r *HallRepo) Create(ctx context.Context, h *model.Hall) error {
	const q = `INSERT INTO halls (id, name, is_active, total_capacity, grid_rows, grid_cols, buffer_minutes)
			   VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q,
		h.ID.String(), h.Name, h.IsActive, h.TotalCapacity, h.GridRows, h.GridCols, h.BufferMinutes)
	return err
}

// GetByID loads a hall by its identifier.  Returns ErrNotFound when
// the hall does not exist.
func (r *HallRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Hall, error) {
	const q = `SELECT id, name, is_active, total_capacity, grid_rows, grid_cols, buffer_minutes, created_at, updated_at
			   FROM halls WHERE id = ?`
	var (
		h     model.Hall
		rawID string
	)
	err := r.db.QueryRowContext(ctx, q, id.String()).Scan(
		&rawID, &h.Name, &h.IsActive, &h.TotalCapacity, &h.GridRows, &h.GridCols, &h.BufferMinutes,
		&h.CreatedAt, &h.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if h.ID, err = uuid.Parse(rawID); err != nil {
		return nil, err
	}
	return &h, nil
}

// ListActive returns all active halls ordered by name.
func (r *HallRepo) ListActive(ctx context.Context) ([]model.Hall, error) {
	const q = `SELECT id, name, is_active, total_capacity, grid_rows, grid_cols, buffer_minutes, created_at, updated_at
			   FROM halls WHERE is_active = 1 ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var halls []model.Hall
	for rows.Next() {
		var (
			h     model.Hall
			rawID string
		)
		if err := rows.Scan(&rawID, &h.Name, &h.IsActive, &h.TotalCapacity, &h.GridRows, &h.GridCols,
			&h.BufferMinutes, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		if h.ID, err = uuid.Parse(rawID); err != nil {
			return nil, err
		}
		halls = append(halls, h)
	}
	return halls, rows.Err()
}

// SetActive flips the hall's active flag.  Returns ErrNotFound when
// the hall does not exist.
func (r *HallRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	const q = `UPDATE halls SET is_active = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, active, id.String())
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
