package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/kinohall/booking-engine/internal/model"
)

// SeatRepo manages persistence for seats and seat types.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo returns a new SeatRepo bound to the provided database.
func NewSeatRepo(db *sql.DB) *SeatRepo { return &SeatRepo{db: db} }

// CreateBulk inserts multiple seats in one statement, typically a
// whole hall grid.  Passing an empty slice has no effect.
func (r *SeatRepo) CreateBulk(ctx context.Context, seats []model.Seat) error {
	if len(seats) == 0 {
		return nil
	}
	query := `INSERT INTO seats (id, hall_id, row_label, seat_number, grid_x, grid_y, status, seat_type_id) VALUES `
	args := make([]interface{}, 0, len(seats)*8)
	for i, s := range seats {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?, ?, ?, ?)"
		args = append(args, s.ID.String(), s.HallID.String(), s.RowLabel, s.Number,
			s.GridX, s.GridY, string(s.Status), s.SeatTypeID.String())
	}
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// ListByHall returns every seat of a hall in stable (row_label,
// seat_number) order, including broken seats.
func (r *SeatRepo) ListByHall(ctx context.Context, hallID uuid.UUID) ([]model.Seat, error) {
	const q = `SELECT id, hall_id, row_label, seat_number, grid_x, grid_y, status, seat_type_id, created_at, updated_at
			   FROM seats WHERE hall_id = ? ORDER BY row_label, seat_number`
	rows, err := r.db.QueryContext(ctx, q, hallID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var seats []model.Seat
	for rows.Next() {
		s, err := scanSeat(rows)
		if err != nil {
			return nil, err
		}
		seats = append(seats, *s)
	}
	return seats, rows.Err()
}

// GetByID loads a single seat.  Returns ErrNotFound when the seat
// does not exist.
func (r *SeatRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Seat, error) {
	const q = `SELECT id, hall_id, row_label, seat_number, grid_x, grid_y, status, seat_type_id, created_at, updated_at
			   FROM seats WHERE id = ?`
	row := r.db.QueryRowContext(ctx, q, id.String())
	s, err := scanSeat(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return s, err
}

// SetStatus changes a seat's physical status (e.g. marking it BROKEN
// for maintenance).  Returns ErrNotFound when the seat does not exist.
func (r *SeatRepo) SetStatus(ctx context.Context, id uuid.UUID, status model.SeatStatus) error {
	const q = `UPDATE seats SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, string(status), id.String())
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

// CreateSeatType inserts a seat type.
func (r *SeatRepo) CreateSeatType(ctx context.Context, st *model.SeatType) error {
	const q = `INSERT INTO seat_types (id, name, description) VALUES (?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q, st.ID.String(), st.Name, st.Description)
	return err
}

// ListSeatTypes returns all seat types ordered by name.
func (r *SeatRepo) ListSeatTypes(ctx context.Context) ([]model.SeatType, error) {
	const q = `SELECT id, name, description, created_at, updated_at FROM seat_types ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var types []model.SeatType
	for rows.Next() {
		var (
			st    model.SeatType
			rawID string
		)
		if err := rows.Scan(&rawID, &st.Name, &st.Description, &st.CreatedAt, &st.UpdatedAt); err != nil {
			return nil, err
		}
		if st.ID, err = uuid.Parse(rawID); err != nil {
			return nil, err
		}
		types = append(types, st)
	}
	return types, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSeat(sc scanner) (*model.Seat, error) {
	var (
		s                        model.Seat
		rawID, rawHall, rawType  string
		status                   string
	)
	if err := sc.Scan(&rawID, &rawHall, &s.RowLabel, &s.Number, &s.GridX, &s.GridY,
		&status, &rawType, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	var err error
	if s.ID, err = uuid.Parse(rawID); err != nil {
		return nil, err
	}
	if s.HallID, err = uuid.Parse(rawHall); err != nil {
		return nil, err
	}
	if s.SeatTypeID, err = uuid.Parse(rawType); err != nil {
		return nil, err
	}
	s.Status = model.SeatStatus(status)
	return &s, nil
}
