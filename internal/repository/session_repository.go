package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/kinohall/booking-engine/internal/model"
)

// SessionRepo manages persistence for scheduled sessions.
type SessionRepo struct {
	db *sql.DB
}

// NewSessionRepo returns a new SessionRepo bound to the provided
// database.
func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{db: db} }

// Create inserts a new session.  Scheduling conflicts must have been
// ruled out by the engine's conflict checker before calling this.
func (r *SessionRepo) Create(ctx context.Context, s *model.Session) error {
	const q = `INSERT INTO sessions (id, movie_id, hall_id, pricing_id, start_time, end_time, status)
			   VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q,
		s.ID.String(), s.MovieID.String(), s.HallID.String(), s.PricingID.String(),
		s.StartTime.UTC().Format(dbTime), s.EndTime.UTC().Format(dbTime), string(s.Status))
	return err
}

// GetByID loads a session by its identifier.  Returns ErrNotFound
// when the session does not exist.
func (r *SessionRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Session, error) {
	const q = `SELECT id, movie_id, hall_id, pricing_id, start_time, end_time, status, created_at, updated_at
			   FROM sessions WHERE id = ?`
	row := r.db.QueryRowContext(ctx, q, id.String())
	s, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return s, err
}

// ListByHall returns all sessions scheduled in a hall ordered by
// start time.  Callers filter by status as needed.
func (r *SessionRepo) ListByHall(ctx context.Context, hallID uuid.UUID) ([]model.Session, error) {
	const q = `SELECT id, movie_id, hall_id, pricing_id, start_time, end_time, status, created_at, updated_at
			   FROM sessions WHERE hall_id = ? ORDER BY start_time`
	rows, err := r.db.QueryContext(ctx, q, hallID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var sessions []model.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *s)
	}
	return sessions, rows.Err()
}

// ListUpcoming returns sessions starting after the given instant,
// soonest first, across all halls.
func (r *SessionRepo) ListUpcoming(ctx context.Context, after time.Time) ([]model.Session, error) {
	const q = `SELECT id, movie_id, hall_id, pricing_id, start_time, end_time, status, created_at, updated_at
			   FROM sessions WHERE start_time > ? ORDER BY start_time`
	rows, err := r.db.QueryContext(ctx, q, after.UTC().Format(dbTime))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var sessions []model.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *s)
	}
	return sessions, rows.Err()
}

// Reschedule updates a session's slot and status.  The engine's
// conflict checker must have approved the new slot (excluding this
// session).  Returns ErrNotFound when the session does not exist.
func (r *SessionRepo) Reschedule(ctx context.Context, id uuid.UUID, start, end time.Time, status model.SessionStatus) error {
	const q = `UPDATE sessions
			   SET start_time = ?, end_time = ?, status = ?, updated_at = CURRENT_TIMESTAMP
			   WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q,
		start.UTC().Format(dbTime), end.UTC().Format(dbTime), string(status), id.String())
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

// SetStatus updates only the session status.  Used by the engine's
// SOLD_OUT projection and by staff lifecycle transitions.
func (r *SessionRepo) SetStatus(ctx context.Context, id uuid.UUID, status model.SessionStatus) error {
	const q = `UPDATE sessions SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
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

func scanSession(sc scanner) (*model.Session, error) {
	var (
		s                                   model.Session
		rawID, rawMovie, rawHall, rawPrice  string
		status                              string
	)
	if err := sc.Scan(&rawID, &rawMovie, &rawHall, &rawPrice,
		&s.StartTime, &s.EndTime, &status, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	var err error
	if s.ID, err = uuid.Parse(rawID); err != nil {
		return nil, err
	}
	if s.MovieID, err = uuid.Parse(rawMovie); err != nil {
		return nil, err
	}
	if s.HallID, err = uuid.Parse(rawHall); err != nil {
		return nil, err
	}
	if s.PricingID, err = uuid.Parse(rawPrice); err != nil {
		return nil, err
	}
	s.Status = model.SessionStatus(status)
	return &s, nil
}
