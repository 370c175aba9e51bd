package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"github.com/kinohall/booking-engine/internal/engine"
)

// SeatHoldRepo is the MySQL implementation of engine.HoldStore.  The
// seat_holds table keeps one row per (session_id, seat_id) pair (the
// most recent hold) guarded by a unique key.  Serialization per pair
// comes from SELECT ... FOR UPDATE row locks plus the unique key for
// the create-if-absent race, which together give the compare-and-set
// semantics the engine requires.  The engine supplies `now` so that
// liveness comparisons never depend on database clock skew.
type SeatHoldRepo struct {
	db *sql.DB
}

// NewSeatHoldRepo returns a new SeatHoldRepo bound to the provided
// database.
func NewSeatHoldRepo(db *sql.DB) *SeatHoldRepo { return &SeatHoldRepo{db: db} }

// Acquire stores h as the live hold for its pair iff no live hold
// exists, overwriting a released or expired predecessor.
func (r *SeatHoldRepo) Acquire(ctx context.Context, h *engine.SeatHold, now time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const sel = `SELECT state, expires_at FROM seat_holds WHERE session_id = ? AND seat_id = ? FOR UPDATE`
	var (
		state     string
		expiresAt time.Time
	)
	err = tx.QueryRowContext(ctx, sel, h.SessionID.String(), h.SeatID.String()).Scan(&state, &expiresAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		const ins = `INSERT INTO seat_holds (id, session_id, seat_id, holder_token, state, expires_at, created_at, updated_at)
					 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
		if _, err := tx.ExecContext(ctx, ins,
			h.ID.String(), h.SessionID.String(), h.SeatID.String(), h.Token, string(h.State),
			h.ExpiresAt.UTC().Format(dbTime), h.CreatedAt.UTC().Format(dbTime), h.UpdatedAt.UTC().Format(dbTime),
		); err != nil {
			// A concurrent insert on the same pair trips the unique
			// key; that racer won the seat.
			var me *mysql.MySQLError
			if errors.As(err, &me) && me.Number == 1062 {
				return engine.ErrHoldConflict
			}
			return err
		}
	case err != nil:
		return err
	default:
		if holdLive(engine.HoldState(state), expiresAt, now) {
			return engine.ErrHoldConflict
		}
		const upd = `UPDATE seat_holds
					 SET id = ?, holder_token = ?, state = ?, expires_at = ?, created_at = ?, updated_at = ?
					 WHERE session_id = ? AND seat_id = ?`
		if _, err := tx.ExecContext(ctx, upd,
			h.ID.String(), h.Token, string(h.State),
			h.ExpiresAt.UTC().Format(dbTime), h.CreatedAt.UTC().Format(dbTime), h.UpdatedAt.UTC().Format(dbTime),
			h.SessionID.String(), h.SeatID.String(),
		); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Find returns the most recent hold record for the pair, or nil when
// the pair has never been held.
func (r *SeatHoldRepo) Find(ctx context.Context, sessionID, seatID uuid.UUID) (*engine.SeatHold, error) {
	const q = `SELECT id, session_id, seat_id, holder_token, state, expires_at, created_at, updated_at
			   FROM seat_holds WHERE session_id = ? AND seat_id = ?`
	row := r.db.QueryRowContext(ctx, q, sessionID.String(), seatID.String())
	h, err := scanSeatHold(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return h, err
}

// Transition flips the stored record from one state to another iff it
// matches the expected state and token.
func (r *SeatHoldRepo) Transition(ctx context.Context, sessionID, seatID uuid.UUID, token string, from, to engine.HoldState, now time.Time) (*engine.SeatHold, error) {
	const q = `UPDATE seat_holds
			   SET state = ?, updated_at = ?
			   WHERE session_id = ? AND seat_id = ? AND holder_token = ? AND state = ?`
	res, err := r.db.ExecContext(ctx, q,
		string(to), now.UTC().Format(dbTime),
		sessionID.String(), seatID.String(), token, string(from))
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, engine.ErrStaleHold
	}
	return r.Find(ctx, sessionID, seatID)
}

// ListForSession returns the most recent hold record per seat for the
// session.
func (r *SeatHoldRepo) ListForSession(ctx context.Context, sessionID uuid.UUID) ([]engine.SeatHold, error) {
	const q = `SELECT id, session_id, seat_id, holder_token, state, expires_at, created_at, updated_at
			   FROM seat_holds WHERE session_id = ?`
	rows, err := r.db.QueryContext(ctx, q, sessionID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var holds []engine.SeatHold
	for rows.Next() {
		h, err := scanSeatHold(rows)
		if err != nil {
			return nil, err
		}
		holds = append(holds, *h)
	}
	return holds, rows.Err()
}

// DeleteStale removes rows that stopped being live before the cutoff.
// Correctness never depends on this; it only keeps the table small.
// A periodic job may call it with a cutoff comfortably in the past.
func (r *SeatHoldRepo) DeleteStale(ctx context.Context, cutoff time.Time) (int64, error) {
	const q = `DELETE FROM seat_holds
			   WHERE state = 'RELEASED' OR (state = 'HELD' AND expires_at <= ?)`
	res, err := r.db.ExecContext(ctx, q, cutoff.UTC().Format(dbTime))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func holdLive(state engine.HoldState, expiresAt, now time.Time) bool {
	switch state {
	case engine.HoldReserved:
		return true
	case engine.HoldHeld:
		return expiresAt.After(now)
	default:
		return false
	}
}

func scanSeatHold(sc scanner) (*engine.SeatHold, error) {
	var (
		h                          engine.SeatHold
		rawID, rawSession, rawSeat string
		state                      string
	)
	if err := sc.Scan(&rawID, &rawSession, &rawSeat, &h.Token, &state,
		&h.ExpiresAt, &h.CreatedAt, &h.UpdatedAt); err != nil {
		return nil, err
	}
	var err error
	if h.ID, err = uuid.Parse(rawID); err != nil {
		return nil, err
	}
	if h.SessionID, err = uuid.Parse(rawSession); err != nil {
		return nil, err
	}
	if h.SeatID, err = uuid.Parse(rawSeat); err != nil {
		return nil, err
	}
	h.State = engine.HoldState(state)
	return &h, nil
}
