package engine

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/kinohall/booking-engine/internal/model"
)

// HoldState is the lifecycle state of a seat hold.  The absence of a
// record means FREE; a created hold moves HELD → RESERVED on confirm
// or HELD → RELEASED on release, expiry or rollback.  RESERVED is
// terminal for the hold instance: a later cancellation produces a new
// RELEASED record rather than rewriting history.
type HoldState string

const (
	HoldHeld     HoldState = "HELD"
	HoldReserved HoldState = "RESERVED"
	HoldReleased HoldState = "RELEASED"
)

// SeatHold is the ephemeral working state of the engine for one seat
// in one session.  It is not part of the persisted catalog; the
// booking coordinator creates it and it dies on expiry, release or
// confirmation.
//
// Fields:
//  ID        – identifier of this hold instance.
//  SessionID – session for which the seat is held.
//  SeatID    – seat being held.
//  Token     – opaque holder token returned to the client.
//  State     – HELD, RESERVED or RELEASED.
//  ExpiresAt – when a HELD record stops being live.
type SeatHold struct {
	ID        uuid.UUID
	SessionID uuid.UUID
	SeatID    uuid.UUID
	Token     string
	State     HoldState
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Live reports whether the hold blocks the seat at the given instant.
// Expiry is evaluated lazily at read and transition time; no
// background sweep is needed for correctness.
func (h *SeatHold) Live(now time.Time) bool {
	switch h.State {
	case HoldReserved:
		return true
	case HoldHeld:
		return h.ExpiresAt.After(now)
	default:
		return false
	}
}

// Hold places a temporary claim on a seat for a session.  It fails
// with SeatUnavailableError when the seat's effective status is not
// FREE (live hold by anyone, or physically BROKEN) and with
// NotFoundError for an unknown session or seat.  A non-positive ttl
// falls back to the engine default.
func (e *Engine) Hold(ctx context.Context, sessionID, seatID uuid.UUID, token string, ttl time.Duration) (*SeatHold, error) {
	_, seat, err := e.seatForSession(ctx, sessionID, seatID)
	if err != nil {
		return nil, err
	}
	if !seat.Bookable() {
		return nil, &SeatUnavailableError{SeatIDs: []uuid.UUID{seatID}}
	}
	if ttl <= 0 {
		ttl = e.defaultTTL
	}
	now := e.now().UTC()
	h := &SeatHold{
		ID:        uuid.New(),
		SessionID: sessionID,
		SeatID:    seatID,
		Token:     token,
		State:     HoldHeld,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := e.holds.Acquire(ctx, h, now); err != nil {
		if errors.Is(err, ErrHoldConflict) {
			return nil, &SeatUnavailableError{SeatIDs: []uuid.UUID{seatID}}
		}
		return nil, err
	}
	return h, nil
}

// Confirm finalises a hold into a reservation.  It fails with
// ErrHoldNotFound when no hold exists for the seat, ErrTokenMismatch
// when the hold belongs to another token, and ErrHoldExpired when the
// hold's expiry has passed.  Confirming an already reserved hold with
// the same token is a no-op returning the stored record.
func (e *Engine) Confirm(ctx context.Context, sessionID, seatID uuid.UUID, token string) (*SeatHold, error) {
	h, err := e.holds.Find(ctx, sessionID, seatID)
	if err != nil {
		return nil, err
	}
	if h == nil || h.State == HoldReleased {
		return nil, ErrHoldNotFound
	}
	if h.Token != token {
		return nil, ErrTokenMismatch
	}
	if h.State == HoldReserved {
		return h, nil
	}
	now := e.now().UTC()
	if !h.ExpiresAt.After(now) {
		return nil, ErrHoldExpired
	}
	confirmed, err := e.holds.Transition(ctx, sessionID, seatID, token, HoldHeld, HoldReserved, now)
	if err != nil {
		if errors.Is(err, ErrStaleHold) {
			// Lost a race between Find and Transition.
			return nil, &ConflictError{SessionID: sessionID}
		}
		return nil, err
	}
	return confirmed, nil
}

// Release returns a held seat to FREE.  It is idempotent: releasing a
// seat that has no live hold, an already released hold, or a hold
// owned by a different token is a no-op.  RESERVED holds are never
// released here; undoing a confirmed reservation is a cancellation,
// which is a separate operation.
func (e *Engine) Release(ctx context.Context, sessionID, seatID uuid.UUID, token string) error {
	h, err := e.holds.Find(ctx, sessionID, seatID)
	if err != nil {
		return err
	}
	if h == nil || h.State != HoldHeld || h.Token != token {
		return nil
	}
	_, err = e.holds.Transition(ctx, sessionID, seatID, token, HoldHeld, HoldReleased, e.now().UTC())
	if errors.Is(err, ErrStaleHold) {
		// Someone else moved the hold first; released either way.
		return nil
	}
	return err
}

// HoldsForHolder returns the holder's live holds and reservations for
// a session, ordered as the store returns them.  Expired and released
// records are filtered out; an unknown session yields a NotFoundError.
func (e *Engine) HoldsForHolder(ctx context.Context, sessionID uuid.UUID, token string) ([]SeatHold, error) {
	if _, err := e.catalog.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}
	holds, err := e.holds.ListForSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	now := e.now().UTC()
	var mine []SeatHold
	for i := range holds {
		if holds[i].Token == token && holds[i].Live(now) {
			mine = append(mine, holds[i])
		}
	}
	return mine, nil
}

// cancelReservation rolls back a reservation confirmed earlier in the
// same booking call.  It exists solely for the coordinator's rollback
// path and must not be reachable from the public Release.
func (e *Engine) cancelReservation(ctx context.Context, sessionID, seatID uuid.UUID, token string) error {
	_, err := e.holds.Transition(ctx, sessionID, seatID, token, HoldReserved, HoldReleased, e.now().UTC())
	if errors.Is(err, ErrStaleHold) {
		return nil
	}
	return err
}

// effectiveStatus derives a seat's availability from its physical
// condition and the most recent hold record.
func effectiveStatus(seat *model.Seat, h *SeatHold, now time.Time) SeatAvailability {
	if h != nil && h.Live(now) {
		if h.State == HoldReserved {
			return SeatStatusReserved
		}
		return SeatStatusHeld
	}
	if seat != nil && !seat.Bookable() {
		return SeatStatusBlocked
	}
	return SeatStatusFree
}
