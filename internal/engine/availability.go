package engine

import (
	"context"

	"github.com/google/uuid"
)

// SeatAvailability is the per-session effective status of a seat,
// derived from live holds and the seat's physical condition.  It is
// never stored; recomputing it from SeatHold records on every read
// avoids a second source of truth that could drift.
type SeatAvailability string

const (
	SeatStatusFree     SeatAvailability = "FREE"
	SeatStatusHeld     SeatAvailability = "HELD"
	SeatStatusReserved SeatAvailability = "RESERVED"
	// SeatStatusBlocked marks physically broken seats.  They stay in
	// the snapshot so layouts can render them, but they are never
	// free and never counted as bookable.
	SeatStatusBlocked SeatAvailability = "BLOCKED"
)

// Snapshot returns the effective status of every seat in the session's
// hall.  Seats without a live hold are FREE (or BLOCKED when broken);
// expired and released holds are ignored.
func (e *Engine) Snapshot(ctx context.Context, sessionID uuid.UUID) (map[uuid.UUID]SeatAvailability, error) {
	sess, err := e.catalog.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	seats, err := e.catalog.ListSeats(ctx, sess.HallID)
	if err != nil {
		return nil, err
	}
	holds, err := e.holds.ListForSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	bySeat := make(map[uuid.UUID]*SeatHold, len(holds))
	for i := range holds {
		bySeat[holds[i].SeatID] = &holds[i]
	}
	now := e.now().UTC()
	snap := make(map[uuid.UUID]SeatAvailability, len(seats))
	for i := range seats {
		snap[seats[i].ID] = effectiveStatus(&seats[i], bySeat[seats[i].ID], now)
	}
	return snap, nil
}

// IsFree reports whether a seat can be held right now: physically
// bookable and without a live hold.  A HELD record whose expiry has
// passed counts as free even before any cleanup runs.
func (e *Engine) IsFree(ctx context.Context, sessionID, seatID uuid.UUID) (bool, error) {
	_, seat, err := e.seatForSession(ctx, sessionID, seatID)
	if err != nil {
		return false, err
	}
	if !seat.Bookable() {
		return false, nil
	}
	h, err := e.holds.Find(ctx, sessionID, seatID)
	if err != nil {
		return false, err
	}
	return h == nil || !h.Live(e.now().UTC()), nil
}

// occupiedCount counts seats with a live hold.  Used by the
// coordinator for the SOLD_OUT projection.
func (e *Engine) occupiedCount(ctx context.Context, sessionID uuid.UUID) (int, error) {
	holds, err := e.holds.ListForSession(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	now := e.now().UTC()
	n := 0
	for i := range holds {
		if holds[i].Live(now) {
			n++
		}
	}
	return n, nil
}
