package engine

import (
	"bytes"
	"context"
	"errors"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/kinohall/booking-engine/internal/model"
)

// Booking is the result of a successful all-or-nothing booking call.
type Booking struct {
	ID          uuid.UUID
	SessionID   uuid.UUID
	SeatIDs     []uuid.UUID
	HolderToken string
	ConfirmedAt time.Time
}

// Book atomically reserves a set of seats for a session: every seat is
// held, then every hold is confirmed; any failure or a cancelled
// context releases everything acquired in this call before the error
// is returned, so no partial holds survive.
//
// Failure modes: ErrSessionNotBookable when the session is not OPEN,
// SeatUnavailableError naming every seat that could not be held,
// ConflictError when a hold expired between hold and confirm (the
// caller may retry with fresh data), NotFoundError for unknown ids.
//
// Seats are processed in a fixed byte-wise order of their ids so that
// concurrent bookings sharing seats cannot deadlock on per-row locks
// in the underlying store.  After a full success the SOLD_OUT
// projection runs; its failure is logged and never fails the booking.
func (e *Engine) Book(ctx context.Context, sessionID uuid.UUID, seatIDs []uuid.UUID, holderToken string, ttl time.Duration) (*Booking, error) {
	sess, err := e.catalog.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !sess.Status.Bookable() {
		return nil, ErrSessionNotBookable
	}
	ordered := dedupeAndSort(seatIDs)
	if len(ordered) == 0 {
		return nil, &SeatUnavailableError{}
	}

	// Phase 1: hold every seat.  Keep going after a failed hold so the
	// error can name every unavailable seat, not just the first.
	acquired := make([]uuid.UUID, 0, len(ordered))
	var unavailable []uuid.UUID
	for _, seatID := range ordered {
		if _, err := e.Hold(ctx, sessionID, seatID, holderToken, ttl); err != nil {
			var su *SeatUnavailableError
			if errors.As(err, &su) {
				unavailable = append(unavailable, seatID)
				continue
			}
			e.releaseAll(context.WithoutCancel(ctx), sessionID, acquired, holderToken, false)
			return nil, err
		}
		acquired = append(acquired, seatID)
	}
	if len(unavailable) > 0 {
		e.releaseAll(context.WithoutCancel(ctx), sessionID, acquired, holderToken, false)
		return nil, &SeatUnavailableError{SeatIDs: unavailable}
	}
	// Caller cancellation between hold and confirm takes the same
	// rollback path as a failed hold: no leaked HELD records.
	if err := ctx.Err(); err != nil {
		e.releaseAll(context.WithoutCancel(ctx), sessionID, acquired, holderToken, false)
		return nil, err
	}

	// Phase 2: confirm every hold.  A confirm can only fail if the
	// hold expired or was raced mid-call; roll back everything,
	// including reservations confirmed earlier in this loop.
	confirmed := make([]uuid.UUID, 0, len(ordered))
	for _, seatID := range ordered {
		if _, err := e.Confirm(ctx, sessionID, seatID, holderToken); err != nil {
			held := acquired[len(confirmed):]
			rollbackCtx := context.WithoutCancel(ctx)
			e.releaseAll(rollbackCtx, sessionID, held, holderToken, false)
			e.releaseAll(rollbackCtx, sessionID, confirmed, holderToken, true)
			// A confirm that failed because the caller cancelled is the
			// caller's own cancellation, not a lost race.
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			var conflict *ConflictError
			if errors.As(err, &conflict) {
				return nil, err
			}
			return nil, &ConflictError{SessionID: sessionID}
		}
		confirmed = append(confirmed, seatID)
	}

	e.projectSoldOut(ctx, sess)

	return &Booking{
		ID:          uuid.New(),
		SessionID:   sessionID,
		SeatIDs:     ordered,
		HolderToken: holderToken,
		ConfirmedAt: e.now().UTC(),
	}, nil
}

// releaseAll rolls back holds acquired in the current booking call.
// cancelReserved selects the rollback path for holds already confirmed
// in this call.  Rollback errors are logged, not propagated: the
// original failure is the one the caller needs, and expiry bounds any
// record a failed release leaves behind.
func (e *Engine) releaseAll(ctx context.Context, sessionID uuid.UUID, seatIDs []uuid.UUID, token string, cancelReserved bool) {
	for _, seatID := range seatIDs {
		var err error
		if cancelReserved {
			err = e.cancelReservation(ctx, sessionID, seatID, token)
		} else {
			err = e.Release(ctx, sessionID, seatID, token)
		}
		if err != nil {
			log.Printf("engine: rollback of seat %s for session %s failed: %v", seatID, sessionID, err)
		}
	}
}

// projectSoldOut flips the session to SOLD_OUT when every bookable
// seat carries a live hold.  The booking itself is the source of
// truth; this flag is a convenience projection, so failures are only
// logged.
func (e *Engine) projectSoldOut(ctx context.Context, sess *model.Session) {
	if e.sessions == nil {
		return
	}
	capacity, err := e.Capacity(ctx, sess.HallID)
	if err != nil {
		log.Printf("engine: capacity lookup for hall %s failed: %v", sess.HallID, err)
		return
	}
	occupied, err := e.occupiedCount(ctx, sess.ID)
	if err != nil {
		log.Printf("engine: occupancy count for session %s failed: %v", sess.ID, err)
		return
	}
	if occupied < capacity {
		return
	}
	if err := e.sessions.SetSessionStatus(ctx, sess.ID, model.SessionSoldOut); err != nil {
		log.Printf("engine: sold-out projection for session %s failed: %v", sess.ID, err)
	}
}

// dedupeAndSort removes zero and duplicate ids and orders the rest
// byte-wise, giving every booking call the same traversal order.
func dedupeAndSort(seatIDs []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(seatIDs))
	out := make([]uuid.UUID, 0, len(seatIDs))
	for _, id := range seatIDs {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool {
		return bytes.Compare(out[i][:], out[j][:]) < 0
	})
	return out
}
